package chat

import (
	"context"
	"log"
	"time"

	"github.com/cloudwego/eino-ext/components/model/ollama"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"

	"tradedoc/vars"
)

// CreateChatModel 按环境变量选聊天后端：openai（线上）/ ollama（本地）
func CreateChatModel(ctx context.Context) model.ToolCallingChatModel {
	if vars.CHAT_BACKEND == vars.BackendOllama {
		return CreateOllamaChatModel(ctx, vars.OLLAMA_PATH, vars.OLLAMA_MODEL)
	}
	return CreateOpenAIChatModel(ctx, vars.OPENAI_KEY, vars.OPENAI_MODEL)
}

func CreateOpenAIChatModel(ctx context.Context, apiKey string, modelName string) model.ToolCallingChatModel {
	timeout := 60 * time.Second
	cfg := &openai.ChatModelConfig{
		APIKey:  apiKey,
		Model:   modelName,
		Timeout: timeout,
	}
	if vars.OPENAI_BASE != "" {
		cfg.BaseURL = vars.OPENAI_BASE
	}
	chatModel, err := openai.NewChatModel(ctx, cfg)
	if err != nil {
		log.Fatalf("create openai chat model failed: %v", err)
	}
	return chatModel
}

func CreateOllamaChatModel(ctx context.Context, url string, model string) model.ToolCallingChatModel {
	chatModel, err := ollama.NewChatModel(ctx, &ollama.ChatModelConfig{
		BaseURL: url,   // Ollama 服务地址
		Model:   model, // 模型名称
	})
	if err != nil {
		log.Fatalf("create ollama chat model failed: %v", err)
	}
	return chatModel
}
