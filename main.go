package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"tradedoc/api/handler"
	"tradedoc/api/router"
	"tradedoc/job"
	"tradedoc/logic/chat"
	"tradedoc/logic/render"
	"tradedoc/service"
	"tradedoc/storage/postgres"
	"tradedoc/vars"
)

func main() {
	ctx := context.Background()
	_ = godotenv.Load()

	// 1. 初始化 DB
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		vars.PGHOST, vars.PGUSER, vars.PGPWD, vars.PGDB, vars.PGPORT)
	db, err := postgres.InitDB(dsn)
	if err != nil {
		panic(err)
	}

	// 2. 初始化仓储
	rowRepo := postgres.NewRowRepo(db)
	tplRepo := postgres.NewTemplateRepo(db)

	// 启动定时任务
	job.StartCronJob(tplRepo)

	// 3. 初始化 LLM Model（生成兜底用）
	model := chat.CreateChatModel(ctx)
	log.Printf("✅ 聊天模型已就绪 (backend=%s)", vars.CHAT_BACKEND)

	// 4. 初始化 Service (业务层)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	toolchain := render.NewToolchain()
	fillSvc := service.NewFillService(tplRepo, rowRepo, model, toolchain, rng)
	tplSvc := service.NewTemplateService(tplRepo)

	// 5. 初始化 Handler (API 层)
	docHandler := handler.NewDocumentHandler(fillSvc, tplSvc)

	// 6. 启动 Web Server
	r := gin.Default()
	router.RegisterRoutes(r, docHandler)

	log.Println("Server running on :8082")
	r.Run(":8082")
}
