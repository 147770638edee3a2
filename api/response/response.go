package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	CodeOK    = 0  // 成功
	CodeFail  = -1 // 失败
	CodeQuota = -2 // 生成服务额度不足，需要调用方介入
)

type Response struct {
	Code int         `json:"code"`
	Msg  string      `json:"msg"`
	Data interface{} `json:"data,omitempty"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code: CodeOK,
		Msg:  "success",
		Data: data,
	})
}

func Fail(c *gin.Context, msg string) {
	FailWith(c, CodeFail, msg)
}

func FailWith(c *gin.Context, code int, msg string) {
	c.JSON(http.StatusOK, Response{
		Code: code,
		Msg:  msg,
		Data: nil,
	})
}
