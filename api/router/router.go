package router

import (
	"github.com/gin-gonic/gin"

	"tradedoc/api/handler"
)

func RegisterRoutes(r *gin.Engine, docH *handler.DocumentHandler) {
	api := r.Group("/api/v1")
	{
		document := api.Group("/document")
		{
			document.POST("/generate", docH.Generate)
		}
		template := api.Group("/template")
		{
			template.GET("/list", docH.ListTemplates)
			template.POST("/register", docH.RegisterTemplate)
			template.GET("/field/list", docH.ListMappings)
			template.POST("/field/upsert", docH.UpsertMappings)
		}
	}
}
