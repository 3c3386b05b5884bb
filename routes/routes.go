package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/THURZIN2905/toperdido/controllers"
	"github.com/THURZIN2905/toperdido/metrics"
	"github.com/THURZIN2905/toperdido/middleware"
)

type Dependencies struct {
	Questionnaire *controllers.QuestionnaireController
	Export        *controllers.ExportController
	Catalog       *controllers.CatalogController
	Health        gin.HandlerFunc
	SubmitLimiter *middleware.IPRateLimiter
	JWTSecret     string
	AdminKeyHash  string
}

func SetupRoutes(r *gin.Engine, d Dependencies) {
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})
	if d.Health != nil {
		r.GET("/health", d.Health)
	}
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	{
		q := api.Group("/questionnaire")
		{
			q.GET("/questions", d.Questionnaire.ListQuestions)
			submit := []gin.HandlerFunc{middleware.OptionalAuthJWT(d.JWTSecret)}
			if d.SubmitLimiter != nil {
				submit = append(submit, middleware.RateLimitByIP(d.SubmitLimiter))
			}
			submit = append(submit, d.Questionnaire.Submit)
			q.POST("/submit", submit...)
			q.GET("/result/:session_id", d.Questionnaire.GetResult)
		}

		admin := api.Group("/admin")
		admin.Use(middleware.RequireAdminKey(d.AdminKeyHash))
		{
			admin.POST("/export", d.Export.CreateExport)
			admin.GET("/exports/:job_id", d.Export.GetExport)

			admin.GET("/dashboard", d.Catalog.Dashboard)
			admin.GET("/questions", d.Catalog.ListAllQuestions)
			admin.POST("/questions", d.Catalog.CreateQuestion)
			admin.PUT("/questions/:id", d.Catalog.UpdateQuestion)
			admin.DELETE("/questions/:id", d.Catalog.DeleteQuestion)
		}
	}
}
