package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dpkirschner/teach-me/internal/api/handler"
)

// SetupRouter configures and returns the Gin router with all routes.
func SetupRouter(deps *handler.Dependencies) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(LoggerMiddleware(deps.Logger))
	r.Use(CORSMiddleware())

	r.GET("/health", func(c *gin.Context) {
		if deps.DBClient != nil {
			if err := deps.DBClient.HealthCheck(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status": "unhealthy",
					"detail": "database unreachable",
				})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "teach-me-api",
		})
	})

	jobHandler := handler.NewJobHandler(deps)

	jobs := r.Group("/jobs")
	{
		jobs.POST("/", jobHandler.CreateJob)
		jobs.GET("/", jobHandler.ListJobs)
		jobs.GET("/:job_id", jobHandler.GetJob)
		jobs.PUT("/:job_id", jobHandler.UpdateJob)
		jobs.DELETE("/:job_id", jobHandler.DeleteJob)
	}

	return r
}
