package apigateway

import (
	"net/http"

	"interview-platform/backend/internal/answermanagement"
	"interview-platform/backend/internal/diagnostics"
	"interview-platform/backend/internal/interviewmanagement"

	"github.com/gin-gonic/gin"
)

// RouterDeps holds the handler sets mounted by SetupRouter.
type RouterDeps struct {
	Answers     *answermanagement.Handlers
	Interviews  *interviewmanagement.Handlers
	Diagnostics *diagnostics.Handlers
}

// SetupRouter initializes the main Gin router. Candidate, question, answer and
// result routes are mounted both at the root and under /api.
func SetupRouter(deps RouterDeps) *gin.Engine {
	router := gin.Default()
	router.Use(CORSMiddleware())

	for _, group := range []*gin.RouterGroup{&router.RouterGroup, router.Group("/api")} {
		group.GET("/candidates", deps.Interviews.ListCandidatesHandler)
		group.POST("/candidates", deps.Interviews.CreateCandidateHandler)
		group.GET("/questions", deps.Interviews.GetQuestionsHandler)
		group.POST("/answer", deps.Answers.SubmitAnswerHandler)
		group.GET("/results", deps.Interviews.GetResultsHandler)
	}

	router.GET("/media/video/:filename", deps.Answers.ServeVideoHandler)

	rubricRoutes := router.Group("/rubric")
	{
		rubricRoutes.GET("/:token", deps.Interviews.GetRubricHandler)
		rubricRoutes.POST("", deps.Interviews.SaveRubricHandler)
	}

	router.GET("/health", deps.Diagnostics.HealthHandler)
	debugRoutes := router.Group("/debug")
	{
		debugRoutes.GET("/openai", deps.Diagnostics.CapabilitiesHandler)
		debugRoutes.GET("/metrics", deps.Diagnostics.MetricsHandler)
	}

	return router
}

// CORSMiddleware allows any origin, as the interview frontend is served separately.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin == "" {
			origin = "*"
		}
		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "*")
		c.Header("Vary", "Origin")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
