package api

import (
	"errors"
	"net/http"

	"biaslens/analysis"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// RegisterAnalysisRoutes registers the analysis endpoint.
func RegisterAnalysisRoutes(r *gin.Engine, runner *analysis.Runner) {
	r.POST("/analyze", func(c *gin.Context) { handleAnalyze(c, runner) })
}

// AnalyzeRequest is the JSON body of POST /analyze.
type AnalyzeRequest struct {
	Topic string `json:"topic" binding:"required"`
}

// handleAnalyze runs the full pipeline for the requested topic. A topic
// yielding no articles maps to 404 with the fixed error payload; any
// other failure surfaces as a generic server error without leaking
// internals.
func handleAnalyze(c *gin.Context, runner *analysis.Runner) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "JSON body must contain a 'topic' key."})
		return
	}

	log.Printf("Received analysis request for topic: %q", req.Topic)

	result, err := runner.Analyze(c.Request.Context(), req.Topic)
	if err != nil {
		if errors.Is(err, analysis.ErrNoArticles) {
			c.JSON(http.StatusNotFound, gin.H{"error": analysis.NoArticlesMessage})
			return
		}
		log.Printf("An unexpected error occurred during analysis: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An internal server error occurred."})
		return
	}

	c.JSON(http.StatusOK, result)
}
