package api

import (
	"biaslens/analysis"

	"github.com/gin-gonic/gin"
)

// NewRouter constructs a Gin engine with registered routes.
func NewRouter(runner *analysis.Runner, visualsPath string) *gin.Engine {
	r := gin.New()
	// Minimal middleware: recovery; logger optional to reduce verbosity
	r.Use(gin.Recovery())

	// Register resource routers
	RegisterAnalysisRoutes(r, runner)
	RegisterHealthRoutes(r)
	RegisterVisualRoutes(r, visualsPath)
	return r
}
