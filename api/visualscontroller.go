package api

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

// RegisterVisualRoutes serves rendered chart images from the visuals
// directory.
func RegisterVisualRoutes(r *gin.Engine, visualsPath string) {
	r.GET("/static/visuals/:filename", func(c *gin.Context) {
		filename := c.Param("filename")
		// Reject traversal; only flat file names are ever generated
		if strings.Contains(filename, "..") || strings.ContainsAny(filename, `/\`) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file name"})
			return
		}
		c.File(filepath.Join(visualsPath, filename))
	})
}
