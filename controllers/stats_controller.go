package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"

	"github.com/cppla/codeshare/engine"
	"github.com/cppla/codeshare/utils"
)

// ExportFilename is the attachment name of the export bundle.
const ExportFilename = "codeshare-export.json"

// StatsController provides board statistics and the admin export.
type StatsController struct {
	engine *engine.Engine
}

// NewStatsController creates a new StatsController instance.
func NewStatsController(e *engine.Engine) *StatsController {
	return &StatsController{engine: e}
}

// GetStats returns totals, the language histogram and the most recent posts.
func (s *StatsController) GetStats(ctx *gin.Context) {
	stats, err := s.engine.GetStats(ctx.Request.Context())
	if err != nil {
		respondEngineError(ctx, err)
		return
	}
	utils.Success(ctx, stats)
}

// Export returns the whole board as a downloadable JSON document.
func (s *StatsController) Export(ctx *gin.Context) {
	bundle, err := s.engine.Export(ctx.Request.Context())
	if err != nil {
		respondEngineError(ctx, err)
		return
	}
	body, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		respondEngineError(ctx, err)
		return
	}
	ctx.Header("Content-Disposition", `attachment; filename="`+ExportFilename+`"`)
	ctx.Data(http.StatusOK, "application/json; charset=utf-8", body)
}
