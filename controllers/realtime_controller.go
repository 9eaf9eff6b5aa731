package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/cppla/codeshare/realtime"
)

// RealtimeController upgrades subscribers onto the realtime hub.
type RealtimeController struct {
	hub *realtime.Hub
}

// NewRealtimeController creates a new RealtimeController instance.
func NewRealtimeController(hub *realtime.Hub) *RealtimeController {
	return &RealtimeController{hub: hub}
}

// Subscribe upgrades the connection and blocks until the subscriber leaves.
func (r *RealtimeController) Subscribe(ctx *gin.Context) {
	r.hub.ServeWS(ctx.Writer, ctx.Request)
}
