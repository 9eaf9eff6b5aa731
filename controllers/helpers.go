package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cppla/codeshare/engine"
	"github.com/cppla/codeshare/utils"
)

// respondEngineError maps an engine error onto the HTTP status and business code.
// Unexpected errors are logged and answered with a generic message.
func respondEngineError(ctx *gin.Context, err error) {
	var verr *engine.ValidationError
	switch {
	case errors.As(err, &verr):
		utils.Respond(ctx, http.StatusBadRequest, utils.CodeMissingField,
			"missing required field: "+strings.Join(verr.Fields, ", "), gin.H{"fields": verr.Fields})
	case errors.Is(err, engine.ErrValidation):
		utils.Error(ctx, http.StatusBadRequest, utils.CodeInvalidInput, "invalid request payload")
	case errors.Is(err, engine.ErrNotFound):
		utils.Error(ctx, http.StatusNotFound, utils.CodePostNotFound, "post not found")
	case errors.Is(err, engine.ErrPersistence):
		utils.Logger.Warn("request failed on storage", zap.String("path", ctx.FullPath()), zap.Error(err))
		ctx.Header("Retry-After", "1")
		utils.Error(ctx, http.StatusServiceUnavailable, utils.CodeStoreFailed, "storage unavailable, the change was not applied; retry later")
	default:
		utils.Logger.Error("unexpected request failure", zap.String("path", ctx.FullPath()), zap.Error(err))
		utils.Error(ctx, http.StatusInternalServerError, utils.CodeInternal, "internal server error")
	}
}

// postID parses the :id path parameter, answering 400 when it is not a positive integer.
func postID(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(ctx.Param("id")), 10, 64)
	if err != nil || id <= 0 {
		utils.Error(ctx, http.StatusBadRequest, utils.CodeInvalidID, "invalid post id")
		return 0, false
	}
	return id, true
}
