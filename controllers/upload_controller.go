package controllers

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cppla/codeshare/utils"
)

// UploadURLPrefix is where stored attachments are served from.
const UploadURLPrefix = "/uploads"

// UploadController stores admin attachments on local disk.
type UploadController struct {
	dir      string
	maxBytes int64
}

// NewUploadController stores files under dir, rejecting any larger than maxMB megabytes.
func NewUploadController(dir string, maxMB int) *UploadController {
	if maxMB <= 0 {
		maxMB = 5
	}
	return &UploadController{dir: dir, maxBytes: int64(maxMB) << 20}
}

// UploadAttachment handles a multipart upload in field "file".
func (u *UploadController) UploadAttachment(ctx *gin.Context) {
	file, header, err := ctx.Request.FormFile("file")
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, utils.CodeUploadMissing, "no file uploaded")
		return
	}
	defer file.Close()

	limitMsg := fmt.Sprintf("file size exceeds %dMB", u.maxBytes>>20)
	if header.Size > u.maxBytes {
		utils.Error(ctx, http.StatusBadRequest, utils.CodeUploadTooLarge, limitMsg)
		return
	}

	day := time.Now().Format("2006/01/02")
	baseDir := filepath.Join(u.dir, filepath.FromSlash(day))
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		utils.Logger.Error("create upload directory", zap.String("dir", baseDir), zap.Error(err))
		utils.Error(ctx, http.StatusInternalServerError, utils.CodeUploadFailed, "failed to save file")
		return
	}

	// Random names keep client-chosen paths off the disk.
	name := uuid.NewString() + strings.ToLower(filepath.Ext(filepath.Base(header.Filename)))
	dstPath := filepath.Join(baseDir, name)

	out, err := os.Create(dstPath)
	if err != nil {
		utils.Logger.Error("create upload file", zap.String("path", dstPath), zap.Error(err))
		utils.Error(ctx, http.StatusInternalServerError, utils.CodeUploadFailed, "failed to save file")
		return
	}

	// Enforce the limit on the stream too; multipart sizes can lie.
	written, err := io.Copy(out, &io.LimitedReader{R: file, N: u.maxBytes + 1})
	closeErr := out.Close()
	if err != nil || closeErr != nil {
		_ = os.Remove(dstPath)
		utils.Logger.Error("write upload file", zap.String("path", dstPath), zap.Error(err), zap.NamedError("close", closeErr))
		utils.Error(ctx, http.StatusInternalServerError, utils.CodeUploadFailed, "failed to write file")
		return
	}
	if written > u.maxBytes {
		_ = os.Remove(dstPath)
		utils.Error(ctx, http.StatusBadRequest, utils.CodeUploadTooLarge, limitMsg)
		return
	}

	utils.Success(ctx, gin.H{
		"url":  path.Join(UploadURLPrefix, day, name),
		"size": written,
	})
}
