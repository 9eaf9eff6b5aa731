package utils

import "github.com/gin-gonic/gin"

// Business codes carried in the envelope next to the HTTP status.
const (
	CodeOK             = 0
	CodeInvalidInput   = 40001
	CodeInvalidID      = 40002
	CodeMissingField   = 40003
	CodeUploadMissing  = 40030
	CodeUploadTooLarge = 40032
	CodeUnauthorized   = 40101
	CodeTokenMissing   = 40102
	CodeTokenInvalid   = 40103
	CodeTokenRevoked   = 40104
	CodeWrongPassword  = 40110
	CodeForbidden      = 40301
	CodePostNotFound   = 40401
	CodeRouteNotFound  = 40400
	CodeRateLimited    = 42901
	CodeInternal       = 50000
	CodeUploadFailed   = 50030
	CodeStoreFailed    = 50301
)

// JSONResponse defines the uniform structure for API responses.
type JSONResponse struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Respond writes a JSON response with the given status code.
func Respond(ctx *gin.Context, status int, code int, message string, data interface{}) {
	ctx.JSON(status, JSONResponse{
		Code:    code,
		Message: message,
		Data:    data,
	})
}

// Success returns a standard success response.
func Success(ctx *gin.Context, data interface{}) {
	Respond(ctx, 200, CodeOK, "success", data)
}

// Error returns a standard error response.
func Error(ctx *gin.Context, status int, code int, message string) {
	Respond(ctx, status, code, message, nil)
}
