package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cppla/codeshare/utils"
)

// ContextVisitorKey stores the resolved visitor id inside Gin context.
const ContextVisitorKey = "visitor_id"

// VisitorCookieName is the cookie carrying the signed visitor id.
const VisitorCookieName = "codeshare_visitor"

// one year
const visitorCookieMaxAge = 365 * 24 * 60 * 60

// VisitorIdentity derives the opaque visitor id used for view and like de-duplication.
type VisitorIdentity interface {
	Resolve(ctx *gin.Context) string
}

// AddressIdentity identifies visitors by client address. Visitors behind one NAT share an id
// and a visitor changing networks gets a new one.
type AddressIdentity struct{}

// Resolve implements VisitorIdentity using gin's ClientIP, which honours trusted proxies.
func (AddressIdentity) Resolve(ctx *gin.Context) string {
	return ctx.ClientIP()
}

// CookieIdentity identifies visitors by a random id kept in a signed cookie, issued on first sight.
type CookieIdentity struct {
	Secure bool
}

// Resolve implements VisitorIdentity.
func (ci CookieIdentity) Resolve(ctx *gin.Context) string {
	if raw, err := ctx.Cookie(VisitorCookieName); err == nil && raw != "" {
		if id, err := utils.ParseVisitorToken(raw); err == nil {
			return id
		}
	}

	id := uuid.NewString()
	token, err := utils.GenerateVisitorToken(id)
	if err != nil {
		utils.Logger.Warn("issue visitor cookie failed, using client address", zap.Error(err))
		return ctx.ClientIP()
	}
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(VisitorCookieName, token, visitorCookieMaxAge, "/", "", ci.Secure, true)
	return id
}

// NewVisitorIdentity returns the identity named by VISITOR_IDENTITY ("ip" or "cookie").
func NewVisitorIdentity(kind string) VisitorIdentity {
	if strings.EqualFold(strings.TrimSpace(kind), "cookie") {
		return CookieIdentity{}
	}
	return AddressIdentity{}
}

// Visitor resolves the visitor id once per request and stores it in the context.
func Visitor(identity VisitorIdentity) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Set(ContextVisitorKey, identity.Resolve(ctx))
		ctx.Next()
	}
}

// VisitorID returns the visitor id stored by Visitor, or the client address when absent.
func VisitorID(ctx *gin.Context) string {
	if id := ctx.GetString(ContextVisitorKey); id != "" {
		return id
	}
	return ctx.ClientIP()
}
