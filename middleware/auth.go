package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cppla/codeshare/utils"
)

const (
	// ContextClaimsKey stores the admin token claims inside Gin context.
	ContextClaimsKey = "claims"
	// ContextTokenKey stores the raw bearer token inside Gin context.
	ContextTokenKey = "token"
)

// AdminRequired ensures the request carries a valid, unrevoked admin JWT.
// Authentication failures answer 401, a valid token without the admin role answers 403.
func AdminRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")
		if authHeader == "" {
			utils.Error(ctx, http.StatusUnauthorized, utils.CodeTokenMissing, "authorization header missing")
			ctx.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			utils.Error(ctx, http.StatusUnauthorized, utils.CodeUnauthorized, "invalid authorization header format")
			ctx.Abort()
			return
		}

		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			utils.Error(ctx, http.StatusUnauthorized, utils.CodeTokenMissing, "empty bearer token")
			ctx.Abort()
			return
		}

		claims, err := utils.ParseToken(tokenString)
		if err != nil {
			utils.Error(ctx, http.StatusUnauthorized, utils.CodeTokenInvalid, "invalid token")
			ctx.Abort()
			return
		}

		if utils.IsTokenBlacklisted(claims.ID) {
			utils.Error(ctx, http.StatusUnauthorized, utils.CodeTokenRevoked, "token revoked")
			ctx.Abort()
			return
		}

		if claims.Role != utils.RoleAdmin {
			utils.Error(ctx, http.StatusForbidden, utils.CodeForbidden, "admin role required")
			ctx.Abort()
			return
		}

		ctx.Set(ContextClaimsKey, claims)
		ctx.Set(ContextTokenKey, tokenString)
		ctx.Next()
	}
}

// ClaimsFrom returns the claims stored by AdminRequired, or nil.
func ClaimsFrom(ctx *gin.Context) *utils.Claims {
	v, ok := ctx.Get(ContextClaimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*utils.Claims)
	return claims
}
