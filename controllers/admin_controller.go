package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cppla/codeshare/config"
	"github.com/cppla/codeshare/middleware"
	"github.com/cppla/codeshare/utils"
)

const adminUsername = "admin"

// AdminController issues and revokes the shared admin credential.
type AdminController struct {
	passwordHash string
	tokenTTL     time.Duration
}

// NewAdminController resolves the bcrypt hash the admin password is checked against.
func NewAdminController(cfg config.AppConfig) (*AdminController, error) {
	hash, err := utils.ResolveAdminHash(cfg.AdminPassword, cfg.AdminPasswordHash)
	if err != nil {
		return nil, err
	}
	ttl := cfg.TokenTTLHours
	if ttl <= 0 {
		ttl = 24
	}
	return &AdminController{passwordHash: hash, tokenTTL: time.Duration(ttl) * time.Hour}, nil
}

// Login verifies the admin password and issues a JWT.
func (a *AdminController) Login(ctx *gin.Context) {
	var req struct {
		Password string `json:"password"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, utils.CodeInvalidInput, "invalid request payload")
		return
	}
	if strings.TrimSpace(req.Password) == "" {
		utils.Error(ctx, http.StatusBadRequest, utils.CodeMissingField, "password is required")
		return
	}

	if !utils.CheckPassword(a.passwordHash, req.Password) {
		utils.Error(ctx, http.StatusUnauthorized, utils.CodeWrongPassword, "invalid password")
		return
	}

	token, err := utils.GenerateToken(utils.RoleAdmin, adminUsername, a.tokenTTL)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, utils.CodeInternal, "failed to generate token")
		return
	}

	utils.Success(ctx, gin.H{
		"token":     token,
		"expiresAt": time.Now().Add(a.tokenTTL),
	})
}

// Logout revokes the presented token until its expiration.
func (a *AdminController) Logout(ctx *gin.Context) {
	claims := middleware.ClaimsFrom(ctx)
	if claims == nil {
		utils.Error(ctx, http.StatusUnauthorized, utils.CodeUnauthorized, "unauthorized")
		return
	}

	expiresAt := time.Now().Add(a.tokenTTL)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	utils.BlacklistToken(claims.ID, expiresAt)
	utils.Success(ctx, gin.H{"message": "logged out"})
}

// Me echoes the claims of the presented token.
func (a *AdminController) Me(ctx *gin.Context) {
	claims := middleware.ClaimsFrom(ctx)
	if claims == nil {
		utils.Error(ctx, http.StatusUnauthorized, utils.CodeUnauthorized, "unauthorized")
		return
	}
	var expiresAt time.Time
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	utils.Success(ctx, gin.H{
		"role":      claims.Role,
		"username":  claims.Username,
		"expiresAt": expiresAt,
	})
}
