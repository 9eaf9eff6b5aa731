package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/cppla/codeshare/models"
	"github.com/cppla/codeshare/utils"
)

// ConfigController serves static UI configuration.
type ConfigController struct{}

// NewConfigController creates a new ConfigController instance.
func NewConfigController() *ConfigController { return &ConfigController{} }

// GetLanguages returns the language catalogue with download extensions and defaults.
func (c *ConfigController) GetLanguages(ctx *gin.Context) {
	utils.Success(ctx, gin.H{
		"languages":         models.LanguageExtensions(),
		"defaultLanguage":   models.DefaultLanguage,
		"fallbackExtension": models.FallbackExtension,
	})
}
