package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cppla/codeshare/engine"
	"github.com/cppla/codeshare/middleware"
	"github.com/cppla/codeshare/models"
	"github.com/cppla/codeshare/utils"
)

// PostController exposes posts, comments and likes over HTTP.
type PostController struct {
	engine *engine.Engine
}

// NewPostController creates a new PostController instance.
func NewPostController(e *engine.Engine) *PostController {
	return &PostController{engine: e}
}

type createPostRequest struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Author      string         `json:"author"`
	Language    string         `json:"language"`
	Tags        models.TagList `json:"tags"`
	Code        string         `json:"code"`
}

type updatePostRequest struct {
	Title       *string        `json:"title"`
	Description *string        `json:"description"`
	Author      *string        `json:"author"`
	Language    *string        `json:"language"`
	Tags        models.TagList `json:"tags"`
	Code        *string        `json:"code"`
}

type commentRequest struct {
	Author string `json:"author"`
	Text   string `json:"text"`
}

// ListPosts returns every post with its counts, newest first.
func (p *PostController) ListPosts(ctx *gin.Context) {
	posts, err := p.engine.ListPosts(ctx.Request.Context())
	if err != nil {
		respondEngineError(ctx, err)
		return
	}
	utils.Success(ctx, posts)
}

// GetPost returns one post and records the caller's view.
func (p *PostController) GetPost(ctx *gin.Context) {
	id, ok := postID(ctx)
	if !ok {
		return
	}
	detail, err := p.engine.GetPost(ctx.Request.Context(), id, middleware.VisitorID(ctx))
	if err != nil {
		respondEngineError(ctx, err)
		return
	}
	utils.Success(ctx, detail)
}

// CreatePost publishes a new snippet.
func (p *PostController) CreatePost(ctx *gin.Context) {
	var req createPostRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, utils.CodeInvalidInput, "invalid request payload")
		return
	}

	// Fields are stored as sent; escaping is left to whoever renders them.
	post, err := p.engine.CreatePost(ctx.Request.Context(), models.PostInput{
		Title:       req.Title,
		Description: req.Description,
		Author:      req.Author,
		Language:    req.Language,
		Tags:        req.Tags,
		Code:        req.Code,
	})
	if err != nil {
		respondEngineError(ctx, err)
		return
	}
	utils.Respond(ctx, http.StatusCreated, utils.CodeOK, "post created", post)
}

// UpdatePost applies a partial update.
func (p *PostController) UpdatePost(ctx *gin.Context) {
	id, ok := postID(ctx)
	if !ok {
		return
	}
	var req updatePostRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, utils.CodeInvalidInput, "invalid request payload")
		return
	}

	post, err := p.engine.UpdatePost(ctx.Request.Context(), id, models.PostPatch{
		Title:       req.Title,
		Description: req.Description,
		Author:      req.Author,
		Language:    req.Language,
		Tags:        req.Tags,
		Code:        req.Code,
	})
	if err != nil {
		respondEngineError(ctx, err)
		return
	}
	utils.Success(ctx, post)
}

// DeletePost removes a post with its engagement.
func (p *PostController) DeletePost(ctx *gin.Context) {
	id, ok := postID(ctx)
	if !ok {
		return
	}
	if err := p.engine.DeletePost(ctx.Request.Context(), id); err != nil {
		respondEngineError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"id": id})
}

// ClearAll empties the board.
func (p *PostController) ClearAll(ctx *gin.Context) {
	removed, err := p.engine.ClearAll(ctx.Request.Context())
	if err != nil {
		respondEngineError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"removed": removed})
}

// CreateComment adds a comment under a post.
func (p *PostController) CreateComment(ctx *gin.Context) {
	id, ok := postID(ctx)
	if !ok {
		return
	}
	var req commentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, utils.CodeInvalidInput, "invalid request payload")
		return
	}

	comment, err := p.engine.AddComment(ctx.Request.Context(), id, models.CommentInput{
		Author:    req.Author,
		Text:      req.Text,
		VisitorID: middleware.VisitorID(ctx),
	})
	if err != nil {
		respondEngineError(ctx, err)
		return
	}
	utils.Respond(ctx, http.StatusCreated, utils.CodeOK, "comment created", comment)
}

// ListComments returns a post's comments, newest first.
func (p *PostController) ListComments(ctx *gin.Context) {
	id, ok := postID(ctx)
	if !ok {
		return
	}
	comments, err := p.engine.ListComments(ctx.Request.Context(), id)
	if err != nil {
		respondEngineError(ctx, err)
		return
	}
	utils.Success(ctx, comments)
}

// ToggleLike flips the caller's like on a post.
func (p *PostController) ToggleLike(ctx *gin.Context) {
	id, ok := postID(ctx)
	if !ok {
		return
	}
	result, err := p.engine.ToggleLike(ctx.Request.Context(), id, middleware.VisitorID(ctx))
	if err != nil {
		respondEngineError(ctx, err)
		return
	}
	utils.Success(ctx, result)
}

// Download returns the raw code body as an attachment.
func (p *PostController) Download(ctx *gin.Context) {
	id, ok := postID(ctx)
	if !ok {
		return
	}
	file, err := p.engine.Download(ctx.Request.Context(), id)
	if err != nil {
		respondEngineError(ctx, err)
		return
	}
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	ctx.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(file.Body))
}
