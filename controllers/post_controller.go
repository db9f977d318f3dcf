package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/postly/postly/services"
	"github.com/postly/postly/utils"
)

// PostController manages CRUD operations for posts.
type PostController struct {
	posts *services.PostService
}

// NewPostController creates a new PostController instance.
func NewPostController(posts *services.PostService) *PostController {
	return &PostController{posts: posts}
}

// ListPosts returns paginated posts including author information. With a
// `username` query parameter only that author's posts are returned.
func (p *PostController) ListPosts(ctx *gin.Context) {
	page, pageSize := parsePagination(ctx.Query("page"), ctx.Query("page_size"))
	username := strings.TrimSpace(ctx.Query("username"))

	paged, err := p.posts.List(currentActor(ctx), username, page, pageSize)
	if err != nil {
		renderServiceError(ctx, err)
		return
	}

	utils.Success(ctx, gin.H{
		"items": paged.Items,
		"pagination": gin.H{
			"page":        paged.Page,
			"page_size":   paged.PageSize,
			"total":       paged.Total,
			"total_pages": paged.TotalPages,
			"next":        paged.Next,
			"previous":    paged.Previous,
		},
	})
}

// CreatePost allows authenticated users to create new posts. The author is
// always the authenticated actor.
func (p *PostController) CreatePost(ctx *gin.Context) {
	var req struct {
		Title   string `json:"title" binding:"required,min=1,max=50"`
		Content string `json:"content" binding:"required"`
	}

	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}

	post, err := p.posts.Create(currentActor(ctx), utils.Sanitize(req.Title), utils.Sanitize(req.Content))
	if err != nil {
		renderServiceError(ctx, err)
		return
	}

	utils.Created(ctx, gin.H{"post": post})
}

// GetPost returns a single post. Reads are public.
func (p *PostController) GetPost(ctx *gin.Context) {
	id, ok := parsePostID(ctx)
	if !ok {
		return
	}

	post, err := p.posts.Retrieve(id)
	if err != nil {
		renderServiceError(ctx, err)
		return
	}

	utils.Success(ctx, gin.H{"post": post})
}

// UpdatePost allows the author to partially update their post. Absent fields
// are left untouched.
func (p *PostController) UpdatePost(ctx *gin.Context) {
	var req struct {
		Title   *string `json:"title" binding:"omitempty,max=50"`
		Content *string `json:"content"`
	}

	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40024, "invalid request payload")
		return
	}

	id, ok := parsePostID(ctx)
	if !ok {
		return
	}

	patch := services.PostPatch{}
	if req.Title != nil {
		clean := utils.Sanitize(*req.Title)
		patch.Title = &clean
	}
	if req.Content != nil {
		clean := utils.Sanitize(*req.Content)
		patch.Content = &clean
	}

	post, err := p.posts.Update(currentActor(ctx), id, patch)
	if err != nil {
		renderServiceError(ctx, err)
		return
	}

	utils.Success(ctx, gin.H{"post": post})
}

// DeletePost allows the author to delete their post.
func (p *PostController) DeletePost(ctx *gin.Context) {
	id, ok := parsePostID(ctx)
	if !ok {
		return
	}

	if err := p.posts.Delete(currentActor(ctx), id); err != nil {
		renderServiceError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// ListMyPosts returns every post created by the authenticated user.
func (p *PostController) ListMyPosts(ctx *gin.Context) {
	items, err := p.posts.ListMine(currentActor(ctx))
	if err != nil {
		renderServiceError(ctx, err)
		return
	}

	utils.Success(ctx, gin.H{"items": items, "total": len(items)})
}

func parsePostID(ctx *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		utils.Error(ctx, http.StatusNotFound, 40401, "post not found")
		return 0, false
	}
	return uint(id), true
}

func parsePagination(pageStr, sizeStr string) (int, int) {
	page, pageSize := 0, 0
	if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
		page = p
	}
	if s, err := strconv.Atoi(sizeStr); err == nil && s > 0 {
		pageSize = s
	}
	return page, pageSize
}
