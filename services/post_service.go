package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/postly/postly/models"
	"github.com/postly/postly/store"
)

// PostServiceConfig carries the pagination contract.
type PostServiceConfig struct {
	DefaultPageSize int
	MaxPageSize     int
}

// PostPatch mirrors the store patch type: nil fields are left untouched.
type PostPatch = store.PostPatch

// PagedPosts is one page of the listing plus navigation markers. Next and
// Previous hold page numbers, nil when there is no such page.
type PagedPosts struct {
	Items      []models.Post `json:"items"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
	Total      int64         `json:"total"`
	TotalPages int           `json:"total_pages"`
	Next       *int          `json:"next"`
	Previous   *int          `json:"previous"`
}

// PostService orchestrates post CRUD, enforcing the authorization policy and
// the pagination contract.
type PostService struct {
	store  *store.Store
	policy Policy
	cfg    PostServiceConfig
}

// NewPostService creates a PostService.
func NewPostService(st *store.Store, cfg PostServiceConfig) *PostService {
	if cfg.DefaultPageSize <= 0 {
		cfg.DefaultPageSize = 3
	}
	if cfg.MaxPageSize <= 0 {
		cfg.MaxPageSize = 100
	}
	return &PostService{store: st, cfg: cfg}
}

// List returns one page of posts in insertion order, optionally filtered by
// author username. A page beyond range yields empty items, not an error.
func (s *PostService) List(actor *Actor, authorUsername string, page, pageSize int) (*PagedPosts, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = s.cfg.DefaultPageSize
	}
	if pageSize > s.cfg.MaxPageSize {
		pageSize = s.cfg.MaxPageSize
	}

	items, total, err := s.store.ListPosts(authorUsername, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.Post{}
	}

	paged := &PagedPosts{
		Items:      items,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: int((total + int64(pageSize) - 1) / int64(pageSize)),
	}
	if int64(page)*int64(pageSize) < total {
		next := page + 1
		paged.Next = &next
	}
	if page > 1 {
		prev := page - 1
		paged.Previous = &prev
	}
	return paged, nil
}

// Create makes a new post authored by the actor. The author is always the
// actor; any author supplied by the transport layer is ignored.
func (s *PostService) Create(actor *Actor, title, content string) (*models.Post, error) {
	if !s.policy.CanCreate(actor) {
		return nil, errUnauthenticated()
	}
	title = strings.TrimSpace(title)
	if fields := validatePost(title, content); len(fields) > 0 {
		return nil, errValidation(fields)
	}
	return s.store.CreatePost(title, content, actor.ID)
}

// Retrieve loads a post by id. Reads are public, so there is no policy gate.
func (s *PostService) Retrieve(id uint) (*models.Post, error) {
	post, err := s.store.GetPost(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errNotFound("post not found")
		}
		return nil, err
	}
	return post, nil
}

// Update applies a partial patch to a post. The ownership gate runs before
// validation so a non-author never learns why a patch would have failed.
func (s *PostService) Update(actor *Actor, id uint, patch PostPatch) (*models.Post, error) {
	post, err := s.store.GetPost(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errNotFound("post not found")
		}
		return nil, err
	}

	if !s.policy.CanWrite(actor, post) {
		if actor == nil {
			return nil, errUnauthenticated()
		}
		return nil, errUnauthorized("you can only update your own posts")
	}

	title := post.Title
	if patch.Title != nil {
		trimmed := strings.TrimSpace(*patch.Title)
		patch.Title = &trimmed
		title = trimmed
	}
	content := post.Content
	if patch.Content != nil {
		content = *patch.Content
	}
	if fields := validatePost(title, content); len(fields) > 0 {
		return nil, errValidation(fields)
	}

	updated, err := s.store.UpdatePost(id, patch)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errNotFound("post not found")
		}
		return nil, err
	}
	return updated, nil
}

// Delete removes a post under the same ownership gate as Update.
func (s *PostService) Delete(actor *Actor, id uint) error {
	post, err := s.store.GetPost(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return errNotFound("post not found")
		}
		return err
	}

	if !s.policy.CanWrite(actor, post) {
		if actor == nil {
			return errUnauthenticated()
		}
		return errUnauthorized("you can only delete your own posts")
	}

	if err := s.store.DeletePost(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return errNotFound("post not found")
		}
		return err
	}
	return nil
}

// ListForUser returns every post authored by the given user, in insertion
// order. An empty username means no filter.
func (s *PostService) ListForUser(username string) ([]models.Post, error) {
	posts, _, err := s.store.ListPosts(username, 0, 0)
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []models.Post{}
	}
	return posts, nil
}

// ListMine returns the actor's own posts.
func (s *PostService) ListMine(actor *Actor) ([]models.Post, error) {
	if actor == nil {
		return nil, errUnauthenticated()
	}
	posts, err := s.store.ListPostsByAuthorID(actor.ID)
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []models.Post{}
	}
	return posts, nil
}

// validatePost re-checks the field constraints regardless of what the
// transport layer already rejected.
func validatePost(title, content string) map[string]string {
	fields := map[string]string{}
	if title == "" {
		fields["title"] = "title cannot be empty"
	} else if len([]rune(title)) > models.TitleMaxLen {
		fields["title"] = fmt.Sprintf("title cannot exceed %d characters", models.TitleMaxLen)
	}
	if content == "" {
		fields["content"] = "content cannot be empty"
	}
	return fields
}
