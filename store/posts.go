package store

import (
	"errors"

	"gorm.io/gorm"

	"github.com/postly/postly/models"
)

// PostPatch carries the fields of a partial update. Nil means "leave as is".
type PostPatch struct {
	Title   *string
	Content *string
}

// CreatePost persists a new post for the given author. The identifier is
// assigned by the database and increases monotonically.
func (s *Store) CreatePost(title, content string, authorID uint) (*models.Post, error) {
	post := models.Post{
		AuthorID: authorID,
		Title:    title,
		Content:  content,
	}
	if err := s.db.Create(&post).Error; err != nil {
		return nil, err
	}
	if err := s.db.Preload("Author").First(&post, post.ID).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// GetPost loads a post with its author.
func (s *Store) GetPost(id uint) (*models.Post, error) {
	var post models.Post
	if err := s.db.Preload("Author").First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}

// ListPosts returns one page of posts in insertion order plus the total match
// count. An empty authorUsername means no filter. The count and the page fetch
// are separate queries, so totals are read-committed rather than a snapshot.
func (s *Store) ListPosts(authorUsername string, offset, limit int) ([]models.Post, int64, error) {
	query := s.db.Model(&models.Post{}).Preload("Author").Order("posts.id ASC")
	if authorUsername != "" {
		query = query.Joins("JOIN users ON users.id = posts.author_id").
			Where("users.username = ?", authorUsername)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []models.Post
	q := query.Offset(offset)
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&posts).Error; err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// ListPostsByAuthorID returns every post of one author in insertion order.
func (s *Store) ListPostsByAuthorID(authorID uint) ([]models.Post, error) {
	var posts []models.Post
	err := s.db.Preload("Author").
		Where("author_id = ?", authorID).
		Order("id ASC").
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// UpdatePost applies a patch to a post inside a transaction, holding a row
// lock so concurrent updates to the same post never interleave.
func (s *Store) UpdatePost(id uint, patch PostPatch) (*models.Post, error) {
	var post models.Post
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := forUpdate(tx).First(&post, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if patch.Title != nil {
			post.Title = *patch.Title
		}
		if patch.Content != nil {
			post.Content = *patch.Content
		}
		return tx.Save(&post).Error
	})
	if err != nil {
		return nil, err
	}
	if err := s.db.Preload("Author").First(&post, post.ID).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// DeletePost removes a post permanently.
func (s *Store) DeletePost(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := forUpdate(tx).First(&post, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		return tx.Delete(&post).Error
	})
}
