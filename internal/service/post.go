package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/inkwellhq/inkwell/internal/domain"
)

// PageSize is the fixed number of posts per listing page.
const PageSize = 10

// PostService handles post CRUD, comments, and likes. Mutations and
// deletions are restricted to the post's author.
type PostService struct {
	posts domain.PostRepository
}

// NewPostService creates a new PostService.
func NewPostService(posts domain.PostRepository) *PostService {
	return &PostService{posts: posts}
}

// Create stores a new post for the given author. Title and content
// are required; tags and image URL are optional.
func (s *PostService) Create(ctx context.Context, authorID int64, title, content string, tags []string, imageURL string) (*domain.Post, error) {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: title and content are required", domain.ErrInvalidInput)
	}

	post := &domain.Post{
		AuthorID: authorID,
		Title:    title,
		Content:  content,
		Tags:     tags,
		ImageURL: imageURL,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return s.posts.GetByID(ctx, post.ID)
}

// GetByID returns a fully populated post.
func (s *PostService) GetByID(ctx context.Context, id int64) (*domain.Post, error) {
	return s.posts.GetByID(ctx, id)
}

// PostPage is one page of a post listing.
type PostPage struct {
	Posts []domain.Post
	Page  int
	Pages int
	Total int
}

// List returns the requested page of posts matching keyword. Pages
// below 1 are clamped to the first page.
func (s *PostService) List(ctx context.Context, keyword string, page int) (*PostPage, error) {
	if page < 1 {
		page = 1
	}

	posts, total, err := s.posts.List(ctx, keyword, page, PageSize)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	pages := (total + PageSize - 1) / PageSize
	return &PostPage{Posts: posts, Page: page, Pages: pages, Total: total}, nil
}

// Update applies a partial update after the ownership check and
// returns the updated post. Non-authors get ErrUnauthorized and the
// post is left untouched.
func (s *PostService) Update(ctx context.Context, userID, postID int64, update domain.PostUpdate) (*domain.Post, error) {
	if err := s.checkOwnership(ctx, userID, postID); err != nil {
		return nil, err
	}

	if update.Title != nil && strings.TrimSpace(*update.Title) == "" {
		return nil, fmt.Errorf("%w: title cannot be empty", domain.ErrInvalidInput)
	}
	if update.Content != nil && strings.TrimSpace(*update.Content) == "" {
		return nil, fmt.Errorf("%w: content cannot be empty", domain.ErrInvalidInput)
	}

	if err := s.posts.Update(ctx, postID, update); err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	return s.posts.GetByID(ctx, postID)
}

// Delete removes a post after the ownership check.
func (s *PostService) Delete(ctx context.Context, userID, postID int64) error {
	if err := s.checkOwnership(ctx, userID, postID); err != nil {
		return err
	}
	if err := s.posts.Delete(ctx, postID); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}

// AddComment appends a comment from any authenticated user and
// returns the post's updated comment list.
func (s *PostService) AddComment(ctx context.Context, userID, postID int64, text string) ([]domain.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: comment text is required", domain.ErrInvalidInput)
	}

	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		return nil, err
	}

	comment := &domain.Comment{PostID: postID, UserID: userID, Text: text}
	if err := s.posts.AddComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("add comment: %w", err)
	}
	return s.posts.ListComments(ctx, postID)
}

// ToggleLike flips the caller's membership in the post's like set and
// returns the updated set.
func (s *PostService) ToggleLike(ctx context.Context, userID, postID int64) ([]int64, error) {
	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		return nil, err
	}
	return s.posts.ToggleLike(ctx, postID, userID)
}

func (s *PostService) checkOwnership(ctx context.Context, userID, postID int64) error {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.AuthorID != userID {
		return domain.ErrUnauthorized
	}
	return nil
}
