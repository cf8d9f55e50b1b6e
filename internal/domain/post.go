package domain

import (
	"context"
	"time"
)

// Post represents a blog post. AuthorID is immutable after creation;
// only the author may mutate or delete the post.
type Post struct {
	ID        int64
	AuthorID  int64
	Title     string
	Content   string
	Tags      []string
	ImageURL  string
	CreatedAt time.Time
	UpdatedAt time.Time

	// Author is populated on reads from the author reference.
	Author *User
	// Comments are ordered by creation time, oldest first.
	Comments []Comment
	// Likes holds the ids of users who liked the post, no duplicates.
	Likes []int64
}

// Comment is a reader comment embedded in a post.
type Comment struct {
	ID        int64
	PostID    int64
	UserID    int64
	Text      string
	CreatedAt time.Time

	// Author is populated on reads from the user reference.
	Author *User
}

// PostUpdate describes a partial post update. Nil fields retain
// their stored values.
type PostUpdate struct {
	Title    *string
	Content  *string
	Tags     *[]string
	ImageURL *string
}

// PostRepository defines persistence operations for posts and their
// embedded comments and likes.
type PostRepository interface {
	Create(ctx context.Context, post *Post) error
	// GetByID returns the post with author, tags, comments (with
	// comment authors) and likes populated.
	GetByID(ctx context.Context, id int64) (*Post, error)
	// List returns one page of posts whose title or content matches
	// keyword case-insensitively (all posts if keyword is empty),
	// newest first, along with the total match count.
	List(ctx context.Context, keyword string, page, pageSize int) ([]Post, int, error)
	Update(ctx context.Context, id int64, update PostUpdate) error
	Delete(ctx context.Context, id int64) error
	AddComment(ctx context.Context, comment *Comment) error
	ListComments(ctx context.Context, postID int64) ([]Comment, error)
	// ToggleLike flips the membership of userID in the post's like
	// set and returns the resulting set.
	ToggleLike(ctx context.Context, postID, userID int64) ([]int64, error)
	ListLikes(ctx context.Context, postID int64) ([]int64, error)
}
