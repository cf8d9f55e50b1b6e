package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/inkwellhq/inkwell/internal/domain"
)

// PostRepository implements domain.PostRepository using SQLite.
type PostRepository struct {
	db *sql.DB
}

func (r *PostRepository) Create(ctx context.Context, post *domain.Post) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	result, err := tx.ExecContext(ctx,
		`INSERT INTO posts (author_id, title, content, image_url, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		post.AuthorID, post.Title, post.Content, post.ImageURL, now, now,
	)
	if err != nil {
		return fmt.Errorf("insert post: %w", err)
	}

	postID, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get post id: %w", err)
	}

	if err := insertTags(ctx, tx, postID, post.Tags); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	post.ID = postID
	post.CreatedAt = now
	post.UpdatedAt = now
	return nil
}

func (r *PostRepository) GetByID(ctx context.Context, id int64) (*domain.Post, error) {
	p := &domain.Post{Author: &domain.User{}}
	err := r.db.QueryRowContext(ctx,
		`SELECT p.id, p.author_id, p.title, p.content, p.image_url, p.created_at, p.updated_at,
		        u.id, u.username, u.email, u.profile_picture, u.bio
		 FROM posts p JOIN users u ON u.id = p.author_id
		 WHERE p.id = ?`, id,
	).Scan(&p.ID, &p.AuthorID, &p.Title, &p.Content, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt,
		&p.Author.ID, &p.Author.Username, &p.Author.Email, &p.Author.ProfilePicture, &p.Author.Bio)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get post: %w", err)
	}

	if p.Tags, err = r.loadTags(ctx, id); err != nil {
		return nil, err
	}
	if p.Comments, err = r.ListComments(ctx, id); err != nil {
		return nil, err
	}
	if p.Likes, err = r.ListLikes(ctx, id); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *PostRepository) List(ctx context.Context, keyword string, page, pageSize int) ([]domain.Post, int, error) {
	where := "1 = 1"
	var args []any
	if keyword != "" {
		where = "(p.title LIKE ? OR p.content LIKE ?)"
		pattern := "%" + keyword + "%"
		args = append(args, pattern, pattern)
	}

	var total int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM posts p WHERE "+where, args...,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}

	args = append(args, pageSize, (page-1)*pageSize)
	rows, err := r.db.QueryContext(ctx,
		`SELECT p.id, p.author_id, p.title, p.content, p.image_url, p.created_at, p.updated_at,
		        u.id, u.username, u.email, u.profile_picture, u.bio
		 FROM posts p JOIN users u ON u.id = p.author_id
		 WHERE `+where+`
		 ORDER BY p.created_at DESC, p.id DESC
		 LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var posts []domain.Post
	for rows.Next() {
		p := domain.Post{Author: &domain.User{}}
		if err := rows.Scan(&p.ID, &p.AuthorID, &p.Title, &p.Content, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt,
			&p.Author.ID, &p.Author.Username, &p.Author.Email, &p.Author.ProfilePicture, &p.Author.Bio); err != nil {
			return nil, 0, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate posts: %w", err)
	}

	for i := range posts {
		if posts[i].Tags, err = r.loadTags(ctx, posts[i].ID); err != nil {
			return nil, 0, err
		}
		if posts[i].Likes, err = r.ListLikes(ctx, posts[i].ID); err != nil {
			return nil, 0, err
		}
	}
	return posts, total, nil
}

// Update applies a partial update to the post's own columns and, when
// tags are present, replaces the tag list. The author reference is
// immutable and never touched.
func (r *PostRepository) Update(ctx context.Context, id int64, update domain.PostUpdate) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	sets := []string{"updated_at = ?"}
	args := []any{time.Now().UTC()}
	if update.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *update.Title)
	}
	if update.Content != nil {
		sets = append(sets, "content = ?")
		args = append(args, *update.Content)
	}
	if update.ImageURL != nil {
		sets = append(sets, "image_url = ?")
		args = append(args, *update.ImageURL)
	}
	args = append(args, id)

	result, err := tx.ExecContext(ctx,
		"UPDATE posts SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}

	if update.Tags != nil {
		if _, err := tx.ExecContext(ctx, "DELETE FROM post_tags WHERE post_id = ?", id); err != nil {
			return fmt.Errorf("clear tags: %w", err)
		}
		if err := insertTags(ctx, tx, id, *update.Tags); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *PostRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM posts WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PostRepository) AddComment(ctx context.Context, comment *domain.Comment) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO comments (post_id, user_id, text, created_at) VALUES (?, ?, ?, ?)`,
		comment.PostID, comment.UserID, comment.Text, now,
	)
	if err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get comment id: %w", err)
	}
	comment.ID = id
	comment.CreatedAt = now
	return nil
}

func (r *PostRepository) ListComments(ctx context.Context, postID int64) ([]domain.Comment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT c.id, c.post_id, c.user_id, c.text, c.created_at,
		        u.id, u.username, u.profile_picture
		 FROM comments c JOIN users u ON u.id = c.user_id
		 WHERE c.post_id = ?
		 ORDER BY c.created_at ASC, c.id ASC`, postID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var comments []domain.Comment
	for rows.Next() {
		c := domain.Comment{Author: &domain.User{}}
		if err := rows.Scan(&c.ID, &c.PostID, &c.UserID, &c.Text, &c.CreatedAt,
			&c.Author.ID, &c.Author.Username, &c.Author.ProfilePicture); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// ToggleLike flips userID's membership in the like set inside a single
// transaction so concurrent toggles cannot double-insert.
func (r *PostRepository) ToggleLike(ctx context.Context, postID, userID int64) ([]int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		"DELETE FROM likes WHERE post_id = ? AND user_id = ?", postID, userID)
	if err != nil {
		return nil, fmt.Errorf("remove like: %w", err)
	}
	removed, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}

	if removed == 0 {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO likes (post_id, user_id, created_at) VALUES (?, ?, ?)",
			postID, userID, time.Now().UTC()); err != nil {
			return nil, fmt.Errorf("add like: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return r.ListLikes(ctx, postID)
}

func (r *PostRepository) ListLikes(ctx context.Context, postID int64) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT user_id FROM likes WHERE post_id = ? ORDER BY created_at ASC, user_id ASC", postID)
	if err != nil {
		return nil, fmt.Errorf("list likes: %w", err)
	}
	defer rows.Close()

	var likes []int64
	for rows.Next() {
		var userID int64
		if err := rows.Scan(&userID); err != nil {
			return nil, fmt.Errorf("scan like: %w", err)
		}
		likes = append(likes, userID)
	}
	return likes, rows.Err()
}

func (r *PostRepository) loadTags(ctx context.Context, postID int64) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT tag FROM post_tags WHERE post_id = ? ORDER BY position ASC", postID)
	if err != nil {
		return nil, fmt.Errorf("load tags: %w", err)
	}
	defer rows.Close()

	var tags []string
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

func insertTags(ctx context.Context, tx *sql.Tx, postID int64, tags []string) error {
	for i, tag := range tags {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO post_tags (post_id, position, tag) VALUES (?, ?, ?)",
			postID, i, tag); err != nil {
			return fmt.Errorf("insert tag: %w", err)
		}
	}
	return nil
}
