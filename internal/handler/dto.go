package handler

import (
	"time"

	"github.com/inkwellhq/inkwell/internal/domain"
)

// UserDTO is the JSON representation of a user. The password hash is
// deliberately absent.
type UserDTO struct {
	ID             int64  `json:"id"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	ProfilePicture string `json:"profilePicture,omitempty"`
	Bio            string `json:"bio,omitempty"`
	CreatedAt      string `json:"createdAt"`
}

func toUserDTO(u *domain.User) UserDTO {
	return UserDTO{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		ProfilePicture: u.ProfilePicture,
		Bio:            u.Bio,
		CreatedAt:      u.CreatedAt.Format(time.RFC3339),
	}
}

// AuthorDTO is the populated form of a user reference.
type AuthorDTO struct {
	ID             int64  `json:"id"`
	Username       string `json:"username"`
	ProfilePicture string `json:"profilePicture,omitempty"`
}

func toAuthorDTO(u *domain.User) *AuthorDTO {
	if u == nil {
		return nil
	}
	return &AuthorDTO{ID: u.ID, Username: u.Username, ProfilePicture: u.ProfilePicture}
}

// CommentDTO is the JSON representation of a comment with its author
// populated.
type CommentDTO struct {
	ID        int64      `json:"id"`
	Text      string     `json:"text"`
	User      *AuthorDTO `json:"user"`
	CreatedAt string     `json:"createdAt"`
}

func toCommentDTO(c domain.Comment) CommentDTO {
	return CommentDTO{
		ID:        c.ID,
		Text:      c.Text,
		User:      toAuthorDTO(c.Author),
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
	}
}

func toCommentDTOs(comments []domain.Comment) []CommentDTO {
	dtos := make([]CommentDTO, len(comments))
	for i, c := range comments {
		dtos[i] = toCommentDTO(c)
	}
	return dtos
}

// PostDTO is the JSON representation of a post.
type PostDTO struct {
	ID        int64        `json:"id"`
	Title     string       `json:"title"`
	Content   string       `json:"content"`
	Tags      []string     `json:"tags"`
	ImageURL  string       `json:"image,omitempty"`
	Author    *AuthorDTO   `json:"author"`
	Comments  []CommentDTO `json:"comments"`
	Likes     []int64      `json:"likes"`
	CreatedAt string       `json:"createdAt"`
	UpdatedAt string       `json:"updatedAt"`
}

func toPostDTO(p *domain.Post) PostDTO {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	likes := p.Likes
	if likes == nil {
		likes = []int64{}
	}
	return PostDTO{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		Tags:      tags,
		ImageURL:  p.ImageURL,
		Author:    toAuthorDTO(p.Author),
		Comments:  toCommentDTOs(p.Comments),
		Likes:     likes,
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
		UpdatedAt: p.UpdatedAt.Format(time.RFC3339),
	}
}

func toPostDTOs(posts []domain.Post) []PostDTO {
	dtos := make([]PostDTO, len(posts))
	for i := range posts {
		dtos[i] = toPostDTO(&posts[i])
	}
	return dtos
}
