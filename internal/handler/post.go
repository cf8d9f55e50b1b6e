package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/inkwellhq/inkwell/internal/domain"
	"github.com/inkwellhq/inkwell/internal/service"
)

// PostHandler handles post CRUD, comments, and likes.
type PostHandler struct {
	posts   *service.PostService
	uploads *service.UploadService
	dev     bool
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(posts *service.PostService, uploads *service.UploadService, dev bool) *PostHandler {
	return &PostHandler{posts: posts, uploads: uploads, dev: dev}
}

// HandleCreate creates a post for the authenticated user. Accepts a
// JSON body, or a multipart form with an optional image file and a
// comma-separated tags field.
// POST /api/posts
func (h *PostHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	var title, content, imageURL string
	var tags []string

	if isMultipart(r) {
		r.Body = http.MaxBytesReader(w, r.Body, service.MaxUploadSize+1<<20)
		if err := r.ParseMultipartForm(service.MaxUploadSize); err != nil {
			writeError(w, http.StatusBadRequest, "File too large")
			return
		}
		title = r.FormValue("title")
		content = r.FormValue("content")
		tags = splitTags(r.FormValue("tags"))

		file, header, err := r.FormFile("image")
		switch {
		case errors.Is(err, http.ErrMissingFile):
			// Image is optional.
		case err != nil:
			writeError(w, http.StatusBadRequest, "Invalid image upload")
			return
		default:
			defer file.Close()
			imageURL, err = h.uploads.Store(file, header, service.PostImageDir, "post")
			if err != nil {
				writeDomainError(w, err, h.dev)
				return
			}
		}
	} else {
		var req struct {
			Title   string   `json:"title"`
			Content string   `json:"content"`
			Tags    []string `json:"tags"`
		}
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		title, content, tags = req.Title, req.Content, req.Tags
	}

	post, err := h.posts.Create(r.Context(), user.ID, title, content, tags, imageURL)
	if err != nil {
		writeDomainError(w, err, h.dev)
		return
	}

	writeJSON(w, http.StatusCreated, toPostDTO(post))
}

// HandleList returns one page of posts, optionally filtered by
// keyword against title or content.
// GET /api/posts?page=&keyword=
func (h *PostHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	keyword := r.URL.Query().Get("keyword")

	result, err := h.posts.List(r.Context(), keyword, page)
	if err != nil {
		writeDomainError(w, err, h.dev)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"posts": toPostDTOs(result.Posts),
		"page":  result.Page,
		"pages": result.Pages,
		"total": result.Total,
	})
}

// HandleGet returns one post with its author and comment authors
// populated.
// GET /api/posts/{id}
func (h *PostHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := h.postID(w, r)
	if !ok {
		return
	}

	post, err := h.posts.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, err, h.dev)
		return
	}

	writeJSON(w, http.StatusOK, toPostDTO(post))
}

// HandleUpdate applies a partial update to a post owned by the
// caller. Fields absent from the request keep their stored values.
// PUT /api/posts/{id}
func (h *PostHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	id, ok := h.postID(w, r)
	if !ok {
		return
	}

	var update domain.PostUpdate
	if isMultipart(r) {
		r.Body = http.MaxBytesReader(w, r.Body, service.MaxUploadSize+1<<20)
		if err := r.ParseMultipartForm(service.MaxUploadSize); err != nil {
			writeError(w, http.StatusBadRequest, "File too large")
			return
		}
		update.Title = formValue(r, "title")
		update.Content = formValue(r, "content")
		if raw := formValue(r, "tags"); raw != nil {
			tags := splitTags(*raw)
			update.Tags = &tags
		}

		file, header, err := r.FormFile("image")
		switch {
		case errors.Is(err, http.ErrMissingFile):
			// Keep the stored image.
		case err != nil:
			writeError(w, http.StatusBadRequest, "Invalid image upload")
			return
		default:
			defer file.Close()
			url, err := h.uploads.Store(file, header, service.PostImageDir, "post")
			if err != nil {
				writeDomainError(w, err, h.dev)
				return
			}
			update.ImageURL = &url
		}
	} else {
		var req struct {
			Title   *string   `json:"title"`
			Content *string   `json:"content"`
			Tags    *[]string `json:"tags"`
		}
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		update.Title = req.Title
		update.Content = req.Content
		update.Tags = req.Tags
	}

	post, err := h.posts.Update(r.Context(), user.ID, id, update)
	if err != nil {
		writeDomainError(w, err, h.dev)
		return
	}

	writeJSON(w, http.StatusOK, toPostDTO(post))
}

// HandleDelete removes a post owned by the caller.
// DELETE /api/posts/{id}
func (h *PostHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	id, ok := h.postID(w, r)
	if !ok {
		return
	}

	if err := h.posts.Delete(r.Context(), user.ID, id); err != nil {
		writeDomainError(w, err, h.dev)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Post deleted",
		"postId":  id,
	})
}

// HandleComment appends a comment to a post and returns the updated
// comment list.
// POST /api/posts/{id}/comments
func (h *PostHandler) HandleComment(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	id, ok := h.postID(w, r)
	if !ok {
		return
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	comments, err := h.posts.AddComment(r.Context(), user.ID, id, req.Text)
	if err != nil {
		writeDomainError(w, err, h.dev)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"comments": toCommentDTOs(comments),
	})
}

// HandleLike toggles the caller's like on a post and returns the
// updated like list.
// PATCH /api/posts/{id}/like
func (h *PostHandler) HandleLike(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	id, ok := h.postID(w, r)
	if !ok {
		return
	}

	likes, err := h.posts.ToggleLike(r.Context(), user.ID, id)
	if err != nil {
		writeDomainError(w, err, h.dev)
		return
	}

	if likes == nil {
		likes = []int64{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"likes": likes,
	})
}

func (h *PostHandler) postID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid post id")
		return 0, false
	}
	return id, true
}

func splitTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
