package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/inkwellhq/inkwell/internal/service"
)

// UserHandler handles profile reads and updates.
type UserHandler struct {
	users   *service.UserService
	auth    *service.AuthService
	uploads *service.UploadService
	dev     bool
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users *service.UserService, auth *service.AuthService, uploads *service.UploadService, dev bool) *UserHandler {
	return &UserHandler{users: users, auth: auth, uploads: uploads, dev: dev}
}

// HandleGetProfile returns a user's public profile.
// GET /api/users/profile/{id}
func (h *UserHandler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	user, err := h.users.GetProfile(r.Context(), id)
	if err != nil {
		writeDomainError(w, err, h.dev)
		return
	}

	writeJSON(w, http.StatusOK, toUserDTO(user))
}

// HandleUpdateProfile applies a partial update to the caller's own
// profile. Accepts either a JSON body or a multipart form with an
// optional profilePicture file. Fields absent from the request keep
// their stored values. Responds with the updated identity and a
// fresh token.
// PUT /api/users/profile
func (h *UserHandler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	var changes service.ProfileChanges
	if isMultipart(r) {
		r.Body = http.MaxBytesReader(w, r.Body, service.MaxUploadSize+1<<20)
		if err := r.ParseMultipartForm(service.MaxUploadSize); err != nil {
			writeError(w, http.StatusBadRequest, "File too large")
			return
		}
		changes.Username = formValue(r, "username")
		changes.Email = formValue(r, "email")
		changes.Bio = formValue(r, "bio")
		changes.Password = formValue(r, "password")

		file, header, err := r.FormFile("profilePicture")
		switch {
		case errors.Is(err, http.ErrMissingFile):
			// No new picture, keep the stored one.
		case err != nil:
			writeError(w, http.StatusBadRequest, "Invalid profilePicture upload")
			return
		default:
			defer file.Close()
			url, err := h.uploads.Store(file, header, service.ProfilePictureDir, "user")
			if err != nil {
				writeDomainError(w, err, h.dev)
				return
			}
			changes.ProfilePicture = &url
		}
	} else {
		var req struct {
			Username *string `json:"username"`
			Email    *string `json:"email"`
			Bio      *string `json:"bio"`
			Password *string `json:"password"`
		}
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		changes = service.ProfileChanges{
			Username: req.Username,
			Email:    req.Email,
			Bio:      req.Bio,
			Password: req.Password,
		}
	}

	updated, err := h.users.UpdateProfile(r.Context(), user.ID, changes)
	if err != nil {
		writeDomainError(w, err, h.dev)
		return
	}

	token, err := h.auth.IssueToken(updated.ID)
	if err != nil {
		writeDomainError(w, err, h.dev)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"id":             updated.ID,
		"username":       updated.Username,
		"email":          updated.Email,
		"bio":            updated.Bio,
		"profilePicture": updated.ProfilePicture,
		"token":          token,
	})
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

// formValue returns a pointer to the form field's value when the field
// was present in the request, nil when it was absent. Presence, not
// emptiness, decides whether a field participates in a partial update.
func formValue(r *http.Request, key string) *string {
	if r.MultipartForm == nil {
		return nil
	}
	values, ok := r.MultipartForm.Value[key]
	if !ok || len(values) == 0 {
		return nil
	}
	return &values[0]
}
