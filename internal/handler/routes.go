package handler

import (
	"net/http"

	"github.com/inkwellhq/inkwell/internal/service"
)

// Options carries route-level configuration.
type Options struct {
	// UploadRoot is the directory served read-only under /api/uploads.
	UploadRoot string
	// Dev includes error detail in 500 response bodies.
	Dev bool
}

// RegisterRoutes sets up all HTTP routes on the given mux.
func RegisterRoutes(mux *http.ServeMux, auth *service.AuthService, users *service.UserService, posts *service.PostService, uploads *service.UploadService, opts Options) {
	authHandler := NewAuthHandler(auth, opts.Dev)
	userHandler := NewUserHandler(users, auth, uploads, opts.Dev)
	postHandler := NewPostHandler(posts, uploads, opts.Dev)

	protected := func(h http.HandlerFunc) http.Handler {
		return RequireAuth(auth, h)
	}

	mux.HandleFunc("GET /healthz", HandleHealthz)

	mux.HandleFunc("POST /api/users/register", authHandler.HandleRegister)
	mux.HandleFunc("POST /api/users/login", authHandler.HandleLogin)
	mux.Handle("PUT /api/users/profile", protected(userHandler.HandleUpdateProfile))
	mux.HandleFunc("GET /api/users/profile/{id}", userHandler.HandleGetProfile)

	mux.Handle("POST /api/posts", protected(postHandler.HandleCreate))
	mux.HandleFunc("GET /api/posts", postHandler.HandleList)
	mux.HandleFunc("GET /api/posts/{id}", postHandler.HandleGet)
	mux.Handle("PUT /api/posts/{id}", protected(postHandler.HandleUpdate))
	mux.Handle("DELETE /api/posts/{id}", protected(postHandler.HandleDelete))
	mux.Handle("POST /api/posts/{id}/comments", protected(postHandler.HandleComment))
	mux.Handle("PATCH /api/posts/{id}/like", protected(postHandler.HandleLike))

	// Uploaded images are public, read-only static files. Upload URLs
	// are issued under /uploads; the /api prefix serves the same tree.
	files := http.FileServer(http.Dir(opts.UploadRoot))
	mux.Handle("GET /uploads/", http.StripPrefix("/uploads/", files))
	mux.Handle("GET /api/uploads/", http.StripPrefix("/api/uploads/", files))
}
