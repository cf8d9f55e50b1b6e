package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
)

// doJSON sends a JSON request with an optional bearer token and
// decodes the JSON response body.
func doJSON(t *testing.T, method, url, token string, body any) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	var decoded map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil && err != io.EOF {
		t.Fatalf("decode response: %v", err)
	}
	return resp.StatusCode, decoded
}

func registerViaAPI(t *testing.T, baseURL, username, email string) (int64, string) {
	t.Helper()
	status, body := doJSON(t, http.MethodPost, baseURL+"/api/users/register", "", map[string]string{
		"username": username,
		"email":    email,
		"password": "password123",
	})
	if status != http.StatusCreated {
		t.Fatalf("register %s: expected 201, got %d (%v)", username, status, body)
	}
	token, _ := body["token"].(string)
	if token == "" {
		t.Fatalf("register %s: expected a token", username)
	}
	return int64(body["id"].(float64)), token
}

func TestIntegration_RegisterPostCommentDelete(t *testing.T) {
	env := newTestEnv(t)
	srv := httptest.NewServer(env.mux)
	defer srv.Close()

	// Register user A and log in.
	_, _ = registerViaAPI(t, srv.URL, "usera", "a@example.com")
	status, login := doJSON(t, http.MethodPost, srv.URL+"/api/users/login", "", map[string]string{
		"email":    "a@example.com",
		"password": "password123",
	})
	if status != http.StatusOK {
		t.Fatalf("login: expected 200, got %d (%v)", status, login)
	}
	tokenA := login["token"].(string)

	// Create a post as A.
	status, created := doJSON(t, http.MethodPost, srv.URL+"/api/posts", tokenA, map[string]any{
		"title":   "T",
		"content": "C",
	})
	if status != http.StatusCreated {
		t.Fatalf("create post: expected 201, got %d (%v)", status, created)
	}
	postID := int64(created["id"].(float64))
	postURL := fmt.Sprintf("%s/api/posts/%d", srv.URL, postID)

	// Read it back, author populated, comments and likes empty.
	status, post := doJSON(t, http.MethodGet, postURL, "", nil)
	if status != http.StatusOK {
		t.Fatalf("get post: expected 200, got %d", status)
	}
	if post["title"] != "T" || post["content"] != "C" {
		t.Fatalf("unexpected post body: %v", post)
	}
	author := post["author"].(map[string]any)
	if author["username"] != "usera" {
		t.Fatalf("expected author usera, got %v", author["username"])
	}
	if len(post["comments"].([]any)) != 0 || len(post["likes"].([]any)) != 0 {
		t.Fatalf("expected empty comments and likes, got %v", post)
	}

	// User B comments.
	_, tokenB := registerViaAPI(t, srv.URL, "userb", "b@example.com")
	status, commented := doJSON(t, http.MethodPost, postURL+"/comments", tokenB, map[string]string{
		"text": "nice",
	})
	if status != http.StatusCreated {
		t.Fatalf("comment: expected 201, got %d (%v)", status, commented)
	}
	comments := commented["comments"].([]any)
	if len(comments) != 1 {
		t.Fatalf("expected 1 comment, got %d", len(comments))
	}
	comment := comments[0].(map[string]any)
	if comment["text"] != "nice" {
		t.Fatalf("expected comment text nice, got %v", comment["text"])
	}
	if comment["user"].(map[string]any)["username"] != "userb" {
		t.Fatalf("expected comment author userb, got %v", comment["user"])
	}

	// B cannot delete A's post; the post survives.
	status, _ = doJSON(t, http.MethodDelete, postURL, tokenB, nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("delete as non-author: expected 401, got %d", status)
	}
	if status, _ = doJSON(t, http.MethodGet, postURL, "", nil); status != http.StatusOK {
		t.Fatalf("post should survive non-author delete, got %d", status)
	}

	// A deletes their own post.
	status, deleted := doJSON(t, http.MethodDelete, postURL, tokenA, nil)
	if status != http.StatusOK {
		t.Fatalf("delete as author: expected 200, got %d", status)
	}
	if int64(deleted["postId"].(float64)) != postID {
		t.Fatalf("expected postId %d in delete response, got %v", postID, deleted["postId"])
	}
	if status, _ = doJSON(t, http.MethodGet, postURL, "", nil); status != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", status)
	}
}

func TestIntegration_LoginFailuresIdentical(t *testing.T) {
	env := newTestEnv(t)
	srv := httptest.NewServer(env.mux)
	defer srv.Close()

	registerViaAPI(t, srv.URL, "victim", "victim@example.com")

	wrongStatus, wrongBody := doJSON(t, http.MethodPost, srv.URL+"/api/users/login", "", map[string]string{
		"email": "victim@example.com", "password": "wrong",
	})
	unknownStatus, unknownBody := doJSON(t, http.MethodPost, srv.URL+"/api/users/login", "", map[string]string{
		"email": "ghost@example.com", "password": "password123",
	})

	if wrongStatus != http.StatusUnauthorized || unknownStatus != http.StatusUnauthorized {
		t.Fatalf("expected 401/401, got %d/%d", wrongStatus, unknownStatus)
	}
	if wrongBody["message"] != unknownBody["message"] {
		t.Fatalf("login failures must be identical: %v vs %v", wrongBody, unknownBody)
	}
}

func TestIntegration_RegisterValidationAndCollisions(t *testing.T) {
	env := newTestEnv(t)
	srv := httptest.NewServer(env.mux)
	defer srv.Close()

	// Missing fields.
	status, _ := doJSON(t, http.MethodPost, srv.URL+"/api/users/register", "", map[string]string{
		"username": "incomplete",
	})
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing fields, got %d", status)
	}

	registerViaAPI(t, srv.URL, "taken", "taken@example.com")

	// The response names the colliding field.
	status, body := doJSON(t, http.MethodPost, srv.URL+"/api/users/register", "", map[string]string{
		"username": "taken", "email": "fresh@example.com", "password": "password123",
	})
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400 for duplicate username, got %d", status)
	}
	if msg := body["message"].(string); !strings.Contains(msg, "username") {
		t.Fatalf("expected message naming the username field, got %q", msg)
	}

	status, body = doJSON(t, http.MethodPost, srv.URL+"/api/users/register", "", map[string]string{
		"username": "fresh", "email": "taken@example.com", "password": "password123",
	})
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400 for duplicate email, got %d", status)
	}
	if msg := body["message"].(string); !strings.Contains(msg, "email") {
		t.Fatalf("expected message naming the email field, got %q", msg)
	}
}

func TestIntegration_ProfileReadNeverLeaksPassword(t *testing.T) {
	env := newTestEnv(t)
	srv := httptest.NewServer(env.mux)
	defer srv.Close()

	id, _ := registerViaAPI(t, srv.URL, "private", "private@example.com")

	resp, err := http.Get(fmt.Sprintf("%s/api/users/profile/%d", srv.URL, id))
	if err != nil {
		t.Fatalf("GET profile: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	raw, _ := io.ReadAll(resp.Body)
	if strings.Contains(strings.ToLower(string(raw)), "password") {
		t.Fatalf("profile response must not carry any password field: %s", raw)
	}
}

func TestIntegration_ProfileUpdate(t *testing.T) {
	env := newTestEnv(t)
	srv := httptest.NewServer(env.mux)
	defer srv.Close()

	id, token := registerViaAPI(t, srv.URL, "editable", "editable@example.com")

	status, body := doJSON(t, http.MethodPut, srv.URL+"/api/users/profile", token, map[string]string{
		"bio": "Writes about Go.",
	})
	if status != http.StatusOK {
		t.Fatalf("update profile: expected 200, got %d (%v)", status, body)
	}
	if body["bio"] != "Writes about Go." {
		t.Fatalf("expected updated bio, got %v", body["bio"])
	}
	if body["username"] != "editable" {
		t.Fatalf("absent fields must be retained, got %v", body["username"])
	}
	fresh, _ := body["token"].(string)
	if fresh == "" {
		t.Fatal("expected a fresh token in the update response")
	}

	// The fresh token authenticates further requests.
	status, profile := doJSON(t, http.MethodGet, fmt.Sprintf("%s/api/users/profile/%d", srv.URL, id), "", nil)
	if status != http.StatusOK || profile["bio"] != "Writes about Go." {
		t.Fatalf("expected persisted bio, got %d %v", status, profile)
	}
}

func TestIntegration_Pagination(t *testing.T) {
	env := newTestEnv(t)
	srv := httptest.NewServer(env.mux)
	defer srv.Close()

	_, token := registerViaAPI(t, srv.URL, "prolific", "prolific@example.com")
	for i := 1; i <= 13; i++ {
		status, _ := doJSON(t, http.MethodPost, srv.URL+"/api/posts", token, map[string]string{
			"title": fmt.Sprintf("Post %d", i), "content": "body",
		})
		if status != http.StatusCreated {
			t.Fatalf("create post %d: got %d", i, status)
		}
	}

	status, body := doJSON(t, http.MethodGet, srv.URL+"/api/posts?page=2", "", nil)
	if status != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", status)
	}
	if got := len(body["posts"].([]any)); got != 3 {
		t.Fatalf("expected 3 posts on page 2, got %d", got)
	}
	if body["pages"].(float64) != 2 || body["total"].(float64) != 13 {
		t.Fatalf("expected pages=2 total=13, got %v", body)
	}

	// Keyword search matches case-insensitively against title/content.
	status, body = doJSON(t, http.MethodGet, srv.URL+"/api/posts?keyword=POST", "", nil)
	if status != http.StatusOK || body["total"].(float64) != 13 {
		t.Fatalf("keyword list: got %d %v", status, body)
	}
}

func TestIntegration_LikeToggle(t *testing.T) {
	env := newTestEnv(t)
	srv := httptest.NewServer(env.mux)
	defer srv.Close()

	_, tokenA := registerViaAPI(t, srv.URL, "author", "author@example.com")
	fanID, tokenB := registerViaAPI(t, srv.URL, "fan", "fan@example.com")

	status, created := doJSON(t, http.MethodPost, srv.URL+"/api/posts", tokenA, map[string]string{
		"title": "Likeable", "content": "body",
	})
	if status != http.StatusCreated {
		t.Fatalf("create post: got %d", status)
	}
	likeURL := fmt.Sprintf("%s/api/posts/%d/like", srv.URL, int64(created["id"].(float64)))

	status, body := doJSON(t, http.MethodPatch, likeURL, tokenB, nil)
	if status != http.StatusOK {
		t.Fatalf("like: expected 200, got %d", status)
	}
	likes := body["likes"].([]any)
	if len(likes) != 1 || int64(likes[0].(float64)) != fanID {
		t.Fatalf("expected like set [%d], got %v", fanID, likes)
	}

	status, body = doJSON(t, http.MethodPatch, likeURL, tokenB, nil)
	if status != http.StatusOK {
		t.Fatalf("unlike: expected 200, got %d", status)
	}
	if len(body["likes"].([]any)) != 0 {
		t.Fatalf("expected empty like set, got %v", body["likes"])
	}
}

// multipartPost builds a multipart post-creation request with an
// attached image file.
func multipartPost(t *testing.T, url, token, filename, contentType string, data []byte, fields map[string]string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		mw.WriteField(k, v)
	}
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="image"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	part.Write(data)
	mw.Close()

	req, err := http.NewRequest(http.MethodPost, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestIntegration_PostWithImageUpload(t *testing.T) {
	env := newTestEnv(t)
	srv := httptest.NewServer(env.mux)
	defer srv.Close()

	_, token := registerViaAPI(t, srv.URL, "snapper", "snapper@example.com")

	req := multipartPost(t, srv.URL+"/api/posts", token, "cover.png", "image/png",
		[]byte("png-bytes"), map[string]string{
			"title":   "Illustrated",
			"content": "with a picture",
			"tags":    "art, photos",
		})
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("POST multipart: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	var created map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	imageURL, _ := created["image"].(string)
	if !strings.HasPrefix(imageURL, "/uploads/posts/post-") {
		t.Fatalf("unexpected image URL %q", imageURL)
	}
	tags := created["tags"].([]any)
	if len(tags) != 2 || tags[0] != "art" || tags[1] != "photos" {
		t.Fatalf("expected parsed tags, got %v", tags)
	}

	// The returned URL resolves to a retrievable static resource,
	// under both the bare and the /api prefixed routes.
	for _, path := range []string{imageURL, "/api" + imageURL} {
		got, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		data, _ := io.ReadAll(got.Body)
		got.Body.Close()
		if got.StatusCode != http.StatusOK || string(data) != "png-bytes" {
			t.Fatalf("GET %s: status %d body %q", path, got.StatusCode, data)
		}
	}
}

func TestIntegration_UploadRejectsDisallowedType(t *testing.T) {
	env := newTestEnv(t)
	srv := httptest.NewServer(env.mux)
	defer srv.Close()

	_, token := registerViaAPI(t, srv.URL, "sneaky", "sneaky@example.com")

	req := multipartPost(t, srv.URL+"/api/posts", token, "anim.gif", "image/gif",
		[]byte("gif-bytes"), map[string]string{
			"title":   "Animated",
			"content": "not allowed",
		})
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("POST multipart: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for .gif upload, got %d", resp.StatusCode)
	}

	// The rejected upload must not create a post either.
	status, body := doJSON(t, http.MethodGet, srv.URL+"/api/posts", "", nil)
	if status != http.StatusOK || body["total"].(float64) != 0 {
		t.Fatalf("expected no posts persisted, got %v", body)
	}
}

func TestIntegration_ProtectedRoutesRequireAuth(t *testing.T) {
	env := newTestEnv(t)
	srv := httptest.NewServer(env.mux)
	defer srv.Close()

	for _, tc := range []struct{ method, path string }{
		{http.MethodPost, "/api/posts"},
		{http.MethodPut, "/api/posts/1"},
		{http.MethodDelete, "/api/posts/1"},
		{http.MethodPost, "/api/posts/1/comments"},
		{http.MethodPatch, "/api/posts/1/like"},
		{http.MethodPut, "/api/users/profile"},
	} {
		status, _ := doJSON(t, tc.method, srv.URL+tc.path, "", nil)
		if status != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401 without token, got %d", tc.method, tc.path, status)
		}
	}
}
