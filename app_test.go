package gallerydesk

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eringen/gallerydesk/api"
	"github.com/eringen/gallerydesk/blobstore"
)

const csrfToken = "testtoken"

// fakeBackend serves the image REST API from memory.
type fakeBackend struct {
	mu     sync.Mutex
	images []api.ImageRecord
	png    []byte
	calls  []string
	srv    *httptest.Server
}

var accounts = map[string]api.LoginResponse{
	"user@x.com":  {AccessToken: "tok-user"},
	"admin@x.com": {AccessToken: "tok-admin", IsAdmin: true},
	"stale@x.com": {AccessToken: "tok-stale"},
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}

	b := &fakeBackend{
		png: buf.Bytes(),
		images: []api.ImageRecord{
			{ID: "r1", FileID: "f1", Title: "Alps", Interpretation: "snow", UserEmail: "a@x.com", IsNew: true,
				UploadTime: api.Timestamp{Time: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)}},
			{ID: "r2", FileID: "f2", Title: "Beach", Interpretation: "sand", UserEmail: "b@x.com",
				UploadTime: api.Timestamp{Time: time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC)}},
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /login", func(w http.ResponseWriter, r *http.Request) {
		var creds api.Credentials
		_ = json.NewDecoder(r.Body).Decode(&creds)
		resp, ok := accounts[creds.Email]
		if !ok || creds.Password != "pw" {
			http.Error(w, `{"detail":"bad credentials"}`, http.StatusUnauthorized)
			return
		}
		writeJSON(w, resp)
	})
	mux.HandleFunc("POST /register", func(w http.ResponseWriter, r *http.Request) {
		var creds api.Credentials
		_ = json.NewDecoder(r.Body).Decode(&creds)
		if _, ok := accounts[creds.Email]; ok {
			http.Error(w, "exists", http.StatusConflict)
			return
		}
		writeJSON(w, map[string]string{"msg": "ok"})
	})
	mux.HandleFunc("GET /images", b.authed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, b.snapshot())
	}))
	mux.HandleFunc("GET /search", b.authed(func(w http.ResponseWriter, r *http.Request) {
		q := strings.ToLower(r.URL.Query().Get("q"))
		var out []api.ImageRecord
		for _, img := range b.snapshot() {
			if strings.Contains(strings.ToLower(img.Title), q) {
				out = append(out, img)
			}
		}
		writeJSON(w, out)
	}))
	mux.HandleFunc("GET /images/{file_id}", b.authed(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(b.png)
	}))
	mux.HandleFunc("GET /images/{file_id}/details", b.authed(func(w http.ResponseWriter, r *http.Request) {
		for _, img := range b.snapshot() {
			if img.FileID == r.PathValue("file_id") {
				writeJSON(w, img)
				return
			}
		}
		http.NotFound(w, r)
	}))
	mux.HandleFunc("PUT /images/{file_id}", b.authed(func(w http.ResponseWriter, r *http.Request) {
		var u api.ImageUpdate
		_ = json.NewDecoder(r.Body).Decode(&u)
		b.mu.Lock()
		defer b.mu.Unlock()
		for i := range b.images {
			if b.images[i].FileID == r.PathValue("file_id") {
				b.images[i].Title = u.Title
				b.images[i].Interpretation = u.Interpretation
				writeJSON(w, b.images[i])
				return
			}
		}
		http.NotFound(w, r)
	}))
	mux.HandleFunc("DELETE /images/{file_id}", b.authed(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i := range b.images {
			if b.images[i].FileID == r.PathValue("file_id") {
				b.images = append(b.images[:i], b.images[i+1:]...)
				writeJSON(w, map[string]string{"msg": "deleted"})
				return
			}
		}
		http.NotFound(w, r)
	}))
	mux.HandleFunc("GET /admin/images_with_users", b.authed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, b.snapshot())
	}))
	mux.HandleFunc("GET /admin/users", b.authed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []api.UserRecord{{ID: "u1", Email: "a@x.com"}, {ID: "u2", Email: "b@x.com"}})
	}))
	mux.HandleFunc("PUT /admin/images/{id}", b.authed(func(w http.ResponseWriter, r *http.Request) {
		var u api.AdminImageUpdate
		_ = json.NewDecoder(r.Body).Decode(&u)
		b.mu.Lock()
		defer b.mu.Unlock()
		for i := range b.images {
			if b.images[i].ID == r.PathValue("id") {
				b.images[i].Title = u.Title
				b.images[i].Interpretation = u.Interpretation
				b.images[i].IsNew = u.IsNew
				writeJSON(w, api.ImageRecord{
					ID:             b.images[i].ID,
					Title:          u.Title,
					Interpretation: u.Interpretation,
					IsNew:          u.IsNew,
				})
				return
			}
		}
		http.NotFound(w, r)
	}))

	b.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.calls = append(b.calls, r.Method+" "+r.URL.Path)
		b.mu.Unlock()
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(b.srv.Close)
	return b
}

// authed rejects requests without a live token. tok-stale is always refused.
func (b *fakeBackend) authed(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if auth == "" || auth == "Bearer tok-stale" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func (b *fakeBackend) snapshot() []api.ImageRecord {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]api.ImageRecord(nil), b.images...)
}

func (b *fakeBackend) called(call string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, c := range b.calls {
		if c == call {
			n++
		}
	}
	return n
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

type harness struct {
	app     *App
	backend *fakeBackend
	srv     *httptest.Server
	client  *http.Client
}

func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()
	be := newFakeBackend(t)
	opts = append([]Option{WithBlobStore(blobstore.NewMemoryStore(time.Minute))}, opts...)
	app := New(Config{
		APIURL:        be.srv.URL,
		SessionSecret: "test-session-secret-0123456789abcdef",
	}, opts...)
	if err := app.Setup(); err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	srv := httptest.NewServer(app.Echo)
	t.Cleanup(func() {
		srv.Close()
		_ = app.Close()
	})

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar: %v", err)
	}
	u, _ := url.Parse(srv.URL)
	jar.SetCookies(u, []*http.Cookie{{Name: "_csrf", Value: csrfToken, Path: "/"}})

	return &harness{app: app, backend: be, srv: srv, client: &http.Client{Jar: jar}}
}

func (h *harness) get(t *testing.T, path string) (*http.Response, string) {
	t.Helper()
	resp, err := h.client.Get(h.srv.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp, string(body)
}

func (h *harness) post(t *testing.T, path string, form url.Values) (*http.Response, string) {
	t.Helper()
	if form == nil {
		form = url.Values{}
	}
	form.Set("_csrf", csrfToken)
	resp, err := h.client.PostForm(h.srv.URL+path, form)
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp, string(body)
}

func (h *harness) login(t *testing.T, email string) string {
	t.Helper()
	resp, body := h.post(t, "/login/", url.Values{"email": {email}, "password": {"pw"}})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d", resp.StatusCode)
	}
	return body
}

func TestGalleryRequiresLogin(t *testing.T) {
	h := newHarness(t)
	resp, body := h.get(t, "/")
	if resp.Request.URL.Path != "/login/" {
		t.Fatalf("landed on %s, want /login/", resp.Request.URL.Path)
	}
	if !strings.Contains(body, `action="/login/"`) {
		t.Fatalf("expected login form, got %s", body)
	}
}

func TestLoginShowsGallery(t *testing.T) {
	h := newHarness(t)
	body := h.login(t, "user@x.com")
	for _, want := range []string{"Alps", "Beach", `name="q"`} {
		if !strings.Contains(body, want) {
			t.Fatalf("gallery missing %q", want)
		}
	}
	if h.backend.called("GET /images/f1") != 1 || h.backend.called("GET /images/f2") != 1 {
		t.Fatalf("expected one binary fetch per image, calls %v", h.backend.calls)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	h := newHarness(t)
	resp, body := h.post(t, "/login/", url.Values{"email": {"user@x.com"}, "password": {"nope"}})
	if resp.StatusCode != http.StatusOK || resp.Request.URL.Path != "/login/" {
		t.Fatalf("status %d at %s", resp.StatusCode, resp.Request.URL.Path)
	}
	if !strings.Contains(body, "Invalid email or password") {
		t.Fatalf("expected invalid credentials alert")
	}
	if strings.Contains(body, "nope") {
		t.Fatalf("password must not be echoed back")
	}
}

func TestLoginEmptyFieldsSkipBackend(t *testing.T) {
	h := newHarness(t)
	_, body := h.post(t, "/login/", url.Values{"email": {""}, "password": {""}})
	if !strings.Contains(body, "Please enter your email and password.") {
		t.Fatalf("expected missing fields alert")
	}
	_, body = h.post(t, "/login/", url.Values{"email": {"not-an-email"}, "password": {"pw"}})
	if !strings.Contains(body, "Please enter a valid email address.") {
		t.Fatalf("expected invalid email alert")
	}
	if n := h.backend.called("POST /login"); n != 0 {
		t.Fatalf("backend login called %d times", n)
	}
}

func TestLoginRateLimited(t *testing.T) {
	h := newHarness(t)
	for i := 0; i < 5; i++ {
		h.post(t, "/login/", url.Values{"email": {"user@x.com"}, "password": {"bad"}})
	}
	resp, body := h.post(t, "/login/", url.Values{"email": {"user@x.com"}, "password": {"pw"}})
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", resp.StatusCode)
	}
	if !strings.Contains(body, "Too many login attempts") {
		t.Fatalf("expected rate limit alert")
	}
}

func TestLoginSuccessClearsFailures(t *testing.T) {
	h := newHarness(t)
	bad := url.Values{"email": {"user@x.com"}, "password": {"bad"}}
	for round := 0; round < 2; round++ {
		for i := 0; i < 4; i++ {
			h.post(t, "/login/", bad)
		}
		resp, _ := h.post(t, "/login/", url.Values{"email": {"user@x.com"}, "password": {"pw"}})
		if resp.StatusCode != http.StatusOK || resp.Request.URL.Path != "/" {
			t.Fatalf("round %d: login = %d at %s, want 200 at /", round, resp.StatusCode, resp.Request.URL.Path)
		}
	}
}

func TestRegisterRedirectsToLogin(t *testing.T) {
	h := newHarness(t)
	resp, body := h.post(t, "/register/", url.Values{"email": {"new@x.com"}, "password": {"pw"}})
	if resp.Request.URL.Path != "/login/" {
		t.Fatalf("landed on %s, want /login/", resp.Request.URL.Path)
	}
	if !strings.Contains(body, "Registration complete") {
		t.Fatalf("expected registration notice")
	}

	_, body = h.post(t, "/register/", url.Values{"email": {"user@x.com"}, "password": {"pw"}})
	if !strings.Contains(body, "Registration failed") {
		t.Fatalf("expected register form with failure alert")
	}
}

func TestLogoutClearsSession(t *testing.T) {
	h := newHarness(t)
	h.login(t, "user@x.com")
	resp, _ := h.post(t, "/logout/", nil)
	if resp.Request.URL.Path != "/login/" {
		t.Fatalf("landed on %s after logout", resp.Request.URL.Path)
	}
	resp, _ = h.get(t, "/")
	if resp.Request.URL.Path != "/login/" {
		t.Fatalf("session survived logout")
	}
}

func TestBackendUnauthorizedExpiresSession(t *testing.T) {
	h := newHarness(t)
	resp, body := h.post(t, "/login/", url.Values{"email": {"stale@x.com"}, "password": {"pw"}})
	if resp.Request.URL.Path != "/login/" || resp.Request.URL.Query().Get("expired") != "1" {
		t.Fatalf("landed on %s", resp.Request.URL)
	}
	if !strings.Contains(body, "Your session has expired") {
		t.Fatalf("expected expired notice")
	}
	resp, _ = h.get(t, "/profile/")
	if resp.Request.URL.Path != "/login/" {
		t.Fatalf("expired session still signed in")
	}
}

func TestSearchFiltersGallery(t *testing.T) {
	h := newHarness(t)
	h.login(t, "user@x.com")
	_, body := h.get(t, "/?q=beach")
	if !strings.Contains(body, "Beach") || strings.Contains(body, "Alps") {
		t.Fatalf("unexpected search results")
	}
	if h.backend.called("GET /search") != 1 {
		t.Fatalf("expected one search call")
	}
}

func TestDeleteImage(t *testing.T) {
	h := newHarness(t)
	h.login(t, "user@x.com")

	resp, body := h.post(t, "/images/f1/delete/", url.Values{"q": {""}})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if !strings.Contains(body, "Image deleted successfully") {
		t.Fatalf("expected deleted dialog")
	}
	if strings.Contains(body, "Alps") {
		t.Fatalf("deleted image still listed")
	}
	if h.backend.called("DELETE /images/f1") != 1 {
		t.Fatalf("expected one DELETE call, got %v", h.backend.calls)
	}
}

func TestDeleteInvalidFileIDSkipsBackend(t *testing.T) {
	h := newHarness(t)
	h.login(t, "user@x.com")
	before := h.backend.called("GET /images/f1") + h.backend.called("GET /images/f2")

	_, body := h.post(t, "/images/undefined/delete/", nil)
	if !strings.Contains(body, "Cannot delete image with invalid file_id") {
		t.Fatalf("expected invalid id dialog")
	}
	if h.backend.called("DELETE /images/undefined") != 0 {
		t.Fatalf("DELETE must not be sent for an invalid id")
	}
	if !strings.Contains(body, "Alps") || !strings.Contains(body, "Beach") {
		t.Fatalf("gallery not listed with the dialog")
	}
	after := h.backend.called("GET /images/f1") + h.backend.called("GET /images/f2")
	if after != before {
		t.Fatalf("binaries fetched %d times for a rejected delete", after-before)
	}
}

func TestHealthRouteIsNotRedirected(t *testing.T) {
	h := newHarness(t, WithCustomRoutes(func(a *App) {
		a.Echo.GET(HealthPath, func(c echo.Context) error {
			return c.String(http.StatusOK, "ok")
		})
	}))
	resp, body := h.get(t, HealthPath)
	if resp.StatusCode != http.StatusOK || body != "ok" {
		t.Fatalf("health check = %d %q", resp.StatusCode, body)
	}
	if resp.Request.URL.Path != HealthPath {
		t.Fatalf("health check redirected to %s", resp.Request.URL.Path)
	}
}

func TestServeBlob(t *testing.T) {
	h := newHarness(t)
	body := h.login(t, "user@x.com")

	m := regexp.MustCompile(`src="(/blobs/[^"]+)"`).FindStringSubmatch(body)
	if m == nil {
		t.Fatalf("no blob URL in gallery")
	}
	resp, data := h.get(t, m[1])
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("blob status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Fatalf("Content-Type = %q", ct)
	}
	if cc := resp.Header.Get("Cache-Control"); cc != "private, max-age=600" {
		t.Fatalf("Cache-Control = %q", cc)
	}
	if data != string(h.backend.png) {
		t.Fatalf("blob content differs from backend image")
	}

	resp, _ = h.get(t, "/blobs/missing")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown handle status = %d", resp.StatusCode)
	}
}

func TestDetailAndEdit(t *testing.T) {
	h := newHarness(t)
	h.login(t, "user@x.com")

	_, body := h.get(t, "/images/f2/")
	if !strings.Contains(body, "Beach") || !strings.Contains(body, "sand") {
		t.Fatalf("detail missing record")
	}

	_, body = h.get(t, "/images/f2/edit/")
	if !strings.Contains(body, `value="Beach"`) {
		t.Fatalf("edit form not prefilled")
	}

	resp, body := h.post(t, "/images/f2/edit/", url.Values{"title": {"Dunes"}, "interpretation": {"wind"}})
	if resp.Request.URL.Path != "/images/f2/" {
		t.Fatalf("landed on %s after save", resp.Request.URL.Path)
	}
	if !strings.Contains(body, "Dunes") {
		t.Fatalf("detail does not show saved title")
	}
}

func TestAdminRequiresAdminFlag(t *testing.T) {
	h := newHarness(t)
	h.login(t, "user@x.com")
	resp, _ := h.get(t, "/admin/")
	if resp.Request.URL.Path != "/" {
		t.Fatalf("non-admin landed on %s", resp.Request.URL.Path)
	}
	if h.backend.called("GET /admin/images_with_users") != 0 {
		t.Fatalf("admin endpoint called for non-admin")
	}
}

func TestAdminFilterAndMenu(t *testing.T) {
	h := newHarness(t)
	h.login(t, "admin@x.com")

	_, body := h.get(t, "/admin/")
	if !strings.Contains(body, "Alps") || !strings.Contains(body, "Beach") {
		t.Fatalf("admin table incomplete")
	}
	if !strings.Contains(body, `class="new-image"`) || !strings.Contains(body, "NEW") {
		t.Fatalf("new image not highlighted")
	}
	if strings.Contains(body, "dropdown open") {
		t.Fatalf("menu should start closed")
	}

	_, body = h.get(t, "/admin/?menu=open")
	if !strings.Contains(body, "dropdown open") || !strings.Contains(body, `class="overlay"`) {
		t.Fatalf("menu did not open")
	}

	_, body = h.get(t, "/admin/?menu=open&pointer=outside")
	if strings.Contains(body, "dropdown open") {
		t.Fatalf("outside pointer did not close the menu")
	}

	_, body = h.get(t, "/admin/?menu=open&pointer=menu")
	if !strings.Contains(body, "dropdown open") {
		t.Fatalf("pointer inside the menu closed it")
	}

	_, body = h.get(t, "/admin/?user=b%40x.com")
	if !strings.Contains(body, "Beach") || strings.Contains(body, "Alps") {
		t.Fatalf("filter by user did not apply")
	}
	if strings.Contains(body, "dropdown open") {
		t.Fatalf("selecting a user should close the menu")
	}
}

func TestAdminUpdate(t *testing.T) {
	h := newHarness(t)
	h.login(t, "admin@x.com")

	_, body := h.get(t, "/admin/?edit=r1")
	if !strings.Contains(body, `action="/admin/images/r1/"`) {
		t.Fatalf("edit modal missing")
	}

	_, body = h.get(t, "/admin/?edit=missing")
	if !strings.Contains(body, "Image not found") {
		t.Fatalf("expected not found alert")
	}

	_, body = h.post(t, "/admin/images/r1/", url.Values{
		"title":          {"Matterhorn"},
		"interpretation": {"peak"},
		"user":           {""},
	})
	if !strings.Contains(body, "Changes saved") || !strings.Contains(body, "Matterhorn") {
		t.Fatalf("updated row not shown")
	}
	if !strings.Contains(body, "a@x.com") {
		t.Fatalf("update dropped the uploader email")
	}
	if strings.Contains(body, `class="new-image"`) {
		t.Fatalf("update should clear the new flag")
	}
	if h.backend.called("PUT /admin/images/r1") != 1 {
		t.Fatalf("expected one admin PUT")
	}
}

func TestAdminPreview(t *testing.T) {
	h := newHarness(t)
	h.login(t, "admin@x.com")
	_, body := h.get(t, "/admin/?preview=f2")
	if !strings.Contains(body, `<img class="fluid" src="/blobs/`) {
		t.Fatalf("preview modal missing")
	}
}

func TestLanguageSwitch(t *testing.T) {
	h := newHarness(t)
	_, body := h.get(t, "/login/?lang=ko")
	if !strings.Contains(body, "로그인") {
		t.Fatalf("expected Korean login page")
	}
	_, body = h.get(t, "/register/")
	if !strings.Contains(body, "회원가입") {
		t.Fatalf("language choice was not remembered")
	}
}

func TestNotFoundPage(t *testing.T) {
	h := newHarness(t)
	resp, _ := h.get(t, "/nope/")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestPostWithoutCSRFRejected(t *testing.T) {
	h := newHarness(t)
	resp, err := http.PostForm(h.srv.URL+"/login/", url.Values{"email": {"user@x.com"}, "password": {"pw"}})
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", resp.StatusCode)
	}
}

func TestSetupRequiresBackendURL(t *testing.T) {
	app := New(Config{SessionSecret: "s"})
	if err := app.Setup(); err == nil {
		t.Fatalf("expected error without APIURL")
	}
	app = New(Config{APIURL: "http://backend"})
	if err := app.Setup(); err == nil {
		t.Fatalf("expected error without SessionSecret")
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yml := "siteName: Photo Desk\napiUrl: http://from-file\nfetchConcurrency: 2\napiTimeout: 45s\n"
	if err := os.WriteFile(path, []byte(yml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("API_URL", "http://from-env")
	t.Setenv("BLOB_STORE", "sqlite")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Name != "Photo Desk" {
		t.Fatalf("Name = %q", cfg.Name)
	}
	if cfg.APIURL != "http://from-env" {
		t.Fatalf("APIURL = %q, env should win", cfg.APIURL)
	}
	if cfg.FetchConcurrency != 2 || cfg.APITimeout != 45*time.Second {
		t.Fatalf("file values lost: %+v", cfg)
	}
	if cfg.BlobStore != "sqlite" || cfg.ThumbnailWidth != 400 || cfg.Addr != ":3000" {
		t.Fatalf("defaults or env not applied: %+v", cfg)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("missing file should not fail: %v", err)
	}
	if cfg.APITimeout != 30*time.Second || cfg.FetchConcurrency != 4 {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
}
