package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/portfolio/internal/content"
	"github.com/portfolio/internal/db"
	"github.com/portfolio/internal/gate"
	"github.com/portfolio/internal/repository"
	"github.com/portfolio/internal/router"
	"github.com/portfolio/internal/service"
	"gorm.io/gorm/logger"
)

const (
	e2eSetupToken = "setup-e2e-token"
	e2ePassword   = "e2e-secret"
)

type e2eSuite struct {
	handler   http.Handler
	public    httpClient
	admin     httpClient
	baseURL   string
	uploadDir string
	store     *repository.Store
	shop      *db.Project
	published *db.BlogPost
	draft     *db.BlogPost
}

type httpClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type localClient struct {
	handler http.Handler
	jar     http.CookieJar
}

func newLocalClient(handler http.Handler, withJar bool) *localClient {
	var jar http.CookieJar
	if withJar {
		if j, err := cookiejar.New(nil); err == nil {
			jar = j
		}
	}
	return &localClient{handler: handler, jar: jar}
}

func (c *localClient) Do(req *http.Request) (*http.Response, error) {
	if c.jar != nil {
		for _, cookie := range c.jar.Cookies(req.URL) {
			req.AddCookie(cookie)
		}
	}
	w := httptest.NewRecorder()
	c.handler.ServeHTTP(w, req)
	resp := w.Result()
	if c.jar != nil {
		c.jar.SetCookies(req.URL, resp.Cookies())
	}
	return resp, nil
}

func TestE2E_AllInterfaces(t *testing.T) {
	suite := newE2ESuite(t)

	t.Run("public endpoints", suite.testPublicEndpoints)
	t.Run("language toggle", suite.testLanguageToggle)
	t.Run("gate flow", suite.testGateFlow)
	t.Run("admin apis", suite.testAdminAPIs)
	t.Run("forget device", suite.testForgetDevice)
}

func newE2ESuite(t *testing.T) *e2eSuite {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:e2e-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := db.Open(dsn, logger.Silent)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})
	store := repository.NewStore(gdb)

	title := "Toko Online"
	shop, err := service.NewProjectService(store, nil).Create(context.Background(), service.ProjectInput{Title: &title})
	if err != nil {
		t.Fatalf("failed to seed project: %v", err)
	}

	blogs := service.NewBlogService(store, nil)
	published, err := blogs.Create(context.Background(), service.BlogInput{
		Title:       strPtr("Published Post"),
		Content:     strPtr("# Hello\n\nBody text."),
		IsPublished: boolPtr(true),
	})
	if err != nil {
		t.Fatalf("failed to seed published post: %v", err)
	}
	draft, err := blogs.Create(context.Background(), service.BlogInput{Title: strPtr("Draft Post")})
	if err != nil {
		t.Fatalf("failed to seed draft post: %v", err)
	}

	g, err := gate.New(gate.Config{SetupToken: e2eSetupToken, Password: e2ePassword})
	if err != nil {
		t.Fatalf("failed to build gate: %v", err)
	}

	uploadDir := t.TempDir()
	engine := router.SetupRouter(router.Options{
		Store:         store,
		Gate:          g,
		SessionSecret: "test-session-secret",
		UploadDir:     uploadDir,
		UploadURL:     "/uploads",
		DeviceMaxAge:  10 * 365 * 24 * time.Hour,
	})

	return &e2eSuite{
		handler:   engine,
		public:    newLocalClient(engine, false),
		admin:     newLocalClient(engine, true),
		baseURL:   "http://example.test",
		uploadDir: uploadDir,
		store:     store,
		shop:      shop,
		published: published,
		draft:     draft,
	}
}

func (s *e2eSuite) testPublicEndpoints(t *testing.T) {
	var projects struct {
		Projects []db.Project `json:"projects"`
	}
	resp := s.mustRequest(t, s.public, http.MethodGet, "/api/projects", nil, nil)
	expectStatus(t, resp, http.StatusOK)
	decodeJSON(t, resp, &projects)
	if len(projects.Projects) != 2 {
		t.Fatalf("expected synthetic demo plus one project, got %d", len(projects.Projects))
	}
	if projects.Projects[0].ID != content.InteractiveDemoID {
		t.Fatalf("expected interactive demo first, got %q", projects.Projects[0].ID)
	}
	if projects.Projects[1].Variant != string(content.VariantSystemDiagram) {
		t.Fatalf("expected shop to render as system diagram, got %q", projects.Projects[1].Variant)
	}

	var skills content.SkillCatalog
	resp = s.mustRequest(t, s.public, http.MethodGet, "/api/skills", nil, nil)
	expectStatus(t, resp, http.StatusOK)
	decodeJSON(t, resp, &skills)
	if !skills.Fallback || skills.Len() != 16 {
		t.Fatalf("expected the 16-entry fallback catalog, got %+v", skills)
	}

	var blogs struct {
		Blogs []db.BlogPost `json:"blogs"`
	}
	resp = s.mustRequest(t, s.public, http.MethodGet, "/api/blogs", nil, nil)
	expectStatus(t, resp, http.StatusOK)
	decodeJSON(t, resp, &blogs)
	if len(blogs.Blogs) != 1 || blogs.Blogs[0].ID != s.published.ID {
		t.Fatalf("expected only the published post, got %+v", blogs.Blogs)
	}

	var detail struct {
		Blog service.BlogView `json:"blog"`
	}
	resp = s.mustRequest(t, s.public, http.MethodGet, "/api/blogs/"+s.published.ID, nil, nil)
	expectStatus(t, resp, http.StatusOK)
	decodeJSON(t, resp, &detail)
	if !strings.Contains(detail.Blog.HTML, "<h1>Hello</h1>") {
		t.Fatalf("expected rendered html, got %q", detail.Blog.HTML)
	}
	resp = s.mustRequest(t, s.public, http.MethodGet, "/api/blogs/"+s.draft.ID, nil, nil)
	expectStatus(t, resp, http.StatusNotFound)
	resp.Body.Close()

	var created struct {
		Comment db.Comment `json:"comment"`
	}
	resp = s.mustRequestJSON(t, s.public, http.MethodPost, "/api/comments", map[string]interface{}{
		"name": "Rina", "message": "Mantap!", "is_author": true,
	})
	expectStatus(t, resp, http.StatusCreated)
	decodeJSON(t, resp, &created)
	if created.Comment.IsAuthor {
		t.Fatal("public comment must never be marked as author")
	}

	resp = s.mustRequestJSON(t, s.public, http.MethodPost, "/api/comments", map[string]interface{}{"name": "", "message": ""})
	expectStatus(t, resp, http.StatusBadRequest)
	resp.Body.Close()

	resp = s.mustRequestJSON(t, s.public, http.MethodPost, "/api/messages", map[string]interface{}{
		"name": "Dewi", "email": "dewi@example.com", "message": "Let's work together",
	})
	expectStatus(t, resp, http.StatusCreated)
	resp.Body.Close()

	resp = s.mustRequestJSON(t, s.public, http.MethodPost, "/api/messages", map[string]interface{}{
		"name": "Dewi", "email": "nope", "message": "x",
	})
	expectStatus(t, resp, http.StatusBadRequest)
	resp.Body.Close()

	resp = s.mustRequestJSON(t, s.public, http.MethodPost, "/api/visits", map[string]interface{}{"page_visited": "/blog"})
	expectStatus(t, resp, http.StatusNoContent)
	resp.Body.Close()
	resp = s.mustRequest(t, s.public, http.MethodPost, "/api/visits", strings.NewReader("{"), map[string]string{"Content-Type": "application/json"})
	expectStatus(t, resp, http.StatusNoContent)
	resp.Body.Close()

	var home service.Home
	resp = s.mustRequest(t, s.public, http.MethodGet, "/api/home", nil, nil)
	expectStatus(t, resp, http.StatusOK)
	decodeJSON(t, resp, &home)
	if len(home.Projects) != 2 || len(home.Blogs) != 1 || len(home.Comments) != 1 || !home.Skills.Fallback {
		t.Fatalf("unexpected home payload: %+v", home)
	}

	resp = s.mustRequest(t, s.public, http.MethodGet, "/healthz", nil, nil)
	expectStatus(t, resp, http.StatusOK)
	if body := readBody(t, resp); !strings.Contains(body, `"status":"ok"`) {
		t.Fatalf("healthz: unexpected body %q", body)
	}
}

func (s *e2eSuite) testLanguageToggle(t *testing.T) {
	visitor := newLocalClient(s.handler, true)

	var lang struct {
		Language string            `json:"language"`
		Labels   map[string]string `json:"labels"`
	}
	resp := s.mustRequest(t, visitor, http.MethodGet, "/api/language", nil, nil)
	expectStatus(t, resp, http.StatusOK)
	decodeJSON(t, resp, &lang)
	if lang.Language != "id" {
		t.Fatalf("expected indonesian default, got %q", lang.Language)
	}

	resp = s.mustRequest(t, visitor, http.MethodPost, "/api/language/toggle", nil, nil)
	expectStatus(t, resp, http.StatusOK)
	decodeJSON(t, resp, &lang)
	if lang.Language != "en" || lang.Labels["blog_back"] != "Back to articles" {
		t.Fatalf("expected english after toggle, got %+v", lang)
	}

	resp = s.mustRequest(t, visitor, http.MethodGet, "/api/language", nil, nil)
	expectStatus(t, resp, http.StatusOK)
	decodeJSON(t, resp, &lang)
	if lang.Language != "en" {
		t.Fatalf("toggle should persist in the cookie, got %q", lang.Language)
	}
}

func (s *e2eSuite) testGateFlow(t *testing.T) {
	s.expectGateState(t, s.admin, gate.StateLockedUntrusted)

	resp := s.mustRequestJSON(t, s.admin, http.MethodPost, "/admin/login", map[string]interface{}{"password": e2ePassword})
	expectStatus(t, resp, http.StatusForbidden)
	resp.Body.Close()
	s.expectGateState(t, s.admin, gate.StateLockedUntrusted)

	resp = s.mustRequest(t, s.admin, http.MethodGet, "/admin/api/dashboard", nil, nil)
	expectStatus(t, resp, http.StatusUnauthorized)
	resp.Body.Close()

	resp = s.mustRequest(t, s.admin, http.MethodGet, "/admin/setup?token=wrong", nil, nil)
	expectStatus(t, resp, http.StatusForbidden)
	resp.Body.Close()

	resp = s.mustRequest(t, s.admin, http.MethodGet, "/admin/setup?token="+e2eSetupToken, nil, nil)
	expectStatus(t, resp, http.StatusFound)
	if loc := resp.Header.Get("Location"); loc != "/admin/gate" {
		t.Fatalf("unexpected redirect location %q", loc)
	}
	resp.Body.Close()
	s.expectGateState(t, s.admin, gate.StateLockedTrusted)

	resp = s.mustRequestJSON(t, s.admin, http.MethodPost, "/admin/login", map[string]interface{}{"password": "wrong"})
	expectStatus(t, resp, http.StatusUnauthorized)
	resp.Body.Close()

	s.login(t)
	s.expectGateState(t, s.admin, gate.StateUnlocked)

	resp = s.mustRequest(t, s.admin, http.MethodPost, "/admin/logout", nil, nil)
	expectStatus(t, resp, http.StatusOK)
	resp.Body.Close()
	s.expectGateState(t, s.admin, gate.StateLockedTrusted)

	resp = s.mustRequest(t, s.admin, http.MethodGet, "/admin/api/dashboard", nil, nil)
	expectStatus(t, resp, http.StatusUnauthorized)
	resp.Body.Close()

	// 注销后只需密码即可重新登录
	s.login(t)
}

func (s *e2eSuite) testAdminAPIs(t *testing.T) {
	var project struct {
		Project db.Project `json:"project"`
	}
	resp := s.mustRequestJSON(t, s.admin, http.MethodPost, "/admin/api/projects", map[string]interface{}{
		"title": "Portfolio v1", "description": "my previous site",
	})
	expectStatus(t, resp, http.StatusCreated)
	decodeJSON(t, resp, &project)
	if project.Project.Variant != string(content.VariantLegacySite) {
		t.Fatalf("expected legacy variant, got %q", project.Project.Variant)
	}

	resp = s.mustRequestJSON(t, s.admin, http.MethodPut, "/admin/api/projects/"+project.Project.ID, map[string]interface{}{
		"variant": "standard",
	})
	expectStatus(t, resp, http.StatusOK)
	decodeJSON(t, resp, &project)
	if project.Project.Variant != string(content.VariantStandard) {
		t.Fatalf("expected explicit variant, got %q", project.Project.Variant)
	}

	resp = s.mustRequestJSON(t, s.admin, http.MethodPut, "/admin/api/projects/"+project.Project.ID, map[string]interface{}{
		"variant": "hologram",
	})
	expectStatus(t, resp, http.StatusBadRequest)
	resp.Body.Close()

	resp = s.mustRequest(t, s.admin, http.MethodDelete, "/admin/api/projects/"+project.Project.ID, nil, nil)
	expectStatus(t, resp, http.StatusOK)
	resp.Body.Close()
	resp = s.mustRequest(t, s.admin, http.MethodDelete, "/admin/api/projects/"+project.Project.ID, nil, nil)
	expectStatus(t, resp, http.StatusNotFound)
	resp.Body.Close()

	for i, name := range []string{"React", "Go", "PostgreSQL", "Docker", "Figma"} {
		resp = s.mustRequestJSON(t, s.admin, http.MethodPost, "/admin/api/skills", map[string]interface{}{
			"name": name, "level": 90 - i,
		})
		expectStatus(t, resp, http.StatusCreated)
		resp.Body.Close()
	}
	var skills content.SkillCatalog
	resp = s.mustRequest(t, s.public, http.MethodGet, "/api/skills", nil, nil)
	expectStatus(t, resp, http.StatusOK)
	decodeJSON(t, resp, &skills)
	if skills.Fallback || skills.Len() != 5 {
		t.Fatalf("expected the five stored skills, got %+v", skills)
	}

	var blog struct {
		Blog db.BlogPost `json:"blog"`
	}
	resp = s.mustRequestJSON(t, s.admin, http.MethodPut, "/admin/api/blogs/"+s.draft.ID, map[string]interface{}{"is_published": true})
	expectStatus(t, resp, http.StatusOK)
	decodeJSON(t, resp, &blog)
	if !blog.Blog.IsPublished {
		t.Fatal("expected draft to be published")
	}
	resp = s.mustRequestJSON(t, s.admin, http.MethodPost, "/admin/api/blogs", map[string]interface{}{"title": "Fresh"})
	expectStatus(t, resp, http.StatusCreated)
	decodeJSON(t, resp, &blog)
	resp = s.mustRequest(t, s.admin, http.MethodDelete, "/admin/api/blogs/"+blog.Blog.ID, nil, nil)
	expectStatus(t, resp, http.StatusOK)
	resp.Body.Close()

	dash := s.dashboard(t)
	if len(dash.Comments) != 1 || len(dash.Messages) != 1 || len(dash.Visitors) == 0 {
		t.Fatalf("unexpected dashboard: %+v", dash)
	}
	commentID := dash.Comments[0].ID

	var comment struct {
		Comment db.Comment `json:"comment"`
	}
	resp = s.mustRequest(t, s.admin, http.MethodPost, "/admin/api/comments/"+commentID+"/pin", nil, nil)
	expectStatus(t, resp, http.StatusOK)
	decodeJSON(t, resp, &comment)
	if !comment.Comment.IsPinned {
		t.Fatal("expected pinned comment")
	}
	resp = s.mustRequest(t, s.admin, http.MethodPost, "/admin/api/comments/"+commentID+"/like", nil, nil)
	expectStatus(t, resp, http.StatusOK)
	decodeJSON(t, resp, &comment)
	if !comment.Comment.IsLikedByAdmin {
		t.Fatal("expected liked comment")
	}
	resp = s.mustRequestJSON(t, s.admin, http.MethodPut, "/admin/api/comments/"+commentID+"/reply", map[string]interface{}{"reply": "Makasih!"})
	expectStatus(t, resp, http.StatusOK)
	decodeJSON(t, resp, &comment)
	if comment.Comment.AdminReply != "Makasih!" {
		t.Fatalf("unexpected reply %q", comment.Comment.AdminReply)
	}
	resp = s.mustRequest(t, s.admin, http.MethodDelete, "/admin/api/comments/"+commentID, nil, nil)
	expectStatus(t, resp, http.StatusOK)
	resp.Body.Close()

	resp = s.mustRequest(t, s.admin, http.MethodDelete, "/admin/api/messages/"+dash.Messages[0].ID, nil, nil)
	expectStatus(t, resp, http.StatusOK)
	resp.Body.Close()
	resp = s.mustRequest(t, s.admin, http.MethodDelete, "/admin/api/visitors/"+dash.Visitors[0].ID, nil, nil)
	expectStatus(t, resp, http.StatusOK)
	resp.Body.Close()

	after := s.dashboard(t)
	if len(after.Comments) != 0 || len(after.Messages) != 0 || len(after.Visitors) != len(dash.Visitors)-1 {
		t.Fatalf("deletions not reflected in dashboard: %+v", after)
	}

	resp = s.uploadTestImage(t)
	expectStatus(t, resp, http.StatusCreated)
	var upload struct {
		URL    string `json:"url"`
		Width  int    `json:"width"`
		Height int    `json:"height"`
	}
	decodeJSON(t, resp, &upload)
	if !strings.HasPrefix(upload.URL, "/uploads/") || upload.Width != 4 || upload.Height != 4 {
		t.Fatalf("unexpected upload response: %+v", upload)
	}
	resp = s.mustRequest(t, s.public, http.MethodGet, upload.URL, nil, nil)
	expectStatus(t, resp, http.StatusOK)
	resp.Body.Close()
}

func (s *e2eSuite) testForgetDevice(t *testing.T) {
	resp := s.mustRequest(t, s.admin, http.MethodPost, "/admin/forget-device", nil, nil)
	expectStatus(t, resp, http.StatusOK)
	resp.Body.Close()
	s.expectGateState(t, s.admin, gate.StateLockedUntrusted)

	resp = s.mustRequestJSON(t, s.admin, http.MethodPost, "/admin/login", map[string]interface{}{"password": e2ePassword})
	expectStatus(t, resp, http.StatusForbidden)
	resp.Body.Close()
}

func (s *e2eSuite) login(t *testing.T) {
	t.Helper()
	resp := s.mustRequestJSON(t, s.admin, http.MethodPost, "/admin/login", map[string]interface{}{"password": e2ePassword})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login failed, status %d", resp.StatusCode)
	}
}

func (s *e2eSuite) expectGateState(t *testing.T, client httpClient, want gate.State) {
	t.Helper()
	var payload struct {
		State gate.State `json:"state"`
	}
	resp := s.mustRequest(t, client, http.MethodGet, "/admin/gate", nil, nil)
	expectStatus(t, resp, http.StatusOK)
	decodeJSON(t, resp, &payload)
	if payload.State != want {
		t.Fatalf("expected gate state %q, got %q", want, payload.State)
	}
}

func (s *e2eSuite) dashboard(t *testing.T) service.Dashboard {
	t.Helper()
	var payload struct {
		Dashboard service.Dashboard `json:"dashboard"`
	}
	resp := s.mustRequest(t, s.admin, http.MethodGet, "/admin/api/dashboard", nil, nil)
	expectStatus(t, resp, http.StatusOK)
	decodeJSON(t, resp, &payload)
	return payload.Dashboard
}

func (s *e2eSuite) uploadTestImage(t *testing.T) *http.Response {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, color.RGBA{R: 10, G: 20, B: 200, A: 255})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	partHeader := textproto.MIMEHeader{}
	partHeader.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, "image", "test.png"))
	partHeader.Set("Content-Type", "image/png")
	part, err := writer.CreatePart(partHeader)
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := part.Write(buf.Bytes()); err != nil {
		t.Fatalf("failed to write image: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close writer: %v", err)
	}

	headers := map[string]string{
		"Content-Type": writer.FormDataContentType(),
	}
	return s.mustRequest(t, s.admin, http.MethodPost, "/admin/api/uploads", body, headers)
}

func (s *e2eSuite) mustRequest(t *testing.T, client httpClient, method, path string, body io.Reader, headers map[string]string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, s.baseURL+path, body)
	if err != nil {
		t.Fatalf("failed to build request %s %s: %v", method, path, err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request %s %s failed: %v", method, path, err)
	}
	return resp
}

func (s *e2eSuite) mustRequestJSON(t *testing.T, client httpClient, method, path string, payload map[string]interface{}) *http.Response {
	t.Helper()
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}
	headers := map[string]string{"Content-Type": "application/json"}
	return s.mustRequest(t, client, method, path, bytes.NewReader(data), headers)
}

func expectStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		body := readBody(t, resp)
		t.Fatalf("expected status %d, got %d, body=%s", want, resp.StatusCode, body)
	}
}

func decodeJSON(t *testing.T, resp *http.Response, dst interface{}) {
	t.Helper()
	defer resp.Body.Close()
	body := readBody(t, resp)
	if err := json.Unmarshal([]byte(body), dst); err != nil {
		t.Fatalf("failed to decode json: %v\nbody=%s", err, body)
	}
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	return string(data)
}

func strPtr(v string) *string { return &v }
func boolPtr(v bool) *bool    { return &v }
