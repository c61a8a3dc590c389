package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/promptstudio/backend/internal/model"
	"github.com/promptstudio/backend/internal/repository"
	"github.com/promptstudio/backend/internal/service"
	"github.com/promptstudio/backend/internal/storage"
)

func setupTemplateRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := storage.NewStore[model.Template](filepath.Join(t.TempDir(), "templates.json"), "")
	h := NewTemplateHandler(service.NewTemplateService(repository.NewTemplateRepository(store)))

	r := gin.New()
	templates := r.Group("/api/templates")
	templates.POST("", h.Save)
	templates.GET("/:name", h.Get)
	templates.GET("/:name/exists", h.Exists)
	templates.GET("/:name/linkages", h.Linkages)
	template := r.Group("/api/template")
	template.POST("/parse", h.Parse)
	template.POST("/generate-final", h.GenerateFinal)
	template.POST("/validate", h.Validate)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestTemplateHandlerSaveDuplicateConflict(t *testing.T) {
	r := setupTemplateRouter(t)

	body := `{"name":"story","template_text":"As a [Role]"}`
	if w := postJSON(t, r, "/api/templates", body); w.Code != http.StatusCreated {
		t.Fatalf("first save status %d: %s", w.Code, w.Body.String())
	}
	if w := postJSON(t, r, "/api/templates", body); w.Code != http.StatusConflict {
		t.Errorf("duplicate save status %d: %s", w.Code, w.Body.String())
	}
}

func TestTemplateHandlerSaveMalformed(t *testing.T) {
	r := setupTemplateRouter(t)

	w := postJSON(t, r, "/api/templates", `{"name":"bad","template_text":"As a [Role, I want [Action]"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status %d: %s", w.Code, w.Body.String())
	}
}

func TestTemplateHandlerExists(t *testing.T) {
	r := setupTemplateRouter(t)
	postJSON(t, r, "/api/templates", `{"name":"story","template_text":"[Role]"}`)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/templates/story/exists", nil)
	r.ServeHTTP(w, req)

	var resp struct {
		Exists bool `json:"exists"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Exists {
		t.Error("expected exists=true")
	}
}

func TestTemplateHandlerParse(t *testing.T) {
	r := setupTemplateRouter(t)

	w := postJSON(t, r, "/api/template/parse", `{"template":"As a [Role], I want [Action]"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}

	var resp struct {
		Variables []string `json:"variables"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Variables) != 2 || resp.Variables[0] != "Role" {
		t.Errorf("variables: %v", resp.Variables)
	}
}

func TestTemplateHandlerGenerateFinal(t *testing.T) {
	r := setupTemplateRouter(t)

	w := postJSON(t, r, "/api/template/generate-final",
		`{"template":"As a [Role]","selections":{"Role":"Chef"}}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}

	var resp struct {
		Prompt string `json:"prompt"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Prompt != "As a Chef" {
		t.Errorf("prompt: %q", resp.Prompt)
	}
}

func TestTemplateHandlerLinkagesNotFound(t *testing.T) {
	r := setupTemplateRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/templates/missing/linkages", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("status %d", w.Code)
	}
}
