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

func setupPromptRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := storage.NewStore[model.Prompt](filepath.Join(t.TempDir(), "prompts.json"), "prompts")
	h := NewPromptHandler(service.NewPromptService(repository.NewPromptRepository(store)))

	r := gin.New()
	api := r.Group("/api/prompts")
	api.POST("", h.Create)
	api.GET("", h.List)
	api.GET("/search", h.Search)
	api.GET("/:id", h.Get)
	api.PUT("/:id", h.Update)
	api.DELETE("/:id", h.Delete)
	return r
}

func TestPromptHandlerCreate(t *testing.T) {
	r := setupPromptRouter(t)

	w := httptest.NewRecorder()
	body := `{"name":"greeting","text":"Hello there"}`
	req := httptest.NewRequest(http.MethodPost, "/api/prompts", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}

	var created model.Prompt
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.ID == "" || created.Category != "general" {
		t.Errorf("unexpected prompt: %+v", created)
	}
}

func TestPromptHandlerCreateValidationError(t *testing.T) {
	r := setupPromptRouter(t)

	w := httptest.NewRecorder()
	body := `{"name":"","text":""}`
	req := httptest.NewRequest(http.MethodPost, "/api/prompts", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Error  string            `json:"error"`
		Fields []json.RawMessage `json:"fields"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Error == "" || len(resp.Fields) == 0 {
		t.Errorf("expected error with field details, got %s", w.Body.String())
	}
}

func TestPromptHandlerGetNotFound(t *testing.T) {
	r := setupPromptRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/prompts/missing", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
}

func TestPromptHandlerCRUDFlow(t *testing.T) {
	r := setupPromptRouter(t)

	// create
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/prompts",
		strings.NewReader(`{"name":"flow","text":"original"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status %d", w.Code)
	}
	var created model.Prompt
	json.Unmarshal(w.Body.Bytes(), &created)

	// update
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPut, "/api/prompts/"+created.ID,
		strings.NewReader(`{"text":"updated"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("update status %d: %s", w.Code, w.Body.String())
	}

	// get
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/prompts/"+created.ID, nil)
	r.ServeHTTP(w, req)
	var got model.Prompt
	json.Unmarshal(w.Body.Bytes(), &got)
	if got.Text != "updated" {
		t.Errorf("text after update: %q", got.Text)
	}

	// delete
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodDelete, "/api/prompts/"+created.ID, nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("delete status %d", w.Code)
	}

	// delete again
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodDelete, "/api/prompts/"+created.ID, nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("second delete status %d", w.Code)
	}
}

func TestPromptHandlerSearch(t *testing.T) {
	r := setupPromptRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/prompts",
		strings.NewReader(`{"name":"Code Review","text":"Review this PR"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/prompts/search?q=review", nil)
	r.ServeHTTP(w, req)

	var results []model.Prompt
	if err := json.Unmarshal(w.Body.Bytes(), &results); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(results) != 1 || results[0].Name != "Code Review" {
		t.Errorf("results: %+v", results)
	}
}
