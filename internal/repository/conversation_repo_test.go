package repository

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/promptstudio/backend/internal/model"
	"github.com/promptstudio/backend/internal/storage"
)

func newConversationRepo(t *testing.T) ConversationRepository {
	t.Helper()
	path := filepath.Join(t.TempDir(), "conversations.json")
	return NewConversationRepository(storage.NewStore[model.Conversation](path, ""))
}

func TestConversationUpsertAndGet(t *testing.T) {
	repo := newConversationRepo(t)
	conv := model.Conversation{
		ID:    "conv-abc123",
		Title: "Hello",
		Messages: []model.ChatMessage{
			{Role: "user", Content: "Hello"},
			{Role: "assistant", Content: "Hi there!"},
		},
		Model:     "gpt-4",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if ok := repo.Upsert(conv); !ok {
		t.Fatal("Upsert failed")
	}

	got, ok := repo.Get("conv-abc123")
	if !ok {
		t.Fatal("conversation not found")
	}
	if len(got.Messages) != 2 || got.Messages[1].Content != "Hi there!" {
		t.Errorf("messages mismatch: %+v", got.Messages)
	}

	// Upsert overwrites in place
	conv.Title = "Renamed"
	repo.Upsert(conv)
	got, _ = repo.Get("conv-abc123")
	if got.Title != "Renamed" {
		t.Errorf("expected overwrite, got title %q", got.Title)
	}
	if repo.Count() != 1 {
		t.Errorf("Count = %d, want 1", repo.Count())
	}
}

func TestConversationDelete(t *testing.T) {
	repo := newConversationRepo(t)
	repo.Upsert(model.Conversation{ID: "conv-x"})

	if ok := repo.Delete("conv-x"); !ok {
		t.Fatal("Delete failed")
	}
	if _, ok := repo.Get("conv-x"); ok {
		t.Errorf("conversation still present after delete")
	}
	if ok := repo.Delete("conv-x"); ok {
		t.Errorf("delete of unknown id must return false")
	}
}
