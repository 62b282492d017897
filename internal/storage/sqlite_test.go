package storage

import (
	"path/filepath"
	"testing"

	"github.com/crewforge/crewforge/internal/models"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSessionRoundtrip(t *testing.T) {
	s := newTestStorage(t)

	sess := &models.Session{
		ID:          "sess-1",
		ProjectName: "Demo",
		ProjectDir:  "/tmp/demo",
		SpecPath:    "/tmp/demo/spec.md",
		Status:      models.SessionStatusGenerated,
	}
	if err := s.CreateSession(sess); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	got, err := s.GetSession("sess-1")
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if got.ProjectName != "Demo" || got.SpecPath != "/tmp/demo/spec.md" {
		t.Errorf("got %+v", got)
	}
	if got.Status != models.SessionStatusGenerated {
		t.Errorf("status = %q", got.Status)
	}
	if got.CreatedAt.IsZero() {
		t.Error("created_at not populated")
	}
}

func TestUpdateSession(t *testing.T) {
	s := newTestStorage(t)

	sess := &models.Session{
		ID:          "sess-1",
		ProjectName: "Demo",
		ProjectDir:  "/tmp/demo",
		Status:      models.SessionStatusGenerated,
	}
	if err := s.CreateSession(sess); err != nil {
		t.Fatal(err)
	}

	sess.Status = models.SessionStatusReviewed
	if err := s.UpdateSession(sess); err != nil {
		t.Fatalf("UpdateSession: %v", err)
	}

	got, err := s.GetSession("sess-1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != models.SessionStatusReviewed {
		t.Errorf("status = %q, want reviewed", got.Status)
	}
}

func TestGetSessionMissing(t *testing.T) {
	s := newTestStorage(t)
	if _, err := s.GetSession("nope"); err == nil {
		t.Error("expected error for missing session")
	}
}

func TestListSessions(t *testing.T) {
	s := newTestStorage(t)

	for _, id := range []string{"a", "b", "c"} {
		err := s.CreateSession(&models.Session{
			ID:          id,
			ProjectName: "p-" + id,
			ProjectDir:  "/tmp/" + id,
			Status:      models.SessionStatusGenerated,
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	sessions, err := s.ListSessions(10)
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}
	if len(sessions) != 3 {
		t.Fatalf("got %d sessions", len(sessions))
	}

	limited, err := s.ListSessions(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 2 {
		t.Errorf("limit ignored: got %d", len(limited))
	}
}

func TestUsageRoundtrip(t *testing.T) {
	s := newTestStorage(t)

	sess := &models.Session{ID: "sess-1", ProjectName: "Demo", ProjectDir: "/tmp/demo", Status: models.SessionStatusGenerated}
	if err := s.CreateSession(sess); err != nil {
		t.Fatal(err)
	}

	id, err := s.RecordUsage(&models.Usage{
		SessionID:        "sess-1",
		Provider:         "anthropic",
		Model:            "claude-3-5-sonnet-20241022",
		PromptTokens:     1200,
		CompletionTokens: 450,
	})
	if err != nil {
		t.Fatalf("RecordUsage: %v", err)
	}
	if id == 0 {
		t.Error("expected non-zero usage id")
	}

	usages, err := s.GetUsageForSession("sess-1")
	if err != nil {
		t.Fatalf("GetUsageForSession: %v", err)
	}
	if len(usages) != 1 {
		t.Fatalf("got %d usage rows", len(usages))
	}
	u := usages[0]
	if u.Provider != "anthropic" || u.PromptTokens != 1200 || u.CompletionTokens != 450 {
		t.Errorf("usage = %+v", u)
	}
}
