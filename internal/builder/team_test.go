package builder

import (
	"context"
	"strings"
	"testing"

	"github.com/crewforge/crewforge/internal/config"
	"github.com/crewforge/crewforge/internal/models"
	"github.com/crewforge/crewforge/internal/provider"
)

func TestTeamProviders(t *testing.T) {
	team := Team()
	if len(team) != 5 {
		t.Fatalf("team size = %d", len(team))
	}

	want := map[string]string{
		"product_strategist":  "anthropic",
		"technical_architect": "anthropic",
		"ux_designer":         "anthropic",
		"quality_engineer":    "zhipuai",
		"devops_specialist":   "zhipuai",
	}

	for _, role := range team {
		if got := want[role.Name]; role.Provider != got {
			t.Errorf("%s provider = %q, want %q", role.Name, role.Provider, got)
		}
		if len(role.Responsibilities) == 0 {
			t.Errorf("%s has no responsibilities", role.Name)
		}
	}
}

func TestTeamStrategistFirst(t *testing.T) {
	if Team()[0].Name != "product_strategist" {
		t.Errorf("first role = %q", Team()[0].Name)
	}
}

func TestReviewSpecUnconfiguredProvider(t *testing.T) {
	// An empty config configures no providers; the review must fail
	// before any network call with a configuration error.
	providers := provider.NewManager(&config.Config{})
	r := NewReviewer(providers, nil)

	form := &models.ProjectForm{Name: "Demo"}
	_, err := r.ReviewSpec(context.Background(), "sess-1", form, "# Spec")
	if err == nil {
		t.Fatal("expected error for unconfigured provider")
	}
	if !strings.Contains(err.Error(), "anthropic") {
		t.Errorf("error should name the provider, got %q", err)
	}
}
