package emitter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/crewforge/crewforge/internal/models"
)

func sampleForm() *models.ProjectForm {
	return &models.ProjectForm{
		Name:            "Demo",
		Description:     "A demo project",
		Goal:            "Automate demo workflows",
		CrewDescription: "A small crew",
		Timeline:        "4-6 weeks",
		Agents: []models.AgentDefinition{
			{Name: "Writer", Role: "Content Writer", Provider: "openai", Model: "gpt-4", Responsibilities: []string{"Draft articles"}},
			{Name: "Editor", Role: "Content Editor", Provider: "openai", Model: "gpt-4", Responsibilities: []string{"Review drafts"}},
			{Name: "Publisher", Role: "Publisher", Provider: "openai", Model: "gpt-4"},
		},
		OpenAIModel:   "gpt-4",
		MonthlyBudget: 90,
		CreatedDate:   "2026-01-15",
		Status:        models.ProjectStatusInitialized,
	}
}

func TestBuildCrewConfigAgentOrder(t *testing.T) {
	cfg := BuildCrewConfig(sampleForm())

	if len(cfg.Crew.Agents) != 3 {
		t.Fatalf("expected 3 agents, got %d", len(cfg.Crew.Agents))
	}

	wantOrder := []string{"Writer", "Editor", "Publisher"}
	for i, want := range wantOrder {
		if cfg.Crew.Agents[i].Name != want {
			t.Errorf("agent[%d] = %q, want %q", i, cfg.Crew.Agents[i].Name, want)
		}
	}
}

func TestBuildCrewConfigAgentDefaults(t *testing.T) {
	cfg := BuildCrewConfig(sampleForm())
	a := cfg.Crew.Agents[0]

	if a.Goal != "Execute content writer tasks for Demo" {
		t.Errorf("goal = %q", a.Goal)
	}
	if !a.AllowDelegation || !a.Verbose || !a.Memory {
		t.Error("agent flags should default to true")
	}
	if a.MaxIter != 10 {
		t.Errorf("max_iter = %d", a.MaxIter)
	}
	if len(a.Tools) != 3 {
		t.Errorf("tools = %v", a.Tools)
	}
}

func TestBuildCrewConfigBudgets(t *testing.T) {
	cfg := BuildCrewConfig(sampleForm())

	if cfg.Cost.MonthlyLimit != 90 {
		t.Errorf("monthly limit = %v", cfg.Cost.MonthlyLimit)
	}
	if cfg.Cost.DailyLimit != 3.00 {
		t.Errorf("daily limit = %v", cfg.Cost.DailyLimit)
	}
	if cfg.Perf.MaxConcurrentAgents != 3 {
		t.Errorf("max concurrent = %d", cfg.Perf.MaxConcurrentAgents)
	}
}

func TestMaxConcurrent(t *testing.T) {
	tests := []struct {
		agents int
		want   int
	}{
		{0, 1},
		{1, 1},
		{4, 4},
		{5, 5},
		{12, 5},
	}
	for _, tt := range tests {
		if got := maxConcurrent(tt.agents); got != tt.want {
			t.Errorf("maxConcurrent(%d) = %d, want %d", tt.agents, got, tt.want)
		}
	}
}

func TestEmitWritesAllArtifacts(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "config"), 0755); err != nil {
		t.Fatal(err)
	}

	if err := Emit(dir, sampleForm()); err != nil {
		t.Fatalf("Emit: %v", err)
	}

	for _, rel := range []string{
		CrewConfigRelPath,
		ProjectDescriptorRelPath,
		EnvTemplateRelPath,
		ReadmeRelPath,
		GitignoreRelPath,
	} {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		if _, err := os.Stat(path); err != nil {
			t.Errorf("missing artifact %s: %v", rel, err)
		}
	}
}

func TestEmittedYAMLAgentOrder(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "config"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := Emit(dir, sampleForm()); err != nil {
		t.Fatalf("Emit: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(CrewConfigRelPath)))
	if err != nil {
		t.Fatal(err)
	}

	var cfg CrewConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("unmarshal crew config: %v", err)
	}
	if len(cfg.Crew.Agents) != 3 || cfg.Crew.Agents[0].Name != "Writer" || cfg.Crew.Agents[2].Name != "Publisher" {
		t.Errorf("agents out of order: %+v", cfg.Crew.Agents)
	}
}

func TestEnvTemplateContent(t *testing.T) {
	out, err := renderEnvTemplate(sampleForm())
	if err != nil {
		t.Fatalf("renderEnvTemplate: %v", err)
	}
	text := string(out)

	for _, want := range []string{
		"OPENAI_API_KEY=your_openai_api_key_here",
		"PROJECT_NAME=Demo",
		"MONTHLY_BUDGET=90",
		"DAILY_BUDGET=3.00",
		"MAX_CONCURRENT_AGENTS=3",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("env template missing %q", want)
		}
	}
}

func TestDescriptorRoundtrip(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "config"), 0755); err != nil {
		t.Fatal(err)
	}

	form := sampleForm()
	if err := Emit(dir, form); err != nil {
		t.Fatalf("Emit: %v", err)
	}

	loaded, err := LoadDescriptor(filepath.Join(dir, filepath.FromSlash(ProjectDescriptorRelPath)))
	if err != nil {
		t.Fatalf("LoadDescriptor: %v", err)
	}

	if loaded.Name != form.Name {
		t.Errorf("name = %q, want %q", loaded.Name, form.Name)
	}
	if loaded.MonthlyBudget != form.MonthlyBudget {
		t.Errorf("budget = %v, want %v", loaded.MonthlyBudget, form.MonthlyBudget)
	}
	if len(loaded.Agents) != len(form.Agents) {
		t.Fatalf("agents = %d, want %d", len(loaded.Agents), len(form.Agents))
	}
	if loaded.Agents[1].Name != "Editor" {
		t.Errorf("agent[1] = %q", loaded.Agents[1].Name)
	}
}

func TestLoadDescriptorErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadDescriptor(filepath.Join(dir, "nope.json")); err == nil {
		t.Error("expected error for missing file")
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte(`{"project": null}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadDescriptor(bad); err == nil {
		t.Error("expected error for descriptor without project")
	}

	empty := filepath.Join(dir, "empty.json")
	if err := os.WriteFile(empty, []byte(`{"project": {"name": ""}}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadDescriptor(empty); err == nil {
		t.Error("expected error for descriptor without a project name")
	}
}
