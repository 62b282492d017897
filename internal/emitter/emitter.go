// Package emitter translates a ProjectForm into the generated
// project's configuration artifacts. Outputs are keyed by fixed paths
// and overwritten on regeneration; there is no diffing or versioning.
package emitter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"

	"github.com/crewforge/crewforge/internal/fsutil"
	"github.com/crewforge/crewforge/internal/models"
)

const (
	ProjectDescriptorRelPath = "config/project.json"
	CrewConfigRelPath        = "config/crew-config.yaml"
	EnvTemplateRelPath       = ".env.example"
	ReadmeRelPath            = "README.md"
	GitignoreRelPath         = ".gitignore"
)

// CrewConfig is the crew-config.yaml document. Agents are a sequence
// so the emitted order matches the form's input order.
type CrewConfig struct {
	Project   ProjectSection  `yaml:"project"`
	Provider  ProviderSection `yaml:"provider"`
	Crew      CrewSection     `yaml:"crew"`
	Workflows WorkflowSection `yaml:"workflows"`
	Cost      CostSection     `yaml:"cost_management"`
	Perf      PerfSection     `yaml:"performance"`
}

type ProjectSection struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Version     string `yaml:"version"`
	Created     string `yaml:"created"`
}

type ProviderSection struct {
	Name        string        `yaml:"name"`
	Type        string        `yaml:"type"`
	Model       string        `yaml:"model"`
	Description string        `yaml:"description"`
	Limits      LimitsSection `yaml:"limits"`
}

type LimitsSection struct {
	RequestsPerMinute int     `yaml:"requests_per_minute"`
	TokensPerMinute   int     `yaml:"tokens_per_minute"`
	DailyCostLimit    float64 `yaml:"daily_cost_limit"`
	MonthlyCostLimit  float64 `yaml:"monthly_cost_limit"`
}

type CrewSection struct {
	Name        string      `yaml:"name"`
	Description string      `yaml:"description"`
	Agents      []AgentYAML `yaml:"agents"`
}

type AgentYAML struct {
	Name             string   `yaml:"name"`
	Role             string   `yaml:"role"`
	Goal             string   `yaml:"goal"`
	Backstory        string   `yaml:"backstory"`
	Provider         string   `yaml:"provider"`
	Model            string   `yaml:"model"`
	Tools            []string `yaml:"tools"`
	AllowDelegation  bool     `yaml:"allow_delegation"`
	Verbose          bool     `yaml:"verbose"`
	MaxIter          int      `yaml:"max_iter"`
	Memory           bool     `yaml:"memory"`
	Responsibilities []string `yaml:"responsibilities"`
}

type WorkflowSection struct {
	StandardExecution WorkflowDef `yaml:"standard_execution"`
}

type WorkflowDef struct {
	Description string   `yaml:"description"`
	Steps       []string `yaml:"steps"`
}

type CostSection struct {
	DailyLimit   float64 `yaml:"daily_limit"`
	MonthlyLimit float64 `yaml:"monthly_limit"`
}

type PerfSection struct {
	MaxConcurrentAgents int `yaml:"max_concurrent_agents"`
	AgentTimeout        int `yaml:"agent_timeout"`
}

// Descriptor is the persisted config/project.json document. The form
// is embedded in full so artifacts can be regenerated from it.
type Descriptor struct {
	Project     *models.ProjectForm `json:"project"`
	AIProviders AIProviders         `json:"ai_providers"`
	BuilderTeam BuilderTeamDesc     `json:"builder_team"`
}

type AIProviders struct {
	BuilderCrew BuilderCrewDesc `json:"builder_crew"`
	ProjectCrew ProjectCrewDesc `json:"project_crew"`
}

type BuilderCrewDesc struct {
	Primary     string `json:"primary"`
	Secondary   string `json:"secondary"`
	Description string `json:"description"`
}

type ProjectCrewDesc struct {
	Primary       string  `json:"primary"`
	Model         string  `json:"model"`
	MonthlyBudget float64 `json:"monthly_budget"`
	Description   string  `json:"description"`
}

type BuilderTeamDesc struct {
	ApplicationTeam []models.AgentDefinition `json:"application_team"`
}

// BuildCrewConfig maps the form onto the crew-config document, one
// agent entry per AgentDefinition in input order. Provider and model
// are copied verbatim; nothing checks that the pairing is valid.
func BuildCrewConfig(form *models.ProjectForm) *CrewConfig {
	cfg := &CrewConfig{
		Project: ProjectSection{
			Name:        form.Name,
			Description: form.Description,
			Version:     "1.0.0",
			Created:     form.CreatedDate,
		},
		Provider: ProviderSection{
			Name:        "openai",
			Type:        "openai",
			Model:       form.OpenAIModel,
			Description: fmt.Sprintf("Primary AI provider for %s crew execution", form.Name),
			Limits: LimitsSection{
				RequestsPerMinute: 350,
				TokensPerMinute:   200000,
				DailyCostLimit:    dailyBudget(form.MonthlyBudget),
				MonthlyCostLimit:  form.MonthlyBudget,
			},
		},
		Crew: CrewSection{
			Name:        form.Name + "Crew",
			Description: form.Description,
		},
		Workflows: WorkflowSection{
			StandardExecution: WorkflowDef{
				Description: "Standard workflow for most project tasks",
				Steps: []string{
					"Task analysis and planning",
					"Agent coordination and task assignment",
					"Individual agent execution",
					"Result integration and validation",
					"Documentation and reporting",
				},
			},
		},
		Cost: CostSection{
			DailyLimit:   dailyBudget(form.MonthlyBudget),
			MonthlyLimit: form.MonthlyBudget,
		},
		Perf: PerfSection{
			MaxConcurrentAgents: maxConcurrent(len(form.Agents)),
			AgentTimeout:        300,
		},
	}

	for _, a := range form.Agents {
		cfg.Crew.Agents = append(cfg.Crew.Agents, AgentYAML{
			Name:            a.Name,
			Role:            a.Role,
			Goal:            fmt.Sprintf("Execute %s tasks for %s", strings.ToLower(a.Role), form.Name),
			Backstory:       fmt.Sprintf("You are %s, a specialized %s AI agent working on the %s project.", a.Name, a.Role, form.Name),
			Provider:        a.Provider,
			Model:           a.Model,
			Tools:           []string{"file_operations", "web_search", "data_analysis"},
			AllowDelegation: true,
			Verbose:         true,
			MaxIter:         10,
			Memory:          true,
			// Copy so later form edits can't alias the emitted doc.
			Responsibilities: append([]string(nil), a.Responsibilities...),
		})
	}

	return cfg
}

// BuildDescriptor maps the form onto the project.json document.
func BuildDescriptor(form *models.ProjectForm) *Descriptor {
	return &Descriptor{
		Project: form,
		AIProviders: AIProviders{
			BuilderCrew: BuilderCrewDesc{
				Primary:     "anthropic",
				Secondary:   "zhipuai",
				Description: "Builder team uses Claude for strategic tasks and ZhipuAI for support tasks",
			},
			ProjectCrew: ProjectCrewDesc{
				Primary:       "openai",
				Model:         form.OpenAIModel,
				MonthlyBudget: form.MonthlyBudget,
				Description:   "Project crew uses OpenAI for execution",
			},
		},
		BuilderTeam: BuilderTeamDesc{
			ApplicationTeam: form.Agents,
		},
	}
}

// Emit writes all configuration artifacts under projectDir. Each file
// is written atomically; a failure reports the path and leaves no
// partial file at that path.
func Emit(projectDir string, form *models.ProjectForm) error {
	crewYAML, err := yaml.Marshal(BuildCrewConfig(form))
	if err != nil {
		return fmt.Errorf("failed to marshal crew config: %w", err)
	}

	descJSON, err := json.MarshalIndent(BuildDescriptor(form), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal project descriptor: %w", err)
	}
	descJSON = append(descJSON, '\n')

	envText, err := renderEnvTemplate(form)
	if err != nil {
		return err
	}
	readme, err := renderReadme(form)
	if err != nil {
		return err
	}

	files := []struct {
		rel  string
		data []byte
	}{
		{CrewConfigRelPath, crewYAML},
		{ProjectDescriptorRelPath, descJSON},
		{EnvTemplateRelPath, envText},
		{ReadmeRelPath, readme},
		{GitignoreRelPath, []byte(gitignoreContent)},
	}

	for _, f := range files {
		path := filepath.Join(projectDir, filepath.FromSlash(f.rel))
		if err := fsutil.WriteFileAtomic(path, f.data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", f.rel, err)
		}
	}

	return nil
}

func dailyBudget(monthly float64) float64 {
	// Two decimal places, matching the emitted config precision.
	return float64(int(monthly/30*100+0.5)) / 100
}

func maxConcurrent(agents int) int {
	if agents < 5 {
		if agents < 1 {
			return 1
		}
		return agents
	}
	return 5
}

var envTmpl = template.Must(template.New("env").Parse(`# {{.Name}} Environment Variables
# Copy this file to .env and fill in your API keys

# OpenAI Configuration (for your project crew)
OPENAI_API_KEY=your_openai_api_key_here

# Optional: Additional API keys if needed
# ANTHROPIC_API_KEY=your_anthropic_api_key_here
# ZHIPUAI_API_KEY=your_zhipuai_api_key_here

# Project Configuration
PROJECT_NAME={{.Name}}
PROJECT_VERSION=1.0.0
ENVIRONMENT=development

# Builder Team Configuration (used during development)
BUILDER_TEAM_PROVIDERS=anthropic,zhipuai
PROJECT_CREW_PROVIDER=openai

# Cost Management
MONTHLY_BUDGET={{printf "%g" .MonthlyBudget}}
DAILY_BUDGET={{printf "%.2f" .DailyBudget}}

# Performance Settings
MAX_CONCURRENT_AGENTS={{.MaxConcurrent}}
AGENT_TIMEOUT=300
`))

func renderEnvTemplate(form *models.ProjectForm) ([]byte, error) {
	data := struct {
		Name          string
		MonthlyBudget float64
		DailyBudget   float64
		MaxConcurrent int
	}{
		Name:          form.Name,
		MonthlyBudget: form.MonthlyBudget,
		DailyBudget:   form.MonthlyBudget / 30,
		MaxConcurrent: maxConcurrent(len(form.Agents)),
	}

	var buf bytes.Buffer
	if err := envTmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render env template: %w", err)
	}
	return buf.Bytes(), nil
}

var readmeTmpl = template.Must(template.New("readme").Parse(`# {{.Name}}

{{.Description}}

## Project Overview

This project is being built using the AI Crew Builder Team approach with
OpenSpec-driven development.

### Goal
{{.Goal}}

### Target AI Crew
{{.CrewDescription}}

## Builder Team

### Advisory Team
- **Product Strategist (Claude)** - Product vision and strategic planning
- **Technical Architect (Claude)** - System design and technical strategy
- **UX Designer (Claude)** - User experience and interface design
- **Quality Engineer (ZhipuAI)** - Quality assurance and testing strategy
- **DevOps Specialist (ZhipuAI)** - Infrastructure and deployment

### Application Team
{{range .Agents}}- **{{.Name}}** - {{.Role}}
{{end}}
## Getting Started

1. Review the OpenSpec specifications in ` + "`openspec/specs/`" + `
2. Copy ` + "`.env.example`" + ` to ` + "`.env`" + ` and add your API keys
3. Follow the OpenSpec workflow for all changes

## Project Status

**Status:** {{.Status}}
**Created:** {{.CreatedDate}}
**Timeline:** {{.Timeline}}

## Success Metrics

{{range .SuccessMetrics}}- {{.}}
{{end}}
---

*Built with crewforge*
`))

func renderReadme(form *models.ProjectForm) ([]byte, error) {
	var buf bytes.Buffer
	if err := readmeTmpl.Execute(&buf, form); err != nil {
		return nil, fmt.Errorf("failed to render README: %w", err)
	}
	return buf.Bytes(), nil
}

const gitignoreContent = `# Environment variables
.env
.env.local
.env.production

# Logs
logs/
*.log

# IDE
.vscode/
.idea/
*.swp

# OS
.DS_Store
Thumbs.db

# Temporary files
tmp/
temp/
`
