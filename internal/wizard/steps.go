package wizard

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/crewforge/crewforge/internal/models"
)

type stepKind int

const (
	stepText stepKind = iota
	stepChoice
	stepNumber
)

// step is one scalar prompt of the wizard. A step is either required
// (empty input re-prompts) or carries a default (empty input takes it);
// never both, so no field is left undefined.
type step struct {
	key      string
	prompt   string
	defaultV string
	required bool
	kind     stepKind
	options  []string
}

func formSteps() []step {
	return []step{
		{key: "name", prompt: "Project name", required: true},
		{key: "description", prompt: "Project description", required: true},
		{key: "owner", prompt: "Project owner", defaultV: "unspecified"},
		{key: "timeline", prompt: "Estimated timeline", defaultV: "4-6 weeks"},
		{key: "goal", prompt: "What is the main goal of this AI crew?", required: true},
		{key: "crew_description", prompt: "Describe the AI crew you want to build", required: true},
		{key: "frontend", prompt: "Frontend framework (if any)", defaultV: "None"},
		{key: "backend", prompt: "Backend framework", defaultV: "None"},
		{key: "database", prompt: "Database type", defaultV: "None"},
		{key: "api_type", prompt: "API type (REST, GraphQL, ...)", defaultV: "REST"},
		{key: "hosting", prompt: "Hosting platform", defaultV: "None"},
		{
			key:      "openai_model",
			prompt:   "OpenAI model for your project crew",
			kind:     stepChoice,
			defaultV: "gpt-4-turbo-preview",
			options:  []string{"gpt-4-turbo-preview", "gpt-4", "gpt-3.5-turbo"},
		},
		{key: "monthly_budget", prompt: "Monthly budget limit (USD)", kind: stepNumber, defaultV: "100"},
	}
}

// resolve validates raw input against the step. It returns the value
// to store, or an error that means "re-prompt".
func (s step) resolve(raw string) (string, error) {
	value := strings.TrimSpace(raw)

	if value == "" {
		if s.required {
			return "", fmt.Errorf("%s is required", s.prompt)
		}
		value = s.defaultV
	}

	switch s.kind {
	case stepChoice:
		// Accept a 1-based option number or a literal option name.
		if n, err := strconv.Atoi(value); err == nil {
			if n < 1 || n > len(s.options) {
				return "", fmt.Errorf("choose 1-%d", len(s.options))
			}
			return s.options[n-1], nil
		}
		for _, opt := range s.options {
			if value == opt {
				return value, nil
			}
		}
		return "", fmt.Errorf("choose 1-%d", len(s.options))

	case stepNumber:
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			return "", fmt.Errorf("%s must be a number", s.prompt)
		}
	}

	return value, nil
}

func applyStep(form *models.ProjectForm, key, value string) {
	switch key {
	case "name":
		form.Name = value
	case "description":
		form.Description = value
	case "owner":
		form.Owner = value
	case "timeline":
		form.Timeline = value
	case "goal":
		form.Goal = value
	case "crew_description":
		form.CrewDescription = value
	case "frontend":
		form.Requirements.Frontend = value
	case "backend":
		form.Requirements.Backend = value
	case "database":
		form.Requirements.Database = value
	case "api_type":
		form.Requirements.APIType = value
	case "hosting":
		form.Requirements.Hosting = value
	case "openai_model":
		form.OpenAIModel = value
	case "monthly_budget":
		f, _ := strconv.ParseFloat(value, 64)
		form.MonthlyBudget = f
	}
}

func stepValue(form *models.ProjectForm, key string) string {
	switch key {
	case "name":
		return form.Name
	case "description":
		return form.Description
	case "owner":
		return form.Owner
	case "timeline":
		return form.Timeline
	case "goal":
		return form.Goal
	case "crew_description":
		return form.CrewDescription
	case "frontend":
		return form.Requirements.Frontend
	case "backend":
		return form.Requirements.Backend
	case "database":
		return form.Requirements.Database
	case "api_type":
		return form.Requirements.APIType
	case "hosting":
		return form.Requirements.Hosting
	case "openai_model":
		return form.OpenAIModel
	case "monthly_budget":
		if form.MonthlyBudget > 0 {
			return strconv.FormatFloat(form.MonthlyBudget, 'g', -1, 64)
		}
		return ""
	}
	return ""
}

// Finalize stamps the metadata the writers expect and assigns the
// execution provider/model to agents that don't carry one yet.
func Finalize(form *models.ProjectForm, now time.Time) *models.ProjectForm {
	form.CreatedDate = now.Format("2006-01-02")
	form.Status = models.ProjectStatusInitialized

	for i := range form.Agents {
		if form.Agents[i].Provider == "" {
			form.Agents[i].Provider = "openai"
		}
		if form.Agents[i].Model == "" {
			form.Agents[i].Model = form.OpenAIModel
		}
	}

	return form
}
