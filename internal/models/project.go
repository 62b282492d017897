package models

// ProjectForm is the in-memory result of one wizard session. It is
// created fresh each run and never merged with a prior run.
type ProjectForm struct {
	Name            string            `json:"name" yaml:"name"`
	Description     string            `json:"description" yaml:"description"`
	Owner           string            `json:"owner" yaml:"owner"`
	Timeline        string            `json:"timeline" yaml:"timeline"`
	Goal            string            `json:"goal" yaml:"goal"`
	CrewDescription string            `json:"crew_description" yaml:"crew_description"`
	KeyFeatures     []string          `json:"key_features" yaml:"key_features"`
	SuccessMetrics  []string          `json:"success_metrics" yaml:"success_metrics"`
	Agents          []AgentDefinition `json:"agents" yaml:"agents"`
	Requirements    TechRequirements  `json:"requirements" yaml:"requirements"`
	OpenAIModel     string            `json:"openai_model" yaml:"openai_model"`
	MonthlyBudget   float64           `json:"monthly_budget" yaml:"monthly_budget"`
	CreatedDate     string            `json:"created_date" yaml:"created_date"`
	Status          string            `json:"status" yaml:"status"`
}

// AgentDefinition describes one agent of the user's target crew. It is
// owned by the ProjectForm and has no independent lifecycle.
type AgentDefinition struct {
	Name             string   `json:"name" yaml:"name"`
	Role             string   `json:"role" yaml:"role"`
	Provider         string   `json:"provider" yaml:"provider"`
	Model            string   `json:"model" yaml:"model"`
	Responsibilities []string `json:"responsibilities" yaml:"responsibilities"`
}

type TechRequirements struct {
	Frontend string `json:"frontend_framework" yaml:"frontend_framework"`
	Backend  string `json:"backend_framework" yaml:"backend_framework"`
	Database string `json:"database_type" yaml:"database_type"`
	APIType  string `json:"api_type" yaml:"api_type"`
	Hosting  string `json:"hosting_platform" yaml:"hosting_platform"`
}

const (
	ProjectStatusInitialized = "initialized"
	ProjectStatusReviewed    = "reviewed"
)
