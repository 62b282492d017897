// Package builder defines the fixed builder-team roles used during a
// crewforge session and the post-generation specification review.
package builder

import (
	"context"
	"fmt"

	"github.com/crewforge/crewforge/internal/models"
	"github.com/crewforge/crewforge/internal/provider"
	"github.com/crewforge/crewforge/internal/router"
	"github.com/crewforge/crewforge/internal/storage"
)

// Role is one member of the builder team. Provider assignment comes
// from the static router and is fixed for the life of the process.
type Role struct {
	Name             string
	Title            string
	Category         router.Category
	Provider         string
	Responsibilities []string
}

// Team returns the five builder-team roles. Distinct from the user's
// target crew: these roles belong to crewforge itself.
func Team() []Role {
	roles := []Role{
		{
			Name:     "product_strategist",
			Title:    "Product Strategist",
			Category: router.CategoryStrategy,
			Responsibilities: []string{
				"Define project roadmap and milestones",
				"Make strategic decisions on feature prioritization",
				"Validate business logic implementation",
			},
		},
		{
			Name:     "technical_architect",
			Title:    "Technical Architect",
			Category: router.CategoryArchitecture,
			Responsibilities: []string{
				"Design overall system architecture",
				"Make technical decisions and trade-offs",
				"Ensure scalability and performance requirements",
			},
		},
		{
			Name:     "ux_designer",
			Title:    "UX Designer",
			Category: router.CategoryDesign,
			Responsibilities: []string{
				"Design user interactions and workflows",
				"Ensure accessibility and usability",
			},
		},
		{
			Name:     "quality_engineer",
			Title:    "Quality Engineer",
			Category: router.CategoryQuality,
			Responsibilities: []string{
				"Define testing strategies and frameworks",
				"Review code quality and standards",
			},
		},
		{
			Name:     "devops_specialist",
			Title:    "DevOps Specialist",
			Category: router.CategoryInfrastructure,
			Responsibilities: []string{
				"Set up CI/CD pipelines",
				"Manage deployment infrastructure",
			},
		},
	}

	for i := range roles {
		p, err := router.ProviderFor(roles[i].Category)
		if err != nil {
			// Unreachable: every role category is routed.
			panic(err)
		}
		roles[i].Provider = p
	}

	return roles
}

// Reviewer runs the optional spec review hand-off: one sequential call
// to the strategist's provider. No retries; a failure is reported and
// the generated artifacts stand as-is.
type Reviewer struct {
	providers *provider.Manager
	store     *storage.Storage
}

func NewReviewer(providers *provider.Manager, store *storage.Storage) *Reviewer {
	return &Reviewer{providers: providers, store: store}
}

const reviewSystemPrompt = "You are the Product Strategist of an AI crew " +
	"builder team. Review the project specification you are given and " +
	"reply with a short assessment: strengths, risks, and the three most " +
	"important next steps. Be concrete and concise."

// ReviewSpec sends the rendered specification to the strategist and
// returns the review text, recording token usage against the session.
func (r *Reviewer) ReviewSpec(ctx context.Context, sessionID string, form *models.ProjectForm, specText string) (string, error) {
	strategist := Team()[0]

	p, err := r.providers.Get(strategist.Provider)
	if err != nil {
		return "", err
	}

	messages := []provider.Message{
		{Role: provider.RoleSystem, Content: reviewSystemPrompt},
		{Role: provider.RoleUser, Content: fmt.Sprintf("Project: %s\n\n%s", form.Name, specText)},
	}

	resp, err := p.Complete(ctx, messages, provider.DefaultOptions())
	if err != nil {
		return "", fmt.Errorf("spec review failed: %w", err)
	}

	if r.store != nil {
		_, err := r.store.RecordUsage(&models.Usage{
			SessionID:        sessionID,
			Provider:         resp.Provider,
			Model:            resp.Model,
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
		})
		if err != nil {
			return "", fmt.Errorf("failed to record usage: %w", err)
		}
	}

	return resp.Content, nil
}
