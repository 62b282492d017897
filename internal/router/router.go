// Package router maps task categories to provider names. The mapping
// is static: strategic and design work goes to Claude, quality and
// infrastructure work to ZhipuAI, and runtime execution of generated
// crews to OpenAI. It drives config generation and the builder team's
// role assignments; there is no runtime dispatch or failover.
package router

import "fmt"

type Category string

const (
	CategoryStrategy       Category = "strategy"
	CategoryArchitecture   Category = "architecture"
	CategoryDesign         Category = "design"
	CategoryQuality        Category = "quality"
	CategoryInfrastructure Category = "infrastructure"
	CategoryExecution      Category = "execution"
)

var routes = map[Category]string{
	CategoryStrategy:       "anthropic",
	CategoryArchitecture:   "anthropic",
	CategoryDesign:         "anthropic",
	CategoryQuality:        "zhipuai",
	CategoryInfrastructure: "zhipuai",
	CategoryExecution:      "openai",
}

// ProviderFor returns the provider name assigned to a task category.
func ProviderFor(c Category) (string, error) {
	p, ok := routes[c]
	if !ok {
		return "", fmt.Errorf("unknown task category %q", c)
	}
	return p, nil
}

// Categories returns all known categories in a fixed order.
func Categories() []Category {
	return []Category{
		CategoryStrategy,
		CategoryArchitecture,
		CategoryDesign,
		CategoryQuality,
		CategoryInfrastructure,
		CategoryExecution,
	}
}
