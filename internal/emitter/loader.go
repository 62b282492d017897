package emitter

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/crewforge/crewforge/internal/models"
)

// LoadDescriptor reads a previously emitted project.json and returns
// the embedded form, for regenerating artifacts without rerunning the
// wizard.
func LoadDescriptor(path string) (*models.ProjectForm, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read project descriptor: %w", err)
	}

	var desc Descriptor
	if err := json.Unmarshal(data, &desc); err != nil {
		return nil, fmt.Errorf("failed to parse project descriptor: %w", err)
	}
	if desc.Project == nil {
		return nil, fmt.Errorf("project descriptor has no project section")
	}
	if desc.Project.Name == "" {
		return nil, fmt.Errorf("project descriptor has no project name")
	}

	form := desc.Project
	if form.Status == "" {
		form.Status = models.ProjectStatusInitialized
	}

	return form, nil
}
