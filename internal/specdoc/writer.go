// Package specdoc renders the project specification document from a
// completed ProjectForm. Rendering is pure template expansion: the
// same form always yields byte-identical output.
package specdoc

import (
	"bytes"
	"fmt"
	"path/filepath"
	"text/template"

	"github.com/crewforge/crewforge/internal/fsutil"
	"github.com/crewforge/crewforge/internal/models"
)

// SpecRelPath is where the specification lives inside a generated
// project directory.
const SpecRelPath = "openspec/specs/system/project-overview.md"

var specTmpl = template.Must(template.New("spec").Funcs(template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}).Parse(`# {{.Name}} - Project Specification

**Document Version:** 0.1.0
**Created:** {{.CreatedDate}}
**Owner:** {{.Owner}}
**Status:** {{.Status}}

---

## Executive Summary

{{.Description}}

**Goal:** {{.Goal}}

**Target AI Crew:** {{.CrewDescription}}

**Timeline:** {{.Timeline}}

---

## Target AI Crew Configuration

### Agents ({{len .Agents}})
{{range $i, $a := .Agents}}
#### {{inc $i}}. {{$a.Name}} ({{$a.Role}})
**Core Function:** {{$a.Role}}
**Provider:** {{$a.Provider}} / {{$a.Model}}
**Key Responsibilities:**
{{range $a.Responsibilities}}- {{.}}
{{end}}{{end}}
---

## Technical Requirements

- **Frontend Framework:** {{.Requirements.Frontend}}
- **Backend Framework:** {{.Requirements.Backend}}
- **Database Type:** {{.Requirements.Database}}
- **API Type:** {{.Requirements.APIType}}
- **Hosting Platform:** {{.Requirements.Hosting}}

---

## Key Features

{{range $i, $f := .KeyFeatures}}{{inc $i}}. {{$f}}
{{end}}
---

## Success Metrics

{{range $i, $m := .SuccessMetrics}}{{inc $i}}. {{$m}}
{{end}}
---

## Next Steps

1. **Phase 0:** Environment setup and baseline validation
2. **Phase 1:** Advisory team deployment and configuration
3. **Phase 2:** Application team design and development
4. **Phase 3:** Integration and testing
5. **Phase 4:** Deployment and optimization

---

*This specification will be updated iteratively throughout the development process.*
`))

// Render expands the form into the specification document.
func Render(form *models.ProjectForm) ([]byte, error) {
	var buf bytes.Buffer
	if err := specTmpl.Execute(&buf, form); err != nil {
		return nil, fmt.Errorf("failed to render specification: %w", err)
	}
	return buf.Bytes(), nil
}

// Write renders the specification and persists it atomically under
// projectDir. On failure no partial file is left behind.
func Write(projectDir string, form *models.ProjectForm) (string, error) {
	data, err := Render(form)
	if err != nil {
		return "", err
	}

	path := filepath.Join(projectDir, filepath.FromSlash(SpecRelPath))
	if err := fsutil.WriteFileAtomic(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write specification: %w", err)
	}
	return path, nil
}
