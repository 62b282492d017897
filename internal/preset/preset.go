// Package preset loads Lua preset scripts that prefill the wizard
// form. A preset defines a global `project` table; scripts run in a
// sandboxed state with no file, load, or print access.
package preset

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"

	"github.com/crewforge/crewforge/internal/models"
)

// IsPreset checks if a file is a Lua preset.
func IsPreset(path string) bool {
	return filepath.Ext(path) == ".lua"
}

// Load executes the preset script and returns the form it defines.
func Load(path string) (*models.ProjectForm, error) {
	script, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read preset: %w", err)
	}

	L := lua.NewState(lua.Options{
		SkipOpenLibs: true,
	})
	defer L.Close()

	openSafeLibs(L)

	if err := L.DoString(string(script)); err != nil {
		return nil, fmt.Errorf("failed to run preset: %w", err)
	}

	project := L.GetGlobal("project")
	tbl, ok := project.(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("preset must define a 'project' table")
	}

	return tableToForm(tbl), nil
}

// openSafeLibs loads only the safe standard libraries.
func openSafeLibs(L *lua.LState) {
	lua.OpenBase(L)

	L.SetGlobal("loadfile", lua.LNil)
	L.SetGlobal("dofile", lua.LNil)
	L.SetGlobal("load", lua.LNil)
	L.SetGlobal("loadstring", lua.LNil)
	L.SetGlobal("print", lua.LNil)

	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	// Presets must be deterministic.
	math := L.GetGlobal("math")
	if tbl, ok := math.(*lua.LTable); ok {
		L.SetField(tbl, "random", lua.LNil)
		L.SetField(tbl, "randomseed", lua.LNil)
	}
}

func tableToForm(tbl *lua.LTable) *models.ProjectForm {
	form := &models.ProjectForm{
		Name:            getString(tbl, "name"),
		Description:     getString(tbl, "description"),
		Owner:           getString(tbl, "owner"),
		Timeline:        getString(tbl, "timeline"),
		Goal:            getString(tbl, "goal"),
		CrewDescription: getString(tbl, "crew_description"),
		KeyFeatures:     getStrings(tbl, "key_features"),
		SuccessMetrics:  getStrings(tbl, "success_metrics"),
		OpenAIModel:     getString(tbl, "openai_model"),
		MonthlyBudget:   getNumber(tbl, "monthly_budget"),
	}

	if req, ok := tbl.RawGetString("requirements").(*lua.LTable); ok {
		form.Requirements = models.TechRequirements{
			Frontend: getString(req, "frontend"),
			Backend:  getString(req, "backend"),
			Database: getString(req, "database"),
			APIType:  getString(req, "api_type"),
			Hosting:  getString(req, "hosting"),
		}
	}

	if agents, ok := tbl.RawGetString("agents").(*lua.LTable); ok {
		agents.ForEach(func(_, v lua.LValue) {
			at, ok := v.(*lua.LTable)
			if !ok {
				return
			}
			form.Agents = append(form.Agents, models.AgentDefinition{
				Name:             getString(at, "name"),
				Role:             getString(at, "role"),
				Provider:         getString(at, "provider"),
				Model:            getString(at, "model"),
				Responsibilities: getStrings(at, "responsibilities"),
			})
		})
	}

	return form
}

func getString(tbl *lua.LTable, key string) string {
	if s, ok := tbl.RawGetString(key).(lua.LString); ok {
		return string(s)
	}
	return ""
}

func getNumber(tbl *lua.LTable, key string) float64 {
	if n, ok := tbl.RawGetString(key).(lua.LNumber); ok {
		return float64(n)
	}
	return 0
}

func getStrings(tbl *lua.LTable, key string) []string {
	seq, ok := tbl.RawGetString(key).(*lua.LTable)
	if !ok {
		return nil
	}
	var out []string
	seq.ForEach(func(_, v lua.LValue) {
		if s, ok := v.(lua.LString); ok {
			out = append(out, string(s))
		}
	})
	return out
}
