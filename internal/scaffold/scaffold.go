// Package scaffold lays out the generated project's directory tree.
package scaffold

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var projectDirs = []string{
	"openspec/specs/agents",
	"openspec/specs/workflows",
	"openspec/specs/features",
	"openspec/specs/system",
	"openspec/changes/proposals",
	"openspec/changes/approved",
	"openspec/changes/implemented",
	"openspec/templates",
	"builder-team/advisory",
	"builder-team/application",
	"docs/baseline",
	"config",
	"scripts",
	"logs",
	"src/agents",
	"src/workflows",
	"src/tools",
	"tests",
	".github/workflows",
}

// DirName derives the on-disk directory name from a project name.
func DirName(projectName string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(projectName)), " ", "-")
}

// Create builds the project tree under baseDir and returns its root.
// MkdirAll semantics make reruns idempotent.
func Create(baseDir, projectName string) (string, error) {
	projectDir := filepath.Join(baseDir, DirName(projectName))

	for _, dir := range projectDirs {
		path := filepath.Join(projectDir, filepath.FromSlash(dir))
		if err := os.MkdirAll(path, 0755); err != nil {
			return "", fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return projectDir, nil
}
