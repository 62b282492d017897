// Package dockerenv manages the optional docker-compose deployment of
// a generated project. It shells out to docker; nothing here talks to
// the daemon API directly.
package dockerenv

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// lookPath is stubbed in tests.
var lookPath = exec.LookPath

type Env struct {
	Dir        string
	Production bool

	composeCmd []string
}

func New(dir string, production bool) (*Env, error) {
	composeCmd, err := detectCompose()
	if err != nil {
		return nil, err
	}
	return &Env{Dir: dir, Production: production, composeCmd: composeCmd}, nil
}

// detectCompose prefers the compose plugin and falls back to the
// standalone docker-compose binary.
func detectCompose() ([]string, error) {
	if _, err := lookPath("docker"); err == nil {
		return []string{"docker", "compose"}, nil
	}
	if _, err := lookPath("docker-compose"); err == nil {
		return []string{"docker-compose"}, nil
	}
	return nil, fmt.Errorf("docker is not installed or not in PATH: install it from https://docker.com")
}

// CheckDaemon verifies the docker daemon is reachable.
func (e *Env) CheckDaemon() error {
	cmd := exec.Command("docker", "info")
	cmd.Dir = e.Dir
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("docker daemon is not running: %s", string(output))
	}
	return nil
}

// EnsureEnvFile copies .env.example to .env when .env is absent, and
// reports whether the user still needs to fill in API keys.
func (e *Env) EnsureEnvFile() (created bool, err error) {
	envPath := filepath.Join(e.Dir, ".env")
	examplePath := filepath.Join(e.Dir, ".env.example")

	if _, err := os.Stat(envPath); err == nil {
		return false, nil
	}

	data, err := os.ReadFile(examplePath)
	if err != nil {
		return false, fmt.Errorf("no .env and no .env.example to copy from: %w", err)
	}
	if err := os.WriteFile(envPath, data, 0600); err != nil {
		return false, fmt.Errorf("failed to create .env: %w", err)
	}
	return true, nil
}

func (e *Env) composeArgs(args ...string) []string {
	full := append([]string(nil), e.composeCmd...)
	if e.Production {
		full = append(full, "-f", "docker-compose.yml", "-f", "docker-compose.prod.yml")
	}
	return append(full, args...)
}

func (e *Env) run(args ...string) error {
	full := e.composeArgs(args...)
	cmd := exec.Command(full[0], full[1:]...)
	cmd.Dir = e.Dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s failed: %w", full[0], err)
	}
	return nil
}

// Setup builds the images and starts the services.
func (e *Env) Setup() error {
	if err := e.run("build"); err != nil {
		return err
	}
	return e.run("up", "-d")
}

func (e *Env) Start() error {
	return e.run("up", "-d")
}

func (e *Env) Stop() error {
	return e.run("down")
}

func (e *Env) Restart() error {
	if err := e.Stop(); err != nil {
		return err
	}
	return e.Start()
}

func (e *Env) Status() error {
	return e.run("ps")
}

// Logs follows the service logs until interrupted.
func (e *Env) Logs() error {
	return e.run("logs", "-f")
}

func (e *Env) Shell(service string) error {
	if service == "" {
		return fmt.Errorf("a service name is required for shell")
	}
	return e.run("exec", service, "/bin/bash")
}
