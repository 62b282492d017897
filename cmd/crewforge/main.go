package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/crewforge/crewforge/internal/builder"
	"github.com/crewforge/crewforge/internal/config"
	"github.com/crewforge/crewforge/internal/dockerenv"
	"github.com/crewforge/crewforge/internal/emitter"
	"github.com/crewforge/crewforge/internal/models"
	"github.com/crewforge/crewforge/internal/preset"
	"github.com/crewforge/crewforge/internal/provider"
	"github.com/crewforge/crewforge/internal/scaffold"
	"github.com/crewforge/crewforge/internal/specdoc"
	"github.com/crewforge/crewforge/internal/storage"
	"github.com/crewforge/crewforge/internal/wizard"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "crewforge",
		Short: "AI Crew Builder",
		Long:  "Crewforge bootstraps AI crew projects: an interactive wizard collects a project definition and generates its specification and crew configuration.",
	}

	rootCmd.AddCommand(newSetupCommand())
	rootCmd.AddCommand(newStartCommand())
	rootCmd.AddCommand(newDockerCommand())
	rootCmd.AddCommand(newSessionsCommand())
	rootCmd.AddCommand(newRegenCommand())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newSetupCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Prepare the local and/or docker environment",
		RunE: func(cmd *cobra.Command, args []string) error {
			envType, _ := cmd.Flags().GetString("type")
			if envType != "local" && envType != "docker" && envType != "both" {
				return fmt.Errorf("invalid --type %q: must be local, docker, or both", envType)
			}

			cfg, err := config.New()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			if envType == "local" || envType == "both" {
				if err := setupLocal(cfg); err != nil {
					return err
				}
			}

			if envType == "docker" || envType == "both" {
				if err := setupDocker(); err != nil {
					return err
				}
			}

			fmt.Println("Setup complete. Run `crewforge start` to define a project.")
			return nil
		},
	}

	cmd.Flags().String("type", "both", "Environment type: local, docker, or both")
	return cmd
}

func setupLocal(cfg *config.Config) error {
	if err := cfg.EnsureDataDir(); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	samplePath := filepath.Join(cfg.PresetDir, "content-crew.lua")
	if _, err := os.Stat(samplePath); os.IsNotExist(err) {
		if err := os.WriteFile(samplePath, []byte(samplePreset), 0644); err != nil {
			return fmt.Errorf("failed to write sample preset: %w", err)
		}
		fmt.Printf("Wrote sample preset: %s\n", samplePath)
	}

	envPath := ".env.example"
	if _, err := os.Stat(envPath); os.IsNotExist(err) {
		if err := os.WriteFile(envPath, []byte(builderEnvTemplate), 0644); err != nil {
			return fmt.Errorf("failed to write .env.example: %w", err)
		}
		fmt.Println("Wrote .env.example — copy it to .env and add your API keys")
	}

	fmt.Printf("Data directory: %s\n", cfg.DataDir)
	return nil
}

func setupDocker() error {
	env, err := dockerenv.New(".", false)
	if err != nil {
		return err
	}
	if err := env.CheckDaemon(); err != nil {
		return err
	}
	fmt.Println("Docker is installed and running")
	return nil
}

func newStartCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Run the project definition wizard",
		RunE: func(cmd *cobra.Command, args []string) error {
			presetPath, _ := cmd.Flags().GetString("preset")
			outputDir, _ := cmd.Flags().GetString("output")
			review, _ := cmd.Flags().GetBool("review")

			cfg, err := config.New()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if err := cfg.EnsureDataDir(); err != nil {
				return fmt.Errorf("failed to create data directory: %w", err)
			}

			// Fail on missing credentials before any work happens.
			if review {
				strategist := builder.Team()[0]
				if err := cfg.ValidateCredentials(strategist.Provider); err != nil {
					return err
				}
			}

			var form *models.ProjectForm
			if presetPath != "" {
				form, err = preset.Load(resolvePreset(presetPath, cfg))
				if err != nil {
					return err
				}
			}

			w := wizard.New(form)
			p := tea.NewProgram(w)
			finalModel, err := p.Run()
			if err != nil {
				return err
			}

			m := finalModel.(*wizard.Model)
			if m.Aborted() || !m.Done() {
				fmt.Println("Wizard cancelled; nothing was written.")
				return nil
			}
			form = m.Form()

			return generate(cfg, form, outputDir, review)
		},
	}

	cmd.Flags().String("preset", "", "Lua preset file to prefill the wizard")
	cmd.Flags().StringP("output", "o", ".", "Directory to create the project in")
	cmd.Flags().Bool("review", false, "Send the generated spec to the builder team for review")
	return cmd
}

// resolvePreset tries the path as given, then inside the preset dir.
func resolvePreset(path string, cfg *config.Config) string {
	if _, err := os.Stat(path); err == nil {
		return path
	}
	candidate := filepath.Join(cfg.PresetDir, path)
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}
	if !preset.IsPreset(path) {
		candidate = filepath.Join(cfg.PresetDir, path+".lua")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return path
}

// generate runs the one-shot pipeline: scaffold, spec, configs,
// session record, optional review.
func generate(cfg *config.Config, form *models.ProjectForm, outputDir string, review bool) error {
	projectDir, err := scaffold.Create(outputDir, form.Name)
	if err != nil {
		return fmt.Errorf("failed to create project structure: %w", err)
	}

	specPath, err := specdoc.Write(projectDir, form)
	if err != nil {
		return err
	}

	if err := emitter.Emit(projectDir, form); err != nil {
		return err
	}

	store, err := storage.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	sess := &models.Session{
		ID:          uuid.NewString(),
		ProjectName: form.Name,
		ProjectDir:  projectDir,
		SpecPath:    specPath,
		Status:      models.SessionStatusGenerated,
	}
	if err := store.CreateSession(sess); err != nil {
		return fmt.Errorf("failed to record session: %w", err)
	}

	fmt.Printf("Project %q initialized\n", form.Name)
	fmt.Printf("  Location:      %s\n", projectDir)
	fmt.Printf("  Specification: %s\n", specPath)
	fmt.Printf("  Crew config:   %s\n", filepath.Join(projectDir, filepath.FromSlash(emitter.CrewConfigRelPath)))

	if review {
		if err := runReview(cfg, store, sess, form); err != nil {
			return err
		}
	}

	fmt.Println("\nNext steps:")
	fmt.Printf("  1. cd %s\n", projectDir)
	fmt.Println("  2. Review the specification in openspec/specs/")
	fmt.Println("  3. Copy .env.example to .env and add your API keys")
	return nil
}

func runReview(cfg *config.Config, store *storage.Storage, sess *models.Session, form *models.ProjectForm) error {
	specText, err := specdoc.Render(form)
	if err != nil {
		return err
	}

	providers := provider.NewManager(cfg)
	reviewer := builder.NewReviewer(providers, store)

	fmt.Println("\nAsking the Product Strategist for a review...")
	text, err := reviewer.ReviewSpec(context.Background(), sess.ID, form, string(specText))
	if err != nil {
		return err
	}

	sess.Status = models.SessionStatusReviewed
	if err := store.UpdateSession(sess); err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}

	fmt.Println("\n--- Strategist review ---")
	fmt.Println(text)
	return nil
}

func newDockerCommand() *cobra.Command {
	var production bool
	var dir string

	cmd := &cobra.Command{
		Use:   "docker",
		Short: "Manage the docker-compose deployment",
	}
	cmd.PersistentFlags().BoolVar(&production, "production", false, "Use the production compose overlay")
	cmd.PersistentFlags().StringVar(&dir, "dir", ".", "Directory containing the compose files")

	newEnv := func() (*dockerenv.Env, error) {
		env, err := dockerenv.New(dir, production)
		if err != nil {
			return nil, err
		}
		if err := env.CheckDaemon(); err != nil {
			return nil, err
		}
		return env, nil
	}

	simple := func(use, short string, run func(*dockerenv.Env) error) *cobra.Command {
		return &cobra.Command{
			Use:   use,
			Short: short,
			RunE: func(cmd *cobra.Command, args []string) error {
				env, err := newEnv()
				if err != nil {
					return err
				}
				return run(env)
			},
		}
	}

	setupCmd := &cobra.Command{
		Use:   "setup",
		Short: "Build images and start services",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnv()
			if err != nil {
				return err
			}
			created, err := env.EnsureEnvFile()
			if err != nil {
				return err
			}
			if created {
				fmt.Println("Created .env from .env.example — edit it with your API keys")
			}
			return env.Setup()
		},
	}

	shellCmd := &cobra.Command{
		Use:   "shell <service>",
		Short: "Open a shell in a service container",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnv()
			if err != nil {
				return err
			}
			return env.Shell(args[0])
		},
	}

	cmd.AddCommand(setupCmd)
	cmd.AddCommand(simple("start", "Start services", (*dockerenv.Env).Start))
	cmd.AddCommand(simple("stop", "Stop services", (*dockerenv.Env).Stop))
	cmd.AddCommand(simple("restart", "Restart services", (*dockerenv.Env).Restart))
	cmd.AddCommand(simple("status", "Show service status", (*dockerenv.Env).Status))
	cmd.AddCommand(simple("logs", "Follow service logs", (*dockerenv.Env).Logs))
	cmd.AddCommand(shellCmd)

	return cmd
}

func newSessionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sessions",
		Short: "List recent builder sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.New()
			if err != nil {
				return err
			}
			if err := cfg.EnsureDataDir(); err != nil {
				return err
			}

			store, err := storage.New(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer store.Close()

			sessions, err := store.ListSessions(20)
			if err != nil {
				return err
			}

			if len(sessions) == 0 {
				fmt.Println("No sessions found.")
				return nil
			}

			for _, s := range sessions {
				fmt.Printf("%s  %-20s [%s] %s\n",
					s.CreatedAt.Format("2006-01-02 15:04"),
					s.ProjectName, s.Status, s.ProjectDir)
			}
			return nil
		},
	}
}

func newRegenCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "regen <project.json>",
		Short: "Regenerate spec and configs from a saved project descriptor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputDir, _ := cmd.Flags().GetString("output")

			cfg, err := config.New()
			if err != nil {
				return err
			}
			if err := cfg.EnsureDataDir(); err != nil {
				return err
			}

			form, err := emitter.LoadDescriptor(args[0])
			if err != nil {
				return err
			}

			return generate(cfg, form, outputDir, false)
		},
	}

	cmd.Flags().StringP("output", "o", ".", "Directory to regenerate the project in")
	return cmd
}

const samplePreset = `-- content-crew: a ready-made starting point for content projects
project = {
	name = "Content Crew",
	description = "A content creation crew that writes and edits articles",
	goal = "Publish consistent, high quality articles with minimal oversight",
	crew_description = "Writers and editors collaborating on long-form content",
	timeline = "4-6 weeks",
	key_features = {
		"Draft articles from a topic brief",
		"Edit drafts for tone and accuracy",
	},
	success_metrics = {
		"Two publishable articles per week",
	},
	agents = {
		{
			name = "Writer",
			role = "Content Writer",
			responsibilities = { "Draft articles", "Research topics" },
		},
		{
			name = "Editor",
			role = "Content Editor",
			responsibilities = { "Review drafts", "Enforce style guide" },
		},
	},
	requirements = {
		backend = "None",
		api_type = "REST",
	},
	openai_model = "gpt-4-turbo-preview",
	monthly_budget = 100,
}
`

const builderEnvTemplate = `# crewforge environment
# Copy this file to .env and fill in your API keys

ANTHROPIC_API_KEY=your_anthropic_api_key_here
ZHIPUAI_API_KEY=your_zhipuai_api_key_here
OPENAI_API_KEY=your_openai_api_key_here

# Model overrides (optional)
# ANTHROPIC_MODEL=claude-3-5-sonnet-20241022
# ZHIPUAI_MODEL=glm-4.6
# OPENAI_MODEL=gpt-4-turbo-preview

# Monthly budget ceilings in USD (optional)
# MONTHLY_BUDGET_CLAUDE=500
# MONTHLY_BUDGET_ZHIPUAI=300
# MONTHLY_BUDGET_OPENAI=1000

PROJECT_NAME=ai-crew-builder
ENVIRONMENT=development
`
