package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/checklist-go/application"
	"github.com/felixgeelhaar/checklist-go/domain/memory"
	"github.com/felixgeelhaar/checklist-go/infrastructure/capability"
	"github.com/felixgeelhaar/checklist-go/infrastructure/config"
	"github.com/felixgeelhaar/checklist-go/infrastructure/logging"
	"github.com/felixgeelhaar/checklist-go/infrastructure/prompt"
	"github.com/felixgeelhaar/checklist-go/infrastructure/resilience"
	badgerstore "github.com/felixgeelhaar/checklist-go/infrastructure/storage/badger"
	"github.com/felixgeelhaar/checklist-go/infrastructure/storage/filesystem"
)

// newRunCmd creates the interactive run command.
func (a *App) newRunCmd() *cobra.Command {
	var (
		configPath string
		threadID   string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the checklist workflow interactively",
		Long: `Reads messages from stdin, one per line, and drives the workflow for a
thread. The first message is the task request; later messages answer
clarification questions, report progress, or start a new task.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			logging.Init(logging.Config{
				Level:  cfg.Logging.Level,
				Format: cfg.Logging.Format,
				Output: os.Stderr,
			})

			runner, sessions, cleanup, err := buildRunner(cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			return a.interact(cmd.Context(), runner, sessions, threadID)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file")
	cmd.Flags().StringVarP(&threadID, "thread", "t", "", "thread ID to resume")
	return cmd
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.NewLoader().LoadFile(path)
}

// buildRunner wires the full engine from configuration.
func buildRunner(cfg *config.Config) (*application.Runner, *badgerstore.SessionStore, func(), error) {
	tavily := capability.NewTavilyClient(capability.TavilyConfig{
		APIKey:      cfg.Tavily.APIKey,
		MaxResults:  cfg.Tavily.MaxResults,
		SearchDepth: cfg.Tavily.SearchDepth,
	})
	provider := capability.NewOpenRouterProvider(capability.OpenRouterConfig{
		APIKey:          cfg.OpenRouter.APIKey,
		BaseURL:         cfg.OpenRouter.BaseURL,
		Model:           cfg.OpenRouter.Model,
		Temperature:     cfg.OpenRouter.Temperature,
		MaxOutputTokens: cfg.OpenRouter.MaxOutputTokens,
	}, tavily)

	executor := resilience.NewExecutor(provider, resilience.Config{
		MaxConcurrent:          4,
		BreakerThreshold:       5,
		BreakerTimeout:         30 * time.Second,
		RetryMaxAttempts:       cfg.RetryMaxAttempts,
		RetryInitialDelay:      200 * time.Millisecond,
		RetryBackoffMultiplier: 2.0,
		SkillTimeout:           time.Duration(cfg.SkillTimeoutSeconds) * time.Second,
		ToolTimeout:            time.Duration(cfg.ToolTimeoutSeconds) * time.Second,
	})

	prompts, err := prompt.NewRenderer()
	if err != nil {
		return nil, nil, nil, err
	}

	checklists, err := filesystem.NewChecklistStore(cfg.StorageDir)
	if err != nil {
		return nil, nil, nil, err
	}

	sessions, err := badgerstore.NewSessionStore(badgerstore.Config{
		Dir:        cfg.Session.Dir,
		InMemory:   cfg.Session.InMemory,
		SyncWrites: cfg.Session.SyncWrites,
	})
	if err != nil {
		return nil, nil, nil, err
	}

	runner, err := application.NewRunner(application.RunnerConfig{
		Executor:         executor,
		Prompts:          prompts,
		Memory:           application.NewMemory(cfg.MaxPhaseRevisits),
		Checklists:       checklists,
		Sessions:         sessions,
		MaxIterations:    cfg.MaxIterations,
		SearchMaxResults: cfg.Tavily.MaxResults,
		SearchDepth:      cfg.Tavily.SearchDepth,
	})
	if err != nil {
		sessions.Close() // #nosec G104 -- best-effort cleanup in error path
		return nil, nil, nil, err
	}

	cleanup := func() {
		if err := sessions.Close(); err != nil {
			logging.Warn().Add(logging.ErrorField(err)).Msg("close session store")
		}
	}
	return runner, sessions, cleanup, nil
}

// interact reads messages line by line and prints engine responses.
func (a *App) interact(ctx context.Context, runner *application.Runner, sessions *badgerstore.SessionStore, threadID string) error {
	var state *memory.AgentState
	if threadID != "" {
		loaded, err := sessions.Load(ctx, threadID)
		switch {
		case err == nil:
			state = loaded
			fmt.Fprintf(a.stdout, "Resumed thread %s in phase %s.\n", threadID, state.Workflow.Phase)
		case errors.Is(err, badgerstore.ErrSessionNotFound):
			fmt.Fprintf(a.stdout, "Starting new thread %s.\n", threadID)
		default:
			return err
		}
	}

	fmt.Fprintln(a.stdout, "Describe the task you want a checklist for:")
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := scanner.Text()
		if line == "" {
			continue
		}

		resp, err := runner.Run(ctx, threadID, line, state)
		if err != nil {
			return err
		}
		state = resp.State
		if threadID == "" && state != nil {
			threadID = state.ThreadID
		}

		fmt.Fprintln(a.stdout)
		fmt.Fprintln(a.stdout, resp.Message)
		if len(resp.Sections) > 0 {
			printSections(a.stdout, resp.Sections)
		}
		if resp.Complete {
			fmt.Fprintf(a.stdout, "\nThread %s complete. Send progress updates like \"completed item 2\" or a new task.\n", threadID)
		}
		fmt.Fprintln(a.stdout)
	}
	return scanner.Err()
}
