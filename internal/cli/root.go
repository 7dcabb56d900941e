package cli

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/alexanderramin/studyplan/internal/client"
	"github.com/alexanderramin/studyplan/internal/config"
	"github.com/alexanderramin/studyplan/internal/intelligence"
	"github.com/alexanderramin/studyplan/internal/llm"
	"github.com/spf13/cobra"
)

// App holds the collaborators used by CLI commands. Nil hooks fall back to
// the production implementations.
type App struct {
	// LoadConfig reads settings from an optional file plus the environment.
	LoadConfig func(path string) (config.Config, error)

	// NewLLMClient builds the provider client for `serve`.
	NewLLMClient func(ctx context.Context, cfg llm.LLMConfig, observer llm.Observer) (llm.LLMClient, error)

	// NewPlanClient builds the gateway client for `plan` and `message`.
	NewPlanClient func(baseURL string, msgs intelligence.Messages) PlanClient

	// RunTUI runs the interactive plan model and returns its final state.
	RunTUI func(ctx context.Context, m planModel) (planModel, error)

	// IsInteractive reports whether stdin is a terminal.
	IsInteractive func() bool

	Now func() time.Time

	cfg config.Config
}

func (app *App) withDefaults() {
	if app.LoadConfig == nil {
		app.LoadConfig = config.Load
	}
	if app.NewLLMClient == nil {
		app.NewLLMClient = llm.NewClient
	}
	if app.NewPlanClient == nil {
		app.NewPlanClient = func(baseURL string, msgs intelligence.Messages) PlanClient {
			return client.New(baseURL, client.WithMessages(msgs))
		}
	}
	if app.RunTUI == nil {
		app.RunTUI = runPlanProgram
	}
	if app.IsInteractive == nil {
		app.IsInteractive = func() bool { return false }
	}
	if app.Now == nil {
		app.Now = time.Now
	}
}

func (app *App) messages() intelligence.Messages {
	return intelligence.MessagesFor(intelligence.ParseLocale(app.cfg.Locale))
}

func (app *App) logger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: app.cfg.SlogLevel()}))
}

// NewRootCmd creates the top-level "studyplan" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	app.withDefaults()
	var configPath string

	root := &cobra.Command{
		Use:           "studyplan",
		Short:         "AI study plan gateway and client",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.LoadConfig(configPath)
			if err != nil {
				return err
			}
			app.cfg = cfg
			return nil
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file")

	root.AddCommand(
		newServeCmd(app),
		newPlanCmd(app),
		newMessageCmd(app),
	)

	return root
}
