package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexanderramin/studyplan/internal/gateway"
	"github.com/alexanderramin/studyplan/internal/intelligence"
	"github.com/alexanderramin/studyplan/internal/llm"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

func newServeCmd(app *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the study plan HTTP gateway",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.cfg
			if addr != "" {
				cfg.Addr = addr
			}
			logger := app.logger(cmd.ErrOrStderr())

			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)

			observers := llm.MultiObserver{llm.NewPrometheusObserver(reg)}
			if cfg.LLM.LogCalls {
				observers = append(observers, llm.NewLogObserver(logger))
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			llmClient, err := app.NewLLMClient(ctx, cfg.LLM, observers)
			if err != nil {
				return fmt.Errorf("creating %s client: %w", cfg.LLM.Provider, err)
			}

			locale := intelligence.ParseLocale(cfg.Locale)
			svc := intelligence.NewPlanService(llmClient, intelligence.WithLocale(locale))
			srv := gateway.NewServer(svc, intelligence.MessagesFor(locale),
				gateway.WithLogger(logger),
				gateway.WithAllowedOrigins(cfg.AllowedOrigins),
				gateway.WithMessage(cfg.Message),
				gateway.WithRegistry(reg),
			)

			logger.Info("gateway_starting",
				"addr", cfg.Addr,
				"provider", string(cfg.LLM.Provider),
				"model", llmClient.Model(),
				"locale", string(locale),
			)
			return gateway.Run(ctx, cfg.Addr, srv.Handler(), logger)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides STUDYPLAN_ADDR)")

	return cmd
}
