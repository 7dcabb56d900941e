package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexanderramin/studyplan/internal/cli/formatter"
	"github.com/alexanderramin/studyplan/internal/intelligence"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// errPlanFailed is returned when the gateway or transport reported a
// failure that has already been printed.
var errPlanFailed = errors.New("plan generation failed")

func newPlanCmd(app *App) *cobra.Command {
	var fields goalFields
	var server string
	var noTUI bool
	var raw bool

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Generate a study plan through the gateway",
		Long: `Generate a study plan for an exam or qualification.

On a terminal this opens an interactive form prefilled from the flags.
With --no-tui, or when stdin is not a terminal, the flags are submitted
once and the plan is printed.`,
		Example: `  studyplan plan
  studyplan plan --no-tui --exam "FP3級" --date 2025-01-26 --daily-hours 2 --total-hours 100 --weak-areas "税金、保険"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			msgs := app.messages()
			c := app.NewPlanClient(serverURL(app, server), msgs)

			if app.IsInteractive() && !noTUI {
				return runPlanTUI(cmd, app, c, msgs, fields)
			}
			return runPlanOnce(cmd, app, c, fields, raw)
		},
	}

	fields.bindFlags(cmd.Flags())
	cmd.Flags().StringVar(&server, "server", "", "Gateway base URL (overrides STUDYPLAN_SERVER_URL)")
	cmd.Flags().BoolVar(&noTUI, "no-tui", false, "Submit the flags once without the interactive form")
	cmd.Flags().BoolVar(&raw, "raw", false, "Print the plan text without terminal formatting")

	return cmd
}

func runPlanOnce(cmd *cobra.Command, app *App, c PlanClient, fields goalFields, raw bool) error {
	out := cmd.OutOrStdout()
	if !raw {
		fmt.Fprintln(out, formatter.FormatGoalSummary(fields.goal(), app.Now()))
		fmt.Fprintln(out)
	}

	var stop func()
	if app.IsInteractive() {
		stop = formatter.StartSpinner(cmd.ErrOrStderr(), "Generating your study plan…")
	}
	result := c.Submit(cmd.Context(), fields.request())
	if stop != nil {
		stop()
	}

	if !result.Succeeded() {
		fmt.Fprintln(out, formatter.FormatPlanFailure(result.Error))
		return errPlanFailed
	}
	if raw {
		fmt.Fprintln(out, result.Plan)
		return nil
	}
	fmt.Fprintln(out, formatter.FormatPlan(result.Plan, formatter.DefaultMarkdownWidth))
	return nil
}

func runPlanTUI(cmd *cobra.Command, app *App, c PlanClient, msgs intelligence.Messages, fields goalFields) error {
	m := newPlanModel(cmd.Context(), c, msgs, fields, withPlanClock(app.Now))
	final, err := app.RunTUI(cmd.Context(), m)
	if err != nil {
		return err
	}
	if final.hasResult && final.result.Succeeded() {
		fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatPlan(final.result.Plan, formatter.DefaultMarkdownWidth))
	}
	return nil
}

// runPlanProgram runs m under a real bubbletea program.
func runPlanProgram(ctx context.Context, m planModel) (planModel, error) {
	p := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen(), tea.WithMouseCellMotion())
	res, err := p.Run()
	if final, ok := res.(planModel); ok {
		return final, err
	}
	return m, err
}
