package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newMessageCmd(app *App) *cobra.Command {
	var server string

	cmd := &cobra.Command{
		Use:   "message",
		Short: "Check that the gateway is reachable",
		RunE: func(cmd *cobra.Command, args []string) error {
			msgs := app.messages()
			c := app.NewPlanClient(serverURL(app, server), msgs)

			text, err := c.FetchMessage(cmd.Context())
			if err != nil {
				fmt.Fprintln(cmd.OutOrStdout(), msgs.TransportFailed)
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}

	cmd.Flags().StringVar(&server, "server", "", "Gateway base URL (overrides STUDYPLAN_SERVER_URL)")

	return cmd
}

func serverURL(app *App, flag string) string {
	if flag != "" {
		return flag
	}
	return app.cfg.ServerURL
}
