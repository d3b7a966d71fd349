package cli

import (
	"github.com/spf13/cobra"

	"github.com/autostream-assistant/server/internal/app"
	logx "github.com/autostream-assistant/server/pkg/logger"
)

// NewRootCmd creates the top-level "assistant" command. Configuration is read
// from the environment (and envFile) before any subcommand runs.
func NewRootCmd(envFile string) *cobra.Command {
	cfg := &app.Config{}

	root := &cobra.Command{
		Use:           "assistant",
		Short:         "AutoStream conversational sales assistant",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.LoadConfig(envFile)
			if err != nil {
				return err
			}
			logx.Init(logx.LoggerOpts{
				Environment: c.Environment(),
				Level:       c.LogLevel,
				Output:      cmd.ErrOrStderr(),
			})
			*cfg = *c
			return nil
		},
	}

	root.AddCommand(
		newChatCmd(cfg),
		newServeCmd(cfg),
		newLeadsCmd(cfg),
	)

	return root
}
