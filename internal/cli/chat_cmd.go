package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/autostream-assistant/server/internal/agent/model"
	"github.com/autostream-assistant/server/internal/app"
	errx "github.com/autostream-assistant/server/internal/core/error"
)

const chatBanner = `============================================================
AutoStream Assistant
Type 'quit', 'exit' or 'q' to end the conversation.
============================================================`

func newChatCmd(cfg *app.Config) *cobra.Command {
	var debug bool
	var sessionID string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Talk to the assistant in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := app.New(ctx, cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			if sessionID == "" {
				sessionID = uuid.NewString()
			}
			return runChat(ctx, a.Service, sessionID, debug, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&debug, "debug", false, "Show intent, lead fields and turn count after each reply")
	cmd.Flags().StringVar(&sessionID, "session", "", "Resume a session id (default: new random id)")
	return cmd
}

type messageHandler interface {
	HandleMessage(ctx context.Context, sessionID, message string) (*model.TurnResult, error)
}

func runChat(ctx context.Context, h messageHandler, sessionID string, debug bool, in io.Reader, out io.Writer) error {
	fmt.Fprintln(out, chatBanner)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "\nYou: ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		switch strings.ToLower(line) {
		case "quit", "exit", "q":
			fmt.Fprintln(out, "\nThank you for chatting with AutoStream! Have a great day!")
			return nil
		}

		res, err := h.HandleMessage(ctx, sessionID, line)
		if res == nil {
			fmt.Fprintf(out, "\nAssistant: Sorry, something went wrong (%s). Please try again.\n", errx.SafeMessage(err))
			continue
		}
		fmt.Fprintf(out, "\nAssistant: %s\n", res.Reply)
		if err != nil && !errors.Is(err, errx.ErrLeadSinkFailure) {
			return err
		}

		if debug {
			fmt.Fprintf(out, "\n[DEBUG] Intent: %s | Phase: %s | Turn: %d\n", res.Intent, res.Phase, res.TurnCount)
			fmt.Fprintf(out, "[DEBUG] Lead: name=%q email=%q platform=%q submitted=%t\n",
				res.Lead.Name, res.Lead.Email, res.Lead.Platform, res.LeadSubmitted)
			if len(res.Degraded) > 0 {
				fmt.Fprintf(out, "[DEBUG] Degraded: %s\n", strings.Join(res.Degraded, ", "))
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	fmt.Fprintln(out)
	return nil
}
