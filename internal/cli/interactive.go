package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/switchboard/internal/presentation/tui"
	"github.com/aretw0/switchboard/pkg/domain"
	"github.com/aretw0/switchboard/pkg/handlers"
	"github.com/aretw0/switchboard/pkg/sanitize"
)

// RunInteractive drives a terminal chat session against the engine. Each
// line of input is one turn; the session reuses a single conversation
// until it terminates, escalates, or aborts.
func RunInteractive(ctx context.Context, app *App, in io.Reader, out io.Writer) error {
	render := tui.NewRenderer()
	reader := bufio.NewReader(in)

	state := app.Engine.StartConversation()
	fmt.Fprintf(out, "Conversation %s (type 'exit' to quit)\n\n", state.ConversationID)

	for {
		fmt.Fprint(out, "> ")
		line, err := reader.ReadString('\n')
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}

		msg := strings.TrimSpace(line)
		if msg == "" {
			continue
		}
		if msg == "exit" || msg == "quit" {
			fmt.Fprintln(out, "Bye!")
			return nil
		}
		msg, err = sanitize.Input(msg)
		if err != nil {
			fmt.Fprintf(out, "Input rejected: %v\n", err)
			continue
		}

		state.Payload[handlers.KeyMessage] = msg
		state.NextStep = ""

		result, err := app.Engine.Run(ctx, state)
		if err != nil {
			return fmt.Errorf("run failed: %w", err)
		}
		state = result.State

		if err := app.Sessions.Save(ctx, state.ConversationID, state); err != nil {
			app.Logger.Warn("failed to persist conversation", "err", err)
		}

		if reply, ok := state.Payload[handlers.KeyReply].(string); ok && reply != "" {
			if pretty, rerr := render(reply); rerr == nil {
				fmt.Fprint(out, pretty)
			} else {
				fmt.Fprintln(out, reply)
			}
		}

		switch result.Outcome {
		case domain.OutcomeTerminated:
			fmt.Fprintf(out, "\n[resolved after %d hops]\n", state.TurnCount)
		case domain.OutcomeEscalated:
			fmt.Fprintf(out, "\n[escalated after %d hops]\n", state.TurnCount)
		case domain.OutcomeAborted:
			if result.Err != nil {
				fmt.Fprintf(out, "\n[aborted: %v]\n", result.Err)
			} else {
				fmt.Fprintf(out, "\n[hop ceiling of %d reached]\n", state.MaxTurns)
			}
		}
		if state.Status.Terminal() || result.Outcome == domain.OutcomeAborted && result.Err != nil {
			return nil
		}
	}
}
