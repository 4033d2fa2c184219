package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"scheduling-assistant/internal/composer"
	"scheduling-assistant/internal/conversation"
	"scheduling-assistant/internal/model"
	"scheduling-assistant/internal/scheduler"
	schedUC "scheduling-assistant/internal/scheduler/usecase"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Run a conversation from JSON-lines intents on stdin",
	Long: `Each input line is either a turn {"user_text": "...", "intent": {...}} or a bare
intent {"operation": "create", "fields": {...}, "reference_phrase": "..."}.
The composed reply of every turn is printed, followed by the session state.`,
	RunE: runREPL,
}

var (
	replSession string
	replJSON    bool
)

func init() {
	replCmd.Flags().StringVar(&replSession, "session", "cli", "Session ID")
	replCmd.Flags().BoolVar(&replJSON, "json", false, "Print the structured outcome instead of text")
}

func runREPL(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	sessions := conversation.NewSessions(1, 0, e.cfg.Scheduler.ContextTurns)
	uc := schedUC.New(e.l, e.repo, e.dateMath, sessions, schedUC.Options{MaxBulkCount: e.cfg.Scheduler.MaxBulkCount})
	return repl(cmd.Context(), uc, replSession, os.Stdin, cmd.OutOrStdout(), replJSON)
}

type turnLine struct {
	UserText string            `json:"user_text"`
	Intent   *scheduler.Intent `json:"intent"`
}

// parseTurn accepts a wrapped turn or a bare intent.
func parseTurn(line string) (scheduler.TurnInput, error) {
	var t turnLine
	if err := json.Unmarshal([]byte(line), &t); err != nil {
		return scheduler.TurnInput{}, err
	}
	if t.Intent != nil {
		return scheduler.TurnInput{UserText: t.UserText, Intent: *t.Intent}, nil
	}
	var in scheduler.Intent
	if err := json.Unmarshal([]byte(line), &in); err != nil {
		return scheduler.TurnInput{}, err
	}
	return scheduler.TurnInput{Intent: in}, nil
}

func repl(ctx context.Context, uc scheduler.UseCase, session string, in io.Reader, out io.Writer, asJSON bool) error {
	sc := model.Scope{SessionID: session}
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		input, err := parseTurn(line)
		if err != nil {
			fmt.Fprintf(out, "! invalid input: %v\n", err)
			continue
		}

		res, err := uc.ProcessTurn(ctx, sc, input)
		if err != nil && !res.Outcome.Retryable {
			fmt.Fprintf(out, "! %v\n", err)
			continue
		}

		if asJSON {
			b, _ := json.Marshal(res.Outcome)
			fmt.Fprintln(out, string(b))
		} else {
			fmt.Fprintln(out, composer.Compose(res.Outcome))
		}
		fmt.Fprintf(out, "[%s]\n", res.State)
		if err != nil {
			return err
		}
	}
	return scanner.Err()
}
