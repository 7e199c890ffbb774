package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dhabedank/activity-parser/internal/activity"
	"github.com/dhabedank/activity-parser/internal/discussion"
	"github.com/dhabedank/activity-parser/internal/tui"
)

var discussShowThoughts bool

// DiscussCmd debates an activity's question with Jamie and Thomas in the terminal.
var DiscussCmd = &cobra.Command{
	Use:   "discuss <slug>",
	Short: "Discuss an activity with the two personas",
	Long: `Start a text discussion about an activity's question.

Both personas open with their initial messages. Each line you type is sent
to the model, which answers as Jamie and Thomas and updates how convinced
each of them is. Type /quit or press Ctrl+D to stop.`,
	Args: cobra.ExactArgs(1),
	RunE: runDiscuss,
}

func init() {
	DiscussCmd.Flags().BoolVar(&discussShowThoughts, "thoughts", false, "Show each persona's reasoning")
}

func runDiscuss(cmd *cobra.Command, args []string) error {
	if err := loadConfig(cmd); err != nil {
		return err
	}
	slug := args[0]
	a, err := openStore().Load(slug)
	if err != nil {
		return notFound(slug, err)
	}
	adapter, err := newAdapter()
	if err != nil {
		return err
	}

	log := cliLogger(cmd)
	defer log.Sync()

	out := cmd.OutOrStdout()
	orch := &discussion.Orchestrator{Adapter: adapter}
	state := discussion.InitialState(a)

	fmt.Fprintln(out, tui.TitleStyle.Render(a.Title))
	fmt.Fprintf(out, "%s\n\n", tui.SubtitleStyle.Render(a.Question.Text))

	var history []discussion.Message
	for _, p := range activity.Personas {
		msg := a.InitialMessages.Of(p)
		if msg == "" {
			continue
		}
		printPersona(out, p, msg, *state.Of(p))
		history = append(history, discussion.Message{Role: "assistant", Character: p.Key(), Content: msg})
	}

	in := bufio.NewScanner(cmd.InOrStdin())
	checked := map[string]bool{}
	for {
		fmt.Fprint(out, tui.HelpStyle.Render("you> "))
		if !in.Scan() {
			fmt.Fprintln(out)
			break
		}
		line := strings.TrimSpace(in.Text())
		if line == "" {
			continue
		}
		if line == "/quit" || line == "/exit" {
			break
		}

		history = append(history, discussion.Message{Role: "user", Content: line})
		reply, err := orch.Reply(cmd.Context(), discussion.Request{
			Messages: history,
			State:    &state,
			Activity: &a,
		})
		if err != nil {
			// Drop the unanswered line so the user can rephrase.
			history = history[:len(history)-1]
			fmt.Fprintln(out, tui.ErrorStyle.Render("✗ "+err.Error()))
			continue
		}

		state = reply.UpdatedState
		for _, r := range reply.Responses {
			p, err := activity.ParsePersona(r.Character)
			if err != nil {
				continue
			}
			printPersona(out, p, r.Message, *state.Of(p))
			history = append(history, discussion.Message{Role: "assistant", Character: r.Character, Content: r.Message})
		}
		for id, done := range reply.Checklist {
			if done && !checked[id] {
				checked[id] = true
				fmt.Fprintln(out, tui.SuccessStyle.Render("✓ "+checklistLabel(a, id)))
			}
		}
	}
	if err := in.Err(); err != nil {
		return err
	}

	fmt.Fprintf(out, "Final: Jamie %s, Thomas %s\n",
		tui.StatusStyle(state.Jamie.Status).Render(string(state.Jamie.Status)),
		tui.StatusStyle(state.Thomas.Status).Render(string(state.Thomas.Status)))
	return nil
}

func printPersona(w io.Writer, p activity.Persona, msg string, s discussion.PersonaState) {
	fmt.Fprintf(w, "%s %s\n  %s\n",
		tui.PersonaStyle(p).Render(p.String()),
		tui.StatusStyle(s.Status).Render("["+string(s.Status)+"]"),
		msg,
	)
	if discussShowThoughts && s.Thought != "" {
		fmt.Fprintf(w, "  %s\n", tui.HelpStyle.Render(s.Thought))
	}
	fmt.Fprintln(w)
}

func checklistLabel(a activity.Activity, id string) string {
	for _, item := range a.Checklist {
		if item.ID == id {
			return item.Label
		}
	}
	return id
}
