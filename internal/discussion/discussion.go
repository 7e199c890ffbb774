// Package discussion runs one turn of the two-persona debate the student
// takes part in: both personas answer the latest message and may change
// how convinced they are.
package discussion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/dhabedank/activity-parser/internal/activity"
	"github.com/dhabedank/activity-parser/internal/llm"
)

// DefaultHistoryLimit is how many recent messages are sent to the model.
const DefaultHistoryLimit = 12

// Message is one line of the conversation.
type Message struct {
	Role      string `json:"role"`                // "user" or "assistant"
	Character string `json:"character,omitempty"` // Persona key for assistant messages
	Content   string `json:"content"`
}

// PersonaState is a persona's current stance.
type PersonaState struct {
	Opinion string          `json:"opinion"`
	Status  activity.Status `json:"status"`
	Thought string          `json:"thought,omitempty"`
}

// State holds both personas' stances.
type State struct {
	Jamie  PersonaState `json:"jamie"`
	Thomas PersonaState `json:"thomas"`
}

// Of returns the state of p.
func (s *State) Of(p activity.Persona) *PersonaState {
	if p == activity.Thomas {
		return &s.Thomas
	}
	return &s.Jamie
}

// InitialState is the stance each persona opens an activity with.
func InitialState(a activity.Activity) State {
	var s State
	for _, p := range activity.Personas {
		pos := a.CharacterPositions.Of(p)
		*s.Of(p) = PersonaState{Opinion: pos.Opinion, Status: pos.Status}
	}
	return s
}

// Request is one discussion turn.
type Request struct {
	Messages []Message
	State    *State             // nil starts from the activity's positions
	Activity *activity.Activity // nil discusses without activity themes
}

// Response is one persona's reply.
type Response struct {
	Character string `json:"character"`
	Message   string `json:"message"`
}

// Reply is the outcome of a turn.
type Reply struct {
	Responses    []Response      `json:"responses"`
	UpdatedState State           `json:"updatedState"`
	Checklist    map[string]bool `json:"checklist"`
	Facts        json.RawMessage `json:"facts,omitempty"`
}

// Orchestrator produces persona replies with an LLM.
type Orchestrator struct {
	Adapter      llm.Adapter
	HistoryLimit int
}

// Reply runs one turn.
func (o *Orchestrator) Reply(ctx context.Context, req Request) (Reply, error) {
	if o.Adapter == nil {
		return Reply{}, errors.New("no LLM adapter configured")
	}
	if len(req.Messages) == 0 {
		return Reply{}, errors.New("messages are required")
	}

	output, err := o.Adapter.Generate(ctx, systemPrompt, o.BuildPrompt(req))
	if err != nil {
		return Reply{}, fmt.Errorf("%s: %w", o.Adapter.Name(), err)
	}
	return ParseReply(output)
}

// BuildPrompt renders the orchestrator prompt for req.
func (o *Orchestrator) BuildPrompt(req Request) string {
	limit := o.HistoryLimit
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	messages := req.Messages
	if len(messages) > limit {
		messages = messages[len(messages)-limit:]
	}

	state := State{}
	if req.State != nil {
		state = *req.State
	} else if req.Activity != nil {
		state = InitialState(*req.Activity)
	}
	stateJSON, _ := json.Marshal(state)

	var b strings.Builder
	if req.Activity != nil {
		fmt.Fprintf(&b, "DISCUSSION QUESTION: %s\n\n", req.Activity.Question.Text)
		if themes := req.Activity.Themes; len(themes) > 0 {
			fmt.Fprintf(&b, "MODEL ANSWER THEMES (count how many the user has clearly addressed; %d total):\n", len(themes))
			for i, t := range themes {
				fmt.Fprintf(&b, "%d. %s\n", i+1, t)
			}
			b.WriteString("\n")
		}
		if len(req.Activity.Checklist) > 0 {
			b.WriteString("CHECKLIST (techniques the user may use):\n")
			for _, item := range req.Activity.Checklist {
				fmt.Fprintf(&b, "- %s: %s\n", item.ID, item.Label)
			}
			b.WriteString("\n")
		}
	}

	fmt.Fprintf(&b, "JAMIE PROFILE:\n%s\n\nTHOMAS PROFILE:\n%s\n\n", jamieProfile, thomasProfile)
	fmt.Fprintf(&b, "CURRENT STATE:\n%s\n\n", stateJSON)

	b.WriteString("HISTORY:\n")
	for _, m := range messages {
		fmt.Fprintf(&b, "%s: %s\n", speaker(m), m.Content)
	}
	b.WriteString("\n")
	b.WriteString(replyFormat)
	return b.String()
}

func speaker(m Message) string {
	if m.Role == "user" {
		return "User"
	}
	if m.Character != "" {
		return strings.ToUpper(m.Character)
	}
	return "Assistant"
}

type personaReply struct {
	Message        string `json:"message"`
	UpdatedOpinion string `json:"updatedOpinion"`
	Status         string `json:"status"`
	ThoughtProcess string `json:"thoughtProcess"`
}

// ParseReply decodes the model's JSON answer. Both personas must reply.
func ParseReply(output string) (Reply, error) {
	jsonStr := llm.ExtractJSON(output)
	if jsonStr == "" {
		return Reply{}, errors.New("no valid JSON in discussion response")
	}

	var raw struct {
		Jamie     *personaReply   `json:"jamie"`
		Thomas    *personaReply   `json:"thomas"`
		Checklist map[string]bool `json:"checklist"`
		Facts     json.RawMessage `json:"facts"`
	}
	if err := json.Unmarshal([]byte(jsonStr), &raw); err != nil {
		return Reply{}, fmt.Errorf("discussion JSON parse error: %w", err)
	}

	reply := Reply{Checklist: raw.Checklist, Facts: raw.Facts}
	for _, p := range activity.Personas {
		pr := raw.Jamie
		if p == activity.Thomas {
			pr = raw.Thomas
		}
		if pr == nil || strings.TrimSpace(pr.Message) == "" {
			return Reply{}, fmt.Errorf("discussion response has no message from %s", p)
		}
		reply.Responses = append(reply.Responses, Response{Character: p.Key(), Message: strings.TrimSpace(pr.Message)})
		*reply.UpdatedState.Of(p) = PersonaState{
			Opinion: strings.TrimSpace(pr.UpdatedOpinion),
			Status:  activity.ParseStatus(pr.Status),
			Thought: strings.TrimSpace(pr.ThoughtProcess),
		}
	}
	return reply, nil
}
