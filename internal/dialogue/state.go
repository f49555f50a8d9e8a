package dialogue

import "credit-agent/internal/domain"

// DefaultHistoryLimit is the number of turns a session keeps.
const DefaultHistoryLimit = 20

// State is the conversation state of one session. It is owned by a single
// session and only mutated by Controller.Handle.
type State struct {
	History          []domain.Turn `json:"history"`
	WaitingForID     bool          `json:"awaitingId"`
	LastCreditAmount *float64      `json:"lastCreditAmount,omitempty"`
}

func NewState() *State {
	return &State{}
}

func (s *State) AwaitingID() bool { return s.WaitingForID }

func (s *State) HasCreditAmount() bool { return s.LastCreditAmount != nil }

func (s *State) RecentTurns(n int) []string {
	start := len(s.History) - n
	if start < 0 {
		start = 0
	}
	out := make([]string, 0, len(s.History)-start)
	for _, t := range s.History[start:] {
		out = append(out, t.Text)
	}
	return out
}

func (s *State) LastReply() string {
	for i := len(s.History) - 1; i >= 0; i-- {
		if s.History[i].Role == domain.RoleAssistant {
			return s.History[i].Text
		}
	}
	return ""
}

// record appends a turn and drops the oldest turns beyond limit.
func (s *State) record(role, text string, limit int) {
	s.History = append(s.History, domain.Turn{Role: role, Text: text})
	if limit > 0 && len(s.History) > limit {
		kept := make([]domain.Turn, limit)
		copy(kept, s.History[len(s.History)-limit:])
		s.History = kept
	}
}
