package domain

import (
	"fmt"
	"sort"
	"time"
)

// Session is the persisted state of one player run: the local state of every
// scope keyed by scope ID, plus the restore point taken after startup.
type Session struct {
	ID           string                    `json:"id"`
	QuestionID   string                    `json:"question_id"`
	Scopes       map[string]map[string]any `json:"scopes"`
	RestorePoint map[string]map[string]any `json:"restore_point,omitempty"`
	UpdatedAt    time.Time                 `json:"updated_at"`
}

// NewSession creates an empty session.
func NewSession(id, questionID string) *Session {
	return &Session{
		ID:         id,
		QuestionID: questionID,
		Scopes:     make(map[string]map[string]any),
		UpdatedAt:  time.Now().UTC(),
	}
}

// Clone deep-copies the scope maps one level down.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	next := *s
	next.Scopes = cloneScopes(s.Scopes)
	next.RestorePoint = cloneScopes(s.RestorePoint)
	return &next
}

func cloneScopes(src map[string]map[string]any) map[string]map[string]any {
	if src == nil {
		return nil
	}
	out := make(map[string]map[string]any, len(src))
	for id, state := range src {
		cp := make(map[string]any, len(state))
		for k, v := range state {
			cp[k] = v
		}
		out[id] = cp
	}
	return out
}

// Touched returns the sorted IDs of scopes whose state differs from the restore point.
// Values are compared by their printed form so that numbers survive a JSON round trip.
func (s *Session) Touched() []string {
	var ids []string
	for id, state := range s.Scopes {
		if !sameState(state, s.RestorePoint[id]) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

func sameState(a, b map[string]any) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		w, ok := b[k]
		if !ok || fmt.Sprint(v) != fmt.Sprint(w) {
			return false
		}
	}
	return true
}
