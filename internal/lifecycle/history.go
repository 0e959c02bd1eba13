package lifecycle

import (
	"time"

	"go-sirh/internal/store"
)

const DefaultHistoryField = "historique"

// HistoryEntry is one append-only audit line.
type HistoryEntry struct {
	Date        string `json:"date"`
	Action      string `json:"action"`
	Utilisateur string `json:"utilisateur"`
	Details     string `json:"details"`
}

func NewHistoryEntry(now time.Time, action, actor, details string) HistoryEntry {
	return HistoryEntry{
		Date:        now.UTC().Format(time.RFC3339),
		Action:      action,
		Utilisateur: actor,
		Details:     details,
	}
}

// AppendHistory appends entry to rec[field] and returns the new list.
// A missing or malformed list starts over empty.
func AppendHistory(rec store.Record, field string, entry HistoryEntry) []any {
	if field == "" {
		field = DefaultHistoryField
	}
	current, _ := rec[field].([]any)
	next := make([]any, 0, len(current)+1)
	next = append(next, current...)
	next = append(next, map[string]any{
		"date":        entry.Date,
		"action":      entry.Action,
		"utilisateur": entry.Utilisateur,
		"details":     entry.Details,
	})
	rec[field] = next
	return next
}
