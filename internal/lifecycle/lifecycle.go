package lifecycle

import (
	"fmt"
	"net/http"
	"slices"

	"go-sirh/internal/shared/apperror"
)

var (
	ErrUnknownAction = apperror.New(
		apperror.CodeInvalidInput,
		"Action inconnue",
		http.StatusBadRequest,
	)
	ErrTransitionNotAllowed = apperror.New(
		apperror.CodeInvalidState,
		"Transition de statut non autorisée",
		http.StatusBadRequest,
	)
	ErrNotDeletable = apperror.New(
		apperror.CodeInvalidState,
		"Suppression non autorisée pour ce statut",
		http.StatusBadRequest,
	)
	ErrNotEditable = apperror.New(
		apperror.CodeInvalidState,
		"Modification non autorisée pour ce statut",
		http.StatusBadRequest,
	)
)

// Transition moves a record from any of From to To when Action is applied.
type Transition struct {
	Action string
	From   []string
	To     string
}

// Machine declares the status lifecycle of one entity.
type Machine struct {
	// Entity is the French label used in messages, e.g. "contrat".
	Entity      string
	StatusField string
	Initial     string
	Transitions []Transition
	// Deletable and Editable list the statuses allowing DELETE and PUT/PATCH.
	// An empty Editable allows edits in every status.
	Deletable []string
	Editable  []string
}

func (m *Machine) Field() string {
	if m.StatusField == "" {
		return "statut"
	}
	return m.StatusField
}

func (m *Machine) Actions() []string {
	seen := make(map[string]bool)
	var out []string
	for _, t := range m.Transitions {
		if !seen[t.Action] {
			seen[t.Action] = true
			out = append(out, t.Action)
		}
	}
	return out
}

func (m *Machine) HasAction(action string) bool {
	for _, t := range m.Transitions {
		if t.Action == action {
			return true
		}
	}
	return false
}

// Target returns the status reached by applying action to current.
func (m *Machine) Target(action, current string) (string, error) {
	known := false
	for _, t := range m.Transitions {
		if t.Action != action {
			continue
		}
		known = true
		if slices.Contains(t.From, current) {
			return t.To, nil
		}
	}
	if !known {
		return "", apperror.Wrap(ErrUnknownAction, ErrUnknownAction.Code,
			fmt.Sprintf("Action %s inconnue pour %s", action, m.Entity), ErrUnknownAction.HTTPStatus)
	}
	return "", apperror.Wrap(ErrTransitionNotAllowed, ErrTransitionNotAllowed.Code,
		fmt.Sprintf("Action %s impossible : %s au statut %s", action, m.Entity, displayStatus(current)),
		ErrTransitionNotAllowed.HTTPStatus)
}

// TargetOf picks the transition of action that leads to the wanted status.
// Used by actions whose outcome depends on the payload, e.g. a CNSS decision.
func (m *Machine) TargetOf(action, current, wanted string) (string, error) {
	for _, t := range m.Transitions {
		if t.Action == action && t.To == wanted && slices.Contains(t.From, current) {
			return t.To, nil
		}
	}
	if !m.HasAction(action) {
		return m.Target(action, current)
	}
	return "", apperror.Wrap(ErrTransitionNotAllowed, ErrTransitionNotAllowed.Code,
		fmt.Sprintf("Action %s impossible : %s au statut %s", action, m.Entity, displayStatus(current)),
		ErrTransitionNotAllowed.HTTPStatus)
}

func (m *Machine) CheckDelete(current string) error {
	if slices.Contains(m.Deletable, current) {
		return nil
	}
	return apperror.Wrap(ErrNotDeletable, ErrNotDeletable.Code,
		fmt.Sprintf("Seul un %s au statut %s peut être supprimé", m.Entity, joinStatuses(m.Deletable)),
		ErrNotDeletable.HTTPStatus)
}

func (m *Machine) CheckEdit(current string) error {
	if len(m.Editable) == 0 || slices.Contains(m.Editable, current) {
		return nil
	}
	return apperror.Wrap(ErrNotEditable, ErrNotEditable.Code,
		fmt.Sprintf("Seul un %s au statut %s peut être modifié", m.Entity, joinStatuses(m.Editable)),
		ErrNotEditable.HTTPStatus)
}

func displayStatus(s string) string {
	if s == "" {
		return "inconnu"
	}
	return s
}

func joinStatuses(statuses []string) string {
	switch len(statuses) {
	case 0:
		return "inconnu"
	case 1:
		return statuses[0]
	}
	out := statuses[0]
	for _, s := range statuses[1 : len(statuses)-1] {
		out += ", " + s
	}
	return out + " ou " + statuses[len(statuses)-1]
}
