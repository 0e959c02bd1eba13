package resource

import (
	"context"
	"time"

	"go-sirh/internal/lifecycle"
	"go-sirh/internal/query"
	"go-sirh/internal/shared/export"
	"go-sirh/internal/store"
)

// Definition describes one entity exposed through the generic resource layer.
type Definition struct {
	// Name is the URL segment, e.g. "contracts".
	Name string
	// Resource is the RBAC resource, Name when empty.
	Resource string
	// Label is the French noun used in messages, e.g. "Contrat".
	Label       string
	Collection  string
	Query       query.Spec
	Enrichments []query.Enrichment
	Machine     *lifecycle.Machine
	// HistoryField enables the audit trail when non-empty.
	HistoryField string
	Defaults     store.Record
	// Immutable fields are dropped from update payloads, on top of id, timestamps, status and history.
	Immutable []string
	Actions   map[string]Action
	Export    []export.Column
	ReadOnly  bool
	// Hidden fields are stored but never returned, e.g. a password hash.
	Hidden []string

	// BeforeCreate validates and completes the record in place before it is stored.
	BeforeCreate func(ctx context.Context, rec store.Record) error
	// BeforeUpdate validates next, the record about to replace current.
	BeforeUpdate func(ctx context.Context, current, next store.Record) error
	BeforeDelete func(ctx context.Context, current store.Record) error
	// AfterCreate runs once the record is stored; failures are logged only.
	AfterCreate func(ctx context.Context, created store.Record) error
	// NormalizeStatus maps legacy spellings of a stored status to the machine's statuses.
	NormalizeStatus func(status string) string
	// OnChange runs after every successful write, e.g. to drop a cache.
	OnChange func(ctx context.Context)
	// CreateLockKey serializes BeforeCreate/BeforeUpdate and the write for records sharing a key.
	CreateLockKey func(rec store.Record) string
}

// Action configures one lifecycle action endpoint.
type Action struct {
	// Fields are copied from the payload when present.
	Fields   []string
	Required []string
	// ReasonField is copied like Fields and appended to the history details.
	ReasonField string
	ActorField  string
	DateField   string
	// Outcome chooses the target status from the payload when the action has several.
	Outcome func(payload store.Record) (string, error)
	// Apply adds computed fields to patch and may reject the action.
	Apply func(ctx context.Context, current, payload, patch store.Record, now time.Time) error
}

func (d *Definition) rbacResource() string {
	if d.Resource != "" {
		return d.Resource
	}
	return d.Name
}

func (d *Definition) currentStatus(rec store.Record) string {
	status := rec.Text(d.statusField())
	if d.NormalizeStatus != nil {
		return d.NormalizeStatus(status)
	}
	return status
}

func (d *Definition) statusField() string {
	if d.Machine == nil {
		return ""
	}
	return d.Machine.Field()
}

// protected lists the fields callers can never write directly.
func (d *Definition) protected() map[string]bool {
	out := map[string]bool{"id": true, "created_at": true, "updated_at": true}
	if f := d.statusField(); f != "" {
		out[f] = true
	}
	if d.HistoryField != "" {
		out[d.HistoryField] = true
	}
	for _, e := range d.Enrichments {
		out[e.Key] = true
	}
	return out
}

func (d *Definition) actionNames() []string {
	if d.Machine == nil {
		return nil
	}
	return d.Machine.Actions()
}
