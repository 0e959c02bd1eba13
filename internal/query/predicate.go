package query

import (
	"strings"

	"go-sirh/internal/store"
)

// Filter replaces substring matching for the params it consumes.
// Match runs only when at least one of Params is non-empty.
type Filter struct {
	Params []string
	Match  func(rec store.Record, p Params) bool
}

type Spec struct {
	Filters []Filter
	// Aliases maps a param to the record field it searches.
	Aliases map[string]string
	// Ignore lists params that are neither filters nor reserved, e.g. "async".
	Ignore []string
}

// BuildPredicate turns params into a conjunction of per-field predicates.
// Every param not consumed by a Filter is a case-insensitive substring match
// on the same-named field; absent or null fields never match.
func BuildPredicate(p Params, spec Spec) store.Predicate {
	consumed := make(map[string]bool)
	for _, k := range Reserved {
		consumed[k] = true
	}
	for _, k := range spec.Ignore {
		consumed[k] = true
	}

	var active []Filter
	for _, f := range spec.Filters {
		used := false
		for _, k := range f.Params {
			consumed[k] = true
			if p[k] != "" {
				used = true
			}
		}
		if used {
			active = append(active, f)
		}
	}

	type term struct {
		field  string
		needle string
	}
	var terms []term
	for k, v := range p {
		if consumed[k] || v == "" {
			continue
		}
		field := k
		if alias, ok := spec.Aliases[k]; ok {
			field = alias
		}
		terms = append(terms, term{field: field, needle: strings.ToLower(v)})
	}

	return func(rec store.Record) bool {
		for _, t := range terms {
			v, ok := rec[t.field]
			if !ok || v == nil {
				return false
			}
			if !strings.Contains(strings.ToLower(store.Stringify(v)), t.needle) {
				return false
			}
		}
		for _, f := range active {
			if !f.Match(rec, p) {
				return false
			}
		}
		return true
	}
}

// Exact matches the field's text (ids compared without decimals) against the param.
func Exact(param, field string) Filter {
	return Filter{
		Params: []string{param},
		Match: func(rec store.Record, p Params) bool {
			want := p[param]
			if want == "" {
				return true
			}
			v, ok := rec[field]
			if !ok || v == nil {
				return false
			}
			return strings.EqualFold(store.IDString(v), strings.TrimSpace(want))
		},
	}
}

// OneOf matches when the field equals any of the comma-separated param values.
func OneOf(param, field string) Filter {
	return Filter{
		Params: []string{param},
		Match: func(rec store.Record, p Params) bool {
			got := store.IDString(rec[field])
			if got == "" {
				return false
			}
			for _, want := range strings.Split(p[param], ",") {
				if strings.EqualFold(strings.TrimSpace(want), got) {
					return true
				}
			}
			return false
		},
	}
}

// Normalized compares param and field after passing both through normalize.
func Normalized(param, field string, normalize func(string) string) Filter {
	return Filter{
		Params: []string{param},
		Match: func(rec store.Record, p Params) bool {
			v, ok := rec[field]
			if !ok || v == nil {
				return false
			}
			return normalize(store.Stringify(v)) == normalize(p[param])
		},
	}
}

// DateOverlap keeps records whose [startField, endField] range intersects [from, to].
// A missing endField is treated as a single-day range.
func DateOverlap(fromParam, toParam, startField, endField string) Filter {
	return Filter{
		Params: []string{fromParam, toParam},
		Match: func(rec store.Record, p Params) bool {
			start := dateOf(rec[startField])
			if start == "" {
				return false
			}
			end := dateOf(rec[endField])
			if end == "" {
				end = start
			}
			if from := dateOf(p[fromParam]); from != "" && end < from {
				return false
			}
			if to := dateOf(p[toParam]); to != "" && start > to {
				return false
			}
			return true
		},
	}
}

// DateWithin keeps records whose field falls in [from, to], bounds inclusive.
func DateWithin(fromParam, toParam, field string) Filter {
	return Filter{
		Params: []string{fromParam, toParam},
		Match: func(rec store.Record, p Params) bool {
			d := dateOf(rec[field])
			if d == "" {
				return false
			}
			if from := dateOf(p[fromParam]); from != "" && d < from {
				return false
			}
			if to := dateOf(p[toParam]); to != "" && d > to {
				return false
			}
			return true
		},
	}
}

// dateOf keeps the YYYY-MM-DD prefix so dates and RFC3339 timestamps compare lexically.
func dateOf(v any) string {
	s := strings.TrimSpace(store.Stringify(v))
	if len(s) > 10 {
		s = s[:10]
	}
	return s
}
