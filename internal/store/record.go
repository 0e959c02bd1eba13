package store

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

type Record map[string]any

// Normalize round-trips v through JSON so every driver hands back the same shapes:
// numbers as float64, nested structs as maps and slices as []any.
func Normalize(v any) (Record, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out Record
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = Record{}
	}
	return out, nil
}

// Clone returns a deep copy of r.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return map[string]any(Record(t).Clone())
	case Record:
		return t.Clone()
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}

func (r Record) ID() string {
	return IDString(r["id"])
}

func (r Record) Text(field string) string {
	return Stringify(r[field])
}

// Float reads a numeric field, accepting numeric strings.
func (r Record) Float(field string) (float64, bool) {
	return ToFloat(r[field])
}

// IDString formats an id the way it appears in URLs: 7.0 becomes "7".
func IDString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case float64:
		if t == math.Trunc(t) && !math.IsInf(t, 0) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case string:
		return strings.TrimSpace(t)
	default:
		return Stringify(v)
	}
}

// Stringify coerces a value to text: integral floats print without decimals,
// booleans as true/false, nil as the empty string.
func Stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	case json.Number:
		return t.String()
	default:
		raw, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(raw)
	}
}

// ToFloat returns the numeric value of v. Non-empty numeric strings count.
func ToFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// NextID returns max numeric id + 1, or 1 for an empty collection.
func NextID(records []Record) float64 {
	var max float64
	for _, r := range records {
		if f, ok := ToFloat(r["id"]); ok && f > max {
			max = f
		}
	}
	return math.Floor(max) + 1
}

// Merge shallow-merges patch over base into a new record.
func Merge(base, patch Record) Record {
	out := base.Clone()
	if out == nil {
		out = Record{}
	}
	for k, v := range patch {
		out[k] = cloneValue(v)
	}
	return out
}

func matchesID(r Record, id any) bool {
	want := IDString(id)
	return want != "" && r.ID() == want
}
