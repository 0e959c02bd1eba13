package query

import "go-sirh/internal/store"

type Page struct {
	Data            []store.Record
	RecordsTotal    int
	RecordsFiltered int
}

// Paginate returns records[start : start+length] with sequence-slice semantics:
// a negative start counts from the end and out-of-range bounds clamp. A length of zero or less
// and an inverted range give an empty page.
func Paginate(records []store.Record, start, length int) []store.Record {
	if length <= 0 {
		return []store.Record{}
	}
	n := len(records)
	from := clampIndex(start, n)
	to := clampIndex(start+length, n)
	if to <= from {
		return []store.Record{}
	}
	out := make([]store.Record, to-from)
	copy(out, records[from:to])
	return out
}

func clampIndex(i, n int) int {
	if i < 0 {
		i += n
		if i < 0 {
			return 0
		}
		return i
	}
	if i > n {
		return n
	}
	return i
}
