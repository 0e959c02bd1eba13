package query

import (
	"sort"
	"strings"

	"go-sirh/internal/store"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

func ParseDirection(s string) Direction {
	if strings.EqualFold(strings.TrimSpace(s), string(Desc)) {
		return Desc
	}
	return Asc
}

// Comparator orders records on one field. Values that are missing or null sort
// last in both directions; two numeric values compare numerically and anything
// else compares as French-collated text.
//
// A Comparator is not safe for concurrent use.
type Comparator struct {
	field    string
	dir      Direction
	collator *collate.Collator
}

func NewComparator(sortBy string, dir Direction) *Comparator {
	return &Comparator{
		field:    sortBy,
		dir:      dir,
		collator: collate.New(language.French),
	}
}

func (c *Comparator) Compare(a, b store.Record) int {
	va, aok := a[c.field]
	vb, bok := b[c.field]
	aUndef := !aok || va == nil
	bUndef := !bok || vb == nil

	switch {
	case aUndef && bUndef:
		return 0
	case aUndef:
		return 1
	case bUndef:
		return -1
	}

	return c.sign(c.compareValues(va, vb))
}

func (c *Comparator) compareValues(va, vb any) int {
	if fa, ok := store.ToFloat(va); ok {
		if fb, ok := store.ToFloat(vb); ok {
			switch {
			case fa < fb:
				return -1
			case fa > fb:
				return 1
			default:
				return 0
			}
		}
	}

	sa, sb := store.Stringify(va), store.Stringify(vb)
	if sa == sb {
		return 0
	}
	return c.collator.CompareString(sa, sb)
}

func (c *Comparator) sign(n int) int {
	if c.dir == Desc {
		return -n
	}
	return n
}

// Sort orders records in place. An empty sortBy keeps the original order.
func Sort(records []store.Record, sortBy string, dir Direction) {
	if sortBy == "" {
		return
	}
	cmp := NewComparator(sortBy, dir)
	sort.SliceStable(records, func(i, j int) bool {
		return cmp.Compare(records[i], records[j]) < 0
	})
}
