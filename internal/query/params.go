package query

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	ParamStart   = "start"
	ParamLength  = "length"
	ParamSortBy  = "sortBy"
	ParamSortDir = "sortDir"

	DefaultStart  = 0
	DefaultLength = 10
)

// Reserved params drive paging and sorting and never act as filters.
var Reserved = []string{ParamStart, ParamLength, ParamSortBy, ParamSortDir}

// Params holds the first value of each query parameter.
type Params map[string]string

func ParamsFromValues(values url.Values) Params {
	p := make(Params, len(values))
	for k, v := range values {
		if len(v) > 0 {
			p[k] = v[0]
		}
	}
	return p
}

func (p Params) Get(key string) string {
	return p[key]
}

// ParsePaging reads start and length from their leading integer, so "1.5" reads as 1.
// Either falls back to its default when no digit leads the value.
func ParsePaging(p Params) (start, length int) {
	start, length = DefaultStart, DefaultLength
	if v, ok := leadingInt(p[ParamStart]); ok {
		start = v
	}
	if v, ok := leadingInt(p[ParamLength]); ok {
		length = v
	}
	return start, length
}

// leadingInt parses an optional sign and the digits that follow it, ignoring leading spaces and any trailing text.
func leadingInt(s string) (int, bool) {
	s = strings.TrimLeft(s, " \t\n\r")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	v, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return v, true
}
