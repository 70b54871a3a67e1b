package model

import "strings"

// Sort orders a document listing by one field.
type Sort struct {
	Field string
	Desc  bool
}

// NewestFirst is the default listing order.
var NewestFirst = Sort{Field: "created_date", Desc: true}

// ParseSort reads "-field" as descending and "field" as ascending.
// An empty value yields NewestFirst.
func ParseSort(raw string) Sort {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return NewestFirst
	}
	if strings.HasPrefix(raw, "-") {
		return Sort{Field: raw[1:], Desc: true}
	}
	return Sort{Field: raw}
}

func (s Sort) String() string {
	if s.Desc {
		return "-" + s.Field
	}
	return s.Field
}
