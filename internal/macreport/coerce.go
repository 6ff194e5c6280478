package macreport

import (
	"database/sql"
	"strconv"
	"strings"
	"time"
)

// Timestamp layouts seen in the KPI tables, most common first.
var timeLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// coerceTime parses a loosely-typed timestamp column. Anything that fails
// to parse is absent, never an error; a single bad value must not sink the
// whole batch.
func coerceTime(v sql.NullString) *time.Time {
	if !v.Valid {
		return nil
	}
	s := strings.TrimSpace(v.String)
	if s == "" {
		return nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

func coerceFloat(v sql.NullString) *float64 {
	if !v.Valid {
		return nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v.String), 64)
	if err != nil {
		return nil
	}
	return &f
}

func coerceString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

// The pick helpers carry the merge preference: the first (session-side)
// value wins whenever the store had one, NULL falls back to the second
// (charge-side) value.

func pickString(primary, fallback sql.NullString) *string {
	if primary.Valid {
		return coerceString(primary)
	}
	return coerceString(fallback)
}

func pickTime(primary, fallback sql.NullString) *time.Time {
	if primary.Valid {
		if t := coerceTime(primary); t != nil {
			return t
		}
	}
	return coerceTime(fallback)
}

func pickFloat(primary, fallback sql.NullString) *float64 {
	if primary.Valid {
		if f := coerceFloat(primary); f != nil {
			return f
		}
	}
	return coerceFloat(fallback)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
