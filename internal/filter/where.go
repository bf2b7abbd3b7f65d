package filter

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/vburojevic/pomo/internal/domain"
	"github.com/vburojevic/pomo/internal/events"
)

// WhereClause represents a parsed --where condition
type WhereClause struct {
	Field    string
	Operator string
	Value    string
	regex    *regexp.Regexp // Compiled regex for ~ and !~ operators
}

// ParseWhereClause parses a where clause like "state=WorkSession" or "remainingTime<=60"
// Supported operators: =, !=, ~, !~, >=, <=, ^, $
func ParseWhereClause(clause string) (*WhereClause, error) {
	// Try operators in order of length (longest first to avoid partial matches)
	operators := []string{"!~", ">=", "<=", "!=", "~", "=", "^", "$"}

	for _, op := range operators {
		idx := strings.Index(clause, op)
		if idx > 0 {
			field := strings.TrimSpace(clause[:idx])
			value := strings.TrimSpace(clause[idx+len(op):])

			if field == "" || value == "" {
				return nil, fmt.Errorf("invalid where clause: %s", clause)
			}

			wc := &WhereClause{
				Field:    field,
				Operator: op,
				Value:    value,
			}

			switch op {
			case "~", "!~":
				re, err := regexp.Compile(value)
				if err != nil {
					return nil, fmt.Errorf("invalid regex in where clause '%s': %w", clause, err)
				}
				wc.regex = re
			case ">=", "<=":
				if _, err := strconv.ParseFloat(value, 64); err != nil {
					return nil, fmt.Errorf("where clause '%s' needs a number after %s", clause, op)
				}
			case "=", "!=":
				// "state=work" is shorthand for the canonical state name
				if strings.EqualFold(field, "state") {
					if st, err := domain.ParseState(value); err == nil {
						wc.Value = st.String()
					}
				}
			}

			return wc, nil
		}
	}

	return nil, fmt.Errorf("no valid operator found in where clause: %s (use =, !=, ~, !~, >=, <=, ^, $)", clause)
}

// Match checks if an event matches this where clause
func (wc *WhereClause) Match(e events.Event) bool {
	return wc.matchFields(Fields(e))
}

func (wc *WhereClause) matchFields(fields map[string]string) bool {
	fieldValue, ok := fields[wc.Field]

	switch wc.Operator {
	case "=":
		return fieldValue == wc.Value
	case "!=":
		return fieldValue != wc.Value
	case "~":
		return wc.regex.MatchString(fieldValue)
	case "!~":
		return !wc.regex.MatchString(fieldValue)
	case "^":
		return strings.HasPrefix(fieldValue, wc.Value)
	case "$":
		return strings.HasSuffix(fieldValue, wc.Value)
	case ">=", "<=":
		if !ok {
			return false
		}
		return wc.compareNumber(fieldValue)
	}

	return false
}

// compareNumber handles >= and <= on numeric fields such as remainingTime
func (wc *WhereClause) compareNumber(fieldValue string) bool {
	got, err := strconv.ParseFloat(fieldValue, 64)
	if err != nil {
		return false
	}
	want, _ := strconv.ParseFloat(wc.Value, 64)
	if wc.Operator == ">=" {
		return got >= want
	}
	return got <= want
}

// WhereFilter is a filter that applies multiple where clauses (AND logic)
type WhereFilter struct {
	clauses []*WhereClause
}

// NewWhereFilter creates a filter from multiple where clause strings
func NewWhereFilter(whereClauses []string) (*WhereFilter, error) {
	if len(whereClauses) == 0 {
		return nil, nil
	}

	filter := &WhereFilter{}
	for _, clause := range whereClauses {
		wc, err := ParseWhereClause(clause)
		if err != nil {
			return nil, err
		}
		filter.clauses = append(filter.clauses, wc)
	}

	return filter, nil
}

// Match returns true if the event matches ALL where clauses (AND logic)
func (f *WhereFilter) Match(e events.Event) bool {
	if f == nil {
		return true
	}
	fields := Fields(e)
	for _, clause := range f.clauses {
		if !clause.matchFields(fields) {
			return false
		}
	}
	return true
}
