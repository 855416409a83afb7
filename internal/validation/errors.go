package validation

import (
	"sort"
	"strings"
)

// Errors maps a form field to the message key of its first failed rule.
type Errors map[string]string

func (e Errors) Add(field string, err error) {
	if err == nil {
		return
	}
	if _, exists := e[field]; exists {
		return
	}
	e[field] = err.Error()
}

func (e Errors) Any() bool {
	return len(e) > 0
}

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for field, key := range e {
		fields = append(fields, field+": "+key)
	}
	sort.Strings(fields)
	return "validation failed: " + strings.Join(fields, ", ")
}

// Err returns nil when no rule failed, so callers can use the usual err != nil check.
func (e Errors) Err() error {
	if e.Any() {
		return e
	}
	return nil
}
