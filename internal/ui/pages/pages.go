package pages

import "github.com/fanaberia/fanaberia/internal/ui/components"

// FormState carries a rejected submission back to its form: message keys per
// field (or "common") and the values to redisplay.
type FormState struct {
	Errors map[string]string
	Fields map[string]string
	Notice string // message key of a success notice
}

func (s FormState) Err(field string) string {
	return s.Errors[field]
}

func (s FormState) Value(field string) string {
	return s.Fields[field]
}

// WarpStat is one counter on the dashboard.
type WarpStat struct {
	Key   string
	Href  string
	Count int
}

func emailField(state FormState) components.Field {
	return components.Field{Name: "email", Label: "form.email", Type: "email", Value: state.Value("email"), Error: state.Err("email"), Required: true}
}

func passwordField(state FormState, name, label string) components.Field {
	return components.Field{Name: name, Label: label, Type: "password", Error: state.Err(name), Required: true}
}

func termsField(state FormState) components.Field {
	return components.Field{Name: "terms", Label: "form.terms", Type: "checkbox", Value: state.Value("terms"), Error: state.Err("terms")}
}
