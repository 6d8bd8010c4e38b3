// internal/app/system/inputval/inputval.go
//
// Package inputval validates caller input before it reaches the entity
// store. Validators collect human-readable messages in a Result instead of
// stopping at the first problem.
//
// Struct fields are checked from their `validate` tag, a comma-separated
// rule list, and named in messages by their `label` tag:
//
//	Name string `validate:"required,min=3,max=100" label:"Project name"`
//
// Supported rules: required, min=N, max=N (character counts), email, date
// (YYYY-MM-DD), and oneof=a b c. Rules other than required are skipped for
// empty values.
package inputval

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/dalemusser/planboard/internal/app/system/dates"
	"github.com/dalemusser/waffle/pantry/validate"
)

// FieldError is one validation failure.
type FieldError struct {
	Field   string
	Message string
}

// Result collects validation failures.
type Result struct {
	Errors []FieldError
}

// Add records a failure for field.
func (r *Result) Add(field, message string) {
	r.Errors = append(r.Errors, FieldError{Field: field, Message: message})
}

// Merge appends the failures of other.
func (r *Result) Merge(other *Result) {
	if other != nil {
		r.Errors = append(r.Errors, other.Errors...)
	}
}

// HasErrors reports whether any rule failed.
func (r *Result) HasErrors() bool { return r != nil && len(r.Errors) > 0 }

// First returns the first message, or "".
func (r *Result) First() string {
	if !r.HasErrors() {
		return ""
	}
	return r.Errors[0].Message
}

// All joins every message with "; ".
func (r *Result) All() string {
	if !r.HasErrors() {
		return ""
	}
	msgs := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		msgs[i] = e.Message
	}
	return strings.Join(msgs, "; ")
}

// Messages returns every message in order.
func (r *Result) Messages() []string {
	if !r.HasErrors() {
		return nil
	}
	out := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		out[i] = e.Message
	}
	return out
}

// Error makes a failed Result usable as an error.
func (r *Result) Error() string { return r.All() }

// Err returns r as an error, or nil when nothing failed.
func (r *Result) Err() error {
	if !r.HasErrors() {
		return nil
	}
	return r
}

// IsValidEmail reports whether s looks like a deliverable address: one @,
// no whitespace, no empty or dotted-edge labels.
func IsValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, " \t\r\n<>") {
		return false
	}
	local, domain, ok := strings.Cut(s, "@")
	if !ok || local == "" || domain == "" || strings.Contains(domain, "@") {
		return false
	}
	for _, part := range []string{local, domain} {
		if strings.HasPrefix(part, ".") || strings.HasSuffix(part, ".") || strings.Contains(part, "..") {
			return false
		}
	}
	return validate.SimpleEmailValid(s)
}

// Validate checks every tagged string field of the struct v (or pointer to one).
func Validate(v any) *Result {
	res := &Result{}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return res
	}
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		rules := f.Tag.Get("validate")
		if rules == "" || !f.IsExported() {
			continue
		}
		label := f.Tag.Get("label")
		if label == "" {
			label = f.Name
		}
		checkField(res, f.Name, label, rv.Field(i), rules)
	}
	return res
}

func checkField(res *Result, field, label string, v reflect.Value, rules string) {
	var s string
	switch v.Kind() {
	case reflect.String:
		s = strings.TrimSpace(v.String())
	case reflect.Slice:
		if strings.Contains(rules, "required") && v.Len() == 0 {
			res.Add(field, fmt.Sprintf("At least one %s is required.", strings.ToLower(label)))
		}
		return
	default:
		return
	}

	for _, rule := range strings.Split(rules, ",") {
		name, arg, _ := strings.Cut(strings.TrimSpace(rule), "=")
		if name != "required" && s == "" {
			continue
		}
		switch name {
		case "required":
			if s == "" {
				res.Add(field, label+" is required.")
				return
			}
		case "min":
			if n, err := strconv.Atoi(arg); err == nil && utf8.RuneCountInString(s) < n {
				res.Add(field, fmt.Sprintf("%s must be at least %d characters.", label, n))
			}
		case "max":
			if n, err := strconv.Atoi(arg); err == nil && utf8.RuneCountInString(s) > n {
				res.Add(field, fmt.Sprintf("%s must be at most %d characters.", label, n))
			}
		case "email":
			if !IsValidEmail(s) {
				res.Add(field, "A valid "+strings.ToLower(label)+" is required.")
			}
		case "date":
			if _, ok := dates.Parse(s, nil); !ok {
				res.Add(field, label+" must be a date in YYYY-MM-DD form.")
			}
		case "oneof":
			allowed := strings.Fields(arg)
			if !contains(allowed, strings.ToLower(s)) {
				res.Add(field, fmt.Sprintf("%s must be one of: %s.", label, strings.Join(allowed, ", ")))
			}
		}
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
