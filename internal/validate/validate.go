// Package validate holds the constraint primitives used to check tool
// arguments before a document is touched.
package validate

import (
	"fmt"
	"slices"
	"strings"
)

// Rule is a predicate over a parameter value and the message reported when
// it does not hold.
type Rule struct {
	Check   func(v any) bool
	Message string
}

// Param names a value and the rules it must satisfy, in order.
type Param struct {
	Name  string
	Value any
	Rules []Rule
}

// P builds a Param.
func P(name string, value any, rules ...Rule) Param {
	return Param{Name: name, Value: value, Rules: rules}
}

// FieldError reports the first failing rule.
type FieldError struct {
	Param   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("Parameter '%s': %s", e.Param, e.Message)
}

// Check evaluates params in declaration order and stops at the first failure.
// A nil value, or a nil pointer, is an omitted optional and skips its rules.
func Check(params ...Param) error {
	for _, p := range params {
		v, ok := deref(p.Value)
		if !ok {
			continue
		}
		for _, r := range p.Rules {
			if !r.Check(v) {
				return &FieldError{Param: p.Name, Message: r.Message}
			}
		}
	}
	return nil
}

func deref(v any) (any, bool) {
	switch x := v.(type) {
	case nil:
		return nil, false
	case *int:
		if x == nil {
			return nil, false
		}
		return *x, true
	case *float64:
		if x == nil {
			return nil, false
		}
		return *x, true
	case *string:
		if x == nil {
			return nil, false
		}
		return *x, true
	case *[]int:
		if x == nil {
			return nil, false
		}
		return *x, true
	}
	return v, true
}

func number(v any) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case float64:
		return x, true
	case float32:
		return float64(x), true
	}
	return 0, false
}

// Positive holds for numbers > 0.
func Positive(msg string) Rule {
	return Rule{Message: msg, Check: func(v any) bool {
		n, ok := number(v)
		return ok && n > 0
	}}
}

// NonNegative holds for numbers >= 0.
func NonNegative(msg string) Rule {
	return Rule{Message: msg, Check: func(v any) bool {
		n, ok := number(v)
		return ok && n >= 0
	}}
}

// InRange holds for numbers in [lo, hi].
func InRange(lo, hi float64, msg string) Rule {
	return Rule{Message: msg, Check: func(v any) bool {
		n, ok := number(v)
		return ok && n >= lo && n <= hi
	}}
}

// InList holds when the string value, lower-cased, is one of allowed.
// The default message lists the allowed values.
func InList(allowed []string, msg string) Rule {
	if msg == "" {
		msg = "must be one of " + strings.Join(allowed, ", ")
	}
	return Rule{Message: msg, Check: func(v any) bool {
		s, ok := v.(string)
		return ok && slices.Contains(allowed, strings.ToLower(s))
	}}
}

// RGBMessage is the message used for malformed colour triples.
const RGBMessage = "must be a valid RGB list [R, G, B] with values 0-255"

// ValidRGB holds for exactly three integers, each in [0, 255].
func ValidRGB() Rule {
	return Rule{Message: RGBMessage, Check: func(v any) bool {
		return IsRGB(v)
	}}
}

// IsRGB reports whether v is a colour triple.
func IsRGB(v any) bool {
	var parts []float64
	switch x := v.(type) {
	case []int:
		for _, c := range x {
			parts = append(parts, float64(c))
		}
	case []float64:
		parts = x
	case []any:
		for _, c := range x {
			n, ok := number(c)
			if !ok {
				return false
			}
			parts = append(parts, n)
		}
	default:
		return false
	}
	if len(parts) != 3 {
		return false
	}
	for _, c := range parts {
		if c != float64(int(c)) || c < 0 || c > 255 {
			return false
		}
	}
	return true
}
