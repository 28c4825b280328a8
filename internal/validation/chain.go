// Package validation implements ordered field rule chains over raw request
// records. A chain reports the first rule its field fails; a Schema runs
// every chain so all failing fields are reported together.
package validation

import (
	"encoding/json"
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"shop-service/pkg/apperr"
)

var validate = validator.New()

// Mode selects the create or update variant of a schema
type Mode int

const (
	Create Mode = iota
	Update
)

type rule struct {
	message string
	ok      func(v any, in Fields) bool
}

// Chain is the ordered rule list of one field
type Chain struct {
	field       string
	required    bool
	requiredMsg string
	nullable    bool
	rules       []rule
}

// Field starts a chain for name. Without Required the field may be absent.
func Field(name string) *Chain {
	return &Chain{field: name}
}

// field starts a chain that is required on create and optional on update.
func field(mode Mode, name, requiredMsg string) *Chain {
	c := Field(name)
	if mode == Create {
		c.Required(requiredMsg)
	}
	return c
}

// Required rejects missing, null, "", 0 and false.
func (c *Chain) Required(msg string) *Chain {
	c.required = true
	c.requiredMsg = msg
	return c
}

// Nullable lets an explicit null skip the remaining rules.
func (c *Chain) Nullable() *Chain {
	c.nullable = true
	return c
}

// Rule appends a custom predicate.
func (c *Chain) Rule(msg string, ok func(v any, in Fields) bool) *Chain {
	c.rules = append(c.rules, rule{message: msg, ok: ok})
	return c
}

func (c *Chain) String(msg string) *Chain {
	return c.Rule(msg, func(v any, _ Fields) bool {
		_, ok := v.(string)
		return ok
	})
}

func (c *Chain) Int(msg string) *Chain {
	return c.Rule(msg, func(v any, _ Fields) bool {
		_, ok := asInt(v)
		return ok
	})
}

// Min requires an integer value of at least n.
func (c *Chain) Min(n int64, msg string) *Chain {
	return c.Rule(msg, func(v any, _ Fields) bool {
		i, ok := asInt(v)
		return ok && i >= n
	})
}

func (c *Chain) Email(msg string) *Chain {
	return c.Rule(msg, func(v any, _ Fields) bool {
		s, ok := asString(v)
		return ok && validate.Var(s, "required,email") == nil
	})
}

// MinLen counts characters, not bytes.
func (c *Chain) MinLen(n int, msg string) *Chain {
	return c.Rule(msg, func(v any, _ Fields) bool {
		s, ok := asString(v)
		return ok && utf8.RuneCountInString(s) >= n
	})
}

func (c *Chain) Length(min, max int, msg string) *Chain {
	return c.Rule(msg, func(v any, _ Fields) bool {
		s, ok := asString(v)
		n := utf8.RuneCountInString(s)
		return ok && n >= min && n <= max
	})
}

func (c *Chain) Matches(re *regexp.Regexp, msg string) *Chain {
	return c.Rule(msg, func(v any, _ Fields) bool {
		s, ok := asString(v)
		return ok && re.MatchString(s)
	})
}

// OneOf is case-sensitive membership in a closed set.
func (c *Chain) OneOf(values []string, msg string) *Chain {
	return c.Rule(msg, func(v any, _ Fields) bool {
		s, ok := v.(string)
		if !ok {
			return false
		}
		for _, allowed := range values {
			if s == allowed {
				return true
			}
		}
		return false
	})
}

// Decimal accepts an integer or a number with exactly places fractional digits.
func (c *Chain) Decimal(places int, msg string) *Chain {
	re := regexp.MustCompile(fmt.Sprintf(`^[-+]?\d+(\.\d{%d})?$`, places))
	return c.Matches(re, msg)
}

// Equals compares the raw value with the raw value of other.
func (c *Chain) Equals(other, msg string) *Chain {
	return c.Rule(msg, func(v any, in Fields) bool {
		a, okA := asString(v)
		b, okB := asString(in[other])
		return okA && okB && a == b
	})
}

// Validate returns the first violation of the chain, if any.
func (c *Chain) Validate(in Fields) (apperr.Violation, bool) {
	v, present := in[c.field]
	if !present || v == nil {
		if c.required {
			return c.violation(c.requiredMsg), false
		}
		if !present || c.nullable {
			return apperr.Violation{}, true
		}
	}
	if c.required && falsy(v) {
		return c.violation(c.requiredMsg), false
	}
	for _, r := range c.rules {
		if !r.ok(v, in) {
			return c.violation(r.message), false
		}
	}
	return apperr.Violation{}, true
}

func (c *Chain) violation(msg string) apperr.Violation {
	return apperr.Violation{Field: c.field, Message: msg}
}

func falsy(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case bool:
		return !t
	case json.Number:
		f, err := t.Float64()
		return err == nil && f == 0
	case int:
		return t == 0
	case int64:
		return t == 0
	case float64:
		return t == 0
	}
	return false
}

// Schema is the ordered chain list of one entity operation
type Schema []*Chain

// Validate runs every chain and collects one violation per failing field.
func (s Schema) Validate(in Fields) []apperr.Violation {
	var out []apperr.Violation
	for _, c := range s {
		if v, ok := c.Validate(in); !ok {
			out = append(out, v)
		}
	}
	return out
}

// Check returns a validation error carrying every violation, or nil.
func (s Schema) Check(in Fields) error {
	return Check(s.Validate(in))
}

// Check wraps a non-empty violation list in a validation error.
func Check(violations []apperr.Violation) error {
	if len(violations) == 0 {
		return nil
	}
	return apperr.ValidationFailed(violations)
}
