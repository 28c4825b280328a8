package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Fields is a raw request record keyed by API field name. JSON numbers are
// kept as json.Number and form values as strings until a rule or accessor
// interprets them.
type Fields map[string]any

// FromJSON decodes a JSON object. An empty body yields an empty record.
func FromJSON(r io.Reader) (Fields, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	in := Fields{}
	if err := dec.Decode(&in); err != nil {
		if errors.Is(err, io.EOF) {
			return Fields{}, nil
		}
		return nil, fmt.Errorf("decode request body: %w", err)
	}
	return in, nil
}

// FromForm takes the first value of each form key. Empty values count as null.
func FromForm(values map[string][]string) Fields {
	in := make(Fields, len(values))
	for k, vs := range values {
		if len(vs) == 0 || vs[0] == "" {
			in[k] = nil
			continue
		}
		in[k] = vs[0]
	}
	return in
}

// Has reports whether key is present, even if null
func (f Fields) Has(key string) bool {
	_, ok := f[key]
	return ok
}

func (f Fields) String(key string) string {
	s, _ := asString(f[key])
	return s
}

// StringPtr returns nil when key is absent or null
func (f Fields) StringPtr(key string) *string {
	s, ok := asString(f[key])
	if !ok {
		return nil
	}
	return &s
}

func (f Fields) Int(key string) int {
	n, _ := asInt(f[key])
	return int(n)
}

// IntPtr returns nil when key is absent, null or not an integer
func (f Fields) IntPtr(key string) *int {
	n, ok := asInt(f[key])
	if !ok {
		return nil
	}
	v := int(n)
	return &v
}

// UintPtr returns nil when key is absent, null or not a non-negative integer
func (f Fields) UintPtr(key string) *uint {
	n, ok := asInt(f[key])
	if !ok || n < 0 {
		return nil
	}
	v := uint(n)
	return &v
}

func (f Fields) Decimal(key string) decimal.Decimal {
	d, _ := asDecimal(f[key])
	return d
}

func (f Fields) NullDecimal(key string) decimal.NullDecimal {
	d, ok := asDecimal(f[key])
	if !ok {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

// List returns key as a list of records; non-object elements are skipped.
func (f Fields) List(key string) []Fields {
	raw, _ := f[key].([]any)
	out := make([]Fields, 0, len(raw))
	for _, item := range raw {
		if m, ok := item.(map[string]any); ok {
			out = append(out, Fields(m))
		}
	}
	return out
}

// Kind tells Columns how to convert a raw value
type Kind int

const (
	KindString Kind = iota
	KindNullableString
	KindInt
	KindNullableInt
	KindNullableUint
	KindDecimal
	KindNullableDecimal
)

// Column maps an API field to a storage column
type Column struct {
	Name string
	Kind Kind
}

// Columns maps API field names to storage columns for partial updates
type Columns map[string]Column

// Extract converts every present field into column → value. Nullable kinds
// map null to nil.
func (c Columns) Extract(in Fields) map[string]any {
	out := make(map[string]any)
	for field, col := range c {
		if !in.Has(field) {
			continue
		}
		switch col.Kind {
		case KindString:
			out[col.Name] = in.String(field)
		case KindNullableString:
			if p := in.StringPtr(field); p != nil {
				out[col.Name] = *p
			} else {
				out[col.Name] = nil
			}
		case KindInt:
			out[col.Name] = in.Int(field)
		case KindNullableInt:
			if p := in.IntPtr(field); p != nil {
				out[col.Name] = *p
			} else {
				out[col.Name] = nil
			}
		case KindNullableUint:
			if p := in.UintPtr(field); p != nil {
				out[col.Name] = *p
			} else {
				out[col.Name] = nil
			}
		case KindDecimal:
			out[col.Name] = in.Decimal(field)
		case KindNullableDecimal:
			out[col.Name] = in.NullDecimal(field)
		}
	}
	return out
}

func asString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	default:
		return "", false
	}
}

func asInt(v any) (int64, bool) {
	switch t := v.(type) {
	case json.Number:
		n, err := t.Int64()
		return n, err == nil
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		return n, err == nil
	case int:
		return int64(t), true
	case int64:
		return t, true
	case uint:
		return int64(t), true
	case float64:
		if t == float64(int64(t)) {
			return int64(t), true
		}
	}
	return 0, false
}

func asDecimal(v any) (decimal.Decimal, bool) {
	s, ok := asString(v)
	if !ok {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	return d, err == nil
}
