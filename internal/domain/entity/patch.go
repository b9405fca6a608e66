package entity

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Patch is a partial update as received from a client. A key that is present
// with a JSON null is a provided value; an absent key is left untouched.
type Patch map[string]json.RawMessage

// Has reports whether key was provided.
func (p Patch) Has(key string) bool {
	_, ok := p[key]
	return ok
}

// PatchField maps one JSON key onto a column.
type PatchField struct {
	Column string
	Decode func(raw json.RawMessage) (interface{}, error)
}

// PatchSchema describes the JSON keys that map onto typed columns.
type PatchSchema map[string]PatchField

// FieldError reports a provided key whose value could not be decoded.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// Split decodes the keys known to the schema into column updates and returns
// every other key (minus reserved ones) as raw extras.
func (s PatchSchema) Split(p Patch, reserved ...string) (map[string]interface{}, map[string]interface{}, error) {
	skip := make(map[string]struct{}, len(reserved))
	for _, key := range reserved {
		skip[key] = struct{}{}
	}

	columns := make(map[string]interface{})
	extras := make(map[string]interface{})
	for key, raw := range p {
		if _, ok := skip[key]; ok {
			continue
		}
		if field, ok := s[key]; ok {
			value, err := field.Decode(raw)
			if err != nil {
				return nil, nil, &FieldError{Field: key, Err: err}
			}
			columns[field.Column] = value
			continue
		}

		var value interface{}
		if err := json.Unmarshal(raw, &value); err != nil {
			return nil, nil, &FieldError{Field: key, Err: err}
		}
		extras[key] = value
	}
	return columns, extras, nil
}

func isNull(raw json.RawMessage) bool {
	return len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// StringField decodes into a plain string column. Numbers and booleans keep
// their literal text and null becomes the empty string.
func StringField(column string) PatchField {
	return PatchField{Column: column, Decode: func(raw json.RawMessage) (interface{}, error) {
		return decodeText(raw)
	}}
}

// NullableStringField decodes into a nullable string column.
func NullableStringField(column string) PatchField {
	return PatchField{Column: column, Decode: func(raw json.RawMessage) (interface{}, error) {
		if isNull(raw) {
			return (*string)(nil), nil
		}
		s, err := decodeText(raw)
		if err != nil {
			return nil, err
		}
		return &s, nil
	}}
}

func decodeText(raw json.RawMessage) (string, error) {
	if isNull(raw) {
		return "", nil
	}

	var value interface{}
	if err := json.Unmarshal(raw, &value); err != nil {
		return "", err
	}
	switch v := value.(type) {
	case string:
		return v, nil
	case float64, bool:
		return string(bytes.TrimSpace(raw)), nil
	default:
		return "", errors.New("must be a string")
	}
}

// StringListField decodes a JSON array of strings into a JSON column.
func StringListField(column string) PatchField {
	return PatchField{Column: column, Decode: func(raw json.RawMessage) (interface{}, error) {
		if isNull(raw) {
			return datatypes.JSONSlice[string](nil), nil
		}
		var list []string
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, errors.New("must be a list of strings")
		}
		return datatypes.JSONSlice[string](list), nil
	}}
}

// DecimalField decodes a number, or a numeric string, into a decimal column.
func DecimalField(column string) PatchField {
	return PatchField{Column: column, Decode: func(raw json.RawMessage) (interface{}, error) {
		if isNull(raw) {
			return decimal.NullDecimal{}, nil
		}

		var value interface{}
		if err := json.Unmarshal(raw, &value); err != nil {
			return nil, err
		}

		var text string
		switch v := value.(type) {
		case float64:
			text = strconv.FormatFloat(v, 'f', -1, 64)
		case string:
			if v == "" {
				return decimal.NullDecimal{}, nil
			}
			text = v
		default:
			return nil, errors.New("must be a number")
		}

		d, err := decimal.NewFromString(text)
		if err != nil {
			return nil, errors.New("must be a number")
		}
		return decimal.NewNullDecimal(d), nil
	}}
}
