package aggregate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/osse101/AdventureAdmin_Go/internal/domain"
)

// Field names the engine manages itself
const (
	fieldID             = "id"
	fieldUserID         = "userId"
	fieldCreatedAt      = "createdAt"
	fieldUpdatedAt      = "updatedAt"
	fieldFeatured       = "featured"
	fieldFeaturedImages = "featuredImages"
)

// Fields is a JSON object kept as raw values so merges never lose precision.
type Fields map[string]json.RawMessage

// ParseFields decodes a JSON object. Empty input yields empty Fields.
func ParseFields(data []byte) (Fields, error) {
	f := Fields{}
	if len(bytes.TrimSpace(data)) == 0 {
		return f, nil
	}
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, domain.NewValidationError("%s: expected a JSON object", domain.ErrMsgInvalidPayload)
	}
	if f == nil {
		f = Fields{}
	}
	return f, nil
}

func fieldsOf(v any) (Fields, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode item: %w", err)
	}
	return ParseFields(data)
}

// Pick returns the subset of f whose keys are listed.
func (f Fields) Pick(keys []string) Fields {
	out := make(Fields, len(keys))
	for _, k := range keys {
		if v, ok := f[k]; ok {
			out[k] = v
		}
	}
	return out
}

// Merge copies every field of patch over f.
func (f Fields) Merge(patch Fields) {
	for k, v := range patch {
		f[k] = v
	}
}

func (f Fields) Has(key string) bool {
	_, ok := f[key]
	return ok
}

// Set stores v under key.
func (f Fields) Set(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode field %s: %w", key, err)
	}
	f[key] = data
	return nil
}

// String returns the string value of key, or "" when missing or not a string.
func (f Fields) String(key string) string {
	var s string
	if raw, ok := f[key]; ok {
		_ = json.Unmarshal(raw, &s)
	}
	return s
}

// Truthy reports whether key holds a value other than null, false, 0 or "".
// Objects and arrays are truthy.
func (f Fields) Truthy(key string) bool {
	raw, ok := f[key]
	if !ok {
		return false
	}
	var v any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return false
	}
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case json.Number:
		n, err := x.Float64()
		return err == nil && n != 0
	default:
		return true
	}
}

// decodeItem materializes fields as a T, reporting type mismatches as validation errors.
func decodeItem[T Item](f Fields) (T, error) {
	var item T
	data, err := json.Marshal(f)
	if err != nil {
		return item, domain.NewValidationError(domain.ErrMsgInvalidPayload)
	}
	if err := json.Unmarshal(data, &item); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return item, domain.NewValidationError("invalid value for field %q", typeErr.Field)
		}
		return item, domain.NewValidationError("%s: %v", domain.ErrMsgInvalidPayload, err)
	}
	return item, nil
}
