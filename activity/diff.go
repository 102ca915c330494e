package activity

import (
	"bytes"
	"encoding/json"
	"fmt"

	"doceria/model"
)

// Diff compares the JSON forms of before and after and returns, for every
// key present in after, the old and new values that differ. Timestamps
// maintained by the server are ignored.
func Diff(before, after interface{}) (map[string]model.FieldChange, error) {
	oldFields, err := toFields(before)
	if err != nil {
		return nil, err
	}
	newFields, err := toFields(after)
	if err != nil {
		return nil, err
	}
	changes := make(map[string]model.FieldChange)
	for key, nv := range newFields {
		if ignoredFields[key] {
			continue
		}
		ov, ok := oldFields[key]
		if ok && bytes.Equal(ov, nv) {
			continue
		}
		changes[key] = model.FieldChange{Old: decode(ov), New: decode(nv)}
	}
	return changes, nil
}

var ignoredFields = map[string]bool{
	"createdAt":    true,
	"updatedAt":    true,
	"criadoEm":     true,
	"atualizadoEm": true,
}

func toFields(v interface{}) (map[string]json.RawMessage, error) {
	if v == nil {
		return map[string]json.RawMessage{}, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("%T is not an object: %w", v, err)
	}
	return fields, nil
}

func decode(raw json.RawMessage) interface{} {
	if raw == nil {
		return nil
	}
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return v
}
