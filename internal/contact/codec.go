package contact

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"time"
)

// ExportFileName is the conventional name for a backup file
const ExportFileName = "family-contacts-backup.json"

// EncodeExport writes list as an indented JSON array
func EncodeExport(w io.Writer, list []Contact) error {
	if list == nil {
		list = []Contact{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(list); err != nil {
		return fmt.Errorf("encoding export: %w", err)
	}
	return nil
}

// importRecord keeps every field raw so loosely typed files can be coerced
// field by field instead of failing on the first type mismatch.
type importRecord struct {
	ID         json.RawMessage `json:"id"`
	Name       json.RawMessage `json:"name"`
	Relation   json.RawMessage `json:"relation"`
	Phones     json.RawMessage `json:"phones"`
	Status     json.RawMessage `json:"status"`
	LastCalled json.RawMessage `json:"lastCalled"`
	CallCount  json.RawMessage `json:"callCount"`
}

// DecodeImport parses an import document. The top level must be an array of
// objects. Field coercion is lenient; the id/name requirement is enforced by
// ReplaceAll so a decoded list is only accepted as a whole.
func DecodeImport(r io.Reader) ([]Contact, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading import: %w", err)
	}

	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil || items == nil {
		return nil, fmt.Errorf("%w: top level must be a JSON array", ErrInvalidImport)
	}

	list := make([]Contact, 0, len(items))
	for i, item := range items {
		if !bytes.HasPrefix(bytes.TrimSpace(item), []byte("{")) {
			return nil, fmt.Errorf("%w: item %d is not an object", ErrInvalidImport, i)
		}

		var rec importRecord
		if err := json.Unmarshal(item, &rec); err != nil {
			return nil, fmt.Errorf("%w: item %d: %v", ErrInvalidImport, i, err)
		}

		list = append(list, Contact{
			ID:         text(rec.ID),
			Name:       text(rec.Name),
			Relation:   text(rec.Relation),
			Phones:     phones(rec.Phones),
			Status:     Status(text(rec.Status)).Normalize(),
			LastCalled: timestamp(rec.LastCalled),
			CallCount:  count(rec.CallCount),
		})
	}
	return list, nil
}

func scalar(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil
	}
	return v
}

// text returns strings as-is and numbers in their decimal form
func text(raw json.RawMessage) string {
	switch v := scalar(raw).(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	default:
		return ""
	}
}

func phones(raw json.RawMessage) []string {
	out := []string{}
	items, ok := scalar(raw).([]any)
	if !ok {
		return out
	}
	for _, item := range items {
		switch v := item.(type) {
		case string:
			out = append(out, v)
		case json.Number:
			out = append(out, v.String())
		case bool:
			out = append(out, fmt.Sprint(v))
		}
	}
	return out
}

func timestamp(raw json.RawMessage) *time.Time {
	s, ok := scalar(raw).(string)
	if !ok {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil
	}
	t = t.UTC()
	return &t
}

func count(raw json.RawMessage) int {
	n, ok := scalar(raw).(json.Number)
	if !ok {
		return 0
	}
	if i, err := n.Int64(); err == nil {
		if i < 0 {
			return 0
		}
		if uint64(i) > uint64(math.MaxInt) {
			return math.MaxInt
		}
		return int(i)
	}
	f, err := n.Float64()
	if err != nil || f < 0 {
		return 0
	}
	if f >= math.MaxInt {
		return math.MaxInt
	}
	return int(f)
}
