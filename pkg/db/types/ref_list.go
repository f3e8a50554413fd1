package dbtypes

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Ref is a denormalized back-reference entry, stored as {"id": "..."}.
type Ref struct {
	ID uuid.UUID `json:"id"`
}

// RefList is a JSONB array of Ref entries. Merchant profiles carry one per
// owned store and product so list lookups avoid a join.
type RefList []Ref

func (l *RefList) Scan(src any) error {
	if src == nil {
		*l = RefList{}
		return nil
	}

	switch v := src.(type) {
	case []byte:
		return l.parseJSON(v)
	case string:
		return l.parseJSON([]byte(v))
	default:
		return fmt.Errorf("RefList: unsupported Scan type %T", src)
	}
}

func (l RefList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	raw, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("RefList: marshal: %w", err)
	}
	return string(raw), nil
}

// Append returns a copy of the list with id appended, skipping duplicates.
func (l RefList) Append(id uuid.UUID) RefList {
	if l.Contains(id) {
		return l
	}
	out := make(RefList, len(l), len(l)+1)
	copy(out, l)
	return append(out, Ref{ID: id})
}

// Contains reports whether id is present in the list.
func (l RefList) Contains(id uuid.UUID) bool {
	for _, ref := range l {
		if ref.ID == id {
			return true
		}
	}
	return false
}

// Remove returns a copy of the list without id.
func (l RefList) Remove(id uuid.UUID) RefList {
	out := make(RefList, 0, len(l))
	for _, ref := range l {
		if ref.ID != id {
			out = append(out, ref)
		}
	}
	return out
}

func (l *RefList) parseJSON(raw []byte) error {
	if len(raw) == 0 {
		*l = RefList{}
		return nil
	}
	var out []Ref
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("RefList: parse: %w", err)
	}
	*l = RefList(out)
	return nil
}
