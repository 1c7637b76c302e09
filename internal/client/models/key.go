package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Key identifies a record. Parent is empty for top-level resources and holds
// the owning vendor id for vendor-material offers.
type Key struct {
	Parent string
	ID     string
}

// ID builds a Key for a top-level record.
func ID(id string) Key {
	return Key{ID: id}
}

func (k Key) IsZero() bool {
	return k.Parent == "" && k.ID == ""
}

func (k Key) String() string {
	if k.Parent == "" {
		return k.ID
	}
	return k.Parent + "/" + k.ID
}

// Ref points at another record. The backend sends either the id string or the
// populated object; both decode into Ref.
type Ref struct {
	ID   string `json:"_id"`
	Name string `json:"name,omitempty"`
}

func (r *Ref) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*r = Ref{}
		return nil
	case len(b) > 0 && b[0] == '"':
		var id string
		if err := json.Unmarshal(b, &id); err != nil {
			return err
		}
		*r = Ref{ID: id}
		return nil
	case len(b) > 0 && b[0] == '{':
		var obj struct {
			ID   string `json:"_id"`
			Name string `json:"name"`
		}
		if err := json.Unmarshal(b, &obj); err != nil {
			return err
		}
		*r = Ref{ID: obj.ID, Name: obj.Name}
		return nil
	default:
		return fmt.Errorf("invalid reference %s", string(b))
	}
}

// MarshalJSON writes the bare id when no name is known.
func (r Ref) MarshalJSON() ([]byte, error) {
	if r.Name == "" {
		return json.Marshal(r.ID)
	}
	type plain Ref
	return json.Marshal(plain(r))
}

// Label is the name when populated, the id otherwise.
func (r Ref) Label() string {
	if r.Name != "" {
		return r.Name
	}
	return r.ID
}
