package core

import (
	"bytes"
	"encoding/json"
	"sort"
)

// Agent represents one entry in the public agent directory. Records are
// open-ended: besides the fields the directory itself cares about, a
// submission may carry arbitrary extra fields, which are preserved verbatim
// through every load/save cycle.
type Agent struct {
	ID       string
	Name     string
	Approved bool

	// Extra holds every field that is not id/name/approved, plus any of
	// those three whose value had an unexpected JSON type.
	Extra map[string]json.RawMessage

	// order remembers the authored key order so a rewrite of the store
	// keeps each record's fields where its author put them.
	order []string

	// raw is set instead of the fields above when a store element is not a
	// JSON object at all; such elements are carried through rewrites
	// untouched but are never approved and never match a lookup.
	raw json.RawMessage

	hasID       bool
	hasName     bool
	hasApproved bool
}

// SetID assigns a server-side identifier, overriding any client value.
func (a *Agent) SetID(id string) {
	a.ID = id
	a.hasID = true
	delete(a.Extra, "id")
}

// SetApproved forces the approval flag, overriding any client value.
func (a *Agent) SetApproved(approved bool) {
	a.Approved = approved
	a.hasApproved = true
	delete(a.Extra, "approved")
}

func (a *Agent) UnmarshalJSON(data []byte) error {
	*a = Agent{}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		// Not an object. Keep the element verbatim so a later rewrite of
		// the store does not drop it.
		var v any
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		a.raw = append(json.RawMessage(nil), data...)
		return nil
	}
	if fields == nil {
		// The element is the literal "null".
		a.raw = append(json.RawMessage(nil), data...)
		return nil
	}

	a.order = objectKeyOrder(data, len(fields))

	a.Extra = make(map[string]json.RawMessage, len(fields))
	for key, value := range fields {
		// A null value stays opaque; unmarshalling it into a string or
		// bool is a silent no-op and would rewrite null on the way out.
		switch {
		case string(value) == "null":
		case key == "id":
			if json.Unmarshal(value, &a.ID) == nil {
				a.hasID = true
				continue
			}
		case key == "name":
			if json.Unmarshal(value, &a.Name) == nil {
				a.hasName = true
				continue
			}
		case key == "approved":
			if json.Unmarshal(value, &a.Approved) == nil {
				a.hasApproved = true
				continue
			}
		}
		a.Extra[key] = value
	}
	if len(a.Extra) == 0 {
		a.Extra = nil
	}
	return nil
}

func (a Agent) MarshalJSON() ([]byte, error) {
	if a.raw != nil {
		return a.raw, nil
	}

	keys := make([]string, 0, len(a.order)+3)
	seen := make(map[string]bool, len(a.order)+3)
	add := func(key string) {
		if !seen[key] && a.hasField(key) {
			seen[key] = true
			keys = append(keys, key)
		}
	}
	for _, key := range a.order {
		add(key)
	}
	// Fields assigned after parsing (server id, forced approval) go last.
	add("id")
	add("name")
	add("approved")
	// Extras that never went through UnmarshalJSON, in a stable order.
	rest := make([]string, 0, len(a.Extra))
	for key := range a.Extra {
		if !seen[key] {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	for _, key := range rest {
		add(key)
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, _ := json.Marshal(key)
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(a.fieldValue(key))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (a Agent) hasField(key string) bool {
	switch key {
	case "id":
		if a.hasID {
			return true
		}
	case "name":
		if a.hasName {
			return true
		}
	case "approved":
		if a.hasApproved {
			return true
		}
	}
	_, exists := a.Extra[key]
	return exists
}

func (a Agent) fieldValue(key string) json.RawMessage {
	switch key {
	case "id":
		if a.hasID {
			value, _ := json.Marshal(a.ID)
			return value
		}
	case "name":
		if a.hasName {
			value, _ := json.Marshal(a.Name)
			return value
		}
	case "approved":
		if a.hasApproved {
			value, _ := json.Marshal(a.Approved)
			return value
		}
	}
	return a.Extra[key]
}

// objectKeyOrder lists an object's keys as authored; the first occurrence
// wins for duplicates. data must already have parsed as a JSON object.
func objectKeyOrder(data []byte, size int) []string {
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil {
		return nil
	}

	keys := make([]string, 0, size)
	seen := make(map[string]bool, size)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return keys
		}
		key, ok := tok.(string)
		if !ok {
			return keys
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return keys
		}
		if !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
	}
	return keys
}
