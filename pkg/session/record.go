package session

import (
	"encoding/json"
	"errors"
	"maps"
	"slices"
)

// Values is the persisted form of a session: keys mapped to JSON-encoded values.
type Values map[string]string

// Record is the session bag for a single request.
// It is owned by that request and is not safe for concurrent use.
type Record struct {
	id     string
	data   Values
	status Status
}

// newRecord builds a record that takes ownership of data.
func newRecord(id string, data Values, status Status) *Record {
	if data == nil {
		data = make(Values)
	}
	return &Record{id: id, data: data, status: status}
}

// ID returns the session identifier.
func (r *Record) ID() string {
	if r == nil {
		return ""
	}
	return r.id
}

// Status returns the current mutation status.
func (r *Record) Status() Status {
	if r == nil {
		return StatusUnchanged
	}
	return r.status
}

// Len returns the number of stored keys.
func (r *Record) Len() int {
	if r == nil {
		return 0
	}
	return len(r.data)
}

// Keys returns the stored keys in sorted order.
func (r *Record) Keys() []string {
	if r == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(r.data))
}

// Has reports whether a value is stored under key.
func (r *Record) Has(key string) bool {
	if r == nil {
		return false
	}
	_, ok := r.data[key]
	return ok
}

// Get decodes the value stored under key into dst.
// Reading never changes the status.
func (r *Record) Get(key string, dst any) error {
	if r == nil {
		return ErrKeyNotFound
	}
	raw, ok := r.data[key]
	if !ok {
		return ErrKeyNotFound
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return errors.Join(ErrSerialization, err)
	}
	return nil
}

// GetString returns the string stored under key.
func (r *Record) GetString(key string) (string, bool) {
	var s string
	if err := r.Get(key, &s); err != nil {
		return "", false
	}
	return s, true
}

// GetInt returns the integer stored under key.
func (r *Record) GetInt(key string) (int, bool) {
	var n int
	if err := r.Get(key, &n); err != nil {
		return 0, false
	}
	return n, true
}

// GetBool returns the boolean stored under key.
func (r *Record) GetBool(key string) (bool, bool) {
	var b bool
	if err := r.Get(key, &b); err != nil {
		return false, false
	}
	return b, true
}

// Set encodes value as JSON and stores it under key.
// On failure the record is left untouched.
func (r *Record) Set(key string, value any) error {
	if r == nil {
		return ErrNoSession
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return errors.Join(ErrSerialization, err)
	}
	r.data[key] = string(raw)
	r.status = StatusChanged
	return nil
}

// Remove deletes the value stored under key.
func (r *Record) Remove(key string) {
	if r == nil {
		return
	}
	delete(r.data, key)
	r.status = StatusChanged
}

// Clear wipes all data. The stored record is removed on finalize.
func (r *Record) Clear() {
	if r == nil {
		return
	}
	clear(r.data)
	r.status = StatusCleared
}

// Destroy ends the session. The stored record is removed on finalize.
// A later Set or Remove in the same request revives it as changed.
func (r *Record) Destroy() {
	if r == nil {
		return
	}
	clear(r.data)
	r.status = StatusDestroyed
}

// snapshot returns a copy of the data safe to hand to a store.
func (r *Record) snapshot() Values {
	return maps.Clone(r.data)
}

// touch marks a read-only record for a TTL-only refresh.
func (r *Record) touch() {
	if r.status == StatusUnchanged {
		r.status = StatusExpiredTouch
	}
}
