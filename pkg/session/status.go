package session

// Status tracks how a record was mutated during the current request.
// It selects the write-back branch when the record is finalized.
type Status uint8

const (
	// StatusUnchanged is the state of a record loaded from the store and only read.
	StatusUnchanged Status = iota
	// StatusChanged means the data must be rewritten.
	StatusChanged
	// StatusCleared means the data was wiped and the stored record must be removed.
	StatusCleared
	// StatusDestroyed means the session was ended and the stored record must be removed.
	StatusDestroyed
	// StatusExpiredTouch means only the TTL is refreshed. Set by the engine.
	StatusExpiredTouch
)

func (s Status) String() string {
	switch s {
	case StatusUnchanged:
		return "unchanged"
	case StatusChanged:
		return "changed"
	case StatusCleared:
		return "cleared"
	case StatusDestroyed:
		return "destroyed"
	case StatusExpiredTouch:
		return "expired_touch"
	default:
		return "unknown"
	}
}

// Dirty reports whether the status requires a store write other than a TTL refresh.
func (s Status) Dirty() bool {
	return s == StatusChanged || s == StatusCleared || s == StatusDestroyed
}
