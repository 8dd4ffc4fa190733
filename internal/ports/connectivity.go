package ports

// Connectivity is the platform online/offline signal consumed by the
// offline queue and the session lifecycle.
type Connectivity interface {
	// Online reports the last observed connectivity state.
	Online() bool

	// Subscribe registers a callback fired on every state transition.
	// Callbacks run on the monitor's goroutine and must not block.
	Subscribe(fn func(online bool))
}
