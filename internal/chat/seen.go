package chat

// seenRing remembers the most recently seen message ids with a fixed
// capacity, so long-lived rooms do not grow a dedup set without bound.
// When full, adding a new id forgets the oldest one.
type seenRing struct {
	ids []string
	pos int
	set map[string]struct{}
}

func newSeenRing(capacity int) *seenRing {
	if capacity < 1 {
		capacity = 1
	}
	return &seenRing{
		ids: make([]string, capacity),
		set: make(map[string]struct{}, capacity),
	}
}

func (r *seenRing) Has(id string) bool {
	_, ok := r.set[id]
	return ok
}

// Add records an id, evicting the oldest when at capacity. Adding an id
// that is already present is a no-op.
func (r *seenRing) Add(id string) {
	if id == "" || r.Has(id) {
		return
	}
	if old := r.ids[r.pos]; old != "" {
		delete(r.set, old)
	}
	r.ids[r.pos] = id
	r.set[id] = struct{}{}
	r.pos = (r.pos + 1) % len(r.ids)
}
