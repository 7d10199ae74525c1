package activity

import "sync"

// Store holds the last published snapshot and fans it out to
// subscribers. It owns no classification state: publishing replaces the
// snapshot wholesale, and the previous copy is only kept for change
// detection.
type Store struct {
	mu   sync.Mutex
	last Snapshot
	has  bool
	subs map[chan Snapshot]struct{}
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{subs: make(map[chan Snapshot]struct{})}
}

// Subscribe registers a consumer. The returned channel receives every
// published snapshot, starting with the current one if any exists.
// Slow consumers miss intermediate snapshots instead of blocking the
// publisher.
func (s *Store) Subscribe() <-chan Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan Snapshot, 1)
	if s.has {
		ch <- s.last
	}
	s.subs[ch] = struct{}{}
	return ch
}

// Unsubscribe removes and closes a subscription channel.
func (s *Store) Unsubscribe(ch <-chan Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for sub := range s.subs {
		if sub == ch {
			delete(s.subs, sub)
			close(sub)
			return
		}
	}
}

// Publish replaces the snapshot and notifies subscribers. Identical
// consecutive snapshots are dropped; the diff is change detection only.
func (s *Store) Publish(snap Snapshot) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.has && equal(s.last, snap) {
		return false
	}
	s.last = snap
	s.has = true
	for sub := range s.subs {
		select {
		case sub <- snap:
		default:
			// Replace the stale pending snapshot with the current one.
			select {
			case <-sub:
			default:
			}
			select {
			case sub <- snap:
			default:
			}
		}
	}
	return true
}

// Latest returns the last published snapshot.
func (s *Store) Latest() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// equal compares snapshots ignoring the generation timestamp, so an
// unchanged world does not wake subscribers every tick.
func equal(a, b Snapshot) bool {
	if len(a.Activities) != len(b.Activities) {
		return false
	}
	for i := range a.Activities {
		x, y := a.Activities[i], b.Activities[i]
		if x.ID != y.ID || x.Classification != y.Classification ||
			x.Confidence != y.Confidence || x.Pilots != y.Pilots ||
			x.TotalValue != y.TotalValue || !x.LastKill.Equal(y.LastKill) ||
			len(x.KillIDs) != len(y.KillIDs) {
			return false
		}
		for j := range x.KillIDs {
			if x.KillIDs[j] != y.KillIDs[j] {
				return false
			}
		}
	}
	return true
}
