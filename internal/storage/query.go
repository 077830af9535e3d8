package storage

import (
	"tourneybot/entity"
)

// Pending returns copies of all pending registrations, oldest first.
func (s *Store) Pending() []entity.Registration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.PendingList()
}

// PendingFor returns the pending registrations of one user, in track order.
func (s *Store) PendingFor(userID int64) []entity.Registration {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var list []entity.Registration
	for _, t := range entity.AllTracks() {
		if r, ok := s.state.Pending[entity.PendingKey(userID, t)]; ok {
			list = append(list, *r)
		}
	}
	return list
}

// FindPending looks pending registrations up by username, ignoring case and a leading @.
func (s *Store) FindPending(username string) []entity.Registration {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var list []entity.Registration
	for _, r := range s.state.Pending {
		if entity.SameUsername(r.Username, username) {
			list = append(list, *r)
		}
	}
	entity.SortRegistrations(list)
	return list
}

// Confirmed returns copies of the confirmed players per track, in registration order.
func (s *Store) Confirmed() map[entity.Track][]entity.Player {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.PlayerLists()
}

// ConfirmedPlayer returns one confirmed entry.
func (s *Store) ConfirmedPlayer(track entity.Track, username string) (entity.Player, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.state.Players[track][entity.NormalizeUsername(username)]
	if !ok {
		return entity.Player{}, false
	}
	return *p, true
}

// Statistics is computed from the current state on every call.
func (s *Store) Statistics() entity.Statistics {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Statistics()
}

// Snapshot returns a deep copy of the whole document, as it was last persisted.
func (s *Store) Snapshot() *entity.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}
