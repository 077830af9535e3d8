package entity

import (
	"sort"
	"time"
)

// Counters are lifetime aggregates; they survive expiry and rejection but not ClearAll.
type Counters struct {
	TotalRegistrations     int        `json:"total_registrations" bson:"total_registrations"`
	ConfirmedRegistrations int        `json:"confirmed_registrations" bson:"confirmed_registrations"`
	LastRegistration       *time.Time `json:"last_registration_time,omitempty" bson:"last_registration_time,omitempty"`
}

// Snapshot is the whole persisted state as a single document.
//
//	players: track → normalized username → Player
//	pending: PendingKey → Registration
type Snapshot struct {
	Players   map[Track]map[string]*Player `json:"players" bson:"players"`
	Pending   map[string]*Registration     `json:"pending" bson:"pending"`
	Counters  Counters                     `json:"stats" bson:"stats"`
	CreatedAt time.Time                    `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time                    `json:"last_updated" bson:"last_updated"`
}

func NewSnapshot(now time.Time) *Snapshot {
	s := &Snapshot{
		Pending:   make(map[string]*Registration),
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.Normalize()
	return s
}

// Normalize fills maps that a decoder may leave nil, so a loaded document
// always has one player map per track.
func (s *Snapshot) Normalize() {
	if s.Players == nil {
		s.Players = make(map[Track]map[string]*Player, len(allTracks))
	}
	for _, t := range allTracks {
		if s.Players[t] == nil {
			s.Players[t] = make(map[string]*Player)
		}
	}
	if s.Pending == nil {
		s.Pending = make(map[string]*Registration)
	}
}

// Clone returns a deep copy; callers of the store only ever see clones.
func (s *Snapshot) Clone() *Snapshot {
	c := &Snapshot{
		Players:   make(map[Track]map[string]*Player, len(s.Players)),
		Pending:   make(map[string]*Registration, len(s.Pending)),
		Counters:  s.Counters,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
	if s.Counters.LastRegistration != nil {
		last := *s.Counters.LastRegistration
		c.Counters.LastRegistration = &last
	}
	for track, players := range s.Players {
		m := make(map[string]*Player, len(players))
		for k, p := range players {
			cp := *p
			m[k] = &cp
		}
		c.Players[track] = m
	}
	for k, r := range s.Pending {
		cp := *r
		c.Pending[k] = &cp
	}
	c.Normalize()
	return c
}

// PendingList returns copies of the pending registrations, oldest first.
func (s *Snapshot) PendingList() []Registration {
	list := make([]Registration, 0, len(s.Pending))
	for _, r := range s.Pending {
		list = append(list, *r)
	}
	SortRegistrations(list)
	return list
}

// PlayerLists returns copies of the confirmed players per track, in registration order.
func (s *Snapshot) PlayerLists() map[Track][]Player {
	result := make(map[Track][]Player, len(allTracks))
	for _, t := range allTracks {
		players := make([]Player, 0, len(s.Players[t]))
		for _, p := range s.Players[t] {
			players = append(players, *p)
		}
		sort.Slice(players, func(i, j int) bool {
			if !players[i].RegisteredAt.Equal(players[j].RegisteredAt) {
				return players[i].RegisteredAt.Before(players[j].RegisteredAt)
			}
			return players[i].Username < players[j].Username
		})
		result[t] = players
	}
	return result
}

// SortRegistrations orders by creation time, then user, then track.
func SortRegistrations(list []Registration) {
	sort.Slice(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		if a.UserID != b.UserID {
			return a.UserID < b.UserID
		}
		return a.Track < b.Track
	})
}
