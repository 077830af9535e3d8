package entity

import "time"

type TrackStatistics struct {
	Total     int `json:"total"`
	Confirmed int `json:"confirmed"`
	Pending   int `json:"pending"`
}

// Statistics is derived from store contents on demand and never persisted.
type Statistics struct {
	Tracks           map[Track]TrackStatistics `json:"tracks"`
	Pending          int                       `json:"pending_confirmations"`
	Users            int                       `json:"total_users"`
	LastRegistration *time.Time                `json:"last_registration_time,omitempty"`
	Lifetime         Counters                  `json:"lifetime"`
}

func (s *Snapshot) Statistics() Statistics {
	stats := Statistics{
		Tracks:   make(map[Track]TrackStatistics, len(allTracks)),
		Pending:  len(s.Pending),
		Lifetime: s.Counters,
	}
	users := make(map[string]struct{})
	for _, t := range allTracks {
		ts := TrackStatistics{Confirmed: len(s.Players[t])}
		for key := range s.Players[t] {
			users[key] = struct{}{}
		}
		stats.Tracks[t] = ts
	}
	for _, r := range s.Pending {
		users[NormalizeUsername(r.Username)] = struct{}{}
		ts := stats.Tracks[r.Track]
		ts.Pending++
		stats.Tracks[r.Track] = ts
	}
	for t, ts := range stats.Tracks {
		ts.Total = ts.Confirmed + ts.Pending
		stats.Tracks[t] = ts
	}
	stats.Users = len(users)
	if s.Counters.LastRegistration != nil {
		last := *s.Counters.LastRegistration
		stats.LastRegistration = &last
		stats.Lifetime.LastRegistration = &last
	}
	return stats
}
