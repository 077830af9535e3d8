package entity

import "time"

// Player is a confirmed registration, an official participant of a track.
type Player struct {
	Username     string    `json:"username" bson:"username"`
	TeamName     string    `json:"team_name" bson:"team_name"`
	Rating       int       `json:"rating" bson:"rating"`
	Track        Track     `json:"track" bson:"track"`
	ConfirmedAt  time.Time `json:"confirmed_at" bson:"confirmed_at"`
	RegisteredAt time.Time `json:"registered_at" bson:"registered_at"`
}

// PlayerFromRegistration builds the confirmed entry for a pending one.
func PlayerFromRegistration(r *Registration, confirmedAt time.Time) *Player {
	return &Player{
		Username:     r.Username,
		TeamName:     r.TeamName,
		Rating:       r.Rating,
		Track:        r.Track,
		ConfirmedAt:  confirmedAt,
		RegisteredAt: r.CreatedAt,
	}
}
