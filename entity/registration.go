package entity

import (
	"strconv"
	"strings"
	"time"
	"tourneybot/lib/validate"
)

type RegistrationStatus string

const StatusPending RegistrationStatus = "pending"

// Registration is a pending entry staged by a user and awaiting admin confirmation.
// At most one exists per (UserID, Track); see PendingKey.
type Registration struct {
	UserID    int64              `json:"user_id" bson:"user_id" validate:"required"`
	Username  string             `json:"username" bson:"username" validate:"required"`
	Track     Track              `json:"track" bson:"track" validate:"required,oneof=vsa h2h"`
	TeamName  string             `json:"team_name" bson:"team_name" validate:"required,max=200"`
	Rating    int                `json:"rating" bson:"rating" validate:"min=0,max=100"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at" validate:"required"`
	Status    RegistrationStatus `json:"status" bson:"status"`
}

func (r *Registration) Validate() error {
	return validate.Struct(r)
}

func (r *Registration) Key() string {
	return PendingKey(r.UserID, r.Track)
}

// PendingKey is the map key of a pending registration in the persisted document.
func PendingKey(userID int64, track Track) string {
	return strconv.FormatInt(userID, 10) + ":" + string(track)
}

// NormalizeUsername strips the leading @ and lower-cases the handle; confirmed
// players are keyed by the normalized form so uniqueness is case-insensitive.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(username), "@"))
}

func SameUsername(a, b string) bool {
	a = NormalizeUsername(a)
	return a != "" && a == NormalizeUsername(b)
}
