// Package entity defines domain types shared across the application.

package entity

import (
	"fmt"
	"strings"
)

// Track is one of the two parallel tournament formats a user may register for.
type Track string

const (
	TrackVSA Track = "vsa"
	TrackH2H Track = "h2h"
)

var allTracks = []Track{
	TrackVSA,
	TrackH2H,
}

func AllTracks() []Track {
	result := make([]Track, len(allTracks))
	copy(result, allTracks)
	return result
}

func IsValidTrack(track Track) bool {
	for _, t := range allTracks {
		if t == track {
			return true
		}
	}
	return false
}

func ParseTrack(s string) (Track, error) {
	track := Track(strings.ToLower(strings.TrimSpace(s)))
	if !IsValidTrack(track) {
		return "", fmt.Errorf("unknown track: %q", s)
	}
	return track, nil
}

// Title is the display form used in messages and exports.
func (t Track) Title() string {
	return strings.ToUpper(string(t))
}
