// Package export renders the store contents as downloadable documents.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
	"tourneybot/entity"

	"github.com/google/uuid"
)

const (
	MimeJSON = "application/json"
	MimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	fileStamp = "20060102_150405"
)

// Document is one file ready to be sent to an administrator.
type Document struct {
	Name     string
	MimeType string
	Data     []byte
}

// Data is the full export: every pending and confirmed entry plus derived statistics.
type Data struct {
	ExportID   string                           `json:"export_id"`
	ExportedAt time.Time                        `json:"exported_at"`
	Players    map[entity.Track][]entity.Player `json:"players"`
	Pending    []entity.Registration            `json:"pending"`
	Statistics entity.Statistics                `json:"statistics"`
	Counters   entity.Counters                  `json:"stats"`
	CreatedAt  time.Time                        `json:"created_at"`
	UpdatedAt  time.Time                        `json:"last_updated"`
}

// Source hands out a consistent copy of the registration store.
type Source interface {
	Snapshot() *entity.Snapshot
}

// Collect derives every section from one snapshot, so lists and statistics agree.
func Collect(src Source, now time.Time) *Data {
	snap := src.Snapshot()
	return &Data{
		ExportID:   uuid.NewString(),
		ExportedAt: now,
		Players:    snap.PlayerLists(),
		Pending:    snap.PendingList(),
		Statistics: snap.Statistics(),
		Counters:   snap.Counters,
		CreatedAt:  snap.CreatedAt,
		UpdatedAt:  snap.UpdatedAt,
	}
}

// JSON renders data as an indented UTF-8 document.
func JSON(data *Data) (*Document, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return nil, fmt.Errorf("encoding export: %w", err)
	}
	return &Document{
		Name:     fmt.Sprintf("tournament_data_%s.json", data.ExportedAt.UTC().Format(fileStamp)),
		MimeType: MimeJSON,
		Data:     buf.Bytes(),
	}, nil
}

// All returns the JSON dump followed by the XLSX roster.
func All(src Source, now time.Time) ([]Document, error) {
	data := Collect(src, now)
	dump, err := JSON(data)
	if err != nil {
		return nil, err
	}
	roster, err := Roster(data)
	if err != nil {
		return nil, err
	}
	return []Document{*dump, *roster}, nil
}
