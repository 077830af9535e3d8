package database

import (
	"testing"
	"time"
	"tourneybot/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestStateDocumentBSONRoundTrip(t *testing.T) {
	now := time.Date(2026, 5, 4, 10, 30, 0, 0, time.UTC)
	snap := entity.NewSnapshot(now)
	snap.Pending[entity.PendingKey(11, entity.TrackVSA)] = &entity.Registration{
		UserID:    11,
		Username:  "nikita_k",
		Track:     entity.TrackVSA,
		TeamName:  "Ёжики в тумане",
		Rating:    0,
		CreatedAt: now,
		Status:    entity.StatusPending,
	}
	snap.Players[entity.TrackH2H]["nikita_k"] = &entity.Player{
		Username:     "nikita_k",
		TeamName:     "Ёжики в тумане",
		Rating:       100,
		Track:        entity.TrackH2H,
		ConfirmedAt:  now,
		RegisteredAt: now.Add(-time.Hour),
	}

	data, err := bson.Marshal(stateDocument{ID: stateDocumentID, Snapshot: *snap})
	require.NoError(t, err)

	var raw bson.M
	require.NoError(t, bson.Unmarshal(data, &raw))
	assert.Equal(t, stateDocumentID, raw["_id"])
	assert.Contains(t, raw, "players")
	assert.Contains(t, raw, "pending")

	var doc stateDocument
	require.NoError(t, bson.Unmarshal(data, &doc))
	got := doc.Snapshot
	got.Normalize()

	require.Contains(t, got.Pending, "11:vsa")
	assert.Equal(t, "Ёжики в тумане", got.Pending["11:vsa"].TeamName)
	assert.True(t, now.Equal(got.Pending["11:vsa"].CreatedAt))
	require.Contains(t, got.Players[entity.TrackH2H], "nikita_k")
	assert.Equal(t, 100, got.Players[entity.TrackH2H]["nikita_k"].Rating)
	assert.Empty(t, got.Players[entity.TrackVSA])
}
