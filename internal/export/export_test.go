package export

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"
	"tourneybot/entity"
	"tourneybot/internal/storage"
	"tourneybot/lib/clock"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type nopPersister struct{}

func (nopPersister) Load(context.Context) (*entity.Snapshot, error) { return nil, nil }
func (nopPersister) Save(context.Context, *entity.Snapshot) error   { return nil }

var now = time.Date(2026, 6, 10, 18, 45, 0, 0, time.UTC)

func filledStore(t *testing.T) *storage.Store {
	t.Helper()
	ctx := context.Background()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := storage.New(ctx, nopPersister{}, clock.NewManual(now), log)
	require.NoError(t, s.SavePending(ctx, 1, "alice_w", entity.TrackVSA, "Альфа", 42))
	require.NoError(t, s.SavePending(ctx, 2, "bob_b", entity.TrackH2H, "Bravo", 7))
	_, err := s.Confirm(ctx, 1, entity.TrackVSA)
	require.NoError(t, err)
	return s
}

func TestJSON(t *testing.T) {
	data := Collect(filledStore(t), now)

	doc, err := JSON(data)
	require.NoError(t, err)
	assert.Equal(t, "tournament_data_20260610_184500.json", doc.Name)
	assert.Equal(t, MimeJSON, doc.MimeType)
	assert.Contains(t, string(doc.Data), "Альфа")

	var decoded Data
	require.NoError(t, json.Unmarshal(doc.Data, &decoded))
	_, err = uuid.Parse(decoded.ExportID)
	require.NoError(t, err)
	require.Len(t, decoded.Players[entity.TrackVSA], 1)
	assert.Equal(t, "Альфа", decoded.Players[entity.TrackVSA][0].TeamName)
	require.Len(t, decoded.Pending, 1)
	assert.Equal(t, "bob_b", decoded.Pending[0].Username)
	assert.Equal(t, 2, decoded.Statistics.Users)
}

type countingSource struct {
	snap  *entity.Snapshot
	calls int
}

func (c *countingSource) Snapshot() *entity.Snapshot {
	c.calls++
	return c.snap.Clone()
}

func TestCollectReadsOneSnapshot(t *testing.T) {
	src := &countingSource{snap: filledStore(t).Snapshot()}

	data := Collect(src, now)
	assert.Equal(t, 1, src.calls)
	assert.Equal(t, len(data.Pending), data.Statistics.Pending)
	for _, track := range entity.AllTracks() {
		assert.Equal(t, len(data.Players[track]), data.Statistics.Tracks[track].Confirmed, track)
	}
	assert.Equal(t, src.snap.Counters, data.Counters)
}

func TestRoster(t *testing.T) {
	data := Collect(filledStore(t), now)

	doc, err := Roster(data)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(doc.Name, ".xlsx"))

	f, err := excelize.OpenReader(bytes.NewReader(doc.Data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"VSA", "H2H", "Pending"}, f.GetSheetList())

	rows, err := f.GetRows("VSA")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"1", "@alice_w", "Альфа", "42", "2026-06-10 18:45:00", "2026-06-10 18:45:00"}, rows[1])

	rows, err = f.GetRows("H2H")
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	rows, err = f.GetRows("Pending")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "@bob_b", rows[1][2])
	assert.Equal(t, "H2H", rows[1][3])
}

func TestAll(t *testing.T) {
	docs, err := All(filledStore(t), now)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, MimeJSON, docs[0].MimeType)
	assert.Equal(t, MimeXLSX, docs[1].MimeType)
}
