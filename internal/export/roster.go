package export

import (
	"fmt"
	"tourneybot/entity"

	"github.com/xuri/excelize/v2"
)

const (
	sheetPending = "Pending"
	timeLayout   = "2006-01-02 15:04:05"
)

var (
	playerHeader  = []any{"#", "Username", "Team", "Rating", "Registered", "Confirmed"}
	pendingHeader = []any{"#", "User ID", "Username", "Track", "Team", "Rating", "Created"}
)

// Roster renders one sheet per track with the confirmed players and a sheet with pending entries.
func Roster(data *Data) (*Document, error) {
	f := excelize.NewFile()
	defer f.Close()

	for i, track := range entity.AllTracks() {
		sheet := track.Title()
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return nil, fmt.Errorf("renaming sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return nil, fmt.Errorf("creating sheet %s: %w", sheet, err)
		}
		rows := [][]any{playerHeader}
		for n, p := range data.Players[track] {
			rows = append(rows, []any{
				n + 1,
				"@" + p.Username,
				p.TeamName,
				p.Rating,
				p.RegisteredAt.UTC().Format(timeLayout),
				p.ConfirmedAt.UTC().Format(timeLayout),
			})
		}
		if err := writeRows(f, sheet, rows); err != nil {
			return nil, err
		}
	}

	if _, err := f.NewSheet(sheetPending); err != nil {
		return nil, fmt.Errorf("creating sheet %s: %w", sheetPending, err)
	}
	rows := [][]any{pendingHeader}
	for n, r := range data.Pending {
		rows = append(rows, []any{
			n + 1,
			r.UserID,
			"@" + r.Username,
			r.Track.Title(),
			r.TeamName,
			r.Rating,
			r.CreatedAt.UTC().Format(timeLayout),
		})
	}
	if err := writeRows(f, sheetPending, rows); err != nil {
		return nil, err
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("writing workbook: %w", err)
	}
	return &Document{
		Name:     fmt.Sprintf("roster_%s.xlsx", data.ExportedAt.UTC().Format(fileStamp)),
		MimeType: MimeXLSX,
		Data:     buf.Bytes(),
	}, nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := row
		if err = f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("writing %s row %d: %w", sheet, i+1, err)
		}
	}
	return f.SetColWidth(sheet, "B", "G", 18)
}
