// Package export renders aggregate views and placement rosters as xlsx workbooks.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/bluewave-swim/backoffice/backend/internal/aggregate"
	"github.com/bluewave-swim/backoffice/backend/internal/domain"
)

var ErrNothingToExport = errors.New("nothing to export")

const (
	aggregateSheet = "Preferences"
	levelSheet     = "Levels"
	rosterSheet    = "Roster"
	waitlistSheet  = "Waitlist"
)

func headerStyle(f *excelize.File) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func writeHeader(f *excelize.File, sheet string, style int, titles ...string) error {
	for i, title := range titles {
		if err := f.SetCellValue(sheet, cell(colName(i), 1), title); err != nil {
			return err
		}
	}
	return f.SetCellStyle(sheet, "A1", cell(colName(len(titles)-1), 1), style)
}

func newWorkbook(sheets ...string) (*excelize.File, error) {
	f := excelize.NewFile()
	for i, sheet := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return nil, err
			}
			continue
		}
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func finish(f *excelize.File) (*bytes.Buffer, error) {
	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf, nil
}

// Filename builds a download name like "roster_summer-2025.xlsx".
func Filename(prefix, season string) string {
	season = strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == ' ' || r == '"' {
			return '_'
		}
		return r
	}, season)
	return fmt.Sprintf("%s_%s.xlsx", prefix, season)
}

// Aggregate writes one row per (slot, swimmer) and a level tally sheet.
func Aggregate(res *aggregate.Result) (*bytes.Buffer, error) {
	if res == nil || (len(res.Rows) == 0 && len(res.ByLevel) == 0) {
		return nil, ErrNothingToExport
	}

	f, err := newWorkbook(aggregateSheet, levelSheet)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	style, err := headerStyle(f)
	if err != nil {
		return nil, err
	}

	if err := writeHeader(f, aggregateSheet, style,
		"Location", "Slot", "Date", "Swimmer", "Level", "Parent email", "Parent phone"); err != nil {
		return nil, err
	}
	_ = f.SetColWidth(aggregateSheet, "A", "B", 20)
	_ = f.SetColWidth(aggregateSheet, "D", "F", 24)

	row := 2
	for _, r := range res.Rows {
		for _, s := range r.Swimmers {
			values := []any{r.Location, r.Label, r.DateKey, s.SwimmerName, string(s.Level), s.ParentEmail, s.ParentPhone}
			if err := f.SetSheetRow(aggregateSheet, cell("A", row), &values); err != nil {
				return nil, err
			}
			row++
		}
	}

	if err := writeHeader(f, levelSheet, style, "Level", "Submissions"); err != nil {
		return nil, err
	}
	levels := make([]string, 0, len(res.ByLevel))
	for level := range res.ByLevel {
		levels = append(levels, string(level))
	}
	sort.Strings(levels)
	row = 2
	for _, level := range levels {
		values := []any{level, res.ByLevel[domain.Level(level)]}
		if err := f.SetSheetRow(levelSheet, cell("A", row), &values); err != nil {
			return nil, err
		}
		row++
	}
	values := []any{"Unique swimmers", res.UniqueSwimmerCount}
	if err := f.SetSheetRow(levelSheet, cell("A", row+1), &values); err != nil {
		return nil, err
	}

	return finish(f)
}

// Roster writes lane assignments and waitlists of the given placements.
func Roster(placements []*domain.Placement) (*bytes.Buffer, error) {
	if len(placements) == 0 {
		return nil, ErrNothingToExport
	}

	sorted := make([]*domain.Placement, len(placements))
	copy(sorted, placements)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Key().Slot().Less(sorted[j].Key().Slot())
	})

	f, err := newWorkbook(rosterSheet, waitlistSheet)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	style, err := headerStyle(f)
	if err != nil {
		return nil, err
	}

	if err := writeHeader(f, rosterSheet, style,
		"Location", "Slot", "Lane", "Capacity", "Swimmer", "Level"); err != nil {
		return nil, err
	}
	if err := writeHeader(f, waitlistSheet, style,
		"Location", "Slot", "Position", "Swimmer"); err != nil {
		return nil, err
	}
	_ = f.SetColWidth(rosterSheet, "A", "B", 20)
	_ = f.SetColWidth(rosterSheet, "E", "E", 24)
	_ = f.SetColWidth(waitlistSheet, "A", "B", 20)
	_ = f.SetColWidth(waitlistSheet, "D", "D", 24)

	rosterRow, waitRow := 2, 2
	for _, p := range sorted {
		for _, lane := range p.Lanes {
			if len(lane.Swimmers) == 0 {
				values := []any{p.Location, p.SlotLabel, lane.LaneNumber, lane.Capacity, "-", ""}
				if err := f.SetSheetRow(rosterSheet, cell("A", rosterRow), &values); err != nil {
					return nil, err
				}
				rosterRow++
				continue
			}
			for _, s := range lane.Swimmers {
				values := []any{p.Location, p.SlotLabel, lane.LaneNumber, lane.Capacity, s.SwimmerName, string(s.Level)}
				if err := f.SetSheetRow(rosterSheet, cell("A", rosterRow), &values); err != nil {
					return nil, err
				}
				rosterRow++
			}
		}
		for _, w := range p.Waitlist {
			// positions are shown 1-based
			values := []any{p.Location, p.SlotLabel, w.WaitlistOrder + 1, w.SwimmerName}
			if err := f.SetSheetRow(waitlistSheet, cell("A", waitRow), &values); err != nil {
				return nil, err
			}
			waitRow++
		}
	}

	return finish(f)
}
