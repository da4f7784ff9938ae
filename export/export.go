// Package export serializes a tally for humans (text listing) and for
// spreadsheets (CSV).
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"zoom-attendance-llm/attendance"
)

// ErrEmptyRecord is returned when exporting a tally with no attendees.
// Matching the original tool, nothing is written in that case.
var ErrEmptyRecord = errors.New("no attendance data to export")

const timeLayout = "2006-01-02 15:04:05"

// WriteCSV writes the tally as UTF-8 CSV with a header row, one attendee per
// row, alphabetical by name. Columns: name, first_seen, count, all_seen.
func WriteCSV(w io.Writer, entries []attendance.Entry) error {
	if len(entries) == 0 {
		return ErrEmptyRecord
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"name", "first_seen", "count", "all_seen"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, e := range entries {
		seen := make([]string, 0, len(e.Seen))
		for _, t := range e.Seen {
			seen = append(seen, t.Format(timeLayout))
		}
		row := []string{
			e.Name,
			e.FirstSeen.Format(timeLayout),
			strconv.Itoa(e.Count),
			strings.Join(seen, "; "),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row for %s: %w", e.Name, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a file written by WriteCSV back into entries, so a tally
// can be re-imported into a later session.
func ReadCSV(r io.Reader) ([]attendance.Entry, error) {
	cr := csv.NewReader(r)
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errors.New("empty export file")
	}
	var entries []attendance.Entry
	for _, row := range rows[1:] {
		if len(row) < 4 {
			return nil, fmt.Errorf("malformed row %v", row)
		}
		count, err := strconv.Atoi(row[2])
		if err != nil {
			return nil, fmt.Errorf("bad count in row %v: %w", row, err)
		}
		firstSeen, err := time.Parse(timeLayout, row[1])
		if err != nil {
			return nil, fmt.Errorf("bad first_seen in row %v: %w", row, err)
		}
		e := attendance.Entry{Name: row[0], Count: count, FirstSeen: firstSeen}
		if row[3] != "" {
			for _, s := range strings.Split(row[3], "; ") {
				t, err := time.Parse(timeLayout, s)
				if err != nil {
					return nil, fmt.Errorf("bad all_seen in row %v: %w", row, err)
				}
				e.Seen = append(e.Seen, t)
			}
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// RenderText formats the tally as the human-readable listing shown in the
// GUI status area and copied to the clipboard.
func RenderText(entries []attendance.Entry) string {
	if len(entries) == 0 {
		return "No attendees recorded yet."
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Attendees: %d\n", len(entries))
	for _, e := range entries {
		fmt.Fprintf(&sb, "%s\t%d\t(first seen %s)\n", e.Name, e.Count, e.FirstSeen.Format(timeLayout))
	}
	return sb.String()
}

// FileName returns a timestamped default export file name.
func FileName(now time.Time) string {
	return fmt.Sprintf("attendance_%s.csv", now.Format("20060102_150405"))
}
