package export

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"zoom-attendance-llm/attendance"
)

func sampleEntries() []attendance.Entry {
	t1 := time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(30 * time.Minute)
	r := attendance.NewRecord()
	r.Apply([]string{"Alice", "Bob"}, t1)
	r.Apply([]string{"Bob"}, t2)
	return r.Snapshot()
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleEntries()); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected header + 2 rows, got %d lines: %q", len(lines), buf.String())
	}
	if lines[0] != "name,first_seen,count,all_seen" {
		t.Errorf("Unexpected header: %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "Alice,2025-04-01 10:00:00,1,") {
		t.Errorf("Unexpected Alice row: %q", lines[1])
	}
	if !strings.Contains(lines[2], "Bob") || !strings.Contains(lines[2], ",2,") {
		t.Errorf("Unexpected Bob row: %q", lines[2])
	}
	if !strings.Contains(lines[2], "2025-04-01 10:00:00; 2025-04-01 10:30:00") {
		t.Errorf("Bob all_seen not joined: %q", lines[2])
	}
}

func TestWriteCSVEmptyRecord(t *testing.T) {
	var buf bytes.Buffer
	err := WriteCSV(&buf, nil)
	if !errors.Is(err, ErrEmptyRecord) {
		t.Fatalf("Expected ErrEmptyRecord, got %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("Nothing should be written on empty record, got %q", buf.String())
	}
}

func TestCSVRoundTrip(t *testing.T) {
	entries := sampleEntries()
	var buf bytes.Buffer
	if err := WriteCSV(&buf, entries); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	back, err := ReadCSV(&buf)
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}
	if len(back) != len(entries) {
		t.Fatalf("Round trip len = %d, want %d", len(back), len(entries))
	}
	for i, e := range entries {
		if back[i].Name != e.Name || back[i].Count != e.Count {
			t.Errorf("Row %d = %q/%d, want %q/%d", i, back[i].Name, back[i].Count, e.Name, e.Count)
		}
		if !back[i].FirstSeen.Equal(e.FirstSeen) {
			t.Errorf("Row %d FirstSeen = %v, want %v", i, back[i].FirstSeen, e.FirstSeen)
		}
		if len(back[i].Seen) != len(e.Seen) {
			t.Errorf("Row %d Seen len = %d, want %d", i, len(back[i].Seen), len(e.Seen))
		}
	}
}

func TestRenderText(t *testing.T) {
	text := RenderText(sampleEntries())
	if !strings.Contains(text, "Attendees: 2") {
		t.Errorf("Missing attendee count: %q", text)
	}
	if !strings.Contains(text, "Bob\t2") {
		t.Errorf("Missing Bob tally: %q", text)
	}

	if got := RenderText(nil); !strings.Contains(got, "No attendees") {
		t.Errorf("Unexpected empty rendering: %q", got)
	}
}

func TestFileName(t *testing.T) {
	now := time.Date(2025, 4, 1, 10, 30, 5, 0, time.UTC)
	if got := FileName(now); got != "attendance_20250401_103005.csv" {
		t.Errorf("FileName = %q", got)
	}
}
