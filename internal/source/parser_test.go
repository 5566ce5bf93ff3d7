package source

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/theirongolddev/tburn/internal/finance"
	"github.com/theirongolddev/tburn/internal/model"
)

// Salary 1760 makes the hourly rate 10; a zero real rate keeps amounts flat.
var flat = finance.Assumptions{HourlyRate: 10, RealRate: 0, YearsToRetire: 10}

func writeExport(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "export.jsonl")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseFile(t *testing.T) {
	path := writeExport(t,
		`{"type":"save","amount":"250.50","timeCost":12.5,"timestamp":"2025-06-01T10:00:00Z","note":"bonus"}`,
		`{"type":"spend","amount":40,"date":"2025-06-02"}`,
		`{"type":"spend","amount":9.99,"isRecurring":true,"monthsDuration":12,"timestamp":1748822400000}`,
	)

	res := ParseFile(path, flat)
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if len(res.Records) != 3 {
		t.Fatalf("len(Records) = %d, want 3", len(res.Records))
	}
	if res.ParseErrors != 0 {
		t.Errorf("ParseErrors = %d, want 0", res.ParseErrors)
	}

	save := res.Records[0]
	if save.Amount != 250.5 || save.TimeCost != 12.5 || save.Note != "bonus" {
		t.Errorf("save = %+v", save)
	}

	spend := res.Records[1]
	if spend.TimeCost != 4 {
		t.Errorf("computed TimeCost = %v, want 4", spend.TimeCost)
	}
	if !spend.Timestamp.Equal(time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Timestamp = %s", spend.Timestamp)
	}
	if res.Computed != 2 {
		t.Errorf("Computed = %d, want 2", res.Computed)
	}

	sub := res.Records[2]
	if sub.RecurringStatus != model.Active {
		t.Errorf("RecurringStatus = %q, want active", sub.RecurringStatus)
	}
	if sub.MonthsDuration == nil || *sub.MonthsDuration != 12 {
		t.Errorf("MonthsDuration = %v, want 12", sub.MonthsDuration)
	}
	// 12 months of 9.99 at no growth.
	if diff := sub.TimeCost - 11.988; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("TimeCost = %v, want 11.988", sub.TimeCost)
	}
	if !sub.Timestamp.Equal(time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("epoch Timestamp = %s", sub.Timestamp)
	}
}

func TestParse_BadLinesAreCounted(t *testing.T) {
	res := Parse(strings.NewReader(strings.Join([]string{
		`not json`,
		`{"type":"borrow","amount":1,"date":"2025-01-01"}`,
		`{"type":"save","amount":-5,"date":"2025-01-01"}`,
		`{"type":"save","amount":5}`,
		`{"type":"spend","amount":5,"isRecurring":true,"monthsDuration":0,"date":"2025-01-01"}`,
		``,
		`{"type":"save","amount":5,"date":"2025-01-01"}`,
	}, "\n")), flat)

	if res.ParseErrors != 5 {
		t.Errorf("ParseErrors = %d, want 5", res.ParseErrors)
	}
	if len(res.Records) != 1 {
		t.Errorf("len(Records) = %d, want 1", len(res.Records))
	}
}

func TestParse_StableIDs(t *testing.T) {
	input := `{"id":"abc","type":"save","amount":1,"date":"2025-01-01"}
{"id":"abc","type":"save","amount":2,"date":"2025-01-01"}
{"type":"spend","amount":3,"date":"2025-01-02"}
`
	first := Parse(strings.NewReader(input), flat)
	second := Parse(strings.NewReader(input), flat)

	if len(first.Records) != 2 {
		t.Fatalf("len(Records) = %d, want 2 (duplicate id collapsed)", len(first.Records))
	}
	if first.Records[0].Amount != 2 {
		t.Errorf("duplicate kept amount %v, want last (2)", first.Records[0].Amount)
	}
	for i := range first.Records {
		if first.Records[i].ID != second.Records[i].ID {
			t.Errorf("record %d: ID changed between imports", i)
		}
	}
}

func TestScanDir(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.jsonl", "a.jsonl", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o600); err != nil {
			t.Fatal(err)
		}
	}

	files, err := ScanDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 2 || filepath.Base(files[0]) != "a.jsonl" {
		t.Errorf("ScanDir = %v, want [a.jsonl b.jsonl]", files)
	}

	files, err = ScanDir(filepath.Join(dir, "missing"))
	if err != nil || files != nil {
		t.Errorf("missing dir = %v, %v; want nil, nil", files, err)
	}
}
