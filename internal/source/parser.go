// Package source reads record exports into ledger records.
package source

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/theirongolddev/tburn/internal/finance"
	"github.com/theirongolddev/tburn/internal/model"
)

// idSpace namespaces IDs derived from foreign or missing record IDs, so
// importing the same file twice yields the same IDs.
var idSpace = uuid.MustParse("6f1c3f0e-8a4b-4c55-9b39-1d0b8f2a7e11")

// ParseResult holds the output of parsing one export.
type ParseResult struct {
	Records     []model.Record
	Computed    int // records whose time cost was filled in
	ParseErrors int
	Err         error
}

// ParseFile reads a JSONL export. Records without a stored time cost get
// one from a, as if they had been entered today.
func ParseFile(path string, a finance.Assumptions) ParseResult {
	f, err := os.Open(path)
	if err != nil {
		return ParseResult{Err: err}
	}
	defer func() { _ = f.Close() }()

	return Parse(f, a)
}

// Parse reads JSONL from r. Malformed or invalid lines are counted and
// skipped. A record ID seen twice keeps its last line.
func Parse(r io.Reader, a finance.Assumptions) ParseResult {
	var res ParseResult
	index := make(map[string]int)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var raw RawRecord
		if err := json.Unmarshal(line, &raw); err != nil {
			res.ParseErrors++
			continue
		}
		rec, computed, err := convert(raw, line, a)
		if err != nil {
			res.ParseErrors++
			continue
		}
		if computed {
			res.Computed++
		}

		if i, ok := index[rec.ID]; ok {
			res.Records[i] = rec
			continue
		}
		index[rec.ID] = len(res.Records)
		res.Records = append(res.Records, rec)
	}
	res.Err = scanner.Err()
	return res
}

func convert(raw RawRecord, line []byte, a finance.Assumptions) (model.Record, bool, error) {
	rec := model.Record{
		Type:            model.RecordType(raw.Type),
		Amount:          raw.Amount.InexactFloat64(),
		IsRecurring:     raw.IsRecurring,
		RecurringStatus: model.RecurringStatus(raw.RecurringStatus),
		MonthsDuration:  raw.MonthsDuration,
		Note:            raw.Note,
	}
	if !rec.Type.Valid() {
		return rec, false, fmt.Errorf("unknown type %q", raw.Type)
	}
	if raw.Amount.IsNegative() {
		return rec, false, errors.New("negative amount")
	}
	if d := raw.MonthsDuration; d != nil && !(*d > 0) {
		return rec, false, fmt.Errorf("months duration must be positive, got %v", *d)
	}
	if rec.IsRecurring && rec.RecurringStatus == "" {
		rec.RecurringStatus = model.Active
	}

	ts, err := parseTimestamp(raw.Timestamp, raw.Date)
	if err != nil {
		return rec, false, err
	}
	rec.Timestamp = ts

	switch {
	case raw.ID == "":
		rec.ID = uuid.NewSHA1(idSpace, line).String()
	default:
		if id, err := uuid.Parse(raw.ID); err == nil {
			rec.ID = id.String()
		} else {
			rec.ID = uuid.NewSHA1(idSpace, []byte(raw.ID)).String()
		}
	}

	if raw.TimeCost != nil {
		rec.TimeCost = *raw.TimeCost
		return rec, false, nil
	}
	rec.TimeCost = a.TimeCost(finance.ChargeOf(rec))
	return rec, true, nil
}

func parseTimestamp(raw json.RawMessage, date string) (time.Time, error) {
	if len(raw) > 0 && string(raw) != "null" {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return time.Parse(time.RFC3339Nano, s)
		}
		ms, err := strconv.ParseInt(string(raw), 10, 64)
		if err != nil {
			return time.Time{}, fmt.Errorf("bad timestamp %s", raw)
		}
		return time.UnixMilli(ms).UTC(), nil
	}
	if date != "" {
		return time.Parse(time.DateOnly, date)
	}
	return time.Time{}, errors.New("missing timestamp")
}
