package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/theirongolddev/tburn/internal/finance"
	"github.com/theirongolddev/tburn/internal/model"
)

// syntheticLedger builds n records spread over roughly two years.
func syntheticLedger(n int, now time.Time) []model.Record {
	records := make([]model.Record, n)
	for i := range records {
		typ := model.Spend
		if i%3 == 0 {
			typ = model.Save
		}
		records[i] = model.Record{
			ID:        fmt.Sprintf("r%06d", i),
			Type:      typ,
			Amount:    float64(10 + i%500),
			TimeCost:  float64(i%40) / 4,
			Timestamp: now.Add(-time.Duration(i) * 90 * time.Minute),
		}
	}
	return records
}

func BenchmarkProgress(b *testing.B) {
	records := syntheticLedger(10000, time.Now())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Progress(65, records)
	}
}

func BenchmarkTrajectory(b *testing.B) {
	now := time.Now()
	records := syntheticLedger(10000, now)
	p := model.Params{Age: 30, TargetRetireAge: 65, Salary: 6000, MonthlySavings: 1500, CreatedAt: now.AddDate(-2, 0, 0)}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Trajectory(p, records, now)
	}
}

func BenchmarkAggregateMonths(b *testing.B) {
	records := syntheticLedger(10000, time.Now())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = AggregateMonths(records)
	}
}

func BenchmarkLoad(b *testing.B) {
	dir := b.TempDir()
	for f := 0; f < 8; f++ {
		var buf []byte
		for i := 0; i < 2000; i++ {
			buf = fmt.Appendf(buf, `{"type":"spend","amount":%d.25,"timestamp":"2025-0%d-1%dT10:00:00Z"}`+"\n",
				i%300, 1+f%9, i%10)
		}
		if err := os.WriteFile(filepath.Join(dir, fmt.Sprintf("export-%d.jsonl", f)), buf, 0o600); err != nil {
			b.Fatal(err)
		}
	}
	a := finance.Assumptions{HourlyRate: 30, RealRate: 0.03, YearsToRetire: 30}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Load(dir, a, nil); err != nil {
			b.Fatal(err)
		}
	}
}
