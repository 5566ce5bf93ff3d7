package pipeline

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/theirongolddev/tburn/internal/finance"
	"github.com/theirongolddev/tburn/internal/model"
	"github.com/theirongolddev/tburn/internal/source"
)

// LoadResult holds the merged output of every export file under a path.
type LoadResult struct {
	Records     []model.Record // oldest first, unique by ID
	TotalFiles  int
	ParsedFiles int
	FileErrors  int
	ParseErrors int
	Computed    int // records priced at load time
	Duplicates  int // records superseded by a later file
}

// ProgressFunc is called during loading to report progress.
// current is the number of files processed so far, total is the total count.
type ProgressFunc func(current, total int)

// Load discovers and parses every JSONL export at path using a bounded
// worker pool. When the same record ID appears in several files, the one
// from the file that sorts last wins.
func Load(path string, a finance.Assumptions, progressFn ProgressFunc) (*LoadResult, error) {
	files, err := source.ScanDir(path)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", path, err)
	}

	result := &LoadResult{TotalFiles: len(files)}
	if len(files) == 0 {
		return result, nil
	}

	numWorkers := min(max(runtime.GOMAXPROCS(0), 1), len(files))

	work := make(chan int, len(files))
	results := make([]source.ParseResult, len(files))
	var wg sync.WaitGroup
	var processed atomic.Int64

	for i := range files {
		work <- i
	}
	close(work)

	wg.Add(numWorkers)
	for w := 0; w < numWorkers; w++ {
		go func() {
			defer wg.Done()
			for idx := range work {
				results[idx] = source.ParseFile(files[idx], a)
				n := processed.Add(1)
				if progressFn != nil {
					progressFn(int(n), len(files))
				}
			}
		}()
	}

	wg.Wait()

	byID := make(map[string]int)
	var merged []model.Record
	for _, pr := range results {
		if pr.Err != nil {
			result.FileErrors++
			continue
		}
		result.ParsedFiles++
		result.ParseErrors += pr.ParseErrors
		result.Computed += pr.Computed
		for _, r := range pr.Records {
			if i, ok := byID[r.ID]; ok {
				merged[i] = r
				result.Duplicates++
				continue
			}
			byID[r.ID] = len(merged)
			merged = append(merged, r)
		}
	}

	result.Records = SortByTime(merged)
	return result, nil
}
