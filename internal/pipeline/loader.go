// Package pipeline orchestrates file discovery, parallel parsing and the
// incremental cache, producing the flat record stream the aggregation
// engine consumes.
package pipeline

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"cwrapped/internal/model"
	"cwrapped/internal/source"
)

// LoadResult holds the output of the full data loading pipeline.
type LoadResult struct {
	Records      []model.MessageRecord
	TotalFiles   int
	ParsedFiles  int
	ParseErrors  int
	FileErrors   int
	ProjectCount int
}

// ProgressFunc is called during loading to report progress.
// current is the number of files processed so far, total is the total count.
type ProgressFunc func(current, total int)

// Load discovers and parses all session files from the Claude data
// directory, bypassing the cache entirely.
func Load(claudeDir string, includeSubagents bool, progressFn ProgressFunc) (*LoadResult, error) {
	files, err := source.ScanDir(claudeDir)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", claudeDir, err)
	}
	if len(files) == 0 {
		return &LoadResult{}, nil
	}

	toProcess := filterSubagents(files, includeSubagents)

	result := &LoadResult{
		TotalFiles:   len(toProcess),
		ProjectCount: source.CountProjects(files),
	}
	if len(toProcess) == 0 {
		return result, nil
	}

	for _, pr := range parseAll(toProcess, progressFn, 0, len(toProcess)) {
		if pr.Err != nil {
			result.FileErrors++
			continue
		}
		result.ParsedFiles++
		result.ParseErrors += pr.ParseErrors
		result.Records = append(result.Records, pr.Records...)
	}

	return result, nil
}

func filterSubagents(files []source.DiscoveredFile, include bool) []source.DiscoveredFile {
	if include {
		return files
	}
	var out []source.DiscoveredFile
	for _, f := range files {
		if !f.IsSubagent {
			out = append(out, f)
		}
	}
	return out
}

// parseAll fans the files out over a bounded worker pool. Results come
// back index-aligned with the input so callers can match them to files.
// offset and total only shape the progress callback; cache-aware loads
// report progress across hits and reparses combined.
func parseAll(files []source.DiscoveredFile, progressFn ProgressFunc, offset, total int) []source.ParseResult {
	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers < 1 {
		numWorkers = 4
	}
	if numWorkers > len(files) {
		numWorkers = len(files)
	}

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
				results[idx] = source.ParseFile(files[idx])
				n := processed.Add(1)
				if progressFn != nil {
					progressFn(int(n)+offset, total)
				}
			}
		}()
	}

	wg.Wait()
	return results
}
