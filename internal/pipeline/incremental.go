package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"cwrapped/internal/source"
	"cwrapped/internal/store"
)

// CachedLoadResult extends LoadResult with cache metadata.
type CachedLoadResult struct {
	LoadResult
	CacheHits int
	Reparsed  int
}

// LoadWithCache discovers files, diffs them against the cache by mtime
// and size, re-parses only what changed, drops vanished files, and
// returns the full record set from the synced cache.
func LoadWithCache(claudeDir string, includeSubagents bool, cache *store.Cache, progressFn ProgressFunc) (*CachedLoadResult, error) {
	files, err := source.ScanDir(claudeDir)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", claudeDir, err)
	}
	if len(files) == 0 {
		return &CachedLoadResult{}, nil
	}

	toProcess := filterSubagents(files, includeSubagents)

	result := &CachedLoadResult{
		LoadResult: LoadResult{
			TotalFiles:   len(toProcess),
			ProjectCount: source.CountProjects(files),
		},
	}
	if len(toProcess) == 0 {
		return result, nil
	}

	tracked, err := cache.GetTrackedFiles()
	if err != nil {
		return nil, fmt.Errorf("reading cache: %w", err)
	}

	var toReparse []source.DiscoveredFile
	current := make(map[string]struct{}, len(toProcess))
	for _, f := range toProcess {
		current[f.Path] = struct{}{}

		info, err := os.Stat(f.Path)
		if err != nil {
			result.FileErrors++
			continue
		}
		cached, ok := tracked[f.Path]
		if ok && cached.MtimeNs == info.ModTime().UnixNano() && cached.SizeBytes == info.Size() {
			result.CacheHits++
			result.ParsedFiles++
		} else {
			toReparse = append(toReparse, f)
		}
	}
	result.Reparsed = len(toReparse)

	// Vanished files would otherwise contribute stale records forever.
	for path := range tracked {
		if _, ok := current[path]; !ok {
			if err := cache.DeleteFile(path); err != nil {
				return nil, fmt.Errorf("pruning cache: %w", err)
			}
		}
	}

	if len(toReparse) > 0 {
		results := parseAll(toReparse, progressFn, result.CacheHits, result.TotalFiles)
		for i, pr := range results {
			if pr.Err != nil {
				result.FileErrors++
				continue
			}
			result.ParsedFiles++
			result.ParseErrors += pr.ParseErrors

			// Empty files are saved too; their tracker row is what stops
			// them being re-parsed on every run.
			info, err := os.Stat(toReparse[i].Path)
			if err != nil {
				result.FileErrors++
				continue
			}
			if err := cache.SaveFileRecords(toReparse[i].Path, pr.Records, info.ModTime().UnixNano(), info.Size()); err != nil {
				return nil, fmt.Errorf("caching %s: %w", toReparse[i].Path, err)
			}
		}
	}

	records, err := cache.LoadAllRecords()
	if err != nil {
		return nil, fmt.Errorf("loading cached records: %w", err)
	}
	result.Records = records

	return result, nil
}

// CacheDir returns the platform-appropriate cache directory.
func CacheDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "cwrapped")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", "cwrapped")
}

// CachePath returns the full path to the cache database.
func CachePath() string {
	return filepath.Join(CacheDir(), "records.db")
}
