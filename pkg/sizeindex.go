package dupescan

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// SizeIndex buckets candidate files by exact byte size, the first and
// cheapest filter of the pipeline. The inner map is keyed by path so a file
// reached twice through overlapping roots lands on its existing slot; a nil
// record marks the deferred first file of a size.
type SizeIndex struct {
	buckets map[int64]map[string]*PathRecord
	stats   *ScanStats
}

// newSizeIndex creates an empty size index feeding the given stats
func newSizeIndex(stats *ScanStats) *SizeIndex {
	return &SizeIndex{
		buckets: make(map[int64]map[string]*PathRecord),
		stats:   stats,
	}
}

// add records one discovered file. The first file of a size is parked as a
// nil placeholder; the arrival of a second file of that size materializes
// both in the same operation, so signature work is only ever spent on files
// that have at least one size twin.
func (idx *SizeIndex) add(path string, size int64, info os.FileInfo) {
	bucket := idx.buckets[size]
	if bucket == nil {
		idx.buckets[size] = map[string]*PathRecord{path: nil}
		return
	}

	if _, seen := bucket[path]; seen {
		return // already indexed via an overlapping root
	}

	for deferred, record := range bucket {
		if record == nil {
			bucket[deferred] = newPathRecord(deferred, size, nil)
			idx.stats.SizeCandidates++
		}
	}

	bucket[path] = newPathRecord(path, size, info)
	idx.stats.SizeCandidates++
}

// Len returns the number of distinct sizes indexed
func (idx *SizeIndex) Len() int {
	return len(idx.buckets)
}

// BuildSizeIndex walks all roots and buckets every candidate file by size.
// Roots are classified before walking: directories are descended
// iteratively, plain files join the index as one-entry listings, symbolic
// links and missing paths are excluded with a warning.
func (s *Scanner) BuildSizeIndex(roots []string, stats *ScanStats) *SizeIndex {
	defer VerboseEnter()()
	s.normalize()
	if stats == nil {
		stats = &ScanStats{}
	}

	idx := newSizeIndex(stats)
	for _, root := range dedupeRoots(roots) {
		s.indexRoot(idx, root, stats)
	}

	VerboseLog(2, "size index: %d sizes, %d candidate files", idx.Len(), stats.SizeCandidates)
	return idx
}

// indexRoot classifies one root and feeds it into the index
func (s *Scanner) indexRoot(idx *SizeIndex, root string, stats *ScanStats) {
	info, err := os.Lstat(root)
	if err != nil {
		if os.IsNotExist(err) {
			if !s.ignoreMissing {
				s.warnf("root %s does not exist, skipping", root)
			}
		} else {
			s.warnf("cannot stat root %s: %v", root, err)
		}
		stats.RootsSkipped++
		return
	}

	switch {
	case info.Mode()&os.ModeSymlink != 0:
		// Symbolic link roots are never followed; distinguish dangling
		// links in the warning so the user knows which case they hit.
		if _, err := os.Stat(root); err != nil {
			s.warnf("skipping symbolic link root %s (target does not exist)", root)
		} else {
			s.warnf("skipping symbolic link root %s (symbolic links are not followed)", root)
		}
		stats.RootsSkipped++
	case info.Mode().IsRegular():
		// A plain file root behaves like a directory listing of one entry
		s.indexFile(idx, root, info.Size(), info, stats)
	case info.IsDir():
		s.walkDirectory(idx, root, stats)
	default:
		s.warnf("root %s is not a regular file or directory, skipping", root)
		stats.RootsSkipped++
	}
}

// indexFile applies the size filters and hands one regular file to the index
func (s *Scanner) indexFile(idx *SizeIndex, path string, size int64, info os.FileInfo, stats *ScanStats) {
	if size == 0 && s.ignoreEmpty {
		stats.EmptySkipped++
		return
	}
	if s.minSize > 0 && size < s.minSize {
		stats.SmallSkipped++
		return
	}

	if IsDebugEnabled("scan") {
		VerboseLog(3, "candidate %s (%d bytes)", path, size)
	}

	stats.FilesScanned++
	idx.add(path, size, info)
}

// walkDirectory enumerates a directory tree iteratively with a FIFO work
// queue. Subdirectory names are checked against the exclusion set before
// they are queued, so an excluded directory is never opened at all.
// Unreadable directories are logged and skipped rather than failing the walk.
func (s *Scanner) walkDirectory(idx *SizeIndex, root string, stats *ScanStats) {
	queue := []string{root}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		stats.DirsScanned++

		entries, err := os.ReadDir(current)
		if err != nil {
			s.warnf("cannot read directory %s: %v", current, err)
			continue
		}

		for _, entry := range entries {
			name := entry.Name()
			fullPath := filepath.Join(current, name)

			switch {
			case entry.IsDir():
				if _, pruned := s.excluded[name]; pruned {
					stats.DirsPruned++
					if IsDebugEnabled("scan") {
						VerboseLog(3, "pruned directory %s", fullPath)
					}
					continue
				}
				queue = append(queue, fullPath)
			case entry.Type()&os.ModeSymlink != 0:
				// Symbolic links inside the tree are never candidates
				stats.SymlinksSkipped++
			case entry.Type().IsRegular():
				info, err := entry.Info()
				if err != nil {
					VerboseLog(2, "cannot stat %s: %v", fullPath, err)
					continue
				}
				s.indexFile(idx, fullPath, info.Size(), info, stats)
			default:
				// Sockets, FIFOs and device nodes have no regular content
			}
		}
	}
}

// dedupeRoots drops roots nested under another root so overlapping
// arguments do not enumerate the same tree twice. Comparison is on absolute
// paths; survivors keep their as-given spelling.
func dedupeRoots(roots []string) []string {
	if len(roots) <= 1 {
		return roots
	}

	type resolvedRoot struct {
		given string
		abs   string
	}
	resolved := make([]resolvedRoot, 0, len(roots))
	for _, root := range roots {
		abs, err := filepath.Abs(root)
		if err != nil {
			abs = filepath.Clean(root)
		}
		resolved = append(resolved, resolvedRoot{given: root, abs: abs})
	}

	// Sorting by absolute path puts parents before their children
	sort.Slice(resolved, func(i, j int) bool {
		return resolved[i].abs < resolved[j].abs
	})

	separator := string(filepath.Separator)
	var kept []resolvedRoot
	for _, candidate := range resolved {
		redundant := false
		for _, prev := range kept {
			if candidate.abs == prev.abs || strings.HasPrefix(candidate.abs, prev.abs+separator) {
				redundant = true
				break
			}
		}
		if !redundant {
			kept = append(kept, candidate)
		}
	}

	result := make([]string, 0, len(kept))
	for _, root := range kept {
		result = append(result, root.given)
	}
	return result
}
