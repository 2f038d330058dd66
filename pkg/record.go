package dupescan

import (
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"
)

// PathRecord carries the per-file metadata gathered once a size collision
// makes a file a duplicate candidate. Records are materialized lazily: the
// first file of a given size costs only its queue slot until a second file
// of that size arrives.
type PathRecord struct {
	Path     string    // Path as given on the command line (joined with the root)
	Inode    uint64    // Inode number, 0 if unavailable
	MTime    time.Time // Modification time at materialization
	Size     int64     // File size in bytes
	Quicksum string    // Partial digest of the leading prefix
	Fullsum  string    // Full content digest, set by the fullsum stage
}

// newPathRecord materializes a record for a candidate file, stat'ing the
// file if no FileInfo is on hand and computing the quicksum immediately.
// Read failures collapse to the sentinel quicksum rather than aborting, so
// files that vanish mid-scan stay grouped instead of lost.
func newPathRecord(path string, size int64, info os.FileInfo) *PathRecord {
	record := &PathRecord{
		Path:     path,
		Size:     size,
		Quicksum: SentinelQuicksum,
	}

	if info == nil {
		var err error
		info, err = os.Lstat(path)
		if err != nil {
			if IsDebugEnabled("scan") {
				VerboseLog(3, "stat failed for %s: %v", path, err)
			}
			return record
		}
	}

	record.MTime = info.ModTime()
	if stat, ok := info.Sys().(*syscall.Stat_t); ok {
		record.Inode = uint64(stat.Ino)
	}

	if quicksum, err := Quicksum(path); err == nil {
		record.Quicksum = quicksum
	} else if IsDebugEnabled("digest") {
		VerboseLog(3, "quicksum failed for %s: %v", path, err)
	}

	return record
}

// GroupMember is one file of a duplicate group as presented in reports
type GroupMember struct {
	Path  string    `json:"path"`
	Inode uint64    `json:"inode"`
	MTime time.Time `json:"mtime"`
}

// DuplicateGroup represents a set of files with identical content
type DuplicateGroup struct {
	Fullsum      string        `json:"fullsum"`
	Size         int64         `json:"size"`
	Count        int           `json:"count"`
	CommonParent string        `json:"common_parent,omitempty"`
	Members      []GroupMember `json:"members"`
}

// sortKey returns the lexicographically smallest member path; groups are
// presented in sortKey order so reports are stable across runs
func (g *DuplicateGroup) sortKey() string {
	key := ""
	for i := range g.Members {
		if i == 0 || g.Members[i].Path < key {
			key = g.Members[i].Path
		}
	}
	return key
}

// WastedBytes returns the bytes reclaimable by deduplicating this group
func (g *DuplicateGroup) WastedBytes() int64 {
	if g.Count < 2 {
		return 0
	}
	return int64(g.Count-1) * g.Size
}

// ScanStats collects counters across a pipeline run
type ScanStats struct {
	FilesScanned      int           `json:"files_scanned"`      // Regular files considered
	DirsScanned       int           `json:"dirs_scanned"`       // Directories entered
	DirsPruned        int           `json:"dirs_pruned"`        // Directories excluded by name
	EmptySkipped      int           `json:"empty_skipped"`      // Zero-byte files skipped (ignore_empty)
	SmallSkipped      int           `json:"small_skipped"`      // Files under min_size
	SymlinksSkipped   int           `json:"symlinks_skipped"`   // In-tree symbolic links skipped
	RootsSkipped      int           `json:"roots_skipped"`      // Roots excluded at classification
	SizeCandidates    int           `json:"size_candidates"`    // Records materialized (quicksummed)
	FullsumCandidates int           `json:"fullsum_candidates"` // Files fully digested
	GroupsFound       int           `json:"groups_found"`       // Duplicate groups detected
	GroupsSuppressed  int           `json:"groups_suppressed"`  // Groups removed by containment filtering
	WastedBytes       int64         `json:"wasted_bytes"`       // Reclaimable bytes across all groups
	Duration          time.Duration `json:"duration"`           // Wall time for the whole run
}

// Summary returns a human-readable multi-line summary of the scan
func (st *ScanStats) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "scanned %d files in %d directories (%s)\n",
		st.FilesScanned, st.DirsScanned, st.Duration.Round(time.Millisecond))
	fmt.Fprintf(&b, "size collisions: %d files quicksummed, %d files fully digested\n",
		st.SizeCandidates, st.FullsumCandidates)
	fmt.Fprintf(&b, "duplicate groups: %d found, %d suppressed, %s reclaimable\n",
		st.GroupsFound, st.GroupsSuppressed, FormatHumanSize(st.WastedBytes))
	return b.String()
}
