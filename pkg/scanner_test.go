package dupescan

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestNewScanner(t *testing.T) {
	scanner, err := NewScanner(DefaultConfig())
	if err != nil {
		t.Fatalf("NewScanner failed: %v", err)
	}
	if scanner.Algorithm().Name != "sha256" {
		t.Errorf("Expected sha256 default, got %s", scanner.Algorithm().Name)
	}
	if scanner.hashWorkers != DefaultHashWorkers {
		t.Errorf("Expected %d workers, got %d", DefaultHashWorkers, scanner.hashWorkers)
	}
	if scanner.hashBuffer != 2*1024*1024 {
		t.Errorf("Expected 2M hash buffer, got %d", scanner.hashBuffer)
	}
}

func TestNewScanner_NilConfig(t *testing.T) {
	scanner, err := NewScanner(nil)
	if err != nil {
		t.Fatalf("NewScanner(nil) failed: %v", err)
	}
	if scanner.Algorithm().Name != "sha256" {
		t.Errorf("Expected sha256 default, got %s", scanner.Algorithm().Name)
	}
}

func TestNewScanner_ConfigErrors(t *testing.T) {
	testCases := []struct {
		name     string
		override string
		errText  string
	}{
		{"bad algorithm", "default:md5", "unsupported hash algorithm"},
		{"bad workers", "hash_workers:0", "hash workers must be at least 1"},
		{"bad buffer", "hash_buffer:bogus", "invalid hash_buffer"},
		{"bad min size", "min_size:bogus", "invalid min_size"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			config := DefaultConfig()
			if err := config.ApplyOverrides([]string{tc.override}); err != nil {
				t.Fatalf("Failed to apply override: %v", err)
			}
			_, err := NewScanner(config)
			if err == nil {
				t.Fatal("Expected NewScanner to fail, got none")
			}
			if !strings.Contains(err.Error(), tc.errText) {
				t.Errorf("Expected error containing '%s', got: %v", tc.errText, err)
			}
		})
	}
}

// buildScanTree lays out a tree with two duplicate pairs and one unique file
func buildScanTree(t *testing.T) string {
	t.Helper()
	tempDir := t.TempDir()
	for _, dir := range []string{"a", filepath.Join("a", "bar"), "b"} {
		if err := os.Mkdir(filepath.Join(tempDir, dir), 0755); err != nil {
			t.Fatalf("Failed to create directory %s: %v", dir, err)
		}
	}
	writeTestFile(t, filepath.Join(tempDir, "a"), "foo", []byte("same content!\n"))
	writeTestFile(t, filepath.Join(tempDir, "a", "bar"), "baz", []byte("same content!\n"))
	writeTestFile(t, filepath.Join(tempDir, "b"), "qux", nil)
	writeTestFile(t, filepath.Join(tempDir, "b"), "other", nil)
	writeTestFile(t, tempDir, "unique.txt", []byte("nothing matches this"))
	return tempDir
}

func TestScannerRun(t *testing.T) {
	tempDir := buildScanTree(t)

	scanner := &Scanner{}
	groups, stats, err := scanner.Run([]string{tempDir})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(groups) != 2 {
		t.Fatalf("Expected 2 duplicate groups, got %d", len(groups))
	}

	// Groups are ordered by their smallest member path, so the pair under
	// a/ comes before the pair under b/
	content := groups[0]
	empty := groups[1]

	if content.Size != 14 || content.Count != 2 {
		t.Errorf("Expected content group of 2 files at 14 bytes, got %d at %d", content.Count, content.Size)
	}
	if content.CommonParent != filepath.Join(tempDir, "a")+string(filepath.Separator) {
		t.Errorf("Expected common parent %s/, got %s", filepath.Join(tempDir, "a"), content.CommonParent)
	}

	if empty.Size != 0 || empty.Count != 2 {
		t.Errorf("Expected empty group of 2 files at 0 bytes, got %d at %d", empty.Count, empty.Size)
	}
	// Zero-byte files digest normally; they are duplicates, not failures
	if empty.Fullsum != emptySHA256 {
		t.Errorf("Expected empty-content sha256 %s, got %s", emptySHA256, empty.Fullsum)
	}
	if IsSentinel(empty.Fullsum) {
		t.Error("Empty-file group must not carry a sentinel digest")
	}

	if stats.FilesScanned != 5 {
		t.Errorf("Expected 5 files scanned, got %d", stats.FilesScanned)
	}
	if stats.DirsScanned != 4 {
		t.Errorf("Expected 4 directories scanned, got %d", stats.DirsScanned)
	}
	if stats.SizeCandidates != 4 {
		t.Errorf("Expected 4 size candidates, got %d", stats.SizeCandidates)
	}
	if stats.FullsumCandidates != 4 {
		t.Errorf("Expected 4 files fully digested, got %d", stats.FullsumCandidates)
	}
	if stats.GroupsFound != 2 {
		t.Errorf("Expected 2 groups found, got %d", stats.GroupsFound)
	}
	if stats.WastedBytes != 14 {
		t.Errorf("Expected 14 wasted bytes, got %d", stats.WastedBytes)
	}
	if stats.Duration <= 0 {
		t.Error("Expected positive scan duration")
	}
}

func TestScannerRun_Idempotent(t *testing.T) {
	tempDir := buildScanTree(t)
	scanner := &Scanner{}

	first, _, err := scanner.Run([]string{tempDir})
	if err != nil {
		t.Fatalf("First run failed: %v", err)
	}
	second, _, err := scanner.Run([]string{tempDir})
	if err != nil {
		t.Fatalf("Second run failed: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Expected identical groups across runs:\n%v\nvs\n%v", first, second)
	}
}

func TestScannerRun_RootOrderIndependent(t *testing.T) {
	tempDir := buildScanTree(t)
	rootA := filepath.Join(tempDir, "a")
	rootB := filepath.Join(tempDir, "b")
	scanner := &Scanner{}

	forward, _, err := scanner.Run([]string{rootA, rootB})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	reversed, _, err := scanner.Run([]string{rootB, rootA})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if !reflect.DeepEqual(forward, reversed) {
		t.Errorf("Expected root order not to matter:\n%v\nvs\n%v", forward, reversed)
	}
}

func TestScannerRun_OverlappingRoots(t *testing.T) {
	tempDir := buildScanTree(t)
	scanner := &Scanner{}

	// Passing the tree and a subtree of it must not double-count anything
	groups, stats, err := scanner.Run([]string{tempDir, filepath.Join(tempDir, "a")})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(groups) != 2 {
		t.Errorf("Expected 2 groups with overlapping roots, got %d", len(groups))
	}
	if stats.FilesScanned != 5 {
		t.Errorf("Expected 5 files scanned, got %d", stats.FilesScanned)
	}
}

func TestScannerRun_HardLinks(t *testing.T) {
	tempDir := t.TempDir()
	original := writeTestFile(t, tempDir, "original.txt", []byte("hard linked data"))
	link1 := filepath.Join(tempDir, "link1.txt")
	link2 := filepath.Join(tempDir, "link2.txt")
	if err := os.Link(original, link1); err != nil {
		t.Skipf("Cannot create hard link: %v", err)
	}
	if err := os.Link(original, link2); err != nil {
		t.Skipf("Cannot create hard link: %v", err)
	}

	scanner := &Scanner{}
	groups, _, err := scanner.Run([]string{tempDir})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// Hard links have identical content, so they report as duplicates;
	// the shared inode in the output lets the reader spot them
	if len(groups) != 1 {
		t.Fatalf("Expected 1 group, got %d", len(groups))
	}
	group := groups[0]
	if group.Count != 3 {
		t.Errorf("Expected 3 members, got %d", group.Count)
	}
	inode := group.Members[0].Inode
	if inode == 0 {
		t.Fatal("Expected non-zero inode")
	}
	for _, member := range group.Members {
		if member.Inode != inode {
			t.Errorf("Expected shared inode %d, got %d for %s", inode, member.Inode, member.Path)
		}
	}
}

func TestScannerRun_MTimeOrdering(t *testing.T) {
	tempDir := t.TempDir()
	newer := writeTestFile(t, tempDir, "newer.txt", []byte("aged content"))
	older := writeTestFile(t, tempDir, "zz-older.txt", []byte("aged content"))

	past := time.Now().Add(-24 * time.Hour)
	if err := os.Chtimes(older, past, past); err != nil {
		t.Fatalf("Failed to set mtime: %v", err)
	}

	scanner := &Scanner{}
	groups, _, err := scanner.Run([]string{tempDir})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(groups) != 1 {
		t.Fatalf("Expected 1 group, got %d", len(groups))
	}
	// Members are ordered oldest first regardless of path order
	members := groups[0].Members
	if members[0].Path != older {
		t.Errorf("Expected oldest member first, got %s", members[0].Path)
	}
	if members[1].Path != newer {
		t.Errorf("Expected newer member second, got %s", members[1].Path)
	}
}

func TestScannerRun_NoDuplicates(t *testing.T) {
	tempDir := t.TempDir()
	writeTestFile(t, tempDir, "one.txt", []byte("first"))
	writeTestFile(t, tempDir, "two.txt", []byte("second file"))
	writeTestFile(t, tempDir, "three.txt", []byte("third, longer still"))

	scanner := &Scanner{}
	groups, stats, err := scanner.Run([]string{tempDir})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(groups) != 0 {
		t.Errorf("Expected no duplicate groups, got %d", len(groups))
	}
	// Unique sizes mean no signature work at all
	if stats.SizeCandidates != 0 {
		t.Errorf("Expected no size candidates, got %d", stats.SizeCandidates)
	}
	if stats.FullsumCandidates != 0 {
		t.Errorf("Expected no fullsum work, got %d", stats.FullsumCandidates)
	}
}

func TestScannerRun_AlgorithmSelection(t *testing.T) {
	tempDir := t.TempDir()
	writeTestFile(t, tempDir, "one.txt", []byte("digest me"))
	writeTestFile(t, tempDir, "two.txt", []byte("digest me"))

	config := DefaultConfig()
	if err := config.ApplyOverrides([]string{"default:sha1"}); err != nil {
		t.Fatalf("Failed to apply override: %v", err)
	}
	scanner, err := NewScanner(config)
	if err != nil {
		t.Fatalf("NewScanner failed: %v", err)
	}

	groups, _, err := scanner.Run([]string{tempDir})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(groups) != 1 {
		t.Fatalf("Expected 1 group, got %d", len(groups))
	}
	if len(groups[0].Fullsum) != 40 {
		t.Errorf("Expected sha1 hex digest of 40 characters, got %d", len(groups[0].Fullsum))
	}
}
