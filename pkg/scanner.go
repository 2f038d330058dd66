package dupescan

import (
	"fmt"
	"io"
	"os"
	"sort"
	"time"
)

// Scanner runs the duplicate detection pipeline: size bucketing with lazy
// record materialization, quicksum refinement over the size survivors, then
// full digest refinement over the quicksum survivors. Each stage only ever
// sees files the previous stage could not tell apart.
type Scanner struct {
	algorithm     *HashAlgorithm
	hashWorkers   int
	hashBuffer    int
	minSize       int64
	ignoreEmpty   bool
	ignoreMissing bool
	excluded      map[string]struct{}
	warnWriter    io.Writer
}

// NewScanner builds a Scanner from configuration
func NewScanner(cfg *Config) (*Scanner, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	hashConfig := cfg.GetHashConfig()
	if err := ValidateHashAlgorithm(hashConfig.Default); err != nil {
		return nil, err
	}
	algorithm, err := GetHashAlgorithm(hashConfig.Default)
	if err != nil {
		return nil, err
	}

	performanceConfig := cfg.GetPerformanceConfig()
	if err := ValidateHashWorkers(performanceConfig.HashWorkers); err != nil {
		return nil, err
	}
	bufferSize, err := ParseHumanSize(performanceConfig.HashBuffer)
	if err != nil {
		return nil, fmt.Errorf("invalid hash_buffer: %w", err)
	}

	scanConfig := cfg.GetScanConfig()
	minSize, err := ParseMinSize(scanConfig.MinSize)
	if err != nil {
		return nil, fmt.Errorf("invalid min_size: %w", err)
	}

	excluded := make(map[string]struct{}, len(scanConfig.Exclude))
	for _, name := range scanConfig.Exclude {
		excluded[name] = struct{}{}
	}

	return &Scanner{
		algorithm:     algorithm,
		hashWorkers:   performanceConfig.HashWorkers,
		hashBuffer:    bufferSize,
		minSize:       minSize,
		ignoreEmpty:   scanConfig.IgnoreEmpty,
		ignoreMissing: scanConfig.IgnoreMissing,
		excluded:      excluded,
		warnWriter:    os.Stderr,
	}, nil
}

// normalize fills zero-value fields so a bare Scanner literal still works
func (s *Scanner) normalize() {
	if s.algorithm == nil {
		s.algorithm, _ = GetHashAlgorithm(DefaultHashAlgorithm)
	}
	if s.hashBuffer <= 0 {
		s.hashBuffer = defaultHashBufferBytes
	}
	if s.hashWorkers < 1 {
		s.hashWorkers = 1
	}
	if s.warnWriter == nil {
		s.warnWriter = os.Stderr
	}
}

// Algorithm returns the configured full digest algorithm
func (s *Scanner) Algorithm() *HashAlgorithm {
	s.normalize()
	return s.algorithm
}

// SetWarnWriter redirects warning output; nil silences warnings entirely
func (s *Scanner) SetWarnWriter(w io.Writer) {
	if w == nil {
		w = io.Discard
	}
	s.warnWriter = w
}

// warnf emits a non-fatal scan warning
func (s *Scanner) warnf(format string, args ...interface{}) {
	fmt.Fprintf(s.warnWriter, "Warning: "+format+"\n", args...)
}

// Run executes the full pipeline over the given roots and returns the
// duplicate groups in stable presentation order together with run counters
func (s *Scanner) Run(roots []string) ([]DuplicateGroup, *ScanStats, error) {
	defer VerboseEnter()()
	s.normalize()

	start := time.Now()
	stats := &ScanStats{}

	idx := s.BuildSizeIndex(roots, stats)
	quickBuckets := s.RefineByQuicksum(idx)
	groups := s.RefineByFullsum(quickBuckets, stats)

	for i := range groups {
		group := &groups[i]
		group.CommonParent = CommonPrefix(memberPaths(group))
		stats.WastedBytes += group.WastedBytes()
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].sortKey() < groups[j].sortKey()
	})

	stats.GroupsFound = len(groups)
	stats.Duration = time.Since(start)

	VerboseLog(1, "scan complete: %d duplicate groups from %d files", len(groups), stats.FilesScanned)
	return groups, stats, nil
}

// memberPaths collects a group's member paths in presentation order
func memberPaths(group *DuplicateGroup) []string {
	paths := make([]string, 0, len(group.Members))
	for _, member := range group.Members {
		paths = append(paths, member.Path)
	}
	return paths
}
