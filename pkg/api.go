package dupescan

// FindDuplicates runs a complete duplicate scan over the given roots using
// the given configuration (nil for defaults) and returns the duplicate
// groups in presentation order together with the run counters. It is the
// one-call entry point; callers needing warning redirection or reuse across
// runs should build a Scanner themselves.
func FindDuplicates(roots []string, cfg *Config) ([]DuplicateGroup, *ScanStats, error) {
	scanner, err := NewScanner(cfg)
	if err != nil {
		return nil, nil, err
	}
	return scanner.Run(roots)
}
