// Package dupescan finds sets of byte-identical files across one or more
// filesystem roots using a progressive filter pipeline: candidates are
// bucketed by exact size, narrowed by a cheap prefix digest ("quicksum"),
// and confirmed by a full content digest. Signature work is deferred until
// a size collision makes it necessary, so unique files are never hashed.
//
// # Core API
//
// The main entry point is Scanner, built from configuration and run over
// the roots to examine:
//
//	cfg := dupescan.DefaultConfig()
//	scanner, err := dupescan.NewScanner(cfg)
//	if err != nil {
//		return err
//	}
//	groups, stats, err := scanner.Run([]string{"/srv/data", "/backup"})
//
// Each DuplicateGroup carries the full digest, the member size, the common
// parent directory when one exists, and the members ordered oldest first.
//
// # Reporting
//
// Reports render in human, json or fdupes format, optionally suppressing
// groups wholly contained under expected ancestor directories:
//
//	report := dupescan.NewReport(groups, []string{"/backup/staging"})
//	err = report.Render(os.Stdout, "human")
//
// WriteFile commits a report to disk atomically via a temporary file.
//
// # Configuration
//
// Configuration lives in an ini file with [scan], [filehash], [output],
// [verbose] and [performance] sections; ApplyOverrides accepts "key:value"
// pairs for command-line overrides. Verbosity is process-wide:
//
//	dupescan.SetVerboseLevel(2)
//	dupescan.SetDebugFlags("scan,digest")
//
// # Failure Semantics
//
// Files that vanish or become unreadable between discovery and hashing
// collapse to an all-zero sentinel digest instead of aborting the scan; see
// IsSentinel. Symbolic links are never followed, neither as roots nor
// inside trees, so a scan touches only what physically lives under the
// given roots.
package dupescan
