package dupescan

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"syscall"

	"github.com/google/renameio"
	"github.com/google/vectorio"
	"golang.org/x/sys/unix"
)

// Report holds finalized duplicate groups in presentation order.
// Containment-suppressed groups are retained under their own context so
// they still count in statistics, but they never appear in rendered output.
type Report struct {
	groups     *groupList
	suppressed int
}

// NewReport orders the groups and applies containment suppression against
// the given ancestor directories (the list may be empty). A group is
// suppressed only when its absolute common prefix exactly equals one of the
// ancestors.
func NewReport(groups []DuplicateGroup, suppressAncestors []string) *Report {
	defer VerboseEnter()()

	report := &Report{groups: newGroupList(16)}
	for i := range groups {
		group := &groups[i]
		context := ReportContext
		if len(suppressAncestors) > 0 {
			if ancestor, contained := ContainedAncestor(memberPaths(group), suppressAncestors); contained {
				context = SuppressedContext
				report.suppressed++
				if IsDebugEnabled("report") {
					VerboseLog(3, "suppressed group %s (contained under %s)", group.Fullsum, ancestor)
				}
			}
		}
		report.groups.Insert(group, context)
	}

	return report
}

// Suppressed returns how many groups containment filtering removed
func (r *Report) Suppressed() int {
	return r.suppressed
}

// Len returns the number of groups that will be rendered
func (r *Report) Len() int {
	return r.groups.Length() - r.suppressed
}

// Groups returns the reported groups in presentation order
func (r *Report) Groups() []DuplicateGroup {
	var result []DuplicateGroup
	r.groups.ForEachContext(ReportContext, func(group *DuplicateGroup) bool {
		result = append(result, *group)
		return true
	})
	return result
}

// Render writes the report to w in the requested format
func (r *Report) Render(w io.Writer, format string) error {
	blocks, err := r.renderBlocks(format)
	if err != nil {
		return err
	}
	for _, block := range blocks {
		if _, err := w.Write(block); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}
	return nil
}

// renderBlocks produces one byte block per group plus any format wrapper,
// the unit handed to the vectored file writer
func (r *Report) renderBlocks(format string) ([][]byte, error) {
	if err := ValidateOutputFormat(format); err != nil {
		return nil, err
	}

	switch strings.ToLower(format) {
	case "json":
		groups := r.Groups()
		if groups == nil {
			groups = []DuplicateGroup{}
		}
		data, err := json.MarshalIndent(groups, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal report: %w", err)
		}
		return [][]byte{data, []byte("\n")}, nil
	case "fdupes":
		return r.fdupesBlocks(), nil
	default:
		return r.humanBlocks(), nil
	}
}

// humanBlocks renders one descriptive block per group: a header with the
// full digest, count and size, the common parent when one exists, then the
// members oldest first with modification time and inode
func (r *Report) humanBlocks() [][]byte {
	var blocks [][]byte
	first := true
	r.groups.ForEachContext(ReportContext, func(group *DuplicateGroup) bool {
		var b strings.Builder
		if !first {
			b.WriteByte('\n')
		}
		first = false

		fmt.Fprintf(&b, "fullsum %s  %d files, %d bytes each\n", group.Fullsum, group.Count, group.Size)
		if group.CommonParent != "" {
			fmt.Fprintf(&b, "  common parent: %s\n", group.CommonParent)
		}
		for _, member := range group.Members {
			fmt.Fprintf(&b, "  %s  inode %d  %s\n",
				member.MTime.Format("2006-01-02 15:04:05"), member.Inode, member.Path)
		}

		blocks = append(blocks, []byte(b.String()))
		return true
	})
	return blocks
}

// fdupesBlocks renders groups in the classic fdupes layout: bare member
// paths, one per line, with a blank line between groups
func (r *Report) fdupesBlocks() [][]byte {
	var blocks [][]byte
	first := true
	r.groups.ForEachContext(ReportContext, func(group *DuplicateGroup) bool {
		var b strings.Builder
		if !first {
			b.WriteByte('\n')
		}
		first = false

		for _, member := range group.Members {
			b.WriteString(member.Path)
			b.WriteByte('\n')
		}

		blocks = append(blocks, []byte(b.String()))
		return true
	})
	return blocks
}

// WriteFile renders the report and commits it atomically: the blocks are
// gathered into iovecs and written with writev to a temporary file that
// replaces path only after a successful close, so readers never observe a
// half-written report
func (r *Report) WriteFile(path string, format string) error {
	defer VerboseEnter()()

	blocks, err := r.renderBlocks(format)
	if err != nil {
		return err
	}

	pending, err := renameio.TempFile("", path)
	if err != nil {
		return fmt.Errorf("failed to create report temp file: %w", err)
	}
	defer pending.Cleanup()

	if err := writevBlocks(pending.Fd(), blocks); err != nil {
		return err
	}

	if err := pending.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("failed to commit report file %s: %w", path, err)
	}
	return nil
}

// writevBlocks writes the byte blocks with vectored I/O, chunking the iovec
// slice to the system IOV_MAX limit. writev signals a short write through
// the byte count rather than an error, so the counts are summed and checked
// against the full payload.
func writevBlocks(fd uintptr, blocks [][]byte) error {
	var iovecs []syscall.Iovec
	totalSize := 0
	for _, block := range blocks {
		if len(block) == 0 {
			continue
		}
		iovecs = append(iovecs, syscall.Iovec{
			Base: &block[0],
			Len:  uint64(len(block)),
		})
		totalSize += len(block)
	}
	if len(iovecs) == 0 {
		return nil
	}

	maxIovecs, err := getSystemIOVMax()
	if err != nil {
		return fmt.Errorf("failed to get system IOV_MAX: %w", err)
	}

	totalWritten := 0
	for offset := 0; offset < len(iovecs); offset += maxIovecs {
		end := offset + maxIovecs
		if end > len(iovecs) {
			end = len(iovecs)
		}
		if nw, err := vectorio.WritevRaw(fd, iovecs[offset:end]); err != nil {
			return fmt.Errorf("failed to write report chunk with vectorio: %w", err)
		} else {
			totalWritten += nw
		}
	}

	if totalWritten != totalSize {
		return fmt.Errorf("report write incomplete: wrote %d bytes, expected %d", totalWritten, totalSize)
	}
	return nil
}

// getSystemIOVMax returns the system's IOV_MAX value for writev operations
func getSystemIOVMax() (int, error) {
	// Use sysconf(_SC_IOV_MAX) via syscall
	const SC_IOV_MAX = 60 // _SC_IOV_MAX constant on Linux

	// Fallback per golang/go#58623 if sysconf fails
	const fallbackIOVMax = 1024

	r1, _, errno := unix.Syscall(99, uintptr(SC_IOV_MAX), 0, 0) // sysconf syscall
	if errno != 0 {
		// Fallback to common default if sysconf fails
		return fallbackIOVMax, nil
	}

	iovMax := int(r1)
	if iovMax <= 0 || iovMax > 1<<20 {
		// Sanity check - use fallback for unreasonable values
		return fallbackIOVMax, nil
	}

	return iovMax, nil
}
