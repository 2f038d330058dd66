package dupescan

import (
	"fmt"
	"os"
	"runtime"
	"strings"
)

// Verbosity and debug flags are process-wide: the scanner is a batch tool
// and every stage reports through the same stderr channel.
var (
	verboseLevel int
	debugFlags   map[string]bool
)

// SetVerboseLevel sets the process-wide verbose level (0 silences everything)
func SetVerboseLevel(level int) {
	verboseLevel = level
}

// GetVerboseLevel returns the current verbose level
func GetVerboseLevel() int {
	return verboseLevel
}

// VerboseLog writes one stderr line when the current level is at least level
func VerboseLog(level int, format string, args ...interface{}) {
	if verboseLevel < level {
		return
	}
	line := fmt.Sprintf(format, args...)
	if !strings.HasSuffix(line, "\n") {
		line += "\n"
	}
	fmt.Fprintf(os.Stderr, "[VERBOSE-%d] %s", level, line)
}

// VerboseEnter traces entry of the calling function at level 3 and returns
// the matching exit trace, for use as: defer VerboseEnter()()
func VerboseEnter() func() {
	if verboseLevel < 3 {
		return func() {}
	}
	name := callerName()
	fmt.Fprintf(os.Stderr, "[TRACE] Entering function: %s\n", name)
	return func() {
		fmt.Fprintf(os.Stderr, "[TRACE] Exiting function: %s\n", name)
	}
}

// callerName resolves the bare name of the function two frames up
func callerName() string {
	pc, _, _, ok := runtime.Caller(2)
	if !ok {
		return "unknown"
	}
	name := runtime.FuncForPC(pc).Name()
	if idx := strings.LastIndex(name, "."); idx != -1 {
		name = name[idx+1:]
	}
	return name
}

// SetDebugFlags replaces the debug flag set from a comma-separated list.
// Entries are flag names, optionally carrying a boolean value ("scan",
// "digest:false"); names are matched case-insensitively.
func SetDebugFlags(flagsStr string) {
	debugFlags = make(map[string]bool)
	for _, entry := range strings.Split(flagsStr, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		name, value, hasValue := strings.Cut(entry, ":")
		enabled := true
		if hasValue {
			enabled = debugValueEnabled(value)
		}
		debugFlags[strings.ToLower(name)] = enabled
	}
}

// debugValueEnabled interprets a debug flag value; unknown spellings enable
// the flag, matching the bare-name form
func debugValueEnabled(value string) bool {
	switch strings.ToLower(value) {
	case "false", "0", "no", "off":
		return false
	default:
		return true
	}
}

// IsDebugEnabled reports whether the named debug flag is on
func IsDebugEnabled(flag string) bool {
	return debugFlags[strings.ToLower(flag)]
}
