package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	dupescan "github.com/mattkeenan/dupescan/pkg"
)

func main() {
	os.Exit(run())
}

// run carries the whole command so tests can drive it in-process;
// the return value becomes the exit status
func run() int {
	options := NewParsedOptions()

	options.DefineOption("help", "h", OptionTypeBool, "false", "Show help message")
	options.DefineOption("version", "", OptionTypeBool, "false", "Show version information")
	options.DefineOption("verbose", "v", OptionTypeInt, "0", "Enable verbose output (can be repeated for more verbosity)")
	options.DefineOption("debug", "", OptionTypeString, "", "Comma-separated debug flags (scan,digest,report)")
	options.DefineOption("quiet", "q", OptionTypeBool, "false", "Suppress scan warnings")
	options.DefineOption("ignore-empty", "e", OptionTypeBool, "false", "Never treat zero-byte files as duplicates")
	options.DefineOption("ignore-missing", "m", OptionTypeBool, "false", "Do not warn about roots that do not exist")
	options.DefineOption("exclude", "x", OptionTypeString, "", "Comma-separated directory names never descended into")
	options.DefineOption("within", "w", OptionTypeString, "", "Comma-separated ancestors whose fully contained groups are suppressed")
	options.DefineOption("format", "f", OptionTypeString, "", "Output format (human|json|fdupes)")
	options.DefineOption("output", "o", OptionTypeString, "", "Write the report atomically to FILE instead of stdout")
	options.DefineOption("algo", "a", OptionTypeString, "", "Full digest algorithm (sha1|sha256|sha512)")
	options.DefineOption("workers", "", OptionTypeInt, "0", "Number of full digest hash workers")
	options.DefineOption("min-size", "", OptionTypeString, "", "Skip files smaller than SIZE (e.g. 4K); 0 disables")
	options.DefineOption("config", "c", OptionTypeString, "", "Configuration file path")
	options.DefineOption("override", "O", OptionTypeString, "", "Comma-separated key:value config overrides")
	options.DefineOption("summary", "s", OptionTypeBool, "false", "Print scan statistics to stderr")

	if err := options.Parse(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "dupescan: %v\n", err)
		fmt.Fprintf(os.Stderr, "Try 'dupescan --help' for more information.\n")
		return 1
	}

	// Handle version first (before help)
	if options.GetBool("version") {
		fmt.Printf("dupescan %s\n", getVersionString())
		return 0
	}

	// Handle help
	if options.GetBool("help") {
		showHelp()
		return 0
	}

	cfg, err := loadConfiguration(options)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dupescan: %v\n", err)
		return 1
	}

	// Wire up verbosity before anything that might log
	verboseConfig := cfg.GetVerboseConfig()
	if err := dupescan.ValidateVerboseLevel(verboseConfig.Level); err != nil {
		fmt.Fprintf(os.Stderr, "dupescan: %v\n", err)
		return 1
	}
	dupescan.SetVerboseLevel(verboseConfig.Level)
	dupescan.SetDebugFlags(verboseConfig.Debug)

	format := cfg.GetOutputConfig().Format
	if err := dupescan.ValidateOutputFormat(format); err != nil {
		fmt.Fprintf(os.Stderr, "dupescan: %v\n", err)
		return 1
	}

	roots := options.GetArgs()
	if len(roots) == 0 {
		fmt.Fprintf(os.Stderr, "dupescan: missing path operand\n")
		fmt.Fprintf(os.Stderr, "Try 'dupescan --help' for more information.\n")
		return 1
	}

	scanner, err := dupescan.NewScanner(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dupescan: %v\n", err)
		return 1
	}
	if options.GetBool("quiet") {
		scanner.SetWarnWriter(io.Discard)
	}

	groups, stats, err := scanner.Run(roots)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dupescan: %v\n", err)
		return 1
	}

	report := dupescan.NewReport(groups, splitList(options.GetString("within")))
	stats.GroupsSuppressed = report.Suppressed()

	if outputPath := options.GetString("output"); outputPath != "" {
		if err := report.WriteFile(outputPath, format); err != nil {
			fmt.Fprintf(os.Stderr, "dupescan: %v\n", err)
			return 1
		}
	} else if err := report.Render(os.Stdout, format); err != nil {
		fmt.Fprintf(os.Stderr, "dupescan: %v\n", err)
		return 1
	}

	if options.GetBool("summary") || dupescan.GetVerboseLevel() >= 1 {
		fmt.Fprint(os.Stderr, stats.Summary())
	}

	return 0
}

// loadConfiguration builds the effective configuration: the config file (or
// in-memory defaults), then --override pairs, then explicit command-line
// flags, each layer outranking the previous one
func loadConfiguration(options *ParsedOptions) (*dupescan.Config, error) {
	var cfg *dupescan.Config
	var err error

	if configPath := options.GetString("config"); configPath != "" {
		cfg, err = dupescan.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
	} else {
		cfg = dupescan.DefaultConfig()
	}

	if overrides := options.GetString("override"); overrides != "" {
		if err := cfg.ApplyOverrides(splitList(overrides)); err != nil {
			return nil, err
		}
	}

	var flagOverrides []string
	if options.IsSet("format") {
		flagOverrides = append(flagOverrides, "format:"+options.GetString("format"))
	}
	if options.IsSet("algo") {
		flagOverrides = append(flagOverrides, "default:"+options.GetString("algo"))
	}
	if options.IsSet("workers") {
		flagOverrides = append(flagOverrides, fmt.Sprintf("hash_workers:%d", options.GetInt("workers")))
	}
	if options.IsSet("min-size") {
		flagOverrides = append(flagOverrides, "min_size:"+options.GetString("min-size"))
	}
	if options.IsSet("exclude") {
		flagOverrides = append(flagOverrides, "exclude:"+options.GetString("exclude"))
	}
	if options.IsSet("ignore-empty") {
		flagOverrides = append(flagOverrides, "ignore_empty:true")
	}
	if options.IsSet("ignore-missing") {
		flagOverrides = append(flagOverrides, "ignore_missing:true")
	}
	if options.IsSet("verbose") {
		flagOverrides = append(flagOverrides, fmt.Sprintf("level:%d", options.GetInt("verbose")))
	}
	if options.IsSet("debug") {
		flagOverrides = append(flagOverrides, "debug:"+options.GetString("debug"))
	}

	if len(flagOverrides) > 0 {
		if err := cfg.ApplyOverrides(flagOverrides); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// splitList splits a comma-separated option value, dropping empty entries
func splitList(value string) []string {
	if value == "" {
		return nil
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}

func showHelp() {
	fmt.Printf("dupescan - find files with identical content\n\n")
	fmt.Printf("Usage: dupescan [OPTIONS] <path>...\n\n")

	fmt.Printf("Scans the given files and directory trees, groups byte-identical files\n")
	fmt.Printf("by content digest and prints each duplicate group with per-file inode,\n")
	fmt.Printf("modification time and path. Cheap filters run first: only files that\n")
	fmt.Printf("collide on size and leading-prefix digest are ever read in full.\n\n")

	fmt.Printf("Options:\n")
	fmt.Printf("  -h, --help            Show this help message\n")
	fmt.Printf("      --version         Show version information\n")
	fmt.Printf("  -v, --verbose         Enable verbose output (repeat for more, e.g. -vv)\n")
	fmt.Printf("      --debug=FLAGS     Comma-separated debug flags (scan,digest,report)\n")
	fmt.Printf("  -q, --quiet           Suppress scan warnings\n")
	fmt.Printf("  -e, --ignore-empty    Never treat zero-byte files as duplicates\n")
	fmt.Printf("  -m, --ignore-missing  Do not warn about roots that do not exist\n")
	fmt.Printf("  -x, --exclude=NAMES   Comma-separated directory names never descended into\n")
	fmt.Printf("  -w, --within=DIRS     Suppress groups fully contained under one of DIRS\n")
	fmt.Printf("  -f, --format=FORMAT   Output format (human|json|fdupes, default: human)\n")
	fmt.Printf("  -o, --output=FILE     Write the report atomically to FILE instead of stdout\n")
	fmt.Printf("  -a, --algo=NAME       Full digest algorithm (sha1|sha256|sha512, default: sha256)\n")
	fmt.Printf("      --workers=N       Number of full digest hash workers (default: 4)\n")
	fmt.Printf("      --min-size=SIZE   Skip files smaller than SIZE (e.g. 4K); 0 disables\n")
	fmt.Printf("  -c, --config=FILE     Configuration file path\n")
	fmt.Printf("  -O, --override=K:V    Comma-separated key:value config overrides\n")
	fmt.Printf("  -s, --summary         Print scan statistics to stderr\n\n")

	fmt.Printf("Examples:\n")
	fmt.Printf("  dupescan ~/photos ~/backup/photos\n")
	fmt.Printf("  dupescan -e -x .git,.svn -f fdupes /srv/data\n")
	fmt.Printf("  dupescan -w /backup/staging -o report.txt /backup\n")
}
