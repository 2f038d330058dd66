package dupescan

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-ini/ini"
)

// Config represents the dupescan configuration
type Config struct {
	configPath string
	ini        *ini.File
}

// ScanConfig represents directory walking configuration
type ScanConfig struct {
	Exclude       []string // Directory names never descended into
	IgnoreEmpty   bool     // Skip zero-byte files at discovery time
	IgnoreMissing bool     // Suppress warnings for roots that do not exist
	MinSize       string   // Minimum candidate file size ("0" disables)
}

// HashConfig represents full digest algorithm configuration
type HashConfig struct {
	Default string // Default hash algorithm
}

// OutputConfig represents output format configuration
type OutputConfig struct {
	Format string // Default output format: human, json, fdupes
}

// VerboseConfig represents verbosity configuration
type VerboseConfig struct {
	Level int    // Default verbose level (0=quiet, 1=basic, 2=detailed, 3=trace)
	Debug string // Default debug flags (comma-separated)
}

// PerformanceConfig represents performance-related configuration
type PerformanceConfig struct {
	HashWorkers int    // Number of concurrent full digest workers (default: 4)
	HashBuffer  string // Read buffer size for full digest hashing (default: "2M")
}

// AllConfig represents all configuration options
type AllConfig struct {
	Scan        *ScanConfig
	Hash        *HashConfig
	Output      *OutputConfig
	Verbose     *VerboseConfig
	Performance *PerformanceConfig
}

// DefaultConfig returns an in-memory configuration with every key at its
// default value; nothing is written to disk
func DefaultConfig() *Config {
	cfg := &Config{
		ini: ini.Empty(),
	}
	// NewSection/NewKey only fail on empty names, which setDefaults never uses
	_ = cfg.setDefaults()
	return cfg
}

// LoadConfig loads configuration from the given file path. A missing file
// yields the defaults bound to that path; the file is not created until
// Save is called.
func LoadConfig(configPath string) (*Config, error) {
	cfg := &Config{
		configPath: configPath,
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg.ini = ini.Empty()
		if err := cfg.setDefaults(); err != nil {
			return nil, fmt.Errorf("failed to set default config: %w", err)
		}
	} else {
		iniFile, err := ini.Load(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
		cfg.ini = iniFile
	}

	return cfg, nil
}

// setDefaults sets default configuration values
func (c *Config) setDefaults() error {
	// Set default scan behaviour
	scanSection, err := c.ini.NewSection("scan")
	if err != nil {
		return fmt.Errorf("failed to create scan section: %w", err)
	}
	_, err = scanSection.NewKey("exclude", "")
	if err != nil {
		return fmt.Errorf("failed to set default exclude list: %w", err)
	}
	_, err = scanSection.NewKey("ignore_empty", "false")
	if err != nil {
		return fmt.Errorf("failed to set default ignore_empty: %w", err)
	}
	_, err = scanSection.NewKey("ignore_missing", "false")
	if err != nil {
		return fmt.Errorf("failed to set default ignore_missing: %w", err)
	}
	_, err = scanSection.NewKey("min_size", "0")
	if err != nil {
		return fmt.Errorf("failed to set default min_size: %w", err)
	}

	// Set default hash algorithm
	fileHashSection, err := c.ini.NewSection("filehash")
	if err != nil {
		return fmt.Errorf("failed to create filehash section: %w", err)
	}
	_, err = fileHashSection.NewKey("default", DefaultHashAlgorithm)
	if err != nil {
		return fmt.Errorf("failed to set default hash algorithm: %w", err)
	}

	// Set default output format
	outputSection, err := c.ini.NewSection("output")
	if err != nil {
		return fmt.Errorf("failed to create output section: %w", err)
	}
	_, err = outputSection.NewKey("format", DefaultOutputFormat)
	if err != nil {
		return fmt.Errorf("failed to set default output format: %w", err)
	}

	// Set default verbose settings
	verboseSection, err := c.ini.NewSection("verbose")
	if err != nil {
		return fmt.Errorf("failed to create verbose section: %w", err)
	}
	_, err = verboseSection.NewKey("level", "0")
	if err != nil {
		return fmt.Errorf("failed to set default verbose level: %w", err)
	}
	_, err = verboseSection.NewKey("debug", "")
	if err != nil {
		return fmt.Errorf("failed to set default debug flags: %w", err)
	}

	// Set default performance settings
	performanceSection, err := c.ini.NewSection("performance")
	if err != nil {
		return fmt.Errorf("failed to create performance section: %w", err)
	}
	_, err = performanceSection.NewKey("hash_workers", fmt.Sprintf("%d", DefaultHashWorkers))
	if err != nil {
		return fmt.Errorf("failed to set default hash workers: %w", err)
	}
	_, err = performanceSection.NewKey("hash_buffer", DefaultHashBuffer)
	if err != nil {
		return fmt.Errorf("failed to set default hash buffer: %w", err)
	}

	return nil
}

// parseNameList splits a comma-separated config value into trimmed names
func parseNameList(value string) []string {
	if value == "" {
		return nil
	}
	var names []string
	for _, name := range strings.Split(value, ",") {
		name = strings.TrimSpace(name)
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}

// GetScanConfig returns the scan configuration
func (c *Config) GetScanConfig() *ScanConfig {
	scanConfig := &ScanConfig{
		Exclude:       nil,   // fallback default
		IgnoreEmpty:   false, // fallback default
		IgnoreMissing: false, // fallback default
		MinSize:       "0",   // fallback default
	}

	if c.ini.HasSection("scan") {
		section := c.ini.Section("scan")
		if section.HasKey("exclude") {
			scanConfig.Exclude = parseNameList(section.Key("exclude").String())
		}
		if section.HasKey("ignore_empty") {
			if ignoreEmpty, err := section.Key("ignore_empty").Bool(); err == nil {
				scanConfig.IgnoreEmpty = ignoreEmpty
			}
		}
		if section.HasKey("ignore_missing") {
			if ignoreMissing, err := section.Key("ignore_missing").Bool(); err == nil {
				scanConfig.IgnoreMissing = ignoreMissing
			}
		}
		if section.HasKey("min_size") {
			if minSize := section.Key("min_size").String(); minSize != "" {
				scanConfig.MinSize = minSize
			}
		}
	}

	return scanConfig
}

// GetHashConfig returns the hash configuration
func (c *Config) GetHashConfig() *HashConfig {
	hashConfig := &HashConfig{
		Default: DefaultHashAlgorithm, // fallback default
	}

	if c.ini.HasSection("filehash") {
		section := c.ini.Section("filehash")
		if section.HasKey("default") {
			hashConfig.Default = section.Key("default").String()
		}
	}

	return hashConfig
}

// GetOutputConfig returns the output configuration
func (c *Config) GetOutputConfig() *OutputConfig {
	outputConfig := &OutputConfig{
		Format: DefaultOutputFormat, // fallback default
	}

	if c.ini.HasSection("output") {
		section := c.ini.Section("output")
		if section.HasKey("format") {
			outputConfig.Format = section.Key("format").String()
		}
	}

	return outputConfig
}

// GetVerboseConfig returns the verbose configuration
func (c *Config) GetVerboseConfig() *VerboseConfig {
	verboseConfig := &VerboseConfig{
		Level: 0,  // fallback default
		Debug: "", // fallback default
	}

	if c.ini.HasSection("verbose") {
		section := c.ini.Section("verbose")
		if section.HasKey("level") {
			if level, err := section.Key("level").Int(); err == nil {
				verboseConfig.Level = level
			}
		}
		if section.HasKey("debug") {
			verboseConfig.Debug = section.Key("debug").String()
		}
	}

	return verboseConfig
}

// GetPerformanceConfig returns the performance configuration
func (c *Config) GetPerformanceConfig() *PerformanceConfig {
	performanceConfig := &PerformanceConfig{
		HashWorkers: DefaultHashWorkers, // fallback default
		HashBuffer:  DefaultHashBuffer,  // fallback default - 2MB read buffer
	}

	if c.ini.HasSection("performance") {
		section := c.ini.Section("performance")
		if section.HasKey("hash_workers") {
			if workers, err := section.Key("hash_workers").Int(); err == nil {
				performanceConfig.HashWorkers = workers
			}
		}
		if section.HasKey("hash_buffer") {
			if bufferSize := section.Key("hash_buffer").String(); bufferSize != "" {
				performanceConfig.HashBuffer = bufferSize
			}
		}
	}

	return performanceConfig
}

// GetAllConfig returns all configuration options
func (c *Config) GetAllConfig() *AllConfig {
	return &AllConfig{
		Scan:        c.GetScanConfig(),
		Hash:        c.GetHashConfig(),
		Output:      c.GetOutputConfig(),
		Verbose:     c.GetVerboseConfig(),
		Performance: c.GetPerformanceConfig(),
	}
}

// SetExclude sets the excluded directory name list
func (c *Config) SetExclude(names []string) error {
	section := c.ini.Section("scan")
	section.Key("exclude").SetValue(strings.Join(names, ","))
	return c.Save()
}

// SetHashDefault sets the default hash algorithm
func (c *Config) SetHashDefault(algorithm string) error {
	section := c.ini.Section("filehash")
	section.Key("default").SetValue(algorithm)
	return c.Save()
}

// SetOutputFormat sets the default output format
func (c *Config) SetOutputFormat(format string) error {
	section := c.ini.Section("output")
	section.Key("format").SetValue(format)
	return c.Save()
}

// SetVerboseLevel sets the default verbose level
func (c *Config) SetVerboseLevel(level int) error {
	section := c.ini.Section("verbose")
	section.Key("level").SetValue(fmt.Sprintf("%d", level))
	return c.Save()
}

// SetDebugFlags sets the default debug flags
func (c *Config) SetDebugFlags(debug string) error {
	section := c.ini.Section("verbose")
	section.Key("debug").SetValue(debug)
	return c.Save()
}

// SetHashWorkers sets the number of hash workers
func (c *Config) SetHashWorkers(workers int) error {
	section := c.ini.Section("performance")
	section.Key("hash_workers").SetValue(fmt.Sprintf("%d", workers))
	return c.Save()
}

// Save saves the configuration to disk
func (c *Config) Save() error {
	if c.configPath == "" {
		return fmt.Errorf("no config path set")
	}
	return c.ini.SaveTo(c.configPath)
}

// ApplyOverrides applies command-line overrides to the configuration
// Accepts strings like "default:sha256", "format:json", "ignore_empty:true"
func (c *Config) ApplyOverrides(overrides []string) error {
	for _, override := range overrides {
		parts := strings.SplitN(override, ":", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid override format '%s', expected 'key:value'", override)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		switch key {
		case "exclude":
			// scan.exclude override
			section := c.ini.Section("scan")
			section.Key("exclude").SetValue(value)
		case "ignore_empty":
			// scan.ignore_empty override
			section := c.ini.Section("scan")
			section.Key("ignore_empty").SetValue(value)
		case "ignore_missing":
			// scan.ignore_missing override
			section := c.ini.Section("scan")
			section.Key("ignore_missing").SetValue(value)
		case "min_size":
			// scan.min_size override
			section := c.ini.Section("scan")
			section.Key("min_size").SetValue(value)
		case "default":
			// filehash.default override
			section := c.ini.Section("filehash")
			section.Key("default").SetValue(value)
		case "format":
			// output.format override
			section := c.ini.Section("output")
			section.Key("format").SetValue(value)
		case "level":
			// verbose.level override
			section := c.ini.Section("verbose")
			section.Key("level").SetValue(value)
		case "debug":
			// verbose.debug override
			section := c.ini.Section("verbose")
			section.Key("debug").SetValue(value)
		case "hash_workers":
			// performance.hash_workers override
			section := c.ini.Section("performance")
			section.Key("hash_workers").SetValue(value)
		case "hash_buffer":
			// performance.hash_buffer override
			section := c.ini.Section("performance")
			section.Key("hash_buffer").SetValue(value)
		default:
			return fmt.Errorf("unsupported override key '%s' (supported: exclude, ignore_empty, ignore_missing, min_size, default, format, level, debug, hash_workers, hash_buffer)", key)
		}
	}

	return nil
}

// ValidateHashAlgorithm validates that a hash algorithm is supported
func ValidateHashAlgorithm(algorithm string) error {
	switch strings.ToLower(algorithm) {
	case "sha1", "sha256", "sha512":
		return nil
	default:
		return fmt.Errorf("unsupported hash algorithm: %s (supported: sha1, sha256, sha512)", algorithm)
	}
}

// ValidateOutputFormat validates that an output format is supported
func ValidateOutputFormat(format string) error {
	switch strings.ToLower(format) {
	case "human", "json", "fdupes":
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s (supported: human, json, fdupes)", format)
	}
}

// ValidateVerboseLevel validates that a verbose level is valid
func ValidateVerboseLevel(level int) error {
	if level < 0 || level > 3 {
		return fmt.Errorf("invalid verbose level: %d (supported: 0-3)", level)
	}
	return nil
}

// ValidateDebugFlags validates debug flags. Unknown flag names are allowed;
// they simply never fire, so stale configs keep working across versions.
func ValidateDebugFlags(debug string) error {
	return nil
}

// ValidateHashWorkers validates that the hash worker count is reasonable
func ValidateHashWorkers(workers int) error {
	if workers < 1 {
		return fmt.Errorf("hash workers must be at least 1, got: %d", workers)
	}
	if workers > 64 {
		return fmt.Errorf("hash workers should not exceed 64, got: %d", workers)
	}
	return nil
}

// ValidateMinSize validates the minimum candidate file size setting
func ValidateMinSize(sizeStr string) error {
	if _, err := ParseMinSize(sizeStr); err != nil {
		return fmt.Errorf("invalid min_size: %w", err)
	}
	return nil
}
