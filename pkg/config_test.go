package dupescan

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfigDefaults(t *testing.T) {
	config := DefaultConfig()

	// Check default hash algorithm
	hashConfig := config.GetHashConfig()
	if hashConfig.Default != "sha256" {
		t.Errorf("Expected default hash algorithm 'sha256', got '%s'", hashConfig.Default)
	}

	// Check default scan behaviour
	scanConfig := config.GetScanConfig()
	if len(scanConfig.Exclude) != 0 {
		t.Errorf("Expected empty exclude list, got %v", scanConfig.Exclude)
	}
	if scanConfig.IgnoreEmpty {
		t.Error("Expected ignore_empty to default to false")
	}
	if scanConfig.IgnoreMissing {
		t.Error("Expected ignore_missing to default to false")
	}
	if scanConfig.MinSize != "0" {
		t.Errorf("Expected min_size '0', got '%s'", scanConfig.MinSize)
	}

	// Check default output format
	outputConfig := config.GetOutputConfig()
	if outputConfig.Format != "human" {
		t.Errorf("Expected default output format 'human', got '%s'", outputConfig.Format)
	}

	// Check default performance settings
	perfConfig := config.GetPerformanceConfig()
	if perfConfig.HashWorkers != DefaultHashWorkers {
		t.Errorf("Expected %d hash workers, got %d", DefaultHashWorkers, perfConfig.HashWorkers)
	}
	if perfConfig.HashBuffer != DefaultHashBuffer {
		t.Errorf("Expected hash buffer '%s', got '%s'", DefaultHashBuffer, perfConfig.HashBuffer)
	}

	// A default config has no path, so it must refuse to save
	if err := config.Save(); err == nil {
		t.Error("Expected Save to fail without a config path")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config")

	config, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	// Defaults apply when the file does not exist
	hashConfig := config.GetHashConfig()
	if hashConfig.Default != "sha256" {
		t.Errorf("Expected default hash algorithm 'sha256', got '%s'", hashConfig.Default)
	}

	// The file is only written on Save, not on load
	if _, err := os.Stat(configPath); !os.IsNotExist(err) {
		t.Error("Config file should not be created by LoadConfig")
	}

	if err := config.SetHashDefault("sha1"); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}
	if _, err := os.Stat(configPath); err != nil {
		t.Errorf("Config file should exist after save: %v", err)
	}

	// Reload and verify the persisted value
	reloaded, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("Failed to reload config: %v", err)
	}
	if reloaded.GetHashConfig().Default != "sha1" {
		t.Errorf("Expected persisted hash algorithm 'sha1', got '%s'", reloaded.GetHashConfig().Default)
	}
}

func TestLoadConfigExistingFile(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config")

	content := `[scan]
exclude = .git, node_modules
ignore_empty = true
min_size = 1K

[filehash]
default = sha512

[output]
format = fdupes

[performance]
hash_workers = 8
hash_buffer = 4M
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	scanConfig := config.GetScanConfig()
	if len(scanConfig.Exclude) != 2 || scanConfig.Exclude[0] != ".git" || scanConfig.Exclude[1] != "node_modules" {
		t.Errorf("Expected exclude [.git node_modules], got %v", scanConfig.Exclude)
	}
	if !scanConfig.IgnoreEmpty {
		t.Error("Expected ignore_empty true from file")
	}
	if scanConfig.MinSize != "1K" {
		t.Errorf("Expected min_size '1K', got '%s'", scanConfig.MinSize)
	}

	if config.GetHashConfig().Default != "sha512" {
		t.Errorf("Expected hash algorithm 'sha512', got '%s'", config.GetHashConfig().Default)
	}
	if config.GetOutputConfig().Format != "fdupes" {
		t.Errorf("Expected output format 'fdupes', got '%s'", config.GetOutputConfig().Format)
	}

	perfConfig := config.GetPerformanceConfig()
	if perfConfig.HashWorkers != 8 {
		t.Errorf("Expected 8 hash workers, got %d", perfConfig.HashWorkers)
	}
	if perfConfig.HashBuffer != "4M" {
		t.Errorf("Expected hash buffer '4M', got '%s'", perfConfig.HashBuffer)
	}
}

func TestConfigOverrides(t *testing.T) {
	config := DefaultConfig()

	// Apply multiple overrides
	err := config.ApplyOverrides([]string{
		"default:sha1",
		"format:json",
		"level:2",
		"debug:scan,digest",
		"exclude:.git,.svn",
		"ignore_empty:true",
		"ignore_missing:true",
		"min_size:4K",
		"hash_workers:2",
		"hash_buffer:1M",
	})
	if err != nil {
		t.Fatalf("Failed to apply overrides: %v", err)
	}

	// Check that all overrides were applied
	allConfig := config.GetAllConfig()

	if allConfig.Hash.Default != "sha1" {
		t.Errorf("Expected hash algorithm 'sha1' after override, got '%s'", allConfig.Hash.Default)
	}
	if allConfig.Output.Format != "json" {
		t.Errorf("Expected output format 'json' after override, got '%s'", allConfig.Output.Format)
	}
	if allConfig.Verbose.Level != 2 {
		t.Errorf("Expected verbose level 2 after override, got %d", allConfig.Verbose.Level)
	}
	if allConfig.Verbose.Debug != "scan,digest" {
		t.Errorf("Expected debug flags 'scan,digest' after override, got '%s'", allConfig.Verbose.Debug)
	}
	if len(allConfig.Scan.Exclude) != 2 || allConfig.Scan.Exclude[0] != ".git" || allConfig.Scan.Exclude[1] != ".svn" {
		t.Errorf("Expected exclude [.git .svn] after override, got %v", allConfig.Scan.Exclude)
	}
	if !allConfig.Scan.IgnoreEmpty {
		t.Error("Expected ignore_empty true after override")
	}
	if !allConfig.Scan.IgnoreMissing {
		t.Error("Expected ignore_missing true after override")
	}
	if allConfig.Scan.MinSize != "4K" {
		t.Errorf("Expected min_size '4K' after override, got '%s'", allConfig.Scan.MinSize)
	}
	if allConfig.Performance.HashWorkers != 2 {
		t.Errorf("Expected 2 hash workers after override, got %d", allConfig.Performance.HashWorkers)
	}
	if allConfig.Performance.HashBuffer != "1M" {
		t.Errorf("Expected hash buffer '1M' after override, got '%s'", allConfig.Performance.HashBuffer)
	}
}

func TestConfigOverrideErrors(t *testing.T) {
	testCases := []struct {
		name     string
		override string
		errText  string
	}{
		{"missing separator", "not-a-pair", "invalid override format"},
		{"unsupported key", "colour:red", "unsupported override key"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			config := DefaultConfig()
			err := config.ApplyOverrides([]string{tc.override})
			if err == nil {
				t.Fatalf("Expected error for override '%s', got none", tc.override)
			}
			if !strings.Contains(err.Error(), tc.errText) {
				t.Errorf("Expected error containing '%s', got: %v", tc.errText, err)
			}
		})
	}
}

func TestConfigValidation(t *testing.T) {
	t.Run("OutputFormat", func(t *testing.T) {
		testCases := []struct {
			format string
			valid  bool
		}{
			{"human", true},
			{"json", true},
			{"fdupes", true},
			{"Human", true},  // case insensitive
			{"JSON", true},   // case insensitive
			{"FDUPES", true}, // case insensitive
			{"xml", false},
			{"", false},
		}

		for _, tc := range testCases {
			err := ValidateOutputFormat(tc.format)
			if tc.valid && err != nil {
				t.Errorf("Format '%s' should be valid but got error: %v", tc.format, err)
			}
			if !tc.valid && err == nil {
				t.Errorf("Format '%s' should be invalid but no error returned", tc.format)
			}
		}
	})

	t.Run("HashAlgorithm", func(t *testing.T) {
		testCases := []struct {
			algorithm string
			valid     bool
		}{
			{"sha1", true},
			{"sha256", true},
			{"sha512", true},
			{"SHA1", true},   // case insensitive
			{"SHA256", true}, // case insensitive
			{"md5", false},   // unsupported
			{"invalid", false},
			{"", false},
		}

		for _, tc := range testCases {
			err := ValidateHashAlgorithm(tc.algorithm)
			if tc.valid && err != nil {
				t.Errorf("Algorithm '%s' should be valid but got error: %v", tc.algorithm, err)
			}
			if !tc.valid && err == nil {
				t.Errorf("Algorithm '%s' should be invalid but no error returned", tc.algorithm)
			}
		}
	})

	t.Run("VerboseLevel", func(t *testing.T) {
		testCases := []struct {
			level int
			valid bool
		}{
			{0, true},
			{1, true},
			{2, true},
			{3, true},
			{-1, false},
			{4, false},
		}

		for _, tc := range testCases {
			err := ValidateVerboseLevel(tc.level)
			if tc.valid && err != nil {
				t.Errorf("Level %d should be valid but got error: %v", tc.level, err)
			}
			if !tc.valid && err == nil {
				t.Errorf("Level %d should be invalid but no error returned", tc.level)
			}
		}
	})

	t.Run("HashWorkers", func(t *testing.T) {
		testCases := []struct {
			workers int
			valid   bool
		}{
			{1, true},
			{4, true},
			{64, true},
			{0, false},
			{-1, false},
			{65, false},
		}

		for _, tc := range testCases {
			err := ValidateHashWorkers(tc.workers)
			if tc.valid && err != nil {
				t.Errorf("Worker count %d should be valid but got error: %v", tc.workers, err)
			}
			if !tc.valid && err == nil {
				t.Errorf("Worker count %d should be invalid but no error returned", tc.workers)
			}
		}
	})

	t.Run("MinSize", func(t *testing.T) {
		testCases := []struct {
			sizeStr string
			valid   bool
		}{
			{"", true},
			{"0", true},
			{"512", true},
			{"4K", true},
			{"1.5M", true},
			{"-1", false},
			{"bogus", false},
		}

		for _, tc := range testCases {
			err := ValidateMinSize(tc.sizeStr)
			if tc.valid && err != nil {
				t.Errorf("Min size '%s' should be valid but got error: %v", tc.sizeStr, err)
			}
			if !tc.valid && err == nil {
				t.Errorf("Min size '%s' should be invalid but no error returned", tc.sizeStr)
			}
		}
	})
}

func TestConfigSetters(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config")

	config, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if err := config.SetExclude([]string{".git", ".hg"}); err != nil {
		t.Fatalf("SetExclude failed: %v", err)
	}
	if err := config.SetOutputFormat("json"); err != nil {
		t.Fatalf("SetOutputFormat failed: %v", err)
	}
	if err := config.SetVerboseLevel(2); err != nil {
		t.Fatalf("SetVerboseLevel failed: %v", err)
	}
	if err := config.SetDebugFlags("scan"); err != nil {
		t.Fatalf("SetDebugFlags failed: %v", err)
	}
	if err := config.SetHashWorkers(16); err != nil {
		t.Fatalf("SetHashWorkers failed: %v", err)
	}

	// Every setter persists, so a fresh load must see all of them
	reloaded, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("Failed to reload config: %v", err)
	}

	scanConfig := reloaded.GetScanConfig()
	if len(scanConfig.Exclude) != 2 || scanConfig.Exclude[0] != ".git" || scanConfig.Exclude[1] != ".hg" {
		t.Errorf("Expected exclude [.git .hg], got %v", scanConfig.Exclude)
	}
	if reloaded.GetOutputConfig().Format != "json" {
		t.Errorf("Expected output format 'json', got '%s'", reloaded.GetOutputConfig().Format)
	}

	verboseConfig := reloaded.GetVerboseConfig()
	if verboseConfig.Level != 2 {
		t.Errorf("Expected verbose level 2, got %d", verboseConfig.Level)
	}
	if verboseConfig.Debug != "scan" {
		t.Errorf("Expected debug flags 'scan', got '%s'", verboseConfig.Debug)
	}
	if reloaded.GetPerformanceConfig().HashWorkers != 16 {
		t.Errorf("Expected 16 hash workers, got %d", reloaded.GetPerformanceConfig().HashWorkers)
	}
}
