package dupescan

import (
	"strings"
)

// Context constants for report skiplist operations
const (
	ReportContext     = "report"
	SuppressedContext = "suppressed"
)

// Quicksum constants
const (
	// QuicksumPrefixSize is the number of leading bytes covered by the
	// partial digest. Files whose first QuicksumPrefixSize bytes differ can
	// never be byte-identical, so the prefix digest filters size-equal
	// candidates without reading whole files.
	QuicksumPrefixSize = 4096

	// QuicksumHexSize is the length of a quicksum hex string (64-bit xxhash)
	QuicksumHexSize = 16
)

// Hash type constants
const (
	HashTypeSHA1   uint16 = 1 // SHA-1 (20 bytes)
	HashTypeSHA256 uint16 = 2 // SHA-256 (32 bytes)
	HashTypeSHA512 uint16 = 3 // SHA-512 (64 bytes)
)

// HashTypeName returns the human-readable name for a hash type
func HashTypeName(hashType uint16) string {
	switch hashType {
	case HashTypeSHA1:
		return "sha1"
	case HashTypeSHA256:
		return "sha256"
	case HashTypeSHA512:
		return "sha512"
	default:
		return "unknown"
	}
}

// HashTypeFromName returns the hash type constant from a name (case-insensitive)
func HashTypeFromName(name string) (uint16, bool) {
	switch strings.ToLower(name) {
	case "sha1":
		return HashTypeSHA1, true
	case "sha256":
		return HashTypeSHA256, true
	case "sha512":
		return HashTypeSHA512, true
	default:
		return 0, false
	}
}

// Hash size constants
const (
	HashSizeSHA1   = 20 // SHA-1 hash size in bytes
	HashSizeSHA256 = 32 // SHA-256 hash size in bytes
	HashSizeSHA512 = 64 // SHA-512 hash size in bytes
)

// Default configuration values
const (
	DefaultHashAlgorithm = "sha256"
	DefaultOutputFormat  = "human"
	DefaultHashWorkers   = 4
	DefaultHashBuffer    = "2M"
)
