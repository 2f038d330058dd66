package dupescan

import (
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// HashAlgorithm represents a full digest algorithm configuration
type HashAlgorithm struct {
	Name    string
	TypeID  uint16
	Size    int
	NewFunc func() hash.Hash
}

// GetHashAlgorithm returns the hash algorithm configuration for the given name
func GetHashAlgorithm(name string) (*HashAlgorithm, error) {
	switch strings.ToLower(name) {
	case "sha1":
		return &HashAlgorithm{
			Name:    "sha1",
			TypeID:  HashTypeSHA1,
			Size:    HashSizeSHA1,
			NewFunc: func() hash.Hash { return sha1.New() },
		}, nil
	case "sha256":
		return &HashAlgorithm{
			Name:    "sha256",
			TypeID:  HashTypeSHA256,
			Size:    HashSizeSHA256,
			NewFunc: func() hash.Hash { return sha256.New() },
		}, nil
	case "sha512":
		return &HashAlgorithm{
			Name:    "sha512",
			TypeID:  HashTypeSHA512,
			Size:    HashSizeSHA512,
			NewFunc: func() hash.Hash { return sha512.New() },
		}, nil
	default:
		return nil, fmt.Errorf("unsupported hash algorithm: %s", name)
	}
}

// GetHashAlgorithmByType returns the hash algorithm configuration for the given type ID
func GetHashAlgorithmByType(typeID uint16) (*HashAlgorithm, error) {
	switch typeID {
	case HashTypeSHA1:
		return GetHashAlgorithm("sha1")
	case HashTypeSHA256:
		return GetHashAlgorithm("sha256")
	case HashTypeSHA512:
		return GetHashAlgorithm("sha512")
	default:
		return nil, fmt.Errorf("unsupported hash type ID: %d", typeID)
	}
}

// Sentinel returns the all-zero hex digest of this algorithm's width,
// used in place of content digests for files that could not be read
func (a *HashAlgorithm) Sentinel() string {
	return strings.Repeat("0", a.Size*2)
}

// SentinelQuicksum is the quicksum stand-in for unreadable files
const SentinelQuicksum = "0000000000000000"

// IsSentinel returns true if the digest is an all-zero sentinel value.
// Real digests of any supported algorithm are never all zeros in practice.
func IsSentinel(digest string) bool {
	if digest == "" {
		return false
	}
	for i := 0; i < len(digest); i++ {
		if digest[i] != '0' {
			return false
		}
	}
	return true
}

// quicksumBuffers recycles prefix read buffers across quicksum calls
var quicksumBuffers = sync.Pool{
	New: func() interface{} {
		buffer := make([]byte, QuicksumPrefixSize)
		return &buffer
	},
}

// Quicksum computes the partial digest of a file: a 64-bit xxhash over at
// most the first QuicksumPrefixSize bytes, returned as a 16-character hex
// string. Files shorter than the prefix are hashed in full, so for them
// quicksum equality implies content equality of everything read.
func Quicksum(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open file %s: %w", filePath, err)
	}
	defer file.Close()

	bufferPtr := quicksumBuffers.Get().(*[]byte)
	defer quicksumBuffers.Put(bufferPtr)
	buffer := *bufferPtr

	n, err := io.ReadFull(file, buffer)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", fmt.Errorf("failed to read prefix of file %s: %w", filePath, err)
	}

	return fmt.Sprintf("%016x", xxhash.Sum64(buffer[:n])), nil
}

// HashFile calculates the full digest of a file using the specified algorithm
func HashFile(filePath string, algorithm *HashAlgorithm) ([]byte, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", filePath, err)
	}
	defer file.Close()

	hasher := algorithm.NewFunc()
	if _, err := io.Copy(hasher, file); err != nil {
		return nil, fmt.Errorf("failed to hash file %s: %w", filePath, err)
	}

	return hasher.Sum(nil), nil
}

// HashFileToHexString calculates the full digest of a file and returns it as a hex string
func HashFileToHexString(filePath string, algorithm *HashAlgorithm) (string, error) {
	hashBytes, err := HashFile(filePath, algorithm)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(hashBytes), nil
}

// FullsumFile calculates the full digest of a file using a configurable
// buffer size, reading in chunks so arbitrarily large files never need to
// fit in memory
func FullsumFile(filePath string, algorithm *HashAlgorithm, bufferSize int) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open file %s: %w", filePath, err)
	}
	defer file.Close()

	if bufferSize <= 0 {
		bufferSize = defaultHashBufferBytes
	}

	hasher := algorithm.NewFunc()
	buffer := make([]byte, bufferSize)

	for {
		n, err := file.Read(buffer)
		if n > 0 {
			hasher.Write(buffer[:n])
		}

		if err == io.EOF {
			// Successfully reached end of file
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to read from file %s: %w", filePath, err)
		}
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// defaultHashBufferBytes is the fallback read buffer size (2MB), matching
// the hash_buffer config default
const defaultHashBufferBytes = 2 * 1024 * 1024
