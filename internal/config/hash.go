package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/zeebo/blake3"
	"gopkg.in/yaml.v3"
)

// ChecksumManifest pins the scene file's BLAKE3 hash. Written by
// `rapidgui config hash`, checked on every load when present.
type ChecksumManifest struct {
	Version     int               `yaml:"version"`
	GeneratedAt string            `yaml:"generated_at"`
	Hashes      map[string]string `yaml:"hashes"`
}

const manifestName = ".checksums"

// Fingerprint computes the BLAKE3 hash of a file.
func Fingerprint(filePath string) (string, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	hash := blake3.Sum256(data)
	return hex.EncodeToString(hash[:]), nil
}

// VerifyFileHash verifies a file against an expected BLAKE3 hash.
func VerifyFileHash(filePath, expectedHash string) error {
	actualHash, err := Fingerprint(filePath)
	if err != nil {
		return fmt.Errorf("failed to compute hash: %w", err)
	}

	if actualHash != expectedHash {
		return fmt.Errorf("hash mismatch for %s: expected %s, got %s",
			filepath.Base(filePath), expectedHash, actualHash)
	}

	return nil
}

// WriteManifest hashes the scene file and writes the .checksums manifest
// next to it.
func WriteManifest(scenePath string) error {
	hash, err := Fingerprint(scenePath)
	if err != nil {
		return err
	}

	manifest := ChecksumManifest{
		Version:     1,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Hashes:      map[string]string{filepath.Base(scenePath): hash},
	}

	data, err := yaml.Marshal(manifest)
	if err != nil {
		return fmt.Errorf("failed to marshal checksums: %w", err)
	}

	path := filepath.Join(filepath.Dir(scenePath), manifestName)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write checksums: %w", err)
	}
	return nil
}

// verifyIfManifestPresent checks the scene file against .checksums in the
// same directory. No manifest means no check.
func verifyIfManifestPresent(scenePath string) error {
	path := filepath.Join(filepath.Dir(scenePath), manifestName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read checksums: %w", err)
	}

	var manifest ChecksumManifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return fmt.Errorf("failed to parse checksums: %w", err)
	}
	if manifest.Version != 1 {
		return fmt.Errorf("unsupported checksums version: %d", manifest.Version)
	}

	expected, ok := manifest.Hashes[filepath.Base(scenePath)]
	if !ok {
		return fmt.Errorf("scene file %s has no hash in checksums (run 'rapidgui config hash')", filepath.Base(scenePath))
	}

	if err := VerifyFileHash(scenePath, expected); err != nil {
		return fmt.Errorf("scene file verification failed: %w\n"+
			"If you edited the scene intentionally, run: rapidgui config hash", err)
	}
	return nil
}
