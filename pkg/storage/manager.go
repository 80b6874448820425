package storage

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"reeldl/pkg/errors"
)

// Manager handles the output directory and duplicate detection. The
// set of filenames in the directory is the sole persisted state: a
// file with a derived name present on disk means the corresponding
// post was already processed.
type Manager struct {
	outputDir string
	existing  map[string]bool
	mu        sync.RWMutex
}

// NewManager creates a new storage manager. The output directory is
// created if needed and probed for writability; failure here is fatal
// for the run.
func NewManager(outputDir string) (*Manager, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, errors.New(errors.ErrorTypeFilesystem, fmt.Sprintf("failed to create output directory: %v", err), 0)
	}

	manager := &Manager{
		outputDir: outputDir,
		existing:  make(map[string]bool),
	}

	if err := manager.probeWritable(); err != nil {
		return nil, err
	}

	if err := manager.scanExistingFiles(); err != nil {
		return nil, fmt.Errorf("failed to scan existing files: %w", err)
	}

	return manager, nil
}

// probeWritable verifies the output directory accepts writes
func (m *Manager) probeWritable() error {
	probe := filepath.Join(m.outputDir, ".reeldl-probe")
	f, err := os.Create(probe)
	if err != nil {
		return errors.New(errors.ErrorTypeFilesystem, fmt.Sprintf("output directory is not writable: %v", err), 0)
	}
	f.Close()
	os.Remove(probe)
	return nil
}

// scanExistingFiles seeds the duplicate set from the directory listing
func (m *Manager) scanExistingFiles() error {
	entries, err := os.ReadDir(m.outputDir)
	if err != nil {
		return fmt.Errorf("failed to read directory: %w", err)
	}

	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == ".mp4" {
			m.existing[entry.Name()] = true
		}
	}

	return nil
}

// Exists checks if a file with the given name is already present in
// the output directory
func (m *Manager) Exists(filename string) bool {
	m.mu.RLock()
	found := m.existing[filename]
	m.mu.RUnlock()

	if found {
		return true
	}

	// Double-check the filesystem in case the file appeared after the
	// initial scan
	if _, err := os.Stat(filepath.Join(m.outputDir, filename)); err == nil {
		m.mu.Lock()
		m.existing[filename] = true
		m.mu.Unlock()
		return true
	}

	return false
}

// SaveVideo saves video data under the given filename atomically:
// data lands in a temp file which is renamed into place on success.
func (m *Manager) SaveVideo(r io.Reader, filename string) error {
	path := filepath.Join(m.outputDir, filename)

	tempFile := path + ".tmp"
	out, err := os.Create(tempFile)
	if err != nil {
		return errors.New(errors.ErrorTypeFilesystem, fmt.Sprintf("failed to create temporary file: %v", err), 0)
	}

	_, err = io.Copy(out, r)
	closeErr := out.Close()

	if err != nil {
		os.Remove(tempFile)
		return errors.New(errors.ErrorTypeFilesystem, fmt.Sprintf("failed to save video data: %v", err), 0)
	}

	if closeErr != nil {
		os.Remove(tempFile)
		return errors.New(errors.ErrorTypeFilesystem, fmt.Sprintf("failed to close file: %v", closeErr), 0)
	}

	if err := os.Rename(tempFile, path); err != nil {
		os.Remove(tempFile)
		return errors.New(errors.ErrorTypeFilesystem, fmt.Sprintf("failed to rename temporary file: %v", err), 0)
	}

	m.mu.Lock()
	m.existing[filename] = true
	m.mu.Unlock()

	return nil
}

// WriteCaptions writes a captions.json sidecar mapping filenames to
// their full captions
func (m *Manager) WriteCaptions(captions map[string]string) error {
	if len(captions) == 0 {
		return nil
	}

	data, err := json.MarshalIndent(captions, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal captions: %w", err)
	}

	path := filepath.Join(m.outputDir, "captions.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New(errors.ErrorTypeFilesystem, fmt.Sprintf("failed to write captions file: %v", err), 0)
	}

	return nil
}

// OutputDir returns the output directory path
func (m *Manager) OutputDir() string {
	return m.outputDir
}

// ExistingCount returns the number of video files known to be present
func (m *Manager) ExistingCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.existing)
}
