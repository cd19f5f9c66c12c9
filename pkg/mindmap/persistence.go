package mindmap

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang/snappy"

	"github.com/dd0wney/mindmapr/pkg/logging"
)

const (
	mapFileSuffix = ".json.sz"
	indexFileName = "index.json"
)

// indexEntry mirrors the original per-user maps index: id -> title and
// timestamps. Counts are derivable but stored so listing never needs the
// full documents.
type indexEntry struct {
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	NodeCount int       `json:"nodeCount"`
	EdgeCount int       `json:"edgeCount"`
}

func (fs *FileStore) ownerDir(ownerID string) string {
	return filepath.Join(fs.dataDir, ownerID)
}

func (fs *FileStore) mapsDir(ownerID string) string {
	return filepath.Join(fs.ownerDir(ownerID), "maps")
}

func (fs *FileStore) mapPath(ownerID, mapID string) string {
	return filepath.Join(fs.mapsDir(ownerID), mapID+mapFileSuffix)
}

func (fs *FileStore) indexPath(ownerID string) string {
	return filepath.Join(fs.ownerDir(ownerID), indexFileName)
}

// persistMap writes one map document to disk: JSON, snappy-compressed,
// written to a temp file and renamed into place. Callers must hold fs.mu.
func (fs *FileStore) persistMap(m *Map) error {
	if err := os.MkdirAll(fs.mapsDir(m.OwnerID), 0755); err != nil {
		return fmt.Errorf("failed to create maps directory: %w", err)
	}

	data, err := json.Marshal(m.Document())
	if err != nil {
		return fmt.Errorf("failed to marshal map: %w", err)
	}
	compressed := snappy.Encode(nil, data)

	path := fs.mapPath(m.OwnerID, m.ID)
	tmpPath := path + ".tmp"

	if err := os.WriteFile(tmpPath, compressed, filePermissions); err != nil {
		return fmt.Errorf("failed to write map file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename map file: %w", err)
	}
	return nil
}

// persistIndex rewrites the owner's index.json. Callers must hold fs.mu.
func (fs *FileStore) persistIndex(ownerID string) error {
	state, ok := fs.owners[ownerID]
	if !ok {
		return nil
	}

	index := make(map[string]indexEntry, len(state.maps))
	for id, m := range state.maps {
		index[id] = indexEntry{
			Title:     m.Title,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
			NodeCount: len(m.Nodes),
			EdgeCount: len(m.Edges),
		}
	}

	data, err := json.MarshalIndent(index, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal index: %w", err)
	}

	path := fs.indexPath(ownerID)
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, filePermissions); err != nil {
		return fmt.Errorf("failed to write index: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename index: %w", err)
	}
	return nil
}

// loadAll scans the data directory and loads every owner's maps
func (fs *FileStore) loadAll() error {
	entries, err := os.ReadDir(fs.dataDir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		ownerID := entry.Name()
		if err := fs.loadOwner(ownerID); err != nil {
			return fmt.Errorf("owner %s: %w", ownerID, err)
		}
	}
	return nil
}

// loadOwner loads all map documents for one owner
func (fs *FileStore) loadOwner(ownerID string) error {
	mapsDir := fs.mapsDir(ownerID)
	entries, err := os.ReadDir(mapsDir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	state := fs.ownerState(ownerID)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, mapFileSuffix) {
			continue
		}

		m, err := readMapFile(filepath.Join(mapsDir, name))
		if err != nil {
			// A single corrupt document should not take the store down
			fs.logger.Warn("skipping unreadable map file",
				logging.Path(name), logging.Error(err))
			continue
		}
		if m.OwnerID == "" {
			m.OwnerID = ownerID
		}
		state.maps[m.ID] = m
	}

	fs.logger.Info("loaded owner maps",
		logging.UserID(ownerID), logging.Count(len(state.maps)))
	return nil
}

// readMapFile reads and decompresses one map document
func readMapFile(path string) (*Map, error) {
	compressed, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	data, err := snappy.Decode(nil, compressed)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal: %w", err)
	}
	return doc.ToMap(), nil
}
