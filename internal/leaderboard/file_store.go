package leaderboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	models "github.com/CodeAndHammer/typeproof/internal/models"
)

// FileStore keeps the board as a human-readable JSON array. Writes go to a
// temp file in the same directory and are renamed over the old file.
type FileStore struct {
	mu   sync.Mutex
	path string
}

func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create leaderboard directory: %w", err)
	}
	return &FileStore{path: path}, nil
}

func (s *FileStore) Append(_ context.Context, record models.ScoreRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.read()
	if err != nil {
		return err
	}
	records = Rank(append(records, record))
	return s.write(records)
}

func (s *FileStore) List(_ context.Context) ([]models.ScoreRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

func (s *FileStore) Close() error {
	return nil
}

func (s *FileStore) read() ([]models.ScoreRecord, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []models.ScoreRecord{}, nil
		}
		return nil, fmt.Errorf("failed to read leaderboard: %w", err)
	}
	records := []models.ScoreRecord{}
	if len(data) == 0 {
		return records, nil
	}
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to decode leaderboard: %w", err)
	}
	if records == nil {
		records = []models.ScoreRecord{}
	}
	return records, nil
}

func (s *FileStore) write(records []models.ScoreRecord) (err error) {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode leaderboard: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp leaderboard file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write leaderboard: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to sync leaderboard: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close leaderboard: %w", err)
	}
	if err = os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace leaderboard: %w", err)
	}
	return nil
}
