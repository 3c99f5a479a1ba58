package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"StockPulse/internal/domain/models"
	domrepo "StockPulse/internal/domain/repository"
)

// FileWatchlist keeps the watchlist in a JSON file. Read-modify-write
// cycles are serialized by mu; concurrent processes are not coordinated.
type FileWatchlist struct {
	path string
	mu   sync.Mutex
}

func NewFileWatchlist(path string) domrepo.WatchlistStore {
	return &FileWatchlist{path: path}
}

func (s *FileWatchlist) List(_ context.Context) ([]models.WatchlistItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, _, err := s.load()
	return items, err
}

func (s *FileWatchlist) Add(_ context.Context, item models.WatchlistItem) ([]models.WatchlistItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, _, err := s.load()
	if err != nil {
		return nil, err
	}
	items, err = appendUnique(items, item)
	if err != nil {
		return nil, err
	}
	if err := s.save(items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *FileWatchlist) Remove(_ context.Context, symbol string) ([]models.WatchlistItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, exists, err := s.load()
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, models.ErrWatchlistEmpty
	}
	items = without(items, symbol)
	if err := s.save(items); err != nil {
		return nil, err
	}
	return items, nil
}

// load reports whether the file exists. A missing file is an empty list.
func (s *FileWatchlist) load() ([]models.WatchlistItem, bool, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []models.WatchlistItem{}, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read watchlist: %w", err)
	}
	items, err := decodeItems(data)
	if err != nil {
		return nil, true, fmt.Errorf("watchlist %s: %w", s.path, err)
	}
	return items, true, nil
}

// save writes through a temp file so a crash never leaves half a list.
func (s *FileWatchlist) save(items []models.WatchlistItem) error {
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("encode watchlist: %w", err)
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create watchlist dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".watchlist-*")
	if err != nil {
		return fmt.Errorf("write watchlist: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write watchlist: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write watchlist: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("write watchlist: %w", err)
	}
	return nil
}

func decodeItems(data []byte) ([]models.WatchlistItem, error) {
	items := []models.WatchlistItem{}
	if len(data) == 0 {
		return items, nil
	}
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if items == nil {
		items = []models.WatchlistItem{}
	}
	return items, nil
}

func appendUnique(items []models.WatchlistItem, item models.WatchlistItem) ([]models.WatchlistItem, error) {
	for _, it := range items {
		if it.Symbol == item.Symbol {
			return nil, models.ErrWatchlistDuplicate
		}
	}
	return append(items, item), nil
}

// without drops every item with symbol.
func without(items []models.WatchlistItem, symbol string) []models.WatchlistItem {
	out := make([]models.WatchlistItem, 0, len(items))
	for _, it := range items {
		if it.Symbol != symbol {
			out = append(out, it)
		}
	}
	return out
}
