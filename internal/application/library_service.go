package application

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/arenatv/backend/internal/domain"
	"github.com/arenatv/backend/internal/infrastructure/storage"
	"github.com/arenatv/backend/internal/pkg/logger"
)

// Storage keys for the two persisted lists.
const (
	favoritesKey = "favorites"
	historyKey   = "watch_history"
)

// maxHistoryEntries caps the watch history; the oldest entries are evicted
// once the cap is exceeded.
const maxHistoryEntries = 50

// FavoritesService owns the favorites list. Favorites form a set keyed by
// item ID; the in-memory list is authoritative and every mutation is
// persisted best-effort.
type FavoritesService struct {
	store    storage.KV
	notifier Notifier

	mu    sync.Mutex
	items []domain.FavoriteItem
}

// NewFavoritesService loads the persisted favorites. A missing or corrupt
// record yields an empty list.
func NewFavoritesService(store storage.KV, notifier Notifier) *FavoritesService {
	s := &FavoritesService{store: store, notifier: notifier}
	s.items = loadList[domain.FavoriteItem](store, favoritesKey)
	return s
}

// Add inserts an item unless its ID is already present. Surfaces a one-shot
// notification on insert.
func (s *FavoritesService) Add(item domain.FavoriteItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, it := range s.items {
		if it.ID == item.ID {
			return
		}
	}
	if item.AddedAt.IsZero() {
		item.AddedAt = time.Now()
	}
	s.items = append([]domain.FavoriteItem{item}, s.items...)
	persistList(s.store, favoritesKey, s.items)
	s.notifier.Notify(NotifyInfo, fmt.Sprintf("Added to favorites: %s", item.Title))
}

// Remove deletes the item with the given ID, if present.
func (s *FavoritesService) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, it := range s.items {
		if it.ID == id {
			title := it.Title
			s.items = append(s.items[:i], s.items[i+1:]...)
			persistList(s.store, favoritesKey, s.items)
			s.notifier.Notify(NotifyInfo, fmt.Sprintf("Removed from favorites: %s", title))
			return
		}
	}
}

// Toggle adds the item when absent and removes it when present. Returns true
// when the item ended up favorited.
func (s *FavoritesService) Toggle(item domain.FavoriteItem) bool {
	if s.Has(item.ID) {
		s.Remove(item.ID)
		return false
	}
	s.Add(item)
	return true
}

// Has reports membership by ID.
func (s *FavoritesService) Has(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range s.items {
		if it.ID == id {
			return true
		}
	}
	return false
}

// List returns a copy of the favorites.
func (s *FavoritesService) List() []domain.FavoriteItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.FavoriteItem, len(s.items))
	copy(out, s.items)
	return out
}

// FilterByType returns the favorites of one media type.
func (s *FavoritesService) FilterByType(t domain.MediaType) []domain.FavoriteItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.FavoriteItem
	for _, it := range s.items {
		if it.Type == t {
			out = append(out, it)
		}
	}
	return out
}

// Clear removes all favorites.
func (s *FavoritesService) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	persistList(s.store, favoritesKey, s.items)
}

// HistoryService owns the watch history: a most-recently-watched-first list
// with at most one entry per ID, capped at maxHistoryEntries.
type HistoryService struct {
	store storage.KV

	mu    sync.Mutex
	items []domain.WatchHistoryItem
}

// NewHistoryService loads the persisted history. A missing or corrupt record
// yields an empty list.
func NewHistoryService(store storage.KV) *HistoryService {
	s := &HistoryService{store: store}
	s.items = loadList[domain.WatchHistoryItem](store, historyKey)
	return s
}

// Add records a playback. An existing entry with the same ID is removed
// before reinsertion at the head with a fresh timestamp, and the list is
// truncated to the cap afterwards.
func (s *HistoryService) Add(item domain.WatchHistoryItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, it := range s.items {
		if it.ID == item.ID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			break
		}
	}
	if item.Timestamp.IsZero() {
		item.Timestamp = time.Now()
	}
	s.items = append([]domain.WatchHistoryItem{item}, s.items...)
	if len(s.items) > maxHistoryEntries {
		s.items = s.items[:maxHistoryEntries]
	}
	persistList(s.store, historyKey, s.items)
}

// Remove deletes the entry with the given ID, if present.
func (s *HistoryService) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, it := range s.items {
		if it.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			persistList(s.store, historyKey, s.items)
			return
		}
	}
}

// Has reports membership by ID.
func (s *HistoryService) Has(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range s.items {
		if it.ID == id {
			return true
		}
	}
	return false
}

// List returns a copy of the history, most recent first.
func (s *HistoryService) List() []domain.WatchHistoryItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.WatchHistoryItem, len(s.items))
	copy(out, s.items)
	return out
}

// Clear removes all history entries.
func (s *HistoryService) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	persistList(s.store, historyKey, s.items)
}

// loadList reads and decodes a persisted list. Any failure yields an empty
// list, never an error.
func loadList[T any](store storage.KV, key string) []T {
	raw, err := store.Get(context.Background(), key)
	if err != nil {
		return nil
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("Discarding corrupt persisted list")
		return nil
	}
	return items
}

// persistList writes the full list to storage. A failure (quota exceeded,
// backend unavailable) is swallowed; the in-memory list stays authoritative
// for the session.
func persistList(store storage.KV, key string, items any) {
	data, err := json.Marshal(items)
	if err != nil {
		return
	}
	if err := store.Set(context.Background(), key, data); err != nil {
		logger.Debug().Err(err).Str("key", key).Msg("Persist failed, keeping in-memory state")
	}
}
