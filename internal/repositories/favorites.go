package repositories

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/mvx/internal/models"
	"github.com/desertthunder/mvx/internal/shared"
)

// FavoritesKey is the key the serialized favorites array lives under.
const FavoritesKey = "favorites"

// FavoritesStore loads and saves the whole favorites list.
type FavoritesStore interface {
	Load() (models.Favorites, error)
	Save(favs models.Favorites) error
}

// SaveTimes is implemented by stores that record when favorites were last written.
type SaveTimes interface {
	// LastSaved returns the time of the latest save. The bool is false when nothing was saved.
	LastSaved() (time.Time, bool, error)
}

var (
	_ FavoritesStore = (*FavoritesRepository)(nil)
	_ SaveTimes      = (*FavoritesRepository)(nil)
)

// FavoritesRepository keeps favorites as one JSON array under [FavoritesKey] of a [KVStore].
type FavoritesRepository struct {
	kv  KVStore
	key string
}

// NewFavoritesRepository creates a new [FavoritesRepository] backed by kv
func NewFavoritesRepository(kv KVStore) *FavoritesRepository {
	return &FavoritesRepository{kv: kv, key: FavoritesKey}
}

// Load reads the stored array.
//
// A missing key or a stored null is an empty list. Anything that is not a JSON
// array of movies yields [shared.ErrCorruptData].
func (r *FavoritesRepository) Load() (models.Favorites, error) {
	raw, ok, err := r.kv.Get(r.key)
	if err != nil {
		return models.Favorites{}, fmt.Errorf("failed to read favorites: %w", err)
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return models.Favorites{}, nil
	}

	var movies []models.Movie
	if err := json.Unmarshal([]byte(raw), &movies); err != nil {
		return models.Favorites{}, fmt.Errorf("%w: favorites: %v", shared.ErrCorruptData, err)
	}

	return models.NewFavorites(movies), nil
}

// Save overwrites the stored array with favs.
func (r *FavoritesRepository) Save(favs models.Favorites) error {
	data, err := json.Marshal(favs.Items())
	if err != nil {
		return fmt.Errorf("failed to encode favorites: %w", err)
	}

	if err := r.kv.Set(r.key, string(data)); err != nil {
		return fmt.Errorf("failed to write favorites: %w", err)
	}

	return nil
}

// LastSaved reports when the favorites key was last written, when kv tracks write times.
func (r *FavoritesRepository) LastSaved() (time.Time, bool, error) {
	kv, ok := r.kv.(interface {
		UpdatedAt(key string) (time.Time, bool, error)
	})
	if !ok {
		return time.Time{}, false, nil
	}
	return kv.UpdatedAt(r.key)
}
