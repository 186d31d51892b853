package models

// Favorites is an ordered list of [Movie] records, unique by ID.
//
// The zero value is an empty list ready to use. Favorites is not safe for
// concurrent use; callers that share one guard it themselves.
type Favorites struct {
	items []Movie
}

// NewFavorites builds a list from movies, keeping the first occurrence of each ID.
func NewFavorites(movies []Movie) Favorites {
	var f Favorites
	for _, m := range movies {
		f.Add(m)
	}
	return f
}

// Add appends m unless a movie with the same ID is already present. It reports whether the list changed.
func (f *Favorites) Add(m Movie) bool {
	if f.Contains(m.ID) {
		return false
	}
	f.items = append(f.items, m)
	return true
}

// Remove drops the movie with the given ID. It reports whether the list changed.
func (f *Favorites) Remove(id string) bool {
	for i, m := range f.items {
		if m.ID == id {
			f.items = append(f.items[:i:i], f.items[i+1:]...)
			return true
		}
	}
	return false
}

// Update replaces the record with m's ID by m, keeping its position.
// It reports whether the stored record differed.
func (f *Favorites) Update(m Movie) bool {
	for i, cur := range f.items {
		if cur.ID == m.ID {
			if cur == m {
				return false
			}
			f.items[i] = m
			return true
		}
	}
	return false
}

// Contains reports whether a movie with the given ID is present.
func (f Favorites) Contains(id string) bool {
	for _, m := range f.items {
		if m.ID == id {
			return true
		}
	}
	return false
}

// Get returns the favorite with the given ID.
func (f Favorites) Get(id string) (Movie, bool) {
	for _, m := range f.items {
		if m.ID == id {
			return m, true
		}
	}
	return Movie{}, false
}

func (f Favorites) Len() int { return len(f.items) }

// Items returns a copy of the list in insertion order. It is never nil.
func (f Favorites) Items() []Movie {
	out := make([]Movie, len(f.items))
	copy(out, f.items)
	return out
}

// Clone returns an independent copy.
func (f Favorites) Clone() Favorites {
	return Favorites{items: f.Items()}
}
