package models

import (
	"encoding/json"
	"testing"
)

func TestMovie(t *testing.T) {
	t.Run("HasPoster", func(t *testing.T) {
		tc := []struct {
			poster string
			want   bool
		}{
			{poster: "https://m.media-amazon.com/images/M/poster.jpg", want: true},
			{poster: "N/A", want: false},
			{poster: "", want: false},
			{poster: "  ", want: false},
		}
		for _, tt := range tc {
			if got := (Movie{Poster: tt.poster}).HasPoster(); got != tt.want {
				t.Errorf("HasPoster(%q) = %v, want %v", tt.poster, got, tt.want)
			}
		}
	})

	t.Run("Label and IMDbURL", func(t *testing.T) {
		m := Movie{Title: "Blade Runner", Year: "1982", ID: "tt0083658"}
		if m.Label() != "Blade Runner (1982)" {
			t.Errorf("unexpected label %q", m.Label())
		}
		if (Movie{Title: "Untitled"}).Label() != "Untitled" {
			t.Error("expected label without year")
		}
		if m.IMDbURL() != "https://www.imdb.com/title/tt0083658/" {
			t.Errorf("unexpected url %q", m.IMDbURL())
		}
	})

	t.Run("Validate", func(t *testing.T) {
		if err := (Movie{ID: "tt1", Title: "A"}).Validate(); err != nil {
			t.Errorf("expected valid movie, got %v", err)
		}
		if err := (Movie{Title: "A"}).Validate(); err == nil {
			t.Error("expected error for missing id")
		}
		if err := (Movie{ID: "tt1"}).Validate(); err == nil {
			t.Error("expected error for missing title")
		}
		for _, id := range []string{"../../escaped", "tt1/../x", `tt1\x`, "nm0000206", "tt", " tt1"} {
			if err := (Movie{ID: id, Title: "A"}).Validate(); err == nil {
				t.Errorf("expected error for id %q", id)
			}
		}
	})

	t.Run("JSON uses upstream field names", func(t *testing.T) {
		data, err := json.Marshal(Movie{Title: "Alien", Year: "1979", ID: "tt0078748", Type: "movie", Poster: "N/A"})
		if err != nil {
			t.Fatalf("marshal failed: %v", err)
		}
		want := `{"Title":"Alien","Year":"1979","imdbID":"tt0078748","Type":"movie","Poster":"N/A"}`
		if string(data) != want {
			t.Errorf("got %s, want %s", data, want)
		}
	})

	t.Run("MovieDetail decodes flat upstream record", func(t *testing.T) {
		raw := `{"Title":"Alien","Year":"1979","imdbID":"tt0078748","Type":"movie","Poster":"p.jpg","Plot":"In space.","Director":"Ridley Scott","imdbRating":"8.5","Response":"True"}`
		var d MovieDetail
		if err := json.Unmarshal([]byte(raw), &d); err != nil {
			t.Fatalf("unmarshal failed: %v", err)
		}
		if d.ID != "tt0078748" || d.Plot != "In space." || d.Director != "Ridley Scott" || d.IMDbRating != "8.5" {
			t.Errorf("unexpected detail %+v", d)
		}
		if s := d.Summary(); s.Title != "Alien" || s.Poster != "p.jpg" {
			t.Errorf("unexpected summary %+v", s)
		}
	})
}

func TestFavorites(t *testing.T) {
	alien := Movie{Title: "Alien", Year: "1979", ID: "tt0078748"}
	aliens := Movie{Title: "Aliens", Year: "1986", ID: "tt0090605"}

	t.Run("Add is idempotent by ID", func(t *testing.T) {
		var f Favorites
		if !f.Add(alien) {
			t.Fatal("expected first add to change the list")
		}
		renamed := alien
		renamed.Title = "Alien (Director's Cut)"
		if f.Add(renamed) {
			t.Error("expected second add with same ID to be a no-op")
		}
		if f.Len() != 1 {
			t.Errorf("expected 1 favorite, got %d", f.Len())
		}
		if got, _ := f.Get(alien.ID); got.Title != "Alien" {
			t.Errorf("expected original record to be kept, got %q", got.Title)
		}
	})

	t.Run("Remove absent ID is a no-op", func(t *testing.T) {
		f := NewFavorites([]Movie{alien})
		if f.Remove("tt0000000") {
			t.Error("expected removing unknown ID to be a no-op")
		}
		if f.Len() != 1 {
			t.Errorf("expected 1 favorite, got %d", f.Len())
		}
	})

	t.Run("Remove keeps order of remaining items", func(t *testing.T) {
		third := Movie{Title: "Alien 3", ID: "tt0103644"}
		f := NewFavorites([]Movie{alien, aliens, third})
		if !f.Remove(aliens.ID) {
			t.Fatal("expected remove to change the list")
		}
		items := f.Items()
		if len(items) != 2 || items[0].ID != alien.ID || items[1].ID != third.ID {
			t.Errorf("unexpected items after remove: %+v", items)
		}
	})

	t.Run("NewFavorites drops duplicate IDs", func(t *testing.T) {
		f := NewFavorites([]Movie{alien, aliens, alien})
		if f.Len() != 2 {
			t.Errorf("expected 2 favorites, got %d", f.Len())
		}
	})

	t.Run("Items and Clone are independent copies", func(t *testing.T) {
		f := NewFavorites([]Movie{alien, aliens})
		items := f.Items()
		items[0].Title = "changed"
		clone := f.Clone()
		clone.Remove(alien.ID)

		if got, _ := f.Get(alien.ID); got.Title != "Alien" {
			t.Error("mutating Items() result changed the list")
		}
		if f.Len() != 2 {
			t.Error("mutating a clone changed the original")
		}
	})

	t.Run("Update replaces in place", func(t *testing.T) {
		f := NewFavorites([]Movie{alien, aliens})
		fresh := alien
		fresh.Poster = "https://img/alien.jpg"

		if !f.Update(fresh) {
			t.Fatal("expected update to change the list")
		}
		if f.Update(fresh) {
			t.Error("expected identical update to be a no-op")
		}
		if f.Update(Movie{ID: "tt0000000", Title: "Unknown"}) {
			t.Error("expected update of absent ID to be a no-op")
		}
		if items := f.Items(); items[0].Poster != fresh.Poster || items[1].ID != aliens.ID || len(items) != 2 {
			t.Errorf("unexpected items after update: %+v", items)
		}
	})

	t.Run("zero value Items is empty, not nil", func(t *testing.T) {
		var f Favorites
		if items := f.Items(); items == nil || len(items) != 0 {
			t.Errorf("expected empty non-nil slice, got %#v", items)
		}
	})
}
