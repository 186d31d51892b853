package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/mvx/internal/models"
	"github.com/desertthunder/mvx/internal/services"
	"github.com/desertthunder/mvx/internal/session"
	"github.com/desertthunder/mvx/internal/shared"
	tu "github.com/desertthunder/mvx/internal/testing"
)

// newTestRunner builds a runner over doubles, running in an empty working directory.
func newTestRunner(t *testing.T, svc services.MovieService, store *tu.MemoryFavorites) (*Runner, *bytes.Buffer) {
	t.Helper()
	t.Chdir(t.TempDir())

	output := &bytes.Buffer{}
	r := NewRunner(RunnerOpts{
		Service: svc,
		Store:   store,
		Logger:  shared.NewLogger(io.Discard),
		Output:  output,
	})
	return r, output
}

func runApp(r *Runner, args ...string) error {
	return newApp(r).Run(context.Background(), append([]string{"mvx"}, args...))
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			httpClient := &http.Client{}
			svc := &tu.MockService{}
			store := &tu.MemoryFavorites{}

			runner := NewRunner(RunnerOpts{
				Config:     config,
				Logger:     logger,
				Output:     output,
				HTTPClient: httpClient,
				Service:    svc,
				Store:      store,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.httpClient != httpClient {
				t.Error("expected httpClient to be set")
			}
			if runner.movieService() != svc {
				t.Error("expected injected service to be used")
			}
			if got, err := runner.favoritesStore(); err != nil || got != store {
				t.Errorf("expected injected store, got %v (%v)", got, err)
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Config: nil})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Logger: nil})

			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: nil})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("with nil httpClient uses configured timeout", func(t *testing.T) {
			config := shared.DefaultConfig()
			runner := NewRunner(RunnerOpts{Config: config})

			if runner.httpClient == nil || runner.httpClient.Timeout != config.OMDb.Timeout() {
				t.Errorf("expected client with timeout %v, got %+v", config.OMDb.Timeout(), runner.httpClient)
			}
		})

		t.Run("with configPath sets field", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{ConfigPath: "/test/path/config.toml"})

			if runner.configPath != "/test/path/config.toml" {
				t.Errorf("expected configPath to be set, got %s", runner.configPath)
			}
		})
	})

	t.Run("movieService", func(t *testing.T) {
		t.Run("wraps OMDb in a breaker when enabled", func(t *testing.T) {
			config := shared.DefaultConfig()
			config.OMDb.Breaker.FailureThreshold = 3
			runner := NewRunner(RunnerOpts{Config: config})

			if _, ok := runner.movieService().(*services.BreakerService); !ok {
				t.Errorf("expected *services.BreakerService, got %T", runner.movieService())
			}
		})

		t.Run("uses OMDb directly when the breaker is disabled", func(t *testing.T) {
			config := shared.DefaultConfig()
			config.OMDb.Breaker.FailureThreshold = 0
			runner := NewRunner(RunnerOpts{Config: config})

			if _, ok := runner.movieService().(*services.OMDbService); !ok {
				t.Errorf("expected *services.OMDbService, got %T", runner.movieService())
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, true)

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			expected := `{"key":"value"}` + "\n"
			if output.String() != expected {
				t.Errorf("expected %q, got %q", expected, output.String())
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			// channels cannot be marshaled to JSON
			err := runner.writeJSON(make(chan int), false)

			if err == nil {
				t.Fatal("expected error for non-serializable data")
			}
			if !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)

			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			limitedWriter := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &limitedWriter})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)

			if err == nil {
				t.Fatal("expected error writing newline")
			}
			if !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlain("hello %s", "world"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if output.String() != "hello world" {
				t.Errorf("expected 'hello world', got %q", output.String())
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writePlain("test")

			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		want := map[string]bool{"setup": false, "search": false, "show": false, "favorites": false, "tui": false, "serve": false}
		for i, cmd := range commands {
			if cmd == nil {
				t.Fatalf("command at index %d is nil", i)
			}
			want[cmd.Name] = true
		}
		for name, found := range want {
			if !found {
				t.Errorf("expected %q to be registered", name)
			}
		}
	})
}

func TestBefore(t *testing.T) {
	t.Run("missing default config keeps injected config", func(t *testing.T) {
		r, _ := newTestRunner(t, &tu.MockService{}, &tu.MemoryFavorites{})
		config := r.config

		if err := runApp(r, "favorites", "list"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if r.config != config {
			t.Error("expected config to be unchanged")
		}
	})

	t.Run("explicit missing config fails", func(t *testing.T) {
		r, _ := newTestRunner(t, &tu.MockService{}, &tu.MemoryFavorites{})

		err := runApp(r, "--config", "nope.toml", "favorites", "list")
		if !errors.Is(err, shared.ErrMissingConfig) {
			t.Errorf("expected ErrMissingConfig, got %v", err)
		}
	})

	t.Run("loads config file and applies verbose", func(t *testing.T) {
		r, _ := newTestRunner(t, &tu.MockService{}, &tu.MemoryFavorites{})
		data := "[logging]\nlevel = \"warn\"\n\n[export]\nworkers = 7\n"
		if err := os.WriteFile("custom.toml", []byte(data), 0644); err != nil {
			t.Fatal(err)
		}

		if err := runApp(r, "-c", "custom.toml", "--verbose", "favorites", "list"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if r.config.Export.Workers != 7 || r.configPath != "custom.toml" {
			t.Errorf("expected custom config to be loaded, got workers=%d path=%q", r.config.Export.Workers, r.configPath)
		}
		if r.logger.GetLevel().String() != "debug" {
			t.Errorf("expected debug level, got %v", r.logger.GetLevel())
		}
	})
}

func TestSetup(t *testing.T) {
	t.Run("creates config and database", func(t *testing.T) {
		r, output := newTestRunner(t, &tu.MockService{}, &tu.MemoryFavorites{})

		if err := runApp(r, "setup"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		tu.AssertFileExists(t, defaultConfigPath)
		tu.AssertFileExists(t, "mvx.db")
		if !strings.Contains(output.String(), "Database ready: ./mvx.db (schema 0000_create_kv_store, 1 applied now)") {
			t.Errorf("unexpected output: %s", output.String())
		}
		if !strings.Contains(output.String(), shared.EnvAPIKey) {
			t.Errorf("expected API key hint, got %s", output.String())
		}
	})

	t.Run("rollback reverts the latest migration", func(t *testing.T) {
		r, output := newTestRunner(t, &tu.MockService{}, &tu.MemoryFavorites{})

		if err := runApp(r, "setup"); err != nil {
			t.Fatalf("setup: %v", err)
		}
		output.Reset()

		if err := runApp(r, "setup", "--rollback"); err != nil {
			t.Fatalf("setup --rollback: %v", err)
		}
		if !strings.Contains(output.String(), "✓ Rolled back 0000_create_kv_store") {
			t.Errorf("unexpected output: %s", output.String())
		}

		output.Reset()
		if err := runApp(r, "setup", "--rollback"); err != nil {
			t.Fatalf("second rollback: %v", err)
		}
		if !strings.Contains(output.String(), "Nothing to roll back.") {
			t.Errorf("unexpected output: %s", output.String())
		}

		output.Reset()
		if err := runApp(r, "setup"); err != nil {
			t.Fatalf("setup after rollback: %v", err)
		}
		if !strings.Contains(output.String(), "1 applied now") {
			t.Errorf("expected migration to be reapplied, got %s", output.String())
		}
	})
}

func TestSearch(t *testing.T) {
	t.Run("prints results", func(t *testing.T) {
		svc := &tu.MockService{Movies: tu.SampleMovies()}
		r, output := newTestRunner(t, svc, &tu.MemoryFavorites{})

		if err := runApp(r, "search", "--year", "1999", "the", "matrix"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(svc.SearchCalls) != 1 {
			t.Fatalf("expected one search, got %d", len(svc.SearchCalls))
		}
		if q := svc.SearchCalls[0]; q.Title != "the matrix" || q.Year != "1999" || q.Page != 1 {
			t.Errorf("unexpected query: %+v", q)
		}
		if !strings.Contains(output.String(), "1. tt0133093  The Matrix (1999) [movie]") {
			t.Errorf("unexpected output: %s", output.String())
		}
	})

	t.Run("json output", func(t *testing.T) {
		r, output := newTestRunner(t, &tu.MockService{Movies: tu.SampleMovies()}, &tu.MemoryFavorites{})

		if err := runApp(r, "search", "--json", "matrix"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		var movies []models.Movie
		if err := json.Unmarshal(output.Bytes(), &movies); err != nil {
			t.Fatalf("expected JSON array, got %q: %v", output.String(), err)
		}
		if len(movies) != 3 || movies[0].ID != "tt0133093" {
			t.Errorf("unexpected movies: %+v", movies)
		}
	})

	t.Run("no results prints message", func(t *testing.T) {
		r, output := newTestRunner(t, &tu.MockService{}, &tu.MemoryFavorites{})

		if err := runApp(r, "search", "zzzz"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if strings.TrimSpace(output.String()) != session.MsgNoResults {
			t.Errorf("expected %q, got %q", session.MsgNoResults, output.String())
		}
	})

	t.Run("upstream failure is returned", func(t *testing.T) {
		svc := &tu.MockService{
			SearchFunc: func(ctx context.Context, q services.SearchQuery) (*models.SearchResult, error) {
				return nil, fmt.Errorf("%w: status 500", shared.ErrAPIRequest)
			},
		}
		r, _ := newTestRunner(t, svc, &tu.MemoryFavorites{})

		if err := runApp(r, "search", "matrix"); !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})

	t.Run("blank title makes no request", func(t *testing.T) {
		svc := &tu.MockService{}
		r, _ := newTestRunner(t, svc, &tu.MemoryFavorites{})

		if err := runApp(r, "search", "  "); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
		if n, _ := svc.Calls(); n != 0 {
			t.Errorf("expected no search calls, got %d", n)
		}
	})
}

func TestShow(t *testing.T) {
	t.Run("prints detail", func(t *testing.T) {
		r, output := newTestRunner(t, &tu.MockService{Detail: tu.SampleDetails()}, &tu.MemoryFavorites{})

		if err := runApp(r, "show", "tt0133093"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		for _, want := range []string{"The Matrix (1999)", "Director:", "https://www.imdb.com/title/tt0133093/", "Plot of The Matrix."} {
			if !strings.Contains(output.String(), want) {
				t.Errorf("expected output to contain %q, got %s", want, output.String())
			}
		}
	})

	t.Run("json and open", func(t *testing.T) {
		r, output := newTestRunner(t, &tu.MockService{Detail: tu.SampleDetails()}, &tu.MemoryFavorites{})
		var opened string
		r.openMovie = func(m models.Movie) (string, error) {
			opened = m.IMDbURL()
			return opened, nil
		}

		if err := runApp(r, "show", "--json", "--open", "tt0133093"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if opened != "https://www.imdb.com/title/tt0133093/" {
			t.Errorf("expected IMDb page to be opened, got %q", opened)
		}
		var detail models.MovieDetail
		if err := json.Unmarshal(output.Bytes(), &detail); err != nil || detail.Plot != "Plot of The Matrix." {
			t.Errorf("unexpected JSON %q: %v", output.String(), err)
		}
	})

	t.Run("browser failure is not fatal", func(t *testing.T) {
		r, _ := newTestRunner(t, &tu.MockService{Detail: tu.SampleDetails()}, &tu.MemoryFavorites{})
		r.openMovie = func(models.Movie) (string, error) { return "", errors.New("no browser") }

		if err := runApp(r, "show", "--open", "tt0133093"); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	t.Run("not found", func(t *testing.T) {
		r, _ := newTestRunner(t, &tu.MockService{}, &tu.MemoryFavorites{})

		if err := runApp(r, "show", "tt0000000"); !errors.Is(err, shared.ErrMovieNotFound) {
			t.Errorf("expected ErrMovieNotFound, got %v", err)
		}
	})

	t.Run("missing id", func(t *testing.T) {
		r, _ := newTestRunner(t, &tu.MockService{}, &tu.MemoryFavorites{})

		if err := runApp(r, "show"); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})
}

func TestFavorites(t *testing.T) {
	t.Run("add stores the summary once", func(t *testing.T) {
		svc := &tu.MockService{Detail: tu.SampleDetails()}
		store := &tu.MemoryFavorites{}
		r, output := newTestRunner(t, svc, store)

		if err := runApp(r, "favorites", "add", "tt0133093"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if err := runApp(r, "favorites", "add", "tt0133093"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if store.SaveCount() != 1 {
			t.Errorf("expected one save, got %d", store.SaveCount())
		}
		if len(store.Stored) != 1 || store.Stored[0] != tu.SampleMovies()[0] {
			t.Errorf("unexpected stored favorites: %+v", store.Stored)
		}
		if _, details := svc.Calls(); details != 1 {
			t.Errorf("expected one detail lookup, got %d", details)
		}
		if !strings.Contains(output.String(), "✓ Added The Matrix (1999)") || !strings.Contains(output.String(), "Already in favorites") {
			t.Errorf("unexpected output: %s", output.String())
		}
	})

	t.Run("add of unknown id stores nothing", func(t *testing.T) {
		store := &tu.MemoryFavorites{}
		r, _ := newTestRunner(t, &tu.MockService{}, store)

		if err := runApp(r, "favorites", "add", "tt0000000"); !errors.Is(err, shared.ErrMovieNotFound) {
			t.Errorf("expected ErrMovieNotFound, got %v", err)
		}
		if store.SaveCount() != 0 {
			t.Errorf("expected no saves, got %d", store.SaveCount())
		}
	})

	t.Run("remove", func(t *testing.T) {
		store := &tu.MemoryFavorites{Stored: tu.SampleMovies()}
		r, output := newTestRunner(t, &tu.MockService{}, store)

		if err := runApp(r, "favorites", "rm", "tt0234215"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if err := runApp(r, "favorites", "remove", "tt9999999"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if store.SaveCount() != 1 || len(store.Stored) != 2 {
			t.Errorf("expected one save leaving 2 favorites, got %d saves, %+v", store.SaveCount(), store.Stored)
		}
		if !strings.Contains(output.String(), "Not in favorites: tt9999999") {
			t.Errorf("unexpected output: %s", output.String())
		}
	})

	t.Run("persist failure is reported", func(t *testing.T) {
		store := &tu.MemoryFavorites{SaveErr: errors.New("disk full")}
		r, _ := newTestRunner(t, &tu.MockService{Detail: tu.SampleDetails()}, store)

		if err := runApp(r, "favorites", "add", "tt0133093"); !errors.Is(err, shared.ErrPersist) {
			t.Errorf("expected ErrPersist, got %v", err)
		}
	})

	t.Run("list", func(t *testing.T) {
		r, output := newTestRunner(t, &tu.MockService{}, &tu.MemoryFavorites{Stored: tu.SampleMovies()})

		if err := runApp(r, "favorites", "list"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "Favorites (3):") || !strings.Contains(output.String(), "3. tt0242653") {
			t.Errorf("unexpected output: %s", output.String())
		}
	})

	t.Run("list shows when the database was last saved", func(t *testing.T) {
		t.Chdir(t.TempDir())
		svc := &tu.MockService{Detail: tu.SampleDetails()}
		newRunner := func(out *bytes.Buffer) *Runner {
			return NewRunner(RunnerOpts{Service: svc, Logger: shared.NewLogger(io.Discard), Output: out})
		}

		if err := runApp(newRunner(&bytes.Buffer{}), "favorites", "add", "tt0133093"); err != nil {
			t.Fatalf("add: %v", err)
		}

		output := &bytes.Buffer{}
		if err := runApp(newRunner(output), "favorites", "list"); err != nil {
			t.Fatalf("list: %v", err)
		}
		if !strings.Contains(output.String(), "1. tt0133093") || !strings.Contains(output.String(), "Last saved: ") {
			t.Errorf("unexpected output: %s", output.String())
		}
	})

	t.Run("list empty", func(t *testing.T) {
		r, output := newTestRunner(t, &tu.MockService{}, &tu.MemoryFavorites{})

		if err := runApp(r, "favorites", "list"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "No favorites yet") {
			t.Errorf("unexpected output: %s", output.String())
		}
	})

	t.Run("list json", func(t *testing.T) {
		r, output := newTestRunner(t, &tu.MockService{}, &tu.MemoryFavorites{Stored: tu.SampleMovies()})

		if err := runApp(r, "fav", "ls", "--json"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		var movies []models.Movie
		if err := json.Unmarshal(output.Bytes(), &movies); err != nil || len(movies) != 3 {
			t.Errorf("unexpected JSON %q: %v", output.String(), err)
		}
	})

	t.Run("list reports corrupt store as empty", func(t *testing.T) {
		store := &tu.MemoryFavorites{LoadErr: fmt.Errorf("%w: bad json", shared.ErrCorruptData)}
		r, output := newTestRunner(t, &tu.MockService{}, store)

		if err := runApp(r, "favorites", "list"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "No favorites yet") {
			t.Errorf("unexpected output: %s", output.String())
		}
	})
}

func TestFavoritesExport(t *testing.T) {
	t.Run("csv with details", func(t *testing.T) {
		svc := &tu.MockService{Detail: tu.SampleDetails()}
		r, output := newTestRunner(t, svc, &tu.MemoryFavorites{Stored: tu.SampleMovies()})

		err := runApp(r, "favorites", "export", "--format", "csv", "--output", "out", "--details", "--rate", "1000")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		tu.AssertFileExists(t, filepath.Join("out", "favorites.csv"))
		tu.AssertFileExists(t, filepath.Join("out", "export_manifest.json"))
		for _, want := range []string{"Export Complete", "Format: csv", "Movies: 3", "Details: 3 fetched, 0 failed"} {
			if !strings.Contains(output.String(), want) {
				t.Errorf("expected output to contain %q, got %s", want, output.String())
			}
		}
	})

	t.Run("unknown format", func(t *testing.T) {
		r, _ := newTestRunner(t, &tu.MockService{}, &tu.MemoryFavorites{})

		err := runApp(r, "favorites", "export", "--format", "pdf")
		if !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag, got %v", err)
		}
	})
}

func TestFavoritesRefresh(t *testing.T) {
	t.Run("stores fresh summaries", func(t *testing.T) {
		stale := tu.SampleMovies()
		stale[0].Poster = "https://img.example/old.jpg"
		stale = append(stale, models.Movie{ID: "tt0000001", Title: "Gone"})

		store := &tu.MemoryFavorites{Stored: stale}
		r, output := newTestRunner(t, &tu.MockService{Detail: tu.SampleDetails()}, store)

		if err := runApp(r, "favorites", "refresh", "--workers", "2", "--rate", "1000"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if store.SaveCount() != 1 {
			t.Errorf("expected one save, got %d", store.SaveCount())
		}
		if len(store.Stored) != 4 || store.Stored[0] != tu.SampleMovies()[0] || store.Stored[3].ID != "tt0000001" {
			t.Errorf("unexpected stored favorites: %+v", store.Stored)
		}
		if !strings.Contains(output.String(), "Refreshed 3/4 favorites, 1 updated") || !strings.Contains(output.String(), "✗ Gone (tt0000001)") {
			t.Errorf("unexpected output: %s", output.String())
		}
	})

	t.Run("nothing to refresh", func(t *testing.T) {
		svc := &tu.MockService{}
		r, output := newTestRunner(t, svc, &tu.MemoryFavorites{})

		if err := runApp(r, "favorites", "refresh"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "No favorites to refresh") {
			t.Errorf("unexpected output: %s", output.String())
		}
		if _, details := svc.Calls(); details != 0 {
			t.Errorf("expected no lookups, got %d", details)
		}
	})
}

func TestServe(t *testing.T) {
	r, _ := newTestRunner(t, &tu.MockService{}, &tu.MemoryFavorites{})

	err := runApp(r, "serve", "--host", "127.0.0.1", "--port", "99999")
	if err == nil || !strings.Contains(err.Error(), "failed to listen") {
		t.Errorf("expected listen error, got %v", err)
	}
}
