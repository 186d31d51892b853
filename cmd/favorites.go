package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/mvx/internal/formatter"
	"github.com/desertthunder/mvx/internal/repositories"
	"github.com/desertthunder/mvx/internal/shared"
	"github.com/desertthunder/mvx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// FavoritesList prints the stored favorites in insertion order.
func (r *Runner) FavoritesList(ctx context.Context, cmd *cli.Command) error {
	sess, err := r.session()
	if err != nil {
		return err
	}

	movies := sess.Favorites()
	if cmd.Bool("json") {
		return r.writeJSON(movies, cmd.Bool("pretty"))
	}

	if len(movies) == 0 {
		return r.writePlain("No favorites yet. Add one with 'mvx favorites add <id>'.\n")
	}

	r.writePlain("Favorites (%d):\n\n", len(movies))
	if err := r.writePlain("%s", formatter.MoviesToText(movies)); err != nil {
		return err
	}

	if st, ok := r.store.(repositories.SaveTimes); ok {
		saved, found, err := st.LastSaved()
		switch {
		case err != nil:
			r.logger.Debug("failed to read save time", "error", err)
		case found:
			return r.writePlain("\nLast saved: %s\n", saved.Local().Format("2006-01-02 15:04"))
		}
	}
	return nil
}

// FavoritesAdd looks the identifier up and stores its summary.
func (r *Runner) FavoritesAdd(ctx context.Context, cmd *cli.Command) error {
	id := strings.TrimSpace(cmd.StringArg("id"))
	if id == "" {
		return fmt.Errorf("%w: movie id is required", shared.ErrMissingArgument)
	}

	sess, err := r.session()
	if err != nil {
		return err
	}

	if sess.IsFavorite(id) {
		return r.writePlain("Already in favorites: %s\n", id)
	}

	detail, err := r.movieService().Details(ctx, id)
	if err != nil {
		return err
	}

	movie := detail.Summary()
	changed, err := sess.AddFavorite(movie)
	if err != nil {
		return err
	}
	if !changed {
		return r.writePlain("Already in favorites: %s\n", movie.Label())
	}

	r.logger.Info("added favorite", "id", movie.ID, "title", movie.Title)
	return r.writePlain("✓ Added %s\n", movie.Label())
}

// FavoritesRemove drops the identifier from favorites. An absent identifier is not an error.
func (r *Runner) FavoritesRemove(ctx context.Context, cmd *cli.Command) error {
	id := strings.TrimSpace(cmd.StringArg("id"))
	if id == "" {
		return fmt.Errorf("%w: movie id is required", shared.ErrMissingArgument)
	}

	sess, err := r.session()
	if err != nil {
		return err
	}

	changed, err := sess.RemoveFavorite(id)
	if err != nil {
		return err
	}
	if !changed {
		return r.writePlain("Not in favorites: %s\n", id)
	}

	r.logger.Info("removed favorite", "id", id)
	return r.writePlain("✓ Removed %s\n", id)
}

// FavoritesExport writes favorites to disk in the requested format.
func (r *Runner) FavoritesExport(ctx context.Context, cmd *cli.Command) error {
	format, err := tasks.NormalizeFormat(cmd.String("format"))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidFlag, err)
	}

	sess, err := r.session()
	if err != nil {
		return err
	}

	opts := tasks.ExportOpts{
		Format:         format,
		OutputDir:      cmd.String("output"),
		IncludeDetails: cmd.Bool("details"),
		Posters:        cmd.Bool("posters"),
		RefreshOpts:    r.refreshOpts(cmd),
	}
	if opts.Posters && format != "markdown" {
		r.logger.Warn("--posters only applies to markdown exports", "format", format)
	}

	movies := sess.Favorites()
	r.logger.Info("exporting favorites", "count", len(movies), "format", format, "details", opts.IncludeDetails)

	progress, done := r.printProgress()
	manifest, err := r.engine().ExportFavorites(ctx, progress, movies, opts)
	close(progress)
	<-done

	if err != nil {
		return err
	}

	r.writePlain("\n")
	r.writePlainHeader("Export Complete")
	r.writePlain("Run ID: %s\n", manifest.RunID)
	r.writePlain("Format: %s\n", manifest.Format)
	r.writePlain("Movies: %d\n", manifest.TotalMovies)
	if opts.IncludeDetails {
		r.writePlain("Details: %d fetched, %d failed\n", manifest.DetailsFetched, manifest.DetailsFailed)
	}
	if manifest.Posters > 0 {
		r.writePlain("Posters: %d\n", manifest.Posters)
	}
	r.writePlain("Output: %s\n", manifest.OutputDirectory)
	for _, f := range manifest.Files {
		r.writePlain("  %s\n", f)
	}
	for _, f := range manifest.Failures {
		r.writePlain("  ✗ %s (%s): %s\n", f.Title, f.ID, f.Error)
	}
	return nil
}

// FavoritesRefresh re-fetches every favorite and stores the current summaries.
//
// Lookups that fail keep the stored record. When the run is interrupted the
// summaries fetched so far are still stored.
func (r *Runner) FavoritesRefresh(ctx context.Context, cmd *cli.Command) error {
	sess, err := r.session()
	if err != nil {
		return err
	}

	movies := sess.Favorites()
	if len(movies) == 0 {
		return r.writePlain("No favorites to refresh.\n")
	}

	progress, done := r.printProgress()
	result, err := r.engine().Refresh(ctx, progress, movies, r.refreshOpts(cmd))
	close(progress)
	<-done

	if result == nil {
		return err
	}

	updated, saveErr := sess.UpdateFavorites(result.Movies(movies))
	if saveErr != nil {
		return saveErr
	}

	r.writePlain("\n✓ Refreshed %d/%d favorites, %d updated\n", result.Succeeded, result.Total, updated)
	for _, f := range result.Failures {
		r.writePlain("  ✗ %s (%s): %s\n", f.Title, f.ID, f.Error)
	}
	return err
}

// printProgress drains progress updates to the output until the returned
// channel is closed; done is closed once the last update is written.
func (r *Runner) printProgress() (chan tasks.ProgressUpdate, <-chan struct{}) {
	progress := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for update := range progress {
			switch update.Phase {
			case tasks.FetchDetails:
				if update.Step == 0 {
					r.writePlain("🔍 %s\n", update.Message)
				} else {
					r.writePlain("   %s\n", update.Message)
				}
			case tasks.WriteExport:
				r.writePlain("📝 %s\n", update.Message)
			case tasks.WriteManifest:
				r.writePlain("✓ %s\n", update.Message)
			}
		}
	}()

	return progress, done
}
