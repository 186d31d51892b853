package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/desertthunder/mvx/internal/formatter"
	"github.com/desertthunder/mvx/internal/services"
	"github.com/desertthunder/mvx/internal/session"
	"github.com/desertthunder/mvx/internal/shared"
	"github.com/urfave/cli/v3"
)

// Search looks movies up by the title given as arguments.
//
// A search that matches nothing prints the no-results message and succeeds.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	title := shared.NormalizeQuery(strings.Join(cmd.Args().Slice(), " "))
	if title == "" {
		return fmt.Errorf("%w: a title to search for is required", shared.ErrMissingArgument)
	}

	query := services.SearchQuery{
		Title: title,
		Year:  cmd.String("year"),
		Type:  cmd.String("type"),
		Page:  int(cmd.Int("page")),
	}

	r.logger.Debug("searching", "title", title, "year", query.Year, "type", query.Type, "page", query.Page)

	result, err := r.movieService().Search(ctx, query)
	if err != nil {
		if errors.Is(err, shared.ErrMovieNotFound) {
			r.logger.Debug("search matched nothing", "error", err)
			return r.writePlain("%s\n", session.MsgNoResults)
		}
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(result.Movies, cmd.Bool("pretty"))
	}

	if len(result.Movies) == 0 {
		return r.writePlain("%s\n", session.MsgNoResults)
	}

	r.writePlain("Found %d results (page %d):\n\n", result.TotalResults, result.Page)
	return r.writePlain("%s", formatter.MoviesToText(result.Movies))
}

// Show prints the detail record for one identifier.
func (r *Runner) Show(ctx context.Context, cmd *cli.Command) error {
	id := strings.TrimSpace(cmd.StringArg("id"))
	if id == "" {
		return fmt.Errorf("%w: movie id is required", shared.ErrMissingArgument)
	}

	if cmd.Bool("full") {
		r.fullPlot = true
	}

	detail, err := r.movieService().Details(ctx, id)
	if err != nil {
		return err
	}

	if cmd.Bool("open") {
		if url, err := r.openMovie(detail.Movie); err != nil {
			r.logger.Warn("failed to open browser", "id", detail.ID, "error", err)
		} else {
			r.logger.Info("opened browser", "url", url)
		}
	}

	if cmd.Bool("json") {
		return r.writeJSON(detail, cmd.Bool("pretty"))
	}

	return r.writePlain("%s", formatter.DetailToText(*detail))
}
