package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/desertthunder/mvx/internal/formatter"
	"github.com/desertthunder/mvx/internal/models"
	"github.com/desertthunder/mvx/internal/shared"
)

// ManifestFile is the name of the summary written next to every export.
const ManifestFile = "export_manifest.json"

// ExportFormats lists the accepted values of [ExportOpts.Format].
var ExportFormats = []string{"json", "csv", "markdown", "txt"}

// ExportOpts contains configuration for favorites exports.
type ExportOpts struct {
	Format         string // Export format: json, csv, markdown, txt
	OutputDir      string // Base output directory (default: mvx_export_{epoch})
	IncludeDetails bool   // Fetch detail records before writing
	Posters        bool   // Download posters (markdown only)
	RefreshOpts
}

// NormalizeFormat maps format aliases to one of [ExportFormats].
func NormalizeFormat(format string) (string, error) {
	switch f := strings.ToLower(strings.TrimSpace(format)); f {
	case "", "json":
		return "json", nil
	case "csv":
		return "csv", nil
	case "md", "markdown":
		return "markdown", nil
	case "txt", "text":
		return "txt", nil
	default:
		return "", fmt.Errorf("%w: unknown export format %q (want %s)", shared.ErrInvalidArgument, format, strings.Join(ExportFormats, ", "))
	}
}

// ExportFavorites writes movies to opts.OutputDir and records the run in [ManifestFile].
//
// Detail lookups that fail are listed in the manifest; the export still succeeds.
func (e *FavoritesEngine) ExportFavorites(ctx context.Context, progress chan<- ProgressUpdate, movies []models.Movie, opts ExportOpts) (*models.ExportManifest, error) {
	format, err := NormalizeFormat(opts.Format)
	if err != nil {
		return nil, err
	}

	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("mvx_export_%d", time.Now().Unix())
	}
	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	now := time.Now().UTC()
	export := &models.FavoritesExport{
		ExportedAt: now,
		Movies:     movies,
	}
	if export.Movies == nil {
		export.Movies = []models.Movie{}
	}

	manifest := &models.ExportManifest{
		RunID:           shared.GenerateID(),
		Format:          format,
		CreatedAt:       now,
		OutputDirectory: opts.OutputDir,
		TotalMovies:     len(export.Movies),
		Files:           []string{},
	}

	if opts.IncludeDetails && len(export.Movies) > 0 {
		refreshed, err := e.Refresh(ctx, progress, export.Movies, opts.RefreshOpts)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch details: %w", err)
		}
		export.Details = refreshed.Details
		manifest.DetailsFetched = refreshed.Succeeded
		manifest.DetailsFailed = refreshed.Failed
		manifest.Failures = refreshed.Failures
	}

	sendProgress(progress, writingExportUpdate(format, len(export.Movies)))

	switch format {
	case "csv":
		res, err := formatter.WriteCSVExport(export, filepath.Join(opts.OutputDir, "favorites"))
		if err != nil {
			return nil, fmt.Errorf("CSV export failed: %w", err)
		}
		manifest.Files = append(manifest.Files, res.MoviesFile, res.MetadataFile)
	case "markdown":
		res, err := formatter.WriteMarkdownExport(export, opts.OutputDir, opts.Posters)
		if err != nil {
			return nil, fmt.Errorf("markdown export failed: %w", err)
		}
		manifest.Files = append(manifest.Files, res.Files...)
		manifest.Posters = len(res.Posters)
	case "txt":
		p, err := formatter.WriteTextExport(export, filepath.Join(opts.OutputDir, "favorites.txt"))
		if err != nil {
			return nil, fmt.Errorf("text export failed: %w", err)
		}
		manifest.Files = append(manifest.Files, p)
	default:
		p, err := formatter.WriteJSONExport(export, filepath.Join(opts.OutputDir, "favorites.json"))
		if err != nil {
			return nil, fmt.Errorf("JSON export failed: %w", err)
		}
		manifest.Files = append(manifest.Files, p)
	}

	manifestPath := filepath.Join(opts.OutputDir, ManifestFile)
	if err := formatter.WriteExportManifest(manifest, manifestPath); err != nil {
		return manifest, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	sendProgress(progress, manifestWrittenUpdate(manifestPath, manifest))

	return manifest, nil
}
