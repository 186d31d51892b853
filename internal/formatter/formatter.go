// package formatter renders movies and favorites exports as CSV, Markdown, JSON and plain text
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/mvx/internal/models"
	"github.com/desertthunder/mvx/internal/shared"
)

// CSVHeaders are the columns written by [ExportToCSV].
var CSVHeaders = []string{"imdbID", "Title", "Year", "Type", "Poster", "Rated", "Runtime", "Genre", "Director", "imdbRating", "Plot"}

// ExportToCSV converts favorites to CSV, one row per movie. Detail columns are empty when the export has no details.
func ExportToCSV(export *models.FavoritesExport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(CSVHeaders); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, m := range export.Movies {
		d, _ := export.Detail(m.ID)
		record := []string{
			m.ID,
			m.Title,
			m.Year,
			m.Type,
			m.Poster,
			d.Rated,
			d.Runtime,
			d.Genre,
			d.Director,
			d.IMDbRating,
			d.Plot,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts favorites to a Markdown document.
//
// posters maps movie IDs to local image paths, relative to the document.
func ExportToMarkdown(export *models.FavoritesExport, posters map[string]string) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Favorites\n\n")
	buf.WriteString(fmt.Sprintf("**Movies**: %d\n", len(export.Movies)))
	if !export.ExportedAt.IsZero() {
		buf.WriteString(fmt.Sprintf("**Exported**: %s\n", export.ExportedAt.UTC().Format(time.RFC3339)))
	}
	buf.WriteString("\n")

	for i, m := range export.Movies {
		buf.WriteString(fmt.Sprintf("## %d. %s\n\n", i+1, m.Label()))

		if p, ok := posters[m.ID]; ok {
			buf.WriteString(fmt.Sprintf("![Poster](%s)\n\n", p))
		}

		buf.WriteString(fmt.Sprintf("- **IMDb**: [%s](%s)\n", m.ID, m.IMDbURL()))
		if m.Type != "" {
			buf.WriteString(fmt.Sprintf("- **Type**: %s\n", m.Type))
		}

		if d, ok := export.Detail(m.ID); ok {
			for _, f := range detailFields(d) {
				buf.WriteString(fmt.Sprintf("- **%s**: %s\n", f[0], f[1]))
			}
			if d.Plot != "" && d.Plot != models.PosterNA {
				buf.WriteString(fmt.Sprintf("\n%s\n", d.Plot))
			}
		}
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

// ExportToText converts favorites to plain text, one line per movie.
func ExportToText(export *models.FavoritesExport) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Favorites: %d\n\n", len(export.Movies)))
	buf.WriteString(MoviesToText(export.Movies))

	return buf.Bytes(), nil
}

// MoviesToText renders a numbered list of movies.
func MoviesToText(movies []models.Movie) string {
	var b strings.Builder
	for i, m := range movies {
		kind := ""
		if m.Type != "" {
			kind = fmt.Sprintf(" [%s]", m.Type)
		}
		b.WriteString(fmt.Sprintf("%d. %s  %s%s\n", i+1, m.ID, m.Label(), kind))
	}
	return b.String()
}

// DetailToText renders a detail record as labelled lines followed by the plot.
func DetailToText(d models.MovieDetail) string {
	var b strings.Builder

	b.WriteString(d.Label() + "\n")
	b.WriteString(strings.Repeat("=", len(d.Label())) + "\n\n")

	for _, f := range detailFields(d) {
		b.WriteString(fmt.Sprintf("%-10s %s\n", f[0]+":", f[1]))
	}
	if d.HasPoster() {
		b.WriteString(fmt.Sprintf("%-10s %s\n", "Poster:", d.Poster))
	}
	b.WriteString(fmt.Sprintf("%-10s %s\n", "IMDb:", d.IMDbURL()))

	if d.Plot != "" {
		b.WriteString("\n" + d.Plot + "\n")
	}
	return b.String()
}

// detailFields lists the populated optional fields of d in display order.
func detailFields(d models.MovieDetail) [][2]string {
	all := [][2]string{
		{"Rated", d.Rated},
		{"Released", d.Released},
		{"Runtime", d.Runtime},
		{"Genre", d.Genre},
		{"Director", d.Director},
		{"Actors", d.Actors},
		{"Language", d.Language},
		{"Country", d.Country},
		{"Rating", d.IMDbRating},
	}

	fields := make([][2]string, 0, len(all))
	for _, f := range all {
		if f[1] != "" && f[1] != models.PosterNA {
			fields = append(fields, f)
		}
	}
	return fields
}

// DownloadImage downloads an image from the given URL and returns the raw bytes
func DownloadImage(url string) ([]byte, error) {
	if url == "" || url == models.PosterNA {
		return nil, fmt.Errorf("empty URL provided")
	}

	client := &http.Client{
		Timeout: 30 * time.Second,
	}

	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	return imageData, nil
}

type exportMetadata struct {
	ExportedAt time.Time `json:"exported_at"`
	Count      int       `json:"count"`
	Detailed   int       `json:"detailed"`
}

// ToMetadataJSON generates a JSON summary of an export (without the movies)
func ToMetadataJSON(export *models.FavoritesExport) ([]byte, error) {
	return shared.MarshalJSON(exportMetadata{
		ExportedAt: export.ExportedAt,
		Count:      len(export.Movies),
		Detailed:   len(export.Details),
	}, true)
}

// CSVExportResult contains the paths of files created by WriteCSVExport
type CSVExportResult struct {
	MoviesFile   string
	MetadataFile string
}

// WriteCSVExport writes {base}.csv and {base}_metadata.json.
func WriteCSVExport(export *models.FavoritesExport, baseFilepath string) (*CSVExportResult, error) {
	if baseFilepath == "" {
		baseFilepath = "favorites"
	}

	csvData, err := ExportToCSV(export)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	moviesFile := baseFilepath + ".csv"
	if err := os.WriteFile(moviesFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	metadataJSON, err := ToMetadataJSON(export)
	if err != nil {
		return nil, fmt.Errorf("failed to generate metadata JSON: %w", err)
	}

	metadataFile := baseFilepath + "_metadata.json"
	if err := os.WriteFile(metadataFile, metadataJSON, 0644); err != nil {
		return nil, fmt.Errorf("failed to write metadata file: %w", err)
	}

	return &CSVExportResult{
		MoviesFile:   moviesFile,
		MetadataFile: metadataFile,
	}, nil
}

// MarkdownExportResult contains information about files created by WriteMarkdownExport
type MarkdownExportResult struct {
	Directory string
	Files     []string
	Posters   []string
}

// WriteMarkdownExport writes {dir}/README.md and, when downloadPosters is set, {dir}/posters/{id}{ext}.
//
// A poster that cannot be downloaded is logged and left out of the document.
func WriteMarkdownExport(export *models.FavoritesExport, outputDir string, downloadPosters bool) (*MarkdownExportResult, error) {
	if outputDir == "" {
		outputDir = "favorites"
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	result := &MarkdownExportResult{
		Directory: outputDir,
		Files:     []string{},
		Posters:   []string{},
	}

	posters := map[string]string{}
	if downloadPosters {
		posterDir := filepath.Join(outputDir, "posters")
		for _, m := range export.Movies {
			if !m.HasPoster() {
				continue
			}
			if !models.ValidID(m.ID) {
				log.Warn("skipping poster for malformed id", "id", m.ID)
				continue
			}

			data, err := DownloadImage(m.Poster)
			if err != nil {
				log.Warn("failed to download poster", "id", m.ID, "error", err)
				continue
			}

			if err := os.MkdirAll(posterDir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create poster directory: %w", err)
			}

			name := filepath.Base(m.ID) + posterExt(m.Poster)
			p := filepath.Join(posterDir, name)
			if err := os.WriteFile(p, data, 0644); err != nil {
				log.Warn("failed to save poster", "id", m.ID, "error", err)
				continue
			}

			posters[m.ID] = "posters/" + name
			result.Posters = append(result.Posters, p)
			result.Files = append(result.Files, p)
		}
	}

	mdData, err := ExportToMarkdown(export, posters)
	if err != nil {
		return nil, fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := filepath.Join(outputDir, "README.md")
	if err := os.WriteFile(mdFile, mdData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write Markdown file: %w", err)
	}

	result.Files = append(result.Files, mdFile)

	return result, nil
}

func posterExt(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ".jpg"
	}
	switch ext := strings.ToLower(path.Ext(u.Path)); ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
		return ext
	default:
		return ".jpg"
	}
}

// WriteTextExport exports favorites to plain text. Defaults to favorites.txt.
func WriteTextExport(export *models.FavoritesExport, filepath string) (string, error) {
	if filepath == "" {
		filepath = "favorites.txt"
	}

	textData, err := ExportToText(export)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if err := os.WriteFile(filepath, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return filepath, nil
}

// WriteJSONExport writes the export as indented JSON. Defaults to favorites.json.
func WriteJSONExport(export *models.FavoritesExport, filepath string) (string, error) {
	if filepath == "" {
		filepath = "favorites.json"
	}
	return filepath, writeJSONFile(export, filepath)
}

// WriteExportManifest writes the manifest of an export run to path.
func WriteExportManifest(manifest *models.ExportManifest, path string) error {
	if manifest == nil {
		return fmt.Errorf("%w: manifest is nil", shared.ErrInvalidInput)
	}
	return writeJSONFile(manifest, path)
}

func writeJSONFile(v any, path string) error {
	data, err := shared.MarshalJSON(v, true)
	if err != nil {
		return fmt.Errorf("JSON marshal failed: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("JSON write failed: %w", err)
	}
	return nil
}
