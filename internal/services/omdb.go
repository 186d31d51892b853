// OMDb API [MovieService] implementation
//
// Response shapes follow https://www.omdbapi.com/
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/desertthunder/mvx/internal/models"
	"github.com/desertthunder/mvx/internal/shared"
)

const (
	defaultOMDbBaseURL   string = "http://www.omdbapi.com/"
	defaultOMDbUserAgent string = "mvx/0.1"
)

// omdbEnvelope is the status block every OMDb response carries.
type omdbEnvelope struct {
	Response string `json:"Response"`
	Error    string `json:"Error"`
}

func (e omdbEnvelope) ok() bool {
	return strings.EqualFold(e.Response, "True")
}

// OMDbSearchResponse is the body of a title search (s=).
type OMDbSearchResponse struct {
	omdbEnvelope
	Search       []models.Movie `json:"Search"`
	TotalResults string         `json:"totalResults"`
}

// OMDbDetailResponse is the body of a lookup by identifier (i=).
type OMDbDetailResponse struct {
	omdbEnvelope
	models.MovieDetail
}

// OMDbService implements the [MovieService] interface for OMDb.
type OMDbService struct {
	baseURL    string
	apiKey     string
	plot       string
	userAgent  string
	httpClient *http.Client
}

// NewOMDbService creates a new OMDb service from its configuration.
//
// A nil client gets a fresh [http.Client] using the configured timeout.
func NewOMDbService(cfg shared.OMDbConfig, client *http.Client) *OMDbService {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultOMDbBaseURL
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultOMDbUserAgent
	}

	plot := strings.ToLower(strings.TrimSpace(cfg.Plot))
	if plot != "full" {
		plot = "short"
	}

	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout()}
	}

	return &OMDbService{
		baseURL:    baseURL,
		apiKey:     strings.TrimSpace(cfg.APIKey),
		plot:       plot,
		userAgent:  userAgent,
		httpClient: client,
	}
}

// Name returns the service name.
func (o *OMDbService) Name() string {
	return "OMDb"
}

// WithPlot returns a copy of the service that requests the given plot length ("short" or "full").
func (o *OMDbService) WithPlot(plot string) *OMDbService {
	c := *o
	if strings.EqualFold(plot, "full") {
		c.plot = "full"
	} else {
		c.plot = "short"
	}
	return &c
}

// Search looks up movies by title.
//
// Calls GET /?apikey={key}&s={title}[&y=&type=&page=].
func (o *OMDbService) Search(ctx context.Context, query SearchQuery) (*models.SearchResult, error) {
	title := shared.NormalizeQuery(query.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: search title is empty", shared.ErrInvalidInput)
	}

	kind := strings.ToLower(strings.TrimSpace(query.Type))
	if !validTypes[kind] {
		return nil, fmt.Errorf("%w: unknown type %q (want movie, series or episode)", shared.ErrInvalidArgument, query.Type)
	}

	if query.Page < 0 || query.Page > 100 {
		return nil, fmt.Errorf("%w: page must be between 1 and 100", shared.ErrInvalidArgument)
	}

	params := url.Values{}
	params.Set("s", title)
	if year := strings.TrimSpace(query.Year); year != "" {
		params.Set("y", year)
	}
	if kind != "" {
		params.Set("type", kind)
	}
	page := query.Page
	if page == 0 {
		page = 1
	}
	if page > 1 {
		params.Set("page", strconv.Itoa(page))
	}

	var resp OMDbSearchResponse
	if err := o.doRequest(ctx, params, &resp); err != nil {
		return nil, err
	}

	if !resp.ok() {
		return nil, fmt.Errorf("%w: %s", shared.ErrMovieNotFound, upstreamMessage(resp.Error, title))
	}

	total, err := strconv.Atoi(resp.TotalResults)
	if err != nil {
		total = len(resp.Search)
	}

	movies := resp.Search
	if movies == nil {
		movies = []models.Movie{}
	}

	return &models.SearchResult{
		Movies:       movies,
		TotalResults: total,
		Page:         page,
	}, nil
}

// Details retrieves one movie by identifier.
//
// Calls GET /?apikey={key}&i={id}&plot={short|full}.
func (o *OMDbService) Details(ctx context.Context, id string) (*models.MovieDetail, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: movie id is empty", shared.ErrInvalidInput)
	}

	params := url.Values{}
	params.Set("i", id)
	params.Set("plot", o.plot)

	var resp OMDbDetailResponse
	if err := o.doRequest(ctx, params, &resp); err != nil {
		return nil, err
	}

	if !resp.ok() {
		return nil, fmt.Errorf("%w: %s", shared.ErrMovieNotFound, upstreamMessage(resp.Error, id))
	}

	detail := resp.MovieDetail
	return &detail, nil
}

func (o *OMDbService) doRequest(ctx context.Context, params url.Values, result any) error {
	if o.apiKey == "" {
		return fmt.Errorf("%w: OMDb API key is not configured (set omdb.api_key or %s)", shared.ErrMissingCredentials, shared.EnvAPIKey)
	}

	endpoint, err := url.Parse(o.baseURL)
	if err != nil {
		return fmt.Errorf("%w: invalid base URL %q: %v", shared.ErrInvalidConfig, o.baseURL, err)
	}

	params.Set("apikey", o.apiKey)
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", o.userAgent)

	resp, err := o.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%w: %w", shared.ErrAPIRequest, ctxErr)
		}
		return fmt.Errorf("%w: %s", shared.ErrAPIRequest, redactKey(err.Error(), o.apiKey))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read response: %v", shared.ErrAPIRequest, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var env omdbEnvelope
		if err := json.Unmarshal(body, &env); err == nil && env.Error != "" {
			return fmt.Errorf("%w: OMDb error (status %d): %s", shared.ErrAPIRequest, resp.StatusCode, env.Error)
		}
		return fmt.Errorf("%w: OMDb error: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", shared.ErrAPIRequest, err)
	}

	return nil
}

func upstreamMessage(msg, subject string) string {
	if msg == "" {
		return fmt.Sprintf("no match for %q", subject)
	}
	return fmt.Sprintf("%s (%q)", msg, subject)
}

// redactKey keeps the API key out of transport errors, which embed the request URL.
func redactKey(s, key string) string {
	if key == "" {
		return s
	}
	return strings.ReplaceAll(s, key, "REDACTED")
}
