package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

// StatusError is returned when the content API answers with a non-2xx status.
type StatusError struct {
	Code int
	Body []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream status %d", e.Code)
}

// Client consumes the pre-aggregated content API. Every section returns its
// response body verbatim; the gateway is plumbing, not a computation layer.
type Client struct {
	baseURL string
	client  *http.Client
	log     zerolog.Logger
}

func New(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		log:     log,
	}
}

func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	return c.request(ctx, http.MethodGet, path, query, nil, "")
}

func (c *Client) post(ctx context.Context, path string, body any) ([]byte, error) {
	return c.request(ctx, http.MethodPost, path, nil, body, "")
}

func (c *Client) request(ctx context.Context, method, path string, query url.Values, body any, bearer string) ([]byte, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal body %s: %w", path, err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("build request %s: %w", path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	return c.do(req, path)
}

func (c *Client) do(req *http.Request, path string) ([]byte, error) {
	started := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	c.log.Debug().
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(started)).
		Msg("upstream fetch")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Code: resp.StatusCode, Body: body}
	}
	return body, nil
}

func limitQuery(q url.Values, limit int) url.Values {
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	return q
}

// All fetches every portal section in one request.
func (c *Client) All(ctx context.Context) ([]byte, error) {
	return c.get(ctx, "/api/v1/portal/all", nil)
}

// News fetches headlines, optionally filtered by category and source.
func (c *Client) News(ctx context.Context, category, source string, limit int) ([]byte, error) {
	q := url.Values{}
	if category != "" {
		q.Set("category", category)
	}
	if source != "" {
		q.Set("source", source)
	}
	return c.get(ctx, "/api/v1/portal/news", limitQuery(q, limit))
}

// WeatherQuery selects a weather location by coordinates or district ID.
type WeatherQuery struct {
	Lat      string
	Lon      string
	District string
}

func (c *Client) Weather(ctx context.Context, wq WeatherQuery) ([]byte, error) {
	q := url.Values{}
	if wq.Lat != "" {
		q.Set("lat", wq.Lat)
	}
	if wq.Lon != "" {
		q.Set("lon", wq.Lon)
	}
	if wq.District != "" {
		q.Set("district", wq.District)
	}
	return c.get(ctx, "/api/v1/portal/weather", q)
}

// WeatherLocations lists the division-level dropdown locations.
func (c *Client) WeatherLocations(ctx context.Context) ([]byte, error) {
	return c.get(ctx, "/api/v1/portal/weather/locations", nil)
}

// WeatherDivisions fetches current weather for every division at once.
func (c *Client) WeatherDivisions(ctx context.Context) ([]byte, error) {
	return c.get(ctx, "/api/v1/portal/weather/divisions", nil)
}

// WeatherBulk fetches weather for all districts, optionally one division.
func (c *Client) WeatherBulk(ctx context.Context, division string) ([]byte, error) {
	q := url.Values{}
	if division != "" {
		q.Set("division", division)
	}
	return c.get(ctx, "/api/v1/portal/weather/bulk", q)
}

// Currency fetches exchange rates.
func (c *Client) Currency(ctx context.Context) ([]byte, error) {
	return c.get(ctx, "/api/v1/portal/currency", nil)
}

// Radio lists the streaming radio stations.
func (c *Client) Radio(ctx context.Context) ([]byte, error) {
	return c.get(ctx, "/api/v1/portal/radio", nil)
}

// Jobs fetches job listings, optionally filtered by type.
func (c *Client) Jobs(ctx context.Context, jobType string, limit int) ([]byte, error) {
	q := url.Values{}
	if jobType != "" {
		q.Set("type", jobType)
	}
	return c.get(ctx, "/api/v1/portal/jobs", limitQuery(q, limit))
}

// Notices fetches government notices.
func (c *Client) Notices(ctx context.Context, category string, limit int) ([]byte, error) {
	q := url.Values{}
	if category != "" {
		q.Set("category", category)
	}
	return c.get(ctx, "/api/v1/portal/notices", limitQuery(q, limit))
}

// Education fetches education board announcements and results.
func (c *Client) Education(ctx context.Context, eduType string, limit int) ([]byte, error) {
	q := url.Values{}
	if eduType != "" {
		q.Set("type", eduType)
	}
	return c.get(ctx, "/api/v1/portal/education", limitQuery(q, limit))
}

// Market fetches market deals.
func (c *Client) Market(ctx context.Context, category string, limit int) ([]byte, error) {
	q := url.Values{}
	if category != "" {
		q.Set("category", category)
	}
	return c.get(ctx, "/api/v1/portal/market", limitQuery(q, limit))
}

// Districts lists divisions with their districts; flat collapses the
// hierarchy.
func (c *Client) Districts(ctx context.Context, flat bool) ([]byte, error) {
	q := url.Values{}
	if flat {
		q.Set("flat", "true")
	}
	return c.get(ctx, "/api/v1/portal/districts", q)
}

// Prayer fetches prayer times for a city, defaulting to Dhaka.
func (c *Client) Prayer(ctx context.Context, city string) ([]byte, error) {
	if city == "" {
		city = "Dhaka"
	}
	q := url.Values{}
	q.Set("city", city)
	return c.get(ctx, "/api/v1/portal/prayer", q)
}

// Cricket fetches live cricket scores.
func (c *Client) Cricket(ctx context.Context) ([]byte, error) {
	return c.get(ctx, "/api/v1/portal/cricket", nil)
}

// Commodities fetches gold and fuel prices.
func (c *Client) Commodities(ctx context.Context) ([]byte, error) {
	return c.get(ctx, "/api/v1/portal/commodities", nil)
}

// Emergency lists emergency phone numbers.
func (c *Client) Emergency(ctx context.Context) ([]byte, error) {
	return c.get(ctx, "/api/v1/portal/emergency", nil)
}

// Holidays fetches public holidays, optionally for one year.
func (c *Client) Holidays(ctx context.Context, year int) ([]byte, error) {
	q := url.Values{}
	if year > 0 {
		q.Set("year", strconv.Itoa(year))
	}
	return c.get(ctx, "/api/v1/portal/holidays", q)
}

// Search queries across all content types.
func (c *Client) Search(ctx context.Context, query, contentType string, limit int) ([]byte, error) {
	q := url.Values{}
	q.Set("q", query)
	if contentType == "" {
		contentType = "all"
	}
	q.Set("type", contentType)
	return c.get(ctx, "/api/v1/portal/search", limitQuery(q, limit))
}

// AIChat proxies a message to the portal assistant.
func (c *Client) AIChat(ctx context.Context, message string) ([]byte, error) {
	return c.post(ctx, "/api/v1/portal/ai/chat", map[string]string{"message": message})
}

// AILimit reports the caller's remaining assistant quota.
func (c *Client) AILimit(ctx context.Context) ([]byte, error) {
	return c.get(ctx, "/api/v1/portal/ai/limit", nil)
}

// VideoFeed fetches the public video feed; browse parameters pass through
// verbatim.
func (c *Client) VideoFeed(ctx context.Context, query url.Values) ([]byte, error) {
	return c.get(ctx, "/api/v1/video/feed", query)
}

// VideoSearch queries the video catalog.
func (c *Client) VideoSearch(ctx context.Context, query string, limit int) ([]byte, error) {
	q := url.Values{}
	q.Set("q", query)
	return c.get(ctx, "/api/v1/video/search", limitQuery(q, limit))
}

// Video fetches a single video by ID.
func (c *Client) Video(ctx context.Context, id string) ([]byte, error) {
	return c.get(ctx, "/api/v1/video/"+url.PathEscape(id), nil)
}

// VideoBookmarks lists the user's bookmarked videos.
func (c *Client) VideoBookmarks(ctx context.Context, accessToken string) ([]byte, error) {
	return c.request(ctx, http.MethodGet, "/api/v1/video/bookmarks", nil, nil, accessToken)
}

// AddVideoBookmark bookmarks a video for the user.
func (c *Client) AddVideoBookmark(ctx context.Context, accessToken, videoID string) ([]byte, error) {
	return c.request(ctx, http.MethodPost, "/api/v1/video/bookmarks", nil,
		map[string]string{"video_id": videoID}, accessToken)
}

// RemoveVideoBookmark drops a bookmark.
func (c *Client) RemoveVideoBookmark(ctx context.Context, accessToken, videoID string) ([]byte, error) {
	return c.request(ctx, http.MethodDelete, "/api/v1/video/bookmarks/"+url.PathEscape(videoID), nil, nil, accessToken)
}

// VideoHistory lists the user's watch history.
func (c *Client) VideoHistory(ctx context.Context, accessToken string) ([]byte, error) {
	return c.request(ctx, http.MethodGet, "/api/v1/video/history", nil, nil, accessToken)
}

// RecordVideoHistory records watch progress for a video.
func (c *Client) RecordVideoHistory(ctx context.Context, accessToken, videoID string, progress float64) ([]byte, error) {
	return c.request(ctx, http.MethodPost, "/api/v1/video/history", nil,
		map[string]any{"video_id": videoID, "progress": progress}, accessToken)
}
