package upstream_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"bdportal/api/internal/upstream"
)

func newServer(t *testing.T, handler http.HandlerFunc) *upstream.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return upstream.New(srv.URL, 5*time.Second, zerolog.Nop())
}

func TestNews_QueryParams(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/portal/news", r.URL.Path)
		require.Equal(t, "sports", r.URL.Query().Get("category"))
		require.Equal(t, "prothomalo", r.URL.Query().Get("source"))
		require.Equal(t, "10", r.URL.Query().Get("limit"))
		w.Write([]byte(`{"data":{"items":[]}}`))
	})

	body, err := c.News(context.Background(), "sports", "prothomalo", 10)
	require.NoError(t, err)
	require.JSONEq(t, `{"data":{"items":[]}}`, string(body))
}

func TestNews_OmitsEmptyParams(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Empty(t, r.URL.RawQuery)
		w.Write([]byte(`{"data":{}}`))
	})

	_, err := c.News(context.Background(), "", "", 0)
	require.NoError(t, err)
}

func TestWeather_Query(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/portal/weather", r.URL.Path)
		require.Equal(t, "23.81", r.URL.Query().Get("lat"))
		require.Equal(t, "90.41", r.URL.Query().Get("lon"))
		w.Write([]byte(`{"data":{"temp":31}}`))
	})

	body, err := c.Weather(context.Background(), upstream.WeatherQuery{Lat: "23.81", Lon: "90.41"})
	require.NoError(t, err)
	require.Contains(t, string(body), `"temp":31`)
}

func TestPrayer_DefaultsToDhaka(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Dhaka", r.URL.Query().Get("city"))
		w.Write([]byte(`{"data":{}}`))
	})

	_, err := c.Prayer(context.Background(), "")
	require.NoError(t, err)
}

func TestSearch(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/portal/search", r.URL.Path)
		require.Equal(t, "বন্যা", r.URL.Query().Get("q"))
		require.Equal(t, "all", r.URL.Query().Get("type"))
		w.Write([]byte(`{"data":{"results":[]}}`))
	})

	_, err := c.Search(context.Background(), "বন্যা", "", 20)
	require.NoError(t, err)
}

func TestAIChat_PostsMessage(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/v1/portal/ai/chat", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Write([]byte(`{"data":{"reply":"হ্যালো"}}`))
	})

	body, err := c.AIChat(context.Background(), "হ্যালো")
	require.NoError(t, err)
	require.Contains(t, string(body), "হ্যালো")
}

func TestStatusError(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"error":{"message":"source unavailable"}}`))
	})

	_, err := c.Currency(context.Background())
	require.Error(t, err)

	var statusErr *upstream.StatusError
	require.True(t, errors.As(err, &statusErr))
	require.Equal(t, http.StatusBadGateway, statusErr.Code)
	require.Contains(t, string(statusErr.Body), "source unavailable")
}

func TestVideoFeed_PassesQueryThrough(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/video/feed", r.URL.Path)
		require.Equal(t, "music", r.URL.Query().Get("category"))
		require.Equal(t, "abc", r.URL.Query().Get("cursor"))
		w.Write([]byte(`{"data":{"videos":[]}}`))
	})

	q := url.Values{}
	q.Set("category", "music")
	q.Set("cursor", "abc")
	_, err := c.VideoFeed(context.Background(), q)
	require.NoError(t, err)
}

func TestVideoSearch(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/video/search", r.URL.Path)
		require.Equal(t, "cricket highlights", r.URL.Query().Get("q"))
		require.Equal(t, "5", r.URL.Query().Get("limit"))
		w.Write([]byte(`{"data":{"videos":[]}}`))
	})

	_, err := c.VideoSearch(context.Background(), "cricket highlights", 5)
	require.NoError(t, err)
}

func TestVideo_ByID(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/video/vid-42", r.URL.Path)
		w.Write([]byte(`{"data":{"id":"vid-42"}}`))
	})

	body, err := c.Video(context.Background(), "vid-42")
	require.NoError(t, err)
	require.Contains(t, string(body), "vid-42")
}

func TestVideoBookmarks_SendsBearer(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/video/bookmarks", r.URL.Path)
		require.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		w.Write([]byte(`{"data":{"bookmarks":[]}}`))
	})

	_, err := c.VideoBookmarks(context.Background(), "tok-1")
	require.NoError(t, err)
}

func TestAddVideoBookmark_PostsBody(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		require.JSONEq(t, `{"video_id":"vid-42"}`, string(body))
		w.Write([]byte(`{"data":{"bookmarked":true}}`))
	})

	_, err := c.AddVideoBookmark(context.Background(), "tok-1", "vid-42")
	require.NoError(t, err)
}

func TestRemoveVideoBookmark(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		require.Equal(t, "/api/v1/video/bookmarks/vid-42", r.URL.Path)
		w.Write([]byte(`{"data":{"removed":true}}`))
	})

	_, err := c.RemoveVideoBookmark(context.Background(), "tok-1", "vid-42")
	require.NoError(t, err)
}

func TestRecordVideoHistory(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/v1/video/history", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		require.JSONEq(t, `{"video_id":"vid-42","progress":0.5}`, string(body))
		w.Write([]byte(`{"data":{"recorded":true}}`))
	})

	_, err := c.RecordVideoHistory(context.Background(), "tok-1", "vid-42", 0.5)
	require.NoError(t, err)
}
