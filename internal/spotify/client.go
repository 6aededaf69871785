package spotify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/ayushshah21/EchoVote/internal/models"
)

const defaultBaseURL = "https://api.spotify.com/v1"

// Client is a thin wrapper over the Spotify Web API. Every call takes
// the host's access token; the client itself holds no credentials.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    defaultBaseURL,
	}
}

// NewClientWithBaseURL exists for tests against a local server.
func NewClientWithBaseURL(baseURL string) *Client {
	c := NewClient()
	c.baseURL = baseURL
	return c
}

func (c *Client) do(ctx context.Context, token, method, path string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("spotify request: %w", err)
	}
	if resp.StatusCode >= 300 {
		resp.Body.Close()
		return nil, fmt.Errorf("spotify: %s %s returned %d", method, path, resp.StatusCode)
	}
	return resp, nil
}

// CurrentPlayback returns the host's playback state. Spotify answers 204
// with an empty body when nothing is playing; that decodes to the zero
// state, which the advance loop reads as "track ended".
func (c *Client) CurrentPlayback(ctx context.Context, token string) (*models.PlaybackState, error) {
	resp, err := c.do(ctx, token, http.MethodGet, "/me/player", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var state models.PlaybackState
	if resp.StatusCode == http.StatusNoContent {
		return &state, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		return nil, fmt.Errorf("decoding playback state: %w", err)
	}
	return &state, nil
}

func (c *Client) Devices(ctx context.Context, token string) ([]models.Device, error) {
	resp, err := c.do(ctx, token, http.MethodGet, "/me/player/devices", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload struct {
		Devices []models.Device `json:"devices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding devices: %w", err)
	}
	return payload.Devices, nil
}

func (c *Client) Play(ctx context.Context, token, deviceID, uri string) error {
	body, err := json.Marshal(map[string]any{"uris": []string{uri}})
	if err != nil {
		return fmt.Errorf("encoding play request: %w", err)
	}
	path := "/me/player/play?device_id=" + url.QueryEscape(deviceID)
	resp, err := c.do(ctx, token, http.MethodPut, path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

func (c *Client) Pause(ctx context.Context, token string) error {
	resp, err := c.do(ctx, token, http.MethodPut, "/me/player/pause", nil)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

func (c *Client) Resume(ctx context.Context, token string) error {
	resp, err := c.do(ctx, token, http.MethodPut, "/me/player/play", nil)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

func (c *Client) SkipNext(ctx context.Context, token string) error {
	resp, err := c.do(ctx, token, http.MethodPost, "/me/player/next", nil)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

func (c *Client) SetVolume(ctx context.Context, token string, volume int) error {
	path := fmt.Sprintf("/me/player/volume?volume_percent=%d", volume)
	resp, err := c.do(ctx, token, http.MethodPut, path, nil)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// Search finds tracks matching the query and flattens the provider's
// nested response into plain Track records.
func (c *Client) Search(ctx context.Context, token, query string) ([]models.Track, error) {
	path := "/search?type=track&q=" + url.QueryEscape(query)
	resp, err := c.do(ctx, token, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload struct {
		Tracks struct {
			Items []struct {
				ID      string `json:"id"`
				Name    string `json:"name"`
				URI     string `json:"uri"`
				Artists []struct {
					Name string `json:"name"`
				} `json:"artists"`
				Album struct {
					Name   string `json:"name"`
					Images []struct {
						URL string `json:"url"`
					} `json:"images"`
				} `json:"album"`
				DurationMs int `json:"duration_ms"`
			} `json:"items"`
		} `json:"tracks"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding search results: %w", err)
	}

	tracks := make([]models.Track, 0, len(payload.Tracks.Items))
	for _, item := range payload.Tracks.Items {
		t := models.Track{
			ID:         item.ID,
			Title:      item.Name,
			Album:      item.Album.Name,
			DurationMs: item.DurationMs,
			SpotifyURI: item.URI,
		}
		if len(item.Artists) > 0 {
			t.Artist = item.Artists[0].Name
		}
		if len(item.Album.Images) > 0 {
			t.AlbumArt = item.Album.Images[0].URL
		}
		tracks = append(tracks, t)
	}
	return tracks, nil
}
