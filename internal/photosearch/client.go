// Package photosearch finds inventory items that look like a photo, using an
// external image tagging service.
package photosearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// Tag is one label returned by the recognition service. Confidence is a
// percentage.
type Tag struct {
	Name       string  `json:"tag"`
	Confidence float64 `json:"confidence"`
}

// Recognizer labels an image.
type Recognizer interface {
	Recognize(ctx context.Context, image []byte, mime string) ([]Tag, error)
}

// Client calls an Imagga-compatible tagging endpoint with basic auth.
type Client struct {
	url    string
	key    string
	secret string
	http   *http.Client
}

func NewClient(url, key, secret string) *Client {
	return &Client{
		url:    url,
		key:    key,
		secret: secret,
		http:   &http.Client{Timeout: 20 * time.Second},
	}
}

type tagsResponse struct {
	Result struct {
		Tags []struct {
			Confidence float64           `json:"confidence"`
			Tag        map[string]string `json:"tag"`
		} `json:"tags"`
	} `json:"result"`
	Status struct {
		Text string `json:"text"`
		Type string `json:"type"`
	} `json:"status"`
}

// Recognize uploads the image as multipart form field "image" and returns the
// English tags.
func (c *Client) Recognize(ctx context.Context, image []byte, mime string) ([]Tag, error) {
	if c.key == "" {
		return nil, fmt.Errorf("recognition service is not configured")
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("image", "photo.jpg")
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(image); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, &body)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.key, c.secret)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("X-Image-Type", mime)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("recognition request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("reading recognition response: %w", err)
	}
	var parsed tagsResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("decoding recognition response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK || parsed.Status.Type == "error" {
		return nil, fmt.Errorf("recognition service returned %d: %s", resp.StatusCode, parsed.Status.Text)
	}

	tags := make([]Tag, 0, len(parsed.Result.Tags))
	for _, t := range parsed.Result.Tags {
		if name := t.Tag["en"]; name != "" {
			tags = append(tags, Tag{Name: name, Confidence: t.Confidence})
		}
	}
	return tags, nil
}
