package photosearch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"log"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mubashira9/Cosmic-Tracker-sub000/internal/models"
)

type stubRecognizer struct {
	tags []Tag
	err  error
}

func (s stubRecognizer) Recognize(context.Context, []byte, string) ([]Tag, error) {
	return s.tags, s.err
}

func pngPhoto(t *testing.T) *bytes.Reader {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 16, 16))))
	return bytes.NewReader(buf.Bytes())
}

func inventory() []models.Item {
	return []models.Item{
		{ID: "1", Name: "Cordless drill", Location: "Garage", Category: models.ResolveCategory("tools"), Tags: []string{"power tool"}},
		{ID: "2", Name: "Laptop", Location: "Office", Category: models.ResolveCategory("electronics"), Tags: []string{"computer"}},
		{ID: "3", Name: "Notebook", Location: "Desk", Description: "paper notebook", Category: models.ResolveCategory("documents")},
		{ID: "4", Name: "Scarf", Location: "Closet", Category: models.ResolveCategory("clothing")},
	}
}

func quietLogger() *log.Logger { return log.New(io.Discard, "", 0) }

func TestCleanTags(t *testing.T) {
	var raw []Tag
	for i := 0; i < 15; i++ {
		raw = append(raw, Tag{Name: fmt.Sprintf("tag%d", i), Confidence: float64(31 + i)})
	}
	raw = append(raw, Tag{Name: "noise", Confidence: 30}, Tag{Name: "faint", Confidence: 5}, Tag{Name: " ", Confidence: 99})

	clean := CleanTags(raw)
	require.Len(t, clean, MaxTags)
	assert.Equal(t, "tag14", clean[0].Name)
	for _, tag := range clean {
		assert.Greater(t, tag.Confidence, NoiseThreshold)
		assert.NotEqual(t, "noise", tag.Name)
	}
}

func TestRank(t *testing.T) {
	tags := []Tag{{Name: "notebook", Confidence: 80}, {Name: "computer", Confidence: 60}, {Name: "paper", Confidence: 40}}
	matches := Rank(inventory(), tags)

	require.Len(t, matches, 2)
	assert.Equal(t, "3", matches[0].Item.ID)
	assert.Equal(t, 80.0, matches[0].Score)
	assert.Equal(t, []string{"notebook", "paper"}, matches[0].MatchedTags)
	assert.Equal(t, "2", matches[1].Item.ID)
}

func TestRankNoTags(t *testing.T) {
	assert.Empty(t, Rank(inventory(), nil))
}

func TestSearchRanksRecognizedTags(t *testing.T) {
	s := NewSearcher(stubRecognizer{tags: []Tag{
		{Name: "drill", Confidence: 92},
		{Name: "scarf", Confidence: 25},
	}}, nil, quietLogger())

	res, err := s.Search(context.Background(), pngPhoto(t), inventory())
	require.NoError(t, err)
	assert.False(t, res.Fallback)
	require.Len(t, res.Tags, 1)
	require.Len(t, res.Matches, 1)
	assert.Equal(t, "1", res.Matches[0].Item.ID)
}

func TestSearchFallbackIsLabeled(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	s := NewSearcher(stubRecognizer{err: errors.New("quota exceeded")}, rng, quietLogger())

	res, err := s.Search(context.Background(), pngPhoto(t), inventory())
	require.NoError(t, err)
	assert.True(t, res.Fallback)
	assert.Equal(t, "quota exceeded", res.Reason)
	require.Len(t, res.Matches, FallbackSize)
	for _, m := range res.Matches {
		assert.Zero(t, m.Score)
		assert.Empty(t, m.MatchedTags)
	}
}

func TestSearchRejectsUnreadablePhoto(t *testing.T) {
	s := NewSearcher(stubRecognizer{}, nil, quietLogger())
	_, err := s.Search(context.Background(), bytes.NewReader([]byte("nope")), inventory())
	assert.Error(t, err)
}

func TestClientRecognize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "key" || pass != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"status":{"type":"error","text":"bad credentials"}}`))
			return
		}
		file, _, err := r.FormFile("image")
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"status":{"type":"error","text":"no image"}}`))
			return
		}
		file.Close()
		w.Write([]byte(`{"result":{"tags":[{"confidence":88.5,"tag":{"en":"drill"}},{"confidence":12,"tag":{"en":"wall"}}]},"status":{"type":"success"}}`))
	}))
	defer srv.Close()

	tags, err := NewClient(srv.URL, "key", "secret").Recognize(context.Background(), []byte("jpeg"), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, []Tag{{Name: "drill", Confidence: 88.5}, {Name: "wall", Confidence: 12}}, tags)

	_, err = NewClient(srv.URL, "key", "wrong").Recognize(context.Background(), []byte("jpeg"), "image/jpeg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad credentials")
}

func TestClientNotConfigured(t *testing.T) {
	_, err := NewClient("http://127.0.0.1:1", "", "").Recognize(context.Background(), nil, "image/jpeg")
	assert.Error(t, err)
}
