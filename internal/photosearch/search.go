package photosearch

import (
	"context"
	"io"
	"log"
	"math/rand/v2"
	"sort"
	"strings"
	"sync"

	"github.com/mubashira9/Cosmic-Tracker-sub000/internal/imaging"
	"github.com/mubashira9/Cosmic-Tracker-sub000/internal/models"
)

const (
	// NoiseThreshold is the confidence at or below which a tag is ignored.
	NoiseThreshold = 30.0
	// MaxTags caps the tags used for matching.
	MaxTags = 10
	// MaxMatches caps the items returned.
	MaxMatches = 5
	// FallbackSize is the number of items sampled when recognition fails.
	FallbackSize = 3
)

// Match is an item scored against the photo's tags.
type Match struct {
	Item        models.Item `json:"item"`
	Score       float64     `json:"score"`
	MatchedTags []string    `json:"matched_tags"`
}

// Result is a photo search outcome. When Fallback is set the matches are a
// random sample with no score, and Reason says why recognition was skipped.
type Result struct {
	Tags     []Tag   `json:"tags"`
	Matches  []Match `json:"matches"`
	Fallback bool    `json:"fallback"`
	Reason   string  `json:"reason,omitempty"`
}

// Searcher runs photo searches against a Recognizer.
type Searcher struct {
	rec    Recognizer
	logger *log.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

func NewSearcher(rec Recognizer, rng *rand.Rand, logger *log.Logger) *Searcher {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Searcher{rec: rec, rng: rng, logger: logger}
}

// Search prepares the photo, tags it and ranks items by the tags they share
// with it. A photo that cannot be read is an error; a recognition failure
// degrades to a labeled random sample.
func (s *Searcher) Search(ctx context.Context, photo io.Reader, items []models.Item) (Result, error) {
	p, err := imaging.Prepare(photo)
	if err != nil {
		return Result{}, err
	}

	raw, err := s.rec.Recognize(ctx, p.Data, p.MIME)
	if err != nil {
		s.logger.Printf("photosearch: recognition failed, sampling instead: %v", err)
		return s.fallback(items, err.Error()), nil
	}

	tags := CleanTags(raw)
	return Result{Tags: tags, Matches: Rank(items, tags)}, nil
}

// CleanTags drops tags at or below NoiseThreshold and keeps the MaxTags most
// confident ones.
func CleanTags(tags []Tag) []Tag {
	out := make([]Tag, 0, len(tags))
	for _, t := range tags {
		if t.Confidence > NoiseThreshold && strings.TrimSpace(t.Name) != "" {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Confidence > out[j].Confidence })
	if len(out) > MaxTags {
		out = out[:MaxTags]
	}
	return out
}

// Rank scores each item by the confidence of the best tag it matches. A tag
// matches when it appears in the item's name, location, description, category
// or tags. Ties keep the inventory order.
func Rank(items []models.Item, tags []Tag) []Match {
	matches := []Match{}
	for _, it := range items {
		hay := []string{
			strings.ToLower(it.Name),
			strings.ToLower(it.Location),
			strings.ToLower(it.Description),
			strings.ToLower(it.Category.Name),
		}
		for _, t := range it.Tags {
			hay = append(hay, strings.ToLower(t))
		}

		m := Match{Item: it, MatchedTags: []string{}}
		for _, t := range tags {
			name := strings.ToLower(t.Name)
			for _, h := range hay {
				if h != "" && strings.Contains(h, name) {
					m.MatchedTags = append(m.MatchedTags, t.Name)
					m.Score = max(m.Score, t.Confidence)
					break
				}
			}
		}
		if len(m.MatchedTags) > 0 {
			matches = append(matches, m)
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return len(matches[i].MatchedTags) > len(matches[j].MatchedTags)
	})
	if len(matches) > MaxMatches {
		matches = matches[:MaxMatches]
	}
	return matches
}

func (s *Searcher) fallback(items []models.Item, reason string) Result {
	picked := make([]models.Item, len(items))
	copy(picked, items)
	s.mu.Lock()
	s.rng.Shuffle(len(picked), func(i, j int) { picked[i], picked[j] = picked[j], picked[i] })
	s.mu.Unlock()
	if len(picked) > FallbackSize {
		picked = picked[:FallbackSize]
	}
	matches := make([]Match, 0, len(picked))
	for _, it := range picked {
		matches = append(matches, Match{Item: it, MatchedTags: []string{}})
	}
	return Result{Tags: []Tag{}, Matches: matches, Fallback: true, Reason: reason}
}
