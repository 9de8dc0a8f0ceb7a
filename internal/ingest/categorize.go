package ingest

import (
	"context"
	"log"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/tvgateway/tv-gateway/internal/catalog"
	"github.com/tvgateway/tv-gateway/internal/metrics"
)

// Classifier is an external category classifier: given a channel name it
// returns one label, expected to be a member of catalog.Categories. Calls are
// fallible and rate-limited; failures never block categorization.
type Classifier interface {
	Classify(ctx context.Context, channelName string) (string, error)
}

// keywordTable maps each category to its lower-case substrings. Matching
// iterates catalog.Categories in declaration order, so the first category
// with a hit wins ties.
var keywordTable = map[catalog.Category][]string{
	catalog.CategorySports:        {"sport", "espn", "cricket", "football", "soccer", "tennis", "wwe", "golf", "racing", "nba", "nfl"},
	catalog.CategoryNews:          {"news", "cnn", "bbc", "ndtv", "cnbc", "bloomberg", "times now", "aaj tak"},
	catalog.CategoryEntertainment: {"entertainment", "zee tv", "sony", "star plus", "colors", "drama", "comedy"},
	catalog.CategoryMovies:        {"movie", "cinema", "film", "pix", "hbo", "flix", "golds"},
	catalog.CategoryMusic:         {"music", "mtv", "hits", "radio", "9xm", "mastiii"},
	catalog.CategoryKids:          {"kids", "cartoon", "nick", "pogo", "disney", "toon", "chutti"},
	catalog.CategoryDocumentary:   {"discovery", "nat geo", "national geographic", "history", "animal planet", "docu"},
	catalog.CategoryReligious:     {"devotional", "bhakti", "aastha", "sanskar", "peace tv", "quran", "gospel", "shraddha"},
	catalog.CategoryRegional:      {"punjabi", "tamil", "telugu", "kannada", "malayalam", "bangla", "bhojpuri", "marathi", "gujarati", "regional"},
}

// KeywordCategory assigns a category from the static keyword table, or Other
// when nothing matches.
func KeywordCategory(name string) catalog.Category {
	lower := strings.ToLower(name)
	for _, cat := range catalog.Categories {
		for _, kw := range keywordTable[cat] {
			if strings.Contains(lower, kw) {
				return cat
			}
		}
	}
	return catalog.CategoryOther
}

// Categorizer assigns categories to pending channels: external classifier
// when configured (paced, per-call timeout, enum-guarded), keyword fallback
// always.
type Categorizer struct {
	classifier Classifier
	limiter    *rate.Limiter
	timeout    time.Duration
}

// NewCategorizer builds a Categorizer. classifier may be nil for
// keyword-only mode. delay is the mandatory wait between classifier calls.
func NewCategorizer(classifier Classifier, delay, timeout time.Duration) *Categorizer {
	if delay <= 0 {
		delay = time.Second
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Categorizer{
		classifier: classifier,
		limiter:    rate.NewLimiter(rate.Every(delay), 1),
		timeout:    timeout,
	}
}

// Categorize returns the category for one channel name. The classifier
// result is accepted only when it is exactly a member of the fixed set; any
// failure degrades to the keyword path.
func (c *Categorizer) Categorize(ctx context.Context, name string) catalog.Category {
	if c.classifier != nil {
		if err := c.limiter.Wait(ctx); err == nil {
			callCtx, cancel := context.WithTimeout(ctx, c.timeout)
			label, err := c.classifier.Classify(callCtx, name)
			cancel()
			switch {
			case err != nil:
				metrics.ClassifierCalls.WithLabelValues("error").Inc()
				log.Printf("ingest: classifier failed for %q (%v); using keyword fallback", name, err)
			default:
				if cat, ok := catalog.ParseCategory(strings.TrimSpace(label)); ok {
					metrics.ClassifierCalls.WithLabelValues("accepted").Inc()
					return cat
				}
				metrics.ClassifierCalls.WithLabelValues("rejected").Inc()
			}
		}
	}
	return KeywordCategory(name)
}

// Run categorizes every pending channel in the store. Idempotent: channels
// that already have a category are untouched. Returns the number of channels
// assigned.
func (c *Categorizer) Run(ctx context.Context, store *catalog.Store) int {
	assigned := 0
	for _, ch := range store.Pending() {
		if ctx.Err() != nil {
			break
		}
		if err := store.SetCategory(ch.ID, c.Categorize(ctx, ch.Name)); err != nil {
			log.Printf("ingest: set category for %s: %v", ch.ID, err)
			continue
		}
		assigned++
	}
	return assigned
}
