// Package news serves the simulated live headline feed backing the
// dashboard's news rail.
package news

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Item is one feed entry as the UI consumes it. Sentiment fields are not
// part of the feed; they attach client-side after an analysis call.
type Item struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Time  string `json:"time"`
}

var seedHeadlines = []string{
	"New swing state poll shows tightening race in PA",
	"Major debate performance shifts overall odds",
	"Key endorsement missed, odds drop 2%",
	"Record volume traded on Swing State markets today",
	"Campaign finance report reveals cash disadvantage",
}

// Ages for the initial items, newest first, so the feed looks alive
// from the first poll.
var seedAges = []time.Duration{
	10 * time.Minute,
	1 * time.Hour,
	3 * time.Hour,
	5 * time.Hour,
	12 * time.Hour,
}

type entry struct {
	id    string
	title string
	at    time.Time
}

// Feed holds the rotating headline set. Rotation runs on a cron interval;
// readers always get an independent snapshot.
type Feed struct {
	mu      sync.Mutex
	entries []entry
	logger  *zap.Logger
	now     func() time.Time
}

func NewFeed(logger *zap.Logger) *Feed {
	f := &Feed{
		logger: logger,
		now:    time.Now,
	}
	now := f.now()
	for i, title := range seedHeadlines {
		age := seedAges[i%len(seedAges)]
		f.entries = append(f.entries, entry{
			id:    uuid.NewString(),
			title: title,
			at:    now.Add(-age),
		})
	}
	return f
}

// Items renders the current feed, newest first.
func (f *Feed) Items() []Item {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := f.now()
	out := make([]Item, 0, len(f.entries))
	for _, e := range f.entries {
		out = append(out, Item{
			ID:    e.id,
			Title: e.title,
			Time:  relativeAge(now.Sub(e.at)),
		})
	}
	return out
}

// Rotate recycles the oldest headline as a fresh arrival, simulating a live
// wire. Called from the cron runner.
func (f *Feed) Rotate() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.entries) == 0 {
		return
	}
	oldest := 0
	for i := range f.entries {
		if f.entries[i].at.Before(f.entries[oldest].at) {
			oldest = i
		}
	}
	recycled := entry{
		id:    uuid.NewString(),
		title: f.entries[oldest].title,
		at:    f.now(),
	}
	f.entries = append(f.entries[:oldest], f.entries[oldest+1:]...)
	f.entries = append([]entry{recycled}, f.entries...)
	if f.logger != nil {
		f.logger.Debug("news feed rotated", zap.String("title", recycled.title))
	}
}

func relativeAge(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
