package service

import (
	"sync"

	"github.com/sreecharan-desu/echo.Ink/internal/models"
)

// Feed event types pushed to /ws subscribers.
const (
	EventPostCreated = "post_created"
	EventPostUpdated = "post_updated"
	EventPostDeleted = "post_deleted"
)

// FeedEvent is one post lifecycle notification. Deletes carry only the id.
type FeedEvent struct {
	Type   string       `json:"type"`
	Post   *models.Post `json:"post,omitempty"`
	PostID string       `json:"id,omitempty"`
}

// subscriberBuffer bounds each subscriber channel; a full buffer drops the
// event rather than block the publishing request.
const subscriberBuffer = 16

// FeedService is an in-process fan-out of post events to live subscribers.
type FeedService struct {
	mu   sync.Mutex
	subs map[chan FeedEvent]struct{}
}

func NewFeedService() *FeedService {
	return &FeedService{subs: make(map[chan FeedEvent]struct{})}
}

var _ Feed = (*FeedService)(nil)

// Subscribe registers a listener and returns its channel plus a cancel func.
// Cancel is idempotent and closes the channel.
func (f *FeedService) Subscribe() (<-chan FeedEvent, func()) {
	ch := make(chan FeedEvent, subscriberBuffer)

	f.mu.Lock()
	f.subs[ch] = struct{}{}
	f.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.subs, ch)
			f.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// Publish delivers ev to every subscriber without blocking the caller.
func (f *FeedService) Publish(ev FeedEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for ch := range f.subs {
		select {
		case ch <- ev:
		default:
			// Slow consumer: drop rather than stall the write path.
		}
	}
}
