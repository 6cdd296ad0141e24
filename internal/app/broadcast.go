package app

import (
	"context"
	"log"
	"sync"

	"quiz-session-service/internal/domain"
)

// WatchSummary streams summary snapshots for a session: the current summary
// first, then a fresh one after each accepted answer. The caller must invoke
// the returned cancel function to avoid leaks.
func (s *QuizService) WatchSummary(ctx context.Context, sessionID string) (<-chan domain.Summary, func(), error) {
	initial, err := s.BuildSummary(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	ch, cancel := s.feed.subscribe(sessionID)
	ch <- initial
	return ch, cancel, nil
}

// publishSummary pushes an updated summary to any watchers of the session.
// Best effort: a failed rebuild only costs the live feed, not the write.
func (s *QuizService) publishSummary(ctx context.Context, sessionID string) {
	if !s.feed.hasWatchers(sessionID) {
		return
	}
	summary, err := s.BuildSummary(ctx, sessionID)
	if err != nil {
		log.Printf("summary feed rebuild failed for session %s: %v", sessionID, err)
		return
	}
	s.feed.publish(sessionID, summary)
}

// summaryFeed fans summary updates out to per-session watcher channels.
type summaryFeed struct {
	mu       sync.Mutex
	watchers map[string]map[chan domain.Summary]struct{}
}

func newSummaryFeed() *summaryFeed {
	return &summaryFeed{watchers: make(map[string]map[chan domain.Summary]struct{})}
}

func (f *summaryFeed) subscribe(sessionID string) (chan domain.Summary, func()) {
	ch := make(chan domain.Summary, 8)

	f.mu.Lock()
	if f.watchers[sessionID] == nil {
		f.watchers[sessionID] = make(map[chan domain.Summary]struct{})
	}
	f.watchers[sessionID][ch] = struct{}{}
	f.mu.Unlock()

	cancel := func() {
		f.mu.Lock()
		if set, ok := f.watchers[sessionID]; ok {
			if _, ok := set[ch]; ok {
				delete(set, ch)
				close(ch)
			}
			if len(set) == 0 {
				delete(f.watchers, sessionID)
			}
		}
		f.mu.Unlock()
	}
	return ch, cancel
}

func (f *summaryFeed) hasWatchers(sessionID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.watchers[sessionID]) > 0
}

func (f *summaryFeed) publish(sessionID string, summary domain.Summary) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for ch := range f.watchers[sessionID] {
		select {
		case ch <- summary:
		default:
			// Drop the stale frame so a slow watcher never blocks a write.
			select {
			case <-ch:
			default:
			}
			ch <- summary
		}
	}
}
