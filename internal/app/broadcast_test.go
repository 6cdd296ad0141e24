package app_test

import (
	"context"
	"testing"

	"quiz-session-service/internal/app"
	"quiz-session-service/internal/infra/memory"
)

func TestWatchSummaryReceivesUpdates(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore(scoringCatalog())
	service := app.NewQuizService(store, store, store)

	ch, cancel, err := service.WatchSummary(ctx, testSession)
	if err != nil {
		t.Fatalf("watch summary: %v", err)
	}
	defer cancel()

	initial := <-ch
	if initial.Stats.Total != 0 {
		t.Fatalf("expected empty initial snapshot, got %+v", initial.Stats)
	}

	if _, errs, err := service.SaveResponse(ctx, testSession, 1, "1"); err != nil || len(errs) != 0 {
		t.Fatalf("save: errs=%v err=%v", errs, err)
	}

	update := <-ch
	if update.Stats.Total != 1 || update.Stats.Correct != 1 {
		t.Fatalf("expected updated summary, got %+v", update.Stats)
	}
}

func TestWatchSummaryCancelClosesChannel(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore(scoringCatalog())
	service := app.NewQuizService(store, store, store)

	ch, cancel, err := service.WatchSummary(ctx, testSession)
	if err != nil {
		t.Fatalf("watch summary: %v", err)
	}
	<-ch // initial snapshot
	cancel()

	if _, ok := <-ch; ok {
		t.Fatalf("expected channel closed after cancel")
	}
}
