package worker_test

import (
	"context"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	queue "github.com/vrodas/ropero/internal/adapters/mq/queue"
	repository "github.com/vrodas/ropero/internal/adapters/repository"
	worker "github.com/vrodas/ropero/internal/adapters/mq/worker"
	model "github.com/vrodas/ropero/internal/domain/model"
	versatility "github.com/vrodas/ropero/internal/domain/versatility"
	"github.com/vrodas/ropero/pkg/logger"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func waitForCount(ctx context.Context, store *repository.ClosetStore, want int) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if store.Count(ctx) == want {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return false
}

func waitForRank(ctx context.Context, store *repository.ClosetStore, garmentID string) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := store.Rank(ctx, garmentID); err == nil {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return false
}

func TestWorkerPool(t *testing.T) {
	Convey("Given a worker pool over a queue and store", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		q := queue.NewInMemoryQueue(queue.WithCapacity(100), queue.WithBufferSize(100))
		store := repository.NewClosetStore(ctx)
		scorer := versatility.New()

		pool := worker.NewPool(2, q, scorer, store)
		pool.Start(ctx)
		defer pool.Stop()

		Convey("When an add event flows through", func() {
			ok := q.Enqueue(ctx, model.ClosetEvent{
				EventID: "evt-1",
				Kind:    model.EventAdd,
				Garment: model.Garment{
					ID:           "shirt-1",
					Category:     model.CategoryTop,
					ColorPrimary: "blanco",
					VibeTags:     []string{"casual"},
					Seasons:      []string{"Verano"},
				},
				TS: time.Now(),
			})

			Convey("Then the garment lands in the store with a ranking", func() {
				So(ok, ShouldBeTrue)
				So(waitForRank(ctx, store, "shirt-1"), ShouldBeTrue)

				entry, err := store.Rank(ctx, "shirt-1")
				So(err, ShouldBeNil)
				So(entry.Rank, ShouldEqual, 1)
				So(entry.Score, ShouldEqual, scorer.Score(store.Snapshot(ctx)[0], store.Snapshot(ctx)))
				So(entry.Label, ShouldEqual, versatility.Label(entry.Score))
				So(entry.Badge, ShouldEqual, versatility.BadgeColor(entry.Score))
			})
		})

		Convey("When several garments are added", func() {
			garments := []model.Garment{
				{ID: "top-1", Category: model.CategoryTop, ColorPrimary: "negro"},
				{ID: "bottom-1", Category: model.CategoryBottom, ColorPrimary: "rojo"},
				{ID: "shoes-1", Category: model.CategoryShoes, ColorPrimary: "verde"},
			}
			for i, g := range garments {
				So(q.Enqueue(ctx, model.ClosetEvent{
					EventID: "evt-" + g.ID,
					Kind:    model.EventAdd,
					Garment: g,
					TS:      time.Now().Add(time.Duration(i)),
				}), ShouldBeTrue)
			}

			Convey("Then the ranking eventually covers the whole closet", func() {
				So(waitForCount(ctx, store, 3), ShouldBeTrue)
				So(waitForRank(ctx, store, "shoes-1"), ShouldBeTrue)

				// The final rebuild may briefly trail the last upsert.
				deadline := time.Now().Add(2 * time.Second)
				for time.Now().Before(deadline) {
					entries, err := store.TopN(ctx, 3)
					if err == nil && len(entries) == 3 {
						for i := 1; i < len(entries); i++ {
							So(entries[i-1].Score, ShouldBeGreaterThanOrEqualTo, entries[i].Score)
						}
						return
					}
					time.Sleep(10 * time.Millisecond)
				}
				So("ranking never covered the closet", ShouldBeEmpty)
			})
		})

		Convey("When a remove event follows an add", func() {
			So(q.Enqueue(ctx, model.ClosetEvent{
				EventID: "evt-add",
				Kind:    model.EventAdd,
				Garment: model.Garment{ID: "fleeting", Category: model.CategoryShoes},
			}), ShouldBeTrue)
			So(waitForCount(ctx, store, 1), ShouldBeTrue)

			So(q.Enqueue(ctx, model.ClosetEvent{
				EventID: "evt-remove",
				Kind:    model.EventRemove,
				Garment: model.Garment{ID: "fleeting"},
			}), ShouldBeTrue)

			Convey("Then the garment disappears from store and ranking", func() {
				So(waitForCount(ctx, store, 0), ShouldBeTrue)

				deadline := time.Now().Add(2 * time.Second)
				for time.Now().Before(deadline) {
					if _, err := store.Rank(ctx, "fleeting"); err != nil {
						return
					}
					time.Sleep(10 * time.Millisecond)
				}
				So("garment still ranked after removal", ShouldBeEmpty)
			})
		})

		Convey("When removing a garment that does not exist", func() {
			So(q.Enqueue(ctx, model.ClosetEvent{
				EventID: "evt-ghost",
				Kind:    model.EventRemove,
				Garment: model.Garment{ID: "ghost"},
			}), ShouldBeTrue)

			Convey("Then the pool keeps running", func() {
				// Give the event time to drain, then prove the pool still works.
				time.Sleep(50 * time.Millisecond)
				So(q.Enqueue(ctx, model.ClosetEvent{
					EventID: "evt-after",
					Kind:    model.EventAdd,
					Garment: model.Garment{ID: "after", Category: model.CategoryTop},
				}), ShouldBeTrue)
				So(waitForCount(ctx, store, 1), ShouldBeTrue)
			})
		})
	})
}

func TestWorkerShutdown(t *testing.T) {
	Convey("Given a running worker", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		q := queue.NewInMemoryQueue(queue.WithCapacity(10), queue.WithBufferSize(10))
		store := repository.NewClosetStore(ctx)
		w := worker.NewInMemoryWorker(q, versatility.New(), store, worker.WithName("worker-test"))

		go w.Run(ctx)

		Convey("When shutting down", func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Second)
			defer shutdownCancel()

			err := w.Shutdown(shutdownCtx)

			Convey("Then the worker stops promptly", func() {
				So(err, ShouldBeNil)
			})
		})
	})
}
