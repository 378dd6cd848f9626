package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/vrodas/ropero/internal/adapters/repository"
	service "github.com/vrodas/ropero/internal/app"
	"github.com/vrodas/ropero/internal/domain/model"
	"github.com/vrodas/ropero/internal/domain/types"
)

// waitForRanking polls TopN until it returns want entries or the deadline
// passes. Workers rebuild the ranking asynchronously, so reads need a grace
// period. A removal cannot be awaited this way: TopN over the stale larger
// ranking already truncates to want entries, so use waitForRemoval instead.
func waitForRanking(ctx context.Context, svc *service.Service, want int) []types.Entry {
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		entries, err := svc.TopN(ctx, want)
		if err == nil && len(entries) == want {
			return entries
		}
		time.Sleep(10 * time.Millisecond)
	}
	entries, _ := svc.TopN(ctx, want)
	return entries
}

// waitForRemoval polls the per-garment rank until the garment is gone from
// the ranking or the deadline passes, and returns the final lookup error.
func waitForRemoval(ctx context.Context, svc *service.Service, garmentID string) error {
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := svc.Rank(ctx, garmentID); errors.Is(err, repository.ErrNotFound) {
			return err
		}
		time.Sleep(10 * time.Millisecond)
	}
	_, err := svc.Rank(ctx, garmentID)
	return err
}

func addEvent(eventID, garmentID string, category model.Category, color string, vibes, seasons []string) model.ClosetEvent {
	return model.ClosetEvent{
		EventID: eventID,
		Kind:    model.EventAdd,
		Garment: model.Garment{
			ID:           garmentID,
			Category:     category,
			ColorPrimary: color,
			VibeTags:     vibes,
			Seasons:      seasons,
		},
		TS: time.Now().UTC(),
	}
}

func TestService_EndToEnd(t *testing.T) {
	Convey("Given a started service with a small closet", t, func() {
		svc := service.New(
			service.WithWorkerCount(2),
			service.WithQueueSize(100),
			service.WithDedupeSize(100),
		)
		ctx := context.Background()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		allSeasons := []string{"spring", "summer", "fall", "winter"}

		events := []model.ClosetEvent{
			addEvent("e1", "white-tee", model.CategoryTop, "blanco", []string{"basico"}, allSeasons),
			addEvent("e2", "red-jacket", model.CategoryOuterwear, "rojo", []string{"llamativo"}, []string{"winter"}),
			addEvent("e3", "black-jeans", model.CategoryBottom, "negro", []string{"casual"}, allSeasons),
			addEvent("e4", "white-sneakers", model.CategoryShoes, "blanco", []string{"deportivo"}, allSeasons),
		}
		for _, e := range events {
			So(svc.Enqueue(ctx, e), ShouldBeTrue)
		}

		Convey("When the workers finish processing", func() {
			entries := waitForRanking(ctx, svc, 4)

			Convey("Then every garment should be ranked", func() {
				So(entries, ShouldHaveLength, 4)
				for i, e := range entries {
					So(e.Rank, ShouldEqual, i+1)
					So(e.Label, ShouldNotBeEmpty)
					So(e.Badge, ShouldNotBeEmpty)
				}
			})

			Convey("And the ranking should be ordered by score descending", func() {
				for i := 1; i < len(entries); i++ {
					So(entries[i-1].Score, ShouldBeGreaterThanOrEqualTo, entries[i].Score)
				}
			})

			Convey("And the neutral basic tee should outrank the statement jacket", func() {
				pos := map[string]int{}
				for i, e := range entries {
					pos[e.GarmentID] = i
				}
				So(pos["white-tee"], ShouldBeLessThan, pos["red-jacket"])
			})

			Convey("And a per-garment rank lookup should agree with the ranking", func() {
				entry, err := svc.Rank(ctx, entries[0].GarmentID)
				So(err, ShouldBeNil)
				So(entry, ShouldResemble, entries[0])
			})
		})

		Convey("When a garment is removed", func() {
			waitForRanking(ctx, svc, 4)

			remove := model.ClosetEvent{
				EventID: "e5",
				Kind:    model.EventRemove,
				Garment: model.Garment{ID: "red-jacket"},
				TS:      time.Now().UTC(),
			}
			So(svc.Enqueue(ctx, remove), ShouldBeTrue)

			removalErr := waitForRemoval(ctx, svc, "red-jacket")

			Convey("Then it should disappear from the ranking", func() {
				So(errors.Is(removalErr, repository.ErrNotFound), ShouldBeTrue)

				entries, err := svc.TopN(ctx, 3)
				So(err, ShouldBeNil)
				So(entries, ShouldHaveLength, 3)
				for _, e := range entries {
					So(e.GarmentID, ShouldNotEqual, "red-jacket")
				}
			})
		})

		Convey("When stats are read after processing", func() {
			waitForRanking(ctx, svc, 4)

			stats := svc.GetStats()

			Convey("Then they should reflect the closet", func() {
				So(stats["started"], ShouldBeTrue)
				So(stats["closetSize"], ShouldEqual, 4)
			})
		})
	})
}

func TestService_EnqueueBackpressure(t *testing.T) {
	Convey("Given a service whose queue is minimal", t, func() {
		// A single slot and no worker consumption keeps the queue full.
		svc := service.New(
			service.WithWorkerCount(1),
			service.WithQueueSize(1),
		)
		ctx := context.Background()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("When flooding the queue", func() {
			accepted := 0
			for i := 0; i < 200; i++ {
				e := addEvent("flood", "g", model.CategoryTop, "negro", nil, nil)
				e.EventID = e.EventID + string(rune('a'+i%26))
				if svc.Enqueue(ctx, e) {
					accepted++
				}
			}

			Convey("Then at least one submission should be accepted", func() {
				So(accepted, ShouldBeGreaterThan, 0)
			})
		})
	})
}
