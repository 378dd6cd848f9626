package democloset

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/vrodas/ropero/internal/adapters/http/api"
	app "github.com/vrodas/ropero/internal/app"
	"github.com/vrodas/ropero/pkg/logger"
)

func init() {
	logger.Init()
}

func startTestService(ctx context.Context, t *testing.T) (*httptest.Server, *app.Service) {
	t.Helper()

	svc := app.New(app.WithWorkerCount(2), app.WithQueueSize(1024))
	if err := svc.Start(ctx); err != nil {
		t.Fatalf("start service: %v", err)
	}

	mux := http.NewServeMux()
	apiServer := api.NewServer(svc, svc)
	apiServer.Register(ctx, mux)

	ts := httptest.NewServer(mux)
	t.Cleanup(func() {
		ts.Close()
		svc.Stop()
	})
	return ts, svc
}

func TestGenerateGarments(t *testing.T) {
	Convey("Given a generation config", t, func() {
		ctx := context.Background()
		cfg := &Config{NumGarments: 40, Workers: 4}

		Convey("When generating garments", func() {
			subs, garments := GenerateGarments(ctx, cfg)

			Convey("Then both representations line up", func() {
				So(subs, ShouldHaveLength, 40)
				So(garments, ShouldHaveLength, 40)

				ids := make(map[string]bool, len(subs))
				for i, sub := range subs {
					So(sub.GarmentID, ShouldEqual, garments[i].ID)
					So(sub.EventID, ShouldNotBeEmpty)
					So(sub.ColorPrimary, ShouldNotBeEmpty)
					So(sub.VibeTags, ShouldNotBeEmpty)
					So(sub.Seasons, ShouldNotBeEmpty)
					So(ids[sub.GarmentID], ShouldBeFalse)
					ids[sub.GarmentID] = true

					_, err := time.Parse(time.RFC3339, sub.TS)
					So(err, ShouldBeNil)
				}
			})
		})
	})
}

func TestBuildCapsule(t *testing.T) {
	Convey("Given a generated closet", t, func() {
		ctx := context.Background()
		_, garments := GenerateGarments(ctx, &Config{NumGarments: 10, Workers: 2})

		Convey("When building a capsule", func() {
			capsule := BuildCapsule(garments)

			Convey("Then it covers every pair of the capped item set", func() {
				So(capsule.CapsuleID, ShouldNotBeEmpty)
				So(capsule.ItemIDs, ShouldHaveLength, MaxCapsuleItems)
				So(capsule.Matrix, ShouldHaveLength, MaxCapsuleItems*(MaxCapsuleItems-1)/2)
				for _, pair := range capsule.Matrix {
					So(pair.Score, ShouldBeBetweenOrEqual, ScoreMatrixMin, ScoreMatrixMax)
					So(pair.Item1ID, ShouldNotEqual, pair.Item2ID)
					So(pair.Reasoning, ShouldNotBeEmpty)
				}
			})
		})
	})
}

func TestVerification(t *testing.T) {
	Convey("Given a ranking", t, func() {
		ctx := context.Background()

		Convey("Contiguous descending ranks pass", func() {
			ranking := []Entry{
				{Rank: 1, GarmentID: "a", Score: 90},
				{Rank: 2, GarmentID: "b", Score: 70},
				{Rank: 3, GarmentID: "c", Score: 70},
			}
			So(verifyRankingOrder(ctx, ranking), ShouldBeTrue)
		})

		Convey("Out of order scores fail", func() {
			ranking := []Entry{
				{Rank: 1, GarmentID: "a", Score: 50},
				{Rank: 2, GarmentID: "b", Score: 80},
			}
			So(verifyRankingOrder(ctx, ranking), ShouldBeFalse)
		})

		Convey("Non contiguous ranks fail", func() {
			ranking := []Entry{
				{Rank: 1, GarmentID: "a", Score: 90},
				{Rank: 3, GarmentID: "b", Score: 80},
			}
			So(verifyRankingOrder(ctx, ranking), ShouldBeFalse)
		})

		Convey("Top score must match the local best", func() {
			expected := map[string]int{"a": 90, "b": 60}
			So(verifyRankingConsistency(ctx, expected, []Entry{{Rank: 1, GarmentID: "a", Score: 90}}), ShouldBeTrue)
			So(verifyRankingConsistency(ctx, expected, []Entry{{Rank: 1, GarmentID: "a", Score: 80}}), ShouldBeFalse)
		})
	})
}

func TestAverageScore(t *testing.T) {
	Convey("Average score over retrieved ranks", t, func() {
		So(AverageScore(nil), ShouldEqual, 0)
		ranks := map[string]Entry{
			"a": {Score: 80},
			"b": {Score: 60},
		}
		So(AverageScore(ranks), ShouldEqual, 70)
	})
}

func TestDemoAgainstLiveService(t *testing.T) {
	Convey("Given a running service and a small closet", t, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		ts, _ := startTestService(ctx, t)
		cfg := &Config{
			BaseURL:     ts.URL,
			NumGarments: 12,
			TopN:        5,
			Workers:     3,
			Timeout:     5 * time.Second,
		}
		client := NewHTTPClient(cfg.Timeout)
		stats := &Stats{StartTime: time.Now()}

		Convey("The health endpoint responds", func() {
			So(checkServiceHealth(ctx, client, cfg), ShouldBeNil)
		})

		Convey("Submitted garments show up ranked and verified", func() {
			subs, garments := GenerateGarments(ctx, cfg)
			SubmitGarments(ctx, client, cfg, subs, stats)
			So(stats.SubmitSuccessful, ShouldEqual, int64(len(subs)))
			So(stats.SubmitFailed, ShouldEqual, 0)

			// Poll until the ranking catches up with the closet.
			deadline := time.Now().Add(5 * time.Second)
			var ranking []Entry
			for time.Now().Before(deadline) {
				var err error
				ranking, err = GetRanking(ctx, client, cfg, stats)
				if err == nil && len(ranking) == cfg.TopN {
					break
				}
				time.Sleep(20 * time.Millisecond)
			}
			So(ranking, ShouldHaveLength, cfg.TopN)

			ranks := RetrieveRanks(ctx, client, cfg, subs, stats)
			So(stats.RanksRetrieved, ShouldEqual, len(subs))

			So(VerifyResults(ctx, garments, ranks, ranking), ShouldBeTrue)
		})

		Convey("A capsule round trips through the service", func() {
			_, garments := GenerateGarments(ctx, cfg)
			capsule := BuildCapsule(garments)
			summary, err := StoreCapsule(ctx, client, cfg, capsule)
			So(err, ShouldBeNil)
			So(summary.CapsuleID, ShouldEqual, capsule.CapsuleID)
			So(summary.ItemCount, ShouldEqual, len(capsule.ItemIDs))
			So(summary.PairCount, ShouldEqual, len(capsule.Matrix))
		})

		Convey("Deleting a garment removes it from the ranking", func() {
			subs, _ := GenerateGarments(ctx, &Config{NumGarments: 3, Workers: 1})
			SubmitGarments(ctx, client, cfg, subs, stats)

			deadline := time.Now().Add(5 * time.Second)
			for time.Now().Before(deadline) {
				if _, err := getRank(ctx, client, cfg.BaseURL, subs[0].GarmentID); err == nil {
					break
				}
				time.Sleep(20 * time.Millisecond)
			}

			status, err := client.Delete(ctx, cfg.BaseURL+"/garments/"+subs[0].GarmentID)
			So(err, ShouldBeNil)
			So(status, ShouldEqual, http.StatusAccepted)

			deadline = time.Now().Add(5 * time.Second)
			removed := false
			for time.Now().Before(deadline) {
				if _, err := getRank(ctx, client, cfg.BaseURL, subs[0].GarmentID); err != nil {
					removed = true
					break
				}
				time.Sleep(20 * time.Millisecond)
			}
			So(removed, ShouldBeTrue)
		})
	})
}
