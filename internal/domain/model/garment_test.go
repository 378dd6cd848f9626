package model_test

import (
	"testing"
	"time"

	model "github.com/vrodas/ropero/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestGarment(t *testing.T) {
	convey.Convey("Given a Garment struct", t, func() {
		convey.Convey("When creating a new garment", func() {
			g := model.Garment{
				ID:           "garment-123",
				Category:     model.CategoryTop,
				ColorPrimary: "blanco",
				VibeTags:     []string{"casual", "minimalista"},
				Seasons:      []string{"Primavera", "Verano"},
			}

			convey.Convey("Then it should have the correct values", func() {
				convey.So(g.ID, convey.ShouldEqual, "garment-123")
				convey.So(g.Category, convey.ShouldEqual, model.CategoryTop)
				convey.So(g.ColorPrimary, convey.ShouldEqual, "blanco")
				convey.So(g.VibeTags, convey.ShouldResemble, []string{"casual", "minimalista"})
				convey.So(g.Seasons, convey.ShouldHaveLength, 2)
			})
		})

		convey.Convey("When creating a garment with zero values", func() {
			g := model.Garment{}

			convey.Convey("Then metadata slices should be nil, not empty", func() {
				convey.So(g.ID, convey.ShouldEqual, "")
				convey.So(g.Category, convey.ShouldEqual, model.Category(""))
				convey.So(g.VibeTags, convey.ShouldBeNil)
				convey.So(g.Seasons, convey.ShouldBeNil)
			})
		})

		convey.Convey("When using an unknown category", func() {
			g := model.Garment{ID: "g1", Category: model.Category("hat")}

			convey.Convey("Then the model accepts it without complaint", func() {
				convey.So(g.Category, convey.ShouldEqual, model.Category("hat"))
			})
		})
	})
}

func TestCompatibilityPair(t *testing.T) {
	convey.Convey("Given a CompatibilityPair struct", t, func() {
		convey.Convey("When creating a pair", func() {
			p := model.CompatibilityPair{
				Item1ID:   "a",
				Item2ID:   "b",
				Score:     87,
				Reasoning: "los tonos neutros combinan bien",
			}

			convey.Convey("Then it should hold the full record", func() {
				convey.So(p.Item1ID, convey.ShouldEqual, "a")
				convey.So(p.Item2ID, convey.ShouldEqual, "b")
				convey.So(p.Score, convey.ShouldEqual, 87)
				convey.So(p.Reasoning, convey.ShouldNotBeEmpty)
			})
		})
	})
}

func TestClosetEvent(t *testing.T) {
	convey.Convey("Given a ClosetEvent struct", t, func() {
		convey.Convey("When creating an add event", func() {
			ts := time.Now()
			e := model.ClosetEvent{
				EventID: "evt-1",
				Kind:    model.EventAdd,
				Garment: model.Garment{ID: "g1", Category: model.CategoryShoes},
				TS:      ts,
			}

			convey.Convey("Then it should carry the garment payload", func() {
				convey.So(e.Kind, convey.ShouldEqual, model.EventAdd)
				convey.So(e.Garment.ID, convey.ShouldEqual, "g1")
				convey.So(e.TS, convey.ShouldEqual, ts)
			})
		})

		convey.Convey("When creating a remove event", func() {
			e := model.ClosetEvent{
				EventID: "evt-2",
				Kind:    model.EventRemove,
				Garment: model.Garment{ID: "g1"},
			}

			convey.Convey("Then only the garment id is meaningful", func() {
				convey.So(e.Kind, convey.ShouldEqual, model.EventRemove)
				convey.So(e.Garment.ID, convey.ShouldEqual, "g1")
				convey.So(e.Garment.Category, convey.ShouldEqual, model.Category(""))
			})
		})
	})
}
