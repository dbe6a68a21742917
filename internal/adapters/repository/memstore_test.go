package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/podium/internal/domain/clock"
)

var epoch = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func TestMemoryStore_Create(t *testing.T) {
	Convey("Given an empty memory store", t, func() {
		ctx := context.Background()
		s := NewMemoryStore(ctx)
		defer func() { _ = s.Close() }()

		Convey("When a competition is created", func() {
			c, err := s.Create(ctx, "PUBG_MOBILE", epoch, epoch.Add(time.Hour))

			Convey("Then it gets an id and an empty index", func() {
				So(err, ShouldBeNil)
				So(c.ID, ShouldNotBeEmpty)
				So(c.GameID, ShouldEqual, "PUBG_MOBILE")
				So(c.Index.ID(), ShouldEqual, c.ID)
				So(c.Index.Len(), ShouldEqual, 0)
				So(s.Count(ctx), ShouldEqual, 1)

				got, err := s.Get(ctx, c.ID)
				So(err, ShouldBeNil)
				So(got, ShouldEqual, c)
			})
		})

		Convey("When two competitions are created", func() {
			a, _ := s.Create(ctx, "g", epoch, epoch.Add(time.Hour))
			b, _ := s.Create(ctx, "g", epoch, epoch.Add(time.Hour))

			Convey("Then their ids differ", func() {
				So(a.ID, ShouldNotEqual, b.ID)
			})
		})

		Convey("When the window is empty or reversed", func() {
			_, errEqual := s.Create(ctx, "g", epoch, epoch)
			_, errReversed := s.Create(ctx, "g", epoch.Add(time.Minute), epoch)

			Convey("Then ErrInvalidWindow is returned", func() {
				So(errors.Is(errEqual, ErrInvalidWindow), ShouldBeTrue)
				So(errors.Is(errReversed, ErrInvalidWindow), ShouldBeTrue)
				So(s.Count(ctx), ShouldEqual, 0)
			})
		})

		Convey("When the game id is blank", func() {
			_, err := s.Create(ctx, " ", epoch, epoch.Add(time.Hour))

			Convey("Then ErrInvalidGame is returned", func() {
				So(err, ShouldEqual, ErrInvalidGame)
			})
		})

		Convey("When an unknown id is looked up", func() {
			_, err := s.Get(ctx, "missing")

			Convey("Then ErrNotFound is returned", func() {
				So(err, ShouldEqual, ErrNotFound)
			})
		})
	})
}

func TestMemoryStore_Active(t *testing.T) {
	Convey("Given competitions with different windows", t, func() {
		ctx := context.Background()
		s := NewMemoryStore(ctx)
		defer func() { _ = s.Close() }()

		early, _ := s.Create(ctx, "g", epoch, epoch.Add(time.Hour))
		late, _ := s.Create(ctx, "g", epoch.Add(30*time.Minute), epoch.Add(2*time.Hour))
		other, _ := s.Create(ctx, "other", epoch, epoch.Add(time.Hour))

		Convey("Then ForGame lists a game's competitions by start", func() {
			So(s.ForGame(ctx, "g"), ShouldResemble, []*Competition{early, late})
			So(s.ForGame(ctx, "none"), ShouldBeEmpty)
			So(s.All(ctx), ShouldHaveLength, 3)
		})

		Convey("Then windows include both bounds", func() {
			So(s.Active(ctx, "g", epoch), ShouldResemble, []*Competition{early})
			So(s.Active(ctx, "g", epoch.Add(time.Hour)), ShouldResemble, []*Competition{early, late})
			So(s.Active(ctx, "g", epoch.Add(2*time.Hour)), ShouldResemble, []*Competition{late})
			So(s.Active(ctx, "g", epoch.Add(-time.Nanosecond)), ShouldBeEmpty)
			So(s.Active(ctx, "g", epoch.Add(2*time.Hour+time.Nanosecond)), ShouldBeEmpty)
			So(s.Active(ctx, "other", epoch), ShouldResemble, []*Competition{other})
		})

		Convey("When a competition is retired", func() {
			So(s.Retire(ctx, early.ID), ShouldBeNil)

			Convey("Then it is gone from every lookup", func() {
				_, err := s.Get(ctx, early.ID)
				So(err, ShouldEqual, ErrNotFound)
				So(s.ForGame(ctx, "g"), ShouldResemble, []*Competition{late})
				So(s.Count(ctx), ShouldEqual, 2)
				So(s.Retire(ctx, early.ID), ShouldEqual, ErrNotFound)
			})
		})
	})
}

func TestMemoryStore_Metrics(t *testing.T) {
	Convey("Given a store with a manual clock and a short metrics interval", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		s := NewMemoryStore(ctx, WithClock(clock.NewManual(epoch)), WithMetricsUpdateInterval(5*time.Millisecond))

		c, _ := s.Create(ctx, "g", epoch, epoch.Add(time.Hour))
		c.Index.Update("u1", 10)

		Convey("Then the updater runs and Close is idempotent", func() {
			time.Sleep(20 * time.Millisecond)
			s.updateMetrics()
			So(s.Close(), ShouldBeNil)
			So(s.Close(), ShouldBeNil)
		})
	})
}

func TestMemoryStore_Concurrent(t *testing.T) {
	Convey("Given concurrent creators and readers", t, func() {
		ctx := context.Background()
		s := NewMemoryStore(ctx)
		defer func() { _ = s.Close() }()

		var wg sync.WaitGroup
		for g := 0; g < 8; g++ {
			wg.Add(1)
			go func(g int) {
				defer wg.Done()
				game := fmt.Sprintf("game-%d", g%2)
				for i := 0; i < 50; i++ {
					c, err := s.Create(ctx, game, epoch, epoch.Add(time.Hour))
					if err != nil {
						panic(err)
					}
					_ = s.Active(ctx, game, epoch)
					if i%5 == 0 {
						_ = s.Retire(ctx, c.ID)
					}
				}
			}(g)
		}
		wg.Wait()

		Convey("Then the counts add up", func() {
			So(s.Count(ctx), ShouldEqual, 8*40)
			So(len(s.ForGame(ctx, "game-0"))+len(s.ForGame(ctx, "game-1")), ShouldEqual, 8*40)
		})
	})
}
