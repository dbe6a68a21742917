package ranking_test

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/okian/podium/internal/domain/ranking"
	. "github.com/smartystreets/goconvey/convey"
)

func newScenarioIndex() *ranking.Index {
	x, err := ranking.NewIndex("lb", "PUBG_MOBILE")
	if err != nil {
		panic(err)
	}
	x.Update("u1", 1000)
	x.Update("u2", 2000)
	x.Update("u3", 1500)
	x.Update("u1", 2500)
	x.Update("u2", 1800)
	return x
}

func TestNeighbors_Scenario(t *testing.T) {
	Convey("Given the reference submission sequence", t, func() {
		x := newScenarioIndex()

		Convey("Then current scores follow the ratchet", func() {
			s1, _ := x.CurrentScore("u1")
			s2, _ := x.CurrentScore("u2")
			s3, _ := x.CurrentScore("u3")
			So(s1, ShouldEqual, 2500)
			So(s2, ShouldEqual, 2000)
			So(s3, ShouldEqual, 1500)
		})

		Convey("When asking who is just above u3", func() {
			got, err := ranking.Neighbors(x, "u3", ranking.Higher, 2)

			Convey("Then the closest user comes first", func() {
				So(err, ShouldBeNil)
				So(got, ShouldResemble, []ranking.UserScore{{UserID: "u2", Score: 2000}, {UserID: "u1", Score: 2500}})
			})
		})

		Convey("When asking who is just below u3", func() {
			got, err := ranking.Neighbors(x, "u3", ranking.Lower, 2)

			Convey("Then nobody is returned", func() {
				So(err, ShouldBeNil)
				So(got, ShouldBeEmpty)
			})
		})

		Convey("When asking who is just below u1", func() {
			got, err := ranking.Neighbors(x, "u1", ranking.Lower, 5)

			Convey("Then the lower scores come highest first", func() {
				So(err, ShouldBeNil)
				So(got, ShouldResemble, []ranking.UserScore{{UserID: "u2", Score: 2000}, {UserID: "u3", Score: 1500}})
			})
		})
	})
}

func TestNeighbors_EdgeCases(t *testing.T) {
	Convey("Given a populated index", t, func() {
		x := newScenarioIndex()

		Convey("When the user never submitted", func() {
			lower, errLower := ranking.Neighbors(x, "ghost", ranking.Lower, 5)
			higher, errHigher := ranking.Neighbors(x, "ghost", ranking.Higher, 5)

			Convey("Then both directions are empty without error", func() {
				So(errLower, ShouldBeNil)
				So(errHigher, ShouldBeNil)
				So(lower, ShouldBeEmpty)
				So(higher, ShouldBeEmpty)
			})
		})

		Convey("When count is zero", func() {
			got, err := ranking.Neighbors(x, "u3", ranking.Higher, 0)

			Convey("Then the result is empty", func() {
				So(err, ShouldBeNil)
				So(got, ShouldNotBeNil)
				So(got, ShouldBeEmpty)
			})
		})

		Convey("When count is negative", func() {
			got, err := ranking.Neighbors(x, "u3", ranking.Lower, -1)

			Convey("Then ErrInvalidCount is reported", func() {
				So(got, ShouldBeNil)
				So(errors.Is(err, ranking.ErrInvalidCount), ShouldBeTrue)
			})
		})

		Convey("When the direction is unknown", func() {
			_, err := ranking.Neighbors(x, "u3", ranking.Direction(9), 1)

			Convey("Then ErrInvalidDirection is reported", func() {
				So(errors.Is(err, ranking.ErrInvalidDirection), ShouldBeTrue)
			})
		})
	})
}

func TestNeighbors_Ties(t *testing.T) {
	Convey("Given several users sharing buckets around a target", t, func() {
		x, _ := ranking.NewIndex("lb", "game")
		x.Update("target", 50)
		x.Update("peer", 50)
		for _, u := range []string{"h2", "h1", "h3"} {
			x.Update(u, 60)
		}
		x.Update("top", 90)
		for _, u := range []string{"l2", "l1"} {
			x.Update(u, 40)
		}
		x.Update("bottom", 10)

		Convey("When asking for fewer higher users than the closest bucket holds", func() {
			got, _ := ranking.Neighbors(x, "target", ranking.Higher, 2)

			Convey("Then only the closest bucket is used, by ascending id", func() {
				So(got, ShouldResemble, []ranking.UserScore{{UserID: "h1", Score: 60}, {UserID: "h2", Score: 60}})
			})
		})

		Convey("When asking for all higher users", func() {
			got, _ := ranking.Neighbors(x, "target", ranking.Higher, 10)

			Convey("Then buckets come closest first and the own bucket is skipped", func() {
				So(got, ShouldResemble, []ranking.UserScore{
					{UserID: "h1", Score: 60},
					{UserID: "h2", Score: 60},
					{UserID: "h3", Score: 60},
					{UserID: "top", Score: 90},
				})
			})
		})

		Convey("When asking for lower users", func() {
			got, _ := ranking.Neighbors(x, "target", ranking.Lower, 3)

			Convey("Then the peer on the same score is excluded", func() {
				So(got, ShouldResemble, []ranking.UserScore{
					{UserID: "l1", Score: 40},
					{UserID: "l2", Score: 40},
					{UserID: "bottom", Score: 10},
				})
			})
		})
	})
}

func TestNeighbors_Bounds(t *testing.T) {
	Convey("Given a randomly filled index", t, func() {
		x, _ := ranking.NewIndex("lb", "game")
		rng := rand.New(rand.NewSource(42))
		for i := 0; i < 2000; i++ {
			x.Update(fmt.Sprintf("u%03d", rng.Intn(300)), int64(rng.Intn(200)))
		}

		Convey("Then every query respects count, side and order", func() {
			for i := 0; i < 300; i++ {
				u := fmt.Sprintf("u%03d", i)
				own, ok := x.CurrentScore(u)
				if !ok {
					continue
				}
				k := rng.Intn(25)

				lower, err := ranking.Neighbors(x, u, ranking.Lower, k)
				So(err, ShouldBeNil)
				So(len(lower), ShouldBeLessThanOrEqualTo, k)
				for j, n := range lower {
					So(n.Score, ShouldBeLessThan, own)
					if j > 0 {
						So(n.Score, ShouldBeLessThanOrEqualTo, lower[j-1].Score)
					}
				}

				higher, err := ranking.Neighbors(x, u, ranking.Higher, k)
				So(err, ShouldBeNil)
				So(len(higher), ShouldBeLessThanOrEqualTo, k)
				for j, n := range higher {
					So(n.Score, ShouldBeGreaterThan, own)
					if j > 0 {
						So(n.Score, ShouldBeGreaterThanOrEqualTo, higher[j-1].Score)
					}
				}
			}
		})
	})
}

func TestParseDirection(t *testing.T) {
	Convey("Given direction strings", t, func() {
		for _, s := range []string{"lower", "BELOW", " next "} {
			d, err := ranking.ParseDirection(s)
			So(err, ShouldBeNil)
			So(d, ShouldEqual, ranking.Lower)
		}
		for _, s := range []string{"higher", "Above", "prev"} {
			d, err := ranking.ParseDirection(s)
			So(err, ShouldBeNil)
			So(d, ShouldEqual, ranking.Higher)
		}
		_, err := ranking.ParseDirection("sideways")
		So(errors.Is(err, ranking.ErrInvalidDirection), ShouldBeTrue)
		So(ranking.Lower.String(), ShouldEqual, "lower")
		So(ranking.Higher.String(), ShouldEqual, "higher")
	})
}
