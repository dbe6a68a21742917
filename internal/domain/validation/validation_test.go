package validation_test

import (
	"errors"
	"testing"

	"github.com/okian/podium/internal/domain/validation"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRangeValidator(t *testing.T) {
	Convey("Given a range validator for [0, 1e9]", t, func() {
		v := validation.NewRangeValidator(0, 1_000_000_000)

		Convey("Then the bounds themselves are accepted", func() {
			So(v.Validate(0), ShouldBeNil)
			So(v.Validate(1_000_000_000), ShouldBeNil)
			So(v.Validate(1500), ShouldBeNil)
		})

		Convey("When a score is below the minimum", func() {
			err := v.Validate(-1)

			Convey("Then it is rejected with the range in the message", func() {
				So(errors.Is(err, validation.ErrScoreOutOfRange), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "between 0 and 1000000000")
			})
		})

		Convey("When a score is above the maximum", func() {
			err := v.Validate(1_000_000_001)

			Convey("Then it is rejected", func() {
				So(errors.Is(err, validation.ErrScoreOutOfRange), ShouldBeTrue)
			})
		})
	})
}
