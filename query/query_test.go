package query

import (
	"testing"

	"github.com/kissbridge/kissbridge/filesystem"
	"github.com/kissbridge/kissbridge/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestQuery(t *testing.T) {
	Convey("Given remembered queries", t, func() {
		viper.Set(key.SearchRememberQueries, true)
		So(Forget(), ShouldBeNil)

		So(Remember("Moonlight", 1), ShouldBeNil)
		So(Remember("  MY LOVE STORY ", 1), ShouldBeNil)
		So(Remember("my love story", 5), ShouldBeNil)
		So(Remember("love alarm", 2), ShouldBeNil)

		Convey("Suggestions are fuzzy and ranked by use", func() {
			So(SuggestMany("love"), ShouldResemble, []string{"my love story", "love alarm"})
			So(Suggest("mnlt").MustGet(), ShouldEqual, "moonlight")
		})

		Convey("A new query invalidates earlier suggestions", func() {
			So(SuggestMany("love"), ShouldHaveLength, 2)
			So(Remember("lovely runner", 1), ShouldBeNil)
			So(SuggestMany("love"), ShouldHaveLength, 3)
		})

		Convey("Nothing is suggested when history is disabled", func() {
			viper.Set(key.SearchRememberQueries, false)
			So(Suggest("love").IsAbsent(), ShouldBeTrue)
			So(Remember("ignored", 1), ShouldBeNil)

			viper.Set(key.SearchRememberQueries, true)
			So(SuggestMany("ignored"), ShouldBeEmpty)
		})
	})
}
