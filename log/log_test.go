package log

import (
	"testing"

	"github.com/kissbridge/kissbridge/filesystem"
	"github.com/kissbridge/kissbridge/key"
	"github.com/kissbridge/kissbridge/where"
	"github.com/samber/lo"
	logrus "github.com/sirupsen/logrus"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func TestSetup(t *testing.T) {
	Convey("Setup", t, func() {
		filesystem.SetMemMapFs()
		defer func() { enabled = false }()

		Convey("Falls back to info on an unknown level", func() {
			viper.Set(key.LogsLevel, "loud")
			So(Setup(), ShouldBeNil)
			So(logrus.GetLevel(), ShouldEqual, logrus.InfoLevel)
		})

		Convey("Creates a dated file when writing is enabled", func() {
			viper.Set(key.LogsWrite, true)
			viper.Set(key.LogsLevel, "debug")
			defer viper.Set(key.LogsWrite, false)

			So(Setup(), ShouldBeNil)
			Info("hello")
			entries := lo.Must(filesystem.API().ReadDir(where.Logs()))
			So(entries, ShouldHaveLength, 1)
			So(logrus.GetLevel(), ShouldEqual, logrus.DebugLevel)
		})
	})
}

func TestWithFields(t *testing.T) {
	Convey("WithFields is usable before Setup", t, func() {
		enabled = false
		entry := WithFields(map[string]any{"episode": "1"})
		So(entry, ShouldNotBeNil)
		So(func() { entry.Info("dropped") }, ShouldNotPanic)
	})
}
