package version

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kissbridge/kissbridge/filesystem"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestCompare(t *testing.T) {
	Convey("Compare", t, func() {
		Convey("orders by major, minor then patch", func() {
			c, err := Compare("1.5.0", "1.4.9")
			So(err, ShouldBeNil)
			So(c, ShouldEqual, 1)

			c, err = Compare("v1.5.0", "2.0.0")
			So(err, ShouldBeNil)
			So(c, ShouldEqual, -1)

			c, err = Compare("v1.5.0", "1.5.0")
			So(err, ShouldBeNil)
			So(c, ShouldEqual, 0)
		})

		Convey("rejects malformed versions", func() {
			_, err := Compare("latest", "1.0.0")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestLatest(t *testing.T) {
	Convey("Latest", t, func() {
		hits := 0
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits++
			_, _ = w.Write([]byte(`{"tag_name":"v2.1.0"}`))
		}))
		defer srv.Close()

		original := ReleasesURL
		ReleasesURL = srv.URL
		defer func() { ReleasesURL = original }()

		ver, err := Latest(context.Background())
		So(err, ShouldBeNil)
		So(ver, ShouldEqual, "2.1.0")

		Convey("serves the second call from cache", func() {
			again, err := Latest(context.Background())
			So(err, ShouldBeNil)
			So(again, ShouldEqual, "2.1.0")
			So(hits, ShouldEqual, 1)
		})
	})
}
