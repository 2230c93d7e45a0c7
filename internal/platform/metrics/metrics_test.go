package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRecorder(t *testing.T) {
	Convey("Given a recorder with a private registry", t, func() {
		rec := New(WithNamespace("test"))

		Convey("When provider requests are observed", func() {
			rec.ObserveProviderRequest("standings", "ok", 120*time.Millisecond)
			rec.ObserveProviderRequest("standings", "ok", 80*time.Millisecond)
			rec.ObserveProviderRequest("scorers", "error", time.Second)

			Convey("Then the counters are split by endpoint and outcome", func() {
				So(testutil.ToFloat64(rec.providerRequests.WithLabelValues("standings", "ok")), ShouldEqual, 2)
				So(testutil.ToFloat64(rec.providerRequests.WithLabelValues("scorers", "error")), ShouldEqual, 1)
			})
		})

		Convey("When cache lookups are observed", func() {
			rec.ObserveCacheLookup("teams", true)
			rec.ObserveCacheLookup("teams", false)
			rec.ObserveCacheLookup("teams", true)

			Convey("Then hits and misses are counted separately", func() {
				So(testutil.ToFloat64(rec.cacheLookups.WithLabelValues("teams", "hit")), ShouldEqual, 2)
				So(testutil.ToFloat64(rec.cacheLookups.WithLabelValues("teams", "miss")), ShouldEqual, 1)
			})
		})

		Convey("When the handler is scraped", func() {
			rec.ObserveLogin("success")
			rec.ObserveReportRender("standings", "ok", time.Second)
			rec.SetDatasetRows(12)

			srv := httptest.NewServer(rec.Handler())
			defer srv.Close()
			resp, err := srv.Client().Get(srv.URL)
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			body, err := io.ReadAll(resp.Body)
			So(err, ShouldBeNil)

			Convey("Then the exposition includes the namespaced series", func() {
				text := string(body)
				So(strings.Contains(text, "test_auth_login_attempts_total"), ShouldBeTrue)
				So(strings.Contains(text, "test_report_renders_total"), ShouldBeTrue)
				So(strings.Contains(text, "test_dataset_forward_rows 12"), ShouldBeTrue)
			})
		})
	})

	Convey("Given a nil recorder", t, func() {
		var rec *Recorder

		Convey("Then every method is a no-op", func() {
			So(func() {
				rec.ObserveProviderRequest("competitions", "ok", time.Millisecond)
				rec.ObserveCacheLookup("competition", true)
				rec.ObserveReportRender("team", "error", time.Millisecond)
				rec.ObserveLogin("failure")
				rec.ObserveHTTPRequest("GET", "", 200, time.Millisecond)
				rec.SetDatasetRows(3)
			}, ShouldNotPanic)
			So(rec.Registry(), ShouldBeNil)
		})
	})
}
