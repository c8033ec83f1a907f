package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options on a private registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
				So(manager.namespace, ShouldEqual, "pulso")
				So(manager.subsystem, ShouldEqual, "dashboard")
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("unit"),
				WithHistogramBuckets([]float64{1, 2, 3}),
				WithConstLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)
			manager.dashboardViews.Inc()

			Convey("Then metric names and labels should follow the options", func() {
				expected := `
# HELP test_unit_views_total Total number of dashboard view recomputations
# TYPE test_unit_views_total counter
test_unit_views_total{env="test"} 1
`
				err := testutil.GatherAndCompare(registry, strings.NewReader(expected), "test_unit_views_total")
				So(err, ShouldBeNil)
			})
		})

		Convey("When empty options are passed", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace(""),
				WithSubsystem(""),
				WithHistogramBuckets(nil),
				WithConstLabels(nil),
				WithPrometheusRegistry(registry),
			)

			Convey("Then defaults are kept", func() {
				So(manager.namespace, ShouldEqual, "pulso")
				So(manager.subsystem, ShouldEqual, "dashboard")
				So(len(manager.histogramBuckets), ShouldBeGreaterThan, 0)
			})
		})
	})
}

func TestDatasetMetrics(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When a dataset load is recorded", func() {
			RecordDatasetLoad("attendance", 12.5, 120)
			UpdateDatasetRejectedRows("attendance", "attended_out_of_range", 3)

			Convey("Then the row gauges should reflect it", func() {
				So(testutil.ToFloat64(globalManager.datasetRows.WithLabelValues("attendance")), ShouldEqual, 120)
				So(testutil.ToFloat64(globalManager.datasetRejectedRows.WithLabelValues("attendance", "attended_out_of_range")), ShouldEqual, 3)
			})
		})

		Convey("When availability changes", func() {
			UpdateDatasetAvailability("ranking", "missing", "available", "missing", "malformed")
			UpdateDatasetAvailability("ranking", "available", "available", "missing", "malformed")

			Convey("Then only the current status is set", func() {
				So(testutil.ToFloat64(globalManager.datasetAvailable.WithLabelValues("ranking", "available")), ShouldEqual, 1)
				So(testutil.ToFloat64(globalManager.datasetAvailable.WithLabelValues("ranking", "missing")), ShouldEqual, 0)
				So(testutil.ToFloat64(globalManager.datasetAvailable.WithLabelValues("ranking", "malformed")), ShouldEqual, 0)
			})
		})
	})
}

func TestDashboardMetrics(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		views := testutil.ToFloat64(globalManager.dashboardViews)
		empty := testutil.ToFloat64(globalManager.emptySelections)

		Convey("When a non-empty and an empty view are recorded", func() {
			RecordDashboardView(0.4, 25)
			RecordDashboardView(0.1, 0)

			Convey("Then both views count and only one is empty", func() {
				So(testutil.ToFloat64(globalManager.dashboardViews), ShouldEqual, views+2)
				So(testutil.ToFloat64(globalManager.emptySelections), ShouldEqual, empty+1)
			})
		})

		Convey("When sessions change", func() {
			before := testutil.ToFloat64(globalManager.sessionsEvicted.WithLabelValues("expired"))
			RecordSessionCreated()
			UpdateSessionsActive(7)
			RecordSessionEvicted("expired")

			Convey("Then session metrics follow", func() {
				So(testutil.ToFloat64(globalManager.sessionsActive), ShouldEqual, 7)
				So(testutil.ToFloat64(globalManager.sessionsEvicted.WithLabelValues("expired")), ShouldEqual, before+1)
			})
		})
	})
}

func TestMetricsRecordingDoesNotPanic(t *testing.T) {
	Convey("Given metrics recording helpers", t, func() {
		So(func() {
			RecordSelectionUpdate()
			RecordHTTPRequest("/api/dashboard", "GET", "200")
			RecordHTTPRequestDuration("/api/dashboard", "GET", "200", 3.0)
			RecordErrorByComponent("repository", "malformed")
			RecordErrorByType("client_error", "medium")
			RecordErrorByEndpoint("/api/selection", "PUT", "client_error")
			UpdateSystemMemoryUsage(1024 * 1024)
			UpdateSystemGoroutineCount(12)
			RecordSystemGCPauseTime(0.5)
		}, ShouldNotPanic)

		So(GetRegistry(), ShouldNotBeNil)
	})
}
