package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options on a fresh registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then defaults are applied", func() {
				So(manager, ShouldNotBeNil)
				So(manager.namespace, ShouldEqual, "podium")
				So(manager.subsystem, ShouldEqual, "ranking")
				So(manager.refreshInterval, ShouldEqual, defaultRefreshInterval)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test_ns"),
				WithSubsystem("test_sub"),
				WithMetricPrefix("pre"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithMetricsEnabled(false),
				WithRefreshInterval(5*time.Second),
				WithCustomLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)
			manager.submissionsReceived.Inc()

			Convey("Then metric names carry namespace, subsystem and prefix", func() {
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				names := make(map[string]bool)
				for _, f := range families {
					names[f.GetName()] = true
				}
				So(names["test_ns_test_sub_pre_submissions_received_total"], ShouldBeTrue)
				So(manager.enabled, ShouldBeFalse)
				So(manager.histogramBuckets, ShouldResemble, []float64{0.1, 0.5, 1.0})
			})
		})

		Convey("When options receive empty values", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace(""),
				WithHistogramBuckets(nil),
				WithRefreshInterval(0),
				WithPrometheusRegistry(registry),
			)

			Convey("Then the defaults are kept", func() {
				So(manager.namespace, ShouldEqual, "podium")
				So(manager.histogramBuckets, ShouldResemble, prometheus.DefBuckets)
				So(manager.refreshInterval, ShouldEqual, defaultRefreshInterval)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When index updates are recorded", func() {
			before := testutil.ToFloat64(globalManager.indexUpdates.WithLabelValues(OutcomeImproved))
			RecordIndexUpdate(OutcomeImproved)
			RecordIndexUpdate(OutcomeImproved)

			Convey("Then the labelled counter grows", func() {
				after := testutil.ToFloat64(globalManager.indexUpdates.WithLabelValues(OutcomeImproved))
				So(after-before, ShouldEqual, 2)
			})
		})

		Convey("When competitions gauges are set", func() {
			UpdateCompetitions(7, 3)
			UpdateUsersTracked(42)

			Convey("Then the gauges hold the values", func() {
				So(testutil.ToFloat64(globalManager.competitionsTotal), ShouldEqual, 7)
				So(testutil.ToFloat64(globalManager.competitionsOpen), ShouldEqual, 3)
				So(testutil.ToFloat64(globalManager.usersTracked), ShouldEqual, 42)
			})
		})

		Convey("When the remaining recorders are called", func() {
			Convey("Then none of them panic", func() {
				So(func() {
					RecordSubmissionReceived()
					RecordIndexUpdate(OutcomeIgnored)
					RecordIndexUpdate(OutcomeRejected)
					RecordNeighborQuery("higher", 2)
					RecordIndexUpdateLatency(0.5)
					RecordIndexQueryLatency(0.1)
					RecordCompetitionCreated()
					RecordCompetitionRetired()
					RecordHTTPRequest("scores", "POST", "200")
					RecordHTTPRequestDuration("scores", "POST", "200", 1.5)
					RecordRateLimited()
					UpdateQueueSize(1)
					UpdateQueueCapacity(10)
					RecordQueueEnqueue()
					RecordQueueDequeue()
					RecordQueueEnqueueError()
					UpdateWorkerCount(4)
					RecordWorkerProcessingLatency(2)
					RecordWorkerError()
					RecordErrorByComponent("repository", "not_found")
					RecordErrorByEndpoint("scores", "POST", "client_error")
					UpdateSystemMemoryUsage(1024)
					UpdateSystemGoroutineCount(8)
				}, ShouldNotPanic)
			})
		})

		Convey("Then the custom registry is exposed", func() {
			So(GetRegistry(), ShouldEqual, customRegistry)
		})
	})
}

func TestMetricsSwitches(t *testing.T) {
	Convey("Given the global manager", t, func() {
		savedManager, savedRegistry := globalManager, customRegistry
		defer func() { globalManager, customRegistry = savedManager, savedRegistry }()

		Convey("When it is disabled", func() {
			m := NewManager(WithPrometheusRegistry(prometheus.NewRegistry()), WithMetricsEnabled(false))
			globalManager = m
			RecordSubmissionReceived()
			RecordIndexUpdate(OutcomeImproved)
			UpdateUsersTracked(9)

			Convey("Then nothing is recorded", func() {
				So(Enabled(), ShouldBeFalse)
				So(testutil.ToFloat64(m.submissionsReceived), ShouldEqual, 0)
				So(testutil.ToFloat64(m.indexUpdates.WithLabelValues(OutcomeImproved)), ShouldEqual, 0)
				So(testutil.ToFloat64(m.usersTracked), ShouldEqual, 0)
			})
		})

		Convey("When it is rebuilt with options", func() {
			Init(WithRefreshInterval(3 * time.Second))
			RecordSubmissionReceived()

			Convey("Then a fresh registry carries the new settings", func() {
				So(GetRegistry(), ShouldNotEqual, savedRegistry)
				So(Enabled(), ShouldBeTrue)
				So(RefreshInterval(), ShouldEqual, 3*time.Second)
				So(testutil.ToFloat64(globalManager.submissionsReceived), ShouldEqual, 1)
			})
		})
	})
}

func TestSinceMs(t *testing.T) {
	Convey("Given a start time below one millisecond ago", t, func() {
		start := time.Now().Add(-400 * time.Microsecond)

		Convey("Then the elapsed time keeps its fraction", func() {
			So(SinceMs(start), ShouldBeGreaterThanOrEqualTo, 0.4)
		})
	})

	Convey("Given a start time one and a half milliseconds ago", t, func() {
		start := time.Now().Add(-1500 * time.Microsecond)

		Convey("Then the result is not truncated to whole milliseconds", func() {
			So(SinceMs(start), ShouldBeGreaterThanOrEqualTo, 1.5)
		})
	})
}
