// Package metrics records pipeline counters in a Prometheus registry that is
// exported as a node-exporter textfile at the end of a run.
//
// All Recorder methods are safe to call on a nil *Recorder, which records nothing.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "election"

// Recorder holds the pipeline metrics of one run
type Recorder struct {
	registry *prometheus.Registry

	rowsRead          prometheus.Counter
	malformedNumerals prometheus.Counter
	unknownParties    prometheus.Counter
	seatsAggregated   prometheus.Gauge
	divisionsComputed prometheus.Gauge
	nationalVotes     prometheus.Gauge
	seatsScraped      *prometheus.CounterVec
	stageDuration     *prometheus.HistogramVec
	stageSkipped      *prometheus.CounterVec
	lastRunUnix       prometheus.Gauge
}

// New creates a Recorder with its own registry
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		rowsRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "aggregate", Name: "candidate_rows_total",
			Help: "Candidate rows read by the seat aggregator.",
		}),
		malformedNumerals: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "aggregate", Name: "malformed_numerals_total",
			Help: "Vote counts that could not be parsed and were counted as zero.",
		}),
		unknownParties: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "aggregate", Name: "unknown_parties_total",
			Help: "Candidate rows whose party matched no alliance rule.",
		}),
		seatsAggregated: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "aggregate", Name: "seats",
			Help: "Seats in the seat-wise dataset.",
		}),
		divisionsComputed: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "impact", Name: "divisions",
			Help: "Divisions in the weighted impact dataset.",
		}),
		nationalVotes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "impact", Name: "national_votes",
			Help: "National total of alliance votes.",
		}),
		seatsScraped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "scrape", Name: "seats_total",
			Help: "Seats visited by the scraper, by result.",
		}, []string{"result"}),
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "pipeline", Name: "stage_duration_seconds",
			Help:    "Wall time of each pipeline stage.",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 30, 120, 600, 1800},
		}, []string{"stage"}),
		stageSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "pipeline", Name: "stage_skipped_total",
			Help: "Stages skipped because an artifact already existed or was missing.",
		}, []string{"stage"}),
		lastRunUnix: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "pipeline", Name: "last_run_timestamp_seconds",
			Help: "Unix time the last pipeline run finished.",
		}),
	}
	r.registry.MustRegister(
		r.rowsRead, r.malformedNumerals, r.unknownParties, r.seatsAggregated,
		r.divisionsComputed, r.nationalVotes, r.seatsScraped,
		r.stageDuration, r.stageSkipped, r.lastRunUnix,
	)
	return r
}

// Registry exposes the underlying registry
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// RowsRead counts raw candidate rows read from disk or the scraper
func (r *Recorder) RowsRead(n int) {
	if r != nil {
		r.rowsRead.Add(float64(n))
	}
}

// MalformedNumerals counts vote fields that did not parse and were taken as 0
func (r *Recorder) MalformedNumerals(n int) {
	if r != nil {
		r.malformedNumerals.Add(float64(n))
	}
}

// UnknownParties counts party names that fell through to Others
func (r *Recorder) UnknownParties(n int) {
	if r != nil {
		r.unknownParties.Add(float64(n))
	}
}

// SeatsAggregated sets the number of seats in the last seat-wise table
func (r *Recorder) SeatsAggregated(n int) {
	if r != nil {
		r.seatsAggregated.Set(float64(n))
	}
}

// DivisionsComputed sets the number of division rows in the last impact table
func (r *Recorder) DivisionsComputed(n int) {
	if r != nil {
		r.divisionsComputed.Set(float64(n))
	}
}

// NationalVotes sets the national vote total used for voter weights
func (r *Recorder) NationalVotes(n int64) {
	if r != nil {
		r.nationalVotes.Set(float64(n))
	}
}

// SeatScraped counts one scraped seat, ok or failed
func (r *Recorder) SeatScraped(ok bool) {
	if r == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "failed"
	}
	r.seatsScraped.WithLabelValues(result).Inc()
}

// ObserveStage records the duration of a stage that started at start
func (r *Recorder) ObserveStage(stage string, start time.Time) {
	if r != nil {
		r.stageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
	}
}

// StageSkipped counts a pipeline stage skipped because its output already exists
func (r *Recorder) StageSkipped(stage string) {
	if r != nil {
		r.stageSkipped.WithLabelValues(stage).Inc()
	}
}

// WriteTextfile stamps the run time and writes all metrics to path in the
// Prometheus text format
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil {
		return nil
	}
	r.lastRunUnix.SetToCurrentTime()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
