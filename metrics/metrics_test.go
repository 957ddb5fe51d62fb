package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderCounts(t *testing.T) {
	r := New()
	r.RowsRead(10)
	r.RowsRead(5)
	r.MalformedNumerals(2)
	r.SeatsAggregated(3)
	r.NationalVotes(1801)
	r.SeatScraped(true)
	r.SeatScraped(false)
	r.SeatScraped(true)
	r.StageSkipped("scrape")

	assert.Equal(t, 15.0, testutil.ToFloat64(r.rowsRead))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.malformedNumerals))
	assert.Equal(t, 3.0, testutil.ToFloat64(r.seatsAggregated))
	assert.Equal(t, 1801.0, testutil.ToFloat64(r.nationalVotes))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.seatsScraped.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.seatsScraped.WithLabelValues("failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.stageSkipped.WithLabelValues("scrape")))
}

func TestNilRecorderIsSafe(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.RowsRead(1)
		r.SeatScraped(true)
		r.ObserveStage("impact", time.Now())
		assert.NoError(t, r.WriteTextfile("unused"))
	})
	assert.Nil(t, r.Registry())
}

func TestWriteTextfile(t *testing.T) {
	r := New()
	r.DivisionsComputed(8)
	r.ObserveStage("impact", time.Now())

	path := filepath.Join(t.TempDir(), "nested", "election.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "election_impact_divisions 8")
	assert.Contains(t, string(data), `election_pipeline_stage_duration_seconds_count{stage="impact"} 1`)
	assert.Contains(t, string(data), "election_pipeline_last_run_timestamp_seconds")
}
