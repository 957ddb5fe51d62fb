package services

import (
	"bytes"
	"testing"

	"bd-election-analysis/models"
	"bd-election-analysis/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func insightFixture() (*models.SeatTable, *models.ImpactTable) {
	seats := &models.SeatTable{
		Alliances: []models.AllianceCode{models.AllianceBNP, models.Alliance11PA},
		Seats: []*models.SeatAggregate{
			{SeatID: 1, Division: "Dhaka", WinnerAlliance: models.AllianceBNP,
				Votes: map[models.AllianceCode]int64{models.AllianceBNP: 60, models.Alliance11PA: 40}},
			{SeatID: 2, Division: "Dhaka", WinnerAlliance: models.Alliance11PA,
				Votes: map[models.AllianceCode]int64{models.AllianceBNP: 10, models.Alliance11PA: 30}},
			{SeatID: 3, Division: "Sylhet", WinnerAlliance: models.AllianceBNP,
				Votes: map[models.AllianceCode]int64{models.AllianceBNP: 50, models.Alliance11PA: 10}},
			{SeatID: 4, Division: "Sylhet",
				Votes: map[models.AllianceCode]int64{models.AllianceBNP: 0, models.Alliance11PA: 0}},
		},
	}
	impacts := &models.ImpactTable{
		Alliances: seats.Alliances,
		Rows: []*models.DivisionImpact{
			{Division: "Dhaka", Weighted: map[models.AllianceCode]float64{models.AllianceBNP: 30, models.Alliance11PA: 40}},
			{Division: "Sylhet", Weighted: map[models.AllianceCode]float64{models.AllianceBNP: 35, models.Alliance11PA: 5}},
		},
	}
	return seats, impacts
}

func TestInsightGenerate(t *testing.T) {
	seats, impacts := insightFixture()
	report := NewInsightService(utils.NewNopLogger()).Generate(seats, impacts)

	assert.Equal(t, 4, report.TotalSeats)
	assert.Equal(t, 3, report.ContestedSeats)
	assert.Equal(t, int64(200), report.NationalVotes)
	assert.Equal(t, 2, report.SeatsByAlliance[models.AllianceBNP])
	assert.Equal(t, 1, report.SeatsByAlliance[models.Alliance11PA])
	assert.Equal(t, int64(120), report.VotesByAlliance[models.AllianceBNP])
	assert.Equal(t, 1, report.WinsByDivision["Dhaka"][models.Alliance11PA])
	assert.Equal(t, 1, report.WinsByDivision["Sylhet"][models.AllianceBNP])
	assert.InDelta(t, 60.0, VoteShare(report, models.AllianceBNP), 1e-9)

	assert.Equal(t, models.DivisionLeader{Division: "Sylhet", Weighted: 35}, report.TopImpactDivisions[models.AllianceBNP])
	assert.Equal(t, models.DivisionLeader{Division: "Dhaka", Weighted: 40}, report.TopImpactDivisions[models.Alliance11PA])
}

func TestInsightGenerateEmpty(t *testing.T) {
	report := NewInsightService(utils.NewNopLogger()).Generate(nil, nil)
	require.NotNil(t, report)
	assert.Zero(t, report.TotalSeats)
	assert.Zero(t, VoteShare(report, models.AllianceBNP))
}

func TestPrintInsightReport(t *testing.T) {
	seats, impacts := insightFixture()
	report := NewInsightService(utils.NewNopLogger()).Generate(seats, impacts)

	var buf bytes.Buffer
	PrintInsightReport(&buf, report)
	out := buf.String()

	assert.Contains(t, out, "BANGLADESH ELECTION ANALYSIS")
	assert.Contains(t, out, "Total Seats             : 4")
	assert.Contains(t, out, "BNP-A:")
	assert.Contains(t, out, "Dhaka")
	assert.Contains(t, out, "STRONGEST WEIGHTED IMPACT")
}

func TestTruncateAndCenter(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab...", truncate("abcdefgh", 5))
	assert.Equal(t, " ab  ", center("ab", 5))
}
