package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"bd-election-analysis/config"
	"bd-election-analysis/models"
	"bd-election-analysis/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func TestRenderAll(t *testing.T) {
	seats, _ := insightFixture()
	seats.Seats[0].Division = "Dhaka"
	impacts, err := NewImpactEngine(utils.NewNopLogger(), nil).Compute(
		&models.SeatTable{Alliances: seats.Alliances, Seats: seats.Seats[:3]}, config.DefaultEconomicReference())
	require.NoError(t, err)

	dir := filepath.Join(t.TempDir(), "images")
	paths, err := NewChartRenderer(utils.NewNopLogger(), dir).RenderAll(context.Background(), seats, impacts, config.DefaultEconomicReference())
	require.NoError(t, err)
	require.Len(t, paths, 8)

	names := []string{
		ChartSeatShare, ChartDivisionWins, ChartIncomeBNPShare, ChartIncome11PA,
		ChartExpenditureBox, ChartWeightedImpact,
		"Raw_vs_Weighted_BNP-A.png", "Raw_vs_Weighted_11PA.png",
	}
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err, name)
		assert.Equal(t, pngMagic, data[:4], name)
	}
}

func TestRenderAllWithoutWinners(t *testing.T) {
	seats := &models.SeatTable{
		Alliances: []models.AllianceCode{models.AllianceBNP},
		Seats:     []*models.SeatAggregate{{SeatID: 1, Division: "Dhaka", Votes: map[models.AllianceCode]int64{models.AllianceBNP: 0}}},
	}
	_, err := NewChartRenderer(utils.NewNopLogger(), t.TempDir()).RenderAll(context.Background(), seats, nil, config.DefaultEconomicReference())
	assert.ErrorIs(t, err, ErrNotEnoughData)
}

func TestRenderAllWithoutImpacts(t *testing.T) {
	seats, _ := insightFixture()
	dir := t.TempDir()
	paths, err := NewChartRenderer(utils.NewNopLogger(), dir).RenderAll(context.Background(), seats, nil, config.DefaultEconomicReference())
	require.NoError(t, err)
	assert.Len(t, paths, 5)
	assert.FileExists(t, filepath.Join(dir, ChartExpenditureBox))
	assert.NoFileExists(t, filepath.Join(dir, RawVsWeightedChart(models.AllianceBNP)))
}

func TestExpenditureBoxPlotGroupsPrincipalWinners(t *testing.T) {
	seats, _ := insightFixture()
	seats.Seats = append(seats.Seats, &models.SeatAggregate{
		SeatID: 5, Division: "Khulna", WinnerAlliance: models.AllianceIND,
		Votes: map[models.AllianceCode]int64{models.AllianceIND: 9},
	})

	p, err := expenditureBoxPlot(seats, config.DefaultEconomicReference())
	require.NoError(t, err)
	assert.Equal(t, "Expenditure vs Winning Alliance", p.Title.Text)

	independentOnly := &models.SeatTable{Seats: []*models.SeatAggregate{{SeatID: 1, Division: "Dhaka", WinnerAlliance: models.AllianceIND}}}
	_, err = expenditureBoxPlot(independentOnly, config.DefaultEconomicReference())
	assert.ErrorIs(t, err, ErrNotEnoughData)
}

func TestRawVsWeightedChart(t *testing.T) {
	impacts := &models.ImpactTable{Rows: []*models.DivisionImpact{
		{Division: "Dhaka", VoteSharePct: map[models.AllianceCode]float64{models.AllianceBNP: 60},
			Weighted: map[models.AllianceCode]float64{models.AllianceBNP: 12}},
	}}
	p, err := rawVsWeightedChart(impacts, models.AllianceBNP)
	require.NoError(t, err)
	assert.Contains(t, p.Title.Text, "BNP-A")
	assert.Equal(t, "Raw_vs_Weighted_11PA.png", RawVsWeightedChart(models.Alliance11PA))

	_, err = rawVsWeightedChart(&models.ImpactTable{}, models.AllianceBNP)
	assert.ErrorIs(t, err, ErrNotEnoughData)
}
