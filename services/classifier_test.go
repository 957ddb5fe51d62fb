package services

import (
	"testing"

	"bd-election-analysis/config"
	"bd-election-analysis/models"
	"bd-election-analysis/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wonSeat(id int, division string, winner models.AllianceCode) *models.SeatAggregate {
	return &models.SeatAggregate{SeatID: id, Division: division, WinnerAlliance: winner}
}

func TestTreeAnalyzerSeparatesByIncome(t *testing.T) {
	table := &models.SeatTable{Seats: []*models.SeatAggregate{
		wonSeat(1, "Dhaka", models.AllianceBNP),
		wonSeat(2, "Dhaka", models.AllianceBNP),
		wonSeat(3, "Dhaka", models.AllianceBNP),
		wonSeat(4, "Rangpur", models.Alliance11PA),
		wonSeat(5, "Rangpur", models.Alliance11PA),
		wonSeat(6, "Rangpur", models.AllianceIND),
		wonSeat(7, "Atlantis", models.AllianceBNP),
	}}

	result, err := NewTreeAnalyzer(utils.NewNopLogger(), 3).Fit(table, config.DefaultEconomicReference())
	require.NoError(t, err)

	assert.Equal(t, 5, result.Samples)
	root := result.Root
	require.False(t, root.IsLeaf())
	assert.Equal(t, 0, root.Feature, "income wins the tie with expenditure")
	assert.InDelta(t, (21674.0+42696.0)/2, root.Threshold, 1e-9)
	assert.Equal(t, models.Alliance11PA, root.Left.Class)
	assert.Equal(t, models.AllianceBNP, root.Right.Class)
	assert.Equal(t, 1, root.Depth())

	assert.InDelta(t, 1.0, result.Importances[0], 1e-9)
	assert.InDelta(t, 0.0, result.Importances[1], 1e-9)

	assert.Equal(t, models.AllianceBNP, Predict(root, []float64{42696, 37935}))
	assert.Equal(t, models.Alliance11PA, Predict(root, []float64{21674, 21667}))
	assert.Contains(t, result.Rules, "|--- Income <= 32185.00")
	assert.Contains(t, result.Rules, "|   |--- class: BNP-A")
}

func TestTreeAnalyzerPureNodeIsLeaf(t *testing.T) {
	table := &models.SeatTable{Seats: []*models.SeatAggregate{
		wonSeat(1, "Dhaka", models.AllianceBNP),
		wonSeat(2, "Sylhet", models.AllianceBNP),
	}}
	result, err := NewTreeAnalyzer(utils.NewNopLogger(), 3).Fit(table, config.DefaultEconomicReference())
	require.NoError(t, err)
	assert.True(t, result.Root.IsLeaf())
	assert.Equal(t, models.AllianceBNP, result.Root.Class)
	assert.Equal(t, []float64{0, 0}, result.Importances)
}

func TestTreeAnalyzerRespectsMaxDepth(t *testing.T) {
	table := &models.SeatTable{Seats: []*models.SeatAggregate{
		wonSeat(1, "Dhaka", models.AllianceBNP),
		wonSeat(2, "Khulna", models.Alliance11PA),
		wonSeat(3, "Sylhet", models.AllianceBNP),
		wonSeat(4, "Rangpur", models.Alliance11PA),
	}}
	result, err := NewTreeAnalyzer(utils.NewNopLogger(), 1).Fit(table, config.DefaultEconomicReference())
	require.NoError(t, err)
	assert.LessOrEqual(t, result.Root.Depth(), 1)
}

func TestTreeAnalyzerNotEnoughData(t *testing.T) {
	table := &models.SeatTable{Seats: []*models.SeatAggregate{
		wonSeat(1, "Dhaka", models.AllianceIND),
		wonSeat(2, "Dhaka", ""),
	}}
	_, err := NewTreeAnalyzer(utils.NewNopLogger(), 3).Fit(table, config.DefaultEconomicReference())
	assert.ErrorIs(t, err, ErrNotEnoughData)

	_, err = NewTreeAnalyzer(utils.NewNopLogger(), 3).Fit(&models.SeatTable{}, config.DefaultEconomicReference())
	assert.ErrorIs(t, err, ErrNoSeatData)
}

func TestGini(t *testing.T) {
	assert.InDelta(t, 0.5, gini([]int{2, 2}, 4), 1e-12)
	assert.InDelta(t, 0.0, gini([]int{3, 0}, 3), 1e-12)
	assert.Zero(t, gini([]int{0, 0}, 0))
}
