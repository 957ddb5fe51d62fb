package services

import (
	"testing"

	"bd-election-analysis/models"
	"bd-election-analysis/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(seat int, name, division, party, votes string) *models.RawCandidateRecord {
	return &models.RawCandidateRecord{
		SeatID:    seat,
		SeatName:  name,
		Division:  division,
		Candidate: "c",
		Party:     party,
		Votes:     votes,
	}
}

func TestAggregateSingleSeat(t *testing.T) {
	agg := NewSeatAggregator(utils.NewNopLogger(), nil)
	table := agg.Aggregate([]*models.RawCandidateRecord{
		record(1, "ঢাকা-১", "Dhaka", "বিএনপি", "১২৩৪"),
		record(1, "ঢাকা-১", "Dhaka", "বাংলাদেশ জামায়াতে ইসলামী", "৫৬৭"),
	})

	require.Len(t, table.Seats, 1)
	assert.Equal(t, []models.AllianceCode{models.AllianceBNP, models.Alliance11PA}, table.Alliances)

	seat := table.Seats[0]
	assert.Equal(t, 1, seat.SeatID)
	assert.Equal(t, "Dhaka", seat.Division)
	assert.Equal(t, int64(1234), seat.Votes[models.AllianceBNP])
	assert.Equal(t, int64(567), seat.Votes[models.Alliance11PA])
}

func TestAggregateZeroFillsColumns(t *testing.T) {
	agg := NewSeatAggregator(utils.NewNopLogger(), nil)
	table := agg.Aggregate([]*models.RawCandidateRecord{
		record(2, "B", "Khulna", "স্বতন্ত্র", "10"),
		record(1, "A", "Dhaka", "বিএনপি", "5"),
		record(1, "A", "Dhaka", "বিএনপি", "7"),
	})

	require.Len(t, table.Seats, 2)
	assert.Equal(t, []models.AllianceCode{models.AllianceBNP, models.AllianceIND}, table.Alliances)
	assert.Equal(t, 1, table.Seats[0].SeatID, "seats are sorted by id")
	assert.Equal(t, int64(12), table.Seats[0].Votes[models.AllianceBNP])

	v, ok := table.Seats[0].Votes[models.AllianceIND]
	assert.True(t, ok)
	assert.Zero(t, v)
	v, ok = table.Seats[1].Votes[models.AllianceBNP]
	assert.True(t, ok)
	assert.Zero(t, v)
}

func TestAggregateConservesVotes(t *testing.T) {
	records := []*models.RawCandidateRecord{
		record(1, "A", "Dhaka", "বিএনপি", "১,০০০"),
		record(1, "A", "Dhaka", "জাতীয় পার্টি", "২০০"),
		record(2, "B", "Sylhet", "Jamaat", "৩০০"),
		record(2, "B", "Sylhet", "কেউ না", "garbage"),
		record(3, "C", "Rangpur", "", ""),
	}
	var want int64
	for _, r := range records {
		want += ToInt(r.Votes)
	}

	table := NewSeatAggregator(utils.NewNopLogger(), nil).Aggregate(records)
	var got int64
	for _, seat := range table.Seats {
		got += seat.Total()
	}
	assert.Equal(t, want, got)
	assert.Len(t, table.Seats, 3)
}

func TestAggregateEmpty(t *testing.T) {
	table := NewSeatAggregator(utils.NewNopLogger(), nil).Aggregate(nil)
	assert.Empty(t, table.Seats)
	assert.Empty(t, table.Alliances)
}

func TestWinner(t *testing.T) {
	columns := []models.AllianceCode{models.AllianceBNP, models.Alliance11PA, models.AllianceIND}

	tests := []struct {
		name  string
		votes map[models.AllianceCode]int64
		want  models.AllianceCode
	}{
		{"clear winner", map[models.AllianceCode]int64{models.AllianceBNP: 10, models.Alliance11PA: 20}, models.Alliance11PA},
		{"tie goes to earlier column", map[models.AllianceCode]int64{models.Alliance11PA: 20, models.AllianceIND: 20}, models.Alliance11PA},
		{"no votes", map[models.AllianceCode]int64{models.AllianceBNP: 0}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seat := &models.SeatAggregate{Votes: tt.votes}
			assert.Equal(t, tt.want, Winner(seat, columns))
		})
	}
}

func TestEnrichWinners(t *testing.T) {
	table := &models.SeatTable{
		Alliances: []models.AllianceCode{models.AllianceBNP, models.Alliance11PA},
		Seats: []*models.SeatAggregate{
			{SeatID: 1, Votes: map[models.AllianceCode]int64{models.AllianceBNP: 3, models.Alliance11PA: 1}},
			{SeatID: 2, Votes: map[models.AllianceCode]int64{models.AllianceBNP: 1, models.Alliance11PA: 3}},
		},
	}
	EnrichWinners(table)
	assert.Equal(t, models.AllianceBNP, table.Seats[0].WinnerAlliance)
	assert.Equal(t, models.Alliance11PA, table.Seats[1].WinnerAlliance)
}

func TestAggregateScenarioWinner(t *testing.T) {
	table := NewSeatAggregator(utils.NewNopLogger(), nil).Aggregate([]*models.RawCandidateRecord{
		record(1, "S1", "Dhaka", "BNP", "১২৩৪"),
		record(1, "S1", "Dhaka", "Jamaat", "৫৬৭"),
	})
	EnrichWinners(table)

	require.Len(t, table.Seats, 1)
	assert.Equal(t, map[models.AllianceCode]int64{models.AllianceBNP: 1234, models.Alliance11PA: 567}, table.Seats[0].Votes)
	assert.Equal(t, models.AllianceBNP, table.Seats[0].WinnerAlliance)
}
