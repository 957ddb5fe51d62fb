package services

import (
	"sort"

	"bd-election-analysis/metrics"
	"bd-election-analysis/models"
	"bd-election-analysis/utils"
)

// seatKey is the grouping identity of a seat
type seatKey struct {
	id       int
	name     string
	division string
}

// SeatAggregator pivots candidate rows into one row of alliance votes per seat
type SeatAggregator struct {
	logger  *utils.Logger
	metrics *metrics.Recorder
}

// NewSeatAggregator creates a new SeatAggregator. rec may be nil.
func NewSeatAggregator(logger *utils.Logger, rec *metrics.Recorder) *SeatAggregator {
	return &SeatAggregator{logger: logger, metrics: rec}
}

// Aggregate sums the votes of every seat per alliance. Every alliance seen
// anywhere in the input gets a column, zero-filled for seats where it had no
// candidate. Seats are ordered by id, then name and division.
func (a *SeatAggregator) Aggregate(records []*models.RawCandidateRecord) *models.SeatTable {
	seats := make(map[seatKey]*models.SeatAggregate)
	observed := make(map[models.AllianceCode]bool)
	firstKey := make(map[int]seatKey)
	malformed, unknown := 0, 0

	for _, r := range records {
		votes, err := ParseVotes(r.Votes)
		if err != nil {
			malformed++
			a.logger.Warn("Seat %d candidate '%s': %v, counted as 0", r.SeatID, r.Candidate, err)
		}
		alliance, matched := ClassifyParty(r.Party)
		if !matched {
			unknown++
			a.logger.Debug("Seat %d party '%s' matched no alliance, using %s", r.SeatID, r.Party, alliance)
		}
		observed[alliance] = true

		key := seatKey{id: r.SeatID, name: r.SeatName, division: r.Division}
		if prev, ok := firstKey[r.SeatID]; !ok {
			firstKey[r.SeatID] = key
		} else if prev != key {
			a.logger.Warn("Seat %d appears as '%s/%s' and '%s/%s'", r.SeatID, prev.name, prev.division, key.name, key.division)
		}

		seat, ok := seats[key]
		if !ok {
			seat = &models.SeatAggregate{
				SeatID:   r.SeatID,
				SeatName: r.SeatName,
				Division: r.Division,
				Votes:    make(map[models.AllianceCode]int64),
			}
			seats[key] = seat
		}
		seat.Votes[alliance] += votes
	}

	columns := make([]models.AllianceCode, 0, len(observed))
	for code := range observed {
		columns = append(columns, code)
	}
	models.SortAlliances(columns)

	table := &models.SeatTable{
		Alliances: columns,
		Seats:     make([]*models.SeatAggregate, 0, len(seats)),
	}
	for _, seat := range seats {
		for _, code := range columns {
			if _, ok := seat.Votes[code]; !ok {
				seat.Votes[code] = 0
			}
		}
		table.Seats = append(table.Seats, seat)
	}
	SortSeats(table.Seats)

	a.metrics.RowsRead(len(records))
	a.metrics.MalformedNumerals(malformed)
	a.metrics.UnknownParties(unknown)
	a.metrics.SeatsAggregated(len(table.Seats))
	a.logger.Info("Aggregated %d candidate rows into %d seats across %d alliances (%d malformed vote counts)",
		len(records), len(table.Seats), len(columns), malformed)
	return table
}

// SortSeats orders seats by id, then name and division
func SortSeats(seats []*models.SeatAggregate) {
	sort.Slice(seats, func(i, j int) bool {
		if seats[i].SeatID != seats[j].SeatID {
			return seats[i].SeatID < seats[j].SeatID
		}
		if seats[i].SeatName != seats[j].SeatName {
			return seats[i].SeatName < seats[j].SeatName
		}
		return seats[i].Division < seats[j].Division
	})
}

// Winner returns the alliance column with the most votes in the seat. Columns
// are scanned in the given order and a tie goes to the first maximum. Unlike
// a plain first maximum, a seat where every column is 0 has no winner and
// returns "" rather than the first column.
func Winner(seat *models.SeatAggregate, columns []models.AllianceCode) models.AllianceCode {
	var best models.AllianceCode
	var max int64
	for _, code := range columns {
		if v := seat.Votes[code]; v > max {
			best, max = code, v
		}
	}
	return best
}

// EnrichWinners sets WinnerAlliance on every seat of the table
func EnrichWinners(table *models.SeatTable) {
	for _, seat := range table.Seats {
		seat.WinnerAlliance = Winner(seat, table.Alliances)
	}
}
