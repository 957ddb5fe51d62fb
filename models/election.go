package models

// RawCandidateRecord represents one candidate row of one seat, as scraped
type RawCandidateRecord struct {
	SeatID    int    `csv:"Seat_ID" validate:"gt=0"`
	SeatName  string `csv:"Seat_Name"`
	Division  string `csv:"Division"`
	Candidate string `csv:"Candidate"`
	Party     string `csv:"Party"`
	Symbol    string `csv:"Symbol"`
	Votes     string `csv:"Votes"` // e.g. "১,২৩৪"
	Status    string `csv:"Status"`

	// Seat statistics repeated on every candidate row of the seat
	TotalVoters  string `csv:"Total_Voters"`
	TotalCenters string `csv:"Total_Centers"`
	MaleVoters   string `csv:"Male_Voters"`
	FemaleVoters string `csv:"Female_Voters"`
}

// SeatAggregate holds the summed alliance votes of one electoral seat
type SeatAggregate struct {
	SeatID         int
	SeatName       string
	Division       string
	Votes          map[AllianceCode]int64
	WinnerAlliance AllianceCode // empty until winners are determined
}

// Total returns the sum of all alliance votes in the seat
func (s *SeatAggregate) Total() int64 {
	var total int64
	for _, v := range s.Votes {
		total += v
	}
	return total
}

// SeatTable is the seat-wise dataset: the alliance columns observed anywhere
// in the input, in canonical order, and one row per seat.
type SeatTable struct {
	Alliances []AllianceCode
	Seats     []*SeatAggregate
}

// DivisionImpact is one row of the division-level weighted impact table
type DivisionImpact struct {
	Division           string
	VoteSharePct       map[AllianceCode]float64
	MonthlyIncome      float64
	Expenditure        float64
	DivisionTotalVotes int64
	VoterWeight        float64
	Weighted           map[AllianceCode]float64 // principal alliances only
}

// ImpactTable is the division-level weighted impact dataset
type ImpactTable struct {
	Alliances []AllianceCode
	Rows      []*DivisionImpact
}

// DivisionLeader names the division contributing most weighted impact to an alliance
type DivisionLeader struct {
	Division string
	Weighted float64
}

// InsightReport holds computed analytics from the final datasets
type InsightReport struct {
	TotalSeats         int
	ContestedSeats     int // seats with at least one vote
	NationalVotes      int64
	SeatsByAlliance    map[AllianceCode]int
	VotesByAlliance    map[AllianceCode]int64
	WinsByDivision     map[string]map[AllianceCode]int
	TopImpactDivisions map[AllianceCode]DivisionLeader
}
