package services

import (
	"bd-election-analysis/models"
	"bd-election-analysis/utils"
)

// InsightService computes analytics from the final datasets
type InsightService struct {
	logger *utils.Logger
}

// NewInsightService creates a new InsightService
func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

// Generate computes seat wins, vote totals and the strongest division of each
// principal alliance. Seats must already carry their WinnerAlliance; impacts
// may be nil.
func (s *InsightService) Generate(seats *models.SeatTable, impacts *models.ImpactTable) *models.InsightReport {
	report := &models.InsightReport{
		SeatsByAlliance:    make(map[models.AllianceCode]int),
		VotesByAlliance:    make(map[models.AllianceCode]int64),
		WinsByDivision:     make(map[string]map[models.AllianceCode]int),
		TopImpactDivisions: make(map[models.AllianceCode]models.DivisionLeader),
	}

	if seats == nil || len(seats.Seats) == 0 {
		s.logger.Warn("No seats to generate insights from")
		return report
	}

	for _, seat := range seats.Seats {
		report.TotalSeats++
		for _, code := range seats.Alliances {
			v := seat.Votes[code]
			report.VotesByAlliance[code] += v
			report.NationalVotes += v
		}

		// Seats without votes have no winner
		if seat.WinnerAlliance == "" {
			continue
		}
		report.ContestedSeats++
		report.SeatsByAlliance[seat.WinnerAlliance]++

		wins, ok := report.WinsByDivision[seat.Division]
		if !ok {
			wins = make(map[models.AllianceCode]int)
			report.WinsByDivision[seat.Division] = wins
		}
		wins[seat.WinnerAlliance]++
	}

	if impacts != nil {
		for _, row := range impacts.Rows {
			for code, w := range row.Weighted {
				best, ok := report.TopImpactDivisions[code]
				if !ok || w > best.Weighted || (w == best.Weighted && row.Division < best.Division) {
					report.TopImpactDivisions[code] = models.DivisionLeader{Division: row.Division, Weighted: w}
				}
			}
		}
	}

	s.logger.Info("Insights generated for %d seats (%d contested)", report.TotalSeats, report.ContestedSeats)
	return report
}

// VoteShare returns the national vote share of code in percent
func VoteShare(report *models.InsightReport, code models.AllianceCode) float64 {
	if report.NationalVotes == 0 {
		return 0
	}
	return float64(report.VotesByAlliance[code]) / float64(report.NationalVotes) * 100
}
