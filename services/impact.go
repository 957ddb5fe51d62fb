package services

import (
	"sort"

	"bd-election-analysis/metrics"
	"bd-election-analysis/models"
	"bd-election-analysis/utils"
)

// ImpactEngine computes division vote shares weighted by each division's share
// of the national vote
type ImpactEngine struct {
	logger  *utils.Logger
	metrics *metrics.Recorder
}

// NewImpactEngine creates a new ImpactEngine. rec may be nil.
func NewImpactEngine(logger *utils.Logger, rec *metrics.Recorder) *ImpactEngine {
	return &ImpactEngine{logger: logger, metrics: rec}
}

// Compute builds the division-level weighted impact table.
//
// It fails with a *ZeroVoteDivisionError when a division has seats but no
// votes, and with a *MissingReferenceError when a division of the vote data
// is absent from ref. Rows are ordered by monthly income, highest first.
func (e *ImpactEngine) Compute(table *models.SeatTable, ref models.EconomicReference) (*models.ImpactTable, error) {
	if table == nil || len(table.Seats) == 0 {
		return nil, ErrNoSeatData
	}

	// Division performance: summed alliance votes per division
	performance := make(map[string]map[models.AllianceCode]int64)
	var divisions []string
	for _, seat := range table.Seats {
		perf, ok := performance[seat.Division]
		if !ok {
			perf = make(map[models.AllianceCode]int64, len(table.Alliances))
			performance[seat.Division] = perf
			divisions = append(divisions, seat.Division)
		}
		for _, code := range table.Alliances {
			perf[code] += seat.Votes[code]
		}
	}
	sort.Strings(divisions)

	totals := make(map[string]int64, len(divisions))
	var zero []string
	for _, div := range divisions {
		var total int64
		for _, code := range table.Alliances {
			total += performance[div][code]
		}
		if total == 0 {
			zero = append(zero, div)
		}
		totals[div] = total
	}
	if len(zero) > 0 {
		return nil, &ZeroVoteDivisionError{Divisions: zero}
	}

	var missing []string
	var missingVotes int64
	for _, div := range divisions {
		if _, ok := ref.Lookup(div); !ok {
			missing = append(missing, div)
			missingVotes += totals[div]
		}
	}
	if len(missing) > 0 {
		return nil, &MissingReferenceError{Divisions: missing, Votes: missingVotes}
	}

	var national int64
	for _, div := range divisions {
		national += totals[div]
	}

	out := &models.ImpactTable{
		Alliances: append([]models.AllianceCode(nil), table.Alliances...),
		Rows:      make([]*models.DivisionImpact, 0, len(divisions)),
	}
	for _, div := range divisions {
		econ, _ := ref.Lookup(div)
		total := totals[div]
		row := &models.DivisionImpact{
			Division:           div,
			VoteSharePct:       make(map[models.AllianceCode]float64, len(table.Alliances)),
			MonthlyIncome:      econ.MonthlyIncome,
			Expenditure:        econ.Expenditure,
			DivisionTotalVotes: total,
			VoterWeight:        float64(total) / float64(national),
			Weighted:           make(map[models.AllianceCode]float64, len(models.PrincipalAlliances)),
		}
		for _, code := range table.Alliances {
			row.VoteSharePct[code] = float64(performance[div][code]) / float64(total) * 100
		}
		// principal alliances absent from the input are weighted as zero
		for _, code := range models.PrincipalAlliances {
			row.Weighted[code] = row.VoteSharePct[code] * row.VoterWeight
		}
		out.Rows = append(out.Rows, row)
	}
	SortByIncome(out.Rows)

	e.metrics.DivisionsComputed(len(out.Rows))
	e.metrics.NationalVotes(national)
	e.logger.Info("Weighted impact computed for %d divisions, %d national votes", len(out.Rows), national)
	return out, nil
}

// SortByIncome orders division rows by monthly income, highest first, then by name
func SortByIncome(rows []*models.DivisionImpact) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].MonthlyIncome != rows[j].MonthlyIncome {
			return rows[i].MonthlyIncome > rows[j].MonthlyIncome
		}
		return rows[i].Division < rows[j].Division
	})
}
