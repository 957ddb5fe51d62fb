package services

import (
	"strings"

	"bd-election-analysis/models"
	"bd-election-analysis/utils"
)

// RecordCleaner tidies raw candidate rows before aggregation
type RecordCleaner struct {
	logger *utils.Logger
}

// NewRecordCleaner creates a new RecordCleaner
func NewRecordCleaner(logger *utils.Logger) *RecordCleaner {
	return &RecordCleaner{logger: logger}
}

// Clean trims surrounding whitespace from every text field in place. Rows are
// never dropped, so vote totals are unchanged; rows that repeat an earlier
// seat, candidate and party are only reported.
func (c *RecordCleaner) Clean(records []*models.RawCandidateRecord) []*models.RawCandidateRecord {
	type rowKey struct {
		seat      int
		candidate string
		party     string
	}
	seen := make(map[rowKey]bool, len(records))
	duplicates := 0

	for _, r := range records {
		r.SeatName = strings.TrimSpace(r.SeatName)
		r.Division = strings.TrimSpace(r.Division)
		r.Candidate = strings.TrimSpace(r.Candidate)
		r.Party = strings.TrimSpace(r.Party)
		r.Symbol = strings.TrimSpace(r.Symbol)
		r.Votes = strings.TrimSpace(r.Votes)
		r.Status = strings.TrimSpace(r.Status)

		key := rowKey{seat: r.SeatID, candidate: r.Candidate, party: r.Party}
		if seen[key] {
			duplicates++
			c.logger.Debug("Seat %d lists '%s' (%s) more than once", r.SeatID, r.Candidate, r.Party)
			continue
		}
		seen[key] = true
	}

	if duplicates > 0 {
		c.logger.Warn("%d repeated candidate rows in raw data, their votes are summed", duplicates)
	}
	c.logger.Info("Cleaned %d raw candidate rows", len(records))
	return records
}
