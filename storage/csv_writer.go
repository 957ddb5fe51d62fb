package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"bd-election-analysis/models"
	"bd-election-analysis/utils"

	"github.com/gocarina/gocsv"
)

// Fixed column names of the derived datasets
const (
	ColSeatID             = "Seat_ID"
	ColSeatName           = "Seat_Name"
	ColDivision           = "Division"
	ColMonthlyIncome      = "Monthly_Income"
	ColExpenditure        = "Expenditure"
	ColDivisionTotalVotes = "Division_Total_Votes"
	ColVoterWeight        = "Voter_Weight"
	WeightedPrefix        = "Weighted_"
)

// CSVWriter writes the pipeline artifacts as UTF-8 CSV with a byte order mark
type CSVWriter struct {
	logger *utils.Logger
}

// NewCSVWriter creates a new CSVWriter
func NewCSVWriter(logger *utils.Logger) *CSVWriter {
	return &CSVWriter{logger: logger}
}

// WriteRawRecords writes scraped candidate rows to path
func (w *CSVWriter) WriteRawRecords(path string, records []*models.RawCandidateRecord) error {
	err := writeFileAtomic(path, func(out io.Writer) error {
		if err := gocsv.Marshal(records, out); err != nil {
			return fmt.Errorf("failed to write raw records: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	w.logger.Info("Raw candidate rows written to: %s (%d rows)", path, len(records))
	return nil
}

// WriteSeatTable writes the seat-wise dataset: Seat_ID, Seat_Name, Division,
// then one column per alliance
func (w *CSVWriter) WriteSeatTable(path string, table *models.SeatTable) error {
	header := []string{ColSeatID, ColSeatName, ColDivision}
	for _, code := range table.Alliances {
		header = append(header, string(code))
	}

	err := writeFileAtomic(path, func(out io.Writer) error {
		cw := csv.NewWriter(out)
		if err := cw.Write(header); err != nil {
			return fmt.Errorf("failed to write CSV header: %w", err)
		}
		for _, seat := range table.Seats {
			row := []string{strconv.Itoa(seat.SeatID), seat.SeatName, seat.Division}
			for _, code := range table.Alliances {
				row = append(row, strconv.FormatInt(seat.Votes[code], 10))
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("failed to write seat %d: %w", seat.SeatID, err)
			}
		}
		cw.Flush()
		return cw.Error()
	})
	if err != nil {
		return err
	}
	w.logger.Info("Seat-wise votes written to: %s (%d seats)", path, len(table.Seats))
	return nil
}

// WriteImpactTable writes the division-level weighted impact dataset
func (w *CSVWriter) WriteImpactTable(path string, table *models.ImpactTable) error {
	weighted := models.PrincipalAlliances
	header := []string{ColDivision}
	for _, code := range table.Alliances {
		header = append(header, string(code))
	}
	header = append(header, ColMonthlyIncome, ColExpenditure, ColDivisionTotalVotes, ColVoterWeight)
	for _, code := range weighted {
		header = append(header, WeightedPrefix+string(code))
	}

	err := writeFileAtomic(path, func(out io.Writer) error {
		cw := csv.NewWriter(out)
		if err := cw.Write(header); err != nil {
			return fmt.Errorf("failed to write CSV header: %w", err)
		}
		for _, r := range table.Rows {
			row := []string{r.Division}
			for _, code := range table.Alliances {
				row = append(row, formatFloat(r.VoteSharePct[code]))
			}
			row = append(row,
				formatFloat(r.MonthlyIncome),
				formatFloat(r.Expenditure),
				strconv.FormatInt(r.DivisionTotalVotes, 10),
				formatFloat(r.VoterWeight),
			)
			for _, code := range weighted {
				row = append(row, formatFloat(r.Weighted[code]))
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("failed to write division %s: %w", r.Division, err)
			}
		}
		cw.Flush()
		return cw.Error()
	})
	if err != nil {
		return err
	}
	w.logger.Info("Weighted analysis written to: %s (%d divisions)", path, len(table.Rows))
	return nil
}
