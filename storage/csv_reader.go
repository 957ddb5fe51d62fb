package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"bd-election-analysis/models"
	"bd-election-analysis/utils"

	"github.com/go-playground/validator/v10"
	"github.com/gocarina/gocsv"
)

var validate = validator.New()

// CSVReader loads pipeline artifacts written by CSVWriter or by hand. A
// leading byte order mark is accepted but not required.
type CSVReader struct {
	logger *utils.Logger
}

// NewCSVReader creates a new CSVReader
func NewCSVReader(logger *utils.Logger) *CSVReader {
	return &CSVReader{logger: logger}
}

// ReadRawRecords loads candidate rows and validates each of them
func (r *CSVReader) ReadRawRecords(path string) ([]*models.RawCandidateRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open raw data: %w", err)
	}
	defer f.Close()

	var records []*models.RawCandidateRecord
	if err := gocsv.Unmarshal(bomReader(f), &records); err != nil {
		return nil, fmt.Errorf("failed to parse raw data %s: %w", path, err)
	}
	for i, rec := range records {
		if err := validate.Struct(rec); err != nil {
			return nil, fmt.Errorf("raw data %s row %d: %w", path, i+2, err)
		}
	}
	r.logger.Info("Loaded %d candidate rows from %s", len(records), path)
	return records, nil
}

// ReadSeatTable loads the seat-wise dataset. Columns after Seat_ID, Seat_Name
// and Division that name a known alliance become vote columns; any other
// column is ignored.
func (r *CSVReader) ReadSeatTable(path string) (*models.SeatTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open seat data: %w", err)
	}
	defer f.Close()

	cr := csv.NewReader(bomReader(f))
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read seat data header: %w", err)
	}

	idx := map[string]int{ColSeatID: -1, ColSeatName: -1, ColDivision: -1}
	allianceCols := make(map[models.AllianceCode]int)
	for i, name := range header {
		name = strings.TrimSpace(name)
		if _, ok := idx[name]; ok {
			idx[name] = i
			continue
		}
		if code, ok := models.ParseAlliance(name); ok {
			allianceCols[code] = i
		}
	}
	for name, i := range idx {
		if i < 0 {
			return nil, fmt.Errorf("seat data %s: missing column %s", path, name)
		}
	}

	table := &models.SeatTable{}
	for code := range allianceCols {
		table.Alliances = append(table.Alliances, code)
	}
	models.SortAlliances(table.Alliances)

	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("seat data %s line %d: %w", path, line, err)
		}
		id, err := strconv.Atoi(strings.TrimSpace(row[idx[ColSeatID]]))
		if err != nil {
			return nil, fmt.Errorf("seat data %s line %d: bad %s: %w", path, line, ColSeatID, err)
		}
		seat := &models.SeatAggregate{
			SeatID:   id,
			SeatName: row[idx[ColSeatName]],
			Division: row[idx[ColDivision]],
			Votes:    make(map[models.AllianceCode]int64, len(allianceCols)),
		}
		for code, i := range allianceCols {
			v, err := parseCount(row[i])
			if err != nil {
				return nil, fmt.Errorf("seat data %s line %d: bad %s: %w", path, line, code, err)
			}
			seat.Votes[code] = v
		}
		table.Seats = append(table.Seats, seat)
	}

	r.logger.Info("Loaded %d seats with %d alliance columns from %s", len(table.Seats), len(table.Alliances), path)
	return table, nil
}

// ReadEconomicReference loads a Division, Monthly_Income, Expenditure table
func (r *CSVReader) ReadEconomicReference(path string) (models.EconomicReference, error) {
	f, err := os.Open(path)
	if err != nil {
		return models.EconomicReference{}, fmt.Errorf("failed to open economic reference: %w", err)
	}
	defer f.Close()

	var rows []models.DivisionEconomy
	if err := gocsv.Unmarshal(bomReader(f), &rows); err != nil {
		return models.EconomicReference{}, fmt.Errorf("failed to parse economic reference %s: %w", path, err)
	}
	for i := range rows {
		if err := validate.Struct(rows[i]); err != nil {
			return models.EconomicReference{}, fmt.Errorf("economic reference %s row %d: %w", path, i+2, err)
		}
	}
	r.logger.Info("Loaded economic reference for %d divisions from %s", len(rows), path)
	return models.NewEconomicReference(rows)
}

// parseCount accepts integer counts and integral floats such as "1234.0"
func parseCount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		if n < 0 {
			return 0, fmt.Errorf("negative vote count: %s", s)
		}
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f != float64(int64(f)) || f < 0 {
		return 0, fmt.Errorf("not a whole vote count: %s", s)
	}
	return int64(f), nil
}
