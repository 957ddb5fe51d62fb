package models

import "fmt"

// DivisionEconomy is one row of the socioeconomic reference table
type DivisionEconomy struct {
	Division      string  `csv:"Division" validate:"required"`
	MonthlyIncome float64 `csv:"Monthly_Income" validate:"gte=0"`
	Expenditure   float64 `csv:"Expenditure" validate:"gte=0"`
}

// EconomicReference is an immutable division -> economy lookup table
type EconomicReference struct {
	rows  []DivisionEconomy
	index map[string]int
}

// NewEconomicReference builds a reference table, rejecting duplicate divisions
func NewEconomicReference(rows []DivisionEconomy) (EconomicReference, error) {
	ref := EconomicReference{
		rows:  make([]DivisionEconomy, len(rows)),
		index: make(map[string]int, len(rows)),
	}
	copy(ref.rows, rows)
	for i, r := range ref.rows {
		if _, dup := ref.index[r.Division]; dup {
			return EconomicReference{}, fmt.Errorf("duplicate division %q in economic reference", r.Division)
		}
		ref.index[r.Division] = i
	}
	return ref, nil
}

// Lookup returns the reference row for a division
func (r EconomicReference) Lookup(division string) (DivisionEconomy, bool) {
	i, ok := r.index[division]
	if !ok {
		return DivisionEconomy{}, false
	}
	return r.rows[i], true
}

// Rows returns a copy of the reference rows in their original order
func (r EconomicReference) Rows() []DivisionEconomy {
	out := make([]DivisionEconomy, len(r.rows))
	copy(out, r.rows)
	return out
}

// Len returns the number of divisions in the table
func (r EconomicReference) Len() int { return len(r.rows) }
