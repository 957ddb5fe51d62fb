package models

import "sort"

// AllianceCode identifies a coalition of parties for aggregate reporting
type AllianceCode string

const (
	AllianceBNP    AllianceCode = "BNP-A"
	Alliance11PA   AllianceCode = "11PA"
	AllianceNDF    AllianceCode = "NDF"
	AllianceDUF    AllianceCode = "DUF"
	AllianceGSA    AllianceCode = "GSA"
	AllianceIAB    AllianceCode = "IAB"
	AllianceIND    AllianceCode = "IND"
	AllianceOthers AllianceCode = "Others"
)

// AllAlliances lists every alliance in canonical column order. This order is
// also the winner tie-break order.
var AllAlliances = []AllianceCode{
	AllianceBNP,
	Alliance11PA,
	AllianceNDF,
	AllianceDUF,
	AllianceGSA,
	AllianceIAB,
	AllianceIND,
	AllianceOthers,
}

// PrincipalAlliances are the alliances that receive a weighted impact score
var PrincipalAlliances = []AllianceCode{AllianceBNP, Alliance11PA}

// ParseAlliance maps a column name back to its AllianceCode
func ParseAlliance(s string) (AllianceCode, bool) {
	for _, a := range AllAlliances {
		if string(a) == s {
			return a, true
		}
	}
	return "", false
}

// Rank returns the canonical position of the alliance, or len(AllAlliances)
// for unknown codes.
func (a AllianceCode) Rank() int {
	for i, c := range AllAlliances {
		if c == a {
			return i
		}
	}
	return len(AllAlliances)
}

// IsPrincipal reports whether the alliance is weighted by the impact engine
func (a AllianceCode) IsPrincipal() bool {
	for _, p := range PrincipalAlliances {
		if p == a {
			return true
		}
	}
	return false
}

// SortAlliances orders codes canonically in place
func SortAlliances(codes []AllianceCode) {
	sort.SliceStable(codes, func(i, j int) bool {
		return codes[i].Rank() < codes[j].Rank()
	})
}
