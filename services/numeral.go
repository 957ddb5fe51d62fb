package services

import (
	"fmt"
	"strconv"
	"strings"
)

// bengaliDigits maps the Bengali digits ০-৯ to their Latin equivalents
var bengaliDigits = map[rune]rune{
	'০': '0', '১': '1', '২': '2', '৩': '3', '৪': '4',
	'৫': '5', '৬': '6', '৭': '7', '৮': '8', '৯': '9',
}

func latinDigit(r rune) rune {
	if d, ok := bengaliDigits[r]; ok {
		return d
	}
	return r
}

// ParseVotes converts a vote count such as "১,২৩৪" to an integer. An empty
// string is zero votes. Anything else that is not a non-negative base-10
// number yields ErrMalformedNumeral.
func ParseVotes(raw string) (int64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, nil
	}
	s = strings.Map(latinDigit, strings.ReplaceAll(s, ",", ""))
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedNumeral, raw)
	}
	return n, nil
}

// ToInt is ParseVotes with malformed input recovered as zero
func ToInt(raw string) int64 {
	n, _ := ParseVotes(raw)
	return n
}
