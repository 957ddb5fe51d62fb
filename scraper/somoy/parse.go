package somoy

import (
	"fmt"
	"strconv"
	"strings"

	"bd-election-analysis/models"
	"bd-election-analysis/services"

	"golang.org/x/text/unicode/norm"
)

// Result labels written to the Status column
const (
	StatusWinner = "বিজয়ী"
	StatusLoser  = "পরাজিত"
)

// stat labels shown in the seat summary boxes
var statLabels = map[string]string{
	"মোট ভোটার":   "total_voters",
	"মোট কেন্দ্র": "total_centers",
	"পুরুষ ভোটার": "male_voters",
	"নারী ভোটার":  "female_voters",
}

// divisionNames maps every spelling seen in seat headers to the division name
// used by the economic reference
var divisionNames = []struct {
	alias    string
	division string
}{
	{"ময়মনসিংহ", "Mymensingh"},
	{"চট্টগ্রাম", "Chattogram"},
	{"রাজশাহী", "Rajshahi"},
	{"বরিশাল", "Barishal"},
	{"খুলনা", "Khulna"},
	{"সিলেট", "Sylhet"},
	{"রংপুর", "Rangpur"},
	{"ঢাকা", "Dhaka"},
	{"mymensingh", "Mymensingh"},
	{"chattogram", "Chattogram"},
	{"chittagong", "Chattogram"},
	{"rajshahi", "Rajshahi"},
	{"barishal", "Barishal"},
	{"barisal", "Barishal"},
	{"khulna", "Khulna"},
	{"sylhet", "Sylhet"},
	{"rangpur", "Rangpur"},
	{"dhaka", "Dhaka"},
}

func init() {
	for i := range divisionNames {
		divisionNames[i].alias = norm.NFKC.String(divisionNames[i].alias)
	}
	normalized := make(map[string]string, len(statLabels))
	for k, v := range statLabels {
		normalized[norm.NFKC.String(k)] = v
	}
	statLabels = normalized
}

// parseSeatPage turns the extracted page content into candidate rows
func parseSeatPage(seatID int, page seatPage) []*models.RawCandidateRecord {
	header := strings.TrimSpace(page.Header)
	seatName := header
	if i := strings.Index(header, ","); i >= 0 {
		seatName = strings.TrimSpace(header[:i])
	}
	if seatName == "" {
		seatName = fmt.Sprintf("Seat-%d", seatID)
	}
	division := divisionFromHeader(header)

	stats := map[string]string{
		"total_voters":  "0",
		"total_centers": "0",
		"male_voters":   "0",
		"female_voters": "0",
	}
	for _, st := range page.Stats {
		if key, ok := statLabels[norm.NFKC.String(strings.TrimSpace(st.Label))]; ok {
			stats[key] = strings.TrimSpace(st.Value)
		}
	}

	records := make([]*models.RawCandidateRecord, 0, len(page.Cards))
	for _, card := range page.Cards {
		party, symbol, votes := "Unknown", "Unknown", "0"
		for _, p := range card.Paragraphs {
			switch {
			case strings.Contains(p, "দল:"):
				party = fieldValue(p, "দল:")
			case strings.Contains(p, "মার্কা:"):
				symbol = fieldValue(p, "মার্কা:")
			case strings.Contains(p, "ভোট:"):
				votes = strings.ReplaceAll(fieldValue(p, "ভোট:"), "\n", "")
			}
		}
		records = append(records, &models.RawCandidateRecord{
			SeatID:       seatID,
			SeatName:     seatName,
			Division:     division,
			Candidate:    card.Name,
			Party:        party,
			Symbol:       symbol,
			Votes:        votes,
			TotalVoters:  stats["total_voters"],
			TotalCenters: stats["total_centers"],
			MaleVoters:   stats["male_voters"],
			FemaleVoters: stats["female_voters"],
		})
	}
	return records
}

// fieldValue returns the trimmed text after label
func fieldValue(p, label string) string {
	_, after, _ := strings.Cut(p, label)
	after = strings.TrimSpace(after)
	if after == "" {
		return "Unknown"
	}
	return after
}

// divisionFromHeader finds the division named in a seat header such as
// "ঢাকা-১, ঢাকা বিভাগ". Text after the first comma is searched first.
func divisionFromHeader(header string) string {
	h := strings.ToLower(norm.NFKC.String(header))
	var parts []string
	if i := strings.Index(h, ","); i >= 0 {
		parts = append(parts, h[i+1:], h[:i])
	} else {
		parts = append(parts, h)
	}
	for _, part := range parts {
		for _, d := range divisionNames {
			if strings.Contains(part, d.alias) {
				return d.division
			}
		}
	}
	return ""
}

// MarkWinners sets Status on every record: the candidate with the most votes
// in a seat wins, the first one listed on a tie
func MarkWinners(records []*models.RawCandidateRecord) {
	best := make(map[int]*models.RawCandidateRecord)
	bestVotes := make(map[int]int64)
	for _, r := range records {
		v := services.ToInt(r.Votes)
		if _, ok := best[r.SeatID]; !ok || v > bestVotes[r.SeatID] {
			best[r.SeatID] = r
			bestVotes[r.SeatID] = v
		}
	}
	for _, r := range records {
		if best[r.SeatID] == r {
			r.Status = StatusWinner
		} else {
			r.Status = StatusLoser
		}
	}
}

// seatURL builds the page URL of a seat
func seatURL(base string, seatID int) string {
	return base + strconv.Itoa(seatID)
}
