package services

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"bd-election-analysis/models"
)

// PrintInsightReport formats and prints the insight report to w
func PrintInsightReport(w io.Writer, report *models.InsightReport) {
	border := strings.Repeat("═", 55)
	thin := strings.Repeat("─", 55)

	fmt.Fprintf(w, "\n╔%s╗\n", border)
	fmt.Fprintf(w, "║%s║\n", center("BANGLADESH ELECTION ANALYSIS", 55))
	fmt.Fprintf(w, "╚%s╝\n", border)

	fmt.Fprintf(w, "\n OVERVIEW\n%s\n", thin)
	fmt.Fprintf(w, "  Total Seats             : %d\n", report.TotalSeats)
	fmt.Fprintf(w, "  Seats With Results      : %d\n", report.ContestedSeats)
	fmt.Fprintf(w, "  National Votes          : %d\n", report.NationalVotes)

	codes := reportedAlliances(report)
	if len(codes) > 0 {
		fmt.Fprintf(w, "\n SEATS AND VOTES PER ALLIANCE\n%s\n", thin)
		for _, code := range codes {
			seats := report.SeatsByAlliance[code]
			fmt.Fprintf(w, "  %-8s %4d seats  %12d votes  %6.2f%%  %s\n",
				string(code)+":", seats, report.VotesByAlliance[code], VoteShare(report, code), bar(seats, report.ContestedSeats))
		}
	}

	if len(report.WinsByDivision) > 0 {
		fmt.Fprintf(w, "\n SEAT WINS PER DIVISION\n%s\n", thin)
		divisions := make([]string, 0, len(report.WinsByDivision))
		for div := range report.WinsByDivision {
			divisions = append(divisions, div)
		}
		sort.Strings(divisions)
		for _, div := range divisions {
			wins := report.WinsByDivision[div]
			var parts []string
			for _, code := range models.AllAlliances {
				if n := wins[code]; n > 0 {
					parts = append(parts, fmt.Sprintf("%s %d", code, n))
				}
			}
			fmt.Fprintf(w, "  %-12s %s\n", truncate(divisionLabel(div), 12), strings.Join(parts, ", "))
		}
	}

	if len(report.TopImpactDivisions) > 0 {
		fmt.Fprintf(w, "\n STRONGEST WEIGHTED IMPACT\n%s\n", thin)
		for _, code := range models.PrincipalAlliances {
			if leader, ok := report.TopImpactDivisions[code]; ok {
				fmt.Fprintf(w, "  %-8s %-12s %.4f\n", string(code)+":", leader.Division, leader.Weighted)
			}
		}
	}

	fmt.Fprintf(w, "\n%s\n\n", border)
}

// reportedAlliances returns the alliances with votes or seats, canonically ordered
func reportedAlliances(report *models.InsightReport) []models.AllianceCode {
	var codes []models.AllianceCode
	for _, code := range models.AllAlliances {
		if report.VotesByAlliance[code] > 0 || report.SeatsByAlliance[code] > 0 {
			codes = append(codes, code)
		}
	}
	return codes
}

// bar draws one block per 10 seats, at least one for a non-zero count
func bar(n, total int) string {
	if n <= 0 || total <= 0 {
		return ""
	}
	blocks := n / 10
	if blocks == 0 {
		blocks = 1
	}
	return strings.Repeat("▓", blocks)
}

func divisionLabel(div string) string {
	if div == "" {
		return "(unknown)"
	}
	return div
}

func center(s string, width int) string {
	runes := []rune(s)
	if len(runes) >= width {
		return s
	}
	pad := (width - len(runes)) / 2
	return strings.Repeat(" ", pad) + s + strings.Repeat(" ", width-len(runes)-pad)
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

// PrintTreeReport prints the rules and feature importances of a fitted tree
func PrintTreeReport(w io.Writer, result *TreeResult) {
	thin := strings.Repeat("─", 55)
	fmt.Fprintf(w, "\n DECISION TREE (%d seats, BNP-A vs 11PA)\n%s\n", result.Samples, thin)
	fmt.Fprint(w, result.Rules)
	fmt.Fprintf(w, "\n Feature importance\n")
	for i, name := range result.Features {
		fmt.Fprintf(w, "  %-12s %.4f\n", name+":", result.Importances[i])
	}
	fmt.Fprintln(w)
}
