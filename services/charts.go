package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"bd-election-analysis/models"
	"bd-election-analysis/utils"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// Chart file names written into the images directory
const (
	ChartSeatShare      = "Seat_Share_Bar_Chart.png"
	ChartDivisionWins   = "Division_Seat_Wins_Stacked_Bar_Chart.png"
	ChartIncomeBNPShare = "Income_vs_BNP_Vote_Share_Scatter.png"
	ChartIncome11PA     = "Income_vs_11PA_Vote_Share_Scatter.png"
	ChartWeightedImpact = "Weighted_Impact_Chart.png"
	ChartExpenditureBox = "Expenditure_vs_Winner_Boxplot.png"
)

// RawVsWeightedChart is the file name of the raw share vs weighted impact
// chart drawn for a principal alliance
func RawVsWeightedChart(code models.AllianceCode) string {
	return fmt.Sprintf("Raw_vs_Weighted_%s.png", code)
}

// ChartRenderer draws the analysis charts as PNG files
type ChartRenderer struct {
	logger *utils.Logger
	dir    string
}

// NewChartRenderer creates a ChartRenderer writing into dir
func NewChartRenderer(logger *utils.Logger, dir string) *ChartRenderer {
	return &ChartRenderer{logger: logger, dir: dir}
}

// RenderAll draws every chart concurrently. seats must carry winners; impacts
// may be nil, in which case the division charts are skipped.
func (r *ChartRenderer) RenderAll(ctx context.Context, seats *models.SeatTable, impacts *models.ImpactTable, ref models.EconomicReference) ([]string, error) {
	if err := os.MkdirAll(r.dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create images directory: %w", err)
	}

	type job struct {
		name string
		draw func() (*plot.Plot, error)
	}
	jobs := []job{
		{ChartSeatShare, func() (*plot.Plot, error) { return seatShareChart(seats) }},
		{ChartDivisionWins, func() (*plot.Plot, error) { return divisionWinsChart(seats) }},
		{ChartIncomeBNPShare, func() (*plot.Plot, error) { return incomeShareScatter(seats, ref, models.AllianceBNP) }},
		{ChartIncome11PA, func() (*plot.Plot, error) { return incomeShareScatter(seats, ref, models.Alliance11PA) }},
		{ChartExpenditureBox, func() (*plot.Plot, error) { return expenditureBoxPlot(seats, ref) }},
	}
	if impacts != nil {
		jobs = append(jobs, job{ChartWeightedImpact, func() (*plot.Plot, error) { return weightedImpactChart(impacts) }})
		for _, code := range models.PrincipalAlliances {
			jobs = append(jobs, job{RawVsWeightedChart(code), func() (*plot.Plot, error) { return rawVsWeightedChart(impacts, code) }})
		}
	}

	paths := make([]string, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	for i, j := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			p, err := j.draw()
			if err != nil {
				return fmt.Errorf("chart %s: %w", j.name, err)
			}
			path := filepath.Join(r.dir, j.name)
			if err := savePNG(p, path, 10*vg.Inch, 6*vg.Inch); err != nil {
				return fmt.Errorf("chart %s: %w", j.name, err)
			}
			paths[i] = path
			r.logger.Debug("Chart written: %s", path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	r.logger.Info("%d charts written to %s", len(paths), r.dir)
	return paths, nil
}

func savePNG(p *plot.Plot, path string, w, h vg.Length) error {
	c := vgimg.New(w, h)
	p.Draw(draw.New(c))

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// seatShareChart shows seats won per alliance
func seatShareChart(seats *models.SeatTable) (*plot.Plot, error) {
	wins := make(map[models.AllianceCode]int)
	for _, seat := range seats.Seats {
		if seat.WinnerAlliance != "" {
			wins[seat.WinnerAlliance]++
		}
	}

	var names []string
	var values plotter.Values
	for _, code := range models.AllAlliances {
		if n := wins[code]; n > 0 {
			names = append(names, string(code))
			values = append(values, float64(n))
		}
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: no seat has a winner", ErrNotEnoughData)
	}

	p := plot.New()
	p.Title.Text = "Seats Won per Alliance"
	p.Y.Label.Text = "Seats"

	bars, err := plotter.NewBarChart(values, vg.Points(30))
	if err != nil {
		return nil, err
	}
	bars.Color = plotutil.Color(0)
	p.Add(bars)
	p.NominalX(names...)
	return p, nil
}

// divisionWinsChart stacks the seat wins of every division by alliance
func divisionWinsChart(seats *models.SeatTable) (*plot.Plot, error) {
	wins := make(map[string]map[models.AllianceCode]int)
	present := make(map[models.AllianceCode]bool)
	for _, seat := range seats.Seats {
		if seat.WinnerAlliance == "" {
			continue
		}
		if wins[seat.Division] == nil {
			wins[seat.Division] = make(map[models.AllianceCode]int)
		}
		wins[seat.Division][seat.WinnerAlliance]++
		present[seat.WinnerAlliance] = true
	}
	if len(wins) == 0 {
		return nil, fmt.Errorf("%w: no seat has a winner", ErrNotEnoughData)
	}

	divisions := make([]string, 0, len(wins))
	for div := range wins {
		divisions = append(divisions, div)
	}
	sort.Strings(divisions)

	p := plot.New()
	p.Title.Text = "Seat Wins per Division"
	p.Y.Label.Text = "Seats"
	p.Legend.Top = true

	var below *plotter.BarChart
	for i, code := range models.AllAlliances {
		if !present[code] {
			continue
		}
		values := make(plotter.Values, len(divisions))
		for k, div := range divisions {
			values[k] = float64(wins[div][code])
		}
		bars, err := plotter.NewBarChart(values, vg.Points(30))
		if err != nil {
			return nil, err
		}
		bars.Color = plotutil.Color(i)
		bars.LineStyle.Width = 0
		if below != nil {
			bars.StackOn(below)
		}
		below = bars
		p.Add(bars)
		p.Legend.Add(string(code), bars)
	}
	p.NominalX(divisions...)
	return p, nil
}

// incomeShareScatter plots the vote share of code in each seat against the
// monthly income of the seat's division. Seats without votes or economic
// data are left out.
func incomeShareScatter(seats *models.SeatTable, ref models.EconomicReference, code models.AllianceCode) (*plot.Plot, error) {
	var xys plotter.XYs
	for _, seat := range seats.Seats {
		total := seat.Total()
		if total == 0 {
			continue
		}
		econ, ok := ref.Lookup(seat.Division)
		if !ok {
			continue
		}
		xys = append(xys, plotter.XY{
			X: econ.MonthlyIncome,
			Y: float64(seat.Votes[code]) / float64(total) * 100,
		})
	}
	if len(xys) == 0 {
		return nil, fmt.Errorf("%w: no seat with votes and economic data", ErrNotEnoughData)
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Division Income vs %s Vote Share", code)
	p.X.Label.Text = "Monthly household income (BDT)"
	p.Y.Label.Text = fmt.Sprintf("%s vote share (%%)", code)

	s, err := plotter.NewScatter(xys)
	if err != nil {
		return nil, err
	}
	s.GlyphStyle.Color = plotutil.Color(code.Rank())
	s.GlyphStyle.Radius = vg.Points(3)
	p.Add(s)
	return p, nil
}

// expenditureBoxPlot compares the division expenditure of seats won by each
// principal alliance
func expenditureBoxPlot(seats *models.SeatTable, ref models.EconomicReference) (*plot.Plot, error) {
	groups := make(map[models.AllianceCode]plotter.Values)
	for _, seat := range seats.Seats {
		if !seat.WinnerAlliance.IsPrincipal() {
			continue
		}
		econ, ok := ref.Lookup(seat.Division)
		if !ok {
			continue
		}
		groups[seat.WinnerAlliance] = append(groups[seat.WinnerAlliance], econ.Expenditure)
	}
	if len(groups) == 0 {
		return nil, fmt.Errorf("%w: no principal alliance winner with economic data", ErrNotEnoughData)
	}

	p := plot.New()
	p.Title.Text = "Expenditure vs Winning Alliance"
	p.X.Label.Text = "Winning alliance"
	p.Y.Label.Text = "Monthly household expenditure (BDT)"

	var names []string
	for _, code := range models.PrincipalAlliances {
		values, ok := groups[code]
		if !ok {
			continue
		}
		box, err := plotter.NewBoxPlot(vg.Points(40), float64(len(names)), values)
		if err != nil {
			return nil, err
		}
		box.FillColor = plotutil.Color(code.Rank())
		p.Add(box)
		names = append(names, string(code))
	}
	p.NominalX(names...)
	return p, nil
}

// rawVsWeightedChart sets the raw division vote share of code next to its
// weighted impact, highest income first
func rawVsWeightedChart(impacts *models.ImpactTable, code models.AllianceCode) (*plot.Plot, error) {
	if len(impacts.Rows) == 0 {
		return nil, fmt.Errorf("%w: no division rows", ErrNotEnoughData)
	}
	rows := append([]*models.DivisionImpact(nil), impacts.Rows...)
	SortByIncome(rows)

	divisions := make([]string, len(rows))
	raw := make(plotter.Values, len(rows))
	weighted := make(plotter.Values, len(rows))
	for i, row := range rows {
		divisions[i] = row.Division
		raw[i] = row.VoteSharePct[code]
		weighted[i] = row.Weighted[code]
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s: Raw Vote Share vs Weighted Impact", code)
	p.Y.Label.Text = "Vote share (%) / weighted impact"
	p.Legend.Top = true

	width := vg.Points(18)
	series := []struct {
		label  string
		values plotter.Values
	}{
		{"Raw vote share (%)", raw},
		{"Weighted_" + string(code), weighted},
	}
	for i, s := range series {
		bars, err := plotter.NewBarChart(s.values, width)
		if err != nil {
			return nil, err
		}
		bars.Color = plotutil.Color(code.Rank() + i*len(models.PrincipalAlliances))
		bars.LineStyle.Width = 0
		bars.Offset = vg.Length(float64(i)-0.5) * width
		p.Add(bars)
		p.Legend.Add(s.label, bars)
	}
	p.NominalX(divisions...)
	return p, nil
}

// weightedImpactChart groups the weighted impact of the principal alliances
// per division, highest income first
func weightedImpactChart(impacts *models.ImpactTable) (*plot.Plot, error) {
	if len(impacts.Rows) == 0 {
		return nil, fmt.Errorf("%w: no division rows", ErrNotEnoughData)
	}
	rows := append([]*models.DivisionImpact(nil), impacts.Rows...)
	SortByIncome(rows)

	divisions := make([]string, len(rows))
	for i, row := range rows {
		divisions[i] = row.Division
	}

	p := plot.New()
	p.Title.Text = "Weighted Impact per Division"
	p.Y.Label.Text = "Vote share x voter weight"
	p.Legend.Top = true

	width := vg.Points(18)
	weighted := models.PrincipalAlliances
	for i, code := range weighted {
		values := make(plotter.Values, len(rows))
		for k, row := range rows {
			values[k] = row.Weighted[code]
		}
		bars, err := plotter.NewBarChart(values, width)
		if err != nil {
			return nil, err
		}
		bars.Color = plotutil.Color(code.Rank())
		bars.LineStyle.Width = 0
		bars.Offset = vg.Length(float64(i)-float64(len(weighted)-1)/2) * width
		p.Add(bars)
		p.Legend.Add("Weighted_"+string(code), bars)
	}
	p.NominalX(divisions...)
	return p, nil
}
