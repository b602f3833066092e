package cli

import (
	"fmt"
	"math"
	"strings"

	"flowmind-engine/internal/models"
)

const (
	chartWidth  = 64
	chartHeight = 16
)

// renderPayoffChart draws the expiration curve as an ASCII chart with
// the current-value curve overlaid. The expiration curve is drawn with
// '*' and the current curve with '.'; the zero-pnl axis is dashed.
func renderPayoffChart(output *Output, result *models.StrategyResult) {
	exp := result.ExpirationCurve
	cur := result.CurrentCurve
	if len(exp) < 2 {
		output.Warning("Not enough samples to render chart")
		return
	}

	minPnL := math.Min(exp.MinPnL(), cur.MinPnL())
	maxPnL := math.Max(exp.MaxPnL(), cur.MaxPnL())
	if maxPnL == minPnL {
		maxPnL = minPnL + 1
	}
	// Keep the zero axis on the canvas.
	if minPnL > 0 {
		minPnL = 0
	}
	if maxPnL < 0 {
		maxPnL = 0
	}

	grid := make([][]byte, chartHeight)
	for r := range grid {
		grid[r] = []byte(strings.Repeat(" ", chartWidth))
	}

	rowFor := func(pnl float64) int {
		frac := (pnl - minPnL) / (maxPnL - minPnL)
		r := chartHeight - 1 - int(math.Round(frac*float64(chartHeight-1)))
		if r < 0 {
			r = 0
		}
		if r >= chartHeight {
			r = chartHeight - 1
		}
		return r
	}

	zeroRow := rowFor(0)
	for c := 0; c < chartWidth; c++ {
		if c%2 == 0 {
			grid[zeroRow][c] = '-'
		}
	}

	plot := func(curve models.PayoffCurve, mark byte) {
		for c := 0; c < chartWidth; c++ {
			idx := c * (len(curve) - 1) / (chartWidth - 1)
			r := rowFor(curve[idx].PnL)
			if grid[r][c] == ' ' || grid[r][c] == '-' {
				grid[r][c] = mark
			}
		}
	}
	plot(cur, '.')
	plot(exp, '*')

	// Vertical spot marker.
	lo := exp[0].UnderlyingPrice
	hi := exp[len(exp)-1].UnderlyingPrice
	spot := result.Market.SpotPrice
	if spot > lo && spot < hi {
		c := int(math.Round((spot - lo) / (hi - lo) * float64(chartWidth-1)))
		for r := 0; r < chartHeight; r++ {
			if grid[r][c] == ' ' {
				grid[r][c] = '|'
			}
		}
	}

	labelRows := map[int]string{
		rowFor(maxPnL): fmt.Sprintf("%+.2f", maxPnL),
		zeroRow:        "0.00",
		rowFor(minPnL): fmt.Sprintf("%+.2f", minPnL),
	}
	for r, line := range grid {
		label := labelRows[r]
		output.Printf("  %10s │%s\n", label, string(line))
	}
	output.Printf("  %10s └%s\n", "", strings.Repeat("─", chartWidth))
	output.Printf("  %10s  %-*s%*s\n", "",
		chartWidth/2, fmt.Sprintf("%.2f", lo),
		chartWidth/2, fmt.Sprintf("%.2f", hi))
	output.Dim("  * expiration   . current value   | spot %.2f", spot)
}
