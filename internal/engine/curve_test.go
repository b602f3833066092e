package engine

import (
	"math"
	"testing"

	"flowmind-engine/internal/models"
)

func testMarket(spot float64) models.MarketContext {
	return models.MarketContext{
		SpotPrice:         spot,
		ImpliedVolatility: 0.30,
		RiskFreeRate:      0.05,
	}
}

func longCall(strike, premium, days float64) models.StrategyDefinition {
	return models.StrategyDefinition{
		Name: "long call",
		Legs: []models.OptionLeg{{
			Strike: strike, Kind: models.KindCall, Side: models.SideLong,
			Quantity: 1, Premium: premium, ExpirationDays: days,
		}},
	}
}

func bullCallSpread(k1, k2, p1, p2 float64, qty int, days float64) models.StrategyDefinition {
	return models.StrategyDefinition{
		Name: "bull call spread",
		Legs: []models.OptionLeg{
			{Strike: k1, Kind: models.KindCall, Side: models.SideLong, Quantity: qty, Premium: p1, ExpirationDays: days},
			{Strike: k2, Kind: models.KindCall, Side: models.SideShort, Quantity: qty, Premium: p2, ExpirationDays: days},
		},
	}
}

func TestLongCallBreakevenAtStrikePlusPremium(t *testing.T) {
	strategy := longCall(100, 5, 30)
	curve, err := BuildExpirationCurve(strategy, testMarket(100), CurveConfig{})
	if err != nil {
		t.Fatalf("BuildExpirationCurve: %v", err)
	}

	bes := Breakevens(curve)
	if len(bes) != 1 {
		t.Fatalf("breakevens = %v, want exactly one", bes)
	}
	// The payoff is linear through the crossing, so interpolation is exact.
	if math.Abs(bes[0]-105) > 1e-6 {
		t.Errorf("breakeven = %.6f, want 105", bes[0])
	}
}

func TestVerticalSpreadRiskBounds(t *testing.T) {
	const (
		k1, k2 = 100.0, 110.0
		p1, p2 = 3.50, 1.20
		qty    = 2
	)
	strategy := bullCallSpread(k1, k2, p1, p2, qty, 30)
	netDebit := strategy.NetDebitCredit()
	if math.Abs(netDebit-float64(qty)*(p1-p2)) > 1e-12 {
		t.Fatalf("net debit = %g, want %g", netDebit, float64(qty)*(p1-p2))
	}

	curve, err := BuildExpirationCurve(strategy, testMarket(105), CurveConfig{})
	if err != nil {
		t.Fatalf("BuildExpirationCurve: %v", err)
	}
	maxProfit, maxLoss := RiskBounds(strategy, curve)

	if maxProfit.Unbounded {
		t.Fatal("vertical spread max profit reported unbounded")
	}
	if maxLoss.Unbounded {
		t.Fatal("vertical spread max loss reported unbounded")
	}

	wantProfit := (k2-k1)*float64(qty) - netDebit
	if math.Abs(maxProfit.Value-wantProfit) > 1e-9 {
		t.Errorf("max profit = %g, want %g", maxProfit.Value, wantProfit)
	}
	if math.Abs(maxLoss.Value-(-netDebit)) > 1e-9 {
		t.Errorf("max loss = %g, want %g", maxLoss.Value, -netDebit)
	}
}

func TestNakedLongCallUnboundedProfit(t *testing.T) {
	strategy := longCall(100, 5, 30)
	curve, err := BuildExpirationCurve(strategy, testMarket(100), CurveConfig{})
	if err != nil {
		t.Fatalf("BuildExpirationCurve: %v", err)
	}
	maxProfit, maxLoss := RiskBounds(strategy, curve)

	if !maxProfit.Unbounded {
		t.Error("naked long call max profit should be unbounded")
	}
	if maxLoss.Unbounded {
		t.Error("naked long call max loss should be bounded")
	}
	if math.Abs(maxLoss.Value-(-5)) > 1e-9 {
		t.Errorf("max loss = %g, want -5", maxLoss.Value)
	}
}

func TestNakedShortCallUnboundedLoss(t *testing.T) {
	strategy := models.StrategyDefinition{
		Legs: []models.OptionLeg{{
			Strike: 100, Kind: models.KindCall, Side: models.SideShort,
			Quantity: 1, Premium: 5, ExpirationDays: 30,
		}},
	}
	curve, err := BuildExpirationCurve(strategy, testMarket(100), CurveConfig{})
	if err != nil {
		t.Fatalf("BuildExpirationCurve: %v", err)
	}
	maxProfit, maxLoss := RiskBounds(strategy, curve)

	if !maxLoss.Unbounded {
		t.Error("naked short call max loss should be unbounded")
	}
	if maxProfit.Unbounded {
		t.Error("naked short call max profit should be bounded")
	}
	if math.Abs(maxProfit.Value-5) > 1e-9 {
		t.Errorf("max profit = %g, want 5", maxProfit.Value)
	}
}

func TestLongPutDownsideReportedUnbounded(t *testing.T) {
	strategy := models.StrategyDefinition{
		Legs: []models.OptionLeg{{
			Strike: 100, Kind: models.KindPut, Side: models.SideLong,
			Quantity: 1, Premium: 4, ExpirationDays: 30,
		}},
	}
	curve, err := BuildExpirationCurve(strategy, testMarket(100), CurveConfig{})
	if err != nil {
		t.Fatalf("BuildExpirationCurve: %v", err)
	}
	maxProfit, maxLoss := RiskBounds(strategy, curve)

	// Payoff keeps rising toward zero, so the sampled edge must not be
	// mistaken for the true maximum.
	if !maxProfit.Unbounded {
		t.Error("long put max profit should be reported unbounded")
	}
	if maxLoss.Unbounded {
		t.Error("long put max loss should be bounded")
	}
}

func TestBreakevensExactZeroCountedOnce(t *testing.T) {
	curve := models.PayoffCurve{
		{UnderlyingPrice: 90, PnL: -2},
		{UnderlyingPrice: 95, PnL: 0},
		{UnderlyingPrice: 100, PnL: 3},
	}
	bes := Breakevens(curve)
	if len(bes) != 1 {
		t.Fatalf("breakevens = %v, want exactly one", bes)
	}
	if bes[0] != 95 {
		t.Errorf("breakeven = %g, want 95", bes[0])
	}
}

func TestBreakevensEmptyWhenNoCrossing(t *testing.T) {
	curve := models.PayoffCurve{
		{UnderlyingPrice: 90, PnL: 2},
		{UnderlyingPrice: 100, PnL: 5},
		{UnderlyingPrice: 110, PnL: 9},
	}
	if bes := Breakevens(curve); len(bes) != 0 {
		t.Errorf("breakevens = %v, want none", bes)
	}
}

func TestStraddleHasTwoBreakevens(t *testing.T) {
	strategy := models.StrategyDefinition{
		Legs: []models.OptionLeg{
			{Strike: 100, Kind: models.KindCall, Side: models.SideLong, Quantity: 1, Premium: 4, ExpirationDays: 14},
			{Strike: 100, Kind: models.KindPut, Side: models.SideLong, Quantity: 1, Premium: 3, ExpirationDays: 14},
		},
	}
	curve, err := BuildExpirationCurve(strategy, testMarket(100), CurveConfig{})
	if err != nil {
		t.Fatalf("BuildExpirationCurve: %v", err)
	}

	bes := Breakevens(curve)
	if len(bes) != 2 {
		t.Fatalf("breakevens = %v, want two", bes)
	}
	if math.Abs(bes[0]-93) > 1e-6 {
		t.Errorf("lower breakeven = %.6f, want 93", bes[0])
	}
	if math.Abs(bes[1]-107) > 1e-6 {
		t.Errorf("upper breakeven = %.6f, want 107", bes[1])
	}
}

func TestBreakevenConvergesUnderGridDoubling(t *testing.T) {
	strategy := longCall(195, 4.80, 5)
	market := models.MarketContext{SpotPrice: 217.26, ImpliedVolatility: 0.35, RiskFreeRate: 0.05}

	breakevenAt := func(samples int) float64 {
		curve, err := BuildExpirationCurve(strategy, market, CurveConfig{SampleCount: samples})
		if err != nil {
			t.Fatalf("BuildExpirationCurve(%d samples): %v", samples, err)
		}
		bes := Breakevens(curve)
		if len(bes) != 1 {
			t.Fatalf("breakevens at %d samples = %v, want one", samples, bes)
		}
		return bes[0]
	}

	coarse := breakevenAt(200)
	fine := breakevenAt(400)
	finest := breakevenAt(800)

	if math.Abs(fine-199.80) > math.Abs(coarse-199.80)+1e-9 {
		t.Errorf("doubling the grid moved the breakeven away from 199.80: %.6f -> %.6f", coarse, fine)
	}
	if math.Abs(finest-199.80) > 0.01 {
		t.Errorf("breakeven at 800 samples = %.6f, want within 0.01 of 199.80", finest)
	}
}

func TestPriceGridCoversStrikesWithHeadroom(t *testing.T) {
	// Strikes far outside the default spot window must still land inside
	// the grid with 20% headroom beyond the extremes.
	strategy := models.StrategyDefinition{
		Legs: []models.OptionLeg{
			{Strike: 40, Kind: models.KindPut, Side: models.SideLong, Quantity: 1, Premium: 1, ExpirationDays: 30},
			{Strike: 180, Kind: models.KindCall, Side: models.SideLong, Quantity: 1, Premium: 1, ExpirationDays: 30},
		},
	}
	grid := priceGrid(strategy, 100, CurveConfig{})

	if grid[0] > 40*0.8 {
		t.Errorf("grid low = %g, want <= %g", grid[0], 40*0.8)
	}
	if grid[len(grid)-1] < 180*1.2 {
		t.Errorf("grid high = %g, want >= %g", grid[len(grid)-1], 180*1.2)
	}
	for i := 1; i < len(grid); i++ {
		if grid[i] <= grid[i-1] {
			t.Fatalf("grid not strictly ascending at %d", i)
		}
	}
}

func TestPriceGridFloorsAtPositivePrice(t *testing.T) {
	strategy := longCall(1, 0.1, 7)
	grid := priceGrid(strategy, 0.02, CurveConfig{})
	if grid[0] <= 0 {
		t.Errorf("grid low = %g, want strictly positive", grid[0])
	}
}
