package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"flowmind-engine/internal/engine"
	"flowmind-engine/internal/models"
	"flowmind-engine/internal/strategies"
)

func newTestServer() *Server {
	return New("127.0.0.1:0", zerolog.Nop(), engine.NewEvaluator(engine.CurveConfig{}), nil)
}

func doRequest(s *Server, method, path string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.http.Handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	rec := doRequest(newTestServer(), http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "ok", body["status"])
}

func TestStrategiesEndpoint(t *testing.T) {
	rec := doRequest(newTestServer(), http.MethodGet, "/api/v1/strategies", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var templates []strategies.Template
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &templates))
	require.NotEmpty(t, templates)

	rec = doRequest(newTestServer(), http.MethodPost, "/api/v1/strategies", nil)
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestEvaluateEndpoint(t *testing.T) {
	reqBody, err := json.Marshal(EvaluateRequest{
		Strategy: models.StrategyDefinition{
			Name: "long call",
			Legs: []models.OptionLeg{
				{Strike: 195, Kind: models.KindCall, Side: models.SideLong, Quantity: 1, Premium: 4.80, ExpirationDays: 5},
			},
		},
		Market: models.MarketContext{SpotPrice: 217.26, ImpliedVolatility: 0.35, RiskFreeRate: 0.05},
	})
	require.NoError(t, err)

	rec := doRequest(newTestServer(), http.MethodPost, "/api/v1/evaluate", reqBody)
	require.Equal(t, http.StatusOK, rec.Code)

	var result models.StrategyResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.Len(t, result.Summary.Breakevens, 1)
	require.InDelta(t, 199.80, result.Summary.Breakevens[0], 0.05)
	require.True(t, result.Summary.MaxProfit.Unbounded)
	require.NotEmpty(t, result.ExpirationCurve)
}

func TestEvaluateEndpointValidationErrors(t *testing.T) {
	cases := []struct {
		name string
		req  EvaluateRequest
	}{
		{
			"empty strategy",
			EvaluateRequest{
				Market: models.MarketContext{SpotPrice: 100, ImpliedVolatility: 0.3, RiskFreeRate: 0.05},
			},
		},
		{
			"zero volatility",
			EvaluateRequest{
				Strategy: models.StrategyDefinition{Legs: []models.OptionLeg{
					{Strike: 100, Kind: models.KindCall, Side: models.SideLong, Quantity: 1, Premium: 5, ExpirationDays: 30},
				}},
				Market: models.MarketContext{SpotPrice: 100},
			},
		},
		{
			"negative expiration",
			EvaluateRequest{
				Strategy: models.StrategyDefinition{Legs: []models.OptionLeg{
					{Strike: 100, Kind: models.KindCall, Side: models.SideLong, Quantity: 1, Premium: 5, ExpirationDays: -2},
				}},
				Market: models.MarketContext{SpotPrice: 100, ImpliedVolatility: 0.3},
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body, err := json.Marshal(tc.req)
			require.NoError(t, err)

			rec := doRequest(newTestServer(), http.MethodPost, "/api/v1/evaluate", body)
			require.Equal(t, http.StatusBadRequest, rec.Code)

			var resp errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			require.NotEmpty(t, resp.Error)
		})
	}
}

func TestEvaluateEndpointMalformedBody(t *testing.T) {
	rec := doRequest(newTestServer(), http.MethodPost, "/api/v1/evaluate", []byte("{not json"))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(newTestServer(), http.MethodGet, "/api/v1/evaluate", nil)
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
