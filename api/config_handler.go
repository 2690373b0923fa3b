// Configuration and assumption endpoints.

package api

import (
	"net/http"

	"github.com/seenimoa/fairvalue/internal/analysis/valuation"
	"github.com/seenimoa/fairvalue/internal/app"
	"github.com/seenimoa/fairvalue/internal/config"
)

// ConfigResponse is the JSON data returned by GET /api/v1/config.
type ConfigResponse struct {
	Settings       []config.SettingStatus      `json:"settings"`
	Growth         valuation.GrowthAssumptions `json:"growth"`
	Scenarios      []valuation.Scenario        `json:"scenarios"`
	ProjectionYrs  int                         `json:"projection_years"`
	CurrencySymbol string                      `json:"currency_symbol"`
}

// handleGetConfig returns the effective valuation assumptions and where each
// setting came from. Nothing here is writable over HTTP.
func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, APIResponse{
		Success: true,
		Data: ConfigResponse{
			Settings:       config.CheckSettings(s.app.Config),
			Growth:         s.app.Growth(app.GrowthOverrides{}),
			Scenarios:      valuation.Scenarios,
			ProjectionYrs:  valuation.ProjectionYears,
			CurrencySymbol: s.app.Currency(),
		},
	})
}
