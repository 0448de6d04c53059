package handler

import (
	"context"
	"net/http"

	"github.com/osse101/AdventureAdmin_Go/internal/analytics"
	"github.com/osse101/AdventureAdmin_Go/internal/domain"
)

// GrowthReporter builds sign-up histograms.
type GrowthReporter interface {
	Growth(ctx context.Context, q analytics.GrowthQuery) (domain.GrowthReport, error)
}

// HandleUserGrowth returns the daily sign-up histogram for one month
// @Summary User growth
// @Description Counts non-admin users by UTC creation day. Percentages are relative to the busiest day.
// @Tags analytics
// @Produce json
// @Param year query int true "Year"
// @Param month query string true "Month name or number"
// @Param day query int false "Day of month for dayTotal"
// @Success 200 {object} domain.GrowthReport
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/users/growth [get]
func HandleUserGrowth(svc GrowthReporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		q, err := analytics.ParseGrowthQuery(query.Get("year"), query.Get("month"), query.Get("day"))
		if err != nil {
			respondServiceError(w, r, "User growth", err)
			return
		}

		report, err := svc.Growth(r.Context(), q)
		if err != nil {
			respondServiceError(w, r, "User growth", err)
			return
		}
		respondJSON(w, http.StatusOK, report)
	}
}
