package controllers

import (
	"net/http"

	"github.com/rileysalas/clientdesk-backend/api/responses"
	"github.com/rileysalas/clientdesk-backend/internal/dashboard"
	"github.com/rileysalas/clientdesk-backend/pkg/logger"
)

func DashboardMetrics(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := svc.Metrics(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
