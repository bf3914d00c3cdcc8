package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/aeroparkhq/aeropark-backend/api/responses"
	"github.com/aeroparkhq/aeropark-backend/internal/availability"
	"github.com/aeroparkhq/aeropark-backend/pkg/enums"
	pkgerrors "github.com/aeroparkhq/aeropark-backend/pkg/errors"
	"github.com/aeroparkhq/aeropark-backend/pkg/logger"
)

// AvailabilityCheck lists the spots free for a range, optionally
// filtered to one type. Dates accept RFC 3339 or plain YYYY-MM-DD.
func AvailabilityCheck(svc availability.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "availability service unavailable"))
			return
		}

		var spotType *enums.SpotType
		if raw := strings.TrimSpace(r.URL.Query().Get("spotType")); raw != "" {
			parsed, err := enums.ParseSpotType(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid spot type"))
				return
			}
			spotType = &parsed
		}

		start, err := parseDateParam(r, "start")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		end, err := parseDateParam(r, "end")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Check(r.Context(), spotType, start, end)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

func parseDateParam(r *http.Request, key string) (time.Time, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, key+" date is required").
			WithDetails(map[string]any{"field": key})
	}
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return ts.UTC(), nil
	}
	ts, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+key+" date").
			WithDetails(map[string]any{"field": key})
	}
	return ts.UTC(), nil
}
