package controllers

import (
	"net/http"
	"strings"

	"github.com/aeroparkhq/aeropark-backend/api/responses"
	"github.com/aeroparkhq/aeropark-backend/api/validators"
	"github.com/aeroparkhq/aeropark-backend/internal/garage"
	"github.com/aeroparkhq/aeropark-backend/pkg/enums"
	pkgerrors "github.com/aeroparkhq/aeropark-backend/pkg/errors"
	"github.com/aeroparkhq/aeropark-backend/pkg/logger"
)

type setConfigRequest struct {
	Key   string `json:"key" validate:"required,max=64"`
	Value string `json:"value" validate:"required,max=64"`
}

// GarageRates exposes the effective pricing table.
func GarageRates(svc garage.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "garage service unavailable"))
			return
		}

		rates, err := svc.GetRates(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, rates)
	}
}

func GarageConfigList(svc garage.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "garage service unavailable"))
			return
		}

		entries, err := svc.ListConfig(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, entries)
	}
}

func GarageConfigSet(svc garage.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "garage service unavailable"))
			return
		}

		var body setConfigRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		key := validators.SanitizeString(body.Key, 64)
		value := validators.SanitizeString(body.Value, 64)
		if err := svc.SetConfig(r.Context(), key, value); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"key": key, "value": value})
	}
}

func SpotCreate(svc garage.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "garage service unavailable"))
			return
		}

		var body garage.CreateSpotInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		spot, err := svc.CreateSpot(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, spot)
	}
}

func SpotUpdate(svc garage.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "garage service unavailable"))
			return
		}

		id, err := parseUUIDParam(r, "spotId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body garage.UpdateSpotInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		spot, err := svc.UpdateSpot(r.Context(), id, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, spot)
	}
}

func SpotList(svc garage.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "garage service unavailable"))
			return
		}

		params, err := pageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var filter garage.SpotFilter
		if raw := strings.TrimSpace(r.URL.Query().Get("spotType")); raw != "" {
			spotType, err := enums.ParseSpotType(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid spot type"))
				return
			}
			filter.SpotType = &spotType
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("active")); raw != "" {
			active := raw == "true"
			filter.Active = &active
		}

		page, err := svc.ListSpots(r.Context(), filter, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, page)
	}
}
