package controllers

import (
	"net/http"

	"github.com/aeroparkhq/aeropark-backend/api/responses"
	"github.com/aeroparkhq/aeropark-backend/api/validators"
	"github.com/aeroparkhq/aeropark-backend/internal/addons"
	"github.com/aeroparkhq/aeropark-backend/pkg/enums"
	pkgerrors "github.com/aeroparkhq/aeropark-backend/pkg/errors"
	"github.com/aeroparkhq/aeropark-backend/pkg/logger"
)

type attachAddonRequest struct {
	AddonType enums.AddonType `json:"addonType" validate:"required"`
}

// AddonAttach adds a service to a confirmed or checked-in booking and
// returns the booking with its recomputed total.
func AddonAttach(svc addons.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "addons service unavailable"))
			return
		}

		actor, bookingID, err := bookingActorAndID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body attachAddonRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Attach(r.Context(), actor, bookingID, body.AddonType)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, view)
	}
}

// AddonAdvance moves an add-on one step forward in its lifecycle.
// Advancing a DONE add-on is a no-op success.
func AddonAdvance(svc addons.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "addons service unavailable"))
			return
		}

		addonID, err := parseUUIDParam(r, "addonId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		addon, err := svc.Advance(r.Context(), addonID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, addon)
	}
}

// AddonRemove detaches a still-pending add-on and refunds its price
// from the booking total.
func AddonRemove(svc addons.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "addons service unavailable"))
			return
		}

		actor, bookingID, err := bookingActorAndID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		addonID, err := parseUUIDParam(r, "addonId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Remove(r.Context(), actor, bookingID, addonID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, view)
	}
}
