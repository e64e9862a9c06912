package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/avelasco/rsvp-api/internal/models"
	"github.com/avelasco/rsvp-api/internal/rsvp"
)

type InvitationHandler struct {
	service rsvp.Service
	logger  zerolog.Logger
}

func NewInvitationHandler(service rsvp.Service, logger zerolog.Logger) *InvitationHandler {
	return &InvitationHandler{
		service: service,
		logger:  logger.With().Str("component", "invitation_handler").Logger(),
	}
}

// CreateInvitation handles POST /api/create_invitation.
func (h *InvitationHandler) CreateInvitation(w http.ResponseWriter, r *http.Request) {
	var params rsvp.CreateInvitationParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	token, err := h.service.CreateInvitation(r.Context(), params)
	if err != nil {
		var verr *rsvp.ValidationError
		if errors.As(err, &verr) {
			writeError(w, http.StatusBadRequest, verr.Error())
			return
		}
		h.logger.Error().Err(err).Msg("create invitation failed")
		writeError(w, http.StatusInternalServerError, "failed to create invitation")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// CheckStatus handles GET /api/check_status/{token}.
func (h *InvitationHandler) CheckStatus(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]

	status, err := h.service.GetStatus(r.Context(), token)
	if err != nil {
		if errors.Is(err, rsvp.ErrNotFound) {
			writeError(w, http.StatusNotFound, "invitation not found")
			return
		}
		h.logger.Error().Err(err).Str("token", token).Msg("status lookup failed")
		writeError(w, http.StatusInternalServerError, "failed to load invitation")
		return
	}

	writeJSON(w, http.StatusOK, map[string]models.ResponseStatus{"status": status})
}

// CheckEventInvitations handles GET /api/check_event_invitations/{eventID}.
// Events without any recorded invitations return an empty participant map.
func (h *InvitationHandler) CheckEventInvitations(w http.ResponseWriter, r *http.Request) {
	eventID := mux.Vars(r)["eventID"]

	participants, err := h.service.GetEventParticipantStatuses(r.Context(), eventID)
	if err != nil {
		h.logger.Error().Err(err).Str("event_id", eventID).Msg("event lookup failed")
		writeError(w, http.StatusInternalServerError, "failed to load event invitations")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"participants": participants})
}

// GetConfirmDetails handles GET /confirm/{token}: the data behind the confirm
// page the front end renders.
func (h *InvitationHandler) GetConfirmDetails(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]

	inv, err := h.service.GetInvitation(r.Context(), token)
	if err != nil {
		if errors.Is(err, rsvp.ErrNotFound) {
			writeError(w, http.StatusNotFound, "invitation not found")
			return
		}
		h.logger.Error().Err(err).Str("token", token).Msg("invitation lookup failed")
		writeError(w, http.StatusInternalServerError, "failed to load invitation")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"event_name":       inv.EventName,
		"event_date":       inv.EventDate,
		"event_time":       inv.EventTime,
		"participant_name": inv.ParticipantName,
		"status":           string(inv.Status),
	})
}

// ConfirmResponse handles POST /confirm/{token}/response with a form field
// `response` set to confirmed or declined.
func (h *InvitationHandler) ConfirmResponse(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]
	response := models.ResponseStatus(r.FormValue("response"))

	inv, err := h.service.RecordResponse(r.Context(), token, response)
	if err != nil {
		switch {
		case errors.Is(err, rsvp.ErrInvalidResponse):
			writeError(w, http.StatusBadRequest, "invalid response")
		case errors.Is(err, rsvp.ErrNotFound):
			writeError(w, http.StatusNotFound, "invitation not found")
		default:
			h.logger.Error().Err(err).Str("token", token).Msg("record response failed")
			writeError(w, http.StatusInternalServerError, "failed to record response")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"response":   string(inv.Status),
		"event_name": inv.EventName,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
