package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/avelasco/rsvp-api/internal/rsvp"
	"github.com/avelasco/rsvp-api/internal/scheduler"
)

type ReminderHandler struct {
	service   rsvp.Service
	scheduler *scheduler.ReminderScheduler
	logger    zerolog.Logger
}

func NewReminderHandler(service rsvp.Service, sched *scheduler.ReminderScheduler, logger zerolog.Logger) *ReminderHandler {
	return &ReminderHandler{
		service:   service,
		scheduler: sched,
		logger:    logger.With().Str("component", "reminder_handler").Logger(),
	}
}

// SendReminder handles POST /api/send_reminder/{token}.
func (h *ReminderHandler) SendReminder(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]

	sent, err := h.service.SendReminderNow(r.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, rsvp.ErrNotFound):
			writeError(w, http.StatusNotFound, "invitation not found")
		case errors.Is(err, rsvp.ErrAlreadyResponded):
			writeError(w, http.StatusConflict, "invitation already responded")
		default:
			h.logger.Error().Err(err).Str("token", token).Msg("manual reminder failed")
			writeError(w, http.StatusInternalServerError, "failed to send reminder")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"sent": sent})
}

// SendEventReminders handles POST /api/send_event_reminders/{eventID}.
func (h *ReminderHandler) SendEventReminders(w http.ResponseWriter, r *http.Request) {
	eventID := mux.Vars(r)["eventID"]

	stats, err := h.service.SendEventRemindersNow(r.Context(), eventID)
	if err != nil {
		if errors.Is(err, rsvp.ErrNotFound) {
			writeError(w, http.StatusNotFound, "event not found")
			return
		}
		h.logger.Error().Err(err).Str("event_id", eventID).Msg("event reminders failed")
		writeError(w, http.StatusInternalServerError, "failed to send event reminders")
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// StartScheduler handles POST /api/scheduler/start. Idempotent.
func (h *ReminderHandler) StartScheduler(w http.ResponseWriter, r *http.Request) {
	h.scheduler.Start()
	writeJSON(w, http.StatusOK, map[string]bool{"running": h.scheduler.Running()})
}

// StopScheduler handles POST /api/scheduler/stop. Idempotent.
func (h *ReminderHandler) StopScheduler(w http.ResponseWriter, r *http.Request) {
	h.scheduler.Stop()
	writeJSON(w, http.StatusOK, map[string]bool{"running": h.scheduler.Running()})
}

// RunSchedulerPass handles POST /api/scheduler/run: one synchronous
// evaluation pass for operational testing.
func (h *ReminderHandler) RunSchedulerPass(w http.ResponseWriter, r *http.Request) {
	stats, err := h.scheduler.RunNow(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("manual evaluation pass failed")
		writeError(w, http.StatusInternalServerError, "evaluation pass failed")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
