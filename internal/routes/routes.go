package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/avelasco/rsvp-api/internal/handlers"
)

// NewRouter sets up the API routes
func NewRouter(invitations *handlers.InvitationHandler, reminders *handlers.ReminderHandler) *mux.Router {
	router := mux.NewRouter()

	// Health check route
	router.HandleFunc("/health", handlers.HealthCheck).Methods(http.MethodGet)

	// Invitation API
	router.HandleFunc("/api/create_invitation", invitations.CreateInvitation).Methods(http.MethodPost)
	router.HandleFunc("/api/check_status/{token}", invitations.CheckStatus).Methods(http.MethodGet)
	router.HandleFunc("/api/check_event_invitations/{eventID}", invitations.CheckEventInvitations).Methods(http.MethodGet)

	// Confirm flow used by the participant-facing pages
	router.HandleFunc("/confirm/{token}", invitations.GetConfirmDetails).Methods(http.MethodGet)
	router.HandleFunc("/confirm/{token}/response", invitations.ConfirmResponse).Methods(http.MethodPost)

	// Operator reminder and scheduler controls
	router.HandleFunc("/api/send_reminder/{token}", reminders.SendReminder).Methods(http.MethodPost)
	router.HandleFunc("/api/send_event_reminders/{eventID}", reminders.SendEventReminders).Methods(http.MethodPost)
	router.HandleFunc("/api/scheduler/start", reminders.StartScheduler).Methods(http.MethodPost)
	router.HandleFunc("/api/scheduler/stop", reminders.StopScheduler).Methods(http.MethodPost)
	router.HandleFunc("/api/scheduler/run", reminders.RunSchedulerPass).Methods(http.MethodPost)

	return router
}
