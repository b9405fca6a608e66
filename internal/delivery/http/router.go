package http

import (
	"net/http"

	"meditrack-backend/internal/delivery/http/handler"
	"meditrack-backend/internal/delivery/http/middleware"
	"meditrack-backend/pkg/response"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type Router struct {
	router              *mux.Router
	log                 *logrus.Logger
	userHandler         *handler.UserHandler
	emergencyHandler    *handler.EmergencyHandler
	reminderHandler     *handler.ReminderHandler
	prescriptionHandler *handler.PrescriptionHandler
	healthNoteHandler   *handler.HealthNoteHandler
	chatHandler         *handler.ChatHandler
	authMiddleware      *middleware.AuthMiddleware
	corsMiddleware      *middleware.CORSMiddleware
	filesDir            string
}

func NewRouter(
	log *logrus.Logger,
	userHandler *handler.UserHandler,
	emergencyHandler *handler.EmergencyHandler,
	reminderHandler *handler.ReminderHandler,
	prescriptionHandler *handler.PrescriptionHandler,
	healthNoteHandler *handler.HealthNoteHandler,
	chatHandler *handler.ChatHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
) *Router {
	return &Router{
		router:              mux.NewRouter(),
		log:                 log,
		userHandler:         userHandler,
		emergencyHandler:    emergencyHandler,
		reminderHandler:     reminderHandler,
		prescriptionHandler: prescriptionHandler,
		healthNoteHandler:   healthNoteHandler,
		chatHandler:         chatHandler,
		authMiddleware:      authMiddleware,
		corsMiddleware:      corsMiddleware,
	}
}

// ServeFiles exposes the local object store under /files/.
func (r *Router) ServeFiles(dir string) {
	r.filesDir = dir
}

func (r *Router) Setup() http.Handler {
	r.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		response.NotFound(w, "Route not found")
	})
	r.router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		response.Error(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	// Health check
	r.router.HandleFunc("/", r.root).Methods(http.MethodGet)
	r.router.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	if r.filesDir != "" {
		r.router.PathPrefix("/files/").Handler(http.StripPrefix("/files/", http.FileServer(http.Dir(r.filesDir)))).Methods(http.MethodGet)
	}

	// Protected routes. Registered before the public emergency lookup so that
	// /emergency/contacts/{id} is never read as /emergency/{uid}/{accessId}.
	api := r.router.NewRoute().Subrouter()
	api.Use(r.authMiddleware.Authenticate)

	// User
	api.HandleFunc("/user/check", r.userHandler.CheckUser).Methods(http.MethodGet)
	api.HandleFunc("/user/profile", r.userHandler.GetProfile).Methods(http.MethodGet)
	api.HandleFunc("/user/profile", r.userHandler.UpdateProfile).Methods(http.MethodPut)

	// Reminders
	api.HandleFunc("/reminders", r.reminderHandler.CreateReminder).Methods(http.MethodPost)
	api.HandleFunc("/reminders", r.reminderHandler.GetReminders).Methods(http.MethodGet)
	api.HandleFunc("/reminders/{id}", r.reminderHandler.GetReminder).Methods(http.MethodGet)
	api.HandleFunc("/reminders/{id}", r.reminderHandler.UpdateReminder).Methods(http.MethodPut)
	api.HandleFunc("/reminders/{id}", r.reminderHandler.DeleteReminder).Methods(http.MethodDelete)

	// Prescriptions
	api.HandleFunc("/prescriptions", r.prescriptionHandler.CreatePrescription).Methods(http.MethodPost)
	api.HandleFunc("/prescriptions", r.prescriptionHandler.GetPrescriptions).Methods(http.MethodGet)
	api.HandleFunc("/prescriptions/{id}", r.prescriptionHandler.GetPrescription).Methods(http.MethodGet)
	api.HandleFunc("/prescriptions/{id}", r.prescriptionHandler.UpdatePrescription).Methods(http.MethodPut)
	api.HandleFunc("/prescriptions/{id}", r.prescriptionHandler.DeletePrescription).Methods(http.MethodDelete)

	// Health notes
	api.HandleFunc("/notes", r.healthNoteHandler.CreateNote).Methods(http.MethodPost)
	api.HandleFunc("/notes", r.healthNoteHandler.GetNotes).Methods(http.MethodGet)
	api.HandleFunc("/notes/{id}", r.healthNoteHandler.GetNote).Methods(http.MethodGet)
	api.HandleFunc("/notes/{id}", r.healthNoteHandler.UpdateNote).Methods(http.MethodPut)
	api.HandleFunc("/notes/{id}", r.healthNoteHandler.DeleteNote).Methods(http.MethodDelete)

	// Emergency
	api.HandleFunc("/emergency", r.emergencyHandler.CreateAccess).Methods(http.MethodPost)
	api.HandleFunc("/emergency/contacts", r.emergencyHandler.GetContacts).Methods(http.MethodGet)
	api.HandleFunc("/emergency/contacts", r.emergencyHandler.AddContact).Methods(http.MethodPost)
	api.HandleFunc("/emergency/contacts/{id}", r.emergencyHandler.GetContact).Methods(http.MethodGet)
	api.HandleFunc("/emergency/contacts/{id}", r.emergencyHandler.UpdateContact).Methods(http.MethodPut)
	api.HandleFunc("/emergency/contacts/{id}", r.emergencyHandler.DeleteContact).Methods(http.MethodDelete)

	// Chat
	api.HandleFunc("/chat", r.chatHandler.AskAI).Methods(http.MethodPost)
	api.HandleFunc("/chat/history", r.chatHandler.GetChatHistory).Methods(http.MethodGet)

	// Public emergency lookup
	r.router.HandleFunc("/emergency/{uid}/{accessId}", r.emergencyHandler.GetEmergencyData).Methods(http.MethodGet)

	// Wrapped outside the router so that preflight and unmatched requests
	// still get CORS headers and an access log line.
	var h http.Handler = r.router
	h = middleware.Recovery(r.log)(h)
	h = middleware.AccessLog(r.log)(h)
	return r.corsMiddleware.Handle(h)
}

func (r *Router) root(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Meditrack backend running..."))
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
