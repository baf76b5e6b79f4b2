package http

import (
	"net/http"

	"physio-marketplace/internal/delivery/http/handler"
	"physio-marketplace/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router               *mux.Router
	authHandler          *handler.AuthHandler
	therapistHandler     *handler.TherapistHandler
	availabilityHandler  *handler.AvailabilityHandler
	bookingHandler       *handler.BookingHandler
	paymentHandler       *handler.PaymentHandler
	clinicHandler        *handler.ClinicHandler
	treatmentTypeHandler *handler.TreatmentTypeHandler
	auditLogHandler      *handler.AuditLogHandler
	authMiddleware       *middleware.AuthMiddleware
	corsMiddleware       *middleware.CORSMiddleware
}

func NewRouter(
	authHandler *handler.AuthHandler,
	therapistHandler *handler.TherapistHandler,
	availabilityHandler *handler.AvailabilityHandler,
	bookingHandler *handler.BookingHandler,
	paymentHandler *handler.PaymentHandler,
	clinicHandler *handler.ClinicHandler,
	treatmentTypeHandler *handler.TreatmentTypeHandler,
	auditLogHandler *handler.AuditLogHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
) *Router {
	return &Router{
		router:               mux.NewRouter(),
		authHandler:          authHandler,
		therapistHandler:     therapistHandler,
		availabilityHandler:  availabilityHandler,
		bookingHandler:       bookingHandler,
		paymentHandler:       paymentHandler,
		clinicHandler:        clinicHandler,
		treatmentTypeHandler: treatmentTypeHandler,
		auditLogHandler:      auditLogHandler,
		authMiddleware:       authMiddleware,
		corsMiddleware:       corsMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register/patient", r.authHandler.RegisterPatient).Methods(http.MethodPost)
	auth.HandleFunc("/register/therapist", r.authHandler.RegisterTherapist).Methods(http.MethodPost)
	auth.HandleFunc("/login", r.authHandler.Login).Methods(http.MethodPost)
	auth.HandleFunc("/refresh-token", r.authHandler.RefreshToken).Methods(http.MethodPost)

	// Auth routes (protected)
	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(r.authMiddleware.Authenticate)
	authProtected.HandleFunc("/logout", r.authHandler.Logout).Methods(http.MethodPost)
	authProtected.HandleFunc("/me", r.authHandler.GetCurrentUser).Methods(http.MethodGet)

	// Public catalog routes
	api.HandleFunc("/therapists", r.therapistHandler.SearchTherapists).Methods(http.MethodGet)
	api.HandleFunc("/therapists/{id}", r.therapistHandler.GetTherapist).Methods(http.MethodGet)
	api.HandleFunc("/therapists/{id}/slots", r.therapistHandler.GetAvailableSlots).Methods(http.MethodGet)
	api.HandleFunc("/clinics", r.clinicHandler.GetClinics).Methods(http.MethodGet)
	api.HandleFunc("/treatment-types", r.treatmentTypeHandler.GetTreatmentTypes).Methods(http.MethodGet)

	// Payment provider webhook (public, authenticated by signature)
	api.HandleFunc("/payments/events", r.paymentHandler.HandleGatewayEvent).Methods(http.MethodPost)

	// Booking routes (patient)
	bookings := api.PathPrefix("/bookings").Subrouter()
	bookings.Use(r.authMiddleware.Authenticate)
	bookings.Handle("", middleware.RequirePatient(http.HandlerFunc(r.bookingHandler.CreateBooking))).Methods(http.MethodPost)
	bookings.Handle("", middleware.RequirePatient(http.HandlerFunc(r.bookingHandler.GetMyBookings))).Methods(http.MethodGet)
	bookings.HandleFunc("/{id}", r.bookingHandler.GetBooking).Methods(http.MethodGet)
	bookings.Handle("/{id}/cancel", middleware.RequirePatient(http.HandlerFunc(r.bookingHandler.CancelBooking))).Methods(http.MethodPost)
	bookings.Handle("/{id}/complete", middleware.RequireTherapist(http.HandlerFunc(r.bookingHandler.CompleteBooking))).Methods(http.MethodPost)

	// Payment routes (patient)
	payments := api.PathPrefix("/payments").Subrouter()
	payments.Use(r.authMiddleware.Authenticate)
	payments.Handle("/sessions", middleware.RequirePatient(http.HandlerFunc(r.paymentHandler.CreatePaymentSession))).Methods(http.MethodPost)

	// Therapist routes (therapist only)
	therapist := api.PathPrefix("/therapist").Subrouter()
	therapist.Use(r.authMiddleware.Authenticate)
	therapist.Use(middleware.RequireTherapist)
	therapist.HandleFunc("/bookings", r.bookingHandler.GetTherapistBookings).Methods(http.MethodGet)
	therapist.HandleFunc("/availability", r.availabilityHandler.GetMyAvailability).Methods(http.MethodGet)
	therapist.HandleFunc("/availability/templates", r.availabilityHandler.CreateTemplate).Methods(http.MethodPost)
	therapist.HandleFunc("/availability/templates/{id}", r.availabilityHandler.DeleteTemplate).Methods(http.MethodDelete)
	therapist.HandleFunc("/availability/overrides", r.availabilityHandler.CreateOverride).Methods(http.MethodPost)
	therapist.HandleFunc("/availability/overrides/{id}", r.availabilityHandler.DeleteOverride).Methods(http.MethodDelete)

	// Admin routes (protected - admin only)
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(r.authMiddleware.Authenticate)
	admin.Use(middleware.RequireAdmin)
	admin.HandleFunc("/therapists/{id}/verify", r.therapistHandler.VerifyTherapist).Methods(http.MethodPost)
	admin.HandleFunc("/therapists/{id}", r.therapistHandler.DeleteTherapist).Methods(http.MethodDelete)
	admin.HandleFunc("/clinics", r.clinicHandler.CreateClinic).Methods(http.MethodPost)
	admin.HandleFunc("/treatment-types", r.treatmentTypeHandler.CreateTreatmentType).Methods(http.MethodPost)
	admin.HandleFunc("/treatment-types/{id}", r.treatmentTypeHandler.UpdateTreatmentType).Methods(http.MethodPut)
	admin.HandleFunc("/treatment-types/{id}", r.treatmentTypeHandler.DeleteTreatmentType).Methods(http.MethodDelete)
	admin.HandleFunc("/audit-logs", r.auditLogHandler.GetAuditLogs).Methods(http.MethodGet)

	// Add CORS middleware
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
