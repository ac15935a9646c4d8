package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/SagorIslamOfficial/hrm-sub003/config"
	"github.com/SagorIslamOfficial/hrm-sub003/filestore"
	"github.com/SagorIslamOfficial/hrm-sub003/handler"
	"github.com/SagorIslamOfficial/hrm-sub003/middleware"
	"github.com/SagorIslamOfficial/hrm-sub003/models"
	"github.com/SagorIslamOfficial/hrm-sub003/repository"
	"github.com/SagorIslamOfficial/hrm-sub003/service"
)

// SetupRoutes configures all API routes
func SetupRoutes(
	cfg *config.Config,
	complaintService *service.ComplaintService,
	escalationService *service.EscalationService,
	reminderService *service.ReminderService,
	resolutionService *service.ResolutionService,
	directoryRepo *repository.DirectoryRepository,
	documentRepo *repository.DocumentRepository,
	files filestore.FileStore,
) *mux.Router {
	router := mux.NewRouter()

	complaintHandler := handler.NewComplaintHandler(complaintService, files)
	escalationHandler := handler.NewEscalationHandler(escalationService)
	reminderHandler := handler.NewReminderHandler(reminderService)
	resolutionHandler := handler.NewResolutionHandler(resolutionService)
	documentHandler := handler.NewDocumentHandler(documentRepo, complaintService, files)
	authHandler := handler.NewAuthHandler(directoryRepo, cfg.Auth.JWTSecret, cfg.Auth.TokenExpiryHours)

	authMiddleware := middleware.NewAuthMiddleware(cfg.Auth.JWTSecret)
	handlerOnly := authMiddleware.RequireRole(models.RoleHandler)
	adminOnly := authMiddleware.RequireRole()

	apiV1 := router.PathPrefix("/api/v1").Subrouter()

	// Auth
	apiV1.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Everything below requires a valid token
	authed := apiV1.NewRoute().Subrouter()
	authed.Use(authMiddleware.RequireAuth)

	complaints := authed.PathPrefix("/complaints").Subrouter()
	complaints.HandleFunc("", complaintHandler.GetUserComplaints).Methods("GET")
	complaints.HandleFunc("", complaintHandler.CreateComplaint).Methods("POST")
	complaints.HandleFunc("/files", complaintHandler.UploadFile).Methods("POST")
	complaints.HandleFunc("/{id}", complaintHandler.GetComplaintByID).Methods("GET")
	complaints.HandleFunc("/{id}", complaintHandler.UpdateDraft).Methods("PUT")
	complaints.HandleFunc("/{id}/submit", complaintHandler.Submit).Methods("POST")
	complaints.HandleFunc("/{id}/timeline", complaintHandler.GetStatusTimeline).Methods("GET")
	complaints.HandleFunc("/{id}/reminders", reminderHandler.ListReminders).Methods("GET")
	complaints.HandleFunc("/{id}/resolution", resolutionHandler.GetResolution).Methods("GET")
	complaints.HandleFunc("/{id}/feedback", resolutionHandler.RecordFeedback).Methods("POST")

	// Handler/admin operations
	complaints.Handle("/{id}/status", handlerOnly(http.HandlerFunc(complaintHandler.ChangeStatus))).Methods("POST")
	complaints.Handle("/{id}/resolution", handlerOnly(http.HandlerFunc(resolutionHandler.StoreResolution))).Methods("PUT")
	complaints.Handle("/{id}/reminders", handlerOnly(http.HandlerFunc(reminderHandler.CreateReminder))).Methods("POST")
	complaints.Handle("/{id}/escalations", handlerOnly(http.HandlerFunc(escalationHandler.ListEscalations))).Methods("GET")

	// Admin-only operations
	complaints.Handle("/{id}", adminOnly(http.HandlerFunc(complaintHandler.SoftDelete))).Methods("DELETE")
	complaints.Handle("/{id}/restore", adminOnly(http.HandlerFunc(complaintHandler.Restore))).Methods("POST")
	complaints.Handle("/{id}/force", adminOnly(http.HandlerFunc(complaintHandler.ForceDelete))).Methods("DELETE")
	complaints.Handle("/{id}/deescalate", adminOnly(http.HandlerFunc(escalationHandler.Deescalate))).Methods("POST")

	authed.Handle("/escalations/sweep", adminOnly(http.HandlerFunc(escalationHandler.RunSweep))).Methods("POST")
	authed.HandleFunc("/documents/{id}/file", documentHandler.Download).Methods("GET")

	// Health check
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	return router
}
