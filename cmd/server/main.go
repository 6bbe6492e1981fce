package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/madmed-app/madmed-server/internal/config"
	"github.com/madmed-app/madmed-server/internal/database"
	"github.com/madmed-app/madmed-server/internal/handlers"
	"github.com/madmed-app/madmed-server/internal/jobs"
	"github.com/madmed-app/madmed-server/internal/push"
	"github.com/madmed-app/madmed-server/internal/repository"
	cronjobs "github.com/madmed-app/madmed-server/internal/scheduler"
	"github.com/madmed-app/madmed-server/internal/services"
	"github.com/madmed-app/madmed-server/pkg/logger"
	"github.com/madmed-app/madmed-server/pkg/middleware"
	"github.com/rs/cors"
)

func main() {
	// Load configuration from .env file
	cfg := config.LoadConfig()

	logger.InitLogger()
	logger.Log.Info("Logger initialized")

	// Connect to MongoDB
	db, err := database.ConnectDB(cfg)
	if err != nil {
		log.Fatalf("Database connection error: %v", err)
	}

	// --- Repositories ---
	householdRepo := repository.NewHouseholdRepository(db)
	memberRepo := repository.NewMemberRepository(db)
	petRepo := repository.NewPetRepository(db)
	medicationRepo := repository.NewMedicationRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	statusRepo := repository.NewStatusRepository(db)

	// --- Services ---
	memberService := services.NewMemberService(memberRepo)
	householdService := services.NewHouseholdService(householdRepo, memberRepo)
	petService := services.NewPetService(petRepo)
	medicationService := services.NewMedicationService(medicationRepo, scheduleRepo, petRepo)
	statusService := services.NewStatusService(statusRepo)

	// --- Push delivery ---
	var sender push.Sender
	if cfg.PushDryRun || cfg.FirebaseCredentialsPath == "" {
		logger.Log.Warn("Push delivery running in dry-run mode (no FCM credentials)")
		sender = push.DryRunSender{}
	} else {
		fcmSender, err := push.NewFCMSender(context.Background(), cfg.FirebaseCredentialsPath)
		if err != nil {
			log.Fatalf("FCM initialization error: %v", err)
		}
		sender = fcmSender
	}

	// --- Background jobs ---
	evaluator := jobs.NewReminderEvaluator(scheduleRepo, memberRepo, statusRepo, sender)
	resetter := jobs.NewStatusResetter(statusRepo)
	if err := cronjobs.StartReminderCronJobs(evaluator, resetter, cfg.ResetTimezone); err != nil {
		log.Fatalf("Cron startup error: %v", err)
	}

	// --- Handlers ---
	memberHandler := handlers.NewMemberHandler(memberService, cfg)
	householdHandler := handlers.NewHouseholdHandler(householdService, cfg)
	petHandler := handlers.NewPetHandler(petService)
	medicationHandler := handlers.NewMedicationHandler(medicationService)
	statusHandler := handlers.NewStatusHandler(statusService)

	// Initialize Gorilla Mux router
	router := mux.NewRouter()

	// Public member routes
	router.HandleFunc("/members/register", memberHandler.RegisterMemberHandler).Methods("POST")
	router.HandleFunc("/members/login", memberHandler.LoginMemberHandler).Methods("POST")

	// Protected member routes
	protectedMemberRoutes := router.PathPrefix("/members").Subrouter()
	protectedMemberRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedMemberRoutes.HandleFunc("/push-token", memberHandler.RegisterPushTokenHandler).Methods("POST")

	// Household routes
	protectedHouseholdRoutes := router.PathPrefix("/households").Subrouter()
	protectedHouseholdRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedHouseholdRoutes.HandleFunc("", householdHandler.CreateHouseholdHandler).Methods("POST")
	protectedHouseholdRoutes.HandleFunc("/{id}", householdHandler.GetHouseholdHandler).Methods("GET")
	protectedHouseholdRoutes.HandleFunc("/{id}/join", householdHandler.JoinHouseholdHandler).Methods("POST")

	// Pet routes
	protectedPetRoutes := router.PathPrefix("/pets").Subrouter()
	protectedPetRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedPetRoutes.HandleFunc("", petHandler.AddPetHandler).Methods("POST")
	protectedPetRoutes.HandleFunc("", petHandler.GetPetsHandler).Methods("GET")
	protectedPetRoutes.HandleFunc("/{id}", petHandler.GetPetHandler).Methods("GET")
	protectedPetRoutes.HandleFunc("/{id}/medications", medicationHandler.GetPetMedicationsHandler).Methods("GET")

	// Medication routes
	protectedMedRoutes := router.PathPrefix("/medications").Subrouter()
	protectedMedRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedMedRoutes.HandleFunc("", medicationHandler.AddMedicationHandler).Methods("POST")
	protectedMedRoutes.HandleFunc("/{id}", medicationHandler.GetMedicationHandler).Methods("GET")
	protectedMedRoutes.HandleFunc("/{id}/schedule", medicationHandler.SetScheduleHandler).Methods("PUT")
	protectedMedRoutes.HandleFunc("/{id}/schedule", medicationHandler.GetScheduleHandler).Methods("GET")
	protectedMedRoutes.HandleFunc("/{id}/status", statusHandler.GetStatusHandler).Methods("GET")
	protectedMedRoutes.HandleFunc("/{id}/taken", statusHandler.MarkDoseTakenHandler).Methods("POST")
	protectedMedRoutes.HandleFunc("/{id}/status/reset", statusHandler.ResetStatusHandler).Methods("POST")

	// Apply middleware for logging
	router.Use(middleware.LoggingMiddleware)

	// Start the HTTP server
	port := cfg.Port
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"}, // adjust to frontend origin
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	handler := c.Handler(router)

	fmt.Printf("Server running on port %s\n", port)
	log.Fatal(http.ListenAndServe(":"+port, handler))
}
