package main

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"

	"github.com/SagorIslamOfficial/hrm-sub003/config"
	"github.com/SagorIslamOfficial/hrm-sub003/filestore"
	"github.com/SagorIslamOfficial/hrm-sub003/notification"
	"github.com/SagorIslamOfficial/hrm-sub003/repository"
	"github.com/SagorIslamOfficial/hrm-sub003/routes"
	"github.com/SagorIslamOfficial/hrm-sub003/schema"
	"github.com/SagorIslamOfficial/hrm-sub003/service"
	"github.com/SagorIslamOfficial/hrm-sub003/worker"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	cfg := config.LoadConfig()

	// Initialize database connection (UTC for consistent timestamps)
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.DBName,
	)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		log.Fatalf("Failed to open database connection: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	log.Println("Database connection established")

	schema.InitializeDatabase(db)

	// Initialize repositories
	complaintRepo := repository.NewComplaintRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	documentRepo := repository.NewDocumentRepository(db)
	escalationRepo := repository.NewEscalationRepository(db)
	reminderRepo := repository.NewReminderRepository(db)
	resolutionRepo := repository.NewResolutionRepository(db)
	directoryRepo := repository.NewDirectoryRepository(db)

	// File storage for evidence documents
	files, err := filestore.NewLocalStore(cfg.Files.UploadBasePath)
	if err != nil {
		log.Fatalf("Failed to initialize file store: %v", err)
	}

	// Event bus with notification and follow-up subscribers
	emailSender := notification.NewEmailSender()
	bus := service.NewEventBus()
	bus.Subscribe(service.NewComplainantNotifier(directoryRepo, emailSender))
	bus.Subscribe(service.NewFollowUpScheduler(reminderRepo))

	// Initialize services
	complaintService := service.NewComplaintService(
		db,
		complaintRepo,
		subjectRepo,
		commentRepo,
		documentRepo,
		escalationRepo,
		reminderRepo,
		resolutionRepo,
		directoryRepo.SubjectResolver(),
		bus,
		cfg.SLA.DefaultSLAHours,
	)
	escalationService := service.NewEscalationService(
		complaintRepo,
		escalationRepo,
		directoryRepo,
		bus,
		cfg.SLA.EscalationLeadHours,
	)
	reminderService := service.NewReminderService(
		complaintRepo,
		reminderRepo,
		directoryRepo,
		emailSender,
	)
	resolutionService := service.NewResolutionService(complaintRepo, resolutionRepo, bus)

	// Background workers
	escalationWorker := worker.NewEscalationWorker(
		escalationService,
		time.Duration(cfg.Worker.EscalationSweepIntervalSeconds)*time.Second,
	)
	escalationWorker.Start()
	defer escalationWorker.Stop()

	reminderWorker := worker.NewReminderWorker(
		reminderService,
		time.Duration(cfg.Worker.ReminderPollIntervalSeconds)*time.Second,
	)
	reminderWorker.Start()
	defer reminderWorker.Stop()

	router := routes.SetupRoutes(
		cfg,
		complaintService,
		escalationService,
		reminderService,
		resolutionService,
		directoryRepo,
		documentRepo,
		files,
	)

	addr := cfg.Server.Host + ":" + cfg.Server.Port
	log.Printf("Server listening on %s", addr)
	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
