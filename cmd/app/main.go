package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"dispatch/cmd"
	httpadapter "dispatch/internal/adapters/in/http"
	"dispatch/internal/adapters/out/postgres/availabilityrepo"
	"dispatch/internal/adapters/out/postgres/candidaterepo"
	"dispatch/internal/adapters/out/postgres/coveragerepo"
	"dispatch/internal/adapters/out/postgres/deliveryrepo"
	"dispatch/internal/adapters/out/postgres/eventrepo"
	"dispatch/internal/adapters/out/postgres/podrepo"
	"dispatch/internal/jobs"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const (
	defaultMatchingStaleAfter = 2 * time.Minute
	defaultAutoCloseAfter     = 24 * time.Hour
)

func main() {
	configs := getConfigs()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	gormDB := mustOpenDatabase(configs)
	mustMigrate(gormDB)

	root := cmd.NewCompositionRoot(configs, gormDB, logger)

	jobManager := jobs.NewJobManager(
		root.UnitOfWorkFactory(),
		root.CreateMatchDeliveryCommandHandler(),
		root.CreateCloseDeliveryCommandHandler(),
		durationOr(configs.MatchingStaleAfter, defaultMatchingStaleAfter),
		durationOr(configs.AutoCloseAfter, defaultAutoCloseAfter),
		logger,
	)
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("Failed to start jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(&root, configs.HTTPPort)
}

func getConfigs() cmd.Config {
	config := cmd.Config{
		HTTPPort:           goDotEnvVariable("HTTP_PORT"),
		DBHost:             goDotEnvVariable("DB_HOST"),
		DBPort:             goDotEnvVariable("DB_PORT"),
		DBUser:             goDotEnvVariable("DB_USER"),
		DBPassword:         goDotEnvVariable("DB_PASSWORD"),
		DBName:             goDotEnvVariable("DB_NAME"),
		DBSslMode:          goDotEnvVariable("DB_SSLMODE"),
		PricingServiceURL:  goDotEnvVariable("PRICING_SERVICE_URL"),
		MatchingStaleAfter: goDotEnvVariable("MATCHING_STALE_AFTER"),
		AutoCloseAfter:     goDotEnvVariable("AUTO_CLOSE_AFTER"),
	}
	return config
}

func goDotEnvVariable(key string) string {
	err := godotenv.Load(".env")
	if err != nil {
		log.Fatalf("Error loading .env file")
	}
	return os.Getenv(key)
}

func durationOr(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		log.Fatalf("Invalid duration %q: %v", raw, err)
	}
	return parsed
}

func mustOpenDatabase(configs cmd.Config) *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser,
		configs.DBPassword, configs.DBName, configs.DBSslMode)

	gormDB, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	return gormDB
}

func mustMigrate(gormDB *gorm.DB) {
	err := gormDB.AutoMigrate(
		&coveragerepo.CoverageDTO{},
		&deliveryrepo.DeliveryDTO{},
		&candidaterepo.CandidateDTO{},
		&availabilityrepo.RecordDTO{},
		&podrepo.ProofDTO{},
		&eventrepo.EventDTO{},
	)
	if err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
}

func startWebServer(root *cmd.CompositionRoot, port string) {
	e := echo.New()
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})

	server := httpadapter.NewServer(httpadapter.Handlers{
		SetCoverage:        root.CreateSetCoverageCommandHandler(),
		DeactivateCoverage: root.CreateDeactivateCoverageCommandHandler(),
		CreateDelivery:     root.CreateCreateDeliveryCommandHandler(),
		MatchDelivery:      root.CreateMatchDeliveryCommandHandler(),
		AcceptDelivery:     root.CreateAcceptDeliveryCommandHandler(),
		RejectDelivery:     root.CreateRejectDeliveryCommandHandler(),
		CancelDelivery:     root.CreateCancelDeliveryCommandHandler(),
		UpdateAvailability: root.CreateUpdateAvailabilityCommandHandler(),
		MarkPickedUp:       root.CreateMarkPickedUpCommandHandler(),
		MarkInTransit:      root.CreateMarkInTransitCommandHandler(),
		MarkDelivered:      root.CreateMarkDeliveredCommandHandler(),
		CloseDelivery:      root.CreateCloseDeliveryCommandHandler(),
		SendOTP:            root.CreateSendOTPCommandHandler(),
		VerifyOTP:          root.CreateVerifyOTPCommandHandler(),

		CheckCoverage:        root.CreateCheckCoverageQueryHandler(),
		FindEligibleCouriers: root.CreateFindEligibleCouriersQueryHandler(),
		GetAvailability:      root.CreateGetAvailabilityQueryHandler(),
		GetStateInfo:         root.CreateGetStateInfoQueryHandler(),
		GetPOD:               root.CreateGetPODQueryHandler(),
	})
	server.RegisterRoutes(e)

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", port)))
}
