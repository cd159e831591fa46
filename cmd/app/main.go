package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"parcelhub/cmd"
	"parcelhub/internal/adapters/out/postgres/orderrepo"
	"parcelhub/internal/adapters/out/postgres/riderrepo"
	"parcelhub/internal/adapters/out/postgres/routerepo"
	"parcelhub/internal/adapters/out/postgres/subscriptionrepo"
	"parcelhub/internal/adapters/out/postgres/warehouserepo"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	goredis "github.com/redis/go-redis/v9"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	config := getConfig()

	gormDB, err := openDatabase(config)
	if err != nil {
		log.Fatalf("Opening database failed: %v", err)
	}

	redisClient := goredis.NewClient(&goredis.Options{
		Addr:     config.RedisAddr,
		Password: config.RedisPassword,
	})

	ctx := context.Background()
	zones, err := cmd.LoadSurgeZones(ctx, gormDB, config.SurgeZoneRadiusKM)
	if err != nil {
		log.Fatalf("Loading surge zones failed: %v", err)
	}

	root := cmd.NewCompositionRoot(config, gormDB, redisClient, zones, logger)

	jobManager := root.CreateJobManager()
	if err = jobManager.StartAll(); err != nil {
		log.Fatalf("Starting jobs failed: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(root, config.HTTPPort)
}

func openDatabase(config cmd.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		config.DBHost, config.DBPort, config.DBUser,
		config.DBPassword, config.DBName, config.DBSslMode)

	// TranslateError turns driver unique-violations into
	// gorm.ErrDuplicatedKey, which the order repository maps onto the
	// idempotency error.
	gormDB, err := gorm.Open(postgresdriver.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	err = gormDB.AutoMigrate(
		&orderrepo.OrderDTO{}, &orderrepo.EventDTO{},
		&riderrepo.RiderDTO{},
		&warehouserepo.WarehouseDTO{},
		&routerepo.RouteDTO{}, &routerepo.StopDTO{},
		&subscriptionrepo.SubscriptionDTO{},
	)
	if err != nil {
		return nil, err
	}

	return gormDB, nil
}

func startWebServer(root cmd.CompositionRoot, port string) {
	e := echo.New()
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})

	root.CreateHTTPServer().RegisterRoutes(e)

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", port)))
}

func getConfig() cmd.Config {
	// Missing .env is fine in containerized runs; the environment is
	// already populated there.
	_ = godotenv.Load(".env")

	return cmd.Config{
		HTTPPort:   envString("HTTP_PORT", "8080"),
		DBHost:     envString("DB_HOST", "localhost"),
		DBPort:     envString("DB_PORT", "5432"),
		DBUser:     envString("DB_USER", "postgres"),
		DBPassword: envString("DB_PASSWORD", "postgres"),
		DBName:     envString("DB_NAME", "parcelhub"),
		DBSslMode:  envString("DB_SSLMODE", "disable"),

		RedisAddr:     envString("REDIS_ADDR", "localhost:6379"),
		RedisPassword: envString("REDIS_PASSWORD", ""),

		GeoServiceURL: envString("GEO_SERVICE_URL", "http://localhost:8090"),
		GeoServiceKey: envString("GEO_SERVICE_KEY", ""),

		BatchThreshold:     envInt("BATCH_THRESHOLD", 5),
		MaxParcelsPerRoute: envInt("MAX_PARCELS_PER_ROUTE", 5),
		MaxDetourKM:        envFloat("MAX_DETOUR_KM", 2.0),
		MaxReturnPickups:   envInt("MAX_RETURN_PICKUPS", 3),
		BatchMaxHold:       envDuration("BATCH_MAX_HOLD", 15*time.Minute),
		BatchSchedule:      envString("BATCH_SCHEDULE", "*/30 * * * * *"),

		SurgeSchedule:     envString("SURGE_SCHEDULE", "0 */2 * * * *"),
		SurgeZoneRadiusKM: envFloat("SURGE_ZONE_RADIUS_KM", 5.0),

		OTPTTL:         envDuration("OTP_TTL", 10*time.Minute),
		OTPMaxAttempts: envInt("OTP_MAX_ATTEMPTS", 3),
	}
}

func envString(key string, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return parsed
}
