package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Elto-Analytics/ChargeMacReporter/internal/config"
	"github.com/Elto-Analytics/ChargeMacReporter/internal/handlers"
	"github.com/Elto-Analytics/ChargeMacReporter/internal/macreport"
	"github.com/Elto-Analytics/ChargeMacReporter/internal/store"
	"github.com/Elto-Analytics/ChargeMacReporter/internal/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	logger := utils.GetLogger()

	// Load configuration
	cfg, err := config.LoadConfig("config.json")
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	// Initialize database connection (read-only reporting store)
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	// Set up database connection pooling
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatalf("Failed to get database handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	reporter := macreport.NewReporter(store.New(db), cfg.ChargeDetailBaseURL, logger)
	counter := macreport.NewResultCounter()

	// Channel to listen for termination signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	// Start the API server in a separate goroutine
	go func() {
		router := setupRouter(cfg, reporter, counter, logger)
		logger.Printf("Starting MAC report server on %s", cfg.ListenAddr)
		if err := router.Run(cfg.ListenAddr); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to run API server: %v", err)
		}
	}()

	// Block until a signal is received
	<-stop

	logger.Println("Shutting down...")
	counter.PrintCounts(logger)

	// Close database connection
	sqlDB.Close()
}

func setupRouter(cfg *config.Config, reporter *macreport.Reporter, counter *macreport.ResultCounter, logger *log.Logger) *gin.Engine {
	router := gin.Default()
	router.Use(cors.Default())
	router.LoadHTMLGlob(cfg.TemplatesGlob)

	macHandlers := &handlers.MacAddress{
		Reporter: reporter,
		Counter:  counter,
		Logger:   logger,
	}
	macHandlers.Register(router)

	return router
}
