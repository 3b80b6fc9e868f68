package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Shuixingchen/web3-compass/api"
	"github.com/Shuixingchen/web3-compass/config"
	"github.com/Shuixingchen/web3-compass/database"
	"github.com/Shuixingchen/web3-compass/models"
	"github.com/Shuixingchen/web3-compass/services"
)

const generatedQueryPath = "./database/query"

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: Error loading .env file: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	setupLogger(cfg)

	log.Info().Str("env", cfg.Env).Msg("Initializing app...")

	db, err := database.Open(cfg, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Error connecting to database")
	}

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Error applying migrations")
	}

	// If generating models, run generation and exit
	if cfg.GenerateModels {
		log.Info().Str("outPath", generatedQueryPath).Msg("Generating query helpers...")
		models.GenerateModels(db, generatedQueryPath)
		return
	}

	// If generating column mismatch report, run report and exit
	if cfg.GenerateColumnReport {
		mismatches, err := models.GenerateColumnMismatchReport(db, os.Stdout)
		if err != nil {
			log.Fatal().Err(err).Msg("Error generating column report")
		}
		if mismatches > 0 {
			os.Exit(2)
		}
		return
	}

	currentDB := database.New(db, cfg.DBQueryTimeout)
	submissions := services.NewSubmissionService(currentDB, services.NewNotifier(cfg))

	// Buffered so Start can still report ErrServerClosed after shutdown.
	errChannel := make(chan error, 2)

	server, err := api.NewServer(cfg, currentDB, submissions)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing server")
	}

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	log.Info().Msgf("Closing server: %v", fatalErr)

	server.ShutdownGracefully(30 * time.Second)
	submissions.Wait()
}

func setupLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if cfg.IsDevelopment() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
