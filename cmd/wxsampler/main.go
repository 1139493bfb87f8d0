package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"wxsampler/internal/logging"
	"wxsampler/internal/netatmo"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	// Optional .env for local development; absence is fine.
	_ = godotenv.Load()

	switch os.Args[1] {
	case "sample":
		sampleCmd(os.Args[2:])
	case "backfill":
		backfillCmd(os.Args[2:])
	case "stations":
		stationsCmd(os.Args[2:])
	case "history":
		historyCmd(os.Args[2:])
	case "serve":
		serveCmd(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("wxsampler <command> [args]")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  sample    export one day of measurements (default: yesterday)")
	fmt.Println("  backfill  export every day from --start through yesterday")
	fmt.Println("  stations  list stations and modules for the account")
	fmt.Println("  history   show recent exports from the catalog")
	fmt.Println("  serve     run the daily sampling daemon")
}

func fatal(action string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", action, err)
	os.Exit(1)
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func newLogger() *zap.Logger {
	logger, err := logging.New("")
	if err != nil {
		fatal("logger", err)
	}
	return logger
}

func baseURL() string {
	return envOrDefault("NETATMO_BASE_URL", netatmo.DefaultBaseURL)
}

// resolveCredentials prefers a complete set of NETATMO_* environment
// variables and falls back to the credentials file.
func resolveCredentials(path string) (*netatmo.Credentials, error) {
	creds := &netatmo.Credentials{
		ClientID:     os.Getenv("NETATMO_CLIENT_ID"),
		ClientSecret: os.Getenv("NETATMO_CLIENT_SECRET"),
		Username:     os.Getenv("NETATMO_USERNAME"),
		Password:     os.Getenv("NETATMO_PASSWORD"),
		Scope:        os.Getenv("NETATMO_SCOPE"),
	}
	if creds.ClientID != "" && creds.ClientSecret != "" && creds.Username != "" && creds.Password != "" {
		return creds, nil
	}
	return netatmo.LoadCredentials(path)
}
