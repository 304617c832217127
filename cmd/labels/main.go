// Command labels uploads a CSV to the label processing server and prints
// the rendered labels.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"

	"meal-labels/internal/config"
	"meal-labels/internal/domain"
	"meal-labels/internal/render"
	"meal-labels/internal/service"
	"meal-labels/pkg/logger"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: .env file could not be loaded: %v", err)
	}
	cfg := config.NewConfig()

	filename := flag.String("file", "", "CSV file to upload")
	server := flag.String("server", cfg.GetProcessorURL(), "Label processing server base URL")
	format := flag.String("format", "text", "Output format: text or html")
	outPath := flag.String("out", "", "Write output to this file instead of stdout")
	branding := flag.String("branding", cfg.GetBranding(), "Branding sent with the upload")
	flag.Parse()

	if *format != "text" && *format != "html" {
		fmt.Fprintln(os.Stderr, "Usage: labels -file meals.csv [-server URL] [-format text|html] [-out path] [-branding name]")
		os.Exit(2)
	}

	os.Exit(run(*filename, *server, *format, *outPath, *branding, cfg.GetLogLevel()))
}

func run(filename, server, format, outPath, branding, logLevel string) int {
	appLogger := logger.NewLoggerWithWriter(logLevel, os.Stderr)

	requestID := uuid.NewString()
	ctx := domain.WithRequestID(context.Background(), requestID)

	client := service.NewLabelClient(server, branding, &http.Client{}, appLogger.With("request_id", requestID))
	out := render.NewContainer()
	result := service.NewUploadHandler(client).Handle(ctx, service.PathFileSource{Path: filename}, out)

	var w io.Writer = os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			appLogger.Error("Failed to create output file", err, "path", outPath)
			return 1
		}
		defer f.Close()
		w = f
	}

	if err := write(w, out, format); err != nil {
		appLogger.Error("Failed to write output", err)
		return 1
	}

	if result.Storage != "" {
		appLogger.Info("Storage instruction", "text", result.Storage)
	}
	appLogger.Debug("Upload finished", "outcome", result.Outcome, "cards", result.Cards)

	switch result.Outcome {
	case service.OutcomeFailed, service.OutcomeServerError, service.OutcomeNoFile:
		return 1
	default:
		return 0
	}
}

func write(w io.Writer, out *render.Container, format string) error {
	var content string
	if format == "html" {
		content = string(out.HTML())
	} else {
		content = out.Text()
	}
	if content == "" {
		return nil
	}
	if _, err := io.WriteString(w, content); err != nil {
		return err
	}
	if content[len(content)-1] != '\n' {
		_, err := io.WriteString(w, "\n")
		return err
	}
	return nil
}
