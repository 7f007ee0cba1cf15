package main

import (
	"context"
	"log"
	"log/slog"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/chris/jastip-settlement/pkg/bootstrap"
	"github.com/chris/jastip-settlement/pkg/config"
	"github.com/chris/jastip-settlement/pkg/events"
	"github.com/chris/jastip-settlement/pkg/reconciliation"
	"github.com/chris/jastip-settlement/pkg/storage"
	"github.com/joho/godotenv"
)

var (
	store     storage.Storage
	publisher events.Publisher
	logger    *slog.Logger
)

func init() {
	// Load environment variables for local testing.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	logger = cfg.NewLogger()

	ctx := context.Background()
	// The connections live for the lifetime of the Lambda execution environment.
	store, _, err = bootstrap.OpenStorage(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("unable to open storage: %v", err)
	}
	publisher, _, err = bootstrap.OpenPublisher(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("unable to open event publisher: %v", err)
	}
}

// Response is returned to the scheduler that invoked the function.
type Response struct {
	Checked    int `json:"checked"`
	Mismatches int `json:"mismatches"`
	Busy       int `json:"busy"`
}

// HandleRequest is triggered by an EventBridge Schedule.
func HandleRequest(ctx context.Context) (Response, error) {
	logger.InfoContext(ctx, "starting ledger reconciliation")

	report, err := reconciliation.Run(ctx, store, publisher, logger)
	if err != nil {
		logger.ErrorContext(ctx, "reconciliation failed", slog.Any("error", err))
		return Response{}, err
	}
	return Response{Checked: report.Checked, Mismatches: len(report.Mismatches), Busy: len(report.Busy)}, nil
}

func main() {
	lambda.Start(HandleRequest)
}
