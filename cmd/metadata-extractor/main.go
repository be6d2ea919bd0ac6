package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"os"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/funcframework"
	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	cloudevents "github.com/cloudevents/sdk-go/v2"

	"github.com/Lllllllleong/csvmetadataflow/internal/config"
	"github.com/Lllllllleong/csvmetadataflow/internal/models"
	"github.com/Lllllllleong/csvmetadataflow/internal/services"
)

var (
	extractorInstance *services.MetadataExtractor
	once              sync.Once
	initErr           error
	logLevel          = new(slog.LevelVar)
)

func init() {
	// --- Set up structured logging ---
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	// Cloud Storage finalize events arrive as CloudEvents; S3-style
	// notifications are posted over HTTP.
	functions.CloudEvent("ExtractMetadata", extractMetadata)
	functions.HTTP("HandleS3Notification", handleS3Notification)
}

// main runs the functions locally. Deployed functions are served by the platform.
func main() {
	port := "8080"
	if p := os.Getenv("PORT"); p != "" {
		port = p
	}
	if err := funcframework.Start(port); err != nil {
		slog.Error("Function framework stopped", "error", err)
		os.Exit(1)
	}
}

func initExtractor() {
	cfg, err := config.Load()
	if err != nil {
		initErr = err
		return
	}
	logLevel.Set(cfg.Level())
	extractorInstance, initErr = services.NewExtractor(context.Background(), cfg)
}

// extractMetadata is the CloudEvent entry point. Processing failures are
// reported in the logged response and do not fail the invocation, so the
// platform does not redeliver the event.
func extractMetadata(ctx context.Context, e cloudevents.Event) error {
	once.Do(initExtractor)
	if initErr != nil {
		slog.Error("Critical error during function initialization", "error", initErr)
		return initErr
	}

	var resp models.Response
	var gcsEvent models.GCSEvent
	if err := json.Unmarshal(e.Data(), &gcsEvent); err != nil {
		slog.Error("Failed to unmarshal event data", "error", err, "data", string(e.Data()), "eventId", e.ID())
		resp = services.NewFailureResponse(err)
	} else {
		slog.Info("Received object finalized event.",
			"eventId", e.ID(),
			"container", gcsEvent.Bucket,
			"objectKey", gcsEvent.Name,
			"objectSize", gcsEvent.Size,
		)
		resp = extractorInstance.Handle(ctx, gcsEvent.Reference())
	}

	logResponse(resp, "eventId", e.ID(), "eventType", e.Type())
	return nil
}

// handleS3Notification is the HTTP entry point for S3-style notifications.
func handleS3Notification(w http.ResponseWriter, r *http.Request) {
	once.Do(initExtractor)
	if initErr != nil {
		slog.Error("Critical: MetadataExtractor initialization failed", "error", initErr)
		writeResponse(w, services.NewFailureResponse(initErr))
		return
	}

	payload, err := io.ReadAll(r.Body)
	if err != nil {
		slog.Warn("Could not read request body", "error", err)
		writeResponse(w, services.NewFailureResponse(err))
		return
	}

	resp := extractorInstance.HandleNotification(r.Context(), payload)
	logResponse(resp)
	writeResponse(w, resp)
}

func writeResponse(w http.ResponseWriter, resp models.Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.StatusCode)
	if _, err := io.WriteString(w, resp.Body); err != nil {
		slog.Error("Failed to write response", "error", err)
	}
}

func logResponse(resp models.Response, attrs ...any) {
	attrs = append(attrs, "statusCode", resp.StatusCode, "body", resp.Body)
	if resp.StatusCode == http.StatusOK {
		slog.Info("Invocation complete.", attrs...)
		return
	}
	slog.Error("Invocation failed.", attrs...)
}
