package integrations

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/asset-service/internal/config"
)

// WorkspaceClient talks to the calendar/drive/sheets collaborators. Each
// integration is optional: an empty base URL turns its calls into silent
// no-ops, and failures are logged, never surfaced to callers.
type WorkspaceClient struct {
	cfg    config.WorkspaceConfig
	client *http.Client
	logger *zap.Logger
}

// NewWorkspaceClient builds the client.
func NewWorkspaceClient(cfg config.WorkspaceConfig, logger *zap.Logger) *WorkspaceClient {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &WorkspaceClient{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// CalendarEvent is a structured create-event call keyed by an external id.
type CalendarEvent struct {
	ExternalKey string    `json:"external_key"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	StartsAt    time.Time `json:"starts_at"`
	Attendee    string    `json:"attendee,omitempty"`
}

// CreateCalendarEvent schedules an event (e.g. asset handover, renewal).
func (w *WorkspaceClient) CreateCalendarEvent(ctx context.Context, event CalendarEvent) {
	w.post(ctx, w.cfg.CalendarBaseURL, "/events", "calendar", event)
}

// DriveUpload stores a document reference under an external key.
type DriveUpload struct {
	ExternalKey string `json:"external_key"`
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	ContentB64  string `json:"content_b64"`
}

// UploadToDrive stores a file reference (e.g. handover form) in drive.
func (w *WorkspaceClient) UploadToDrive(ctx context.Context, upload DriveUpload) {
	w.post(ctx, w.cfg.DriveBaseURL, "/files", "drive", upload)
}

// SheetAppend appends one row to a named report sheet.
type SheetAppend struct {
	ExternalKey string   `json:"external_key"`
	Sheet       string   `json:"sheet"`
	Row         []string `json:"row"`
}

// AppendToSheet appends a report row to a spreadsheet.
func (w *WorkspaceClient) AppendToSheet(ctx context.Context, append SheetAppend) {
	w.post(ctx, w.cfg.SheetsBaseURL, "/rows", "sheets", append)
}

func (w *WorkspaceClient) post(ctx context.Context, baseURL, path, name string, payload any) {
	if baseURL == "" {
		return
	}

	body, err := json.Marshal(payload)
	if err != nil {
		w.logger.Warn("workspace payload marshal failed", zap.String("integration", name), zap.Error(err))
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+path, bytes.NewReader(body))
	if err != nil {
		w.logger.Warn("workspace request build failed", zap.String("integration", name), zap.Error(err))
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		w.logger.Warn("workspace call failed", zap.String("integration", name), zap.Error(err))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		w.logger.Warn("workspace call rejected",
			zap.String("integration", name),
			zap.String("status", fmt.Sprintf("%d", resp.StatusCode)))
	}
}
