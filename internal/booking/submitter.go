package booking

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"time"

	"go.uber.org/zap"
)

const defaultSubmitTimeout = 30 * time.Second

// HTTPSubmitter posts applications as multipart form data, photo included
type HTTPSubmitter struct {
	submitURL  string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewHTTPSubmitter creates a new HTTPSubmitter instance
func NewHTTPSubmitter(submitURL string, timeout time.Duration, logger *zap.Logger) *HTTPSubmitter {
	if timeout <= 0 {
		timeout = defaultSubmitTimeout
	}
	return &HTTPSubmitter{
		submitURL: submitURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Submit validates the application and posts it to the booking endpoint
func (s *HTTPSubmitter) Submit(ctx context.Context, app *Application) error {
	if err := app.Validate(); err != nil {
		return fmt.Errorf("invalid application: %w", err)
	}

	body, contentType, err := encodeForm(app)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.submitURL, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	s.logger.Debug("Submitting application",
		zap.String("url", s.submitURL),
		zap.String("id", app.ID.String()))

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to submit application: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("booking endpoint returned status %d: %s", resp.StatusCode, string(respBody))
	}

	s.logger.Info("Application submitted",
		zap.String("id", app.ID.String()),
		zap.String("date", app.Date),
		zap.String("time", app.Time))
	return nil
}

func encodeForm(app *Application) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := app.Fields()
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if err := w.WriteField(k, fields[k]); err != nil {
			return nil, "", fmt.Errorf("failed to write field %s: %w", k, err)
		}
	}

	photo, err := os.Open(app.PhotoPath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open photo: %w", err)
	}
	defer photo.Close()

	part, err := w.CreateFormFile("photo", filepath.Base(app.PhotoPath))
	if err != nil {
		return nil, "", fmt.Errorf("failed to create photo part: %w", err)
	}
	if _, err := io.Copy(part, photo); err != nil {
		return nil, "", fmt.Errorf("failed to read photo: %w", err)
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finish form: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}
