package alertsapi

import (
	"context"
	"encoding/json"
	"examwatch/config"
	"examwatch/internal/detection"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

const (
	// DefaultReportName is used when the backend does not name the report.
	DefaultReportName = "malpractice_report.pdf"

	maxErrorBody = 512
)

// StatusError is returned when the backend answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status=%d body=%s", e.StatusCode, e.Body)
}

// AlertsApiClient talks to the detection backend.
type AlertsApiClient struct {
	logger     *zap.Logger
	httpClient *http.Client
	baseURL    string
}

func NewAlertsApiClient(logger *zap.Logger, cfg *config.Config) *AlertsApiClient {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &AlertsApiClient{
		logger: logger,
		httpClient: &http.Client{
			Timeout: cfg.Backend.RequestTimeout,
		},
		baseURL: strings.TrimRight(cfg.Backend.BaseURL, "/"),
	}
}

// BaseURL returns the backend base URL.
func (c *AlertsApiClient) BaseURL() string {
	return c.baseURL
}

// GetAlerts fetches the detection counts and the most recent alerts.
func (c *AlertsApiClient) GetAlerts(ctx context.Context) (*detection.Summary, error) {
	var summary detection.Summary
	if err := c.doGet(ctx, c.baseURL+"/get_alerts", &summary); err != nil {
		return nil, errors.Wrap(err, "get alerts")
	}
	return &summary, nil
}

// Probe checks that the backend is reachable. Any HTTP response counts as
// reachable; only transport failures are reported.
func (c *AlertsApiClient) Probe(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/get_alerts", nil)
	if err != nil {
		return errors.Wrap(err, "create request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "probe")
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return nil
}

// StartMonitoring asks the backend to begin a new session. An empty
// videoPath selects the default camera; otherwise the backend reads the
// named local video file.
func (c *AlertsApiClient) StartMonitoring(ctx context.Context, videoPath string) error {
	form := url.Values{}
	if videoPath != "" {
		form.Set("use_local_video", "true")
		form.Set("local_video_path", videoPath)
	}
	if err := c.postForm(ctx, "/start_monitoring", form); err != nil {
		return errors.Wrap(err, "start monitoring")
	}
	c.logger.Info("monitoring start requested", zap.String("videoPath", videoPath))
	return nil
}

// StopMonitoring asks the backend to end the monitoring session.
func (c *AlertsApiClient) StopMonitoring(ctx context.Context) error {
	if err := c.postForm(ctx, "/stop_monitoring", nil); err != nil {
		return errors.Wrap(err, "stop monitoring")
	}
	c.logger.Info("monitoring stop requested")
	return nil
}

// ResetSession clears the backend's session log and counters.
func (c *AlertsApiClient) ResetSession(ctx context.Context) error {
	if err := c.postForm(ctx, "/reset_session", nil); err != nil {
		return errors.Wrap(err, "reset session")
	}
	c.logger.Info("session reset requested")
	return nil
}

// postForm sends a form POST. The backend answers these with a redirect to
// one of its pages, which is not followed.
func (c *AlertsApiClient) postForm(ctx context.Context, p string, form url.Values) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+p, strings.NewReader(form.Encode()))
	if err != nil {
		return errors.Wrap(err, "create request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	client := *c.httpClient
	client.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}

	resp, err := client.Do(req)
	if err != nil {
		return errors.Wrap(err, "request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return statusError(resp)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// SnapshotURL returns the URL of a snapshot image.
func (c *AlertsApiClient) SnapshotURL(name string) string {
	return c.baseURL + "/snapshot/" + url.PathEscape(name)
}

// DownloadSnapshot saves a snapshot image into dir and returns its path.
func (c *AlertsApiClient) DownloadSnapshot(ctx context.Context, name, dir string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.New("snapshot name is empty")
	}
	p, err := c.download(ctx, c.SnapshotURL(name), dir, path.Base(name))
	if err != nil {
		return "", errors.Wrapf(err, "download snapshot %s", name)
	}
	return p, nil
}

// ExportPDF downloads the server-rendered session report into dir.
func (c *AlertsApiClient) ExportPDF(ctx context.Context, dir string) (string, error) {
	p, err := c.download(ctx, c.baseURL+"/export_pdf", dir, DefaultReportName)
	if err != nil {
		return "", errors.Wrap(err, "export pdf")
	}
	return p, nil
}

// download streams a GET response body to a file in dir. The file is named
// after the Content-Disposition filename when present, fallback otherwise.
func (c *AlertsApiClient) download(ctx context.Context, rawURL, dir, fallback string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", errors.Wrap(err, "create request")
	}

	// Downloads may take longer than a poll; rely on ctx for the deadline.
	client := *c.httpClient
	client.Timeout = 0

	resp, err := client.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return "", statusError(resp)
	}

	name := fallback
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil {
		if fn := filepath.Base(params["filename"]); fn != "." && fn != "/" && fn != "" {
			name = fn
		}
	}

	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrap(err, "create export dir")
	}

	dest := filepath.Join(dir, name)
	f, err := os.Create(dest)
	if err != nil {
		return "", errors.Wrap(err, "create file")
	}

	n, copyErr := io.Copy(f, resp.Body)
	closeErr := f.Close()
	if copyErr != nil {
		_ = os.Remove(dest)
		return "", errors.Wrap(copyErr, "write file")
	}
	if closeErr != nil {
		return "", errors.Wrap(closeErr, "close file")
	}

	c.logger.Info("downloaded file",
		zap.String("url", rawURL),
		zap.String("path", dest),
		zap.Int64("bytes", n),
	)
	return dest, nil
}

// doGet is a helper that performs a GET request and decodes JSON response.
func (c *AlertsApiClient) doGet(ctx context.Context, url string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errors.Wrap(err, "create request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return statusError(resp)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "read response")
	}

	if err := json.Unmarshal(body, dest); err != nil {
		return errors.Wrap(err, "decode json")
	}

	return nil
}

func statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
}
