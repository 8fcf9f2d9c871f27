package portal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/tidwall/gjson"

	"github.com/feelsunbreeze/skyward_gpa_tui/internal/grades"
)

const CALCULATE_PATH string = "/calculate"
const PROGRESS_PATH string = "/progress/"
const SESSION_HEADER string = "X-Session-ID"

const maxErrorMessageLen = 200

type Client struct {
	baseURL *url.URL
	http    *http.Client
	logger  *slog.Logger
}

func NewClient(serverURL string, httpClient *http.Client, logger *slog.Logger) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(serverURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse server url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("server url %q must include scheme and host", serverURL)
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Client{baseURL: u, http: httpClient, logger: logger}, nil
}

func (c *Client) endpoint(path string) string {
	return c.baseURL.String() + path
}

// Calculate runs the server side login, scrape and GPA computation. It
// blocks until the backend answers; there is no client side timeout.
func (c *Client) Calculate(ctx context.Context, credentials Credentials, sessionID string) (grades.Result, error) {
	if !credentials.Complete() {
		return grades.Result{}, newError(ErrInvalidCredentials, nil, "username and password are required")
	}

	form := url.Values{}
	form.Set("username", credentials.Username)
	form.Set("password", credentials.Password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(CALCULATE_PATH), strings.NewReader(form.Encode()))
	if err != nil {
		return grades.Result{}, newError(ErrNetworkIssue, err, "failed to create calculate request: %v", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if sessionID != "" {
		req.Header.Set(SESSION_HEADER, sessionID)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return grades.Result{}, newError(ErrNetworkIssue, err, "failed to reach server: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return grades.Result{}, newError(ErrNetworkIssue, err, "failed to read calculate response: %v", err)
	}
	c.logger.Info("calculate finished",
		"session", sessionID,
		"status", resp.StatusCode,
		"bytes", len(body),
		"duration", time.Since(start))

	return decodeCalculate(resp.StatusCode, body)
}

func decodeCalculate(status int, body []byte) (grades.Result, error) {
	if !gjson.ValidBytes(body) {
		if status >= http.StatusBadRequest {
			return grades.Result{}, newError(ErrServer, nil, "%s", htmlErrorMessage(status, body))
		}
		return grades.Result{}, newError(ErrParsingError, nil, "server returned a response that is not JSON")
	}

	doc := gjson.ParseBytes(body)
	if msg, ok := errorField(doc); ok {
		return grades.Result{}, newError(ErrServer, nil, "%s", msg)
	}
	if status >= http.StatusBadRequest {
		return grades.Result{}, newError(ErrServer, nil, "server returned %d %s", status, http.StatusText(status))
	}
	return decodeResult(doc)
}

func errorField(doc gjson.Result) (string, bool) {
	field := doc.Get("error")
	switch field.Type {
	case gjson.Null, gjson.False:
		return "", false
	}
	msg := field.String()
	return msg, msg != ""
}

// decodeResult walks the payload with gjson so that classes keep the order
// the server sent them in.
func decodeResult(doc gjson.Result) (grades.Result, error) {
	if !doc.IsObject() {
		return grades.Result{}, newError(ErrParsingError, nil, "unexpected response shape")
	}
	periods := doc.Get("ordered_periods")
	if !periods.IsArray() {
		return grades.Result{}, newError(ErrParsingError, nil, "response is missing ordered_periods")
	}

	var r grades.Result
	periods.ForEach(func(_, period gjson.Result) bool {
		r.Periods = append(r.Periods, period.String())
		return true
	})

	doc.Get("grades").ForEach(func(name, classGrades gjson.Result) bool {
		class := grades.ClassGrades{Name: name.String(), Grades: make(map[string]float64)}
		classGrades.ForEach(func(period, grade gjson.Result) bool {
			if grade.Type == gjson.Number {
				class.Grades[period.String()] = grade.Float()
			}
			return true
		})
		r.Classes = append(r.Classes, class)
		return true
	})

	r.Unweighted = decodeGPAs(doc.Get("unweighted_gpas"))
	r.Weighted = decodeGPAs(doc.Get("weighted_gpas"))
	return r, nil
}

func decodeGPAs(v gjson.Result) map[string]float64 {
	gpas := make(map[string]float64)
	v.ForEach(func(period, gpa gjson.Result) bool {
		if gpa.Type == gjson.Number {
			gpas[period.String()] = gpa.Float()
		}
		return true
	})
	return gpas
}

// htmlErrorMessage pulls something readable out of an HTML error page, such
// as the one a reverse proxy serves when the backend is down.
func htmlErrorMessage(status int, body []byte) string {
	fallback := fmt.Sprintf("server returned %d %s", status, http.StatusText(status))

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return fallback
	}

	text := strings.Join(strings.Fields(doc.Find("title").First().Text()), " ")
	if text == "" {
		text = strings.Join(strings.Fields(doc.Find("h1").First().Text()), " ")
	}
	if text == "" {
		text = strings.Join(strings.Fields(doc.Find("body").Text()), " ")
	}
	if text == "" {
		return fallback
	}
	if len(text) > maxErrorMessageLen {
		text = text[:maxErrorMessageLen] + "..."
	}
	return text
}

func (c *Client) Progress(ctx context.Context, sessionID string) ([]ProgressEvent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(PROGRESS_PATH+url.PathEscape(sessionID)), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create progress request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to get progress: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to get progress: status %d", resp.StatusCode)
	}

	var events []ProgressEvent
	if err := json.NewDecoder(resp.Body).Decode(&events); err != nil {
		return nil, fmt.Errorf("failed to decode progress: %w", err)
	}
	return events, nil
}
