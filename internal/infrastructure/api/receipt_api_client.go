package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/damon-houk/receipt-processor/internal/domain/entity"
	"github.com/damon-houk/receipt-processor/internal/domain/validation"
)

const (
	processPath = "/receipts/process"
	pointsPath  = "/receipts/%s/points"

	defaultTimeout = 10 * time.Second
)

// ReceiptAPIClient talks to a running receipt processor over HTTP
type ReceiptAPIClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewReceiptAPIClient creates a new client for the service at baseURL
func NewReceiptAPIClient(baseURL string, httpClient *http.Client) *ReceiptAPIClient {
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: defaultTimeout,
		}
	}

	return &ReceiptAPIClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// APIError is a non-2xx response from the service
type APIError struct {
	StatusCode  int
	Message     string
	Description string
	Violations  []entity.Violation
}

func (e *APIError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("API returned error status %d: %s: %s", e.StatusCode, e.Message, e.Description)
	}
	return fmt.Sprintf("API returned error status %d: %s", e.StatusCode, e.Message)
}

// Unwrap maps 404s onto entity.ErrReceiptNotFound
func (e *APIError) Unwrap() error {
	if e.StatusCode == http.StatusNotFound {
		return entity.ErrReceiptNotFound
	}
	return nil
}

type errorBody struct {
	Error       string             `json:"error"`
	Description string             `json:"description"`
	Violations  []entity.Violation `json:"violations"`
}

// ProcessReceipt submits a receipt and returns the ID the service assigned
func (c *ReceiptAPIClient) ProcessReceipt(ctx context.Context, receipt *validation.ReceiptInput) (string, error) {
	payload, err := json.Marshal(receipt)
	if err != nil {
		return "", fmt.Errorf("failed to encode receipt: %w", err)
	}

	var resp struct {
		ID string `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, c.baseURL+processPath, payload, &resp); err != nil {
		return "", err
	}

	if resp.ID == "" {
		return "", fmt.Errorf("failed to decode response: missing id")
	}
	return resp.ID, nil
}

// GetPoints returns the points awarded to a stored receipt
func (c *ReceiptAPIClient) GetPoints(ctx context.Context, id string) (int64, error) {
	var resp struct {
		Points *int64 `json:"points"`
	}

	reqURL := c.baseURL + fmt.Sprintf(pointsPath, url.PathEscape(id))
	if err := c.do(ctx, http.MethodGet, reqURL, nil, &resp); err != nil {
		return 0, err
	}

	if resp.Points == nil {
		return 0, fmt.Errorf("failed to decode response: missing points")
	}
	return *resp.Points, nil
}

func (c *ReceiptAPIClient) do(ctx context.Context, method, reqURL string, payload []byte, out interface{}) error {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	// Create HTTP request
	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}

		var eb errorBody
		if json.Unmarshal(bodyBytes, &eb) == nil && eb.Error != "" {
			apiErr.Message = eb.Error
			apiErr.Description = eb.Description
			apiErr.Violations = eb.Violations
		}
		return apiErr
	}

	if err := json.Unmarshal(bodyBytes, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
