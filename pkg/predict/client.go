package predict

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/skinlens/skinlens/pkg/models"
)

// RequestError is a failure reported by the inference endpoint or the
// transport between us and it. Message is already human readable and is what
// the error banner shows.
type RequestError struct {
	StatusCode int //0 when the request never got a response
	Message    string
}

func (e *RequestError) Error() string {
	return e.Message
}

// Client issues predict requests against a fixed inference endpoint URL.
type Client struct {
	url string

	//no timeout configured; a request runs until the transport settles it
	HTTPClient *http.Client
}

// NewClient builds a client for the given endpoint URL. No timeout is set on
// the underlying http.Client; a request runs until it settles or the
// transport gives up on its own.
func NewClient(url string) *Client {
	return &Client{
		url:        url,
		HTTPClient: &http.Client{},
	}
}

// Predict sends exactly one POST with a multipart body carrying the image
// under field name "image" and interprets the JSON response. Missing fields
// in a success payload are tolerated; any transport failure, non-2xx status
// or unparseable success body comes back as a *RequestError.
func (c *Client) Predict(ctx context.Context, img *models.SelectedImage) (*models.PredictionResult, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("image", img.Filename)
	if err != nil {
		return nil, &RequestError{Message: fmt.Sprintf("failed to build request body: %v", err)}
	}
	if _, err := part.Write(img.Data); err != nil {
		return nil, &RequestError{Message: fmt.Sprintf("failed to build request body: %v", err)}
	}
	if err := writer.Close(); err != nil {
		return nil, &RequestError{Message: fmt.Sprintf("failed to build request body: %v", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, body)
	if err != nil {
		return nil, &RequestError{Message: fmt.Sprintf("failed to create request: %v", err)}
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, &RequestError{Message: err.Error()}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RequestError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("failed to read response: %v", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &RequestError{StatusCode: resp.StatusCode, Message: errorMessage(resp.StatusCode, respBody)}
	}

	result := &models.PredictionResult{}
	if err := json.Unmarshal(respBody, result); err != nil {
		return nil, &RequestError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("failed to parse prediction response: %v", err)}
	}
	return result, nil
}

// errorMessage extracts a human readable message from a non-2xx body. The
// backend reports errors as {"error": ..., "detail": ...} with detail being
// the more specific of the two; a body that is not JSON falls back to the
// status line.
func errorMessage(statusCode int, body []byte) string {
	payload := struct {
		Detail string `json:"detail"`
		Error  string `json:"error"`
	}{}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Detail != "" {
			return payload.Detail
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return fmt.Sprintf("HTTP %d %s", statusCode, http.StatusText(statusCode))
}
