package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPTextExtractor posts a PDF to the extraction service as multipart field
// "file" and expects {"text": "..."} back.
type HTTPTextExtractor struct {
	BaseURL string
	Client  HTTPClient
}

func NewHTTPTextExtractor(baseURL string, client HTTPClient) *HTTPTextExtractor {
	return &HTTPTextExtractor{BaseURL: strings.TrimRight(baseURL, "/"), Client: client}
}

type extractResponse struct {
	Text  string `json:"text"`
	Error string `json:"error"`
}

func (e *HTTPTextExtractor) ExtractText(ctx context.Context, filename string, pdf io.Reader) (string, error) {
	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	part, err := form.CreateFormFile("file", filename)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, pdf); err != nil {
		return "", err
	}
	if err := form.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.BaseURL+"/extract", &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := e.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var out extractResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode extractor response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("extractor returned %d: %s", resp.StatusCode, out.Error)
	}
	return out.Text, nil
}
