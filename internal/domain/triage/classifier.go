package triage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/medibook/medibook/internal/platform/apperr"
)

// Classifier predicts a disease from a set of symptom names.
type Classifier interface {
	Predict(ctx context.Context, symptoms []string) (string, error)
}

// HTTPClassifier calls an external prediction service. Any failure, whether
// transport, a non-2xx status, a malformed body, or a model-side error,
// surfaces as a single Upstream error carrying the raw diagnostic. There is
// no retry.
type HTTPClassifier struct {
	url    string
	client *http.Client
	log    zerolog.Logger
}

func NewHTTPClassifier(url string, log zerolog.Logger) *HTTPClassifier {
	return &HTTPClassifier{
		url:    url,
		client: &http.Client{Timeout: 30 * time.Second},
		log:    log,
	}
}

type predictRequest struct {
	Symptoms []string `json:"symptoms"`
}

type predictResponse struct {
	PredictedDisease string `json:"predicted_disease"`
	Error            string `json:"error"`
}

func (c *HTTPClassifier) Predict(ctx context.Context, symptoms []string) (string, error) {
	body, err := json.Marshal(predictRequest{Symptoms: symptoms})
	if err != nil {
		return "", fmt.Errorf("marshal classifier request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build classifier request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Error().Err(err).Str("url", c.url).Msg("classifier request failed")
		return "", apperr.Upstreamf("classifier request failed: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", apperr.Upstreamf("read classifier response: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		c.log.Error().Int("status", resp.StatusCode).Str("body", string(raw)).Msg("classifier returned error")
		return "", apperr.Upstreamf("classifier returned status %d: %s", resp.StatusCode, raw)
	}

	var out predictResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", apperr.Upstreamf("parse classifier response: %v (raw: %s)", err, raw)
	}
	if out.Error != "" {
		return "", apperr.Upstreamf("classifier error: %s", out.Error)
	}
	if out.PredictedDisease == "" {
		return "", apperr.Upstreamf("classifier returned no prediction")
	}
	return out.PredictedDisease, nil
}
