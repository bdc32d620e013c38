// Package watson calls the Watson NLP EmotionPredict endpoint and normalizes
// its answer into emotion.Scores.
package watson

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/okian/emotion/internal/domain/emotion"
	"github.com/okian/emotion/pkg/logger"
	"github.com/okian/emotion/pkg/metrics"
)

// Default endpoint settings.
const (
	DefaultURL     = "https://sn-watson-emotion.labs.skills.network/v1/watson.runtime.nlp.v1/NlpService/EmotionPredict"
	DefaultModelID = "emotion_aggregated-workflow_lang_en_stock"
	DefaultTimeout = 30 * time.Second

	// ModelIDHeader carries the model variant as gRPC gateway metadata.
	ModelIDHeader = "grpc-metadata-mm-model-id"

	maxErrorBody = 512
)

// Client is a Watson EmotionPredict client. It is safe for concurrent use
// and holds no state between calls.
type Client struct {
	endpoint   string
	modelID    string
	httpClient *http.Client
	logger     logger.Logger
	metrics    *metrics.Manager
}

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithEndpoint overrides the EmotionPredict URL.
func WithEndpoint(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.endpoint = url
		}
	}
}

// WithModelID overrides the model variant header value.
func WithModelID(id string) Option {
	return func(c *Client) {
		if id != "" {
			c.modelID = id
		}
	}
}

// WithTimeout bounds each round trip.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client. Apply WithTimeout
// after it to override the client's own timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics sets the metrics manager; the global one is used by default.
func WithMetrics(m *metrics.Manager) Option {
	return func(c *Client) {
		if m != nil {
			c.metrics = m
		}
	}
}

// New creates a Client targeting the public Watson endpoint by default.
func New(opts ...Option) *Client {
	c := &Client{
		endpoint:   DefaultURL,
		modelID:    DefaultModelID,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     logger.Nop(),
		metrics:    metrics.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type predictRequest struct {
	RawDocument rawDocument `json:"raw_document"`
}

type rawDocument struct {
	Text string `json:"text"`
}

type predictResponse struct {
	EmotionPredictions []emotionPrediction `json:"emotionPredictions"`
}

// emotionPrediction decodes scores as json.Number so quoted numbers are
// coerced the same way as bare ones.
type emotionPrediction struct {
	Target  string                 `json:"target"`
	Emotion map[string]json.Number `json:"emotion"`
}

func (p emotionPrediction) toDomain() (emotion.Prediction, error) {
	out := emotion.Prediction{Target: p.Target, Emotion: make(map[string]float64, len(p.Emotion))}
	for k, v := range p.Emotion {
		f, err := v.Float64()
		if err != nil {
			return emotion.Prediction{}, fmt.Errorf("%w: emotion %q: %w", ErrDecode, k, err)
		}
		out.Emotion[k] = f
	}
	return out, nil
}

// Detect classifies text. Blank input and upstream 400 answers yield the
// absent sentinel without error. Transport failures, timeouts, other non-2xx
// statuses and undecodable bodies are returned as errors.
func (c *Client) Detect(ctx context.Context, text string) (emotion.Scores, error) {
	if strings.TrimSpace(text) == "" {
		return emotion.Absent(), nil
	}

	body, err := json.Marshal(predictRequest{RawDocument: rawDocument{Text: text}})
	if err != nil {
		return emotion.Scores{}, fmt.Errorf("%w: %w", ErrEncode, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return emotion.Scores{}, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(ModelIDHeader, c.modelID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	latencyMs := float64(time.Since(start).Milliseconds())
	if err != nil {
		c.metrics.RecordUpstream("0", latencyMs)
		c.logger.Warn(ctx, "emotion predict request failed", logger.Error(err))
		return emotion.Scores{}, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	c.metrics.RecordUpstream(strconv.Itoa(resp.StatusCode), latencyMs)
	c.logger.Debug(ctx, "emotion predict response",
		logger.Int("status", resp.StatusCode),
		logger.Float64("latency_ms", latencyMs),
	)

	if resp.StatusCode == http.StatusBadRequest {
		_, _ = io.Copy(io.Discard, resp.Body)
		return emotion.Absent(), nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return emotion.Scores{}, &StatusError{StatusCode: resp.StatusCode, Body: string(snippet)}
	}

	var raw predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return emotion.Scores{}, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	preds := make([]emotion.Prediction, 0, len(raw.EmotionPredictions))
	for _, p := range raw.EmotionPredictions {
		dp, err := p.toDomain()
		if err != nil {
			return emotion.Scores{}, err
		}
		preds = append(preds, dp)
	}
	return emotion.FromPredictions(preds), nil
}
