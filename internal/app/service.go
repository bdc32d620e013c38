// Package service provides the application service that sits between the
// HTTP layer and the emotion detector.
package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/emotion/internal/adapters/watson"
	"github.com/okian/emotion/internal/domain/emotion"
	"github.com/okian/emotion/pkg/logger"
	"github.com/okian/emotion/pkg/metrics"
)

// Detector classifies text into emotion scores.
type Detector interface {
	Detect(ctx context.Context, text string) (emotion.Scores, error)
}

// Service wraps a Detector with logging, metrics and outcome counters.
type Service struct {
	mu sync.RWMutex

	detector Detector
	metrics  *metrics.Manager
	logger   logger.Logger

	started   bool
	startedAt time.Time

	counts map[string]*atomic.Int64
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithDetector sets the detector. Defaults to a watson.Client with default settings.
func WithDetector(d Detector) Option {
	return func(s *Service) {
		if d != nil {
			s.detector = d
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics sets the metrics manager. Defaults to the global one.
func WithMetrics(m *metrics.Manager) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// New constructs a Service.
func New(opts ...Option) *Service {
	s := &Service{
		metrics: metrics.Default(),
		counts:  make(map[string]*atomic.Int64),
	}
	for _, o := range []string{
		metrics.OutcomeBlank, metrics.OutcomeRejected, metrics.OutcomeEmpty,
		metrics.OutcomeScored, metrics.OutcomeFailed,
	} {
		s.counts[o] = new(atomic.Int64)
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Nop()
	}
	if s.detector == nil {
		s.detector = watson.New(watson.WithLogger(s.logger), watson.WithMetrics(s.metrics))
	}
	return s
}

// Start marks the service ready. It is idempotent.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	s.started = true
	s.startedAt = time.Now()
	s.logger.Info(ctx, "emotion service started")
	return nil
}

// Stop marks the service stopped.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "emotion service stopped")
}

// Detect runs the detector and records the outcome. Errors from the
// detector are returned unchanged.
func (s *Service) Detect(ctx context.Context, text string) (emotion.Scores, error) {
	start := time.Now()
	scores, err := s.detector.Detect(ctx, text)
	elapsed := time.Since(start)

	outcome := classify(text, scores, err)
	s.counts[outcome].Add(1)
	if rerr := s.metrics.RecordDetection(outcome); rerr != nil {
		s.logger.Warn(ctx, "record detection", logger.Error(rerr))
	}

	if err != nil {
		fields := []logger.Field{logger.Duration("elapsed", elapsed), logger.Error(err)}
		var se *watson.StatusError
		if errors.As(err, &se) {
			fields = append(fields, logger.Int("upstream_status", se.StatusCode))
		}
		s.logger.Error(ctx, "emotion detection failed", fields...)
		return emotion.Scores{}, err
	}

	fields := []logger.Field{
		logger.String("outcome", outcome),
		logger.Int("text_len", len(text)),
		logger.Duration("elapsed", elapsed),
	}
	if d, ok := scores.Dominant(); ok {
		fields = append(fields, logger.String("dominant", d.String()))
	}
	s.logger.Debug(ctx, "emotion detected", fields...)
	return scores, nil
}

// classify maps a detector result onto a metrics outcome label.
func classify(text string, scores emotion.Scores, err error) string {
	switch {
	case err != nil:
		return metrics.OutcomeFailed
	case scores.IsAbsent() && strings.TrimSpace(text) == "":
		return metrics.OutcomeBlank
	case scores.IsAbsent():
		return metrics.OutcomeRejected
	case scores.Kind() == emotion.KindZero:
		return metrics.OutcomeEmpty
	default:
		return metrics.OutcomeScored
	}
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	detections := make(map[string]int64, len(s.counts))
	var total int64
	for k, v := range s.counts {
		n := v.Load()
		detections[k] = n
		total += n
	}

	stats := map[string]interface{}{
		"started":    s.started,
		"detections": detections,
		"total":      total,
	}
	if s.started {
		stats["uptimeSeconds"] = int64(time.Since(s.startedAt).Seconds())
	}
	return stats
}
