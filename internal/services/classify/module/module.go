// Package module wires the classifier and its inference port from config
package module

import (
	"context"
	"time"

	"capturebox/internal/adapters/inference/gemini"
	"capturebox/internal/platform/config"
	"capturebox/internal/platform/logger"
	"capturebox/internal/services/classify/domain"
	"capturebox/internal/services/classify/service"
	trackers "capturebox/internal/services/trackers/domain"
)

// Options configures classification
type Options struct {
	Threshold   float64
	Timeout     time.Duration
	FailOpen    bool
	InboxID     string
	Model       string
	Temperature float64
	APIKey      string
}

// FromConfig reads CORE_CLASSIFY_* and GOOGLE_API_KEY
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("CORE_CLASSIFY_")
	return Options{
		Threshold:   c.MayUnit("CONFIDENCE_THRESHOLD", 0.7),
		Timeout:     c.MayDuration("TIMEOUT", 20*time.Second),
		FailOpen:    c.MayBool("FAIL_OPEN", true),
		InboxID:     c.MayString("INBOX", trackers.InboxID),
		Model:       c.MayString("MODEL", gemini.DefaultModel),
		Temperature: c.MayUnit("TEMPERATURE", 0.2),
		APIKey:      cfg.MayString("GOOGLE_API_KEY", ""),
	}
}

// NewPort opens the Gemini client, or the offline port when no key is set
func NewPort(ctx context.Context, o Options) (domain.InferencePort, error) {
	if o.APIKey == "" {
		logger.Named("classify").Warn().Msg("GOOGLE_API_KEY not set, every capture goes to review")
		return gemini.Offline{}, nil
	}
	return gemini.New(ctx, gemini.Config{APIKey: o.APIKey, Model: o.Model, Temperature: float32(o.Temperature)})
}

// New builds the classifier. A nil port means open one from o.
func New(ctx context.Context, o Options, port domain.InferencePort) (*service.Service, error) {
	if port == nil {
		var err error
		if port, err = NewPort(ctx, o); err != nil {
			return nil, err
		}
	}
	return service.New(port, service.Config{
		Threshold: o.Threshold,
		InboxID:   o.InboxID,
		Timeout:   o.Timeout,
		FailOpen:  o.FailOpen,
	}), nil
}
