package uac

import (
	"fmt"
	"sync"

	"github.com/0xPuncker/uac-task-api/internal/config"
	"github.com/sirupsen/logrus"
)

// ConfigurationError reports that the platform connection could not be set
// up, either because UAC_URL/UAC_TOKEN are missing or because the client
// could not be built from them.
type ConfigurationError struct {
	Err error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("UAC configuration error: %v", e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// Provider hands out the process-wide Client. The first call to Client
// builds it; every later call returns that same result, including a failure.
type Provider struct {
	load   func() (config.UACConfig, error)
	logger *logrus.Logger

	once   sync.Once
	client *Client
	err    error
}

func NewProvider(load func() (config.UACConfig, error), logger *logrus.Logger) *Provider {
	return &Provider{
		load:   load,
		logger: logger,
	}
}

func (p *Provider) Client() (*Client, error) {
	p.once.Do(p.connect)
	return p.client, p.err
}

func (p *Provider) connect() {
	cfg, err := p.load()
	if err != nil {
		p.err = &ConfigurationError{Err: err}
		p.logger.WithError(err).Error("UAC client configuration failed; restart required")
		return
	}

	client, err := New(cfg)
	if err != nil {
		p.err = &ConfigurationError{Err: fmt.Errorf("failed to connect to UAC: %w", err)}
		p.logger.WithError(err).Error("UAC client construction failed; restart required")
		return
	}

	p.client = client
	p.logger.WithFields(logrus.Fields{
		"url":     client.baseURL,
		"timeout": cfg.Timeout.String(),
	}).Info("UAC client initialized")
}
