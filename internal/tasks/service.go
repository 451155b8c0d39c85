package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/0xPuncker/uac-task-api/internal/uac"
	"github.com/sirupsen/logrus"
)

// Lister is the part of the platform API this package needs. *uac.Client
// implements it.
type Lister interface {
	ListTasks(ctx context.Context, filter uac.TaskFilter) (json.RawMessage, error)
	ListTasksAdvanced(ctx context.Context) (json.RawMessage, error)
}

// ConnectFunc returns the shared platform connection.
type ConnectFunc func() (Lister, error)

// ProviderConnect adapts p so every fetch shares its memoized client.
func ProviderConnect(p *uac.Provider) ConnectFunc {
	return func() (Lister, error) {
		client, err := p.Client()
		if err != nil {
			return nil, err
		}
		return client, nil
	}
}

// FetchError reports a failed list call for one mode. It never carries
// partial results.
type FetchError struct {
	Mode Mode
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to retrieve tasks (%s): %v", e.Mode, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// RecentTasksFilter matches every task updated within the last 30 days.
func RecentTasksFilter() uac.TaskFilter {
	return uac.TaskFilter{
		Name:            "*",
		Type:            "",
		UpdatedTimeType: "Offset",
		UpdatedTime:     "-30d",
	}
}

type Service struct {
	connect ConnectFunc
	logger  *logrus.Logger
}

func NewService(connect ConnectFunc, logger *logrus.Logger) *Service {
	return &Service{
		connect: connect,
		logger:  logger,
	}
}

// FetchBasic lists tasks through the basic call. Agent and command are
// always nil in this mode.
func (s *Service) FetchBasic(ctx context.Context) ([]Task, error) {
	return s.fetch(ctx, ModeBasic, func(l Lister) (json.RawMessage, error) {
		return l.ListTasks(ctx, RecentTasksFilter())
	})
}

// FetchAdvanced lists tasks through the advanced call, which also reports
// agent and command where the platform has them.
func (s *Service) FetchAdvanced(ctx context.Context) ([]Task, error) {
	return s.fetch(ctx, ModeAdvanced, func(l Lister) (json.RawMessage, error) {
		return l.ListTasksAdvanced(ctx)
	})
}

func (s *Service) Fetch(ctx context.Context, mode Mode) ([]Task, error) {
	switch mode {
	case ModeBasic:
		return s.FetchBasic(ctx)
	case ModeAdvanced:
		return s.FetchAdvanced(ctx)
	default:
		return nil, fmt.Errorf("unknown fetch mode %q", mode)
	}
}

func (s *Service) fetch(ctx context.Context, mode Mode, call func(Lister) (json.RawMessage, error)) ([]Task, error) {
	lister, err := s.connect()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	body, err := call(lister)
	if err != nil {
		return nil, &FetchError{Mode: mode, Err: err}
	}

	records, err := decodeRecords(body)
	if err != nil {
		return nil, &FetchError{Mode: mode, Err: err}
	}

	result := make([]Task, 0, len(records))
	for _, raw := range records {
		result = append(result, toTask(raw, mode == ModeAdvanced))
	}

	s.logger.WithFields(logrus.Fields{
		"mode":     string(mode),
		"count":    len(result),
		"duration": time.Since(start).String(),
	}).Debugf("%s tasks fetched from UAC", mode.Label())

	return result, nil
}
