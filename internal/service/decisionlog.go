package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"battery_advisor/internal/models"
	"battery_advisor/internal/repository"
)

// LogFilter narrows a decision-history query.
type LogFilter struct {
	From   time.Time
	To     time.Time
	Action string
}

type DecisionLogService struct {
	decisions repository.DecisionRepo
}

func NewDecisionLogService(decisions repository.DecisionRepo) *DecisionLogService {
	return &DecisionLogService{decisions: decisions}
}

var errInvalidTimeRange = errors.New("invalid time range: From must be <= To")

func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

func (s *DecisionLogService) List(ctx context.Context, f LogFilter) ([]models.DecisionRecord, error) {
	from := normalizeToUTC(f.From)
	to := normalizeToUTC(f.To)
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return nil, errInvalidTimeRange
	}
	action := strings.ToUpper(strings.TrimSpace(f.Action))
	return s.decisions.List(ctx, from, to, action)
}

func (s *DecisionLogService) Latest(ctx context.Context) (*models.DecisionRecord, error) {
	return s.decisions.Latest(ctx)
}
