package billingrun

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/rileysalas/clientdesk-backend/internal/cron"
	"github.com/rileysalas/clientdesk-backend/internal/subscriptions"
	"github.com/rileysalas/clientdesk-backend/pkg/logger"
)

type monthlyGenerator interface {
	CalculateMonthly(ctx context.Context, span subscriptions.MonthRange) (*subscriptions.GenerateResult, error)
}

// JobParams configures the monthly obligation job.
type JobParams struct {
	Logger      *logger.Logger
	Generator   monthlyGenerator
	MonthsAhead int
	Now         func() time.Time
}

// NewJob constructs the job that materializes subscription_paid rows for the
// current month plus the configured lookahead.
func NewJob(params JobParams) (cron.Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Generator == nil {
		return nil, fmt.Errorf("monthly generator required")
	}
	if params.MonthsAhead < 0 {
		params.MonthsAhead = 0
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &job{
		logg:        params.Logger,
		generator:   params.Generator,
		monthsAhead: params.MonthsAhead,
		now:         now,
	}, nil
}

type job struct {
	logg        *logger.Logger
	generator   monthlyGenerator
	monthsAhead int
	now         func() time.Time
}

func (j *job) Name() string { return "monthly-obligations" }

// Run generates one month at a time so a failure in a later month never
// blocks the earlier ones; errors are combined and reported together.
func (j *job) Run(ctx context.Context) error {
	now := j.now().UTC()
	var errs []error
	for offset := 0; offset <= j.monthsAhead; offset++ {
		target := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, offset, 0)
		year, month := target.Year(), int(target.Month())
		span := subscriptions.MonthRange{
			FromYear:  year,
			FromMonth: month,
			ToYear:    year,
			ToMonth:   month,
		}
		result, err := j.generator.CalculateMonthly(ctx, span)
		if err != nil {
			errs = append(errs, fmt.Errorf("generate %d-%02d: %w", year, month, err))
			continue
		}
		logCtx := j.logg.WithFields(ctx, map[string]any{
			"year":    year,
			"month":   month,
			"created": result.CreatedCount,
			"skipped": result.SkippedCount,
		})
		j.logg.Info(logCtx, "monthly obligations generated")
	}
	return multierr.Combine(errs...)
}
