package job

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/nDmitry/rssposter/internal/metrics"
)

type panicError struct {
	value any
	stack []byte
}

func (e *panicError) Error() string {
	return fmt.Sprintf("recovered: %v", e.value)
}

// Loop runs the job every interval until ctx is canceled.
// A failed run is logged and never stops the loop.
func (j *Job) Loop(ctx context.Context, interval time.Duration) error {
	j.logger.Info("Feed sync started", "interval", interval.String(), "sources", len(j.opts.Sources), "posted", j.posted.Len())

	for {
		j.RunOnce(ctx)

		if ctx.Err() != nil {
			return nil
		}

		if err := j.sleep(ctx, interval); err != nil {
			j.logger.Info("Shutting down, saving posted links", "posted", j.posted.Len())
			// Errors are logged by Persist.
			_ = j.Persist(ctx)

			return nil
		}
	}
}

// RunOnce runs a single cycle, recovering from panics, then saves the
// Posted-Set regardless of the outcome.
func (j *Job) RunOnce(ctx context.Context) Result {
	res, err := j.safeRun(ctx)

	var pe *panicError

	switch {
	case errors.As(err, &pe):
		j.logger.Error("Feed check failed", "error", err, "stack", string(pe.stack))
		metrics.JobFailures.Inc()
	case isCanceled(err):
		j.logger.Info("Feed check interrupted", "published", res.Published)
	case err != nil:
		j.logger.Error("Feed check failed", "error", err)
		metrics.JobFailures.Inc()
	default:
		j.logger.Info("Feeds checked",
			"published", res.Published,
			"malformed", res.Malformed,
			"failedPublishes", res.FailedPublishes,
			"failedSources", len(res.FailedSources),
		)
	}

	// Errors are logged by Persist.
	_ = j.Persist(ctx)

	return res
}

func (j *Job) safeRun(ctx context.Context) (res Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &panicError{value: r, stack: debug.Stack()}
		}
	}()

	return j.Run(ctx)
}
