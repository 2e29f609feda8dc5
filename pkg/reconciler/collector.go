package reconciler

import (
	"context"
	"fmt"

	"github.com/agentstation/souqmap/pkg/errors"
	"github.com/agentstation/souqmap/pkg/logging"
	"github.com/agentstation/souqmap/pkg/sources"
	"github.com/agentstation/souqmap/pkg/tabular"
)

// collected holds the raw tables one source produced.
type collected struct {
	id     sources.ID
	tables []*tabular.Table
}

func (c collected) rows() int {
	n := 0
	for _, t := range c.tables {
		n += t.Len()
	}
	return n
}

// collect fetches every source in concatenation order. Sources that fail are
// recorded on the result and skipped; only cancellation of ctx itself stops
// the run.
func (r *reconciler) collect(ctx context.Context, result *Result, srcs []sources.Source) ([]collected, error) {
	ordered := sources.Order(srcs)
	timer := startStage(StageLoad, len(ordered))
	logger := logging.FromContext(logging.WithStage(ctx, StageLoad.String()))

	out := make([]collected, 0, len(ordered))
	for _, src := range ordered {
		if err := ctx.Err(); err != nil {
			if err == context.DeadlineExceeded {
				return nil, &errors.TimeoutError{Operation: "reconcile", Message: err.Error()}
			}
			return nil, fmt.Errorf("%w: %v", errors.ErrCanceled, err)
		}

		tables, err := r.fetch(ctx, src)
		if err != nil {
			logger.Warn().Err(err).Str("source", src.ID().String()).Msg("Source failed to load")
			result.Errors = append(result.Errors, err)
			result.Warnings = append(result.Warnings, fmt.Sprintf("%s: %v", src.ID(), err))
			timer.fail(err)
		}
		if len(tables) == 0 {
			result.Metadata.Skipped = append(result.Metadata.Skipped, src.ID())
			continue
		}

		c := collected{id: src.ID(), tables: tables}
		logger.Info().
			Str("source", src.ID().String()).
			Int("tables", len(tables)).
			Int("rows", c.rows()).
			Msg("Loaded source")
		out = append(out, c)
	}

	result.Stages = append(result.Stages, timer.done(len(out)))
	return out, nil
}

// fetch runs one source under the fetch timeout and always cleans it up.
func (r *reconciler) fetch(ctx context.Context, src sources.Source) ([]*tabular.Table, error) {
	fetchCtx := logging.WithSource(ctx, src.ID().String())
	if timeout := sources.NewOptions(r.fetchOptions...).Timeout; timeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(fetchCtx, timeout)
		defer cancel()
	}
	defer func() {
		if err := src.Cleanup(); err != nil {
			logging.FromContext(fetchCtx).Debug().Err(err).Msg("Source cleanup failed")
		}
	}()

	err := src.Fetch(fetchCtx, r.fetchOptions...)
	if err != nil && !errors.IsSourceUnavailable(err) {
		err = errors.WrapSource(src.ID().String(), "", err)
	}
	return src.Tables(), err
}
