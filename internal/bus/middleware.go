package bus

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/dukerupert/shopapi/internal/command"
	"github.com/dukerupert/shopapi/internal/domain"
	"github.com/dukerupert/shopapi/internal/events"
	"github.com/dukerupert/shopapi/internal/telemetry"
)

// Logging logs every handled command with the logger found in the context,
// falling back to logger. Internal failures are logged at error level, the
// others at warn.
func Logging(logger zerolog.Logger) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, cmd command.Command) error {
			l := loggerFrom(ctx, logger)
			start := time.Now()

			err := next(ctx, cmd)

			if err != nil {
				event := l.Warn()
				if domain.IsCode(err, domain.EINTERNAL) {
					event = l.Error()
				}
				event.
					Str("command", cmd.CommandName()).
					Dur("duration", time.Since(start)).
					Str("code", domain.ErrorCode(err)).
					Err(err).
					Msg("command failed")
				return err
			}

			l.Debug().
				Str("command", cmd.CommandName()).
				Dur("duration", time.Since(start)).
				Msg("command handled")
			return nil
		}
	}
}

// Metrics records the outcome and latency of every command.
func Metrics(m *telemetry.BusinessMetrics) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, cmd command.Command) error {
			start := time.Now()
			err := next(ctx, cmd)
			m.ObserveCommand(cmd.CommandName(), start, err)
			return err
		}
	}
}

// PublishEvents collects the events recorded by the handler and publishes
// them once the handler succeeded. Inside a UnitOfWork the events are handed
// to it instead and leave after its commit. Publishing failures are logged;
// the command's changes are already committed at that point.
func PublishEvents(publisher events.Publisher, logger zerolog.Logger) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, cmd command.Command) error {
			ctx, collector := events.WithCollector(ctx)

			if err := next(ctx, cmd); err != nil {
				return err
			}

			if !collector.Root() {
				collector.Promote()
				return nil
			}
			l := loggerFrom(ctx, logger).With().Str("command", cmd.CommandName()).Logger()
			publishAll(ctx, publisher, collector, l)
			return nil
		}
	}
}

func publishAll(ctx context.Context, publisher events.Publisher, collector *events.Collector, logger zerolog.Logger) {
	for _, e := range collector.Events() {
		if err := publisher.Publish(ctx, e); err != nil {
			logger.Error().
				Err(err).
				Str("event", e.EventName()).
				Msg("failed to publish event")
		}
	}
}

// Transactional runs every handler inside a unit of work.
func Transactional(tx domain.Transactor) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, cmd command.Command) error {
			return tx.WithinTx(ctx, func(ctx context.Context) error {
				return next(ctx, cmd)
			})
		}
	}
}

// UnitOfWork runs several dispatches in one transaction. Events recorded by
// their handlers are published after the transaction commits and dropped
// when it rolls back.
type UnitOfWork struct {
	tx        domain.Transactor
	publisher events.Publisher
	logger    zerolog.Logger
}

// NewUnitOfWork creates a unit of work. publisher should be the one given to
// PublishEvents.
func NewUnitOfWork(tx domain.Transactor, publisher events.Publisher, logger zerolog.Logger) *UnitOfWork {
	return &UnitOfWork{tx: tx, publisher: publisher, logger: logger}
}

// Run calls fn inside the transaction. A nested Run joins the outer one.
func (u *UnitOfWork) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	ctx, collector := events.WithCollector(ctx)

	if err := u.tx.WithinTx(ctx, fn); err != nil {
		return err
	}

	if !collector.Root() {
		collector.Promote()
		return nil
	}
	publishAll(ctx, u.publisher, collector, *loggerFrom(ctx, u.logger))
	return nil
}

func loggerFrom(ctx context.Context, fallback zerolog.Logger) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &fallback
}
