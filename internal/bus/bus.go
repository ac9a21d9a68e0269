// Package bus routes commands to their handlers through a middleware chain.
package bus

import (
	"context"
	"errors"
	"fmt"

	"github.com/dukerupert/shopapi/internal/command"
)

// ErrNoHandler is returned when a command has no registered handler.
var ErrNoHandler = errors.New("no handler registered for command")

// HandlerFunc handles one command.
type HandlerFunc func(ctx context.Context, cmd command.Command) error

// Middleware decorates command handling.
type Middleware func(next HandlerFunc) HandlerFunc

// HandlerFailedError wraps the error returned by a command handler.
type HandlerFailedError struct {
	Command string
	Err     error
}

func (e *HandlerFailedError) Error() string {
	return fmt.Sprintf("handling %s failed: %v", e.Command, e.Err)
}

func (e *HandlerFailedError) Unwrap() error {
	return e.Err
}

// Bus dispatches commands synchronously. Handlers are registered once at
// startup; the bus is safe for concurrent dispatch afterwards.
type Bus struct {
	handlers   map[string]HandlerFunc
	middleware []Middleware
}

// New creates a bus. Middleware runs in the given order, the first one
// outermost.
func New(middleware ...Middleware) *Bus {
	return &Bus{
		handlers:   make(map[string]HandlerFunc),
		middleware: middleware,
	}
}

// Register binds the handler for commands of type C. Registering twice for
// the same command name panics.
func Register[C command.Command](b *Bus, handle func(ctx context.Context, cmd C) error) {
	var zero C
	name := zero.CommandName()
	if _, exists := b.handlers[name]; exists {
		panic("bus: duplicate handler for " + name)
	}

	b.handlers[name] = func(ctx context.Context, cmd command.Command) error {
		c, ok := cmd.(C)
		if !ok {
			return fmt.Errorf("bus: %s handler received %T", name, cmd)
		}
		return handle(ctx, c)
	}
}

// Dispatch runs the handler registered for cmd. Handler errors are wrapped
// in *HandlerFailedError.
func (b *Bus) Dispatch(ctx context.Context, cmd command.Command) error {
	name := cmd.CommandName()
	handler, ok := b.handlers[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoHandler, name)
	}

	for i := len(b.middleware) - 1; i >= 0; i-- {
		handler = b.middleware[i](handler)
	}

	if err := handler(ctx, cmd); err != nil {
		return &HandlerFailedError{Command: name, Err: err}
	}
	return nil
}
