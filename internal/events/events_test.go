package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecord_WithCollector(t *testing.T) {
	ctx, collector := WithCollector(context.Background())

	Record(ctx, CartPickedUp{Token: "A"})
	Record(ctx, CustomerEnabled{Email: "oliver@queen.com"})

	got := collector.Events()
	assert.Len(t, got, 2)
	assert.Equal(t, "cart.picked_up", got[0].EventName())
	assert.Equal(t, "customer.enabled", got[1].EventName())
}

func TestRecord_WithoutCollectorDrops(t *testing.T) {
	assert.NotPanics(t, func() {
		Record(context.Background(), CartPickedUp{Token: "A"})
	})
}

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	_ = r.Publish(context.Background(), OrderCompleted{Token: "A"})
	_ = r.Publish(context.Background(), CartPickedUp{Token: "B"})

	assert.Equal(t, []string{"order.completed", "cart.picked_up"}, r.Names())
}

type failingPublisher struct{ err error }

func (f failingPublisher) Publish(context.Context, Event) error { return f.err }

func TestMulti(t *testing.T) {
	boom := errors.New("nats down")
	first, last := &Recorder{}, &Recorder{}

	err := Multi{first, failingPublisher{err: boom}, last}.Publish(context.Background(), CustomerEnabled{Email: "a@b.c"})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"customer.enabled"}, first.Names())
	assert.Equal(t, []string{"customer.enabled"}, last.Names())
}

func TestCollector_Nested(t *testing.T) {
	tests := []struct {
		name    string
		promote bool
		want    []string
	}{
		{name: "promoted", promote: true, want: []string{"cart.picked_up", "order.completed"}},
		{name: "discarded", promote: false, want: []string{"cart.picked_up"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, root := WithCollector(context.Background())
			Record(ctx, CartPickedUp{Token: "A"})

			inner, nested := WithCollector(ctx)
			Record(inner, OrderCompleted{Token: "A"})
			assert.True(t, root.Root())
			assert.False(t, nested.Root())
			assert.Len(t, root.Events(), 1, "nested events stay buffered until promoted")

			if tt.promote {
				nested.Promote()
			}

			var names []string
			for _, e := range root.Events() {
				names = append(names, e.EventName())
			}
			assert.Equal(t, tt.want, names)
		})
	}
}
