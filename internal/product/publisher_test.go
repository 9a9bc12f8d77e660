package product

import (
	"context"
	"testing"

	"github.com/Sokol111/ecommerce-price-sync/pkg/messaging/kafka/events"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	keys   []string
	events []events.Event
}

func (r *recordingPublisher) Publish(_ context.Context, key string, event events.Event) error {
	r.keys = append(r.keys, key)
	r.events = append(r.events, event)
	return nil
}

func TestPricePublisher_PublishPriceChange(t *testing.T) {
	t.Run("keys by product code", func(t *testing.T) {
		rec := &recordingPublisher{}
		err := newPricePublisher(rec).PublishPriceChange(context.Background(), "P100", decimal.RequireFromString("14.50"))
		require.NoError(t, err)

		require.Len(t, rec.events, 1)
		assert.Equal(t, []string{"P100"}, rec.keys)
		e := rec.events[0].(*ProductPriceChanged)
		assert.Equal(t, "P100", e.ProductCode)
		assert.Equal(t, PriceChangesTopic, e.GetTopic())
	})

	t.Run("rejects invalid changes", func(t *testing.T) {
		rec := &recordingPublisher{}
		err := newPricePublisher(rec).PublishPriceChange(context.Background(), "P100", decimal.RequireFromString("-1"))
		assert.ErrorIs(t, err, ErrNegativePrice)
		assert.Empty(t, rec.events)
	})

	t.Run("rejects prices beyond the schema precision", func(t *testing.T) {
		rec := &recordingPublisher{}
		err := newPricePublisher(rec).PublishPriceChange(context.Background(), "P100", decimal.RequireFromString("123456789012"))
		assert.ErrorIs(t, err, ErrPriceTooLarge)
		assert.Empty(t, rec.events)
	})
}
