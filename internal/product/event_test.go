package product

import (
	"math/big"
	"testing"
	"time"

	"github.com/Sokol111/ecommerce-price-sync/pkg/messaging/kafka/avro"
	"github.com/Sokol111/ecommerce-price-sync/pkg/messaging/kafka/events"
	"github.com/confluentinc/confluent-kafka-go/v2/schemaregistry"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductPriceChanged_WireRoundTrip(t *testing.T) {
	client, err := schemaregistry.NewClient(schemaregistry.NewConfig("mock://"))
	require.NoError(t, err)
	registry := avro.NewSchemaRegistry(client, true)
	eventRegistry := events.NewEventRegistry()
	eventRegistry.Register(newPriceChangedEvent)

	in := NewProductPriceChanged("P100", decimal.RequireFromString("14.50"))
	in.Metadata = events.EventMetadata{
		EventID:   "3f1c",
		EventType: "ProductPriceChanged",
		Source:    "price-sync",
		Timestamp: time.UnixMilli(1_760_000_000_000).UTC(),
	}

	data, err := avro.NewSerializer(registry).Serialize(in)
	require.NoError(t, err)

	out, err := avro.NewDeserializer(registry, eventRegistry).Deserialize(data)
	require.NoError(t, err)

	got, ok := out.(*ProductPriceChanged)
	require.True(t, ok)
	assert.Equal(t, "P100", got.ProductCode)
	assert.Equal(t, in.Metadata.EventID, got.Metadata.EventID)
	assert.True(t, in.Metadata.Timestamp.Equal(got.Metadata.Timestamp))

	price, err := got.Decimal()
	require.NoError(t, err)
	assert.True(t, price.Equal(decimal.RequireFromString("14.5")))

	subjects, err := client.GetAllSubjects()
	require.NoError(t, err)
	assert.Contains(t, subjects, PriceChangesTopic+"-value")
}

func TestProductPriceChanged_Decimal(t *testing.T) {
	e := &ProductPriceChanged{Price: big.NewRat(1999, 100)}
	d, err := e.Decimal()
	require.NoError(t, err)
	assert.Equal(t, "19.99", d.StringFixed(PriceScale))

	_, err = (&ProductPriceChanged{}).Decimal()
	assert.Error(t, err)
}

func TestNewProductPriceChanged_RoundsToScale(t *testing.T) {
	e := NewProductPriceChanged("P1", decimal.RequireFromString("10.005"))
	assert.Equal(t, "10.01", e.Price.FloatString(PriceScale))
}
