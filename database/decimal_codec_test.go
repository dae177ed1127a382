package database

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

type priced struct {
	Price decimal.Decimal `bson:"price"`
}

func TestDecimalCodec_StoresDecimal128(t *testing.T) {
	reg := NewRegistry()

	data, err := bson.MarshalWithRegistry(reg, priced{Price: decimal.RequireFromString("2160.50")})
	require.NoError(t, err)
	assert.Equal(t, bsontype.Decimal128, bson.Raw(data).Lookup("price").Type)

	var out priced
	require.NoError(t, bson.UnmarshalWithRegistry(reg, data, &out))
	assert.True(t, decimal.RequireFromString("2160.50").Equal(out.Price), "got %s", out.Price)
}

func TestDecimalCodec_DecodesLegacyTypes(t *testing.T) {
	reg := NewRegistry()

	tests := []struct {
		name string
		doc  bson.M
		want string
	}{
		{"double", bson.M{"price": 12.5}, "12.5"},
		{"int32", bson.M{"price": int32(7)}, "7"},
		{"int64", bson.M{"price": int64(1 << 40)}, "1099511627776"},
		{"string", bson.M{"price": "99.99"}, "99.99"},
		{"null", bson.M{"price": nil}, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := bson.Marshal(tt.doc)
			require.NoError(t, err)

			var out priced
			require.NoError(t, bson.UnmarshalWithRegistry(reg, data, &out))
			assert.True(t, decimal.RequireFromString(tt.want).Equal(out.Price), "got %s", out.Price)
		})
	}
}

func TestDecimalCodec_RejectsOtherTypes(t *testing.T) {
	data, err := bson.Marshal(bson.M{"price": true})
	require.NoError(t, err)

	var out priced
	assert.Error(t, bson.UnmarshalWithRegistry(NewRegistry(), data, &out))
}
