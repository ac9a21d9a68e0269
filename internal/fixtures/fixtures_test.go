package fixtures

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	d, err := Default()
	require.NoError(t, err)

	assert.Len(t, d.Channels, 2)
	assert.Equal(t, "WEB_GB", d.Channels[0].Code)
	assert.Equal(t, "GBP", d.Channels[0].BaseCurrency)

	require.NotEmpty(t, d.Products)
	mug := d.Products[0]
	assert.Equal(t, "LOGAN_MUG_CODE", mug.Code)
	assert.True(t, mug.IsSimple())
	assert.Equal(t, int64(1999), mug.Variants[0].Prices["WEB_GB"])

	var pineapple bool
	for _, p := range d.Promotions {
		if p.Code == "PINEAPPLE_PROMOTION" {
			pineapple = true
			require.NotNil(t, p.EndsAt)
			assert.Equal(t, 2020, p.EndsAt.Year())
		}
	}
	assert.True(t, pineapple)

	require.NotEmpty(t, d.Customers)
	assert.Equal(t, "oliver@queen.com", d.Customers[0].Email)
	assert.Len(t, d.Customers[0].Addresses, 1)
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(strings.NewReader("channels: [unterminated"))
	assert.Error(t, err)
}
