package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToOrderStatus(t *testing.T) {
	for _, s := range []string{"Processing", "Shipped", "Delivered", "Cancelled"} {
		got, err := ToOrderStatus(s)
		require.NoError(t, err)
		assert.Equal(t, OrderStatus(s), got)
	}

	_, err := ToOrderStatus("processing")
	assert.ErrorIs(t, err, ErrInvalidOrderStatus)
	_, err = ToOrderStatus("")
	assert.ErrorIs(t, err, ErrInvalidOrderStatus)
}

func TestToDeliveryType(t *testing.T) {
	got, err := ToDeliveryType("Express")
	require.NoError(t, err)
	assert.Equal(t, DeliveryExpress, got)

	_, err = ToDeliveryType("Overnight")
	assert.ErrorIs(t, err, ErrInvalidDeliveryType)
}

func TestDeliveryType_LeadTime(t *testing.T) {
	assert.Equal(t, 24*time.Hour, DeliveryExpress.LeadTime())
	assert.Greater(t, DeliveryStandard.LeadTime(), DeliveryExpress.LeadTime())
}
