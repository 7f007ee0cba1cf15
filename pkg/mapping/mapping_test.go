package mapping

import (
	"testing"
	"time"

	"github.com/chris/jastip-settlement/pkg/api"
	"github.com/chris/jastip-settlement/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToApiOrder(t *testing.T) {
	t.Run("Unassigned order omits the driver", func(t *testing.T) {
		o := ToApiOrder(&models.Order{Id: "o-1", Status: models.CONFIRMED})
		assert.Nil(t, o.DriverId)
		assert.Nil(t, o.DriverName)
		assert.Equal(t, api.CONFIRMED, o.Status)
	})

	t.Run("Assigned order carries the driver", func(t *testing.T) {
		o := ToApiOrder(&models.Order{Id: "o-1", DriverID: "driver-1", DriverName: "Budi"})
		require.NotNil(t, o.DriverId)
		assert.Equal(t, "driver-1", *o.DriverId)
		assert.Equal(t, "Budi", *o.DriverName)
	})
}

func TestToApiCheckout(t *testing.T) {
	resp := ToApiCheckout([]models.Order{
		{Id: "a", TotalChargedToBuyer: 21000},
		{Id: "b", TotalChargedToBuyer: 11000},
	})
	assert.Equal(t, int64(32000), resp.TotalCharged)
	require.Len(t, resp.Orders, 2)
	assert.Equal(t, "a", resp.Orders[0].Id)
}

func TestToDomainOrderFilter(t *testing.T) {
	seller := "seller-1"
	status := api.CONFIRMED
	unassigned := true

	f := ToDomainOrderFilter(api.ListOrdersParams{SellerId: &seller, Status: &status, Unassigned: &unassigned})
	assert.Equal(t, models.OrderFilter{SellerID: "seller-1", Status: models.CONFIRMED, Unassigned: true}, f)
	assert.Equal(t, models.OrderFilter{}, ToDomainOrderFilter(api.ListOrdersParams{}))
}

func TestToApiTransaction(t *testing.T) {
	now := time.Now()
	tx := ToApiTransaction(&models.Transaction{Id: "t", Kind: models.INCOME, Amount: 5, CreatedAt: now})
	assert.Nil(t, tx.Reference)
	assert.Equal(t, api.INCOME, tx.Kind)

	tx = ToApiTransaction(&models.Transaction{Id: "t", Reference: "order-1"})
	require.NotNil(t, tx.Reference)
	assert.Equal(t, "order-1", *tx.Reference)
}
