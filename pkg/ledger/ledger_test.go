package ledger

import (
	"fmt"
	"testing"
	"time"

	"github.com/chris/jastip-settlement/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("tx-%03d", n)
	}
}

func TestCreditAndDebit(t *testing.T) {
	t.Run("Credit", func(t *testing.T) {
		p, err := Credit("seller-1", models.INCOME, 18000, "sale", "order-1")
		require.NoError(t, err)
		assert.Equal(t, models.Posting{AccountID: "seller-1", Kind: models.INCOME, Amount: 18000, Description: "sale", Reference: "order-1"}, p)
	})

	t.Run("Zero amount", func(t *testing.T) {
		_, err := Credit("seller-1", models.INCOME, 0, "sale", "")
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})

	t.Run("Negative debit", func(t *testing.T) {
		_, err := Debit("buyer-1", models.PAYMENT, -5, "checkout", "")
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})

	t.Run("Wrong direction", func(t *testing.T) {
		_, err := Credit("buyer-1", models.PAYMENT, 10, "checkout", "")
		assert.Error(t, err)
		_, err = Debit("buyer-1", models.TOPUP, 10, "top-up", "")
		assert.Error(t, err)
	})
}

func TestTransfer(t *testing.T) {
	t.Run("Pair", func(t *testing.T) {
		postings, err := Transfer("a", "b", 500, "gift", "")
		require.NoError(t, err)
		require.Len(t, postings, 2)
		assert.Equal(t, models.TRANSFER, postings[0].Kind)
		assert.Equal(t, "a", postings[0].AccountID)
		assert.Equal(t, models.INCOME, postings[1].Kind)
		assert.Equal(t, "b", postings[1].AccountID)
	})

	t.Run("Self transfer", func(t *testing.T) {
		_, err := Transfer("a", "a", 500, "gift", "")
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})
}

func TestNetDeltasAndAccountOrder(t *testing.T) {
	now := time.Now()
	entries := Entries([]models.Posting{
		{AccountID: "platform", Kind: models.INCOME, Amount: 2000},
		{AccountID: "driver", Kind: models.INCOME, Amount: 10000},
		{AccountID: "platform", Kind: models.INCOME, Amount: 2000},
		{AccountID: "driver", Kind: models.PAYMENT, Amount: 1000},
	}, now, sequentialIDs())

	deltas := NetDeltas(entries)
	assert.Equal(t, int64(4000), deltas["platform"])
	assert.Equal(t, int64(9000), deltas["driver"])
	assert.Equal(t, []string{"driver", "platform"}, AccountOrder(entries))

	for _, e := range entries {
		assert.Equal(t, now, e.CreatedAt)
		assert.NotEmpty(t, e.Id)
	}
}

func TestReplayAndVerify(t *testing.T) {
	entries := Entries([]models.Posting{
		{AccountID: "buyer-1", Kind: models.TOPUP, Amount: 100000},
		{AccountID: "buyer-1", Kind: models.PAYMENT, Amount: 32000},
		{AccountID: "buyer-1", Kind: models.TRANSFER, Amount: 8000},
		{AccountID: "buyer-1", Kind: models.INCOME, Amount: 500},
		{AccountID: "buyer-1", Kind: models.WITHDRAW, Amount: 10000},
	}, time.Now(), sequentialIDs())

	assert.Equal(t, int64(50500), Replay(entries))

	t.Run("Matches", func(t *testing.T) {
		assert.NoError(t, Verify(&models.Account{AccountID: "buyer-1", Balance: 50500}, entries))
	})

	t.Run("Mismatch", func(t *testing.T) {
		err := Verify(&models.Account{AccountID: "buyer-1", Balance: 60000}, entries)
		assert.ErrorIs(t, err, ErrBalanceMismatch)
		assert.Contains(t, err.Error(), "replays to 50500")
	})
}

func TestSortNewestFirst(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	entries := []models.Transaction{
		{Id: "a", CreatedAt: base},
		{Id: "c", CreatedAt: base.Add(2 * time.Minute)},
		{Id: "b", CreatedAt: base.Add(time.Minute)},
	}
	SortNewestFirst(entries)
	assert.Equal(t, "c", entries[0].Id)
	assert.Equal(t, "b", entries[1].Id)
	assert.Equal(t, "a", entries[2].Id)
}
