package inventory

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lot(amount, price int64) Lot {
	return Lot{Amount: decimal.NewFromInt(amount), Price: decimal.NewFromInt(price)}
}

func TestLotQueueFIFO(t *testing.T) {
	t.Parallel()

	var q LotQueue
	assert.True(t, q.Empty())

	for i := int64(1); i <= 10; i++ {
		q.PushBack(lot(i, i*10))
	}
	assert.Equal(t, 10, q.Len())
	assert.True(t, decimal.NewFromInt(55).Equal(q.Total()))

	for i := int64(1); i <= 6; i++ {
		got := q.PopFront()
		assert.True(t, decimal.NewFromInt(i).Equal(got.Amount))
	}

	// wrap around the ring
	for i := int64(11); i <= 14; i++ {
		q.PushBack(lot(i, i*10))
	}
	require.Equal(t, 8, q.Len())

	var amounts []int64
	for _, l := range q.Lots() {
		amounts = append(amounts, l.Amount.IntPart())
	}
	assert.Equal(t, []int64{7, 8, 9, 10, 11, 12, 13, 14}, amounts)
}

func TestLotQueueFrontInPlace(t *testing.T) {
	t.Parallel()

	var q LotQueue
	q.PushBack(lot(5, 100))
	q.PushBack(lot(3, 110))

	q.Front().Amount = decimal.NewFromInt(2)
	assert.True(t, decimal.NewFromInt(5).Equal(q.Total()))

	first := q.PopFront()
	assert.True(t, decimal.NewFromInt(2).Equal(first.Amount))
	assert.True(t, decimal.NewFromInt(110).Equal(q.Front().Price))
}

func TestLotQueueEmptyPanics(t *testing.T) {
	t.Parallel()

	var q LotQueue
	assert.Panics(t, func() { q.PopFront() })
	assert.Panics(t, func() { q.Front() })
}
