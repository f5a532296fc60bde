package inventory

import "github.com/shopspring/decimal"

// Lot is an open quantity acquired at one entry price.
type Lot struct {
	Amount decimal.Decimal
	Price  decimal.Decimal
}

// LotQueue is a FIFO of lots backed by a ring buffer. PushBack and
// PopFront are O(1) amortized. The zero value is an empty queue.
type LotQueue struct {
	buf  []Lot
	head int
	n    int
}

// Len returns the number of lots in the queue.
func (q *LotQueue) Len() int { return q.n }

// Empty reports whether the queue holds no lot.
func (q *LotQueue) Empty() bool { return q.n == 0 }

// PushBack appends a lot as the newest entry.
func (q *LotQueue) PushBack(l Lot) {
	if q.n == len(q.buf) {
		q.grow()
	}
	q.buf[(q.head+q.n)%len(q.buf)] = l
	q.n++
}

// Front returns a pointer to the oldest lot so it can be reduced in place.
// It panics on an empty queue.
func (q *LotQueue) Front() *Lot {
	if q.n == 0 {
		panic("inventory: Front on empty LotQueue")
	}
	return &q.buf[q.head]
}

// PopFront removes and returns the oldest lot. It panics on an empty queue.
func (q *LotQueue) PopFront() Lot {
	if q.n == 0 {
		panic("inventory: PopFront on empty LotQueue")
	}
	l := q.buf[q.head]
	q.buf[q.head] = Lot{}
	q.head = (q.head + 1) % len(q.buf)
	q.n--
	if q.n == 0 {
		q.head = 0
	}
	return l
}

// Each calls fn for every lot, oldest first.
func (q *LotQueue) Each(fn func(Lot)) {
	for i := 0; i < q.n; i++ {
		fn(q.buf[(q.head+i)%len(q.buf)])
	}
}

// Lots returns a copy of the lots, oldest first.
func (q *LotQueue) Lots() []Lot {
	out := make([]Lot, 0, q.n)
	q.Each(func(l Lot) { out = append(out, l) })
	return out
}

// Total is the sum of the lot amounts.
func (q *LotQueue) Total() decimal.Decimal {
	sum := decimal.Zero
	q.Each(func(l Lot) { sum = sum.Add(l.Amount) })
	return sum
}

func (q *LotQueue) grow() {
	size := len(q.buf) * 2
	if size == 0 {
		size = 4
	}
	buf := make([]Lot, size)
	for i := 0; i < q.n; i++ {
		buf[i] = q.buf[(q.head+i)%len(q.buf)]
	}
	q.buf = buf
	q.head = 0
}
