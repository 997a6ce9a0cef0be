package folio

import (
	"sort"
)

// Lot is a discrete acquisition of shares. It keeps its own cost basis until
// fully consumed by later sales, and is never resurrected.
type Lot struct {
	OpenDate        Date
	SharesRemaining Quantity
	UnitCost        Money // per share, allocated fee included, in the lot's original currency
	seq             int   // ingestion order, breaks open-date ties
}

// Currency returns the lot's original currency.
func (l Lot) Currency() string { return l.UnitCost.Currency() }

// Cost is the remaining cost basis of the lot: shares remaining times unit cost.
func (l Lot) Cost() Money { return l.UnitCost.Mul(l.SharesRemaining) }

// MatchedLot records the part of one lot a sale consumed.
type MatchedLot struct {
	OpenDate    Date
	SharesTaken Quantity
	UnitCost    Money
}

// Cost is the matched cost basis: shares taken times unit cost.
func (m MatchedLot) Cost() Money { return m.UnitCost.Mul(m.SharesTaken) }

func (m MatchedLot) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("open_date", m.OpenDate)
	w.Append("shares_taken", m.SharesTaken)
	w.Append("unit_cost", m.UnitCost)
	return w.MarshalJSON()
}

// lotQueue is the FIFO sequence of lots of one (account, symbol): open date
// ascending, ingestion order on ties. Exhausted lots stay behind with zero
// shares so the full acquisition history remains auditable.
type lotQueue struct {
	lots []Lot
	seq  int
}

// open inserts a new lot preserving date order. Among lots of equal date the
// newly ingested one goes last.
func (q *lotQueue) open(on Date, shares Quantity, unitCost Money) {
	q.seq++
	l := Lot{OpenDate: on, SharesRemaining: shares, UnitCost: unitCost, seq: q.seq}
	i := sort.Search(len(q.lots), func(i int) bool { return q.lots[i].OpenDate.After(on) })
	q.lots = append(q.lots, Lot{})
	copy(q.lots[i+1:], q.lots[i:])
	q.lots[i] = l
}

// held returns the shares available on a date: the sum of shares remaining in
// lots opened on or before it.
func (q *lotQueue) held(on Date) Quantity {
	var total Quantity
	for _, l := range q.lots {
		if l.OpenDate.After(on) {
			break
		}
		total = total.Add(l.SharesRemaining)
	}
	return total
}

// heldTotal returns all shares remaining in the queue regardless of date.
func (q *lotQueue) heldTotal() Quantity {
	var total Quantity
	for _, l := range q.lots {
		total = total.Add(l.SharesRemaining)
	}
	return total
}

// consume removes shares from the front of the queue, oldest open date first,
// crossing as many lots as needed and zero-filling the exhausted ones. Only
// lots opened on or before the sale date are eligible. The queue is checked
// before it is touched: when it cannot cover the request it is left intact
// and the matched list is nil.
func (q *lotQueue) consume(on Date, shares Quantity) []MatchedLot {
	if q.held(on).LessThan(shares) {
		return nil
	}
	var matched []MatchedLot
	remaining := shares
	for i := range q.lots {
		if remaining.IsZero() {
			break
		}
		l := &q.lots[i]
		if l.OpenDate.After(on) {
			break
		}
		if l.SharesRemaining.IsZero() {
			continue
		}
		take := l.SharesRemaining
		if remaining.LessThan(take) {
			take = remaining
		}
		matched = append(matched, MatchedLot{OpenDate: l.OpenDate, SharesTaken: take, UnitCost: l.UnitCost})
		l.SharesRemaining = l.SharesRemaining.Sub(take)
		remaining = remaining.Sub(take)
	}
	return matched
}

// openLots returns a copy of the lots still holding shares, FIFO order.
func (q *lotQueue) openLots() []Lot {
	var out []Lot
	for _, l := range q.lots {
		if l.SharesRemaining.IsPositive() {
			out = append(out, l)
		}
	}
	return out
}
