package folio

import (
	"sort"
)

// positionKey identifies one (account, symbol) lot queue.
type positionKey struct {
	account string
	symbol  string
}

// Tracker owns the FIFO queues of open buy lots, one per (account, symbol).
// It is an explicit instance rebuilt by every replay and holds no state that
// cannot be recomputed from the ledger. Queues are independent: two trackers
// over disjoint (account, symbol) sets never share mutable state.
type Tracker struct {
	queues map[positionKey]*lotQueue
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{queues: make(map[positionKey]*lotQueue)}
}

// OpenLot records an acquisition of shares at a unit cost (fee already
// allocated). Insertion keeps the queue ordered by open date even when the
// caller feeds dates out of order; equal dates keep ingestion order. Fails
// with ErrInvalidQuantity when shares is not positive.
func (t *Tracker) OpenLot(account, symbol string, on Date, shares Quantity, unitCost Money) error {
	if !shares.IsPositive() {
		return ledgerFault(ErrInvalidQuantity, account, symbol, on,
			"cannot open a lot of %s shares", shares)
	}
	key := positionKey{account, symbol}
	q := t.queues[key]
	if q == nil {
		q = &lotQueue{}
		t.queues[key] = q
	}
	q.open(on, shares, unitCost)
	return nil
}

// ConsumeShares removes shares from the front of the (account, symbol) queue,
// oldest lot first, crossing lots as needed, and returns the ordered list of
// matched lots summing exactly to the request. Only shares bought on or
// before the sale date are eligible. When the queue cannot cover the request
// it is left untouched and ErrInsufficientShares is returned: a sell of
// shares never bought means the ledger is broken, it is never clamped into a
// short position.
func (t *Tracker) ConsumeShares(account, symbol string, on Date, shares Quantity) ([]MatchedLot, error) {
	if !shares.IsPositive() {
		return nil, ledgerFault(ErrInvalidQuantity, account, symbol, on,
			"cannot sell %s shares", shares)
	}
	q := t.queues[positionKey{account, symbol}]
	if q == nil {
		return nil, ledgerFault(ErrInsufficientShares, account, symbol, on,
			"no prior buy activity")
	}
	if have := q.held(on); have.LessThan(shares) {
		return nil, ledgerFault(ErrInsufficientShares, account, symbol, on,
			"want %s shares, have %s", shares, have)
	}
	return q.consume(on, shares), nil
}

// SharesHeld returns the total shares remaining for (account, symbol).
func (t *Tracker) SharesHeld(account, symbol string) Quantity {
	q := t.queues[positionKey{account, symbol}]
	if q == nil {
		return Quantity{}
	}
	return q.heldTotal()
}

// OpenPosition is the read-only view of the still-open lots of one
// (account, symbol): total shares held and, when every open lot shares one
// currency, the aggregate cost basis and weighted average unit cost. A
// position whose lots mix currencies reports MixedCurrency instead; its cost
// can only be aggregated after conversion.
type OpenPosition struct {
	Account       string
	Symbol        string
	Name          string // display name, filled by the replay
	Lots          []Lot
	Shares        Quantity
	CostBasis     Money
	AvgCost       Money
	MixedCurrency bool
}

// snapshot derives the open position from a queue.
func snapshot(account, symbol string, q *lotQueue) OpenPosition {
	p := OpenPosition{Account: account, Symbol: symbol, Lots: q.openLots()}
	for _, l := range p.Lots {
		p.Shares = p.Shares.Add(l.SharesRemaining)
	}
	if len(p.Lots) == 0 {
		return p
	}
	currency := p.Lots[0].Currency()
	for _, l := range p.Lots {
		if l.Currency() != currency {
			p.MixedCurrency = true
			return p
		}
	}
	for _, l := range p.Lots {
		p.CostBasis = p.CostBasis.Add(l.Cost())
	}
	p.AvgCost = p.CostBasis.Div(p.Shares)
	return p
}

// OpenPosition returns the current snapshot for (account, symbol). The bool
// is false when that pair never had a lot.
func (t *Tracker) OpenPosition(account, symbol string) (OpenPosition, bool) {
	q := t.queues[positionKey{account, symbol}]
	if q == nil {
		return OpenPosition{}, false
	}
	return snapshot(account, symbol, q), true
}

// Positions returns every position still holding shares, sorted by account
// then symbol so output is deterministic.
func (t *Tracker) Positions() []OpenPosition {
	keys := make([]positionKey, 0, len(t.queues))
	for k := range t.queues {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].account != keys[j].account {
			return keys[i].account < keys[j].account
		}
		return keys[i].symbol < keys[j].symbol
	})

	var out []OpenPosition
	for _, k := range keys {
		p := snapshot(k.account, k.symbol, t.queues[k])
		if p.Shares.IsPositive() {
			out = append(out, p)
		}
	}
	return out
}
