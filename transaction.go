package folio

import (
	"fmt"
	"strings"
)

// TxType is a typed string identifying the kind of a ledger transaction.
type TxType string

const (
	Buy      TxType = "buy"
	Sell     TxType = "sell"
	Dividend TxType = "dividend"
)

// ParseTxType parses the `type` field of a ledger record.
func ParseTxType(s string) (TxType, error) {
	switch t := TxType(strings.ToLower(strings.TrimSpace(s))); t {
	case Buy, Sell, Dividend:
		return t, nil
	default:
		return "", fmt.Errorf("unknown transaction type %q", s)
	}
}

// rank orders transactions falling on the same date: buys apply before sells
// so a sale may draw on same-day purchases, dividends settle last.
func (t TxType) rank() int {
	switch t {
	case Buy:
		return 0
	case Sell:
		return 1
	case Dividend:
		return 2
	default:
		return 3
	}
}

// Transaction is one immutable ledger record. Buys and sells move shares,
// dividends only contribute to the income ledger.
type Transaction struct {
	Date    Date
	Type    TxType
	Account string
	Symbol  string // case-normalized to upper
	Name    string
	Shares  Quantity
	Price   Money // per share, in the transaction currency
	Fee     Money // >= 0, same currency as Price
	Note    string
}

// NewTransaction builds a record with a normalized symbol. The fee is carried
// in the transaction currency whatever currency it was built with.
func NewTransaction(on Date, typ TxType, account, symbol string, shares Quantity, price, fee Money) Transaction {
	return Transaction{
		Date:    on,
		Type:    typ,
		Account: account,
		Symbol:  strings.ToUpper(strings.TrimSpace(symbol)),
		Shares:  shares,
		Price:   price,
		Fee:     Money{value: fee.value, cur: price.cur},
	}
}

// Currency returns the transaction currency.
func (t Transaction) Currency() string { return t.Price.Currency() }

// GrossAmount is shares times price, before fees.
func (t Transaction) GrossAmount() Money { return t.Price.Mul(t.Shares) }

// UnitCost is the acquisition cost per share of a buy, with the fee allocated
// over the shares: (shares*price + fee) / shares.
func (t Transaction) UnitCost() Money {
	return t.GrossAmount().Add(t.Fee).Div(t.Shares)
}

// NetProceeds is what a sell actually yields: shares*price - fee.
func (t Transaction) NetProceeds() Money { return t.GrossAmount().Sub(t.Fee) }

// CashAmount is the cash a dividend pays out: shares*price - fee, where price
// is the per-share distribution and fee covers withholding.
func (t Transaction) CashAmount() Money { return t.GrossAmount().Sub(t.Fee) }

// Validate checks the record's own fields. Buys and sells must carry positive
// shares and price; fees are never negative.
func (t Transaction) Validate() error {
	switch t.Type {
	case Buy, Sell:
		if !t.Shares.IsPositive() {
			return ledgerFault(ErrInvalidQuantity, t.Account, t.Symbol, t.Date,
				"%s shares must be positive, got %s", t.Type, t.Shares)
		}
		if !t.Price.IsPositive() {
			return ledgerFault(ErrInvalidQuantity, t.Account, t.Symbol, t.Date,
				"%s price must be positive, got %s", t.Type, t.Price)
		}
	case Dividend:
		if t.Shares.IsNegative() || t.Price.IsNegative() {
			return ledgerFault(ErrInvalidQuantity, t.Account, t.Symbol, t.Date,
				"dividend shares and price must not be negative, got %s at %s", t.Shares, t.Price)
		}
	default:
		return ledgerFault(ErrInvalidQuantity, t.Account, t.Symbol, t.Date,
			"unknown transaction type %q", string(t.Type))
	}
	if t.Fee.IsNegative() {
		return ledgerFault(ErrInvalidQuantity, t.Account, t.Symbol, t.Date,
			"fee must not be negative, got %s", t.Fee)
	}
	return nil
}

// Equal reports field-wise equality.
func (t Transaction) Equal(u Transaction) bool {
	return t.Date == u.Date &&
		t.Type == u.Type &&
		t.Account == u.Account &&
		t.Symbol == u.Symbol &&
		t.Name == u.Name &&
		t.Shares.Equal(u.Shares) &&
		t.Price.Equal(u.Price) &&
		t.Fee.Equal(u.Fee) &&
		t.Note == u.Note
}

// MarshalJSON emits the ledger-file shape of the record. The owning account
// is positional in ledger files and not repeated here.
func (t Transaction) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("date", t.Date.LedgerString())
	w.Append("type", string(t.Type))
	w.Append("symbol", t.Symbol)
	w.Optional("name", t.Name)
	w.Append("shares", t.Shares)
	w.Append("price", t.Price.value)
	w.Append("fee", t.Fee.value)
	w.Append("currency", t.Currency())
	w.Optional("note", t.Note)
	return w.MarshalJSON()
}
