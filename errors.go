package folio

import (
	"errors"
	"fmt"
)

// Structural faults mean the transaction history itself is logically broken:
// results computed from it would be silently wrong, so they are surfaced to
// the caller and never auto-corrected. Availability faults only mean live
// data is missing for one item; they degrade that item's output entry to an
// explicit unavailable status and never abort a run.
var (
	// ErrInvalidQuantity flags a buy or sell carrying non-positive shares or price.
	ErrInvalidQuantity = errors.New("invalid quantity")
	// ErrInsufficientShares flags a sell of more shares than the open lots hold.
	ErrInsufficientShares = errors.New("insufficient shares")
	// ErrMalformedLedger flags a sell that exceeds or precedes its buy history.
	ErrMalformedLedger = errors.New("malformed ledger")
	// ErrQuoteUnavailable reports that no quote could be obtained for a symbol.
	ErrQuoteUnavailable = errors.New("quote unavailable")
	// ErrRateUnavailable reports that no exchange rate could be obtained for a currency pair.
	ErrRateUnavailable = errors.New("exchange rate unavailable")
)

// LedgerError locates a structural fault in the transaction history.
type LedgerError struct {
	Account string
	Symbol  string
	Date    Date
	Index   int // position in replay order, -1 when not known
	Reason  string
	Err     error // one of the structural sentinels
}

func (e *LedgerError) Error() string {
	pos := ""
	if e.Index >= 0 {
		pos = fmt.Sprintf(" (transaction #%d)", e.Index)
	}
	return fmt.Sprintf("%v on %s %s/%s%s: %s", e.Err, e.Date, e.Account, e.Symbol, pos, e.Reason)
}

func (e *LedgerError) Unwrap() error { return e.Err }

// ledgerFault builds a LedgerError with an unknown replay position.
func ledgerFault(sentinel error, account, symbol string, on Date, format string, args ...any) *LedgerError {
	return &LedgerError{
		Account: account,
		Symbol:  symbol,
		Date:    on,
		Index:   -1,
		Reason:  fmt.Sprintf(format, args...),
		Err:     sentinel,
	}
}
