package folio

import (
	"errors"
	"iter"
	"sort"
	"strings"
)

// Account carries the static description of one brokerage account: its
// display name, its base currency, and the uninvested cash balance the
// ledger file reports for it.
type Account struct {
	Name     string
	Currency string
	Cash     Money
}

// WatchItem is a symbol tracked for quotes without any position behind it.
type WatchItem struct {
	Symbol   string
	Currency string
}

// Ledger is the in-memory form of a portfolio file: account descriptions and
// the merged, replay-ordered list of their transactions. It is the single
// input of the engine; everything else is recomputed from it.
type Ledger struct {
	accounts     []Account
	transactions []Transaction
	watchlist    []WatchItem
	updatedAt    Date // zero when the file does not state it
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		transactions: make([]Transaction, 0),
	}
}

// AddAccount registers an account description. The first registration wins;
// duplicate names are ignored.
func (l *Ledger) AddAccount(a Account) {
	for _, existing := range l.accounts {
		if existing.Name == a.Name {
			return
		}
	}
	l.accounts = append(l.accounts, a)
}

// Account returns the description registered under name.
func (l *Ledger) Account(name string) (Account, bool) {
	for _, a := range l.accounts {
		if a.Name == name {
			return a, true
		}
	}
	return Account{}, false
}

// Accounts returns the account descriptions in file order.
func (l *Ledger) Accounts() []Account {
	out := make([]Account, len(l.accounts))
	copy(out, l.accounts)
	return out
}

// Watchlist returns the quote-only symbols in file order.
func (l *Ledger) Watchlist() []WatchItem {
	out := make([]WatchItem, len(l.watchlist))
	copy(out, l.watchlist)
	return out
}

// SetWatchlist replaces the quote-only symbols.
func (l *Ledger) SetWatchlist(items []WatchItem) { l.watchlist = items }

// UpdatedAt returns the date the ledger file declares itself current at.
func (l *Ledger) UpdatedAt() Date { return l.updatedAt }

// SetUpdatedAt records the date the ledger file declares itself current at.
func (l *Ledger) SetUpdatedAt(on Date) { l.updatedAt = on }

// Append adds transactions and restores the replay order.
func (l *Ledger) Append(txs ...Transaction) {
	l.transactions = append(l.transactions, txs...)
	l.stableSort()
}

// Len returns the number of transactions.
func (l *Ledger) Len() int { return len(l.transactions) }

// Transactions iterates transactions in replay order together with their
// replay index. With no filter every transaction is yielded; with filters a
// transaction is yielded when any filter accepts it.
func (l *Ledger) Transactions(filters ...func(Transaction) bool) iter.Seq2[int, Transaction] {
	return func(yield func(int, Transaction) bool) {
		for i, tx := range l.transactions {
			accept := len(filters) == 0
			for _, filter := range filters {
				if filter(tx) {
					accept = true
					break
				}
			}
			if !accept {
				continue
			}
			if !yield(i, tx) {
				return
			}
		}
	}
}

// BySymbol returns a predicate that filters transactions by symbol.
func BySymbol(symbol string) func(Transaction) bool {
	symbol = strings.ToUpper(symbol)
	return func(tx Transaction) bool { return tx.Symbol == symbol }
}

// ByAccount returns a predicate that filters transactions by account.
func ByAccount(account string) func(Transaction) bool {
	return func(tx Transaction) bool { return tx.Account == account }
}

// ByType returns a predicate that filters transactions by type.
func ByType(typ TxType) func(Transaction) bool {
	return func(tx Transaction) bool { return tx.Type == typ }
}

// stableSort restores the replay order: date ascending, and within one date
// buys before sells before dividends. The sort is stable, transactions
// otherwise keep their file order.
func (l *Ledger) stableSort() {
	sort.SliceStable(l.transactions, func(i, j int) bool {
		a, b := l.transactions[i], l.transactions[j]
		if a.Date != b.Date {
			return a.Date.Before(b.Date)
		}
		return a.Type.rank() < b.Type.rank()
	})
}

// OldestTransactionDate returns the date of the earliest transaction, or the
// zero date for an empty ledger.
func (l *Ledger) OldestTransactionDate() Date {
	if len(l.transactions) == 0 {
		return Date{}
	}
	return l.transactions[0].Date
}

// NewestTransactionDate returns the date of the latest transaction, or the
// zero date for an empty ledger.
func (l *Ledger) NewestTransactionDate() Date {
	if len(l.transactions) == 0 {
		return Date{}
	}
	return l.transactions[len(l.transactions)-1].Date
}

// Symbols returns every symbol that appears in transactions or on the
// watchlist, deduplicated, in alphabetical order.
func (l *Ledger) Symbols() []string {
	seen := make(map[string]struct{})
	for _, tx := range l.transactions {
		seen[tx.Symbol] = struct{}{}
	}
	for _, w := range l.watchlist {
		seen[strings.ToUpper(w.Symbol)] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Validate checks every transaction record and returns all violations joined,
// so a caller can list everything wrong with a file at once. A nil return
// does not guarantee the replay will succeed: sells exceeding their buy
// history are only detected while replaying.
func (l *Ledger) Validate() error {
	var errs error
	for i, tx := range l.transactions {
		if err := tx.Validate(); err != nil {
			var le *LedgerError
			if errors.As(err, &le) {
				le.Index = i
			}
			errs = errors.Join(errs, err)
		}
	}
	return errs
}
