package folio

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// This file owns the portfolio file format: a single JSON document with the
// accounts, their transactions, and the watchlist. Decoding is permissive on
// dates and casing, encoding produces one canonical, diff-friendly form.

// jTransaction mirrors one transaction record of a portfolio file.
type jTransaction struct {
	Date     string          `json:"date"`
	Type     string          `json:"type"`
	Symbol   string          `json:"symbol"`
	Name     string          `json:"name"`
	Shares   decimal.Decimal `json:"shares"`
	Price    decimal.Decimal `json:"price"`
	Fee      decimal.Decimal `json:"fee"`
	Currency string          `json:"currency"`
	Note     string          `json:"note"`
}

// jAccount mirrors one account block of a portfolio file.
type jAccount struct {
	Name         string          `json:"account_name"`
	Currency     string          `json:"currency"`
	Cash         decimal.Decimal `json:"cash"`
	Transactions []jTransaction  `json:"transactions"`
}

type jWatchItem struct {
	Symbol   string `json:"symbol"`
	Currency string `json:"currency"`
}

type jLedger struct {
	Accounts  []jAccount   `json:"accounts"`
	Watchlist []jWatchItem `json:"watchlist"`
	UpdatedAt string       `json:"updated_at"`
}

// DecodeLedger reads a portfolio JSON document and returns the ledger in
// replay order. Records are checked only for what decoding needs; call
// [Ledger.Validate] for the full structural check.
func DecodeLedger(r io.Reader) (*Ledger, error) {
	var doc jLedger
	dec := json.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("cannot parse portfolio file: %w", err)
	}

	ledger := NewLedger()
	txs := make([]Transaction, 0, 64)
	for i, ja := range doc.Accounts {
		if strings.TrimSpace(ja.Name) == "" {
			return nil, fmt.Errorf("account #%d has no account_name", i)
		}
		currency := strings.ToUpper(strings.TrimSpace(ja.Currency))
		if currency == "" {
			return nil, fmt.Errorf("account %q has no currency", ja.Name)
		}
		account := Account{
			Name:     ja.Name,
			Currency: currency,
			Cash:     M(ja.Cash, currency),
		}
		ledger.AddAccount(account)

		for j, jt := range ja.Transactions {
			tx, err := decodeTransaction(jt, account)
			if err != nil {
				return nil, fmt.Errorf("account %q transaction #%d: %w", ja.Name, j, err)
			}
			txs = append(txs, tx)
		}
	}
	ledger.Append(txs...)

	for _, jw := range doc.Watchlist {
		if strings.TrimSpace(jw.Symbol) == "" {
			continue
		}
		ledger.watchlist = append(ledger.watchlist, WatchItem{
			Symbol:   strings.ToUpper(strings.TrimSpace(jw.Symbol)),
			Currency: strings.ToUpper(strings.TrimSpace(jw.Currency)),
		})
	}

	if strings.TrimSpace(doc.UpdatedAt) != "" {
		on, err := ParseLedgerDate(doc.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("invalid updated_at: %w", err)
		}
		ledger.updatedAt = on
	}
	return ledger, nil
}

// decodeTransaction builds a Transaction from its file form, inheriting the
// account's currency when the record does not state one.
func decodeTransaction(jt jTransaction, account Account) (Transaction, error) {
	on, err := ParseLedgerDate(jt.Date)
	if err != nil {
		return Transaction{}, err
	}
	typ, err := ParseTxType(jt.Type)
	if err != nil {
		return Transaction{}, err
	}
	if strings.TrimSpace(jt.Symbol) == "" {
		return Transaction{}, fmt.Errorf("missing symbol")
	}
	currency := strings.ToUpper(strings.TrimSpace(jt.Currency))
	if currency == "" {
		currency = account.Currency
	}
	tx := NewTransaction(on, typ, account.Name, jt.Symbol, Q(jt.Shares), M(jt.Price, currency), M(jt.Fee, currency))
	tx.Name = strings.TrimSpace(jt.Name)
	tx.Note = strings.TrimSpace(jt.Note)
	return tx, nil
}

// accountPayload couples an account with its own transactions for encoding.
type accountPayload struct {
	account Account
	txs     []Transaction
}

func (p accountPayload) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("account_name", p.account.Name)
	w.Append("currency", p.account.Currency)
	w.Append("cash", p.account.Cash.value)
	w.Append("transactions", p.txs)
	return w.MarshalJSON()
}

func (i WatchItem) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("symbol", i.Symbol)
	w.Optional("currency", i.Currency)
	return w.MarshalJSON()
}

// EncodeLedger writes the ledger back as a canonical portfolio document:
// stable key order, transactions in replay order under their own account,
// zero-padded dates, two-space indentation.
func EncodeLedger(w io.Writer, ledger *Ledger) error {
	ledger.stableSort()

	// Transactions under an account nobody declared cannot be placed in the
	// document and would silently vanish; refuse instead.
	for _, tx := range ledger.transactions {
		if _, ok := ledger.Account(tx.Account); !ok {
			return fmt.Errorf("account %q has transactions but no description", tx.Account)
		}
	}

	var doc jsonObjectWriter
	payloads := make([]accountPayload, 0, len(ledger.accounts))
	for _, account := range ledger.accounts {
		p := accountPayload{account: account}
		for _, tx := range ledger.transactions {
			if tx.Account == account.Name {
				p.txs = append(p.txs, tx)
			}
		}
		if p.txs == nil {
			p.txs = []Transaction{}
		}
		payloads = append(payloads, p)
	}
	doc.Append("accounts", payloads)
	if len(ledger.watchlist) > 0 {
		doc.Append("watchlist", ledger.watchlist)
	}
	if !ledger.updatedAt.IsZero() {
		doc.Append("updated_at", ledger.updatedAt.LedgerString())
	}

	raw, err := doc.MarshalJSON()
	if err != nil {
		return fmt.Errorf("cannot encode portfolio: %w", err)
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return fmt.Errorf("cannot encode portfolio: %w", err)
	}
	buf.WriteByte('\n')
	_, err = w.Write(buf.Bytes())
	return err
}
