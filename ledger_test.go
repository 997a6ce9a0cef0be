package folio

import (
	"strings"
	"testing"
)

func TestLedger_ReplayOrder(t *testing.T) {
	l := NewLedger()
	l.Append(
		tx("2025-03-03", Dividend, "main", "POWL", 5, 0.25, 0, "USD"),
		tx("2025-03-03", Sell, "main", "POWL", 5, 165, 0, "USD"),
		tx("2025-01-01", Buy, "main", "AAPL", 1, 100, 0, "USD"),
		tx("2025-03-03", Buy, "main", "POWL", 5, 160, 0, "USD"),
	)

	var got []string
	for _, txn := range l.Transactions() {
		got = append(got, txn.Date.String()+" "+string(txn.Type))
	}
	want := []string{
		"2025-01-01 buy",
		"2025-03-03 buy",
		"2025-03-03 sell",
		"2025-03-03 dividend",
	}
	if len(got) != len(want) {
		t.Fatalf("got %d transactions, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestLedger_StableOnTies(t *testing.T) {
	// two buys on the same date keep their file order
	l := NewLedger()
	first := tx("2025-03-03", Buy, "main", "POWL", 5, 160, 0, "USD")
	first.Note = "first"
	second := tx("2025-03-03", Buy, "main", "POWL", 5, 161, 0, "USD")
	second.Note = "second"
	l.Append(first, second)

	var notes []string
	for _, txn := range l.Transactions() {
		notes = append(notes, txn.Note)
	}
	if len(notes) != 2 || notes[0] != "first" || notes[1] != "second" {
		t.Errorf("got order %v, want [first second]", notes)
	}
}

func TestLedger_Filters(t *testing.T) {
	l := NewLedger()
	l.Append(
		tx("2025-01-01", Buy, "a", "AAPL", 1, 100, 0, "USD"),
		tx("2025-01-02", Buy, "b", "MSFT", 1, 200, 0, "USD"),
		tx("2025-01-03", Sell, "a", "AAPL", 1, 110, 0, "USD"),
	)

	count := func(filters ...func(Transaction) bool) int {
		n := 0
		for range l.Transactions(filters...) {
			n++
		}
		return n
	}
	if got := count(BySymbol("aapl")); got != 2 {
		t.Errorf("BySymbol(aapl): got %d, want 2", got)
	}
	if got := count(ByAccount("b")); got != 1 {
		t.Errorf("ByAccount(b): got %d, want 1", got)
	}
	if got := count(ByType(Sell)); got != 1 {
		t.Errorf("ByType(sell): got %d, want 1", got)
	}
	if got := count(); got != 3 {
		t.Errorf("no filter: got %d, want 3", got)
	}
}

func TestLedger_Symbols(t *testing.T) {
	l := NewLedger()
	l.Append(
		tx("2025-01-01", Buy, "a", "MSFT", 1, 100, 0, "USD"),
		tx("2025-01-02", Buy, "a", "AAPL", 1, 100, 0, "USD"),
		tx("2025-01-03", Sell, "a", "AAPL", 1, 110, 0, "USD"),
	)
	l.SetWatchlist([]WatchItem{{Symbol: "ASML", Currency: "EUR"}})

	got := l.Symbols()
	want := []string{"AAPL", "ASML", "MSFT"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestLedger_ValidateReportsAllViolations(t *testing.T) {
	l := NewLedger()
	l.Append(
		tx("2025-01-01", Buy, "a", "AAPL", 0, 100, 0, "USD"),  // zero shares
		tx("2025-01-02", Buy, "a", "MSFT", 1, 100, 0, "USD"),  // fine
		tx("2025-01-03", Sell, "a", "AAPL", 1, 0, 0, "USD"),   // zero price
		tx("2025-01-04", Buy, "a", "GOOG", 1, 100, -1, "USD"), // negative fee
	)
	err := l.Validate()
	if err == nil {
		t.Fatal("got nil, want joined violations")
	}
	// all three faulty records are named, not just the first
	msg := err.Error()
	for _, symbol := range []string{"AAPL", "GOOG"} {
		if !strings.Contains(msg, symbol) {
			t.Errorf("violations do not mention %s: %v", symbol, msg)
		}
	}
}
