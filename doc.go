// Package folio implements a FIFO cost-basis and gain engine for a personal
// investment portfolio, together with the plumbing to feed it from a JSON
// ledger and live market data.
//
// The core functionalities include:
//   - Ledger Input: Decoding a portfolio description (accounts with their
//     buy, sell, and dividend transactions) from a single JSON document,
//     validating it, and re-encoding it in a canonical form.
//   - Lot Tracking: Maintaining the FIFO queue of open buy lots per
//     (account, symbol), with partial lot consumption and a full audit of
//     which lots each sale was matched against.
//   - Replay: A deterministic single pass over the ledger that rebuilds lot
//     state from scratch and emits one realized-sale record per sell.
//   - Gain Analysis: Realized summaries, unrealized gains on the remaining
//     open positions, and opportunity-cost comparisons of past sales against
//     holding to the present.
//   - Market Data: Quote and exchange-rate providers with per-run caching;
//     missing data degrades individual rows to an explicit unavailable
//     status instead of aborting or zero-filling.
//
// This package serves as the foundational logic for the `pfr` command-line
// tool, which renders the engine's output as markdown and CSV reports.
package folio
