// Package kodak implements a ledger valuation and performance-attribution
// engine for a multi-broker, multi-currency investment portfolio.
//
// The engine replays an immutable transaction journal to compute cost basis
// (weighted-average or FIFO), reconstructs total portfolio equity as of any
// date, resolves historical prices through a tiered fallback chain, solves
// for money-weighted return (XIRR), and decomposes profit into per-instrument
// contributions and currency effects.
//
// Everything is derived on demand from the ledger: holdings, snapshots and
// reports are computations, not stored state.
package kodak
