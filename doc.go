// Package portfolio tracks investment positions as ledgers of acquisition
// lots.
//
// Every buy adds a lot and a transaction to the position of its symbol. Every
// sell consumes lots oldest first, optionally restricted to one platform, and
// adds a transaction. The quantity and the weighted-average buy price of a
// position are always derived from its lots, and the transaction history is
// never rewritten.
//
// The engine is made of pure functions over immutable values: Buy and Sell
// take a Portfolio and return the next one, or an error and no change.
// Positions recorded before lots existed (legacy positions) are read as a
// single lot and migrated by the first mutation that touches them.
//
// Prices, persistence and presentation live in sibling packages.
package portfolio
