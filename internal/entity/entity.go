// Package entity defines the wire-level records exchanged with the MRP
// backend. All ids are server-assigned integers; the client never invents
// them. Monetary and material-quantity fields use decimal to keep the
// client-side arithmetic (line totals) exact.
package entity

import "github.com/shopspring/decimal"

func init() {
	// The backend speaks bare JSON numbers for prices and quantities.
	decimal.MarshalJSONWithoutQuotes = true
}
