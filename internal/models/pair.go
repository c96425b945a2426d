package models

import "time"

// Pair is one tracked instrument pair from the discovery job. Read-only here.
type Pair struct {
	Symbol1     string
	Symbol2     string
	TrainsetEnd time.Time
}

// Name is the ledger tag shared by both legs, e.g. "ETHUSDT-BTCUSDT".
func (p Pair) Name() string { return p.Symbol1 + "-" + p.Symbol2 }
