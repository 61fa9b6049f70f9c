// Package pricing converts reference prices into executable prices and
// commission charges.
package pricing

// Model applies a symmetric bid/ask spread around a reference price and a
// fixed per-transaction commission.
type Model struct {
	Commission float64
	Spreads    map[string]float64
}

// New builds a pricing model. A nil spreads map means zero spread everywhere.
func New(commission float64, spreads map[string]float64) Model {
	return Model{Commission: commission, Spreads: spreads}
}

func (m Model) spread(instrument string) float64 {
	if m.Spreads == nil {
		return 0
	}
	return m.Spreads[instrument]
}

// OpenPrice is the ask-side price paid when opening a long position.
func (m Model) OpenPrice(instrument string, reference float64) float64 {
	return reference * (1 + m.spread(instrument)/2)
}

// ClosePrice is the bid-side price received when closing a long position.
func (m Model) ClosePrice(instrument string, reference float64) float64 {
	return reference * (1 - m.spread(instrument)/2)
}
