package portfolio

import (
	"slices"

	"github.com/etnz/folio/date"
)

// TransactionType is the kind of a recorded trade.
type TransactionType string

const (
	BuyTx  TransactionType = "buy"
	SellTx TransactionType = "sell"
)

// Transaction is the audit record of one buy or one sell.
//
// Transactions are never modified nor removed, whatever happens to the lots.
type Transaction struct {
	ID       string          `json:"id"`
	Date     date.Date       `json:"date"`
	Type     TransactionType `json:"type"`
	Quantity Quantity        `json:"quantity"`
	Price    Money           `json:"price"`
	Platform string          `json:"platform,omitempty"` // empty for a sell not scoped to a platform
}

// NewTransaction returns a validated transaction.
func NewTransaction(id string, on date.Date, typ TransactionType, quantity Quantity, price Money, platform string) (Transaction, error) {
	tx := Transaction{ID: id, Date: on, Type: typ, Quantity: quantity, Price: price, Platform: platform}
	if err := tx.validate(); err != nil {
		return Transaction{}, err
	}
	return tx, nil
}

func (t Transaction) validate() error {
	if t.Type != BuyTx && t.Type != SellTx {
		return badRequest("unknown transaction type %q", t.Type)
	}
	if !t.Quantity.IsPositive() {
		return invalid("%s quantity must be positive, got %s", t.Type, t.Quantity)
	}
	if !t.Price.IsPositive() {
		return invalid("%s price must be positive, got %s", t.Type, t.Price)
	}
	return nil
}

// Amount is the cash value of the transaction.
func (t Transaction) Amount() Money { return t.Price.Mul(t.Quantity) }

// Transactions is the append-only history of a position.
type Transactions []Transaction

// RecordTransaction returns a new history with tx appended. The input is not modified.
func RecordTransaction(txs Transactions, tx Transaction) (Transactions, error) {
	if err := tx.validate(); err != nil {
		return nil, err
	}
	out := make(Transactions, 0, len(txs)+1)
	out = append(out, txs...)
	return append(out, tx), nil
}

// Net returns bought minus sold quantity over the whole history.
func (t Transactions) Net() Quantity {
	var net Quantity
	for _, tx := range t {
		switch tx.Type {
		case BuyTx:
			net = net.Add(tx.Quantity)
		case SellTx:
			net = net.Sub(tx.Quantity)
		}
	}
	return net
}

// Within returns the transactions dated within r, in order.
func (t Transactions) Within(r date.Range) Transactions {
	var out Transactions
	for _, tx := range t {
		if r.Contains(tx.Date) {
			out = append(out, tx)
		}
	}
	return out
}

// clone returns a copy that does not share storage with t.
func (t Transactions) clone() Transactions {
	if t == nil {
		return nil
	}
	return slices.Clone(t)
}
