package mtg

import (
	"context"
)

type Store interface {
	WriteProperty(key, val []byte) error
	ReadProperty(key []byte) ([]byte, error)

	// WriteOutput stores the output and queues a pending action the first
	// time an unspent output is seen.
	WriteOutput(utxo *Output) error
	ReadOutput(utxoID string) (*Output, error)

	WriteAction(act *Action) error
	ListActions(limit int) ([]*Output, error)

	WriteTransaction(tx *Transaction) error
	ReadTransaction(traceId string) (*Transaction, error)
	ListTransactions(state int, limit int) ([]*Transaction, error)
}

type Worker interface {
	ProcessOutput(context.Context, *Output)
}
