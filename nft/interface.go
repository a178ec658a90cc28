package nft

import "github.com/gofrs/uuid"

type Store interface {
	WriteChangeset(cs *Changeset) error
	ReadProperties() (*Properties, error)
	ListTokens() ([]*Token, error)
	ListBalances() (map[uuid.UUID]uint64, error)
	ListHistory(offset uint64, limit int) ([]*Action, error)
	ReadHistoryByTrace(trace string) (*Action, error)
}
