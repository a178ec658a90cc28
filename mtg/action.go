package mtg

import "time"

const (
	ActionStateInitial = 10
	ActionStateDone    = 11
)

// Action tracks whether the workers have processed an output.
type Action struct {
	UTXOID    string
	CreatedAt time.Time
	State     int
}

func (grp *Group) writeAction(out *Output, state int) error {
	return grp.store.WriteAction(&Action{
		UTXOID:    out.UTXOID,
		CreatedAt: out.CreatedAt,
		State:     state,
	})
}
