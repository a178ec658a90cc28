package nft

import (

	"github.com/gofrs/uuid"
	"github.com/pkg/errors"
)

// State is the marketplace ledger. Tokens live in an arena indexed by id,
// the ownership, listing and supply indices are derived from it and only
// ever change inside Commit.
type State struct {
	props    Properties
	tokens   []*Token
	uris     map[string]uint64
	balances map[uuid.UUID]uint64

	live   *index
	listed *index
	owned  map[uuid.UUID]*index
}

func NewState() *State {
	return &State{
		uris:     make(map[string]uint64),
		balances: make(map[uuid.UUID]uint64),
		live:     newIndex(),
		listed:   newIndex(),
		owned:    make(map[uuid.UUID]*index),
	}
}

// LoadState rebuilds a ledger from its materialized records.
func LoadState(props *Properties, tokens []*Token, balances map[uuid.UUID]uint64) (*State, error) {
	s := NewState()
	s.props = *props
	for i, t := range tokens {
		if t.Id != uint64(i+1) {
			return nil, errors.Errorf("token arena gap at %d: %d", i+1, t.Id)
		}
		s.tokens = append(s.tokens, t.Copy())
		s.uris[t.URI] = t.Id
	}
	if uint64(len(s.tokens)) != props.Minted {
		return nil, errors.Errorf("minted %d but %d tokens stored", props.Minted, len(s.tokens))
	}
	for k, v := range balances {
		if v > 0 {
			s.balances[k] = v
		}
	}
	s.rebuild()
	if uint64(s.live.len()) != props.Live {
		return nil, errors.Errorf("live %d but %d tokens alive", props.Live, s.live.len())
	}
	return s, nil
}

func (s *State) rebuild() {
	s.live = newIndex()
	s.listed = newIndex()
	s.owned = make(map[uuid.UUID]*index)
	for _, t := range s.tokens {
		s.insertIndices(t)
	}
}

func (s *State) insertIndices(t *Token) {
	if t.Burned {
		return
	}
	s.live.insert(t.Id, t.Id)
	ix := s.owned[t.Owner]
	if ix == nil {
		ix = newIndex()
		s.owned[t.Owner] = ix
	}
	ix.insert(t.Id, t.AcquiredAt)
	if t.IsListed {
		s.listed.insert(t.Id, t.ListedAt)
	}
}

func (s *State) removeIndices(t *Token) {
	if t.Burned {
		return
	}
	s.live.remove(t.Id)
	ix := s.owned[t.Owner]
	ix.remove(t.Id)
	if ix.len() == 0 {
		delete(s.owned, t.Owner)
	}
	if t.IsListed {
		s.listed.remove(t.Id)
	}
}

// Plan validates the action against the current state and computes its
// effect without touching the state.
func (s *State) Plan(act *Action) (*Changeset, error) {
	if act.Sequence != s.props.Sequence+1 {
		panic(errors.Errorf("action sequence %d after %d", act.Sequence, s.props.Sequence))
	}
	if act.Caller == uuid.Nil {
		return nil, errors.Wrap(ErrUnauthorized, "empty caller")
	}
	if s.props.Sequence == 0 && act.Kind != ActionGenesis {
		panic(act.Kind)
	}

	switch act.Kind {
	case ActionGenesis:
		return s.planGenesis(act)
	case ActionMint:
		return s.planMint(act)
	case ActionSetListingFee:
		return s.planSetListingFee(act)
	case ActionBurn:
		return s.planBurn(act)
	case ActionPlaceOnSale:
		return s.planPlaceOnSale(act)
	case ActionDelist:
		return s.planDelist(act)
	case ActionBuy:
		return s.planBuy(act)
	case ActionTransfer:
		return s.planTransfer(act)
	case ActionWithdraw:
		return s.planWithdraw(act)
	}
	return nil, errors.Errorf("unknown action %s", act.Kind)
}

// Commit installs a planned changeset. It must be the next changeset planned
// on this very state.
func (s *State) Commit(cs *Changeset) {
	if cs.Properties.Sequence != s.props.Sequence+1 {
		panic(errors.Errorf("stale changeset %d after %d", cs.Properties.Sequence, s.props.Sequence))
	}
	for i, t := range cs.Tokens {
		prev := cs.Previous[i]
		if prev == nil {
			if t.Id != uint64(len(s.tokens)+1) {
				panic(t.Id)
			}
			s.tokens = append(s.tokens, t.Copy())
			s.uris[t.URI] = t.Id
		} else {
			s.removeIndices(s.tokens[t.Id-1])
			s.tokens[t.Id-1] = t.Copy()
		}
		s.insertIndices(t)
	}
	for k, v := range cs.Balances {
		if v == 0 {
			delete(s.balances, k)
		} else {
			s.balances[k] = v
		}
	}
	s.props = cs.Properties
}

// Apply plans and commits in one step, used to replay a history.
func (s *State) Apply(act *Action) (*Changeset, error) {
	cs, err := s.Plan(act)
	if err != nil {
		return nil, err
	}
	s.Commit(cs)
	return cs, nil
}

func (s *State) newChangeset(act *Action) *Changeset {
	cs := &Changeset{
		Action:     act,
		Balances:   make(map[uuid.UUID]uint64),
		Properties: s.props,
	}
	cs.Properties.Sequence = act.Sequence
	return cs
}

func (s *State) credit(cs *Changeset, who uuid.UUID, amount uint64) error {
	if amount == 0 {
		return nil
	}
	bal, ok := cs.Balances[who]
	if !ok {
		bal = s.balances[who]
	}
	if bal+amount < bal {
		return errors.Wrapf(ErrAmountOverflow, "balance %d + %d", bal, amount)
	}
	cs.Balances[who] = bal + amount
	return nil
}

func (s *State) token(id uint64) (*Token, error) {
	if id < 1 || id > uint64(len(s.tokens)) || s.tokens[id-1].Burned {
		return nil, errors.Wrapf(ErrUnknownToken, "token %d", id)
	}
	return s.tokens[id-1], nil
}

func (s *State) requireNoPayment(act *Action) error {
	if act.Payment != 0 {
		return errors.Wrapf(ErrUnexpectedPayment, "%s with %d", act.Kind, act.Payment)
	}
	return nil
}

func (s *State) Properties() Properties {
	return s.props
}

func (s *State) Tokens() []*Token {
	tokens := make([]*Token, len(s.tokens))
	for i, t := range s.tokens {
		tokens[i] = t.Copy()
	}
	return tokens
}

func (s *State) Balances() map[uuid.UUID]uint64 {
	balances := make(map[uuid.UUID]uint64, len(s.balances))
	for k, v := range s.balances {
		balances[k] = v
	}
	return balances
}

// Diff returns an error describing the first difference between two ledgers.
func (s *State) Diff(o *State) error {
	if s.props != o.props {
		return errors.Errorf("properties %v != %v", s.props, o.props)
	}
	if len(s.tokens) != len(o.tokens) {
		return errors.Errorf("tokens %d != %d", len(s.tokens), len(o.tokens))
	}
	for i, t := range s.tokens {
		if *t != *o.tokens[i] {
			return errors.Errorf("token %d %v != %v", t.Id, *t, *o.tokens[i])
		}
	}
	if len(s.balances) != len(o.balances) {
		return errors.Errorf("balances %d != %d", len(s.balances), len(o.balances))
	}
	for k, v := range s.balances {
		if o.balances[k] != v {
			return errors.Errorf("balance of %s %d != %d", k, v, o.balances[k])
		}
	}
	return nil
}
