package market

import (
	"encoding/binary"
	"sync"
	"time"
)

const clockStorePropertyKey = "MARKET:CLOCK:MONOTONIC"

// Clock hands out strictly increasing timestamps that survive restarts.
type Clock struct {
	sync.Mutex
	store Store
	now   time.Time
}

func NewClock(store Store) (*Clock, error) {
	bs, err := store.ReadProperty([]byte(clockStorePropertyKey))
	if err != nil {
		return nil, err
	}
	ts := time.Now()
	if len(bs) == 8 {
		last := time.Unix(0, int64(binary.BigEndian.Uint64(bs)))
		if last.After(ts) {
			ts = last
		}
	}
	return &Clock{store: store, now: ts}, nil
}

func (c *Clock) Now() (time.Time, error) {
	c.Lock()
	defer c.Unlock()

	for {
		now := time.Now()
		if now.After(c.now) {
			c.now = now
			break
		}
		time.Sleep(time.Millisecond)
	}

	val := binary.BigEndian.AppendUint64(nil, uint64(c.now.UnixNano()))
	err := c.store.WriteProperty([]byte(clockStorePropertyKey), val)
	return c.now, err
}
