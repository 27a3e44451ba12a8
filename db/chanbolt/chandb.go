// Package chanbolt persists micropayment channel states in a bolt
// database. States are stored as JSON, keyed by channel handle.
package chanbolt

import (
	"encoding/json"
	"fmt"

	"github.com/boltdb/bolt"

	"github.com/F483/counterparty-lib/micropay"
)

var BKTChannels = []byte(`Channels`)

type ChanDB struct {
	db *bolt.DB
}

// Open opens (or creates) the channel database at dbPath and makes sure
// the buckets we need exist.
func Open(dbPath string) (*ChanDB, error) {
	db, err := bolt.Open(dbPath, 0644, nil)
	if err != nil {
		return nil, err
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(BKTChannels)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &ChanDB{db: db}, nil
}

func (cdb *ChanDB) Close() error {
	return cdb.db.Close()
}

// SaveState stores a channel state under its handle, overwriting any
// earlier version of the same channel. Returns the handle.
func (cdb *ChanDB) SaveState(state *micropay.State) (string, error) {
	handle, err := state.Handle()
	if err != nil {
		return "", err
	}
	raw, err := json.Marshal(state)
	if err != nil {
		return "", err
	}

	err = cdb.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(BKTChannels).Put([]byte(handle), raw)
	})
	if err != nil {
		return "", err
	}
	return handle, nil
}

// LoadState fetches one channel state by handle.
func (cdb *ChanDB) LoadState(handle string) (*micropay.State, error) {
	state := new(micropay.State)

	err := cdb.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(BKTChannels).Get([]byte(handle))
		if v == nil {
			return fmt.Errorf("channel %s does not exist", handle)
		}
		return json.Unmarshal(v, state)
	})
	if err != nil {
		return nil, err
	}

	return state, nil
}

// ListHandles returns the handles of every stored channel.
func (cdb *ChanDB) ListHandles() ([]string, error) {
	handles := make([]string, 0)

	err := cdb.db.View(func(tx *bolt.Tx) error {
		cur := tx.Bucket(BKTChannels).Cursor()
		for k, _ := cur.First(); k != nil; k, _ = cur.Next() {
			handles = append(handles, string(k))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return handles, nil
}

// ListStates returns every stored channel state, keyed by handle.
func (cdb *ChanDB) ListStates() (map[string]*micropay.State, error) {
	var out map[string]*micropay.State

	err := cdb.db.View(func(tx *bolt.Tx) error {
		cur := tx.Bucket(BKTChannels).Cursor()
		mtmp := map[string]*micropay.State{}
		for k, v := cur.First(); k != nil; k, v = cur.Next() {
			state := new(micropay.State)
			err2 := json.Unmarshal(v, state)
			if err2 != nil {
				return err2
			}
			mtmp[string(k)] = state
		}
		out = mtmp
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// DeleteState removes a channel. Deleting a channel that is not there
// is an error.
func (cdb *ChanDB) DeleteState(handle string) error {
	return cdb.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(BKTChannels)
		if b.Get([]byte(handle)) == nil {
			return fmt.Errorf("channel %s does not exist", handle)
		}
		return b.Delete([]byte(handle))
	})
}
