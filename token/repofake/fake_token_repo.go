package repofake

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/ledgerlink/xeroauth/token"
)

var _ token.Repo = (*FakeTokenRepo)(nil)

// FakeTokenRepo is an in-memory token.Repo for tests. It serializes
// through JSON like the real store so round-trip behaviour matches,
// and counts calls so tests can assert on I/O.
type FakeTokenRepo struct {
	payload []byte
	lock    sync.RWMutex

	SaveCalls int
	LoadCalls int
	SaveErr   error
	LoadErr   error
}

func NewFakeTokenRepo() *FakeTokenRepo {
	return &FakeTokenRepo{}
}

func (fr *FakeTokenRepo) Save(_ context.Context, record *token.Record) error {
	fr.lock.Lock()
	defer fr.lock.Unlock()

	fr.SaveCalls++
	if fr.SaveErr != nil {
		return fr.SaveErr
	}
	payload, err := json.Marshal(record)
	if err != nil {
		return err
	}
	fr.payload = payload
	return nil
}

func (fr *FakeTokenRepo) Load(_ context.Context) (*token.Record, error) {
	fr.lock.RLock()
	defer fr.lock.RUnlock()

	fr.LoadCalls++
	if fr.LoadErr != nil {
		return nil, fr.LoadErr
	}
	if fr.payload == nil {
		return nil, nil
	}
	var record token.Record
	if err := json.Unmarshal(fr.payload, &record); err != nil {
		return nil, nil
	}
	return &record, nil
}

// SeedPayload stores a raw payload directly, bypassing serialization,
// so tests can plant malformed JSON.
func (fr *FakeTokenRepo) SeedPayload(payload []byte) {
	fr.lock.Lock()
	defer fr.lock.Unlock()
	fr.payload = payload
}
