package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/csheth/hindsight-explore/internal/hindsight"
)

var errOffline = errors.New("connection refused")

type fakeClient struct {
	mu    sync.Mutex
	calls map[string]int

	banks     []hindsight.Bank
	memories  map[string][]hindsight.Memory
	entities  map[string][]hindsight.Entity
	documents map[string][]hindsight.Document
	recall    []hindsight.RecallResult
	reflect   hindsight.ReflectResponse
	profile   hindsight.Profile
	stats     hindsight.Stats

	// fail makes the named call return errOffline.
	fail map[string]bool
	// lastRecall is the request body of the most recent recall.
	lastRecall hindsight.RecallRequest
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		calls: map[string]int{},
		banks: []hindsight.Bank{
			{ID: "a", Name: "Alice"},
			{ID: "b", Name: "Bob"},
		},
		memories:  map[string][]hindsight.Memory{},
		entities:  map[string][]hindsight.Entity{},
		documents: map[string][]hindsight.Document{},
		fail:      map[string]bool{},
	}
}

func (f *fakeClient) record(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
	if f.fail[name] {
		return errOffline
	}
	return nil
}

func (f *fakeClient) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeClient) ListBanks(context.Context) ([]hindsight.Bank, error) {
	if err := f.record("banks"); err != nil {
		return nil, err
	}
	return f.banks, nil
}

func (f *fakeClient) GetProfile(_ context.Context, bankID string) (hindsight.Profile, error) {
	if err := f.record("profile"); err != nil {
		return hindsight.Profile{}, err
	}
	p := f.profile
	p.BankID = bankID
	return p, nil
}

func (f *fakeClient) GetStats(_ context.Context, bankID string) (hindsight.Stats, error) {
	if err := f.record("stats"); err != nil {
		return hindsight.Stats{}, err
	}
	s := f.stats
	s.BankID = bankID
	return s, nil
}

func (f *fakeClient) ListMemories(_ context.Context, bankID string, _ hindsight.ListOptions) ([]hindsight.Memory, error) {
	if err := f.record("memories"); err != nil {
		return nil, err
	}
	return f.memories[bankID], nil
}

func (f *fakeClient) ListEntities(_ context.Context, bankID string, _ int) ([]hindsight.Entity, error) {
	if err := f.record("entities"); err != nil {
		return nil, err
	}
	return f.entities[bankID], nil
}

func (f *fakeClient) ListDocuments(_ context.Context, bankID string, _ hindsight.ListOptions) ([]hindsight.Document, error) {
	if err := f.record("documents"); err != nil {
		return nil, err
	}
	return f.documents[bankID], nil
}

func (f *fakeClient) Recall(_ context.Context, _ string, req hindsight.RecallRequest) (hindsight.RecallResponse, error) {
	f.mu.Lock()
	f.lastRecall = req
	f.mu.Unlock()
	if err := f.record("recall"); err != nil {
		return hindsight.RecallResponse{}, err
	}
	return hindsight.RecallResponse{Results: f.recall}, nil
}

func (f *fakeClient) Reflect(context.Context, string, hindsight.ReflectRequest) (hindsight.ReflectResponse, error) {
	if err := f.record("reflect"); err != nil {
		return hindsight.ReflectResponse{}, err
	}
	return f.reflect, nil
}

// fakeClock is a manually advanced time source.
type fakeClock struct{ t time.Time }

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) time.Time {
	c.t = c.t.Add(d)
	return c.t
}

func documentsN(n int) []hindsight.Document {
	docs := make([]hindsight.Document, n)
	for i := range docs {
		docs[i] = hindsight.Document{ID: string(rune('a' + i)), ContentType: "text/plain"}
	}
	return docs
}
