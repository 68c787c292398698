package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/csheth/hindsight-explore/internal/hindsight"
)

// Page size and query parameters sent for every listing and query.
const (
	PageSize        = 100
	RecallMaxTokens = 4096
	QueryBudget     = hindsight.BudgetMid
)

// Client is the part of the memory service the session reads from.
type Client interface {
	ListBanks(ctx context.Context) ([]hindsight.Bank, error)
	GetProfile(ctx context.Context, bankID string) (hindsight.Profile, error)
	GetStats(ctx context.Context, bankID string) (hindsight.Stats, error)
	ListMemories(ctx context.Context, bankID string, opts hindsight.ListOptions) ([]hindsight.Memory, error)
	ListEntities(ctx context.Context, bankID string, limit int) ([]hindsight.Entity, error)
	ListDocuments(ctx context.Context, bankID string, opts hindsight.ListOptions) ([]hindsight.Document, error)
	Recall(ctx context.Context, bankID string, req hindsight.RecallRequest) (hindsight.RecallResponse, error)
	Reflect(ctx context.Context, bankID string, req hindsight.ReflectRequest) (hindsight.ReflectResponse, error)
}

// Op is the kind of call a Fetch performs.
type Op int

const (
	OpReload Op = iota
	OpRecall
	OpReflect
	OpBankInfo
)

func (o Op) String() string {
	switch o {
	case OpReload:
		return "reload"
	case OpRecall:
		return "recall"
	case OpReflect:
		return "reflect"
	case OpBankInfo:
		return "bank-info"
	default:
		return fmt.Sprintf("Op(%d)", int(o))
	}
}

var errNoBank = errors.New("view is not scoped to a bank")

// Fetch is one pending call to the memory service. It carries everything it
// needs, so Run may execute on any goroutine; the session state is untouched
// until the Result is handed back to Controller.Complete.
type Fetch struct {
	ID     uint64
	Op     Op
	View   View
	BankID string
	Query  string

	// epoch is the query entry the fetch was submitted from.
	epoch  uint64
	client Client
}

// Result is the outcome of a Fetch. Exactly one payload field is set on success.
type Result struct {
	Fetch *Fetch
	Err   error

	Banks     []hindsight.Bank
	Memories  []hindsight.Memory
	Entities  []hindsight.Entity
	Documents []hindsight.Document
	Recall    *hindsight.RecallResponse
	Reflect   *hindsight.ReflectResponse
	Info      *BankInfo
}

func (f *Fetch) String() string {
	if f == nil {
		return "<nil>"
	}
	return fmt.Sprintf("#%d %s %s", f.ID, f.Op, f.View)
}

// Run performs the call.
func (f *Fetch) Run(ctx context.Context) Result {
	res := Result{Fetch: f}
	switch f.Op {
	case OpReload:
		res.Err = f.reload(ctx, &res)
	case OpRecall:
		resp, err := f.client.Recall(ctx, f.BankID, hindsight.RecallRequest{
			Query:     f.Query,
			Budget:    QueryBudget,
			MaxTokens: RecallMaxTokens,
		})
		res.Recall, res.Err = &resp, err
	case OpReflect:
		resp, err := f.client.Reflect(ctx, f.BankID, hindsight.ReflectRequest{
			Query:  f.Query,
			Budget: QueryBudget,
		})
		res.Reflect, res.Err = &resp, err
	case OpBankInfo:
		res.Info, res.Err = f.bankInfo(ctx)
	default:
		res.Err = fmt.Errorf("unknown fetch op %d", int(f.Op))
	}
	return res
}

func (f *Fetch) reload(ctx context.Context, res *Result) error {
	page := hindsight.ListOptions{Limit: PageSize}
	var err error
	switch f.View.Kind() {
	case KindBanks:
		res.Banks, err = f.client.ListBanks(ctx)
	case KindMemories:
		res.Memories, err = f.client.ListMemories(ctx, f.BankID, page)
	case KindEntities:
		res.Entities, err = f.client.ListEntities(ctx, f.BankID, PageSize)
	case KindDocuments:
		res.Documents, err = f.client.ListDocuments(ctx, f.BankID, page)
	default:
		err = fmt.Errorf("%s is not reloadable", f.View.Kind())
	}
	return err
}

func (f *Fetch) bankInfo(ctx context.Context) (*BankInfo, error) {
	if f.BankID == "" {
		return nil, errNoBank
	}
	profile, err := f.client.GetProfile(ctx, f.BankID)
	if err != nil {
		return nil, err
	}
	stats, err := f.client.GetStats(ctx, f.BankID)
	if err != nil {
		return nil, err
	}
	return &BankInfo{Profile: profile, Stats: stats}, nil
}
