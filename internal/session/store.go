package session

import "github.com/csheth/hindsight-explore/internal/hindsight"

// BankInfo is the profile and statistics of one bank, shown beside the banks list.
type BankInfo struct {
	Profile hindsight.Profile
	Stats   hindsight.Stats
}

// Store caches the last result of every view along with the footer state.
// Only the controller mutates it, when it applies a fetch result.
type Store struct {
	Banks          []hindsight.Bank
	Memories       []hindsight.Memory
	Entities       []hindsight.Entity
	Documents      []hindsight.Document
	RecallResults  []hindsight.RecallResult
	ReflectText    string
	ReflectBasedOn int
	BankInfo       *BankInfo

	// Error takes precedence over Loading, Loading over Status.
	Status  string
	Error   string
	Loading bool

	cursors [kindCount]Cursor
}

// Len returns the number of rows held for a list-bearing kind.
func (s *Store) Len(kind Kind) int {
	switch kind {
	case KindBanks:
		return len(s.Banks)
	case KindMemories:
		return len(s.Memories)
	case KindEntities:
		return len(s.Entities)
	case KindDocuments:
		return len(s.Documents)
	case KindRecall:
		return len(s.RecallResults)
	default:
		return 0
	}
}

// Cursor returns the selection of a list-bearing kind.
func (s *Store) Cursor(kind Kind) Cursor {
	if !kind.HasList() {
		return Cursor{}
	}
	return s.cursors[kind]
}

func (s *Store) cursor(kind Kind) *Cursor {
	if !kind.HasList() {
		return nil
	}
	return &s.cursors[kind]
}

// SelectedBank returns the bank under the banks cursor.
func (s *Store) SelectedBank() (hindsight.Bank, bool) {
	i, ok := s.cursors[KindBanks].Current()
	if !ok || i >= len(s.Banks) {
		return hindsight.Bank{}, false
	}
	return s.Banks[i], true
}
