// Package session holds the state machine behind the explorer: the current
// view and its history, per-list selection, query entry and auto-refresh.
package session

import "fmt"

// Kind enumerates the screens of the explorer.
type Kind int

const (
	KindBanks Kind = iota
	KindMemories
	KindEntities
	KindDocuments
	KindRecall
	KindReflect
	kindCount
)

func (k Kind) String() string {
	switch k {
	case KindBanks:
		return "Banks"
	case KindMemories:
		return "Memories"
	case KindEntities:
		return "Entities"
	case KindDocuments:
		return "Documents"
	case KindRecall:
		return "Recall"
	case KindReflect:
		return "Reflect"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// HasList reports whether screens of this kind show a selectable list.
func (k Kind) HasList() bool {
	return k != KindReflect && k >= KindBanks && k < kindCount
}

// View identifies the current screen. Every kind except Banks is scoped to a
// bank. Views are comparable with ==.
type View struct {
	kind   Kind
	bankID string
}

// Banks is the root view.
func Banks() View { return View{kind: KindBanks} }

// Memories lists the memory units of a bank.
func Memories(bankID string) View { return View{kind: KindMemories, bankID: bankID} }

// Entities lists the entities of a bank.
func Entities(bankID string) View { return View{kind: KindEntities, bankID: bankID} }

// Documents lists the source documents of a bank.
func Documents(bankID string) View { return View{kind: KindDocuments, bankID: bankID} }

// Recall searches a bank.
func Recall(bankID string) View { return View{kind: KindRecall, bankID: bankID} }

// Reflect asks a bank for a synthesized answer.
func Reflect(bankID string) View { return View{kind: KindReflect, bankID: bankID} }

// ViewOf builds the bank-scoped view of the given kind. Banks ignores bankID.
func ViewOf(kind Kind, bankID string) View {
	if kind == KindBanks {
		return Banks()
	}
	return View{kind: kind, bankID: bankID}
}

func (v View) Kind() Kind { return v.kind }

// BankID returns the bank a view is scoped to; ok is false for Banks.
func (v View) BankID() (string, bool) {
	if v.kind == KindBanks {
		return "", false
	}
	return v.bankID, true
}

func (v View) Title() string { return v.kind.String() }

// IsQuery reports whether the view is driven by a typed query rather than a listing.
func (v View) IsQuery() bool {
	return v.kind == KindRecall || v.kind == KindReflect
}

func (v View) String() string {
	if id, ok := v.BankID(); ok {
		return fmt.Sprintf("%s [%s]", v.kind, id)
	}
	return v.kind.String()
}
