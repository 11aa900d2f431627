package migrate

import "fmt"

// UnresolvedReferenceError reports a foreign reference that should already
// have been bound but was not, e.g. a transfer to a deleted transaction.
type UnresolvedReferenceError struct {
	Kind  string // entity kind the reference points at
	Ref   string
	Field string // foreign field holding the reference
}

func (e *UnresolvedReferenceError) Error() string {
	return fmt.Sprintf("unresolved %s reference %q in %s", e.Kind, e.Ref, e.Field)
}

// TransferPayeeError reports that a transfer leg's payee could not be
// chosen because zero or several payees link to the other account.
type TransferPayeeError struct {
	Account string
	Matches int
}

func (e *TransferPayeeError) Error() string {
	if e.Matches == 0 {
		return fmt.Sprintf("no transfer payee links to account %q", e.Account)
	}
	return fmt.Sprintf("%d transfer payees link to account %q, expected one", e.Matches, e.Account)
}
