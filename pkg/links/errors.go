package links

import (
	"errors"
	"fmt"
)

// ErrNoMatch is the sentinel wrapped by every MatchError.
var ErrNoMatch = errors.New("no unique atom match")

// MatchError reports that a pattern node matched zero or more than one atom
// for a candidate residue assignment. It is recoverable: the caller abandons
// the candidate and moves on.
type MatchError struct {
	Link      string
	AtomName  string
	ResidueID int
	Matches   int
}

func (e *MatchError) Error() string {
	return fmt.Sprintf("link %q: atom %q in residue %d matched %d atoms: %v",
		e.Link, e.AtomName, e.ResidueID, e.Matches, ErrNoMatch)
}

func (e *MatchError) Unwrap() error {
	return ErrNoMatch
}

// IsMatchError reports whether err is a recoverable candidate-match
// failure.
func IsMatchError(err error) bool {
	return errors.Is(err, ErrNoMatch)
}
