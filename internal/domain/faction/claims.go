package faction

import (
	"fmt"
	"strings"
)

// ClaimValidity is the lifecycle state of a legal claim.
type ClaimValidity int

const (
	ClaimActive ClaimValidity = iota
	ClaimDisputed
	ClaimInvalid
	ClaimResolved
)

func (v ClaimValidity) String() string {
	switch v {
	case ClaimActive:
		return "active"
	case ClaimDisputed:
		return "disputed"
	case ClaimInvalid:
		return "invalid"
	case ClaimResolved:
		return "resolved"
	default:
		return "active"
	}
}

// ParseClaimValidity defaults to active on anything unrecognized.
func ParseClaimValidity(raw string) ClaimValidity {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "disputed":
		return ClaimDisputed
	case "invalid":
		return ClaimInvalid
	case "resolved":
		return ClaimResolved
	default:
		return ClaimActive
	}
}

// Claim is one entry in the legal-claim ledger. Once resolved it is
// immutable.
type Claim struct {
	ID           string        `json:"id"`
	Claimant     string        `json:"claimant"`
	Subject      string        `json:"subject"`
	Basis        string        `json:"basis"`
	Validity     ClaimValidity `json:"validity"`
	Resolver     string        `json:"resolver,omitempty"`
	ResolvedTurn int           `json:"resolved_turn,omitempty"`
}

// ClaimEvent is the model's reported claim activity for a turn.
type ClaimEvent struct {
	Claimant string `json:"claimant"`
	Subject  string `json:"subject"`
	Basis    string `json:"basis"`
	Validity string `json:"validity"`
	Resolver string `json:"resolver"`
}

// ClaimOutcome describes what the ledger did with one event.
type ClaimOutcome struct {
	Claims        []Claim
	Audit         string
	Inconsistency bool
}

// ApplyClaimEvent folds one claim event into the ledger. A re-raise of an
// identical resolved claim is flagged as an inconsistency for the rendering
// layer to surface; it never reopens the claim.
func ApplyClaimEvent(claims []Claim, evt ClaimEvent, turn int, newID func() string) ClaimOutcome {
	claimant := strings.TrimSpace(evt.Claimant)
	subject := strings.TrimSpace(evt.Subject)
	basis := strings.TrimSpace(evt.Basis)
	if claimant == "" || subject == "" {
		return ClaimOutcome{Claims: claims, Audit: "claim event dropped: missing claimant or subject"}
	}
	validity := ParseClaimValidity(evt.Validity)

	for i := range claims {
		if !sameClaim(claims[i], claimant, subject, basis) {
			continue
		}
		if claims[i].Validity == ClaimResolved {
			return ClaimOutcome{
				Claims:        claims,
				Audit:         fmt.Sprintf("claim by %s over %s already resolved turn %d; re-raise flagged", claimant, subject, claims[i].ResolvedTurn),
				Inconsistency: true,
			}
		}
		claims[i].Validity = validity
		if validity == ClaimResolved {
			claims[i].Resolver = strings.TrimSpace(evt.Resolver)
			claims[i].ResolvedTurn = turn
		}
		return ClaimOutcome{Claims: claims, Audit: fmt.Sprintf("claim by %s over %s now %s", claimant, subject, validity)}
	}

	next := Claim{
		ID:       newID(),
		Claimant: claimant,
		Subject:  subject,
		Basis:    basis,
		Validity: validity,
	}
	if validity == ClaimResolved {
		next.Resolver = strings.TrimSpace(evt.Resolver)
		next.ResolvedTurn = turn
	}
	return ClaimOutcome{Claims: append(claims, next), Audit: fmt.Sprintf("claim raised by %s over %s (%s)", claimant, subject, validity)}
}

func sameClaim(c Claim, claimant, subject, basis string) bool {
	return strings.EqualFold(c.Claimant, claimant) &&
		strings.EqualFold(c.Subject, subject) &&
		strings.EqualFold(c.Basis, basis)
}
