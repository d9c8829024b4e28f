package sim

import (
	"fmt"
	"strings"
)

// Vote is a member's final position on a proposal.
type Vote int8

const (
	No      Vote = -1
	Abstain Vote = 0
	Yes     Vote = 1
)

// String returns "YES", "NO" or "ABSTAIN".
func (v Vote) String() string {
	switch v {
	case Yes:
		return "YES"
	case No:
		return "NO"
	default:
		return "ABSTAIN"
	}
}

// MarshalText encodes the vote as its display name.
func (v Vote) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText accepts the names produced by MarshalText, case-insensitively.
func (v *Vote) UnmarshalText(text []byte) error {
	parsed, err := ParseVote(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// ParseVote converts "yes", "no" or "abstain" to a Vote.
func ParseVote(s string) (Vote, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "YES":
		return Yes, nil
	case "NO":
		return No, nil
	case "ABSTAIN":
		return Abstain, nil
	default:
		return Abstain, fmt.Errorf("unknown vote %q", s)
	}
}

// decide maps a final score to a vote using a symmetric abstention band
// of half-width threshold.
func decide(score, threshold float64) Vote {
	switch {
	case score > threshold:
		return Yes
	case score < -threshold:
		return No
	default:
		return Abstain
	}
}
