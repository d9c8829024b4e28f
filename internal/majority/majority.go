// Package majority decides whether a vote tally carries a proposal under one
// of the common legislative majority rules.
package majority

import (
	"fmt"
	"strings"
)

// Rule is a pass/fail policy over a vote tally.
type Rule int

const (
	// Simple passes when yes > 1/2 of cast votes. Abstentions do not count.
	Simple Rule = iota
	// Super passes when yes > 2/3 of cast votes. Abstentions do not count.
	Super
	// AbsSimple passes when yes > 1/2 of all members. Abstentions count against.
	AbsSimple
	// AbsSuper passes when yes > 2/3 of all members. Abstentions count against.
	AbsSuper
	// Unanimity passes only when every member votes yes.
	Unanimity
)

// Rules lists every rule in declaration order.
var Rules = []Rule{Simple, Super, AbsSimple, AbsSuper, Unanimity}

var ruleNames = map[Rule]string{
	Simple:    "simple",
	Super:     "super",
	AbsSimple: "abs-simple",
	AbsSuper:  "abs-super",
	Unanimity: "unanimity",
}

// String returns the rule's canonical name.
func (r Rule) String() string {
	if name, ok := ruleNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Rule(%d)", int(r))
}

// ParseRule maps a rule name to a Rule. Matching is case-insensitive and
// treats '_' and '-' alike, so "ABS_SIMPLE" and "abs-simple" are the same.
func ParseRule(s string) (Rule, error) {
	name := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-")
	if name == "abssimple" {
		name = "abs-simple"
	} else if name == "abssuper" {
		name = "abs-super"
	}
	for _, r := range Rules {
		if ruleNames[r] == name {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown majority rule %q (valid: simple, super, abs-simple, abs-super, unanimity)", s)
}

// Tally counts final votes.
type Tally struct {
	Yes     int `json:"yes"`
	No      int `json:"no"`
	Abstain int `json:"abstain"`
}

// Cast returns yes + no.
func (t Tally) Cast() int {
	return t.Yes + t.No
}

// All returns yes + no + abstain.
func (t Tally) All() int {
	return t.Yes + t.No + t.Abstain
}

// Passes reports whether the tally carries under rule. Comparisons are
// strict: a tally sitting exactly on the threshold fails. An empty
// denominator always fails.
func Passes(rule Rule, t Tally) bool {
	switch rule {
	case Simple:
		return exceeds(t.Yes, t.Cast(), 1, 2)
	case Super:
		return exceeds(t.Yes, t.Cast(), 2, 3)
	case AbsSimple:
		return exceeds(t.Yes, t.All(), 1, 2)
	case AbsSuper:
		return exceeds(t.Yes, t.All(), 2, 3)
	case Unanimity:
		return t.All() > 0 && t.Yes == t.All()
	default:
		return false
	}
}

// exceeds reports yes/total > num/den using integer arithmetic, so 4/6
// against 2/3 is not subject to float rounding.
func exceeds(yes, total, num, den int) bool {
	if total == 0 {
		return false
	}
	return yes*den > num*total
}
