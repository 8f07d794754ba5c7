// Package recipient decides who may receive a purchased game and keeps the
// recipient id list a set.
package recipient

import "game-market/internal/domain"

// Reason names why a candidate was rejected.
type Reason string

const (
	ReasonNone        Reason = ""
	ReasonAgeRequired Reason = "age_required"
	ReasonUnderage    Reason = "underage"
)

var reasonMessages = map[Reason]string{
	ReasonAgeRequired: "Cannot be selected unless users age is specified, because the game has age restriction",
	ReasonUnderage:    "The person is not allowed to get the game due to age restriction",
}

// Message is the advisory text shown to the buyer.
func (r Reason) Message() string {
	return reasonMessages[r]
}

// Verdict is the outcome of Evaluate. Reason is empty when Eligible is true.
type Verdict struct {
	Eligible bool
	Reason   Reason
}

// Evaluate applies the age restriction of a game to a candidate recipient.
// Rules, first match wins:
//  1. no minimum age: eligible
//  2. age unknown: rejected, age required
//  3. age below minimum: rejected, underage
//  4. otherwise eligible
func Evaluate(candidate domain.UserShortInfo, restrictions domain.Restrictions) Verdict {
	if !restrictions.HasMinAge() {
		return Verdict{Eligible: true}
	}
	if candidate.Age == nil {
		return Verdict{Reason: ReasonAgeRequired}
	}
	if *candidate.Age < *restrictions.MinAge {
		return Verdict{Reason: ReasonUnderage}
	}
	return Verdict{Eligible: true}
}
