package ai

import (
	"context"
	"fmt"
)

// MaxEntries is the largest number of skills or experience bullets kept from a response.
const MaxEntries = 6

// TailorUpdate is the structured content a provider proposes for a résumé.
// An empty field means the matching section is left untouched.
type TailorUpdate struct {
	Summary           string   `json:"summary"`
	Skills            []string `json:"skills"`
	ExperienceUpdates []string `json:"experience_updates"`
}

// IsEmpty reports whether the update would not change any section.
func (u *TailorUpdate) IsEmpty() bool {
	return u == nil || (u.Summary == "" && len(u.Skills) == 0 && len(u.ExperienceUpdates) == 0)
}

// Request carries the inputs of a single generation call.
type Request struct {
	BaseText       string
	JobTitle       string
	JobDescription string
}

// FailureKind classifies why a provider did not produce an update.
type FailureKind string

const (
	FailureAuthMissing       FailureKind = "AuthMissing"
	FailureQuota             FailureKind = "Quota"
	FailureRateLimited       FailureKind = "RateLimited"
	FailureNetwork           FailureKind = "Network"
	FailureMalformedResponse FailureKind = "MalformedResponse"
	FailureUnknown           FailureKind = "Unknown"
)

// Failure is the classified error of a provider call.
type Failure struct {
	Kind    FailureKind
	Message string
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s: %s", f.Kind, f.Message)
}

// Outcome is either a complete update or a failure, never both.
type Outcome struct {
	Update  *TailorUpdate
	Failure *Failure
}

// Succeeded returns a successful outcome.
func Succeeded(update TailorUpdate) Outcome {
	return Outcome{Update: &update}
}

// Failed returns a failed outcome of the given kind.
func Failed(kind FailureKind, format string, args ...any) Outcome {
	return Outcome{Failure: &Failure{Kind: kind, Message: fmt.Sprintf(format, args...)}}
}

// OK reports whether the outcome carries an update.
func (o Outcome) OK() bool {
	return o.Failure == nil && o.Update != nil
}

// Provider is a single generation backend.
type Provider interface {
	Name() string
	Generate(ctx context.Context, req Request) Outcome
}
