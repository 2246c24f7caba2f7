package domain

import "disasterprep/model"

type VoteOutcome string

const (
	VoteAdded    VoteOutcome = "added"
	VoteRemoved  VoteOutcome = "removed"
	VoteSwitched VoteOutcome = "switched"
)

func (o VoteOutcome) Message() string {
	switch o {
	case VoteAdded:
		return "Vote added"
	case VoteRemoved:
		return "Vote removed"
	case VoteSwitched:
		return "Vote switched"
	}
	return ""
}

// VoteTransition describes what a castVote call does to the stored vote
// and to the report counters. Next is nil when the vote must be deleted.
type VoteTransition struct {
	Outcome      VoteOutcome
	Next         *model.VoteType
	ConfirmDelta int
	DenyDelta    int
}

func ValidVoteType(v model.VoteType) bool {
	return v == model.VoteUp || v == model.VoteDown
}

// CanVote reports whether a report in status s accepts community votes.
func CanVote(s model.ReportStatus) bool {
	return s == model.ReportAdminVerified
}

// NextVote decides the transition for a user requesting vote `requested`
// while currently holding `existing` (nil when the user has not voted).
func NextVote(existing *model.VoteType, requested model.VoteType) (VoteTransition, error) {
	if !ValidVoteType(requested) {
		return VoteTransition{}, Validation("voteType must be UP or DOWN")
	}

	if existing == nil {
		t := VoteTransition{Outcome: VoteAdded, Next: &requested}
		t.bump(requested, 1)
		return t, nil
	}

	if *existing == requested {
		t := VoteTransition{Outcome: VoteRemoved}
		t.bump(requested, -1)
		return t, nil
	}

	t := VoteTransition{Outcome: VoteSwitched, Next: &requested}
	t.bump(requested, 1)
	t.bump(*existing, -1)
	return t, nil
}

func (t *VoteTransition) bump(v model.VoteType, delta int) {
	if v == model.VoteUp {
		t.ConfirmDelta += delta
	} else {
		t.DenyDelta += delta
	}
}

// ApplyCounts returns the report counters after the transition, clamped at zero.
func (t VoteTransition) ApplyCounts(confirm, deny int) (int, int) {
	return clampZero(confirm + t.ConfirmDelta), clampZero(deny + t.DenyDelta)
}

func clampZero(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
