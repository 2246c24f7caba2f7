package domain

import (
	"testing"

	"disasterprep/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vt(v model.VoteType) *model.VoteType { return &v }

func TestNextVote(t *testing.T) {
	cases := []struct {
		name        string
		existing    *model.VoteType
		requested   model.VoteType
		outcome     VoteOutcome
		next        *model.VoteType
		confirm     int
		deny        int
	}{
		{"first up", nil, model.VoteUp, VoteAdded, vt(model.VoteUp), 1, 0},
		{"first down", nil, model.VoteDown, VoteAdded, vt(model.VoteDown), 0, 1},
		{"toggle up off", vt(model.VoteUp), model.VoteUp, VoteRemoved, nil, -1, 0},
		{"toggle down off", vt(model.VoteDown), model.VoteDown, VoteRemoved, nil, 0, -1},
		{"switch up to down", vt(model.VoteUp), model.VoteDown, VoteSwitched, vt(model.VoteDown), -1, 1},
		{"switch down to up", vt(model.VoteDown), model.VoteUp, VoteSwitched, vt(model.VoteUp), 1, -1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NextVote(tc.existing, tc.requested)
			require.NoError(t, err)
			assert.Equal(t, tc.outcome, got.Outcome)
			assert.Equal(t, tc.next, got.Next)
			assert.Equal(t, tc.confirm, got.ConfirmDelta)
			assert.Equal(t, tc.deny, got.DenyDelta)
		})
	}
}

func TestNextVote_RejectsUnknownType(t *testing.T) {
	_, err := NextVote(nil, "SIDEWAYS")
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestVoteSequence_ToggleAndSwitch(t *testing.T) {
	confirm, deny := 3, 2
	var held *model.VoteType

	cast := func(v model.VoteType) {
		tr, err := NextVote(held, v)
		require.NoError(t, err)
		confirm, deny = tr.ApplyCounts(confirm, deny)
		held = tr.Next
	}

	cast(model.VoteUp)
	cast(model.VoteUp)
	assert.Equal(t, 3, confirm, "up twice returns confirmCount to its starting value")
	assert.Nil(t, held)

	cast(model.VoteUp)
	afterFirst := [2]int{confirm, deny}
	cast(model.VoteDown)
	assert.Equal(t, afterFirst[0]-1, confirm)
	assert.Equal(t, afterFirst[1]+1, deny)
}

func TestApplyCounts_NeverNegative(t *testing.T) {
	tr := VoteTransition{ConfirmDelta: -1, DenyDelta: -1}
	c, d := tr.ApplyCounts(0, 0)
	assert.Zero(t, c)
	assert.Zero(t, d)
}

func TestCanVote(t *testing.T) {
	assert.True(t, CanVote(model.ReportAdminVerified))
	for _, s := range []model.ReportStatus{model.ReportPending, model.ReportCommunityConfirmed, model.ReportRejected, model.ReportResolved} {
		assert.False(t, CanVote(s), s)
	}
}
