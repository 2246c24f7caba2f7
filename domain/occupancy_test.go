package domain

import (
	"testing"
	"time"

	"disasterprep/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyOccupancy(t *testing.T) {
	cases := []struct {
		capacity, current int
		threshold         float64
		pct               float64
		over              bool
		signal            Signal
	}{
		{100, 89, 90, 89, false, SignalWarning},
		{100, 90, 90, 90, true, SignalWarning},
		{0, 50, 90, 0, false, SignalNone},
		{-5, 50, 90, 0, false, SignalNone},
		{100, 79, 90, 79, false, SignalNone},
		{100, 80, 90, 80, false, SignalWarning},
		{100, 100, 90, 100, true, SignalCritical},
		{100, 130, 90, 130, true, SignalCritical},
		{3, 1, 90, 33.33, false, SignalNone},
		{200, 150, 70, 75, true, SignalNone},
	}
	for _, tc := range cases {
		got := ClassifyOccupancy(tc.capacity, tc.current, tc.threshold)
		assert.Equal(t, tc.pct, got.OccupancyPercent, "%d/%d", tc.current, tc.capacity)
		assert.Equal(t, tc.over, got.IsOverCapacity, "%d/%d", tc.current, tc.capacity)
		assert.Equal(t, tc.signal, got.Signal, "%d/%d", tc.current, tc.capacity)
	}
}

func TestApplyClassification_OverridesStoredFlag(t *testing.T) {
	snap := &model.OccupancySnapshot{CapacityTotal: 10, CurrentOccupancy: 2, IsOverCapacity: true}
	ApplyClassification(snap, 90)
	assert.False(t, snap.IsOverCapacity)
	assert.Equal(t, 20.0, snap.OccupancyPercent)
}

func TestBaselineSnapshot(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	snap := BaselineSnapshot(&model.Shelter{ID: "s1", CapacityTotal: 250}, now)
	assert.Equal(t, "s1", snap.ShelterID)
	assert.Equal(t, 250, snap.CapacityTotal)
	assert.Zero(t, snap.CurrentOccupancy)
	assert.Zero(t, snap.Adults+snap.Children+snap.Elderly+snap.Disabled)
	assert.Equal(t, now, snap.RecordedAt)
}

func TestValidateSnapshot(t *testing.T) {
	require.NoError(t, ValidateSnapshot(&model.OccupancySnapshot{CapacityTotal: 10, CurrentOccupancy: 5, Adults: 3, Children: 2, Disabled: 1}))

	bad := []model.OccupancySnapshot{
		{CurrentOccupancy: -1},
		{CapacityTotal: -1},
		{CurrentOccupancy: 2, Adults: 2, Children: 1},
		{CurrentOccupancy: 2, Disabled: 3},
		{CurrentOccupancy: 2, Elderly: -1},
	}
	for _, s := range bad {
		s := s
		err := ValidateSnapshot(&s)
		require.Error(t, err, "%+v", s)
		assert.Equal(t, KindValidation, KindOf(err))
	}
}
