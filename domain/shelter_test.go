package domain

import (
	"testing"

	"disasterprep/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strp(s string) *string { return &s }
func intp(i int) *int       { return &i }

func TestReliefItems_CaseInsensitiveNames(t *testing.T) {
	s := &model.Shelter{}
	_, err := AddReliefItem(s, model.ReliefItem{Name: "Rice", Quantity: 10, Unit: "kg"}, t0)
	require.NoError(t, err)

	_, err = AddReliefItem(s, model.ReliefItem{Name: "  rICE ", Quantity: 1}, t0)
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))

	_, err = AddReliefItem(s, model.ReliefItem{Name: "Water", Category: model.ReliefWater}, t0)
	require.NoError(t, err)
	assert.Equal(t, model.ReliefOther, s.ReliefItems[0].Category)
	assert.Equal(t, model.SeverityMedium, s.ReliefItems[0].PriorityLevel)

	_, err = UpdateReliefItem(s, "water", ReliefPatch{Name: strp("RICE")}, t0)
	require.Error(t, err, "rename onto an existing name")

	it, err := UpdateReliefItem(s, "WATER", ReliefPatch{Name: strp("Water"), Quantity: intp(0)}, t0)
	require.NoError(t, err, "rename to itself with different case")
	assert.Equal(t, 0, it.Quantity)

	crit := CriticalReliefItems(s.ReliefItems)
	require.Len(t, crit, 1)
	assert.Equal(t, "Water", crit[0].Name)

	require.NoError(t, RemoveReliefItem(s, "rice"))
	assert.Len(t, s.ReliefItems, 1)
	assert.True(t, IsNotFound(RemoveReliefItem(s, "rice")))
	_, err = UpdateReliefItem(s, "nope", ReliefPatch{}, t0)
	assert.True(t, IsNotFound(err))
}

func TestReliefItems_Validation(t *testing.T) {
	s := &model.Shelter{}
	_, err := AddReliefItem(s, model.ReliefItem{Name: "Rice", Quantity: -1}, t0)
	assert.Error(t, err)
	_, err = AddReliefItem(s, model.ReliefItem{Name: "Rice", Category: "TOYS"}, t0)
	assert.Error(t, err)
	_, err = AddReliefItem(s, model.ReliefItem{Name: " "}, t0)
	assert.Error(t, err)
}

func TestReliefItems_EnumCase(t *testing.T) {
	tests := []struct {
		name     string
		item     model.ReliefItem
		category model.ReliefCategory
		priority model.Severity
	}{
		{"lowercase", model.ReliefItem{Name: "Water", Category: "water", PriorityLevel: "high"}, model.ReliefWater, model.SeverityHigh},
		{"padded mixed case", model.ReliefItem{Name: "Pills", Category: " Medicine ", PriorityLevel: "Critical"}, model.ReliefMedicine, model.SeverityCritical},
		{"upper case", model.ReliefItem{Name: "Tents", Category: model.ReliefBedding, PriorityLevel: model.SeverityLow}, model.ReliefBedding, model.SeverityLow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it, err := AddReliefItem(&model.Shelter{}, tt.item, t0)
			require.NoError(t, err)
			assert.Equal(t, tt.category, it.Category)
			assert.Equal(t, tt.priority, it.PriorityLevel)
		})
	}

	_, err := AddReliefItem(&model.Shelter{}, model.ReliefItem{Name: "x", PriorityLevel: "urgent"}, t0)
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestTransitionShelter(t *testing.T) {
	s := &model.Shelter{Status: model.ShelterPlanned}
	require.Error(t, TransitionShelter(s, model.ShelterOpen))
	require.NoError(t, TransitionShelter(s, model.ShelterStandby))
	require.NoError(t, TransitionShelter(s, model.ShelterOpen))
	require.NoError(t, TransitionShelter(s, model.ShelterOpen), "same status is a no-op")
	require.NoError(t, TransitionShelter(s, model.ShelterClosed))
	require.Error(t, TransitionShelter(s, "demolished"))
	assert.Equal(t, model.ShelterClosed, s.Status)
}

func TestValidateShelter(t *testing.T) {
	s := &model.Shelter{Name: " Hall ", CapacityTotal: 100}
	require.NoError(t, ValidateShelter(s))
	assert.Equal(t, "Hall", s.Name)
	assert.Equal(t, model.ShelterPlanned, s.Status)

	dup := &model.Shelter{Name: "x", ReliefItems: []model.ReliefItem{{Name: "Rice"}, {Name: "rice"}}}
	assert.Error(t, ValidateShelter(dup))
	assert.Error(t, ValidateShelter(&model.Shelter{Name: "x", CapacityTotal: -1}))
}
