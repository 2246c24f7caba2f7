package domain

import (
	"strings"
	"time"

	"disasterprep/model"
)

var shelterTransitions = map[model.ShelterStatus][]model.ShelterStatus{
	model.ShelterPlanned: {model.ShelterStandby},
	model.ShelterStandby: {model.ShelterOpen, model.ShelterPlanned},
	model.ShelterOpen:    {model.ShelterClosed, model.ShelterStandby},
	model.ShelterClosed:  {model.ShelterStandby, model.ShelterOpen},
}

func ValidShelterStatus(s model.ShelterStatus) bool {
	_, ok := shelterTransitions[s]
	return ok
}

func TransitionShelter(s *model.Shelter, to model.ShelterStatus) error {
	if !ValidShelterStatus(to) {
		return Validation("unknown shelter status %q", to)
	}
	if s.Status == to {
		return nil
	}
	for _, next := range shelterTransitions[s.Status] {
		if next == to {
			s.Status = to
			return nil
		}
	}
	return Validation("cannot change shelter status from %s to %s", s.Status, to).
		With("currentStatus", s.Status)
}

func ValidateShelter(s *model.Shelter) error {
	s.Name = strings.TrimSpace(s.Name)
	if s.Name == "" {
		return Validation("name is required")
	}
	if s.CapacityTotal < 0 {
		return Validation("capacityTotal must not be negative")
	}
	if s.Status == "" {
		s.Status = model.ShelterPlanned
	}
	if !ValidShelterStatus(s.Status) {
		return Validation("unknown shelter status %q", s.Status)
	}
	if err := ValidateLocation(s.Location); err != nil {
		return err
	}
	seen := make(map[string]bool, len(s.ReliefItems))
	for i := range s.ReliefItems {
		if err := validateReliefItem(&s.ReliefItems[i]); err != nil {
			return err
		}
		key := reliefKey(s.ReliefItems[i].Name)
		if seen[key] {
			return duplicateRelief(s.ReliefItems[i].Name)
		}
		seen[key] = true
	}
	return nil
}

func reliefKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func duplicateRelief(name string) *Error {
	return Validation("relief item %q already exists in this shelter", strings.TrimSpace(name))
}

func validReliefCategory(c model.ReliefCategory) bool {
	switch c {
	case model.ReliefFood, model.ReliefWater, model.ReliefMedicine, model.ReliefClothing,
		model.ReliefHygiene, model.ReliefBedding, model.ReliefOther:
		return true
	}
	return false
}

func validateReliefItem(it *model.ReliefItem) error {
	it.Name = strings.TrimSpace(it.Name)
	if it.Name == "" {
		return Validation("relief item name is required")
	}
	it.Category = model.ReliefCategory(strings.ToUpper(strings.TrimSpace(string(it.Category))))
	it.PriorityLevel = model.Severity(strings.ToUpper(strings.TrimSpace(string(it.PriorityLevel))))
	if it.Category == "" {
		it.Category = model.ReliefOther
	}
	if !validReliefCategory(it.Category) {
		return Validation("unknown relief item category %q", it.Category)
	}
	if it.Quantity < 0 {
		return Validation("relief item quantity must not be negative")
	}
	if it.PriorityLevel == "" {
		it.PriorityLevel = model.SeverityMedium
	}
	if !ValidSeverity(it.PriorityLevel) {
		return Validation("unknown priority level %q", it.PriorityLevel)
	}
	return nil
}

// FindReliefItem returns the index of the item named name, ignoring case
// and surrounding whitespace, or -1.
func FindReliefItem(items []model.ReliefItem, name string) int {
	key := reliefKey(name)
	for i, it := range items {
		if reliefKey(it.Name) == key {
			return i
		}
	}
	return -1
}

func AddReliefItem(s *model.Shelter, it model.ReliefItem, now time.Time) (*model.ReliefItem, error) {
	if err := validateReliefItem(&it); err != nil {
		return nil, err
	}
	if FindReliefItem(s.ReliefItems, it.Name) >= 0 {
		return nil, duplicateRelief(it.Name)
	}
	it.UpdatedAt = now
	s.ReliefItems = append(s.ReliefItems, it)
	return &s.ReliefItems[len(s.ReliefItems)-1], nil
}

// ReliefPatch carries the fields of a relief item update; nil leaves a field unchanged.
type ReliefPatch struct {
	Name          *string
	Category      *model.ReliefCategory
	Quantity      *int
	Unit          *string
	PriorityLevel *model.Severity
}

func UpdateReliefItem(s *model.Shelter, name string, p ReliefPatch, now time.Time) (*model.ReliefItem, error) {
	idx := FindReliefItem(s.ReliefItems, name)
	if idx < 0 {
		return nil, NotFound("relief item %q not found", name)
	}
	it := s.ReliefItems[idx]
	if p.Name != nil {
		if other := FindReliefItem(s.ReliefItems, *p.Name); other >= 0 && other != idx {
			return nil, duplicateRelief(*p.Name)
		}
		it.Name = *p.Name
	}
	if p.Category != nil {
		it.Category = *p.Category
	}
	if p.Quantity != nil {
		it.Quantity = *p.Quantity
	}
	if p.Unit != nil {
		it.Unit = *p.Unit
	}
	if p.PriorityLevel != nil {
		it.PriorityLevel = *p.PriorityLevel
	}
	if err := validateReliefItem(&it); err != nil {
		return nil, err
	}
	it.UpdatedAt = now
	s.ReliefItems[idx] = it
	return &s.ReliefItems[idx], nil
}

func RemoveReliefItem(s *model.Shelter, name string) error {
	idx := FindReliefItem(s.ReliefItems, name)
	if idx < 0 {
		return NotFound("relief item %q not found", name)
	}
	s.ReliefItems = append(s.ReliefItems[:idx], s.ReliefItems[idx+1:]...)
	return nil
}

// CriticalReliefItems lists items that are out of stock or flagged CRITICAL.
func CriticalReliefItems(items []model.ReliefItem) []model.ReliefItem {
	out := []model.ReliefItem{}
	for _, it := range items {
		if it.Quantity == 0 || it.PriorityLevel == model.SeverityCritical {
			out = append(out, it)
		}
	}
	return out
}
