package domain

import (
	"strings"

	"disasterprep/model"
)

var reportTransitions = map[model.ReportStatus][]model.ReportStatus{
	model.ReportPending:            {model.ReportCommunityConfirmed, model.ReportAdminVerified, model.ReportRejected},
	model.ReportCommunityConfirmed: {model.ReportAdminVerified, model.ReportRejected},
	model.ReportAdminVerified:      {model.ReportResolved, model.ReportRejected},
}

func CanTransitionReport(from, to model.ReportStatus) bool {
	for _, s := range reportTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// TransitionReport moves r to status `to`, recording who did it.
func TransitionReport(r *model.Report, to model.ReportStatus, adminID, note string) error {
	if !CanTransitionReport(r.Status, to) {
		return Validation("cannot change report status from %s to %s", r.Status, to).
			With("currentStatus", r.Status)
	}
	r.Status = to
	if note = strings.TrimSpace(note); note != "" {
		r.AdminNote = note
	}
	if to == model.ReportAdminVerified {
		r.VerifiedBy = adminID
	}
	return nil
}

func ValidCategory(c model.DisasterCategory) bool {
	switch c {
	case model.CategoryFlood, model.CategoryEarthquake, model.CategoryFire, model.CategoryLandslide,
		model.CategoryStorm, model.CategoryTsunami, model.CategoryVolcano, model.CategoryDrought,
		model.CategoryOther:
		return true
	}
	return false
}

func ValidSeverity(s model.Severity) bool {
	return s.Rank() > 0
}

func ValidateLocation(l model.Location) error {
	if l.Latitude < -90 || l.Latitude > 90 {
		return Validation("latitude must be between -90 and 90")
	}
	if l.Longitude < -180 || l.Longitude > 180 {
		return Validation("longitude must be between -180 and 180")
	}
	return nil
}
