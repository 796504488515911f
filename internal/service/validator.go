package service

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"tenure-registry/internal/models"
)

var (
	buildingIDPattern = regexp.MustCompile(`^\d{2}-\d{2}-\d{2}-\d{3}-\d{3}-\d{5}$`)
	nationalIDPattern = regexp.MustCompile(`^\d{11}$`)
	phonePattern      = regexp.MustCompile(`^(\+?963|0)?9\d{8}$`)
	emailPattern      = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// RegionBounds is the plausibility box for coordinates. Points inside the
// world but outside the box get a warning, not an error.
type RegionBounds struct {
	LatMin, LatMax float64
	LngMin, LngMax float64
}

// RecordValidator applies per-type field rules to a raw payload. It is
// stateless and never touches the database; duplicate detection is a
// separate pass.
type RecordValidator struct {
	region RegionBounds
}

func NewRecordValidator(region RegionBounds) *RecordValidator {
	return &RecordValidator{region: region}
}

// Validate returns the hard errors and advisory warnings for one payload.
// Unknown record types are a hard error.
func (v *RecordValidator) Validate(payload map[string]interface{}, recordType string) ([]string, []string) {
	switch recordType {
	case models.RecordTypeBuilding:
		return v.validateBuilding(payload)
	case models.RecordTypeUnit:
		return v.validateUnit(payload)
	case models.RecordTypePerson:
		return v.validatePerson(payload)
	case models.RecordTypeClaim:
		return v.validateClaim(payload)
	default:
		return []string{fmt.Sprintf("Unknown record type: %s", recordType)}, nil
	}
}

func (v *RecordValidator) validateBuilding(payload map[string]interface{}) (errors, warnings []string) {
	if id, ok := payloadString(payload, "building_id"); ok {
		if !buildingIDPattern.MatchString(id) {
			errors = append(errors, fmt.Sprintf("Invalid building ID format: %s (expected GG-DD-SS-CCC-NNN-BBBBB)", id))
		}
	}

	for _, field := range []string{"governorate_code", "district_code", "subdistrict_code", "community_code", "neighborhood_code"} {
		if _, ok := payloadString(payload, field); !ok {
			errors = append(errors, fmt.Sprintf("Missing required field: %s", field))
		}
	}

	lat, latOK, latErr := payloadFloat(payload, "latitude", "geo_latitude", "lat")
	lng, lngOK, lngErr := payloadFloat(payload, "longitude", "geo_longitude", "lng", "lon")
	if latErr != nil {
		errors = append(errors, fmt.Sprintf("Invalid latitude value (%v)", latErr))
	}
	if lngErr != nil {
		errors = append(errors, fmt.Sprintf("Invalid longitude value (%v)", lngErr))
	}

	if latOK && latErr == nil {
		if lat < -90 || lat > 90 {
			errors = append(errors, fmt.Sprintf("Latitude out of range: %v", lat))
		} else if lat < v.region.LatMin || lat > v.region.LatMax {
			warnings = append(warnings, fmt.Sprintf("Latitude %v is outside the expected region", lat))
		}
	}
	if lngOK && lngErr == nil {
		if lng < -180 || lng > 180 {
			errors = append(errors, fmt.Sprintf("Longitude out of range: %v", lng))
		} else if lng < v.region.LngMin || lng > v.region.LngMax {
			warnings = append(warnings, fmt.Sprintf("Longitude %v is outside the expected region", lng))
		}
	}

	return errors, warnings
}

func (v *RecordValidator) validateUnit(payload map[string]interface{}) (errors, warnings []string) {
	if _, ok := payloadString(payload, "building_id", "building_ref"); !ok {
		errors = append(errors, "Missing required field: building_id")
	}
	if _, ok := payloadString(payload, "unit_type"); !ok {
		errors = append(errors, "Missing required field: unit_type")
	}

	floor, ok, err := payloadInt(payload, "floor_number", "floor")
	if err != nil {
		errors = append(errors, fmt.Sprintf("Invalid floor number (%v)", err))
	} else if ok && (floor < -5 || floor > 50) {
		warnings = append(warnings, fmt.Sprintf("Unusual floor number: %d", floor))
	}

	return errors, warnings
}

func (v *RecordValidator) validatePerson(payload map[string]interface{}) (errors, warnings []string) {
	if _, ok := payloadString(payload, "first_name", "first_name_ar"); !ok {
		errors = append(errors, "Missing required field: first_name (or first_name_ar)")
	}
	if _, ok := payloadString(payload, "last_name", "last_name_ar"); !ok {
		errors = append(errors, "Missing required field: last_name (or last_name_ar)")
	}

	if raw, ok := payloadString(payload, "national_id"); ok {
		if !nationalIDPattern.MatchString(cleanNationalID(raw)) {
			errors = append(errors, fmt.Sprintf("Invalid national ID: %s (expected 11 digits)", raw))
		}
	}

	if phone, ok := payloadString(payload, "phone_number", "phone", "mobile_number"); ok {
		if !phonePattern.MatchString(cleanPhone(phone)) {
			warnings = append(warnings, fmt.Sprintf("Phone number %s does not look like a valid Syrian number", phone))
		}
	}

	if email, ok := payloadString(payload, "email"); ok {
		if !emailPattern.MatchString(email) {
			warnings = append(warnings, fmt.Sprintf("Email address %s looks malformed", email))
		}
	}

	year, ok, err := payloadInt(payload, "year_of_birth")
	if err != nil {
		errors = append(errors, fmt.Sprintf("Invalid year of birth (%v)", err))
	} else if ok {
		current := time.Now().Year()
		if year < 1900 || year > current {
			errors = append(errors, fmt.Sprintf("Year of birth out of range: %d", year))
		}
	}

	return errors, warnings
}

func (v *RecordValidator) validateClaim(payload map[string]interface{}) (errors, warnings []string) {
	if _, ok := payloadString(payload, "unit_id", "property_unit_id"); !ok {
		errors = append(errors, "Missing required field: unit_id")
	}
	if _, ok := payloadString(payload, "claimant_id", "person_id"); !ok {
		errors = append(errors, "Missing required field: claimant_id")
	}
	return errors, warnings
}

func cleanNationalID(raw string) string {
	raw = strings.ReplaceAll(raw, " ", "")
	return strings.ReplaceAll(raw, "-", "")
}

func cleanPhone(raw string) string {
	raw = strings.ReplaceAll(raw, " ", "")
	return strings.ReplaceAll(raw, "-", "")
}
