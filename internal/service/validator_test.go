package service

import (
	"fmt"
	"testing"
	"time"

	"tenure-registry/internal/models"

	"github.com/stretchr/testify/assert"
)

func testRegion() RegionBounds {
	return RegionBounds{LatMin: 32, LatMax: 38, LngMin: 35, LngMax: 43}
}

func validBuildingPayload() map[string]interface{} {
	return map[string]interface{}{
		"building_id":       "01-02-03-004-005-00678",
		"governorate_code":  "01",
		"district_code":     "02",
		"subdistrict_code":  "03",
		"community_code":    "004",
		"neighborhood_code": "005",
		"latitude":          33.5,
		"longitude":         36.3,
	}
}

func TestValidateBuildingClean(t *testing.T) {
	v := NewRecordValidator(testRegion())
	errs, warns := v.Validate(validBuildingPayload(), models.RecordTypeBuilding)
	assert.Empty(t, errs)
	assert.Empty(t, warns)
}

func TestValidateBuildingIDFormat(t *testing.T) {
	v := NewRecordValidator(testRegion())

	payload := validBuildingPayload()
	payload["building_id"] = "1-2-3"
	errs, _ := v.Validate(payload, models.RecordTypeBuilding)
	assert.Len(t, errs, 1)
	assert.Contains(t, errs[0], "Invalid building ID format")

	// building_id is optional; the code fields carry the requirement
	delete(payload, "building_id")
	errs, _ = v.Validate(payload, models.RecordTypeBuilding)
	assert.Empty(t, errs)
}

func TestValidateBuildingMissingCodes(t *testing.T) {
	v := NewRecordValidator(testRegion())
	payload := validBuildingPayload()
	delete(payload, "community_code")
	delete(payload, "neighborhood_code")

	errs, _ := v.Validate(payload, models.RecordTypeBuilding)
	assert.Len(t, errs, 2)
}

func TestValidateBuildingCoordinates(t *testing.T) {
	v := NewRecordValidator(testRegion())

	// Out of world range is an error
	payload := validBuildingPayload()
	payload["latitude"] = 95.0
	errs, warns := v.Validate(payload, models.RecordTypeBuilding)
	assert.Len(t, errs, 1)
	assert.Empty(t, warns)

	// Inside the world but outside the region is a warning
	payload = validBuildingPayload()
	payload["latitude"] = 48.85
	payload["longitude"] = 2.35
	errs, warns = v.Validate(payload, models.RecordTypeBuilding)
	assert.Empty(t, errs)
	assert.Len(t, warns, 2)

	// Unparseable coordinate is an error
	payload = validBuildingPayload()
	payload["latitude"] = "north"
	errs, _ = v.Validate(payload, models.RecordTypeBuilding)
	assert.Len(t, errs, 1)
}

func TestValidatePersonNames(t *testing.T) {
	v := NewRecordValidator(testRegion())

	// Arabic-only names satisfy the requirement
	errs, _ := v.Validate(map[string]interface{}{
		"first_name_ar": "أحمد",
		"last_name_ar":  "الحسن",
	}, models.RecordTypePerson)
	assert.Empty(t, errs)

	errs, _ = v.Validate(map[string]interface{}{
		"first_name": "Ahmad",
	}, models.RecordTypePerson)
	assert.Len(t, errs, 1)
	assert.Contains(t, errs[0], "last_name")
}

func TestValidatePersonNationalID(t *testing.T) {
	v := NewRecordValidator(testRegion())
	base := map[string]interface{}{"first_name": "Ahmad", "last_name": "Khalil"}

	base["national_id"] = "12345678901"
	errs, _ := v.Validate(base, models.RecordTypePerson)
	assert.Empty(t, errs)

	// Separators are stripped before the digit check
	base["national_id"] = "123-456-789 01"
	errs, _ = v.Validate(base, models.RecordTypePerson)
	assert.Empty(t, errs)

	base["national_id"] = "1234"
	errs, _ = v.Validate(base, models.RecordTypePerson)
	assert.Len(t, errs, 1)
	assert.Contains(t, errs[0], "11 digits")
}

func TestValidatePersonPhoneIsAdvisory(t *testing.T) {
	v := NewRecordValidator(testRegion())
	payload := map[string]interface{}{
		"first_name":   "Ahmad",
		"last_name":    "Khalil",
		"phone_number": "12345",
	}

	errs, warns := v.Validate(payload, models.RecordTypePerson)
	assert.Empty(t, errs)
	assert.Len(t, warns, 1)

	for _, phone := range []string{"0912345678", "+963912345678", "912345678"} {
		payload["phone_number"] = phone
		_, warns = v.Validate(payload, models.RecordTypePerson)
		assert.Empty(t, warns, "phone %s", phone)
	}
}

func TestValidatePersonYearOfBirth(t *testing.T) {
	v := NewRecordValidator(testRegion())
	payload := map[string]interface{}{
		"first_name":    "Ahmad",
		"last_name":     "Khalil",
		"year_of_birth": 1890,
	}

	errs, _ := v.Validate(payload, models.RecordTypePerson)
	assert.Len(t, errs, 1)

	payload["year_of_birth"] = time.Now().Year() + 1
	errs, _ = v.Validate(payload, models.RecordTypePerson)
	assert.Len(t, errs, 1)

	payload["year_of_birth"] = 1975
	errs, _ = v.Validate(payload, models.RecordTypePerson)
	assert.Empty(t, errs)
}

func TestValidateUnit(t *testing.T) {
	v := NewRecordValidator(testRegion())

	errs, _ := v.Validate(map[string]interface{}{}, models.RecordTypeUnit)
	assert.Len(t, errs, 2)

	payload := map[string]interface{}{
		"building_id": "01-02-03-004-005-00678",
		"unit_type":   "apartment",
		"floor_number": 60,
	}
	errs, warns := v.Validate(payload, models.RecordTypeUnit)
	assert.Empty(t, errs)
	assert.Len(t, warns, 1)

	payload["floor_number"] = 3
	_, warns = v.Validate(payload, models.RecordTypeUnit)
	assert.Empty(t, warns)
}

func TestValidateClaim(t *testing.T) {
	v := NewRecordValidator(testRegion())

	errs, _ := v.Validate(map[string]interface{}{}, models.RecordTypeClaim)
	assert.Len(t, errs, 2)

	errs, _ = v.Validate(map[string]interface{}{
		"unit_id":     "01-02-03-004-005-00678-U01",
		"claimant_id": "P-000123",
	}, models.RecordTypeClaim)
	assert.Empty(t, errs)
}

func TestValidateUnknownType(t *testing.T) {
	v := NewRecordValidator(testRegion())
	errs, warns := v.Validate(map[string]interface{}{}, "vehicle")
	assert.Len(t, errs, 1)
	assert.Contains(t, errs[0], "Unknown record type")
	assert.Empty(t, warns)
}

func TestPayloadHelpers(t *testing.T) {
	payload := map[string]interface{}{
		"a": "hello",
		"b": float64(7),
		"c": "",
		"d": "3.5",
	}

	value, ok := payloadString(payload, "missing", "a")
	assert.True(t, ok)
	assert.Equal(t, "hello", value)

	_, ok = payloadString(payload, "c")
	assert.False(t, ok)

	f, ok, err := payloadFloat(payload, "d")
	assert.True(t, ok)
	assert.NoError(t, err)
	assert.Equal(t, 3.5, f)

	_, ok, err = payloadFloat(payload, "a")
	assert.True(t, ok)
	assert.Error(t, err)

	n, ok, err := payloadInt(payload, "b")
	assert.True(t, ok)
	assert.NoError(t, err)
	assert.Equal(t, 7, n)
}

func TestBuildingIDPatternTable(t *testing.T) {
	valid := []string{"01-02-03-004-005-00678", "14-10-10-999-999-99999"}
	invalid := []string{"1-02-03-004-005-00678", "01-02-03-004-005-0067", "01020300400500678", ""}

	for i, id := range valid {
		assert.True(t, buildingIDPattern.MatchString(id), fmt.Sprintf("valid case %d", i))
	}
	for i, id := range invalid {
		assert.False(t, buildingIDPattern.MatchString(id), fmt.Sprintf("invalid case %d", i))
	}
}
