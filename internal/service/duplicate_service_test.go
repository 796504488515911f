package service

import (
	"errors"
	"testing"

	"tenure-registry/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestDetectDuplicateBuilding(t *testing.T) {
	buildings, units, persons, _, _ := emptyStores()
	buildings.existing["01-02-03-004-005-00678"] = &models.Building{BuildingID: "01-02-03-004-005-00678"}
	svc := NewDuplicateService(buildings, units, persons)

	record := models.NewImportRecord("B-1", models.RecordTypeBuilding, map[string]interface{}{
		"building_id": "01-02-03-004-005-00678",
	})
	record.SetValidation(nil, nil)

	svc.DetectDuplicates(record)
	assert.Equal(t, models.StatusDuplicate, record.Status)
	assert.Equal(t, "01-02-03-004-005-00678", record.DuplicateOf)
}

func TestDetectDuplicateUnitCompositeKey(t *testing.T) {
	buildings, units, persons, _, _ := emptyStores()
	units.existing[unitKey("01-02-03-004-005-00678", "12")] = &models.PropertyUnit{
		UnitID: "01-02-03-004-005-00678-012",
	}
	svc := NewDuplicateService(buildings, units, persons)

	record := models.NewImportRecord("U-1", models.RecordTypeUnit, map[string]interface{}{
		"building_id": "01-02-03-004-005-00678",
		"unit_number": "12",
	})
	record.SetValidation(nil, nil)

	svc.DetectDuplicates(record)
	assert.Equal(t, models.StatusDuplicate, record.Status)
	assert.Equal(t, "01-02-03-004-005-00678-012", record.DuplicateOf)

	// Same unit number in a different building is no collision
	other := models.NewImportRecord("U-2", models.RecordTypeUnit, map[string]interface{}{
		"building_id": "09-02-03-004-005-00678",
		"unit_number": "12",
	})
	other.SetValidation(nil, nil)
	svc.DetectDuplicates(other)
	assert.Equal(t, models.StatusValid, other.Status)
}

func TestDetectDuplicatePersonCleansNationalID(t *testing.T) {
	buildings, units, persons, _, _ := emptyStores()
	persons.existing["12345678901"] = &models.Person{NationalID: "12345678901"}
	svc := NewDuplicateService(buildings, units, persons)

	record := models.NewImportRecord("P-1", models.RecordTypePerson, map[string]interface{}{
		"first_name":  "Ahmad",
		"last_name":   "Khalil",
		"national_id": "123-456-789 01",
	})
	record.SetValidation(nil, nil)

	svc.DetectDuplicates(record)
	assert.Equal(t, models.StatusDuplicate, record.Status)
}

func TestDetectDuplicatesSkipsErrorRecords(t *testing.T) {
	buildings, units, persons, _, _ := emptyStores()
	buildings.existing["01-02-03-004-005-00678"] = &models.Building{}
	svc := NewDuplicateService(buildings, units, persons)

	record := models.NewImportRecord("B-1", models.RecordTypeBuilding, map[string]interface{}{
		"building_id": "01-02-03-004-005-00678",
	})
	record.SetValidation([]string{"missing required field"}, nil)

	svc.DetectDuplicates(record)
	assert.Equal(t, models.StatusError, record.Status)
	assert.Empty(t, record.DuplicateOf)
}

func TestDetectDuplicatesClaimsNeverFlagged(t *testing.T) {
	buildings, units, persons, _, _ := emptyStores()
	svc := NewDuplicateService(buildings, units, persons)

	record := models.NewImportRecord("C-1", models.RecordTypeClaim, map[string]interface{}{
		"unit_id":     "01-02-03-004-005-00678-012",
		"claimant_id": "P-000123",
	})
	record.SetValidation(nil, nil)

	svc.DetectDuplicates(record)
	assert.Equal(t, models.StatusValid, record.Status)
}

func TestDetectDuplicatesLookupFailureIsAdvisory(t *testing.T) {
	buildings, units, persons, _, _ := emptyStores()
	buildings.findErr = errors.New("connection lost")
	svc := NewDuplicateService(buildings, units, persons)

	record := models.NewImportRecord("B-1", models.RecordTypeBuilding, map[string]interface{}{
		"building_id": "01-02-03-004-005-00678",
	})
	record.SetValidation(nil, nil)

	svc.DetectDuplicates(record)
	assert.Equal(t, models.StatusValid, record.Status)
}
