package service

import (
	"testing"

	"tenure-registry/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommitRecordBuilding(t *testing.T) {
	buildings, units, persons, claims, _ := emptyStores()
	svc := NewCommitService(buildings, units, persons, claims, "inspector")

	record := models.NewImportRecord("B-1", models.RecordTypeBuilding, map[string]interface{}{
		"building_id":       "01-02-03-004-005-00678",
		"governorate_code":  "01",
		"district_code":     "02",
		"subdistrict_code":  "03",
		"community_code":    "004",
		"neighborhood_code": "005",
		"building_number":   "00678",
		"latitude":          33.5,
		"longitude":         36.3,
	})
	record.SetValidation(nil, nil)

	assert.True(t, svc.CommitRecord(record))
	assert.Equal(t, models.StatusImported, record.Status)
	require.Len(t, buildings.created, 1)

	created := buildings.created[0]
	assert.Equal(t, "01-02-03-004-005-00678", created.BuildingID)
	assert.Equal(t, "inspector", created.CreatedBy)
	assert.NotEmpty(t, created.BuildingUUID)
	require.NotNil(t, created.Latitude)
	assert.Equal(t, 33.5, *created.Latitude)
}

func TestCommitRecordUnitAliases(t *testing.T) {
	buildings, units, persons, claims, _ := emptyStores()
	svc := NewCommitService(buildings, units, persons, claims, "inspector")

	// Collector payloads spell apartment_status as occupancy_status
	record := models.NewImportRecord("U-1", models.RecordTypeUnit, map[string]interface{}{
		"unit_id":          "01-02-03-004-005-00678-012",
		"building_id":      "01-02-03-004-005-00678",
		"unit_number":      "12",
		"unit_type":        "apartment",
		"floor":            3,
		"occupancy_status": "occupied",
		"area":             85.5,
	})
	record.SetValidation(nil, nil)

	assert.True(t, svc.CommitRecord(record))
	require.Len(t, units.created, 1)

	created := units.created[0]
	assert.Equal(t, "occupied", created.ApartmentStatus)
	assert.Equal(t, 3, created.FloorNumber)
	require.NotNil(t, created.AreaSqm)
	assert.Equal(t, 85.5, *created.AreaSqm)
}

func TestCommitRecordPersonBirthYear(t *testing.T) {
	buildings, units, persons, claims, _ := emptyStores()
	svc := NewCommitService(buildings, units, persons, claims, "inspector")

	// Explicit year wins
	record := models.NewImportRecord("P-1", models.RecordTypePerson, map[string]interface{}{
		"first_name":    "Ahmad",
		"last_name":     "Khalil",
		"national_id":   "123-456-789 01",
		"year_of_birth": 1970,
		"date_of_birth": "1980-05-01",
	})
	record.SetValidation(nil, nil)
	assert.True(t, svc.CommitRecord(record))
	require.Len(t, persons.created, 1)
	require.NotNil(t, persons.created[0].YearOfBirth)
	assert.Equal(t, 1970, *persons.created[0].YearOfBirth)
	assert.Equal(t, "12345678901", persons.created[0].NationalID)

	// Year derived from date_of_birth when no explicit field
	record = models.NewImportRecord("P-2", models.RecordTypePerson, map[string]interface{}{
		"first_name":    "Fatima",
		"last_name":     "Haddad",
		"date_of_birth": "1980-05-01",
	})
	record.SetValidation(nil, nil)
	assert.True(t, svc.CommitRecord(record))
	require.Len(t, persons.created, 2)
	require.NotNil(t, persons.created[1].YearOfBirth)
	assert.Equal(t, 1980, *persons.created[1].YearOfBirth)
}

func TestCommitRecordIneligibleIsNoOp(t *testing.T) {
	buildings, units, persons, claims, _ := emptyStores()
	svc := NewCommitService(buildings, units, persons, claims, "inspector")

	record := models.NewImportRecord("P-1", models.RecordTypePerson, map[string]interface{}{})
	record.SetValidation([]string{"missing name"}, nil)

	assert.False(t, svc.CommitRecord(record))
	assert.Equal(t, models.StatusError, record.Status)
	assert.Empty(t, persons.created)
}

func TestCommitRecordFailureKeepsStatus(t *testing.T) {
	buildings, units, persons, claims, _ := emptyStores()
	persons.failCreate = true
	svc := NewCommitService(buildings, units, persons, claims, "inspector")

	record := models.NewImportRecord("P-1", models.RecordTypePerson, map[string]interface{}{
		"first_name": "Ahmad",
		"last_name":  "Khalil",
	})
	record.SetValidation(nil, []string{"odd phone"})

	assert.False(t, svc.CommitRecord(record))
	// Status survives the failure so the run can report it as failed
	assert.Equal(t, models.StatusWarning, record.Status)
}

func TestCommitRecordClaim(t *testing.T) {
	buildings, units, persons, claims, _ := emptyStores()
	svc := NewCommitService(buildings, units, persons, claims, "inspector")

	record := models.NewImportRecord("C-1", models.RecordTypeClaim, map[string]interface{}{
		"case_number":      "CASE-2026-0042",
		"property_unit_id": "01-02-03-004-005-00678-012",
		"person_id":        "P-000123",
		"claim_type":       "ownership",
	})
	record.SetValidation(nil, nil)

	assert.True(t, svc.CommitRecord(record))
	require.Len(t, claims.created, 1)
	assert.Equal(t, "01-02-03-004-005-00678-012", claims.created[0].UnitID)
	assert.Equal(t, "P-000123", claims.created[0].ClaimantID)
	assert.Equal(t, "submitted", claims.created[0].CaseStatus)
}
