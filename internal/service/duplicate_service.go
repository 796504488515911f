package service

import (
	"fmt"

	"tenure-registry/internal/models"
	"tenure-registry/internal/utils"
)

// DuplicateService checks staged records against the live registry by
// natural key. Detection is advisory: it only escalates records that
// already passed validation, and a lookup failure never blocks the run.
type DuplicateService struct {
	buildings BuildingStore
	units     UnitStore
	persons   PersonStore
}

func NewDuplicateService(buildings BuildingStore, units UnitStore, persons PersonStore) *DuplicateService {
	return &DuplicateService{buildings: buildings, units: units, persons: persons}
}

// DetectDuplicates marks the record as a duplicate when its natural key is
// already registered. Records with errors are left untouched. Claims have
// no natural key and are never flagged.
func (s *DuplicateService) DetectDuplicates(record *models.ImportRecord) {
	if !record.Committable() {
		return
	}

	switch record.RecordType {
	case models.RecordTypeBuilding:
		key, ok := payloadString(record.Payload, "building_id")
		if !ok {
			return
		}
		existing, err := s.buildings.FindByBuildingID(key)
		if err != nil {
			s.logLookupFailure(record, err)
			return
		}
		if existing != nil {
			record.MarkDuplicate(key, fmt.Sprintf("Building %s already exists in the registry", key))
		}

	case models.RecordTypeUnit:
		buildingID, okB := payloadString(record.Payload, "building_id", "building_ref")
		unitNumber, okN := payloadString(record.Payload, "unit_number")
		if !okB || !okN {
			return
		}
		existing, err := s.units.FindByBuildingAndNumber(buildingID, unitNumber)
		if err != nil {
			s.logLookupFailure(record, err)
			return
		}
		if existing != nil {
			record.MarkDuplicate(existing.UnitID,
				fmt.Sprintf("Unit %s in building %s already exists in the registry", unitNumber, buildingID))
		}

	case models.RecordTypePerson:
		raw, ok := payloadString(record.Payload, "national_id")
		if !ok {
			return
		}
		key := cleanNationalID(raw)
		existing, err := s.persons.FindByNationalID(key)
		if err != nil {
			s.logLookupFailure(record, err)
			return
		}
		if existing != nil {
			record.MarkDuplicate(key, fmt.Sprintf("A person with national ID %s already exists in the registry", key))
		}
	}
}

func (s *DuplicateService) logLookupFailure(record *models.ImportRecord, err error) {
	utils.GetLogger().Warnf("Duplicate lookup failed for %s %s: %v", record.RecordType, record.RecordID, err)
}
