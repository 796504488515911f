package service

import (
	"regexp"
	"strconv"
	"time"

	"tenure-registry/internal/models"
	"tenure-registry/internal/utils"

	"github.com/google/uuid"
)

// fieldAliases maps each canonical entity field to the payload spellings
// accepted for it, in preference order. Built once so the mapping code
// never branches on spelling.
var fieldAliases = map[string][]string{
	"building_id":       {"building_id", "bldg_id"},
	"governorate_code":  {"governorate_code", "gov_code"},
	"district_code":     {"district_code"},
	"subdistrict_code":  {"subdistrict_code", "sub_district_code"},
	"community_code":    {"community_code"},
	"neighborhood_code": {"neighborhood_code", "neighbourhood_code"},
	"building_number":   {"building_number", "bldg_number"},
	"building_type":     {"building_type"},
	"building_status":   {"building_status", "damage_status"},
	"number_of_units":   {"number_of_units", "unit_count"},
	"number_of_floors":  {"number_of_floors", "floor_count"},
	"latitude":          {"latitude", "geo_latitude", "lat"},
	"longitude":         {"longitude", "geo_longitude", "lng", "lon"},

	"unit_id":          {"unit_id"},
	"unit_number":      {"unit_number", "apt_number"},
	"unit_type":        {"unit_type"},
	"floor_number":     {"floor_number", "floor"},
	"apartment_status": {"apartment_status", "occupancy_status"},
	"area_sqm":         {"area_sqm", "area"},

	"first_name":    {"first_name"},
	"first_name_ar": {"first_name_ar", "first_name_arabic"},
	"father_name":   {"father_name"},
	"last_name":     {"last_name", "family_name"},
	"last_name_ar":  {"last_name_ar", "last_name_arabic"},
	"gender":        {"gender", "sex"},
	"year_of_birth": {"year_of_birth"},
	"nationality":   {"nationality"},
	"national_id":   {"national_id"},
	"phone_number":  {"phone_number", "phone", "mobile_number"},
	"email":         {"email"},
	"address":       {"address", "full_address"},

	"case_number": {"case_number"},
	"claimant_id": {"claimant_id", "person_id"},
	"claim_unit":  {"unit_id", "property_unit_id"},
	"claim_type":  {"claim_type"},
	"notes":       {"notes", "comments"},
}

var birthYearPattern = regexp.MustCompile(`\b(\d{4})\b`)

// CommitService turns eligible staged records into registry entities. A
// persistence failure leaves the record's status unchanged so the caller
// counts it as failed without losing its validation state.
type CommitService struct {
	buildings BuildingStore
	units     UnitStore
	persons   PersonStore
	claims    ClaimStore
	operator  string
}

func NewCommitService(buildings BuildingStore, units UnitStore, persons PersonStore, claims ClaimStore, operator string) *CommitService {
	return &CommitService{
		buildings: buildings,
		units:     units,
		persons:   persons,
		claims:    claims,
		operator:  operator,
	}
}

// CommitRecord writes one record. Ineligible records are a no-op returning
// false. On success the record's status becomes imported.
func (s *CommitService) CommitRecord(record *models.ImportRecord) bool {
	if !record.Committable() {
		return false
	}

	var err error
	switch record.RecordType {
	case models.RecordTypeBuilding:
		err = s.buildings.Create(s.buildBuilding(record.Payload))
	case models.RecordTypeUnit:
		err = s.units.Create(s.buildUnit(record.Payload))
	case models.RecordTypePerson:
		err = s.persons.Create(s.buildPerson(record.Payload))
	case models.RecordTypeClaim:
		err = s.claims.Create(s.buildClaim(record.Payload))
	default:
		return false
	}

	if err != nil {
		utils.GetLogger().Warnf("Failed to commit %s %s: %v", record.RecordType, record.RecordID, err)
		return false
	}

	record.Status = models.StatusImported
	return true
}

func (s *CommitService) field(payload map[string]interface{}, canonical string) string {
	value, _ := payloadString(payload, fieldAliases[canonical]...)
	return value
}

func (s *CommitService) intField(payload map[string]interface{}, canonical string) int {
	value, _, _ := payloadInt(payload, fieldAliases[canonical]...)
	return value
}

func (s *CommitService) floatField(payload map[string]interface{}, canonical string) *float64 {
	value, ok, err := payloadFloat(payload, fieldAliases[canonical]...)
	if !ok || err != nil {
		return nil
	}
	return &value
}

func (s *CommitService) buildBuilding(payload map[string]interface{}) *models.Building {
	return &models.Building{
		BuildingUUID:     uuid.NewString(),
		BuildingID:       s.field(payload, "building_id"),
		GovernorateCode:  s.field(payload, "governorate_code"),
		DistrictCode:     s.field(payload, "district_code"),
		SubdistrictCode:  s.field(payload, "subdistrict_code"),
		CommunityCode:    s.field(payload, "community_code"),
		NeighborhoodCode: s.field(payload, "neighborhood_code"),
		BuildingNumber:   s.field(payload, "building_number"),
		BuildingType:     s.field(payload, "building_type"),
		BuildingStatus:   s.field(payload, "building_status"),
		NumberOfUnits:    s.intField(payload, "number_of_units"),
		NumberOfFloors:   s.intField(payload, "number_of_floors"),
		Latitude:         s.floatField(payload, "latitude"),
		Longitude:        s.floatField(payload, "longitude"),
		CreatedBy:        s.operator,
	}
}

func (s *CommitService) buildUnit(payload map[string]interface{}) *models.PropertyUnit {
	return &models.PropertyUnit{
		UnitUUID:        uuid.NewString(),
		UnitID:          s.field(payload, "unit_id"),
		BuildingID:      s.field(payload, "building_id"),
		UnitNumber:      s.field(payload, "unit_number"),
		UnitType:        s.field(payload, "unit_type"),
		FloorNumber:     s.intField(payload, "floor_number"),
		ApartmentStatus: s.field(payload, "apartment_status"),
		AreaSqm:         s.floatField(payload, "area_sqm"),
		CreatedBy:       s.operator,
	}
}

func (s *CommitService) buildPerson(payload map[string]interface{}) *models.Person {
	person := &models.Person{
		PersonUUID:  uuid.NewString(),
		FirstName:   s.field(payload, "first_name"),
		FirstNameAr: s.field(payload, "first_name_ar"),
		FatherName:  s.field(payload, "father_name"),
		LastName:    s.field(payload, "last_name"),
		LastNameAr:  s.field(payload, "last_name_ar"),
		Gender:      s.field(payload, "gender"),
		Nationality: s.field(payload, "nationality"),
		NationalID:  cleanNationalID(s.field(payload, "national_id")),
		PhoneNumber: s.field(payload, "phone_number"),
		Email:       s.field(payload, "email"),
		Address:     s.field(payload, "address"),
		CreatedBy:   s.operator,
	}
	if year := s.birthYear(payload); year > 0 {
		person.YearOfBirth = &year
	}
	return person
}

// birthYear prefers the explicit field, then extracts a year from
// date_of_birth when the collector only recorded a full date.
func (s *CommitService) birthYear(payload map[string]interface{}) int {
	if year, ok, err := payloadInt(payload, fieldAliases["year_of_birth"]...); ok && err == nil {
		return year
	}
	if dob, ok := payloadString(payload, "date_of_birth", "dob"); ok {
		if t, err := time.Parse("2006-01-02", dob); err == nil {
			return t.Year()
		}
		if m := birthYearPattern.FindString(dob); m != "" {
			year, _ := strconv.Atoi(m)
			return year
		}
	}
	return 0
}

func (s *CommitService) buildClaim(payload map[string]interface{}) *models.Claim {
	return &models.Claim{
		ClaimUUID:  uuid.NewString(),
		CaseNumber: s.field(payload, "case_number"),
		UnitID:     s.field(payload, "claim_unit"),
		ClaimantID: s.field(payload, "claimant_id"),
		ClaimType:  s.field(payload, "claim_type"),
		CaseStatus: "submitted",
		Notes:      s.field(payload, "notes"),
		CreatedBy:  s.operator,
	}
}
