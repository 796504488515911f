package models

import "time"

// Building is a physical structure identified by the 17-digit composite
// code GG-DD-SS-CCC-NNN-BBBBB (governorate, district, subdistrict,
// community, neighborhood, building number).
type Building struct {
	ID               int       `db:"id" json:"id"`
	BuildingUUID     string    `db:"building_uuid" json:"building_uuid"`
	BuildingID       string    `db:"building_id" json:"building_id"`
	GovernorateCode  string    `db:"governorate_code" json:"governorate_code"`
	DistrictCode     string    `db:"district_code" json:"district_code"`
	SubdistrictCode  string    `db:"subdistrict_code" json:"subdistrict_code"`
	CommunityCode    string    `db:"community_code" json:"community_code"`
	NeighborhoodCode string    `db:"neighborhood_code" json:"neighborhood_code"`
	BuildingNumber   string    `db:"building_number" json:"building_number"`
	BuildingType     string    `db:"building_type" json:"building_type"`     // residential, commercial, mixed_use
	BuildingStatus   string    `db:"building_status" json:"building_status"` // intact, minor_damage, major_damage, destroyed
	NumberOfUnits    int       `db:"number_of_units" json:"number_of_units"`
	NumberOfFloors   int       `db:"number_of_floors" json:"number_of_floors"`
	Latitude         *float64  `db:"latitude" json:"latitude"`
	Longitude        *float64  `db:"longitude" json:"longitude"`
	CreatedBy        string    `db:"created_by" json:"created_by"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}
