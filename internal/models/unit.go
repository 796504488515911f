package models

import "time"

// PropertyUnit is a unit within a building. Its natural key is the
// (building_id, unit_number) composite; unit_id is building_id plus a
// 3-digit unit number.
type PropertyUnit struct {
	ID              int       `db:"id" json:"id"`
	UnitUUID        string    `db:"unit_uuid" json:"unit_uuid"`
	UnitID          string    `db:"unit_id" json:"unit_id"`
	BuildingID      string    `db:"building_id" json:"building_id"`
	UnitNumber      string    `db:"unit_number" json:"unit_number"`
	UnitType        string    `db:"unit_type" json:"unit_type"` // apartment, shop, office, warehouse, garage, other
	FloorNumber     int       `db:"floor_number" json:"floor_number"`
	ApartmentStatus string    `db:"apartment_status" json:"apartment_status"` // occupied, vacant, unknown
	AreaSqm         *float64  `db:"area_sqm" json:"area_sqm"`
	CreatedBy       string    `db:"created_by" json:"created_by"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}
