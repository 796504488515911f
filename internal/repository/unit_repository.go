package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"tenure-registry/internal/models"

	"github.com/jmoiron/sqlx"
)

type UnitRepository struct {
	db *sqlx.DB
}

func NewUnitRepository(db *sqlx.DB) *UnitRepository {
	return &UnitRepository{db: db}
}

func (r *UnitRepository) FindAll(limit, offset int, buildingID string) ([]models.PropertyUnit, int, error) {
	var units []models.PropertyUnit
	var total int

	whereClause := ""
	args := []interface{}{}

	if buildingID != "" {
		whereClause = "WHERE building_id = ?"
		args = append(args, buildingID)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM property_units %s", whereClause)
	if err := r.db.Get(&total, countQuery, args...); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT * FROM property_units %s
		ORDER BY building_id, unit_number
		LIMIT ? OFFSET ?`, whereClause)
	args = append(args, limit, offset)
	if err := r.db.Select(&units, query, args...); err != nil {
		return nil, 0, err
	}

	return units, total, nil
}

// FindByBuildingAndNumber looks a unit up by its (building_id, unit_number)
// composite key. Absence returns (nil, nil).
func (r *UnitRepository) FindByBuildingAndNumber(buildingID, unitNumber string) (*models.PropertyUnit, error) {
	var unit models.PropertyUnit
	query := "SELECT * FROM property_units WHERE building_id = ? AND unit_number = ? LIMIT 1"
	err := r.db.Get(&unit, query, buildingID, unitNumber)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &unit, nil
}

func (r *UnitRepository) Create(unit *models.PropertyUnit) error {
	query := `INSERT INTO property_units (unit_uuid, unit_id, building_id, unit_number, unit_type,
	          floor_number, apartment_status, area_sqm, created_by)
	          VALUES (:unit_uuid, :unit_id, :building_id, :unit_number, :unit_type,
	          :floor_number, :apartment_status, :area_sqm, :created_by)`
	result, err := r.db.NamedExec(query, unit)
	if err != nil {
		return err
	}
	id, _ := result.LastInsertId()
	unit.ID = int(id)
	return nil
}
