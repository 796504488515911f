package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"tenure-registry/internal/models"

	"github.com/jmoiron/sqlx"
)

type BuildingRepository struct {
	db *sqlx.DB
}

func NewBuildingRepository(db *sqlx.DB) *BuildingRepository {
	return &BuildingRepository{db: db}
}

func (r *BuildingRepository) FindAll(limit, offset int, search string) ([]models.Building, int, error) {
	var buildings []models.Building
	var total int

	whereClause := ""
	args := []interface{}{}

	if search != "" {
		whereClause = "WHERE building_id LIKE ? OR neighborhood_code = ?"
		args = append(args, "%"+search+"%", search)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM buildings %s", whereClause)
	if err := r.db.Get(&total, countQuery, args...); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT * FROM buildings %s
		ORDER BY building_id
		LIMIT ? OFFSET ?`, whereClause)
	args = append(args, limit, offset)
	if err := r.db.Select(&buildings, query, args...); err != nil {
		return nil, 0, err
	}

	return buildings, total, nil
}

// FindByBuildingID looks a building up by its natural key. Absence is not an
// error; it returns (nil, nil).
func (r *BuildingRepository) FindByBuildingID(buildingID string) (*models.Building, error) {
	var building models.Building
	query := "SELECT * FROM buildings WHERE building_id = ? LIMIT 1"
	err := r.db.Get(&building, query, buildingID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &building, nil
}

func (r *BuildingRepository) Create(building *models.Building) error {
	query := `INSERT INTO buildings (building_uuid, building_id, governorate_code, district_code,
	          subdistrict_code, community_code, neighborhood_code, building_number, building_type,
	          building_status, number_of_units, number_of_floors, latitude, longitude, created_by)
	          VALUES (:building_uuid, :building_id, :governorate_code, :district_code,
	          :subdistrict_code, :community_code, :neighborhood_code, :building_number, :building_type,
	          :building_status, :number_of_units, :number_of_floors, :latitude, :longitude, :created_by)`
	result, err := r.db.NamedExec(query, building)
	if err != nil {
		return err
	}
	id, _ := result.LastInsertId()
	building.ID = int(id)
	return nil
}
