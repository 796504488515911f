package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"tenure-registry/internal/models"

	"github.com/jmoiron/sqlx"
)

type PersonRepository struct {
	db *sqlx.DB
}

func NewPersonRepository(db *sqlx.DB) *PersonRepository {
	return &PersonRepository{db: db}
}

func (r *PersonRepository) FindAll(limit, offset int, search string) ([]models.Person, int, error) {
	var persons []models.Person
	var total int

	whereClause := ""
	args := []interface{}{}

	if search != "" {
		whereClause = `WHERE national_id LIKE ? OR first_name LIKE ? OR last_name LIKE ?
		               OR first_name_ar LIKE ? OR last_name_ar LIKE ?`
		pattern := "%" + search + "%"
		args = append(args, pattern, pattern, pattern, pattern, pattern)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM persons %s", whereClause)
	if err := r.db.Get(&total, countQuery, args...); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT * FROM persons %s
		ORDER BY last_name, first_name
		LIMIT ? OFFSET ?`, whereClause)
	args = append(args, limit, offset)
	if err := r.db.Select(&persons, query, args...); err != nil {
		return nil, 0, err
	}

	return persons, total, nil
}

// FindByNationalID looks a person up by national ID. Absence returns
// (nil, nil).
func (r *PersonRepository) FindByNationalID(nationalID string) (*models.Person, error) {
	var person models.Person
	query := "SELECT * FROM persons WHERE national_id = ? LIMIT 1"
	err := r.db.Get(&person, query, nationalID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &person, nil
}

func (r *PersonRepository) Create(person *models.Person) error {
	query := `INSERT INTO persons (person_uuid, first_name, first_name_ar, father_name, last_name,
	          last_name_ar, gender, year_of_birth, nationality, national_id, phone_number, email,
	          address, created_by)
	          VALUES (:person_uuid, :first_name, :first_name_ar, :father_name, :last_name,
	          :last_name_ar, :gender, :year_of_birth, :nationality, :national_id, :phone_number,
	          :email, :address, :created_by)`
	result, err := r.db.NamedExec(query, person)
	if err != nil {
		return err
	}
	id, _ := result.LastInsertId()
	person.ID = int(id)
	return nil
}
