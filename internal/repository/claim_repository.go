package repository

import (
	"tenure-registry/internal/models"

	"github.com/jmoiron/sqlx"
)

type ClaimRepository struct {
	db *sqlx.DB
}

func NewClaimRepository(db *sqlx.DB) *ClaimRepository {
	return &ClaimRepository{db: db}
}

func (r *ClaimRepository) Create(claim *models.Claim) error {
	query := `INSERT INTO claims (claim_uuid, case_number, unit_id, claimant_id, claim_type,
	          case_status, notes, created_by)
	          VALUES (:claim_uuid, :case_number, :unit_id, :claimant_id, :claim_type,
	          :case_status, :notes, :created_by)`
	result, err := r.db.NamedExec(query, claim)
	if err != nil {
		return err
	}
	id, _ := result.LastInsertId()
	claim.ID = int(id)
	return nil
}
