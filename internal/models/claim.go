package models

import "time"

// Claim is a tenure-rights claim linking at least one claimant person to a
// property unit.
type Claim struct {
	ID          int       `db:"id" json:"id"`
	ClaimUUID   string    `db:"claim_uuid" json:"claim_uuid"`
	CaseNumber  string    `db:"case_number" json:"case_number"`
	UnitID      string    `db:"unit_id" json:"unit_id"`
	ClaimantID  string    `db:"claimant_id" json:"claimant_id"`
	ClaimType   string    `db:"claim_type" json:"claim_type"`   // ownership, tenancy, inheritance
	CaseStatus  string    `db:"case_status" json:"case_status"` // draft, submitted, under_review, approved, rejected
	Notes       string    `db:"notes" json:"notes"`
	CreatedBy   string    `db:"created_by" json:"created_by"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}
