package models

import "time"

// Person supports Arabic and Latin name fields and the 11-digit Syrian
// national ID, which serves as the natural key for duplicate lookups.
type Person struct {
	ID          int       `db:"id" json:"id"`
	PersonUUID  string    `db:"person_uuid" json:"person_uuid"`
	FirstName   string    `db:"first_name" json:"first_name"`
	FirstNameAr string    `db:"first_name_ar" json:"first_name_ar"`
	FatherName  string    `db:"father_name" json:"father_name"`
	LastName    string    `db:"last_name" json:"last_name"`
	LastNameAr  string    `db:"last_name_ar" json:"last_name_ar"`
	Gender      string    `db:"gender" json:"gender"`
	YearOfBirth *int      `db:"year_of_birth" json:"year_of_birth"`
	Nationality string    `db:"nationality" json:"nationality"`
	NationalID  string    `db:"national_id" json:"national_id"`
	PhoneNumber string    `db:"phone_number" json:"phone_number"`
	Email       string    `db:"email" json:"email"`
	Address     string    `db:"address" json:"address"`
	CreatedBy   string    `db:"created_by" json:"created_by"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}
