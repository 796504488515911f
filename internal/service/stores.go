package service

import "tenure-registry/internal/models"

// Store contracts consumed by the pipeline. The repository package
// satisfies them; tests swap in fakes. Finders return (nil, nil) when the
// entity does not exist.
type BuildingStore interface {
	FindByBuildingID(buildingID string) (*models.Building, error)
	Create(building *models.Building) error
}

type UnitStore interface {
	FindByBuildingAndNumber(buildingID, unitNumber string) (*models.PropertyUnit, error)
	Create(unit *models.PropertyUnit) error
}

type PersonStore interface {
	FindByNationalID(nationalID string) (*models.Person, error)
	Create(person *models.Person) error
}

type ClaimStore interface {
	Create(claim *models.Claim) error
}

type HistoryStore interface {
	Append(entry *models.ImportHistoryEntry) error
}
