package service

import (
	"errors"

	"tenure-registry/internal/models"
)

// In-memory stores backing the pipeline tests.

type fakeBuildingStore struct {
	existing   map[string]*models.Building
	created    []*models.Building
	failCreate bool
	findErr    error
}

func (f *fakeBuildingStore) FindByBuildingID(buildingID string) (*models.Building, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.existing[buildingID], nil
}

func (f *fakeBuildingStore) Create(building *models.Building) error {
	if f.failCreate {
		return errors.New("insert failed")
	}
	f.created = append(f.created, building)
	return nil
}

type fakeUnitStore struct {
	existing   map[string]*models.PropertyUnit
	created    []*models.PropertyUnit
	failCreate bool
}

func unitKey(buildingID, unitNumber string) string {
	return buildingID + "/" + unitNumber
}

func (f *fakeUnitStore) FindByBuildingAndNumber(buildingID, unitNumber string) (*models.PropertyUnit, error) {
	return f.existing[unitKey(buildingID, unitNumber)], nil
}

func (f *fakeUnitStore) Create(unit *models.PropertyUnit) error {
	if f.failCreate {
		return errors.New("insert failed")
	}
	f.created = append(f.created, unit)
	return nil
}

type fakePersonStore struct {
	existing   map[string]*models.Person
	created    []*models.Person
	failCreate bool
}

func (f *fakePersonStore) FindByNationalID(nationalID string) (*models.Person, error) {
	return f.existing[nationalID], nil
}

func (f *fakePersonStore) Create(person *models.Person) error {
	if f.failCreate {
		return errors.New("insert failed")
	}
	f.created = append(f.created, person)
	return nil
}

type fakeClaimStore struct {
	created    []*models.Claim
	failCreate bool
}

func (f *fakeClaimStore) Create(claim *models.Claim) error {
	if f.failCreate {
		return errors.New("insert failed")
	}
	f.created = append(f.created, claim)
	return nil
}

type fakeHistoryStore struct {
	entries    []*models.ImportHistoryEntry
	failAppend bool
}

func (f *fakeHistoryStore) Append(entry *models.ImportHistoryEntry) error {
	if f.failAppend {
		return errors.New("append failed")
	}
	f.entries = append(f.entries, entry)
	return nil
}

func emptyStores() (*fakeBuildingStore, *fakeUnitStore, *fakePersonStore, *fakeClaimStore, *fakeHistoryStore) {
	return &fakeBuildingStore{existing: map[string]*models.Building{}},
		&fakeUnitStore{existing: map[string]*models.PropertyUnit{}},
		&fakePersonStore{existing: map[string]*models.Person{}},
		&fakeClaimStore{},
		&fakeHistoryStore{}
}

// stubReader serves a canned container; ReadFile ignores the path.
type stubReader struct {
	data    *ContainerData
	readErr error
}

func (r *stubReader) ReadFile(path string) (*ContainerData, error) {
	if r.readErr != nil {
		return nil, r.readErr
	}
	return r.data, nil
}

func (r *stubReader) ValidateManifest(manifest *models.ImportManifest) bool {
	return manifest.Complete()
}

func (r *stubReader) ExtractRecords(data *ContainerData) *RecordIterator {
	return &RecordIterator{records: data.Records}
}

func completeManifest(count int) *models.ImportManifest {
	return &models.ImportManifest{
		PackageID:   "PKG-TEST",
		Version:     "1.0",
		CreatedAt:   "2026-01-10T08:00:00Z",
		RecordCount: count,
		Checksum:    "deadbeef",
	}
}
