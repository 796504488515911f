package service

import (
	"path/filepath"
	"testing"

	"tenure-registry/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeContainer(t *testing.T, path string, manifestTable string, manifest map[string]string, withEntities bool) {
	t.Helper()

	db, err := sqlx.Connect("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec("CREATE TABLE " + manifestTable + " (key TEXT PRIMARY KEY, value TEXT)")
	require.NoError(t, err)
	for key, value := range manifest {
		_, err = db.Exec("INSERT INTO "+manifestTable+" (key, value) VALUES (?, ?)", key, value)
		require.NoError(t, err)
	}

	if !withEntities {
		return
	}

	_, err = db.Exec(`CREATE TABLE buildings (building_id TEXT, governorate_code TEXT, district_code TEXT,
		subdistrict_code TEXT, community_code TEXT, neighborhood_code TEXT, latitude REAL, longitude REAL)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO buildings VALUES ('01-02-03-004-005-00678', '01', '02', '03', '004', '005', 33.5, 36.3)`)
	require.NoError(t, err)

	_, err = db.Exec(`CREATE TABLE persons (first_name TEXT, last_name TEXT, national_id TEXT)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO persons VALUES ('Ahmad', 'Khalil', '12345678901')`)
	require.NoError(t, err)
}

func defaultManifest() map[string]string {
	return map[string]string{
		"version":      `"1.0"`,
		"created_at":   `"2026-01-10T08:00:00Z"`,
		"record_count": `2`,
		"checksum":     `"deadbeef"`,
		"package_id":   `"PKG-001"`,
	}
}

func TestUHCReaderReadsContainer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pkg.uhc")
	writeContainer(t, path, "_manifest", defaultManifest(), true)

	reader := NewUHCReader(".uhc")
	data, err := reader.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "1.0", data.Manifest.Version)
	assert.Equal(t, 2, data.Manifest.RecordCount)
	assert.Equal(t, "deadbeef", data.Manifest.Checksum)
	assert.True(t, reader.ValidateManifest(data.Manifest))

	require.Len(t, data.Records, 2)
	assert.Equal(t, models.RecordTypeBuilding, data.Records[0].RecordType)
	assert.Equal(t, "01-02-03-004-005-00678", data.Records[0].RecordID)
	assert.Equal(t, models.RecordTypePerson, data.Records[1].RecordType)
	assert.Equal(t, "12345678901", data.Records[1].RecordID)
}

func TestUHCReaderMissingFile(t *testing.T) {
	reader := NewUHCReader(".uhc")
	_, err := reader.ReadFile(filepath.Join(t.TempDir(), "nope.uhc"))
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestUHCReaderWrongExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pkg.db")
	writeContainer(t, path, "_manifest", defaultManifest(), false)

	reader := NewUHCReader(".uhc")
	_, err := reader.ReadFile(path)
	assert.ErrorIs(t, err, ErrWrongExtension)
}

func TestUHCReaderNoManifestTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pkg.uhc")
	db, err := sqlx.Connect("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec("CREATE TABLE buildings (building_id TEXT)")
	require.NoError(t, err)
	db.Close()

	reader := NewUHCReader(".uhc")
	_, err = reader.ReadFile(path)
	assert.ErrorIs(t, err, ErrCorruptContainer)
}

func TestUHCReaderLegacyMetadataTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pkg.uhc")
	writeContainer(t, path, "metadata", map[string]string{
		"schema_version": "1.2",
		"created_utc":    "2025-06-01T00:00:00Z",
		"record_count":   `"0"`,
		"checksum":       "cafe",
	}, false)

	reader := NewUHCReader(".uhc")
	data, err := reader.ReadFile(path)
	require.NoError(t, err)

	// Plain (unquoted) values and quoted counts both parse
	assert.Equal(t, "1.2", data.Manifest.Version)
	assert.Equal(t, "2025-06-01T00:00:00Z", data.Manifest.CreatedAt)
	assert.Equal(t, 0, data.Manifest.RecordCount)
	assert.True(t, reader.ValidateManifest(data.Manifest))
	assert.Empty(t, data.Records)
}

func TestUHCReaderUndeclaredCountFailsManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pkg.uhc")
	manifest := defaultManifest()
	delete(manifest, "record_count")
	writeContainer(t, path, "_manifest", manifest, false)

	reader := NewUHCReader(".uhc")
	data, err := reader.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, -1, data.Manifest.RecordCount)
	assert.False(t, reader.ValidateManifest(data.Manifest))
}

func TestUHCReaderVocabVersions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pkg.uhc")
	manifest := defaultManifest()
	manifest["vocab_versions"] = `{"unit_types": "2.0", "claim_reasons": "1.1"}`
	writeContainer(t, path, "_manifest", manifest, false)

	reader := NewUHCReader(".uhc")
	data, err := reader.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "2.0", data.Manifest.VocabVersions["unit_types"])
	assert.Equal(t, "1.1", data.Manifest.VocabVersions["claim_reasons"])
}
