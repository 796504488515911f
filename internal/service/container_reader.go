package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"tenure-registry/internal/models"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Fatal-to-run load failures. Everything per-record is captured on the
// record itself, never raised.
var (
	ErrFileNotFound     = errors.New("import file not found")
	ErrWrongExtension   = errors.New("unsupported file extension")
	ErrCorruptContainer = errors.New("container manifest is missing or unreadable")
	ErrInvalidManifest  = errors.New("invalid manifest in import file")
)

// RawRecord is one entity row as extracted from the container, before it
// enters the staging area.
type RawRecord struct {
	RecordID   string
	RecordType string
	Payload    map[string]interface{}
}

// ContainerData is the parsed content of one import container.
type ContainerData struct {
	Manifest *models.ImportManifest
	Records  []RawRecord
}

// RecordIterator yields staging records one at a time, in container order.
// It is a single pass: once drained, records must be re-extracted by
// re-reading the file.
type RecordIterator struct {
	records []RawRecord
	pos     int
}

func (it *RecordIterator) Total() int {
	return len(it.records)
}

func (it *RecordIterator) Next() (*models.ImportRecord, bool) {
	if it.pos >= len(it.records) {
		return nil, false
	}
	raw := it.records[it.pos]
	it.pos++
	return models.NewImportRecord(raw.RecordID, raw.RecordType, raw.Payload), true
}

// ContainerReader is the four-phase source contract: read, validate the
// manifest, extract, yield. The orchestrator is indifferent to which
// implementation is wired in.
type ContainerReader interface {
	ReadFile(path string) (*ContainerData, error)
	ValidateManifest(manifest *models.ImportManifest) bool
	ExtractRecords(data *ContainerData) *RecordIterator
}

// UHCReader reads real .uhc containers: SQLite files carrying a key/value
// manifest table and one table per entity kind. A missing entity table is
// not an error; that kind simply contributes zero records.
type UHCReader struct {
	extension string
}

func NewUHCReader(extension string) *UHCReader {
	if extension == "" {
		extension = ".uhc"
	}
	return &UHCReader{extension: extension}
}

// Entity tables in read order. property_units has a legacy alias.
var containerTables = []struct {
	names      []string
	recordType string
}{
	{[]string{"buildings"}, models.RecordTypeBuilding},
	{[]string{"property_units", "units"}, models.RecordTypeUnit},
	{[]string{"persons"}, models.RecordTypePerson},
	{[]string{"claims"}, models.RecordTypeClaim},
}

func (r *UHCReader) ReadFile(path string) (*ContainerData, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}
	if !strings.EqualFold(filepath.Ext(path), r.extension) {
		return nil, fmt.Errorf("%w: expected %s, got %s", ErrWrongExtension, r.extension, filepath.Ext(path))
	}

	db, err := sqlx.Connect("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptContainer, err)
	}
	defer db.Close()

	manifest, err := r.readManifest(db)
	if err != nil {
		return nil, err
	}

	data := &ContainerData{Manifest: manifest}
	seq := 0

	for _, table := range containerTables {
		name := firstExistingTable(db, table.names)
		if name == "" {
			continue
		}

		rows, err := db.Queryx(fmt.Sprintf("SELECT * FROM %q", name))
		if err != nil {
			return nil, fmt.Errorf("%w: reading table %s: %v", ErrCorruptContainer, name, err)
		}

		for rows.Next() {
			payload := map[string]interface{}{}
			if err := rows.MapScan(payload); err != nil {
				rows.Close()
				return nil, fmt.Errorf("%w: reading table %s: %v", ErrCorruptContainer, name, err)
			}
			normalizePayload(payload)
			seq++
			data.Records = append(data.Records, RawRecord{
				RecordID:   recordID(table.recordType, payload, seq),
				RecordType: table.recordType,
				Payload:    payload,
			})
		}
		rows.Close()
	}

	return data, nil
}

func (r *UHCReader) ValidateManifest(manifest *models.ImportManifest) bool {
	return manifest.Complete()
}

func (r *UHCReader) ExtractRecords(data *ContainerData) *RecordIterator {
	return &RecordIterator{records: data.Records}
}

// readManifest parses the _manifest key/value table (legacy containers used
// "metadata"). Values may be JSON-encoded.
func (r *UHCReader) readManifest(db *sqlx.DB) (*models.ImportManifest, error) {
	table := firstExistingTable(db, []string{"_manifest", "metadata"})
	if table == "" {
		return nil, ErrCorruptContainer
	}

	rows, err := db.Queryx(fmt.Sprintf("SELECT key, value FROM %q", table))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptContainer, err)
	}
	defer rows.Close()

	entries := map[string]string{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorruptContainer, err)
		}
		entries[key] = value
	}
	if len(entries) == 0 {
		return nil, ErrCorruptContainer
	}

	manifest := &models.ImportManifest{
		PackageID:   manifestString(entries, "package_id"),
		Version:     manifestString(entries, "version", "schema_version"),
		CreatedAt:   manifestString(entries, "created_at", "created_utc"),
		Checksum:    manifestString(entries, "checksum"),
		DeviceID:    manifestString(entries, "device_id"),
		CollectorID: manifestString(entries, "collector_id"),
		RecordCount: -1,
	}

	if raw, ok := firstKey(entries, "record_count"); ok {
		if n, err := parseManifestCount(raw); err == nil {
			manifest.RecordCount = n
		}
	}
	if raw, ok := firstKey(entries, "vocab_versions"); ok {
		vocab := map[string]string{}
		if err := json.Unmarshal([]byte(raw), &vocab); err == nil {
			manifest.VocabVersions = vocab
		}
	}

	return manifest, nil
}

func firstExistingTable(db *sqlx.DB, names []string) string {
	for _, name := range names {
		var found string
		err := db.Get(&found, "SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", name)
		if err == nil {
			return found
		}
	}
	return ""
}

func firstKey(entries map[string]string, keys ...string) (string, bool) {
	for _, key := range keys {
		if value, ok := entries[key]; ok {
			return value, true
		}
	}
	return "", false
}

// manifestString unquotes JSON-encoded string values and passes plain
// strings through.
func manifestString(entries map[string]string, keys ...string) string {
	raw, ok := firstKey(entries, keys...)
	if !ok {
		return ""
	}
	var decoded string
	if err := json.Unmarshal([]byte(raw), &decoded); err == nil {
		return decoded
	}
	return raw
}

func parseManifestCount(raw string) (int, error) {
	raw = strings.Trim(strings.TrimSpace(raw), `"`)
	return strconv.Atoi(raw)
}

// normalizePayload converts driver byte slices to strings so payload
// consumers see ordinary values.
func normalizePayload(payload map[string]interface{}) {
	for key, value := range payload {
		if b, ok := value.([]byte); ok {
			payload[key] = string(b)
		}
	}
}

// recordID prefers the entity's natural-key field, falling back to a
// synthesized sequential id.
func recordID(recordType string, payload map[string]interface{}, seq int) string {
	var keys []string
	switch recordType {
	case models.RecordTypeBuilding:
		keys = []string{"building_id", "id"}
	case models.RecordTypeUnit:
		keys = []string{"unit_id", "id"}
	case models.RecordTypePerson:
		keys = []string{"person_id", "national_id", "id"}
	case models.RecordTypeClaim:
		keys = []string{"claim_id", "case_number", "id"}
	}
	if id, ok := payloadString(payload, keys...); ok {
		return id
	}
	return fmt.Sprintf("REC-%04d", seq)
}
