package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"tenure-registry/internal/service"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Generates a sample .uhc container for local testing: a SQLite file with
// a _manifest table and the four entity tables, populated from the
// deterministic synthetic reader.
func main() {
	output := flag.String("o", "sample.uhc", "output container path")
	count := flag.Int("n", 30, "number of records to generate")
	seed := flag.Int64("seed", 42, "random seed")
	flag.Parse()

	if err := generate(*output, *count, *seed); err != nil {
		log.Fatalf("Failed to generate container: %v", err)
	}
	fmt.Printf("Wrote %s (%d records)\n", *output, *count)
}

func generate(output string, count int, seed int64) error {
	// The synthetic reader provides the data; this tool only persists it.
	reader := service.NewSyntheticReader(seed, count)
	data, err := reader.ReadFile(output)
	if err != nil {
		return err
	}

	os.Remove(output)
	db, err := sqlx.Connect("sqlite", output)
	if err != nil {
		return err
	}
	defer db.Close()

	schema := []string{
		`CREATE TABLE _manifest (key TEXT PRIMARY KEY, value TEXT)`,
		`CREATE TABLE buildings (building_id TEXT, governorate_code TEXT, district_code TEXT,
		 subdistrict_code TEXT, community_code TEXT, neighborhood_code TEXT, building_number TEXT,
		 latitude REAL, longitude REAL, address TEXT)`,
		`CREATE TABLE property_units (unit_id TEXT, building_id TEXT, unit_number TEXT,
		 unit_type TEXT, floor_number INTEGER, area_sqm REAL, occupancy_status TEXT)`,
		`CREATE TABLE persons (person_id TEXT, first_name TEXT, first_name_ar TEXT,
		 last_name TEXT, last_name_ar TEXT, national_id TEXT, year_of_birth INTEGER, phone_number TEXT)`,
		`CREATE TABLE claims (claim_id TEXT, case_number TEXT, unit_id TEXT, claimant_id TEXT, claim_type TEXT)`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	manifest := map[string]interface{}{
		"package_id":     data.Manifest.PackageID,
		"version":        data.Manifest.Version,
		"created_at":     data.Manifest.CreatedAt,
		"record_count":   data.Manifest.RecordCount,
		"checksum":       data.Manifest.Checksum,
		"device_id":      data.Manifest.DeviceID,
		"collector_id":   data.Manifest.CollectorID,
		"vocab_versions": data.Manifest.VocabVersions,
	}
	for key, value := range manifest {
		encoded, err := json.Marshal(value)
		if err != nil {
			return err
		}
		if _, err := db.Exec("INSERT INTO _manifest (key, value) VALUES (?, ?)", key, string(encoded)); err != nil {
			return err
		}
	}

	tables := map[string]struct {
		insert string
		fields []string
	}{
		"building": {
			insert: `INSERT INTO buildings VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			fields: []string{"building_id", "governorate_code", "district_code", "subdistrict_code",
				"community_code", "neighborhood_code", "building_number", "latitude", "longitude", "address"},
		},
		"unit": {
			insert: `INSERT INTO property_units VALUES (?, ?, ?, ?, ?, ?, ?)`,
			fields: []string{"unit_id", "building_id", "unit_number", "unit_type", "floor_number",
				"area_sqm", "occupancy_status"},
		},
		"person": {
			insert: `INSERT INTO persons VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			fields: []string{"person_id", "first_name", "first_name_ar", "last_name", "last_name_ar",
				"national_id", "year_of_birth", "phone_number"},
		},
		"claim": {
			insert: `INSERT INTO claims VALUES (?, ?, ?, ?, ?)`,
			fields: []string{"claim_id", "case_number", "unit_id", "claimant_id", "claim_type"},
		},
	}

	for _, record := range data.Records {
		table, ok := tables[record.RecordType]
		if !ok {
			continue
		}
		args := make([]interface{}, 0, len(table.fields))
		for _, field := range table.fields {
			args = append(args, record.Payload[field])
		}
		if _, err := db.Exec(table.insert, args...); err != nil {
			return err
		}
	}

	return nil
}
