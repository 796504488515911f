package service

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/rand"
	"time"

	"tenure-registry/internal/models"
)

// SyntheticReader generates a deterministic container in memory. Used for
// demos and load rehearsal when no field package is at hand: the same seed
// always yields the same records, so re-reads are stable.
type SyntheticReader struct {
	seed  int64
	count int
}

func NewSyntheticReader(seed int64, count int) *SyntheticReader {
	if count <= 0 {
		count = 20
	}
	return &SyntheticReader{seed: seed, count: count}
}

var (
	sampleFirstNames   = []string{"Ahmad", "Mohammed", "Fatima", "Aisha", "Omar", "Layla", "Khaled", "Nour"}
	sampleFirstNamesAr = []string{"أحمد", "محمد", "فاطمة", "عائشة", "عمر", "ليلى", "خالد", "نور"}
	sampleLastNames    = []string{"Al-Hassan", "Khalil", "Haddad", "Saleh", "Najjar", "Aziz"}
	sampleLastNamesAr  = []string{"الحسن", "خليل", "حداد", "صالح", "نجار", "عزيز"}
	sampleUnitTypes    = []string{"apartment", "shop", "office", "storage"}
	sampleStatuses     = []string{"occupied", "vacant", "damaged", "destroyed"}
)

func (r *SyntheticReader) ReadFile(path string) (*ContainerData, error) {
	rng := rand.New(rand.NewSource(r.seed))

	checksum := sha256.Sum256([]byte(path))
	manifest := &models.ImportManifest{
		PackageID:   fmt.Sprintf("PKG-%08d", rng.Intn(100000000)),
		Version:     "1.0",
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
		RecordCount: r.count,
		Checksum:    hex.EncodeToString(checksum[:]),
		DeviceID:    fmt.Sprintf("TAB-%04d", rng.Intn(10000)),
		CollectorID: fmt.Sprintf("COL-%03d", rng.Intn(1000)),
		VocabVersions: map[string]string{
			"unit_types":    "1.2",
			"claim_reasons": "1.0",
		},
	}

	data := &ContainerData{Manifest: manifest}
	var lastBuilding, lastUnit, lastPerson string

	for i := 0; i < r.count; i++ {
		switch rng.Intn(4) {
		case 0:
			id := r.buildingID(rng)
			lastBuilding = id
			data.Records = append(data.Records, RawRecord{
				RecordID:   id,
				RecordType: models.RecordTypeBuilding,
				Payload:    r.buildingPayload(rng, id),
			})
		case 1:
			if lastBuilding == "" {
				lastBuilding = r.buildingID(rng)
			}
			id := fmt.Sprintf("%s-U%02d", lastBuilding, rng.Intn(40)+1)
			lastUnit = id
			data.Records = append(data.Records, RawRecord{
				RecordID:   id,
				RecordType: models.RecordTypeUnit,
				Payload:    r.unitPayload(rng, id, lastBuilding),
			})
		case 2:
			id := fmt.Sprintf("P-%06d", rng.Intn(1000000))
			lastPerson = id
			data.Records = append(data.Records, RawRecord{
				RecordID:   id,
				RecordType: models.RecordTypePerson,
				Payload:    r.personPayload(rng, id),
			})
		default:
			if lastUnit == "" {
				lastUnit = fmt.Sprintf("%s-U01", r.buildingID(rng))
			}
			if lastPerson == "" {
				lastPerson = fmt.Sprintf("P-%06d", rng.Intn(1000000))
			}
			id := fmt.Sprintf("CLM-%06d", rng.Intn(1000000))
			data.Records = append(data.Records, RawRecord{
				RecordID:   id,
				RecordType: models.RecordTypeClaim,
				Payload: map[string]interface{}{
					"claim_id":    id,
					"case_number": fmt.Sprintf("CASE-%d-%04d", time.Now().Year(), rng.Intn(10000)),
					"unit_id":     lastUnit,
					"claimant_id": lastPerson,
					"claim_type":  "ownership",
				},
			})
		}
	}

	return data, nil
}

func (r *SyntheticReader) ValidateManifest(manifest *models.ImportManifest) bool {
	return manifest.Complete()
}

func (r *SyntheticReader) ExtractRecords(data *ContainerData) *RecordIterator {
	return &RecordIterator{records: data.Records}
}

func (r *SyntheticReader) buildingID(rng *rand.Rand) string {
	return fmt.Sprintf("%02d-%02d-%02d-%03d-%03d-%05d",
		rng.Intn(14)+1, rng.Intn(10)+1, rng.Intn(10)+1,
		rng.Intn(999)+1, rng.Intn(999)+1, rng.Intn(99999)+1)
}

func (r *SyntheticReader) buildingPayload(rng *rand.Rand, id string) map[string]interface{} {
	parts := [6]string{id[0:2], id[3:5], id[6:8], id[9:12], id[13:16], id[17:]}
	return map[string]interface{}{
		"building_id":       id,
		"governorate_code":  parts[0],
		"district_code":     parts[1],
		"subdistrict_code":  parts[2],
		"community_code":    parts[3],
		"neighborhood_code": parts[4],
		"building_number":   parts[5],
		"latitude":          33.0 + rng.Float64()*4,
		"longitude":         36.0 + rng.Float64()*5,
		"address":           fmt.Sprintf("Street %d, Block %d", rng.Intn(50)+1, rng.Intn(20)+1),
	}
}

func (r *SyntheticReader) unitPayload(rng *rand.Rand, id, buildingID string) map[string]interface{} {
	return map[string]interface{}{
		"unit_id":          id,
		"building_id":      buildingID,
		"unit_number":      fmt.Sprintf("%d", rng.Intn(40)+1),
		"unit_type":        sampleUnitTypes[rng.Intn(len(sampleUnitTypes))],
		"floor_number":     rng.Intn(12) - 1,
		"area_sqm":         40 + rng.Float64()*160,
		"occupancy_status": sampleStatuses[rng.Intn(len(sampleStatuses))],
	}
}

func (r *SyntheticReader) personPayload(rng *rand.Rand, id string) map[string]interface{} {
	idx := rng.Intn(len(sampleFirstNames))
	last := rng.Intn(len(sampleLastNames))
	return map[string]interface{}{
		"person_id":     id,
		"first_name":    sampleFirstNames[idx],
		"first_name_ar": sampleFirstNamesAr[idx],
		"last_name":     sampleLastNames[last],
		"last_name_ar":  sampleLastNamesAr[last],
		"national_id":   fmt.Sprintf("%011d", rng.Int63n(100000000000)),
		"year_of_birth": 1945 + rng.Intn(60),
		"phone_number":  fmt.Sprintf("09%08d", rng.Intn(100000000)),
	}
}
