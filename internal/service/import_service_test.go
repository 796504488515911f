package service

import (
	"fmt"
	"testing"

	"tenure-registry/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func personRaw(id string, payload map[string]interface{}) RawRecord {
	return RawRecord{RecordID: id, RecordType: models.RecordTypePerson, Payload: payload}
}

func validPerson(id, nationalID string) RawRecord {
	return personRaw(id, map[string]interface{}{
		"person_id":   id,
		"first_name":  "Ahmad",
		"last_name":   "Khalil",
		"national_id": nationalID,
	})
}

func newTestPipeline(data *ContainerData) (*ImportService, *fakePersonStore, *fakeHistoryStore) {
	buildings, units, persons, claims, history := emptyStores()
	reader := &stubReader{data: data}
	validator := NewRecordValidator(testRegion())
	duplicates := NewDuplicateService(buildings, units, persons)
	commits := NewCommitService(buildings, units, persons, claims, "inspector")
	svc := NewImportService(reader, validator, duplicates, commits, history, "inspector", 10)
	return svc, persons, history
}

func TestLoadFileRejectsIncompleteManifest(t *testing.T) {
	data := &ContainerData{Manifest: &models.ImportManifest{Version: "1.0"}}
	svc, _, _ := newTestPipeline(data)

	_, err := svc.LoadFile("package.uhc")
	assert.ErrorIs(t, err, ErrInvalidManifest)
}

func TestValidateAllRequiresLoadedFile(t *testing.T) {
	svc, _, _ := newTestPipeline(&ContainerData{Manifest: completeManifest(0)})
	_, err := svc.ValidateAll(nil)
	assert.Error(t, err)
}

func TestValidateAllPreservesOrderAndReportsProgress(t *testing.T) {
	data := &ContainerData{Manifest: completeManifest(3)}
	for i := 0; i < 3; i++ {
		data.Records = append(data.Records, validPerson(fmt.Sprintf("P-%d", i), fmt.Sprintf("1000000000%d", i)))
	}
	svc, _, _ := newTestPipeline(data)

	loaded, err := svc.LoadFile("package.uhc")
	require.NoError(t, err)
	assert.Equal(t, 3, loaded.ExtractedCount)

	var calls [][2]int
	records, err := svc.ValidateAll(func(current, total int) {
		calls = append(calls, [2]int{current, total})
	})
	require.NoError(t, err)
	require.Len(t, records, 3)

	for i, record := range records {
		assert.Equal(t, fmt.Sprintf("P-%d", i), record.RecordID)
	}
	require.Len(t, calls, 3)
	assert.Equal(t, [2]int{1, 3}, calls[0])
	assert.Equal(t, [2]int{3, 3}, calls[2])
}

func TestFullRunWithMixedOutcomes(t *testing.T) {
	data := &ContainerData{Manifest: completeManifest(16)}
	// 10 clean records
	for i := 0; i < 10; i++ {
		data.Records = append(data.Records, validPerson(fmt.Sprintf("OK-%d", i), fmt.Sprintf("2000000000%d", i)))
	}
	// 2 with advisory warnings
	for i := 0; i < 2; i++ {
		data.Records = append(data.Records, personRaw(fmt.Sprintf("WARN-%d", i), map[string]interface{}{
			"first_name":   "Omar",
			"last_name":    "Saleh",
			"national_id":  fmt.Sprintf("3000000000%d", i),
			"phone_number": "12345",
		}))
	}
	// 3 with hard errors
	for i := 0; i < 3; i++ {
		data.Records = append(data.Records, personRaw(fmt.Sprintf("BAD-%d", i), map[string]interface{}{
			"first_name": "Nour",
		}))
	}
	// 1 colliding with the registry
	data.Records = append(data.Records, validPerson("DUP-0", "99999999999"))

	svc, persons, history := newTestPipeline(data)
	persons.existing["99999999999"] = &models.Person{NationalID: "99999999999"}

	_, err := svc.LoadFile("package.uhc")
	require.NoError(t, err)
	_, err = svc.ValidateAll(nil)
	require.NoError(t, err)

	summary := svc.GetValidationSummary()
	assert.Equal(t, 16, summary.Total)
	assert.Equal(t, 10, summary.Valid)
	assert.Equal(t, 2, summary.Warnings)
	assert.Equal(t, 3, summary.Errors)
	assert.Equal(t, 1, summary.Duplicates)

	// Commit with the duplicate left unresolved
	result, err := svc.Commit(nil)
	require.NoError(t, err)

	assert.Equal(t, 16, result.TotalRecords)
	assert.Equal(t, 12, result.Imported)
	assert.Equal(t, 3, result.Failed)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 2, result.Warnings)
	assert.False(t, result.Success)
	assert.NotEmpty(t, result.ImportID)
	assert.Contains(t, result.ImportID, "IMP-")

	require.Len(t, history.entries, 1)
	entry := history.entries[0]
	assert.Equal(t, models.HistoryCompletedWithErrors, entry.Status)
	assert.Equal(t, 12, entry.ImportedRecords)
	assert.Equal(t, 3, entry.FailedRecords)
	assert.Equal(t, 1, entry.SkippedRecords)
	assert.Equal(t, "inspector", entry.ImportedBy)
}

func TestCommitEmptyStagingStillAudited(t *testing.T) {
	data := &ContainerData{Manifest: completeManifest(0)}
	svc, _, history := newTestPipeline(data)

	_, err := svc.LoadFile("package.uhc")
	require.NoError(t, err)
	_, err = svc.ValidateAll(nil)
	require.NoError(t, err)

	result, err := svc.Commit(nil)
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Zero(t, result.TotalRecords)
	assert.Zero(t, result.Imported)
	assert.Zero(t, result.Failed)
	assert.Zero(t, result.Skipped)

	require.Len(t, history.entries, 1)
	assert.Equal(t, models.HistoryCompleted, history.entries[0].Status)
}

func TestCommitRunIDsDistinctWithinOneSecond(t *testing.T) {
	ids := make(map[string]bool)
	for i := 0; i < 3; i++ {
		svc, _, _ := newTestPipeline(&ContainerData{Manifest: completeManifest(0)})
		_, err := svc.LoadFile("package.uhc")
		require.NoError(t, err)
		_, err = svc.ValidateAll(nil)
		require.NoError(t, err)

		result, err := svc.Commit(nil)
		require.NoError(t, err)
		assert.Regexp(t, `^IMP-\d{14}-[0-9a-f]{8}$`, result.ImportID)
		assert.False(t, ids[result.ImportID], "run id %s reused", result.ImportID)
		ids[result.ImportID] = true
	}
}

func TestResolveRecordFlows(t *testing.T) {
	data := &ContainerData{Manifest: completeManifest(2)}
	data.Records = append(data.Records,
		validPerson("DUP-SKIP", "99999999999"),
		validPerson("DUP-MERGE", "88888888888"),
	)

	svc, persons, _ := newTestPipeline(data)
	persons.existing["99999999999"] = &models.Person{NationalID: "99999999999"}
	persons.existing["88888888888"] = &models.Person{NationalID: "88888888888"}

	_, err := svc.LoadFile("package.uhc")
	require.NoError(t, err)
	_, err = svc.ValidateAll(nil)
	require.NoError(t, err)
	require.Len(t, svc.GetRecordsByStatus(models.StatusDuplicate), 2)

	assert.True(t, svc.ResolveRecord("DUP-SKIP", models.ResolutionSkip))
	assert.True(t, svc.ResolveRecord("DUP-MERGE", models.ResolutionMerge))
	assert.False(t, svc.ResolveRecord("NO-SUCH", models.ResolutionSkip))
	// Resolving a non-duplicate is rejected
	assert.False(t, svc.ResolveRecord("DUP-MERGE", models.ResolutionSkip))

	result, err := svc.Commit(nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, 1, result.Skipped)
	assert.True(t, result.Success)

	// The merged record was written
	assert.Len(t, persons.created, 1)
	assert.Equal(t, "88888888888", persons.created[0].NationalID)
}

func TestCommitTruncatesErrorList(t *testing.T) {
	data := &ContainerData{Manifest: completeManifest(5)}
	for i := 0; i < 5; i++ {
		data.Records = append(data.Records, personRaw(fmt.Sprintf("BAD-%d", i), map[string]interface{}{}))
	}

	buildings, units, persons, claims, history := emptyStores()
	svc := NewImportService(&stubReader{data: data}, NewRecordValidator(testRegion()),
		NewDuplicateService(buildings, units, persons),
		NewCommitService(buildings, units, persons, claims, "inspector"),
		history, "inspector", 3)

	_, err := svc.LoadFile("package.uhc")
	require.NoError(t, err)
	_, err = svc.ValidateAll(nil)
	require.NoError(t, err)

	result, err := svc.Commit(nil)
	require.NoError(t, err)
	assert.Equal(t, 5, result.Failed)
	// Each bad person carries two errors; the list is capped at maxErrors
	assert.Len(t, result.Errors, 3)
}

func TestCommitHistoryFailureSurfaces(t *testing.T) {
	data := &ContainerData{Manifest: completeManifest(1)}
	data.Records = append(data.Records, validPerson("P-1", "20000000001"))

	svc, _, history := newTestPipeline(data)
	history.failAppend = true

	_, err := svc.LoadFile("package.uhc")
	require.NoError(t, err)
	_, err = svc.ValidateAll(nil)
	require.NoError(t, err)

	result, err := svc.Commit(nil)
	assert.Error(t, err)
	// The write itself happened; only the audit row failed
	require.NotNil(t, result)
	assert.Equal(t, 1, result.Imported)
}

func TestRestoreRebuildsStaging(t *testing.T) {
	svc, _, history := newTestPipeline(&ContainerData{Manifest: completeManifest(0)})

	record := models.NewImportRecord("P-1", models.RecordTypePerson, map[string]interface{}{
		"first_name": "Ahmad",
		"last_name":  "Khalil",
	})
	record.SetValidation(nil, nil)

	svc.Restore("/uploads/pkg.uhc", completeManifest(1), []*models.ImportRecord{record})

	result, err := svc.Commit(nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)

	require.Len(t, history.entries, 1)
	assert.Equal(t, "pkg.uhc", history.entries[0].FileName)
	assert.Equal(t, "deadbeef", history.entries[0].FileHash)
}

func TestClearAbandonsRun(t *testing.T) {
	data := &ContainerData{Manifest: completeManifest(1)}
	data.Records = append(data.Records, validPerson("P-1", "20000000001"))
	svc, _, _ := newTestPipeline(data)

	_, err := svc.LoadFile("package.uhc")
	require.NoError(t, err)
	_, err = svc.ValidateAll(nil)
	require.NoError(t, err)
	require.Len(t, svc.Records(), 1)

	svc.Clear()
	assert.Empty(t, svc.Records())
	_, err = svc.ValidateAll(nil)
	assert.Error(t, err)
}
