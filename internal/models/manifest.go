package models

// ImportManifest is the header section of a .uhc container describing what
// it contains and how it was produced. Parsed once per load and held for the
// duration of one run.
type ImportManifest struct {
	PackageID string `json:"package_id"`
	Version   string `json:"version"`
	CreatedAt string `json:"created_at"`

	// RecordCount is the count declared by the producing device. -1 means
	// the container never declared one, which fails Complete; an explicit
	// zero is a legal, empty container.
	RecordCount int `json:"record_count"`
	Checksum      string            `json:"checksum"`
	DeviceID      string            `json:"device_id,omitempty"`
	CollectorID   string            `json:"collector_id,omitempty"`
	VocabVersions map[string]string `json:"vocab_versions,omitempty"`
}

// Complete reports whether the manifest carries the minimum set of keys an
// import run requires. Device and collector metadata are advisory.
func (m *ImportManifest) Complete() bool {
	if m == nil {
		return false
	}
	return m.Version != "" && m.CreatedAt != "" && m.RecordCount >= 0 && m.Checksum != ""
}
