package findings

import "time"

// FileReport holds the findings of a single scanned source file.
type FileReport struct {
	// File is the path relative to the scan root, using forward slashes.
	File string `json:"file"`
	// Sha256 is the hex digest of the file content at scan time.
	Sha256   string    `json:"sha256"`
	Findings []Finding `json:"findings"`
}

// Provenance records where the scanned sources came from when the run
// happens inside a CI pipeline. All fields are optional.
type Provenance struct {
	RepositoryURL string `json:"repository_url,omitempty"`
	Revision      string `json:"revision,omitempty"`
	Branch        string `json:"branch,omitempty"`
}

// ScanReport is the result of one analyse run over a directory tree.
type ScanReport struct {
	Tool          string       `json:"tool,omitempty"`
	ToolVersion   string       `json:"tool_version,omitempty"`
	Target        string       `json:"target"`
	StartedAt     time.Time    `json:"started_at"`
	FinishedAt    time.Time    `json:"finished_at"`
	FilesScanned  int          `json:"files_scanned"`
	TotalFindings int          `json:"total_findings"`
	Provenance    *Provenance  `json:"provenance,omitempty"`
	Files         []FileReport `json:"files"`
}

// TotalCount returns the number of findings across all files.
func (r *ScanReport) TotalCount() int {
	total := 0
	for _, file := range r.Files {
		total += len(file.Findings)
	}
	return total
}

// Finalize stamps the completion time and recomputes the summary counters.
func (r *ScanReport) Finalize(finishedAt time.Time) {
	r.FinishedAt = finishedAt
	r.FilesScanned = len(r.Files)
	r.TotalFindings = r.TotalCount()
}
