package types

// SkipReason explains why a file was left in place.
type SkipReason string

const (
	SkipNoExtension SkipReason = "no extension"
	SkipNoRule      SkipReason = "no matching rule"
)

// Move records one file routed into a destination folder.
type Move struct {
	FileName    string `json:"file_name"`
	Folder      string `json:"folder"`
	Source      string `json:"source"`
	Destination string `json:"destination"`
	Size        int64  `json:"size"`
}

// Skip records one file left in place.
type Skip struct {
	FileName string     `json:"file_name"`
	Reason   SkipReason `json:"reason"`
}

// FileFailure records a recoverable per-file move failure.
type FileFailure struct {
	FileName string `json:"file_name"`
	Message  string `json:"message"`
}

// OrganizeReport is the outcome of one organize run.
// Processed == Moved + Skipped + Failed.
type OrganizeReport struct {
	Directory  string        `json:"directory"`
	DryRun     bool          `json:"dry_run"`
	Processed  int           `json:"processed"`
	Moved      int           `json:"moved"`
	Skipped    int           `json:"skipped"`
	Failed     int           `json:"failed"`
	BytesMoved int64         `json:"bytes_moved"`
	Moves      []Move        `json:"moves,omitempty"`
	Skips      []Skip        `json:"skips,omitempty"`
	Errors     []FileFailure `json:"errors"`
}

// NewOrganizeReport returns an empty report for directory.
func NewOrganizeReport(directory string, dryRun bool) *OrganizeReport {
	return &OrganizeReport{
		Directory: directory,
		DryRun:    dryRun,
		Errors:    []FileFailure{},
	}
}

// AddMove counts a successful (or, in a dry run, planned) move.
func (r *OrganizeReport) AddMove(m Move) {
	r.Moves = append(r.Moves, m)
	r.Moved++
	r.Processed++
	r.BytesMoved += m.Size
}

// AddSkip counts a file left in place.
func (r *OrganizeReport) AddSkip(fileName string, reason SkipReason) {
	r.Skips = append(r.Skips, Skip{FileName: fileName, Reason: reason})
	r.Skipped++
	r.Processed++
}

// AddFailure counts a file whose move failed.
func (r *OrganizeReport) AddFailure(fileName string, err error) {
	r.Errors = append(r.Errors, FileFailure{FileName: fileName, Message: err.Error()})
	r.Failed++
	r.Processed++
}

// HasErrors reports whether any move failed.
func (r *OrganizeReport) HasErrors() bool {
	return len(r.Errors) > 0
}
