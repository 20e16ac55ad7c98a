package backup

import "fmt"

// DirectoryAccessError is returned when the catalog directory cannot be listed.
type DirectoryAccessError struct {
	Dir string
	Err error
}

func (e *DirectoryAccessError) Error() string {
	return fmt.Sprintf("listing %s: %v", e.Dir, e.Err)
}

func (e *DirectoryAccessError) Unwrap() error {
	return e.Err
}

// ExtractionWarning reports a backup-like file whose name carries no usable
// timestamp. Such files are left out of the catalog and never deleted.
type ExtractionWarning struct {
	Path string `json:"path"`
	Name string `json:"name"`
}

func (w ExtractionWarning) String() string {
	return fmt.Sprintf("could not parse date from %s", w.Name)
}
