package retention

import (
	"fmt"

	"github.com/goccy/go-json"
)

// DeletionError reports a backup that could not be removed.
type DeletionError struct {
	Path string
	Name string
	Err  error
}

func (e *DeletionError) Error() string {
	return fmt.Sprintf("deleting %s: %v", e.Name, e.Err)
}

func (e *DeletionError) Unwrap() error {
	return e.Err
}

func (e *DeletionError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Path  string `json:"path"`
		Error string `json:"error"`
	}{e.Path, e.Err.Error()})
}
