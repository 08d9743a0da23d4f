package library

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FailureLog writes one text file per failed source into Dir, named after
// the source path. An empty Dir disables it.
type FailureLog struct {
	Dir string
}

func (f FailureLog) Record(r Result) error {
	if f.Dir == "" || r.Err == nil {
		return nil
	}
	if err := os.MkdirAll(f.Dir, 0o755); err != nil {
		return err
	}
	name := failureName(r.Source.Path)
	reason := fmt.Sprintf("%s\n\n%s\n", r.Source.Path, r.Err)
	if err := os.WriteFile(filepath.Join(f.Dir, name), []byte(reason), 0o644); err != nil {
		return fmt.Errorf("record failure for %s: %w", r.Source.Path, err)
	}
	return nil
}

var failureNameReplacer = strings.NewReplacer("/", "_", "\\", "_", ":", "_")

func failureName(path string) string {
	return failureNameReplacer.Replace(strings.TrimLeft(filepath.ToSlash(path), "/")) + ".txt"
}
