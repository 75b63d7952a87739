package test

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
)

// TmpFile returns a path for a new SQLite database. The file lives in the
// temporary directory of t and is removed with it.
func TmpFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "coincraft-"+uuid.NewString()+".db")
}
