package storage

import "fmt"

// Backend kinds accepted by Open.
const (
	KindFile   = "file"
	KindSQLite = "sqlite"
	KindMemory = "memory"
)

// Kinds lists every supported backend kind.
var Kinds = []string{KindFile, KindSQLite, KindMemory}

// Open creates the backend named by kind. For file the path is a
// directory; for sqlite it is the database file.
func Open(kind, path string) (Backend, error) {
	switch kind {
	case KindFile, "":
		return NewFileBackend(path)
	case KindSQLite:
		return NewSQLiteBackend(path)
	case KindMemory:
		return NewMemoryBackend(), nil
	default:
		return nil, fmt.Errorf("unsupported storage backend %q (want one of %v)", kind, Kinds)
	}
}
