package ledger

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chronicle-hq/headline-ledger/internal/domain"
)

// fileStore appends one encoded line per record. Each Append is a single
// open-write-close in O_APPEND mode; no read, no rewrite, no in-process
// locking (the scheduler runs at most one instance at a time).
type fileStore struct {
	path   string
	encode func(rec domain.Record) ([]byte, error)
}

func newNDJSONStore(path string) Store {
	return &fileStore{path: path, encode: encodeNDJSON}
}

func newTSVStore(path string) Store {
	return &fileStore{path: path, encode: encodeTSV}
}

// Append writes one record line to the end of the ledger file, creating the
// parent directory and the file on first use.
func (f *fileStore) Append(rec domain.Record) error {
	dir := filepath.Dir(f.path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create ledger directory: %w", err)
		}
	}

	line, err := f.encode(rec)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}

	file, err := os.OpenFile(f.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open ledger file: %w", err)
	}
	defer file.Close()

	if _, err := file.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("append record: %w", err)
	}
	return nil
}

func encodeNDJSON(rec domain.Record) ([]byte, error) {
	return json.Marshal(rec)
}

func encodeTSV(rec domain.Record) ([]byte, error) {
	line := strings.Join([]string{
		sanitizeTSVField(rec.Date),
		sanitizeTSVField(rec.Time),
		sanitizeTSVField(rec.Headline),
	}, "\t")
	return []byte(line), nil
}

// sanitizeTSVField keeps the file one-record-per-line by flattening tabs and
// newlines embedded in the value.
func sanitizeTSVField(v string) string {
	replacer := strings.NewReplacer("\t", " ", "\n", " ", "\r", " ")
	return replacer.Replace(v)
}
