package ledger

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/chronicle-hq/headline-ledger/internal/domain"
	"github.com/chronicle-hq/headline-ledger/pkg/targets"
)

// Package ledger provides the append-only record store abstraction.

// Store appends records to a persisted sequence. Prior content is never
// rewritten or truncated; the only write is the act of appending.
type Store interface {
	Append(rec domain.Record) error
}

// Supported ledger formats.
const (
	FormatNDJSON = "ndjson"
	FormatTSV    = "tsv"
	FormatNone   = "none"
)

// NewStore creates the configured ledger backend for one output file.
func NewStore(format, path string) (Store, error) {
	format = strings.TrimSpace(strings.ToLower(format))

	switch format {
	case "", FormatNone, "disabled":
		return noopStore{}, nil
	case FormatNDJSON:
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("ndjson ledger requires a path")
		}
		return newNDJSONStore(path), nil
	case FormatTSV:
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("tsv ledger requires a path")
		}
		return newTSVStore(path), nil
	default:
		return nil, fmt.Errorf("unsupported ledger format %q", format)
	}
}

type noopStore struct{}

func (noopStore) Append(domain.Record) error { return nil }

// Provider resolves the per-target store under a shared data directory.
type Provider struct {
	format  string
	dataDir string
}

// NewProvider builds a store provider for the given format and data directory.
func NewProvider(format, dataDir string) *Provider {
	return &Provider{
		format:  strings.TrimSpace(strings.ToLower(format)),
		dataDir: dataDir,
	}
}

// StoreFor returns the ledger store for a target, honoring its output
// override and defaulting to <data_dir>/<id>.<ext>.
func (p *Provider) StoreFor(t targets.Target) (Store, error) {
	if p == nil {
		return nil, fmt.Errorf("ledger provider is nil")
	}

	path := t.Output
	if path == "" {
		path = filepath.Join(p.dataDir, t.ID+formatExt(p.format))
	}
	return NewStore(p.format, path)
}

func formatExt(format string) string {
	switch format {
	case FormatTSV:
		return ".tsv"
	default:
		return ".ndjson"
	}
}
