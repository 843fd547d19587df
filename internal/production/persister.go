package production

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/comalice/spaceteam/internal/core"
	"github.com/comalice/spaceteam/internal/primitives"
)

// Format selects the snapshot encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// SnapshotStore keeps the latest snapshot of each board as one file per board.
type SnapshotStore struct {
	dir    string
	format Format
}

// NewSnapshotStore creates a store, ensuring the directory exists.
func NewSnapshotStore(dir string, format Format) (*SnapshotStore, error) {
	switch format {
	case FormatYAML, FormatJSON:
	default:
		return nil, fmt.Errorf("snapshot format %q: unsupported", format)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return &SnapshotStore{dir: dir, format: format}, nil
}

func (s *SnapshotStore) path(b primitives.BoardID) string {
	return filepath.Join(s.dir, b.String()+"."+string(s.format))
}

func (s *SnapshotStore) Save(ctx context.Context, snap core.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var (
		data []byte
		err  error
	)
	if s.format == FormatJSON {
		data, err = json.MarshalIndent(snap, "", "  ")
	} else {
		data, err = yaml.Marshal(snap)
	}
	if err != nil {
		return fmt.Errorf("%s marshal: %w", s.format, err)
	}

	fn := s.path(snap.Board)
	if err := os.WriteFile(fn, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", fn, err)
	}
	return nil
}

func (s *SnapshotStore) Load(ctx context.Context, b primitives.BoardID) (core.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return core.Snapshot{}, err
	}
	fn := s.path(b)
	data, err := os.ReadFile(fn)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return core.Snapshot{}, fmt.Errorf("board %d: %w", b, os.ErrNotExist)
		}
		return core.Snapshot{}, fmt.Errorf("read %s: %w", fn, err)
	}

	var snap core.Snapshot
	if s.format == FormatJSON {
		err = json.Unmarshal(data, &snap)
	} else {
		err = yaml.Unmarshal(data, &snap)
	}
	if err != nil {
		return core.Snapshot{}, fmt.Errorf("%s unmarshal: %w", s.format, err)
	}
	snap.Board = b
	return snap, nil
}
