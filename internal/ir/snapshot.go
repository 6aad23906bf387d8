package ir

import (
	"errors"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// snapshotSchema is bumped whenever the encoded layout of Program changes.
const snapshotSchema uint16 = 2

// ErrSnapshotSchema is returned for snapshots written by another layout.
var ErrSnapshotSchema = errors.New("snapshot schema mismatch")

type snapshot struct {
	Schema  uint16
	Program *Program
}

// EncodeSnapshot writes p as msgpack. Equal programs give equal bytes.
// Spans are session-local and are not written.
func EncodeSnapshot(w io.Writer, p *Program) error {
	return msgpack.NewEncoder(w).Encode(&snapshot{Schema: snapshotSchema, Program: p})
}

// DecodeSnapshot reads a program written by EncodeSnapshot.
func DecodeSnapshot(r io.Reader) (*Program, error) {
	var snap snapshot
	if err := msgpack.NewDecoder(r).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if snap.Schema != snapshotSchema {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrSnapshotSchema, snap.Schema, snapshotSchema)
	}
	if snap.Program == nil {
		return nil, errors.New("decode snapshot: empty program")
	}
	return snap.Program, nil
}
