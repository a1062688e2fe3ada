package persist

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
	"golang.org/x/crypto/blake2b"

	"github.com/gritfps/sim/internal/world"
)

// ErrCorrupt marks a save whose payload no longer matches its digest.
var ErrCorrupt = errors.New("save payload digest mismatch")

// ErrNotFound marks a missing save id.
var ErrNotFound = errors.New("save not found")

// Store persists state dumps as zstd-compressed JSON rows, each sealed with
// a blake2b digest computed over the uncompressed payload.
type Store struct {
	db  *sql.DB
	enc *zstd.Encoder
	dec *zstd.Decoder
}

func NewStore(db *sql.DB) (*Store, error) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		return nil, fmt.Errorf("zstd decoder: %w", err)
	}
	return &Store{db: db, enc: enc, dec: dec}, nil
}

func (s *Store) Close() {
	s.enc.Close()
	s.dec.Close()
}

// SaveInfo is one row of the save listing.
type SaveInfo struct {
	ID        string
	Name      string
	CreatedAt time.Time
	Frame     uint64
}

// Save writes a dump under a fresh id and returns it.
func (s *Store) Save(ctx context.Context, name string, dump *world.StateDump) (string, error) {
	raw, err := json.Marshal(dump)
	if err != nil {
		return "", fmt.Errorf("encode save: %w", err)
	}
	digest := blake2b.Sum256(raw)
	payload := s.enc.EncodeAll(raw, nil)
	id := uuid.NewString()

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO saves (id, name, frame, digest, payload) VALUES (?, ?, ?, ?, ?)`,
		id, name, dump.Frame, digest[:], payload,
	)
	if err != nil {
		return "", fmt.Errorf("insert save: %w", err)
	}
	return id, nil
}

// Load reads one save and verifies its digest before decoding.
func (s *Store) Load(ctx context.Context, id string) (*world.StateDump, error) {
	var digest, payload []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT digest, payload FROM saves WHERE id = ?`, id,
	).Scan(&digest, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select save: %w", err)
	}

	raw, err := s.dec.DecodeAll(payload, nil)
	if err != nil {
		return nil, fmt.Errorf("decompress save: %w", err)
	}
	sum := blake2b.Sum256(raw)
	if !bytes.Equal(sum[:], digest) {
		return nil, ErrCorrupt
	}

	var dump world.StateDump
	if err := json.Unmarshal(raw, &dump); err != nil {
		return nil, fmt.Errorf("decode save: %w", err)
	}
	return &dump, nil
}

// LoadLatest returns the newest save, or ErrNotFound on an empty table.
func (s *Store) LoadLatest(ctx context.Context) (*world.StateDump, error) {
	var id string
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM saves ORDER BY created_at DESC, rowid DESC LIMIT 1`,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select latest save: %w", err)
	}
	return s.Load(ctx, id)
}

// List returns save metadata, newest first.
func (s *Store) List(ctx context.Context) ([]SaveInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, created_at, frame FROM saves ORDER BY created_at DESC, rowid DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list saves: %w", err)
	}
	defer rows.Close()

	var out []SaveInfo
	for rows.Next() {
		var (
			info SaveInfo
			ts   string
		)
		if err := rows.Scan(&info.ID, &info.Name, &ts, &info.Frame); err != nil {
			return nil, err
		}
		if t, err := time.Parse("2006-01-02T15:04:05.999Z", ts); err == nil {
			info.CreatedAt = t
		}
		out = append(out, info)
	}
	return out, rows.Err()
}

// Prune keeps the newest n saves with the given name and deletes the rest.
// Used by the autosave loop.
func (s *Store) Prune(ctx context.Context, name string, keep int) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM saves WHERE name = ? AND id NOT IN (
			SELECT id FROM saves WHERE name = ?
			ORDER BY created_at DESC, rowid DESC LIMIT ?
		)`, name, name, keep)
	if err != nil {
		return fmt.Errorf("prune saves: %w", err)
	}
	return nil
}
