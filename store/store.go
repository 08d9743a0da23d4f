package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"

	"osuindex/dotosu"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "pgx"
)

var ErrNotFound = errors.New("beatmap not found")

// Entry is the indexed summary of one parsed beatmap.
type Entry struct {
	Path          string
	Title         string
	Artist        string
	Creator       string
	Version       string
	Tags          string
	Mode          int
	BeatmapID     int
	BeatmapSetID  int
	FormatVersion int
	TimingPoints  int
	HitObjects    int
	Warnings      int
	ParsedAt      time.Time
}

// EntryFromBeatmap summarizes b. Absent sections contribute their defaults.
func EntryFromBeatmap(b *dotosu.Beatmap, parsedAt time.Time) Entry {
	meta := b.Metadata.Value
	if !b.Metadata.Present {
		meta = dotosu.NewMetaData()
	}
	general := b.General.Value
	if !b.General.Present {
		general = dotosu.NewGeneralData()
	}
	return Entry{
		Path:          b.Path,
		Title:         meta.Title,
		Artist:        meta.Artist,
		Creator:       meta.Creator,
		Version:       meta.Version,
		Tags:          strings.Join(meta.Tags, " "),
		Mode:          int(general.Mode),
		BeatmapID:     meta.BeatmapID,
		BeatmapSetID:  meta.BeatmapSetID,
		FormatVersion: b.FormatVersion,
		TimingPoints:  b.TimingPoints.Value.Len(),
		HitObjects:    b.HitObjects.Value.Len(),
		Warnings:      len(b.Warnings),
		ParsedAt:      parsedAt.UTC().Truncate(time.Second),
	}
}

// Store is a beatmap index over database/sql. SQLite and Postgres share the
// same schema; queries are written with ? placeholders and rebound for pgx.
type Store struct {
	db     *sql.DB
	driver string

	schemaOnce sync.Once
	schemaErr  error
}

func Open(driver, dsn string) (*Store, error) {
	switch driver {
	case DriverSQLite, DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported store driver %q", driver)
	}
	db, err := sql.Open(driver, strings.TrimSpace(dsn))
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	if driver == DriverSQLite {
		// SQLite allows a single writer; one connection avoids "database is locked".
		db.SetMaxOpenConns(1)
	}
	return &Store{db: db, driver: driver}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) ensureSchema(ctx context.Context) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("store is nil")
	}
	s.schemaOnce.Do(func() {
		_, s.schemaErr = s.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS beatmaps (
    path TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    artist TEXT NOT NULL,
    creator TEXT NOT NULL,
    version TEXT NOT NULL,
    tags TEXT NOT NULL,
    mode INTEGER NOT NULL,
    beatmap_id INTEGER NOT NULL,
    beatmapset_id INTEGER NOT NULL,
    format_version INTEGER NOT NULL,
    timing_points INTEGER NOT NULL,
    hit_objects INTEGER NOT NULL,
    warnings INTEGER NOT NULL,
    parsed_at BIGINT NOT NULL
)`)
	})
	return s.schemaErr
}

// rebind rewrites ? placeholders as $1, $2, ... for Postgres.
func (s *Store) rebind(query string) string {
	if s.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

const columns = `path, title, artist, creator, version, tags, mode, beatmap_id, beatmapset_id,
format_version, timing_points, hit_objects, warnings, parsed_at`

// Put inserts or replaces the entry for e.Path.
func (s *Store) Put(ctx context.Context, e Entry) error {
	if err := s.ensureSchema(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(e.Path) == "" {
		return fmt.Errorf("path is required")
	}
	_, err := s.db.ExecContext(ctx, s.rebind(`
INSERT INTO beatmaps (`+columns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (path) DO UPDATE SET
    title=EXCLUDED.title, artist=EXCLUDED.artist, creator=EXCLUDED.creator,
    version=EXCLUDED.version, tags=EXCLUDED.tags, mode=EXCLUDED.mode,
    beatmap_id=EXCLUDED.beatmap_id, beatmapset_id=EXCLUDED.beatmapset_id,
    format_version=EXCLUDED.format_version, timing_points=EXCLUDED.timing_points,
    hit_objects=EXCLUDED.hit_objects, warnings=EXCLUDED.warnings, parsed_at=EXCLUDED.parsed_at
`), e.Path, e.Title, e.Artist, e.Creator, e.Version, e.Tags, e.Mode, e.BeatmapID, e.BeatmapSetID,
		e.FormatVersion, e.TimingPoints, e.HitObjects, e.Warnings, e.ParsedAt.Unix())
	if err != nil {
		return fmt.Errorf("put %s: %w", e.Path, err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, path string) (Entry, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return Entry{}, err
	}
	row := s.db.QueryRowContext(ctx, s.rebind(`SELECT `+columns+` FROM beatmaps WHERE path=?`), path)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, ErrNotFound
	}
	return e, err
}

// likeEscaper makes the user's query match literally inside a LIKE pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Search matches query case-insensitively against title, artist, creator,
// difficulty name and tags. An empty query lists everything.
func (s *Store) Search(ctx context.Context, query string, limit int) ([]Entry, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 100
	}
	pattern := "%" + likeEscaper.Replace(strings.ToLower(strings.TrimSpace(query))) + "%"
	rows, err := s.db.QueryContext(ctx, s.rebind(`SELECT `+columns+` FROM beatmaps
WHERE LOWER(title) LIKE ? ESCAPE '\' OR LOWER(artist) LIKE ? ESCAPE '\' OR LOWER(creator) LIKE ? ESCAPE '\'
   OR LOWER(version) LIKE ? ESCAPE '\' OR LOWER(tags) LIKE ? ESCAPE '\'
ORDER BY artist, title, version, path
LIMIT ?`), pattern, pattern, pattern, pattern, pattern, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) Delete(ctx context.Context, path string) error {
	if err := s.ensureSchema(ctx); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM beatmaps WHERE path=?`), path)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (Entry, error) {
	var (
		e        Entry
		parsedAt int64
	)
	err := row.Scan(&e.Path, &e.Title, &e.Artist, &e.Creator, &e.Version, &e.Tags, &e.Mode,
		&e.BeatmapID, &e.BeatmapSetID, &e.FormatVersion, &e.TimingPoints, &e.HitObjects,
		&e.Warnings, &parsedAt)
	if err != nil {
		return Entry{}, err
	}
	e.ParsedAt = time.Unix(parsedAt, 0).UTC()
	return e, nil
}
