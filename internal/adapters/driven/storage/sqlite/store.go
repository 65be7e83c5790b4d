package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/chanscribe/chanscribe/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/chanscribe/chanscribe/internal/core/domain"
	"github.com/chanscribe/chanscribe/internal/core/ports/driven"
)

// Store is a SQLite-backed MetadataStore.
type Store struct {
	db   *sql.DB
	path string
}

var _ driven.MetadataStore = (*Store)(nil)

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.chanscribe/data.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".chanscribe", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "metadata.db")

	// WAL mode for better concurrency between worker goroutines.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}

		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// UpsertChannel inserts or updates a channel row.
func (s *Store) UpsertChannel(ctx context.Context, ch *domain.Channel) error {
	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO channels (id, title, description, url, video_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			url = excluded.url,
			video_count = excluded.video_count,
			updated_at = excluded.updated_at
	`, ch.ID, ch.Title, ch.Description, ch.URL, ch.VideoCount, now, now)

	if err != nil {
		return fmt.Errorf("upserting channel: %w", err)
	}
	return nil
}

// UpsertVideo inserts or updates a video row.
func (s *Store) UpsertVideo(ctx context.Context, v *domain.Video) error {
	tagsJSON, err := json.Marshal(v.Tags)
	if err != nil {
		return fmt.Errorf("marshalling tags: %w", err)
	}
	categoriesJSON, err := json.Marshal(v.Categories)
	if err != nil {
		return fmt.Errorf("marshalling categories: %w", err)
	}
	chaptersJSON, err := json.Marshal(v.Chapters)
	if err != nil {
		return fmt.Errorf("marshalling chapters: %w", err)
	}

	extractedAt := v.ExtractedAt
	if extractedAt.IsZero() {
		extractedAt = time.Now().UTC()
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO videos (id, channel_id, title, description, upload_date, duration,
			view_count, like_count, tags, categories, language, chapters, url, uploader, extracted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			channel_id = excluded.channel_id,
			title = excluded.title,
			description = excluded.description,
			upload_date = excluded.upload_date,
			duration = excluded.duration,
			view_count = excluded.view_count,
			like_count = excluded.like_count,
			tags = excluded.tags,
			categories = excluded.categories,
			language = excluded.language,
			chapters = excluded.chapters,
			url = excluded.url,
			uploader = excluded.uploader,
			extracted_at = excluded.extracted_at
	`, v.ID, v.ChannelID, v.Title, v.Description, v.UploadDate, v.Duration,
		v.ViewCount, v.LikeCount, string(tagsJSON), string(categoriesJSON),
		v.Language, string(chaptersJSON), v.URL, v.Uploader, extractedAt)

	if err != nil {
		return fmt.Errorf("upserting video: %w", err)
	}
	return nil
}

// UpsertChunks batch-inserts or updates chunk rows inside one transaction.
func (s *Store) UpsertChunks(ctx context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO transcript_chunks (id, video_id, channel_id, chunk_index, start_time, end_time, text)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			video_id = excluded.video_id,
			channel_id = excluded.channel_id,
			chunk_index = excluded.chunk_index,
			start_time = excluded.start_time,
			end_time = excluded.end_time,
			text = excluded.text
	`)
	if err != nil {
		return fmt.Errorf("preparing chunk upsert: %w", err)
	}
	defer stmt.Close()

	for _, c := range chunks {
		if _, err := stmt.ExecContext(ctx, c.ID, c.VideoID, c.ChannelID, c.Index, c.Start, c.End, c.Text); err != nil {
			return fmt.Errorf("upserting chunk %s: %w", c.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing chunks: %w", err)
	}
	return nil
}

// ChannelFreshness returns when the channel row was last written.
func (s *Store) ChannelFreshness(ctx context.Context, channelID string) (time.Time, bool, error) {
	var updatedAt time.Time
	row := s.db.QueryRowContext(ctx, "SELECT updated_at FROM channels WHERE id = ?", channelID)
	if err := row.Scan(&updatedAt); err != nil {
		if err == sql.ErrNoRows {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, fmt.Errorf("querying channel freshness: %w", err)
	}
	return updatedAt, true, nil
}

// VideoFreshness returns the video's extracted_at timestamp.
func (s *Store) VideoFreshness(ctx context.Context, videoID string) (time.Time, bool, error) {
	var extractedAt time.Time
	row := s.db.QueryRowContext(ctx, "SELECT extracted_at FROM videos WHERE id = ?", videoID)
	if err := row.Scan(&extractedAt); err != nil {
		if err == sql.ErrNoRows {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, fmt.Errorf("querying video freshness: %w", err)
	}
	return extractedAt, true, nil
}

// GetVectorRef returns the vector-store internal ID recorded for a chunk.
func (s *Store) GetVectorRef(ctx context.Context, chunkID string) (uint64, bool, error) {
	var vecID uint64
	row := s.db.QueryRowContext(ctx, "SELECT vec_id FROM vector_refs WHERE chunk_id = ?", chunkID)
	if err := row.Scan(&vecID); err != nil {
		if err == sql.ErrNoRows {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("querying vector ref: %w", err)
	}
	return vecID, true, nil
}

// PutVectorRef records the vector-store internal ID for a chunk.
func (s *Store) PutVectorRef(ctx context.Context, chunkID string, vecID uint64) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO vector_refs (chunk_id, vec_id)
		VALUES (?, ?)
		ON CONFLICT(chunk_id) DO UPDATE SET vec_id = excluded.vec_id
	`, chunkID, vecID)

	if err != nil {
		return fmt.Errorf("recording vector ref: %w", err)
	}
	return nil
}

// Summary returns per-channel video and chunk counts for the status view.
func (s *Store) Summary(ctx context.Context) ([]driven.ChannelStatus, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.title,
			(SELECT COUNT(*) FROM videos v WHERE v.channel_id = c.id),
			(SELECT COUNT(*) FROM transcript_chunks t WHERE t.channel_id = c.id)
		FROM channels c
		ORDER BY c.title
	`)
	if err != nil {
		return nil, fmt.Errorf("querying summary: %w", err)
	}
	defer rows.Close()

	var out []driven.ChannelStatus //nolint:prealloc // size unknown from query
	for rows.Next() {
		var r driven.ChannelStatus
		if err := rows.Scan(&r.ChannelID, &r.Title, &r.Videos, &r.Chunks); err != nil {
			return nil, fmt.Errorf("scanning summary row: %w", err)
		}
		out = append(out, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating summary: %w", err)
	}
	return out, nil
}
