package source

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/Avi18971911/product-reindexer/pkg/reindex/model"
	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

const (
	PostgresDriver = "pgx"
	SQLiteDriver   = "sqlite"
)

const DefaultTable = "products"

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

type Config struct {
	Driver      string
	URL         string
	Table       string
	PingTimeout time.Duration
	// CacheSize bounds the identity map; it should be at least the batch size.
	CacheSize int64
}

func (c Config) Validate() error {
	switch c.Driver {
	case PostgresDriver, SQLiteDriver:
	default:
		return fmt.Errorf("unsupported database driver %q", c.Driver)
	}
	if c.URL == "" {
		return fmt.Errorf("database url is required")
	}
	if !identifierPattern.MatchString(c.Table) {
		return fmt.Errorf("invalid table name %q", c.Table)
	}
	if c.PingTimeout <= 0 {
		return fmt.Errorf("database ping timeout must be positive")
	}
	return nil
}

// SQLRecordSource reads products from a relational table through database/sql.
type SQLRecordSource struct {
	db       *sql.DB
	cache    *ReadCache
	countSQL string
	pageSQL  string
	logger   *zap.Logger
	ownsDB   bool
}

// Open connects to the database described by cfg and verifies the connection.
func Open(ctx context.Context, cfg Config, logger *zap.Logger) (*SQLRecordSource, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	db, err := sql.Open(cfg.Driver, cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", cfg.Driver, err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, cfg.PingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", cfg.Driver, err)
	}
	src, err := NewSQLRecordSource(db, cfg.Driver, cfg.Table, cfg.CacheSize, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	src.ownsDB = true
	return src, nil
}

func NewSQLRecordSource(
	db *sql.DB,
	driver string,
	table string,
	cacheSize int64,
	logger *zap.Logger,
) (*SQLRecordSource, error) {
	if !identifierPattern.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	cache, err := NewReadCache(cacheSize)
	if err != nil {
		return nil, err
	}
	return &SQLRecordSource{
		db:       db,
		cache:    cache,
		countSQL: fmt.Sprintf("SELECT COUNT(id) FROM %s", table),
		pageSQL:  pageQuery(driver, table),
		logger:   logger,
	}, nil
}

func pageQuery(driver string, table string) string {
	columns := "id, name, price, description, created_at"
	if driver == PostgresDriver {
		return fmt.Sprintf("SELECT %s FROM %s ORDER BY id LIMIT $1 OFFSET $2", columns, table)
	}
	return fmt.Sprintf("SELECT %s FROM %s ORDER BY id LIMIT ? OFFSET ?", columns, table)
}

func (s *SQLRecordSource) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, s.countSQL).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return count, nil
}

func (s *SQLRecordSource) Page(ctx context.Context, offset int, limit int) ([]model.SourceRecord, error) {
	rows, err := s.db.QueryContext(ctx, s.pageSQL, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query records at offset %d: %w", offset, err)
	}
	defer rows.Close()

	records := make([]model.SourceRecord, 0, limit)
	duplicates := 0
	for rows.Next() {
		var (
			id          int64
			name        string
			price       float64
			description sql.NullString
			createdAt   time.Time
		)
		if err := rows.Scan(&id, &name, &price, &description, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		record, seen := s.cache.Resolve(model.SourceRecord{
			ID:          strconv.FormatInt(id, 10),
			Name:        name,
			Price:       price,
			CreatedAt:   createdAt,
			Description: description.String,
		})
		if seen {
			duplicates++
		}
		records = append(records, *record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate records: %w", err)
	}
	if duplicates > 0 {
		s.logger.Warn(
			"Page repeats ids, repeated rows resolve to the first row read",
			zap.Int("offset", offset),
			zap.Int("duplicates", duplicates),
		)
	}
	s.logger.Debug("Read page", zap.Int("offset", offset), zap.Int("records", len(records)))
	return records, nil
}

func (s *SQLRecordSource) ReleaseReadCache() {
	s.cache.Clear()
}

func (s *SQLRecordSource) Close() error {
	s.cache.Close()
	if s.ownsDB {
		if err := s.db.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
	}
	return nil
}
