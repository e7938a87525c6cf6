package resolver

import (
	"context"
	"fmt"
	"regexp"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"github.com/alikonainofficial/supabase-file-upload-manager/internal/config"
	"github.com/alikonainofficial/supabase-file-upload-manager/pkg/logger"
)

var identifierPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// OpenDB connects to the backing database over the pgx stdlib driver.
func OpenDB(url string) (*sqlx.DB, error) {
	if url == "" {
		return nil, fmt.Errorf("database url must be provided")
	}
	db, err := sqlx.Connect("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// buildDeleteQuery renders the bulk delete for ids constrained to the fixed
// provenance tag. Table and column come from interactive input, so they are
// validated as plain identifiers before interpolation.
func buildDeleteQuery(cfg config.DatabaseConfig, ids []string) (string, []interface{}, error) {
	if !identifierPattern.MatchString(cfg.Table) {
		return "", nil, fmt.Errorf("invalid table name: %q", cfg.Table)
	}
	if !identifierPattern.MatchString(cfg.Column) {
		return "", nil, fmt.Errorf("invalid column name: %q", cfg.Column)
	}
	if len(ids) == 0 {
		return "", nil, fmt.Errorf("no ids to delete")
	}

	query, args, err := sqlx.In(
		fmt.Sprintf("DELETE FROM %s WHERE %s IN (?) AND source = ?", cfg.Table, cfg.Column),
		ids, cfg.SourceTag,
	)
	if err != nil {
		return "", nil, fmt.Errorf("failed to build delete query: %w", err)
	}
	return query, args, nil
}

// DeleteMissingRows removes the rows matching ids in one bulk call. Any
// failure means the whole batch failed; there is no partial retry.
func DeleteMissingRows(ctx context.Context, db *sqlx.DB, cfg config.DatabaseConfig, ids []string) error {
	query, args, err := buildDeleteQuery(cfg, ids)
	if err != nil {
		logger.Log.Error().Err(err).Msg("an error occurred while removing data from the database")
		return err
	}

	res, err := db.ExecContext(ctx, db.Rebind(query), args...)
	if err != nil {
		logger.Log.Error().Err(err).Str("table", cfg.Table).Msg("an error occurred while removing data from the database")
		return fmt.Errorf("bulk delete from %s failed: %w", cfg.Table, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		rows = -1
	}
	logger.Log.Info().Int64("rows", rows).Str("table", cfg.Table).Msg("removed ids from the database")
	return nil
}
