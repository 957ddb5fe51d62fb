package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"bd-election-analysis/models"
	"bd-election-analysis/utils"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// SQLStore persists seat and division results in PostgreSQL or SQLite
type SQLStore struct {
	db     *sql.DB
	driver string
	logger *utils.Logger
}

// NewSQLStore opens the database for driver ("postgres" or "sqlite") and pings it
func NewSQLStore(ctx context.Context, driver, dsn string, logger *utils.Logger) (*SQLStore, error) {
	if driver != "postgres" && driver != "sqlite" {
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open DB: %w", err)
	}

	if driver == "sqlite" {
		// a single connection keeps an in-memory database alive and serializes writers
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(time.Minute * 5)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}

	logger.Info("Connected to %s successfully", driver)
	return &SQLStore{db: db, driver: driver, logger: logger}, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS seat_votes (
	run_id    TEXT    NOT NULL,
	seat_id   INTEGER NOT NULL,
	seat_name TEXT    NOT NULL,
	division  TEXT    NOT NULL,
	alliance  TEXT    NOT NULL,
	votes     BIGINT  NOT NULL DEFAULT 0,
	PRIMARY KEY (run_id, seat_id, alliance)
);

CREATE INDEX IF NOT EXISTS idx_seat_votes_division ON seat_votes (run_id, division);

CREATE TABLE IF NOT EXISTS division_impact (
	run_id               TEXT             NOT NULL,
	division             TEXT             NOT NULL,
	alliance             TEXT             NOT NULL,
	vote_share_pct       DOUBLE PRECISION NOT NULL,
	weighted_impact      DOUBLE PRECISION,
	monthly_income       DOUBLE PRECISION NOT NULL,
	expenditure          DOUBLE PRECISION NOT NULL,
	division_total_votes BIGINT           NOT NULL,
	voter_weight         DOUBLE PRECISION NOT NULL,
	PRIMARY KEY (run_id, division, alliance)
);
`

// CreateTables creates the result tables if they don't exist
func (s *SQLStore) CreateTables(ctx context.Context) error {
	for _, stmt := range strings.Split(schema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create tables: %w", err)
		}
	}
	s.logger.Info("Tables 'seat_votes' and 'division_impact' are ready")
	return nil
}

// SaveSeats upserts one row per seat and alliance in a single transaction
func (s *SQLStore) SaveSeats(ctx context.Context, runID string, table *models.SeatTable) error {
	query := s.rebind(`
		INSERT INTO seat_votes (run_id, seat_id, seat_name, division, alliance, votes)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (run_id, seat_id, alliance) DO UPDATE SET
			seat_name = excluded.seat_name,
			division  = excluded.division,
			votes     = excluded.votes
	`)
	n := 0
	err := s.inTx(ctx, query, func(stmt *sql.Stmt) error {
		for _, seat := range table.Seats {
			for _, code := range table.Alliances {
				if _, err := stmt.ExecContext(ctx, runID, seat.SeatID, seat.SeatName, seat.Division, string(code), seat.Votes[code]); err != nil {
					return fmt.Errorf("failed to upsert seat %d/%s: %w", seat.SeatID, code, err)
				}
				n++
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.Info("Upserted %d seat_votes rows for run %s", n, runID)
	return nil
}

// SaveImpact upserts one row per division and alliance in a single transaction.
// weighted_impact is NULL for alliances that are not weighted.
func (s *SQLStore) SaveImpact(ctx context.Context, runID string, table *models.ImpactTable) error {
	query := s.rebind(`
		INSERT INTO division_impact (run_id, division, alliance, vote_share_pct, weighted_impact,
			monthly_income, expenditure, division_total_votes, voter_weight)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (run_id, division, alliance) DO UPDATE SET
			vote_share_pct       = excluded.vote_share_pct,
			weighted_impact      = excluded.weighted_impact,
			monthly_income       = excluded.monthly_income,
			expenditure          = excluded.expenditure,
			division_total_votes = excluded.division_total_votes,
			voter_weight         = excluded.voter_weight
	`)
	n := 0
	err := s.inTx(ctx, query, func(stmt *sql.Stmt) error {
		for _, r := range table.Rows {
			for _, code := range table.Alliances {
				var weighted sql.NullFloat64
				if v, ok := r.Weighted[code]; ok {
					weighted = sql.NullFloat64{Float64: v, Valid: true}
				}
				if _, err := stmt.ExecContext(ctx, runID, r.Division, string(code), r.VoteSharePct[code], weighted,
					r.MonthlyIncome, r.Expenditure, r.DivisionTotalVotes, r.VoterWeight); err != nil {
					return fmt.Errorf("failed to upsert division %s/%s: %w", r.Division, code, err)
				}
				n++
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.Info("Upserted %d division_impact rows for run %s", n, runID)
	return nil
}

// SeatVotes returns the stored votes of one seat, keyed by alliance
func (s *SQLStore) SeatVotes(ctx context.Context, runID string, seatID int) (map[models.AllianceCode]int64, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(`SELECT alliance, votes FROM seat_votes WHERE run_id = ? AND seat_id = ?`), runID, seatID)
	if err != nil {
		return nil, fmt.Errorf("failed to query seat %d: %w", seatID, err)
	}
	defer rows.Close()

	out := make(map[models.AllianceCode]int64)
	for rows.Next() {
		var alliance string
		var votes int64
		if err := rows.Scan(&alliance, &votes); err != nil {
			return nil, fmt.Errorf("failed to scan seat %d: %w", seatID, err)
		}
		out[models.AllianceCode(alliance)] = votes
	}
	return out, rows.Err()
}

// inTx prepares query inside a transaction, runs fn and commits
func (s *SQLStore) inTx(ctx context.Context, query string, fn func(stmt *sql.Stmt) error) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	if err = fn(stmt); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// rebind turns ? placeholders into $n for PostgreSQL
func (s *SQLStore) rebind(query string) string {
	if s.driver != "postgres" {
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

// Close closes the database connection
func (s *SQLStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
