package database

import (
	"context"
	"database/sql"
	"fmt"

	"compliance_notifier/internal/domain/team"
)

type PostgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) *PostgresTeamRepository {
	return &PostgresTeamRepository{db: db}
}

// ListDirectory pulls the full account-team directory: one row per
// (role code, person). A role code can map to several people, analyst codes
// in particular, so no dedup happens here.
func (r *PostgresTeamRepository) ListDirectory(ctx context.Context) ([]team.Record, error) {
	query := `SELECT role_code, first_name, last_name, email
               FROM account_team_directory
               WHERE email IS NOT NULL
               ORDER BY role_code, last_name, first_name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying account-team directory: %w", err)
	}
	defer rows.Close()

	records := make([]team.Record, 0)
	for rows.Next() {
		var rec team.Record
		if err := rows.Scan(&rec.RoleCode, &rec.FirstName, &rec.LastName, &rec.Email); err != nil {
			return nil, fmt.Errorf("error scanning directory record: %w", err)
		}
		records = append(records, rec)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating directory records: %w", err)
	}
	return records, nil
}
