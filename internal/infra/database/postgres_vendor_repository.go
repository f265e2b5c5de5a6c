package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"compliance_notifier/internal/domain/vendor"
)

// ErrNoVendorRecords is returned when the compliance join yields no rows at
// all, which usually means the warehouse extract has not refreshed.
var ErrNoVendorRecords = fmt.Errorf("no vendor compliance records found")

type PostgresVendorRepository struct {
	db *sql.DB
}

func NewPostgresVendorRepository(db *sql.DB) *PostgresVendorRepository {
	return &PostgresVendorRepository{db: db}
}

// ListNonCompliant pulls the vendor/compliance/contact join for the given
// compliance states. The status filter values are bound as parameters, never
// interpolated into the query text. Row order is the stable source order the
// pipeline iterates in.
func (r *PostgresVendorRepository) ListNonCompliant(ctx context.Context, statuses []vendor.ComplianceStatus) ([]vendor.Record, error) {
	if len(statuses) == 0 {
		return nil, fmt.Errorf("at least one compliance status is required")
	}

	placeholders := make([]string, len(statuses))
	args := make([]interface{}, len(statuses))
	for i, st := range statuses {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = string(st)
	}

	query := fmt.Sprintf(`SELECT
                v.vendor_id,
                v.vendor_name,
                c.first_name,
                c.last_name,
                c.email,
                c.role_desc,
                v.french_status,
                v.business_unit,
                v.director_name,
                v.director_email,
                v.manager_name,
                v.manager_email,
                a.first_name,
                a.last_name,
                a.email
        FROM vendor_compliance AS v
        JOIN vendor_contacts AS c ON c.vendor_id = v.vendor_id
        LEFT JOIN unit_analysts AS a ON a.business_unit = v.business_unit
        WHERE v.french_status IN (%s)
        ORDER BY v.vendor_id, c.last_name, c.first_name`, strings.Join(placeholders, ", "))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying vendor compliance records: %w", err)
	}
	defer rows.Close()

	records := make([]vendor.Record, 0)
	for rows.Next() {
		var rec vendor.Record
		var status string
		if err := rows.Scan(
			&rec.VendorID,
			&rec.VendorName,
			&rec.ContactFirstName,
			&rec.ContactLastName,
			&rec.ContactEmail,
			&rec.ContactRole,
			&status,
			&rec.BusinessUnit,
			&rec.DirectorName,
			&rec.DirectorEmail,
			&rec.ManagerName,
			&rec.ManagerEmail,
			&rec.AnalystFirstName,
			&rec.AnalystLastName,
			&rec.AnalystEmail,
		); err != nil {
			return nil, fmt.Errorf("error scanning vendor compliance record: %w", err)
		}
		rec.Status = vendor.ComplianceStatus(status)
		records = append(records, rec)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating vendor compliance records: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrNoVendorRecords
	}
	return records, nil
}
