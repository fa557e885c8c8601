package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// RecordRow is the Postgres mirror of an attendance record.
type RecordRow struct {
	ID        uint      `gorm:"primaryKey"`
	Seq       int       `gorm:"column:seq;not null;index"`
	PersonID  string    `gorm:"column:personal_id;index"`
	FirstName string    `gorm:"column:first_name"`
	LastName  string    `gorm:"column:last_name"`
	District  string    `gorm:"column:district;index"`
	Subcounty string    `gorm:"column:subcounty"`
	Gender    string    `gorm:"column:gender"`
	Date      time.Time `gorm:"column:date;type:date;not null"`
	Age       *float64  `gorm:"column:age"`
}

func (RecordRow) TableName() string { return "attendance.records" }

// ImportRun records the load statistics of one import so the database source
// reproduces the CSV source's age ceiling.
type ImportRun struct {
	ID         uint      `gorm:"primaryKey"`
	SourceFile string    `gorm:"column:source_file"`
	Rows       int       `gorm:"column:rows"`
	Dropped    int       `gorm:"column:dropped"`
	AgeCeiling *float64  `gorm:"column:age_ceiling"`
	ImportedAt time.Time `gorm:"column:imported_at;not null"`
}

func (ImportRun) TableName() string { return "attendance.import_runs" }

// Migrate creates the attendance tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&RecordRow{}, &ImportRun{}); err != nil {
		return fmt.Errorf("auto-migrate attendance tables: %w", err)
	}
	return nil
}

// LoadFromDB reads the mirrored records in import order. A non-empty
// districts list restricts the result to those districts.
func LoadFromDB(ctx context.Context, db *gorm.DB, districts []string) (*Table, error) {
	q := db.WithContext(ctx).Model(&RecordRow{}).Order("seq ASC")
	if len(districts) > 0 {
		q = q.Where("district = ANY(?)", pq.Array(districts))
	}

	var rows []RecordRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load attendance records: %w", err)
	}

	t := &Table{Records: make([]Record, 0, len(rows))}
	for _, row := range rows {
		t.Records = append(t.Records, Record{
			PersonID:  row.PersonID,
			FirstName: row.FirstName,
			LastName:  row.LastName,
			District:  row.District,
			Subcounty: row.Subcounty,
			Gender:    row.Gender,
			Date:      row.Date,
			Age:       row.Age,
		})
	}

	var runs []ImportRun
	if err := db.WithContext(ctx).Order("imported_at ASC").Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("load import runs: %w", err)
	}
	if len(runs) == 0 {
		t.AgeCeiling = maxAge(t.Records)
		return t, nil
	}
	t.AgeCeiling, t.Dropped = MergeRuns(runs)
	return t, nil
}

// MergeRuns combines the statistics of every import still present in the
// tables: the highest age ceiling and the total dropped rows. A wipe removes
// earlier runs together with their records.
func MergeRuns(runs []ImportRun) (ceiling *float64, dropped int) {
	for _, run := range runs {
		dropped += run.Dropped
		if run.AgeCeiling != nil && (ceiling == nil || *run.AgeCeiling > *ceiling) {
			v := *run.AgeCeiling
			ceiling = &v
		}
	}
	return ceiling, dropped
}

var copyColumns = []string{
	"seq", "personal_id", "first_name", "last_name", "district", "subcounty", "gender", "date", "age",
}

// Import bulk-loads t into the attendance tables inside one transaction.
// With wipe set, existing records are truncated first.
func Import(ctx context.Context, conn *pgx.Conn, t *Table, sourceFile string, wipe bool) (int64, error) {
	tx, err := conn.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	if wipe {
		if _, err := tx.Exec(ctx, `TRUNCATE TABLE attendance.records, attendance.import_runs`); err != nil {
			return 0, fmt.Errorf("truncate attendance tables: %w", err)
		}
	}

	// Appended imports continue the load order after existing rows.
	var base int
	if err := tx.QueryRow(ctx, `SELECT COALESCE(MAX(seq) + 1, 0) FROM attendance.records`).Scan(&base); err != nil {
		return 0, fmt.Errorf("read import offset: %w", err)
	}

	n, err := tx.CopyFrom(ctx,
		pgx.Identifier{"attendance", "records"},
		copyColumns,
		pgx.CopyFromSlice(len(t.Records), func(i int) ([]any, error) {
			r := t.Records[i]
			return []any{base + i, r.PersonID, r.FirstName, r.LastName, r.District, r.Subcounty, r.Gender, r.Date, r.Age}, nil
		}),
	)
	if err != nil {
		return 0, fmt.Errorf("copy attendance records: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO attendance.import_runs (source_file, rows, dropped, age_ceiling, imported_at) VALUES ($1, $2, $3, $4, $5)`,
		sourceFile, n, t.Dropped, t.AgeCeiling, time.Now().UTC(),
	); err != nil {
		return 0, fmt.Errorf("insert import run: %w", err)
	}

	return n, tx.Commit(ctx)
}

func maxAge(records []Record) *float64 {
	var out *float64
	for _, r := range records {
		if r.Age != nil && (out == nil || *r.Age > *out) {
			v := *r.Age
			out = &v
		}
	}
	return out
}
