package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/SaintPauloSchool/DataAcquisitionProcedure/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrDuplicateKey is returned when a class log ID already exists.
var ErrDuplicateKey = errors.New("class log with this id already exists")

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// ClassLogRepository handles class log data access.
type ClassLogRepository struct {
	db   DBTX
	inTx bool
}

// NewClassLogRepository creates a new ClassLogRepository.
func NewClassLogRepository(pool *pgxpool.Pool) *ClassLogRepository {
	return &ClassLogRepository{db: pool}
}

// InTx runs fn with a repository bound to a single transaction. The
// transaction commits when fn returns nil and rolls back otherwise.
func (r *ClassLogRepository) InTx(ctx context.Context, fn func(tx *ClassLogRepository) error) error {
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		return fn(&ClassLogRepository{db: tx, inTx: true})
	})
}

// DeleteAll removes every class log and returns how many were removed.
func (r *ClassLogRepository) DeleteAll(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM class_logs`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// Insert stores one class log. Inside a transaction the insert runs in its
// own savepoint so a failed row leaves the transaction usable.
func (r *ClassLogRepository) Insert(ctx context.Context, l *model.ClassLog) error {
	if r.inTx {
		return pgx.BeginFunc(ctx, r.db, func(sp pgx.Tx) error {
			return insertClassLog(ctx, sp, l)
		})
	}
	return insertClassLog(ctx, r.db, l)
}

func insertClassLog(ctx context.Context, db DBTX, l *model.ClassLog) error {
	_, err := db.Exec(ctx,
		`INSERT INTO class_logs (id, student_class, teacher, course, course_type, content, start_date, end_date, update_date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		l.ID, l.StudentClass, l.Teacher, l.Course, l.CourseType, l.Content, l.StartDate, l.EndDate, l.UpdateDate,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: %s", ErrDuplicateKey, l.ID)
		}
		return err
	}
	return nil
}

// List retrieves class logs ordered by class and start date, optionally for one class.
func (r *ClassLogRepository) List(ctx context.Context, f model.ClassLogFilter) ([]model.ClassLog, error) {
	query := `SELECT id, student_class, teacher, course, course_type, content, start_date, end_date, update_date
		 FROM class_logs`
	args := []any{}
	if f.StudentClass != "" {
		args = append(args, f.StudentClass)
		query += fmt.Sprintf(" WHERE student_class = $%d", len(args))
	}
	query += " ORDER BY student_class, start_date, id"
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := []model.ClassLog{}
	for rows.Next() {
		var l model.ClassLog
		if err := rows.Scan(&l.ID, &l.StudentClass, &l.Teacher, &l.Course, &l.CourseType,
			&l.Content, &l.StartDate, &l.EndDate, &l.UpdateDate); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// Count returns the number of class logs matching the filter.
func (r *ClassLogRepository) Count(ctx context.Context, f model.ClassLogFilter) (int, error) {
	var n int
	var err error
	if f.StudentClass != "" {
		err = r.db.QueryRow(ctx, `SELECT COUNT(*) FROM class_logs WHERE student_class = $1`, f.StudentClass).Scan(&n)
	} else {
		err = r.db.QueryRow(ctx, `SELECT COUNT(*) FROM class_logs`).Scan(&n)
	}
	return n, err
}

// ListStudentClasses returns the distinct class codes currently stored.
func (r *ClassLogRepository) ListStudentClasses(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT DISTINCT student_class FROM class_logs ORDER BY student_class`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	classes := []string{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		classes = append(classes, c)
	}
	return classes, rows.Err()
}
