package student

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dancestudio/manager/internal/apperrors"
	log "github.com/sirupsen/logrus"
)

var ErrStudentNotFound = apperrors.NotFound("student")

type Repository interface {
	Store(ctx context.Context, student Student) (int, error)
	Get(ctx context.Context, id int) (Student, error)
	GetAll(ctx context.Context) ([]Student, error)
}

type RepositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) Store(ctx context.Context, student Student) (int, error) {
	query := `INSERT INTO students (first_name, last_name, dob) VALUES (?, ?, ?)`
	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not prepare query: %w", err)
		log.Error(err)
		return 0, err
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx, student.FirstName, student.LastName, dobParam(student.DateOfBirth))
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return 0, err
	}
	lastInsertID, err := result.LastInsertId()
	if err != nil {
		err := fmt.Errorf("could not retrieve last insert id: %w", err)
		log.Error(err)
		return 0, err
	}
	return int(lastInsertID), nil
}

func (r *RepositoryImpl) Get(ctx context.Context, id int) (Student, error) {
	query := `SELECT id, first_name, last_name, dob FROM students WHERE id = ?`
	student, err := scanStudent(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Student{}, ErrStudentNotFound
	}
	if err != nil {
		err := fmt.Errorf("could not get student %d: %w", id, err)
		log.Error(err)
		return Student{}, err
	}
	return student, nil
}

func (r *RepositoryImpl) GetAll(ctx context.Context) ([]Student, error) {
	query := `SELECT id, first_name, last_name, dob FROM students ORDER BY last_name, first_name, id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not query students: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	students := make([]Student, 0)
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			err := fmt.Errorf("could not scan student: %w", err)
			log.Error(err)
			return nil, err
		}
		students = append(students, student)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}
	return students, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStudent(row rowScanner) (Student, error) {
	var student Student
	var dob sql.NullString
	if err := row.Scan(&student.Id, &student.FirstName, &student.LastName, &dob); err != nil {
		return Student{}, err
	}
	if dob.Valid && dob.String != "" {
		parsed, err := time.Parse(DateLayout, dob.String)
		if err != nil {
			return Student{}, fmt.Errorf("could not parse date of birth %q: %w", dob.String, err)
		}
		student.DateOfBirth = parsed
	}
	return student, nil
}

func dobParam(dob time.Time) any {
	if dob.IsZero() {
		return nil
	}
	return dob.Format(DateLayout)
}
