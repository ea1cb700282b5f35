package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lms-api/internal/models"
	"github.com/noah-isme/lms-api/pkg/database"
)

var studentColumns = []string{"id", "student_id", "full_name", "email", "major", "year", "phone_number", "university_id", "created_at", "updated_at"}

func TestStudentRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	rows := sqlmock.NewRows(studentColumns).
		AddRow(1, "S1", "Alice", "a@b.com", "CS", "2", "555", 1, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("COALESCE(email, '') AS email")).WithArgs(int64(1)).WillReturnRows(rows)

	student, err := NewStudentRepository(db).FindByID(context.Background(), nil, 1)
	require.NoError(t, err)
	assert.Equal(t, "S1", student.StudentID)
	assert.Equal(t, int64(1), student.UniversityID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO students")).
		WithArgs("S1", "Alice", "a@b.com", "CS", "2", "555", int64(1), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

	student := &models.Student{StudentID: "S1", FullName: "Alice", Email: "a@b.com", Major: "CS", Year: "2", PhoneNumber: "555", UniversityID: 1}
	require.NoError(t, NewStudentRepository(db).Create(context.Background(), nil, student))
	assert.Equal(t, int64(7), student.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryCreateDuplicateEmail(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	mock.ExpectQuery("INSERT INTO students").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "students_email_key"})

	err := NewStudentRepository(db).Create(context.Background(), nil, &models.Student{StudentID: "S2", Email: "a@b.com", UniversityID: 1})
	require.Error(t, err)
	assert.True(t, database.IsUniqueViolation(err))
}

func TestStudentRepositoryDeleteMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM students WHERE id = $1")).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := NewStudentRepository(db).Delete(context.Background(), nil, 3)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestStudentRepositoryDeleteByUniversity(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM students WHERE university_id = $1")).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 4))

	n, err := NewStudentRepository(db).DeleteByUniversity(context.Background(), nil, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
}
