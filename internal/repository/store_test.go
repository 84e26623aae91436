package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starbase-io/roster/internal/service"
)

// Single-spaced forms of the statements; sqlmock collapses whitespace in
// the actual queries before matching.
var (
	qFindPerson   = regexp.QuoteMeta("SELECT id, name FROM persons WHERE name = ? LIMIT 1")
	qLockPerson   = regexp.QuoteMeta("SELECT id FROM persons WHERE id = ? FOR UPDATE")
	qDutyExists   = regexp.QuoteMeta("SELECT id FROM astronaut_duties WHERE person_id = ? AND duty_title = ? AND duty_start_date = ? LIMIT 1")
	qFindDetail   = regexp.QuoteMeta("SELECT id, person_id, current_rank, current_duty_title, career_start_date, career_end_date FROM astronaut_details WHERE person_id = ? LIMIT 1")
	qInsertDetail = regexp.QuoteMeta("INSERT INTO astronaut_details (person_id, current_rank, current_duty_title, career_start_date, career_end_date) VALUES (?, ?, ?, ?, ?)")
	qUpdateDetail = regexp.QuoteMeta("UPDATE astronaut_details SET current_rank = ?, current_duty_title = ?, career_end_date = ? WHERE person_id = ?")
	qFindCurrent  = regexp.QuoteMeta("SELECT id, person_id, duty_rank, duty_title, duty_start_date, duty_end_date, is_current FROM astronaut_duties WHERE person_id = ? AND is_current = 1 LIMIT 1")
	qCloseDuty    = regexp.QuoteMeta("UPDATE astronaut_duties SET duty_end_date = ?, is_current = 0 WHERE id = ?")
	qInsertDuty   = regexp.QuoteMeta("INSERT INTO astronaut_duties (person_id, duty_rank, duty_title, duty_start_date, duty_end_date, is_current) VALUES (?, ?, ?, ?, NULL, 1)")
)

func newStoreMock(t *testing.T) (sqlmock.Sqlmock, *service.AstronautService) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return mock, service.NewAstronautService(NewStore(db), nil)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func expectResolve(mock sqlmock.Sqlmock, id uint64, name string) {
	mock.ExpectQuery(qFindPerson).WithArgs(name).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(id, name))
}

func TestAssignDuty_FirstAssignmentSQL(t *testing.T) {
	mock, svc := newStoreMock(t)
	start := day(2020, time.January, 1)

	expectResolve(mock, 1, "John Doe")
	mock.ExpectBegin()
	mock.ExpectQuery(qLockPerson).WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery(qDutyExists).WithArgs(uint64(1), "PILOT", start).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(qFindDetail).WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "person_id", "current_rank", "current_duty_title", "career_start_date", "career_end_date"}))
	mock.ExpectExec(qInsertDetail).WithArgs(uint64(1), "1LT", "PILOT", start, nil).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(qFindCurrent).WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "person_id", "duty_rank", "duty_title", "duty_start_date", "duty_end_date", "is_current"}))
	mock.ExpectExec(qInsertDuty).WithArgs(uint64(1), "1LT", "PILOT", start).
		WillReturnResult(sqlmock.NewResult(10, 1))
	mock.ExpectCommit()

	duty, err := svc.AssignDuty(context.Background(), "John Doe", "1LT", "PILOT", start)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), duty.ID)
	assert.True(t, duty.IsCurrent)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignDuty_SupersessionSQL(t *testing.T) {
	mock, svc := newStoreMock(t)
	start := day(2021, time.June, 15)
	dayBefore := day(2021, time.June, 14)

	expectResolve(mock, 1, "John Doe")
	mock.ExpectBegin()
	mock.ExpectQuery(qLockPerson).WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery(qDutyExists).WithArgs(uint64(1), "COMMANDER", start).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(qFindDetail).WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "person_id", "current_rank", "current_duty_title", "career_start_date", "career_end_date"}).
			AddRow(3, 1, "1LT", "PILOT", day(2020, time.January, 1), nil))
	mock.ExpectExec(qUpdateDetail).WithArgs("CPT", "COMMANDER", nil, uint64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(qFindCurrent).WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "person_id", "duty_rank", "duty_title", "duty_start_date", "duty_end_date", "is_current"}).
			AddRow(10, 1, "1LT", "PILOT", day(2020, time.January, 1), nil, true))
	mock.ExpectExec(qCloseDuty).WithArgs(dayBefore, uint64(10)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(qInsertDuty).WithArgs(uint64(1), "CPT", "COMMANDER", start).
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectCommit()

	duty, err := svc.AssignDuty(context.Background(), "John Doe", "CPT", "COMMANDER", start)
	require.NoError(t, err)
	assert.Equal(t, uint64(11), duty.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignDuty_DuplicateRollsBack(t *testing.T) {
	mock, svc := newStoreMock(t)
	start := day(2020, time.January, 1)

	expectResolve(mock, 1, "John Doe")
	mock.ExpectBegin()
	mock.ExpectQuery(qLockPerson).WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery(qDutyExists).WithArgs(uint64(1), "PILOT", start).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(10))
	mock.ExpectRollback()

	_, err := svc.AssignDuty(context.Background(), "John Doe", "1LT", "PILOT", start)
	require.Error(t, err)
	assert.Equal(t, service.KindConflict, service.KindOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignDuty_WriteFailureRollsBack(t *testing.T) {
	mock, svc := newStoreMock(t)
	start := day(2020, time.January, 1)

	expectResolve(mock, 1, "John Doe")
	mock.ExpectBegin()
	mock.ExpectQuery(qLockPerson).WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery(qDutyExists).WithArgs(uint64(1), "PILOT", start).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(qFindDetail).WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "person_id", "current_rank", "current_duty_title", "career_start_date", "career_end_date"}))
	mock.ExpectExec(qInsertDetail).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	_, err := svc.AssignDuty(context.Background(), "John Doe", "1LT", "PILOT", start)
	require.Error(t, err)
	assert.Equal(t, service.KindInternal, service.KindOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBeginDutyTx_PersonRowGone(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	store := NewStore(db)

	mock.ExpectBegin()
	mock.ExpectQuery(qLockPerson).WithArgs(uint64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	_, err = store.BeginDutyTx(context.Background(), 99)
	assert.ErrorIs(t, err, service.ErrPersonNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
