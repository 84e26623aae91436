package queue

import (
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starbase-io/roster/internal/repository"
)

var qInsertLog = regexp.QuoteMeta("INSERT INTO api_call_log (api_endpoint, success_status, call_date, changed_field, old_value, new_value, error_log) VALUES (?, ?, ?, ?, ?, ?, ?)")

func TestHandleMessage(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	logs := repository.NewCallLogRepo(db)

	mock.ExpectExec(qInsertLog).
		WithArgs("UpdatePerson/John Doe", true, sqlmock.AnyArg(), "name", "John Doe", "Jane Doe", nil).
		WillReturnResult(sqlmock.NewResult(1, 1))

	body := []byte(`{"endpoint":"UpdatePerson/John Doe","success":true,"changed_field":"name","old_value":"John Doe","new_value":"Jane Doe","logged_at":"2026-08-30T10:00:00Z"}`)
	require.NoError(t, handleMessage(body, logs))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandleMessage_FailureEvent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	logs := repository.NewCallLogRepo(db)

	mock.ExpectExec(qInsertLog).
		WithArgs("CreateAstronautDuty", false, sqlmock.AnyArg(), nil, nil, nil, "Name does not exist").
		WillReturnResult(sqlmock.NewResult(1, 1))

	body := []byte(`{"endpoint":"CreateAstronautDuty","success":false,"error_log":"Name does not exist"}`)
	require.NoError(t, handleMessage(body, logs))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandleMessage_BadJSON(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	err = handleMessage([]byte("{not json"), repository.NewCallLogRepo(db))
	assert.Error(t, err)
}
