package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starbase-io/roster/internal/service"
)

var (
	qAstronautByName = regexp.QuoteMeta("SELECT p.id, p.name, d.current_rank, d.current_duty_title, d.career_start_date, d.career_end_date FROM persons p JOIN astronaut_details d ON d.person_id = p.id WHERE p.name = ? LIMIT 1")
	qListDuties      = regexp.QuoteMeta("SELECT id, person_id, duty_rank, duty_title, duty_start_date, duty_end_date, is_current FROM astronaut_duties WHERE person_id = ? ORDER BY duty_start_date DESC, id DESC")
)

func TestAstronautRepoGetByName(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewAstronautRepo(db)

	end := day(2022, time.December, 31)
	mock.ExpectQuery(qAstronautByName).WithArgs("John Doe").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "current_rank", "current_duty_title", "career_start_date", "career_end_date"}).
			AddRow(1, "John Doe", "CPT", "RETIRED", day(2020, time.January, 1), end))

	pa, err := repo.GetByName(context.Background(), "John Doe")
	require.NoError(t, err)
	assert.Equal(t, "CPT", pa.CurrentRank)
	require.NotNil(t, pa.CareerEndDate)
	assert.True(t, pa.CareerEndDate.Equal(end))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAstronautRepoGetByName_Miss(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewAstronautRepo(db)

	mock.ExpectQuery(qAstronautByName).WithArgs("Nobody").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "current_rank", "current_duty_title", "career_start_date", "career_end_date"}))

	_, err = repo.GetByName(context.Background(), "Nobody")
	assert.ErrorIs(t, err, service.ErrPersonNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDutyRepoListByPerson(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewDutyRepo(db)

	closed := day(2021, time.June, 14)
	mock.ExpectQuery(qListDuties).WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "person_id", "duty_rank", "duty_title", "duty_start_date", "duty_end_date", "is_current"}).
			AddRow(11, 1, "CPT", "COMMANDER", day(2021, time.June, 15), nil, true).
			AddRow(10, 1, "1LT", "PILOT", day(2020, time.January, 1), closed, false))

	duties, err := repo.ListByPerson(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, duties, 2)
	assert.True(t, duties[0].IsCurrent)
	assert.Nil(t, duties[0].DutyEndDate)
	require.NotNil(t, duties[1].DutyEndDate)
	assert.True(t, duties[1].DutyEndDate.Equal(closed))
	assert.NoError(t, mock.ExpectationsWereMet())
}
