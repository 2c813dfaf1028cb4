package countries

import (
	"errors"
	"testing"
	"time"

	"country-catalog/feature/countries/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

var countryColumns = []string{
	"id", "name", "capital", "region", "population",
	"currency_code", "exchange_rate", "estimated_gdp", "flag_url", "last_refreshed_at",
}

func TestApplyRefresh_RollsBackOnLookupFailure(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `countries`").WillReturnError(errors.New("connection lost"))
	mock.ExpectRollback()

	processed, err := repo.ApplyRefresh([]models.Candidate{{Name: "France"}}, time.Now().UTC())
	require.Error(t, err)
	assert.Equal(t, 0, processed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyRefresh_RollsBackPartialBatch(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRepository(db)

	// First candidate inserts cleanly, second fails. The whole run must roll
	// back with no commit.
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `countries`").
		WillReturnRows(sqlmock.NewRows(countryColumns))
	mock.ExpectExec("INSERT INTO `countries`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery("SELECT \\* FROM `countries`").
		WillReturnError(errors.New("deadlock"))
	mock.ExpectRollback()

	candidates := []models.Candidate{
		{Name: "France"},
		{Name: "Japan"},
	}

	processed, err := repo.ApplyRefresh(candidates, time.Now().UTC())
	require.Error(t, err)
	assert.Equal(t, 0, processed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyRefresh_MetaFailureRollsBackUpserts(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `countries`").
		WillReturnRows(sqlmock.NewRows(countryColumns))
	mock.ExpectExec("INSERT INTO `countries`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery("SELECT \\* FROM `meta`").
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	processed, err := repo.ApplyRefresh([]models.Candidate{{Name: "France"}}, time.Now().UTC())
	require.Error(t, err)
	assert.Equal(t, 0, processed)
	assert.NoError(t, mock.ExpectationsWereMet())
}
