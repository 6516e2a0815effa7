package user

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userColumns = []string{"id", "name", "birthDate", "gender", "phoneNumber"}

func TestPostgresRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectQuery("INSERT INTO users").
		WithArgs("山田太郎", "1990-05-10", "男性", "09011112222").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))

	created, err := repo.Create(context.Background(), User{
		Name:        "山田太郎",
		BirthDate:   time.Date(1990, time.May, 10, 0, 0, 0, 0, time.UTC),
		Gender:      GenderMale,
		PhoneNumber: "09011112222",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), created.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_CreateStorageError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPostgresRepository(db)

	driverErr := &pgconn.PgError{Code: "57P01", Message: "terminating connection due to administrator command"}
	mock.ExpectQuery("INSERT INTO users").WillReturnError(driverErr)

	_, err = repo.Create(context.Background(), User{Name: "a", Gender: GenderMale, PhoneNumber: "09011112222"})

	var storeErr *StorageError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "create", storeErr.Op)
	assert.Equal(t, "57P01", storeErr.Code)
	assert.Equal(t, driverErr.Error(), err.Error())
	assert.ErrorIs(t, err, driverErr)
}

func TestPostgresRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPostgresRepository(db)

	birth := time.Date(1990, time.May, 10, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT .* FROM users\s+WHERE id = \$1`).WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(9, "山田太郎", birth, "男性", "09011112222"))

	u, err := repo.GetByID(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, User{ID: 9, Name: "山田太郎", BirthDate: birth, Gender: GenderMale, PhoneNumber: "09011112222"}, u)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_GetByIDMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectQuery("FROM users").WithArgs(int64(404)).WillReturnError(sql.ErrNoRows)

	_, err = repo.GetByID(context.Background(), 404)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostgresRepository_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPostgresRepository(db)

	birth := time.Date(1990, time.May, 10, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(userColumns).
		AddRow(1, "A", birth, "男性", "09011112222").
		AddRow(2, "B", birth, "男性", "+819011112222")
	mock.ExpectQuery("ORDER BY id").WillReturnRows(rows)

	all, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "B", all[1].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_ListError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectQuery("FROM users").WillReturnError(errors.New("connection refused"))

	_, err = repo.List(context.Background())
	var storeErr *StorageError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "list", storeErr.Op)
	assert.Equal(t, "connection refused", err.Error())
}
