package user

import (
	"context"
	"database/sql"
	"errors"

	"github.com/wichananm65/user-registration/internal/database"
)

type PostgresRepository struct {
	db *sql.DB
}

type rowScanner interface {
	Scan(dest ...any) error
}

const (
	listUsersQuery = `
		SELECT id, name, "birthDate", gender, "phoneNumber"
		FROM users
		ORDER BY id
	`
	getUserByIDQuery = `
		SELECT id, name, "birthDate", gender, "phoneNumber"
		FROM users
		WHERE id = $1
	`
	insertUserQuery = `
		INSERT INTO users (name, "birthDate", gender, "phoneNumber")
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user User) (User, error) {
	var id int64
	err := r.db.QueryRowContext(
		ctx,
		insertUserQuery,
		user.Name,
		user.BirthDate.Format(DateLayout),
		string(user.Gender),
		user.PhoneNumber,
	).Scan(&id)
	if err != nil {
		return User{}, storageError("create", err)
	}

	user.ID = id
	return user, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (User, error) {
	row := r.db.QueryRowContext(ctx, getUserByIDQuery, id)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, storageError("get", err)
	}

	return user, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]User, error) {
	rows, err := r.db.QueryContext(ctx, listUsersQuery)
	if err != nil {
		return nil, storageError("list", err)
	}
	defer rows.Close()

	users := make([]User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, storageError("list", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("list", err)
	}

	return users, nil
}

func scanUser(scanner rowScanner) (User, error) {
	user := User{}
	var gender string

	if err := scanner.Scan(
		&user.ID,
		&user.Name,
		&user.BirthDate,
		&gender,
		&user.PhoneNumber,
	); err != nil {
		return User{}, err
	}

	user.Gender = Gender(gender)
	return user, nil
}

func storageError(op string, err error) *StorageError {
	return &StorageError{Op: op, Code: database.ErrorCode(err), Err: err}
}
