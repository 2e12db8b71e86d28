package database

import "context"

const createUser = `
INSERT INTO users (username, password_hash, role, is_active)
VALUES ($1, $2, $3, $4)
RETURNING id, username, password_hash, role, is_active, created_at
`

type CreateUserParams struct {
	Username     string
	PasswordHash string
	Role         string
	IsActive     bool
}

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	row := q.db.QueryRow(ctx, createUser, arg.Username, arg.PasswordHash, arg.Role, arg.IsActive)
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.IsActive, &u.CreatedAt)
	return u, err
}

const getUserByID = `
SELECT id, username, password_hash, role, is_active, created_at
FROM users
WHERE id = $1
`

func (q *Queries) GetUserByID(ctx context.Context, id int64) (User, error) {
	row := q.db.QueryRow(ctx, getUserByID, id)
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.IsActive, &u.CreatedAt)
	return u, err
}

const getUserByUsername = `
SELECT id, username, password_hash, role, is_active, created_at
FROM users
WHERE username = $1
`

func (q *Queries) GetUserByUsername(ctx context.Context, username string) (User, error) {
	row := q.db.QueryRow(ctx, getUserByUsername, username)
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.IsActive, &u.CreatedAt)
	return u, err
}
