package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/smartmcq/smartmcq/internal/rbac"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
)

type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type Users struct {
	db   *sql.DB
	Cost int // bcrypt cost
}

func NewUsers(db *sql.DB) *Users { return &Users{db: db, Cost: 12} }

func (u *Users) Create(ctx context.Context, username, password, role string) (User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return User{}, errors.New("username and password required")
	}
	if !rbac.ValidRole(role) {
		return User{}, fmt.Errorf("unknown role %q", role)
	}
	var exists int
	err := u.db.QueryRowContext(ctx, `SELECT 1 FROM users WHERE username=$1`, username).Scan(&exists)
	if err == nil {
		return User{}, ErrUserExists
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), u.Cost)
	if err != nil {
		return User{}, err
	}
	usr := User{ID: uuid.NewString(), Username: username, Role: role}
	_, err = u.db.ExecContext(ctx, `INSERT INTO users (id,username,password_hash,role,created_at) VALUES ($1,$2,$3,$4,$5)`,
		usr.ID, usr.Username, string(hash), usr.Role, time.Now().Unix())
	if err != nil {
		return User{}, fmt.Errorf("insert user: %w", err)
	}
	return usr, nil
}

// Authenticate returns ErrInvalidCredentials for an unknown user or a wrong
// password alike.
func (u *Users) Authenticate(ctx context.Context, username, password string) (User, error) {
	var usr User
	var hash string
	err := u.db.QueryRowContext(ctx, `SELECT id,username,password_hash,role FROM users WHERE username=$1`,
		strings.TrimSpace(username)).Scan(&usr.ID, &usr.Username, &hash, &usr.Role)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrInvalidCredentials
	}
	if err != nil {
		return User{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return User{}, ErrInvalidCredentials
	}
	return usr, nil
}
