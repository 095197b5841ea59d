package repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/rogerio-castellano/inventory-ledger/internal/models"
)

type PostgresUserRepository struct {
	tx      *PostgresTxManager
	builder squirrel.StatementBuilderType
}

func NewPostgresUserRepository(tx *PostgresTxManager) *PostgresUserRepository {
	return &PostgresUserRepository{
		tx:      tx,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *PostgresUserRepository) GetByUsername(ctx context.Context, username string) (models.User, error) {
	sql, args, err := r.builder.Select("id", "username", "password_hash", "role", "created_at", "updated_at").
		From("users").
		Where(squirrel.Eq{"username": username}).
		ToSql()
	if err != nil {
		return models.User{}, fmt.Errorf("build query: %w", err)
	}

	var u models.User
	if err := pgxscan.Get(ctx, r.tx.GetQuerier(ctx), &u, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, fmt.Errorf("select user: %w", err)
	}
	return u, nil
}

func (r *PostgresUserRepository) CreateUser(ctx context.Context, u models.User) (models.User, error) {
	sql, args, err := r.builder.Insert("users").
		Columns("username", "password_hash", "role").
		Values(u.Username, u.PasswordHash, u.Role).
		Suffix("RETURNING id, username, password_hash, role, created_at, updated_at").
		ToSql()
	if err != nil {
		return models.User{}, fmt.Errorf("build insert: %w", err)
	}

	var created models.User
	if err := pgxscan.Get(ctx, r.tx.GetQuerier(ctx), &created, sql, args...); err != nil {
		if isUniqueViolation(err) {
			return models.User{}, ErrDuplicatedValueUnique
		}
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}
	return created, nil
}
