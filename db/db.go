package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"procurement/models"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Storage хранит тендеры, предложения, отзывы и справочник сотрудников в Postgres.
type Storage struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewStorage(db *sqlx.DB, log *zap.Logger) *Storage {
	return &Storage{db: db, log: log}
}

type PoolConfig struct {
	MaxOpenConns int
	MaxIdleConns int
}

// Open подключается к Postgres и проверяет соединение.
func Open(ctx context.Context, dsn string, pool PoolConfig) (*sqlx.DB, error) {
	conn, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("db.Open: %w", err)
	}
	conn.SetMaxOpenConns(pool.MaxOpenConns)
	conn.SetMaxIdleConns(pool.MaxIdleConns)
	conn.SetConnMaxIdleTime(5 * time.Minute)
	return conn, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

type txKey struct{}

// WithinTx выполняет fn в транзакции. Вложенные вызовы используют внешнюю транзакцию.
func (s *Storage) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*sqlx.Tx); ok {
		return fn(ctx)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("db.Storage.WithinTx: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				s.log.Error("transaction rollback failed", zap.Error(rbErr))
			}
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.log.Error("transaction rollback failed", zap.Error(rbErr))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("db.Storage.WithinTx: commit: %w", err)
	}
	return nil
}

// ext возвращает текущую транзакцию из контекста или пул соединений.
func (s *Storage) ext(ctx context.Context) sqlx.ExtContext {
	if tx, ok := ctx.Value(txKey{}).(*sqlx.Tx); ok {
		return tx
	}
	return s.db
}

func (s *Storage) get(ctx context.Context, dest any, q sq.Sqlizer) error {
	query, args, err := q.ToSql()
	if err != nil {
		return err
	}
	err = sqlx.GetContext(ctx, s.ext(ctx), dest, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ErrNotFound
	}
	return err
}

func (s *Storage) selectAll(ctx context.Context, dest any, q sq.Sqlizer) error {
	query, args, err := q.ToSql()
	if err != nil {
		return err
	}
	return sqlx.SelectContext(ctx, s.ext(ctx), dest, query, args...)
}

func (s *Storage) exec(ctx context.Context, q sq.Sqlizer) (int64, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return 0, err
	}
	res, err := s.ext(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// updateVersioned обновляет строку, только если ее версия все еще равна from.
func (s *Storage) updateVersioned(ctx context.Context, q sq.UpdateBuilder, from int) error {
	n, err := s.exec(ctx, q.Where(sq.Eq{"version": from}))
	if err != nil {
		return err
	}
	if n == 0 {
		return models.ErrVersionConflict
	}
	return nil
}

func paginate(q sq.SelectBuilder, page models.Page) sq.SelectBuilder {
	if page.Limit != models.NoLimit {
		q = q.Limit(uint64(page.Limit))
	}
	if page.Offset > 0 {
		q = q.Offset(uint64(page.Offset))
	}
	return q
}
