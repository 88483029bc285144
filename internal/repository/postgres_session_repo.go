package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/washplay/internal/model"
)

// PostgresSessionRepo はPostgreSQLを使用したプレイセッションリポジトリ。
type PostgresSessionRepo struct {
	db *sql.DB
}

// NewPostgresSessionRepo はPostgresSessionRepoを生成する。
func NewPostgresSessionRepo(db *sql.DB) *PostgresSessionRepo {
	return &PostgresSessionRepo{db: db}
}

// Create はセッションを作成し、採番されたIDをsessionに書き戻す。
func (r *PostgresSessionRepo) Create(ctx context.Context, session *model.PlaySession) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO wash_sessions (location_id, token, created_at, expires_at)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		session.LocationID, session.Token, session.CreatedAt, session.ExpiresAt,
	).Scan(&session.ID)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// Consume は消費可能なセッションをアトミックに消費済みへ遷移させる。
// read-then-writeではなく条件付きUPDATE 1文で行うことで、
// 複数プロセスが同一トークンで競合しても勝者は必ず1つになる。
func (r *PostgresSessionRepo) Consume(ctx context.Context, token, locationID string) (int64, bool, error) {
	var id int64
	err := r.db.QueryRowContext(ctx,
		`UPDATE wash_sessions
		 SET used_at = now()
		 WHERE token = $1
		   AND location_id = $2
		   AND used_at IS NULL
		   AND expires_at > now()
		 RETURNING id`,
		token, locationID,
	).Scan(&id)

	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to consume session: %w", err)
	}

	return id, true, nil
}

// FindByToken は(token, locationID)でセッションを取得する。見つからない場合はnilを返す。
func (r *PostgresSessionRepo) FindByToken(ctx context.Context, token, locationID string) (*model.PlaySession, error) {
	session := &model.PlaySession{}
	var usedAt sql.NullTime

	err := r.db.QueryRowContext(ctx,
		`SELECT id, location_id, token, created_at, expires_at, used_at
		 FROM wash_sessions
		 WHERE token = $1 AND location_id = $2`,
		token, locationID,
	).Scan(
		&session.ID, &session.LocationID, &session.Token,
		&session.CreatedAt, &session.ExpiresAt, &usedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find session: %w", err)
	}

	if usedAt.Valid {
		session.UsedAt = &usedAt.Time
	}

	return session, nil
}

// compile-time interface check
var _ SessionRepository = (*PostgresSessionRepo)(nil)
