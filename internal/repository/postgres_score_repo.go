package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hitoshi/washplay/internal/model"
)

// PostgresScoreRepo はPostgreSQLを使用したスコアリポジトリ。
type PostgresScoreRepo struct {
	db *sql.DB
}

// NewPostgresScoreRepo はPostgresScoreRepoを生成する。
func NewPostgresScoreRepo(db *sql.DB) *PostgresScoreRepo {
	return &PostgresScoreRepo{db: db}
}

// Create はスコアを作成する。
// IDとcreated_atはストア側で採番・付与し、完全なレコードを返す。
func (r *PostgresScoreRepo) Create(ctx context.Context, score *model.Score) (*model.Score, error) {
	created := &model.Score{
		LocationID: score.LocationID,
		Value:      score.Value,
		Nickname:   score.Nickname,
	}

	err := r.db.QueryRowContext(ctx,
		`INSERT INTO scores (location_id, value, nickname)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		score.LocationID, score.Value, score.Nickname,
	).Scan(&created.ID, &created.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create score: %w", err)
	}

	return created, nil
}

// ListTop は指定ロケーションの上位スコアを返す。
// 並び順のid ASCはvalueとcreated_atが同時に衝突した場合の
// 決定的なタイブレークで、同一データに対する再クエリの再現性を保証する。
func (r *PostgresScoreRepo) ListTop(ctx context.Context, locationID string, since *time.Time, limit int) ([]model.Score, error) {
	var (
		rows *sql.Rows
		err  error
	)

	if since != nil {
		rows, err = r.db.QueryContext(ctx,
			`SELECT id, location_id, value, nickname, created_at
			 FROM scores
			 WHERE location_id = $1 AND created_at >= $2
			 ORDER BY value DESC, created_at ASC, id ASC
			 LIMIT $3`,
			locationID, *since, limit,
		)
	} else {
		rows, err = r.db.QueryContext(ctx,
			`SELECT id, location_id, value, nickname, created_at
			 FROM scores
			 WHERE location_id = $1
			 ORDER BY value DESC, created_at ASC, id ASC
			 LIMIT $2`,
			locationID, limit,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list scores: %w", err)
	}
	defer rows.Close()

	scores := []model.Score{}
	for rows.Next() {
		var (
			score    model.Score
			nickname sql.NullString
		)
		if err := rows.Scan(&score.ID, &score.LocationID, &score.Value, &nickname, &score.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan score: %w", err)
		}
		if nickname.Valid {
			score.Nickname = &nickname.String
		}
		scores = append(scores, score)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate scores: %w", err)
	}

	return scores, nil
}

// compile-time interface check
var _ ScoreRepository = (*PostgresScoreRepo)(nil)
