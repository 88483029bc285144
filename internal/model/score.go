package model

import "time"

// スコア値とニックネームの正規化境界。
const (
	// ScoreMin はスコアの下限値。下回る入力は切り上げる。
	ScoreMin = 0
	// ScoreMax はスコアの上限値。超える入力は切り詰める。
	ScoreMax = 1_000_000
	// NicknameMaxLen はニックネームの最大文字数。超過分は黙って切り捨てる。
	NicknameMaxLen = 24
)

// Score は1回のプレイで記録されたスコアを表す。
// IDはストアが単調増加で採番し、CreatedAtはINSERT時にサーバー側で付与される。
// 作成後は更新・削除されないイミュータブルなレコード。
type Score struct {
	ID         int64
	LocationID string
	Value      int
	Nickname   *string
	CreatedAt  time.Time
}
