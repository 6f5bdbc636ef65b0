// Package model はドメインモデルを定義する。
package model

import "time"

// Note はユーザーが所有するノートを表す。
// 本文はHTMLを許容するが、保存前にサニタイズ済みであることを前提とする。
type Note struct {
	ID        string
	UserID    string
	Title     string
	Body      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
