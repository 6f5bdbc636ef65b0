// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/noteman/internal/model"
)

// UserRepository はユーザーデータ（アカウントディレクトリ）の永続化インターフェース。
type UserRepository interface {
	// FindByEmail は指定メールアドレスのユーザーを取得する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// Create はユーザーを作成する。
	// メールアドレスが既に存在する場合はmodel.ErrEmailTakenを返す。
	Create(ctx context.Context, user *model.User) error
}

// NoteRepository はノートデータの永続化インターフェース。
type NoteRepository interface {
	// ListByUserID は指定ユーザーの全ノートを作成日時降順で返す。
	ListByUserID(ctx context.Context, userID string) ([]*model.Note, error)

	// FindByID は指定IDのノートを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Note, error)

	// Create はノートを作成する。
	Create(ctx context.Context, note *model.Note) error

	// Update は指定IDのノートのタイトルと本文を更新する。
	// 対象が存在しない場合はmodel.ErrNoteNotFoundを返す。
	Update(ctx context.Context, id, title, body string) error

	// Delete は指定IDのノートを削除する。
	Delete(ctx context.Context, id string) error
}
