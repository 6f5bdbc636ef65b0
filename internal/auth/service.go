package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/noteman/internal/captcha"
	"github.com/hitoshi/noteman/internal/model"
	"github.com/hitoshi/noteman/internal/repository"
)

// Hasher はサービス層が必要とするパスワードハッシュ化インターフェース。
type Hasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) (bool, error)
}

// TokenIssuer はサービス層が必要とするクレデンシャル発行インターフェース。
type TokenIssuer interface {
	Issue(userID, email string) (string, error)
}

// ChallengeVerifier は人間検証チャレンジの検証インターフェース。
type ChallengeVerifier interface {
	Verify(ctx context.Context, challengeToken string) (*captcha.Verdict, error)
}

// Service は認証に関するビジネスロジックを提供する。
// クレデンシャルは(a)パスワード照合成功、または(b)チャレンジ検証成功かつ
// アカウント永続化成功、のいずれかの後にのみ発行される。
type Service struct {
	userRepo repository.UserRepository
	hasher   Hasher
	issuer   TokenIssuer
	verifier ChallengeVerifier
}

// NewService はServiceを生成する。
func NewService(
	userRepo repository.UserRepository,
	hasher Hasher,
	issuer TokenIssuer,
	verifier ChallengeVerifier,
) *Service {
	return &Service{
		userRepo: userRepo,
		hasher:   hasher,
		issuer:   issuer,
		verifier: verifier,
	}
}

// Login はメールアドレスとパスワードを照合し、クレデンシャルを発行する。
// ユーザー不在とパスワード不一致はどちらもErrUnauthorizedを返し、
// ステータスコードからのアカウント列挙を防ぐため区別しない。
func (s *Service) Login(ctx context.Context, email, password string) (*model.Credential, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	if user == nil {
		return nil, model.ErrUnauthorized
	}

	match, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		// ダイジェスト破損は認証失敗ではなく内部エラー
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !match {
		return nil, model.ErrUnauthorized
	}

	token, err := s.issuer.Issue(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to issue credential: %w", err)
	}

	return &model.Credential{Token: token, UserID: user.ID}, nil
}

// Register はチャレンジ検証の後に新規アカウントを作成し、クレデンシャルを発行する。
// チャレンジトークン未提示はハッシュ化やディレクトリ照会より前に失敗する。
// 検証サービス自体の障害(ErrChallengeUnavailable)と正当な拒否(ErrChallengeRejected)は
// 区別して返す。メールアドレス重複はErrEmailTakenを返す。
func (s *Service) Register(ctx context.Context, email, password, challengeToken string) (*model.Credential, error) {
	if challengeToken == "" {
		return nil, model.ErrChallengeRequired
	}

	verdict, err := s.verifier.Verify(ctx, challengeToken)
	if err != nil {
		slog.Error("challenge verification call failed",
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("%w: %w", model.ErrChallengeUnavailable, err)
	}
	if !verdict.Success {
		return nil, model.ErrChallengeRejected
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &model.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("new user registered", slog.String("user_id", user.ID))

	token, err := s.issuer.Issue(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to issue credential: %w", err)
	}

	return &model.Credential{Token: token, UserID: user.ID}, nil
}
