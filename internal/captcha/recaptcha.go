// Package captcha は外部の人間検証サービス(reCAPTCHA)によるチャレンジ検証を提供する。
package captcha

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultVerifyURL = "https://www.google.com/recaptcha/api/siteverify"

// DefaultTimeout は検証エンドポイント呼び出しの上限時間。
// 外部サービスの遅延が登録パスを無期限に停止させないための強制タイムアウト。
const DefaultTimeout = 10 * time.Second

// Verdict はチャレンジ検証サービスの判定結果を表す。
// 取得後すぐに消費され、永続化しない。
type Verdict struct {
	Success    bool     `json:"success"`
	Hostname   string   `json:"hostname"`
	ErrorCodes []string `json:"error-codes"`
}

// Config はreCAPTCHAクライアントの設定。
type Config struct {
	Secret string

	// テスト用にオーバーライド可能なURL
	VerifyURL string

	// 検証呼び出しのタイムアウト。0の場合はDefaultTimeoutを使用する。
	Timeout time.Duration
}

// Client はreCAPTCHA siteverifyエンドポイントを呼び出す検証クライアント。
type Client struct {
	config     Config
	httpClient *http.Client
}

// NewClient はClientを生成する。
func NewClient(config Config) *Client {
	if config.VerifyURL == "" {
		config.VerifyURL = defaultVerifyURL
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
	}
}

// Verify はチャレンジトークンを検証サービスに送り、判定結果を返す。
// エラーはネットワーク障害・タイムアウト・不正レスポンスなど依存先の障害のみで、
// 判定が「無効」の場合はエラーではなくSuccess=falseのVerdictを返す。
// 両者は呼び出し側で区別して扱うこと。
func (c *Client) Verify(ctx context.Context, challengeToken string) (*Verdict, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	data := url.Values{
		"secret":   {c.config.Secret},
		"response": {challengeToken},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.VerifyURL, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create verify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("verify request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read verify response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("verify failed with status %d: %s", resp.StatusCode, string(body))
	}

	var verdict Verdict
	if err := json.Unmarshal(body, &verdict); err != nil {
		return nil, fmt.Errorf("failed to parse verify response: %w", err)
	}

	return &verdict, nil
}
