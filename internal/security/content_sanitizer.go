// Package security はアプリケーションのセキュリティ機能を提供する。
//
// NoteSanitizerService はユーザーが保存するノートのHTMLコンテンツをサニタイズし、
// XSS攻撃などのセキュリティリスクから閲覧者を保護する。
// bluemondayライブラリを使用した許可リストベースのポリシーで、
// 安全なタグと属性のみを通過させる。
package security

import (
	"net/url"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// NoteSanitizerService はノートコンテンツのサニタイズ機能のインターフェースを定義する。
// ノートの作成・更新時、永続化の前に使用される。
type NoteSanitizerService interface {
	// SanitizeTitle はタイトルから全タグを除去し、プレーンテキストを返す。
	SanitizeTitle(rawTitle string) string

	// SanitizeBody は本文HTMLをサニタイズして安全なHTMLを返す。
	// 許可タグ（p, br, a, ul, ol, li, blockquote, pre, code, strong, em）のみを通過させ、
	// script, iframe, styleタグおよびon*イベント属性を除去する。
	// aタグにはtarget="_blank"とrel="noopener noreferrer"が自動付与される。
	// 空文字列の入力には空文字列を返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	SanitizeBody(rawHTML string) string
}

// noteSanitizer はNoteSanitizerServiceの実装。
// bluemondayのポリシーを保持し、スレッドセーフにサニタイズ処理を行う。
type noteSanitizer struct {
	bodyPolicy  *bluemonday.Policy
	titlePolicy *bluemonday.Policy
}

// NewNoteSanitizer はNoteSanitizerServiceの新しいインスタンスを生成する。
// 本文用ポリシーの内容:
//   - 許可タグ: p, br, a, ul, ol, li, blockquote, pre, code, strong, em
//   - 禁止タグ: script, iframe, style および全てのon*イベント属性
//   - aタグ: href属性のみ許可、httpsスキーム限定、
//     target="_blank" と rel="noopener noreferrer" を自動付与
//
// タイトル用ポリシーは全タグを除去する（StrictPolicy）。
func NewNoteSanitizer() *noteSanitizer {
	p := bluemonday.NewPolicy()

	// 許可タグの設定（属性なしのシンプルなタグ）
	// script, iframe, style等は許可リストに含めないことで自動的に除去される
	// on*イベント属性はbluemondayのデフォルトで許可されないため除去される
	p.AllowElements(
		"p", "br", "ul", "ol", "li",
		"blockquote", "pre", "code",
		"strong", "em",
	)

	// aタグの設定:
	// - href属性を許可、相対URLは不許可
	// - target="_blank" と rel="noreferrer noopener" を強制付与
	p.AllowAttrs("href").OnElements("a")
	p.AllowRelativeURLs(false)
	p.AddTargetBlankToFullyQualifiedLinks(true)
	p.RequireNoReferrerOnLinks(true)
	p.AllowURLSchemeWithCustomPolicy("https", func(u *url.URL) bool {
		return true
	})

	return &noteSanitizer{
		bodyPolicy:  p,
		titlePolicy: bluemonday.StrictPolicy(),
	}
}

// SanitizeTitle はタイトルから全タグを除去し、前後の空白を取り除いて返す。
func (s *noteSanitizer) SanitizeTitle(rawTitle string) string {
	return strings.TrimSpace(s.titlePolicy.Sanitize(rawTitle))
}

// SanitizeBody は本文HTMLをサニタイズして安全なHTMLを返す。
func (s *noteSanitizer) SanitizeBody(rawHTML string) string {
	return s.bodyPolicy.Sanitize(rawHTML)
}
