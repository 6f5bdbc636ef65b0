// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// 認証サービスやミドルウェアから利用する。
type MetricsCollector interface {
	RecordLogin(success bool)
	RecordRegistration(outcome string)
	RecordTokenValidation(success bool)
	RecordChallengeVerify(outcome string, duration time.Duration)
	RecordHTTPStatus(statusCode int)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	loginTotal       *prometheus.CounterVec
	registerTotal    *prometheus.CounterVec
	tokenValidation  *prometheus.CounterVec
	challengeVerify  *prometheus.CounterVec
	challengeLatency prometheus.Histogram
	httpStatus       *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		loginTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "noteman_login_total",
			Help: "ログイン試行の結果別合計数",
		}, []string{"result"}),
		registerTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "noteman_register_total",
			Help: "登録試行の結果別合計数",
		}, []string{"result"}),
		tokenValidation: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "noteman_token_validation_total",
			Help: "クレデンシャル検証の結果別合計数",
		}, []string{"result"}),
		challengeVerify: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "noteman_challenge_verify_total",
			Help: "チャレンジ検証呼び出しの結果別合計数",
		}, []string{"result"}),
		challengeLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "noteman_challenge_verify_latency_seconds",
			Help:    "チャレンジ検証呼び出しのレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "noteman_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
	}

	reg.MustRegister(
		c.loginTotal,
		c.registerTotal,
		c.tokenValidation,
		c.challengeVerify,
		c.challengeLatency,
		c.httpStatus,
	)

	return c
}

// RecordLogin はログイン試行の結果を記録する。
func (c *Collector) RecordLogin(success bool) {
	result := "failure"
	if success {
		result = "success"
	}
	c.loginTotal.WithLabelValues(result).Inc()
}

// RecordRegistration は登録試行の結果を記録する。
// outcome: success, challenge_required, challenge_rejected,
// challenge_unavailable, email_taken, error
func (c *Collector) RecordRegistration(outcome string) {
	c.registerTotal.WithLabelValues(outcome).Inc()
}

// RecordTokenValidation はクレデンシャル検証の結果を記録する。
func (c *Collector) RecordTokenValidation(success bool) {
	result := "failure"
	if success {
		result = "success"
	}
	c.tokenValidation.WithLabelValues(result).Inc()
}

// RecordChallengeVerify はチャレンジ検証呼び出しの結果とレイテンシを記録する。
// outcome: success, rejected, unavailable
func (c *Collector) RecordChallengeVerify(outcome string, duration time.Duration) {
	c.challengeVerify.WithLabelValues(outcome).Inc()
	c.challengeLatency.Observe(duration.Seconds())
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// compile-time interface check
var _ MetricsCollector = (*Collector)(nil)
