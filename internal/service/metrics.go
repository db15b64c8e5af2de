package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 月度回顾操作指标，经由私有路由的 /metrics 暴露
var (
	reviewOpsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "note_review",
		Subsystem: "review",
		Name:      "operations_total",
		Help:      "Total review operations by operation and result.",
	}, []string{"operation", "result"})

	reviewNotesCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "note_review",
		Subsystem: "review",
		Name:      "monthly_notes_created_total",
		Help:      "Total monthly notes created on demand.",
	})

	reviewLinksAppendedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "note_review",
		Subsystem: "review",
		Name:      "links_appended_total",
		Help:      "Total back-reference links appended to monthly notes.",
	})
)

// observeReviewOp 记录一次回顾操作的结果
func observeReviewOp(operation string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	reviewOpsTotal.WithLabelValues(operation, result).Inc()
}
