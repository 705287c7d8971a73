package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// ============================================================================
// BusMetrics 实现
// ============================================================================

// BusMetrics 事件总线指标集合
type BusMetrics struct {
	// Published 按主题的发布计数
	Published *prometheus.CounterVec
	// Delivered 按主题的投递计数（每次成功进入主题多播算一次）
	Delivered *prometheus.CounterVec
	// DroppedNoSubscriber 无订阅者丢弃计数
	DroppedNoSubscriber *prometheus.CounterVec
	// DroppedOverflow 队列溢出丢弃计数（PolicyDropOldest）
	DroppedOverflow *prometheus.CounterVec
	// QueueDepth 按主题的队列深度
	QueueDepth *prometheus.GaugeVec
}

// NewBusMetrics 创建总线指标集合
//
// reg 为 nil 时指标不注册，仍可正常计数（用于测试或禁用暴露）。
func NewBusMetrics(reg prometheus.Registerer) *BusMetrics {
	m := &BusMetrics{
		Published: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "reactive",
			Subsystem: "bus",
			Name:      "published_total",
			Help:      "Total events published per topic.",
		}, []string{"topic"}),
		Delivered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "reactive",
			Subsystem: "bus",
			Name:      "delivered_total",
			Help:      "Total events dispatched to topic subscribers.",
		}, []string{"topic"}),
		DroppedNoSubscriber: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "reactive",
			Subsystem: "bus",
			Name:      "dropped_no_subscriber_total",
			Help:      "Total events dropped because the topic had no subscribers.",
		}, []string{"topic"}),
		DroppedOverflow: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "reactive",
			Subsystem: "bus",
			Name:      "dropped_overflow_total",
			Help:      "Total events dropped by the drop-oldest overflow policy.",
		}, []string{"topic"}),
		QueueDepth: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "reactive",
			Subsystem: "bus",
			Name:      "queue_depth",
			Help:      "Current queued events per topic.",
		}, []string{"topic"}),
	}

	if reg != nil {
		reg.MustRegister(
			m.Published,
			m.Delivered,
			m.DroppedNoSubscriber,
			m.DroppedOverflow,
			m.QueueDepth,
		)
	}
	return m
}
