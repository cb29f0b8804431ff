package service

import "github.com/prometheus/client_golang/prometheus"

var authEvents = prometheus.NewCounterVec(
	prometheus.CounterOpts{Name: "auth_events_total", Help: "Authentication events by outcome"},
	[]string{"event", "result"},
)

func init() { prometheus.MustRegister(authEvents) }

func observeAuth(event string, err error) {
	result := "ok"
	if err != nil {
		result = "fail"
	}
	authEvents.WithLabelValues(event, result).Inc()
}
