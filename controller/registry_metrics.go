package controller

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	roomsGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "engine",
		Subsystem: "registry",
		Name:      "rooms",
		Help:      "Rooms currently tracked by the registry.",
	})
	playersGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "engine",
		Subsystem: "registry",
		Name:      "players",
		Help:      "Players currently connected to a room.",
	})
	advanceDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "engine",
		Subsystem: "worker",
		Name:      "advance_duration_seconds",
		Help:      "Time spent advancing all playing rooms per tick.",
	})
)

func observeAdvance() func() {
	t := prometheus.NewTimer(advanceDuration)
	return func() { t.ObserveDuration() }
}

func init() {
	prometheus.MustRegister(roomsGauge, playersGauge, advanceDuration)
}
