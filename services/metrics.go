package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	feedEventsDelivered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_events_delivered_total",
			Help: "Feed events handed over to a delivery channel",
		},
		[]string{"channel"},
	)

	feedEventsPushed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_events_pushed_total",
			Help: "Feed events written to at least one WebSocket connection",
		},
		[]string{"source"},
	)
)
