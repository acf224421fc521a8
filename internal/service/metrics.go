package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var transferOutcomesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "transfer_outcomes_total",
	Help: "Transfer attempts by outcome code",
}, []string{"code"})

const outcomeSuccess = "Success"
