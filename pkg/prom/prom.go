package prom

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"

	"github.com/benitema/card-orders-api/pkg/logger"
)

const (
	SystemHTTP = "http"
)

const (
	MetricRequestsTotal   = "requests_total"
	MetricRequestDuration = "request_duration_seconds"
)

var createLock = &sync.Mutex{}
var namespace = "none"

var MetricSystemEnabled = false

var requestCounters = make(map[string]*prometheus.CounterVec)
var requestHistograms = make(map[string]*prometheus.HistogramVec)

var defaultLabels prometheus.Labels

// Create registers the request metrics. host/env become constant labels
// on everything, matching one scrape target per instance.
func Create(host string, env string, nameSpace string) error {
	defaultLabels = make(prometheus.Labels)
	defaultLabels["env"] = env
	defaultLabels["instance"] = host
	namespace = nameSpace
	MetricSystemEnabled = true

	var err error
	hasError := func(e error) {
		if err == nil && e != nil {
			err = e
		}
	}

	hasError(createCounterVec(SystemHTTP, MetricRequestsTotal, []string{"method", "path", "status"}))
	hasError(createHistogramVec(SystemHTTP, MetricRequestDuration, []string{"method", "path"}))

	return err
}

func createCounterVec(subsystem, name string, labels []string) error {
	createLock.Lock()
	defer createLock.Unlock()
	requestCounters[subsystem+name] = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace:   namespace,
		Subsystem:   subsystem,
		Name:        name,
		ConstLabels: defaultLabels,
	}, labels)
	return prometheus.Register(requestCounters[subsystem+name])
}

func createHistogramVec(subsystem, name string, labels []string) error {
	createLock.Lock()
	defer createLock.Unlock()
	requestHistograms[subsystem+name] = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   namespace,
		Subsystem:   subsystem,
		Name:        name,
		ConstLabels: defaultLabels,
		Buckets:     prometheus.DefBuckets,
	}, labels)
	return prometheus.Register(requestHistograms[subsystem+name])
}

// ObserveRequest records one finished HTTP request.
func ObserveRequest(method, path string, status int, latency time.Duration) {
	if !MetricSystemEnabled {
		return
	}
	if v, ok := requestCounters[SystemHTTP+MetricRequestsTotal]; ok {
		v.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	} else {
		logger.Warn("[metrics] counter not found", "name", MetricRequestsTotal)
	}
	if v, ok := requestHistograms[SystemHTTP+MetricRequestDuration]; ok {
		v.WithLabelValues(method, path).Observe(latency.Seconds())
	}
}

// Handler exposes the prometheus scrape endpoint on the fasthttp engine.
func Handler() fasthttp.RequestHandler {
	return fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
}
