package metrics

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bnb-chain/da-syncer/logging"
)

var (
	ProcessedBlockGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "processed_block_number",
		Help: "Block number of the latest acknowledged notification tip.",
	})

	BatchConfirmedEventCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "batch_confirmed_events_total",
		Help: "Number of BatchConfirmed events extracted from committed blocks.",
	})

	RetrievedBlobCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "retrieved_blobs_total",
		Help: "Number of blobs retrieved from the disperser.",
	})

	RetrievedBlobBytesCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "retrieved_blob_bytes_total",
		Help: "Unpadded bytes of blobs retrieved from the disperser.",
	})

	// BatchAbortedCounter counts batches whose lookup ended on an error other than blob not found.
	BatchAbortedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "batch_aborted_total",
		Help: "Number of batches whose blob lookup ended on an unexpected disperser error.",
	})

	MetricsItems = []prometheus.Collector{
		ProcessedBlockGauge,
		BatchConfirmedEventCounter,
		RetrievedBlobCounter,
		RetrievedBlobBytesCounter,
		BatchAbortedCounter,
	}
)

type Metrics struct {
	httpAddress string
	registry    *prometheus.Registry
	httpServer  *http.Server
}

func NewMetrics(address string) *Metrics {
	return &Metrics{
		httpAddress: address,
		registry:    prometheus.NewRegistry(),
	}
}

func (m *Metrics) Start() {
	m.registry.MustRegister(MetricsItems...)
	go m.serve()
}

func (m *Metrics) Handler() http.Handler {
	router := mux.NewRouter()
	router.Path("/metrics").Handler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
	return router
}

func (m *Metrics) serve() {
	m.httpServer = &http.Server{
		Addr:    m.httpAddress,
		Handler: m.Handler(),
	}
	if err := m.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logging.Logger.Errorf("failed to listen and serve metrics, err=%s", err.Error())
		panic(err)
	}
}
