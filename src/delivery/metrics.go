package delivery

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	// requests partitioned by route template and status code
	Requests *prometheus.CounterVec
}

func NewMetrics(gen Generator) *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{registry: reg}

	m.Requests = promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
		Name: "hashkit_requests_total",
		Help: "handled requests; partitioned by route and status code",
	}, []string{"route", "code"})

	reg.MustRegister(NewGeneratorCollector(gen))

	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

// unmatchedRoute labels requests mux found no route or method for.
const unmatchedRoute = "unmatched"

// Middleware counts requests that matched a route. mux skips middleware for
// 404 and 405, those are counted by Unmatched.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := "unknown"
		if cur := mux.CurrentRoute(r); cur != nil {
			if tpl, err := cur.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		m.Requests.WithLabelValues(route, strconv.Itoa(rec.code)).Inc()
	})
}

// Unmatched replies with code and counts the request under unmatchedRoute.
func (m *Metrics) Unmatched(code int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, http.StatusText(code), code)
		m.Requests.WithLabelValues(unmatchedRoute, strconv.Itoa(code)).Inc()
	})
}

// GeneratorCollector exports generator counters at scrape time.
type GeneratorCollector struct {
	gen     Generator
	draws   *prometheus.Desc
	reseeds *prometheus.Desc
}

var _ prometheus.Collector = &GeneratorCollector{}

func NewGeneratorCollector(gen Generator) *GeneratorCollector {
	return &GeneratorCollector{
		gen: gen,
		draws: prometheus.NewDesc(
			"hashkit_generator_draws_total",
			"64 bit values drawn from the generator",
			nil, nil,
		),
		reseeds: prometheus.NewDesc(
			"hashkit_generator_reseeds_total",
			"generator reseeds, automatic and requested",
			nil, nil,
		),
	}
}

func (c *GeneratorCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.draws
	ch <- c.reseeds
}

func (c *GeneratorCollector) Collect(ch chan<- prometheus.Metric) {
	st := c.gen.Stats()
	ch <- prometheus.MustNewConstMetric(c.draws, prometheus.CounterValue, float64(st.Draws))
	ch <- prometheus.MustNewConstMetric(c.reseeds, prometheus.CounterValue, float64(st.Reseeds))
}

// NewRouter wires the API routes, the metrics middleware and /metrics.
func NewRouter(h *Handler, m *Metrics) *mux.Router {
	router := mux.NewRouter()
	router.Use(m.Middleware)
	router.NotFoundHandler = m.Unmatched(http.StatusNotFound)
	router.MethodNotAllowedHandler = m.Unmatched(http.StatusMethodNotAllowed)
	h.RegisterRoutes(router)
	router.Handle("/metrics", m.Handler()).Methods("GET")

	return router
}
