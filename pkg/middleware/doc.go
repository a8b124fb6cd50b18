// Package middleware provides HTTP middleware for the form server.
//
// # OpenTelemetry
//
// OpenTelemetry starts a server span per request, named after the matched
// chi route pattern so span names stay low cardinality:
//
//	r := chi.NewRouter()
//	r.Use(middleware.OpenTelemetry(
//	    middleware.WithTracerName("signup"),
//	    middleware.WithFilter(func(r *http.Request) bool {
//	        return r.URL.Path != "/metrics"
//	    }),
//	))
//
// The tracer comes from the global provider unless WithTracer is given.
// Configure the provider in main() before serving.
//
// # Prometheus Metrics
//
// Prometheus counts requests and observes their duration by route,
// method and status:
//   - signup_http_requests_total
//   - signup_http_request_duration_seconds
//   - signup_http_requests_in_flight
//
//	reg := prometheus.NewRegistry()
//	r.Use(middleware.Prometheus(middleware.WithRegistry(reg)))
//	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
package middleware
