// Package server implements rolod, the reference contact API the rolo client
// talks to.
package server

import (
	"io"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
)

// NewRouter mounts probes, metrics and the huma API on a fresh mux and applies
// opts to the API root.
func NewRouter(
	title, version string,
	readiness http.HandlerFunc,
	writeMetrics func(io.Writer),
	opts ...func(huma.API),
) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /liveness", func(http.ResponseWriter, *http.Request) {})
	mux.HandleFunc("GET /readiness", readiness)
	mux.HandleFunc("GET /metrics", func(w http.ResponseWriter, _ *http.Request) { writeMetrics(w) })

	api := humago.New(mux, huma.DefaultConfig(title, version))
	for _, opt := range opts {
		opt(api)
	}
	return mux
}

// OptUseMiddleware installs middlewares in order, outermost first.
func OptUseMiddleware(middlewares ...func(huma.Context, func(huma.Context))) func(huma.API) {
	return func(api huma.API) { api.UseMiddleware(middlewares...) }
}

// OptGroup applies opts to a group mounted at prefix.
func OptGroup(prefix string, opts ...func(huma.API)) func(huma.API) {
	return func(api huma.API) {
		grp := huma.NewGroup(api, prefix)
		for _, opt := range opts {
			opt(grp)
		}
	}
}

// OptAutoRegister registers every RegisterX method of server.
func OptAutoRegister(server any) func(huma.API) {
	return func(api huma.API) { huma.AutoRegister(api, server) }
}
