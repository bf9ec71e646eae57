// Package metrics exposes Prometheus metrics on a dedicated listener.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type BuildInfo struct {
	Version   string
	Revision  string
	Branch    string
	BuildDate string
}

type Config struct {
	Enabled bool
	Addr    string
	Path    string
	Build   BuildInfo
}

// Provider owns a private registry for build metadata and serves it together
// with the default registry, where the Go/process collectors and the
// service counters live.
type Provider struct {
	reg       *prometheus.Registry
	buildInfo *prometheus.GaugeVec
	gatherers prometheus.Gatherers
}

func Init(cfg Config) *Provider {
	reg := prometheus.NewRegistry()

	build := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "meshcode_build_info",
			Help: "Build info for this binary (value is always 1).",
		},
		[]string{"version", "revision", "branch", "build_date"},
	)
	reg.MustRegister(build)
	v := cfg.Build
	if v.Version == "" {
		v.Version = "dev"
	}
	build.WithLabelValues(v.Version, v.Revision, v.Branch, v.BuildDate).Set(1)

	return &Provider{
		reg:       reg,
		buildInfo: build,
		gatherers: prometheus.Gatherers{reg, prometheus.DefaultGatherer},
	}
}

func (p *Provider) Handler() http.Handler {
	return promhttp.HandlerFor(p.gatherers, promhttp.HandlerOpts{})
}

func (p *Provider) Register(cs ...prometheus.Collector) {
	for _, c := range cs {
		p.reg.MustRegister(c)
	}
}
