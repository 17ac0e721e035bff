package commands

import (
	"net/http"

	"wfsim/internal/config"
	"wfsim/internal/logging"
	"wfsim/internal/mcp"
	"wfsim/internal/metrics"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose     bool
	metricsAddr string
	cfg         *config.AppConfig
)

var rootCmd = &cobra.Command{
	Use:   "wfsim",
	Short: "wfsim is a workforce simulation MCP server",
	Long: `A statistical simulation MCP Server for workforce planning: day-stepped
productivity variance (autocorrelation, temporal patterns, disruption factors)
and backlog propagation with rule-driven triage, plus Monte Carlo batching.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(verbose)

		var err error
		cfg, err = config.Load()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}

		log.Info().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Msg("wfsim starting")
	},
	Run: func(cmd *cobra.Command, args []string) {
		if metricsAddr != "" {
			go serveMetrics(metricsAddr)
		}

		log.Info().Msg("MCP Server starting Stdio loop")
		server := mcp.NewServer(cfg)
		if err := server.Serve(); err != nil {
			log.Fatal().Err(err).Msg("Stdio loop terminated")
		}
	},
}

// serveMetrics exposes the custom registry on /metrics. The MCP transport
// owns stdin/stdout, so observability gets its own listener.
func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
	log.Info().Str("addr", addr).Msg("Metrics listener starting")
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Error().Err(err).Msg("Metrics listener terminated")
	}
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "optional address for the Prometheus /metrics listener (e.g. :9090)")
}
