package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ConfigurationsStored tracks the number of stored configurations
	ConfigurationsStored = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "chaos_manager_configurations_stored",
		Help: "Number of configurations currently in the store",
	})

	// ConfigSaves tracks configuration save operations
	ConfigSaves = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chaos_manager_config_saves_total",
		Help: "Total number of configuration saves",
	})

	// ConfigDeletes tracks configuration delete operations
	ConfigDeletes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chaos_manager_config_deletes_total",
		Help: "Total number of configuration deletes",
	})

	// PersistFailures tracks failed writes to the durable store
	PersistFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chaos_manager_persist_failures_total",
		Help: "Total number of failed writes to the durable configuration store",
	})

	// RedirectsServed tracks successful redirects by protocol
	RedirectsServed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chaos_manager_redirects_served_total",
		Help: "Total number of redirects served to players",
	}, []string{"protocol"})

	// RedirectErrors tracks failed redirect resolutions by reason
	RedirectErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chaos_manager_redirect_errors_total",
		Help: "Total number of failed redirect resolutions",
	}, []string{"reason"})

	// InstanceCommands tracks external chaos CLI invocations
	InstanceCommands = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chaos_manager_instance_commands_total",
		Help: "Total number of chaos proxy instance CLI commands",
	}, []string{"command", "outcome"})

	// ProbeChecks tracks URL liveness probes by outcome
	ProbeChecks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chaos_manager_probe_checks_total",
		Help: "Total number of source URL liveness probes",
	}, []string{"outcome"})
)

// Redirect error reasons
const (
	RedirectErrorBadExtension = "bad_extension"
	RedirectErrorNotFound     = "not_found"
	RedirectErrorGeneration   = "generation"
)

// SetConfigurationsStored updates the stored-configurations gauge
func SetConfigurationsStored(count int) {
	ConfigurationsStored.Set(float64(count))
}

// RecordInstanceCommand records one chaos CLI invocation and its outcome
func RecordInstanceCommand(command string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	InstanceCommands.WithLabelValues(command, outcome).Inc()
}

// RecordProbe records one liveness probe result
func RecordProbe(reachable bool) {
	outcome := "unreachable"
	if reachable {
		outcome = "reachable"
	}
	ProbeChecks.WithLabelValues(outcome).Inc()
}
