package logging

// Event identifies a type of operational event
type Event string

// Event constants identify the operational events this service reports
const (
	EventStoreLoaded     Event = "store_loaded"      // EventStoreLoaded indicates the configuration store finished loading
	EventPersistFailure  Event = "persist_failure"   // EventPersistFailure indicates a durable write failed
	EventRedirectServed  Event = "redirect_served"   // EventRedirectServed indicates a player was redirected to a proxy URL
	EventInstanceCommand Event = "instance_command"  // EventInstanceCommand indicates an external chaos CLI invocation
)

// LogStoreLoaded logs a completed startup load of the configuration store (INFO level)
func (l *Logger) LogStoreLoaded(count int, path string) {
	l.Info("Configuration store loaded", map[string]interface{}{
		"event": EventStoreLoaded,
		"count": count,
		"path":  path,
	})
}

// LogPersistFailure logs a failed durable write (ERROR level). The in-memory
// state is ahead of the durable state when this fires.
func (l *Logger) LogPersistFailure(path string, err error) {
	l.Error("Failed to persist configuration store", map[string]interface{}{
		"event": EventPersistFailure,
		"path":  path,
		"error": err.Error(),
	})
}

// LogRedirectServed logs a resolved redirect (DEBUG level)
func (l *Logger) LogRedirectServed(name, protocol, destination string) {
	l.Debug("Redirect served", map[string]interface{}{
		"event":       EventRedirectServed,
		"name":        name,
		"protocol":    protocol,
		"destination": destination,
	})
}

// LogInstanceCommand logs an external chaos CLI invocation (INFO level, ERROR on failure)
func (l *Logger) LogInstanceCommand(command, name string, err error) {
	fields := map[string]interface{}{
		"event":   EventInstanceCommand,
		"command": command,
	}
	if name != "" {
		fields["name"] = name
	}
	if err != nil {
		fields["error"] = err.Error()
		l.Error("Chaos CLI command failed", fields)
		return
	}
	l.Info("Chaos CLI command completed", fields)
}
