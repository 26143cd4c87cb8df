package config

const (
	DefaultLogLevel       = "info"
	DefaultSnapshotFormat = SnapshotYAML
	DefaultTreeID         = "app"
)

// DefaultConfig returns a Config with all default values set.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:       DefaultLogLevel,
		SnapshotFormat: DefaultSnapshotFormat,
	}
}
