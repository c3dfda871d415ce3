package cli

import "os"

// Config holds CLI configuration
type Config struct {
	AgentURL string
	Output   string
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		AgentURL: getEnvOrDefault("PARITYAGENT_URL", "http://localhost:8101"),
		Output:   "text",
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
