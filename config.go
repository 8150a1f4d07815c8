package rowtrack

import "time"

// Config represents configuration for the tracking client
type Config struct {
	MaxRetries    int           // Maximum number of retries for backend calls (default: 3)
	RetryInterval time.Duration // Base interval between retries for exponential backoff (default: 1s)
}
