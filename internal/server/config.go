package server

import "time"

// Config holds server settings
type Config struct {
	Addr string

	// BufferSize is the size of the single read each connection gets. A
	// request must fit in it with room to spare; one that fills it is
	// dropped.
	BufferSize int

	// MaxConnections bounds in-flight connections. Zero spawns one
	// goroutine per connection with no limit.
	MaxConnections int

	// ReadTimeout bounds the wait for the request bytes. Zero waits forever.
	ReadTimeout time.Duration
}

const defaultBufferSize = 4096

// DefaultConfig returns the settings the server uses when nothing is set
func DefaultConfig() Config {
	return Config{
		Addr:       ":4221",
		BufferSize: defaultBufferSize,
	}
}
