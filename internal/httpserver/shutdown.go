package httpserver

import "time"

// ShutdownTimeout controls how long in-flight requests, uploads included, may
// run after a shutdown signal.
var ShutdownTimeout = 15 * time.Second
