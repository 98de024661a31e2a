package providers

import "time"

// shutdownTimeout bounds graceful shutdown of long-lived components
// such as the HTTP server.
const shutdownTimeout = 30 * time.Second
