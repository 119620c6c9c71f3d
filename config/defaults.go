package config

// DefaultConfig is written to saturn.yaml on first run. query-window is
// the margin used by `now` and notify lookups; use-24h-time disables
// meridiem inference on bare clock tokens.
var DefaultConfig string = `
use-24h-time: false
query-window: 1h
db-file: ""

logging:
  console-level: 5
  file-level: -1
`
