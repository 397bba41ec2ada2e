package config

// Base application details
const AppName = "tide-indent"
const DefaultConfigFileName = "config.toml"
const DefaultLogFileName = "tide-indent.log"

const DefaultTabWidth = 4

// DefaultScanLimit of zero defers to each grammar's own limit.
const DefaultScanLimit = 0
