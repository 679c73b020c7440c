package version

// VERSION is the current version of meteofetch.
const VERSION = "0.1.0"
