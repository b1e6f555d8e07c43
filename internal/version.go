package internal

// Version is the current swarsense release.
const Version = "0.3.0"
