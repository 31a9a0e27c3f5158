package version

// Version is the service version reported by the health endpoint.
const Version = "0.1.0"
