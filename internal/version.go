package internal

// Version is the application version, overridable at build time via
// -ldflags "-X codeberg.org/snonux/biread/internal.Version=..."
var Version = "0.3.1"
