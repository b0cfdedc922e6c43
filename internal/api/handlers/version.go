package handlers

import "net/http"

// Version is set at build time via -ldflags; it defaults to "dev" for
// local builds.
var Version = "dev"

// VersionHandler implements GET /version: a bare semver string, no JSON
// envelope.
func VersionHandler(w http.ResponseWriter, r *http.Request) {
	_, _ = w.Write([]byte(Version))
}
