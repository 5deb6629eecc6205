package health

import (
	"encoding/json"
	"net/http"
	"runtime"
)

// VersionInfo contains build information.
type VersionInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
}

// LivenessHandler answers the liveness probe with 200 and a JSON status.
func (c *Checker) LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		writeStatus(w, r, http.StatusOK, c.CheckLiveness(r.Context()))
	}
}

// ReadinessHandler runs every check and answers 200 when all pass, 503
// otherwise.
//
//	{
//	    "status": "degraded",
//	    "checks": {
//	        "cache": {"status": "ok", "duration_ms": 412000},
//	        "poi": {"status": "unhealthy", "message": "poi service unhealthy: 3 consecutive failures"}
//	    },
//	    "timestamp": "2026-03-02T10:30:00Z"
//	}
func (c *Checker) ReadinessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		status := c.CheckReadiness(r.Context())

		code := http.StatusOK
		if !status.Ready() {
			code = http.StatusServiceUnavailable
		}
		writeStatus(w, r, code, status)
	}
}

// VersionHandler answers with the build information.
func VersionHandler(version, commit, buildTime string) http.HandlerFunc {
	info := VersionInfo{
		Version:   version,
		Commit:    commit,
		BuildTime: buildTime,
		GoVersion: runtime.Version(),
	}

	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		writeStatus(w, r, http.StatusOK, info)
	}
}

// Mount registers the liveness, readiness and version endpoints on mux.
func (c *Checker) Mount(mux *http.ServeMux, livenessPath, readinessPath string, info VersionInfo) {
	mux.HandleFunc(livenessPath, c.LivenessHandler())
	mux.HandleFunc(readinessPath, c.ReadinessHandler())
	mux.HandleFunc("/version", VersionHandler(info.Version, info.Commit, info.BuildTime))
}

func writeStatus(w http.ResponseWriter, r *http.Request, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if r.Method != http.MethodHead {
		_ = json.NewEncoder(w).Encode(body)
	}
}
