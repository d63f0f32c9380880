package handlers

import "net/http"

// Health is the liveness probe.
func Health(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, map[string]string{"status": "ok"}, http.StatusOK)
}
