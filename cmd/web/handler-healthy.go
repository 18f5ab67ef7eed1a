package main

import "net/http"

// healthy answers liveness probes. It deliberately touches no dependency: a database or
// model outage must not make the deployment restart loop.
func (app *application) healthy(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok","service":"samsvar"}`))
}
