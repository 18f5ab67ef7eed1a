package main

import (
	"net/http"
)

// taskStatus lets clients poll the outcome of an upload. Finished tasks are evicted
// after their TTL, after which this reports not found.
func (app *application) taskStatus(w http.ResponseWriter, r *http.Request) {
	task, ok := app.tasks.Get(r.PathValue("id"))
	if !ok {
		app.notFound(w, r)
		return
	}
	app.writeJSON(w, r, http.StatusOK, task)
}
