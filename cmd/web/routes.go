package main

import (
	"net/http"

	"github.com/justinas/alice"
)

func (app *application) routes() http.Handler {
	mux := http.NewServeMux()

	fileServer := http.FileServer(http.Dir(app.mediaRoot))
	mux.Handle("GET /media/", http.StripPrefix("/media", fileServer))

	mux.HandleFunc("GET /api/healthy", app.healthy)
	mux.HandleFunc("GET /api/audit-criteria", app.listCriteria)
	mux.HandleFunc("GET /api/audit-criteria/{id}", app.getCriteria)
	mux.HandleFunc("GET /api/process-criteria-data/{id}", app.criteriaContext)
	mux.HandleFunc("POST /api/upload", app.upload)
	mux.HandleFunc("GET /api/task-status/{id}", app.taskStatus)

	standard := alice.New(app.recoverPanic, app.logRequest, secureHeaders)

	return standard.Then(mux)
}
