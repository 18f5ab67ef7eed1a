package main

import (
	"net/http"

	"github.com/miljoverk/samsvar/internal/errors"
	"github.com/miljoverk/samsvar/internal/repositories"
)

// listCriteria serves the criteria dropdown of the upload form.
func (app *application) listCriteria(w http.ResponseWriter, r *http.Request) {
	listings, err := app.criteria.List(r.Context())
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, listings)
}

func (app *application) getCriteria(w http.ResponseWriter, r *http.Request) {
	listing, err := app.criteria.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, repositories.ErrCriteriaNotFound) {
			app.notFound(w, r)
			return
		}
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, listing)
}

// criteriaContext serves the full criteria context: category, issue, criteria, credits,
// guidance and evidence. The frontend shows it as a preview of what the model will be
// instructed with.
func (app *application) criteriaContext(w http.ResponseWriter, r *http.Request) {
	criteriaContext, err := app.criteria.Comprehensive(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, repositories.ErrCriteriaNotFound) {
			app.notFound(w, r)
			return
		}
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, criteriaContext)
}
