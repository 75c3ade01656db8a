package main

import (
	"net/http"

	"github.com/AdamBeresnev/op-tournament/internal/httputil"
	"github.com/AdamBeresnev/op-tournament/internal/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/markbates/goth/gothic"
)

func (app *application) beginAuth(w http.ResponseWriter, r *http.Request) {
	r = gothic.GetContextWithProvider(r, chi.URLParam(r, "provider"))
	gothic.BeginAuthHandler(w, r)
}

func (app *application) completeAuth(w http.ResponseWriter, r *http.Request) {
	r = gothic.GetContextWithProvider(r, chi.URLParam(r, "provider"))

	gothUser, err := gothic.CompleteUserAuth(w, r)
	if err != nil {
		httputil.BadRequest(w, "Authentication failure", err)
		return
	}

	user, err := app.users.FindOrCreateUserByProvider(r.Context(), gothUser)
	if err != nil {
		httputil.InternalServerError(w, "Failed to find or create user", err)
		return
	}

	if err := app.sessions.RenewToken(r.Context()); err != nil {
		httputil.InternalServerError(w, "Failed to renew session", err)
		return
	}
	app.sessions.Put(r.Context(), middleware.SessionUserKey, user.ID.String())

	http.Redirect(w, r, "/", http.StatusFound)
}

func (app *application) guestLogin(w http.ResponseWriter, r *http.Request) {
	user, err := app.users.EnsureGuestUser(r.Context())
	if err != nil {
		httputil.InternalServerError(w, "Failed to login as guest", err)
		return
	}

	app.sessions.Put(r.Context(), middleware.SessionUserKey, user.ID.String())
	http.Redirect(w, r, "/", http.StatusFound)
}

func (app *application) logout(w http.ResponseWriter, r *http.Request) {
	if err := app.sessions.Destroy(r.Context()); err != nil {
		httputil.InternalServerError(w, "Failed to logout", err)
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}
