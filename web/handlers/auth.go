// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package handlers

import (
	"net/http"

	"github.com/mdhender/tabtxt"
	"github.com/mdhender/tabtxt/web/auth"
	"github.com/mdhender/tabtxt/web/templates"
)

// Login renders the login form on GET and checks credentials on POST.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.loginPage(w, r, "")
	case http.MethodPost:
		h.loginSubmit(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handlers) loginPage(w http.ResponseWriter, r *http.Request, errorMsg string) {
	data := templates.LayoutData{Version: tabtxt.Version().String()}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.LoginPage(errorMsg, data).Render(r.Context(), w); err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *Handlers) loginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.loginPage(w, r, "Invalid form submission")
		return
	}
	handle := r.PostFormValue("handle")
	password := r.PostFormValue("password")

	user, ok := h.store.Authenticate(r.Context(), handle, password)
	if !ok {
		h.loginPage(w, r, "Invalid handle or password")
		return
	}

	isAdmin, _ := h.store.IsUserAdmin(r.Context(), user.Handle)
	session := h.sessions.Create(auth.User{
		Handle:   user.Handle,
		UserName: user.UserName,
		IsAdmin:  isAdmin,
	})
	auth.SetSessionCookie(w, session)

	http.Redirect(w, r, "/datasets", http.StatusSeeOther)
}

// Logout clears the session and returns to the login page.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(auth.SessionCookieName); err == nil {
		h.sessions.Delete(cookie.Value)
	}
	auth.ClearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
