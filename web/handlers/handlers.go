// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package handlers

import (
	"log"
	"net/http"

	"github.com/mdhender/tabtxt"
	store "github.com/mdhender/tabtxt/stores/sqlite"
	"github.com/mdhender/tabtxt/web/auth"
	"github.com/mdhender/tabtxt/web/templates"
)

// Handlers holds dependencies for HTTP handlers.
type Handlers struct {
	store        *store.Store
	sessions     *auth.SessionStore
	dataDir      string
	autoAuthUser *auth.User
}

// New creates a new Handlers with the given store and session store.
// dataDir is where uploaded files are written.
func New(s *store.Store, sessions *auth.SessionStore, dataDir string) *Handlers {
	return &Handlers{store: s, sessions: sessions, dataDir: dataDir}
}

// getLayoutData returns layout data for the current session.
func (h *Handlers) getLayoutData(r *http.Request, session *auth.Session) templates.LayoutData {
	var data templates.LayoutData
	data.CurrentPath = r.URL.Path
	data.Version = tabtxt.Version().String()

	if session == nil {
		return data
	}

	data.UserHandle = session.User.Handle

	isAdmin, err := h.store.IsUserAdmin(r.Context(), session.User.Handle)
	if err != nil {
		log.Printf("warning: failed to check admin role: %v", err)
		return data
	}
	data.IsAdmin = isAdmin

	return data
}

// requireSession fetches the session or redirects to the login page.
// Returns nil after redirecting.
func (h *Handlers) requireSession(w http.ResponseWriter, r *http.Request) *auth.Session {
	session := auth.GetSessionFromRequest(r, h.sessions)
	if session == nil && h.autoAuthUser != nil {
		session = h.sessions.Create(*h.autoAuthUser)
		auth.SetSessionCookie(w, session)
	}
	if session == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return nil
	}
	return session
}

// Store returns the underlying SQLite store.
func (h *Handlers) Store() *store.Store {
	return h.store
}

// Sessions returns the session store.
func (h *Handlers) Sessions() *auth.SessionStore {
	return h.sessions
}

// SetAutoAuth configures automatic authentication for testing.
func (h *Handlers) SetAutoAuth(handle string, isAdmin bool) {
	h.autoAuthUser = &auth.User{
		Handle:   handle,
		UserName: handle,
		IsAdmin:  isAdmin,
	}
}

// Routes registers all handlers on a mux.
func (h *Handlers) Routes(mux *http.ServeMux) {
	mux.HandleFunc("/", h.Index)
	mux.HandleFunc("/login", h.Login)
	mux.HandleFunc("/logout", h.Logout)
	mux.HandleFunc("/datasets", h.Datasets)
	mux.HandleFunc("/datasets/", h.Dataset)
	mux.HandleFunc("/upload", h.Upload)
	mux.HandleFunc("/stats", h.Stats)
}
