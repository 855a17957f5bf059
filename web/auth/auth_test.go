// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package auth_test

import (
	"testing"

	"github.com/mdhender/tabtxt/web/auth"
)

func TestSessionStore(t *testing.T) {
	store := auth.NewSessionStore()
	session := store.Create(auth.User{Handle: "mdhender"})
	if session.ID == "" {
		t.Fatalf("session ID is empty")
	}

	got := store.Get(session.ID)
	if got == nil {
		t.Fatalf("Get returned nil for a live session")
	}
	if got.User.Handle != "mdhender" {
		t.Fatalf("handle = %q, want %q", got.User.Handle, "mdhender")
	}

	store.Delete(session.ID)
	if store.Get(session.ID) != nil {
		t.Fatalf("Get returned a deleted session")
	}

	if store.Get("no-such-session") != nil {
		t.Fatalf("Get returned a session for an unknown id")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := auth.HashPasswordWithCost("correct horse", auth.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !auth.CheckPassword("correct horse", hash) {
		t.Fatalf("CheckPassword rejected the right password")
	}
	if auth.CheckPassword("battery staple", hash) {
		t.Fatalf("CheckPassword accepted the wrong password")
	}
}
