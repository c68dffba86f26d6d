package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-faster/jx"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/sweetsalty/backend/internal/domain/user"
)

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeBody(r, req.Decode); err != nil {
		writeIssues(w, "Invalid payload", []Issue{{Message: "malformed JSON body"}})
		return
	}
	if issues := validateRequest(&req); issues != nil {
		writeIssues(w, "Invalid payload", issues)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeDomainError(w, r, err, "Failed to register")
		return
	}

	prefs := user.DefaultPreferences()
	if req.Language != "" {
		prefs.Language = user.Locale(req.Language)
	}
	profile := user.Profile{
		ID:            uuid.NewString(),
		Email:         strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash:  string(hash),
		Name:          req.Name,
		Phone:         req.Phone,
		Language:      prefs.Language,
		Notifications: prefs.Notifications,
	}
	if err := h.users.Create(r.Context(), &profile); err != nil {
		writeDomainError(w, r, err, "Failed to register")
		return
	}

	// No session is issued here; the client logs in with the new credentials.
	writeJSON(w, http.StatusCreated, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("id")
		e.Str(profile.ID)
		e.FieldStart("email")
		e.Str(profile.Email)
		e.FieldStart("name")
		e.Str(profile.Name)
		e.ObjEnd()
	})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, req.Decode); err != nil {
		writeIssues(w, "Invalid payload", []Issue{{Message: "malformed JSON body"}})
		return
	}
	if issues := validateRequest(&req); issues != nil {
		writeIssues(w, "Invalid payload", issues)
		return
	}

	profile, err := h.users.FindByEmail(r.Context(), strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		// Do not reveal whether the account exists.
		writeMessage(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(req.Password)) != nil {
		writeMessage(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := h.sessions.Issue(r.Context(), profile.ID)
	if err != nil {
		writeDomainError(w, r, err, "Failed to log in")
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("token")
		e.Str(token)
		e.FieldStart("user")
		encodeProfile(e, profile)
		e.ObjEnd()
	})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request, _ string) {
	if err := h.sessions.Revoke(r.Context(), bearerToken(r)); err != nil {
		writeDomainError(w, r, err, "Failed to log out")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleReset checks whether the account exists and acknowledges the reset
// request. Delivery of the reset email is out of scope; the found flag
// mirrors the lookup result.
func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if err := decodeBody(r, req.Decode); err != nil {
		writeIssues(w, "Invalid payload", []Issue{{Message: "malformed JSON body"}})
		return
	}
	if issues := validateRequest(&req); issues != nil {
		writeIssues(w, "Invalid payload", issues)
		return
	}

	found := true
	if _, err := h.users.FindByEmail(r.Context(), strings.ToLower(strings.TrimSpace(req.Email))); err != nil {
		if !errors.Is(err, user.ErrNotFound) {
			writeDomainError(w, r, err, "Failed to process reset request")
			return
		}
		found = false
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("found")
		e.Bool(found)
		e.FieldStart("message")
		e.Str("If the account exists, reset instructions have been sent")
		e.ObjEnd()
	})
}
