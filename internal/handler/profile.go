package handler

import (
	"net/http"

	"github.com/go-faster/jx"

	"github.com/sweetsalty/backend/internal/domain/user"
)

func (h *Handler) handleProfileGet(w http.ResponseWriter, r *http.Request, userID string) {
	profile, err := h.users.FindByID(r.Context(), userID)
	if err != nil {
		writeDomainError(w, r, err, "Failed to load profile")
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		encodeProfile(e, profile)
	})
}

func (h *Handler) handleProfileUpdate(w http.ResponseWriter, r *http.Request, userID string) {
	var req profileRequest
	if err := decodeBody(r, req.Decode); err != nil {
		writeIssues(w, "Invalid payload", []Issue{{Message: "malformed JSON body"}})
		return
	}
	issues := validateRequest(&req)
	if !req.notifSeen {
		issues = append(issues, Issue{Path: "notifications", Message: "is required"})
	}
	if issues != nil {
		writeIssues(w, "Invalid payload", issues)
		return
	}

	profile, err := h.users.FindByID(r.Context(), userID)
	if err != nil {
		writeDomainError(w, r, err, "Failed to update profile")
		return
	}
	profile.Name = req.Name
	profile.Language = user.Locale(req.Language)
	profile.Notifications = req.Notifications
	if req.phoneSeen {
		profile.Phone = req.Phone
	}
	if req.addressSeen {
		profile.Address = req.Address
	}
	if err := h.users.Update(r.Context(), profile); err != nil {
		writeDomainError(w, r, err, "Failed to update profile")
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		encodeProfile(e, profile)
	})
}

func (h *Handler) handlePreferencesGet(w http.ResponseWriter, r *http.Request, userID string) {
	profile, err := h.users.FindByID(r.Context(), userID)
	if err != nil {
		writeDomainError(w, r, err, "Failed to load preferences")
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		encodePreferences(e, profile.Preferences())
	})
}

func (h *Handler) handlePreferencesUpdate(w http.ResponseWriter, r *http.Request, userID string) {
	var req preferencesRequest
	if err := decodeBody(r, req.Decode); err != nil {
		writeIssues(w, "Invalid payload", []Issue{{Message: "malformed JSON body"}})
		return
	}
	issues := validateRequest(&req)
	if !req.notifSeen {
		issues = append(issues, Issue{Path: "notifications", Message: "is required"})
	}
	if issues != nil {
		writeIssues(w, "Invalid payload", issues)
		return
	}

	profile, err := h.users.FindByID(r.Context(), userID)
	if err != nil {
		writeDomainError(w, r, err, "Failed to update preferences")
		return
	}
	profile.Language = user.Locale(req.Language)
	profile.Notifications = req.Notifications
	if err := h.users.Update(r.Context(), profile); err != nil {
		writeDomainError(w, r, err, "Failed to update preferences")
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		encodePreferences(e, profile.Preferences())
	})
}
