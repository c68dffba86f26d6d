package handler

import (
	"errors"
	"net/http"

	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/sweetsalty/backend/internal/domain/order"
	"github.com/sweetsalty/backend/internal/domain/user"
)

// Issue describes a single request validation failure.
type Issue struct {
	Path    string
	Message string
}

// writeJSON encodes a response body with jx and writes it with the given
// status code.
func writeJSON(w http.ResponseWriter, status int, encode func(e *jx.Encoder)) {
	e := &jx.Encoder{}
	encode(e)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(e.Bytes())
}

// writeMessage writes a {"message": ...} body.
func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("message")
		e.Str(message)
		e.ObjEnd()
	})
}

// writeIssues writes a 400 response carrying per-field validation issues.
func writeIssues(w http.ResponseWriter, message string, issues []Issue) {
	writeJSON(w, http.StatusBadRequest, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("message")
		e.Str(message)
		e.FieldStart("issues")
		e.ArrStart()
		for _, iss := range issues {
			e.ObjStart()
			e.FieldStart("path")
			e.Str(iss.Path)
			e.FieldStart("message")
			e.Str(iss.Message)
			e.ObjEnd()
		}
		e.ArrEnd()
		e.ObjEnd()
	})
}

// writeDomainError maps domain errors onto HTTP responses. fallback is the
// generic message used for unexpected failures, which are logged but never
// echoed to the client.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	var notFound *order.ItemNotFoundError
	var badQty *order.InvalidQuantityError
	switch {
	case errors.As(err, &notFound):
		writeMessage(w, http.StatusNotFound, "Item not found")
	case errors.As(err, &badQty):
		writeIssues(w, "Invalid payload", []Issue{{
			Path:    "items",
			Message: "quantity must be a positive integer",
		}})
	case errors.Is(err, order.ErrEmptyItems):
		writeIssues(w, "Invalid payload", []Issue{{
			Path:    "items",
			Message: "at least one item is required",
		}})
	case errors.Is(err, order.ErrNegativeDeliveryFee):
		writeIssues(w, "Invalid payload", []Issue{{
			Path:    "deliveryFee",
			Message: "delivery fee must not be negative",
		}})
	case errors.Is(err, user.ErrEmailTaken):
		writeMessage(w, http.StatusConflict, "An account with this email already exists")
	case errors.Is(err, user.ErrNotFound):
		writeMessage(w, http.StatusNotFound, "User not found")
	default:
		zctx.From(r.Context()).Error("request failed", zap.Error(err))
		writeMessage(w, http.StatusInternalServerError, fallback)
	}
}
