package handler

import (
	"errors"
	"net/http"

	"github.com/go-faster/jx"

	"github.com/sweetsalty/backend/internal/domain/catalog"
)

func (h *Handler) handleMenu(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		writeDomainError(w, r, err, "Failed to load menu")
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("categories")
		e.ArrStart()
		for _, c := range categories {
			h.encodeCategory(e, c)
		}
		e.ArrEnd()
		e.ObjEnd()
	})
}

func (h *Handler) handleCategory(w http.ResponseWriter, r *http.Request) {
	c, err := h.catalog.GetCategory(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeMessage(w, http.StatusNotFound, "Category not found")
			return
		}
		writeDomainError(w, r, err, "Failed to load category")
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		h.encodeCategory(e, *c)
	})
}

func (h *Handler) handleMenuItem(w http.ResponseWriter, r *http.Request) {
	it, err := h.catalog.GetItem(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeMessage(w, http.StatusNotFound, "Item not found")
			return
		}
		writeDomainError(w, r, err, "Failed to load item")
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		h.encodeMenuItem(e, *it)
	})
}

func (h *Handler) handleOffers(w http.ResponseWriter, r *http.Request) {
	offers, err := h.catalog.ListOffers(r.Context())
	if err != nil {
		writeDomainError(w, r, err, "Failed to load offers")
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("offers")
		e.ArrStart()
		for _, o := range offers {
			h.encodeOffer(e, o)
		}
		e.ArrEnd()
		e.ObjEnd()
	})
}
