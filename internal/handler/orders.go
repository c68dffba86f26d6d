package handler

import (
	"net/http"

	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/sweetsalty/backend/internal/domain/cart"
	"github.com/sweetsalty/backend/internal/domain/order"
)

func (h *Handler) handlePlaceOrder(w http.ResponseWriter, r *http.Request, userID string) {
	var req orderRequest
	if err := decodeBody(r, req.Decode); err != nil {
		writeIssues(w, "Invalid payload", []Issue{{Message: "malformed JSON body"}})
		return
	}
	if issues := validateRequest(&req); issues != nil {
		writeIssues(w, "Invalid payload", issues)
		return
	}

	lines := make([]order.Line, 0, len(req.Items))
	for _, it := range req.Items {
		lines = append(lines, order.Line{ItemID: it.ItemID, Quantity: it.Quantity})
	}
	placed, err := h.orders.PlaceOrder(r.Context(), order.PlaceOrderRequest{
		UserID:      userID,
		Items:       lines,
		DeliveryFee: req.DeliveryFee,
	})
	if err != nil {
		writeDomainError(w, r, err, "Failed to place order")
		return
	}

	// The order now owns these items; an undeliverable cart wipe only costs
	// the client a stale cart on next load.
	if err := h.carts.Save(r.Context(), userID, &cart.Cart{}); err != nil {
		zctx.From(r.Context()).Warn("clear cart after checkout", zap.Error(err))
	}

	writeJSON(w, http.StatusCreated, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("order")
		encodeOrder(e, *placed)
		e.ObjEnd()
	})
}

func (h *Handler) handleListOrders(w http.ResponseWriter, r *http.Request, userID string) {
	orders, err := h.orders.ListForUser(r.Context(), userID)
	if err != nil {
		writeDomainError(w, r, err, "Failed to load orders")
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("orders")
		e.ArrStart()
		for _, o := range orders {
			encodeOrder(e, o)
		}
		e.ArrEnd()
		e.ObjEnd()
	})
}
