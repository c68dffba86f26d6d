package handler

import (
	"net/http"

	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/sweetsalty/backend/internal/domain/cart"
	"github.com/sweetsalty/backend/internal/domain/order"
)

func (h *Handler) handleCartGet(w http.ResponseWriter, r *http.Request, userID string) {
	c, err := h.carts.Load(r.Context(), userID)
	if err != nil {
		writeDomainError(w, r, err, "Failed to load cart")
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		encodeCart(e, c)
	})
}

// handleCartPut replaces the stored cart wholesale. Entries are normalized
// before saving, so duplicates merge and non-positive quantities drop out.
func (h *Handler) handleCartPut(w http.ResponseWriter, r *http.Request, userID string) {
	var req cartRequest
	if err := decodeBody(r, req.Decode); err != nil {
		writeIssues(w, "Invalid payload", []Issue{{Message: "malformed JSON body"}})
		return
	}
	if issues := validateRequest(&req); issues != nil {
		writeIssues(w, "Invalid payload", issues)
		return
	}

	c := &cart.Cart{}
	for _, it := range req.Items {
		c.Entries = append(c.Entries, cart.Entry{ItemID: it.ItemID, Quantity: it.Quantity})
	}
	c.Normalize()

	if err := h.carts.Save(r.Context(), userID, c); err != nil {
		writeDomainError(w, r, err, "Failed to save cart")
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		encodeCart(e, c)
	})
}

type previewRequest struct {
	Items       []orderItemRequest `json:"items" validate:"omitempty,dive"`
	DeliveryFee decimal.Decimal    `json:"deliveryFee"`

	itemsSeen bool
}

func (req *previewRequest) Decode(d *jx.Decoder) error {
	return d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "items":
			req.itemsSeen = true
			return d.Arr(func(d *jx.Decoder) error {
				var it orderItemRequest
				if err := d.Obj(func(d *jx.Decoder, key string) error {
					var err error
					switch key {
					case "itemId":
						it.ItemID, err = d.Str()
					case "quantity":
						it.Quantity, err = d.Int()
					default:
						err = d.Skip()
					}
					return err
				}); err != nil {
					return err
				}
				req.Items = append(req.Items, it)
				return nil
			})
		case "deliveryFee":
			f, err := d.Float64()
			if err != nil {
				return err
			}
			req.DeliveryFee = decimal.NewFromFloat(f)
			return nil
		default:
			return d.Skip()
		}
	})
}

// handleCartPreview prices a set of lines without placing an order. Lines
// come from the request body when an items array is present, otherwise from
// the stored cart. The quote goes through the same pricing path as checkout,
// so the totals shown here match what a subsequent order would persist.
func (h *Handler) handleCartPreview(w http.ResponseWriter, r *http.Request, userID string) {
	var req previewRequest
	if err := decodeBody(r, func(d *jx.Decoder) error {
		if d.Next() == jx.Invalid {
			// An empty body previews the stored cart with a zero delivery fee.
			return nil
		}
		return req.Decode(d)
	}); err != nil {
		writeIssues(w, "Invalid payload", []Issue{{Message: "malformed JSON body"}})
		return
	}
	if issues := validateRequest(&req); issues != nil {
		writeIssues(w, "Invalid payload", issues)
		return
	}

	var lines []order.Line
	if req.itemsSeen {
		lines = make([]order.Line, 0, len(req.Items))
		for _, it := range req.Items {
			lines = append(lines, order.Line{ItemID: it.ItemID, Quantity: it.Quantity})
		}
	} else {
		c, err := h.carts.Load(r.Context(), userID)
		if err != nil {
			writeDomainError(w, r, err, "Failed to load cart")
			return
		}
		lines = make([]order.Line, 0, len(c.Entries))
		for _, entry := range c.Entries {
			lines = append(lines, order.Line{ItemID: entry.ItemID, Quantity: entry.Quantity})
		}
	}

	quote, err := h.orders.Quote(r.Context(), lines, req.DeliveryFee)
	if err != nil {
		writeDomainError(w, r, err, "Failed to price cart")
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		encodeQuote(e, quote)
	})
}
