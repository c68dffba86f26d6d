package handler

import (
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/sweetsalty/backend/internal/domain/cart"
	"github.com/sweetsalty/backend/internal/domain/catalog"
	"github.com/sweetsalty/backend/internal/domain/order"
	"github.com/sweetsalty/backend/internal/domain/user"
)

// encodeMoney writes a decimal as a JSON number with two fraction digits.
func encodeMoney(e *jx.Encoder, v decimal.Decimal) {
	e.Num(jx.Num(v.StringFixed(2)))
}

func encodeLocalized(e *jx.Encoder, s catalog.LocalizedString) {
	e.ObjStart()
	e.FieldStart("en")
	e.Str(s.EN)
	e.FieldStart("ar")
	e.Str(s.AR)
	e.ObjEnd()
}

func (h *Handler) encodeMenuItem(e *jx.Encoder, it catalog.MenuItem) {
	e.ObjStart()
	e.FieldStart("id")
	e.Str(it.ID)
	e.FieldStart("name")
	encodeLocalized(e, it.Name)
	e.FieldStart("description")
	encodeLocalized(e, it.Description)
	e.FieldStart("price")
	encodeMoney(e, it.Price)
	e.FieldStart("discount")
	e.Int(it.Discount)
	e.FieldStart("effectivePrice")
	encodeMoney(e, it.EffectivePrice())
	e.FieldStart("ingredients")
	e.ArrStart()
	for _, ing := range it.Ingredients {
		encodeLocalized(e, ing)
	}
	e.ArrEnd()
	e.FieldStart("image")
	e.Str(h.resolveImage(it.Image))
	e.FieldStart("mostOrdered")
	e.Bool(it.MostOrdered)
	e.ObjEnd()
}

func (h *Handler) encodeCategory(e *jx.Encoder, c catalog.Category) {
	e.ObjStart()
	e.FieldStart("id")
	e.Str(c.ID)
	e.FieldStart("name")
	encodeLocalized(e, c.Name)
	e.FieldStart("description")
	encodeLocalized(e, c.Description)
	e.FieldStart("items")
	e.ArrStart()
	for _, it := range c.Items {
		h.encodeMenuItem(e, it)
	}
	e.ArrEnd()
	e.ObjEnd()
}

func (h *Handler) encodeOffer(e *jx.Encoder, o catalog.Offer) {
	e.ObjStart()
	e.FieldStart("id")
	e.Str(o.ID)
	e.FieldStart("title")
	encodeLocalized(e, o.Title)
	e.FieldStart("description")
	encodeLocalized(e, o.Description)
	e.FieldStart("image")
	e.Str(h.resolveImage(o.Image))
	e.ObjEnd()
}

func encodeCart(e *jx.Encoder, c *cart.Cart) {
	e.ObjStart()
	e.FieldStart("items")
	e.ArrStart()
	for _, entry := range c.Entries {
		e.ObjStart()
		e.FieldStart("itemId")
		e.Str(entry.ItemID)
		e.FieldStart("quantity")
		e.Int(entry.Quantity)
		e.ObjEnd()
	}
	e.ArrEnd()
	e.ObjEnd()
}

func encodeQuote(e *jx.Encoder, q *order.Quote) {
	e.ObjStart()
	e.FieldStart("items")
	e.ArrStart()
	for _, line := range q.Lines {
		e.ObjStart()
		e.FieldStart("itemId")
		e.Str(line.Item.ID)
		e.FieldStart("name")
		encodeLocalized(e, line.Item.Name)
		e.FieldStart("quantity")
		e.Int(line.Quantity)
		e.FieldStart("unitPrice")
		encodeMoney(e, line.UnitPrice)
		e.FieldStart("lineTotal")
		encodeMoney(e, line.LineTotal)
		e.ObjEnd()
	}
	e.ArrEnd()
	e.FieldStart("subtotal")
	encodeMoney(e, q.Subtotal)
	e.FieldStart("deliveryFee")
	encodeMoney(e, q.DeliveryFee)
	e.FieldStart("total")
	encodeMoney(e, q.Total)
	e.ObjEnd()
}

func encodeOrder(e *jx.Encoder, o order.Order) {
	e.ObjStart()
	e.FieldStart("id")
	e.Str(o.ID)
	e.FieldStart("status")
	e.Str(string(o.Status))
	e.FieldStart("items")
	e.ArrStart()
	for _, it := range o.Items {
		e.ObjStart()
		e.FieldStart("itemId")
		e.Str(it.ItemID)
		e.FieldStart("quantity")
		e.Int(it.Quantity)
		e.FieldStart("price")
		encodeMoney(e, it.Price)
		e.ObjEnd()
	}
	e.ArrEnd()
	e.FieldStart("subtotal")
	encodeMoney(e, o.Subtotal)
	e.FieldStart("deliveryFee")
	encodeMoney(e, o.DeliveryFee)
	e.FieldStart("total")
	encodeMoney(e, o.Total)
	e.FieldStart("createdAt")
	e.Str(o.CreatedAt.Format("2006-01-02T15:04:05Z07:00"))
	e.ObjEnd()
}

func encodeProfile(e *jx.Encoder, p *user.Profile) {
	e.ObjStart()
	e.FieldStart("id")
	e.Str(p.ID)
	e.FieldStart("email")
	e.Str(p.Email)
	e.FieldStart("name")
	e.Str(p.Name)
	e.FieldStart("phone")
	e.Str(p.Phone)
	e.FieldStart("address")
	e.Str(p.Address)
	e.FieldStart("language")
	e.Str(string(p.Language))
	e.FieldStart("notifications")
	e.Bool(p.Notifications)
	e.ObjEnd()
}

func encodePreferences(e *jx.Encoder, p user.Preferences) {
	e.ObjStart()
	e.FieldStart("language")
	e.Str(string(p.Language))
	e.FieldStart("notifications")
	e.Bool(p.Notifications)
	e.ObjEnd()
}
