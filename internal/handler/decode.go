package handler

import (
	"io"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"
)

// Request bodies above this size are rejected before decoding.
const maxBodyBytes = 1 << 20

// decodeBody reads the request body and hands it to a jx decoder callback.
func decodeBody(r *http.Request, f func(d *jx.Decoder) error) error {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return errors.Wrap(err, "read body")
	}
	return f(jx.DecodeBytes(data))
}

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name" validate:"required,min=2"`
	Phone    string `json:"phone"`
	Language string `json:"language" validate:"omitempty,oneof=en ar"`
}

func (req *registerRequest) Decode(d *jx.Decoder) error {
	return d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "email":
			req.Email, err = d.Str()
		case "password":
			req.Password, err = d.Str()
		case "name":
			req.Name, err = d.Str()
		case "phone":
			req.Phone, err = d.Str()
		case "language":
			req.Language, err = d.Str()
		default:
			err = d.Skip()
		}
		return err
	})
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (req *loginRequest) Decode(d *jx.Decoder) error {
	return d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "email":
			req.Email, err = d.Str()
		case "password":
			req.Password, err = d.Str()
		default:
			err = d.Skip()
		}
		return err
	})
}

type resetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (req *resetRequest) Decode(d *jx.Decoder) error {
	return d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "email":
			req.Email, err = d.Str()
		default:
			err = d.Skip()
		}
		return err
	})
}

type orderItemRequest struct {
	ItemID   string `json:"itemId" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,min=1"`
}

type orderRequest struct {
	Items       []orderItemRequest `json:"items" validate:"required,min=1,dive"`
	DeliveryFee decimal.Decimal    `json:"deliveryFee"`
}

func (req *orderRequest) Decode(d *jx.Decoder) error {
	return d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "items":
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

type cartEntryRequest struct {
	ItemID   string `json:"itemId" validate:"required"`
	Quantity int    `json:"quantity"`
}

type cartRequest struct {
	Items []cartEntryRequest `json:"items" validate:"dive"`
}

func (req *cartRequest) Decode(d *jx.Decoder) error {
	return d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "items":
			return d.Arr(func(d *jx.Decoder) error {
				var it cartEntryRequest
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
		default:
			return d.Skip()
		}
	})
}

type profileRequest struct {
	Name          string `json:"name" validate:"required,min=2"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	Language      string `json:"language" validate:"required,oneof=en ar"`
	Notifications bool   `json:"notifications"`

	phoneSeen   bool
	addressSeen bool
	notifSeen   bool
}

func (req *profileRequest) Decode(d *jx.Decoder) error {
	return d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "name":
			req.Name, err = d.Str()
		case "phone":
			req.Phone, err = d.Str()
			req.phoneSeen = true
		case "address":
			req.Address, err = d.Str()
			req.addressSeen = true
		case "language":
			req.Language, err = d.Str()
		case "notifications":
			req.Notifications, err = d.Bool()
			req.notifSeen = true
		default:
			err = d.Skip()
		}
		return err
	})
}

type preferencesRequest struct {
	Language      string `json:"language" validate:"required,oneof=en ar"`
	Notifications bool   `json:"notifications"`

	notifSeen bool
}

func (req *preferencesRequest) Decode(d *jx.Decoder) error {
	return d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "language":
			req.Language, err = d.Str()
		case "notifications":
			req.Notifications, err = d.Bool()
			req.notifSeen = true
		default:
			err = d.Skip()
		}
		return err
	})
}
