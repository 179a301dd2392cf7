package event

import (
	"github.com/go-faster/jx"

	"openlark/pkg/serrors"
)

// envelope holds the fields needed to route a callback, read without
// decoding the event payload.
type envelope struct {
	Encrypt   string
	Schema    string
	Type      string
	Challenge string
	Token     string

	HeaderToken     string
	HeaderEventType string
	EventID         string

	// v1 events carry their type inside the event object.
	V1EventType string
	UUID        string
}

func (e *envelope) verificationToken() string {
	if e.Schema == schemaV2 {
		return e.HeaderToken
	}

	return e.Token
}

func (e *envelope) eventType() string {
	if e.Schema == schemaV2 {
		return e.HeaderEventType
	}

	return e.V1EventType
}

func (e *envelope) id() string {
	if e.Schema == schemaV2 {
		return e.EventID
	}

	return e.UUID
}

func peekEnvelope(body []byte) (*envelope, error) {
	var e envelope
	d := jx.DecodeBytes(body)
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "encrypt":
			e.Encrypt, err = str(d)
		case "schema":
			e.Schema, err = str(d)
		case "type":
			e.Type, err = str(d)
		case "challenge":
			e.Challenge, err = str(d)
		case "token":
			e.Token, err = str(d)
		case "uuid":
			e.UUID, err = str(d)
		case "header":
			err = objOrSkip(d, func(d *jx.Decoder, key string) error {
				var err error
				switch key {
				case "token":
					e.HeaderToken, err = str(d)
				case "event_type":
					e.HeaderEventType, err = str(d)
				case "event_id":
					e.EventID, err = str(d)
				default:
					err = d.Skip()
				}

				return err
			})
		case "event":
			err = objOrSkip(d, func(d *jx.Decoder, key string) error {
				if key != "type" {
					return d.Skip()
				}
				var err error
				e.V1EventType, err = str(d)

				return err
			})
		default:
			err = d.Skip()
		}

		return err
	}); err != nil {
		return nil, serrors.Wrap(serrors.ErrBadRequest, err, "could not decode event")
	}

	return &e, nil
}

// str reads a string value, skipping values of any other type.
func str(d *jx.Decoder) (string, error) {
	if d.Next() != jx.String {
		return "", d.Skip()
	}

	return d.Str()
}

func objOrSkip(d *jx.Decoder, f func(d *jx.Decoder, key string) error) error {
	if d.Next() != jx.Object {
		return d.Skip()
	}

	return d.Obj(f)
}
