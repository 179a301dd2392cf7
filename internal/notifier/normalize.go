package notifier

import (
	"fmt"
	"net/mail"
	"strings"

	"openlark/pkg/service/im"
)

// NormalizeReceiver returns the receive id type and the canonical receive id
// for a delivery target.
//
// When idType is empty it is inferred from the id:
//   - ou_ prefix is an open_id, on_ a union_id and oc_ a chat_id
//   - anything containing @ is an email
//   - everything else is a tenant user_id
//
// Surrounding whitespace is trimmed and emails are lower-cased. An error is
// returned for an empty id, an unknown type or a malformed email.
func NormalizeReceiver(idType, id string) (string, string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", "", fmt.Errorf("receive id is empty")
	}

	idType = strings.ToLower(strings.TrimSpace(idType))
	if idType == "" {
		idType = inferReceiveIDType(id)
	}

	switch idType {
	case im.ReceiveIDTypeOpenID, im.ReceiveIDTypeUnionID, im.ReceiveIDTypeChatID, im.ReceiveIDTypeUserID:
		return idType, id, nil
	case im.ReceiveIDTypeEmail:
		addr, err := mail.ParseAddress(id)
		if err != nil {
			return "", "", fmt.Errorf("could not parse email: %w", err)
		}

		return idType, strings.ToLower(addr.Address), nil
	default:
		return "", "", fmt.Errorf("unknown receive id type %q", idType)
	}
}

func inferReceiveIDType(id string) string {
	switch {
	case strings.HasPrefix(id, "ou_"):
		return im.ReceiveIDTypeOpenID
	case strings.HasPrefix(id, "on_"):
		return im.ReceiveIDTypeUnionID
	case strings.HasPrefix(id, "oc_"):
		return im.ReceiveIDTypeChatID
	case strings.Contains(id, "@"):
		return im.ReceiveIDTypeEmail
	default:
		return im.ReceiveIDTypeUserID
	}
}
