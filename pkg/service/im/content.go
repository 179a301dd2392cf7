package im

import (
	"encoding/json"
	"fmt"

	"openlark/pkg/serrors"
)

// TextContent encodes the content of a text message.
func TextContent(text string) string {
	b, _ := json.Marshal(struct {
		Text string `json:"text"`
	}{Text: text})

	return string(b)
}

// PostElement is one inline element of a rich text paragraph.
type PostElement struct {
	Tag      string `json:"tag"`
	Text     string `json:"text,omitempty"`
	Href     string `json:"href,omitempty"`
	UserID   string `json:"user_id,omitempty"`
	ImageKey string `json:"image_key,omitempty"`
}

func PostText(text string) PostElement {
	return PostElement{Tag: "text", Text: text}
}

func PostLink(text, href string) PostElement {
	return PostElement{Tag: "a", Text: text, Href: href}
}

// PostAt mentions a user by open id; "all" mentions everyone in the chat.
func PostAt(userID string) PostElement {
	return PostElement{Tag: "at", UserID: userID}
}

type postLocale struct {
	Title   string          `json:"title,omitempty"`
	Content [][]PostElement `json:"content"`
}

// PostContent encodes a rich text message for one locale such as "zh_cn" or
// "en_us". Each paragraph is rendered on its own line.
func PostContent(locale, title string, paragraphs ...[]PostElement) (string, error) {
	if locale == "" {
		return "", serrors.With(serrors.ErrValidation, "locale is required")
	}
	if paragraphs == nil {
		paragraphs = [][]PostElement{}
	}

	b, err := json.Marshal(map[string]postLocale{
		locale: {Title: title, Content: paragraphs},
	})
	if err != nil {
		return "", fmt.Errorf("could not marshal post content: %w", err)
	}

	return string(b), nil
}
