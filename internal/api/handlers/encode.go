package handlers

import (
	"strings"
	"unicode/utf8"

	"notir/internal/message"
)

// isTextual reports whether contentType declares a body this handler
// should attempt to decode as UTF-8 text: anything beginning with
// "application/json" or "text/".
func isTextual(contentType string) bool {
	return strings.HasPrefix(contentType, "application/json") || strings.HasPrefix(contentType, "text/")
}

// encodeBody implements the Content-Type translation shared by every
// publish endpoint: a declared text/JSON body must be valid UTF-8 or the
// request is rejected; anything else becomes a binary frame verbatim.
func encodeBody(contentType string, body []byte) (m message.Message, invalidUTF8 bool) {
	if isTextual(contentType) {
		if !utf8.Valid(body) {
			return message.Message{}, true
		}
		return message.NewText(string(body)), false
	}
	return message.NewBinary(body), false
}
