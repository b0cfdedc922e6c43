package message_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"notir/internal/message"
)

func TestNewText(t *testing.T) {
	m := message.NewText("hello")
	assert.Equal(t, message.Text, m.Kind)
	assert.Equal(t, "hello", string(m.Payload))
}

func TestNewBinary(t *testing.T) {
	m := message.NewBinary([]byte{0x01, 0x02, 0x03})
	assert.Equal(t, message.Binary, m.Kind)
	assert.Equal(t, []byte{0x01, 0x02, 0x03}, m.Payload)
}

func TestNewPing(t *testing.T) {
	m := message.NewPing()
	assert.Equal(t, message.Ping, m.Kind)
}

func TestKind_String(t *testing.T) {
	cases := map[message.Kind]string{
		message.Text:   "text",
		message.Binary: "binary",
		message.Ping:   "ping",
		message.Pong:   "pong",
		message.Close:  "close",
	}
	for kind, want := range cases {
		assert.Equal(t, want, kind.String())
	}
}
