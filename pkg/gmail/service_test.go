package gmail

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gmail "google.golang.org/api/gmail/v1"
)

func TestParseSender(t *testing.T) {
	tests := []struct {
		from string
		want string
	}{
		{"Alice <alice@example.com>", "alice@example.com"},
		{"alice@example.com", "alice@example.com"},
		{`"Support Team" <support@example.com>`, "support@example.com"},
		{"not a header", "not a header"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, parseSender(tt.from))
	}
}

func TestDecodeBase64URL(t *testing.T) {
	padded := base64.URLEncoding.EncodeToString([]byte("hello world"))
	unpadded := base64.RawURLEncoding.EncodeToString([]byte("hello world"))

	assert.Equal(t, "hello world", decodeBase64URL(padded))
	assert.Equal(t, "hello world", decodeBase64URL(unpadded))
	assert.Empty(t, decodeBase64URL("!!not base64!!"))
}

func TestParseMessage(t *testing.T) {
	body := base64.URLEncoding.EncodeToString([]byte("please reset my password"))
	msg := &gmail.Message{
		Id: "msg-1",
		Payload: &gmail.MessagePart{
			Headers: []*gmail.MessagePartHeader{
				{Name: "From", Value: "Alice <alice@example.com>"},
				{Name: "Date", Value: "Mon, 02 Mar 2026 15:04:05 +0000"},
			},
			Parts: []*gmail.MessagePart{
				{MimeType: "text/html", Body: &gmail.MessagePartBody{Data: "ignored"}},
				{MimeType: "text/plain", Body: &gmail.MessagePartBody{Data: body}},
			},
		},
	}

	out := parseMessage(msg)

	assert.Equal(t, "msg-1", out.MessageID)
	assert.Equal(t, "alice@example.com", out.Sender)
	assert.Equal(t, "please reset my password", out.Body)
	require.False(t, out.ReceivedAt.IsZero())
	assert.Equal(t, time.Date(2026, 3, 2, 15, 4, 5, 0, time.UTC).Unix(), out.ReceivedAt.Unix())
}

func TestParseMessageWithoutPayload(t *testing.T) {
	out := parseMessage(&gmail.Message{Id: "msg-1"})
	assert.Equal(t, "msg-1", out.MessageID)
	assert.Empty(t, out.Sender)
	assert.Empty(t, out.Body)
}
