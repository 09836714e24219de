package imap

import (
	"fmt"
	"io"
	"strings"

	emaildomain "inboxmind-backend/internal/email/domain"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	gomail "github.com/emersion/go-message/mail"
	"github.com/rs/zerolog/log"
)

// Service fetches recent INBOX messages over IMAP, yielding the same
// ingestion tuples as the Gmail source. It implements usecase.IMAPFetcher.
type Service struct{}

func NewService() *Service {
	return &Service{}
}

// FetchRecent connects over TLS, logs in and fetches the newest max messages
// from INBOX. Individual messages that fail to parse are skipped.
func (s *Service) FetchRecent(addr, username, password string, max int) ([]emaildomain.IncomingMessage, error) {
	c, err := client.DialTLS(addr, nil)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to %s: %w", addr, err)
	}
	defer c.Logout()

	if err := c.Login(username, password); err != nil {
		return nil, fmt.Errorf("IMAP login failed: %w", err)
	}

	mbox, err := c.Select("INBOX", true)
	if err != nil {
		return nil, fmt.Errorf("unable to select INBOX: %w", err)
	}
	if mbox.Messages == 0 {
		return nil, nil
	}

	from := uint32(1)
	if mbox.Messages > uint32(max) {
		from = mbox.Messages - uint32(max) + 1
	}
	seqset := new(imap.SeqSet)
	seqset.AddRange(from, mbox.Messages)

	section := &imap.BodySectionName{Peek: true}
	items := []imap.FetchItem{imap.FetchEnvelope, section.FetchItem()}

	ch := make(chan *imap.Message, max)
	done := make(chan error, 1)
	go func() {
		done <- c.Fetch(seqset, items, ch)
	}()

	var messages []emaildomain.IncomingMessage
	for msg := range ch {
		parsed, ok := parseMessage(msg, section)
		if !ok {
			continue
		}
		messages = append(messages, parsed)
	}

	if err := <-done; err != nil {
		return nil, fmt.Errorf("IMAP fetch failed: %w", err)
	}
	return messages, nil
}

func parseMessage(msg *imap.Message, section *imap.BodySectionName) (emaildomain.IncomingMessage, bool) {
	if msg.Envelope == nil || msg.Envelope.MessageId == "" {
		return emaildomain.IncomingMessage{}, false
	}

	out := emaildomain.IncomingMessage{
		MessageID:  strings.Trim(msg.Envelope.MessageId, "<>"),
		ReceivedAt: msg.Envelope.Date,
	}
	if len(msg.Envelope.From) > 0 {
		out.Sender = msg.Envelope.From[0].Address()
	}

	body := msg.GetBody(section)
	if body == nil {
		return out, true
	}

	reader, err := gomail.CreateReader(body)
	if err != nil {
		log.Warn().Err(err).Str("message_id", out.MessageID).Msg("unparseable IMAP message body")
		return out, true
	}

	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			break
		}
		header, ok := part.Header.(*gomail.InlineHeader)
		if !ok {
			continue
		}
		contentType, _, _ := header.ContentType()
		if contentType != "text/plain" {
			continue
		}
		data, err := io.ReadAll(part.Body)
		if err == nil {
			out.Body = string(data)
		}
		break
	}

	return out, true
}
