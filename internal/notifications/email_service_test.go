package notifications

import (
	"bytes"
	"encoding/base64"
	"io"
	"mime"
	"mime/multipart"
	"net/mail"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMessageWithAttachment(t *testing.T) {
	pdf := bytes.Repeat([]byte("%PDF-1.3 "), 40)
	n := testNotification("guest@example.com")
	n.Attachment = &Attachment{Filename: "BK-20260504-ABC123.pdf", ContentType: "application/pdf", Data: pdf}

	raw, err := BuildMessage("Booking Desk", "noreply@bookingdesk.ma", n, time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	msg, err := mail.ReadMessage(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, "guest@example.com", msg.Header.Get("To"))

	mediaType, params, err := mime.ParseMediaType(msg.Header.Get("Content-Type"))
	require.NoError(t, err)
	assert.Equal(t, "multipart/mixed", mediaType)

	reader := multipart.NewReader(msg.Body, params["boundary"])
	first, err := reader.NextPart()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(first.Header.Get("Content-Type"), "multipart/alternative"))

	attachment, err := reader.NextPart()
	require.NoError(t, err)
	assert.Equal(t, "BK-20260504-ABC123.pdf", attachment.FileName())
	encoded, err := io.ReadAll(attachment)
	require.NoError(t, err)
	decoded, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(string(encoded), "\r\n", ""))
	require.NoError(t, err)
	assert.Equal(t, pdf, decoded)

	_, err = reader.NextPart()
	assert.ErrorIs(t, err, io.EOF)
}

func TestBuildMessageWithoutAttachment(t *testing.T) {
	raw, err := BuildMessage("Booking Desk", "noreply@bookingdesk.ma", testNotification("guest@example.com"), time.Now())
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "Content-Disposition: attachment")
}

func TestSMTPConfigValidation(t *testing.T) {
	_, err := NewSMTPEmailService(&SMTPConfig{Port: 587, FromEmail: "a@b.c"}, nil)
	assert.Error(t, err)

	_, err = NewSMTPEmailService(&SMTPConfig{Host: "smtp.example.com", Port: 587, FromEmail: "a@b.c"}, nil)
	assert.NoError(t, err)
}
