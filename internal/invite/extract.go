// Package invite finds TaskGenius invitation links in e-mail.
package invite

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/emersion/go-message/mail"
	"github.com/google/uuid"

	"github.com/nhle/taskgenius/internal/model"
)

// ErrNoInvite is returned when a message carries no valid invitation link.
var ErrNoInvite = errors.New("no invitation link in message")

var (
	linkPattern = regexp.MustCompile(`https?://[^\s"'<>]+/register\?token=([0-9A-Za-z-]+)`)
	rolePattern = regexp.MustCompile(`(?i)\bas an? (foreman|worker)\b`)
)

// Found is an invitation discovered in a message.
type Found struct {
	Token    string
	Link     string
	Role     string
	Subject  string
	From     string
	Received time.Time
}

// Invitation converts f into a received invitation record.
func (f Found) Invitation(recipient string) model.Invitation {
	return model.Invitation{
		Token:      f.Token,
		Email:      recipient,
		Role:       f.Role,
		Status:     model.InvitationPending,
		InviteLink: f.Link,
		Message:    f.Subject,
		Source:     model.InvitationReceived,
	}
}

// ExtractInvite parses a raw RFC 5322 message and returns the first
// invitation link whose token is a valid UUID.
func ExtractInvite(raw []byte) (Found, error) {
	var found Found

	mr, err := mail.CreateReader(bytes.NewReader(raw))
	if err != nil {
		return scanBody(found, string(raw))
	}
	defer mr.Close()

	found.Subject, _ = mr.Header.Subject()
	found.Received, _ = mr.Header.Date()
	if from, err := mr.Header.AddressList("From"); err == nil && len(from) > 0 {
		found.From = from[0].Address
		if from[0].Name != "" {
			found.From = from[0].Name
		}
	}

	var bodies []string
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			break
		}

		h, ok := part.Header.(*mail.InlineHeader)
		if !ok {
			continue
		}
		contentType, _, _ := h.ContentType()
		if contentType != "" && !strings.HasPrefix(contentType, "text/") {
			continue
		}
		body, readErr := io.ReadAll(part.Body)
		if readErr != nil {
			continue
		}
		bodies = append(bodies, string(body))
	}

	return scanBody(found, strings.Join(bodies, "\n"))
}

// scanBody fills the link, token and role of found from text.
func scanBody(found Found, text string) (Found, error) {
	text = strings.ReplaceAll(text, "&amp;", "&")
	for _, m := range linkPattern.FindAllStringSubmatch(text, -1) {
		token, err := uuid.Parse(m[1])
		if err != nil {
			continue
		}
		found.Token = token.String()
		found.Link = m[0]
		if rm := rolePattern.FindStringSubmatch(text); rm != nil {
			found.Role = canonicalRole(rm[1])
		}
		return found, nil
	}
	return Found{}, fmt.Errorf("%w (subject %q)", ErrNoInvite, found.Subject)
}

func canonicalRole(s string) string {
	switch strings.ToLower(s) {
	case "foreman":
		return model.RoleForeman
	case "worker":
		return model.RoleWorker
	}
	return ""
}
