package invite

import (
	"errors"
	"strings"
	"testing"

	"github.com/nhle/taskgenius/internal/model"
)

const token = "8d0f4c1e-3b1a-4c55-9a8e-2f5d6b7c8e90"

func crlf(s string) []byte {
	return []byte(strings.ReplaceAll(s, "\n", "\r\n"))
}

func TestExtractInvite_PlainText(t *testing.T) {
	raw := crlf(`From: Owner User <owner@workbuddy.pro>
To: carol@example.com
Subject: You're invited to Project Alpha
Date: Wed, 13 Mar 2024 09:30:00 +0000
Content-Type: text/plain; charset=utf-8

Hi Carol,

You have been invited to join Project Alpha as a Worker.
Register here: https://YourAppDomain.com/register?token=` + token + `

Thanks
`)

	f, err := ExtractInvite(raw)
	if err != nil {
		t.Fatalf("ExtractInvite() error: %v", err)
	}
	if f.Token != token {
		t.Fatalf("token = %q, want %q", f.Token, token)
	}
	if f.Link != "https://YourAppDomain.com/register?token="+token {
		t.Fatalf("link = %q", f.Link)
	}
	if f.Role != model.RoleWorker {
		t.Fatalf("role = %q, want Worker", f.Role)
	}
	if f.Subject != "You're invited to Project Alpha" || f.From != "Owner User" {
		t.Fatalf("subject/from = %q / %q", f.Subject, f.From)
	}
	if f.Received.IsZero() {
		t.Fatal("received date not parsed")
	}

	inv := f.Invitation("carol@example.com")
	if inv.Source != model.InvitationReceived || inv.Status != model.InvitationPending || inv.Token != token {
		t.Fatalf("invitation = %+v", inv)
	}
}

func TestExtractInvite_MultipartHTML(t *testing.T) {
	raw := crlf(`From: owner@workbuddy.pro
To: dave@example.com
Subject: Invitation
MIME-Version: 1.0
Content-Type: multipart/alternative; boundary="b1"

--b1
Content-Type: text/html; charset=utf-8

<p>Join as a <b>foreman</b>: <a href="https://app.example.com/register?token=` + token + `&amp;ref=mail">Accept</a></p>
--b1--
`)

	f, err := ExtractInvite(raw)
	if err != nil {
		t.Fatalf("ExtractInvite() error: %v", err)
	}
	if f.Token != token {
		t.Fatalf("token = %q", f.Token)
	}
	if f.From != "owner@workbuddy.pro" {
		t.Fatalf("from = %q", f.From)
	}
}

func TestExtractInvite_NoLink(t *testing.T) {
	tests := []struct {
		name string
		raw  []byte
	}{
		{"no link", crlf("Subject: Lunch\n\nSee you at noon.\n")},
		{"bad token", crlf("Subject: Invite\n\nhttps://YourAppDomain.com/register?token=not-a-uuid\n")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExtractInvite(tt.raw)
			if !errors.Is(err, ErrNoInvite) {
				t.Fatalf("err = %v, want ErrNoInvite", err)
			}
		})
	}
}
