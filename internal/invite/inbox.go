package invite

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"
)

// searchPhrase narrows the IMAP search to messages with an invite link.
const searchPhrase = "register?token="

// scanLimit caps how many matching messages are fetched per scan.
const scanLimit = 50

// Inbox scans an IMAP mailbox for invitation e-mails.
type Inbox struct {
	host     string
	port     string
	username string
	password string
	tls      bool
	lookback time.Duration
	logger   *slog.Logger
}

// NewInbox creates a scanner for the given mailbox. Messages older than
// lookbackDays are ignored.
func NewInbox(host, port, username, password string, tls bool, lookbackDays int, logger *slog.Logger) *Inbox {
	if lookbackDays <= 0 {
		lookbackDays = 30
	}
	return &Inbox{
		host:     host,
		port:     port,
		username: username,
		password: password,
		tls:      tls,
		lookback: time.Duration(lookbackDays) * 24 * time.Hour,
		logger:   logger,
	}
}

// Username returns the mailbox login.
func (in *Inbox) Username() string { return in.username }

// connect dials the server and authenticates.
func (in *Inbox) connect() (*imapclient.Client, error) {
	addr := in.host + ":" + in.port

	var client *imapclient.Client
	var err error
	if in.tls {
		client, err = imapclient.DialTLS(addr, nil)
	} else {
		client, err = imapclient.DialStartTLS(addr, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("connecting to IMAP %s: %w", addr, err)
	}

	if err := client.Login(in.username, in.password).Wait(); err != nil {
		_ = client.Logout().Wait()
		return nil, fmt.Errorf("authentication failed for %s: %w", in.username, err)
	}

	return client, nil
}

// Scan returns the invitations found in INBOX within the lookback window,
// oldest first. Messages without a valid link are skipped.
func (in *Inbox) Scan(ctx context.Context) ([]Found, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	client, err := in.connect()
	if err != nil {
		return nil, err
	}
	defer func() { _ = client.Logout().Wait() }()

	if _, err := client.Select("INBOX", nil).Wait(); err != nil {
		return nil, fmt.Errorf("selecting INBOX: %w", err)
	}

	criteria := &imap.SearchCriteria{
		Since: time.Now().Add(-in.lookback),
		Body:  []string{searchPhrase},
	}
	searchData, err := client.UIDSearch(criteria, nil).Wait()
	if err != nil {
		return nil, fmt.Errorf("searching messages: %w", err)
	}

	uids := searchData.AllUIDs()
	if len(uids) == 0 {
		return nil, nil
	}
	if len(uids) > scanLimit {
		uids = uids[len(uids)-scanLimit:]
	}

	bodySection := &imap.FetchItemBodySection{Peek: true}
	fetchCmd := client.Fetch(imap.UIDSetNum(uids...), &imap.FetchOptions{
		UID:         true,
		BodySection: []*imap.FetchItemBodySection{bodySection},
	})
	defer fetchCmd.Close()

	var found []Found
	for {
		if ctx.Err() != nil {
			break
		}
		msg := fetchCmd.Next()
		if msg == nil {
			break
		}

		buf, err := msg.Collect()
		if err != nil {
			continue
		}
		raw := buf.FindBodySection(bodySection)
		if raw == nil {
			continue
		}

		f, err := ExtractInvite(raw)
		if errors.Is(err, ErrNoInvite) {
			continue
		}
		if err != nil {
			if in.logger != nil {
				in.logger.Warn("parsing invitation e-mail failed",
					slog.Uint64("uid", uint64(buf.UID)),
					slog.String("error", err.Error()))
			}
			continue
		}
		found = append(found, f)
	}

	if err := fetchCmd.Close(); err != nil {
		return found, fmt.Errorf("fetching messages: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return found, err
	}
	return found, nil
}
