// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package mail delivers homebuyer invitations.
package mail

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/danielhkuo/homegrade/cliparse"
)

var ErrDelivery = errors.New("invitation delivery failed")

// Invite is one invitation email.
type Invite struct {
	Email       string
	RealtorName string
	Link        string
}

// Mailer sends invitation emails. Implementations must return an error
// wrapping ErrDelivery when the message was not handed off.
type Mailer interface {
	SendInvite(ctx context.Context, inv Invite) error
}

// New returns an SMTP mailer, or a log-only mailer when no SMTP host is set.
func New(cfg cliparse.SMTPConfig) Mailer {
	if cfg.Host == "" {
		return LogMailer{}
	}
	return NewSMTPMailer(cfg)
}

// InviteLink builds the registration URL carrying the raw invite token.
func InviteLink(baseURL, token string) string {
	return strings.TrimRight(baseURL, "/") + "/register?token=" + url.QueryEscape(token)
}

type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(cfg cliparse.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (m *SMTPMailer) SendInvite(ctx context.Context, inv Invite) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrDelivery, err)
	}
	if err := m.dialer.DialAndSend(inviteMessage(m.from, inv)); err != nil {
		return fmt.Errorf("%w: %v", ErrDelivery, err)
	}
	slog.Info("invitation sent", "email", inv.Email)
	return nil
}

func inviteMessage(from string, inv Invite) *gomail.Message {
	sender := "Your realtor"
	if inv.RealtorName != "" {
		sender = inv.RealtorName
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", from)
	msg.SetHeader("To", inv.Email)
	msg.SetHeader("Subject", sender+" invited you to grade houses")
	msg.SetBody("text/plain", fmt.Sprintf(
		"%s invited you and your partner to grade houses together.\n\nCreate your account here:\n%s\n",
		sender, inv.Link,
	))
	return msg
}

// LogMailer only logs invitations. Used in development when SMTP is not
// configured.
type LogMailer struct{}

func (LogMailer) SendInvite(ctx context.Context, inv Invite) error {
	slog.InfoContext(ctx, "invitation not emailed (SMTP disabled)", "email", inv.Email, "link", inv.Link)
	return nil
}
