// Package notify holds the outward-facing collaborators: the SMS composer
// hand-off and the share/export mechanism. Both are best effort, a
// failure is reported to the user and never retried.
package notify

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"strings"

	"github.com/khata-app/khata/internal/model"
)

// Opener launches a URL or file with the platform's default handler.
type Opener func(target string) error

// SystemOpener uses the desktop opener for the current platform.
func SystemOpener(target string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", target).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", target).Start()
	default:
		return exec.Command("xdg-open", target).Start()
	}
}

// SMS opens the platform messaging composer pre-filled with a transaction
// alert.
type SMS struct {
	AppName  string
	Currency string
	Open     Opener
}

// Message renders the transaction alert text.
func (s SMS) Message(t model.Transaction) string {
	verb := "Given"
	if t.Type == model.TxCredit {
		verb = "Received"
	}
	msg := fmt.Sprintf("Transaction Alert: %s %s%s", verb, s.Currency, t.Amount.String())
	if t.Description != "" {
		msg += " for " + t.Description
	}
	return msg + ". Thank you! - " + s.AppName
}

// Send opens the composer for the customer's phone. Numbers shorter than
// ten digits are rejected up front. The URI uses the bare digits rather
// than the stored number, since spaces and dashes make it invalid.
func (s SMS) Send(phone string, t model.Transaction) error {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)
	if len(digits) < 10 {
		return fmt.Errorf("invalid phone number %q", phone)
	}
	number := digits
	if strings.HasPrefix(strings.TrimSpace(phone), "+") {
		number = "+" + digits
	}
	open := s.Open
	if open == nil {
		open = SystemOpener
	}
	target := "sms:" + number + "?body=" + url.QueryEscape(s.Message(t))
	if err := open(target); err != nil {
		return fmt.Errorf("open sms composer: %w", err)
	}
	return nil
}
