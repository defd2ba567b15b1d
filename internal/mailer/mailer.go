// Package mailer delivers the saved QR image over email by shelling out to
// the gmail helper script.
package mailer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"
)

// Sender defines the delivery capability: send one HTML message carrying a
// single inline image to the owner, who is both sender and recipient.
type Sender interface {
	SendQR(ctx context.Context, ownerEmail, imagePath string) error
}

const (
	helperSendMode = "send_html"
	attachmentCID  = "qrcode"

	// Subject and body mirror the helper's expected send_html arguments.
	// The expiry figure is informational copy; no timing logic enforces it.
	emailSubject = "⚡ Scan this QR NOW — 60 seconds!"
	emailBody    = "<h2>⚡ Scan this QR code with WhatsApp NOW</h2>" +
		"<p><b>Open WhatsApp → Settings → Linked Devices → Link a Device</b></p>" +
		"<p><img src='cid:qrcode' width='300'/></p>" +
		"<p>⚠️ This code expires in about 60 seconds! Scan it immediately.</p>" +
		"<p>If it expired, just reply <b>connect</b> again and I'll send a fresh one.</p>"
)

// HelperConfig locates the helper script and bounds its runtime.
type HelperConfig struct {
	HelperPath   string
	PythonBinary string
	Timeout      time.Duration
}

// HelperSender runs the gmail helper as a subprocess.
type HelperSender struct {
	cfg    HelperConfig
	logger *slog.Logger
}

func NewHelperSender(cfg HelperConfig, logger *slog.Logger) *HelperSender {
	return &HelperSender{cfg: cfg, logger: logger}
}

// SendQR invokes the helper and waits for it, bounded by the configured
// timeout. A non-zero exit is a delivery failure; the helper's stderr is
// folded into the returned error.
func (sender *HelperSender) SendQR(ctx context.Context, ownerEmail, imagePath string) error {
	ctx, cancel := context.WithTimeout(ctx, sender.cfg.Timeout)
	defer cancel()

	helperArgs := buildHelperArgs(sender.cfg.HelperPath, ownerEmail, imagePath)
	command := exec.CommandContext(ctx, sender.cfg.PythonBinary, helperArgs...)

	var stderrBuffer bytes.Buffer
	command.Stderr = &stderrBuffer
	// Without a wait delay, orphaned helper children holding stderr keep
	// Run blocked past the deadline.
	command.WaitDelay = time.Second

	sender.logger.Debug("invoking mail helper", "helper", sender.cfg.HelperPath, "recipient", ownerEmail)
	runErr := command.Run()
	if runErr == nil {
		return nil
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("mail helper timed out after %s: %w", sender.cfg.Timeout, ctx.Err())
	}
	helperStderr := strings.TrimSpace(stderrBuffer.String())
	if helperStderr != "" {
		return fmt.Errorf("mail helper failed: %s: %w", helperStderr, runErr)
	}
	return fmt.Errorf("mail helper failed: %w", runErr)
}

// buildHelperArgs assembles the helper's positional arguments: send mode,
// sender, recipient, subject, HTML body, and the cid:path attachment
// specifier binding the inline image.
func buildHelperArgs(helperPath, ownerEmail, imagePath string) []string {
	return []string{
		helperPath,
		helperSendMode,
		ownerEmail,
		ownerEmail,
		emailSubject,
		emailBody,
		fmt.Sprintf("%s:%s", attachmentCID, imagePath),
	}
}
