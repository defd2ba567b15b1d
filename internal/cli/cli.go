// Package cli wires one QR delivery run: argument parsing, decode and
// persist, helper invocation, and exit-code mapping.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"gorm.io/gorm"

	"github.com/tyemirov/qrmail/internal/config"
	"github.com/tyemirov/qrmail/internal/journal"
	"github.com/tyemirov/qrmail/internal/mailer"
	"github.com/tyemirov/qrmail/internal/qrimage"
	"github.com/tyemirov/qrmail/pkg/logging"
)

const usageText = "Usage: sendqr <owner_email> <base64_png_data>\n" +
	"   OR: echo <data> | sendqr <owner_email> -"

// Run executes a delivery with the production helper-backed sender and
// returns the process exit code.
func Run(arguments []string, stdin io.Reader, stdout, stderr io.Writer) int {
	configuration := config.LoadConfig()
	progressLogger := logging.NewLoggerWithWriter(stdout, configuration.LogLevel)
	helperSender := mailer.NewHelperSender(mailer.HelperConfig{
		HelperPath:   configuration.HelperPath,
		PythonBinary: configuration.PythonBinary,
		Timeout:      configuration.SendTimeout(),
	}, progressLogger)
	return RunWithSender(configuration, helperSender, arguments, stdin, stdout, stderr)
}

// RunWithSender is Run with an injected delivery capability.
func RunWithSender(configuration config.Config, sender mailer.Sender, arguments []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(arguments) < 2 {
		fmt.Fprintln(stderr, usageText)
		return 1
	}

	progressLogger := logging.NewLoggerWithWriter(stdout, configuration.LogLevel)
	diagnosticLogger := logging.NewLoggerWithWriter(stderr, configuration.LogLevel)

	ownerEmail := arguments[0]
	payload, payloadErr := qrimage.ReadPayload(arguments[1], stdin)
	if payloadErr != nil {
		diagnosticLogger.Error("Failed to read payload", "error", payloadErr)
		return 1
	}

	imageBytes, decodeErr := qrimage.Decode(qrimage.Normalize(payload))
	if decodeErr != nil {
		diagnosticLogger.Error("ERROR decoding base64", "error", decodeErr)
		return 1
	}
	if saveErr := qrimage.Save(configuration.ImagePath, imageBytes); saveErr != nil {
		diagnosticLogger.Error("Failed to save QR image", "error", saveErr)
		return 1
	}
	progressLogger.Info("QR image saved", "path", configuration.ImagePath, "bytes", len(imageBytes))

	journalDB := openJournal(configuration, diagnosticLogger)
	delivery := journal.NewDelivery(ownerEmail, len(imageBytes))

	progressLogger.Info("Emailing QR", "recipient", ownerEmail)
	sendErr := sender.SendQR(context.Background(), ownerEmail, configuration.ImagePath)
	if sendErr != nil {
		delivery.Status = journal.StatusFailed
		delivery.ErrorText = sendErr.Error()
		recordDelivery(journalDB, &delivery, diagnosticLogger)
		diagnosticLogger.Error("Email failed", "error", sendErr)
		return 1
	}

	delivery.Status = journal.StatusSent
	recordDelivery(journalDB, &delivery, diagnosticLogger)
	progressLogger.Info("QR emailed successfully", "recipient", ownerEmail, "delivery_id", delivery.DeliveryID)
	return 0
}

// openJournal returns nil when the journal is disabled or unavailable.
// Bookkeeping never blocks delivery.
func openJournal(configuration config.Config, diagnosticLogger *slog.Logger) *gorm.DB {
	if configuration.JournalDisabled || configuration.JournalPath == "" {
		return nil
	}
	database, openErr := journal.Open(configuration.JournalPath, diagnosticLogger)
	if openErr != nil {
		diagnosticLogger.Warn("Delivery journal unavailable", "path", configuration.JournalPath, "error", openErr)
		return nil
	}
	return database
}

func recordDelivery(database *gorm.DB, delivery *journal.Delivery, diagnosticLogger *slog.Logger) {
	if database == nil {
		return
	}
	if recordErr := journal.RecordDelivery(context.Background(), database, delivery); recordErr != nil {
		diagnosticLogger.Warn("Failed to record delivery", "error", recordErr)
	}
}
