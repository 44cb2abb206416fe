package app

import (
	"fmt"
	"strings"

	"ai-workbench/internal/command"
	"ai-workbench/internal/storage"
)

const journalRows = 10

var journalStatuses = []string{
	command.StatusDelivered,
	command.StatusUnhandled,
	command.StatusFailed,
	command.StatusTimeout,
	command.StatusThrottled,
}

// JournalText summarizes the command journal: counts per status followed by
// the newest entries.
func JournalText(r JournalReader) (string, error) {
	var b strings.Builder
	for _, status := range journalStatuses {
		n, err := r.CountCommandsByStatus(status)
		if err != nil {
			return "", fmt.Errorf("failed to count %s commands: %w", status, err)
		}
		fmt.Fprintf(&b, "%s: %d\n", status, n)
	}

	recs, err := r.RecentCommands(journalRows)
	if err != nil {
		return "", fmt.Errorf("failed to read journal: %w", err)
	}
	if len(recs) == 0 {
		b.WriteString("\nNo commands recorded.")
		return b.String(), nil
	}

	b.WriteString("\nRecent:\n")
	for _, rec := range recs {
		b.WriteString(journalLine(rec))
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func journalLine(rec storage.CommandRecord) string {
	line := fmt.Sprintf("%s  %s  %s", rec.CreatedAt, rec.Command, rec.Status)
	if rec.Detail != "" {
		line += " (" + rec.Detail + ")"
	}
	return line + "\n"
}

// ShowJournal opens a dialog with the command journal summary.
func (a *App) ShowJournal() {
	if a.history == nil {
		a.dialog(DialogInfo, "Command Journal", "The command journal is unavailable because the database could not be opened.")
		return
	}
	text, err := JournalText(a.history)
	if err != nil {
		a.logger.Error("Failed to read command journal", "error", err)
		a.dialog(DialogError, "Command Journal", err.Error())
		return
	}
	a.dialog(DialogInfo, "Command Journal", text)
}
