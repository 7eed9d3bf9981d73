package ledger

import "github.com/username/tradebook/backend/src/logger"

// Operation classifies a user-visible notice by the ledger action that
// produced it.
type Operation string

const (
	OpImport Operation = "import"
	OpExport Operation = "export"
	OpAdd    Operation = "add"
	OpDelete Operation = "delete"
)

// Notice is one success or failure report for a ledger operation. The
// wording is presentation detail; the operation and severity are the
// contract.
type Notice struct {
	Op      Operation
	Success bool
	Message string
}

// Notifier receives notices for display. Toast rendering lives outside
// this package; the CLI binds it to structured logging and tests record
// the notices directly.
type Notifier interface {
	Notify(Notice)
}

// SlogNotifier reports notices through the global structured logger.
type SlogNotifier struct{}

func (SlogNotifier) Notify(n Notice) {
	if n.Success {
		logger.L.Info(n.Message, "op", string(n.Op))
		return
	}
	logger.L.Error(n.Message, "op", string(n.Op))
}
