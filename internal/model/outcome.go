package model

import "fmt"

// Operation names the user-facing wallet operations
type Operation string

const (
	OperationCreate   Operation = "create"
	OperationFund     Operation = "fund"
	OperationBalance  Operation = "balance"
	OperationTransfer Operation = "transfer"
	OperationBackup   Operation = "backup"
	OperationRestore  Operation = "restore"
)

// Outcome is the reported result of one operation. Errors stop here.
type Outcome struct {
	Operation   Operation
	OK          bool
	Message     string
	Diagnostics []string
	Err         error
}

// String returns the one-line status shown to the operator
func (o Outcome) String() string {
	if o.OK {
		return o.Message
	}
	return fmt.Sprintf("%s failed: %s", o.Operation, o.Message)
}
