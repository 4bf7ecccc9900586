package submission

import "strings"

// Operation is the lifecycle stage of a submission reported by the form host.
type Operation string

const (
	OperationInsert Operation = "insert"
	OperationUpdate Operation = "update"
	OperationDelete Operation = "delete"
)

// ParseOperation normalises host supplied operation names. The host also
// reports creation as "completed" or "create".
func ParseOperation(s string) Operation {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "insert", "create", "created", "completed":
		return OperationInsert
	case "update", "updated":
		return OperationUpdate
	case "delete", "deleted":
		return OperationDelete
	default:
		return Operation(strings.ToLower(strings.TrimSpace(s)))
	}
}

func (o Operation) IsInsert() bool {
	return o == OperationInsert
}
