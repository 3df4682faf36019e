package ledger

import "github.com/medtrack/medtrack-api/internal/application/dto"

// StatementXMLBuilder renders a reconciled statement as an XML document for
// exchange with external accounting systems.
type StatementXMLBuilder interface {
	Build(statement *dto.SupplierStatementResponse) ([]byte, error)
}
