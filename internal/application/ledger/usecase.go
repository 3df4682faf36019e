package ledger

import (
	"fmt"

	"github.com/medtrack/medtrack-api/internal/application/dto"
	"github.com/medtrack/medtrack-api/internal/domain"
	"github.com/medtrack/medtrack-api/internal/domain/entity"
	domledger "github.com/medtrack/medtrack-api/internal/domain/ledger"
	"github.com/medtrack/medtrack-api/internal/domain/repository"
)

// StatementQuery selects whose statement to compute. Platform suppliers are
// addressed by supplier user ID, custom suppliers by free-text name.
type StatementQuery struct {
	OrganizationID string
	BranchID       string
	SupplierID     string
	SupplierName   string
}

// UseCase computes supplier statements from the source rows (purchases, bulk
// orders and their payments). The persisted ledger table is the durable trail;
// statements are always reconciled live.
type UseCase struct {
	purchaseRepo repository.PurchaseRepository
	orderRepo    repository.BulkOrderRepository
	userRepo     repository.UserRepository
	orgRepo      repository.OrganizationRepository
	xmlBuilder   StatementXMLBuilder
}

// NewUseCase builds the ledger use case.
func NewUseCase(
	purchaseRepo repository.PurchaseRepository,
	orderRepo repository.BulkOrderRepository,
	userRepo repository.UserRepository,
	orgRepo repository.OrganizationRepository,
	xmlBuilder StatementXMLBuilder,
) *UseCase {
	return &UseCase{
		purchaseRepo: purchaseRepo,
		orderRepo:    orderRepo,
		userRepo:     userRepo,
		orgRepo:      orgRepo,
		xmlBuilder:   xmlBuilder,
	}
}

// Statement reconciles all activity with one supplier into a running-balance
// statement, newest entry first.
func (uc *UseCase) Statement(q StatementQuery) (*dto.SupplierStatementResponse, error) {
	switch {
	case q.SupplierID != "":
		return uc.platformStatement(q)
	case q.SupplierName != "":
		return uc.customStatement(q)
	default:
		return nil, domain.ErrInvalidInput
	}
}

// ExportStatementXML renders the reconciled statement as XML.
func (uc *UseCase) ExportStatementXML(q StatementQuery) ([]byte, error) {
	statement, err := uc.Statement(q)
	if err != nil {
		return nil, err
	}
	return uc.xmlBuilder.Build(statement)
}

// platformStatement covers a registered supplier user: direct purchases
// recorded against the user plus bulk orders placed with them.
func (uc *UseCase) platformStatement(q StatementQuery) (*dto.SupplierStatementResponse, error) {
	supplier, err := uc.userRepo.GetByID(q.SupplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil || supplier.Role != entity.RoleSupplierAdmin {
		return nil, domain.ErrNotFound
	}
	supplierName := supplier.Name
	if org, err := uc.orgRepo.GetByID(supplier.OrganizationID); err == nil && org != nil {
		supplierName = org.Name
	}

	var entries []domledger.Entry

	txs, err := uc.purchaseRepo.ListTransactions(q.OrganizationID, q.BranchID)
	if err != nil {
		return nil, err
	}
	for _, tx := range txs {
		if tx.SupplierID != q.SupplierID {
			continue
		}
		more, err := uc.purchaseEntries(tx)
		if err != nil {
			return nil, err
		}
		entries = append(entries, more...)
	}

	orders, err := uc.orderRepo.ListBySupplierUser(q.SupplierID, q.OrganizationID)
	if err != nil {
		return nil, err
	}
	for _, order := range orders {
		if skipOrderOnStatement(order.Status) {
			continue
		}
		entries = append(entries, domledger.Entry{
			Date:        order.CreatedAt,
			Description: fmt.Sprintf("Bulk order %s", order.OrderNumber),
			SourceType:  entity.LedgerSourceBulkOrder,
			ReferenceID: order.ID,
			Purchase:    order.TotalAmount,
		})
		payments, err := uc.orderRepo.ListPayments(order.ID)
		if err != nil {
			return nil, err
		}
		for _, p := range payments {
			entries = append(entries, domledger.Entry{
				Date:        p.CreatedAt,
				Description: fmt.Sprintf("Payment (%s) on %s", p.PaymentType, order.OrderNumber),
				SourceType:  entity.LedgerSourceBulkOrderPayment,
				ReferenceID: p.ID,
				Payment:     p.Amount,
			})
		}
	}

	return buildStatement(q.SupplierID, supplierName, entity.SupplierTypePlatform, entries), nil
}

// customStatement covers a free-text supplier name: purchases whose recorded
// name matches the query after normalization.
func (uc *UseCase) customStatement(q StatementQuery) (*dto.SupplierStatementResponse, error) {
	txs, err := uc.purchaseRepo.ListTransactions(q.OrganizationID, q.BranchID)
	if err != nil {
		return nil, err
	}

	var entries []domledger.Entry
	for _, tx := range txs {
		if tx.SupplierID != "" {
			continue
		}
		if !domledger.MatchesSupplier(tx.SupplierName, q.SupplierName) {
			continue
		}
		more, err := uc.purchaseEntries(tx)
		if err != nil {
			return nil, err
		}
		entries = append(entries, more...)
	}

	return buildStatement("", q.SupplierName, entity.SupplierTypeCustom, entries), nil
}

// purchaseEntries turns one purchase transaction into ledger entries: the
// purchase itself (unless payment-only) plus one entry per recorded payment.
func (uc *UseCase) purchaseEntries(tx *entity.PurchaseTransaction) ([]domledger.Entry, error) {
	var entries []domledger.Entry
	if !tx.IsPaymentOnly() {
		desc := fmt.Sprintf("Purchase %s", tx.InvoiceNumber)
		if tx.InvoiceNumber == "" {
			desc = "Purchase"
		}
		entries = append(entries, domledger.Entry{
			Date:        tx.CreatedAt,
			Description: desc,
			SourceType:  entity.LedgerSourcePurchase,
			ReferenceID: tx.ID,
			Purchase:    tx.TotalAmount,
		})
	}
	payments, err := uc.purchaseRepo.ListPayments(tx.ID)
	if err != nil {
		return nil, err
	}
	for _, p := range payments {
		entries = append(entries, domledger.Entry{
			Date:        p.CreatedAt,
			Description: "Payment received",
			SourceType:  entity.LedgerSourcePurchasePayment,
			ReferenceID: p.ID,
			Payment:     p.PaidAmount,
		})
	}
	return entries, nil
}

// skipOrderOnStatement excludes orders that never became a commitment.
func skipOrderOnStatement(s entity.BulkOrderStatus) bool {
	switch s {
	case entity.BulkOrderDraft, entity.BulkOrderCancelled,
		entity.BulkOrderSupplierRejected, entity.BulkOrderBuyerCancelled:
		return true
	}
	return false
}

func buildStatement(supplierID, supplierName, supplierType string, entries []domledger.Entry) *dto.SupplierStatementResponse {
	lines, summary := domledger.Reconcile(entries)

	resp := &dto.SupplierStatementResponse{
		SupplierID:     supplierID,
		SupplierName:   supplierName,
		SupplierType:   supplierType,
		Entries:        make([]dto.LedgerEntryDTO, 0, len(lines)),
		TotalPurchases: summary.TotalPurchases,
		TotalPaid:      summary.TotalPaid,
		TotalCredit:    summary.TotalCredit,
	}
	for _, line := range lines {
		resp.Entries = append(resp.Entries, dto.LedgerEntryDTO{
			Date:           line.Date,
			Description:    line.Description,
			SourceType:     line.SourceType,
			ReferenceID:    line.ReferenceID,
			PurchaseAmount: line.Purchase,
			PaymentAmount:  line.Payment,
			RunningBalance: line.RunningBalance,
		})
	}
	return resp
}
