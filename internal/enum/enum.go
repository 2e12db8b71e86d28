package enum

// ── Order status state machine (CHECK constrained in DB) ──

const (
	OrderStatusQuote      = "QUOTE"
	OrderStatusApproved   = "APPROVED"
	OrderStatusInProgress = "IN_PROGRESS"
	OrderStatusFinalized  = "FINALIZED"
	OrderStatusCancelled  = "CANCELLED"
)

// OrderStatusLegacyQuote is the literal the pre-migration system stored for
// freshly opened orders. Migration 0002 rewrites it to QUOTE; the API must
// never write it.
const OrderStatusLegacyQuote = "ORCAMENTO"

const (
	ExpenseStatusPending = "PENDING"
	ExpenseStatusPaid    = "PAID"
)

// ── Roles (CHECK constrained in DB) ──

const (
	UserRoleAdmin     = "ADMIN"
	UserRoleAttendant = "ATTENDANT"
)

// ── Configurable labels (no DB constraint) ──

const (
	PaymentMethodCash       = "CASH"
	PaymentMethodPix        = "PIX"
	PaymentMethodCreditCard = "CREDIT_CARD"
	PaymentMethodDebitCard  = "DEBIT_CARD"
	PaymentMethodTransfer   = "TRANSFER"
)

// IsValidOrderStatus reports whether s is one of the caller-settable
// status literals.
func IsValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusQuote, OrderStatusApproved, OrderStatusInProgress,
		OrderStatusFinalized, OrderStatusCancelled:
		return true
	}
	return false
}

// IsValidPaymentMethod reports whether m is a known payment method label.
func IsValidPaymentMethod(m string) bool {
	switch m {
	case PaymentMethodCash, PaymentMethodPix, PaymentMethodCreditCard,
		PaymentMethodDebitCard, PaymentMethodTransfer:
		return true
	}
	return false
}
