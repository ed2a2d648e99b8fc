package domain

import "strings"

// AuditAction is the closed enumeration of auditable actions.
type AuditAction string

const (
	AuditLogin           AuditAction = "login"
	AuditLogout          AuditAction = "logout"
	AuditUserCreated     AuditAction = "user_created"
	AuditUserUpdated     AuditAction = "user_updated"
	AuditUserDeleted     AuditAction = "user_deleted"
	AuditPaymentCreated  AuditAction = "payment_created"
	AuditPaymentVerified AuditAction = "payment_verified"
	AuditPaymentRejected AuditAction = "payment_rejected"
	AuditPaymentDeleted  AuditAction = "payment_deleted"
	AuditExpenseCreated  AuditAction = "expense_created"
	AuditExpenseDeleted  AuditAction = "expense_deleted"
)

var validAuditActions = map[AuditAction]bool{
	AuditLogin:           true,
	AuditLogout:          true,
	AuditUserCreated:     true,
	AuditUserUpdated:     true,
	AuditUserDeleted:     true,
	AuditPaymentCreated:  true,
	AuditPaymentVerified: true,
	AuditPaymentRejected: true,
	AuditPaymentDeleted:  true,
	AuditExpenseCreated:  true,
	AuditExpenseDeleted:  true,
}

// IsValidAuditAction reports whether a is an enumerated action.
func IsValidAuditAction(a AuditAction) bool {
	return validAuditActions[a]
}

// IsPaymentAction reports whether a belongs to the payment_ action family.
func (a AuditAction) IsPaymentAction() bool {
	return strings.HasPrefix(string(a), "payment_")
}
