package enums

import "fmt"

// AccountRequestStatus is shared by role-change and account-deletion requests.
type AccountRequestStatus string

const (
	AccountRequestStatusPendiente AccountRequestStatus = "Pendiente"
	AccountRequestStatusAprobada  AccountRequestStatus = "Aprobada"
	AccountRequestStatusRechazada AccountRequestStatus = "Rechazada"
)

var validAccountRequestStatuses = []AccountRequestStatus{
	AccountRequestStatusPendiente,
	AccountRequestStatusAprobada,
	AccountRequestStatusRechazada,
}

// IsValid reports whether the value is a known AccountRequestStatus.
func (a AccountRequestStatus) IsValid() bool {
	for _, candidate := range validAccountRequestStatuses {
		if candidate == a {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the request has been decided.
func (a AccountRequestStatus) IsTerminal() bool {
	return a == AccountRequestStatusAprobada || a == AccountRequestStatusRechazada
}

// ParseAccountRequestStatus converts raw input into an AccountRequestStatus.
func ParseAccountRequestStatus(value string) (AccountRequestStatus, error) {
	for _, candidate := range validAccountRequestStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid account request status %q", value)
}
