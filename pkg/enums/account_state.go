package enums

import "fmt"

// AccountState tracks the manual approval flow for new accounts.
type AccountState string

const (
	AccountStatePendiente AccountState = "pendiente"
	AccountStateAprobado  AccountState = "aprobado"
	AccountStateRechazado AccountState = "rechazado"
)

var validAccountStates = []AccountState{
	AccountStatePendiente,
	AccountStateAprobado,
	AccountStateRechazado,
}

// IsValid reports whether the value is a known AccountState.
func (a AccountState) IsValid() bool {
	for _, candidate := range validAccountStates {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAccountState converts raw input into an AccountState.
func ParseAccountState(value string) (AccountState, error) {
	for _, candidate := range validAccountStates {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid account state %q", value)
}
