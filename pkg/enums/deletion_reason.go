package enums

import "fmt"

// DeletionReason is the closed set of reasons accepted on an account
// deletion request.
type DeletionReason string

const (
	DeletionReasonDisuse    DeletionReason = "Ya no uso la aplicacion"
	DeletionReasonPrivacy   DeletionReason = "Problemas de privacidad"
	DeletionReasonSwitching DeletionReason = "Cambio de plataforma"
	DeletionReasonPersonal  DeletionReason = "Razones personales"
	DeletionReasonOther     DeletionReason = "Otra"
)

var validDeletionReasons = []DeletionReason{
	DeletionReasonDisuse,
	DeletionReasonPrivacy,
	DeletionReasonSwitching,
	DeletionReasonPersonal,
	DeletionReasonOther,
}

// IsValid reports whether the value is a known DeletionReason.
func (d DeletionReason) IsValid() bool {
	for _, candidate := range validDeletionReasons {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDeletionReason converts raw input into a DeletionReason.
func ParseDeletionReason(value string) (DeletionReason, error) {
	for _, candidate := range validDeletionReasons {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid deletion reason %q", value)
}
