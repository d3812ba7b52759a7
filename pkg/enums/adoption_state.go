package enums

import "fmt"

// AdoptionState is the availability state of a pet. It is derived from the
// set of non-terminal adoption requests referencing the pet.
type AdoptionState string

const (
	AdoptionStateDisponible AdoptionState = "Disponible"
	AdoptionStatePendiente  AdoptionState = "Pendiente"
	AdoptionStateAdoptado   AdoptionState = "Adoptado"
)

var validAdoptionStates = []AdoptionState{
	AdoptionStateDisponible,
	AdoptionStatePendiente,
	AdoptionStateAdoptado,
}

// String implements fmt.Stringer.
func (a AdoptionState) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AdoptionState.
func (a AdoptionState) IsValid() bool {
	for _, candidate := range validAdoptionStates {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAdoptionState converts raw input into an AdoptionState.
func ParseAdoptionState(value string) (AdoptionState, error) {
	for _, candidate := range validAdoptionStates {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid adoption state %q", value)
}
