package enums

import (
	"fmt"
	"strings"
)

// RequestStatus is the lifecycle state of an adoption request.
type RequestStatus string

const (
	RequestStatusEnviada   RequestStatus = "Enviada"
	RequestStatusRevisando RequestStatus = "Revisando"
	RequestStatusAprobada  RequestStatus = "Aprobada"
	RequestStatusRechazada RequestStatus = "Rechazada"
	RequestStatusCancelada RequestStatus = "Cancelada"
)

var validRequestStatuses = []RequestStatus{
	RequestStatusEnviada,
	RequestStatusRevisando,
	RequestStatusAprobada,
	RequestStatusRechazada,
	RequestStatusCancelada,
}

// String implements fmt.Stringer.
func (r RequestStatus) String() string {
	return string(r)
}

// IsValid reports whether the value is a known RequestStatus.
func (r RequestStatus) IsValid() bool {
	for _, candidate := range validRequestStatuses {
		if candidate == r {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are allowed.
func (r RequestStatus) IsTerminal() bool {
	switch r {
	case RequestStatusAprobada, RequestStatusRechazada, RequestStatusCancelada:
		return true
	default:
		return false
	}
}

// ParseRequestStatus converts raw input into a RequestStatus.
func ParseRequestStatus(value string) (RequestStatus, error) {
	for _, candidate := range validRequestStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid request status %q", value)
}

var decisionStatuses = []RequestStatus{
	RequestStatusAprobada,
	RequestStatusRechazada,
	RequestStatusCancelada,
}

// ParseRequestDecision normalizes a case-insensitive decision value into one of
// the terminal statuses a reviewer may set. Any other value is rejected before
// lifecycle logic runs.
func ParseRequestDecision(value string) (RequestStatus, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range decisionStatuses {
		if strings.ToLower(string(candidate)) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid request decision %q", value)
}
