package enums

import "fmt"

// AddonStatus tracks an add-on service through its forward-only lifecycle.
type AddonStatus string

const (
	AddonStatusPending    AddonStatus = "PENDING"
	AddonStatusInProgress AddonStatus = "IN_PROGRESS"
	AddonStatusDone       AddonStatus = "DONE"
)

var validAddonStatuses = []AddonStatus{
	AddonStatusPending,
	AddonStatusInProgress,
	AddonStatusDone,
}

// String implements fmt.Stringer.
func (a AddonStatus) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AddonStatus.
func (a AddonStatus) IsValid() bool {
	for _, candidate := range validAddonStatuses {
		if candidate == a {
			return true
		}
	}
	return false
}

// Next returns the following status in the lifecycle. Returns DONE for
// DONE; callers treat that as an idempotent no-op.
func (a AddonStatus) Next() AddonStatus {
	switch a {
	case AddonStatusPending:
		return AddonStatusInProgress
	case AddonStatusInProgress:
		return AddonStatusDone
	default:
		return AddonStatusDone
	}
}

// ParseAddonStatus converts raw input into an AddonStatus.
func ParseAddonStatus(value string) (AddonStatus, error) {
	for _, candidate := range validAddonStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid addon status %q", value)
}
