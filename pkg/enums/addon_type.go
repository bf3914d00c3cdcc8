package enums

import "fmt"

// AddonType identifies an add-on service sold on top of a booking.
type AddonType string

const (
	AddonTypeCarWash    AddonType = "CAR_WASH"
	AddonTypeEVCharging AddonType = "EV_CHARGING"
)

var validAddonTypes = []AddonType{
	AddonTypeCarWash,
	AddonTypeEVCharging,
}

// String implements fmt.Stringer.
func (a AddonType) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AddonType.
func (a AddonType) IsValid() bool {
	for _, candidate := range validAddonTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAddonType converts raw input into an AddonType.
func ParseAddonType(value string) (AddonType, error) {
	for _, candidate := range validAddonTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid addon type %q", value)
}
