package enums

import "fmt"

// SpotType classifies a parking spot and drives its daily rate.
type SpotType string

const (
	SpotTypeStandard SpotType = "STANDARD"
	SpotTypePremium  SpotType = "PREMIUM"
	SpotTypeEV       SpotType = "EV"
	SpotTypeHandicap SpotType = "HANDICAP"
)

var validSpotTypes = []SpotType{
	SpotTypeStandard,
	SpotTypePremium,
	SpotTypeEV,
	SpotTypeHandicap,
}

// String implements fmt.Stringer.
func (s SpotType) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SpotType.
func (s SpotType) IsValid() bool {
	for _, candidate := range validSpotTypes {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSpotType converts raw input into a SpotType.
func ParseSpotType(value string) (SpotType, error) {
	for _, candidate := range validSpotTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid spot type %q", value)
}
