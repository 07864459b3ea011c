package domain

import "strings"

// RateSource records where a resolved rate came from.
type RateSource string

const (
	RateSourceCache   RateSource = "cache"
	RateSourceTable   RateSource = "table"
	RateSourceDefault RateSource = "default"
)

const providerSourcePrefix = "provider:"

// ProviderSource returns the RateSource for a named external provider.
func ProviderSource(name string) RateSource {
	return RateSource(providerSourcePrefix + name)
}

// IsProvider reports whether the rate came from an external provider.
func (s RateSource) IsProvider() bool {
	return strings.HasPrefix(string(s), providerSourcePrefix)
}

// ValidSupplyTypes lists the accepted supply types.
var ValidSupplyTypes = map[SupplyType]bool{
	SupplyIntraState: true,
	SupplyInterState: true,
}

const (
	// DefaultGSTRate applies to codes and categories absent from the rate table.
	DefaultGSTRate = 18.0
	// DefaultDescription labels the default rate entry.
	DefaultDescription = "General merchandise"
	// PlaceholderHSN is carried by default entries for unmapped categories.
	PlaceholderHSN = "9999"
)
