package models

// BillingType is the purchase state carried by a license token.
type BillingType string

const (
	BillingLimited   BillingType = "limited"
	BillingSubscribe BillingType = "subscribe"
	BillingLifetime  BillingType = "lifetime"
)

func ParseBillingType(raw string) BillingType {
	switch BillingType(raw) {
	case BillingSubscribe, BillingLifetime:
		return BillingType(raw)
	}
	return BillingLimited
}

// Entitlement is the read-only capability handed to services that gate features.
// The zero value is limited.
type Entitlement struct {
	Billing BillingType `json:"billing"`
}

func (e Entitlement) IsPremium() bool {
	return e.Billing == BillingSubscribe || e.Billing == BillingLifetime
}

// Limited reports whether premium-only screens should render in limited mode.
func (e Entitlement) Limited() bool {
	return !e.IsPremium()
}
