package billing

// BillingInfo is the complete billing block the gateway requires on every
// request. An Order stores a snapshot of it at charge time; that snapshot
// is the authoritative source for future recurring charges and is
// intentionally decoupled from the mutable user profile.
type BillingInfo struct {
	Email      string
	Phone      string
	Name       string
	Address    string
	City       string
	PostalCode string
	Country    string
}

// Default billing values used as the last fallback when neither a prior
// order snapshot nor the user profile carries a field. The gateway rejects
// requests with empty billing blocks, so these keep a charge viable.
const (
	DefaultPhone      = "0700000000"
	DefaultPostalCode = "010000"
	DefaultCity       = "București"
	DefaultCountry    = "Romania"
	DefaultAddress    = "N/A"
)

// MergeBilling fills empty fields of primary from fallback, field by field.
func MergeBilling(primary, fallback BillingInfo) BillingInfo {
	out := primary
	if out.Email == "" {
		out.Email = fallback.Email
	}
	if out.Phone == "" {
		out.Phone = fallback.Phone
	}
	if out.Name == "" {
		out.Name = fallback.Name
	}
	if out.Address == "" {
		out.Address = fallback.Address
	}
	if out.City == "" {
		out.City = fallback.City
	}
	if out.PostalCode == "" {
		out.PostalCode = fallback.PostalCode
	}
	if out.Country == "" {
		out.Country = fallback.Country
	}
	return out
}

// WithDefaults fills any still-empty fields with the hard defaults.
func (b BillingInfo) WithDefaults() BillingInfo {
	return MergeBilling(b, BillingInfo{
		Phone:      DefaultPhone,
		Address:    DefaultAddress,
		City:       DefaultCity,
		PostalCode: DefaultPostalCode,
		Country:    DefaultCountry,
	})
}
