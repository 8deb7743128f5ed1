package valueobjects

// OrderOrigin distinguishes the first purchase of a subscription from the
// automatic recurring charges that follow it. It replaces the legacy
// practice of sniffing order-id prefixes.
type OrderOrigin string

const (
	OriginInitial   OrderOrigin = "initial"
	OriginRecurring OrderOrigin = "recurring"
)

func (o OrderOrigin) String() string {
	return string(o)
}

func (o OrderOrigin) IsRecurring() bool {
	return o == OriginRecurring
}

// LegacyPrefix returns the gateway-visible order-id prefix that matches
// this origin. The prefix is still written into new order ids for
// continuity with historical gateway records, but nothing parses it back.
func (o OrderOrigin) LegacyPrefix() string {
	if o == OriginRecurring {
		return "AUTO_REC_"
	}
	return "SUB_"
}

var ValidOrigins = map[OrderOrigin]bool{
	OriginInitial:   true,
	OriginRecurring: true,
}
