package access

import (
	"proofing-app/internal/domain/payments"
	"proofing-app/internal/domain/selections"
)

// CapabilitiesFor lists what the gallery UI may offer a visitor.
func CapabilitiesFor(state selections.State, status payments.Status) []string {
	caps := []string{"browse"}

	switch state {
	case selections.StateUnidentified:
		return append(caps, "identify")
	case selections.StateBrowsing:
		caps = append(caps, "select", "finish")
	case selections.StateFinalized:
		caps = append(caps, "review")
	}

	if Decide(VariantOriginal, status).Allowed() {
		caps = append(caps, "download_originals")
	}
	return caps
}
