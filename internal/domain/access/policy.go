package access

import "proofing-app/internal/domain/payments"

// Decide is the whole access rule: thumbnails are always served, originals
// only once the order is paid.
func Decide(variant Variant, status payments.Status) Decision {
	switch variant {
	case VariantThumbnail:
		return Allowed
	case VariantOriginal:
		if status == payments.StatusPaid {
			return Allowed
		}
		return Denied
	default:
		return Denied
	}
}
