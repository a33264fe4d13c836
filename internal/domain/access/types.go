package access

type Variant string

const (
	VariantThumbnail Variant = "thumbnail"
	VariantOriginal  Variant = "original"
)

type Decision string

const (
	Allowed Decision = "allowed"
	Denied  Decision = "denied"
)

func (d Decision) Allowed() bool { return d == Allowed }
