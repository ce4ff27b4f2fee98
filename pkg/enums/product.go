package enums

// ProductType is the catalog key for a printable product. Pricing treats
// unknown keys as a generic product with the default base price, so the type
// carries no strict validation.
type ProductType string

const (
	ProductVisitingCard ProductType = "visiting-card"
	ProductFlyer        ProductType = "flyer"
	ProductBooklet      ProductType = "booklet"
	ProductPoster       ProductType = "poster"
	ProductForm         ProductType = "form"
	ProductEnvelope     ProductType = "envelope"
	ProductCalendar     ProductType = "calendar"
	ProductBadge        ProductType = "badge"
)

// CatalogProductTypes lists every product the storefront offers, in catalog order.
var CatalogProductTypes = []ProductType{
	ProductVisitingCard,
	ProductFlyer,
	ProductBooklet,
	ProductPoster,
	ProductForm,
	ProductEnvelope,
	ProductCalendar,
	ProductBadge,
}

// PaperType is the paper stock key used as a pricing input.
type PaperType string

const (
	PaperOffset PaperType = "offset"
	PaperCoated PaperType = "coated"
	PaperDesign PaperType = "design"
)

// ColorMode is the print color scheme key, e.g. "4+4" for two-sided full color.
type ColorMode string

const (
	ColorSingleSideMono ColorMode = "1+0"
	ColorDoubleSideMono ColorMode = "1+1"
	ColorSingleSideFull ColorMode = "4+0"
	ColorDoubleSideFull ColorMode = "4+4"
)
