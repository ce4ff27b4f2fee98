package pricing

import (
	"context"

	"github.com/printhub/printhub-backend/pkg/enums"
	pkgerrors "github.com/printhub/printhub-backend/pkg/errors"
	"github.com/printhub/printhub-backend/pkg/types"
	"github.com/shopspring/decimal"
)

// Factor tables mirror the storefront price list. Unknown keys fall back to
// the neutral multiplier so the calculator never rejects a tuple.
const (
	defaultBasePrice      = 500
	defaultFactor         = 1.0
	optionsSurchargeRatio = 0.2
	circulationUnit       = 100
)

var basePrices = map[enums.ProductType]int64{
	enums.ProductVisitingCard: 500,
	enums.ProductFlyer:        1200,
	enums.ProductBooklet:      2500,
	enums.ProductPoster:       800,
	enums.ProductForm:         1500,
	enums.ProductEnvelope:     600,
	enums.ProductCalendar:     2000,
	enums.ProductBadge:        400,
}

var paperTypeFactors = map[enums.PaperType]float64{
	enums.PaperOffset: 1.0,
	enums.PaperCoated: 1.2,
	enums.PaperDesign: 1.5,
}

var paperWeightFactors = map[string]float64{
	"130": 1.0,
	"170": 1.3,
	"250": 1.7,
	"300": 2.0,
}

var colorFactors = map[enums.ColorMode]float64{
	enums.ColorSingleSideMono: 1.0,
	enums.ColorDoubleSideMono: 1.5,
	enums.ColorSingleSideFull: 2.0,
	enums.ColorDoubleSideFull: 2.5,
}

var productNames = map[enums.ProductType]string{
	enums.ProductVisitingCard: "Визитки",
	enums.ProductFlyer:        "Листовки",
	enums.ProductBooklet:      "Брошюры",
	enums.ProductPoster:       "Плакаты",
	enums.ProductForm:         "Бланки",
	enums.ProductEnvelope:     "Конверты",
	enums.ProductCalendar:     "Календари",
	enums.ProductBadge:        "Бейджи",
}

// Quote is the priced breakdown for one configuration, in whole rubles.
type Quote struct {
	Base    int64 `json:"base"`
	Options int64 `json:"options"`
	Total   int64 `json:"total"`
}

// CatalogEntry is one orderable product with its starting price.
type CatalogEntry struct {
	Type      enums.ProductType `json:"type"`
	Name      string            `json:"name"`
	BasePrice int64             `json:"basePrice"`
}

// Service exposes the catalog and the deterministic price calculator.
type Service interface {
	Price(ctx context.Context, productType enums.ProductType, params types.PrintParams) (Quote, error)
	Catalog(ctx context.Context) []CatalogEntry
	ProductName(productType enums.ProductType) string
}

type service struct{}

// NewService builds the pricing service. It holds no state.
func NewService() Service {
	return service{}
}

// Price computes base × paper × weight × color × (circulation/100), then adds
// a flat 20% options surcharge. Amounts round half-up to whole rubles.
func (service) Price(ctx context.Context, productType enums.ProductType, params types.PrintParams) (Quote, error) {
	if params.Circulation <= 0 {
		return Quote{}, pkgerrors.New(pkgerrors.CodeValidation, "circulation must be positive")
	}

	base := decimal.NewFromInt(basePriceFor(productType)).
		Mul(factor(paperTypeFactors, params.PaperType)).
		Mul(factor(paperWeightFactors, params.PaperWeight)).
		Mul(factor(colorFactors, params.ColorMode)).
		Mul(decimal.NewFromInt(int64(params.Circulation)).Div(decimal.NewFromInt(circulationUnit)))

	options := base.Mul(decimal.NewFromFloat(optionsSurchargeRatio))
	total := base.Add(options)

	return Quote{
		Base:    base.Round(0).IntPart(),
		Options: options.Round(0).IntPart(),
		Total:   total.Round(0).IntPart(),
	}, nil
}

// Catalog returns the orderable products in catalog order.
func (service) Catalog(ctx context.Context) []CatalogEntry {
	entries := make([]CatalogEntry, 0, len(enums.CatalogProductTypes))
	for _, t := range enums.CatalogProductTypes {
		entries = append(entries, CatalogEntry{
			Type:      t,
			Name:      productNames[t],
			BasePrice: basePriceFor(t),
		})
	}
	return entries
}

// ProductName resolves the display name, falling back to the raw key.
func (service) ProductName(productType enums.ProductType) string {
	if name, ok := productNames[productType]; ok {
		return name
	}
	return string(productType)
}

func basePriceFor(productType enums.ProductType) int64 {
	if price, ok := basePrices[productType]; ok {
		return price
	}
	return defaultBasePrice
}

func factor[K comparable](table map[K]float64, key K) decimal.Decimal {
	if f, ok := table[key]; ok {
		return decimal.NewFromFloat(f)
	}
	return decimal.NewFromFloat(defaultFactor)
}
