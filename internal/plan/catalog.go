package plan

import "slices"

// Canonical plan identifiers
const (
	Starter      = "starter"
	Professional = "professional"
	Enterprise   = "enterprise"
)

// GiftPlanName is the label reported when a decision is backed by gift credits.
const GiftPlanName = "Hediye Kredisi"

// Plan is a subscription tier. Plans are immutable once the catalog is built.
type Plan struct {
	ID                  string
	Name                string
	MonthlyVideoLimit   int
	MaxVideoDurationSec int
	PriceTRY            int
	PriceUSD            int
	Features            []string
}

// HasFeature reports whether the plan grants the feature tag.
func (p *Plan) HasFeature(featureID string) bool {
	return slices.Contains(p.Features, featureID)
}

// Catalog maps plan references to plans.
type Catalog struct {
	plans   map[string]*Plan
	order   []string
	aliases map[string]string
}

// NewCatalog builds a catalog. Plans keep the given order; every alias must
// point to one of them.
func NewCatalog(plans []*Plan, aliases map[string]string) *Catalog {
	c := &Catalog{
		plans:   make(map[string]*Plan, len(plans)),
		order:   make([]string, 0, len(plans)),
		aliases: make(map[string]string, len(aliases)),
	}
	for _, p := range plans {
		c.plans[p.ID] = p
		c.order = append(c.order, p.ID)
	}
	for ref, id := range aliases {
		c.aliases[ref] = id
	}
	return c
}

// Resolve maps a price/product/plan reference to its plan.
// A reference that is not an alias is tried as a plan id.
func (c *Catalog) Resolve(ref string) (*Plan, bool) {
	if ref == "" {
		return nil, false
	}
	id, ok := c.aliases[ref]
	if !ok {
		id = ref
	}
	p, ok := c.plans[id]
	return p, ok
}

// Plans returns every plan in tier order.
func (c *Catalog) Plans() []*Plan {
	out := make([]*Plan, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.plans[id])
	}
	return out
}

// DefaultCatalog returns the production plan catalog.
func DefaultCatalog() *Catalog {
	return NewCatalog(defaultPlans(), defaultAliases())
}

func defaultPlans() []*Plan {
	return []*Plan{
		{
			ID:                  Starter,
			Name:                "Starter",
			MonthlyVideoLimit:   20,
			MaxVideoDurationSec: 10,
			PriceTRY:            949,
			PriceUSD:            27,
			Features:            []string{"hd_video", "no_watermark", "basic_templates", "email_support", "video_10sec"},
		},
		{
			ID:                  Professional,
			Name:                "Professional",
			MonthlyVideoLimit:   45,
			MaxVideoDurationSec: 15,
			PriceTRY:            3799,
			PriceUSD:            108,
			Features:            []string{"hd_video", "no_watermark", "basic_templates", "premium_templates", "priority_support", "api_access", "video_15sec"},
		},
		{
			ID:                  Enterprise,
			Name:                "Business",
			MonthlyVideoLimit:   100,
			MaxVideoDurationSec: 15,
			PriceTRY:            8549,
			PriceUSD:            244,
			Features:            []string{"hd_video", "no_watermark", "basic_templates", "premium_templates", "dedicated_support", "api_access", "advanced_api", "white_label", "video_15sec"},
		},
	}
}

func defaultAliases() map[string]string {
	return map[string]string{
		Starter:      Starter,
		Professional: Professional,
		Enterprise:   Enterprise,

		// Iyzico products
		"iyzico_starter_monthly":      Starter,
		"iyzico_professional_monthly": Professional,
		"iyzico_enterprise_monthly":   Enterprise,
		"iyzico_starter":              Starter,
		"iyzico_professional":         Professional,
		"iyzico_enterprise":           Enterprise,

		// Legacy Stripe prices
		"price_1SI8r5IXoILZ7benDrZEtPLb": Starter,
		"price_starter_monthly":          Starter,
		"price_1SI93eIXoILZ7benaTtahoH7": Professional,
		"price_professional_monthly":     Professional,
		"price_1SI995IXoILZ7benbXtYoVJb": Enterprise,
		"price_enterprise_monthly":       Enterprise,

		"gift_1_video": Starter,
	}
}
