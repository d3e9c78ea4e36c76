// Package pricing applies supplier tariffs, levies, and VAT to parsed
// market prices, producing the consumption and injection price sets that
// get published.
package pricing

// Default cost parameters, in EUR/kWh unless noted otherwise. The
// multiplier and deduction defaults reflect the supplier's 2% margin and
// fixed fee; the remaining levies are the Flemish residential defaults.
const (
	DefaultConsumptionMultiplier = 1.02
	DefaultSupplierCost          = 0.004
	DefaultInjectionMultiplier   = 0.98
	DefaultInjectionDeduction    = 0.015

	DefaultGreenCertificates  = 0.011
	DefaultCHPCertificates    = 0.0039
	DefaultDistributionCost   = 0.0589
	DefaultEnergyContribution = 0.0019
	DefaultExciseTax          = 0.0475
	DefaultVATRate            = 6.0 // percent
)

// CostParameters holds every cost component applied on top of the raw
// market price. Treated as read-only input; a fresh value is supplied for
// each cycle.
type CostParameters struct {
	ConsumptionMultiplier float64
	SupplierCost          float64
	InjectionMultiplier   float64
	InjectionDeduction    float64

	GreenCertificates  float64
	CHPCertificates    float64
	DistributionCost   float64
	EnergyContribution float64
	ExciseTax          float64
	VATRate            float64
}

// DefaultCostParameters returns the documented defaults for every field.
func DefaultCostParameters() CostParameters {
	return CostParameters{
		ConsumptionMultiplier: DefaultConsumptionMultiplier,
		SupplierCost:          DefaultSupplierCost,
		InjectionMultiplier:   DefaultInjectionMultiplier,
		InjectionDeduction:    DefaultInjectionDeduction,
		GreenCertificates:     DefaultGreenCertificates,
		CHPCertificates:       DefaultCHPCertificates,
		DistributionCost:      DefaultDistributionCost,
		EnergyContribution:    DefaultEnergyContribution,
		ExciseTax:             DefaultExciseTax,
		VATRate:               DefaultVATRate,
	}
}

// fixedCosts sums the per-kWh cost components added before VAT.
func (p CostParameters) fixedCosts() float64 {
	return p.SupplierCost +
		p.GreenCertificates +
		p.CHPCertificates +
		p.DistributionCost +
		p.EnergyContribution +
		p.ExciseTax
}
