package optimizer

import "math"

// Evaluate computes the billing of a single package. The billable weight is
// the total weight rounded up to the next whole unit; the delivery fee applies
// only when the total weight is strictly below the minimum delivery weight.
func Evaluate(pkg Package, params Params) CostInfo {
	return evaluateWeight(pkg.Weight(), params)
}

func evaluateWeight(total float64, params Params) CostInfo {
	billable := int(math.Ceil(total))
	cost := float64(billable) * params.UnitCost
	if total < params.MinDeliveryWeight {
		cost += params.DeliveryFee
	}
	return CostInfo{
		Cost:           cost,
		BillableWeight: billable,
		TotalWeight:    total,
	}
}
