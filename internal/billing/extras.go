package billing

import "gamelounge/internal/models"

// PriceExtras prices requested product lines against the catalog. Lines
// whose product is not in the catalog, or whose quantity is not positive,
// are dropped without error: the rest of the sale proceeds. Dropped lines
// never appear in the result and contribute nothing to the total.
func PriceExtras(lines []models.ExtraLineItem, catalog map[int64]models.Product) (models.Money, []models.ExtraLineResult) {
	var total models.Money
	var detail []models.ExtraLineResult

	for _, line := range lines {
		if line.Quantity <= 0 {
			continue
		}
		product, ok := catalog[line.ProductID]
		if !ok {
			continue
		}
		lineTotal := product.Price * models.Money(line.Quantity)
		detail = append(detail, models.ExtraLineResult{
			ProductID: product.ID,
			Name:      product.Name,
			UnitPrice: product.Price,
			Quantity:  line.Quantity,
			LineTotal: lineTotal,
		})
		total += lineTotal
	}
	return total, detail
}
