package domain

// CanSetQuantity reports whether a cart line may hold the desired quantity
// of a product. Pure predicate, consulted before every quantity mutation.
func CanSetQuantity(p Product, desired int) bool {
	return desired > 0 && desired <= p.StockQuantity
}
