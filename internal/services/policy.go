package services

import "agromart/internal/models"

// Action names an operation gated by the authorization policy.
type Action string

const (
	ActionManageCatalog   Action = "catalog.manage"   // create own products
	ActionEditProduct     Action = "product.edit"     // update/delete a specific product
	ActionPlaceOrder      Action = "order.place"      // place an order as a buyer
	ActionViewOrder       Action = "order.view"       // read a specific order
	ActionUpdateOrder     Action = "order.transition" // move an order through its lifecycle
	ActionViewSellerFeed  Action = "orders.seller"    // seller-scoped order listing
	ActionViewAllOrders   Action = "orders.all"       // platform-wide order listing
	ActionViewPlatformOps Action = "platform.operate" // remaining admin-only surface
)

// roleGates maps role-gated actions to the role they require. Owner-scoped
// actions are not listed here; they are decided by the ownership check.
var roleGates = map[Action]models.Role{
	ActionManageCatalog:   models.RoleSeller,
	ActionPlaceOrder:      models.RoleBuyer,
	ActionViewSellerFeed:  models.RoleSeller,
	ActionViewAllOrders:   models.RoleAdmin,
	ActionViewPlatformOps: models.RoleAdmin,
}

// ownerScoped marks actions decided by resource ownership rather than role.
var ownerScoped = map[Action]bool{
	ActionEditProduct: true,
	ActionViewOrder:   true,
}

// Allow is the policy decision function. Precedence: admin allows
// everything; owner-scoped actions allow iff the caller owns the resource;
// role-gated actions allow iff the role matches; everything else is denied.
// Deny is a normal outcome, not an error.
func Allow(caller Caller, action Action, resourceOwnerID string) bool {
	if caller.Role == models.RoleAdmin {
		return true
	}
	if ownerScoped[action] {
		return resourceOwnerID != "" && caller.ID == resourceOwnerID
	}
	if required, ok := roleGates[action]; ok {
		return caller.Role == required
	}
	return false
}

// OrderVisibility returns the predicate narrowing a heterogeneous order
// listing to what the caller may see: admins see everything, buyers see
// their own orders. Sellers have no order-level predicate; their view is
// derived per line item by the scoping engine instead.
func OrderVisibility(caller Caller) func(models.Order) bool {
	switch caller.Role {
	case models.RoleAdmin:
		return func(models.Order) bool { return true }
	case models.RoleBuyer:
		return func(o models.Order) bool { return o.BuyerID == caller.ID }
	default:
		return func(models.Order) bool { return false }
	}
}

// FilterOrders applies a visibility predicate, preserving input order.
func FilterOrders(orders []models.Order, visible func(models.Order) bool) []models.Order {
	out := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if visible(o) {
			out = append(out, o)
		}
	}
	return out
}
