package domain

// GroceryItem is a priced, stackable item. Names are unique within any one
// collection (store inventory, a cart, a player inventory); the name is the
// key used for all lookups and merges.
type GroceryItem struct {
	Name     string `json:"name"`
	Price    int    `json:"price"`
	Quantity int    `json:"quantity"`
}

// ItemStack is an unpriced quantity of a named item. Trading offers reference
// stacks rather than priced items because the two sides of a trade agree on
// goods, not on store prices.
type ItemStack struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// Inventory is the structure stored in the players.inventory JSONB column.
// An entry whose quantity reaches zero is removed rather than kept at zero.
type Inventory struct {
	Items      []GroceryItem `json:"items"`
	LastUpdate int64         `json:"last_update,omitempty"`
}

// Find returns the index of the named item, or -1 when absent.
func (inv *Inventory) Find(name string) int {
	for i, it := range inv.Items {
		if it.Name == name {
			return i
		}
	}
	return -1
}

// QuantityOf returns the held quantity of the named item (0 when absent).
func (inv *Inventory) QuantityOf(name string) int {
	if i := inv.Find(name); i >= 0 {
		return inv.Items[i].Quantity
	}
	return 0
}

// Clone returns a deep copy. Area snapshots rely on this to roll state back
// when persistence fails mid-command.
func (inv Inventory) Clone() Inventory {
	out := Inventory{LastUpdate: inv.LastUpdate}
	if inv.Items != nil {
		out.Items = make([]GroceryItem, len(inv.Items))
		copy(out.Items, inv.Items)
	}
	return out
}
