// Package economy holds the pure mutation rules for the town's economic
// state: name-keyed collection arithmetic, cart totals and trading-offer
// validation. Nothing here touches persistence or locks; callers own both.
package economy

import (
	"fmt"

	"github.com/osse101/TownCommerce_Go/internal/domain"
)

// AddToCollection merges qty of the named item into a name-keyed collection,
// creating the entry when absent. The given price wins for a new entry and
// is left untouched for an existing one (prices are set by whoever owns the
// collection, not by the merge).
func AddToCollection(items []domain.GroceryItem, name string, price, qty int) []domain.GroceryItem {
	for i := range items {
		if items[i].Name == name {
			items[i].Quantity += qty
			return items
		}
	}
	return append(items, domain.GroceryItem{Name: name, Price: price, Quantity: qty})
}

// RemoveFromCollection debits qty of the named item. The entry is removed
// when its quantity reaches zero. Returns domain.ErrInsufficientItems when
// the collection holds fewer than qty.
func RemoveFromCollection(items []domain.GroceryItem, name string, qty int) ([]domain.GroceryItem, error) {
	for i := range items {
		if items[i].Name != name {
			continue
		}
		if items[i].Quantity < qty {
			return items, fmt.Errorf("%w: %s", domain.ErrInsufficientItems, name)
		}
		items[i].Quantity -= qty
		if items[i].Quantity == 0 {
			items = append(items[:i], items[i+1:]...)
		}
		return items, nil
	}
	return items, fmt.Errorf("%w: %s", domain.ErrInsufficientItems, name)
}

// QuantityIn returns the quantity of the named item in the collection.
func QuantityIn(items []domain.GroceryItem, name string) int {
	for _, it := range items {
		if it.Name == name {
			return it.Quantity
		}
	}
	return 0
}

// CartTotal computes the checkout total: sum of price times quantity over
// every cart entry.
func CartTotal(cart []domain.GroceryItem) int {
	total := 0
	for _, it := range cart {
		total += it.Price * it.Quantity
	}
	return total
}

// MergeItems merges src into dst by name, summing quantities. Used at
// checkout to fold a cart into a player's persistent inventory.
func MergeItems(dst, src []domain.GroceryItem) []domain.GroceryItem {
	for _, it := range src {
		dst = AddToCollection(dst, it.Name, it.Price, it.Quantity)
	}
	return dst
}

// RemoveItems debits every stack in src from dst, all-or-nothing: when any
// single debit would underflow, dst is returned unchanged with
// domain.ErrInsufficientItems.
func RemoveItems(dst []domain.GroceryItem, src []domain.GroceryItem) ([]domain.GroceryItem, error) {
	for _, it := range src {
		if QuantityIn(dst, it.Name) < it.Quantity {
			return dst, fmt.Errorf("%w: %s", domain.ErrInsufficientItems, it.Name)
		}
	}
	out := make([]domain.GroceryItem, len(dst))
	copy(out, dst)
	var err error
	for _, it := range src {
		out, err = RemoveFromCollection(out, it.Name, it.Quantity)
		if err != nil {
			// Unreachable after the pre-check; kept as a guard.
			return dst, err
		}
	}
	return out, nil
}

// ValidateOffer checks the static shape of a trading offer: both stacks must
// name an item and carry a positive quantity. Ownership of the offered items
// is the poster's inventory check, done separately.
func ValidateOffer(offered, desired domain.ItemStack) error {
	if offered.Name == "" || desired.Name == "" {
		return fmt.Errorf("%w: item name missing", domain.ErrInvalidOffer)
	}
	if offered.Quantity <= 0 || desired.Quantity <= 0 {
		return fmt.Errorf("%w: quantities must be positive", domain.ErrInvalidOffer)
	}
	return nil
}

// StackAsItems converts an ItemStack to a one-entry priced collection with a
// zero price, for moving traded goods through inventory arithmetic.
func StackAsItems(stack domain.ItemStack) []domain.GroceryItem {
	return []domain.GroceryItem{{Name: stack.Name, Quantity: stack.Quantity}}
}
