package economy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/TownCommerce_Go/internal/domain"
)

func TestAddToCollection_NewAndExisting(t *testing.T) {
	items := AddToCollection(nil, "apple", 2, 3)
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
	assert.Equal(t, 2, items[0].Price)

	// Merging into an existing entry keeps the original price
	items = AddToCollection(items, "apple", 99, 2)
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
	assert.Equal(t, 2, items[0].Price)
}

func TestRemoveFromCollection_RemovesEntryAtZero(t *testing.T) {
	items := []domain.GroceryItem{{Name: "bread", Price: 3, Quantity: 2}}

	items, err := RemoveFromCollection(items, "bread", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, QuantityIn(items, "bread"))

	items, err = RemoveFromCollection(items, "bread", 1)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestRemoveFromCollection_Underflow(t *testing.T) {
	items := []domain.GroceryItem{{Name: "milk", Price: 4, Quantity: 1}}

	out, err := RemoveFromCollection(items, "milk", 2)
	assert.ErrorIs(t, err, domain.ErrInsufficientItems)
	assert.Equal(t, items, out)

	_, err = RemoveFromCollection(items, "eggs", 1)
	assert.ErrorIs(t, err, domain.ErrInsufficientItems)
}

func TestCartTotal(t *testing.T) {
	cart := []domain.GroceryItem{
		{Name: "apple", Price: 2, Quantity: 3},
		{Name: "milk", Price: 4, Quantity: 1},
	}
	assert.Equal(t, 10, CartTotal(cart))
	assert.Equal(t, 0, CartTotal(nil))
}

func TestMergeItems_SumsByName(t *testing.T) {
	inv := []domain.GroceryItem{{Name: "apple", Price: 2, Quantity: 1}}
	cart := []domain.GroceryItem{
		{Name: "apple", Price: 2, Quantity: 3},
		{Name: "bread", Price: 3, Quantity: 1},
	}

	inv = MergeItems(inv, cart)
	assert.Equal(t, 4, QuantityIn(inv, "apple"))
	assert.Equal(t, 1, QuantityIn(inv, "bread"))
}

func TestRemoveItems_AllOrNothing(t *testing.T) {
	inv := []domain.GroceryItem{
		{Name: "apple", Quantity: 2},
		{Name: "bread", Quantity: 1},
	}
	want := []domain.GroceryItem{
		{Name: "apple", Quantity: 1},
		{Name: "bread", Quantity: 2}, // more bread than held
	}

	out, err := RemoveItems(inv, want)
	assert.ErrorIs(t, err, domain.ErrInsufficientItems)
	// Nothing was debited
	assert.Equal(t, 2, QuantityIn(out, "apple"))
	assert.Equal(t, 1, QuantityIn(out, "bread"))
}

func TestRemoveItems_Success(t *testing.T) {
	inv := []domain.GroceryItem{
		{Name: "apple", Quantity: 2},
		{Name: "bread", Quantity: 2},
	}

	out, err := RemoveItems(inv, []domain.GroceryItem{
		{Name: "apple", Quantity: 2},
		{Name: "bread", Quantity: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, QuantityIn(out, "apple"))
	assert.Equal(t, 1, QuantityIn(out, "bread"))
}

func TestValidateOffer(t *testing.T) {
	err := ValidateOffer(domain.ItemStack{Name: "bread", Quantity: 2}, domain.ItemStack{Name: "milk", Quantity: 1})
	assert.NoError(t, err)

	err = ValidateOffer(domain.ItemStack{Name: "bread", Quantity: 0}, domain.ItemStack{Name: "milk", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidOffer)

	err = ValidateOffer(domain.ItemStack{Name: "bread", Quantity: 2}, domain.ItemStack{Name: "", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidOffer)

	err = ValidateOffer(domain.ItemStack{Name: "bread", Quantity: -1}, domain.ItemStack{Name: "milk", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidOffer)
}
