package models

import (
	"testing"

	"github.com/google/uuid"
)

func item(title string, priceCents int64) LineItem {
	return LineItem{ListingID: uuid.New(), Title: title, PriceCents: priceCents}
}

func TestCart_Add(t *testing.T) {
	t.Run("first add creates a line with quantity 1", func(t *testing.T) {
		c := NewCart(uuid.New())
		it := item("print", 1000)

		c.Add(it)
		if len(c.Lines) != 1 || c.Quantity(it.ListingID) != 1 {
			t.Fatalf("expected one line qty 1, got %d lines", len(c.Lines))
		}
		if c.UpdatedAt.IsZero() {
			t.Fatal("add must touch UpdatedAt")
		}
	})

	t.Run("re-adding increments the existing line", func(t *testing.T) {
		c := NewCart(uuid.New())
		it := item("print", 1000)

		c.Add(it)
		c.Add(it)
		if len(c.Lines) != 1 {
			t.Fatalf("duplicate listing must not create a second line, got %d", len(c.Lines))
		}
		if got := c.Quantity(it.ListingID); got != 2 {
			t.Fatalf("expected quantity 2, got %d", got)
		}
	})

	t.Run("lines keep insertion order", func(t *testing.T) {
		c := NewCart(uuid.New())
		a, b := item("a", 100), item("b", 200)

		c.Add(a)
		c.Add(b)
		c.Add(a)
		if c.Lines[0].Item.ListingID != a.ListingID || c.Lines[1].Item.ListingID != b.ListingID {
			t.Fatal("incrementing a line must not reorder it")
		}
	})
}

func TestCart_SetQuantity(t *testing.T) {
	t.Run("sets an existing line", func(t *testing.T) {
		c := NewCart(uuid.New())
		it := item("print", 1000)
		c.Add(it)

		c.SetQuantity(it.ListingID, 5)
		if got := c.Quantity(it.ListingID); got != 5 {
			t.Fatalf("expected quantity 5, got %d", got)
		}
	})

	t.Run("zero removes the line", func(t *testing.T) {
		c := NewCart(uuid.New())
		it := item("print", 1000)
		c.Add(it)

		c.SetQuantity(it.ListingID, 0)
		if !c.Empty() {
			t.Fatal("quantity zero must remove the line entirely")
		}
	})

	t.Run("negative removes the line", func(t *testing.T) {
		c := NewCart(uuid.New())
		it := item("print", 1000)
		c.Add(it)

		c.SetQuantity(it.ListingID, -3)
		if !c.Empty() {
			t.Fatal("negative quantity must remove the line entirely")
		}
	})

	t.Run("absent listing is a no-op", func(t *testing.T) {
		c := NewCart(uuid.New())
		c.SetQuantity(uuid.New(), 3)
		if !c.Empty() {
			t.Fatal("setting quantity on an absent listing must not create a line")
		}
	})
}

func TestCart_Remove(t *testing.T) {
	c := NewCart(uuid.New())
	a, b := item("a", 100), item("b", 200)
	c.Add(a)
	c.Add(b)

	c.Remove(a.ListingID)
	if len(c.Lines) != 1 || c.Lines[0].Item.ListingID != b.ListingID {
		t.Fatal("expected only line b to remain")
	}

	// Removing again is a no-op.
	c.Remove(a.ListingID)
	if len(c.Lines) != 1 {
		t.Fatal("removing an absent listing must not change the cart")
	}
}

func TestCart_Totals(t *testing.T) {
	c := NewCart(uuid.New())
	a, b := item("a", 150), item("b", 1000)
	c.Add(a)
	c.Add(a)
	c.Add(b)

	if got := c.TotalCents(); got != 1300 {
		t.Fatalf("expected total 1300, got %d", got)
	}
	if got := c.ItemCount(); got != 3 {
		t.Fatalf("expected item count 3, got %d", got)
	}
}

func TestCart_Clear(t *testing.T) {
	c := NewCart(uuid.New())
	c.Add(item("a", 100))
	c.Clear()

	if !c.Empty() || c.TotalCents() != 0 || c.ItemCount() != 0 {
		t.Fatal("cleared cart must be empty with zero totals")
	}
}

func TestCart_snapshotPricesAreStable(t *testing.T) {
	c := NewCart(uuid.New())
	it := item("print", 1000)
	c.Add(it)

	// Mutating the caller's copy after add must not change the cart.
	it.PriceCents = 9999
	if got := c.TotalCents(); got != 1000 {
		t.Fatalf("cart must keep the add-time price, got total %d", got)
	}
}
