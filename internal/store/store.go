// Package store holds the per-session cart and wishlist state.
package store

import (
	"sync"

	"github.com/shopspring/decimal"
)

// LineItem is one cart entry. There is at most one line per product.
type LineItem struct {
	ProductID string
	Title     string
	UnitPrice decimal.Decimal
	Quantity  int
	Image     string
}

// Subtotal returns unit price × quantity.
func (li LineItem) Subtotal() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// WishlistItem is one wishlist entry. There is at most one entry per product.
type WishlistItem struct {
	ProductID string
	Title     string
	Price     decimal.Decimal
	Image     string
}

// Snapshot is an immutable copy of a Store used for rendering.
type Snapshot struct {
	Lines    []LineItem
	Wishlist []WishlistItem
	Count    int
	Total    decimal.Decimal
}

// InCart reports whether the snapshot holds a line for the product.
func (s Snapshot) InCart(productID string) bool {
	_, ok := s.Line(productID)
	return ok
}

// Line returns the cart line for the product, if any.
func (s Snapshot) Line(productID string) (LineItem, bool) {
	for _, li := range s.Lines {
		if li.ProductID == productID {
			return li, true
		}
	}
	return LineItem{}, false
}

// InWishlist reports whether the product is on the wishlist.
func (s Snapshot) InWishlist(productID string) bool {
	for _, it := range s.Wishlist {
		if it.ProductID == productID {
			return true
		}
	}
	return false
}

// Store is the in-memory cart and wishlist of one session.
// Every operation is total: duplicate adds and absent removes are silent no-ops.
type Store struct {
	mu       sync.Mutex
	lines    []LineItem
	wishlist []WishlistItem
}

// New returns an empty store.
func New() *Store {
	return &Store{}
}

// AddToCart appends a line unless one already exists for the product; an existing
// line keeps its quantity. It reports whether the cart changed.
func (s *Store) AddToCart(item LineItem) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cartIndex(item.ProductID) >= 0 {
		return false
	}
	if item.Quantity < 1 {
		item.Quantity = 1
	}
	s.lines = append(s.lines, item)
	return true
}

// RemoveFromCart drops the line for the product and reports whether one existed.
func (s *Store) RemoveFromCart(productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.cartIndex(productID)
	if i < 0 {
		return false
	}
	s.lines = append(s.lines[:i:i], s.lines[i+1:]...)
	return true
}

// CartCount returns the sum of line quantities.
func (s *Store) CartCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count()
}

// CartTotal returns the sum of line subtotals.
func (s *Store) CartTotal() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total()
}

// InCart reports whether the product has a cart line.
func (s *Store) InCart(productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cartIndex(productID) >= 0
}

// AddToWishlist appends the item unless the product is already listed.
func (s *Store) AddToWishlist(item WishlistItem) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range s.wishlist {
		if it.ProductID == item.ProductID {
			return false
		}
	}
	s.wishlist = append(s.wishlist, item)
	return true
}

// Snapshot copies the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Lines:    append([]LineItem(nil), s.lines...),
		Wishlist: append([]WishlistItem(nil), s.wishlist...),
		Count:    s.count(),
		Total:    s.total(),
	}
}

func (s *Store) cartIndex(productID string) int {
	for i, li := range s.lines {
		if li.ProductID == productID {
			return i
		}
	}
	return -1
}

func (s *Store) count() int {
	n := 0
	for _, li := range s.lines {
		n += li.Quantity
	}
	return n
}

func (s *Store) total() decimal.Decimal {
	sum := decimal.Zero
	for _, li := range s.lines {
		sum = sum.Add(li.Subtotal())
	}
	return sum
}
