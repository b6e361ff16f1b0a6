package circulation

import (
	"context"
	"testing"

	"pgregory.net/rapid"
)

// The conservation invariant: for every book, committed stock plus active
// borrowings always equals the copies originally provisioned.
func TestInvariant_StockPlusLoansConserved(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ctx := context.Background()
		store := newMemStore()
		db := newMemDB(store)
		defer db.Close()
		svc := New(db, store, store)

		const bookID = 1
		provisioned := rapid.IntRange(0, 5).Draw(t, "provisioned")
		store.seedBook(bookID, provisioned, borrowStatus(provisioned), "X")

		var open []int64
		steps := rapid.IntRange(1, 40).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			if len(open) > 0 && rapid.Bool().Draw(t, "doReturn") {
				idx := rapid.IntRange(0, len(open)-1).Draw(t, "which")
				if err := svc.Return(ctx, bookID, open[idx]); err != nil {
					t.Fatalf("return failed: %v", err)
				}
				open = append(open[:idx], open[idx+1:]...)
			} else {
				out, err := svc.Borrow(ctx, bookID, "N", "P", "H")
				switch {
				case err == nil:
					open = append(open, out.Borrowing.ID)
				case Code(err) == ErrOutOfStock:
					if len(open) != provisioned {
						t.Fatalf("out of stock with %d of %d copies lent", len(open), provisioned)
					}
				default:
					t.Fatalf("borrow failed: %v", err)
				}
			}

			got := store.book(bookID)
			if got.stock < 0 {
				t.Fatalf("negative stock %d", got.stock)
			}
			if got.stock+store.countActive(bookID) != provisioned {
				t.Fatalf("conservation broken: stock=%d active=%d provisioned=%d",
					got.stock, store.countActive(bookID), provisioned)
			}
		}
	})
}
