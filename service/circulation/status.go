package circulation

import "smartlibrary/model"

// borrowStatus derives availability after a borrow took one copy.
func borrowStatus(newStock int) model.BookStatus {
	if newStock > 0 {
		return model.StatusAvailable
	}
	return model.StatusBorrowed
}

// returnStatus derives availability after a return freed one copy. Unlike the
// borrow path it also keeps a book Available while loans are still
// outstanding, even at zero free copies. That extra OR looks like a bug, but
// it is the behavior callers have relied on; keep both formulas in this file
// so a deliberate change stays a one-liner.
func returnStatus(newStock, activeLoans int) model.BookStatus {
	if newStock > 0 || activeLoans > 0 {
		return model.StatusAvailable
	}
	return model.StatusBorrowed
}
