package circulation

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"smartlibrary/model"
	bookrepo "smartlibrary/repository/book"
)

// memStore is an in-memory stand-in for the Postgres repositories. Its fake
// driver serializes transactions the way the row lock does: begin blocks
// until the previous transaction commits or rolls back, and a rollback
// restores the snapshot taken at begin. Data methods ignore the *sql.Tx
// handle; the driver-level mutex is the transaction boundary.
type memStore struct {
	mu         sync.Mutex
	books      map[int64]*bookRow
	borrowings map[int64]model.Borrowing
	nextID     int64

	snapBooks      map[int64]bookRow
	snapBorrowings map[int64]model.Borrowing

	failInsert bool
}

type bookRow struct {
	stock  int
	status model.BookStatus
	title  string
}

func newMemStore() *memStore {
	return &memStore{
		books:      make(map[int64]*bookRow),
		borrowings: make(map[int64]model.Borrowing),
	}
}

func (s *memStore) begin() {
	s.mu.Lock()
	s.snapBooks = make(map[int64]bookRow, len(s.books))
	for id, b := range s.books {
		s.snapBooks[id] = *b
	}
	s.snapBorrowings = make(map[int64]model.Borrowing, len(s.borrowings))
	for id, b := range s.borrowings {
		s.snapBorrowings[id] = b
	}
}

func (s *memStore) finish(commit bool) {
	if !commit {
		s.books = make(map[int64]*bookRow, len(s.snapBooks))
		for id, b := range s.snapBooks {
			row := b
			s.books[id] = &row
		}
		s.borrowings = s.snapBorrowings
	}
	s.snapBooks, s.snapBorrowings = nil, nil
	s.mu.Unlock()
}

var _ BookStore = (*memStore)(nil)
var _ Ledger = (*memStore)(nil)

func (s *memStore) LockForUpdate(ctx context.Context, tx *sql.Tx, bookID int64) (*bookrepo.LockedBook, error) {
	b, ok := s.books[bookID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &bookrepo.LockedBook{Stock: b.stock, Status: b.status, Title: b.title}, nil
}

func (s *memStore) UpdateStock(ctx context.Context, tx *sql.Tx, bookID int64, stock int, status model.BookStatus) error {
	b, ok := s.books[bookID]
	if !ok {
		return sql.ErrNoRows
	}
	b.stock, b.status = stock, status
	return nil
}

func (s *memStore) Insert(ctx context.Context, tx *sql.Tx, bookID int64, name, phone, handledBy string) (*model.Borrowing, error) {
	if s.failInsert {
		return nil, errors.New("ledger insert failed")
	}
	s.nextID++
	b := model.Borrowing{ID: s.nextID, BookID: bookID, Name: name, Phone: phone, HandledBy: handledBy}
	s.borrowings[b.ID] = b
	return &b, nil
}

func (s *memStore) DeleteMatching(ctx context.Context, tx *sql.Tx, borrowingID, bookID int64) (*model.Borrowing, error) {
	b, ok := s.borrowings[borrowingID]
	if !ok || b.BookID != bookID {
		return nil, sql.ErrNoRows
	}
	delete(s.borrowings, borrowingID)
	return &b, nil
}

func (s *memStore) CountActive(ctx context.Context, tx *sql.Tx, bookID int64) (int, error) {
	n := 0
	for _, b := range s.borrowings {
		if b.BookID == bookID {
			n++
		}
	}
	return n, nil
}

// countActive reads outside any transaction, for assertions only.
func (s *memStore) countActive(bookID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, b := range s.borrowings {
		if b.BookID == bookID {
			n++
		}
	}
	return n
}

func (s *memStore) book(bookID int64) bookRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.books[bookID]
}

func (s *memStore) seedBook(id int64, stock int, status model.BookStatus, title string) {
	s.books[id] = &bookRow{stock: stock, status: status, title: title}
}

// --- fake driver ---

type memDriver struct{ store *memStore }

func (d *memDriver) Open(string) (driver.Conn, error) { return &memConn{store: d.store}, nil }

type memConn struct{ store *memStore }

func (c *memConn) Prepare(string) (driver.Stmt, error) {
	return nil, errors.New("statements not supported")
}
func (c *memConn) Close() error { return nil }
func (c *memConn) Begin() (driver.Tx, error) {
	c.store.begin()
	return &memTx{store: c.store}, nil
}

type memTx struct{ store *memStore }

func (t *memTx) Commit() error   { t.store.finish(true); return nil }
func (t *memTx) Rollback() error { t.store.finish(false); return nil }

var driverSeq atomic.Int64

// Each store gets its own one-off driver registration; sql.Register panics on
// duplicate names.
func newMemDB(s *memStore) *sql.DB {
	name := fmt.Sprintf("circulation-mem-%d", driverSeq.Add(1))
	sql.Register(name, &memDriver{store: s})
	db, err := sql.Open(name, "")
	if err != nil {
		panic(err)
	}
	return db
}

func newTestService(t *testing.T) (Service, *memStore) {
	t.Helper()
	store := newMemStore()
	db := newMemDB(store)
	t.Cleanup(func() { _ = db.Close() })
	return New(db, store, store), store
}
