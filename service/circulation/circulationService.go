package circulation

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"smartlibrary/model"
	bookrepo "smartlibrary/repository/book"
	"smartlibrary/util/metrics"
)

// errors used by controllers

type ErrCode string

const (
	ErrNotFound   ErrCode = "NOT_FOUND"
	ErrOutOfStock ErrCode = "OUT_OF_STOCK"
)

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }
func makeErr(c ErrCode) error      { return codedError{code: c} }

// Code extracts error code
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

// BookStore is the slice of the book repository circulation needs: a locked
// read and the paired write, both bound to the coordinator's transaction.
type BookStore interface {
	LockForUpdate(ctx context.Context, tx *sql.Tx, bookID int64) (*bookrepo.LockedBook, error)
	UpdateStock(ctx context.Context, tx *sql.Tx, bookID int64, stock int, status model.BookStatus) error
}

// Ledger is the borrowing-ledger slice circulation mutates.
type Ledger interface {
	Insert(ctx context.Context, tx *sql.Tx, bookID int64, name, phone, handledBy string) (*model.Borrowing, error)
	DeleteMatching(ctx context.Context, tx *sql.Tx, borrowingID, bookID int64) (*model.Borrowing, error)
	CountActive(ctx context.Context, tx *sql.Tx, bookID int64) (int, error)
}

type BorrowResult struct {
	Borrowing *model.Borrowing
	BookTitle string
	NewStock  int
	NewStatus model.BookStatus
}

type Service interface {
	// Borrow takes one copy off the shelf and records who has it, atomically.
	Borrow(ctx context.Context, bookID int64, name, phone, handledBy string) (*BorrowResult, error)

	// Return deletes the borrowing matching (borrowingID, bookID) and puts the
	// copy back, atomically.
	Return(ctx context.Context, bookID, borrowingID int64) error
}

type service struct {
	db     *sql.DB
	books  BookStore
	ledger Ledger
	tracer trace.Tracer
}

func New(db *sql.DB, books BookStore, ledger Ledger) Service {
	return &service{
		db:     db,
		books:  books,
		ledger: ledger,
		tracer: otel.Tracer("smartlibrary/circulation"),
	}
}

// Borrow decrements stock and inserts the borrowing in one transaction. The
// row lock taken by LockForUpdate serializes rival borrows of the same book,
// so two callers can never both take the last copy.
func (s *service) Borrow(ctx context.Context, bookID int64, name, phone, handledBy string) (_ *BorrowResult, err error) {
	ctx, span := s.tracer.Start(ctx, "circulation.Borrow",
		trace.WithAttributes(attribute.Int64("book.id", bookID)))
	defer span.End()
	defer func() { metrics.Borrows.WithLabelValues(outcome(err)).Inc() }()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	book, err := s.books.LockForUpdate(ctx, tx, bookID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrNotFound)
		}
		return nil, err
	}
	if book.Stock <= 0 {
		err = makeErr(ErrOutOfStock)
		return nil, err
	}

	newStock := book.Stock - 1
	newStatus := borrowStatus(newStock)

	if err = s.books.UpdateStock(ctx, tx, bookID, newStock, newStatus); err != nil {
		// The stock CHECK constraint is a second line of defense behind the
		// row lock; hitting it still reads as out of stock to the caller.
		if isPgErr(err, pgerrcode.CheckViolation) {
			return nil, makeErr(ErrOutOfStock)
		}
		return nil, err
	}

	borrowing, err := s.ledger.Insert(ctx, tx, bookID, name, phone, handledBy)
	if err != nil {
		if isPgErr(err, pgerrcode.ForeignKeyViolation) {
			return nil, makeErr(ErrNotFound)
		}
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int64("borrowing.id", borrowing.ID))
	return &BorrowResult{
		Borrowing: borrowing,
		BookTitle: book.Title,
		NewStock:  newStock,
		NewStatus: newStatus,
	}, nil
}

// Return deletes the borrowing first so a mismatched (borrowingID, bookID)
// pair fails before anything is locked, then increments stock under the same
// row lock the borrow path uses.
func (s *service) Return(ctx context.Context, bookID, borrowingID int64) (err error) {
	ctx, span := s.tracer.Start(ctx, "circulation.Return",
		trace.WithAttributes(
			attribute.Int64("book.id", bookID),
			attribute.Int64("borrowing.id", borrowingID),
		))
	defer span.End()
	defer func() { metrics.Returns.WithLabelValues(outcome(err)).Inc() }()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = s.ledger.DeleteMatching(ctx, tx, borrowingID, bookID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return makeErr(ErrNotFound)
		}
		return err
	}

	book, err := s.books.LockForUpdate(ctx, tx, bookID)
	if err != nil {
		// Referential integrity makes this unreachable in practice, but a
		// vanished book must still roll the delete back.
		if errors.Is(err, sql.ErrNoRows) {
			return makeErr(ErrNotFound)
		}
		return err
	}

	newStock := book.Stock + 1
	active, err := s.ledger.CountActive(ctx, tx, bookID)
	if err != nil {
		return err
	}

	if err = s.books.UpdateStock(ctx, tx, bookID, newStock, returnStatus(newStock, active)); err != nil {
		return err
	}

	return tx.Commit()
}

func isPgErr(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

func outcome(err error) string {
	switch Code(err) {
	case "":
		if err != nil {
			return metrics.OutcomeError
		}
		return metrics.OutcomeOK
	case ErrNotFound:
		return metrics.OutcomeNotFound
	case ErrOutOfStock:
		return metrics.OutcomeOutOfStock
	default:
		return metrics.OutcomeError
	}
}
