package borrowrepo

import (
	"context"
	"database/sql"

	"smartlibrary/model"
)

type Repo interface {
	// Transactional ledger mutations. A borrowing row is the record of one
	// outstanding copy, so Insert/DeleteMatching must only ever be committed
	// together with the paired stock update in the same transaction.
	Insert(ctx context.Context, tx *sql.Tx, bookID int64, name, phone, handledBy string) (*model.Borrowing, error)
	DeleteMatching(ctx context.Context, tx *sql.Tx, borrowingID, bookID int64) (*model.Borrowing, error)
	CountActive(ctx context.Context, tx *sql.Tx, bookID int64) (int, error)

	// Read path for catalog responses.
	ListForBooks(ctx context.Context, bookIDs []int64) ([]model.Borrowing, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

func (r *repo) Insert(ctx context.Context, tx *sql.Tx, bookID int64, name, phone, handledBy string) (*model.Borrowing, error) {
	const q = `
		INSERT INTO borrowings (book_id, borrower_name, borrower_phone, handled_by_admin)
		VALUES ($1,$2,$3,$4)
		RETURNING id, book_id, borrower_name, borrower_phone, borrow_date, handled_by_admin`
	var b model.Borrowing
	err := tx.QueryRowContext(ctx, q, bookID, name, phone, handledBy).
		Scan(&b.ID, &b.BookID, &b.Name, &b.Phone, &b.Date, &b.HandledBy)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// DeleteMatching removes the borrowing only when both keys match, so a
// borrowing cannot be returned against the wrong book.
func (r *repo) DeleteMatching(ctx context.Context, tx *sql.Tx, borrowingID, bookID int64) (*model.Borrowing, error) {
	const q = `
		DELETE FROM borrowings
		WHERE id = $1 AND book_id = $2
		RETURNING id, book_id, borrower_name, borrower_phone, borrow_date, handled_by_admin`
	var b model.Borrowing
	err := tx.QueryRowContext(ctx, q, borrowingID, bookID).
		Scan(&b.ID, &b.BookID, &b.Name, &b.Phone, &b.Date, &b.HandledBy)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repo) CountActive(ctx context.Context, tx *sql.Tx, bookID int64) (int, error) {
	var n int
	err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM borrowings WHERE book_id = $1`, bookID,
	).Scan(&n)
	return n, err
}

func (r *repo) ListForBooks(ctx context.Context, bookIDs []int64) ([]model.Borrowing, error) {
	if len(bookIDs) == 0 {
		return nil, nil
	}
	const q = `
		SELECT id, book_id, borrower_name, borrower_phone, borrow_date, handled_by_admin
		FROM borrowings
		WHERE book_id = ANY($1)
		ORDER BY borrow_date ASC`
	rows, err := r.db.QueryContext(ctx, q, bookIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Borrowing
	for rows.Next() {
		var b model.Borrowing
		if err := rows.Scan(&b.ID, &b.BookID, &b.Name, &b.Phone, &b.Date, &b.HandledBy); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
