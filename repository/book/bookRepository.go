package bookrepo

import (
	"context"
	"database/sql"

	"smartlibrary/model"
)

// LockedBook holds the mutable fields read under the row lock.
type LockedBook struct {
	Stock  int
	Status model.BookStatus
	Title  string
}

type Repo interface {
	// Circulation path. Both methods must run inside the caller's transaction;
	// LockForUpdate blocks concurrent lockers of the same row until commit.
	LockForUpdate(ctx context.Context, tx *sql.Tx, bookID int64) (*LockedBook, error)
	UpdateStock(ctx context.Context, tx *sql.Tx, bookID int64, stock int, status model.BookStatus) error

	// Catalog path.
	Insert(ctx context.Context, b *model.Book) error
	Update(ctx context.Context, b *model.Book) error
	Delete(ctx context.Context, id int64) error
	CoverURL(ctx context.Context, id int64) (*string, error)
	List(ctx context.Context) ([]model.Book, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

func (r *repo) LockForUpdate(ctx context.Context, tx *sql.Tx, bookID int64) (*LockedBook, error) {
	const q = `
		SELECT stock, status, title
		FROM books
		WHERE id = $1
		FOR UPDATE`
	var lb LockedBook
	if err := tx.QueryRowContext(ctx, q, bookID).Scan(&lb.Stock, &lb.Status, &lb.Title); err != nil {
		return nil, err
	}
	return &lb, nil
}

func (r *repo) UpdateStock(ctx context.Context, tx *sql.Tx, bookID int64, stock int, status model.BookStatus) error {
	const q = `
		UPDATE books
		SET stock = $1, status = $2
		WHERE id = $3`
	_, err := tx.ExecContext(ctx, q, stock, status, bookID)
	return err
}

func (r *repo) Insert(ctx context.Context, b *model.Book) error {
	const q = `
		INSERT INTO books (title, author, publisher, year, category, cover, stock, description, status, added_by_admin)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING id`
	return r.db.QueryRowContext(ctx, q,
		b.Title, b.Author, b.Publisher, b.Year, b.Category,
		b.Cover, b.Stock, b.Description, b.Status, b.AddedBy,
	).Scan(&b.ID)
}

func (r *repo) Update(ctx context.Context, b *model.Book) error {
	const q = `
		UPDATE books SET
			title = $1, author = $2, publisher = $3, year = $4, category = $5,
			cover = $6, stock = $7, description = $8, status = $9, added_by_admin = $10
		WHERE id = $11
		RETURNING id`
	return r.db.QueryRowContext(ctx, q,
		b.Title, b.Author, b.Publisher, b.Year, b.Category,
		b.Cover, b.Stock, b.Description, b.Status, b.AddedBy, b.ID,
	).Scan(&b.ID)
}

func (r *repo) Delete(ctx context.Context, id int64) error {
	// Borrowings go with the book via ON DELETE CASCADE.
	res, err := r.db.ExecContext(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return err
	}
	aff, _ := res.RowsAffected()
	if aff == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *repo) CoverURL(ctx context.Context, id int64) (*string, error) {
	var cover *string
	err := r.db.QueryRowContext(ctx, `SELECT cover FROM books WHERE id = $1`, id).Scan(&cover)
	if err != nil {
		return nil, err
	}
	return cover, nil
}

func (r *repo) List(ctx context.Context) ([]model.Book, error) {
	const q = `
		SELECT id, title, author, publisher, year, category, cover, description, stock, status, added_by_admin
		FROM books
		ORDER BY id DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Book
	for rows.Next() {
		var b model.Book
		if err := rows.Scan(
			&b.ID, &b.Title, &b.Author, &b.Publisher, &b.Year, &b.Category,
			&b.Cover, &b.Description, &b.Stock, &b.Status, &b.AddedBy,
		); err != nil {
			return nil, err
		}
		b.Borrowers = []model.Borrowing{}
		out = append(out, b)
	}
	return out, rows.Err()
}
