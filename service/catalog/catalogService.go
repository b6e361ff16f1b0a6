package catalog

import (
	"context"
	"database/sql"
	"errors"
	"io"

	"smartlibrary/model"
	coverrepo "smartlibrary/repository/cover"
)

// errors used by controllers

type ErrCode string

const (
	ErrNotFound ErrCode = "NOT_FOUND"
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

// CoverFile is an uploaded cover image. The caller owns the reader and closes
// it when the service returns; the service only streams it out.
type CoverFile struct {
	Name        string
	ContentType string
	Reader      io.Reader
}

type BookRepo interface {
	Insert(ctx context.Context, b *model.Book) error
	Update(ctx context.Context, b *model.Book) error
	Delete(ctx context.Context, id int64) error
	CoverURL(ctx context.Context, id int64) (*string, error)
	List(ctx context.Context) ([]model.Book, error)
}

type Ledger interface {
	ListForBooks(ctx context.Context, bookIDs []int64) ([]model.Borrowing, error)
}

type Service interface {
	// List returns all books, newest first, each with its active borrowers.
	List(ctx context.Context) ([]model.Book, error)

	// Create stores the cover (when given) and inserts the book.
	Create(ctx context.Context, b *model.Book, cover *CoverFile) (*model.Book, error)

	// Update rewrites the catalog fields. keepCover selects between the three
	// cover cases: a new file replaces the old object, keepCover leaves it,
	// neither clears it.
	Update(ctx context.Context, b *model.Book, cover *CoverFile, keepCover bool) (*model.Book, error)

	// Delete removes the book (borrowings cascade) and its cover object.
	Delete(ctx context.Context, id int64) error
}

type service struct {
	books  BookRepo
	ledger Ledger
	covers coverrepo.Store
}

func New(books BookRepo, ledger Ledger, covers coverrepo.Store) Service {
	return &service{books: books, ledger: ledger, covers: covers}
}

func (s *service) List(ctx context.Context) ([]model.Book, error) {
	books, err := s.books.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(books) == 0 {
		return []model.Book{}, nil
	}

	ids := make([]int64, len(books))
	byID := make(map[int64]*model.Book, len(books))
	for i := range books {
		ids[i] = books[i].ID
		byID[books[i].ID] = &books[i]
	}

	borrowings, err := s.ledger.ListForBooks(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, b := range borrowings {
		if book, ok := byID[b.BookID]; ok {
			b.BookID = 0 // omitted from the nested representation
			book.Borrowers = append(book.Borrowers, b)
		}
	}
	return books, nil
}

func (s *service) Create(ctx context.Context, b *model.Book, cover *CoverFile) (*model.Book, error) {
	if cover != nil {
		url, err := s.covers.Upload(ctx, cover.Name, cover.ContentType, cover.Reader)
		if err != nil {
			return nil, err
		}
		b.Cover = &url
	}
	if b.Status == "" {
		b.Status = model.StatusAvailable
	}
	if err := s.books.Insert(ctx, b); err != nil {
		return nil, err
	}
	b.Borrowers = []model.Borrowing{}
	return b, nil
}

func (s *service) Update(ctx context.Context, b *model.Book, cover *CoverFile, keepCover bool) (*model.Book, error) {
	oldCover, err := s.books.CoverURL(ctx, b.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrNotFound)
		}
		return nil, err
	}

	switch {
	case cover != nil:
		url, err := s.covers.Upload(ctx, cover.Name, cover.ContentType, cover.Reader)
		if err != nil {
			return nil, err
		}
		b.Cover = &url
		if oldCover != nil {
			if err := s.covers.Delete(ctx, *oldCover); err != nil {
				return nil, err
			}
		}
	case keepCover:
		b.Cover = oldCover
	default:
		b.Cover = nil
		if oldCover != nil {
			if err := s.covers.Delete(ctx, *oldCover); err != nil {
				return nil, err
			}
		}
	}

	if err := s.books.Update(ctx, b); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrNotFound)
		}
		return nil, err
	}

	b.Borrowers = []model.Borrowing{}
	borrowings, err := s.ledger.ListForBooks(ctx, []int64{b.ID})
	if err != nil {
		return nil, err
	}
	for _, br := range borrowings {
		br.BookID = 0
		b.Borrowers = append(b.Borrowers, br)
	}
	return b, nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	oldCover, err := s.books.CoverURL(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return makeErr(ErrNotFound)
		}
		return err
	}

	if err := s.books.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return makeErr(ErrNotFound)
		}
		return err
	}

	if oldCover != nil {
		return s.covers.Delete(ctx, *oldCover)
	}
	return nil
}
