package book

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"smartlibrary/model"
)

// bookForm is the multipart payload shared by create and update. Everything
// except the title is optional passthrough catalog data.
type bookForm struct {
	Title         string `validate:"required"`
	Author        string
	Publisher     string
	Year          *int
	Category      string
	Stock         int `validate:"gte=0"`
	Description   string
	Status        string
	AddedBy       string
	ExistingCover string
}

func bindBookForm(c echo.Context) (*bookForm, error) {
	f := &bookForm{
		Title:         c.FormValue("title"),
		Author:        c.FormValue("author"),
		Publisher:     c.FormValue("publisher"),
		Category:      c.FormValue("category"),
		Description:   c.FormValue("description"),
		Status:        c.FormValue("status"),
		AddedBy:       c.FormValue("added_by_admin"),
		ExistingCover: c.FormValue("existing_cover"),
	}
	if v := c.FormValue("year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil {
			return nil, err
		}
		f.Year = &y
	}
	if v := c.FormValue("stock"); v != "" {
		s, err := strconv.Atoi(v)
		if err != nil {
			return nil, err
		}
		f.Stock = s
	}
	return f, nil
}

func (f *bookForm) toModel(id int64) *model.Book {
	return &model.Book{
		ID:          id,
		Title:       f.Title,
		Author:      optional(f.Author),
		Publisher:   optional(f.Publisher),
		Year:        f.Year,
		Category:    optional(f.Category),
		Stock:       f.Stock,
		Description: optional(f.Description),
		Status:      model.BookStatus(f.Status),
		AddedBy:     optional(f.AddedBy),
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
