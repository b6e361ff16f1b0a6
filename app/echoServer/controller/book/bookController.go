package book

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	catalogsvc "smartlibrary/service/catalog"
)

type Controller struct {
	Svc catalogsvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// GET /api/books
func (h *Controller) List(c echo.Context) error {
	books, err := h.Svc.List(c.Request().Context())
	if err != nil {
		h.Log.Error("book list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to fetch books"})
	}
	return c.JSON(http.StatusOK, books)
}

// POST /api/books
func (h *Controller) Create(c echo.Context) error {
	form, err := bindBookForm(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid form data"})
	}
	if err := h.V.Struct(form); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}

	cover, closeCover, err := coverFromRequest(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid cover file"})
	}
	defer closeCover()

	created, err := h.Svc.Create(c.Request().Context(), form.toModel(0), cover)
	if err != nil {
		h.Log.Error("book create", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to create book"})
	}
	return c.JSON(http.StatusCreated, created)
}

// PUT /api/books/:id
func (h *Controller) Update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}

	form, err := bindBookForm(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid form data"})
	}
	if err := h.V.Struct(form); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}

	cover, closeCover, err := coverFromRequest(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid cover file"})
	}
	defer closeCover()

	updated, err := h.Svc.Update(c.Request().Context(), form.toModel(id), cover, form.ExistingCover != "")
	if err != nil {
		if catalogsvc.Code(err) == catalogsvc.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "book not found"})
		}
		h.Log.Error("book update", "err", err, "book_id", id)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to update book"})
	}
	return c.JSON(http.StatusOK, updated)
}

// DELETE /api/books/:id
func (h *Controller) Delete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}

	if err := h.Svc.Delete(c.Request().Context(), id); err != nil {
		if catalogsvc.Code(err) == catalogsvc.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "book not found"})
		}
		h.Log.Error("book delete", "err", err, "book_id", id)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to delete book"})
	}
	return c.NoContent(http.StatusNoContent)
}

// coverFromRequest opens the optional cover_file part. The returned close func
// is always safe to defer; it releases the multipart file on every exit path.
func coverFromRequest(c echo.Context) (*catalogsvc.CoverFile, func(), error) {
	fh, err := c.FormFile("cover_file")
	if err != nil {
		// No file attached.
		return nil, func() {}, nil
	}
	src, err := fh.Open()
	if err != nil {
		return nil, func() {}, err
	}
	cover := &catalogsvc.CoverFile{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Reader:      src,
	}
	return cover, func() { _ = src.Close() }, nil
}
