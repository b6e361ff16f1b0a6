package borrowing

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	circsvc "smartlibrary/service/circulation"
)

type Controller struct {
	Svc circsvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// Borrow takes one copy of a book
// @Summary      Borrow a book
// @Tags         borrowings
// @Accept       json
// @Produce      json
// @Param        bookId   path  int        true  "Book ID"
// @Param        payload  body  BorrowReq  true  "Borrower data"
// @Success      201  {object}  map[string]any
// @Failure      404  {object}  map[string]any "book not found"
// @Failure      409  {object}  map[string]any "out of stock"
// @Router       /api/books/{bookId}/borrow [post]
func (h *Controller) Borrow(c echo.Context) error {
	bookID, err := strconv.ParseInt(c.Param("bookId"), 10, 64)
	if err != nil || bookID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid book id"})
	}

	var req BorrowReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}

	out, err := h.Svc.Borrow(c.Request().Context(), bookID, req.Name, req.Phone, req.HandledBy)
	if err != nil {
		switch circsvc.Code(err) {
		case circsvc.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "book not found"})
		case circsvc.ErrOutOfStock:
			return c.JSON(http.StatusConflict, echo.Map{"message": "out of stock"})
		default:
			h.Log.Error("borrow", "err", err, "book_id", bookID)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to process borrow"})
		}
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message":   fmt.Sprintf("book %q borrowed", out.BookTitle),
		"borrowing": out.Borrowing,
		"newStock":  out.NewStock,
		"newStatus": out.NewStatus,
	})
}

// Return gives one copy back
// @Summary      Return a borrowed book
// @Tags         borrowings
// @Produce      json
// @Param        bookId       path  int  true  "Book ID"
// @Param        borrowingId  path  int  true  "Borrowing ID"
// @Success      204
// @Failure      404  {object}  map[string]any "borrowing not found"
// @Router       /api/books/{bookId}/borrowings/{borrowingId} [delete]
func (h *Controller) Return(c echo.Context) error {
	bookID, err := strconv.ParseInt(c.Param("bookId"), 10, 64)
	if err != nil || bookID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid book id"})
	}
	borrowingID, err := strconv.ParseInt(c.Param("borrowingId"), 10, 64)
	if err != nil || borrowingID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid borrowing id"})
	}

	if err := h.Svc.Return(c.Request().Context(), bookID, borrowingID); err != nil {
		switch circsvc.Code(err) {
		case circsvc.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "borrowing not found"})
		default:
			h.Log.Error("return", "err", err, "book_id", bookID, "borrowing_id", borrowingID)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to process return"})
		}
	}
	return c.NoContent(http.StatusNoContent)
}
