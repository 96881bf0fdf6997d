package checkout

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/BaoHo205/Smart-Library-Platform-sub001/model"
	cs "github.com/BaoHo205/Smart-Library-Platform-sub001/service/checkout"
)

type Controller struct {
	Svc cs.Service
	V   *validator.Validate
	Log *slog.Logger
}

func isAdmin(c echo.Context) bool {
	role, _ := c.Get("role").(string)
	return role == "admin"
}

func toItem(rec *model.CheckoutRecord) CheckoutItem {
	return CheckoutItem{
		ID:           rec.ID,
		BookID:       rec.BookID,
		CheckoutDate: rec.CheckoutDate,
		DueDate:      rec.DueDate,
		ReturnDate:   rec.ReturnDate,
		IsReturned:   rec.IsReturned,
		IsLate:       rec.IsLate,
	}
}

// POST /v1/borrow/:bookId
// @Summary      Borrow a copy of a book
// @Tags         checkouts
// @Accept       json
// @Produce      json
// @Param        bookId   path  int        true   "Book ID"
// @Param        payload  body  BorrowReq  false  "Optional; due_date is server-computed and ignored"
// @Success      201  {object}  CheckoutItem
// @Failure      404  {object}  map[string]any "book not found"
// @Failure      409  {object}  map[string]any "out of stock / already borrowed"
// @Router       /v1/borrow/{bookId} [post]
func (h *Controller) Borrow(c echo.Context) error {
	bookID, err := strconv.ParseInt(c.Param("bookId"), 10, 64)
	if err != nil || bookID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid book id"})
	}
	var req BorrowReq
	_ = c.Bind(&req) // body is optional and its due_date is ignored

	uid, _ := c.Get("user_id").(int64)

	rec, err := h.Svc.Borrow(c.Request().Context(), uid, bookID)
	if err != nil {
		switch cs.Code(err) {
		case cs.ErrOutOfStock:
			return c.JSON(http.StatusConflict, echo.Map{"message": "no copies available"})
		case cs.ErrDuplicateLoan:
			return c.JSON(http.StatusConflict, echo.Map{"message": "book already borrowed by this user"})
		case cs.ErrBookNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "book not found"})
		default:
			h.Log.Error("borrow", "user_id", uid, "book_id", bookID, "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusCreated, toItem(rec))
}

// PUT /v1/return/:bookId
// @Summary      Return a borrowed book
// @Tags         checkouts
// @Produce      json
// @Param        bookId  path  int  true  "Book ID"
// @Success      200  {object}  CheckoutItem
// @Failure      404  {object}  map[string]any "no active loan"
// @Router       /v1/return/{bookId} [put]
func (h *Controller) Return(c echo.Context) error {
	bookID, err := strconv.ParseInt(c.Param("bookId"), 10, 64)
	if err != nil || bookID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid book id"})
	}
	uid, _ := c.Get("user_id").(int64)

	rec, err := h.Svc.Return(c.Request().Context(), uid, bookID)
	if err != nil {
		switch cs.Code(err) {
		case cs.ErrNoActiveLoan:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "no active loan for this book"})
		case cs.ErrIntegrity:
			h.Log.Error("return hit integrity violation", "user_id", uid, "book_id", bookID)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		default:
			h.Log.Error("return", "user_id", uid, "book_id", bookID, "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, toItem(rec))
}

// GET /v1/checkouts/:userId
// @Summary      List a user's checkouts, newest first
// @Tags         checkouts
// @Produce      json
// @Param        userId  path  int  true  "User ID"
// @Success      200  {object}  map[string]any
// @Router       /v1/checkouts/{userId} [get]
func (h *Controller) ListForUser(c echo.Context) error {
	userID, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil || userID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid user id"})
	}
	uid, _ := c.Get("user_id").(int64)
	if userID != uid && !isAdmin(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}

	rows, err := h.Svc.ListForUser(c.Request().Context(), userID)
	if err != nil {
		h.Log.Error("list checkouts", "user_id", userID, "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	items := make([]CheckoutItem, 0, len(rows))
	for i := range rows {
		items = append(items, toItem(&rows[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"data": items})
}

// GET /v1/books/:id/availability
// @Summary      Availability snapshot for one book
// @Tags         books
// @Produce      json
// @Param        id  path  int  true  "Book ID"
// @Success      200  {object}  model.BookAvailability
// @Router       /v1/books/{id}/availability [get]
func (h *Controller) Availability(c echo.Context) error {
	bookID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || bookID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid book id"})
	}
	av, err := h.Svc.Availability(c.Request().Context(), bookID)
	if err != nil {
		if cs.Code(err) == cs.ErrBookNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "book not found"})
		}
		h.Log.Error("availability", "book_id", bookID, "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, av)
}
