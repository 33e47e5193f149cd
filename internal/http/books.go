package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bookhive/bookhive/internal/database/catalog"
)

// BooksController serves the catalog pages. Admins manage the catalog,
// members borrow and cancel; each role's actions are rejected for the
// other before touching the store.
type BooksController struct {
	store CatalogStore
}

// NewBooksController creates a new catalog page controller.
func NewBooksController(store CatalogStore) *BooksController {
	return &BooksController{store: store}
}

// BooksPage renders the catalog listing, filtered by the search query.
func (controller *BooksController) BooksPage(c *gin.Context) {
	controller.renderBooks(c, "")
}

// HandleBookAction dispatches the catalog form actions. The form carries
// exactly one of add, delete, borrow or cancel; delete, borrow and cancel
// hold the book id as their value.
func (controller *BooksController) HandleBookAction(c *gin.Context) {
	isAdmin := GetAuthTemplateData(c).IsAdmin

	var msg string
	switch {
	case c.PostForm("add") != "":
		if !isAdmin {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		msg = controller.addBook(c)
	case c.PostForm("delete") != "":
		if !isAdmin {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		msg = controller.deleteBook(c)
	case c.PostForm("borrow") != "":
		if isAdmin {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		msg = controller.borrowBook(c)
	case c.PostForm("cancel") != "":
		if isAdmin {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		msg = controller.cancelBorrow(c)
	}
	if c.IsAborted() {
		return
	}

	controller.renderBooks(c, msg)
}

func (controller *BooksController) addBook(c *gin.Context) string {
	quantity, err := strconv.Atoi(c.PostForm("quantity"))
	if err != nil {
		return "Quantity must be a number!"
	}

	_, err = controller.store.AddBook(c.PostForm("title"), c.PostForm("author"), quantity)
	switch {
	case errors.Is(err, catalog.ErrTitleRequired):
		return "Title is required!"
	case errors.Is(err, catalog.ErrNegativeQuantity):
		return "Quantity must not be negative!"
	case err != nil:
		respondInternalError(c, err, "add book")
		c.Abort()
		return ""
	}
	return "Book added!"
}

func (controller *BooksController) deleteBook(c *gin.Context) string {
	id, ok := parseFormID(c, "delete")
	if !ok {
		return "Invalid book!"
	}
	if err := controller.store.DeleteBook(id); err != nil {
		respondInternalError(c, err, "delete book")
		c.Abort()
		return ""
	}
	return "Book deleted!"
}

func (controller *BooksController) borrowBook(c *gin.Context) string {
	id, ok := parseFormID(c, "borrow")
	if !ok {
		return "Invalid book!"
	}
	err := controller.store.BorrowBook(id)
	switch {
	case errors.Is(err, catalog.ErrNotAvailable):
		return "Not available!"
	case err != nil:
		respondInternalError(c, err, "borrow book")
		c.Abort()
		return ""
	}
	return "Book borrowed!"
}

func (controller *BooksController) cancelBorrow(c *gin.Context) string {
	id, ok := parseFormID(c, "cancel")
	if !ok {
		return "Invalid book!"
	}
	err := controller.store.CancelBorrow(id)
	switch {
	case errors.Is(err, catalog.ErrBookNotFound):
		return "Book not found!"
	case err != nil:
		respondInternalError(c, err, "cancel borrow")
		c.Abort()
		return ""
	}
	return "Borrow cancelled!"
}

func (controller *BooksController) renderBooks(c *gin.Context, msg string) {
	search := c.Query("search")

	books, err := controller.store.ListBooks(search)
	if err != nil {
		respondInternalError(c, err, "list books")
		return
	}

	c.HTML(http.StatusOK, "books.html", gin.H{
		"Title":  "Books",
		"Books":  books,
		"Search": search,
		"Msg":    msg,
		"Auth":   GetAuthTemplateData(c),
	})
}

// EditBookPage renders the edit form for a single book. The route is
// admin-only; the middleware enforces that.
func (controller *BooksController) EditBookPage(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		c.Redirect(http.StatusFound, "/books")
		return
	}

	book, err := controller.store.GetBookByID(id)
	if err != nil {
		if errors.Is(err, catalog.ErrBookNotFound) {
			c.Redirect(http.StatusFound, "/books")
			return
		}
		respondInternalError(c, err, "load book")
		return
	}

	c.HTML(http.StatusOK, "edit_book.html", gin.H{
		"Title": "Edit Book",
		"Book":  book,
		"Auth":  GetAuthTemplateData(c),
	})
}

// EditBook overwrites a book's title, author and quantity, then sends the
// admin back to the listing.
func (controller *BooksController) EditBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		c.Redirect(http.StatusFound, "/books")
		return
	}

	quantity, err := strconv.Atoi(c.PostForm("quantity"))
	if err != nil {
		c.Redirect(http.StatusFound, fmt.Sprintf("/edit_book/%d", id))
		return
	}

	err = controller.store.UpdateBook(id, c.PostForm("title"), c.PostForm("author"), quantity)
	switch {
	case errors.Is(err, catalog.ErrTitleRequired),
		errors.Is(err, catalog.ErrNegativeQuantity):
		c.Redirect(http.StatusFound, fmt.Sprintf("/edit_book/%d", id))
		return
	case errors.Is(err, catalog.ErrBookNotFound):
		c.Redirect(http.StatusFound, "/books")
		return
	case err != nil:
		respondInternalError(c, err, "update book")
		return
	}

	c.Redirect(http.StatusFound, "/books")
}
