package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bookhive/bookhive/internal/database/ledger"
)

// LoansController serves the issue/return page. Issuing picks a member
// and a book from selects rendered off the roster and catalog, so loans
// always reference real rows instead of free-typed names.
type LoansController struct {
	loans   LedgerStore
	catalog CatalogStore
	roster  RosterStore
}

// NewLoansController creates a new circulation page controller.
func NewLoansController(loans LedgerStore, catalog CatalogStore, roster RosterStore) *LoansController {
	return &LoansController{
		loans:   loans,
		catalog: catalog,
		roster:  roster,
	}
}

// LoansPage renders the ledger, newest first, filtered by the search query.
func (controller *LoansController) LoansPage(c *gin.Context) {
	controller.renderLoans(c, "")
}

// HandleLoanAction dispatches the circulation form actions. An issue form
// carries member and book ids; a return form carries the loan id in the
// "return" field.
func (controller *LoansController) HandleLoanAction(c *gin.Context) {
	var msg string
	switch {
	case c.PostForm("issue") != "":
		msg = controller.issueLoan(c)
	case c.PostForm("return") != "":
		msg = controller.returnLoan(c)
	}
	if c.IsAborted() {
		return
	}

	controller.renderLoans(c, msg)
}

func (controller *LoansController) issueLoan(c *gin.Context) string {
	memberID, ok := parseFormID(c, "member")
	if !ok {
		return "Select a member!"
	}
	bookID, ok := parseFormID(c, "book")
	if !ok {
		return "Select a book!"
	}

	loan, err := controller.loans.IssueLoan(memberID, bookID)
	switch {
	case errors.Is(err, ledger.ErrMemberNotFound):
		return "Member not found!"
	case errors.Is(err, ledger.ErrBookNotFound):
		return "Book not found!"
	case errors.Is(err, ledger.ErrNotAvailable):
		return "Not available!"
	case err != nil:
		respondInternalError(c, err, "issue loan")
		c.Abort()
		return ""
	}
	return fmt.Sprintf("Book '%s' issued to %s.", loan.BookTitle, loan.MemberName)
}

func (controller *LoansController) returnLoan(c *gin.Context) string {
	id, ok := parseFormID(c, "return")
	if !ok {
		return "Invalid loan!"
	}

	_, err := controller.loans.ReturnLoan(id)
	switch {
	case errors.Is(err, ledger.ErrLoanNotFound):
		return "Loan not found!"
	case errors.Is(err, ledger.ErrAlreadyReturned):
		return "Already returned!"
	case err != nil:
		respondInternalError(c, err, "return loan")
		c.Abort()
		return ""
	}
	return "Book marked as returned."
}

func (controller *LoansController) renderLoans(c *gin.Context, msg string) {
	search := c.Query("search")

	loans, err := controller.loans.ListLoans(search)
	if err != nil {
		respondInternalError(c, err, "list loans")
		return
	}

	books, err := controller.catalog.ListBooks("")
	if err != nil {
		respondInternalError(c, err, "list books")
		return
	}

	roster, err := controller.roster.ListMembers("")
	if err != nil {
		respondInternalError(c, err, "list members")
		return
	}

	c.HTML(http.StatusOK, "issue_return.html", gin.H{
		"Title":   "Issue / Return",
		"Loans":   loans,
		"Books":   books,
		"Members": roster,
		"Search":  search,
		"Msg":     msg,
		"Auth":    GetAuthTemplateData(c),
	})
}
