package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ReportsController serves the read-only library statistics page.
type ReportsController struct {
	catalog CatalogStore
	roster  RosterStore
	loans   LedgerStore
}

// NewReportsController creates a new reports controller.
func NewReportsController(catalog CatalogStore, roster RosterStore, loans LedgerStore) *ReportsController {
	return &ReportsController{
		catalog: catalog,
		roster:  roster,
		loans:   loans,
	}
}

// ReportsPage renders the counters: catalog titles, available copies,
// roster size, outstanding and returned loans.
func (controller *ReportsController) ReportsPage(c *gin.Context) {
	titles, copies, err := controller.catalog.CountBooks()
	if err != nil {
		respondInternalError(c, err, "count books")
		return
	}

	memberCount, err := controller.roster.CountMembers()
	if err != nil {
		respondInternalError(c, err, "count members")
		return
	}

	outstanding, returned, err := controller.loans.CountLoans()
	if err != nil {
		respondInternalError(c, err, "count loans")
		return
	}

	c.HTML(http.StatusOK, "reports.html", gin.H{
		"Title":       "Reports",
		"TotalTitles": titles,
		"TotalCopies": copies,
		"Members":     memberCount,
		"Outstanding": outstanding,
		"Returned":    returned,
		"Auth":        GetAuthTemplateData(c),
	})
}
