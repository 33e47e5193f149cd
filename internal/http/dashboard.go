package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// DashboardController serves the landing page after login.
type DashboardController struct {
	catalog CatalogStore
	roster  RosterStore
	loans   LedgerStore
}

// NewDashboardController creates a new dashboard controller.
func NewDashboardController(catalog CatalogStore, roster RosterStore, loans LedgerStore) *DashboardController {
	return &DashboardController{
		catalog: catalog,
		roster:  roster,
		loans:   loans,
	}
}

// DashboardPage renders the per-role landing page. Admins see the full
// counters; members get the catalog shortcuts.
func (controller *DashboardController) DashboardPage(c *gin.Context) {
	data := gin.H{
		"Title": "Dashboard",
		"Auth":  GetAuthTemplateData(c),
	}

	if GetAuthTemplateData(c).IsAdmin {
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
		outstanding, _, err := controller.loans.CountLoans()
		if err != nil {
			respondInternalError(c, err, "count loans")
			return
		}

		data["TotalTitles"] = titles
		data["TotalCopies"] = copies
		data["Members"] = memberCount
		data["Outstanding"] = outstanding
	}

	c.HTML(http.StatusOK, "dashboard.html", data)
}
