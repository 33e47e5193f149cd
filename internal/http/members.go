package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bookhive/bookhive/internal/database/members"
)

// MembersController serves the borrower roster pages. The listing is
// visible to everyone logged in; add and delete are admin actions.
type MembersController struct {
	store RosterStore
}

// NewMembersController creates a new roster page controller.
func NewMembersController(store RosterStore) *MembersController {
	return &MembersController{store: store}
}

// MembersPage renders the roster, filtered by the search query.
func (controller *MembersController) MembersPage(c *gin.Context) {
	controller.renderMembers(c, "")
}

// HandleMemberAction dispatches the roster form actions (add, delete).
func (controller *MembersController) HandleMemberAction(c *gin.Context) {
	if !GetAuthTemplateData(c).IsAdmin {
		c.AbortWithStatus(http.StatusForbidden)
		return
	}

	var msg string
	switch {
	case c.PostForm("add") != "":
		msg = controller.addMember(c)
	case c.PostForm("delete") != "":
		msg = controller.deleteMember(c)
	}
	if c.IsAborted() {
		return
	}

	controller.renderMembers(c, msg)
}

func (controller *MembersController) addMember(c *gin.Context) string {
	_, err := controller.store.AddMember(c.PostForm("name"), c.PostForm("email"))
	switch {
	case errors.Is(err, members.ErrNameRequired):
		return "Name is required!"
	case err != nil:
		respondInternalError(c, err, "add member")
		c.Abort()
		return ""
	}
	return "Member added!"
}

func (controller *MembersController) deleteMember(c *gin.Context) string {
	id, ok := parseFormID(c, "delete")
	if !ok {
		return "Invalid member!"
	}
	if err := controller.store.DeleteMember(id); err != nil {
		respondInternalError(c, err, "delete member")
		c.Abort()
		return ""
	}
	return "Member deleted!"
}

func (controller *MembersController) renderMembers(c *gin.Context, msg string) {
	search := c.Query("search")

	roster, err := controller.store.ListMembers(search)
	if err != nil {
		respondInternalError(c, err, "list members")
		return
	}

	c.HTML(http.StatusOK, "members.html", gin.H{
		"Title":   "Members",
		"Members": roster,
		"Search":  search,
		"Msg":     msg,
		"Auth":    GetAuthTemplateData(c),
	})
}
