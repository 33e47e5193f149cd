package http

import (
	"html/template"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/bookhive/bookhive/internal/database/catalog"
	"github.com/bookhive/bookhive/internal/database/ledger"
	"github.com/bookhive/bookhive/internal/database/members"
	"github.com/bookhive/bookhive/internal/entities"
)

const testTemplates = `
{{define "books.html"}}books:{{.Msg}}{{range .Books}}|{{.Title}}={{.Quantity}}{{end}}{{end}}
{{define "edit_book.html"}}edit:{{.Book.Title}}{{end}}
{{define "members.html"}}members:{{.Msg}}{{range .Members}}|{{.Name}}{{end}}{{end}}
{{define "issue_return.html"}}loans:{{.Msg}}{{range .Loans}}|{{.BookTitle}}:{{.Status}}{{end}}{{end}}
{{define "reports.html"}}reports:{{.TotalTitles}}/{{.TotalCopies}}/{{.Members}}/{{.Outstanding}}/{{.Returned}}{{end}}
{{define "dashboard.html"}}dashboard{{end}}
`

type testEnv struct {
	db      *gorm.DB
	catalog *catalog.Repository
	roster  *members.Repository
	ledger  *ledger.Repository
	router  *gin.Engine
	role    entities.UserRole
}

// setupTestEnv builds a router over a fresh database with inline page
// templates, so assertions can read rendered messages. The role field
// controls the identity injected for each request.
func setupTestEnv(t *testing.T) (*testEnv, func()) {
	gin.SetMode(gin.TestMode)

	dbPath := "./test_http_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&entities.User{}, &entities.Book{}, &entities.Member{}, &entities.Loan{},
	))

	env := &testEnv{
		db:      db,
		catalog: catalog.NewRepository(db),
		roster:  members.NewRepository(db),
		ledger:  ledger.NewRepository(db),
		role:    entities.UserRoleAdmin,
	}

	router := gin.New()
	router.SetHTMLTemplate(template.Must(template.New("").Parse(testTemplates)))
	router.Use(func(c *gin.Context) {
		c.Set("auth_template_data", AuthTemplateData{
			LoggedIn: true,
			Username: "tester",
			IsAdmin:  env.role == entities.UserRoleAdmin,
		})
		c.Next()
	})

	booksController := NewBooksController(env.catalog)
	membersController := NewMembersController(env.roster)
	loansController := NewLoansController(env.ledger, env.catalog, env.roster)
	reportsController := NewReportsController(env.catalog, env.roster, env.ledger)

	router.GET("/books", booksController.BooksPage)
	router.POST("/books", booksController.HandleBookAction)
	router.GET("/edit_book/:id", booksController.EditBookPage)
	router.POST("/edit_book/:id", booksController.EditBook)
	router.GET("/members", membersController.MembersPage)
	router.POST("/members", membersController.HandleMemberAction)
	router.GET("/issue_return", loansController.LoansPage)
	router.POST("/issue_return", loansController.HandleLoanAction)
	router.GET("/reports", reportsController.ReportsPage)

	env.router = router

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}
	return env, cleanup
}

func (env *testEnv) get(path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	env.router.ServeHTTP(w, req)
	return w
}

func (env *testEnv) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	env.router.ServeHTTP(w, req)
	return w
}

func TestBooksPage_Listing(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	_, err := env.catalog.AddBook("The Hobbit", "J.R.R. Tolkien", 3)
	require.NoError(t, err)

	w := env.get("/books")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "The Hobbit=3")
}

func TestBooksPage_Search(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	_, err := env.catalog.AddBook("The Hobbit", "J.R.R. Tolkien", 3)
	require.NoError(t, err)
	_, err = env.catalog.AddBook("Dune", "Frank Herbert", 2)
	require.NoError(t, err)

	w := env.get("/books?search=Hobbit")

	body := w.Body.String()
	assert.Contains(t, body, "The Hobbit")
	assert.NotContains(t, body, "Dune")
}

func TestBooksAction_AdminAdd(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	w := env.postForm("/books", url.Values{
		"add":      {"1"},
		"title":    {"Dune"},
		"author":   {"Frank Herbert"},
		"quantity": {"2"},
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Book added!")

	books, err := env.catalog.ListBooks("")
	require.NoError(t, err)
	assert.Len(t, books, 1)
}

func TestBooksAction_MemberCannotAdd(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()
	env.role = entities.UserRoleMember

	w := env.postForm("/books", url.Values{
		"add":      {"1"},
		"title":    {"Dune"},
		"author":   {"Frank Herbert"},
		"quantity": {"2"},
	})

	assert.Equal(t, http.StatusForbidden, w.Code)

	books, err := env.catalog.ListBooks("")
	require.NoError(t, err)
	assert.Empty(t, books)
}

func TestBooksAction_MemberCannotDelete(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	book, err := env.catalog.AddBook("Dune", "Frank Herbert", 2)
	require.NoError(t, err)

	env.role = entities.UserRoleMember
	w := env.postForm("/books", url.Values{"delete": {"1"}})

	assert.Equal(t, http.StatusForbidden, w.Code)
	_, err = env.catalog.GetBookByID(book.ID)
	assert.NoError(t, err)
}

func TestBooksAction_AdminCannotBorrow(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	book, err := env.catalog.AddBook("Dune", "Frank Herbert", 2)
	require.NoError(t, err)

	w := env.postForm("/books", url.Values{"borrow": {"1"}})

	assert.Equal(t, http.StatusForbidden, w.Code)
	loaded, err := env.catalog.GetBookByID(book.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.Quantity)
}

func TestBooksAction_MemberBorrow(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()
	env.role = entities.UserRoleMember

	book, err := env.catalog.AddBook("Dune", "Frank Herbert", 1)
	require.NoError(t, err)

	w := env.postForm("/books", url.Values{"borrow": {"1"}})
	assert.Contains(t, w.Body.String(), "Book borrowed!")

	w = env.postForm("/books", url.Values{"borrow": {"1"}})
	assert.Contains(t, w.Body.String(), "Not available!")

	loaded, err := env.catalog.GetBookByID(book.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, loaded.Quantity)
}

func TestBooksAction_MemberCancelBorrow(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()
	env.role = entities.UserRoleMember

	book, err := env.catalog.AddBook("Dune", "Frank Herbert", 1)
	require.NoError(t, err)

	w := env.postForm("/books", url.Values{"cancel": {"1"}})
	assert.Contains(t, w.Body.String(), "Borrow cancelled!")

	loaded, err := env.catalog.GetBookByID(book.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.Quantity)
}

func TestEditBook_UpdatesAndRedirects(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	book, err := env.catalog.AddBook("Dune", "Frank Herbert", 2)
	require.NoError(t, err)

	w := env.postForm("/edit_book/1", url.Values{
		"title":    {"Dune Messiah"},
		"author":   {"Frank Herbert"},
		"quantity": {"4"},
	})

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/books", w.Header().Get("Location"))

	loaded, err := env.catalog.GetBookByID(book.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dune Messiah", loaded.Title)
	assert.Equal(t, 4, loaded.Quantity)
}

func TestEditBookPage_MissingBookRedirects(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	w := env.get("/edit_book/42")

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/books", w.Header().Get("Location"))
}
