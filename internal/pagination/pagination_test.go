package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func paramsFor(t *testing.T, rawQuery string) Params {
	t.Helper()

	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+rawQuery, nil)
	return Parse(c)
}

func TestParse_Defaults(t *testing.T) {
	p := paramsFor(t, "")

	assert.Equal(t, 1, p.Page)
	assert.Equal(t, DefaultLimit, p.Limit)
	assert.Equal(t, DefaultSort, p.Sort)
	assert.Empty(t, p.Search)
}

func TestParse_Clamping(t *testing.T) {
	p := paramsFor(t, "page=0&limit=500")
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, MaxLimit, p.Limit)

	p = paramsFor(t, "page=-3&limit=abc")
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, DefaultLimit, p.Limit)
}

func TestOffset(t *testing.T) {
	p := Params{Page: 3, Limit: 10}
	assert.Equal(t, 20, p.Offset())
}

func TestOrderClause(t *testing.T) {
	allowed := map[string]string{"created_at": "created_at", "username": "username"}

	p := Params{Sort: "-created_at,username"}
	assert.Equal(t, "created_at DESC, username ASC", p.OrderClause(allowed))

	// Unknown fields are dropped, keeping user input out of the SQL text.
	p = Params{Sort: "password_hash;DROP TABLE users,-created_at"}
	assert.Equal(t, "created_at DESC", p.OrderClause(allowed))

	p = Params{Sort: "nonsense"}
	assert.Empty(t, p.OrderClause(allowed))
}

func TestNewMeta(t *testing.T) {
	meta := NewMeta(25, Params{Page: 2, Limit: 10})

	assert.Equal(t, int64(25), meta.Total)
	assert.Equal(t, 2, meta.Page)
	assert.Equal(t, 10, meta.Limit)
	assert.Equal(t, 3, meta.TotalPages)
	assert.True(t, meta.HasNextPage)
	assert.True(t, meta.HasPrevPage)
}

func TestNewMeta_LastPage(t *testing.T) {
	meta := NewMeta(25, Params{Page: 3, Limit: 10})

	assert.False(t, meta.HasNextPage)
	assert.True(t, meta.HasPrevPage)
}

func TestNewMeta_Empty(t *testing.T) {
	meta := NewMeta(0, Params{Page: 1, Limit: 10})

	assert.Equal(t, 0, meta.TotalPages)
	assert.False(t, meta.HasNextPage)
	assert.False(t, meta.HasPrevPage)
}
