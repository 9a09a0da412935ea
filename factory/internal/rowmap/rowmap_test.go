package rowmap

import (
	"database/sql"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type base struct {
	ID int32
}

type user struct {
	base
	Name      string
	Email     *string
	HomeCity  *int64 `db:"home_city_id"`
	Nick      sql.NullString
	Ignored   string `db:"-"`
	unexposed string
}

func TestColumn(t *testing.T) {
	st := reflect.TypeFor[user]()

	cols := map[string]string{}
	for i := range st.NumField() {
		cols[st.Field(i).Name] = Column(st.Field(i))
	}

	assert.Equal(t, "name", cols["Name"])
	assert.Equal(t, "home_city_id", cols["HomeCity"])
	assert.Equal(t, "nick", cols["Nick"])
	assert.Empty(t, cols["Ignored"])
	assert.Empty(t, cols["unexposed"])
}

func TestFill(t *testing.T) {
	var u user

	err := Fill(&u, map[string]any{
		"id":           int64(7),
		"name":         []byte("Ada"),
		"email":        "ada@example.com",
		"home_city_id": int64(3),
		"nick":         nil,
		"ignored":      "x",
		"extra":        true,
	})
	require.NoError(t, err)

	assert.Equal(t, int32(7), u.ID)
	assert.Equal(t, "Ada", u.Name)
	require.NotNil(t, u.Email)
	assert.Equal(t, "ada@example.com", *u.Email)
	require.NotNil(t, u.HomeCity)
	assert.Equal(t, int64(3), *u.HomeCity)
	assert.False(t, u.Nick.Valid)
	assert.Empty(t, u.Ignored)
}

func TestFill_NilClearsField(t *testing.T) {
	email := "old"
	u := user{Email: &email}

	require.NoError(t, Fill(&u, map[string]any{"email": nil}))
	assert.Nil(t, u.Email)
}

func TestFill_Errors(t *testing.T) {
	var u user

	require.ErrorIs(t, Fill(u, nil), ErrDestination)
	require.ErrorIs(t, Fill((*user)(nil), nil), ErrDestination)

	err := Fill(&u, map[string]any{"name": 42})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `column "name"`)
}
