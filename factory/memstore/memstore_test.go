package memstore

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"factory-generator/factory"
	"factory-generator/factory/internal/rowmap"
)

type country struct {
	ID   int32
	Name string
}

type visit struct {
	UserID int32
	CityID int32
}

func TestStore_Insert(t *testing.T) {
	s := New(WithDefaults("countries", Row{"name": "Nowhere"}))
	ctx := context.Background()

	var first, second country
	require.NoError(t, s.Insert(ctx, "countries", factory.Values{{Column: "name", Value: "Denmark"}}, &first))
	require.NoError(t, s.Insert(ctx, "countries", nil, &second))

	assert.Equal(t, country{ID: 1, Name: "Denmark"}, first)
	assert.Equal(t, country{ID: 2, Name: "Nowhere"}, second)
	assert.Equal(t, 2, s.Count("countries"))
	assert.Equal(t, []string{"countries", "countries"}, s.Tables())

	calls := s.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, 0, calls[1].Values.Len())
	assert.Equal(t, int64(2), calls[1].Row["id"])
}

func TestStore_JoinTableWithoutID(t *testing.T) {
	s := New(WithIDColumn("visits", ""))

	var v visit
	err := s.Insert(context.Background(), "visits", factory.Values{
		{Column: "user_id", Value: int32(4)},
		{Column: "city_id", Value: int32(9)},
	}, &v)
	require.NoError(t, err)

	assert.Equal(t, visit{UserID: 4, CityID: 9}, v)
	assert.NotContains(t, s.Rows("visits")[0], "id")
}

func TestStore_FailOn(t *testing.T) {
	s := New()
	s.FailOn("countries", ErrInjected)

	err := s.Insert(context.Background(), "countries", nil, &country{})
	require.ErrorIs(t, err, ErrInjected)
	assert.Zero(t, s.Count("countries"))
	assert.Empty(t, s.Calls())
}

func TestStore_RejectedDestinationKeepsIDs(t *testing.T) {
	s := New()
	ctx := context.Background()

	err := s.Insert(ctx, "countries", nil, new(int))
	require.ErrorIs(t, err, rowmap.ErrDestination)
	assert.Zero(t, s.Count("countries"))
	assert.Empty(t, s.Calls())

	var c country
	require.NoError(t, s.Insert(ctx, "countries", nil, &c))
	assert.Equal(t, int32(1), c.ID)
}

func TestStore_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := New().Insert(ctx, "countries", nil, &country{})
	require.True(t, errors.Is(err, context.Canceled))
}

func TestStore_RowsAreCopies(t *testing.T) {
	s := New()
	require.NoError(t, s.Insert(context.Background(), "countries", factory.Values{{Column: "name", Value: "A"}}, nil))

	s.Rows("countries")[0]["name"] = "B"
	assert.Equal(t, "A", s.Rows("countries")[0]["name"])
}
