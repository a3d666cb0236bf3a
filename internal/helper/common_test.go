package helper

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/JhonesBR/go-ledger/internal/ledger"
	"github.com/JhonesBR/go-ledger/internal/proxy"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	p := Paginate(Pagination[int]{Page: 1, Size: 2, Items: []int{}}, items)
	require.NotNil(t, p.Total)
	assert.Equal(t, 5, *p.Total)
	assert.Equal(t, []int{1, 2}, p.Items)

	p = Paginate(Pagination[int]{Page: 3, Size: 2, Items: []int{}}, items)
	assert.Equal(t, []int{5}, p.Items)

	p = Paginate(Pagination[int]{Page: 4, Size: 2, Items: []int{}}, items)
	assert.Empty(t, p.Items)
	assert.Equal(t, 5, *p.Total)
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{ledger.NotFound("1"), http.StatusNotFound},
		{fmt.Errorf("%w: x", proxy.ErrUnknownTool), http.StatusNotFound},
		{ledger.ErrInvalidAmount, http.StatusUnprocessableEntity},
		{fmt.Errorf("%w: q", proxy.ErrMissingParameter), http.StatusUnprocessableEntity},
		{fmt.Errorf("%w: bad json", ErrInvalidArguments), http.StatusUnprocessableEntity},
		{&ledger.InsufficientFundsError{Current: decimal.Zero}, http.StatusConflict},
		{&proxy.UpstreamError{Tool: "t", Status: 500}, http.StatusBadGateway},
		{&ledger.StorageError{Op: "commit", Err: errors.New("x")}, http.StatusServiceUnavailable},
		{errors.New("anything else"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, StatusFor(c.err), "%v", c.err)
	}
}
