package queries_test

import (
	"testing"

	"parcelhub/internal/core/application/usecases/queries"
	"parcelhub/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGetOrderDetailQuery_Valid(t *testing.T) {
	orderID := kernel.NewUUID()

	query, err := queries.NewGetOrderDetailQuery(orderID)
	require.NoError(t, err)
	require.NoError(t, query.Validate())
	assert.Equal(t, orderID, query.OrderID())
}

func TestNewGetOrderDetailQuery_EmptyID(t *testing.T) {
	_, err := queries.NewGetOrderDetailQuery(kernel.UUID{})
	require.Error(t, err)
}

func TestGetOrderDetailQuery_NotConstructedViaConstructor(t *testing.T) {
	query := queries.GetOrderDetailQuery{}
	err := query.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, queries.ErrGetOrderDetailQueryIsNotConstructed)
}
