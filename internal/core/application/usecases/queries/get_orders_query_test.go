package queries_test

import (
	"testing"

	"parcelhub/internal/core/application/usecases/queries"
	"parcelhub/internal/core/domain/model/kernel"
	"parcelhub/internal/core/domain/model/order"
	"parcelhub/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGetOrdersQuery_Valid(t *testing.T) {
	customerID := kernel.NewUUID()
	status := order.StatusDelivered

	tests := []struct {
		name       string
		customerID *kernel.UUID
		status     *order.Status
	}{
		{"no filters", nil, nil},
		{"customer filter", &customerID, nil},
		{"status filter", nil, &status},
		{"both filters", &customerID, &status},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, err := queries.NewGetOrdersQuery(tt.customerID, tt.status)
			require.NoError(t, err)
			require.NoError(t, query.Validate())
			assert.Equal(t, tt.customerID, query.CustomerID())
			assert.Equal(t, tt.status, query.Status())
		})
	}
}

func TestNewGetOrdersQuery_InvalidStatusFilter(t *testing.T) {
	var empty order.Status
	_, err := queries.NewGetOrdersQuery(nil, &empty)
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestGetOrdersQuery_NotConstructedViaConstructor(t *testing.T) {
	query := queries.GetOrdersQuery{}
	err := query.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, queries.ErrGetOrdersQueryIsNotConstructed)
}
