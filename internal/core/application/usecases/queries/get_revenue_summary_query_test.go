package queries_test

import (
	"testing"
	"time"

	"parcelhub/internal/core/application/usecases/queries"
	"parcelhub/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGetRevenueSummaryQuery_Valid(t *testing.T) {
	from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	query, err := queries.NewGetRevenueSummaryQuery(from, to)
	require.NoError(t, err)
	require.NoError(t, query.Validate())
	assert.Equal(t, from, query.From())
	assert.Equal(t, to, query.To())
}

func TestNewGetRevenueSummaryQuery_EmptyWindow(t *testing.T) {
	from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	_, err := queries.NewGetRevenueSummaryQuery(from, from)
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestNewGetRevenueSummaryQuery_ReversedWindow(t *testing.T) {
	from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	_, err := queries.NewGetRevenueSummaryQuery(from, from.AddDate(0, 0, -1))
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestGetRevenueSummaryQuery_NotConstructedViaConstructor(t *testing.T) {
	query := queries.GetRevenueSummaryQuery{}
	err := query.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, queries.ErrGetRevenueSummaryQueryIsNotConstructed)
}
