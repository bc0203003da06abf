package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nirob844/mini-e-commerce-microservices/shared/apperr"
	"github.com/Nirob844/mini-e-commerce-microservices/shared/models"
)

var productRowColumns = []string{"id", "name", "description", "price", "stock", "sku", "category", "created_at", "updated_at"}

func newMockProductRepository(t *testing.T) (*ProductWriteRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return NewProductWriteRepository(db), mock
}

func TestReduceStock(t *testing.T) {
	at := time.Unix(1_700_000_000, 0).UTC()
	reduce := regexp.QuoteMeta("WHERE id = $1 AND stock >= $2")
	get := regexp.QuoteMeta("FROM products WHERE id = $1")

	tests := []struct {
		name      string
		setup     func(mock sqlmock.Sqlmock)
		wantStock int
		wantKind  apperr.Kind
		wantCode  string
	}{
		{
			name: "enough stock",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(reduce).WithArgs("prd-1", 3, at).
					WillReturnRows(sqlmock.NewRows(productRowColumns).
						AddRow("prd-1", "Lamp", "", 12.5, 7, nil, "", at, at))
			},
			wantStock: 7,
		},
		{
			name: "insufficient stock",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(reduce).WithArgs("prd-1", 3, at).
					WillReturnRows(sqlmock.NewRows(productRowColumns))
				mock.ExpectQuery(get).WithArgs("prd-1").
					WillReturnRows(sqlmock.NewRows(productRowColumns).
						AddRow("prd-1", "Lamp", "", 12.5, 2, "LMP-1", "", at, at))
			},
			wantKind: apperr.KindConflict,
			wantCode: "INSUFFICIENT_STOCK",
		},
		{
			name: "unknown product",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(reduce).WithArgs("prd-1", 3, at).
					WillReturnRows(sqlmock.NewRows(productRowColumns))
				mock.ExpectQuery(get).WithArgs("prd-1").
					WillReturnRows(sqlmock.NewRows(productRowColumns))
			},
			wantKind: apperr.KindNotFound,
			wantCode: string(apperr.KindNotFound),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockProductRepository(t)
			tt.setup(mock)

			p, err := repo.ReduceStock(context.Background(), "prd-1", 3, at)
			if tt.wantKind == "" {
				require.NoError(t, err)
				assert.Equal(t, tt.wantStock, p.Stock)
				return
			}
			require.Error(t, err)
			assert.Nil(t, p)
			assert.True(t, apperr.IsKind(err, tt.wantKind), "got %v", err)
			assert.Equal(t, tt.wantCode, apperr.From(err).Code)
		})
	}
}

func TestCreateProductDuplicateSKU(t *testing.T) {
	repo, mock := newMockProductRepository(t)
	mock.ExpectExec("INSERT INTO products").WillReturnError(&pq.Error{Code: "23505"})

	err := repo.Create(context.Background(), &models.Product{ID: "prd-2", SKU: "LMP-1"})
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
}
