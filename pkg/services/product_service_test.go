package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/connecta-b2b/connecta-server/pkg/apperrors"
	"github.com/connecta-b2b/connecta-server/pkg/models"
)

func newProductFixture(t *testing.T) (ProductService, *mockProductRepo) {
	t.Helper()
	products := newMockProductRepo()
	return NewProductService(products, zap.NewNop()), products
}

func validProductInput() ProductInput {
	return ProductInput{
		Name:        "Parafuso M8",
		Description: "Aço inox, rosca métrica",
		Category:    "Fixadores",
	}
}

func TestProductService_Create(t *testing.T) {
	svc, _ := newProductFixture(t)
	supplierID := uuid.New()

	product, err := svc.Create(context.Background(), supplierID, validProductInput())
	require.NoError(t, err)

	assert.Equal(t, supplierID, product.SupplierID)
	assert.NotEqual(t, uuid.Nil, product.ID)
}

func TestProductService_Create_Validation(t *testing.T) {
	svc, _ := newProductFixture(t)
	negative := -1.0

	for name, mutate := range map[string]func(*ProductInput){
		"blank name":        func(in *ProductInput) { in.Name = " " },
		"blank description": func(in *ProductInput) { in.Description = "" },
		"blank category":    func(in *ProductInput) { in.Category = "" },
		"negative price":    func(in *ProductInput) { in.BasePrice = &negative },
	} {
		t.Run(name, func(t *testing.T) {
			in := validProductInput()
			mutate(&in)
			_, err := svc.Create(context.Background(), uuid.New(), in)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}
}

func TestProductService_Update_OwnerOrAdmin(t *testing.T) {
	svc, _ := newProductFixture(t)
	supplierID := uuid.New()
	product, err := svc.Create(context.Background(), supplierID, validProductInput())
	require.NoError(t, err)

	in := validProductInput()
	in.Name = "Parafuso M8 inox"

	_, err = svc.Update(context.Background(), uuid.New(), models.RoleSupplier, product.ID, in)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	updated, err := svc.Update(context.Background(), supplierID, models.RoleSupplier, product.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "Parafuso M8 inox", updated.Name)

	in.Name = "Parafuso corrigido"
	updated, err = svc.Update(context.Background(), uuid.New(), models.RoleAdmin, product.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "Parafuso corrigido", updated.Name)
}

func TestProductService_Delete_OwnerOrAdmin(t *testing.T) {
	svc, repo := newProductFixture(t)
	supplierID := uuid.New()
	product, err := svc.Create(context.Background(), supplierID, validProductInput())
	require.NoError(t, err)

	err = svc.Delete(context.Background(), uuid.New(), models.RoleSupplier, product.ID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	require.NoError(t, svc.Delete(context.Background(), supplierID, models.RoleSupplier, product.ID))
	assert.Empty(t, repo.products)
}

func TestProductService_List_FilterByCategory(t *testing.T) {
	svc, _ := newProductFixture(t)
	supplierID := uuid.New()

	_, err := svc.Create(context.Background(), supplierID, validProductInput())
	require.NoError(t, err)
	other := validProductInput()
	other.Name = "Chapa 2mm"
	other.Category = "Metalurgia"
	_, err = svc.Create(context.Background(), supplierID, other)
	require.NoError(t, err)

	all, err := svc.List(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	filtered, err := svc.List(context.Background(), "Metalurgia")
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "Chapa 2mm", filtered[0].Name)
}
