package importer

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront/catalog/internal/domain/catalog"
)

type fakeCatalog struct {
	created       []map[string]any
	failOn        string
	updatesFired  int
	nextProductID int
}

func (f *fakeCatalog) OnCreateProduct(ctx context.Context, data map[string]any, opts url.Values) (catalog.Product, error) {
	if name, _ := data["name"].(string); name == f.failOn {
		return catalog.Product{}, errors.New("upstream rejected product")
	}
	f.created = append(f.created, data)
	f.nextProductID++
	return catalog.Product{ID: uuid.NewString()}, nil
}

func (f *fakeCatalog) OnProductsUpdate() {
	f.updatesFired++
}

func TestImportCreatesValidRows(t *testing.T) {
	csv := strings.Join([]string{
		"name,name_ar,price,cost,sku,stock,brand_id,category_id",
		"Wireless Controller,يد تحكم,59.99,40,WC-01,5,b1,c1",
		"HDMI Cable,,9.99,,,,,",
	}, "\n")

	cat := &fakeCatalog{}
	imp := NewProductImporter(cat, nil)

	result, err := imp.Import(context.Background(), strings.NewReader(csv))
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, result.JobID)
	assert.Equal(t, 2, result.Total)
	assert.Equal(t, 2, result.Succeeded)
	assert.Equal(t, 0, result.Failed)
	assert.Empty(t, result.Errors)

	require.Len(t, cat.created, 2)
	first := cat.created[0]
	assert.Equal(t, "Wireless Controller", first["name"])
	assert.Equal(t, "يد تحكم", first["nameAr"])
	assert.Equal(t, "59.99", first["price"])
	assert.Equal(t, "40", first["cost"])
	assert.Equal(t, int64(5), first["stock"])
	assert.Equal(t, "b1", first["brandId"])
	assert.Equal(t, []map[string]any{{"categoryId": "c1"}}, first["categories"])

	assert.Equal(t, 1, cat.updatesFired)
}

func TestImportCollectsRowErrors(t *testing.T) {
	csv := strings.Join([]string{
		"name,price",
		",10",              // missing name
		"No Price,",        // missing price
		"Bad Price,free",   // unparseable price
		"Negative,-5",      // negative price
		"Rejected,10",      // upstream failure
		"Good Product,9.5", // fine
	}, "\n")

	cat := &fakeCatalog{failOn: "Rejected"}
	imp := NewProductImporter(cat, nil)

	result, err := imp.Import(context.Background(), strings.NewReader(csv))
	require.NoError(t, err)

	assert.Equal(t, 6, result.Total)
	assert.Equal(t, 1, result.Succeeded)
	assert.Equal(t, 5, result.Failed)
	require.Len(t, result.Errors, 5)

	// Row numbers count the header.
	assert.Equal(t, 2, result.Errors[0].Row)
	assert.Equal(t, "name", result.Errors[0].Field)
	assert.Equal(t, "price", result.Errors[1].Field)
	assert.Equal(t, "price", result.Errors[2].Field)
	assert.Equal(t, "price", result.Errors[3].Field)
	assert.Equal(t, 6, result.Errors[4].Row)

	assert.Equal(t, 1, cat.updatesFired)
}

func TestImportWithoutSuccessesSkipsUpdateNotification(t *testing.T) {
	csv := "name,price\n,10\n"
	cat := &fakeCatalog{}
	imp := NewProductImporter(cat, nil)

	result, err := imp.Import(context.Background(), strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 0, result.Succeeded)
	assert.Zero(t, cat.updatesFired)
}

func TestImportHeaderAliases(t *testing.T) {
	csv := strings.Join([]string{
		"Title,Price,Quantity,BrandID",
		"Gamepad,19.99,3,b2",
	}, "\n")

	cat := &fakeCatalog{}
	imp := NewProductImporter(cat, nil)

	result, err := imp.Import(context.Background(), strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Succeeded)

	require.Len(t, cat.created, 1)
	assert.Equal(t, "Gamepad", cat.created[0]["name"])
	assert.Equal(t, int64(3), cat.created[0]["stock"])
	assert.Equal(t, "b2", cat.created[0]["brandId"])
}

func TestImportRejectsMissingRequiredColumns(t *testing.T) {
	cat := &fakeCatalog{}
	imp := NewProductImporter(cat, nil)

	_, err := imp.Import(context.Background(), strings.NewReader("sku,stock\nWC-01,5\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"name"`)

	_, err = imp.Import(context.Background(), strings.NewReader("name,stock\nGamepad,5\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"price"`)
}

func TestImportStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cat := &fakeCatalog{}
	imp := NewProductImporter(cat, nil)

	_, err := imp.Import(ctx, strings.NewReader("name,price\nGamepad,5\n"))
	assert.ErrorIs(t, err, context.Canceled)
}
