package importer

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cazuela-chapina/cazuela/internal/catalog"
	"github.com/cazuela-chapina/cazuela/internal/shared"
)

type recordingCreator struct {
	created []catalog.Product
}

// Create mirrors the real service's name requirement so rows without a
// product name fail the way they would in production.
func (r *recordingCreator) Create(ctx context.Context, product catalog.Product) (catalog.Product, error) {
	if product.Name == "" {
		return catalog.Product{}, shared.ErrValidation
	}
	product.ID = int64(len(r.created) + 1)
	r.created = append(r.created, product)
	return product, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestImportSpanishHeadersWithAccents(t *testing.T) {
	csvData := strings.Join([]string{
		"Nombre_producto,Tipo_producto,Precio_base,Descripción,Disponible,Personalizable,Atributos",
		`Tamal colorado,tamal,12.50,Clásico de recado rojo,S,S,"picante:no,envoltura:hoja de plátano"`,
		"Atol de elote,bebida,8.00,Dulce de maíz,S,N,",
	}, "\n")

	creator := &recordingCreator{}
	imp := New(testLogger(), creator)

	result, err := imp.ImportCSV(context.Background(), strings.NewReader(csvData))
	require.NoError(t, err)

	assert.Equal(t, 2, result.Total)
	assert.Equal(t, 2, result.Done)
	assert.Equal(t, 0, result.Failed)
	require.Len(t, creator.created, 2)

	first := creator.created[0]
	assert.Equal(t, "Tamal colorado", first.Name)
	assert.Equal(t, catalog.KindTamal, first.Kind)
	require.NotNil(t, first.BasePrice)
	assert.Equal(t, 12.5, *first.BasePrice)
	assert.True(t, first.Available)
	assert.True(t, first.Customizable)
}

func TestImportEnglishHeaders(t *testing.T) {
	csvData := "name,type,price,available\nHorchata,bebida,7,yes\n"

	creator := &recordingCreator{}
	imp := New(testLogger(), creator)

	result, err := imp.ImportCSV(context.Background(), strings.NewReader(csvData))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Done)
	require.Len(t, creator.created, 1)
	assert.Equal(t, catalog.KindBebida, creator.created[0].Kind)
}

func TestImportHeaderCaseInsensitive(t *testing.T) {
	csvData := "NOMBRE_PRODUCTO,TIPO_PRODUCTO\nTamal negro,TAMAL\n"

	creator := &recordingCreator{}
	imp := New(testLogger(), creator)

	result, err := imp.ImportCSV(context.Background(), strings.NewReader(csvData))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Done)
	assert.Equal(t, "Tamal negro", creator.created[0].Name)
}

func TestImportContinuesPastFailedRows(t *testing.T) {
	csvData := strings.Join([]string{
		"nombre,precio",
		"Tamal colorado,12.50",
		",10.00",
		"Tamal negro,15.00",
	}, "\n")

	creator := &recordingCreator{}
	imp := New(testLogger(), creator)

	result, err := imp.ImportCSV(context.Background(), strings.NewReader(csvData))
	require.NoError(t, err)

	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 2, result.Done)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 3, result.Errors[0].Row)
}

func TestImportRejectsUnrecognizableHeader(t *testing.T) {
	imp := New(testLogger(), &recordingCreator{})
	_, err := imp.ImportCSV(context.Background(), strings.NewReader("foo,bar\n1,2\n"))
	assert.Error(t, err)
}

func TestImportRejectsEmptyFile(t *testing.T) {
	imp := New(testLogger(), &recordingCreator{})
	_, err := imp.ImportCSV(context.Background(), strings.NewReader(""))
	assert.Error(t, err)
}

func TestNormalizeHeader(t *testing.T) {
	assert.Equal(t, "descripcion", normalizeHeader("Descripción"))
	assert.Equal(t, "nombre_producto", normalizeHeader("  Nombre Producto "))
	assert.Equal(t, "precio_base", normalizeHeader("PRECIO_BASE"))
}
