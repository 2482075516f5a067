// Package catalog implementa el feed tabular de productos: descarga (o lee de
// disco) un CSV con el maestro de productos del hogar y lo convierte en
// registros listos para el upsert del catálogo.
package catalog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/comprascasa/compras-api/internal/application/usecase"
)

// ErrNoSource no hay URL ni archivo configurados para el feed.
var ErrNoSource = errors.New("catalog: sin fuente configurada (url ni archivo)")

// Columnas reconocidas del CSV después de normalizar el encabezado
// (minúsculas, sin tildes, espacios/guiones colapsados).
const (
	colName     = "name"
	colCategory = "category"
	colBrand    = "brand"
	colUOM      = "uom"
)

// headerAliases mapea los encabezados en español que traen los CSV reales a
// la columna canónica. Las llaves ya están normalizadas.
var headerAliases = map[string]string{
	"producto":         colName,
	"nombre":           colName,
	"item":             colName,
	"articulo":         colName,
	"name":             colName,
	"categoria":        colCategory,
	"tipo":             colCategory,
	"category":         colCategory,
	"marca":            colBrand,
	"brand":            colBrand,
	"unidad":           colUOM,
	"medida":           colUOM,
	"unidad de medida": colUOM,
	"u m":              colUOM,
	"um":               colUOM,
	"uom":              colUOM,
}

// CSVFeed obtiene el maestro de productos desde una URL HTTP o un archivo
// local. La URL tiene prioridad; el archivo es el respaldo sin red.
type CSVFeed struct {
	feedURL  string
	filePath string
	client   *http.Client
}

var _ usecase.CatalogFeed = (*CSVFeed)(nil)

// NewCSVFeed construye el feed. Cualquiera de los dos orígenes puede quedar
// vacío; Fetch falla solo si ambos lo están.
func NewCSVFeed(feedURL, filePath string) *CSVFeed {
	return &CSVFeed{
		feedURL:  feedURL,
		filePath: filePath,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

// Fetch descarga y parsea el feed. Devuelve los registros y la etiqueta de la
// fuente usada ("url" o "file").
func (f *CSVFeed) Fetch(ctx context.Context) ([]usecase.ProductRecord, string, error) {
	var urlErr error
	if f.feedURL != "" {
		records, err := f.fetchURL(ctx)
		if err == nil {
			return records, "url", nil
		}
		urlErr = err
		log.Warn().Err(err).Str("url", f.feedURL).Msg("Feed remoto falló, probando archivo local")
	}
	if f.filePath != "" {
		records, err := f.fetchFile()
		if err != nil {
			return nil, "", err
		}
		return records, "file", nil
	}
	if urlErr != nil {
		return nil, "", fmt.Errorf("catalog: feed remoto sin respaldo local: %w", urlErr)
	}
	return nil, "", ErrNoSource
}

func (f *CSVFeed) fetchURL(ctx context.Context) ([]usecase.ProductRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.feedURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog: feed respondió %d", resp.StatusCode)
	}
	return parseCSV(resp.Body)
}

func (f *CSVFeed) fetchFile() ([]usecase.ProductRecord, error) {
	file, err := os.Open(f.filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return parseCSV(file)
}

// parseCSV lee el CSV completo. Los CSV exportados desde hojas de cálculo
// viejas vienen en ISO-8859-1; si el contenido no es UTF-8 válido se
// reinterpreta con ese charset.
func parseCSV(r io.Reader) ([]usecase.ProductRecord, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(raw) {
		raw, _, err = transform.Bytes(charmap.ISO8859_1.NewDecoder(), raw)
		if err != nil {
			return nil, fmt.Errorf("catalog: decodificar ISO-8859-1: %w", err)
		}
	}

	reader := csv.NewReader(strings.NewReader(string(raw)))
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("catalog: leer encabezado: %w", err)
	}
	index := mapHeader(header)
	if _, ok := index[colName]; !ok {
		return nil, fmt.Errorf("catalog: el CSV no tiene columna de producto")
	}

	var records []usecase.ProductRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("catalog: leer fila: %w", err)
		}
		records = append(records, usecase.ProductRecord{
			Name:        field(row, index, colName),
			Category:    field(row, index, colCategory),
			Brand:       field(row, index, colBrand),
			UnitMeasure: field(row, index, colUOM),
		})
	}
	return records, nil
}

// mapHeader resuelve cada columna del CSV contra los alias conocidos. Ante
// encabezados duplicados gana la primera columna.
func mapHeader(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, h := range header {
		canonical, ok := headerAliases[normalizeHeader(h)]
		if !ok {
			continue
		}
		if _, seen := index[canonical]; !seen {
			index[canonical] = i
		}
	}
	return index
}

// foldAccents quita marcas diacríticas ("categoría" -> "categoria").
var foldAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// normalizeHeader lleva el encabezado a minúsculas sin tildes, con
// puntuación y separadores colapsados a un espacio.
func normalizeHeader(h string) string {
	s, _, err := transform.String(foldAccents, strings.ToLower(strings.TrimSpace(h)))
	if err != nil {
		s = strings.ToLower(strings.TrimSpace(h))
	}
	var b strings.Builder
	lastSpace := false
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastSpace = false
			continue
		}
		if !lastSpace && b.Len() > 0 {
			b.WriteRune(' ')
			lastSpace = true
		}
	}
	return strings.TrimSpace(b.String())
}

func field(row []string, index map[string]int, col string) string {
	i, ok := index[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
