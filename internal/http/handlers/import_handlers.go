package handlers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/rogerio-castellano/storefront/internal/apperr"
	"github.com/rogerio-castellano/storefront/internal/catalog"
)

type csvRow struct {
	Name        string
	Price       string
	Description string
	Image       string
}

func parseCSV(file io.Reader) ([]csvRow, error) {
	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("invalid CSV header")
	}

	index := map[string]int{}
	for i, h := range headers {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"name", "price"} {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("CSV header must contain %q", required)
		}
	}

	field := func(record []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var rows []csvRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("CSV read error: %v", err)
		}

		rows = append(rows, csvRow{
			Name:        field(record, "name"),
			Price:       field(record, "price"),
			Description: field(record, "description"),
			Image:       field(record, "image"),
		})
	}
	return rows, nil
}

func rowError(rowNum int, err error) apperr.FieldError {
	var ve *apperr.ValidationError
	if errors.As(err, &ve) && len(ve.Fields) > 0 {
		descriptions := make([]string, len(ve.Fields))
		for i, f := range ve.Fields {
			descriptions[i] = f.Description
		}
		return apperr.FieldError{Field: fmt.Sprintf("row %d", rowNum), Description: strings.Join(descriptions, "; ")}
	}
	return apperr.FieldError{Field: fmt.Sprintf("row %d", rowNum), Description: err.Error()}
}

// ImportProductsHandler godoc
// @Summary Import products via CSV
// @Description Columns: name, price, description, image. Existing names are skipped, or overwritten with mode=update.
// @Tags products
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV file"
// @Param mode query string false "Import mode (skip|update)"
// @Success 200 {object} ImportProductsResult
// @Failure 400 {object} ErrorResponse
// @Router /api/products/import [post]
func (h *Handler) ImportProductsHandler(w http.ResponseWriter, r *http.Request) {
	mode := strings.ToLower(r.URL.Query().Get("mode"))
	if mode != "update" {
		mode = "skip" // default
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		h.respond(w, http.StatusBadRequest, ErrorResponse{Error: "missing file"})
		return
	}
	defer file.Close()

	records, err := parseCSV(file)
	if err != nil {
		h.respond(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	ctx := r.Context()
	imported := 0
	errorsList := []apperr.FieldError{}

	for i, rec := range records {
		rowNum := i + 2 // header is row 1

		price, err := strconv.ParseFloat(rec.Price, 64)
		if err != nil {
			errorsList = append(errorsList, rowError(rowNum, errors.New("invalid price")))
			continue
		}
		var image *string
		if rec.Image != "" {
			image = &rec.Image
		}

		existing, err := h.catalog.FindByName(ctx, rec.Name)
		if err == nil {
			if mode == "skip" {
				errorsList = append(errorsList, rowError(rowNum, fmt.Errorf("product '%s' already exists", rec.Name)))
				continue
			}
			patch := catalog.ProductPatch{Price: &price, Description: &rec.Description, Image: image}
			if image == nil {
				patch.Image = new(string)
			}
			if _, err := h.catalog.Update(ctx, existing.ID, patch); err != nil {
				errorsList = append(errorsList, rowError(rowNum, err))
				continue
			}
			imported++
			continue
		}

		_, err = h.catalog.Add(ctx, catalog.NewProduct{
			Name:        rec.Name,
			Price:       price,
			Description: rec.Description,
			Image:       image,
		})
		if err != nil {
			errorsList = append(errorsList, rowError(rowNum, err))
			continue
		}
		imported++
	}

	h.respond(w, http.StatusOK, ImportProductsResult{
		ImportedProductsCount: imported,
		Errors:                errorsList,
	})
}
