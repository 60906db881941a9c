package transport

import (
	"net/http"
	"strconv"
	"strings"

	"attar-store/internal/browse"
	"attar-store/internal/middleware"
	"attar-store/internal/service"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// decodeRequest decodes and validates a JSON body, writing the error response on failure
func decodeRequest(w http.ResponseWriter, r *http.Request, v interface{}, logger *zap.Logger) bool {
	if err := middleware.DecodeAndValidate(r, v); err != nil {
		logger.Debug("Request validation failed", zap.String("path", r.URL.Path), zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return false
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// listParam reads a list query parameter given either repeated or comma-separated
func listParam(r *http.Request, name string) []string {
	var out []string
	for _, raw := range r.URL.Query()[name] {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func decimalParam(r *http.Request, name string, errs *[]middleware.ValidationError) *decimal.Decimal {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil || d.IsNegative() {
		*errs = append(*errs, middleware.ValidationError{Field: name, Message: "Must be a non-negative number"})
		return nil
	}
	return &d
}

func sortParam(r *http.Request, errs *[]middleware.ValidationError) browse.SortOrder {
	order, ok := browse.ParseSortOrder(r.URL.Query().Get("sort"))
	if !ok {
		*errs = append(*errs, middleware.ValidationError{
			Field:   "sort",
			Message: "Must be one of: default price-asc price-desc name-asc name-desc",
		})
	}
	return order
}

// parseProductQuery reads the browse parameters. Pages are zero-based.
func parseProductQuery(r *http.Request) (service.ProductQuery, []middleware.ValidationError) {
	var errs []middleware.ValidationError

	q := service.ProductQuery{
		Categories: listParam(r, "categories"),
		Notes:      listParam(r, "notes"),
		Min:        decimalParam(r, "min", &errs),
		Max:        decimalParam(r, "max", &errs),
		Sort:       sortParam(r, &errs),
	}

	if raw := r.URL.Query().Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 0 {
			errs = append(errs, middleware.ValidationError{Field: "page", Message: "Must be a non-negative integer"})
		}
		q.Page = page
	}

	if q.Min != nil && q.Max != nil && q.Min.GreaterThan(*q.Max) {
		errs = append(errs, middleware.ValidationError{Field: "min", Message: "Must not exceed max"})
	}
	return q, errs
}
