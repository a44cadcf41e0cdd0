package api

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/russross/meddler"
)

// resource describes one queryable projection table: the URL filters it
// accepts (mapped to whitelisted columns) and the columns it may sort by.
type resource struct {
	table       string
	filters     map[string]string
	sortColumns map[string]bool
	defaultSort string
}

// queryPage runs a filtered, sorted, paginated query over the resource and
// scans the rows into dst, a pointer to a slice of meddler-tagged structs.
// It returns the total row count before pagination.
func queryPage(ctx context.Context, db *sql.DB, res resource, r *http.Request,
	limit, offset int, dst interface{}) (int, error) {
	query := "SELECT * FROM " + res.table

	var conditions []string

	var args []interface{}

	for param, column := range res.filters {
		value := r.URL.Query().Get(param)
		if value == "" {
			continue
		}

		conditions = append(conditions, column+" = ?")
		args = append(args, value)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := strings.Replace(query, "SELECT *", "SELECT COUNT(*)", 1)

	var total int
	if err := db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("counting %s: %w", res.table, err)
	}

	// Sorting goes through a whitelist to prevent SQL injection.
	sortBy := res.defaultSort
	if requested := r.URL.Query().Get("sort_by"); requested != "" && res.sortColumns[requested] {
		sortBy = requested
	}

	sortOrder := "ASC"
	if strings.ToLower(r.URL.Query().Get("sort_order")) == "desc" {
		sortOrder = "DESC"
	}

	query += fmt.Sprintf(" ORDER BY %s %s LIMIT ? OFFSET ?", sortBy, sortOrder)
	args = append(args, limit, offset)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("querying %s: %w", res.table, err)
	}
	defer rows.Close()

	if err := meddler.ScanAll(rows, dst); err != nil {
		return 0, fmt.Errorf("scanning %s: %w", res.table, err)
	}

	return total, nil
}

// pagination parses limit and offset query parameters, clamping the limit to
// the configured page size.
func pagination(r *http.Request, pageSize int) (limit, offset int, err error) {
	limit = pageSize

	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			return 0, 0, fmt.Errorf("limit must be a positive integer")
		}

		if limit > pageSize {
			limit = pageSize
		}
	}

	if raw := r.URL.Query().Get("offset"); raw != "" {
		offset, err = strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return 0, 0, fmt.Errorf("offset must be a non-negative integer")
		}
	}

	return limit, offset, nil
}
