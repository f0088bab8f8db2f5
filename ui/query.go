package ui

import (
	"sort"
	"strings"

	"partsdash/domain/catalog"
	"partsdash/internal/errors"

	"github.com/gin-gonic/gin"
)

// productFilters reads the category and sku selectors. Both are repeatable.
func productFilters(c *gin.Context) catalog.FilterState {
	return catalog.FilterState{}.
		With(catalog.FilterCategory, c.QueryArray("category")...).
		With(catalog.FilterSKU, c.QueryArray("sku")...)
}

// viewRequest reads the merged view parameters. An explicit empty columns
// parameter selects no columns; leaving it out selects all of them.
func viewRequest(c *gin.Context) (catalog.ViewRequest, error) {
	req := catalog.ViewRequest{
		Filters: productFilters(c),
		SortBy:  c.Query("sort"),
	}

	if values, ok := c.GetQueryArray("columns"); ok {
		req.Columns = []string{}
		for _, v := range values {
			for _, col := range strings.Split(v, ",") {
				if col = strings.TrimSpace(col); col != "" {
					req.Columns = append(req.Columns, col)
				}
			}
		}
	}

	if against := c.Query("against"); against != "" {
		role, err := parseRole(against)
		if err != nil {
			return req, err
		}
		req.Against = role
	}
	return req, nil
}

// panelFilters treats every query parameter as a column selection. Panels
// ignore selections on columns they do not offer.
func panelFilters(c *gin.Context) catalog.FilterState {
	query := c.Request.URL.Query()
	keys := make([]string, 0, len(query))
	for k := range query {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	state := catalog.FilterState{}
	for _, k := range keys {
		state = state.With(k, query[k]...)
	}
	return state
}

func parseRole(s string) (catalog.Role, error) {
	role, err := catalog.ParseRole(s)
	if err != nil {
		return "", errors.InvalidInput(err.Error())
	}
	return role, nil
}
