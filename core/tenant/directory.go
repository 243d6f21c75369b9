package tenant

import (
	"context"
	"fmt"
	"strings"

	"github.com/trezcool/matokeo/core"
	"github.com/trezcool/matokeo/core/catalog"
)

// Fallback is the built-in tenant used when discovery yields nothing.
// Downstream resolution always has at least one tenant to try.
const Fallback = "jntuh"

// reservedPrefixes are system-schema prefixes never treated as tenants.
var reservedPrefixes = map[string]bool{
	"pg":          true,
	"sql":         true,
	"mysql":       true,
	"sys":         true,
	"information": true,
	"performance": true,
}

// Directory discovers tenants from table-name prefixes. There is no tenant
// registry: a tenant exists iff at least one table carries its prefix.
type Directory struct {
	store  catalog.Store
	logger core.Logger
}

func NewDirectory(store catalog.Store, logger core.Logger) *Directory {
	return &Directory{store: store, logger: logger}
}

// Tenants lists all known tenant prefixes, deduplicated, in discovery order.
// A fresh backend or a backend error degrades to the single Fallback tenant;
// discovery never blocks a caller flow that only needs some tenant to try.
func (d *Directory) Tenants(ctx context.Context) []string {
	tables, err := d.store.ListTables(ctx)
	if err != nil {
		d.logger.Warn(fmt.Sprintf("listing tables: %v; falling back to %q", err, Fallback))
		return []string{Fallback}
	}

	seen := make(map[string]bool)
	var tenants []string
	for _, table := range tables {
		idx := strings.Index(table, "_")
		if idx <= 0 {
			continue
		}
		prefix := table[:idx]
		if reservedPrefixes[prefix] || seen[prefix] {
			continue
		}
		seen[prefix] = true
		tenants = append(tenants, prefix)
	}

	if len(tenants) == 0 {
		return []string{Fallback}
	}
	return tenants
}
