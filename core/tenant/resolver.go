package tenant

import (
	"context"
	"fmt"

	"github.com/trezcool/matokeo/core"
	"github.com/trezcool/matokeo/core/catalog"
)

type (
	// Resolution is the outcome of a tenant scan. Defaulted distinguishes
	// "confidently resolved" from "fell back to a deterministic default";
	// callers that do not care use Tenant either way.
	Resolution struct {
		Tenant    string `json:"tenant"`
		Defaulted bool   `json:"defaulted"`
	}

	// DeptResolution is the department counterpart.
	DeptResolution struct {
		Dept      catalog.Dept `json:"department"`
		Defaulted bool         `json:"defaulted"`
	}
)

// Resolver determines which tenant (and department) owns a student
// identifier by scanning roster and results tables across all known
// tenants. Scans are read-only, uncached and O(tenants x departments x
// semesters) in the worst case; repeated calls redo the full scan.
type Resolver struct {
	dir    *Directory
	store  catalog.Store
	logger core.Logger
}

func NewResolver(dir *Directory, store catalog.Store, logger core.Logger) *Resolver {
	return &Resolver{dir: dir, store: store, logger: logger}
}

// ResolveStudent finds the tenant owning htno. In order, first match wins:
// every tenant's student roster, then every tenant's results tables, then
// the first known tenant, then the built-in Fallback. It never fails:
// precision is traded for availability since the surrounding login/search
// flows treat "tenant unknown" as fatal.
func (r *Resolver) ResolveStudent(ctx context.Context, htno string) Resolution {
	tenants := r.dir.Tenants(ctx)

	for _, tnt := range tenants {
		if r.inRoster(ctx, tnt, htno) {
			return Resolution{Tenant: tnt}
		}
	}
	for _, tnt := range tenants {
		if r.inAnyResultsTable(ctx, tnt, htno) {
			return Resolution{Tenant: tnt}
		}
	}
	if len(tenants) > 0 {
		return Resolution{Tenant: tenants[0], Defaulted: true}
	}
	return Resolution{Tenant: Fallback, Defaulted: true}
}

// ResolveDepartment finds the department owning htno within a tenant by
// scanning every semester's results table of every known department code.
// The first department with a hit wins; no hit yields the fixed default.
func (r *Resolver) ResolveDepartment(ctx context.Context, htno, tnt string) DeptResolution {
	for _, dept := range catalog.Departments {
		for _, sem := range catalog.Semesters {
			table := catalog.Results(tnt, dept, sem)
			name, err := table.Name()
			if err != nil {
				r.logger.Warn(fmt.Sprintf("routing results table for %q/%s: %v", tnt, dept, err))
				break
			}
			exists, err := r.store.TableExists(ctx, table)
			if err != nil || !exists {
				continue
			}
			found, err := r.store.HasStudent(ctx, name, htno)
			if err != nil {
				continue
			}
			if found {
				return DeptResolution{Dept: dept}
			}
		}
	}
	return DeptResolution{Dept: catalog.DefaultDept, Defaulted: true}
}

func (r *Resolver) inRoster(ctx context.Context, tnt, htno string) bool {
	table := catalog.Students(tnt)
	name, err := table.Name()
	if err != nil {
		return false
	}
	exists, err := r.store.TableExists(ctx, table)
	if err != nil || !exists {
		return false
	}
	found, err := r.store.HasStudent(ctx, name, htno)
	if err != nil {
		r.logger.Warn(fmt.Sprintf("scanning roster %s: %v", name, err))
		return false
	}
	return found
}

func (r *Resolver) inAnyResultsTable(ctx context.Context, tnt, htno string) bool {
	pattern, err := catalog.ResultsPattern(tnt)
	if err != nil {
		return false
	}
	tables, err := r.store.TablesLike(ctx, pattern)
	if err != nil {
		r.logger.Warn(fmt.Sprintf("listing results tables for %q: %v", tnt, err))
		return false
	}
	for _, tableName := range tables {
		name, err := catalog.Sanitize(tableName)
		if err != nil {
			continue
		}
		found, err := r.store.HasStudent(ctx, name, htno)
		if err != nil {
			continue
		}
		if found {
			return true
		}
	}
	return false
}
