package reconcile

import "qualrecon/internal/domain/register"

// runCaches hold per-run identity lookups, threaded explicitly through the
// batch functions. They guarantee a qualification or organisation is never
// created twice within a single run, including entities created earlier in
// the same batch that have no database id yet.
type runCaches struct {
	orgsByUkprn map[int64]*register.Organisation
	qualsByQan  map[string]*register.Qualification
	latestByQan map[string]register.QualificationVersion

	orgMarkedUpdated  map[int64]bool
	qualMarkedUpdated map[string]bool
}

func newRunCaches() *runCaches {
	return &runCaches{
		orgsByUkprn:       make(map[int64]*register.Organisation),
		qualsByQan:        make(map[string]*register.Qualification),
		latestByQan:       make(map[string]register.QualificationVersion),
		orgMarkedUpdated:  make(map[int64]bool),
		qualMarkedUpdated: make(map[string]bool),
	}
}
