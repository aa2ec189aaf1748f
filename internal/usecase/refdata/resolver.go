// Package refdata resolves closed reference enumerations (action types,
// process statuses, lifecycle stages, funding offer types) to identifiers.
package refdata

import (
	"context"
	"errors"

	"qualrecon/internal/domain/register"
	"qualrecon/internal/errs"
	"qualrecon/internal/ports"
)

// Canonical reference data names used by the reconciliation passes.
const (
	ActionRequired         = "Action Required"
	ActionNoActionRequired = "No Action Required"

	StatusDecisionRequired = "Decision Required"
	StatusNoActionRequired = "No Action Required"

	StageNew     = "New"
	StageChanged = "Changed"
)

// Resolver is an immutable name-to-identifier snapshot of the reference
// tables, taken once at load. The tables are near-static configuration, so
// staleness after load is acceptable.
type Resolver struct {
	actionTypes       map[string]uint64
	processStatuses   map[string]uint64
	lifecycleStages   map[string]uint64
	fundingOfferTypes map[string]uint64
}

// Load reads all reference tables into the resolver's maps.
func Load(ctx context.Context, repo ports.ReferenceDataRepository) (*Resolver, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	if repo == nil {
		return nil, errors.New("reference data repository is required")
	}

	actionTypes, err := repo.ListActionTypes(ctx)
	if err != nil {
		return nil, errs.Wrap(err, "load action types")
	}
	processStatuses, err := repo.ListProcessStatuses(ctx)
	if err != nil {
		return nil, errs.Wrap(err, "load process statuses")
	}
	lifecycleStages, err := repo.ListLifecycleStages(ctx)
	if err != nil {
		return nil, errs.Wrap(err, "load lifecycle stages")
	}
	fundingOfferTypes, err := repo.ListFundingOfferTypes(ctx)
	if err != nil {
		return nil, errs.Wrap(err, "load funding offer types")
	}

	return &Resolver{
		actionTypes:       toMap(actionTypes),
		processStatuses:   toMap(processStatuses),
		lifecycleStages:   toMap(lifecycleStages),
		fundingOfferTypes: toMap(fundingOfferTypes),
	}, nil
}

func toMap(items []ports.ReferenceItem) map[string]uint64 {
	m := make(map[string]uint64, len(items))
	for _, item := range items {
		m[item.Name] = item.ID
	}
	return m
}

func (r *Resolver) ActionTypeID(name string) (uint64, error) {
	return lookup(r.actionTypes, "action type", name)
}

func (r *Resolver) ProcessStatusID(name string) (uint64, error) {
	return lookup(r.processStatuses, "process status", name)
}

func (r *Resolver) LifecycleStageID(name string) (uint64, error) {
	return lookup(r.lifecycleStages, "lifecycle stage", name)
}

func (r *Resolver) FundingOfferTypeID(name string) (uint64, error) {
	return lookup(r.fundingOfferTypes, "funding offer type", name)
}

func lookup(m map[string]uint64, kind, name string) (uint64, error) {
	id, ok := m[name]
	if !ok {
		return 0, &register.NotFoundError{Kind: kind, Name: name}
	}
	return id, nil
}
