package refdata

import (
	"context"
	"errors"
	"testing"

	"qualrecon/internal/domain/register"
	"qualrecon/internal/ports"
)

type fakeReferenceRepo struct {
	actionTypes     []ports.ReferenceItem
	processStatuses []ports.ReferenceItem
	lifecycleStages []ports.ReferenceItem
	offerTypes      []ports.ReferenceItem
}

func (f *fakeReferenceRepo) ListActionTypes(context.Context) ([]ports.ReferenceItem, error) {
	return f.actionTypes, nil
}

func (f *fakeReferenceRepo) ListProcessStatuses(context.Context) ([]ports.ReferenceItem, error) {
	return f.processStatuses, nil
}

func (f *fakeReferenceRepo) ListLifecycleStages(context.Context) ([]ports.ReferenceItem, error) {
	return f.lifecycleStages, nil
}

func (f *fakeReferenceRepo) ListFundingOfferTypes(context.Context) ([]ports.ReferenceItem, error) {
	return f.offerTypes, nil
}

func (f *fakeReferenceRepo) Seed(context.Context) error {
	return nil
}

func TestResolverLookups(t *testing.T) {
	repo := &fakeReferenceRepo{
		actionTypes:     []ports.ReferenceItem{{ID: 1, Name: ActionRequired}, {ID: 2, Name: ActionNoActionRequired}},
		processStatuses: []ports.ReferenceItem{{ID: 3, Name: StatusDecisionRequired}},
		lifecycleStages: []ports.ReferenceItem{{ID: 4, Name: StageNew}, {ID: 5, Name: StageChanged}},
		offerTypes:      []ports.ReferenceItem{{ID: 6, Name: "Age 16-18"}},
	}

	resolver, err := Load(context.Background(), repo)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	id, err := resolver.ActionTypeID(ActionRequired)
	if err != nil || id != 1 {
		t.Fatalf("ActionTypeID() = %d, %v", id, err)
	}
	id, err = resolver.LifecycleStageID(StageChanged)
	if err != nil || id != 5 {
		t.Fatalf("LifecycleStageID() = %d, %v", id, err)
	}
	id, err = resolver.FundingOfferTypeID("Age 16-18")
	if err != nil || id != 6 {
		t.Fatalf("FundingOfferTypeID() = %d, %v", id, err)
	}
}

func TestResolverMissingNameReturnsNotFound(t *testing.T) {
	resolver, err := Load(context.Background(), &fakeReferenceRepo{})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	_, err = resolver.ProcessStatusID(StatusDecisionRequired)
	if err == nil {
		t.Fatal("ProcessStatusID() expected error for missing name")
	}
	var notFound *register.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("error type = %T, want *register.NotFoundError", err)
	}
	if notFound.Kind != "process status" || notFound.Name != StatusDecisionRequired {
		t.Fatalf("NotFoundError = %+v", notFound)
	}
}

func TestLoadRequiresContextAndRepo(t *testing.T) {
	if _, err := Load(nil, &fakeReferenceRepo{}); err == nil {
		t.Fatal("Load() expected error for nil context")
	}
	if _, err := Load(context.Background(), nil); err == nil {
		t.Fatal("Load() expected error for nil repository")
	}
}
