// Package bulk implements the admin selection workflow that applies one
// catalog action to many products.
package bulk

import (
	"context"
	"fmt"

	"github.com/cloud-wave-best-zizon/battery-store/internal/domain"
)

type State int

const (
	Idle State = iota
	Selecting
	Confirming
	Processing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Selecting:
		return "selecting"
	case Confirming:
		return "confirming"
	case Processing:
		return "processing"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

type Action string

const (
	ActionDelete         Action = "delete"
	ActionChangeCategory Action = "change-category"
)

// Catalog is the subset of the catalog store a bulk run writes through.
type Catalog interface {
	Update(ctx context.Context, id string, patch domain.ProductPatch) (domain.Product, error)
	Delete(ctx context.Context, id string) error
}

// ItemResult is the outcome for one selected id. Error is empty on success.
type ItemResult struct {
	ID    string `json:"id"`
	Error string `json:"error,omitempty"`
}

type Report struct {
	Action    Action       `json:"action"`
	Total     int          `json:"total"`
	Succeeded int          `json:"succeeded"`
	Failed    int          `json:"failed"`
	Results   []ItemResult `json:"results"`
}

// Partial reports some but not all items failing.
func (r Report) Partial() bool {
	return r.Failed > 0 && r.Succeeded > 0
}

func (r Report) AllFailed() bool {
	return r.Total > 0 && r.Failed == r.Total
}

// Workflow is the Idle, Selecting, Confirming, Processing state machine.
// It is not safe for concurrent use.
type Workflow struct {
	catalog  Catalog
	state    State
	order    []string
	selected map[string]struct{}
	action   Action
	category string
}

func NewWorkflow(catalog Catalog) *Workflow {
	return &Workflow{catalog: catalog, selected: make(map[string]struct{})}
}

func (w *Workflow) State() State {
	return w.state
}

// Selection returns the selected ids in the order they were selected.
func (w *Workflow) Selection() []string {
	return append([]string(nil), w.order...)
}

func (w *Workflow) IsSelected(id string) bool {
	_, ok := w.selected[id]
	return ok
}

// Toggle adds id to the selection or removes it if already present.
func (w *Workflow) Toggle(id string) error {
	if err := w.requireSelectable(); err != nil {
		return err
	}
	if _, ok := w.selected[id]; ok {
		delete(w.selected, id)
		for i, v := range w.order {
			if v == id {
				w.order = append(w.order[:i], w.order[i+1:]...)
				break
			}
		}
	} else {
		w.selected[id] = struct{}{}
		w.order = append(w.order, id)
	}
	w.syncSelectionState()
	return nil
}

// SelectAll replaces the selection with the visible ids.
func (w *Workflow) SelectAll(visible []string) error {
	if err := w.requireSelectable(); err != nil {
		return err
	}
	w.reset()
	for _, id := range visible {
		if _, ok := w.selected[id]; ok {
			continue
		}
		w.selected[id] = struct{}{}
		w.order = append(w.order, id)
	}
	w.syncSelectionState()
	return nil
}

func (w *Workflow) Clear() error {
	if err := w.requireSelectable(); err != nil {
		return err
	}
	w.reset()
	w.state = Idle
	return nil
}

// Request moves a non-empty selection into confirmation. A category change
// needs the target category.
func (w *Workflow) Request(action Action, category string) error {
	if w.state != Selecting {
		if w.state == Idle {
			return domain.ErrEmptySelection
		}
		return domain.ErrInvalidTransition
	}
	switch action {
	case ActionDelete:
		category = ""
	case ActionChangeCategory:
		if category == "" {
			return domain.NewValidationError("category", "required for a category change")
		}
	default:
		return domain.NewValidationError("action", fmt.Sprintf("unknown bulk action %q", action))
	}
	w.action = action
	w.category = category
	w.state = Confirming
	return nil
}

// Cancel abandons a pending confirmation and keeps the selection.
func (w *Workflow) Cancel() error {
	if w.state != Confirming {
		return domain.ErrInvalidTransition
	}
	w.action, w.category = "", ""
	w.state = Selecting
	return nil
}

// Confirm runs the requested action over the selection one id at a time.
// A failing id does not stop the run. Once ctx is done the remaining ids are
// recorded as failed without being attempted. The workflow ends Idle with an
// empty selection whatever the outcome.
func (w *Workflow) Confirm(ctx context.Context) (Report, error) {
	if w.state != Confirming {
		return Report{}, domain.ErrInvalidTransition
	}
	w.state = Processing

	report := Report{Action: w.action, Total: len(w.order), Results: make([]ItemResult, 0, len(w.order))}
	for _, id := range w.order {
		err := ctx.Err()
		if err == nil {
			err = w.apply(ctx, id)
		}
		result := ItemResult{ID: id}
		if err != nil {
			result.Error = err.Error()
			report.Failed++
		} else {
			report.Succeeded++
		}
		report.Results = append(report.Results, result)
	}

	w.reset()
	w.action, w.category = "", ""
	w.state = Idle
	return report, nil
}

func (w *Workflow) apply(ctx context.Context, id string) error {
	if w.action == ActionDelete {
		return w.catalog.Delete(ctx, id)
	}
	category := w.category
	_, err := w.catalog.Update(ctx, id, domain.ProductPatch{Category: &category})
	return err
}

func (w *Workflow) requireSelectable() error {
	if w.state == Idle || w.state == Selecting {
		return nil
	}
	return domain.ErrInvalidTransition
}

func (w *Workflow) syncSelectionState() {
	if len(w.order) == 0 {
		w.state = Idle
	} else {
		w.state = Selecting
	}
}

func (w *Workflow) reset() {
	w.order = nil
	w.selected = make(map[string]struct{})
}
