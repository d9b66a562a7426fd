package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/UnknownOlympus/athena/internal/api"
	"github.com/UnknownOlympus/athena/internal/lib/logger/sl"
	"github.com/UnknownOlympus/athena/internal/metrics"
	"github.com/UnknownOlympus/athena/internal/models"
	"github.com/UnknownOlympus/athena/internal/repository"
	"golang.org/x/sync/errgroup"
)

var (
	ErrEmployeeNotFound = errors.New("employee not found on the current page")
	ErrStaleResponse    = errors.New("response superseded by a newer fetch")
	ErrModalClosed      = errors.New("no create or edit in progress")
	ErrTargetMismatch   = errors.New("submitted employee does not match the one being edited")
)

// Dashboard holds the state of one admin page: the fetched employees and
// divisions, paging and search, and the create/edit form.
type Dashboard struct {
	log     *slog.Logger
	api     api.EmployeeAPIIface
	actions repository.ActionRepoIface
	metrics *metrics.Metrics
	now     func() time.Time

	mu         sync.Mutex
	employees  []models.Employee
	divisions  []models.Division
	page       int
	search     string
	modal      ModalMode
	form       models.EmployeeForm
	editTarget models.ID
	loaded     bool

	employeeFetch fetchGuard
	divisionFetch fetchGuard
}

// fetchGuard sequences overlapping fetches of one kind. Only the latest
// fetch may apply its response; starting a fetch cancels the previous one.
type fetchGuard struct {
	seq    uint64
	cancel context.CancelFunc
}

// begin must be called with the dashboard mutex held.
func (g *fetchGuard) begin(ctx context.Context) (uint64, context.Context, context.CancelFunc) {
	if g.cancel != nil {
		g.cancel()
	}
	g.seq++
	fetchCtx, cancel := context.WithCancel(ctx)
	g.cancel = cancel

	return g.seq, fetchCtx, cancel
}

// current must be called with the dashboard mutex held.
func (g *fetchGuard) current(seq uint64) bool {
	if seq != g.seq {
		return false
	}
	g.cancel = nil

	return true
}

// NewDashboard creates a dashboard on page 1. actions may be nil, in which
// case mutations are not audited.
func NewDashboard(
	log *slog.Logger,
	employeeAPI api.EmployeeAPIIface,
	actions repository.ActionRepoIface,
	metrics *metrics.Metrics,
) *Dashboard {
	return &Dashboard{
		log:       log,
		api:       employeeAPI,
		actions:   actions,
		metrics:   metrics,
		now:       time.Now,
		employees: []models.Employee{},
		divisions: []models.Division{},
		page:      1,
	}
}

func (d *Dashboard) initLogger(opn string) *slog.Logger {
	return d.log.With(
		sl.Op(opn),
		slog.String("component", "dashboard"),
	)
}

// Refresh fetches employees and divisions concurrently.
func (d *Dashboard) Refresh(ctx context.Context) error {
	var group errgroup.Group

	group.Go(func() error { return d.FetchEmployees(ctx) })
	group.Go(func() error { return d.FetchDivisions(ctx) })

	if err := group.Wait(); err != nil {
		return fmt.Errorf("failed to refresh dashboard: %w", err)
	}

	return nil
}

// Navigate moves to page and search term and refreshes when either changed.
// Pages below 1 are treated as 1.
func (d *Dashboard) Navigate(ctx context.Context, page int, search string) error {
	page = max(page, 1)

	d.mu.Lock()
	changed := d.page != page || d.search != search
	d.page = page
	d.search = search
	d.mu.Unlock()

	if !changed {
		return nil
	}

	return d.Refresh(ctx)
}

// FetchEmployees replaces the employee list with the current page. On failure
// the error is logged and the previous list is kept.
func (d *Dashboard) FetchEmployees(ctx context.Context) error {
	const opn = "Dashboard.FetchEmployees"
	log := d.initLogger(opn)

	d.mu.Lock()
	seq, fetchCtx, cancel := d.employeeFetch.begin(ctx)
	page, search := d.page, d.search
	d.mu.Unlock()
	defer cancel()

	employees, err := d.api.ListEmployees(fetchCtx, page, search)

	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.employeeFetch.current(seq) {
		d.metrics.StaleResponses.WithLabelValues("employee").Inc()
		log.DebugContext(ctx, "Dropped stale employee response", "page", page, "search", search)
		return ErrStaleResponse
	}

	if err != nil {
		log.ErrorContext(ctx, "Error fetching employees", "page", page, "search", search, sl.Err(err))
		return fmt.Errorf("failed to fetch employees: %w", err)
	}

	d.employees = employees
	d.loaded = true
	log.DebugContext(ctx, "Employees fetched", "page", page, "count", len(employees))

	return nil
}

// Loaded reports whether an employee list has been fetched successfully.
func (d *Dashboard) Loaded() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.loaded
}

// FetchDivisions replaces the division lookup list. On failure the error is
// logged and the previous list is kept.
func (d *Dashboard) FetchDivisions(ctx context.Context) error {
	const opn = "Dashboard.FetchDivisions"
	log := d.initLogger(opn)

	d.mu.Lock()
	seq, fetchCtx, cancel := d.divisionFetch.begin(ctx)
	d.mu.Unlock()
	defer cancel()

	divisions, err := d.api.ListDivisions(fetchCtx)

	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.divisionFetch.current(seq) {
		d.metrics.StaleResponses.WithLabelValues("division").Inc()
		log.DebugContext(ctx, "Dropped stale division response")
		return ErrStaleResponse
	}

	if err != nil {
		log.ErrorContext(ctx, "Error fetching divisions", sl.Err(err))
		return fmt.Errorf("failed to fetch divisions: %w", err)
	}

	d.divisions = divisions

	return nil
}

// OpenCreate opens the modal for a new employee.
func (d *Dashboard) OpenCreate() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.modal = ModalCreate
	d.editTarget = ""
}

// BeginEdit fills the form from the employee with the given identifier on the
// current page and opens the modal in edit mode.
func (d *Dashboard) BeginEdit(identifier models.ID) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	idx := slices.IndexFunc(d.employees, func(employee models.Employee) bool {
		return employee.ID == identifier
	})
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrEmployeeNotFound, identifier)
	}

	d.form = models.FormFromEmployee(d.employees[idx])
	d.editTarget = identifier
	d.modal = ModalEdit

	return nil
}

// UpdateForm replaces the form field values.
func (d *Dashboard) UpdateForm(form models.EmployeeForm) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.form = form
}

// Cancel closes the modal and clears the form and edit target.
func (d *Dashboard) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.resetForm()
}

// resetForm must be called with the dashboard mutex held.
func (d *Dashboard) resetForm() {
	d.modal = ModalClosed
	d.form = models.EmployeeForm{}
	d.editTarget = ""
}

// Save submits the form: to the update endpoint when an edit target is set,
// to the create endpoint otherwise. On success the list is refetched once and
// the modal is closed with a cleared form. On failure the state is kept.
func (d *Dashboard) Save(ctx context.Context) error {
	const opn = "Dashboard.Save"
	log := d.initLogger(opn)

	d.mu.Lock()
	form, target := d.form, d.editTarget
	d.mu.Unlock()

	err := d.api.SaveEmployee(ctx, target, form)
	d.record(ctx, log, models.ActionSave, target, err)
	if err != nil {
		// the browser cannot show the upload again, so it is not kept
		d.mu.Lock()
		d.form.Image = nil
		d.mu.Unlock()

		log.ErrorContext(ctx, "Error saving employee data", "target", target.String(), sl.Err(err))
		return fmt.Errorf("failed to save employee: %w", err)
	}

	// fetch failures are logged inside and must not keep the modal open
	_ = d.FetchEmployees(ctx)

	d.mu.Lock()
	d.resetForm()
	d.mu.Unlock()

	log.InfoContext(ctx, "Employee saved", "target", target.String())

	return nil
}

// Submit saves form for the employee the browser was editing. target is empty
// for a create and must match the dashboard's edit target, and the modal must
// be open; otherwise nothing is sent.
func (d *Dashboard) Submit(ctx context.Context, target models.ID, form models.EmployeeForm) error {
	const opn = "Dashboard.Submit"
	log := d.initLogger(opn)

	d.mu.Lock()
	modal, editTarget := d.modal, d.editTarget
	if modal != ModalClosed && editTarget == target {
		d.form = form
	}
	d.mu.Unlock()

	switch {
	case modal == ModalClosed:
		log.WarnContext(ctx, "Refused employee form without an open modal", "target", target.String())
		return ErrModalClosed
	case editTarget != target:
		log.WarnContext(ctx, "Refused employee form for another employee",
			"target", target.String(), "editing", editTarget.String())
		return fmt.Errorf("%w: %s", ErrTargetMismatch, target)
	}

	return d.Save(ctx)
}

// Delete removes the employee and refetches the list once on success.
func (d *Dashboard) Delete(ctx context.Context, identifier models.ID) error {
	const opn = "Dashboard.Delete"
	log := d.initLogger(opn)

	err := d.api.DeleteEmployee(ctx, identifier)
	d.record(ctx, log, models.ActionDelete, identifier, err)
	if err != nil {
		log.ErrorContext(ctx, "Error deleting employee", "id", identifier.String(), sl.Err(err))
		return fmt.Errorf("failed to delete employee: %w", err)
	}

	// fetch failures are logged inside
	_ = d.FetchEmployees(ctx)

	log.InfoContext(ctx, "Employee deleted", "id", identifier.String())

	return nil
}

func (d *Dashboard) record(ctx context.Context, log *slog.Logger, kind string, identifier models.ID, err error) {
	outcome := models.OutcomeSuccess
	if err != nil {
		outcome = models.OutcomeFailure
	}
	d.metrics.Actions.WithLabelValues(kind, outcome).Inc()

	if d.actions == nil {
		return
	}

	action := models.Action{Kind: kind, EmployeeID: identifier, Outcome: outcome, At: d.now().UTC()}
	if saveErr := d.actions.SaveAction(ctx, action); saveErr != nil {
		log.WarnContext(ctx, "Failed to record dashboard action", "action", kind, sl.Err(saveErr))
	}
}

// Snapshot returns a copy of the current state with the name filter applied.
func (d *Dashboard) Snapshot() View {
	d.mu.Lock()
	defer d.mu.Unlock()

	return View{
		Employees:  FilterByName(d.employees, d.search),
		Total:      len(d.employees),
		Divisions:  slices.Clone(d.divisions),
		Page:       d.page,
		Search:     d.search,
		Modal:      d.modal,
		Form:       d.form,
		EditTarget: d.editTarget,
	}
}
