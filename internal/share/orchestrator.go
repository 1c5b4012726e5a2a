package share

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/cellarly/cellarctl/internal/api"
)

// Step identifies the wizard's current state. Signals from a collaborator
// are only honored while the session's step matches that collaborator's
// expected state; anything else is a stale signal and is ignored.
type Step string

const (
	// StepIdle means no session is running.
	StepIdle Step = "idle"
	// StepChoose means the bottle picker is the active dialog.
	StepChoose Step = "choose"
	// StepInventory means the inventory intake is the active dialog.
	StepInventory Step = "inventory"
	// StepUsers means the recipient picker is the active dialog.
	StepUsers Step = "users"
)

// DefaultCancelReason is the reason used when a run is cancelled without a
// more specific one.
const DefaultCancelReason = "Wine share was cancelled."

// ErrSessionActive is returned by Start while another session is running.
var ErrSessionActive = errors.New("a share session is already active")

// Options configures one wizard run.
type Options struct {
	// OnComplete is invoked once with the server response after a
	// successful submission.
	OnComplete func(resp *api.ShareResponse)
	// OnCancel is invoked once with the reason whenever the run ends
	// without completing.
	OnCancel func(reason string)
	// PreselectedRecipients are marked selected when the recipient picker
	// opens.
	PreselectedRecipients []string
	// Silent suppresses the default user-facing alerts on success and
	// failure, letting the caller own presentation.
	Silent bool
}

// Transport performs the single share submission. Satisfied by *api.Client.
type Transport interface {
	ShareBottles(ctx context.Context, req api.ShareRequest) (*api.ShareResponse, error)
}

// Deps are the collaborators an Orchestrator sequences. Bottles, Intake and
// Recipients are independently built dialogs; the orchestrator opens them
// and listens, but never reaches into their internals.
type Deps struct {
	Bottles    BottlePicker
	Intake     InventoryIntake
	Recipients RecipientPicker
	Transport  Transport
	Notifier   Notifier
	Logger     *zap.Logger
}

// session is the single live run. It is created by Start, mutated only by
// the orchestrator's own handlers, and reset to the zero value on
// completion, cancellation or error. No state survives across runs.
type session struct {
	active            bool
	step              Step
	selectedBottleIDs []string
	pendingCreations  []api.NewBottleRequest
	recipientIDs      []string
	submitting        bool
	reopenIntake      bool
	opts              Options
	result            *Result
}

// Orchestrator sequences the bottle picker, inventory intake and recipient
// picker into one finite-state, cancelable run ending in a single atomic
// share request. At most one session is active at a time.
//
// All methods must be called from a single goroutine (the UI loop); the
// concurrency model is cooperative, with the submitting flag guarding the
// one suspension point.
type Orchestrator struct {
	bottles    BottlePicker
	intake     InventoryIntake
	recipients RecipientPicker
	transport  Transport
	notifier   Notifier
	log        *zap.Logger

	subscribers []func(Event)
	s           session
}

// New creates an orchestrator over the given collaborators.
func New(deps Deps) *Orchestrator {
	notifier := deps.Notifier
	if notifier == nil {
		notifier = nopNotifier{}
	}
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Orchestrator{
		bottles:    deps.Bottles,
		intake:     deps.Intake,
		recipients: deps.Recipients,
		transport:  deps.Transport,
		notifier:   notifier,
		log:        log,
		s:          session{step: StepIdle},
	}
}

// IsActive reports whether a session is running. Callers use it to guard
// concurrent starts.
func (o *Orchestrator) IsActive() bool {
	return o.s.active
}

// Step returns the current wizard step, StepIdle when no session runs.
func (o *Orchestrator) Step() Step {
	if !o.s.active {
		return StepIdle
	}
	return o.s.step
}

// Start begins a session and opens the bottle picker. It fails synchronously
// with ErrSessionActive if a session is already running, leaving that
// session untouched. Any later failure rejects the returned Result instead.
func (o *Orchestrator) Start(opts Options) (*Result, error) {
	if o.s.active {
		return nil, ErrSessionActive
	}

	o.s = session{
		active: true,
		step:   StepChoose,
		opts:   opts,
		result: newResult(),
	}
	o.log.Debug("share session started")

	result := o.s.result
	o.openBottlePicker()
	return result, nil
}

// Cancel aborts the active session from any state, invoking OnCancel,
// emitting the cancelled event and rejecting the pending result. Session
// state is fully reset before anyone is notified, so a subsequent Start
// never observes stale data. Calling Cancel with no active session is a
// no-op.
func (o *Orchestrator) Cancel(reason string) {
	if !o.s.active {
		return
	}
	if strings.TrimSpace(reason) == "" {
		reason = DefaultCancelReason
	}

	opts := o.s.opts
	result := o.s.result
	o.reset()

	o.log.Debug("share session cancelled", zap.String("reason", reason))
	if opts.OnCancel != nil {
		opts.OnCancel(reason)
	}
	o.emit(Event{Kind: EventCancelled, Reason: reason})
	if result != nil {
		result.reject(errors.New(reason))
	}
	if !opts.Silent {
		o.notifier.Error(reason)
	}
}

func (o *Orchestrator) reset() {
	o.s = session{step: StepIdle}
}

// hasBottlesToShare reports whether the session has anything worth
// submitting: at least one existing bottle, or a pending creation with a
// positive quantity.
func (o *Orchestrator) hasBottlesToShare() bool {
	if len(o.s.selectedBottleIDs) > 0 {
		return true
	}
	for _, c := range o.s.pendingCreations {
		if c.Quantity > 0 {
			return true
		}
	}
	return false
}

// --- choose: bottle picker ---

func (o *Orchestrator) openBottlePicker() {
	if o.bottles == nil {
		o.Cancel("The bottle picker is not available.")
		return
	}
	err := o.bottles.Open(BottlePickerOptions{
		OnSelected: o.handleBottlesSelected,
		OnClosed:   o.handleBottlesClosed,
	})
	if err != nil {
		o.Cancel(fmt.Sprintf("Could not open the bottle picker: %v", err))
	}
}

func (o *Orchestrator) handleBottlesSelected(ids []string) {
	if !o.s.active || o.s.step != StepChoose {
		o.log.Debug("ignoring stale bottle selection", zap.String("step", string(o.s.step)))
		return
	}
	o.s.selectedBottleIDs = NormalizeIDList(ids)
	o.log.Debug("bottles selected", zap.Int("count", len(o.s.selectedBottleIDs)))

	// The intake dialog always follows the picker, whether or not bottles
	// were chosen, so the user can add new bottles on top of the selection.
	o.openIntake()
}

func (o *Orchestrator) handleBottlesClosed(reason CloseReason) {
	if !o.s.active || o.s.step != StepChoose {
		return
	}
	o.log.Debug("bottle picker closed", zap.String("reason", string(reason)))
	// An empty selection is a dismissal, and a dismissal still advances:
	// the user may create bottles in the intake dialog instead.
	o.openIntake()
}

// --- inventory: intake dialog ---

func (o *Orchestrator) openIntake() {
	o.s.step = StepInventory
	if o.intake == nil {
		o.Cancel("The inventory dialog is not available.")
		return
	}
	err := o.intake.Open(InventoryIntakeOptions{
		WizardMode:        true,
		OnWizardSelection: o.handleIntakeSelection,
		OnClosed:          o.handleIntakeClosed,
	})
	if err != nil {
		o.Cancel(fmt.Sprintf("Could not open the inventory dialog: %v", err))
	}
}

func (o *Orchestrator) handleIntakeSelection(sel IntakeSelection) {
	if !o.s.active || o.s.step != StepInventory {
		o.log.Debug("ignoring stale intake selection")
		return
	}

	// The dialog closes itself after reporting; mark the closure as an
	// intentional reopen so it is not mistaken for the user being done.
	o.s.reopenIntake = true

	wineID := strings.TrimSpace(sel.WineID)
	vintage, ok := ParseVintage(sel.Vintage)
	if wineID == "" || !ok {
		// Incomplete entry: append nothing, reopen, let the user retry.
		o.log.Debug("dropping invalid intake selection",
			zap.Bool("hasWine", wineID != ""),
			zap.Bool("hasVintage", ok),
		)
		return
	}

	o.s.pendingCreations = append(o.s.pendingCreations, api.NewBottleRequest{
		WineID:           wineID,
		Vintage:          vintage,
		Quantity:         ParseQuantity(sel.Quantity),
		BottleLocationID: strings.TrimSpace(sel.BottleLocationID),
	})
	o.log.Debug("new bottle request accumulated",
		zap.String("wine", wineID),
		zap.Int("pending", len(o.s.pendingCreations)),
	)
}

func (o *Orchestrator) handleIntakeClosed(reason CloseReason) {
	if !o.s.active || o.s.step != StepInventory {
		return
	}
	o.log.Debug("intake closed", zap.String("reason", string(reason)))

	if reason == CloseError {
		o.Cancel("The inventory dialog failed.")
		return
	}

	if o.s.reopenIntake {
		o.s.reopenIntake = false
		o.openIntake()
		return
	}

	if !o.hasBottlesToShare() {
		o.Cancel("No bottles selected or created.")
		return
	}
	o.openRecipients()
}

// --- users: recipient picker and submission ---

func (o *Orchestrator) openRecipients() {
	o.s.step = StepUsers
	if o.recipients == nil {
		o.Cancel("The recipient picker is not available.")
		return
	}
	err := o.recipients.Open(RecipientPickerOptions{
		Preselected: NormalizeIDList(o.s.opts.PreselectedRecipients),
		OnSubmit:    o.handleRecipientsSubmit,
		OnClosed:    o.handleRecipientsClosed,
	})
	if err != nil {
		o.Cancel(fmt.Sprintf("Could not open the recipient picker: %v", err))
	}
}

func (o *Orchestrator) handleRecipientsSubmit(ids []string, ctrl SubmitControl) bool {
	if !o.s.active || o.s.step != StepUsers || o.s.submitting {
		return false
	}

	// Re-checked here even though the picker guarantees both.
	recipientIDs := NormalizeIDList(ids)
	if len(recipientIDs) == 0 {
		o.surfaceError("Select at least one recipient.")
		return false
	}
	if !o.hasBottlesToShare() {
		o.surfaceError("No bottles selected or created.")
		return false
	}

	o.s.recipientIDs = recipientIDs
	o.s.submitting = true
	if ctrl != nil {
		ctrl.Disable()
	}

	req := o.buildRequest()
	o.log.Debug("submitting share request",
		zap.Int("existing", len(req.ExistingBottleIDs)),
		zap.Int("new", len(req.NewBottleRequests)),
		zap.Int("recipients", len(req.RecipientUserIDs)),
	)

	resp, err := o.transport.ShareBottles(context.Background(), req)
	if err != nil {
		// Leave the session in the users step so the user can retry
		// without re-selecting recipients.
		o.s.submitting = false
		if ctrl != nil {
			ctrl.Enable()
		}
		o.log.Warn("share request failed", zap.Error(err))
		o.surfaceError(api.Message(err))
		return true
	}

	o.complete(req, resp)
	return true
}

func (o *Orchestrator) handleRecipientsClosed(reason CloseReason) {
	if !o.s.active || o.s.step != StepUsers {
		return
	}
	// A close arriving mid-submission is the picker reacting to the
	// in-flight request, not the user cancelling.
	if o.s.submitting || reason == CloseCompleted {
		return
	}
	o.Cancel(DefaultCancelReason)
}

// buildRequest produces the wire payload fresh from accumulated state.
func (o *Orchestrator) buildRequest() api.ShareRequest {
	existing := make([]string, len(o.s.selectedBottleIDs))
	copy(existing, o.s.selectedBottleIDs)
	creations := make([]api.NewBottleRequest, len(o.s.pendingCreations))
	copy(creations, o.s.pendingCreations)
	recipients := make([]string, len(o.s.recipientIDs))
	copy(recipients, o.s.recipientIDs)

	return api.ShareRequest{
		ExistingBottleIDs: existing,
		NewBottleRequests: creations,
		RecipientUserIDs:  recipients,
	}
}

func (o *Orchestrator) complete(req api.ShareRequest, resp *api.ShareResponse) {
	opts := o.s.opts
	result := o.s.result
	o.reset()

	// Close with "completed" so the picker's own close handler does not
	// misread the teardown as a cancellation.
	if o.recipients != nil {
		o.recipients.Close(CloseCompleted)
	}

	o.log.Info("share completed",
		zap.Int("bottles", len(req.ExistingBottleIDs)+len(req.NewBottleRequests)),
		zap.Int("recipients", len(req.RecipientUserIDs)),
	)
	if opts.OnComplete != nil {
		opts.OnComplete(resp)
	}
	o.emit(Event{Kind: EventCompleted, Response: resp})
	if result != nil {
		result.resolve(resp)
	}
	if !opts.Silent {
		o.notifier.Success(successMessage(req, resp))
	}
}

func (o *Orchestrator) surfaceError(msg string) {
	if !o.s.opts.Silent {
		o.notifier.Error(msg)
	}
}

// successMessage derives the user-facing summary for a completed share. The
// backend-supplied message wins when present; otherwise the counts come from
// the response, falling back to the request, and a generic message covers
// the case where either count is zero.
func successMessage(req api.ShareRequest, resp *api.ShareResponse) string {
	if resp != nil {
		if msg := strings.TrimSpace(resp.Message); msg != "" {
			return msg
		}
	}

	bottles := 0
	recipients := 0
	if resp != nil {
		bottles = len(resp.SharedBottleIDs)
		recipients = len(resp.RecipientUserIDs)
	}
	if bottles == 0 {
		bottles = len(req.ExistingBottleIDs) + len(req.NewBottleRequests)
	}
	if recipients == 0 {
		recipients = len(req.RecipientUserIDs)
	}
	if bottles == 0 || recipients == 0 {
		return "Wine share completed."
	}
	return fmt.Sprintf("Shared %d bottle(s) with %d fellow surfer(s).", bottles, recipients)
}
