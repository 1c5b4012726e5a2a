package share

import (
	"context"
	"errors"
	"testing"

	"github.com/cellarly/cellarctl/internal/api"
)

// --- fakes ---

type fakeBottlePicker struct {
	opened  int
	opts    BottlePickerOptions
	openErr error
}

func (f *fakeBottlePicker) Open(opts BottlePickerOptions) error {
	f.opened++
	f.opts = opts
	return f.openErr
}

type fakeIntake struct {
	opened  int
	opts    InventoryIntakeOptions
	openErr error
}

func (f *fakeIntake) Open(opts InventoryIntakeOptions) error {
	f.opened++
	f.opts = opts
	return f.openErr
}

type fakeRecipientPicker struct {
	opened  int
	opts    RecipientPickerOptions
	closed  []CloseReason
	openErr error
}

func (f *fakeRecipientPicker) Open(opts RecipientPickerOptions) error {
	f.opened++
	f.opts = opts
	return f.openErr
}

func (f *fakeRecipientPicker) Close(reason CloseReason) {
	f.closed = append(f.closed, reason)
}

type fakeTransport struct {
	requests []api.ShareRequest
	resp     *api.ShareResponse
	err      error
	inFlight func()
}

func (f *fakeTransport) ShareBottles(_ context.Context, req api.ShareRequest) (*api.ShareResponse, error) {
	f.requests = append(f.requests, req)
	if f.inFlight != nil {
		f.inFlight()
	}
	if f.err != nil {
		return nil, f.err
	}
	if f.resp != nil {
		return f.resp, nil
	}
	return &api.ShareResponse{}, nil
}

type recordingNotifier struct {
	successes []string
	errors    []string
}

func (n *recordingNotifier) Success(msg string) { n.successes = append(n.successes, msg) }
func (n *recordingNotifier) Error(msg string)   { n.errors = append(n.errors, msg) }

type fakeControl struct {
	disabled int
	enabled  int
}

func (c *fakeControl) Disable() { c.disabled++ }
func (c *fakeControl) Enable()  { c.enabled++ }

type fixture struct {
	orch       *Orchestrator
	bottles    *fakeBottlePicker
	intake     *fakeIntake
	recipients *fakeRecipientPicker
	transport  *fakeTransport
	notifier   *recordingNotifier
}

func newFixture() *fixture {
	f := &fixture{
		bottles:    &fakeBottlePicker{},
		intake:     &fakeIntake{},
		recipients: &fakeRecipientPicker{},
		transport:  &fakeTransport{},
		notifier:   &recordingNotifier{},
	}
	f.orch = New(Deps{
		Bottles:    f.bottles,
		Intake:     f.intake,
		Recipients: f.recipients,
		Transport:  f.transport,
		Notifier:   f.notifier,
	})
	return f
}

// --- tests ---

func TestStart_RejectsConcurrentSession(t *testing.T) {
	f := newFixture()

	first, err := f.orch.Start(Options{})
	if err != nil {
		t.Fatalf("first Start() error = %v", err)
	}

	second, err := f.orch.Start(Options{})
	if !errors.Is(err, ErrSessionActive) {
		t.Errorf("second Start() error = %v, want ErrSessionActive", err)
	}
	if second != nil {
		t.Error("second Start() should not return a result")
	}

	// First session untouched.
	if !f.orch.IsActive() {
		t.Error("first session should still be active")
	}
	if f.orch.Step() != StepChoose {
		t.Errorf("Step() = %v, want choose", f.orch.Step())
	}
	if first.Settled() {
		t.Error("first result should still be pending")
	}
}

func TestWizard_ExistingBottlesHappyPath(t *testing.T) {
	f := newFixture()
	f.transport.resp = &api.ShareResponse{
		SharedBottleIDs:  []string{"b1", "b2"},
		RecipientUserIDs: []string{"u1"},
	}

	var completions []*api.ShareResponse
	result, err := f.orch.Start(Options{
		OnComplete: func(resp *api.ShareResponse) { completions = append(completions, resp) },
	})
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	// Two existing bottles, then dismiss the intake immediately.
	f.bottles.opts.OnSelected([]string{"b1", "b2"})
	if f.intake.opened != 1 {
		t.Fatalf("intake opened %d times, want 1", f.intake.opened)
	}
	f.intake.opts.OnClosed(CloseDismissed)

	if f.recipients.opened != 1 {
		t.Fatalf("recipient picker opened %d times, want 1", f.recipients.opened)
	}

	ctrl := &fakeControl{}
	if !f.recipients.opts.OnSubmit([]string{"u1"}, ctrl) {
		t.Fatal("submit should have been accepted")
	}

	// Exactly one POST with 2/0/1 list lengths.
	if len(f.transport.requests) != 1 {
		t.Fatalf("POST count = %d, want 1", len(f.transport.requests))
	}
	req := f.transport.requests[0]
	if len(req.ExistingBottleIDs) != 2 {
		t.Errorf("existingBottleIds length = %d, want 2", len(req.ExistingBottleIDs))
	}
	if len(req.NewBottleRequests) != 0 {
		t.Errorf("newBottleRequests length = %d, want 0", len(req.NewBottleRequests))
	}
	if len(req.RecipientUserIDs) != 1 {
		t.Errorf("recipientUserIds length = %d, want 1", len(req.RecipientUserIDs))
	}

	if len(completions) != 1 {
		t.Fatalf("OnComplete fired %d times, want 1", len(completions))
	}
	if completions[0] != f.transport.resp {
		t.Error("OnComplete should receive the backend response")
	}
	if !result.Settled() || result.Err() != nil {
		t.Errorf("result should have resolved, err = %v", result.Err())
	}
	if result.Response() != f.transport.resp {
		t.Error("result should carry the backend response")
	}

	if ctrl.disabled != 1 {
		t.Errorf("submit control disabled %d times, want 1", ctrl.disabled)
	}
	if len(f.recipients.closed) != 1 || f.recipients.closed[0] != CloseCompleted {
		t.Errorf("recipient picker closed with %v, want [completed]", f.recipients.closed)
	}
	if f.orch.IsActive() {
		t.Error("session should be inactive after completion")
	}

	if len(f.notifier.successes) != 1 {
		t.Fatalf("success notifications = %d, want 1", len(f.notifier.successes))
	}
	if got, want := f.notifier.successes[0], "Shared 2 bottle(s) with 1 fellow surfer(s)."; got != want {
		t.Errorf("success message = %q, want %q", got, want)
	}
}

func TestWizard_CreateBottleThenCancelRecipients(t *testing.T) {
	f := newFixture()

	var cancelReason string
	completeFired := false
	result, err := f.orch.Start(Options{
		OnComplete: func(*api.ShareResponse) { completeFired = true },
		OnCancel:   func(reason string) { cancelReason = reason },
	})
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	// Dismiss the bottle picker with zero selections: still advances.
	f.bottles.opts.OnClosed(CloseDismissed)
	if f.intake.opened != 1 {
		t.Fatalf("intake opened %d times, want 1", f.intake.opened)
	}

	// Add one new bottle through the intake dialog.
	f.intake.opts.OnWizardSelection(IntakeSelection{
		WineID:   "w1",
		Vintage:  "2019",
		Quantity: "3",
	})
	f.intake.opts.OnClosed(CloseWizard)
	if f.intake.opened != 2 {
		t.Fatalf("intake should reopen after a wizard selection, opened = %d", f.intake.opened)
	}

	// Done adding; advance to recipients, then cancel there.
	f.intake.opts.OnClosed(CloseDismissed)
	if f.recipients.opened != 1 {
		t.Fatalf("recipient picker opened %d times, want 1", f.recipients.opened)
	}
	f.recipients.opts.OnClosed(CloseCancel)

	if f.orch.IsActive() {
		t.Error("session should be inactive after cancellation")
	}
	if completeFired {
		t.Error("OnComplete must not fire on a cancelled run")
	}
	if cancelReason != "Wine share was cancelled." {
		t.Errorf("cancel reason = %q, want %q", cancelReason, "Wine share was cancelled.")
	}
	if result.Err() == nil || result.Err().Error() != "Wine share was cancelled." {
		t.Errorf("result error = %v, want rejection with default reason", result.Err())
	}
	if len(f.transport.requests) != 0 {
		t.Errorf("no POST should be sent, got %d", len(f.transport.requests))
	}
}

func TestWizard_SubmitFailureKeepsSessionOpen(t *testing.T) {
	f := newFixture()
	f.transport.err = &api.APIError{
		Type:       api.ErrTypeHTTP,
		StatusCode: 400,
		Message:    "Out of stock",
	}

	result, _ := f.orch.Start(Options{})
	f.bottles.opts.OnSelected([]string{"b1"})
	f.intake.opts.OnClosed(CloseDismissed)

	ctrl := &fakeControl{}
	f.recipients.opts.OnSubmit([]string{"u1"}, ctrl)

	if len(f.notifier.errors) != 1 || f.notifier.errors[0] != "Out of stock" {
		t.Errorf("surfaced errors = %v, want [Out of stock]", f.notifier.errors)
	}
	if !f.orch.IsActive() {
		t.Error("session should remain active after a failed submission")
	}
	if f.orch.Step() != StepUsers {
		t.Errorf("Step() = %v, want users", f.orch.Step())
	}
	if result.Settled() {
		t.Error("result must not settle on a retryable failure")
	}
	if ctrl.enabled != 1 {
		t.Errorf("submit control re-enabled %d times, want 1", ctrl.enabled)
	}
	if len(f.recipients.closed) != 0 {
		t.Errorf("recipient picker should stay open, closed = %v", f.recipients.closed)
	}

	// Retry succeeds.
	f.transport.err = nil
	f.recipients.opts.OnSubmit([]string{"u1"}, ctrl)
	if len(f.transport.requests) != 2 {
		t.Fatalf("POST count = %d, want 2", len(f.transport.requests))
	}
	if !result.Settled() || result.Err() != nil {
		t.Errorf("result should resolve on retry, err = %v", result.Err())
	}
}

func TestWizard_InvalidIntakeSelectionsDropped(t *testing.T) {
	f := newFixture()
	f.orch.Start(Options{})
	f.bottles.opts.OnClosed(CloseDismissed)

	// Missing vintage, missing wine, unparseable vintage: all dropped.
	f.intake.opts.OnWizardSelection(IntakeSelection{WineID: "w1"})
	f.intake.opts.OnClosed(CloseWizard)
	f.intake.opts.OnWizardSelection(IntakeSelection{Vintage: "2019"})
	f.intake.opts.OnClosed(CloseWizard)
	f.intake.opts.OnWizardSelection(IntakeSelection{WineID: "w1", Vintage: "MMXIX"})
	f.intake.opts.OnClosed(CloseWizard)

	// One valid entry.
	f.intake.opts.OnWizardSelection(IntakeSelection{WineID: "w2", Vintage: "2020", Quantity: "20"})
	f.intake.opts.OnClosed(CloseWizard)

	if got := len(f.orch.s.pendingCreations); got != 1 {
		t.Fatalf("pendingCreations = %d, want 1", got)
	}
	c := f.orch.s.pendingCreations[0]
	if c.WineID != "w2" || c.Vintage != 2020 {
		t.Errorf("creation = %+v, want wine w2 vintage 2020", c)
	}
	if c.Quantity != MaxQuantity {
		t.Errorf("quantity = %d, want clamped to %d", c.Quantity, MaxQuantity)
	}

	// Every wizard cycle reopens the dialog, valid or not.
	if f.intake.opened != 5 {
		t.Errorf("intake opened %d times, want 5", f.intake.opened)
	}
}

func TestWizard_EmptyRunCancelsWithReason(t *testing.T) {
	f := newFixture()

	var reason string
	f.orch.Start(Options{OnCancel: func(r string) { reason = r }})
	f.bottles.opts.OnClosed(CloseDismissed)
	f.intake.opts.OnClosed(CloseDismissed)

	if f.orch.IsActive() {
		t.Error("session should be cancelled with nothing to share")
	}
	if reason != "No bottles selected or created." {
		t.Errorf("reason = %q, want %q", reason, "No bottles selected or created.")
	}
	if f.recipients.opened != 0 {
		t.Error("recipient picker should never open with nothing to share")
	}
}

func TestWizard_IntakeErrorIsHardCancel(t *testing.T) {
	f := newFixture()

	var reason string
	f.orch.Start(Options{OnCancel: func(r string) { reason = r }})
	f.bottles.opts.OnSelected([]string{"b1"})
	f.intake.opts.OnClosed(CloseError)

	if f.orch.IsActive() {
		t.Error("intake error should cancel the session")
	}
	if reason == "" {
		t.Error("cancel reason should be populated")
	}
	if f.recipients.opened != 0 {
		t.Error("recipient picker should not open after a hard cancel")
	}
}

func TestWizard_StaleSignalsIgnored(t *testing.T) {
	f := newFixture()
	f.orch.Start(Options{})

	f.bottles.opts.OnSelected([]string{"b1"})

	// A late close from the dismissed bottle picker must not re-trigger the
	// intake transition.
	opened := f.intake.opened
	f.bottles.opts.OnClosed(CloseDismissed)
	f.bottles.opts.OnSelected([]string{"b9"})
	if f.intake.opened != opened {
		t.Errorf("stale bottle signals reopened intake: %d -> %d", opened, f.intake.opened)
	}
	if got := f.orch.s.selectedBottleIDs; len(got) != 1 || got[0] != "b1" {
		t.Errorf("selected ids mutated by stale signal: %v", got)
	}
}

func TestWizard_CloseDuringSubmitIgnored(t *testing.T) {
	f := newFixture()
	f.orch.Start(Options{})
	f.bottles.opts.OnSelected([]string{"b1"})
	f.intake.opts.OnClosed(CloseDismissed)

	// The picker reports a close while the request is in flight; that is a
	// collaborator race, not a cancellation.
	f.transport.inFlight = func() {
		f.recipients.opts.OnClosed(CloseEscape)
	}
	f.recipients.opts.OnSubmit([]string{"u1"}, nil)

	if len(f.transport.requests) != 1 {
		t.Fatalf("POST count = %d, want 1", len(f.transport.requests))
	}
	if len(f.notifier.successes) != 1 {
		t.Errorf("run should have completed, successes = %v", f.notifier.successes)
	}
	if len(f.notifier.errors) != 0 {
		t.Errorf("no cancellation should surface, errors = %v", f.notifier.errors)
	}
}

func TestWizard_SubmitVetoedOnEmptyRecipients(t *testing.T) {
	f := newFixture()
	f.orch.Start(Options{})
	f.bottles.opts.OnSelected([]string{"b1"})
	f.intake.opts.OnClosed(CloseDismissed)

	if f.recipients.opts.OnSubmit([]string{"  ", ""}, nil) {
		t.Error("submit with no recipients should be vetoed")
	}
	if len(f.transport.requests) != 0 {
		t.Error("vetoed submit must not POST")
	}
	if !f.orch.IsActive() || f.orch.Step() != StepUsers {
		t.Error("vetoed submit must leave the session in users")
	}
}

func TestCancel_IsIdempotent(t *testing.T) {
	f := newFixture()

	// No session: no-op.
	f.orch.Cancel("whatever")
	if len(f.notifier.errors) != 0 {
		t.Errorf("cancel without a session notified: %v", f.notifier.errors)
	}

	cancels := 0
	result, _ := f.orch.Start(Options{OnCancel: func(string) { cancels++ }})
	f.orch.Cancel("")
	f.orch.Cancel("")

	if cancels != 1 {
		t.Errorf("OnCancel fired %d times, want 1", cancels)
	}
	if result.Err() == nil || result.Err().Error() != DefaultCancelReason {
		t.Errorf("result error = %v, want default reason", result.Err())
	}
}

func TestStart_MissingCollaboratorRejectsRun(t *testing.T) {
	f := newFixture()
	orch := New(Deps{
		Intake:     f.intake,
		Recipients: f.recipients,
		Transport:  f.transport,
		Notifier:   f.notifier,
	})

	result, err := orch.Start(Options{})
	if err != nil {
		t.Fatalf("Start() error = %v, want rejection via the result", err)
	}
	if !result.Settled() || result.Err() == nil {
		t.Fatal("result should reject when the bottle picker is unavailable")
	}
	if orch.IsActive() {
		t.Error("no session should remain after a rejected run")
	}
}

func TestRecipients_PreselectedNormalized(t *testing.T) {
	f := newFixture()
	f.orch.Start(Options{PreselectedRecipients: []string{" u1 ", "U1", "u2", ""}})
	f.bottles.opts.OnSelected([]string{"b1"})
	f.intake.opts.OnClosed(CloseDismissed)

	got := f.recipients.opts.Preselected
	if len(got) != 2 || got[0] != "u1" || got[1] != "u2" {
		t.Errorf("preselected = %v, want [u1 u2]", got)
	}
}

func TestSilent_SuppressesNotifications(t *testing.T) {
	f := newFixture()
	f.orch.Start(Options{Silent: true})
	f.bottles.opts.OnSelected([]string{"b1"})
	f.intake.opts.OnClosed(CloseDismissed)
	f.recipients.opts.OnSubmit([]string{"u1"}, nil)

	if len(f.notifier.successes) != 0 || len(f.notifier.errors) != 0 {
		t.Errorf("silent run notified: %v / %v", f.notifier.successes, f.notifier.errors)
	}
}

func TestEvents_TerminalSignals(t *testing.T) {
	f := newFixture()

	var events []Event
	f.orch.Subscribe(func(e Event) { events = append(events, e) })

	// Completed run.
	f.orch.Start(Options{})
	f.bottles.opts.OnSelected([]string{"b1"})
	f.intake.opts.OnClosed(CloseDismissed)
	f.recipients.opts.OnSubmit([]string{"u1"}, nil)

	// Cancelled run.
	f.orch.Start(Options{})
	f.orch.Cancel("changed my mind")

	if len(events) != 2 {
		t.Fatalf("events = %d, want 2", len(events))
	}
	if events[0].Kind != EventCompleted || events[0].Response == nil {
		t.Errorf("first event = %+v, want completed with response", events[0])
	}
	if events[1].Kind != EventCancelled || events[1].Reason != "changed my mind" {
		t.Errorf("second event = %+v, want cancelled with reason", events[1])
	}
}

func TestHasBottlesToShare(t *testing.T) {
	f := newFixture()
	f.orch.Start(Options{})

	if f.orch.hasBottlesToShare() {
		t.Error("fresh session should have nothing to share")
	}

	f.orch.s.selectedBottleIDs = []string{"b1"}
	if !f.orch.hasBottlesToShare() {
		t.Error("one existing bottle should be enough")
	}

	f.orch.s.selectedBottleIDs = nil
	f.orch.s.pendingCreations = []api.NewBottleRequest{{WineID: "w1", Vintage: 2019, Quantity: 1}}
	if !f.orch.hasBottlesToShare() {
		t.Error("one creation with quantity 1 should be enough")
	}

	f.orch.s.pendingCreations = []api.NewBottleRequest{{WineID: "w1", Vintage: 2019, Quantity: 0}}
	if f.orch.hasBottlesToShare() {
		t.Error("a zero-quantity creation does not count")
	}
}

func TestSuccessMessage(t *testing.T) {
	req := api.ShareRequest{
		ExistingBottleIDs: []string{"b1", "b2"},
		NewBottleRequests: []api.NewBottleRequest{{WineID: "w1", Vintage: 2019, Quantity: 1}},
		RecipientUserIDs:  []string{"u1"},
	}

	if got := successMessage(req, &api.ShareResponse{Message: "Cheers!"}); got != "Cheers!" {
		t.Errorf("backend message should win, got %q", got)
	}
	if got := successMessage(req, &api.ShareResponse{}); got != "Shared 3 bottle(s) with 1 fellow surfer(s)." {
		t.Errorf("derived summary = %q", got)
	}
	if got := successMessage(api.ShareRequest{}, &api.ShareResponse{}); got != "Wine share completed." {
		t.Errorf("generic fallback = %q", got)
	}
}
