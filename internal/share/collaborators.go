package share

// CloseReason identifies why a collaborator dialog went away. Dialogs are
// independently built; the orchestrator only ever sees these reasons plus
// the typed callbacks below.
type CloseReason string

const (
	// CloseDismissed means the user closed the dialog without submitting.
	CloseDismissed CloseReason = "dismissed"
	// CloseEscape means the dialog was dismissed via the escape key.
	CloseEscape CloseReason = "escape"
	// CloseCancel means the user pressed the dialog's cancel control.
	CloseCancel CloseReason = "cancel"
	// CloseError means the dialog failed and cannot continue.
	CloseError CloseReason = "error"
	// CloseWizard means the intake dialog closed after reporting a
	// wizard-mode selection and expects to be reopened.
	CloseWizard CloseReason = "wizard"
	// CloseCompleted means the orchestrator closed the dialog itself after
	// a successful submission. Not a cancellation.
	CloseCompleted CloseReason = "completed"
)

// BottlePickerOptions configures one opening of the bottle picker.
type BottlePickerOptions struct {
	// OnSelected reports a multi-selection of existing bottle ids.
	OnSelected func(ids []string)
	// OnClosed reports that the picker went away without a selection.
	OnClosed func(reason CloseReason)
}

// BottlePicker is the dialog for multi-selecting existing, not-yet-shared
// bottles from the cellar.
type BottlePicker interface {
	Open(opts BottlePickerOptions) error
}

// IntakeSelection carries the raw field values entered in the inventory
// intake dialog in wizard mode. Values arrive unvalidated; the orchestrator
// normalizes them and silently drops entries missing a wine or a parseable
// vintage.
type IntakeSelection struct {
	WineID           string
	Vintage          string
	Quantity         string
	BottleLocationID string
}

// InventoryIntakeOptions configures one opening of the intake dialog.
type InventoryIntakeOptions struct {
	// WizardMode makes the dialog report entered fields back instead of
	// committing them, after which it expects to be reopened.
	WizardMode bool
	// OnWizardSelection reports the entered fields in wizard mode.
	OnWizardSelection func(sel IntakeSelection)
	// OnClosed reports the dialog going away. A CloseWizard reason follows
	// every wizard selection.
	OnClosed func(reason CloseReason)
}

// InventoryIntake is the "add to inventory" dialog: search or create a
// catalog wine and specify vintage, quantity and location. It may be opened
// any number of times within one wizard run.
type InventoryIntake interface {
	Open(opts InventoryIntakeOptions) error
}

// SubmitControl is the control that triggered a recipient submission. The
// orchestrator disables it while the share request is in flight to block
// double-submits.
type SubmitControl interface {
	Disable()
	Enable()
}

// RecipientPickerOptions configures one opening of the recipient picker.
type RecipientPickerOptions struct {
	// Preselected ids are marked selected when the picker opens.
	Preselected []string
	// OnSubmit reports the chosen recipient ids. The return value tells the
	// picker whether the orchestrator accepted the submission; on false the
	// picker stays open unchanged (a vetoed submit).
	OnSubmit func(ids []string, ctrl SubmitControl) bool
	// OnClosed reports the picker going away. CloseCompleted is issued by
	// the orchestrator itself and must not be treated as a cancellation.
	OnClosed func(reason CloseReason)
}

// RecipientPicker is the dialog for multi-selecting share recipients.
type RecipientPicker interface {
	Open(opts RecipientPickerOptions) error
	// Close dismisses the picker with the given reason. The orchestrator
	// uses CloseCompleted after a successful submission so the picker's own
	// close handling does not misread it as a cancellation.
	Close(reason CloseReason)
}

// Notifier surfaces user-facing messages when the caller has not taken over
// result presentation via Options.Silent.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

type nopNotifier struct{}

func (nopNotifier) Success(string) {}
func (nopNotifier) Error(string)   {}
