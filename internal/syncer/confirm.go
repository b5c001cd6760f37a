package syncer

import (
	"log/slog"

	"github.com/instrsync/instrsync/internal/diff"
	"github.com/instrsync/instrsync/internal/logging"
	"github.com/instrsync/instrsync/internal/model"
	"github.com/instrsync/instrsync/internal/workspace"
)

// Choice is the user's answer to an overwrite confirmation prompt.
type Choice int

const (
	// ChoiceNone means the prompt was dismissed without an answer.
	ChoiceNone Choice = iota

	// ChoiceYes approves this write only.
	ChoiceYes

	// ChoiceYesToAll approves this write and every remaining write in the run.
	ChoiceYesToAll

	// ChoiceNo declines this write.
	ChoiceNo

	// ChoiceAlways approves this write and disables confirmation permanently.
	ChoiceAlways
)

// String returns the choice name used in logs.
func (c Choice) String() string {
	switch c {
	case ChoiceYes:
		return "yes"
	case ChoiceYesToAll:
		return "yes-to-all"
	case ChoiceNo:
		return "no"
	case ChoiceAlways:
		return "always"
	default:
		return "none"
	}
}

// ConfirmRequest describes one candidate write presented for confirmation.
type ConfirmRequest struct {
	// Root is the workspace root receiving the write.
	Root workspace.Root

	// Source is the instruction source being applied.
	Source model.InstructionSource

	// Path is the destination file path.
	Path string

	// Create indicates the destination file does not exist yet.
	Create bool

	// Hunks holds the changes the write would apply, for preview.
	Hunks []diff.Hunk
}

// Prompter asks the user to confirm a single write.
type Prompter interface {
	// Confirm presents the request and returns the user's choice.
	// A dismissed prompt returns ChoiceNone with a nil error.
	Confirm(req ConfirmRequest) (Choice, error)
}

// Controller gates candidate writes behind the confirmation policy. It
// decides; it never fetches or writes.
type Controller struct {
	session        *Session
	prompter       Prompter
	confirm        bool
	disableConfirm func() error
}

// NewController creates a controller for one sync run. confirm is the
// already-resolved policy flag; disableConfirm persists the user's Always
// selection and may be nil.
func NewController(session *Session, prompter Prompter, confirm bool, disableConfirm func() error) *Controller {
	return &Controller{
		session:        session,
		prompter:       prompter,
		confirm:        confirm,
		disableConfirm: disableConfirm,
	}
}

// Approve reports whether the write may proceed, prompting when the policy
// requires it. Without a prompter, writes that need confirmation are
// declined.
func (c *Controller) Approve(req ConfirmRequest) bool {
	if !c.confirm {
		return true
	}
	if c.session.ConfirmAll() {
		return true
	}
	if c.prompter == nil {
		logging.Debug("confirmation required but no prompt available",
			logging.Path(req.Path),
		)
		return false
	}

	choice, err := c.prompter.Confirm(req)
	if err != nil {
		logging.Warn("confirmation prompt failed",
			logging.Path(req.Path),
			logging.Err(err),
		)
		return false
	}

	logging.Debug("confirmation answered",
		logging.Path(req.Path),
		slog.String("choice", choice.String()),
	)

	switch choice {
	case ChoiceYes:
		return true
	case ChoiceYesToAll:
		c.session.SetConfirmAll()
		return true
	case ChoiceAlways:
		c.session.SetConfirmAll()
		if c.disableConfirm != nil {
			if err := c.disableConfirm(); err != nil {
				logging.Warn("failed to persist confirmation preference",
					logging.Err(err),
				)
			}
		}
		return true
	default:
		return false
	}
}
