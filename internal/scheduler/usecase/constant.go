package usecase

// Log prefixes
const (
	LogPrefixProcessTurn = "internal.scheduler.usecase.ProcessTurn"
	LogPrefixApply       = "internal.scheduler.usecase.apply"
	LogPrefixDecide      = "internal.scheduler.usecase.decide"
)

// Questions asked back to the user
const (
	QuestionTitle        = "What should I call the task?"
	QuestionCount        = "How many tasks should I create?"
	QuestionWhichDate    = "Which day did you mean by %q?"
	QuestionWhichTime    = "Which time did you mean by %q?"
	QuestionWhichTask    = "Which task do you mean by %q?"
	QuestionNewSlot      = "When should I move %q to?"
	QuestionShiftDay     = "Which day's tasks should I move?"
	QuestionShiftBy      = "How far should I move them? For example \"7 days\" or \"to next monday\"."
	QuestionRetryPrefix  = "Sorry, I could not use that answer. "
	QuestionPickDecision = "Please choose replace, reschedule_new, move_existing or cancel."
)

// Failure reasons
const (
	ReasonNothingToAnswer   = "There is no open question to answer."
	ReasonNoPendingConflict = "There is no conflict waiting for a decision."
	ReasonCancelled         = "Cancelled. Nothing was changed."
	ReasonNothingToChange   = "Tell me what to change about %q."
	ReasonStoreUnavailable  = "The task store is unavailable right now. Please try again."
	ReasonNoFreeSlot        = "There is no free time left on %s for %q."
	ReasonMoveBlocked       = "The slot chosen for %q is no longer free."
	ReasonEndWithoutStart   = "An end time needs a start time."
	ReasonUnknownPriority   = "Unknown priority %q. Use low, medium or high."
	ReasonUnknownStatus     = "Unknown status %q. Use pending, completed or cancelled."
	ReasonBadNumber         = "%q is not a number I understand."
	ReasonBulkInvalid       = "I cannot create these tasks: %v."
	ReasonSetTimeChange     = "I can only move a group of tasks by whole days."
	ReasonAlreadyThere      = "Those tasks are already on %s."
	ReasonNoMatchOnDay      = "tasks on %s"
	ReasonNoMatchAnywhere   = "any task"
)

// Layouts used in option labels
const (
	optionDateLayout = "Mon, Jan 2 2006"
	isoDateLayout    = "2006-01-02"
)
