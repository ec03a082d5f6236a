package appointment

// AssignOutcome is the result of the staff↔student auto-assignment check that
// runs inside the appointment-creating transaction.
type AssignOutcome string

const (
	// AssignOutcomeAssigned: this was the pair's first appointment and the
	// assignment row was created.
	AssignOutcomeAssigned AssignOutcome = "assigned"

	// AssignOutcomeAlreadyAssigned: the pair was bound before this booking.
	AssignOutcomeAlreadyAssigned AssignOutcome = "already_assigned"

	// AssignOutcomeNotFirst: more than one appointment exists but no
	// assignment; nothing is created.
	AssignOutcomeNotFirst AssignOutcome = "not_first"
)
