package wcnode

// Status is the composite status computed by joining BASE and WORKING
// presence, per the lookup table in spec.md §4.4.
type Status string

const (
	StatusNormal          Status = "normal"
	StatusAbsent          Status = "absent"
	StatusExcluded        Status = "excluded"
	StatusNotPresent      Status = "not-present"
	StatusIncomplete      Status = "incomplete"
	StatusAdded           Status = "added"
	StatusCopied          Status = "copied"
	StatusMovedHere       Status = "moved-here"
	StatusDeleted         Status = "deleted"
	StatusObstructedAdd   Status = "obstructed-add"
	StatusObstructedDel   Status = "obstructed-delete"
	StatusObstructed      Status = "obstructed"
)

// composeStatus implements the table from spec.md §4.4 as a pure function
// over the three-layer presence/kind triple. base may be nil (no BASE row);
// working may be nil (no WORKING row).
func composeStatus(base *BaseRow, working *WorkingRow) (Status, bool, error) {
	switch {
	case base == nil && working == nil:
		return "", false, errPathNotFound

	case working == nil:
		// any BASE presence, WORKING absent: lift BASE.presence.
		return liftBasePresence(base.Presence), true, nil

	case base == nil:
		if working.Presence != WorkingNormal {
			// Only "normal" WORKING-only states correspond to a live add;
			// anything else with no BASE row is not a status this table
			// defines (callers that reach this have an inconsistent row).
			return "", false, errUnexpectedStatus
		}
		if working.CopyFrom.IsSet() {
			if working.MovedHere {
				return StatusMovedHere, true, nil
			}
			return StatusCopied, true, nil
		}
		return StatusAdded, true, nil

	case base.Kind == KindSubdir:
		switch working.Presence {
		case WorkingNormal:
			return StatusObstructedAdd, true, nil
		case WorkingNotPresent:
			return StatusObstructedDel, true, nil
		default:
			return StatusObstructed, true, nil
		}

	case base.Presence == PresenceNormal:
		switch working.Presence {
		case WorkingNormal:
			if working.CopyFrom.IsSet() {
				if working.MovedHere {
					return StatusMovedHere, true, nil
				}
				return StatusCopied, true, nil
			}
			return StatusAdded, true, nil
		case WorkingNotPresent, WorkingBaseDeleted:
			return StatusDeleted, true, nil
		case WorkingIncomplete:
			return StatusIncomplete, true, nil
		}
	}

	// Fallback: any other BASE presence with a WORKING row present lifts
	// the BASE presence (spec.md's table only special-cases BASE=normal).
	return liftBasePresence(base.Presence), true, nil
}

func liftBasePresence(p Presence) Status {
	switch p {
	case PresenceNormal:
		return StatusNormal
	case PresenceAbsent:
		return StatusAbsent
	case PresenceExcluded:
		return StatusExcluded
	case PresenceNotPresent:
		return StatusNotPresent
	case PresenceIncomplete:
		return StatusIncomplete
	default:
		return StatusNormal
	}
}
