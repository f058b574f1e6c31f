package domain

// EditState is the per-session edit cursor: at most one note and one
// resource open for editing. Opening another target of the same kind drops
// the previous one without confirmation.
type EditState struct {
	note     string
	resource string
}

func (e *EditState) Open(kind Kind, id string) {
	switch kind {
	case KindNote:
		e.note = id
	case KindResource:
		e.resource = id
	}
}

func (e *EditState) Close(kind Kind) {
	e.Open(kind, "")
}

func (e EditState) Target(kind Kind) (string, bool) {
	var id string
	switch kind {
	case KindNote:
		id = e.note
	case KindResource:
		id = e.resource
	}
	return id, id != ""
}

func (e EditState) IsEditing(kind Kind, id string) bool {
	target, ok := e.Target(kind)
	return ok && target == id
}
