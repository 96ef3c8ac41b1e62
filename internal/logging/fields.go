package logging

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldEventType classifies a log line for filtering (e.g. asset_converted).
	FieldEventType = "event_type"
	// FieldErrorHint suggests the next step for an operator.
	FieldErrorHint = "error_hint"
	// FieldImpact is the standardized key for user-facing consequence of a warning.
	FieldImpact = "impact"
	// FieldDeck identifies a deck as namespace/alias.
	FieldDeck = "deck"
	// FieldField is the card field being resolved.
	FieldField = "field"
	// FieldCard is the 0-based card index within a deck.
	FieldCard = "card"
)
