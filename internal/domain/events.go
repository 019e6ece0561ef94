package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventIndexBuilt       EventType = "IndexBuilt"
	EventIndexInvalidated EventType = "IndexInvalidated"
	EventSearchCompleted  EventType = "SearchCompleted"
	EventSearchFailed     EventType = "SearchFailed"
	EventHistoryChanged   EventType = "HistoryChanged"
	EventPanelOpened      EventType = "PanelOpened"
	EventPanelClosed      EventType = "PanelClosed"
	EventResultSelected   EventType = "ResultSelected"
	EventContentChanged   EventType = "ContentChanged"
	EventConfigLoaded     EventType = "ConfigLoaded"
	EventConfigSaved      EventType = "ConfigSaved"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// IndexBuiltEvent is emitted after the search index has been (re)built
type IndexBuiltEvent struct {
	Documents int
}

func (e IndexBuiltEvent) Type() EventType { return EventIndexBuilt }

// IndexInvalidatedEvent is emitted when the cached index is dropped
type IndexInvalidatedEvent struct {
	Reason string
}

func (e IndexInvalidatedEvent) Type() EventType { return EventIndexInvalidated }

// SearchCompletedEvent is emitted when a query has been matched
type SearchCompletedEvent struct {
	SearchID string
	Query    string
	Results  int
}

func (e SearchCompletedEvent) Type() EventType { return EventSearchCompleted }

// SearchFailedEvent is emitted when a query was downgraded to zero results
type SearchFailedEvent struct {
	SearchID string
	Query    string
	Err      error
}

func (e SearchFailedEvent) Type() EventType { return EventSearchFailed }

// HistoryChangedEvent is emitted after every history mutation
type HistoryChangedEvent struct {
	Items []string
}

func (e HistoryChangedEvent) Type() EventType { return EventHistoryChanged }

// PanelOpenedEvent is emitted when the search panel opens
type PanelOpenedEvent struct{}

func (e PanelOpenedEvent) Type() EventType { return EventPanelOpened }

// PanelClosedEvent is emitted when the search panel closes
type PanelClosedEvent struct {
	Query    string
	Recorded bool // query was written to history
}

func (e PanelClosedEvent) Type() EventType { return EventPanelClosed }

// ResultSelectedEvent is emitted when the user confirms a result
type ResultSelectedEvent struct {
	Query string
	Path  string
}

func (e ResultSelectedEvent) Type() EventType { return EventResultSelected }

// ContentChangedEvent is emitted by the content watcher
type ContentChangedEvent struct {
	Path string
}

func (e ContentChangedEvent) Type() EventType { return EventContentChanged }

// ConfigLoadedEvent is emitted when configuration is loaded
type ConfigLoadedEvent struct {
	Path string
}

func (e ConfigLoadedEvent) Type() EventType { return EventConfigLoaded }

// ConfigSavedEvent is emitted when configuration is saved
type ConfigSavedEvent struct {
	Path string
}

func (e ConfigSavedEvent) Type() EventType { return EventConfigSaved }
