package storage

// ApiStore defines the read-side operations needed by the API.
// It composes other interfaces to provide a clear boundary for the API's data access.
type ApiStore interface {
	AccountStore
	CatalogStore
	LedgerReader
	OrderReader
}

// Storage defines the root interface for the entire data layer.
// It composes all available storage operations. Components should depend on the
// more granular interfaces (ApiStore, SettlementStore, etc.) instead of this one.
type Storage interface {
	ApiStore
	SettlementStore
}
