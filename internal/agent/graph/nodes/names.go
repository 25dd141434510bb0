package nodes

// Node names used for graph wiring and route persistence. The checkout and
// preference route names double as stored last-route hints, so they must
// stay in sync with routing.Route.String.
const (
	NodeIntake           = "intake"
	NodeShopping         = "shopping"
	NodeShoppingTools    = "shopping_tools"
	NodePreferences      = "preferences"
	NodeSaveMemory       = "save_memory"
	NodeCreateKey        = "create_key"
	NodeCreateSummary    = "create_summary"
	NodeCompletePurchase = "complete_purchase"
	NodeCollect          = "collect"
)
