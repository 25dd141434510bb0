package tools

// Tool names as exposed to the model. These are the wire contract the
// prompts reference; renaming one breaks tool-call routing.
const (
	ToolProductLookup  = "product_lookup_tool"
	ToolAddProduct     = "add_product"
	ToolRemoveProduct  = "remove_product"
	ToolChangeQuantity = "change_quantity"
	ToolSaveMemory     = "save_to_memory"
)

// Kind is the closed set of tools the dispatcher knows how to execute.
// Dispatch is an exhaustive switch over Kind rather than a name→callable map,
// so an unhandled tool is a compile-time hole, not a runtime lookup miss.
type Kind int

const (
	KindUnknown Kind = iota
	KindProductLookup
	KindAddProduct
	KindRemoveProduct
	KindChangeQuantity
	KindSaveMemory
)

// ParseKind maps a tool-call name to its Kind. Unrecognized names yield
// KindUnknown, which the routing layer treats as end-of-turn, not an error.
func ParseKind(name string) Kind {
	switch name {
	case ToolProductLookup:
		return KindProductLookup
	case ToolAddProduct:
		return KindAddProduct
	case ToolRemoveProduct:
		return KindRemoveProduct
	case ToolChangeQuantity:
		return KindChangeQuantity
	case ToolSaveMemory:
		return KindSaveMemory
	default:
		return KindUnknown
	}
}

// IsShopping reports whether the kind belongs to the shopping dispatcher's
// tool set (search plus the three cart mutations).
func (k Kind) IsShopping() bool {
	switch k {
	case KindProductLookup, KindAddProduct, KindRemoveProduct, KindChangeQuantity:
		return true
	default:
		return false
	}
}

// String returns the wire name for the kind, empty for KindUnknown.
func (k Kind) String() string {
	switch k {
	case KindProductLookup:
		return ToolProductLookup
	case KindAddProduct:
		return ToolAddProduct
	case KindRemoveProduct:
		return ToolRemoveProduct
	case KindChangeQuantity:
		return ToolChangeQuantity
	case KindSaveMemory:
		return ToolSaveMemory
	default:
		return ""
	}
}
