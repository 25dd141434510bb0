package model

// Product is one catalog match returned by the retrieval backend. The JSON
// field names are the wire contract the shopping model was prompted with,
// so they stay stable even though they are Spanish.
type Product struct {
	Name     string `json:"nombre_producto"`
	Price    string `json:"price_with_discount"`
	Discount string `json:"discount"`
	Link     string `json:"link_producto"`
	Image    string `json:"link_imagen"`
}
