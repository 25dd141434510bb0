package tools

import (
	"github.com/cloudwego/eino/schema"
)

// ShoppingToolInfos returns the tool declarations bound to the shopping
// model: catalog search plus the three cart mutations.
func ShoppingToolInfos() []*schema.ToolInfo {
	return []*schema.ToolInfo{
		{
			Name: ToolProductLookup,
			Desc: "Busca productos dentro de la base de datos del supermercado. Devuelve hasta 10 productos con nombre, precio con descuento, porcentaje de descuento, link del producto y link de la imagen. Busca un producto a la vez. NUNCA inventes productos que la herramienta no devolvió.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"query": {
					Type:     "string",
					Desc:     "Producto a buscar en texto libre, por ejemplo: tomates frescos, galletas sin azucar, bebidas para deportistas.",
					Required: true,
				},
			}),
		},
		{
			Name: ToolAddProduct,
			Desc: "Agrega un producto al carrito de compras actual. Usa los datos exactos devueltos por product_lookup_tool.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"name": {
					Type:     "string",
					Desc:     "Nombre del producto tal como aparece en la base de datos.",
					Required: true,
				},
				"quantity": {
					Type:     "string",
					Desc:     "Cantidad a comprar, por ejemplo: 2.",
					Required: true,
				},
				"price": {
					Type:     "string",
					Desc:     "Precio del producto con descuento.",
					Required: true,
				},
				"link": {
					Type:     "string",
					Desc:     "Link del producto devuelto por la busqueda.",
					Required: true,
				},
			}),
		},
		{
			Name: ToolRemoveProduct,
			Desc: "Elimina del carrito todos los productos con el nombre indicado.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"name": {
					Type:     "string",
					Desc:     "Nombre del producto a eliminar del carrito.",
					Required: true,
				},
			}),
		},
		{
			Name: ToolChangeQuantity,
			Desc: "Cambia la cantidad de un producto que ya está en el carrito.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"name": {
					Type:     "string",
					Desc:     "Nombre del producto en el carrito.",
					Required: true,
				},
				"quantity": {
					Type:     "string",
					Desc:     "Nueva cantidad para el producto.",
					Required: true,
				},
			}),
		},
	}
}

// PreferenceToolInfos returns the single memory tool bound to the
// preference-collection model.
func PreferenceToolInfos() []*schema.ToolInfo {
	return []*schema.ToolInfo{
		{
			Name: ToolSaveMemory,
			Desc: "Guarda informacion importante sobre el usuario en la memoria del asistente, por ejemplo restricciones alimentarias, alergias, tamaño de familia o platos favoritos.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"user_id": {
					Type:     "string",
					Desc:     "El ID del usuario.",
					Required: true,
				},
				"content": {
					Type:     "string",
					Desc:     "La informacion a recordar (lo que dijo el usuario o su preferencia).",
					Required: true,
				},
				"context": {
					Type:     "string",
					Desc:     "Por que esta informacion es importante o cuando fue mencionada.",
					Required: true,
				},
			}),
		},
	}
}
