package assistant

import (
	"encoding/json"

	"github.com/sashabaranov/go-openai"
)

// chatTools declares the command schema advertised to the model. Names here
// map one-to-one onto ParseCommand's closed set.
func chatTools() []openai.Tool {
	return []openai.Tool{
		tool("createProduct",
			"Create or update a product in the inventory. Use this when the user explicitly asks to add, create, or restock a product.",
			`{
				"type": "object",
				"properties": {
					"name": {"type": "string", "description": "The name of the product."},
					"price": {"type": "number", "description": "The price of the product."},
					"stock": {"type": "number", "description": "The initial stock quantity or amount to add."},
					"description": {"type": "string", "description": "Optional description of the product."}
				},
				"required": ["name"]
			}`),
		tool("deleteProduct",
			"Delete a product from the inventory by name. Use this when the user explicitly asks to remove or delete a product.",
			`{
				"type": "object",
				"properties": {
					"name": {"type": "string", "description": "The name of the product to delete."}
				},
				"required": ["name"]
			}`),
		tool("updateProduct",
			"Update details of a product (price, absolute stock level, or name). Use this for editing/changing specific fields, NOT for adding stock.",
			`{
				"type": "object",
				"properties": {
					"name": {"type": "string", "description": "The name of the product to update."},
					"updates": {
						"type": "object",
						"description": "The fields to update.",
						"properties": {
							"name": {"type": "string", "description": "New name (optional)"},
							"price": {"type": "number", "description": "New price (optional)"},
							"stock": {"type": "number", "description": "New absolute stock level (optional)"}
						}
					}
				},
				"required": ["name", "updates"]
			}`),
		tool("createCustomer",
			"Add a new customer to the CRM. Use this when the user wants to add or save a customer's contact information.",
			`{
				"type": "object",
				"properties": {
					"name": {"type": "string", "description": "The name of the customer."},
					"phone": {"type": "string", "description": "The customer's phone number."},
					"email": {"type": "string", "description": "The customer's email address."},
					"line_id": {"type": "string", "description": "The customer's Line ID."},
					"address": {"type": "string", "description": "The customer's address."}
				},
				"required": ["name"]
			}`),
		tool("updateCustomer",
			"Update a customer's information.",
			`{
				"type": "object",
				"properties": {
					"name": {"type": "string", "description": "Name of the customer to update (used to find them)."},
					"updates": {
						"type": "object",
						"description": "Fields to update.",
						"properties": {
							"phone": {"type": "string"},
							"email": {"type": "string"},
							"line_id": {"type": "string"},
							"address": {"type": "string"}
						}
					}
				},
				"required": ["name", "updates"]
			}`),
		tool("deleteCustomer",
			"Delete a customer from the system.",
			`{
				"type": "object",
				"properties": {
					"name": {"type": "string", "description": "Name of the customer to delete."}
				},
				"required": ["name"]
			}`),
		tool("createBill",
			"Create a bill/invoice for a customer with product items. Use this when the user asks to create a bill, invoice, or charge a customer for products.",
			`{
				"type": "object",
				"properties": {
					"customer_name": {"type": "string", "description": "The name of the customer to bill."},
					"items": {
						"type": "array",
						"description": "List of products and quantities.",
						"items": {
							"type": "object",
							"properties": {
								"product_name": {"type": "string", "description": "Name of the product."},
								"quantity": {"type": "number", "description": "Quantity of the product."}
							},
							"required": ["product_name", "quantity"]
						}
					},
					"payment_terms": {"type": "number", "description": "Payment terms in days (e.g., 30 for 30 days credit). Default uses customer preference if any, or 0."},
					"validity_days": {"type": "number", "description": "Validity of the bill/quotation in days. Default is 7."},
					"adjustments": {
						"type": "array",
						"description": "List of adjustments like discounts or taxes. IMPORTANT: Discounts MUST be negative numbers (e.g., -10 for 10% off or -500 for 500 baht off). Taxes should be positive.",
						"items": {
							"type": "object",
							"properties": {
								"label": {"type": "string", "description": "Name of adjustment (e.g. 'Discount 10%', 'VAT 7%')"},
								"type": {"type": "string", "enum": ["percent", "fixed"], "description": "Type of adjustment"},
								"value": {"type": "number", "description": "Value of adjustment. Negative for discounts, positive for taxes."}
							},
							"required": ["label", "type", "value"]
						}
					},
					"note": {"type": "string", "description": "Optional note for the bill."}
				},
				"required": ["customer_name", "items"]
			}`),
		tool("createExpense",
			"Create a new expense record.",
			`{
				"type": "object",
				"properties": {
					"title": {"type": "string", "description": "Title of the expense."},
					"amount": {"type": "number", "description": "Amount of the expense."},
					"category": {
						"type": "string",
						"description": "Category of the expense. MUST be one of: 'Supplies', 'Transport', 'Food', 'Utilities', 'Wages', 'Rent', 'Other'.",
						"enum": ["Supplies", "Transport", "Food", "Utilities", "Wages", "Rent", "Other"]
					},
					"description": {"type": "string", "description": "Optional description."}
				},
				"required": ["title", "amount", "category"]
			}`),
		tool("deleteExpense",
			"Delete an expense. Try to identify by title if ID is unknown.",
			`{
				"type": "object",
				"properties": {
					"title": {"type": "string", "description": "Title of the expense to delete to help find it."},
					"id": {"type": "string", "description": "ID of the expense if known."}
				}
			}`),
		tool("listExpenses",
			"List the most recent expenses to see what has been spent.",
			`{"type": "object", "properties": {}}`),
		tool("getBillStatus",
			"Get the status of a bill for a customer.",
			`{
				"type": "object",
				"properties": {
					"customer_name": {"type": "string", "description": "Name of the customer."}
				},
				"required": ["customer_name"]
			}`),
	}
}

func tool(name, description, schema string) openai.Tool {
	return openai.Tool{
		Type: openai.ToolTypeFunction,
		Function: &openai.FunctionDefinition{
			Name:        name,
			Description: description,
			Parameters:  json.RawMessage(schema),
		},
	}
}
