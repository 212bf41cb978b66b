package assistant

import (
	"encoding/json"
	"fmt"

	"github.com/mateflow/mateflow/internal/billing"
	"github.com/mateflow/mateflow/internal/customers"
	"github.com/mateflow/mateflow/internal/products"
)

// Command is the closed set of actions the assistant can execute. Each
// variant carries its own parameter struct decoded from the model's tool
// call; the dispatcher matches exhaustively over these types.
type Command interface {
	isCommand()
}

// CreateProductCommand creates or restocks a product.
type CreateProductCommand struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	Description string  `json:"description"`
}

// DeleteProductCommand removes a product by name.
type DeleteProductCommand struct {
	Name string `json:"name"`
}

// UpdateProductCommand edits product fields without adding stock.
type UpdateProductCommand struct {
	Name    string               `json:"name"`
	Updates products.UpdateInput `json:"updates"`
}

// CreateCustomerCommand saves a customer's contact information.
type CreateCustomerCommand struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	LineID  string `json:"line_id"`
	Address string `json:"address"`
}

// UpdateCustomerCommand edits a customer found by name.
type UpdateCustomerCommand struct {
	Name    string                `json:"name"`
	Updates customers.UpdateInput `json:"updates"`
}

// DeleteCustomerCommand removes a customer by name.
type DeleteCustomerCommand struct {
	Name string `json:"name"`
}

// BillItemRequest is one requested line on an assistant-created bill.
type BillItemRequest struct {
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
}

// CreateBillCommand creates a bill for a customer, resolving names to records.
type CreateBillCommand struct {
	CustomerName string               `json:"customer_name"`
	Items        []BillItemRequest    `json:"items"`
	PaymentTerms int                  `json:"payment_terms"`
	ValidityDays int                  `json:"validity_days"`
	Adjustments  []billing.Adjustment `json:"adjustments"`
	Note         string               `json:"note"`
}

// CreateExpenseCommand records an expense.
type CreateExpenseCommand struct {
	Title       string  `json:"title"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
}

// DeleteExpenseCommand removes an expense by ID or title.
type DeleteExpenseCommand struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// ListExpensesCommand lists recent expenses.
type ListExpensesCommand struct{}

// GetBillStatusCommand reports the latest bill for a customer.
type GetBillStatusCommand struct {
	CustomerName string `json:"customer_name"`
}

func (CreateProductCommand) isCommand()  {}
func (DeleteProductCommand) isCommand()  {}
func (UpdateProductCommand) isCommand()  {}
func (CreateCustomerCommand) isCommand() {}
func (UpdateCustomerCommand) isCommand() {}
func (DeleteCustomerCommand) isCommand() {}
func (CreateBillCommand) isCommand()     {}
func (CreateExpenseCommand) isCommand()  {}
func (DeleteExpenseCommand) isCommand()  {}
func (ListExpensesCommand) isCommand()   {}
func (GetBillStatusCommand) isCommand()  {}

// UnknownCommandError reports a tool call whose name is outside the closed
// command set. It surfaces in the reply instead of being dropped.
type UnknownCommandError struct {
	Name string
}

func (e *UnknownCommandError) Error() string {
	return "unknown assistant command " + e.Name
}

// ParseCommand decodes a tool call into its command variant.
func ParseCommand(name string, args json.RawMessage) (Command, error) {
	decode := func(dst any) error {
		if len(args) == 0 {
			return nil
		}
		if err := json.Unmarshal(args, dst); err != nil {
			return fmt.Errorf("decode %s arguments: %w", name, err)
		}
		return nil
	}

	switch name {
	case "createProduct":
		var cmd CreateProductCommand
		if err := decode(&cmd); err != nil {
			return nil, err
		}
		if cmd.Name == "" {
			return nil, fmt.Errorf("createProduct requires a name")
		}
		return cmd, nil
	case "deleteProduct":
		var cmd DeleteProductCommand
		if err := decode(&cmd); err != nil {
			return nil, err
		}
		if cmd.Name == "" {
			return nil, fmt.Errorf("deleteProduct requires a name")
		}
		return cmd, nil
	case "updateProduct":
		var cmd UpdateProductCommand
		if err := decode(&cmd); err != nil {
			return nil, err
		}
		if cmd.Name == "" {
			return nil, fmt.Errorf("updateProduct requires a name")
		}
		return cmd, nil
	case "createCustomer":
		var cmd CreateCustomerCommand
		if err := decode(&cmd); err != nil {
			return nil, err
		}
		if cmd.Name == "" {
			return nil, fmt.Errorf("createCustomer requires a name")
		}
		return cmd, nil
	case "updateCustomer":
		var cmd UpdateCustomerCommand
		if err := decode(&cmd); err != nil {
			return nil, err
		}
		if cmd.Name == "" {
			return nil, fmt.Errorf("updateCustomer requires a name")
		}
		return cmd, nil
	case "deleteCustomer":
		var cmd DeleteCustomerCommand
		if err := decode(&cmd); err != nil {
			return nil, err
		}
		if cmd.Name == "" {
			return nil, fmt.Errorf("deleteCustomer requires a name")
		}
		return cmd, nil
	case "createBill":
		var cmd CreateBillCommand
		if err := decode(&cmd); err != nil {
			return nil, err
		}
		if cmd.CustomerName == "" {
			return nil, fmt.Errorf("createBill requires a customer name")
		}
		if len(cmd.Items) == 0 {
			return nil, fmt.Errorf("createBill requires at least one item")
		}
		return cmd, nil
	case "createExpense":
		var cmd CreateExpenseCommand
		if err := decode(&cmd); err != nil {
			return nil, err
		}
		if cmd.Title == "" {
			return nil, fmt.Errorf("createExpense requires a title")
		}
		return cmd, nil
	case "deleteExpense":
		var cmd DeleteExpenseCommand
		if err := decode(&cmd); err != nil {
			return nil, err
		}
		return cmd, nil
	case "listExpenses":
		return ListExpensesCommand{}, nil
	case "getBillStatus":
		var cmd GetBillStatusCommand
		if err := decode(&cmd); err != nil {
			return nil, err
		}
		if cmd.CustomerName == "" {
			return nil, fmt.Errorf("getBillStatus requires a customer name")
		}
		return cmd, nil
	default:
		return nil, &UnknownCommandError{Name: name}
	}
}
