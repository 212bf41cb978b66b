package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/mateflow/mateflow/internal/billing"
	"github.com/mateflow/mateflow/internal/customers"
	"github.com/mateflow/mateflow/internal/expenses"
	"github.com/mateflow/mateflow/internal/products"
	"github.com/mateflow/mateflow/internal/shared"
)

// ProductCatalog is the product surface the dispatcher needs.
type ProductCatalog interface {
	CreateOrUpdate(ctx context.Context, userID string, input products.ProductInput) (*products.UpsertResult, error)
	UpdateByName(ctx context.Context, userID, name string, input products.UpdateInput) (*products.Product, error)
	DeleteByName(ctx context.Context, userID, name string) error
	FindByName(ctx context.Context, userID, name string) (*products.Product, error)
}

// CustomerDirectory is the customer surface the dispatcher needs.
type CustomerDirectory interface {
	Create(ctx context.Context, userID string, input customers.CustomerInput) (*customers.Customer, error)
	FindByName(ctx context.Context, userID, name string) (*customers.Customer, error)
	Update(ctx context.Context, userID, id string, input customers.UpdateInput) error
	Delete(ctx context.Context, userID, id string) error
}

// BillDesk is the billing surface the dispatcher needs.
type BillDesk interface {
	CreateBill(ctx context.Context, userID string, input billing.CreateBillInput) (*billing.Bill, error)
	ListBills(ctx context.Context, userID string) ([]billing.Bill, error)
}

// ExpenseBook is the expense surface the dispatcher needs.
type ExpenseBook interface {
	Create(ctx context.Context, userID string, input expenses.ExpenseInput) (*expenses.Expense, error)
	Delete(ctx context.Context, userID, id string) error
	List(ctx context.Context, userID string) ([]expenses.Expense, error)
	FindByTitle(ctx context.Context, userID, title string) (*expenses.Expense, error)
}

// Dispatcher executes assistant commands against the business services and
// renders the outcome as a chat-friendly line.
type Dispatcher struct {
	products  ProductCatalog
	customers CustomerDirectory
	bills     BillDesk
	expenses  ExpenseBook
}

// NewDispatcher builds Dispatcher instance.
func NewDispatcher(catalog ProductCatalog, directory CustomerDirectory, bills BillDesk, book ExpenseBook) *Dispatcher {
	return &Dispatcher{products: catalog, customers: directory, bills: bills, expenses: book}
}

var chatPrinter = message.NewPrinter(language.English)

// Execute matches the command exhaustively and returns the reply fragment.
// The fallback arm only fires for command types added without a dispatch arm,
// and says so rather than dropping the call.
func (d *Dispatcher) Execute(ctx context.Context, userID string, cmd Command) string {
	switch c := cmd.(type) {
	case CreateProductCommand:
		return d.createProduct(ctx, userID, c)
	case DeleteProductCommand:
		if err := d.products.DeleteByName(ctx, userID, c.Name); err != nil {
			return fmt.Sprintf("Failed to delete %q: %s", c.Name, shared.UserSafeMessage(err))
		}
		return fmt.Sprintf("Deleted product %q.", c.Name)
	case UpdateProductCommand:
		if _, err := d.products.UpdateByName(ctx, userID, c.Name, c.Updates); err != nil {
			return fmt.Sprintf("Failed to update %q: %s", c.Name, shared.UserSafeMessage(err))
		}
		return fmt.Sprintf("Updated details for %q.", c.Name)
	case CreateCustomerCommand:
		return d.createCustomer(ctx, userID, c)
	case UpdateCustomerCommand:
		return d.updateCustomer(ctx, userID, c)
	case DeleteCustomerCommand:
		return d.deleteCustomer(ctx, userID, c)
	case CreateBillCommand:
		return d.createBill(ctx, userID, c)
	case CreateExpenseCommand:
		return d.createExpense(ctx, userID, c)
	case DeleteExpenseCommand:
		return d.deleteExpense(ctx, userID, c)
	case ListExpensesCommand:
		return d.listExpenses(ctx, userID)
	case GetBillStatusCommand:
		return d.billStatus(ctx, userID, c)
	default:
		return fmt.Sprintf("I can't handle the %T command yet.", cmd)
	}
}

func (d *Dispatcher) createProduct(ctx context.Context, userID string, c CreateProductCommand) string {
	result, err := d.products.CreateOrUpdate(ctx, userID, products.ProductInput{
		Name:        c.Name,
		Price:       c.Price,
		Stock:       c.Stock,
		Description: c.Description,
	})
	if err != nil {
		return fmt.Sprintf("Failed to process %q: %s", c.Name, shared.UserSafeMessage(err))
	}
	if result.IsUpdate {
		return result.Message
	}
	return chatPrinter.Sprintf("Created product %q (฿%v, %d).", c.Name, number.Decimal(c.Price), c.Stock)
}

func (d *Dispatcher) createCustomer(ctx context.Context, userID string, c CreateCustomerCommand) string {
	_, err := d.customers.Create(ctx, userID, customers.CustomerInput{
		Name:    c.Name,
		Phone:   c.Phone,
		Email:   c.Email,
		LineID:  c.LineID,
		Address: c.Address,
	})
	if err != nil {
		return fmt.Sprintf("Failed to add customer %q: %s", c.Name, shared.UserSafeMessage(err))
	}
	reply := fmt.Sprintf("Added customer %q", c.Name)
	if c.Phone != "" {
		reply += " (Phone: " + c.Phone + ")"
	}
	if c.Email != "" {
		reply += " (Email: " + c.Email + ")"
	}
	return reply + "."
}

func (d *Dispatcher) updateCustomer(ctx context.Context, userID string, c UpdateCustomerCommand) string {
	customer, err := d.customers.FindByName(ctx, userID, c.Name)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return fmt.Sprintf("Customer %q not found.", c.Name)
		}
		return "Failed to update customer: " + shared.UserSafeMessage(err)
	}
	if err := d.customers.Update(ctx, userID, customer.ID, c.Updates); err != nil {
		return "Failed to update customer: " + shared.UserSafeMessage(err)
	}
	return fmt.Sprintf("Updated customer %q.", customer.Name)
}

func (d *Dispatcher) deleteCustomer(ctx context.Context, userID string, c DeleteCustomerCommand) string {
	customer, err := d.customers.FindByName(ctx, userID, c.Name)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return fmt.Sprintf("Customer %q not found.", c.Name)
		}
		return "Failed to delete customer: " + shared.UserSafeMessage(err)
	}
	if err := d.customers.Delete(ctx, userID, customer.ID); err != nil {
		return "Failed to delete customer: " + shared.UserSafeMessage(err)
	}
	return fmt.Sprintf("Deleted customer %q.", customer.Name)
}

func (d *Dispatcher) createBill(ctx context.Context, userID string, c CreateBillCommand) string {
	customer, err := d.customers.FindByName(ctx, userID, c.CustomerName)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return fmt.Sprintf("Customer %q not found. Please add them first.", c.CustomerName)
		}
		return "Failed to create bill: " + shared.UserSafeMessage(err)
	}

	var items []billing.CreateItemInput
	var notFound []string
	for _, req := range c.Items {
		product, err := d.products.FindByName(ctx, userID, req.ProductName)
		if err != nil {
			notFound = append(notFound, req.ProductName)
			continue
		}
		items = append(items, billing.CreateItemInput{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    req.Quantity,
			UnitPrice:   product.Price,
		})
	}
	if len(notFound) > 0 {
		return fmt.Sprintf("Products not found: %s. Bill not created.", strings.Join(notFound, ", "))
	}
	if len(items) == 0 {
		return "No valid products to bill."
	}

	bill, err := d.bills.CreateBill(ctx, userID, billing.CreateBillInput{
		CustomerID:   customer.ID,
		Note:         c.Note,
		Items:        items,
		Adjustments:  c.Adjustments,
		PaymentTerms: c.PaymentTerms,
		ValidityDays: c.ValidityDays,
	})
	if err != nil {
		return "Failed to create bill: " + shared.UserSafeMessage(err)
	}

	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, fmt.Sprintf("%s x%d", item.ProductName, item.Quantity))
	}
	adjustments := "None"
	if len(c.Adjustments) > 0 {
		parts := make([]string, 0, len(c.Adjustments))
		for _, adj := range c.Adjustments {
			suffix := ""
			if adj.Type == billing.AdjustmentPercent {
				suffix = "%"
			}
			parts = append(parts, fmt.Sprintf("%s (%v%s)", adj.Label, adj.Value, suffix))
		}
		adjustments = strings.Join(parts, ", ")
	}
	return chatPrinter.Sprintf("Bill created for %q: %s. Terms: %d days. Adjustments: %s. Total: ฿%.2f. [VIEW_BILL:%s]",
		customer.Name, strings.Join(lines, ", "), c.PaymentTerms, adjustments, bill.TotalAmount, bill.ID)
}

func (d *Dispatcher) createExpense(ctx context.Context, userID string, c CreateExpenseCommand) string {
	_, err := d.expenses.Create(ctx, userID, expenses.ExpenseInput{
		Title:       c.Title,
		Amount:      c.Amount,
		Category:    c.Category,
		Description: c.Description,
	})
	if err != nil {
		return "Failed to create expense: " + shared.UserSafeMessage(err)
	}
	return chatPrinter.Sprintf("Created expense %q (฿%v).", c.Title, number.Decimal(c.Amount))
}

func (d *Dispatcher) deleteExpense(ctx context.Context, userID string, c DeleteExpenseCommand) string {
	id := c.ID
	if id == "" && c.Title != "" {
		expense, err := d.expenses.FindByTitle(ctx, userID, c.Title)
		if err == nil {
			id = expense.ID
		}
	}
	if id == "" {
		return "Expense not found."
	}
	if err := d.expenses.Delete(ctx, userID, id); err != nil {
		return "Failed to delete expense: " + shared.UserSafeMessage(err)
	}
	return "Deleted expense."
}

func (d *Dispatcher) listExpenses(ctx context.Context, userID string) string {
	all, err := d.expenses.List(ctx, userID)
	if err != nil {
		return "Failed to list expenses: " + shared.UserSafeMessage(err)
	}
	if len(all) == 0 {
		return "No expenses recorded."
	}
	if len(all) > 5 {
		all = all[:5]
	}
	var b strings.Builder
	b.WriteString("Recent Expenses:")
	for _, e := range all {
		b.WriteString(chatPrinter.Sprintf("\n- %s: ฿%v (%s)", e.Title, number.Decimal(e.Amount), e.Date.Format("1/2/2006")))
	}
	return b.String()
}

func (d *Dispatcher) billStatus(ctx context.Context, userID string, c GetBillStatusCommand) string {
	bills, err := d.bills.ListBills(ctx, userID)
	if err != nil {
		return "Failed to look up bills: " + shared.UserSafeMessage(err)
	}
	needle := strings.ToLower(c.CustomerName)
	for _, bill := range bills {
		if strings.Contains(strings.ToLower(bill.CustomerName), needle) {
			return chatPrinter.Sprintf("Latest bill for %q is %s (Amount: ฿%v). Created on %s.",
				c.CustomerName, bill.Status, number.Decimal(bill.TotalAmount), bill.CreatedAt.Format("1/2/2006"))
		}
	}
	return fmt.Sprintf("No bills found for %q.", c.CustomerName)
}
