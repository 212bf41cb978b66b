package assistant

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mateflow/mateflow/internal/billing"
	"github.com/mateflow/mateflow/internal/customers"
	"github.com/mateflow/mateflow/internal/dashboard"
	"github.com/mateflow/mateflow/internal/expenses"
	"github.com/mateflow/mateflow/internal/products"
	"github.com/mateflow/mateflow/internal/shared"
)

// ============================================================================
// FAKES
// ============================================================================

type fakeStore struct {
	messages []Message
}

func (f *fakeStore) ListMessages(ctx context.Context, userID string) ([]Message, error) {
	return f.messages, nil
}

func (f *fakeStore) AppendMessage(ctx context.Context, userID string, role Role, content string) (*Message, error) {
	msg := Message{ID: "msg", UserID: userID, Role: role, Content: content, CreatedAt: time.Now()}
	f.messages = append(f.messages, msg)
	return &msg, nil
}

type scriptedCompleter struct {
	resp openai.ChatCompletionResponse
	err  error
	req  openai.ChatCompletionRequest
}

func (s *scriptedCompleter) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	s.req = req
	return s.resp, s.err
}

func textResponse(content string) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: content}},
		},
	}
}

func toolResponse(calls ...openai.ToolCall) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, ToolCalls: calls}},
		},
	}
}

type fakeStats struct{}

func (fakeStats) Stats(ctx context.Context, userID, salesRange, profitRange string) (dashboard.Stats, error) {
	return dashboard.Stats{TotalRevenue: 5000, TotalOrders: 12, LowStockItems: 2, ActiveNow: 1}, nil
}

type fakeInventory struct {
	items []products.StockSummary
}

func (f fakeInventory) InventorySummary(ctx context.Context, userID string) ([]products.StockSummary, error) {
	return f.items, nil
}

type fakeCatalog struct {
	upsert  *products.UpsertResult
	byName  map[string]*products.Product
	deleted string
}

func (f *fakeCatalog) CreateOrUpdate(ctx context.Context, userID string, input products.ProductInput) (*products.UpsertResult, error) {
	if f.upsert != nil {
		return f.upsert, nil
	}
	return &products.UpsertResult{Product: &products.Product{Name: input.Name}, Message: "Product created successfully"}, nil
}

func (f *fakeCatalog) UpdateByName(ctx context.Context, userID, name string, input products.UpdateInput) (*products.Product, error) {
	p, ok := f.byName[name]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return p, nil
}

func (f *fakeCatalog) DeleteByName(ctx context.Context, userID, name string) error {
	if _, ok := f.byName[name]; !ok {
		return shared.ErrNotFound
	}
	f.deleted = name
	return nil
}

func (f *fakeCatalog) FindByName(ctx context.Context, userID, name string) (*products.Product, error) {
	p, ok := f.byName[name]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return p, nil
}

type fakeDirectory struct {
	byName map[string]*customers.Customer
}

func (f *fakeDirectory) Create(ctx context.Context, userID string, input customers.CustomerInput) (*customers.Customer, error) {
	return &customers.Customer{ID: "cust-1", Name: input.Name}, nil
}

func (f *fakeDirectory) FindByName(ctx context.Context, userID, name string) (*customers.Customer, error) {
	c, ok := f.byName[name]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return c, nil
}

func (f *fakeDirectory) Update(ctx context.Context, userID, id string, input customers.UpdateInput) error {
	return nil
}

func (f *fakeDirectory) Delete(ctx context.Context, userID, id string) error {
	return nil
}

type fakeBillDesk struct {
	bills   []billing.Bill
	created *billing.CreateBillInput
}

func (f *fakeBillDesk) CreateBill(ctx context.Context, userID string, input billing.CreateBillInput) (*billing.Bill, error) {
	f.created = &input
	totals := billing.CalculateTotals(input.Items, input.Adjustments)
	return &billing.Bill{ID: "bill-1", TotalAmount: totals.GrandTotal}, nil
}

func (f *fakeBillDesk) ListBills(ctx context.Context, userID string) ([]billing.Bill, error) {
	return f.bills, nil
}

type fakeBook struct {
	expenses []expenses.Expense
	created  *expenses.ExpenseInput
}

func (f *fakeBook) Create(ctx context.Context, userID string, input expenses.ExpenseInput) (*expenses.Expense, error) {
	f.created = &input
	return &expenses.Expense{ID: "exp-1", Title: input.Title}, nil
}

func (f *fakeBook) Delete(ctx context.Context, userID, id string) error { return nil }

func (f *fakeBook) List(ctx context.Context, userID string) ([]expenses.Expense, error) {
	return f.expenses, nil
}

func (f *fakeBook) FindByTitle(ctx context.Context, userID, title string) (*expenses.Expense, error) {
	for i := range f.expenses {
		if strings.EqualFold(f.expenses[i].Title, title) {
			return &f.expenses[i], nil
		}
	}
	return nil, shared.ErrNotFound
}

func newTestDispatcher() (*Dispatcher, *fakeCatalog, *fakeDirectory, *fakeBillDesk, *fakeBook) {
	catalog := &fakeCatalog{byName: make(map[string]*products.Product)}
	directory := &fakeDirectory{byName: make(map[string]*customers.Customer)}
	desk := &fakeBillDesk{}
	book := &fakeBook{}
	return NewDispatcher(catalog, directory, desk, book), catalog, directory, desk, book
}

func newTestService(completer ChatCompleter) (*Service, *fakeStore) {
	dispatcher, _, _, _, _ := newTestDispatcher()
	store := &fakeStore{}
	svc := NewService(slog.Default(), store, completer, dispatcher, fakeStats{}, fakeInventory{}, nil, "test-model")
	return svc, store
}

// ============================================================================
// DISPATCH
// ============================================================================

func TestDispatchCreateBill(t *testing.T) {
	dispatcher, catalog, directory, desk, _ := newTestDispatcher()
	directory.byName["Somchai"] = &customers.Customer{ID: "cust-1", Name: "Somchai"}
	catalog.byName["Coffee"] = &products.Product{ID: "prod-1", Name: "Coffee", Price: 100}

	reply := dispatcher.Execute(context.Background(), "user-1", CreateBillCommand{
		CustomerName: "Somchai",
		Items:        []BillItemRequest{{ProductName: "Coffee", Quantity: 2}},
		Adjustments:  []billing.Adjustment{{Label: "VAT", Type: billing.AdjustmentPercent, Value: 7}},
	})

	assert.Contains(t, reply, `Bill created for "Somchai"`)
	assert.Contains(t, reply, "Coffee x2")
	assert.Contains(t, reply, "฿214.00")
	assert.Contains(t, reply, "[VIEW_BILL:bill-1]")
	require.NotNil(t, desk.created)
	assert.Equal(t, "cust-1", desk.created.CustomerID)
}

func TestDispatchCreateBillUnknownCustomer(t *testing.T) {
	dispatcher, _, _, desk, _ := newTestDispatcher()

	reply := dispatcher.Execute(context.Background(), "user-1", CreateBillCommand{
		CustomerName: "Nobody",
		Items:        []BillItemRequest{{ProductName: "Coffee", Quantity: 1}},
	})

	assert.Equal(t, `Customer "Nobody" not found. Please add them first.`, reply)
	assert.Nil(t, desk.created)
}

func TestDispatchCreateBillUnknownProducts(t *testing.T) {
	dispatcher, _, directory, desk, _ := newTestDispatcher()
	directory.byName["Somchai"] = &customers.Customer{ID: "cust-1", Name: "Somchai"}

	reply := dispatcher.Execute(context.Background(), "user-1", CreateBillCommand{
		CustomerName: "Somchai",
		Items:        []BillItemRequest{{ProductName: "Tea", Quantity: 1}, {ProductName: "Juice", Quantity: 2}},
	})

	assert.Equal(t, "Products not found: Tea, Juice. Bill not created.", reply)
	assert.Nil(t, desk.created)
}

func TestDispatchBillStatus(t *testing.T) {
	dispatcher, _, _, desk, _ := newTestDispatcher()
	desk.bills = []billing.Bill{
		{CustomerName: "Somchai Jaidee", Status: billing.StatusPaid, TotalAmount: 1200, CreatedAt: time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)},
	}

	reply := dispatcher.Execute(context.Background(), "user-1", GetBillStatusCommand{CustomerName: "somchai"})
	assert.Contains(t, reply, "paid")
	assert.Contains(t, reply, "3/4/2025")

	reply = dispatcher.Execute(context.Background(), "user-1", GetBillStatusCommand{CustomerName: "Nobody"})
	assert.Equal(t, `No bills found for "Nobody".`, reply)
}

func TestDispatchListExpensesCapsAtFive(t *testing.T) {
	dispatcher, _, _, _, book := newTestDispatcher()
	for i := 0; i < 7; i++ {
		book.expenses = append(book.expenses, expenses.Expense{Title: "Expense", Amount: 100, Date: time.Now()})
	}

	reply := dispatcher.Execute(context.Background(), "user-1", ListExpensesCommand{})
	assert.Equal(t, 5, strings.Count(reply, "\n- "))
}

func TestDispatchCreateExpense(t *testing.T) {
	dispatcher, _, _, _, book := newTestDispatcher()

	reply := dispatcher.Execute(context.Background(), "user-1", CreateExpenseCommand{Title: "Fuel", Amount: 350, Category: "Transport"})
	assert.Contains(t, reply, `Created expense "Fuel"`)
	require.NotNil(t, book.created)
	assert.Equal(t, "Transport", book.created.Category)
}

// ============================================================================
// CHAT LOOP
// ============================================================================

func TestSendPlainReply(t *testing.T) {
	completer := &scriptedCompleter{resp: textResponse("Sales look good today!")}
	svc, store := newTestService(completer)

	reply, err := svc.Send(context.Background(), "user-1", "How are sales?", nil)
	require.NoError(t, err)

	assert.Equal(t, "Sales look good today!", reply.Content)
	assert.Equal(t, RoleAssistant, reply.Role)
	// User turn then assistant turn.
	require.Len(t, store.messages, 2)
	assert.Equal(t, RoleUser, store.messages[0].Role)

	assert.Equal(t, "test-model", completer.req.Model)
	assert.NotEmpty(t, completer.req.Tools)
}

func TestSendExecutesToolCalls(t *testing.T) {
	completer := &scriptedCompleter{resp: toolResponse(openai.ToolCall{
		Type: openai.ToolTypeFunction,
		Function: openai.FunctionCall{
			Name:      "createProduct",
			Arguments: `{"name":"Coffee","price":55,"stock":30}`,
		},
	})}
	svc, _ := newTestService(completer)

	reply, err := svc.Send(context.Background(), "user-1", "Add 30 bags of coffee at 55 baht", nil)
	require.NoError(t, err)
	assert.Equal(t, "Product created successfully", reply.Content)
}

func TestSendSurfacesUnknownCommand(t *testing.T) {
	completer := &scriptedCompleter{resp: toolResponse(
		openai.ToolCall{
			Type:     openai.ToolTypeFunction,
			Function: openai.FunctionCall{Name: "launchRocket", Arguments: `{}`},
		},
		openai.ToolCall{
			Type:     openai.ToolTypeFunction,
			Function: openai.FunctionCall{Name: "listExpenses", Arguments: ``},
		},
	)}
	svc, _ := newTestService(completer)

	reply, err := svc.Send(context.Background(), "user-1", "Do something odd", nil)
	require.NoError(t, err)

	lines := strings.Split(reply.Content, "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, `I don't support the "launchRocket" action yet.`, lines[0])
	assert.Equal(t, "No expenses recorded.", lines[1])
}

func TestSendQuotaFallback(t *testing.T) {
	completer := &scriptedCompleter{err: errors.New("error, status code: 429 Too Many Requests")}
	svc, store := newTestService(completer)

	reply, err := svc.Send(context.Background(), "user-1", "Hello", nil)
	require.NoError(t, err)

	assert.Contains(t, reply.Content, "exceeded my quota")
	assert.Contains(t, reply.Content, "I'll be back on")
	// The apology is persisted like any other reply.
	assert.Len(t, store.messages, 2)
}

func TestSendGenericFallback(t *testing.T) {
	completer := &scriptedCompleter{err: errors.New("connection refused")}
	svc, _ := newTestService(completer)

	reply, err := svc.Send(context.Background(), "user-1", "Hello", nil)
	require.NoError(t, err)
	assert.Contains(t, reply.Content, "trouble connecting")
}

func TestFallbackReplyQuotaNamesNextMidnight(t *testing.T) {
	now := time.Date(2025, 6, 15, 14, 30, 0, 0, time.UTC)
	reply := fallbackReply(errors.New("quota exceeded"), now)

	assert.Contains(t, reply, "Monday, June 16, 2025")
	assert.Contains(t, reply, "12:00 AM")
}

func TestBuildPromptIncludesBusinessContext(t *testing.T) {
	dispatcher, _, _, _, _ := newTestDispatcher()
	svc := NewService(slog.Default(), &fakeStore{}, &scriptedCompleter{}, dispatcher, fakeStats{}, fakeInventory{
		items: []products.StockSummary{{Name: "Coffee", Stock: 3}},
	}, nil, "test-model")

	prompt, err := svc.buildPrompt(context.Background(), "user-1", "How are sales?", "")
	require.NoError(t, err)

	assert.Contains(t, prompt, "Total Revenue: ฿5,000")
	assert.Contains(t, prompt, "- Coffee: 3 units")
	assert.Contains(t, prompt, `"How are sales?"`)
}
