package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	openapi "orderflow/api"
	httpadapter "orderflow/internal/adapters/in/http"
	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/application/usecases/queries"
	"orderflow/internal/core/domain/model/grant"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/model/workflow"
	"orderflow/internal/core/domain/services"
	"orderflow/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 7, 6, 9, 0, 0, 0, time.UTC)

type MockLifecycle struct{ mock.Mock }

func (m *MockLifecycle) call(ctx context.Context, name string, cmd commands.OrderTransitionCommand) (*order.Order, error) {
	args := m.MethodCalled(name, ctx, cmd)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockLifecycle) Approve(ctx context.Context, cmd commands.OrderTransitionCommand) (*order.Order, error) {
	return m.call(ctx, "Approve", cmd)
}

func (m *MockLifecycle) Unapprove(ctx context.Context, cmd commands.OrderTransitionCommand) (*order.Order, error) {
	return m.call(ctx, "Unapprove", cmd)
}

func (m *MockLifecycle) ApproveAndShip(ctx context.Context, cmd commands.OrderTransitionCommand) (*order.Order, error) {
	return m.call(ctx, "ApproveAndShip", cmd)
}

func (m *MockLifecycle) Ship(ctx context.Context, cmd commands.OrderTransitionCommand) (*order.Order, error) {
	return m.call(ctx, "Ship", cmd)
}

func (m *MockLifecycle) RecallShipment(ctx context.Context, cmd commands.OrderTransitionCommand) (*order.Order, error) {
	return m.call(ctx, "RecallShipment", cmd)
}

func (m *MockLifecycle) Cancel(ctx context.Context, cmd commands.OrderTransitionCommand) (*order.Order, error) {
	return m.call(ctx, "Cancel", cmd)
}

func (m *MockLifecycle) Restore(ctx context.Context, cmd commands.OrderTransitionCommand) (*order.Order, error) {
	return m.call(ctx, "Restore", cmd)
}

type MockOrderCreator struct{ mock.Mock }

func (m *MockOrderCreator) Handle(ctx context.Context, cmd commands.CreateOrderCommand) (*order.Order, error) {
	args := m.Called(ctx, cmd)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

type MockGrantManager struct{ mock.Mock }

func (m *MockGrantManager) Grant(ctx context.Context, cmd commands.GrantPermissionCommand) (*grant.Grant, error) {
	args := m.Called(ctx, cmd)
	g, _ := args.Get(0).(*grant.Grant)
	return g, args.Error(1)
}

func (m *MockGrantManager) Revoke(ctx context.Context, cmd commands.RevokePermissionsCommand) (bool, error) {
	args := m.Called(ctx, cmd)
	return args.Bool(0), args.Error(1)
}

type MockCustomWorkflowCreator struct{ mock.Mock }

func (m *MockCustomWorkflowCreator) Handle(
	ctx context.Context,
	cmd commands.CreateCustomWorkflowCommand,
) (*workflow.Workflow, error) {
	args := m.Called(ctx, cmd)
	w, _ := args.Get(0).(*workflow.Workflow)
	return w, args.Error(1)
}

type MockDetailsReader struct{ mock.Mock }

func (m *MockDetailsReader) Details(
	ctx context.Context,
	query queries.GetOrderDetailsQuery,
) (queries.GetOrderDetailsQueryResponse, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(queries.GetOrderDetailsQueryResponse), args.Error(1)
}

func (m *MockDetailsReader) Permissions(
	ctx context.Context,
	query queries.GetOrderPermissionsQuery,
) (queries.GetOrderPermissionsQueryResponse, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(queries.GetOrderPermissionsQueryResponse), args.Error(1)
}

type MockDeadlineReader struct{ mock.Mock }

func (m *MockDeadlineReader) Overdue(ctx context.Context, query queries.GetOverdueOrdersQuery) ([]queries.OrderSummary, error) {
	args := m.Called(ctx, query)
	s, _ := args.Get(0).([]queries.OrderSummary)
	return s, args.Error(1)
}

func (m *MockDeadlineReader) ApproachingDeadline(
	ctx context.Context,
	query queries.GetApproachingDeadlineOrdersQuery,
) ([]queries.OrderSummary, error) {
	args := m.Called(ctx, query)
	s, _ := args.Get(0).([]queries.OrderSummary)
	return s, args.Error(1)
}

type MockListReader struct{ mock.Mock }

func (m *MockListReader) Assigned(ctx context.Context, query queries.GetAssignedOrdersQuery) (queries.OrderPage, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(queries.OrderPage), args.Error(1)
}

func (m *MockListReader) Pending(ctx context.Context, query queries.GetPendingOrdersQuery) (queries.OrderPage, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(queries.OrderPage), args.Error(1)
}

func (m *MockListReader) ByProduct(ctx context.Context, query queries.GetProductOrdersQuery) ([]queries.OrderSummary, error) {
	args := m.Called(ctx, query)
	s, _ := args.Get(0).([]queries.OrderSummary)
	return s, args.Error(1)
}

type MockCapabilityManager struct{ mock.Mock }

func (m *MockCapabilityManager) AllowCapability(ctx context.Context, cmd commands.AllowCapabilityCommand) error {
	args := m.Called(ctx, cmd)
	return args.Error(0)
}

func (m *MockCapabilityManager) AssignRole(ctx context.Context, cmd commands.AssignRoleCommand) error {
	args := m.Called(ctx, cmd)
	return args.Error(0)
}

type fixture struct {
	echo         *echo.Echo
	lifecycle    *MockLifecycle
	creator      *MockOrderCreator
	grants       *MockGrantManager
	workflows    *MockCustomWorkflowCreator
	details      *MockDetailsReader
	deadlines    *MockDeadlineReader
	lists        *MockListReader
	capabilities *MockCapabilityManager
	calculator   order.StatusCalculator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	calculator, err := order.NewStatusCalculator(72 * time.Hour)
	require.NoError(t, err)

	f := &fixture{
		echo:         echo.New(),
		lifecycle:    new(MockLifecycle),
		creator:      new(MockOrderCreator),
		grants:       new(MockGrantManager),
		workflows:    new(MockCustomWorkflowCreator),
		details:      new(MockDetailsReader),
		deadlines:    new(MockDeadlineReader),
		lists:        new(MockListReader),
		capabilities: new(MockCapabilityManager),
		calculator:   calculator,
	}
	server := httpadapter.NewServer(httpadapter.Handlers{
		CreateOrder:    f.creator,
		Lifecycle:      f.lifecycle,
		Grants:         f.grants,
		CustomWorkflow: f.workflows,
		Details:        f.details,
		Deadlines:      f.deadlines,
		Lists:          f.lists,
		Capabilities:   f.capabilities,
	}, calculator, kernel.FixedClock(now), nil)
	require.NoError(t, server.Register(f.echo))
	return f
}

func (f *fixture) do(method, target string, user *kernel.UUID, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if user != nil {
		req.Header.Set(httpadapter.HeaderUserID, user.String())
	}
	rec := httptest.NewRecorder()
	f.echo.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func newOrder(t *testing.T, owner kernel.UUID) *order.Order {
	t.Helper()
	required := now.Add(24 * time.Hour)
	deadline := now.Add(48 * time.Hour)
	o, err := order.NewOrder(kernel.NewUUID(), order.Details{
		ProductID:  kernel.NewUUID(),
		TemplateID: kernel.NewUUID(),
		AssignedTo: &owner,
		Title:      "Coffee beans",
		Required:   &required,
		Deadline:   &deadline,
	}, &owner, now.Add(-time.Hour))
	require.NoError(t, err)
	return o
}

type orderEnvelope struct {
	Message string            `json:"message"`
	Data    httpadapter.Order `json:"data"`
}

func TestServer_Health(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/health", nil, "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestServer_RequiresUser(t *testing.T) {
	f := newFixture(t)
	path := "/api/orders/" + kernel.NewUUID().String() + "/approve"

	rec := f.do(http.MethodPost, path, nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodPost, path, nil)
	req.Header.Set(httpadapter.HeaderUserID, "not-a-uuid")
	rec = httptest.NewRecorder()
	f.echo.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	f.lifecycle.AssertNotCalled(t, "Approve", mock.Anything, mock.Anything)
}

func TestServer_Approve(t *testing.T) {
	f := newFixture(t)
	user := kernel.NewUUID()
	o := newOrder(t, user)
	require.NoError(t, o.Approve(user, now))

	f.lifecycle.On("Approve", mock.Anything, mock.MatchedBy(func(cmd commands.OrderTransitionCommand) bool {
		return cmd.OrderID().IsEqual(o.ID()) && cmd.ActorID().IsEqual(user)
	})).Return(o, nil).Once()

	rec := f.do(http.MethodPost, "/api/orders/"+o.ID().String()+"/approve", &user, "")

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode[orderEnvelope](t, rec)
	assert.Equal(t, "Order approved successfully", body.Message)
	assert.Equal(t, o.ID().String(), body.Data.ID)
	assert.Equal(t, "Approved", body.Data.Status)
	assert.Equal(t, "info", body.Data.StatusBadge.Color)
	require.NotNil(t, body.Data.ApprovedBy)
	assert.Equal(t, user.String(), *body.Data.ApprovedBy)
	f.lifecycle.AssertExpectations(t)
}

func TestServer_ErrorMapping(t *testing.T) {
	user := kernel.NewUUID()
	orderID := kernel.NewUUID()

	tests := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{"not found", errs.NewObjectNotFoundError("order", orderID.String()), http.StatusNotFound, "object not found"},
		{"denied", errs.NewPermissionDeniedError("ship", user), http.StatusForbidden,
			"permission denied: you do not have permission to ship this order"},
		{"invalid transition", errs.NewInvalidTransitionError("ship", "not yet approved"), http.StatusConflict,
			"invalid transition: cannot ship: not yet approved"},
		{"validation", errs.NewValueIsRequiredError("reason"), http.StatusUnprocessableEntity, "value is required"},
		{"unexpected", errors.New("connection reset"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.lifecycle.On("Ship", mock.Anything, mock.Anything).Return(nil, tt.err).Once()

			rec := f.do(http.MethodPost, "/api/orders/"+orderID.String()+"/ship", &user, "")

			assert.Equal(t, tt.code, rec.Code)
			body := decode[httpadapter.Error](t, rec)
			assert.Equal(t, tt.code, body.Code)
			assert.Contains(t, body.Message, tt.message)
			assert.NotContains(t, body.Message, "connection reset")
		})
	}
}

func TestServer_InvalidPathID(t *testing.T) {
	f := newFixture(t)
	user := kernel.NewUUID()

	rec := f.do(http.MethodPost, "/api/orders/42/approve", &user, "")

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	f.lifecycle.AssertNotCalled(t, "Approve", mock.Anything, mock.Anything)
}

func TestServer_Cancel(t *testing.T) {
	user := kernel.NewUUID()

	t.Run("passes reason", func(t *testing.T) {
		f := newFixture(t)
		o := newOrder(t, user)
		require.NoError(t, o.Cancel(user, "customer changed mind", now))
		f.lifecycle.On("Cancel", mock.Anything, mock.MatchedBy(func(cmd commands.OrderTransitionCommand) bool {
			return cmd.Reason() == "customer changed mind"
		})).Return(o, nil).Once()

		rec := f.do(http.MethodPost, "/api/orders/"+o.ID().String()+"/cancel", &user,
			`{"reason":"  customer changed mind "}`)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		body := decode[orderEnvelope](t, rec)
		assert.NotNil(t, body.Data.Cancelled)
		assert.Equal(t, "customer changed mind", body.Data.CancelReason)
	})

	t.Run("body is optional", func(t *testing.T) {
		f := newFixture(t)
		o := newOrder(t, user)
		f.lifecycle.On("Cancel", mock.Anything, mock.MatchedBy(func(cmd commands.OrderTransitionCommand) bool {
			return cmd.Reason() == ""
		})).Return(o, nil).Once()

		rec := f.do(http.MethodPost, "/api/orders/"+o.ID().String()+"/cancel", &user, "")

		assert.Equal(t, http.StatusOK, rec.Code)
		f.lifecycle.AssertExpectations(t)
	})
}

func TestServer_CreateOrder(t *testing.T) {
	user := kernel.NewUUID()

	t.Run("created", func(t *testing.T) {
		f := newFixture(t)
		o := newOrder(t, user)
		f.creator.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.CreateOrderCommand) bool {
			d := cmd.Details()
			return cmd.CreatorID().IsEqual(user) && d.Title == "Coffee beans" && d.Required != nil && d.StoreID == nil
		})).Return(o, nil).Once()

		body := `{"product_id":"` + kernel.NewUUID().String() + `","template_id":"` + kernel.NewUUID().String() +
			`","title":"Coffee beans","dt_required":"2026-07-07T09:00:00Z","dt_deadline":"2026-07-08T09:00:00Z"}`
		rec := f.do(http.MethodPost, "/api/orders", &user, body)

		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		env := decode[orderEnvelope](t, rec)
		assert.Equal(t, "Order created successfully", env.Message)
		assert.Equal(t, "Pending", env.Data.Status)
		f.creator.AssertExpectations(t)
	})

	t.Run("missing product", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(http.MethodPost, "/api/orders", &user,
			`{"template_id":"`+kernel.NewUUID().String()+`","title":"Coffee beans"}`)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, decode[httpadapter.Error](t, rec).Message, "product_id")
		f.creator.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
	})

	t.Run("malformed json", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(http.MethodPost, "/api/orders", &user, `{"product_id":`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestServer_GetOrder(t *testing.T) {
	f := newFixture(t)
	user := kernel.NewUUID()
	o := newOrder(t, user)

	f.details.On("Details", mock.Anything, mock.Anything).Return(queries.GetOrderDetailsQueryResponse{
		OrderSummary: queries.OrderSummary{
			ID:     o.ID(),
			Title:  o.Title(),
			Status: order.Pending,
			Badge:  order.Pending.Badge(),
		},
		ProductID:         o.ProductID(),
		TemplateID:        o.TemplateID(),
		Timeline:          o.Timeline(),
		WorkflowName:      "Restock",
		Frequency:         "Weekly",
		IsRecurring:       true,
		ApprovalStyle:     workflow.PerUser,
		Permissions:       services.Permissions{View: true, Edit: true, Approve: true, IsOwner: true},
		CanApproveAndShip: false,
	}, nil).Once()

	rec := f.do(http.MethodGet, "/api/orders/"+o.ID().String(), &user, "")

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var body struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Weekly", body.Data["frequency"])
	assert.Equal(t, "Per User", body.Data["approval_style"])
	can := body.Data["can"].(map[string]any)
	assert.Equal(t, true, can["approve"])
	assert.Equal(t, false, can["ship"])
	assert.Equal(t, false, can["approve_and_ship"])
	assert.Equal(t, true, can["is_owner"])
}

func TestServer_GetPermissions(t *testing.T) {
	f := newFixture(t)
	user := kernel.NewUUID()
	orderID := kernel.NewUUID()
	f.details.On("Permissions", mock.Anything, mock.Anything).Return(queries.GetOrderPermissionsQueryResponse{
		Permissions:    services.Permissions{View: true, Ship: true},
		ApproveAndShip: true,
	}, nil).Once()

	rec := f.do(http.MethodGet, "/api/orders/"+orderID.String()+"/permissions", &user, "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ship":true`)
	assert.Contains(t, rec.Body.String(), `"approve_and_ship":true`)
	assert.Contains(t, rec.Body.String(), `"cancel":false`)
}

func TestServer_Grants(t *testing.T) {
	actorID := kernel.NewUUID()
	userID := kernel.NewUUID()
	orderID := kernel.NewUUID()

	t.Run("grant defaults module", func(t *testing.T) {
		f := newFixture(t)
		g, err := grant.NewGrant(orderID, userID, grant.DefaultModule, "shipper", grant.Capabilities{Ship: true})
		require.NoError(t, err)
		f.grants.On("Grant", mock.Anything, mock.MatchedBy(func(cmd commands.GrantPermissionCommand) bool {
			return cmd.Module() == grant.DefaultModule && cmd.UserID().IsEqual(userID) && cmd.Capabilities().Ship
		})).Return(g, nil).Once()

		rec := f.do(http.MethodPost, "/api/orders/"+orderID.String()+"/grants", &actorID,
			`{"user_id":"`+userID.String()+`","permission_type":"shipper","can_ship":true}`)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Contains(t, rec.Body.String(), `"module":"orders"`)
		assert.Contains(t, rec.Body.String(), `"can_ship":true`)
	})

	t.Run("revoke one module", func(t *testing.T) {
		f := newFixture(t)
		f.grants.On("Revoke", mock.Anything, mock.MatchedBy(func(cmd commands.RevokePermissionsCommand) bool {
			return cmd.Module() == "invoices" && cmd.UserID().IsEqual(userID)
		})).Return(true, nil).Once()

		rec := f.do(http.MethodDelete,
			"/api/orders/"+orderID.String()+"/grants/"+userID.String()+"?module=invoices", &actorID, "")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"data":{"revoked":true}}`, rec.Body.String())
	})
}

func TestServer_DeadlineLists(t *testing.T) {
	user := kernel.NewUUID()
	summaries := []queries.OrderSummary{{
		ID:     kernel.NewUUID(),
		Title:  "Late milk",
		Status: order.Overdue,
		Badge:  order.Overdue.Badge(),
	}}

	t.Run("overdue", func(t *testing.T) {
		f := newFixture(t)
		f.deadlines.On("Overdue", mock.Anything, mock.Anything).Return(summaries, nil).Once()

		rec := f.do(http.MethodGet, "/api/orders/overdue", &user, "")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"status":"Overdue"`)
	})

	t.Run("approaching uses days", func(t *testing.T) {
		f := newFixture(t)
		f.deadlines.On("ApproachingDeadline", mock.Anything, mock.MatchedBy(func(q queries.GetApproachingDeadlineOrdersQuery) bool {
			return q.Within() == 5*24*time.Hour
		})).Return([]queries.OrderSummary{}, nil).Once()

		rec := f.do(http.MethodGet, "/api/orders/approaching?days=5", &user, "")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"data":[]}`, rec.Body.String())
	})

	t.Run("approaching rejects bad days", func(t *testing.T) {
		f := newFixture(t)

		assert.Equal(t, http.StatusUnprocessableEntity, f.do(http.MethodGet, "/api/orders/approaching?days=x", &user, "").Code)
		assert.Equal(t, http.StatusUnprocessableEntity, f.do(http.MethodGet, "/api/orders/approaching?days=0", &user, "").Code)
		f.deadlines.AssertNotCalled(t, "ApproachingDeadline", mock.Anything, mock.Anything)
	})
}

func TestServer_CreateCustomWorkflow(t *testing.T) {
	user := kernel.NewUUID()
	templateID := kernel.NewUUID()

	t.Run("created", func(t *testing.T) {
		f := newFixture(t)
		w, err := workflow.NewWorkflow(kernel.NewUUID(), templateID, workflow.Settings{Frequency: workflow.Weekly})
		require.NoError(t, err)
		f.workflows.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.CreateCustomWorkflowCommand) bool {
			return cmd.Settings().Frequency == workflow.Weekly
		})).Return(w, nil).Once()

		rec := f.do(http.MethodPost, "/api/templates/"+templateID.String()+"/workflows", &user, `{"frequency":"weekly"}`)

		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		assert.Contains(t, rec.Body.String(), `"frequency":"weekly"`)
	})

	t.Run("template does not allow custom workflows", func(t *testing.T) {
		f := newFixture(t)
		f.workflows.On("Handle", mock.Anything, mock.Anything).Return(nil, nil).Once()

		rec := f.do(http.MethodPost, "/api/templates/"+templateID.String()+"/workflows", &user, `{"frequency":"weekly"}`)

		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}

func TestServer_ListOrders(t *testing.T) {
	user := kernel.NewUUID()
	summary := queries.OrderSummary{
		ID:     kernel.NewUUID(),
		Title:  "Weekly flour",
		Status: order.Pending,
		Badge:  order.Pending.Badge(),
	}

	t.Run("assigned to user", func(t *testing.T) {
		f := newFixture(t)
		assignee := kernel.NewUUID()
		f.lists.On("Assigned", mock.Anything, mock.MatchedBy(func(q queries.GetAssignedOrdersQuery) bool {
			return q.UserID().IsEqual(assignee) && q.Page().Number == 2 && q.Page().Size == 15
		})).Return(queries.OrderPage{
			Items:   []queries.OrderSummary{summary},
			Page:    2,
			PerPage: 15,
			Total:   31,
		}, nil).Once()

		rec := f.do(http.MethodGet, "/api/orders?assigned_to="+assignee.String()+"&page=2", &user, "")

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		body := decode[httpadapter.PagedEnvelope](t, rec)
		require.Len(t, body.Data, 1)
		assert.Equal(t, "Weekly flour", body.Data[0].Title)
		assert.Equal(t, httpadapter.PageMeta{CurrentPage: 2, PerPage: 15, Total: 31, LastPage: 3}, body.Meta)
		f.lists.AssertExpectations(t)
	})

	t.Run("pending defaults to first page", func(t *testing.T) {
		f := newFixture(t)
		f.lists.On("Pending", mock.Anything, mock.MatchedBy(func(q queries.GetPendingOrdersQuery) bool {
			return q.Page().Number == 1
		})).Return(queries.OrderPage{Page: 1, PerPage: 15}, nil).Once()

		rec := f.do(http.MethodGet, "/api/orders?status=pending", &user, "")

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.JSONEq(t,
			`{"data":[],"meta":{"current_page":1,"per_page":15,"total":0,"last_page":1}}`,
			rec.Body.String())
	})

	t.Run("by product", func(t *testing.T) {
		f := newFixture(t)
		productID := kernel.NewUUID()
		f.lists.On("ByProduct", mock.Anything, mock.MatchedBy(func(q queries.GetProductOrdersQuery) bool {
			return q.ProductID().IsEqual(productID)
		})).Return([]queries.OrderSummary{summary}, nil).Once()

		rec := f.do(http.MethodGet, "/api/orders?product_id="+productID.String(), &user, "")

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Contains(t, rec.Body.String(), `"title":"Weekly flour"`)
		assert.NotContains(t, rec.Body.String(), `"meta"`)
	})

	t.Run("rejects invalid filters", func(t *testing.T) {
		f := newFixture(t)

		for _, target := range []string{
			"/api/orders",
			"/api/orders?status=pending&product_id=" + kernel.NewUUID().String(),
			"/api/orders?status=shipped",
			"/api/orders?status=pending&page=0",
			"/api/orders?assigned_to=bob",
		} {
			rec := f.do(http.MethodGet, target, &user, "")
			assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, target)
		}
		f.lists.AssertNotCalled(t, "Pending", mock.Anything, mock.Anything)
		f.lists.AssertNotCalled(t, "Assigned", mock.Anything, mock.Anything)
	})
}

func TestServer_RequestValidation(t *testing.T) {
	user := kernel.NewUUID()

	t.Run("reports each invalid field", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(http.MethodPost, "/api/orders", &user,
			`{"product_id":"`+kernel.NewUUID().String()+`","template_id":"nope","workflow_id":"42","title":""}`)

		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		message := decode[httpadapter.Error](t, rec).Message
		assert.Contains(t, message, "template_id")
		assert.Contains(t, message, "workflow_id")
		assert.Contains(t, message, "title")
		assert.NotContains(t, message, "product_id")
		f.creator.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
	})

	t.Run("unknown workflow frequency", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(http.MethodPost, "/api/templates/"+kernel.NewUUID().String()+"/workflows", &user,
			`{"frequency":"hourly"}`)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, decode[httpadapter.Error](t, rec).Message, "frequency")
		f.workflows.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
	})

	t.Run("missing user wins over body errors", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(http.MethodPost, "/api/orders", nil, `{"title":""}`)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, httpadapter.HeaderUserID+" header is required", decode[httpadapter.Error](t, rec).Message)
	})

	t.Run("unknown api route", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(http.MethodGet, "/api/unknown", &user, "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestServer_Capabilities(t *testing.T) {
	admin := kernel.NewUUID()
	user := kernel.NewUUID()

	t.Run("allow for role", func(t *testing.T) {
		f := newFixture(t)
		f.capabilities.On("AllowCapability", mock.Anything, mock.MatchedBy(func(cmd commands.AllowCapabilityCommand) bool {
			return cmd.ActorID().IsEqual(admin) && cmd.UserID() == nil &&
				cmd.Role() == "supervisors" && cmd.Capability() == "edit_overdue_orders"
		})).Return(nil).Once()

		rec := f.do(http.MethodPost, "/api/capabilities/policies", &admin,
			`{"role":"supervisors","capability":"edit_overdue_orders"}`)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Contains(t, rec.Body.String(), "Capability granted successfully")
		f.capabilities.AssertExpectations(t)
	})

	t.Run("allow for user", func(t *testing.T) {
		f := newFixture(t)
		f.capabilities.On("AllowCapability", mock.Anything, mock.MatchedBy(func(cmd commands.AllowCapabilityCommand) bool {
			return cmd.UserID() != nil && cmd.UserID().IsEqual(user)
		})).Return(nil).Once()

		rec := f.do(http.MethodPost, "/api/capabilities/policies", &admin,
			`{"user_id":"`+user.String()+`","capability":"edit_overdue_orders"}`)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	})

	t.Run("assign role", func(t *testing.T) {
		f := newFixture(t)
		f.capabilities.On("AssignRole", mock.Anything, mock.MatchedBy(func(cmd commands.AssignRoleCommand) bool {
			return cmd.UserID().IsEqual(user) && cmd.Role() == "supervisors"
		})).Return(nil).Once()

		rec := f.do(http.MethodPost, "/api/capabilities/roles", &admin,
			`{"user_id":"`+user.String()+`","role":"supervisors"}`)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Contains(t, rec.Body.String(), "Role assigned successfully")
	})

	t.Run("denied", func(t *testing.T) {
		f := newFixture(t)
		f.capabilities.On("AssignRole", mock.Anything, mock.Anything).
			Return(fmt.Errorf("%w: user %s may not manage capabilities", errs.ErrPermissionDenied, user)).Once()

		rec := f.do(http.MethodPost, "/api/capabilities/roles", &user,
			`{"user_id":"`+user.String()+`","role":"supervisors"}`)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("role is required", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(http.MethodPost, "/api/capabilities/roles", &admin, `{"user_id":"`+user.String()+`"}`)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, decode[httpadapter.Error](t, rec).Message, "role")
		f.capabilities.AssertNotCalled(t, "AssignRole", mock.Anything, mock.Anything)
	})
}

func TestServer_RoutesMatchOpenAPI(t *testing.T) {
	f := newFixture(t)
	doc, err := openapi.Load(t.Context())
	require.NoError(t, err)

	registered := make(map[string]bool)
	for _, route := range f.echo.Routes() {
		switch route.Method {
		case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete:
		default:
			continue
		}
		path := pathParam.ReplaceAllString(route.Path, "{$1}")
		registered[route.Method+" "+path] = true

		item := doc.Paths.Find(path)
		require.NotNil(t, item, "route %s %s is not documented", route.Method, route.Path)
		assert.NotNil(t, item.GetOperation(route.Method), "route %s %s is not documented", route.Method, route.Path)
	}

	for path, item := range doc.Paths.Map() {
		for method := range item.Operations() {
			assert.True(t, registered[method+" "+path], "documented operation %s %s has no route", method, path)
		}
	}
}

var pathParam = regexp.MustCompile(`:([A-Za-z]+)`)
