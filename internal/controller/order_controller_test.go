package controller

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alimikegami/e-commerce/storefront-service/internal/domain"
	"github.com/alimikegami/e-commerce/storefront-service/internal/dto"
	pkgdto "github.com/alimikegami/e-commerce/storefront-service/pkg/dto"
	"github.com/alimikegami/e-commerce/storefront-service/pkg/errs"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

const orderPayload = `{
	"orderItems": [{"product": "6630f0c2a1b2c3d4e5f6071a", "qty": 2}],
	"shippingAddress": {"address": "1 Main St", "city": "Boston", "postalCode": "02101", "country": "USA"},
	"paymentMethod": "PayPal"
}`

type OrderControllerTestSuite struct {
	suite.Suite
	e   *echo.Echo
	svc *mockOrderService
}

func (s *OrderControllerTestSuite) SetupTest() {
	e, g, isLoggedIn := newTestEcho()
	s.svc = new(mockOrderService)
	CreateOrderController(g, s.svc, isLoggedIn)
	s.e = e
}

func (s *OrderControllerTestSuite) do(method, target, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(testHeader, token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s *OrderControllerTestSuite) Test_CreateOrder() {
	expected := dto.OrderRequest{
		OrderItems:      []dto.OrderItemRequest{{Product: "6630f0c2a1b2c3d4e5f6071a", Qty: 2}},
		ShippingAddress: dto.ShippingAddressRequest{Address: "1 Main St", City: "Boston", PostalCode: "02101", Country: "USA"},
		PaymentMethod:   "PayPal",
	}
	s.svc.On("CreateOrder", callerIs(customerID, domain.RoleCustomer), expected).Return(dto.OrderResponse{ID: "o1", TotalPrice: 124.98}, nil).Once()

	rec := s.do(http.MethodPost, "/api/v1/orders", orderPayload, tokenFor(s.T(), customerID, "customer"))

	s.Equal(http.StatusCreated, rec.Code)
	s.Contains(rec.Body.String(), `"totalPrice":124.98`)
	s.svc.AssertExpectations(s.T())
}

func (s *OrderControllerTestSuite) Test_CreateOrder_Validation() {
	type TestCase struct {
		Name     string
		Body     string
		Expected string
	}

	testCases := []TestCase{
		{
			Name:     "No items",
			Body:     `{"orderItems":[],"shippingAddress":{"address":"a","city":"b","postalCode":"c","country":"d"},"paymentMethod":"PayPal"}`,
			Expected: "orderItems must contain at least 1 item(s)",
		},
		{
			Name:     "Bad product id",
			Body:     `{"orderItems":[{"product":"xyz","qty":1}],"shippingAddress":{"address":"a","city":"b","postalCode":"c","country":"d"},"paymentMethod":"PayPal"}`,
			Expected: "orderItems[0].product must be a valid identifier",
		},
		{
			Name:     "Missing address",
			Body:     `{"orderItems":[{"product":"6630f0c2a1b2c3d4e5f6071a","qty":1}],"shippingAddress":{"city":"b","postalCode":"c","country":"d"},"paymentMethod":"PayPal"}`,
			Expected: "shippingAddress.address is required",
		},
	}

	for _, tc := range testCases {
		s.Run(tc.Name, func() {
			rec := s.do(http.MethodPost, "/api/v1/orders", tc.Body, tokenFor(s.T(), customerID, "customer"))
			s.Equal(http.StatusUnprocessableEntity, rec.Code)
			s.Contains(rec.Body.String(), tc.Expected)
		})
	}

	s.svc.AssertNotCalled(s.T(), "CreateOrder", mock.Anything, mock.Anything)
}

func (s *OrderControllerTestSuite) Test_GetMyOrders_RoutedBeforeID() {
	s.svc.On("GetMyOrders", callerIs(customerID, domain.RoleCustomer)).Return([]dto.OrderResponse{}, nil).Once()

	rec := s.do(http.MethodGet, "/api/v1/orders/mine", "", tokenFor(s.T(), customerID, "customer"))

	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`[]`, rec.Body.String())
	s.svc.AssertNotCalled(s.T(), "GetOrderByID", mock.Anything, mock.Anything)
}

func (s *OrderControllerTestSuite) Test_GetOrders() {
	s.svc.On("GetOrders", callerIs(adminID, domain.RoleAdmin), pkgdto.Filter{Page: 2}).Return(pkgdto.PaginationResponse{Records: []dto.OrderResponse{}}, nil).Once()

	rec := s.do(http.MethodGet, "/api/v1/orders?page=2", "", tokenFor(s.T(), adminID, "admin"))
	s.Equal(http.StatusOK, rec.Code)
	s.svc.AssertExpectations(s.T())
}

func (s *OrderControllerTestSuite) Test_GetOrderByID() {
	s.svc.On("GetOrderByID", callerIs(customerID, domain.RoleCustomer), "o1").Return(dto.OrderResponse{}, errs.ErrForbidden).Once()

	rec := s.do(http.MethodGet, "/api/v1/orders/o1", "", tokenFor(s.T(), customerID, "customer"))
	s.Equal(http.StatusForbidden, rec.Code)
}

func (s *OrderControllerTestSuite) Test_MarkOrderPaid() {
	receipt := dto.PaymentResultRequest{ID: "PAY-1", Status: "COMPLETED", UpdateTime: "2024-05-01T10:00:00Z", Payer: dto.Payer{EmailAddress: "jane@example.com"}}
	s.svc.On("MarkOrderPaid", mock.Anything, "o1", receipt).Return(dto.OrderResponse{ID: "o1", IsPaid: true}, nil).Once()

	body := `{"id":"PAY-1","status":"COMPLETED","update_time":"2024-05-01T10:00:00Z","payer":{"email_address":"jane@example.com"}}`
	rec := s.do(http.MethodPut, "/api/v1/orders/o1/pay", body, tokenFor(s.T(), customerID, "customer"))
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), `"isPaid":true`)

	rec = s.do(http.MethodPut, "/api/v1/orders/o1/pay", `{"status":"COMPLETED"}`, tokenFor(s.T(), customerID, "customer"))
	s.Equal(http.StatusUnprocessableEntity, rec.Code)

	s.svc.AssertExpectations(s.T())
}

func (s *OrderControllerTestSuite) Test_MarkOrderDelivered() {
	s.svc.On("MarkOrderDelivered", callerIs(adminID, domain.RoleAdmin), "o1").Return(dto.OrderResponse{ID: "o1", IsDelivered: true}, nil).Once()

	rec := s.do(http.MethodPut, "/api/v1/orders/o1/deliver", "", tokenFor(s.T(), customerID, "customer"))
	s.Equal(http.StatusForbidden, rec.Code)

	rec = s.do(http.MethodPut, "/api/v1/orders/o1/deliver", "", tokenFor(s.T(), adminID, "admin"))
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), `"isDelivered":true`)

	s.svc.AssertExpectations(s.T())
	s.svc.AssertNumberOfCalls(s.T(), "MarkOrderDelivered", 1)
}

func TestOrderControllerTestSuite(t *testing.T) {
	suite.Run(t, new(OrderControllerTestSuite))
}
