package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nikolayk812/voiceshop/internal/catalog"
	"github.com/nikolayk812/voiceshop/internal/domain"
	"github.com/nikolayk812/voiceshop/internal/port"
	"github.com/nikolayk812/voiceshop/internal/repository"
	"github.com/nikolayk812/voiceshop/internal/service"
	"github.com/nikolayk812/voiceshop/internal/tool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type handlerSuite struct {
	suite.Suite

	server *httptest.Server
	h      *Handler
	ledger port.OrderLedger
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(handlerSuite))
}

func (s *handlerSuite) SetupTest() {
	s.start(repository.NewMemorySessionStore())
}

func (s *handlerSuite) start(sessions port.SessionStore) {
	var err error
	s.ledger, err = repository.NewFileLedger(filepath.Join(s.T().TempDir(), "orders.json"))
	s.Require().NoError(err)

	shop, err := service.NewShop(catalog.Default(), s.ledger, service.WithSessionStore(sessions))
	s.Require().NoError(err)

	registry, err := tool.NewRegistry(tool.ShopTools(shop, "Test Traders"))
	s.Require().NoError(err)

	s.h, err = NewHandler(shop, registry, sessions)
	s.Require().NoError(err)

	s.server = httptest.NewServer(NewRouter(s.h, 5*time.Second))
}

func (s *handlerSuite) TearDownTest() {
	s.server.Close()
}

func (s *handlerSuite) TestHealth() {
	var got map[string]string
	s.do(http.MethodGet, "/health", nil, http.StatusOK, &got)

	s.Equal("ok", got["status"])
}

func (s *handlerSuite) TestListTools() {
	var got []ToolDTO
	s.do(http.MethodGet, "/tools", nil, http.StatusOK, &got)

	s.Require().Len(got, 6)
	s.Equal("show_catalog", got[0].Name)
	s.Equal("object", got[0].Parameters["type"])
}

func (s *handlerSuite) TestConversation() {
	session := s.createSession("Pema")
	s.Equal("Pema", session.CustomerName)
	s.Empty(session.Cart)
	s.Equal("0 INR", session.CartTotal)

	result := s.invoke(session.ID, "add_to_cart", `{"product_ref": "glove-001", "quantity": 2, "size": "L"}`)
	s.Equal("Added 2 x Insulated Wool Gloves to your cart. What would you like to do next?", result)

	var got SessionDTO
	s.do(http.MethodGet, "/sessions/"+session.ID, nil, http.StatusOK, &got)
	s.Equal([]CartLineDTO{{ProductID: "glove-001", Name: "Insulated Wool Gloves", Quantity: 2, Size: "L", LineTotal: "1398 INR"}}, got.Cart)
	s.Equal("1398 INR", got.CartTotal)

	result = s.invoke(session.ID, "place_order", "")
	s.True(strings.HasPrefix(result, "Order placed. Order ID order-"))

	s.do(http.MethodGet, "/sessions/"+session.ID, nil, http.StatusOK, &got)
	s.Empty(got.Cart)
	s.Len(got.OrderIDs, 1)
}

func (s *handlerSuite) TestInvokeTool_Errors() {
	session := s.createSession("")

	tests := []struct {
		name       string
		path       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{
			name:       "unknown session",
			path:       "/sessions/missing/tools/show_cart",
			wantStatus: http.StatusNotFound,
			wantCode:   "session_not_found",
		},
		{
			name:       "unknown tool",
			path:       "/sessions/" + session.ID + "/tools/dance",
			wantStatus: http.StatusNotFound,
			wantCode:   "unknown_tool",
		},
		{
			name:       "malformed body",
			path:       "/sessions/" + session.ID + "/tools/show_cart",
			body:       "{",
			wantStatus: http.StatusBadRequest,
			wantCode:   "invalid_request",
		},
		{
			name:       "malformed argument",
			path:       "/sessions/" + session.ID + "/tools/add_to_cart",
			body:       `{"product_ref": "mug", "quantity": "many"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "invalid_arguments",
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			var got ErrorResponse
			s.do(http.MethodPost, tt.path, strings.NewReader(tt.body), tt.wantStatus, &got)
			s.Equal(tt.wantCode, got.Code)
		})
	}
}

func (s *handlerSuite) TestDeleteSession() {
	session := s.createSession("")

	s.do(http.MethodDelete, "/sessions/"+session.ID, nil, http.StatusNoContent, nil)

	var got ErrorResponse
	s.do(http.MethodDelete, "/sessions/"+session.ID, nil, http.StatusNotFound, &got)
	s.Equal("session_not_found", got.Code)
}

func (s *handlerSuite) TestInvokeTool_SerializedPerSession() {
	session := s.createSession("")
	const calls = 20

	t := s.T()
	url := s.server.URL + "/sessions/" + session.ID + "/tools/add_to_cart"

	var wg sync.WaitGroup
	for i := 0; i < calls; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			resp, err := s.server.Client().Post(url, "application/json", strings.NewReader(`{"product_ref": "mug-001"}`))
			if !assert.NoError(t, err) {
				return
			}
			defer resp.Body.Close()
			assert.Equal(t, http.StatusOK, resp.StatusCode)
		}()
	}
	wg.Wait()

	var got SessionDTO
	s.do(http.MethodGet, "/sessions/"+session.ID, nil, http.StatusOK, &got)
	s.Len(got.Cart, calls, "no add is lost")
	s.Equal(fmt.Sprintf("%d INR", 299*calls), got.CartTotal)
	s.Eventually(func() bool {
		return s.h.locks.size() == 0
	}, time.Second, 10*time.Millisecond, "idle session locks are dropped")
}

func (s *handlerSuite) TestPlaceOrder_RetryAfterFailedSessionSave() {
	sessions := &flakySessionStore{SessionStore: repository.NewMemorySessionStore()}
	s.server.Close()
	s.start(sessions)

	session := s.createSession("")
	s.invoke(session.ID, "add_to_cart", `{"product_ref": "hoodie-001"}`)

	sessions.failCheckedOut.Store(true)
	var failed ErrorResponse
	s.do(http.MethodPost, "/sessions/"+session.ID+"/tools/place_order", strings.NewReader(""), http.StatusServiceUnavailable, &failed)
	s.Equal("storage_unavailable", failed.Code)

	sessions.failCheckedOut.Store(false)
	result := s.invoke(session.ID, "place_order", "")
	s.True(strings.HasPrefix(result, "Order placed. Order ID order-"))

	orders, err := s.ledger.List(s.T().Context())
	s.Require().NoError(err)
	s.Require().Len(orders, 1, "retry does not check out the cart twice")
	s.Contains(result, orders[0].ID)

	var got SessionDTO
	s.do(http.MethodGet, "/sessions/"+session.ID, nil, http.StatusOK, &got)
	s.Empty(got.Cart)
	s.Equal([]string{orders[0].ID}, got.OrderIDs)
}

func (s *handlerSuite) TestInvokeTool_SessionBusy() {
	session := s.createSession("")

	unlock, err := s.h.locks.lock(s.T().Context(), session.ID)
	s.Require().NoError(err)
	defer unlock()

	router := NewRouter(s.h, 50*time.Millisecond)
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/sessions/"+session.ID+"/tools/show_cart", nil)

	router.ServeHTTP(recorder, request)

	s.Equal(http.StatusServiceUnavailable, recorder.Code)
	var got ErrorResponse
	s.Require().NoError(json.NewDecoder(recorder.Body).Decode(&got))
	s.Equal("session_busy", got.Code)
}

func (s *handlerSuite) createSession(customerName string) SessionDTO {
	body, err := json.Marshal(CreateSessionRequestDTO{CustomerName: customerName})
	s.Require().NoError(err)

	var got SessionDTO
	s.do(http.MethodPost, "/sessions", bytes.NewReader(body), http.StatusCreated, &got)
	s.Require().NotEmpty(got.ID)

	return got
}

func (s *handlerSuite) invoke(sessionID, toolName, body string) string {
	var got ToolResultDTO
	s.do(http.MethodPost, "/sessions/"+sessionID+"/tools/"+toolName, strings.NewReader(body), http.StatusOK, &got)
	return got.Result
}

func (s *handlerSuite) do(method, path string, body io.Reader, wantStatus int, out any) {
	t := s.T()

	req, err := http.NewRequest(method, s.server.URL+path, body)
	require.NoError(t, err)

	resp, err := s.server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, wantStatus, resp.StatusCode)
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
}

// flakySessionStore fails saves of checked-out sessions while failCheckedOut is set.
type flakySessionStore struct {
	port.SessionStore
	failCheckedOut atomic.Bool
}

func (f *flakySessionStore) Save(ctx context.Context, session domain.Session) error {
	if f.failCheckedOut.Load() && len(session.Orders) > 0 {
		return &domain.PersistenceError{Op: "set", Path: "session:" + session.ID, Err: errors.New("connection refused")}
	}
	return f.SessionStore.Save(ctx, session)
}
