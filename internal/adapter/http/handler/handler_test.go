package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"offerwall-rewards/internal/adapter/http/dto"
	"offerwall-rewards/internal/adapter/offerwall"
	"offerwall-rewards/internal/core/domain"
	"offerwall-rewards/internal/core/ports"
	"offerwall-rewards/internal/core/ports/mocks"
	"offerwall-rewards/internal/service"
	"offerwall-rewards/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const adswedSecret = "adsw-secret"

type testEnv struct {
	router     *gin.Engine
	postback   *mocks.MockPostbackService
	withdrawal *mocks.MockWithdrawalService
	admin      *mocks.MockAdminService
	account    *mocks.MockAccountService
	userID     uuid.UUID
	adminID    uuid.UUID
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctrl := gomock.NewController(t)

	registry, err := offerwall.NewRegistry(service.NewSignatureService(), map[string]offerwall.Settings{
		domain.ProviderGeneric:     {Enabled: true, Rate: 1},
		domain.ProviderAdswedMedia: {Enabled: true, Secret: adswedSecret, Rate: 1},
		domain.ProviderCPX:         {Enabled: true, Rate: 1, AllowedIPs: []string{"10.0.0.0/8"}},
	})
	require.NoError(t, err)

	env := &testEnv{
		postback:   mocks.NewMockPostbackService(ctrl),
		withdrawal: mocks.NewMockWithdrawalService(ctrl),
		admin:      mocks.NewMockAdminService(ctrl),
		account:    mocks.NewMockAccountService(ctrl),
		userID:     uuid.New(),
		adminID:    uuid.New(),
	}

	tokens := mocks.NewMockTokenService(ctrl)
	tokens.EXPECT().Validate("user-token").Return(&ports.TokenClaims{UserID: env.userID}, nil).AnyTimes()
	tokens.EXPECT().Validate("admin-token").Return(&ports.TokenClaims{UserID: env.adminID, IsAdmin: true}, nil).AnyTimes()
	tokens.EXPECT().Validate(gomock.Any()).Return(nil, errors.New("bad token")).AnyTimes()

	env.router, err = SetupRouter(RouterDeps{
		AuthSvc:       mocks.NewMockAuthService(ctrl),
		PostbackSvc:   env.postback,
		WithdrawalSvc: env.withdrawal,
		AdminSvc:      env.admin,
		AccountSvc:    env.account,
		TokenSvc:      tokens,
		Offerwalls:    registry,
		Logger:        zerolog.Nop(),
	})
	require.NoError(t, err)
	return env
}

func (e *testEnv) do(method, target, token string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data, ok := resp["data"].(map[string]any)
	require.True(t, ok, "missing data envelope: %s", w.Body.String())
	return data
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	code, _ := resp["error_code"].(string)
	return code
}

// --- Auth Handler Tests ---

func TestRegister_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	userID := uuid.New()
	mockAuth.EXPECT().Register(gomock.Any(), ports.RegisterRequest{
		Email:    "alice@example.com",
		Password: "password123",
	}).Return(&domain.User{ID: userID, Email: "alice@example.com", CreatedAt: time.Now()}, nil)

	body, _ := json.Marshal(dto.RegisterRequest{Email: "alice@example.com", Password: "password123"})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Register(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, userID.String(), data["id"])
	assert.Equal(t, "alice@example.com", data["email"])
	assert.NotContains(t, w.Body.String(), "password")
}

func TestRegister_ValidationError(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := NewAuthHandler(mocks.NewMockAuthService(ctrl))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"nope","password":"short"}`))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Register(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "PTS_002", errorCode(t, w))
}

func TestRegister_EmailExists(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	mockAuth.EXPECT().Register(gomock.Any(), gomock.Any()).Return(nil, apperror.ErrEmailExists())

	body, _ := json.Marshal(dto.RegisterRequest{Email: "taken@example.com", Password: "password123"})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Register(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "AUTH_002", errorCode(t, w))
}

func TestLogin_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	expiry := time.Now().Add(time.Hour)
	mockAuth.EXPECT().Login(gomock.Any(), "alice@example.com", "password123").Return("jwt-token", expiry, nil)

	body, _ := json.Marshal(dto.LoginRequest{Email: "alice@example.com", Password: "password123"})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Login(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, "jwt-token", data["token"])
	assert.Equal(t, float64(expiry.Unix()), data["expiry"])
}

func TestLogin_InvalidCredentials(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	mockAuth.EXPECT().Login(gomock.Any(), gomock.Any(), gomock.Any()).Return("", time.Time{}, apperror.ErrInvalidCredentials())

	body, _ := json.Marshal(dto.LoginRequest{Email: "alice@example.com", Password: "wrong-password"})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Login(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "AUTH_001", errorCode(t, w))
}

// --- Health ---

type stubChecker struct {
	name string
	err  error
}

func (s stubChecker) Name() string                   { return s.name }
func (s stubChecker) Ping(ctx context.Context) error { return s.err }

func TestHealthCheck(t *testing.T) {
	tests := []struct {
		name     string
		checkers []ports.HealthChecker
		wantCode int
		want     string
	}{
		{"all healthy", []ports.HealthChecker{stubChecker{name: "postgres"}, stubChecker{name: "redis"}}, http.StatusOK, "healthy"},
		{"redis down", []ports.HealthChecker{stubChecker{name: "postgres"}, stubChecker{name: "redis", err: errors.New("refused")}}, http.StatusServiceUnavailable, "degraded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/health", HealthCheck(tt.checkers...))

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.wantCode, w.Code)
			var resp map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.want, resp["status"])
			deps := resp["dependencies"].(map[string]any)
			assert.Len(t, deps, 2)
		})
	}
}

// --- Postbacks ---

func adswedQuery(userID uuid.UUID, transID, reward, status, signature string) string {
	q := url.Values{}
	q.Set("subId", userID.String())
	q.Set("transId", transID)
	q.Set("reward", reward)
	q.Set("status", status)
	q.Set("signature", signature)
	return "/postback/adswedmedia?" + q.Encode()
}

func TestPostback_AdswedMediaCredit(t *testing.T) {
	env := newTestEnv(t)
	sig := service.NewSignatureService().MD5Hex(env.userID.String(), "T-1", "150", adswedSecret)

	env.postback.EXPECT().Process(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, pb *domain.Postback) (*ports.PostbackResult, error) {
			assert.Equal(t, domain.ProviderAdswedMedia, pb.Provider)
			assert.Equal(t, env.userID, pb.UserID)
			assert.Equal(t, "T-1", pb.TxID)
			assert.Equal(t, int64(150), pb.Coins)
			assert.Equal(t, domain.ConversionKindCredit, pb.Kind)
			assert.Equal(t, "192.0.2.1", pb.SourceIP)
			assert.Equal(t, "T-1", pb.Params["transId"])
			return &ports.PostbackResult{Applied: 150, Balance: 150}, nil
		})

	w := env.do(http.MethodGet, adswedQuery(env.userID, "T-1", "150", "1", sig), "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}

func TestPostback_AdswedMediaDuplicate(t *testing.T) {
	env := newTestEnv(t)
	sig := service.NewSignatureService().MD5Hex(env.userID.String(), "T-1", "150", adswedSecret)

	env.postback.EXPECT().Process(gomock.Any(), gomock.Any()).Return(&ports.PostbackResult{Duplicate: true}, nil)

	w := env.do(http.MethodGet, adswedQuery(env.userID, "T-1", "150", "1", sig), "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "DUP", w.Body.String())
}

func TestPostback_BadSignatureAnswersPlainText(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, adswedQuery(env.userID, "T-1", "150", "1", "deadbeef"), "", nil)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "PB_003", w.Body.String())
}

func TestPostback_ServiceErrorAnswersPlainText(t *testing.T) {
	env := newTestEnv(t)
	sig := service.NewSignatureService().MD5Hex(env.userID.String(), "T-2", "10", adswedSecret)

	env.postback.EXPECT().Process(gomock.Any(), gomock.Any()).Return(nil, apperror.ErrDatabaseError(errors.New("down")))

	w := env.do(http.MethodGet, adswedQuery(env.userID, "T-2", "10", "1", sig), "", nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "SYS_001", w.Body.String())
}

func TestPostback_SourceNotAllowed(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/postback/cpx?status=1&trans_id=C1&user_id="+env.userID.String()+"&amount_local=5", "", nil)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "PB_006", errorCode(t, w))
}

func TestPostback_UnknownProvider(t *testing.T) {
	env := newTestEnv(t)

	// Disabled dedicated providers are not routed to the generic adapter.
	w := env.do(http.MethodGet, "/postback/notik?transId=1", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "PB_005", errorCode(t, w))
}

func TestPostback_GenericNetworkFormPost(t *testing.T) {
	env := newTestEnv(t)

	env.postback.EXPECT().Process(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, pb *domain.Postback) (*ports.PostbackResult, error) {
			assert.Equal(t, "lootably", pb.Provider)
			assert.Equal(t, "G-9", pb.TxID)
			assert.Equal(t, int64(42), pb.Coins)
			return &ports.PostbackResult{ConversionID: uuid.New(), Applied: 42, Balance: 100}, nil
		})

	form := url.Values{"user_id": {env.userID.String()}, "tx_id": {"G-9"}, "amount": {"42"}}
	req := httptest.NewRequest(http.MethodPost, "/postback/Lootably", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
	assert.Equal(t, float64(100), resp["balance"])
}

func TestPostback_GenericMissingParam(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/postback/generic?user_id="+env.userID.String()+"&amount=5", "", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "PB_001", errorCode(t, w))
}

// --- Withdrawals ---

func TestWithdrawal_RequiresToken(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/api/v1/withdrawals", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(http.MethodGet, "/api/v1/withdrawals", "forged", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "AUTH_003", errorCode(t, w))
}

func TestWithdrawal_Submit(t *testing.T) {
	env := newTestEnv(t)
	addr := "1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa"

	env.withdrawal.EXPECT().Submit(gomock.Any(), ports.WithdrawalRequest{
		UserID:   env.userID,
		Coin:     "btc",
		Address:  addr,
		Amount:   1500,
		ClientIP: "192.0.2.1",
	}).Return(&domain.Withdrawal{
		ID:        uuid.New(),
		UserID:    env.userID,
		Coin:      "BTC",
		Address:   addr,
		Amount:    1500,
		Status:    domain.WithdrawalStatusPending,
		CreatedAt: time.Now(),
	}, nil)

	body, _ := json.Marshal(dto.WithdrawalRequest{Coin: "btc", Address: addr, Amount: 1500})
	w := env.do(http.MethodPost, "/api/v1/withdrawals", "user-token", body)

	assert.Equal(t, http.StatusCreated, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, "PENDING", data["status"])
	assert.Equal(t, "BTC", data["coin"])
}

func TestWithdrawal_SubmitInsufficientPoints(t *testing.T) {
	env := newTestEnv(t)

	env.withdrawal.EXPECT().Submit(gomock.Any(), gomock.Any()).Return(nil, apperror.ErrInsufficientPoints())

	body, _ := json.Marshal(dto.WithdrawalRequest{Coin: "BTC", Address: "addr", Amount: 99999})
	w := env.do(http.MethodPost, "/api/v1/withdrawals", "user-token", body)

	assert.Equal(t, http.StatusPaymentRequired, w.Code)
	assert.Equal(t, "PTS_001", errorCode(t, w))
}

func TestWithdrawal_SubmitRejectsBadBody(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/api/v1/withdrawals", "user-token", []byte(`{"coin":"B$","address":"x","amount":-1}`))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "PTS_002", errorCode(t, w))
}

func TestWithdrawal_ListPaginates(t *testing.T) {
	env := newTestEnv(t)

	env.withdrawal.EXPECT().ListMine(gomock.Any(), env.userID, ports.ListParams{Page: 2, PageSize: 20}).
		Return([]domain.Withdrawal{{ID: uuid.New(), Status: domain.WithdrawalStatusApproved}}, int64(21), nil)

	w := env.do(http.MethodGet, "/api/v1/withdrawals?page=2", "user-token", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, float64(21), data["total"])
	assert.Equal(t, float64(2), data["total_pages"])
	assert.Len(t, data["items"], 1)
}

func TestWithdrawal_Get(t *testing.T) {
	env := newTestEnv(t)
	id := uuid.New()

	env.withdrawal.EXPECT().GetMine(gomock.Any(), env.userID, id).Return(nil, apperror.ErrNotFound("withdrawal"))

	w := env.do(http.MethodGet, "/api/v1/withdrawals/"+id.String(), "user-token", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "PTS_007", errorCode(t, w))

	w = env.do(http.MethodGet, "/api/v1/withdrawals/not-a-uuid", "user-token", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// --- Admin ---

func TestAdmin_RequiresAdminClaim(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/api/v1/admin/withdrawals", "user-token", nil)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "AUTH_004", errorCode(t, w))
}

func TestAdmin_ListFiltersByStatus(t *testing.T) {
	env := newTestEnv(t)

	env.admin.EXPECT().ListWithdrawals(gomock.Any(), env.adminID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, p ports.WithdrawalListParams) ([]domain.Withdrawal, int64, error) {
			require.NotNil(t, p.Status)
			assert.Equal(t, domain.WithdrawalStatusPending, *p.Status)
			assert.Equal(t, 1, p.Page)
			assert.Equal(t, 50, p.PageSize)
			return nil, 0, nil
		})

	w := env.do(http.MethodGet, "/api/v1/admin/withdrawals?status=PENDING&page_size=50", "admin-token", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Empty(t, data["items"])
}

func TestAdmin_ListRejectsUnknownStatus(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/api/v1/admin/withdrawals?status=PAID", "admin-token", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdmin_ApproveWithoutBody(t *testing.T) {
	env := newTestEnv(t)
	id := uuid.New()
	now := time.Now()

	env.admin.EXPECT().Approve(gomock.Any(), ports.ReviewRequest{AdminID: env.adminID, WithdrawalID: id}).
		Return(&domain.Withdrawal{ID: id, Status: domain.WithdrawalStatusApproved, CreatedAt: now, ReviewedAt: &now}, nil)

	w := env.do(http.MethodPost, "/api/v1/admin/withdrawals/"+id.String()+"/approve", "admin-token", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, "APPROVED", data["status"])
	assert.NotEmpty(t, data["reviewed_at"])
}

func TestAdmin_RejectEscapesNote(t *testing.T) {
	env := newTestEnv(t)
	id := uuid.New()

	env.admin.EXPECT().Reject(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req ports.ReviewRequest) (*domain.Withdrawal, error) {
			require.NotNil(t, req.Note)
			assert.Equal(t, "&lt;b&gt;bad address&lt;/b&gt;", *req.Note)
			assert.Nil(t, req.TxHash)
			return &domain.Withdrawal{ID: id, Status: domain.WithdrawalStatusRejected, AdminNote: req.Note}, nil
		})

	w := env.do(http.MethodPost, "/api/v1/admin/withdrawals/"+id.String()+"/reject", "admin-token",
		[]byte(`{"note":" <b>bad address</b> "}`))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdmin_ReviewConflict(t *testing.T) {
	env := newTestEnv(t)
	id := uuid.New()

	env.admin.EXPECT().Approve(gomock.Any(), gomock.Any()).Return(nil, apperror.ErrWithdrawalNotPending())

	w := env.do(http.MethodPost, "/api/v1/admin/withdrawals/"+id.String()+"/approve", "admin-token",
		[]byte(`{"tx_hash":"0xabc123"}`))

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "PTS_006", errorCode(t, w))
}

// --- Account ---

func TestAccount_Balance(t *testing.T) {
	env := newTestEnv(t)

	env.account.EXPECT().GetBalance(gomock.Any(), env.userID).
		Return(&domain.Balance{UserID: env.userID, Points: 3500, UpdatedAt: time.Now()}, nil)

	w := env.do(http.MethodGet, "/api/v1/me/balance", "user-token", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(3500), decodeData(t, w)["points"])
}

func TestAccount_Profile(t *testing.T) {
	env := newTestEnv(t)

	env.account.EXPECT().GetProfile(gomock.Any(), env.userID).
		Return(&domain.User{ID: env.userID, Email: "alice@example.com", PasswordHash: "secret-hash"}, nil)

	w := env.do(http.MethodGet, "/api/v1/me", "user-token", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alice@example.com", decodeData(t, w)["email"])
	assert.NotContains(t, w.Body.String(), "secret-hash")
}

func TestAccount_Conversions(t *testing.T) {
	env := newTestEnv(t)

	env.account.EXPECT().ListConversions(gomock.Any(), env.userID, ports.ListParams{Page: 1, PageSize: 20}).
		Return([]domain.Conversion{
			{ID: uuid.New(), Provider: "cpx", TxID: "C1", Kind: domain.ConversionKindCredit, Coins: 50, Applied: 50},
			{ID: uuid.New(), Provider: "cpx", TxID: "C1", Kind: domain.ConversionKindReversal, Coins: 50, Applied: -50},
		}, int64(2), nil)

	w := env.do(http.MethodGet, "/api/v1/me/conversions", "user-token", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	items := data["items"].([]any)
	require.Len(t, items, 2)
	assert.Equal(t, "REVERSAL", items[1].(map[string]any)["kind"])
	assert.Equal(t, float64(-50), items[1].(map[string]any)["applied"])
}

// --- Docs ---

func TestDocs(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/docs/openapi.yaml", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Offerwall Rewards API")

	w = env.do(http.MethodGet, "/docs", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "swagger-ui")
}
