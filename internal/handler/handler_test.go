package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/staybook/service-booking/internal/application"
	bookingDomain "github.com/staybook/service-booking/internal/domain/booking"
	"github.com/staybook/service-booking/internal/platform/auth"
	"github.com/staybook/service-booking/internal/repository"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := RegisterValidators(); err != nil {
		panic(err)
	}
}

type testAPI struct {
	router     *gin.Engine
	jwt        *auth.JWTManager
	hotels     *application.HotelService
	owner      auth.Identity
	ownerToken string
	adminToken string
	hotelID    uuid.UUID
	roomTypeID uuid.UUID
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, repository.AutoMigrate(db))

	log := zap.NewNop()
	jwt := auth.NewJWTManager("handler-test-secret", time.Hour, "service-booking")
	hotelRepo := repository.NewGormHotelRepository(db)
	auditRepo := repository.NewGormAuditRepository(db)

	accounts := application.NewAccountService(repository.NewGormUserRepository(db), jwt, bcrypt.MinCost, log)
	hotels := application.NewHotelService(hotelRepo, log)
	bookings := application.NewBookingService(
		repository.NewGormBookingRepository(db), hotelRepo, bookingDomain.NewNightlyPricingStrategy(),
		accounts.Guest, auditRepo, application.BookingPolicy{}, nil, nil, log,
	)
	reviews := application.NewReviewService(repository.NewGormReviewRepository(db), bookings, nil, nil, log)
	complaints := application.NewComplaintService(repository.NewGormComplaintRepository(db), bookings, nil, nil, log)

	router := gin.New()
	NewBookingHandler(bookings, reviews, complaints).RegisterRoutes(&router.RouterGroup, jwt)
	NewOwnerHandler(hotels, bookings).RegisterRoutes(&router.RouterGroup, jwt)
	NewHotelHandler(hotels, reviews).RegisterRoutes(&router.RouterGroup, jwt)
	NewAdminHandler(bookings, hotels, accounts, complaints).RegisterRoutes(&router.RouterGroup, jwt)
	NewAuthHandler(accounts, complaints).RegisterRoutes(&router.RouterGroup, jwt)

	api := &testAPI{router: router, jwt: jwt, hotels: hotels}
	api.owner = auth.Identity{UserID: uuid.New(), Role: auth.RoleOwner}
	api.ownerToken = api.token(t, api.owner)
	api.adminToken = api.token(t, auth.Identity{UserID: uuid.New(), Role: auth.RoleAdmin})

	ctx := context.Background()
	h, err := hotels.CreateHotel(ctx, api.owner, application.HotelRequest{Name: "Harbour View", City: "Kochi"})
	require.NoError(t, err)
	rt, err := hotels.AddRoomType(ctx, api.owner, h.ID, application.RoomTypeRequest{
		Name: "Deluxe", PricePerNightCents: 450000, Capacity: 3, TotalRooms: 1,
	})
	require.NoError(t, err)
	api.hotelID, api.roomTypeID = h.ID, rt.ID
	return api
}

func (a *testAPI) token(t *testing.T, id auth.Identity) string {
	t.Helper()
	tok, err := a.jwt.Generate(id.UserID, id.Role)
	require.NoError(t, err)
	return tok.Token
}

func (a *testAPI) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	env := decode(t, w)
	require.NotNil(t, env.Error, w.Body.String())
	return env.Error.Code
}

func day(offset int) string {
	return time.Now().UTC().AddDate(0, 0, offset).Format(bookingDomain.DateLayout)
}

func (a *testAPI) approve(t *testing.T) {
	t.Helper()
	w := a.do(http.MethodPost, "/api/v1/admin/hotels/"+a.hotelID.String()+"/approve", a.adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func (a *testAPI) register(t *testing.T, email string) string {
	t.Helper()
	w := a.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email": email, "password": "correct-horse", "name": "Asha",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var login struct {
		Token string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &login))
	return login.Token
}

func (a *testAPI) bookingBody(in, out string) map[string]any {
	return map[string]any{
		"hotel_id":     a.hotelID.String(),
		"room_type_id": a.roomTypeID.String(),
		"check_in":     in,
		"check_out":    out,
		"adults":       2,
	}
}

func TestBookingFlow(t *testing.T) {
	api := newTestAPI(t)
	customer := api.register(t, "asha@example.com")
	in, out := day(10), day(12)

	// Unapproved hotels cannot be booked.
	w := api.do(http.MethodPost, "/api/v1/bookings", customer, api.bookingBody(in, out))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", errorCode(t, w))

	api.approve(t)

	w = api.do(http.MethodPost, "/api/v1/bookings", "", api.bookingBody(in, out))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = api.do(http.MethodPost, "/api/v1/bookings", customer, api.bookingBody(in, out))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created application.BookingDTO
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &created))
	assert.Equal(t, "PENDING", created.Status)
	assert.Equal(t, int64(900000), created.TotalPriceCents)

	// The only room is now held.
	avail := "/api/v1/availability/hotels/" + api.hotelID.String() + "/room-types/" + api.roomTypeID.String()
	w = api.do(http.MethodGet, avail+"?checkIn="+in+"&checkOut="+out, "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var a bookingDomain.Availability
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &a))
	assert.False(t, a.Available)
	assert.Zero(t, a.Remaining)

	other := api.register(t, "ravi@example.com")
	w = api.do(http.MethodPost, "/api/v1/bookings", other, api.bookingBody(day(11), day(13)))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "UNAVAILABLE", errorCode(t, w))

	bookingPath := "/api/v1/bookings/" + created.ID.String()
	w = api.do(http.MethodGet, bookingPath, other, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Owner confirms; completion cannot be requested.
	statusPath := "/api/v1/owner/bookings/" + created.ID.String() + "/status"
	w = api.do(http.MethodPatch, statusPath, api.ownerToken, map[string]string{"status": "COMPLETED"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "INVALID_TRANSITION", errorCode(t, w))

	w = api.do(http.MethodPatch, statusPath, customer, map[string]string{"status": "CONFIRMED"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = api.do(http.MethodPatch, statusPath, api.ownerToken, map[string]string{"status": "CONFIRMED"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Reviews wait for check-out.
	w = api.do(http.MethodPost, bookingPath+"/reviews", customer, map[string]any{"rating": 5, "title": "t", "comment": "c"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "INVALID_TRANSITION", errorCode(t, w))

	w = api.do(http.MethodGet, bookingPath+"/invoice", customer, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var inv application.InvoiceDTO
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &inv))
	assert.Equal(t, "Asha", inv.GuestName)
	assert.Equal(t, "CONFIRMED", inv.Status)

	w = api.do(http.MethodPost, bookingPath+"/cancel", customer, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = api.do(http.MethodPost, bookingPath+"/complaints", customer, map[string]string{"subject": "BILLING", "description": "refund?"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = api.do(http.MethodGet, "/api/v1/admin/bookings/"+created.ID.String()+"/audit", api.adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestBookingValidationErrors(t *testing.T) {
	api := newTestAPI(t)
	api.approve(t)
	customer := api.token(t, auth.Identity{UserID: uuid.New(), Role: auth.RoleUser})

	tests := []struct {
		name   string
		mutate func(map[string]any)
		status int
		code   string
	}{
		{"malformed date", func(b map[string]any) { b["check_in"] = "tomorrow" }, http.StatusBadRequest, "INVALID_DATE"},
		{"past date", func(b map[string]any) { b["check_in"] = day(-1) }, http.StatusBadRequest, "PAST_DATE"},
		{"equal dates", func(b map[string]any) { b["check_out"] = b["check_in"] }, http.StatusBadRequest, "INVALID_RANGE"},
		{"fractional adults", func(b map[string]any) { b["adults"] = 1.5 }, http.StatusBadRequest, "INVALID_GUEST_COUNT"},
		{"bad room type id", func(b map[string]any) { b["room_type_id"] = "abc" }, http.StatusNotFound, "NOT_FOUND"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := api.bookingBody(day(5), day(7))
			tt.mutate(body)
			w := api.do(http.MethodPost, "/api/v1/bookings", customer, body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			assert.Equal(t, tt.code, errorCode(t, w))
		})
	}

	w := api.do(http.MethodGet, "/api/v1/bookings/not-a-uuid", customer, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestComplaintSubjectValidation(t *testing.T) {
	api := newTestAPI(t)
	api.approve(t)
	customer := api.register(t, "asha@example.com")

	w := api.do(http.MethodPost, "/api/v1/bookings", customer, api.bookingBody(day(3), day(4)))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created application.BookingDTO
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &created))
	path := "/api/v1/bookings/" + created.ID.String() + "/complaints"

	w = api.do(http.MethodPost, path, customer, map[string]string{"subject": "WEATHER", "description": "rain"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION", errorCode(t, w))

	w = api.do(http.MethodPost, path, customer, map[string]string{"subject": "NOISE", "description": "loud bar"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = api.do(http.MethodGet, "/api/v1/complaints", customer, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = api.do(http.MethodGet, "/api/v1/admin/complaints?status=OPEN", customer, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = api.do(http.MethodGet, "/api/v1/admin/complaints?status=OPEN", api.adminToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCancelReasonLength(t *testing.T) {
	api := newTestAPI(t)
	api.approve(t)
	customer := api.register(t, "asha@example.com")

	w := api.do(http.MethodPost, "/api/v1/bookings", customer, api.bookingBody(day(3), day(4)))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created application.BookingDTO
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &created))
	path := "/api/v1/bookings/" + created.ID.String() + "/cancel"

	w = api.do(http.MethodPost, path, customer, map[string]string{"reason": strings.Repeat("r", 501)})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION", errorCode(t, w))

	w = api.do(http.MethodPost, path, customer, map[string]string{"reason": "<b>Flight</b> moved & rebooked"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var cancelled application.BookingDTO
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &cancelled))
	assert.Equal(t, "CANCELLED", cancelled.Status)
}

func TestMyReviews(t *testing.T) {
	api := newTestAPI(t)
	customer := api.register(t, "asha@example.com")

	w := api.do(http.MethodGet, "/api/v1/reviews/mine", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = api.do(http.MethodGet, "/api/v1/reviews/mine?page=1&limit=5", customer, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var reviews []application.ReviewDTO
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &reviews))
	assert.Empty(t, reviews)
}

func TestHotelDirectory(t *testing.T) {
	api := newTestAPI(t)
	hotelPath := "/api/v1/hotels/" + api.hotelID.String()

	w := api.do(http.MethodGet, hotelPath, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = api.do(http.MethodGet, hotelPath, api.ownerToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = api.do(http.MethodGet, "/api/v1/admin/hotels/pending", api.adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = api.do(http.MethodPost, "/api/v1/admin/hotels/"+api.hotelID.String()+"/reject", api.adminToken, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	api.approve(t)
	w = api.do(http.MethodGet, "/api/v1/hotels?city=Kochi", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var hotels []application.HotelDTO
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &hotels))
	require.Len(t, hotels, 1)
	assert.Equal(t, "Harbour View", hotels[0].Name)

	w = api.do(http.MethodPost, "/api/v1/owner/hotels", api.ownerToken, map[string]any{"name": "Annex", "city": "Kochi", "price_range": "$$$$$"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(http.MethodPost, "/api/v1/owner/hotels", api.adminToken, map[string]any{"name": "Annex", "city": "Kochi"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAuthEndpoints(t *testing.T) {
	api := newTestAPI(t)
	token := api.register(t, "asha@example.com")

	w := api.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{"email": "asha@example.com", "password": "correct-horse", "name": "Dup"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = api.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": "asha@example.com", "password": "nope-nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = api.do(http.MethodGet, "/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var me application.UserDTO
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &me))
	assert.Equal(t, "user", me.Role)

	w = api.do(http.MethodPut, "/api/v1/auth/me", token, map[string]string{"name": "Asha Menon", "phone": "+91 98470 00000"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &me))
	assert.Equal(t, "Asha Menon", me.Name)
	assert.Equal(t, "+91 98470 00000", me.Phone)

	w = api.do(http.MethodPut, "/api/v1/auth/me", token, map[string]string{"phone": strings.Repeat("9", 31)})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION", errorCode(t, w))

	w = api.do(http.MethodPut, "/api/v1/auth/me", "", map[string]string{"name": "Nobody"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = api.do(http.MethodPost, "/api/v1/admin/owners", token, map[string]string{"email": "o@example.com", "password": "correct-horse", "name": "O"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = api.do(http.MethodPost, "/api/v1/admin/owners", api.adminToken, map[string]string{"email": "o@example.com", "password": "correct-horse", "name": "O"})
	assert.Equal(t, http.StatusCreated, w.Code)
}
