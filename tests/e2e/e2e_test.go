package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"ridemarket/internal/database"
	"ridemarket/internal/domain"
	"ridemarket/internal/middleware"
	"ridemarket/internal/modules/admin"
	"ridemarket/internal/modules/auth"
	"ridemarket/internal/modules/booking"
	"ridemarket/internal/modules/payment"
	"ridemarket/internal/modules/review"
	"ridemarket/internal/modules/seatfeed"
	"ridemarket/internal/modules/trips"
	"ridemarket/internal/paytm"
	jwtsvc "ridemarket/internal/pkg/jwt"
	"ridemarket/internal/repository"
	"ridemarket/internal/seathold"
	"ridemarket/internal/seatmap"
)

const testPaytmKey = "0123456789abcdef"

type suite struct {
	router *gin.Engine
	db     *gorm.DB
	jwt    *jwtsvc.Service
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *errorDetail    `json:"error,omitempty"`
}

type errorDetail struct {
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Details json.RawMessage `json:"details,omitempty"`
}

func newSuite(t *testing.T) *suite {
	gin.SetMode(gin.TestMode)

	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	userRepo := repository.NewUserRepository(db)
	vehicleRepo := repository.NewVehicleRepository(db)
	tripRepo := repository.NewTripRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	passengerRepo := repository.NewPassengerRepository(db)
	reviewRepo := repository.NewReviewRepository(db)

	j := jwtsvc.New("e2e-secret", time.Hour)
	holds := seathold.New(nil, time.Minute)
	hub := seatfeed.NewHub()

	authHandler := auth.NewHandler(auth.NewService(userRepo, j))
	tripHandler := trips.NewHandler(trips.NewService(tripRepo, bookingRepo, seatmap.DefaultRules))
	bookingHandler := booking.NewHandler(
		booking.NewService(bookingRepo, tripRepo, passengerRepo, holds, hub, seatmap.DefaultRules))
	paymentHandler := payment.NewHandler(payment.NewService(bookingRepo, hub, nil, payment.Config{
		PaytmMID:         "TESTMID",
		PaytmKey:         testPaytmKey,
		PaytmWebsite:     "WEBSTAGING",
		PaytmEnv:         "STAGING",
		PaytmCallbackURL: "http://localhost/api/v1/payments/paytm/callback",
	}))
	reviewHandler := review.NewHandler(review.NewService(reviewRepo, bookingRepo))
	adminHandler := admin.NewHandler(admin.NewService(vehicleRepo, tripRepo))

	r := gin.New()
	v1 := r.Group("/api/v1")
	{
		authHandler.RegisterRoutes(v1)
		tripHandler.RegisterRoutes(v1)
		reviewHandler.RegisterPublicRoutes(v1)
		paymentHandler.RegisterCallbackRoutes(v1)

		protected := v1.Group("/")
		protected.Use(middleware.JWTAuth(j))
		{
			authHandler.RegisterProtectedRoutes(protected)
			bookingHandler.RegisterRoutes(protected)
			paymentHandler.RegisterRoutes(protected)
			reviewHandler.RegisterRoutes(protected)

			adminGroup := protected.Group("/admin")
			adminGroup.Use(middleware.AdminOnly())
			adminHandler.RegisterRoutes(adminGroup)
		}
	}

	return &suite{router: r, db: db, jwt: j}
}

func (s *suite) request(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, *envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 && strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, &env
}

func (s *suite) postForm(t *testing.T, path string, form url.Values) (*httptest.ResponseRecorder, *envelope) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w, &env
}

func (s *suite) signup(t *testing.T, name, email string) string {
	t.Helper()

	w, env := s.request(t, http.MethodPost, "/api/v1/auth/signup", "", gin.H{
		"name":     name,
		"email":    email,
		"password": "passw0rd123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var out struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &out))
	require.NotEmpty(t, out.Token)
	return out.Token
}

func (s *suite) adminToken(t *testing.T) string {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("admin12345"), bcrypt.DefaultCost)
	require.NoError(t, err)

	admin := &domain.User{
		Email:        "admin@e2e.local",
		PasswordHash: string(hash),
		Name:         "Admin",
		IsAdmin:      true,
	}
	require.NoError(t, s.db.Create(admin).Error)

	token, err := s.jwt.GenerateToken(admin.ID, admin.Email, true)
	require.NoError(t, err)
	return token
}

func (s *suite) createTrip(t *testing.T, adminToken string, departure time.Time) int64 {
	t.Helper()

	w, env := s.request(t, http.MethodPost, "/api/v1/admin/vehicles", adminToken, gin.H{
		"name":     "Swift Dzire",
		"number":   "MH12E2E0001",
		"capacity": 5,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var vehicle struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &vehicle))

	w, env = s.request(t, http.MethodPost, "/api/v1/admin/trips", adminToken, gin.H{
		"vehicle_id":  vehicle.ID,
		"source":      "Pune",
		"destination": "Mumbai",
		"departure":   departure,
		"arrival":     departure.Add(3 * time.Hour),
		"price":       450,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var trip struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &trip))
	return trip.ID
}

func TestFullBookingFlow(t *testing.T) {
	s := newSuite(t)

	adminToken := s.adminToken(t)
	departure := time.Date(2026, 9, 14, 6, 30, 0, 0, time.UTC)
	tripID := s.createTrip(t, adminToken, departure)

	rider := s.signup(t, "Asha", "asha@example.com")
	other := s.signup(t, "Vikram", "vikram@example.com")

	// search finds the trip with all seats open
	w, env := s.request(t, http.MethodGet,
		"/api/v1/trips/search?source=Pune&destination=Mumbai&date=2026-09-14", "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var found []struct {
		ID             int64 `json:"id"`
		SeatsAvailable int   `json:"seats_available"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &found))
	require.Len(t, found, 1)
	assert.Equal(t, tripID, found[0].ID)
	assert.Equal(t, 5, found[0].SeatsAvailable)

	// rider books the partnered pair with a female passenger on 2B
	w, env = s.request(t, http.MethodPost, "/api/v1/bookings", rider, gin.H{
		"trip_id": tripID,
		"passengers": []gin.H{
			{"seat": "2B", "name": "Asha", "gender": "female"},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var booked struct {
		ID         int64    `json:"id"`
		Reference  string   `json:"reference"`
		Status     string   `json:"status"`
		Seats      []string `json:"seats"`
		TotalPrice float64  `json:"total_price"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &booked))
	assert.Equal(t, "PENDING", booked.Status)
	assert.Equal(t, []string{"2B"}, booked.Seats)
	assert.Equal(t, 450.0, booked.TotalPrice)
	assert.True(t, strings.HasPrefix(booked.Reference, "BK-"))

	// the same seat cannot be booked twice
	w, env = s.request(t, http.MethodPost, "/api/v1/bookings", other, gin.H{
		"trip_id": tripID,
		"seats":   []string{"2B"},
	})
	require.Equal(t, http.StatusConflict, w.Code, w.Body.String())
	assert.Equal(t, "SEAT_ALREADY_BOOKED", env.Error.Code)

	// a male passenger next to the occupied female seat is rejected
	w, env = s.request(t, http.MethodPost, "/api/v1/bookings", other, gin.H{
		"trip_id": tripID,
		"passengers": []gin.H{
			{"seat": "2C", "name": "Vikram", "gender": "male"},
		},
	})
	require.Equal(t, http.StatusConflict, w.Code, w.Body.String())
	assert.Equal(t, "ADJACENT_GENDER_CONFLICT", env.Error.Code)

	// the single seat 2A has no partner, so gender never blocks it
	w, _ = s.request(t, http.MethodPost, "/api/v1/bookings", other, gin.H{
		"trip_id": tripID,
		"passengers": []gin.H{
			{"seat": "2A", "name": "Vikram", "gender": "male"},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// seat map reflects both bookings
	w, env = s.request(t, http.MethodGet, fmt.Sprintf("/api/v1/trips/%d/seatmap", tripID), "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var seatMap struct {
		Booked []struct {
			Seat   string `json:"seat"`
			Gender string `json:"gender,omitempty"`
		} `json:"booked"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &seatMap))
	require.Len(t, seatMap.Booked, 2)

	// paytm callback confirms the rider's booking
	form := url.Values{}
	params := map[string]string{
		"ORDERID":   fmt.Sprintf("ORDER_%d_%d", booked.ID, time.Now().Unix()),
		"TXNID":     "TXN-E2E-1",
		"TXNAMOUNT": "450.00",
		"STATUS":    "TXN_SUCCESS",
		"RESPCODE":  "01",
		"RESPMSG":   "Txn Success",
	}
	checksum, err := paytm.GenerateSignature(params, testPaytmKey)
	require.NoError(t, err)
	for k, v := range params {
		form.Set(k, v)
	}
	form.Set("CHECKSUMHASH", checksum)

	w, _ = s.postForm(t, "/api/v1/payments/paytm/callback", form)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, env = s.request(t, http.MethodGet, fmt.Sprintf("/api/v1/bookings/%d", booked.ID), rider, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var confirmed struct {
		Status string `json:"status"`
		IsPaid bool   `json:"is_paid"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &confirmed))
	assert.Equal(t, "CONFIRMED", confirmed.Status)
	assert.True(t, confirmed.IsPaid)

	// the confirmed ride gets an e-ticket
	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/bookings/%d/ticket", booked.ID), nil)
	req.Header.Set("Authorization", "Bearer "+rider)
	ticketRec := httptest.NewRecorder()
	s.router.ServeHTTP(ticketRec, req)
	require.Equal(t, http.StatusOK, ticketRec.Code)
	assert.Equal(t, "application/pdf", ticketRec.Header().Get("Content-Type"))
	assert.Greater(t, ticketRec.Body.Len(), 500)

	// cancelling frees the seat for the other rider
	w, _ = s.request(t, http.MethodPost, fmt.Sprintf("/api/v1/bookings/%d/cancel", booked.ID), rider, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, _ = s.request(t, http.MethodPost, "/api/v1/bookings", other, gin.H{
		"trip_id": tripID,
		"seats":   []string{"2B"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestAuthValidation(t *testing.T) {
	s := newSuite(t)

	// weak password is rejected
	w, env := s.request(t, http.MethodPost, "/api/v1/auth/signup", "", gin.H{
		"name":     "Asha",
		"email":    "asha@example.com",
		"password": "onlyletters",
	})
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	assert.Equal(t, "WEAK_PASSWORD", env.Error.Code)

	// duplicate email is rejected
	s.signup(t, "Asha", "asha@example.com")
	w, env = s.request(t, http.MethodPost, "/api/v1/auth/signup", "", gin.H{
		"name":     "Asha Again",
		"email":    "Asha@Example.com",
		"password": "passw0rd123",
	})
	require.Equal(t, http.StatusConflict, w.Code, w.Body.String())
	assert.Equal(t, "EMAIL_EXISTS", env.Error.Code)

	// wrong password fails login
	w, env = s.request(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email":    "asha@example.com",
		"password": "wrongpass99",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code, w.Body.String())
	assert.Equal(t, "INVALID_CREDENTIALS", env.Error.Code)

	// admin console rejects non-admin tokens
	rider := s.signup(t, "Vikram", "vikram@example.com")
	w, _ = s.request(t, http.MethodGet, "/api/v1/admin/vehicles", rider, nil)
	require.Equal(t, http.StatusForbidden, w.Code, w.Body.String())
}

func TestReviewFlow(t *testing.T) {
	s := newSuite(t)

	adminToken := s.adminToken(t)
	departure := time.Date(2026, 9, 14, 6, 30, 0, 0, time.UTC)
	tripID := s.createTrip(t, adminToken, departure)

	// give the vehicle an owner so there is someone to review
	ownerID := int64(777)
	require.NoError(t, s.db.Model(&domain.Vehicle{}).
		Where("number = ?", "MH12E2E0001").
		Update("owner_id", ownerID).Error)

	rider := s.signup(t, "Asha", "asha@example.com")

	w, env := s.request(t, http.MethodPost, "/api/v1/bookings", rider, gin.H{
		"trip_id": tripID,
		"seats":   []string{"1A"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var booked struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &booked))

	// pending bookings cannot be reviewed
	w, env = s.request(t, http.MethodPost, "/api/v1/reviews", rider, gin.H{
		"booking_id": booked.ID,
		"rating":     5,
	})
	require.Equal(t, http.StatusConflict, w.Code, w.Body.String())
	assert.Equal(t, "NOT_REVIEWABLE", env.Error.Code)

	// confirm through the paytm callback
	params := map[string]string{
		"ORDERID":  fmt.Sprintf("ORDER_%d_%d", booked.ID, time.Now().Unix()),
		"TXNID":    "TXN-E2E-2",
		"STATUS":   "TXN_SUCCESS",
		"RESPCODE": "01",
		"RESPMSG":  "Txn Success",
	}
	checksum, err := paytm.GenerateSignature(params, testPaytmKey)
	require.NoError(t, err)
	form := url.Values{}
	for k, v := range params {
		form.Set(k, v)
	}
	form.Set("CHECKSUMHASH", checksum)
	w, _ = s.postForm(t, "/api/v1/payments/paytm/callback", form)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// review goes through once, then conflicts
	w, _ = s.request(t, http.MethodPost, "/api/v1/reviews", rider, gin.H{
		"booking_id": booked.ID,
		"rating":     4,
		"comment":    "Smooth ride",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w, env = s.request(t, http.MethodPost, "/api/v1/reviews", rider, gin.H{
		"booking_id": booked.ID,
		"rating":     5,
	})
	require.Equal(t, http.StatusConflict, w.Code, w.Body.String())
	assert.Equal(t, "ALREADY_REVIEWED", env.Error.Code)

	// the owner's aggregate reflects the review
	w, env = s.request(t, http.MethodGet, fmt.Sprintf("/api/v1/owners/%d/rating", ownerID), "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var rating struct {
		Average float64 `json:"average"`
		Count   int64   `json:"count"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &rating))
	assert.Equal(t, 4.0, rating.Average)
	assert.Equal(t, int64(1), rating.Count)
}
