package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"labbook/internal/auth"
	"labbook/internal/booking"
	"labbook/internal/config"
	"labbook/internal/store"
)

const (
	testKey    = "test-signing-key"
	testIssuer = "labbook-test"
)

// memStore is an in-memory booking.Store for exercising the endpoints
// without Postgres.
type memStore struct {
	mu       sync.Mutex
	bookings map[string]booking.Booking
}

func newMemStore() *memStore {
	return &memStore{bookings: map[string]booking.Booking{}}
}

func (m *memStore) Insert(_ context.Context, b booking.Booking) (booking.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	m.bookings[b.ID] = b
	return b, nil
}

func (m *memStore) Get(_ context.Context, id string) (booking.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return booking.Booking{}, store.ErrNotFound
	}
	return b, nil
}

func (m *memStore) List(_ context.Context, f booking.Filter) ([]booking.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []booking.Booking
	for _, b := range m.bookings {
		if f.RoomID != "" && b.RoomID != f.RoomID {
			continue
		}
		if f.Status != "" && b.Status != f.Status {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (m *memStore) UpdateFields(_ context.Context, id string, upd booking.Update) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return store.ErrNotFound
	}
	if upd.Date != nil {
		b.Date = *upd.Date
	}
	if upd.RoomID != nil {
		b.RoomID = *upd.RoomID
	}
	m.bookings[id] = b
	return nil
}

func (m *memStore) SetStatus(_ context.Context, id string, st booking.Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return store.ErrNotFound
	}
	b.Status = st
	m.bookings[id] = b
	return nil
}

func (m *memStore) Approve(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return store.ErrNotFound
	}
	for _, other := range m.bookings {
		if other.ID != id && other.Status == booking.StatusApproved &&
			other.RoomID == b.RoomID && other.Date == b.Date && other.TimeSlotID == b.TimeSlotID {
			return fmt.Errorf("%w: slot already has an approved booking", store.ErrConflict)
		}
	}
	b.Status = booking.StatusApproved
	m.bookings[id] = b
	return nil
}

func (m *memStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.bookings[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.bookings, id)
	return nil
}

func (m *memStore) CountApproved(_ context.Context, roomID, date, slotID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, b := range m.bookings {
		if b.Status == booking.StatusApproved && b.RoomID == roomID && b.Date == date && b.TimeSlotID == slotID {
			n++
		}
	}
	return n, nil
}

func testEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := config.App{JWTIssuer: testIssuer, JWTSigningKey: testKey}
	h := New(cfg, booking.NewService(newMemStore()), nil, nil, nil, nil, nil, nil, nil)
	r := gin.New()
	h.Register(r)
	return r
}

func token(t *testing.T, role, teacherID string) string {
	t.Helper()
	pair, err := auth.Issue("u-"+role, role, teacherID, testIssuer, testKey, time.Minute, time.Hour)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return pair.AccessToken
}

func doJSON(r *gin.Engine, method, path, bearer string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func createReq() map[string]any {
	return map[string]any{
		"teacher_id":   "t1",
		"grade_id":     "g1",
		"room_id":      "lab-a",
		"time_slot_id": "s1",
		"date":         "2024-06-10",
	}
}

func TestBookingsRequireAuth(t *testing.T) {
	r := testEngine()
	if w := doJSON(r, http.MethodGet, "/v1/bookings", "", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("unauthenticated list = %d, want 401", w.Code)
	}
}

func TestCreateBookingAsTeacher(t *testing.T) {
	r := testEngine()
	teacher := token(t, auth.RoleTeacher, "t-self")

	body := createReq()
	body["teacher_id"] = "someone-else" // must be overridden with the caller's own id
	w := doJSON(r, http.MethodPost, "/v1/bookings", teacher, body)
	if w.Code != http.StatusCreated {
		t.Fatalf("create = %d, body %s", w.Code, w.Body.String())
	}
	var b booking.Booking
	if err := json.Unmarshal(w.Body.Bytes(), &b); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b.Status != booking.StatusPending {
		t.Errorf("status = %s, want pending", b.Status)
	}
	if b.TeacherID != "t-self" {
		t.Errorf("teacher_id = %s, want caller's own t-self", b.TeacherID)
	}
}

func TestCreateBookingValidation(t *testing.T) {
	r := testEngine()
	admin := token(t, auth.RoleAdmin, "")

	body := createReq()
	delete(body, "room_id")
	if w := doJSON(r, http.MethodPost, "/v1/bookings", admin, body); w.Code != http.StatusBadRequest {
		t.Errorf("missing room_id = %d, want 400", w.Code)
	}

	body = createReq()
	body["date"] = "junk"
	if w := doJSON(r, http.MethodPost, "/v1/bookings", admin, body); w.Code != http.StatusBadRequest {
		t.Errorf("bad date = %d, want 400", w.Code)
	}
}

func TestStatusTransitionAdminOnly(t *testing.T) {
	r := testEngine()
	admin := token(t, auth.RoleAdmin, "")
	teacher := token(t, auth.RoleTeacher, "t1")

	w := doJSON(r, http.MethodPost, "/v1/bookings", admin, createReq())
	if w.Code != http.StatusCreated {
		t.Fatalf("create = %d", w.Code)
	}
	var b booking.Booking
	_ = json.Unmarshal(w.Body.Bytes(), &b)

	statusURL := "/v1/bookings/" + b.ID + "/status"
	if w := doJSON(r, http.MethodPut, statusURL, teacher, gin.H{"status": "approved"}); w.Code != http.StatusForbidden {
		t.Errorf("teacher transition = %d, want 403", w.Code)
	}
	if w := doJSON(r, http.MethodPut, statusURL, admin, gin.H{"status": "approved"}); w.Code != http.StatusOK {
		t.Errorf("admin approve = %d, body %s", w.Code, w.Body.String())
	}
	if w := doJSON(r, http.MethodPut, statusURL, admin, gin.H{"status": "bogus"}); w.Code != http.StatusBadRequest {
		t.Errorf("bogus status = %d, want 400", w.Code)
	}
}

func TestSecondApprovalConflictsOverHTTP(t *testing.T) {
	r := testEngine()
	admin := token(t, auth.RoleAdmin, "")

	var ids []string
	for i := 0; i < 2; i++ {
		w := doJSON(r, http.MethodPost, "/v1/bookings", admin, createReq())
		if w.Code != http.StatusCreated {
			t.Fatalf("create %d = %d", i, w.Code)
		}
		var b booking.Booking
		_ = json.Unmarshal(w.Body.Bytes(), &b)
		ids = append(ids, b.ID)
	}

	if w := doJSON(r, http.MethodPut, "/v1/bookings/"+ids[0]+"/status", admin, gin.H{"status": "approved"}); w.Code != http.StatusOK {
		t.Fatalf("first approval = %d", w.Code)
	}
	if w := doJSON(r, http.MethodPut, "/v1/bookings/"+ids[1]+"/status", admin, gin.H{"status": "approved"}); w.Code != http.StatusConflict {
		t.Errorf("second approval = %d, want 409", w.Code)
	}
}

func TestOccupancyEndpoint(t *testing.T) {
	r := testEngine()
	admin := token(t, auth.RoleAdmin, "")

	w := doJSON(r, http.MethodPost, "/v1/bookings", admin, createReq())
	var b booking.Booking
	_ = json.Unmarshal(w.Body.Bytes(), &b)

	occupancyURL := "/v1/rooms/lab-a/occupancy?date=2024-06-10&time_slot_id=s1"
	check := func(want bool) {
		t.Helper()
		w := doJSON(r, http.MethodGet, occupancyURL, admin, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("occupancy = %d", w.Code)
		}
		var resp struct {
			Occupied bool `json:"occupied"`
		}
		_ = json.Unmarshal(w.Body.Bytes(), &resp)
		if resp.Occupied != want {
			t.Errorf("occupied = %v, want %v", resp.Occupied, want)
		}
	}

	check(false) // pending does not occupy
	doJSON(r, http.MethodPut, "/v1/bookings/"+b.ID+"/status", admin, gin.H{"status": "approved"})
	check(true)
}

func TestDeleteBookingOwnership(t *testing.T) {
	r := testEngine()
	admin := token(t, auth.RoleAdmin, "")
	owner := token(t, auth.RoleTeacher, "t1")
	other := token(t, auth.RoleTeacher, "t2")

	w := doJSON(r, http.MethodPost, "/v1/bookings", owner, createReq())
	var b booking.Booking
	_ = json.Unmarshal(w.Body.Bytes(), &b)

	if w := doJSON(r, http.MethodDelete, "/v1/bookings/"+b.ID, other, nil); w.Code != http.StatusForbidden {
		t.Errorf("other teacher delete = %d, want 403", w.Code)
	}
	if w := doJSON(r, http.MethodDelete, "/v1/bookings/"+b.ID, owner, nil); w.Code != http.StatusOK {
		t.Errorf("owner delete = %d, want 200", w.Code)
	}
	if w := doJSON(r, http.MethodDelete, "/v1/bookings/"+b.ID, admin, nil); w.Code != http.StatusNotFound {
		t.Errorf("delete gone booking = %d, want 404", w.Code)
	}
}
