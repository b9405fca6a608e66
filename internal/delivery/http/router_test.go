package http

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"meditrack-backend/config"
	"meditrack-backend/internal/delivery/http/handler"
	"meditrack-backend/internal/delivery/http/middleware"
	"meditrack-backend/internal/infrastructure/completion"
	"meditrack-backend/internal/infrastructure/database"
	"meditrack-backend/internal/infrastructure/storage"
	"meditrack-backend/internal/repository"
	"meditrack-backend/internal/usecase"
	"meditrack-backend/pkg/jwt"
	"meditrack-backend/pkg/validator"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cannedCompletion struct {
	reply string
}

func (c cannedCompletion) Complete(context.Context, []completion.Message) (string, error) {
	return c.reply, nil
}

type testServer struct {
	handler http.Handler
	tokens  *jwt.HMACService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	db, err := database.NewSQLiteConnection("file:"+uuid.NewString()+"?mode=memory&cache=shared", "test")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { _ = database.Close(db) })

	store, err := storage.NewLocalStore(t.TempDir(), "http://api.test")
	require.NoError(t, err)

	tokens := jwt.NewHMACService(config.AuthConfig{Secret: "test-secret", Expiry: time.Hour})
	v := validator.NewValidator()
	webURL := "https://meditrack.test"

	userRepo := repository.NewUserRepository()
	emergencyRepo := repository.NewEmergencyAccessRepository()

	userUsecase := usecase.NewUserUsecase(db, log, userRepo, emergencyRepo, webURL, time.Now)
	emergencyUsecase := usecase.NewEmergencyUsecase(db, log, v, userRepo, emergencyRepo, webURL, time.Now)
	reminderUsecase := usecase.NewReminderUsecase(db, log, repository.NewReminderRepository(), time.Now)
	prescriptionUsecase := usecase.NewPrescriptionUsecase(db, log, repository.NewPrescriptionRepository(), store, time.Now)
	noteUsecase := usecase.NewHealthNoteUsecase(db, log, repository.NewHealthNoteRepository(), time.Now)
	chatUsecase := usecase.NewChatUsecase(db, log, repository.NewChatLogRepository(), cannedCompletion{reply: "Rest well."}, time.Now)

	router := NewRouter(
		log,
		handler.NewUserHandler(userUsecase),
		handler.NewEmergencyHandler(emergencyUsecase),
		handler.NewReminderHandler(reminderUsecase),
		handler.NewPrescriptionHandler(prescriptionUsecase, 1<<20),
		handler.NewHealthNoteHandler(noteUsecase),
		handler.NewChatHandler(chatUsecase, v),
		middleware.NewAuthMiddleware(tokens, log),
		middleware.NewCORSMiddleware(),
	)
	router.ServeFiles(store.Dir())

	return &testServer{handler: router.Setup(), tokens: tokens}
}

func (s *testServer) token(t *testing.T, uid string) string {
	t.Helper()
	token, err := s.tokens.GenerateToken(uid, uid+"@example.com", "")
	require.NoError(t, err)
	return token
}

func (s *testServer) do(t *testing.T, method, path, token, contentType string, body io.Reader) (int, map[string]interface{}) {
	t.Helper()

	req := httptest.NewRequest(method, path, body)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	var decoded map[string]interface{}
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	}
	return rec.Code, decoded
}

func (s *testServer) call(t *testing.T, method, path, token, body string) (int, map[string]interface{}) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	return s.do(t, method, path, token, "application/json", r)
}

func TestRouter_RootAndHealth(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Meditrack backend running...", rec.Body.String())

	code, body := s.call(t, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])

	code, body = s.call(t, http.MethodGet, "/nowhere", "", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Route not found", body["error"])
}

func TestRouter_RequiresToken(t *testing.T) {
	s := newTestServer(t)

	code, body := s.call(t, http.MethodGet, "/user/check", "", "")
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "No token provided", body["error"])

	code, body = s.call(t, http.MethodGet, "/reminders", "garbage", "")
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Invalid token", body["error"])

	// Contact routes stay protected even though they look like the public lookup.
	code, _ = s.call(t, http.MethodGet, "/emergency/contacts/abc", "", "")
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestRouter_ProfileSyncsToPublicEmergencyPage(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t, "U")

	code, body := s.call(t, http.MethodGet, "/user/check", token, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "User verified", body["message"])
	assert.Equal(t, "U", body["uid"])
	assert.Equal(t, true, body["isNewUser"])

	code, body = s.call(t, http.MethodPut, "/user/profile", token, `{"bloodType":"O+","weight":70}`)
	require.Equal(t, http.StatusOK, code)
	profile := body["profile"].(map[string]interface{})
	assert.Equal(t, "O+", profile["bloodType"])
	assert.Equal(t, float64(70), profile["weight"])

	code, body = s.call(t, http.MethodGet, "/emergency/U/default", "", "")
	require.Equal(t, http.StatusOK, code)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "O+", data["bloodType"])
	assert.NotContains(t, data, "weight")

	code, body = s.call(t, http.MethodGet, "/emergency/U/other", "", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Emergency access not found", body["error"])

	code, body = s.call(t, http.MethodPut, "/user/profile", token, `{"weight":"heavy"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Validation failed", body["error"])
}

func TestRouter_EmergencyAccessAndContacts(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t, "U")

	code, body := s.call(t, http.MethodPost, "/emergency", token, `{"sharedData":["bloodType"]}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Emergency access created", body["message"])
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "default", data["accessId"])
	assert.Equal(t, "https://meditrack.test/emergency/default", data["emergencyURL"])

	code, body = s.call(t, http.MethodPost, "/emergency/contacts", token, `{"name":"Ann","relationship":"sister"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "phone is required", body["fields"].(map[string]interface{})["phone"])

	code, body = s.call(t, http.MethodPost, "/emergency/contacts", token, `{"name":"Ann","phone":"+1 555 0100","relationship":"sister"}`)
	require.Equal(t, http.StatusCreated, code)
	contacts := body["contacts"].([]interface{})
	require.Len(t, contacts, 1)
	id := contacts[0].(map[string]interface{})["id"].(string)

	code, body = s.call(t, http.MethodPut, "/emergency/contacts/"+id, token, `{"phone":"+1 555 0199"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "+1 555 0199", body["contact"].(map[string]interface{})["phone"])

	code, body = s.call(t, http.MethodGet, "/emergency/contacts/"+id, token, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Ann", body["contact"].(map[string]interface{})["name"])

	code, _ = s.call(t, http.MethodGet, "/emergency/contacts/missing", token, "")
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = s.call(t, http.MethodDelete, "/emergency/contacts/"+id, token, "")
	assert.Equal(t, http.StatusOK, code)

	code, body = s.call(t, http.MethodGet, "/emergency/contacts", token, "")
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, body["contacts"])
}

func TestRouter_ReminderLifecycle(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t, "U")

	code, body := s.call(t, http.MethodPost, "/reminders", token, `{"medicineName":"Ibuprofen","dosage":"200mg","time":"08:00","repeat":"daily"}`)
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "Reminder created", body["message"])
	id := body["reminderId"].(string)

	code, body = s.call(t, http.MethodPut, "/reminders/"+id, token, `{"status":"taken","snoozed":true}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Reminder updated", body["message"])

	code, body = s.call(t, http.MethodGet, "/reminders/"+id, token, "")
	require.Equal(t, http.StatusOK, code)
	reminder := body["reminder"].(map[string]interface{})
	assert.Equal(t, "taken", reminder["status"])
	assert.Equal(t, true, reminder["snoozed"])

	// Another user cannot see it.
	code, body = s.call(t, http.MethodGet, "/reminders/"+id, s.token(t, "V"), "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Reminder not found", body["error"])

	code, _ = s.call(t, http.MethodPut, "/reminders/missing", token, `{"status":"taken"}`)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = s.call(t, http.MethodPost, "/reminders", token, `not json`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, body = s.call(t, http.MethodDelete, "/reminders/"+id, token, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Reminder deleted", body["message"])

	code, body = s.call(t, http.MethodGet, "/reminders", token, "")
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, body["reminders"])
}

func TestRouter_NotesLifecycle(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t, "U")

	code, body := s.call(t, http.MethodPost, "/notes", token, `{"title":"Headache","content":"Since morning"}`)
	require.Equal(t, http.StatusCreated, code)
	id := body["noteId"].(string)

	code, body = s.call(t, http.MethodGet, "/notes", token, "")
	require.Equal(t, http.StatusOK, code)
	require.Len(t, body["notes"], 1)

	code, body = s.call(t, http.MethodGet, "/notes/"+id, token, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, id, body["note"].(map[string]interface{})["noteId"])
}

// 1x1 transparent PNG.
var tinyPNG, _ = base64.StdEncoding.DecodeString(
	"iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAQAAAC1HAwCAAAAC0lEQVR42mNkYAAAAAYAAjCB0C8AAAAASUVORK5CYII=")

func TestRouter_PrescriptionUpload(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t, "U")

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	require.NoError(t, form.WriteField("doctorName", "Dr. Lee"))
	part, err := form.CreateFormFile("image", "scan.png")
	require.NoError(t, err)
	_, err = part.Write(tinyPNG)
	require.NoError(t, err)
	require.NoError(t, form.Close())

	code, body := s.do(t, http.MethodPost, "/prescriptions", token, form.FormDataContentType(), &buf)
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "Prescription created", body["message"])
	assert.NotContains(t, body, "warning")
	id := body["prescriptionId"].(string)

	code, body = s.call(t, http.MethodGet, "/prescriptions/"+id, token, "")
	require.Equal(t, http.StatusOK, code)
	prescription := body["prescription"].(map[string]interface{})
	assert.Equal(t, "Dr. Lee", prescription["doctorName"])
	assert.Equal(t, "image/png", prescription["fileType"])
	fileURL := prescription["fileURL"].(string)
	require.True(t, strings.HasPrefix(fileURL, "http://api.test/files/"))

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, strings.TrimPrefix(fileURL, "http://api.test"), nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, tinyPNG, rec.Body.Bytes())

	code, _ = s.call(t, http.MethodDelete, "/prescriptions/"+id, token, "")
	require.Equal(t, http.StatusOK, code)

	rec = httptest.NewRecorder()
	s.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, strings.TrimPrefix(fileURL, "http://api.test"), nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_PrescriptionJSONAndTooLarge(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t, "U")

	code, body := s.call(t, http.MethodPost, "/prescriptions", token, `{"hospital":"City","fileURL":"https://elsewhere.test/x.pdf","fileType":"application/pdf"}`)
	require.Equal(t, http.StatusCreated, code)
	id := body["prescriptionId"].(string)

	code, body = s.call(t, http.MethodGet, "/prescriptions/"+id, token, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "https://elsewhere.test/x.pdf", body["prescription"].(map[string]interface{})["fileURL"])

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	part, err := form.CreateFormFile("image", "huge.bin")
	require.NoError(t, err)
	_, err = part.Write(bytes.Repeat([]byte{0xAB}, 2<<20))
	require.NoError(t, err)
	require.NoError(t, form.Close())

	code, body = s.do(t, http.MethodPost, "/prescriptions", token, form.FormDataContentType(), &buf)
	assert.Equal(t, http.StatusRequestEntityTooLarge, code)
	assert.Equal(t, "File too large", body["error"])
}

func TestRouter_Chat(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t, "U")

	code, body := s.call(t, http.MethodPost, "/chat", token, `{}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Message is required", body["error"])

	code, body = s.call(t, http.MethodPost, "/chat", token, `{"message":"Recommend a good movie"}`)
	require.Equal(t, http.StatusOK, code)
	reply := body["reply"].(map[string]interface{})
	assert.Equal(t, true, reply["isRejected"])

	code, body = s.call(t, http.MethodPost, "/chat", token, `{"message":"How much sleep do I need?"}`)
	require.Equal(t, http.StatusOK, code)
	reply = body["reply"].(map[string]interface{})
	assert.Equal(t, false, reply["isRejected"])
	assert.Equal(t, "Rest well.", reply["botReply"])

	code, body = s.call(t, http.MethodGet, "/chat/history", token, "")
	require.Equal(t, http.StatusOK, code)
	history := body["history"].([]interface{})
	require.Len(t, history, 1)
	assert.Equal(t, "general", history[0].(map[string]interface{})["topic"])
}
