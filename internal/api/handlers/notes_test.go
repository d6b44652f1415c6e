package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rosetta-md/rosetta-api/internal/llm"
	"github.com/rosetta-md/rosetta-api/internal/notes"
	"github.com/rosetta-md/rosetta-api/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubProvider struct {
	resp *llm.GenerationResponse
	err  error
}

func (s *stubProvider) Generate(_ context.Context, _ *llm.GenerationRequest) (*llm.GenerationResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.resp, nil
}

func (s *stubProvider) Name() string { return "stub" }

func newNotesRouter(t *testing.T, provider llm.Provider) (*gin.Engine, *store.NoteStore) {
	t.Helper()
	// The directory does not exist until the first save, so missing-directory
	// behavior is observable.
	noteStore := store.NewNoteStore(filepath.Join(t.TempDir(), "outputs"))
	gateway := notes.NewGatewayWithProvider(provider, "gemini-2.5-pro", 8192, 10*time.Second)
	handler := NewNotesHandler(gateway, noteStore, "gemini-2.5-pro")

	router := gin.New()
	router.POST("/generate_note", handler.GenerateNote)
	router.GET("/list_notes", handler.ListNotes)
	router.GET("/get_note/:filename", handler.GetNote)
	router.POST("/api/delete_all_notes", handler.DeleteAllNotes)
	return router, noteStore
}

func postJSON(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func getPath(router *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func successProvider(raw string) *stubProvider {
	return &stubProvider{resp: &llm.GenerationResponse{Kind: llm.ResponseSuccess, Text: raw}}
}

func TestGenerateNote_Success(t *testing.T) {
	raw := notes.ThoughtsStartMarker + "\nConsidered pneumonia vs CHF.\n" + notes.ThoughtsEndMarker +
		"\n**Subjective:** cough x3d.\nPlan: CXR."
	router, noteStore := newNotesRouter(t, successProvider(raw))

	w := postJSON(router, "/generate_note", `{"patient_data":"cough x3d","service_abbreviation":"im","options":{"genSHN":true}}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decodeBody(t, w)
	assert.Equal(t, "Note generated and saved successfully.", body["message"])
	assert.Equal(t, "Considered pneumonia vs CHF.", body["llm_model_thoughts"])
	assert.Equal(t, "Subjective: cough x3d.\nPlan: CXR.", body["llm_note_output"])
	assert.Equal(t, "N/A", body["prompt_feedback"])

	filename, _ := body["filename"].(string)
	require.NotEmpty(t, filename)
	assert.Regexp(t, `^notedraft_\d{8}_\d{4}_IM\.txt$`, filename)

	saved, err := noteStore.Read(filename)
	require.NoError(t, err)
	assert.Equal(t, "Subjective: cough x3d.\nPlan: CXR.", saved)
}

func TestGenerateNote_EmptyServiceDefaults(t *testing.T) {
	router, _ := newNotesRouter(t, successProvider("note"))

	w := postJSON(router, "/generate_note", `{"patient_data":"data"}`)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Contains(t, body["filename"], "_GENERAL.txt")
}

func TestGenerateNote_NoInput(t *testing.T) {
	router, _ := newNotesRouter(t, successProvider("note"))

	w := postJSON(router, "/generate_note", `{"options":{"genSHN":true}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGenerateNote_InvalidJSON(t *testing.T) {
	router, _ := newNotesRouter(t, successProvider("note"))

	w := postJSON(router, "/generate_note", `{not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGenerateNote_ExistingNoteMissing(t *testing.T) {
	router, _ := newNotesRouter(t, successProvider("note"))

	w := postJSON(router, "/generate_note",
		`{"patient_data":"new info","existing_note_filename":"notedraft_20260101_0900_GENERAL.txt"}`)
	require.Equal(t, http.StatusNotFound, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "Existing note 'notedraft_20260101_0900_GENERAL.txt' not found or is not a file.", body["error"])
}

func TestGenerateNote_ExistingNoteTraversalRejected(t *testing.T) {
	router, _ := newNotesRouter(t, successProvider("note"))

	w := postJSON(router, "/generate_note",
		`{"patient_data":"new info","existing_note_filename":"../../etc/passwd"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGenerateNote_UpdateOverwritesExisting(t *testing.T) {
	router, noteStore := newNotesRouter(t, successProvider("updated body"))
	require.NoError(t, noteStore.Save("notedraft_20260101_0900_IM.txt", "original body"))

	w := postJSON(router, "/generate_note",
		`{"patient_data":"fever overnight","existing_note_filename":"notedraft_20260101_0900_IM.txt"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decodeBody(t, w)
	assert.Equal(t, "Note updated and saved successfully.", body["message"])
	assert.Equal(t, "notedraft_20260101_0900_IM.txt", body["filename"])

	saved, err := noteStore.Read("notedraft_20260101_0900_IM.txt")
	require.NoError(t, err)
	assert.Equal(t, "updated body", saved)
}

func TestGenerateNote_LLMFailure(t *testing.T) {
	router, noteStore := newNotesRouter(t, &stubProvider{err: errors.New("connection reset")})

	w := postJSON(router, "/generate_note", `{"patient_data":"data"}`)
	require.Equal(t, http.StatusInternalServerError, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "Failed to get a valid response from LLM.", body["error"])
	assert.Contains(t, body["details"], "Error: Exception during API call")
	assert.Equal(t, "", body["llm_note_output"])

	// Nothing persisted on failure.
	_, err := noteStore.List()
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestGenerateNote_NoCandidatesCarriesFeedback(t *testing.T) {
	router, _ := newNotesRouter(t, &stubProvider{resp: &llm.GenerationResponse{
		Kind:     llm.ResponseNoCandidates,
		Feedback: "BlockReason: SAFETY",
	}})

	w := postJSON(router, "/generate_note", `{"patient_data":"data"}`)
	require.Equal(t, http.StatusInternalServerError, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "BlockReason: SAFETY", body["prompt_feedback"])
}

func TestListNotes(t *testing.T) {
	router, noteStore := newNotesRouter(t, successProvider("x"))
	require.NoError(t, noteStore.Save("notedraft_20260101_0900_A.txt", "a"))
	require.NoError(t, noteStore.Save("notedraft_20260201_0900_B.txt", "b"))

	w := getPath(router, "/list_notes")
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, []interface{}{
		"notedraft_20260201_0900_B.txt",
		"notedraft_20260101_0900_A.txt",
	}, body["notes"])
}

func TestListNotes_MissingDir(t *testing.T) {
	router, _ := newNotesRouter(t, successProvider("x"))

	w := getPath(router, "/list_notes")
	require.Equal(t, http.StatusNotFound, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "Notes directory not found.", body["error"])
	assert.Equal(t, []interface{}{}, body["notes"])
}

func TestGetNote(t *testing.T) {
	router, noteStore := newNotesRouter(t, successProvider("x"))
	require.NoError(t, noteStore.Save("notedraft_20260101_0900_IM.txt", "raw note body"))

	w := getPath(router, "/get_note/notedraft_20260101_0900_IM.txt")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "raw note body", w.Body.String())
}

func TestGetNote_BadExtension(t *testing.T) {
	router, _ := newNotesRouter(t, successProvider("x"))

	w := getPath(router, "/get_note/notes.md")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid file extension.", decodeBody(t, w)["error"])
}

func TestGetNote_Missing(t *testing.T) {
	router, _ := newNotesRouter(t, successProvider("x"))

	w := getPath(router, "/get_note/absent.txt")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteAllNotes_RequiresConfirmation(t *testing.T) {
	router, noteStore := newNotesRouter(t, successProvider("x"))
	require.NoError(t, noteStore.Save("notedraft_20260101_0900_A.txt", "a"))

	w := postJSON(router, "/api/delete_all_notes", `{"confirm":false}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.True(t, noteStore.Exists("notedraft_20260101_0900_A.txt"))
}

func TestDeleteAllNotes(t *testing.T) {
	router, noteStore := newNotesRouter(t, successProvider("x"))
	require.NoError(t, noteStore.Save("notedraft_20260101_0900_A.txt", "a"))
	require.NoError(t, noteStore.Save("notedraft_20260101_0901_B.txt", "b"))

	w := postJSON(router, "/api/delete_all_notes", `{"confirm":true}`)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, float64(2), body["deleted_count"])

	names, err := noteStore.List()
	require.NoError(t, err)
	assert.Empty(t, names)
}
