package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cindypham04/engrave/client"
	"github.com/cindypham04/engrave/markup"
	"github.com/cindypham04/engrave/models"
)

func pdfTextReq(fileID string, page int) models.CreateAnnotationRequest {
	return models.CreateAnnotationRequest{
		FileID:     fileID,
		PageNumber: page,
		Kind:       models.AnchorPDFText,
		Geometry:   []models.Rect{{X: 0.1, Y: 0.2, Width: 0.3, Height: 0.02}},
		Text:       "selected text",
	}
}

func chatTextReq(fileID, messageID string, start, end int) models.CreateAnnotationRequest {
	return models.CreateAnnotationRequest{
		FileID:     fileID,
		PageNumber: models.ChatPageNumber,
		Kind:       models.AnchorChatText,
		MessageID:  messageID,
		Start:      start,
		End:        end,
		Text:       "reply excerpt",
	}
}

func TestStoreCreateRejectsInvalidAnchor(t *testing.T) {
	backend := newFakeBackend()
	store := NewAnnotationStore(backend, acceptAll())

	// both anchors at once
	req := pdfTextReq("f1", 1)
	req.MessageID = "m1"
	_, err := store.Create(context.Background(), req)
	require.ErrorIs(t, err, models.ErrInvalidAnchor)
	assert.Empty(t, backend.created)

	// neither anchor
	_, err = store.Create(context.Background(), models.CreateAnnotationRequest{
		FileID: "f1", Kind: models.AnchorPDFText, PageNumber: 1,
	})
	require.ErrorIs(t, err, models.ErrInvalidAnchor)
}

func TestStoreCreateFailureMutatesNothing(t *testing.T) {
	backend := newFakeBackend()
	backend.createErr = errors.New("boom")
	store := NewAnnotationStore(backend, acceptAll())

	_, err := store.Create(context.Background(), pdfTextReq("f1", 1))
	require.Error(t, err)
	assert.Empty(t, store.VisibleOn(1))
}

func TestStoreCreateIndexesPageAndMessage(t *testing.T) {
	backend := newFakeBackend()
	store := NewAnnotationStore(backend, acceptAll())

	a1, err := store.Create(context.Background(), pdfTextReq("f1", 3))
	require.NoError(t, err)
	a2, err := store.Create(context.Background(), chatTextReq("f1", "m1", 2, 9))
	require.NoError(t, err)

	visible := store.VisibleOn(3)
	require.Len(t, visible, 1)
	assert.Equal(t, a1.ID, visible[0].ID)
	assert.Empty(t, store.VisibleOn(1))

	ranges := store.MessageRanges("m1", "")
	require.Len(t, ranges, 1)
	assert.Equal(t, a2.ID, ranges[0].AnnotationID)
	assert.Equal(t, 2, ranges[0].Start)
	assert.Equal(t, 9, ranges[0].End)
	assert.Equal(t, markup.TreatmentOther, ranges[0].Treatment)
}

func TestStoreMessageRangesActiveTreatment(t *testing.T) {
	backend := newFakeBackend()
	store := NewAnnotationStore(backend, acceptAll())

	a, err := store.Create(context.Background(), chatTextReq("f1", "m1", 0, 4))
	require.NoError(t, err)

	ranges := store.MessageRanges("m1", a.ID)
	require.Len(t, ranges, 1)
	assert.Equal(t, markup.TreatmentActive, ranges[0].Treatment)
}

func TestStoreFetchFallsBackToBackend(t *testing.T) {
	backend := newFakeBackend()
	backend.annotations["remote"] = &models.Annotation{ID: "remote", FileID: "f2"}
	store := NewAnnotationStore(backend, acceptAll())

	a, err := store.Fetch(context.Background(), "remote")
	require.NoError(t, err)
	assert.Equal(t, "f2", a.FileID)

	_, err = store.Fetch(context.Background(), "gone")
	assert.ErrorIs(t, err, client.ErrNotFound)
}

func TestStoreRemoveCancelledTouchesNothing(t *testing.T) {
	backend := newFakeBackend()
	store := NewAnnotationStore(backend, declineAll())

	a, err := store.Create(context.Background(), pdfTextReq("f1", 1))
	require.NoError(t, err)

	_, err = store.Remove(context.Background(), a.ID)
	require.ErrorIs(t, err, ErrDeleteCancelled)
	assert.Len(t, store.VisibleOn(1), 1)
	assert.Empty(t, backend.deleted)
}

func TestStoreRemovePurgesAllIndexes(t *testing.T) {
	backend := newFakeBackend()
	store := NewAnnotationStore(backend, acceptAll())

	pdf, err := store.Create(context.Background(), pdfTextReq("f1", 1))
	require.NoError(t, err)
	chat, err := store.Create(context.Background(), chatTextReq("f1", "m1", 0, 5))
	require.NoError(t, err)

	removed, err := store.Remove(context.Background(), chat.ID)
	require.NoError(t, err)
	assert.Equal(t, chat.ID, removed.ID)
	assert.Empty(t, store.MessageRanges("m1", ""))
	assert.Len(t, store.VisibleOn(1), 1)

	removed, err = store.Remove(context.Background(), pdf.ID)
	require.NoError(t, err)
	assert.Equal(t, pdf.ID, removed.ID)
	assert.Empty(t, store.VisibleOn(1))
	assert.Equal(t, []string{chat.ID, pdf.ID}, backend.deleted)
}

func TestStoreRemoveBackendFailureKeepsState(t *testing.T) {
	backend := newFakeBackend()
	store := NewAnnotationStore(backend, acceptAll())

	a, err := store.Create(context.Background(), pdfTextReq("f1", 1))
	require.NoError(t, err)

	backend.deleteErr = errors.New("boom")
	_, err = store.Remove(context.Background(), a.ID)
	require.Error(t, err)
	assert.Len(t, store.VisibleOn(1), 1)
}

func TestStoreRestoreReplacesContents(t *testing.T) {
	backend := newFakeBackend()
	store := NewAnnotationStore(backend, acceptAll())

	_, err := store.Create(context.Background(), pdfTextReq("f1", 1))
	require.NoError(t, err)

	store.Restore(&models.FileState{
		Annotations: []models.Annotation{
			{ID: "x1", FileID: "f2", Kind: models.AnchorPDFRegion, PageNumber: 2,
				Geometry: []models.Rect{{X: 0.1, Y: 0.1, Width: 0.2, Height: 0.2}}},
		},
		ChatHighlights: []models.ChatHighlight{
			{AnnotationID: "x2", MessageID: "m9", Start: 1, End: 3},
		},
	})

	assert.Empty(t, store.VisibleOn(1))
	require.Len(t, store.VisibleOn(2), 1)
	require.Len(t, store.MessageRanges("m9", ""), 1)
}

func TestStoreVisibleOnExcludesChatAnchors(t *testing.T) {
	backend := newFakeBackend()
	store := NewAnnotationStore(backend, acceptAll())

	_, err := store.Create(context.Background(), chatTextReq("f1", "m1", 0, 3))
	require.NoError(t, err)
	assert.Empty(t, store.VisibleOn(models.ChatPageNumber))
}
