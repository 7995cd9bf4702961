// Package session owns the client-side state of the annotation and
// conversation views: the in-memory annotation set, the per-panel thread
// controllers and the dual-panel workspace composing them. All state in
// this package is owned by a single goroutine (the UI event loop); only
// the hold timer touches it from a timer callback, behind its own lock.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/cindypham04/engrave/client"
	"github.com/cindypham04/engrave/markup"
	"github.com/cindypham04/engrave/models"
	"github.com/cindypham04/engrave/pkg/logging"
)

// ErrDeleteCancelled reports that the user declined the delete
// confirmation. No state was touched.
var ErrDeleteCancelled = errors.New("delete cancelled")

// Confirmer asks the user to confirm a destructive action.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmerFunc adapts a function to the Confirmer interface.
type ConfirmerFunc func(prompt string) bool

func (f ConfirmerFunc) Confirm(prompt string) bool { return f(prompt) }

// AnnotationStore owns the in-memory annotation list for the active file
// set: creation, restoration from file state, removal, and the page and
// message highlight indexes the renderer reads.
type AnnotationStore struct {
	backend    client.Backend
	confirm    Confirmer
	fetchCache *gocache.Cache

	annotations map[string]*models.Annotation
	pageOrder   []string // creation order, drives reading order within a page
	byMessage   map[string][]models.ChatHighlight
}

func NewAnnotationStore(backend client.Backend, confirm Confirmer) *AnnotationStore {
	return &AnnotationStore{
		backend:     backend,
		confirm:     confirm,
		fetchCache:  gocache.New(5*time.Minute, 10*time.Minute),
		annotations: make(map[string]*models.Annotation),
		byMessage:   make(map[string][]models.ChatHighlight),
	}
}

// Restore replaces the store's contents with the annotations and chat
// highlights of a freshly loaded file state.
func (s *AnnotationStore) Restore(state *models.FileState) {
	s.annotations = make(map[string]*models.Annotation, len(state.Annotations))
	s.pageOrder = s.pageOrder[:0]
	s.byMessage = make(map[string][]models.ChatHighlight)
	s.fetchCache.Flush()

	for i := range state.Annotations {
		a := state.Annotations[i]
		s.annotations[a.ID] = &a
		s.pageOrder = append(s.pageOrder, a.ID)
	}
	for _, h := range state.ChatHighlights {
		s.byMessage[h.MessageID] = append(s.byMessage[h.MessageID], h)
	}
}

// Create validates the anchor invariant, persists the annotation and on
// success adds it to the in-memory set and highlight indexes. On failure
// no local state is mutated.
func (s *AnnotationStore) Create(ctx context.Context, req models.CreateAnnotationRequest) (*models.Annotation, error) {
	a := &models.Annotation{
		FileID:      req.FileID,
		Kind:        req.Kind,
		PageNumber:  req.PageNumber,
		Geometry:    req.Geometry,
		MessageID:   req.MessageID,
		StartOffset: req.Start,
		EndOffset:   req.End,
		SourceText:  req.Text,
	}
	if err := a.ValidateAnchor(); err != nil {
		return nil, err
	}

	id, err := s.backend.CreateAnnotation(ctx, req)
	if err != nil {
		logging.Logger.Error("fail CreateAnnotation", "error", err)
		return nil, fmt.Errorf("create annotation: %w", err)
	}
	a.ID = id

	s.annotations[id] = a
	s.pageOrder = append(s.pageOrder, id)
	if a.IsChatAnchor() {
		s.byMessage[a.MessageID] = append(s.byMessage[a.MessageID], models.ChatHighlight{
			AnnotationID: id,
			MessageID:    a.MessageID,
			Start:        a.StartOffset,
			End:          a.EndOffset,
		})
	}
	return a, nil
}

// Fetch resolves an annotation referenced only by id. References may
// legitimately point at deleted annotations, so a missing one comes back
// as client.ErrNotFound rather than a surprise.
func (s *AnnotationStore) Fetch(ctx context.Context, id string) (*models.Annotation, error) {
	if a, ok := s.annotations[id]; ok {
		return a, nil
	}
	if cached, ok := s.fetchCache.Get(id); ok {
		if a, ok := cached.(*models.Annotation); ok {
			return a, nil
		}
	}
	a, err := s.backend.FetchAnnotation(ctx, id)
	if err != nil {
		return nil, err
	}
	s.fetchCache.Set(id, a, gocache.DefaultExpiration)
	return a, nil
}

// Remove deletes an annotation after an explicit, cancellable user
// confirmation. On backend success every in-memory highlight index drops
// the annotation and the removed record is returned so dependents can
// cascade. Cancellation returns ErrDeleteCancelled with nothing touched.
func (s *AnnotationStore) Remove(ctx context.Context, id string) (*models.Annotation, error) {
	if s.confirm != nil && !s.confirm.Confirm("Delete this highlight and its conversation?") {
		return nil, ErrDeleteCancelled
	}

	a, err := s.Fetch(ctx, id)
	if err != nil && !errors.Is(err, client.ErrNotFound) {
		logging.Logger.Error("fail Remove fetch", "error", err, "annotationID", id)
	}

	if err := s.backend.DeleteAnnotation(ctx, id); err != nil {
		logging.Logger.Error("fail DeleteAnnotation", "error", err, "annotationID", id)
		return nil, fmt.Errorf("delete annotation: %w", err)
	}

	delete(s.annotations, id)
	s.fetchCache.Delete(id)
	for i, pid := range s.pageOrder {
		if pid == id {
			s.pageOrder = append(s.pageOrder[:i], s.pageOrder[i+1:]...)
			break
		}
	}
	for msgID, hs := range s.byMessage {
		kept := hs[:0]
		for _, h := range hs {
			if h.AnnotationID != id {
				kept = append(kept, h)
			}
		}
		if len(kept) == 0 {
			delete(s.byMessage, msgID)
		} else {
			s.byMessage[msgID] = kept
		}
	}
	return a, nil
}

// VisibleOn returns the annotations rendered on the given page. Pure
// filter, no I/O.
func (s *AnnotationStore) VisibleOn(pageNumber int) []*models.Annotation {
	var out []*models.Annotation
	for _, id := range s.pageOrder {
		a := s.annotations[id]
		if a != nil && !a.IsChatAnchor() && a.PageNumber == pageNumber {
			out = append(out, a)
		}
	}
	return out
}

// MessageRanges projects a message's chat highlights into compositor
// ranges. The active annotation gets the active treatment; everything
// else renders as an ordinary highlight.
func (s *AnnotationStore) MessageRanges(messageID, activeAnnotationID string) []markup.Range {
	hs := s.byMessage[messageID]
	if len(hs) == 0 {
		return nil
	}
	out := make([]markup.Range, 0, len(hs))
	for _, h := range hs {
		treatment := markup.TreatmentOther
		if h.AnnotationID == activeAnnotationID {
			treatment = markup.TreatmentActive
		}
		out = append(out, markup.Range{
			Start:        h.Start,
			End:          h.End,
			AnnotationID: h.AnnotationID,
			Treatment:    treatment,
		})
	}
	return out
}
