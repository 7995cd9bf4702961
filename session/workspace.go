package session

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/cindypham04/engrave/client"
	"github.com/cindypham04/engrave/markup"
	"github.com/cindypham04/engrave/models"
	"github.com/cindypham04/engrave/pkg/logging"
)

// PanelID names one of the two conversation panels.
type PanelID string

const (
	PanelPrimary   PanelID = "primary"
	PanelSecondary PanelID = "secondary"
)

// Point anchors the delete affordance next to a held highlight.
type Point struct {
	Top  float64
	Left float64
}

// PendingDelete is the single pending-delete state shared by PDF and chat
// highlights, consumed by one confirm/cancel pair.
type PendingDelete struct {
	Panel        PanelID
	AnnotationID string
	Anchor       Point
}

// Workspace composes the two panel controllers over one shared
// AnnotationStore, handles branching a thread from a highlighted reply,
// and guards against out-of-order responses with a file epoch.
type Workspace struct {
	backend client.Backend
	store   *AnnotationStore
	epoch   Epoch

	primary       *Controller
	secondary     *Controller
	secondaryOpen bool

	mu            sync.Mutex
	pendingDelete *PendingDelete
	suppressClick bool
	holdTimer     *HoldTimer
}

func NewWorkspace(backend client.Backend, confirm Confirmer) *Workspace {
	w := &Workspace{backend: backend}
	w.store = NewAnnotationStore(backend, confirm)
	w.primary = NewController(PanelPrimary, backend, w.store, &w.epoch)
	w.secondary = NewController(PanelSecondary, backend, w.store, &w.epoch)
	return w
}

func (w *Workspace) Primary() *Controller { return w.primary }

func (w *Workspace) Secondary() *Controller { return w.secondary }

func (w *Workspace) Store() *AnnotationStore { return w.store }

func (w *Workspace) SecondaryOpen() bool { return w.secondaryOpen }

func (w *Workspace) controller(panel PanelID) *Controller {
	if panel == PanelSecondary {
		return w.secondary
	}
	return w.primary
}

// SelectFile switches the workspace to another file. The epoch advances
// first, so any response still in flight for the previous file is
// discarded when it lands.
func (w *Workspace) SelectFile(ctx context.Context, fileID string) error {
	w.epoch.Advance()
	w.clearPendingDelete()
	w.CloseSecondary()

	state, err := w.primary.LoadFile(ctx, fileID)
	if err != nil {
		return err
	}
	if state == nil {
		return nil // stale, dropped
	}
	w.store.Restore(state)
	return nil
}

// FileDeleted drops all panel state bound to the deleted file and bumps
// the epoch so late responses for it are discarded.
func (w *Workspace) FileDeleted(fileID string) {
	w.epoch.Advance()
	if w.primary.Session().FileID == fileID {
		w.primary.Unbind()
	}
	if w.secondary.Session().FileID == fileID {
		w.CloseSecondary()
	}
}

// ActivateAnnotation reacts to a click on a rendered highlight. From the
// primary panel, an annotation that already owns a derived thread opens
// the secondary panel bound to that thread; otherwise the panel filters
// in place. An annotation deleted since the reference was recorded
// degrades to the document view instead of raising.
func (w *Workspace) ActivateAnnotation(ctx context.Context, panel PanelID, annotationID string, scrollOffset float64) error {
	w.clearPendingDelete()

	a, err := w.store.Fetch(ctx, annotationID)
	if err != nil {
		if errors.Is(err, client.ErrNotFound) {
			logging.Logger.Debug("activate missing annotation, degrading", "annotationID", annotationID)
			_, _, backErr := w.controller(panel).BackToFull(ctx)
			return backErr
		}
		logging.Logger.Error("fail ActivateAnnotation", "error", err, "annotationID", annotationID)
		return err
	}

	if panel == PanelPrimary {
		linked, err := w.backend.ThreadByAnnotation(ctx, annotationID)
		if err != nil && !errors.Is(err, client.ErrNotFound) {
			logging.Logger.Error("fail ThreadByAnnotation", "error", err, "annotationID", annotationID)
		}
		if linked != nil {
			title := linked.Title
			if title == "" {
				title = "New Chat"
			}
			if err := w.secondary.BindThread(ctx, linked, title); err != nil {
				return err
			}
			w.secondary.session.ActiveAnnotationID = annotationID
			w.secondaryOpen = true
			return nil
		}
	}

	return w.controller(panel).ActivateAnnotation(ctx, a, scrollOffset)
}

// BackToFull leaves the filtered annotation view on the given panel and
// returns the scroll offset to restore.
func (w *Workspace) BackToFull(ctx context.Context, panel PanelID) (float64, bool, error) {
	w.clearPendingDelete()
	return w.controller(panel).BackToFull(ctx)
}

// BranchFromReply turns a text selection inside a rendered reply into a
// chat_text annotation and opens the secondary panel for it. The derived
// thread itself is created lazily on the first ask.
func (w *Workspace) BranchFromReply(ctx context.Context, panel PanelID, messageID, text string, start, end int) (*models.Annotation, error) {
	fileID := w.controller(panel).Session().FileID
	if fileID == "" {
		return nil, fmt.Errorf("no file bound to panel %s", panel)
	}

	a, err := w.store.Create(ctx, models.CreateAnnotationRequest{
		FileID:     fileID,
		PageNumber: models.ChatPageNumber,
		Kind:       models.AnchorChatText,
		Text:       text,
		MessageID:  messageID,
		Start:      start,
		End:        end,
	})
	if err != nil {
		return nil, err
	}

	w.secondary.BindPending(CleanChatTitle(text), a.ID)
	w.secondaryOpen = true
	return a, nil
}

// AttachToCurrent creates a chat_text annotation and activates it on the
// source panel without opening the secondary panel.
func (w *Workspace) AttachToCurrent(ctx context.Context, panel PanelID, messageID, text string, start, end int) (*models.Annotation, error) {
	fileID := w.controller(panel).Session().FileID
	if fileID == "" {
		return nil, fmt.Errorf("no file bound to panel %s", panel)
	}
	a, err := w.store.Create(ctx, models.CreateAnnotationRequest{
		FileID:     fileID,
		PageNumber: models.ChatPageNumber,
		Kind:       models.AnchorChatText,
		Text:       text,
		MessageID:  messageID,
		Start:      start,
		End:        end,
	})
	if err != nil {
		return nil, err
	}
	c := w.controller(panel)
	c.session.ActiveAnnotationID = a.ID
	c.state = AnnotationView
	filtered := make([]models.ChatMessage, 0)
	for _, m := range c.session.AllMessages {
		if m.AnnotationID == a.ID {
			filtered = append(filtered, m)
		}
	}
	c.session.VisibleMessages = filtered
	return a, nil
}

// Ask submits a question on a panel. The two panels' asks are fully
// independent; each has its own loading flag and optimistic queue. An
// unbound secondary panel gets its standalone chat file and thread
// created here, on first use.
func (w *Workspace) Ask(ctx context.Context, panel PanelID, question string) error {
	c := w.controller(panel)

	if panel == PanelSecondary && c.Session().ActiveThreadID == "" {
		title := c.Session().PendingTitle
		if title == "" {
			title = "New Chat"
		}
		created, err := w.backend.CreateStandaloneChat(ctx, models.CreateStandaloneChatRequest{
			FolderID:           w.primary.Session().FolderID,
			Title:              title,
			SourceAnnotationID: c.Session().ActiveAnnotationID,
		})
		if err != nil {
			logging.Logger.Error("fail CreateStandaloneChat", "error", err)
			return fmt.Errorf("create standalone chat: %w", err)
		}
		c.session.FileID = created.FileID
		c.session.FileTitle = created.Title
		c.session.ActiveThreadID = created.ThreadID
		c.session.PendingTitle = ""
		w.secondaryOpen = true
	}

	return c.Ask(ctx, question)
}

// CloseSecondary unbinds the secondary panel. The thread and its messages
// survive on the backend.
func (w *Workspace) CloseSecondary() {
	w.secondary.Unbind()
	w.secondaryOpen = false
}

// DeleteAnnotation removes an annotation after confirmation and cascades:
// the derived thread's messages leave both panels, a panel filtered on
// the annotation returns to its document view, and a secondary panel left
// without a thread closes.
func (w *Workspace) DeleteAnnotation(ctx context.Context, annotationID string) error {
	a, err := w.store.Remove(ctx, annotationID)
	if err != nil {
		if errors.Is(err, ErrDeleteCancelled) {
			return nil
		}
		return err
	}
	w.clearPendingDelete()
	if a == nil {
		return nil
	}

	w.primary.HandleAnnotationDeleted(a)
	if w.secondaryOpen {
		if unbound := w.secondary.HandleAnnotationDeleted(a); unbound {
			w.CloseSecondary()
		}
	}
	return nil
}

/* ---------------- press-and-hold delete gesture ---------------- */

// BeginHighlightHold arms the hold timer for a pressed highlight. If the
// press lasts long enough the pending-delete affordance appears and the
// release's click is suppressed.
func (w *Workspace) BeginHighlightHold(panel PanelID, annotationID string, anchor Point) {
	w.mu.Lock()
	if w.holdTimer != nil {
		w.holdTimer.Cancel()
	}
	w.holdTimer = StartHoldTimer(DefaultHoldDuration, func() {
		w.mu.Lock()
		w.pendingDelete = &PendingDelete{Panel: panel, AnnotationID: annotationID, Anchor: anchor}
		w.suppressClick = true
		w.mu.Unlock()
	})
	w.mu.Unlock()
}

// EndHighlightHold cancels the hold on release. Returns the gesture's
// outcome so callers can tell a click-through from a completed hold.
func (w *Workspace) EndHighlightHold() HoldOutcome {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.holdTimer == nil {
		return HoldCancelled
	}
	outcome := w.holdTimer.Cancel()
	w.holdTimer = nil
	return outcome
}

// HighlightClicked handles a click on a rendered highlight, consuming the
// post-hold suppression when one is pending.
func (w *Workspace) HighlightClicked(ctx context.Context, panel PanelID, annotationID string, scrollOffset float64) error {
	w.mu.Lock()
	if w.suppressClick {
		w.suppressClick = false
		w.mu.Unlock()
		return nil
	}
	w.mu.Unlock()
	return w.ActivateAnnotation(ctx, panel, annotationID, scrollOffset)
}

// PendingDeletion returns the pending-delete state, if any.
func (w *Workspace) PendingDeletion() *PendingDelete {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.pendingDelete
}

// ConfirmPendingDelete consumes the pending-delete state and performs the
// deletion.
func (w *Workspace) ConfirmPendingDelete(ctx context.Context) error {
	w.mu.Lock()
	pd := w.pendingDelete
	w.mu.Unlock()
	if pd == nil {
		return nil
	}
	return w.DeleteAnnotation(ctx, pd.AnnotationID)
}

// CancelPendingDelete dismisses the delete affordance.
func (w *Workspace) CancelPendingDelete() { w.clearPendingDelete() }

func (w *Workspace) clearPendingDelete() {
	w.mu.Lock()
	w.pendingDelete = nil
	w.mu.Unlock()
}

/* ---------------- render-time data ---------------- */

// PageHighlights returns the fractional rectangles to paint on a page.
func (w *Workspace) PageHighlights(pageNumber int) []*models.Annotation {
	return w.store.VisibleOn(pageNumber)
}

// MessageRanges returns the compositor ranges for one rendered message in
// the given panel.
func (w *Workspace) MessageRanges(panel PanelID, messageID string) []markup.Range {
	return w.store.MessageRanges(messageID, w.controller(panel).ActiveAnnotation())
}

var (
	titleQuotes = regexp.MustCompile(`^["'“”]+|["'“”]+$`)
	titleSpaces = regexp.MustCompile(`\s+`)
)

// CleanChatTitle derives a panel title from selected text. Surrounding
// whitespace is trimmed before quote stripping so wrapped quotes go too.
func CleanChatTitle(raw string) string {
	cleaned := titleQuotes.ReplaceAllString(strings.TrimSpace(raw), "")
	cleaned = strings.TrimSpace(titleSpaces.ReplaceAllString(cleaned, " "))
	if cleaned == "" {
		return "New Chat"
	}
	if len([]rune(cleaned)) > 48 {
		return string([]rune(cleaned)[:48]) + "..."
	}
	return cleaned
}
