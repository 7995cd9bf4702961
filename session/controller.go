package session

import (
	"context"
	"fmt"

	"github.com/cindypham04/engrave/client"
	"github.com/cindypham04/engrave/models"
	"github.com/cindypham04/engrave/pkg/logging"
)

// ViewState is the panel state machine: no file, full document thread, or
// filtered down to one annotation's messages.
type ViewState int

const (
	Unbound ViewState = iota
	DocumentView
	AnnotationView
)

// DefaultQuestion is sent when the user submits an empty question.
const DefaultQuestion = "Explain this in simple terms."

// PanelSession is the explicit, serializable per-panel state, mutated only
// through Controller transitions.
type PanelSession struct {
	FileID               string
	FileTitle            string
	FolderID             string
	ActiveThreadID       string
	Threads              []models.ChatThread
	AllMessages          []models.ChatMessage
	VisibleMessages      []models.ChatMessage
	ActiveAnnotationID   string
	LastFullScrollOffset float64
	ScrollSaved          bool
	PendingTitle         string
	Loading              bool
}

// Controller drives one conversation panel.
type Controller struct {
	id      PanelID
	backend client.Backend
	store   *AnnotationStore
	epoch   *Epoch
	state   ViewState
	session PanelSession
}

func NewController(id PanelID, backend client.Backend, store *AnnotationStore, epoch *Epoch) *Controller {
	return &Controller{
		id:      id,
		backend: backend,
		store:   store,
		epoch:   epoch,
	}
}

func (c *Controller) State() ViewState { return c.state }

func (c *Controller) Session() PanelSession { return c.session }

func (c *Controller) ActiveAnnotation() string { return c.session.ActiveAnnotationID }

// LoadFile loads the file's full state and binds the panel to its
// document thread. A response arriving after the active file changed
// again is silently dropped and nil state is returned.
func (c *Controller) LoadFile(ctx context.Context, fileID string) (*models.FileState, error) {
	epochAt := c.epoch.Current()
	c.session.Loading = true

	state, err := c.backend.LoadFileState(ctx, fileID)
	if err != nil {
		c.session.Loading = false
		logging.Logger.Error("fail LoadFile", "error", err, "fileID", fileID)
		return nil, fmt.Errorf("load file state: %w", err)
	}
	if epochAt != c.epoch.Current() {
		c.session.Loading = false
		logging.Logger.Debug("drop stale file state", "fileID", fileID)
		return nil, nil
	}

	c.session = PanelSession{
		FileID:          state.File.ID,
		FileTitle:       state.File.Title,
		FolderID:        state.File.FolderID,
		ActiveThreadID:  state.ActiveThreadID,
		Threads:         state.Threads,
		AllMessages:     state.Messages,
		VisibleMessages: append([]models.ChatMessage(nil), state.Messages...),
	}
	c.state = DocumentView
	return state, nil
}

// BindThread points the panel at an existing thread and loads its
// messages, used when the secondary panel opens on a derived thread.
func (c *Controller) BindThread(ctx context.Context, thread *models.ChatThread, title string) error {
	c.session = PanelSession{
		FileID:         thread.FileID,
		FileTitle:      title,
		ActiveThreadID: thread.ID,
	}
	c.state = DocumentView
	return c.reloadThreadMessages(ctx, thread.ID)
}

// BindPending prepares an unbound panel for a branch whose thread will be
// created lazily on the first ask.
func (c *Controller) BindPending(title, annotationID string) {
	c.session = PanelSession{
		PendingTitle:       title,
		ActiveAnnotationID: annotationID,
	}
	c.state = AnnotationView
}

// Unbind clears the panel entirely (secondary close). The thread and its
// messages are not deleted.
func (c *Controller) Unbind() {
	c.session = PanelSession{}
	c.state = Unbound
}

func (c *Controller) reloadThreadMessages(ctx context.Context, threadID string) error {
	epochAt := c.epoch.Current()
	msgs, err := c.backend.LoadThreadMessages(ctx, threadID)
	if err != nil {
		logging.Logger.Error("fail reloadThreadMessages", "error", err, "threadID", threadID)
		return fmt.Errorf("load thread messages: %w", err)
	}
	if epochAt != c.epoch.Current() {
		logging.Logger.Debug("drop stale thread messages", "threadID", threadID)
		return nil
	}
	c.session.AllMessages = msgs
	c.session.VisibleMessages = append([]models.ChatMessage(nil), msgs...)
	return nil
}

// ActivateAnnotation filters the panel down to the messages authored
// under the given annotation. If the annotation owns a derived thread
// that isn't the bound one, that thread's messages are loaded first. The
// caller passes the current scroll offset so BackToFull can restore it.
func (c *Controller) ActivateAnnotation(ctx context.Context, a *models.Annotation, scrollOffset float64) error {
	if c.state == Unbound {
		return nil
	}
	c.session.LastFullScrollOffset = scrollOffset
	c.session.ScrollSaved = true
	c.session.ActiveAnnotationID = a.ID

	if a.DerivedThreadID != "" && a.DerivedThreadID != c.session.ActiveThreadID {
		c.session.ActiveThreadID = a.DerivedThreadID
		if err := c.reloadThreadMessages(ctx, a.DerivedThreadID); err != nil {
			return err
		}
	}

	filtered := make([]models.ChatMessage, 0, len(c.session.AllMessages))
	for _, m := range c.session.AllMessages {
		if m.AnnotationID == a.ID {
			filtered = append(filtered, m)
		}
	}
	c.session.VisibleMessages = filtered
	c.state = AnnotationView
	return nil
}

// BackToFull clears the annotation filter, reloads the full message list
// and hands back the remembered scroll offset.
func (c *Controller) BackToFull(ctx context.Context) (float64, bool, error) {
	c.session.ActiveAnnotationID = ""
	if c.session.ActiveThreadID == "" {
		c.state = DocumentView
		return 0, false, nil
	}
	if err := c.reloadThreadMessages(ctx, c.session.ActiveThreadID); err != nil {
		return 0, false, err
	}
	c.state = DocumentView

	if !c.session.ScrollSaved {
		return 0, false, nil
	}
	offset := c.session.LastFullScrollOffset
	c.session.ScrollSaved = false
	return offset, true, nil
}

// Ask appends an optimistic user message, sends the question tagged with
// the active thread and annotation, and appends the assistant reply. The
// optimistic message is reconciled with its backend id by matching
// role+content+annotation+missing id, first match wins. On failure the
// optimistic message is kept and marked failed for retry.
func (c *Controller) Ask(ctx context.Context, question string) error {
	if c.session.ActiveThreadID == "" {
		doc := c.documentThread()
		if doc == nil {
			return fmt.Errorf("no thread bound to panel %s", c.id)
		}
		c.session.ActiveThreadID = doc.ID
	}

	if question == "" {
		question = DefaultQuestion
	}
	userMsg := models.ChatMessage{
		ThreadID:     c.session.ActiveThreadID,
		Role:         models.RoleUser,
		Content:      question,
		AnnotationID: c.session.ActiveAnnotationID,
		State:        models.MessageStatePending,
	}
	c.session.AllMessages = append(c.session.AllMessages, userMsg)
	c.session.VisibleMessages = append(c.session.VisibleMessages, userMsg)

	return c.send(ctx, userMsg)
}

// RetryAsk re-sends the most recent failed optimistic message.
func (c *Controller) RetryAsk(ctx context.Context) error {
	for i := len(c.session.AllMessages) - 1; i >= 0; i-- {
		m := c.session.AllMessages[i]
		if m.State == models.MessageStateFailed && m.Role == models.RoleUser && m.ID == "" {
			c.markOptimistic(m, models.MessageStatePending)
			return c.send(ctx, m)
		}
	}
	return nil
}

// send carries the thread and annotation captured when the message was
// authored, so a retry after leaving the filtered view re-sends the same
// question unchanged and the reply stays tagged with the original
// annotation.
func (c *Controller) send(ctx context.Context, userMsg models.ChatMessage) error {
	c.session.Loading = true
	res, err := c.backend.Ask(ctx, models.AskRequest{
		FileID:       c.session.FileID,
		ChatThreadID: userMsg.ThreadID,
		AnnotationID: userMsg.AnnotationID,
		Question:     userMsg.Content,
	})
	c.session.Loading = false
	if err != nil {
		c.markOptimistic(userMsg, models.MessageStateFailed)
		logging.Logger.Error("fail Ask", "error", err, "threadID", userMsg.ThreadID)
		return fmt.Errorf("ask: %w", err)
	}

	assistant := models.ChatMessage{
		ID:           res.AssistantMessageID,
		ThreadID:     userMsg.ThreadID,
		Role:         models.RoleAssistant,
		Content:      res.Answer,
		AnnotationID: userMsg.AnnotationID,
		State:        models.MessageStateSent,
	}
	c.session.AllMessages = append(c.session.AllMessages, assistant)
	if c.state != AnnotationView || assistant.AnnotationID == c.session.ActiveAnnotationID {
		c.session.VisibleMessages = append(c.session.VisibleMessages, assistant)
	}

	if res.UserMessageID != "" {
		c.reconcileOptimistic(userMsg, res.UserMessageID)
	} else {
		c.markOptimistic(userMsg, models.MessageStateSent)
	}
	return nil
}

// markOptimistic updates the state of the first optimistic message
// matching the given one, in both views.
func (c *Controller) markOptimistic(msg models.ChatMessage, state models.MessageState) {
	update := func(list []models.ChatMessage) {
		for i := range list {
			if list[i].ID == "" &&
				list[i].Role == msg.Role &&
				list[i].Content == msg.Content &&
				list[i].AnnotationID == msg.AnnotationID {
				list[i].State = state
				return
			}
		}
	}
	update(c.session.AllMessages)
	update(c.session.VisibleMessages)
}

func (c *Controller) reconcileOptimistic(msg models.ChatMessage, id string) {
	assign := func(list []models.ChatMessage) {
		for i := range list {
			if list[i].ID == "" &&
				list[i].Role == msg.Role &&
				list[i].Content == msg.Content &&
				list[i].AnnotationID == msg.AnnotationID {
				list[i].ID = id
				list[i].State = models.MessageStateSent
				return
			}
		}
	}
	assign(c.session.AllMessages)
	assign(c.session.VisibleMessages)
}

func (c *Controller) documentThread() *models.ChatThread {
	for i := range c.session.Threads {
		if c.session.Threads[i].IsDocumentThread() {
			return &c.session.Threads[i]
		}
	}
	return nil
}

// HandleAnnotationDeleted applies a cascade from the store: the derived
// thread's messages leave the panel and an active filter on the deleted
// annotation falls back to the document view.
func (c *Controller) HandleAnnotationDeleted(a *models.Annotation) (threadUnbound bool) {
	if c.state == Unbound || a == nil {
		return false
	}

	if a.DerivedThreadID != "" && a.DerivedThreadID == c.session.ActiveThreadID {
		c.session.ActiveThreadID = ""
		c.session.AllMessages = nil
		c.session.VisibleMessages = nil
		c.session.ActiveAnnotationID = ""
		c.state = DocumentView
		kept := c.session.Threads[:0]
		for _, t := range c.session.Threads {
			if t.ID != a.DerivedThreadID {
				kept = append(kept, t)
			}
		}
		c.session.Threads = kept
		return true
	}

	if a.DerivedThreadID != "" {
		kept := c.session.Threads[:0]
		for _, t := range c.session.Threads {
			if t.ID != a.DerivedThreadID {
				kept = append(kept, t)
			}
		}
		c.session.Threads = kept
	}

	if c.session.ActiveAnnotationID == a.ID {
		c.session.ActiveAnnotationID = ""
		c.session.VisibleMessages = append([]models.ChatMessage(nil), c.session.AllMessages...)
		c.state = DocumentView
	}
	return false
}
