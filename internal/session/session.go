// Package session keeps per-conversation bot state: the multi-step command
// waiting for a ForceReply answer and, in private chats, the selected group.
package session

import "sync"

// Action is a command waiting for a text reply.
type Action string

const (
	ActionNone        Action = ""
	ActionSuggest     Action = "suggest"
	ActionDeleteBook  Action = "delete_book"
	ActionRandom      Action = "random"
	ActionAddGenre    Action = "add_genre"
	ActionDeleteGenre Action = "delete_genre"
	ActionActiveGenre Action = "active_genre"
	ActionSaveBook    Action = "save_book"
	ActionSaveGenre   Action = "save_genre"
	ActionInitUsers   Action = "init_users"
)

// CancelText aborts a pending action.
const CancelText = "-"

// Key identifies a session: one user inside one conversation.
type Key struct {
	ConversationID int64
	UserID         int64
}

// Record is the state stored for a Key.
type Record struct {
	PendingAction   Action
	PromptMessageID int
	SelectedChatID  *int64
}

type Store struct {
	mu      sync.Mutex
	records map[Key]*Record
}

func NewStore() *Store {
	return &Store{records: make(map[Key]*Record)}
}

func (s *Store) record(key Key) *Record {
	rec, ok := s.records[key]
	if !ok {
		rec = &Record{}
		s.records[key] = rec
	}
	return rec
}

// Get returns a copy of the record for key.
func (s *Store) Get(key Key) Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec, ok := s.records[key]; ok {
		return *rec
	}
	return Record{}
}

// SetPending records that promptMessageID awaits a reply for action. Any
// previous pending action is replaced.
func (s *Store) SetPending(key Key, action Action, promptMessageID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.record(key)
	rec.PendingAction = action
	rec.PromptMessageID = promptMessageID
}

func (s *Store) ClearPending(key Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec, ok := s.records[key]; ok {
		rec.PendingAction = ActionNone
		rec.PromptMessageID = 0
	}
}

// Match reports the pending action a message should be routed to. A message
// matches only when it replies to the recorded prompt; anything else leaves
// the state untouched.
func (s *Store) Match(key Key, replyToMessageID int) (Action, bool) {
	if replyToMessageID == 0 {
		return ActionNone, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[key]
	if !ok || rec.PendingAction == ActionNone {
		return ActionNone, false
	}
	if rec.PromptMessageID != 0 && rec.PromptMessageID != replyToMessageID {
		return ActionNone, false
	}
	return rec.PendingAction, true
}

// Target resolves the chat a command operates on. In a group it is the group
// itself. In a private chat it is the selected chat, defaulting to (and
// persisting) the private chat.
func (s *Store) Target(key Key, chatID int64, private bool) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.record(key)
	if !private || rec.SelectedChatID == nil {
		id := chatID
		rec.SelectedChatID = &id
	}
	return *rec.SelectedChatID
}

// Selected returns the stored selection, nil if none was made yet.
func (s *Store) Selected(key Key) *int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[key]
	if !ok || rec.SelectedChatID == nil {
		return nil
	}
	id := *rec.SelectedChatID
	return &id
}

func (s *Store) SetSelected(key Key, chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record(key).SelectedChatID = &chatID
}
