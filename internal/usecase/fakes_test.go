package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"skillswap/internal/domain/entity"
	"skillswap/pkg/errors"
)

// In-memory doubles for the Firestore-backed repositories. Timestamps are
// assigned from a monotonic counter so ordering assertions are stable.

type fakeMessageRepo struct {
	mu        sync.Mutex
	messages  map[string][]*entity.Message
	seq       int
	appendErr error
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{messages: make(map[string][]*entity.Message)}
}

var fakeEpoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

const fakeStep = time.Second

func (r *fakeMessageRepo) Append(ctx context.Context, conversationID string, message *entity.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.appendErr != nil {
		return r.appendErr
	}

	r.seq++
	if message.ID == "" {
		message.ID = fmt.Sprintf("msg-%04d", r.seq)
	}
	message.Timestamp = fakeEpoch.Add(time.Duration(r.seq) * time.Second)

	r.messages[conversationID] = append(r.messages[conversationID], message)
	return nil
}

func (r *fakeMessageRepo) ListByConversation(ctx context.Context, conversationID string) ([]*entity.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	list := append([]*entity.Message(nil), r.messages[conversationID]...)
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Timestamp.Equal(list[j].Timestamp) {
			return list[i].ID < list[j].ID
		}
		return list[i].Timestamp.Before(list[j].Timestamp)
	})
	return list, nil
}

func (r *fakeMessageRepo) MarkRead(ctx context.Context, conversationID, readerID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	updated := 0
	for _, message := range r.messages[conversationID] {
		if message.ReceiverID == readerID && !message.Read {
			message.Read = true
			updated++
		}
	}
	return updated, nil
}

func (r *fakeMessageRepo) Subscribe(ctx context.Context, conversationID string, fn func([]*entity.Message, error)) {
}

func (r *fakeMessageRepo) count(conversationID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.messages[conversationID])
}

type fakeIndexRepo struct {
	mu        sync.Mutex
	summaries map[string]map[string]*entity.ConversationSummary
	seq       int
	upsertErr error
}

func newFakeIndexRepo() *fakeIndexRepo {
	return &fakeIndexRepo{summaries: make(map[string]map[string]*entity.ConversationSummary)}
}

func (r *fakeIndexRepo) UpsertSummaryPair(ctx context.Context, senderID, receiverID, content string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.upsertErr != nil {
		return r.upsertErr
	}

	r.seq++
	ts := fakeEpoch.Add(time.Duration(r.seq) * time.Second)

	r.put(senderID, &entity.ConversationSummary{
		PeerID:              receiverID,
		LastMessage:         content,
		Timestamp:           ts,
		Unread:              false,
		LastMessageSentByMe: true,
	})
	r.put(receiverID, &entity.ConversationSummary{
		PeerID:              senderID,
		LastMessage:         content,
		Timestamp:           ts,
		Unread:              true,
		LastMessageSentByMe: false,
	})
	return nil
}

func (r *fakeIndexRepo) put(userID string, summary *entity.ConversationSummary) {
	if r.summaries[userID] == nil {
		r.summaries[userID] = make(map[string]*entity.ConversationSummary)
	}
	r.summaries[userID][summary.PeerID] = summary
}

func (r *fakeIndexRepo) MarkPeerRead(ctx context.Context, userID, peerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Mirrors the store's merge write, which creates the document when it
	// does not exist yet.
	summary, ok := r.summaries[userID][peerID]
	if !ok {
		summary = &entity.ConversationSummary{PeerID: peerID}
		r.put(userID, summary)
	}
	summary.Unread = false
	return nil
}

func (r *fakeIndexRepo) GetSummary(ctx context.Context, userID, peerID string) (*entity.ConversationSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	summary, ok := r.summaries[userID][peerID]
	if !ok {
		return nil, errors.NotFound("Conversation", nil)
	}
	return summary, nil
}

func (r *fakeIndexRepo) ListByUser(ctx context.Context, userID string) ([]*entity.ConversationSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var list []*entity.ConversationSummary
	for _, summary := range r.summaries[userID] {
		list = append(list, summary)
	}
	return list, nil
}

func (r *fakeIndexRepo) Subscribe(ctx context.Context, userID string, fn func([]*entity.ConversationSummary, error)) {
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

func newFakeUserRepo(users ...*entity.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[string]*entity.User)}
	for _, user := range users {
		repo.users[user.ID] = user
	}
	return repo
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	return user, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, errors.NotFound("User", nil)
}

func (r *fakeUserRepo) Update(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) List(ctx context.Context, limit, offset int) ([]*entity.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var list []*entity.User
	for _, user := range r.users {
		list = append(list, user)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, int64(len(list)), nil
}

type fakeProposalRepo struct {
	mu        sync.Mutex
	proposals map[string]*entity.SwapProposal
	seq       int
}

func newFakeProposalRepo() *fakeProposalRepo {
	return &fakeProposalRepo{proposals: make(map[string]*entity.SwapProposal)}
}

func (r *fakeProposalRepo) Create(ctx context.Context, proposal *entity.SwapProposal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	if proposal.ID == "" {
		proposal.ID = fmt.Sprintf("prop-%04d", r.seq)
	}
	proposal.CreatedAt = fakeEpoch.Add(time.Duration(r.seq) * time.Minute)
	proposal.UpdatedAt = proposal.CreatedAt

	r.proposals[proposal.ID] = proposal
	return nil
}

func (r *fakeProposalRepo) GetByID(ctx context.Context, id string) (*entity.SwapProposal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	proposal, ok := r.proposals[id]
	if !ok {
		return nil, errors.NotFound("Proposal", nil)
	}
	return proposal, nil
}

func (r *fakeProposalRepo) Update(ctx context.Context, proposal *entity.SwapProposal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.proposals[proposal.ID]; !ok {
		return errors.NotFound("Proposal", nil)
	}
	r.proposals[proposal.ID] = proposal
	return nil
}

func (r *fakeProposalRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entity.SwapProposal, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var list []*entity.SwapProposal
	for _, proposal := range r.proposals {
		if proposal.ProposerID == userID || proposal.RecipientID == userID {
			list = append(list, proposal)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, int64(len(list)), nil
}
