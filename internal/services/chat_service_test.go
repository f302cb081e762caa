package services

import (
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"fwork_backend/internal/models"
	"fwork_backend/internal/models/chat"
	"fwork_backend/internal/repositories"
	"fwork_backend/internal/services/dto"
)

func openChatTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Notification{},
		&models.NotificationPreference{},
		&chat.Conversation{},
		&chat.ConversationParticipant{},
		&chat.Message{},
	))
	return db
}

func seedConversation(t *testing.T, db *gorm.DB, repo repositories.ChatRepository, userA, userB string) *chat.Conversation {
	t.Helper()
	conv := &chat.Conversation{
		PairKey: chat.PairKeyFor(userA, userB),
		Participants: []chat.ConversationParticipant{
			{UserID: userA},
			{UserID: userB},
		},
	}
	require.NoError(t, repo.CreateConversation(db, conv))
	return conv
}

// delayedPairHit hides the pair's conversation from the first lookup, the
// interleaving where another request commits the row between the initial
// read and the insert.
type delayedPairHit struct {
	repositories.ChatRepository
	misses int
}

func (r *delayedPairHit) FindConversationByPairKey(db *gorm.DB, pairKey string) (*chat.Conversation, error) {
	if r.misses > 0 {
		r.misses--
		return nil, repositories.ErrConversationNotFound
	}
	return r.ChatRepository.FindConversationByPairKey(db, pairKey)
}

func TestCreateConversationReportsPairConflict(t *testing.T) {
	db := openChatTestDB(t)
	repo := repositories.NewChatRepository()
	alice := seedUser(t, db, "alice.pair@test.local")
	bob := seedUser(t, db, "bob.pair@test.local")

	winner := seedConversation(t, db, repo, alice.ID, bob.ID)

	loser := &chat.Conversation{
		PairKey: chat.PairKeyFor(alice.ID, bob.ID),
		Participants: []chat.ConversationParticipant{
			{UserID: alice.ID},
			{UserID: bob.ID},
		},
	}
	err := repo.CreateConversation(db, loser)
	require.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	var conversations int64
	require.NoError(t, db.Model(&chat.Conversation{}).
		Where("pair_key = ?", winner.PairKey).Count(&conversations).Error)
	assert.Equal(t, int64(1), conversations)

	var participants int64
	require.NoError(t, db.Model(&chat.ConversationParticipant{}).
		Where("conversation_id = ?", winner.ID).Count(&participants).Error)
	assert.Equal(t, int64(2), participants)
}

func TestStartConversationRaceLoserGetsWinnerRow(t *testing.T) {
	db := openChatTestDB(t)
	realRepo := repositories.NewChatRepository()
	alice := seedUser(t, db, "alice.race@test.local")
	bob := seedUser(t, db, "bob.race@test.local")

	winner := seedConversation(t, db, realRepo, alice.ID, bob.ID)

	stub := &delayedPairHit{ChatRepository: realRepo, misses: 1}
	svc := NewChatService(stub, repositories.NewUserRepository(), newDispatcher(nil))

	resp, created, err := svc.GetOrCreateConversation(db, alice.ID, &dto.StartConversationRequest{UserID: bob.ID})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, winner.ID, resp.ID)
	assert.ElementsMatch(t, []string{alice.ID, bob.ID}, resp.ParticipantIDs)

	var conversations int64
	require.NoError(t, db.Model(&chat.Conversation{}).
		Where("pair_key = ?", winner.PairKey).Count(&conversations).Error)
	assert.Equal(t, int64(1), conversations)
}

func TestCreateConversationRollsBackWhenParticipantsFail(t *testing.T) {
	db := openChatTestDB(t)
	repo := repositories.NewChatRepository()
	carol := seedUser(t, db, "carol.atomic@test.local")
	dave := seedUser(t, db, "dave.atomic@test.local")
	alice := seedUser(t, db, "alice.atomic@test.local")
	bob := seedUser(t, db, "bob.atomic@test.local")

	existing := seedConversation(t, db, repo, carol.ID, dave.ID)
	pairKey := chat.PairKeyFor(alice.ID, bob.ID)

	// Reusing an existing participant primary key makes the second insert of
	// the create fail after the conversation row is already written.
	broken := &chat.Conversation{
		PairKey: pairKey,
		Participants: []chat.ConversationParticipant{
			{UserID: alice.ID},
			{ID: existing.Participants[0].ID, UserID: bob.ID},
		},
	}
	require.Error(t, repo.CreateConversation(db, broken))

	// The failed create leaves nothing behind, so the pair key is not burned
	// and the pair can still be connected.
	_, err := repo.FindConversationByPairKey(db, pairKey)
	require.ErrorIs(t, err, repositories.ErrConversationNotFound)

	clean := seedConversation(t, db, repo, alice.ID, bob.ID)
	fetched, err := repo.FindConversationByID(db, clean.ID)
	require.NoError(t, err)
	assert.Len(t, fetched.Participants, 2)
}

func TestUnreadIncrementsAreNotLost(t *testing.T) {
	db := openChatTestDB(t)
	repo := repositories.NewChatRepository()
	alice := seedUser(t, db, "alice.unread@test.local")
	bob := seedUser(t, db, "bob.unread@test.local")

	conv := seedConversation(t, db, repo, alice.ID, bob.ID)

	const sends = 20
	errs := make(chan error, sends)
	var wg sync.WaitGroup
	for i := 0; i < sends; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- repo.IncrementUnread(db, conv.ID, bob.ID)
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	count, err := repo.GetUnreadCount(db, conv.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(sends), count)

	// A reset zeroes the ledger and counting starts over.
	require.NoError(t, repo.ResetUnread(db, conv.ID, bob.ID))
	count, err = repo.GetUnreadCount(db, conv.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	require.NoError(t, repo.IncrementUnread(db, conv.ID, bob.ID))
	count, err = repo.GetUnreadCount(db, conv.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
