package db

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"poshts/internal/models"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type StoreTestSuite struct {
	suite.Suite
	store *Store
	ctx   context.Context
}

func (s *StoreTestSuite) SetupTest() {
	name := strings.NewReplacer("/", "_", " ", "_").Replace(s.T().Name())
	g, err := Open("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	require.NoError(s.T(), err)
	require.NoError(s.T(), Migrate(g))
	s.T().Cleanup(func() { _ = Close(g) })

	s.store = NewStore(g)
	s.ctx = context.Background()
}

func (s *StoreTestSuite) createUser(email string) *models.User {
	delay := models.AutoReplyDisabled
	u := &models.User{Email: email, Password: "hash", Role: models.RoleUser, AutoCommentDelay: &delay}
	s.Require().NoError(s.store.CreateUser(s.ctx, u))
	return u
}

func (s *StoreTestSuite) TestCreateUserDuplicateEmail() {
	s.createUser("a@example.com")

	err := s.store.CreateUser(s.ctx, &models.User{Email: "a@example.com", Password: "x", Role: models.RoleUser})
	s.ErrorIs(err, ErrEmailTaken)
}

func (s *StoreTestSuite) TestUserLookups() {
	u := s.createUser("b@example.com")

	byID, err := s.store.GetUser(s.ctx, u.ID)
	s.Require().NoError(err)
	s.Equal("b@example.com", byID.Email)

	_, err = s.store.GetUserByEmail(s.ctx, "missing@example.com")
	s.ErrorIs(err, ErrNotFound)

	s.Require().NoError(s.store.UpdateUserPassword(s.ctx, "b@example.com", "new-hash"))
	s.ErrorIs(s.store.UpdateUserPassword(s.ctx, "missing@example.com", "h"), ErrNotFound)

	updated, err := s.store.SetAutoCommentDelay(s.ctx, u.ID, 5)
	s.Require().NoError(err)
	d, ok := updated.AutoReplyDelay()
	s.True(ok)
	s.Equal(5, d)

	s.Require().NoError(s.store.SetRole(s.ctx, u.ID, models.RoleAdmin))
	s.Error(s.store.SetRole(s.ctx, u.ID, models.Role("root")))

	users, err := s.store.ListUsers(s.ctx)
	s.Require().NoError(err)
	s.Len(users, 1)
	s.Equal(models.RoleAdmin, users[0].Role)
	s.Equal("new-hash", users[0].Password)
}

func (s *StoreTestSuite) TestPoshtRoundTrip() {
	u := s.createUser("c@example.com")
	p := &models.Posht{Title: "Hello", PoshtText: "world", UserID: u.ID}
	s.Require().NoError(s.store.CreatePosht(s.ctx, p))
	s.NotZero(p.ID)
	s.False(p.CreatedAt.IsZero())

	got, err := s.store.GetPosht(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Equal("Hello", got.Title)
	s.Equal("world", got.PoshtText)
	s.Equal(u.ID, got.UserID)
	s.False(got.IsBlocked)

	got.Title = "Edited"
	got.IsBlocked = true
	s.Require().NoError(s.store.UpdatePosht(s.ctx, got))

	again, err := s.store.GetPosht(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Equal("Edited", again.Title)
	s.True(again.IsBlocked)

	s.ErrorIs(s.store.UpdatePosht(s.ctx, &models.Posht{ID: 999, Title: "x"}), ErrNotFound)
}

func (s *StoreTestSuite) TestDeletePoshtCascadesComments() {
	u := s.createUser("d@example.com")
	p := &models.Posht{Title: "Hello", PoshtText: "world", UserID: u.ID}
	s.Require().NoError(s.store.CreatePosht(s.ctx, p))
	c := &models.Comment{CommentText: "hi", PoshtID: p.ID, UserID: u.ID}
	s.Require().NoError(s.store.CreateComment(s.ctx, c))

	deleted, err := s.store.DeletePosht(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Equal(p.ID, deleted.ID)

	_, err = s.store.GetComment(s.ctx, c.ID)
	s.ErrorIs(err, ErrNotFound)

	_, err = s.store.DeletePosht(s.ctx, p.ID)
	s.ErrorIs(err, ErrNotFound)
}

func (s *StoreTestSuite) TestCommentCRUD() {
	u := s.createUser("e@example.com")
	p := &models.Posht{Title: "Hello", PoshtText: "world", UserID: u.ID}
	s.Require().NoError(s.store.CreatePosht(s.ctx, p))

	c := &models.Comment{CommentText: "first", PoshtID: p.ID, UserID: u.ID}
	s.Require().NoError(s.store.CreateComment(s.ctx, c))

	c.CommentText = "edited"
	s.Require().NoError(s.store.UpdateComment(s.ctx, c))

	list, err := s.store.ListCommentsByPosht(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.Equal("edited", list[0].CommentText)

	deleted, err := s.store.DeleteComment(s.ctx, c.ID)
	s.Require().NoError(err)
	s.Equal("edited", deleted.CommentText)

	all, err := s.store.ListComments(s.ctx)
	s.Require().NoError(err)
	s.Empty(all)
}

func (s *StoreTestSuite) TestCommentStampsOrdered() {
	u := s.createUser("f@example.com")
	p := &models.Posht{Title: "Hello", PoshtText: "world", UserID: u.ID}
	s.Require().NoError(s.store.CreatePosht(s.ctx, p))

	late := time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC)
	early := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	s.Require().NoError(s.store.CreateComment(s.ctx, &models.Comment{CommentText: "b", PoshtID: p.ID, UserID: u.ID, CreatedAt: late, IsBlocked: true}))
	s.Require().NoError(s.store.CreateComment(s.ctx, &models.Comment{CommentText: "a", PoshtID: p.ID, UserID: u.ID, CreatedAt: early}))

	stamps, err := s.store.CommentStamps(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(stamps, 2)
	s.True(stamps[0].CreatedAt.Equal(early))
	s.False(stamps[0].IsBlocked)
	s.True(stamps[1].IsBlocked)
}

func TestStoreTestSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}

func TestOpenUnsupportedDriver(t *testing.T) {
	_, err := Open("mysql", "whatever")
	require.Error(t, err)
}
