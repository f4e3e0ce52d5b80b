package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/photogram/internal/model"
	"github.com/d60-Lab/photogram/internal/testutil"
)

type reactionKey struct {
	Kind  model.ReactionKind
	Actor string
	Text  string
}

func keys(items []model.Reaction) []reactionKey {
	out := make([]reactionKey, 0, len(items))
	for _, it := range items {
		out = append(out, reactionKey{Kind: it.Kind, Actor: it.ActorUsername, Text: it.Text})
	}
	return out
}

func TestReactionFeed_MergesNewestFirstAndCaps(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewReactionRepository(db)
	ctx := context.Background()

	me := testutil.CreateUser(t, db, "me")
	ann := testutil.CreateUser(t, db, "ann")
	bob := testutil.CreateUser(t, db, "bob")
	stranger := testutil.CreateUser(t, db, "stranger")

	base := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	at := func(m int) time.Time { return base.Add(time.Duration(m) * time.Minute) }

	myPost := testutil.CreatePost(t, db, me, at(0))
	otherPost := testutil.CreatePost(t, db, stranger, at(0))

	testutil.CreateComment(t, db, ann, myPost, "first!", at(1))
	mine := testutil.CreateComment(t, db, me, otherPost, "my comment", at(2))
	require.NoError(t, db.Omit(clause.Associations).Create(&model.LikePost{
		ID: uuid.NewString(), UserID: bob.ID, PostID: myPost.ID, CreatedAt: at(3),
	}).Error)
	require.NoError(t, db.Omit(clause.Associations).Create(&model.LikeComment{
		ID: uuid.NewString(), UserID: ann.ID, CommentID: mine.ID, CreatedAt: at(4),
	}).Error)
	require.NoError(t, db.Omit(clause.Associations).Create(&model.Subscription{
		ID: uuid.NewString(), FollowerID: bob.ID, FollowedID: me.ID, CreatedAt: at(5),
	}).Error)
	// 与我无关的互动不应出现
	testutil.CreateComment(t, db, ann, otherPost, "not for me", at(6))

	all, err := repo.ListForUser(ctx, me.ID, 0)
	require.NoError(t, err)
	want := []reactionKey{
		{Kind: model.ReactionFollow, Actor: "bob"},
		{Kind: model.ReactionCommentLike, Actor: "ann", Text: "my comment"},
		{Kind: model.ReactionPostLike, Actor: "bob"},
		{Kind: model.ReactionComment, Actor: "ann", Text: "first!"},
	}
	if diff := cmp.Diff(want, keys(all)); diff != "" {
		t.Fatalf("reaction feed mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, myPost.ID, all[2].PostID)
	require.Equal(t, otherPost.ID, all[1].PostID)

	capped, err := repo.ListForUser(ctx, me.ID, 2)
	require.NoError(t, err)
	if diff := cmp.Diff(want[:2], keys(capped)); diff != "" {
		t.Fatalf("capped feed mismatch (-want +got):\n%s", diff)
	}

	theirs, err := repo.ListForUser(ctx, stranger.ID, 10)
	require.NoError(t, err)
	wantStranger := []reactionKey{
		{Kind: model.ReactionComment, Actor: "ann", Text: "not for me"},
		{Kind: model.ReactionComment, Actor: "me", Text: "my comment"},
	}
	if diff := cmp.Diff(wantStranger, keys(theirs)); diff != "" {
		t.Fatalf("stranger feed mismatch (-want +got):\n%s", diff)
	}
}
